package media

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"strings"
	"testing"
)

// brokenWAV builds a RIFF/WAVE payload whose size fields are zeroed,
// the way streaming synthesizers emit them.
func brokenWAV(pcm []byte) []byte {
	out := make([]byte, 44+len(pcm))
	copy(out[0:4], "RIFF")
	copy(out[8:12], "WAVE")
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], 1)
	binary.LittleEndian.PutUint16(out[22:24], 2)      // bogus channel count
	binary.LittleEndian.PutUint32(out[24:28], 44100)  // bogus sample rate
	copy(out[36:40], "data")
	// riff and data sizes left zero
	copy(out[44:], pcm)
	return out
}

func TestRepairWAVRewritesHeader(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	repaired := RepairWAV(brokenWAV(pcm))

	if len(repaired) != 44+len(pcm) {
		t.Fatalf("len = %d, want %d", len(repaired), 44+len(pcm))
	}
	if got := binary.LittleEndian.Uint32(repaired[4:8]); got != uint32(36+len(pcm)) {
		t.Errorf("riff size = %d, want %d", got, 36+len(pcm))
	}
	if got := binary.LittleEndian.Uint16(repaired[22:24]); got != 1 {
		t.Errorf("channels = %d, want mono", got)
	}
	if got := binary.LittleEndian.Uint32(repaired[24:28]); got != 24000 {
		t.Errorf("sample rate = %d, want 24000", got)
	}
	if got := binary.LittleEndian.Uint16(repaired[34:36]); got != 16 {
		t.Errorf("bits per sample = %d, want 16", got)
	}
	if got := binary.LittleEndian.Uint32(repaired[28:32]); got != 24000*2 {
		t.Errorf("byte rate = %d, want %d", got, 24000*2)
	}
	if got := binary.LittleEndian.Uint32(repaired[40:44]); got != uint32(len(pcm)) {
		t.Errorf("data size = %d, want %d", got, len(pcm))
	}
	if !bytes.Equal(repaired[44:], pcm) {
		t.Error("pcm samples were altered")
	}
}

func TestRepairWAVIsIdempotent(t *testing.T) {
	once := RepairWAV(brokenWAV([]byte{9, 9, 9, 9}))
	twice := RepairWAV(once)
	if !bytes.Equal(once, twice) {
		t.Fatal("second repair changed bytes, want a byte-for-byte no-op")
	}
}

func TestRepairWAVLeavesNonWAVAlone(t *testing.T) {
	mp3 := append([]byte{0xFF, 0xFB, 0x90, 0x00}, []byte("frames")...)
	if got := RepairWAV(mp3); !bytes.Equal(got, mp3) {
		t.Fatal("mp3 payload was modified")
	}
	short := []byte("RIFF")
	if got := RepairWAV(short); !bytes.Equal(got, short) {
		t.Fatal("truncated payload was modified")
	}
}

func TestIsWAV(t *testing.T) {
	if !IsWAV(brokenWAV([]byte{0})) {
		t.Error("RIFF/WAVE payload not recognized")
	}
	if IsWAV([]byte{0xFF, 0xFB, 0x90, 0x00, 0, 0, 0, 0, 0, 0, 0, 0}) {
		t.Error("mp3 payload misdetected as WAV")
	}
}

func TestRepairDataURL(t *testing.T) {
	pcm := []byte{1, 2, 3, 4}
	wavURL := "data:audio/wav;base64," + base64.StdEncoding.EncodeToString(brokenWAV(pcm))
	repaired := RepairDataURL(wavURL)
	if repaired == wavURL {
		t.Fatal("broken wav data URL came back unchanged")
	}
	if !strings.HasPrefix(repaired, "data:audio/wav;base64,") {
		t.Fatalf("repaired URL = %q, want same mime preserved", repaired[:30])
	}
	if again := RepairDataURL(repaired); again != repaired {
		t.Fatal("repairing a repaired data URL changed it")
	}

	mp3URL := "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString([]byte{0xFF, 0xFB, 1, 2})
	if got := RepairDataURL(mp3URL); got != mp3URL {
		t.Fatal("mp3 data URL was modified")
	}
	if got := RepairDataURL("https://cdn.example.com/a.wav"); got != "https://cdn.example.com/a.wav" {
		t.Fatal("plain URL was modified")
	}
	if got := RepairDataURL("data:audio/wav;base64,!!!"); got != "data:audio/wav;base64,!!!" {
		t.Fatal("undecodable payload was modified")
	}
}
