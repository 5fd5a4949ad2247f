// Package media post-processes narration audio on the playback side:
// repairing legacy WAV container headers and keeping independently
// buffered video and narration tracks in step.
package media

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"strings"
)

// Narration WAV payloads are always mono 16-bit PCM at 24 kHz; the
// repair rewrites the header from these constants instead of trusting
// the possibly-corrupt original fields.
const (
	wavSampleRate    = 24000
	wavChannels      = 1
	wavBitsPerSample = 16

	wavHeaderSize = 44
)

// IsWAV reports whether the payload carries the legacy RIFF/WAVE
// container magic. Modern self-describing containers (MP3) do not.
func IsWAV(b []byte) bool {
	return len(b) >= 12 &&
		bytes.Equal(b[0:4], []byte("RIFF")) &&
		bytes.Equal(b[8:12], []byte("WAVE"))
}

// RepairWAV rebuilds a canonical 44-byte WAV header around the payload's
// PCM data. Streaming synthesizers emit headers with zeroed or bogus
// size fields, which some decoders reject outright. Non-WAV payloads
// are returned untouched, and repairing an already-canonical file is a
// no-op byte for byte.
func RepairWAV(b []byte) []byte {
	if !IsWAV(b) || len(b) < wavHeaderSize {
		return b
	}
	data := b[dataOffset(b):]

	out := make([]byte, wavHeaderSize+len(data))
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+len(data)))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(out[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(out[22:24], wavChannels)
	binary.LittleEndian.PutUint32(out[24:28], wavSampleRate)
	binary.LittleEndian.PutUint32(out[28:32], wavSampleRate*wavChannels*wavBitsPerSample/8)
	binary.LittleEndian.PutUint16(out[32:34], wavChannels*wavBitsPerSample/8)
	binary.LittleEndian.PutUint16(out[34:36], wavBitsPerSample)

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(len(data)))
	copy(out[wavHeaderSize:], data)
	return out
}

// RepairDataURL applies RepairWAV to a narration data URL. Payloads
// that are not data URLs, not decodable, or not legacy WAV come back
// unchanged.
func RepairDataURL(source string) string {
	if !strings.HasPrefix(source, "data:") {
		return source
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(source, "data:"), ",")
	if !ok {
		return source
	}
	mime, _, _ := strings.Cut(meta, ";")
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return source
	}
	repaired := RepairWAV(raw)
	if bytes.Equal(repaired, raw) {
		return source
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(repaired)
}

// dataOffset locates the start of the PCM samples. Canonical files put
// the data chunk header at byte 36; files with extension chunks get a
// marker scan. When no marker exists the canonical offset is assumed.
func dataOffset(b []byte) int {
	idx := bytes.Index(b[12:], []byte("data"))
	if idx < 0 {
		return wavHeaderSize
	}
	offset := 12 + idx + 8 // skip chunk id and size field
	if offset > len(b) {
		return wavHeaderSize
	}
	return offset
}
