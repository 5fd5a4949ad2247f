package elevenlabs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"showroom/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func audioResponse(data []byte) *http.Response {
	return &http.Response{
		StatusCode: 200,
		Header:     http.Header{"Content-Type": []string{"audio/mpeg"}},
		Body:       io.NopCloser(strings.NewReader(string(data))),
	}
}

func newTestClient(handler roundTripFunc) *Client {
	return NewClient(Options{
		APIKey:     "xi-test-key",
		BaseURL:    "https://tts.test/v1",
		HTTPClient: &http.Client{Transport: handler},
	})
}

func TestSynthesizeRequestShape(t *testing.T) {
	var captured *http.Request
	var payload speechPayload
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		captured = r
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		return audioResponse([]byte("mp3-bytes")), nil
	})

	result, err := client.Synthesize(context.Background(), SpeechRequest{
		Text:     "안녕하세요",
		Voice:    VoiceForGender(domain.GenderMale),
		Language: "ko",
	})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if captured.URL.Path != "/v1/text-to-speech/JBFqnCBsd6RMkjVDRZzb" {
		t.Errorf("path = %q, want the George voice endpoint", captured.URL.Path)
	}
	if got := captured.URL.Query().Get("output_format"); got != "mp3_44100_128" {
		t.Errorf("output_format = %q, want mp3_44100_128", got)
	}
	if got := captured.Header.Get("xi-api-key"); got != "xi-test-key" {
		t.Errorf("xi-api-key = %q", got)
	}
	if got := captured.Header.Get("Accept"); got != "audio/mpeg" {
		t.Errorf("Accept = %q, want audio/mpeg", got)
	}
	if payload.ModelID != speechModel {
		t.Errorf("model_id = %q, want %q", payload.ModelID, speechModel)
	}
	if payload.LanguageCode != "ko" {
		t.Errorf("language_code = %q, want ko", payload.LanguageCode)
	}
	vs := payload.VoiceSettings
	if vs.Stability != 0.5 || vs.SimilarityBoost != 0.75 || vs.Style != 0.3 || !vs.UseSpeakerBoost || vs.Speed != 1.0 {
		t.Errorf("voice_settings = %+v", vs)
	}

	if string(result.Data) != "mp3-bytes" || result.MIME != "audio/mpeg" {
		t.Errorf("result = %+v", result)
	}
	if got := result.DataURL(); !strings.HasPrefix(got, "data:audio/mpeg;base64,") {
		t.Errorf("DataURL = %q, want audio data URL", got)
	}
}

func TestSynthesizeRequiresAPIKey(t *testing.T) {
	client := NewClient(Options{})
	_, err := client.Synthesize(context.Background(), SpeechRequest{Text: "hello"})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("err = %v, want ErrMissingAPIKey", err)
	}
}

func TestSynthesizeReportsProviderError(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: 401,
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader(`{"detail":"invalid key"}`)),
		}, nil
	})

	_, err := client.Synthesize(context.Background(), SpeechRequest{Text: "hello"})
	if err == nil || !strings.Contains(err.Error(), "status 401") {
		t.Fatalf("err = %v, want status 401 error", err)
	}
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})
	if _, err := client.Synthesize(context.Background(), SpeechRequest{Text: "   "}); err == nil {
		t.Fatal("want error for blank text")
	}
}

func TestVoiceForGender(t *testing.T) {
	cases := []struct {
		gender domain.Gender
		want   string
	}{
		{domain.GenderFemale, "Alice"},
		{domain.GenderMale, "George"},
		{domain.GenderUnisex, "River"},
		{domain.Gender("unknown"), "Alice"},
	}
	for _, tc := range cases {
		if got := VoiceForGender(tc.gender); got.Name != tc.want {
			t.Errorf("VoiceForGender(%q) = %q, want %q", tc.gender, got.Name, tc.want)
		}
	}
}
