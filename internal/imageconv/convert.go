// Package imageconv normalizes uploaded product shots into formats the
// try-on provider accepts. Admins drag in whatever their camera or
// design tool produced; WEBP in particular is rejected upstream.
package imageconv

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/kolesa-team/go-webp/decoder"
	"github.com/kolesa-team/go-webp/webp"
)

const jpegQuality = 90

// NeedsNormalization reports whether the payload must be re-encoded
// before provider upload. JPEG and PNG pass through as-is.
func NeedsNormalization(data []byte) bool {
	return isWEBP(data)
}

// ToJPEG re-encodes the image as JPEG.
func ToJPEG(data []byte) ([]byte, error) {
	img, err := decodeImage(data)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("imageconv: encode jpeg: %w", err)
	}
	return out.Bytes(), nil
}

// NormalizeDataURL rewrites a data URL holding a WEBP image into a JPEG
// data URL. Remote URLs and already-supported formats pass through.
func NormalizeDataURL(source string) (string, error) {
	mime, payload, ok := parseDataURL(source)
	if !ok {
		return source, nil
	}
	if !strings.HasPrefix(mime, "image/") {
		return source, nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("imageconv: decode data url: %w", err)
	}
	if !NeedsNormalization(data) {
		return source, nil
	}
	converted, err := ToJPEG(data)
	if err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(converted), nil
}

func parseDataURL(source string) (mime, payload string, ok bool) {
	if !strings.HasPrefix(source, "data:") {
		return "", "", false
	}
	meta, rest, found := strings.Cut(strings.TrimPrefix(source, "data:"), ",")
	if !found {
		return "", "", false
	}
	mime, _, _ = strings.Cut(meta, ";")
	return mime, rest, true
}

func decodeImage(data []byte) (image.Image, error) {
	if isWEBP(data) {
		return webp.Decode(bytes.NewReader(data), &decoder.Options{})
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.New("imageconv: unsupported image payload")
	}
	return img, nil
}

func isWEBP(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	return string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP"
}
