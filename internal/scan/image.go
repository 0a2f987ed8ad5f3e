package scan

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrInvalidImageFormat = errors.New("invalid image format")
	ErrImageTooSmall      = errors.New("image too small")
	ErrImageTooLarge      = errors.New("image too large")
)

const (
	minBase64Length   = 100
	maxImageBytes     = 15 * 1024 * 1024
	base64ByteFactor  = 0.75
	dataURLPrefixMark = ";base64,"
)

var base64Alphabet = regexp.MustCompile(`^[A-Za-z0-9+/]*={0,2}$`)

// SanitizeImage strips an optional data-URL header from a base64 image
// payload and enforces alphabet and size bounds before any provider call.
func SanitizeImage(payload string) (string, error) {
	s := strings.TrimSpace(payload)
	if strings.HasPrefix(s, "data:") {
		idx := strings.Index(s, dataURLPrefixMark)
		if idx < 0 {
			return "", fmt.Errorf("data url missing base64 marker: %w", ErrInvalidImageFormat)
		}
		s = s[idx+len(dataURLPrefixMark):]
	}
	if !base64Alphabet.MatchString(s) {
		return "", ErrInvalidImageFormat
	}
	if len(s) < minBase64Length {
		return "", ErrImageTooSmall
	}
	if float64(len(s))*base64ByteFactor > maxImageBytes {
		return "", ErrImageTooLarge
	}
	return s, nil
}
