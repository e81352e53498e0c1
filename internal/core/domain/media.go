package domain

import (
	"mime"
	"strings"
)

// Accepted audio media types.
const (
	MediaTypeWebM = "audio/webm"
	MediaTypeMPEG = "audio/mpeg"
	MediaTypeMP3  = "audio/mp3"
)

// SupportedMediaTypes returns the media types accepted for upload.
func SupportedMediaTypes() []string {
	return []string{MediaTypeWebM, MediaTypeMPEG, MediaTypeMP3}
}

// ParseMediaType returns the lower-cased base type of a declared media type,
// dropping any parameters such as codecs. The payload is never inspected.
func ParseMediaType(declared string) string {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(declared); err == nil {
		return mt
	}
	base, _, _ := strings.Cut(declared, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
