package audio

import (
	"github.com/gabriel-vasile/mimetype"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
)

// DetectMediaType guesses the media type of a local file's contents.
// It is only used where no type is declared, such as files named on the
// command line; uploads always carry their own type.
func DetectMediaType(data []byte) string {
	m := mimetype.Detect(data)
	switch {
	case m.Is("video/webm"), m.Is(domain.MediaTypeWebM):
		return domain.MediaTypeWebM
	case m.Is(domain.MediaTypeMPEG):
		return domain.MediaTypeMPEG
	default:
		return domain.ParseMediaType(m.String())
	}
}
