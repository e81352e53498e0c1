package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates the declared media type is not accepted.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrTranscoding indicates the external transcoder failed.
	ErrTranscoding = errors.New("transcoding failed")

	// ErrTranscription indicates a chunk could not be transcribed.
	ErrTranscription = errors.New("transcription failed")

	// ErrEmptyTranscript indicates there is no text to index.
	ErrEmptyTranscript = errors.New("empty transcript")

	// ErrQueryRouting indicates the router could not produce an answer.
	ErrQueryRouting = errors.New("query routing failed")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrSpeechUnavailable indicates the speech-to-text service is not configured.
	ErrSpeechUnavailable = errors.New("speech-to-text service unavailable")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")
)

// UnsupportedFormatError reports a media type outside the accepted set.
type UnsupportedFormatError struct {
	MediaType string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported audio format %q", e.MediaType)
}

// Is matches ErrUnsupportedFormat.
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// TranscodingError carries the transcoder's diagnostic output.
type TranscodingError struct {
	Stderr string
	Err    error
}

func (e *TranscodingError) Error() string {
	msg := "transcoding failed"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + lastLine(s)
	}
	return msg
}

func (e *TranscodingError) Unwrap() error { return e.Err }

// Is matches ErrTranscoding.
func (e *TranscodingError) Is(target error) bool {
	return target == ErrTranscoding
}

// TranscriptionError identifies the chunk whose transcription failed.
type TranscriptionError struct {
	ChunkIndex int
	Err        error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed at chunk %d: %v", e.ChunkIndex, e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// Is matches ErrTranscription.
func (e *TranscriptionError) Is(target error) bool {
	return target == ErrTranscription
}

// EmptyTranscriptError is returned when the indexer receives no usable text.
type EmptyTranscriptError struct{}

func (e *EmptyTranscriptError) Error() string {
	return ErrEmptyTranscript.Error()
}

// Is matches ErrEmptyTranscript.
func (e *EmptyTranscriptError) Is(target error) bool {
	return target == ErrEmptyTranscript
}

// RoutingStage names the step of query routing that failed.
type RoutingStage string

// Routing stages.
const (
	RoutingStageSelect RoutingStage = "select"
	RoutingStageQuery  RoutingStage = "query"
)

// QueryRoutingError reports a selection or query engine failure.
// Choice is the 1-based choice returned by the selector, or 0 if none was parsed.
type QueryRoutingError struct {
	Stage  RoutingStage
	Choice int
	Err    error
}

func (e *QueryRoutingError) Error() string {
	if e.Stage == RoutingStageSelect && e.Choice != 0 {
		return fmt.Sprintf("query routing failed at %s (choice %d): %v", e.Stage, e.Choice, e.Err)
	}
	return fmt.Sprintf("query routing failed at %s: %v", e.Stage, e.Err)
}

func (e *QueryRoutingError) Unwrap() error { return e.Err }

// Is matches ErrQueryRouting.
func (e *QueryRoutingError) Is(target error) bool {
	return target == ErrQueryRouting
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
