package http

import (
	"context"
	"errors"
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps an error to its HTTP status and the message shown to clients.
// Causes are logged by the caller and never leak into the message, except
// for client mistakes that the client can correct.
func statusFor(err error) (int, string) {
	var maxBytes *nethttp.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return nethttp.StatusRequestEntityTooLarge, "Upload too large"
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return nethttp.StatusUnsupportedMediaType, err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		return nethttp.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrEmptyTranscript):
		return nethttp.StatusBadRequest, "Transcript is empty"
	case errors.Is(err, domain.ErrLLMUnavailable),
		errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrSpeechUnavailable):
		return nethttp.StatusServiceUnavailable, "Model provider not configured"
	case errors.Is(err, domain.ErrTranscoding):
		return nethttp.StatusUnprocessableEntity, "Could not decode audio"
	case errors.Is(err, context.DeadlineExceeded):
		return nethttp.StatusGatewayTimeout, "Request timed out"
	case errors.Is(err, domain.ErrTranscription):
		return nethttp.StatusBadGateway, "Transcription failed"
	case errors.Is(err, domain.ErrQueryRouting):
		return nethttp.StatusBadGateway, "Could not answer question"
	default:
		return nethttp.StatusInternalServerError, "Internal server error"
	}
}

// abortWithError writes the JSON error for err and stops the chain.
func abortWithError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, errorResponse{Error: msg})
}

// abortWithMessage writes a fixed client error.
func abortWithMessage(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: msg})
}
