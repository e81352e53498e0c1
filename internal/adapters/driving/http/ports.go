package http

import (
	"errors"
	"time"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-audio/internal/metrics"
)

// ErrMissingService is returned when a required port is nil.
var ErrMissingService = errors.New("http: chat and transcription services are required")

// Ports holds the services the HTTP API dispatches to.
type Ports struct {
	Chat          driving.ChatService
	Transcription driving.TranscriptionService

	// Metrics is optional. When nil, /metrics responds 404.
	Metrics *metrics.Metrics
}

// Validate checks that the required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Chat == nil || p.Transcription == nil {
		return ErrMissingService
	}
	return nil
}

// Config holds listener and request limits.
type Config struct {
	Addr           string
	RequestTimeout time.Duration
	MaxUploadBytes int64

	// RateLimit is the sustained requests per second across all clients.
	// Zero disables limiting.
	RateLimit float64
	RateBurst int
}

// ConfigFromSettings maps server settings to a Config.
func ConfigFromSettings(s domain.ServerSettings) Config {
	return Config{
		Addr:           s.Addr,
		RequestTimeout: s.RequestTimeout,
		MaxUploadBytes: s.MaxUploadBytes,
		RateLimit:      s.RateLimit,
		RateBurst:      s.RateBurst,
	}
}
