// Package ffmpeg converts container audio formats by piping through an ffmpeg process.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-audio/internal/logger"
)

// DefaultBinary is the executable looked up on PATH when no path is configured.
const DefaultBinary = "ffmpeg"

// waitDelay bounds how long Run waits for pipes after the process is killed.
const waitDelay = 2 * time.Second

// Verify interface compliance.
var _ driven.Transcoder = (*Transcoder)(nil)

// Config holds the transcoder configuration.
type Config struct {
	// Path is the ffmpeg executable. Defaults to "ffmpeg" on PATH.
	Path string
}

// Transcoder runs ffmpeg with the payload on stdin and reads the result from stdout.
type Transcoder struct {
	path string
}

// New creates a transcoder.
func New(cfg Config) *Transcoder {
	path := cfg.Path
	if path == "" {
		path = DefaultBinary
	}
	return &Transcoder{path: path}
}

// Transcode converts raw audio to the named format.
// The sample rate and channel layout of the source are preserved for WAV output,
// which is written as 16-bit PCM.
func (t *Transcoder) Transcode(ctx context.Context, raw []byte, format string) ([]byte, error) {
	if len(raw) == 0 {
		return nil, &domain.TranscodingError{Err: fmt.Errorf("%w: empty input", domain.ErrInvalidInput)}
	}

	args := []string{"-hide_banner", "-loglevel", "error", "-i", "pipe:0", "-f", format}
	if format == "wav" {
		args = append(args, "-acodec", "pcm_s16le")
	}
	args = append(args, "pipe:1")

	// #nosec G204 -- path comes from local configuration and args are fixed
	cmd := exec.CommandContext(ctx, t.path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(raw)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	logger.Debug("ffmpeg: transcoding %d bytes to %s", len(raw), format)
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, &domain.TranscodingError{Stderr: stderr.String(), Err: err}
	}
	if stdout.Len() == 0 {
		return nil, &domain.TranscodingError{Stderr: stderr.String(), Err: errors.New("no output produced")}
	}

	logger.Debug("ffmpeg: produced %d bytes", stdout.Len())
	return stdout.Bytes(), nil
}

// Ping verifies the ffmpeg executable can be found.
func (t *Transcoder) Ping(_ context.Context) error {
	if _, err := exec.LookPath(t.path); err != nil {
		return fmt.Errorf("ffmpeg not available at %q: %w", t.path, err)
	}
	return nil
}

// Path returns the configured executable.
func (t *Transcoder) Path() string {
	return t.path
}
