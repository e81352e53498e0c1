package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
)

// writeScript creates an executable stand-in for ffmpeg.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestNew_DefaultPath(t *testing.T) {
	assert.Equal(t, "ffmpeg", New(Config{}).Path())
	assert.Equal(t, "/opt/ffmpeg", New(Config{Path: "/opt/ffmpeg"}).Path())
}

func TestTranscode_PipesStdinToStdout(t *testing.T) {
	tr := New(Config{Path: writeScript(t, "cat")})

	out, err := tr.Transcode(context.Background(), []byte("RIFF-bytes"), "wav")

	require.NoError(t, err)
	assert.Equal(t, "RIFF-bytes", string(out))
}

func TestTranscode_PassesWAVArguments(t *testing.T) {
	tr := New(Config{Path: writeScript(t, `echo "$@"`)})

	out, err := tr.Transcode(context.Background(), []byte("x"), "wav")

	require.NoError(t, err)
	assert.Contains(t, string(out), "-i pipe:0 -f wav -acodec pcm_s16le pipe:1")
}

func TestTranscode_FailureCapturesStderr(t *testing.T) {
	tr := New(Config{Path: writeScript(t, `echo "pipe:0: Invalid data found when processing input" >&2; exit 1`)})

	_, err := tr.Transcode(context.Background(), []byte("garbage"), "wav")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTranscoding)

	var te *domain.TranscodingError
	require.True(t, errors.As(err, &te))
	assert.Contains(t, te.Stderr, "Invalid data found")
}

func TestTranscode_NoOutput(t *testing.T) {
	tr := New(Config{Path: writeScript(t, "cat >/dev/null")})

	_, err := tr.Transcode(context.Background(), []byte("x"), "wav")

	assert.ErrorIs(t, err, domain.ErrTranscoding)
}

func TestTranscode_EmptyInput(t *testing.T) {
	tr := New(Config{Path: "ffmpeg"})

	_, err := tr.Transcode(context.Background(), nil, "wav")

	assert.ErrorIs(t, err, domain.ErrTranscoding)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTranscode_MissingBinary(t *testing.T) {
	tr := New(Config{Path: filepath.Join(t.TempDir(), "no-such-ffmpeg")})

	_, err := tr.Transcode(context.Background(), []byte("x"), "wav")

	assert.ErrorIs(t, err, domain.ErrTranscoding)
	assert.Error(t, tr.Ping(context.Background()))
}

func TestTranscode_ContextCancelled(t *testing.T) {
	tr := New(Config{Path: writeScript(t, "exec sleep 5")})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := tr.Transcode(ctx, []byte("x"), "wav")

	assert.ErrorIs(t, err, domain.ErrTranscoding)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
