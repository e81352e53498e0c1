package http

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
)

type mockChatService struct {
	answer *domain.Answer
	err    error
	calls  int
}

func (m *mockChatService) Ask(_ context.Context, _, _ string) (*domain.Answer, error) {
	m.calls++
	return m.answer, m.err
}

type mockTranscriptionService struct {
	transcript *domain.Transcript
	err        error
	mediaType  string
	raw        []byte
}

func (m *mockTranscriptionService) Transcribe(_ context.Context, raw []byte, mediaType string) (*domain.Transcript, error) {
	m.raw = raw
	m.mediaType = mediaType
	return m.transcript, m.err
}

// multipartBody builds a form with a single file part declared as mediaType.
func multipartBody(t *testing.T, field, filename, mediaType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", mediaType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}
