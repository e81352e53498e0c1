package http

import (
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
	"github.com/custodia-labs/sercha-audio/internal/core/services"
	"github.com/custodia-labs/sercha-audio/internal/normalisers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, ports *Ports, cfg Config) nethttp.Handler {
	t.Helper()
	server, err := NewServer(ports, cfg)
	require.NoError(t, err)
	return server.Handler()
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestUpload_Success(t *testing.T) {
	tr := &mockTranscriptionService{transcript: &domain.Transcript{Segments: []string{"hello", "", "world"}}}
	handler := newTestServer(t, &Ports{Chat: &mockChatService{}, Transcription: tr}, Config{})

	body, contentType := multipartBody(t, "audio", "meeting.webm", "audio/webm;codecs=opus", []byte("webm-bytes"))
	req := httptest.NewRequest(nethttp.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, nethttp.StatusOK, w.Code)
	assert.Equal(t, "hello  world", decodeBody(t, w)["transcript"])
	assert.Equal(t, "audio/webm;codecs=opus", tr.mediaType)
	assert.Equal(t, []byte("webm-bytes"), tr.raw)
}

func TestUpload_MissingFile(t *testing.T) {
	handler := newTestServer(t, &Ports{Chat: &mockChatService{}, Transcription: &mockTranscriptionService{}}, Config{})

	body, contentType := multipartBody(t, "other", "meeting.webm", "audio/webm", []byte("x"))
	req := httptest.NewRequest(nethttp.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, nethttp.StatusBadRequest, w.Code)
	assert.Equal(t, "No audio file received", decodeBody(t, w)["error"])
}

func TestUpload_NotMultipart(t *testing.T) {
	handler := newTestServer(t, &Ports{Chat: &mockChatService{}, Transcription: &mockTranscriptionService{}}, Config{})

	req := httptest.NewRequest(nethttp.MethodPost, "/upload", strings.NewReader("raw"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, nethttp.StatusBadRequest, w.Code)
	assert.Equal(t, "No audio file received", decodeBody(t, w)["error"])
}

func TestUpload_UnsupportedFormat(t *testing.T) {
	transcription := services.NewTranscriptionService(
		normalisers.NewRegistry(), services.NewTranscriber(nil), 30*time.Second, nil)
	handler := newTestServer(t, &Ports{Chat: &mockChatService{}, Transcription: transcription}, Config{})

	body, contentType := multipartBody(t, "audio", "meeting.ogg", "audio/ogg", []byte("OggS"))
	req := httptest.NewRequest(nethttp.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, nethttp.StatusUnsupportedMediaType, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "audio/ogg")
}

func TestUpload_TooLarge(t *testing.T) {
	tr := &mockTranscriptionService{transcript: &domain.Transcript{}}
	handler := newTestServer(t, &Ports{Chat: &mockChatService{}, Transcription: tr}, Config{MaxUploadBytes: 1024})

	body, contentType := multipartBody(t, "audio", "meeting.mp3", "audio/mpeg", make([]byte, 4096))
	req := httptest.NewRequest(nethttp.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, nethttp.StatusRequestEntityTooLarge, w.Code)
	assert.Nil(t, tr.raw)
}

func TestUpload_TranscriptionFailure(t *testing.T) {
	tr := &mockTranscriptionService{err: &domain.TranscriptionError{ChunkIndex: 1, Err: errors.New("secret upstream detail")}}
	handler := newTestServer(t, &Ports{Chat: &mockChatService{}, Transcription: tr}, Config{})

	body, contentType := multipartBody(t, "audio", "meeting.mp3", "audio/mpeg", []byte("mp3"))
	req := httptest.NewRequest(nethttp.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, nethttp.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), "secret upstream detail")
}

func TestChat(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		chat       *mockChatService
		wantStatus int
		wantKey    string
		wantValue  string
		wantCalls  int
	}{
		{
			name:       "answers",
			body:       `{"question":"What was decided?","transcript":"We decided to ship."}`,
			chat:       &mockChatService{answer: &domain.Answer{Response: "To ship.", Tool: domain.ToolSummary}},
			wantStatus: nethttp.StatusOK,
			wantKey:    "response",
			wantValue:  "To ship.",
			wantCalls:  1,
		},
		{
			name:       "missing question",
			body:       `{"transcript":"text"}`,
			chat:       &mockChatService{},
			wantStatus: nethttp.StatusBadRequest,
			wantKey:    "error",
			wantValue:  "Missing question or transcript",
		},
		{
			name:       "blank transcript",
			body:       `{"question":"q","transcript":"   "}`,
			chat:       &mockChatService{},
			wantStatus: nethttp.StatusBadRequest,
			wantKey:    "error",
			wantValue:  "Missing question or transcript",
		},
		{
			name:       "malformed json",
			body:       `{"question":`,
			chat:       &mockChatService{},
			wantStatus: nethttp.StatusBadRequest,
			wantKey:    "error",
			wantValue:  "Missing question or transcript",
		},
		{
			name:       "routing failure",
			body:       `{"question":"q","transcript":"t"}`,
			chat:       &mockChatService{err: &domain.QueryRoutingError{Stage: domain.RoutingStageSelect, Choice: 3, Err: errors.New("out of range")}},
			wantStatus: nethttp.StatusBadGateway,
			wantKey:    "error",
			wantValue:  "Could not answer question",
			wantCalls:  1,
		},
		{
			name:       "llm not configured",
			body:       `{"question":"q","transcript":"t"}`,
			chat:       &mockChatService{err: domain.ErrLLMUnavailable},
			wantStatus: nethttp.StatusServiceUnavailable,
			wantKey:    "error",
			wantValue:  "Model provider not configured",
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestServer(t, &Ports{Chat: tt.chat, Transcription: &mockTranscriptionService{}}, Config{})

			req := httptest.NewRequest(nethttp.MethodPost, "/chat", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantValue, decodeBody(t, w)[tt.wantKey])
			assert.Equal(t, tt.wantCalls, tt.chat.calls)
		})
	}
}

func TestHealth(t *testing.T) {
	handler := newTestServer(t, &Ports{Chat: &mockChatService{}, Transcription: &mockTranscriptionService{}}, Config{})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/healthz", nethttp.NoBody))

	assert.Equal(t, nethttp.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}
