package http

import (
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/sercha-audio/internal/logger"
)

const (
	msgNoAudio         = "No audio file received"
	msgMissingQuestion = "Missing question or transcript"
	uploadFieldName    = "audio"
)

type uploadResponse struct {
	Transcript string `json:"transcript"`
}

type chatRequest struct {
	Question   string `json:"question"`
	Transcript string `json:"transcript"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// handleUpload transcribes the recording in the "audio" form field.
// The part's declared Content-Type selects the decoder.
func (s *Server) handleUpload(c *gin.Context) {
	fh, err := c.FormFile(uploadFieldName)
	if err != nil {
		var maxBytes *nethttp.MaxBytesError
		if errors.As(err, &maxBytes) {
			abortWithError(c, err)
			return
		}
		abortWithMessage(c, nethttp.StatusBadRequest, msgNoAudio)
		return
	}

	f, err := fh.Open()
	if err != nil {
		abortWithError(c, fmt.Errorf("opening upload: %w", err))
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		abortWithError(c, fmt.Errorf("reading upload: %w", err))
		return
	}

	mediaType := fh.Header.Get("Content-Type")
	logger.Debug("upload %q: %d bytes declared as %s", fh.Filename, len(raw), mediaType)

	transcript, err := s.ports.Transcription.Transcribe(c.Request.Context(), raw, mediaType)
	if err != nil {
		logger.Error("transcribing %q (%s): %v", fh.Filename, mediaType, err)
		abortWithError(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, uploadResponse{Transcript: transcript.Text()})
}

// handleChat answers a question about a transcript.
func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var maxBytes *nethttp.MaxBytesError
		if errors.As(err, &maxBytes) {
			abortWithError(c, err)
			return
		}
		abortWithMessage(c, nethttp.StatusBadRequest, msgMissingQuestion)
		return
	}
	if strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.Transcript) == "" {
		abortWithMessage(c, nethttp.StatusBadRequest, msgMissingQuestion)
		return
	}

	answer, err := s.ports.Chat.Ask(c.Request.Context(), req.Question, req.Transcript)
	if err != nil {
		logger.Error("answering %q: %v", req.Question, err)
		abortWithError(c, err)
		return
	}

	logger.Debug("answered via %s tool", answer.Tool)
	c.JSON(nethttp.StatusOK, chatResponse{Response: answer.Response})
}

func handleHealth(c *gin.Context) {
	c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
}
