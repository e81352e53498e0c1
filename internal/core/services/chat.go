package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driving"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatService answers questions about a transcript by routing them to the
// summary or vector engine of its indices.
type ChatService struct {
	indices *IndexCache
	router  *QueryRouter
}

// NewChatService creates a new chat service.
func NewChatService(indices *IndexCache, router *QueryRouter) *ChatService {
	return &ChatService{indices: indices, router: router}
}

// Ask answers question from transcript. Both must be non-blank; nothing is
// built for rejected input.
func (s *ChatService) Ask(ctx context.Context, question, transcript string) (*domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("%w: transcript is required", domain.ErrInvalidInput)
	}

	idx, err := s.indices.Get(ctx, transcript)
	if err != nil {
		return nil, err
	}
	defer idx.Release()

	return s.router.Route(ctx, question, idx.Summary.QueryEngine(), idx.Vector.QueryEngine())
}
