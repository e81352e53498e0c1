package driving

import (
	"context"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
)

// ChatService answers questions about a transcript.
type ChatService interface {
	// Ask routes the question to the summary or vector strategy and
	// returns the answer. Empty question or transcript is rejected.
	Ask(ctx context.Context, question, transcript string) (*domain.Answer, error)
}
