package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-audio/internal/logger"
	"github.com/custodia-labs/sercha-audio/internal/metrics"
)

// QueryRouter sends each question to exactly one query engine.
type QueryRouter struct {
	chooser driven.Chooser
	tools   []domain.ToolDescriptor
	metrics *metrics.Metrics
}

// NewQueryRouter creates a router over the summary and vector tools.
func NewQueryRouter(chooser driven.Chooser, m *metrics.Metrics) *QueryRouter {
	return &QueryRouter{
		chooser: chooser,
		tools:   domain.DefaultTools(),
		metrics: m,
	}
}

// Tools returns the tool descriptors shown to the chooser, in choice order.
func (r *QueryRouter) Tools() []domain.ToolDescriptor {
	return r.tools
}

// Answer routes the question and returns the chosen engine's response.
func (r *QueryRouter) Answer(ctx context.Context, question string, summary, vector driven.QueryEngine) (string, error) {
	a, err := r.Route(ctx, question, summary, vector)
	if err != nil {
		return "", err
	}
	return a.Response, nil
}

// Route picks a tool for the question and queries it. An invalid choice or
// an engine failure is returned as a *domain.QueryRoutingError; the other
// engine is never tried.
func (r *QueryRouter) Route(ctx context.Context, question string, summary, vector driven.QueryEngine) (*domain.Answer, error) {
	engines := map[domain.ToolKind]driven.QueryEngine{
		domain.ToolSummary: summary,
		domain.ToolVector:  vector,
	}

	decision, err := r.chooser.Choose(ctx, question, r.tools)
	if err != nil {
		return nil, asRoutingError(domain.RoutingStageSelect, 0, err)
	}
	if decision.Index < 0 || decision.Index >= len(r.tools) {
		return nil, &domain.QueryRoutingError{
			Stage:  domain.RoutingStageSelect,
			Choice: decision.Index + 1,
			Err:    fmt.Errorf("choice out of range [1, %d]", len(r.tools)),
		}
	}

	tool := r.tools[decision.Index]
	engine := engines[tool.Kind]
	if engine == nil {
		return nil, &domain.QueryRoutingError{
			Stage:  domain.RoutingStageQuery,
			Choice: decision.Index + 1,
			Err:    fmt.Errorf("no engine for tool %s", tool.Kind),
		}
	}

	logger.Debug("router selected %s: %s", tool.Kind, decision.Reason)
	r.metrics.RecordRouterDecision(tool.Kind.String())

	response, err := engine.Query(ctx, question)
	if err != nil {
		return nil, asRoutingError(domain.RoutingStageQuery, decision.Index+1, err)
	}

	return &domain.Answer{
		Response: response,
		Tool:     tool.Kind,
		Reason:   decision.Reason,
	}, nil
}

// asRoutingError keeps an existing routing error and wraps anything else.
func asRoutingError(stage domain.RoutingStage, choice int, err error) error {
	var qre *domain.QueryRoutingError
	if errors.As(err, &qre) {
		return err
	}
	return &domain.QueryRoutingError{Stage: stage, Choice: choice, Err: err}
}
