package normalisers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/sercha-audio/internal/core/domain"
	"github.com/custodia-labs/sercha-audio/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-audio/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry maps declared media types to normalisers.
type Registry struct {
	mu          sync.RWMutex
	normalisers map[string]driven.AudioNormaliser
}

// NewRegistry creates a registry with the given normalisers registered.
func NewRegistry(normalisers ...driven.AudioNormaliser) *Registry {
	r := &Registry{normalisers: make(map[string]driven.AudioNormaliser)}
	for _, n := range normalisers {
		r.Register(n)
	}
	return r
}

// Register adds a normaliser for each of its media types.
// A later registration for the same type replaces the earlier one.
func (r *Registry) Register(n driven.AudioNormaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, mt := range n.SupportedMediaTypes() {
		r.normalisers[domain.ParseMediaType(mt)] = n
	}
}

// SupportedMediaTypes returns all registered media types in sorted order.
func (r *Registry) SupportedMediaTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.normalisers))
	for mt := range r.normalisers {
		types = append(types, mt)
	}
	sort.Strings(types)
	return types
}

// Normalise decodes raw audio with the normaliser registered for mediaType.
// Parameters such as codecs are ignored when matching.
func (r *Registry) Normalise(ctx context.Context, raw []byte, mediaType string) (*domain.Waveform, error) {
	mt := domain.ParseMediaType(mediaType)

	r.mu.RLock()
	n, ok := r.normalisers[mt]
	r.mu.RUnlock()
	if !ok {
		return nil, &domain.UnsupportedFormatError{MediaType: mediaType}
	}

	logger.Debug("Normalising %d bytes as %s", len(raw), mt)
	w, err := n.Normalise(ctx, raw, mt)
	if err != nil {
		return nil, err
	}
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("normalise %s: %w", mt, err)
	}

	logger.Debug("Decoded %d samples at %d Hz (%s)", w.Len(), w.SampleRate, w.Duration())
	return w, nil
}
