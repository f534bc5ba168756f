package embedding

import (
	"context"
	"errors"
	"fmt"

	"hrassist/pkg/logger"
)

// ErrUnavailable is returned when the primary provider failed and no
// secondary provider is configured, or the secondary provider also failed.
var ErrUnavailable = errors.New("embedding unavailable")

// Provider produces vectors of a fixed target dimension, falling back from a
// primary embedding model to an optional secondary one.
//
// There is a single fallback attempt and no backoff; retrying is left to the
// caller since ingestion is fail-fast and chat converts failures to a
// user-safe reply anyway.
type Provider struct {
	primary   Embedding
	secondary Embedding // may be nil
	dim       int
	log       *logger.Logger
}

// NewProvider creates a Provider. secondary may be nil to disable fallback.
func NewProvider(primary, secondary Embedding, dim int, log *logger.Logger) *Provider {
	return &Provider{
		primary:   primary,
		secondary: secondary,
		dim:       dim,
		log:       log,
	}
}

// EmbedQuery embeds text with the primary provider, retries once against the
// secondary provider on any primary failure, and normalizes the resulting
// vector to the target dimension.
func (p *Provider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vec, err := p.primary.Embed(ctx, text)
	if err != nil {
		if p.secondary == nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		p.log.WithPayload(map[string]interface{}{
			"error": err.Error(),
		}).Warn("Primary embedding provider failed, falling back to secondary")

		vec, err = p.secondary.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("%w: secondary provider failed: %v", ErrUnavailable, err)
		}
	}

	return Normalize(vec, p.dim), nil
}
