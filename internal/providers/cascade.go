// Package providers implements the model backends that turn questions into
// SQL and the ordered cascade across them.
package providers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dukaan-ai/salesbot/internal/domain"
	"github.com/dukaan-ai/salesbot/internal/metrics"
	"github.com/dukaan-ai/salesbot/internal/schema"
	"github.com/dukaan-ai/salesbot/internal/sqlextract"
)

const defaultAttemptTimeout = 20 * time.Second

// Cascade tries providers strictly in order: the primaries first, then
// exactly one fallback. Cheaper or higher-quota providers go first; the
// fallback is the known-good large model reserved as last resort. The first
// provider whose completion yields an extractable SELECT wins; there is no
// quality comparison across providers.
type Cascade struct {
	primaries       []domain.ModelProvider
	fallback        domain.ModelProvider
	catalog         *schema.Catalog
	expiryAlertDays int
	attemptTimeout  time.Duration
	log             *zap.Logger
}

func NewCascade(primaries []domain.ModelProvider, fallback domain.ModelProvider, cat *schema.Catalog, expiryAlertDays int, log *zap.Logger) *Cascade {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cascade{
		primaries:       primaries,
		fallback:        fallback,
		catalog:         cat,
		expiryAlertDays: expiryAlertDays,
		attemptTimeout:  defaultAttemptTimeout,
		log:             log,
	}
}

// SetAttemptTimeout bounds each upstream call so a hung provider cannot
// stall the whole cascade.
func (c *Cascade) SetAttemptTimeout(d time.Duration) {
	if d > 0 {
		c.attemptTimeout = d
	}
}

// Generate runs the cascade for one request. Provider failures (network
// errors, bad payloads, completions without a SELECT) are logged and the
// next provider is tried; only after the fallback also fails does Generate
// return ErrGenerationExhausted.
func (c *Cascade) Generate(ctx context.Context, req domain.GenerationRequest) (domain.CandidateSQL, error) {
	prompt := BuildPrompt(req, c.catalog, c.expiryAlertDays)

	ordered := make([]domain.ModelProvider, 0, len(c.primaries)+1)
	ordered = append(ordered, c.primaries...)
	if c.fallback != nil {
		ordered = append(ordered, c.fallback)
	}

	for i, p := range ordered {
		if err := ctx.Err(); err != nil {
			return domain.CandidateSQL{}, err
		}

		raw, err := c.attempt(ctx, p, prompt)
		if err != nil {
			metrics.ProviderAttempts.WithLabelValues(p.Name(), "error").Inc()
			c.log.Warn("provider failed, advancing cascade",
				zap.String("provider", p.Name()),
				zap.Int("attempt", i+1),
				zap.Error(err))
			continue
		}

		stmt, err := sqlextract.Extract(raw)
		if err != nil {
			metrics.ProviderAttempts.WithLabelValues(p.Name(), "not_sql").Inc()
			c.log.Warn("completion contains no SELECT, advancing cascade",
				zap.String("provider", p.Name()),
				zap.Int("attempt", i+1))
			continue
		}

		metrics.ProviderAttempts.WithLabelValues(p.Name(), "ok").Inc()
		c.log.Info("sql generated",
			zap.String("provider", p.Name()),
			zap.Int("attempt", i+1))
		return domain.CandidateSQL{Text: stmt, SourceProvider: p.Name()}, nil
	}

	metrics.GenerationExhausted.Inc()
	return domain.CandidateSQL{}, domain.ErrGenerationExhausted
}

// attempt bounds a single upstream call. A timed-out provider is treated
// like any other failure; the caller's own cancellation aborts the cascade
// at the top of the next loop iteration.
func (c *Cascade) attempt(ctx context.Context, p domain.ModelProvider, prompt domain.Prompt) (string, error) {
	actx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()
	return p.Generate(actx, prompt)
}
