package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dukaan-ai/salesbot/internal/domain"
	"github.com/dukaan-ai/salesbot/internal/format"
)

// QueryService runs the full question-to-answer pipeline: resolve the
// caller's shop, generate SQL through the provider cascade, execute it on
// the configured backend, and render the result for the caller's locale.
//
// ProcessQuery never returns an error: every failure past the cascade's own
// fallback becomes a localized apology string so the transport layer has
// nothing to handle.
type QueryService struct {
	generator domain.SQLGenerator
	executor  domain.QueryExecutor
	resolver  domain.TenantResolver
	log       *zap.Logger
}

func NewQueryService(generator domain.SQLGenerator, executor domain.QueryExecutor, resolver domain.TenantResolver, log *zap.Logger) *QueryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &QueryService{generator: generator, executor: executor, resolver: resolver, log: log}
}

func (s *QueryService) ProcessQuery(ctx context.Context, question string, loc domain.Locale, callerIdentity string) string {
	log := s.log.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("caller", callerIdentity),
		zap.String("locale", string(loc)))

	tenantID := s.resolveTenant(ctx, callerIdentity, log)

	cand, err := s.generator.Generate(ctx, domain.GenerationRequest{
		Question: question,
		Locale:   loc,
		TenantID: tenantID,
	})
	if err != nil {
		log.Error("sql generation failed", zap.Error(err))
		return format.Apology(loc, err.Error())
	}
	log.Info("executing generated sql",
		zap.String("provider", cand.SourceProvider),
		zap.String("sql", cand.Text))

	result, err := s.executor.Execute(ctx, cand.Text, tenantID)
	if err != nil {
		log.Error("query execution failed", zap.Error(err))
		return format.Apology(loc, err.Error())
	}

	return format.Format(result, loc)
}

// resolveTenant maps the caller to a shop id. An unknown caller, a missing
// resolver, or a lookup failure all mean the query runs unscoped.
func (s *QueryService) resolveTenant(ctx context.Context, callerIdentity string, log *zap.Logger) string {
	if s.resolver == nil || callerIdentity == "" {
		return ""
	}
	t, err := s.resolver.Resolve(ctx, callerIdentity)
	if errors.Is(err, domain.ErrTenantNotFound) {
		log.Debug("caller not registered, serving unscoped")
		return ""
	}
	if err != nil {
		log.Warn("tenant lookup failed, serving unscoped", zap.Error(err))
		return ""
	}
	return t.ID
}
