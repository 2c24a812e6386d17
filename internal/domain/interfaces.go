package domain

import (
	"context"
)

// ModelProvider is an external text-generation backend capable of turning a
// prompt into a completion that hopefully contains SQL.
type ModelProvider interface {
	Name() string
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// SQLGenerator turns a question into a single candidate SELECT statement.
type SQLGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (CandidateSQL, error)
}

// QueryExecutor runs a SELECT statement and returns shaped rows. tenantID is
// empty for unscoped queries; backends that cannot scope ignore it.
type QueryExecutor interface {
	Execute(ctx context.Context, sqlText string, tenantID string) (*ExecutionResult, error)
}

// TenantResolver maps a caller identity (phone number) to a shop.
// Returns ErrTenantNotFound for unregistered identities.
type TenantResolver interface {
	Resolve(ctx context.Context, ownerIdentity string) (Tenant, error)
}

// PreferenceStore keeps per-caller language preferences.
type PreferenceStore interface {
	Locale(ctx context.Context, ownerIdentity string) Locale
	SetLocale(ctx context.Context, ownerIdentity string, loc Locale) error
}

// QueryService is the caller-facing contract: it never returns an error,
// every failure becomes a localized message.
type QueryService interface {
	ProcessQuery(ctx context.Context, question string, loc Locale, callerIdentity string) string
}

// WhatsAppService handles WhatsApp messaging operations
type WhatsAppService interface {
	SendMessage(ctx context.Context, phone, message string) error
	IsConnected() bool
}

// ConfigService handles application configuration
type ConfigService interface {
	GetDatabaseURL() string
	GetWhatsAppStorePath() string
	GetAPIKey() string
	GetHTTPAddr() string
}
