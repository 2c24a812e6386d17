package domain

// Locale identifies a supported reply language.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleHindi   Locale = "hi"
)

// ParseLocale maps a raw string to a supported locale, defaulting to English.
func ParseLocale(s string) Locale {
	if Locale(s) == LocaleHindi {
		return LocaleHindi
	}
	return LocaleEnglish
}

// GenerationRequest carries one natural-language question through SQL generation.
type GenerationRequest struct {
	Question string
	Locale   Locale
	TenantID string // empty when the caller could not be resolved to a shop
}

// Prompt is the provider-agnostic request shape sent to a model backend.
type Prompt struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
}

// CandidateSQL is an extracted SELECT statement attributed to the provider
// that produced it.
type CandidateSQL struct {
	Text           string `json:"text"`
	SourceProvider string `json:"source_provider"`
}

// ExecutionResult holds column names and rows aligned to them. Every row has
// exactly len(Columns) values; row order is whatever the backend returned.
type ExecutionResult struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

// Tenant is a resolved shop owner.
type Tenant struct {
	ID            string `json:"id"`
	OwnerIdentity string `json:"owner_identity"` // phone number
}

// QueryRequest is the REST API request body for a direct query.
type QueryRequest struct {
	Question string `json:"question"`
	Locale   string `json:"locale,omitempty"`
	Caller   string `json:"caller,omitempty"`
}

// QueryResponse is the REST API response for a direct query.
type QueryResponse struct {
	Question string `json:"question"`
	Locale   string `json:"locale"`
	Response string `json:"response"`
}

// SendMessageRequest represents request to send message
type SendMessageRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// SendMessageResponse represents response after sending message
type SendMessageResponse struct {
	Status string `json:"status"`
	Phone  string `json:"phone"`
}
