package providers

import (
	"fmt"
	"strings"

	"github.com/dukaan-ai/salesbot/internal/domain"
	"github.com/dukaan-ai/salesbot/internal/schema"
)

const (
	defaultMaxTokens   = 256
	defaultTemperature = 0.05
)

// BuildPrompt assembles the generation prompt from the schema description,
// an optional tenant-scoping clause, and a localized instruction. The same
// prompt goes to every provider so their output stays comparable.
func BuildPrompt(req domain.GenerationRequest, cat *schema.Catalog, expiryAlertDays int) domain.Prompt {
	var sys strings.Builder
	sys.WriteString("You translate questions about a shop's sales data into a single SQL SELECT statement.\n")
	sys.WriteString("Schema:\n")
	sys.WriteString(cat.PromptDDL())
	fmt.Fprintf(&sys, "Treat items as \"expiring soon\" when expiry_date falls within the next %d days.\n", expiryAlertDays)
	sys.WriteString("Reply with only the SQL statement, terminated by a semicolon. No explanation, no markdown.")

	var usr strings.Builder
	if req.TenantID != "" {
		fmt.Fprintf(&usr, "The caller owns the shop with id '%s'. Only that shop's data is relevant.\n", req.TenantID)
	}
	switch req.Locale {
	case domain.LocaleHindi:
		usr.WriteString("The question is written in Hindi.\n")
	default:
		usr.WriteString("The question is written in English.\n")
	}
	usr.WriteString("Question: ")
	usr.WriteString(req.Question)

	return domain.Prompt{
		System:      sys.String(),
		User:        usr.String(),
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
	}
}
