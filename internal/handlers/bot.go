package handlers

import (
	"context"
	"strings"

	waEvents "go.mau.fi/whatsmeow/types/events"
	"go.uber.org/zap"

	"github.com/dukaan-ai/salesbot/internal/domain"
	"github.com/dukaan-ai/salesbot/internal/format"
	"github.com/dukaan-ai/salesbot/internal/services"
)

// BotHandler routes incoming WhatsApp messages: a few conversation commands
// (language selection, help, examples) are answered locally, everything
// else goes through the query pipeline.
type BotHandler struct {
	query    domain.QueryService
	prefs    domain.PreferenceStore
	whatsapp domain.WhatsAppService
	log      *zap.Logger
}

func NewBotHandler(query domain.QueryService, prefs domain.PreferenceStore, whatsapp domain.WhatsAppService, log *zap.Logger) *BotHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &BotHandler{query: query, prefs: prefs, whatsapp: whatsapp, log: log}
}

func (h *BotHandler) HandleMessage(evt interface{}) {
	e, ok := evt.(*waEvents.Message)
	if !ok {
		return
	}
	if e.Message.GetConversation() == "" && e.Message.ExtendedTextMessage == nil {
		return
	}
	if e.Info.IsFromMe || e.Info.IsGroup {
		return
	}

	phone := services.NormalizePhone(e.Info.MessageSource.Sender.User)
	text := strings.TrimSpace(services.ExtractText(e))
	if phone == "" {
		return
	}

	h.log.Info("incoming message", zap.String("phone", phone), zap.String("text", text))

	ctx := context.Background()
	h.sendReply(ctx, phone, h.route(ctx, phone, text))
}

// route produces the reply text for one message.
func (h *BotHandler) route(ctx context.Context, phone, text string) string {
	loc := h.prefs.Locale(ctx, phone)
	lower := strings.ToLower(text)

	switch {
	// An empty message greets with the bilingual language menu, so first
	// contact always shows how to pick a language.
	case text == "":
		return format.Message("welcome", loc)

	case text == "1" || text == "2":
		selected := domain.LocaleEnglish
		if text == "2" {
			selected = domain.LocaleHindi
		}
		if err := h.prefs.SetLocale(ctx, phone, selected); err != nil {
			h.log.Warn("failed to store language preference", zap.Error(err))
		}
		return format.Message("language_changed", selected)

	case lower == "language" || lower == "lang" || text == "भाषा":
		return format.Message("welcome", loc)

	case lower == "help" || lower == "h" || text == "?" || text == "मदद":
		return format.Message("help", loc)

	case lower == "examples" || lower == "sample" || lower == "samples" || text == "उदाहरण":
		return examplesText(loc)

	default:
		return h.query.ProcessQuery(ctx, text, loc, phone)
	}
}

func examplesText(loc domain.Locale) string {
	var sb strings.Builder
	sb.WriteString(format.Message("examples_header", loc))
	sb.WriteString("\n")
	for i, q := range format.SampleQuestions(loc) {
		if i >= 5 {
			break
		}
		sb.WriteString("\n• ")
		sb.WriteString(q)
	}
	return sb.String()
}

func (h *BotHandler) sendReply(ctx context.Context, phone, message string) {
	if err := h.whatsapp.SendMessage(ctx, phone, message); err != nil {
		h.log.Error("failed to send reply", zap.String("phone", phone), zap.Error(err))
	}
}
