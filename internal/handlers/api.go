package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dukaan-ai/salesbot/internal/domain"
	"github.com/dukaan-ai/salesbot/internal/format"
)

// QueryHandler exposes the query pipeline over plain HTTP for testing and
// integrations that do not go through WhatsApp.
type QueryHandler struct {
	query  domain.QueryService
	prefs  domain.PreferenceStore
	config domain.ConfigService
	log    *zap.Logger
}

func NewQueryHandler(query domain.QueryService, prefs domain.PreferenceStore, config domain.ConfigService, log *zap.Logger) *QueryHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &QueryHandler{query: query, prefs: prefs, config: config, log: log}
}

func (h *QueryHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	if !authorized(r, h.config.GetAPIKey()) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req domain.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}

	loc := domain.ParseLocale(req.Locale)
	if req.Locale == "" && req.Caller != "" {
		loc = h.prefs.Locale(r.Context(), req.Caller)
	}

	answer := h.query.ProcessQuery(r.Context(), req.Question, loc, req.Caller)
	writeJSON(w, http.StatusOK, domain.QueryResponse{
		Question: req.Question,
		Locale:   string(loc),
		Response: answer,
	})
}

func (h *QueryHandler) SampleQuestions(w http.ResponseWriter, r *http.Request) {
	loc := domain.ParseLocale(chi.URLParam(r, "locale"))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"language":  string(loc),
		"questions": format.SampleQuestions(loc),
	})
}

// MessageHandler sends outbound WhatsApp messages on request.
type MessageHandler struct {
	whatsapp domain.WhatsAppService
	config   domain.ConfigService
}

func NewMessageHandler(whatsapp domain.WhatsAppService, config domain.ConfigService) *MessageHandler {
	return &MessageHandler{whatsapp: whatsapp, config: config}
}

func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	if !authorized(r, h.config.GetAPIKey()) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req domain.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	req.Phone = strings.TrimSpace(req.Phone)
	req.Message = strings.TrimSpace(req.Message)
	if req.Phone == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "phone is required"})
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}

	if h.whatsapp == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "whatsapp disabled"})
		return
	}
	if err := h.whatsapp.SendMessage(r.Context(), req.Phone, req.Message); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to send message"})
		return
	}

	writeJSON(w, http.StatusOK, domain.SendMessageResponse{Status: "sent", Phone: req.Phone})
}

// authorized checks the API key header or query parameter, same contract
// for every protected endpoint. An empty configured key rejects everything.
func authorized(r *http.Request, apiKey string) bool {
	key := r.Header.Get("X-API-Key")
	if key == "" {
		key = r.URL.Query().Get("api_key")
	}
	return apiKey != "" && key == apiKey
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
