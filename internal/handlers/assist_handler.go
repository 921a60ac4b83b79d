package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/TheSummerRain/wutongjiebang/internal/drafting"
	"github.com/TheSummerRain/wutongjiebang/internal/utils"
)

// AssistHandler - структура для обработки разовых генераций.
type AssistHandler struct {
	Assistant *drafting.Assistant
	Logger    *log.Logger
	Timeout   time.Duration
}

// NewAssistHandler создаёт новый экземпляр AssistHandler.
func NewAssistHandler(assistant *drafting.Assistant, logger *log.Logger, timeout time.Duration) *AssistHandler {
	return &AssistHandler{
		Assistant: assistant,
		Logger:    logger,
		Timeout:   timeout,
	}
}

type draftRequest struct {
	Topic       string `json:"topic"`
	Constraints string `json:"constraints"`
}

type outlineRequest struct {
	Description string `json:"description"`
}

// GenerateDraft обрабатывает запросы разового составления текста требования.
func (h *AssistHandler) GenerateDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Topic == "" {
		utils.SendErrorResponse(w, http.StatusBadRequest, "missing required field: topic")
		return
	}

	draft := h.Assistant.GenerateDraft(ctx, req.Topic, req.Constraints)
	h.respondJSON(w, map[string]string{"draft": draft})
}

// GenerateOutline обрабатывает запросы плана технического ответа.
func (h *AssistHandler) GenerateOutline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req outlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Description == "" {
		utils.SendErrorResponse(w, http.StatusBadRequest, "missing required field: description")
		return
	}

	outline := h.Assistant.GenerateOutline(ctx, req.Description)
	h.respondJSON(w, map[string]string{"outline": outline})
}

func (h *AssistHandler) respondJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Println(err)
	}
}
