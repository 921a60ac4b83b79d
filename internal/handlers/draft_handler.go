package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/TheSummerRain/wutongjiebang/internal/models"
	"github.com/TheSummerRain/wutongjiebang/internal/services"
	"github.com/TheSummerRain/wutongjiebang/internal/utils"
)

// DraftHandler - структура для обработки HTTP-запросов сессий черновика.
type DraftHandler struct {
	Service *services.DraftService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewDraftHandler создаёт новый экземпляр DraftHandler.
func NewDraftHandler(service *services.DraftService, logger *log.Logger, timeout time.Duration) *DraftHandler {
	return &DraftHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

type openSessionResponse struct {
	SessionID string `json:"sessionId"`
	Greeting  string `json:"greeting"`
}

type messageRequest struct {
	Text string `json:"text"`
}

type messageResponse struct {
	Fields models.DraftFields `json:"fields"`
	Reply  string             `json:"reply"`
}

type publishRequest struct {
	Attachments []string `json:"attachments"`
}

// OpenSession открывает новую сессию диалогового черновика.
func (h *DraftHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	session := h.Service.OpenSession()

	h.respondJSON(w, openSessionResponse{
		SessionID: session.ID,
		Greeting:  session.Transcript()[0].Text,
	})
}

// PostMessage обрабатывает сообщение пользователя в сессии черновика.
func (h *DraftHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	// Таймаут просторнее обычного: внутри два последовательных
	// обращения к сервису генерации.
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	sessionID := r.PathValue("sessionId")

	var msgReq messageRequest
	if err := json.NewDecoder(r.Body).Decode(&msgReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fields, reply, err := h.Service.Message(ctx, sessionID, msgReq.Text)
	if err != nil {
		h.respondError(w, err, "failed to process message")
		return
	}

	h.respondJSON(w, messageResponse{Fields: fields, Reply: reply})
}

// Publish завершает сессию черновика созданием требования.
func (h *DraftHandler) Publish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	sessionID := r.PathValue("sessionId")
	role := models.UserRole(r.URL.Query().Get("role"))

	var pubReq publishRequest
	if r.Body != nil {
		// Тело опционально: публиковать можно и без вложений.
		_ = json.NewDecoder(r.Body).Decode(&pubReq)
	}

	requirement, err := h.Service.Publish(ctx, sessionID, role, pubReq.Attachments)
	if err != nil {
		h.respondError(w, err, "failed to publish draft")
		return
	}

	h.respondJSON(w, requirement)
}

// Discard отбрасывает сессию черновика.
func (h *DraftHandler) Discard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only DELETE is allowed")
		return
	}

	h.Service.Discard(r.PathValue("sessionId"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *DraftHandler) respondError(w http.ResponseWriter, err error, fallback string) {
	h.Logger.Println(err)
	if errorResponse, ok := err.(*models.ErrorResponse); ok {
		utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
		return
	}
	utils.SendErrorResponse(w, http.StatusInternalServerError, fallback)
}

func (h *DraftHandler) respondJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Println(err)
	}
}
