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

// ProposalHandler - структура для обработки HTTP-запросов заявок.
type ProposalHandler struct {
	Service *services.ProposalService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewProposalHandler создаёт новый экземпляр ProposalHandler.
func NewProposalHandler(service *services.ProposalService, logger *log.Logger, timeout time.Duration) *ProposalHandler {
	return &ProposalHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// CreateReveal обрабатывает подачу заявки на открытое требование.
func (h *ProposalHandler) CreateReveal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	requirementID := r.PathValue("requirementId")
	role := models.UserRole(r.URL.Query().Get("role"))

	var proposalReq models.ProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&proposalReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	proposal, err := h.Service.Reveal(ctx, requirementID, role, proposalReq)
	if err != nil {
		h.respondError(w, err, "failed to submit reveal")
		return
	}

	h.respondJSON(w, proposal)
}

// GetProposals обрабатывает запросы списка заявок требования.
func (h *ProposalHandler) GetProposals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	requirementID := r.PathValue("requirementId")

	proposals, err := h.Service.FetchProposals(ctx, requirementID)
	if err != nil {
		h.respondError(w, err, "failed to fetch proposals")
		return
	}

	h.respondJSON(w, proposals)
}

// SelectWinner обрабатывает выбор победившей заявки.
func (h *ProposalHandler) SelectWinner(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	requirementID := r.PathValue("requirementId")
	proposalID := r.URL.Query().Get("proposalId")
	role := models.UserRole(r.URL.Query().Get("role"))

	if proposalID == "" {
		utils.SendErrorResponse(w, http.StatusBadRequest, "missing required query parameter: proposalId")
		return
	}

	winner, err := h.Service.SelectWinner(ctx, requirementID, proposalID, role)
	if err != nil {
		h.respondError(w, err, "failed to select winner")
		return
	}

	h.respondJSON(w, winner)
}

func (h *ProposalHandler) respondError(w http.ResponseWriter, err error, fallback string) {
	h.Logger.Println(err)
	if errorResponse, ok := err.(*models.ErrorResponse); ok {
		utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
		return
	}
	utils.SendErrorResponse(w, http.StatusInternalServerError, fallback)
}

func (h *ProposalHandler) respondJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Println(err)
	}
}
