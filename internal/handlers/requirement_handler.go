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

// RequirementHandler - структура для обработки HTTP-запросов требований.
type RequirementHandler struct {
	Service *services.RequirementService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewRequirementHandler создаёт новый экземпляр RequirementHandler.
func NewRequirementHandler(service *services.RequirementService, logger *log.Logger, timeout time.Duration) *RequirementHandler {
	return &RequirementHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// GetRequirements обрабатывает запросы для получения списка требований.
func (h *RequirementHandler) GetRequirements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")
	statuses := r.URL.Query()["status"]

	requirements, err := h.Service.FetchRequirements(ctx, limitStr, offsetStr, statuses)
	if err != nil {
		h.respondError(w, err, "failed to fetch requirements")
		return
	}

	h.respondJSON(w, requirements)
}

// CreateRequirement обрабатывает запросы для создания требования.
func (h *RequirementHandler) CreateRequirement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var requirementReq models.RequirementRequest
	if err := json.NewDecoder(r.Body).Decode(&requirementReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	role := models.UserRole(r.URL.Query().Get("role"))

	requirement, err := h.Service.CreateRequirement(ctx, requirementReq, role)
	if err != nil {
		h.respondError(w, err, "failed to create requirement")
		return
	}

	h.respondJSON(w, requirement)
}

// GetRequirement обрабатывает запросы карточки требования.
func (h *RequirementHandler) GetRequirement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	requirementID := r.PathValue("requirementId")

	requirement, err := h.Service.GetRequirement(ctx, requirementID)
	if err != nil {
		h.respondError(w, err, "failed to fetch requirement")
		return
	}

	h.respondJSON(w, requirement)
}

// GetRequirementStatus обрабатывает запросы для получения статуса требования.
func (h *RequirementHandler) GetRequirementStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	requirementID := r.PathValue("requirementId")

	status, err := h.Service.GetRequirementStatus(ctx, requirementID)
	if err != nil {
		h.respondError(w, err, "failed to fetch requirement status")
		return
	}

	h.respondJSON(w, status)
}

// UpdateRequirementStatus обрабатывает команды перехода статуса требования.
func (h *RequirementHandler) UpdateRequirementStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	requirementID := r.PathValue("requirementId")
	status := r.URL.Query().Get("status")
	role := models.UserRole(r.URL.Query().Get("role"))

	requirement, err := h.Service.UpdateRequirementStatus(ctx, requirementID, status, role)
	if err != nil {
		h.respondError(w, err, "failed to update requirement status")
		return
	}

	h.respondJSON(w, requirement)
}

// EditRequirement обрабатывает запросы для изменения полей требования.
func (h *RequirementHandler) EditRequirement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only PATCH is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	requirementID := r.PathValue("requirementId")
	role := models.UserRole(r.URL.Query().Get("role"))

	var updateFields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updateFields); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	requirement, err := h.Service.EditRequirement(ctx, requirementID, role, updateFields)
	if err != nil {
		h.respondError(w, err, "failed to edit requirement")
		return
	}

	h.respondJSON(w, requirement)
}

func (h *RequirementHandler) respondError(w http.ResponseWriter, err error, fallback string) {
	h.Logger.Println(err)
	if errorResponse, ok := err.(*models.ErrorResponse); ok {
		utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
		return
	}
	utils.SendErrorResponse(w, http.StatusInternalServerError, fallback)
}

func (h *RequirementHandler) respondJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Println(err)
	}
}
