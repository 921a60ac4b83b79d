package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/TheSummerRain/wutongjiebang/internal/models"
)

// SendErrorResponse отправляет ошибку в формате JSON
func SendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := models.ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
	}
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Println(err)
	}
}

// ParseLimitOffset обрабатывает limit и offset
func ParseLimitOffset(limitStr, offsetStr string) (int, int, error) {
	var limit, offset int
	var err error

	if limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > 50 {
			return 0, 0, fmt.Errorf("invalid limit parameter, must be a positive integer [0:50]")
		}
	} else {
		limit = 20
	}

	if offsetStr != "" {
		offset, err = strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("invalid offset parameter, must be a non-negative integer")
		}
	} else {
		offset = 0
	}

	return limit, offset, nil
}

// ContainsStatus - функция для проверки допустимости перехода статуса
func ContainsStatus(validTransitions []models.RequirementStatus, newStatus models.RequirementStatus) bool {
	for _, validStatus := range validTransitions {
		if validStatus == newStatus {
			return true
		}
	}
	return false
}

// KnownStatus проверяет, что строка является одним из статусов требования.
func KnownStatus(status models.RequirementStatus) bool {
	switch status {
	case models.DraftRequirement, models.AuditingRequirement, models.OpenRequirement,
		models.ReviewingRequirement, models.DeliveringRequirement, models.CompletedRequirement:
		return true
	}
	return false
}

// FormatBudget детерминированно формирует отображаемую строку бюджета
// из числового значения в юанях: "¥500万", "¥8000", "待定" для нулевого.
func FormatBudget(amount float64) string {
	if amount <= 0 {
		return "待定"
	}
	if amount >= 10000 {
		return "¥" + strconv.FormatFloat(amount/10000, 'f', -1, 64) + "万"
	}
	return "¥" + strconv.FormatFloat(amount, 'f', -1, 64)
}

// ParseDate разбирает дату в формате YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected format YYYY-MM-DD", value)
	}
	return t, nil
}
