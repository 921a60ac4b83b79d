package models

import (
	"fmt"
	"net/http"
)

// ErrorResponse описывает ошибку с кодом и сообщением.
type ErrorResponse struct {
	StatusCode int    `json:"-"`
	Message    string `json:"reason"`
}

// NewErrorResponse создает новую ошибку с кодом и сообщением.
func NewErrorResponse(statusCode int, message string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: statusCode,
		Message:    message}
}

// NewIllegalTransition создает ошибку недопустимого перехода статуса,
// называя текущий и целевой статусы.
func NewIllegalTransition(from, to RequirementStatus) *ErrorResponse {
	return NewErrorResponse(http.StatusConflict,
		fmt.Sprintf("illegal transition from %s to %s", from, to))
}

// NewIllegalReveal создает ошибку подачи заявки вне окна приёма.
func NewIllegalReveal(current RequirementStatus) *ErrorResponse {
	return NewErrorResponse(http.StatusConflict,
		fmt.Sprintf("illegal transition: reveal requires status %s, requirement is %s", OpenRequirement, current))
}

// Реализация метода Error() для удовлетворения интерфейса error.
func (e *ErrorResponse) Error() string {
	return e.Message
}
