package drafting

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/TheSummerRain/wutongjiebang/internal/llm"
	"github.com/TheSummerRain/wutongjiebang/internal/models"

	"github.com/google/uuid"
)

// Gateway - интерфейс сервиса генерации, используемый пайплайном черновика.
type Gateway interface {
	Complete(ctx context.Context, messages []llm.Message, jsonMode bool) (string, error)
}

var (
	// ErrRefineInFlight возвращается, когда предыдущее сообщение сессии
	// ещё обрабатывается: на сессию допускается один запрос извлечения.
	ErrRefineInFlight = errors.New("previous message is still being processed")

	// ErrSessionClosed возвращается при обращении к завершённой сессии.
	ErrSessionClosed = errors.New("draft session is closed")
)

// IncompleteDraftError перечисляет незаполненные обязательные поля черновика.
type IncompleteDraftError struct {
	Missing []string
}

func (e *IncompleteDraftError) Error() string {
	return "draft is incomplete: missing " + strings.Join(e.Missing, ", ")
}

// Session - одна сессия диалогового составления черновика требования.
// Инвариант: fields всегда является результатом последовательного
// наложения всех принятых патчей, извлечённых из transcript.
type Session struct {
	ID      string
	gateway Gateway
	logger  *log.Logger

	mu         sync.Mutex
	busy       bool
	closed     bool
	transcript []models.ChatMessage
	fields     models.DraftFields
}

// NewSession создаёт новую сессию черновика с приветствием ассистента.
func NewSession(gateway Gateway, logger *log.Logger) *Session {
	return &Session{
		ID:      uuid.NewString(),
		gateway: gateway,
		logger:  logger,
		transcript: []models.ChatMessage{
			{Role: models.AssistantChatRole, Text: Greeting},
		},
	}
}

// Send обрабатывает сообщение пользователя: дописывает его в стенограмму,
// уточняет поля черновика через извлечение и получает встречный вопрос.
// Возвращает снимок полей и реплику ассистента. Второй вызов во время
// обработки отклоняется с ErrRefineInFlight.
func (s *Session) Send(ctx context.Context, text string) (models.DraftFields, string, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return models.DraftFields{}, "", ErrSessionClosed
	}
	if s.busy {
		s.mu.Unlock()
		return models.DraftFields{}, "", ErrRefineInFlight
	}
	s.busy = true
	s.transcript = append(s.transcript, models.ChatMessage{Role: models.UserChatRole, Text: text})
	transcript := append([]models.ChatMessage(nil), s.transcript...)
	fields := cloneFields(s.fields)
	s.mu.Unlock()

	// Извлечение и встречный вопрос строго последовательны: сперва должен
	// завершиться (успехом или откатом на прежние поля) refine.
	refined := fields
	patch, err := s.refine(ctx, transcript, fields)
	if err != nil {
		s.logger.Printf("draft %s: refine skipped: %v", s.ID, err)
	} else {
		patch.Apply(&refined)
	}

	reply := s.followUp(ctx, refined)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if s.closed {
		// Сессия брошена: результат незавершённого вызова не сохраняется.
		return refined, reply, ErrSessionClosed
	}
	s.fields = cloneFields(refined)
	s.transcript = append(s.transcript, models.ChatMessage{Role: models.AssistantChatRole, Text: reply})
	return cloneFields(s.fields), reply, nil
}

// refine вызывает сервис генерации в JSON-режиме и извлекает патч полей.
func (s *Session) refine(ctx context.Context, transcript []models.ChatMessage, fields models.DraftFields) (models.FieldPatch, error) {
	raw, err := s.gateway.Complete(ctx, buildExtractionMessages(transcript, fields), true)
	if err != nil {
		return models.FieldPatch{}, err
	}
	patch, complete, err := ExtractPatch(raw)
	if err != nil {
		return models.FieldPatch{}, err
	}
	if !complete {
		s.logger.Printf("draft %s: extraction dropped unknown or mistyped keys", s.ID)
	}
	return patch, nil
}

// followUp запрашивает встречный вопрос по текущему черновику.
// При любом сбое генерации возвращается фиксированная реплика,
// чтобы диалог мог продолжиться вручную.
func (s *Session) followUp(ctx context.Context, fields models.DraftFields) string {
	raw, err := s.gateway.Complete(ctx, buildFollowUpMessages(fields), false)
	if errors.Is(err, llm.ErrUnavailable) {
		return FallbackFollowUp
	}
	if err != nil {
		s.logger.Printf("draft %s: follow-up failed: %v", s.ID, err)
		return FallbackTechFollowUp
	}
	if reply := strings.TrimSpace(raw); reply != "" {
		return reply
	}
	return FallbackTechFollowUp
}

// Fields возвращает снимок текущих полей черновика.
func (s *Session) Fields() models.DraftFields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneFields(s.fields)
}

// Transcript возвращает копию стенограммы диалога.
func (s *Session) Transcript() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ChatMessage(nil), s.transcript...)
}

// Finalize возвращает заявку на создание требования, если заполнен
// обязательный минимум полей, иначе IncompleteDraftError с их списком.
func (s *Session) Finalize() (models.RequirementRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return models.RequirementRequest{}, ErrSessionClosed
	}

	var missing []string
	if strings.TrimSpace(s.fields.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(s.fields.Description) == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return models.RequirementRequest{}, &IncompleteDraftError{Missing: missing}
	}

	return models.RequirementRequest{
		Title:       s.fields.Title,
		Department:  s.fields.Department,
		Region:      s.fields.Region,
		Budget:      s.fields.Budget,
		Deadline:    s.fields.Deadline,
		Description: s.fields.Description,
		Tags:        append([]string(nil), s.fields.Tags...),
	}, nil
}

// Close помечает сессию завершённой. Незавершённый вызов генерации
// доработает, но его результат не попадёт ни в какое общее состояние.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func cloneFields(f models.DraftFields) models.DraftFields {
	clone := f
	clone.Tags = append([]string(nil), f.Tags...)
	return clone
}
