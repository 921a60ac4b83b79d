package services

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/TheSummerRain/wutongjiebang/internal/drafting"
	"github.com/TheSummerRain/wutongjiebang/internal/models"
)

// DraftService управляет активными сессиями диалогового черновика.
// Сессии живут только в памяти процесса и исчезают вместе с ним.
type DraftService struct {
	Gateway      drafting.Gateway
	Requirements *RequirementService
	Logger       *log.Logger

	mu       sync.RWMutex
	sessions map[string]*drafting.Session
}

// NewDraftService создаёт новый экземпляр DraftService.
func NewDraftService(gateway drafting.Gateway, requirements *RequirementService, logger *log.Logger) *DraftService {
	return &DraftService{
		Gateway:      gateway,
		Requirements: requirements,
		Logger:       logger,
		sessions:     make(map[string]*drafting.Session),
	}
}

// OpenSession открывает новую сессию черновика и возвращает её.
func (s *DraftService) OpenSession() *drafting.Session {
	session := drafting.NewSession(s.Gateway, s.Logger)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return session
}

func (s *DraftService) session(sessionID string) (*drafting.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, models.NewErrorResponse(http.StatusNotFound, "draft session not found")
	}
	return session, nil
}

// Message передаёт сообщение пользователя в сессию и возвращает
// обновлённые поля черновика вместе с репликой ассистента.
func (s *DraftService) Message(ctx context.Context, sessionID, text string) (models.DraftFields, string, error) {
	if text == "" {
		return models.DraftFields{}, "", models.NewErrorResponse(http.StatusBadRequest, "empty message")
	}

	session, err := s.session(sessionID)
	if err != nil {
		return models.DraftFields{}, "", err
	}

	fields, reply, err := session.Send(ctx, text)
	if errors.Is(err, drafting.ErrRefineInFlight) {
		return models.DraftFields{}, "", models.NewErrorResponse(http.StatusConflict, err.Error())
	}
	if errors.Is(err, drafting.ErrSessionClosed) {
		return models.DraftFields{}, "", models.NewErrorResponse(http.StatusGone, err.Error())
	}
	if err != nil {
		return models.DraftFields{}, "", models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return fields, reply, nil
}

// Publish завершает сессию: при полном обязательном минимуме полей
// создаёт требование и закрывает сессию. Незаполненные поля
// возвращаются пользователю списком.
func (s *DraftService) Publish(ctx context.Context, sessionID string, role models.UserRole, attachments []string) (*RequirementView, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	requirementReq, err := session.Finalize()
	var incomplete *drafting.IncompleteDraftError
	if errors.As(err, &incomplete) {
		return nil, models.NewErrorResponse(http.StatusBadRequest, incomplete.Error())
	}
	if errors.Is(err, drafting.ErrSessionClosed) {
		return nil, models.NewErrorResponse(http.StatusGone, err.Error())
	}
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	requirementReq.Attachments = attachments

	view, err := s.Requirements.CreateRequirement(ctx, requirementReq, role)
	if err != nil {
		return nil, err
	}

	s.Discard(sessionID)
	return view, nil
}

// Discard закрывает и забывает сессию; её состояние отбрасывается.
func (s *DraftService) Discard(sessionID string) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if ok {
		session.Close()
	}
}
