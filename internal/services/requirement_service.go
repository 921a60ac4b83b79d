package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/TheSummerRain/wutongjiebang/internal/deadline"
	"github.com/TheSummerRain/wutongjiebang/internal/drafting"
	"github.com/TheSummerRain/wutongjiebang/internal/models"
	"github.com/TheSummerRain/wutongjiebang/internal/repository"
	"github.com/TheSummerRain/wutongjiebang/internal/utils"
)

// Analyzer оценивает сложность описания требования.
type Analyzer interface {
	Analyze(ctx context.Context, description string) drafting.Analysis
}

// RequirementView - требование вместе с производными полями отображения.
type RequirementView struct {
	models.Requirement
	StatusLabel  string        `json:"statusLabel"`
	DeadlineInfo deadline.Info `json:"deadlineInfo"`
}

// RequirementService реализует жизненный цикл требования: допустимые
// переходы статуса, их охранные условия и разграничение по ролям.
type RequirementService struct {
	Repo      repository.RequirementRepository
	Proposals repository.ProposalRepository
	Analyzer  Analyzer
}

// NewRequirementService создаёт новый экземпляр RequirementService.
func NewRequirementService(repo repository.RequirementRepository, proposals repository.ProposalRepository, analyzer Analyzer) *RequirementService {
	return &RequirementService{Repo: repo, Proposals: proposals, Analyzer: analyzer}
}

// Переходы строго вперёд; единственное исключение - возврат
// с согласования в черновик при отклонении.
var allowedStatusTransition = map[models.RequirementStatus][]models.RequirementStatus{
	models.DraftRequirement:      {models.AuditingRequirement},
	models.AuditingRequirement:   {models.OpenRequirement, models.DraftRequirement},
	models.OpenRequirement:       {models.ReviewingRequirement},
	models.ReviewingRequirement:  {models.DeliveringRequirement},
	models.DeliveringRequirement: {models.CompletedRequirement},
	models.CompletedRequirement:  {},
}

// FetchRequirements получает список требований с фильтром по статусам.
func (s *RequirementService) FetchRequirements(ctx context.Context, limitStr, offsetStr string, statuses []string) ([]RequirementView, error) {
	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	statusFilter := make([]models.RequirementStatus, 0, len(statuses))
	for _, status := range statuses {
		requirementStatus := models.RequirementStatus(status)
		if !utils.KnownStatus(requirementStatus) {
			return nil, models.NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("unsupported status: %s", status))
		}
		statusFilter = append(statusFilter, requirementStatus)
	}

	requirements, err := s.Repo.GetRequirements(ctx, limit, offset, statusFilter)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	views := make([]RequirementView, 0, len(requirements))
	for _, requirement := range requirements {
		views = append(views, s.view(requirement))
	}
	return views, nil
}

// CreateRequirement создает новое требование. По умолчанию оно сразу
// публикуется (политика немедленной публикации); saveAsDraft оставляет
// его в черновиках для полного цикла согласования.
func (s *RequirementService) CreateRequirement(ctx context.Context, requirementReq models.RequirementRequest, role models.UserRole) (*RequirementView, error) {
	if role != models.ProvinceRole {
		return nil, models.NewErrorResponse(http.StatusForbidden, "only the publishing side may create requirements")
	}
	if strings.TrimSpace(requirementReq.Title) == "" || strings.TrimSpace(requirementReq.Description) == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields: title, description")
	}
	if requirementReq.Budget < 0 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "budget must be non-negative")
	}

	var deadlineDate time.Time
	if requirementReq.Deadline != "" {
		parsed, err := utils.ParseDate(requirementReq.Deadline)
		if err != nil {
			return nil, models.NewErrorResponse(http.StatusBadRequest, err.Error())
		}
		deadlineDate = parsed
	}

	status := models.OpenRequirement
	if requirementReq.SaveAsDraft {
		status = models.DraftRequirement
	}

	analysis := s.Analyzer.Analyze(ctx, requirementReq.Description)

	requirement := models.Requirement{
		Title:             requirementReq.Title,
		Department:        requirementReq.Department,
		Region:            requirementReq.Region,
		Budget:            requirementReq.Budget,
		BudgetDisplay:     utils.FormatBudget(requirementReq.Budget),
		Deadline:          deadlineDate,
		Description:       requirementReq.Description,
		Tags:              requirementReq.Tags,
		Status:            status,
		AIComplexityScore: analysis.Score,
		Applicants:        0,
		PublishDate:       time.Now(),
		Views:             0,
		Attachments:       requirementReq.Attachments,
	}

	created, err := s.Repo.CreateRequirement(ctx, requirement)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	view := s.view(*created)
	return &view, nil
}

// GetRequirement получает требование и засчитывает просмотр.
func (s *RequirementService) GetRequirement(ctx context.Context, requirementID string) (*RequirementView, error) {
	requirement, err := s.Repo.IncrementViews(ctx, requirementID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "requirement not found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	view := s.view(*requirement)
	return &view, nil
}

// GetRequirementStatus получает статус требования.
func (s *RequirementService) GetRequirementStatus(ctx context.Context, requirementID string) (models.RequirementStatus, error) {
	requirement, err := s.Repo.GetRequirementByID(ctx, requirementID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", models.NewErrorResponse(http.StatusNotFound, "requirement not found")
		}
		return "", models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return requirement.Status, nil
}

// UpdateRequirementStatus выполняет команду перехода статуса.
// Все охранные условия проверяются до какой-либо мутации; при отказе
// требование остаётся в исходном состоянии.
func (s *RequirementService) UpdateRequirementStatus(ctx context.Context, requirementID, status string, role models.UserRole) (*RequirementView, error) {
	if status == "" || role == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required query parameters: status or role")
	}
	if role != models.ProvinceRole {
		return nil, models.NewErrorResponse(http.StatusForbidden, "only the publishing side may change requirement status")
	}

	target := models.RequirementStatus(status)
	if !utils.KnownStatus(target) {
		return nil, models.NewErrorResponse(http.StatusBadRequest, fmt.Sprintf("unsupported status: %s", status))
	}

	current, err := s.Repo.GetRequirementByID(ctx, requirementID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "requirement not found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	if !utils.ContainsStatus(allowedStatusTransition[current.Status], target) {
		return nil, models.NewIllegalTransition(current.Status, target)
	}

	switch {
	case current.Status == models.DraftRequirement && target == models.AuditingRequirement:
		if missing := missingRequiredFields(current); len(missing) > 0 {
			return nil, models.NewErrorResponse(http.StatusBadRequest,
				"cannot submit for auditing: missing "+strings.Join(missing, ", "))
		}
	case current.Status == models.ReviewingRequirement && target == models.DeliveringRequirement:
		approved, err := s.Proposals.CountByDecision(ctx, requirementID, models.ApprovedProposal)
		if err != nil {
			return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
		}
		if approved != 1 {
			return nil, models.NewErrorResponse(http.StatusConflict,
				"exactly one winning proposal must be selected before delivery")
		}
	}

	updated, err := s.Repo.UpdateRequirementStatus(ctx, requirementID, target)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	view := s.view(*updated)
	return &view, nil
}

// EditRequirement меняет поля требования. Поля изменяемы только в черновике.
func (s *RequirementService) EditRequirement(ctx context.Context, requirementID string, role models.UserRole, updateFields map[string]interface{}) (*RequirementView, error) {
	if role != models.ProvinceRole {
		return nil, models.NewErrorResponse(http.StatusForbidden, "only the publishing side may edit requirements")
	}
	if len(updateFields) == 0 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "empty update")
	}

	current, err := s.Repo.GetRequirementByID(ctx, requirementID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "requirement not found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if current.Status != models.DraftRequirement {
		return nil, models.NewErrorResponse(http.StatusConflict,
			fmt.Sprintf("requirement fields are mutable only in %s status, current status is %s", models.DraftRequirement, current.Status))
	}

	updated, err := s.Repo.EditRequirement(ctx, requirementID, updateFields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "requirement not found")
		}
		return nil, models.NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	view := s.view(*updated)
	return &view, nil
}

// view дополняет требование производными полями. Классификация дедлайна
// выполняется только здесь, чтобы список и карточка никогда не расходились.
func (s *RequirementService) view(requirement models.Requirement) RequirementView {
	return RequirementView{
		Requirement:  requirement,
		StatusLabel:  models.StatusLabels[requirement.Status],
		DeadlineInfo: deadline.Classify(requirement.Deadline, requirement.Status),
	}
}

func missingRequiredFields(requirement *models.Requirement) []string {
	var missing []string
	if strings.TrimSpace(requirement.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(requirement.Description) == "" {
		missing = append(missing, "description")
	}
	if requirement.Deadline.IsZero() {
		missing = append(missing, "deadline")
	}
	return missing
}
