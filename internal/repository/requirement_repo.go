package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/TheSummerRain/wutongjiebang/internal/models"
	"github.com/TheSummerRain/wutongjiebang/internal/utils"
)

// RequirementRepository определяет операции хранения требований.
type RequirementRepository interface {
	GetRequirements(ctx context.Context, limit, offset int, statuses []models.RequirementStatus) ([]models.Requirement, error)
	CreateRequirement(ctx context.Context, requirement models.Requirement) (*models.Requirement, error)
	GetRequirementByID(ctx context.Context, requirementID string) (*models.Requirement, error)
	UpdateRequirementStatus(ctx context.Context, requirementID string, status models.RequirementStatus) (*models.Requirement, error)
	EditRequirement(ctx context.Context, requirementID string, updateFields map[string]interface{}) (*models.Requirement, error)
	IncrementApplicants(ctx context.Context, requirementID string) (*models.Requirement, error)
	IncrementViews(ctx context.Context, requirementID string) (*models.Requirement, error)
}

// InMemoryRequirementRepository хранит требования в памяти процесса.
// Долговременное хранение сознательно не реализуется; дисциплина
// одного писателя на сущность обеспечивается общим мьютексом.
type InMemoryRequirementRepository struct {
	mu    sync.RWMutex
	items []*models.Requirement
	index map[string]*models.Requirement
	seq   int
}

// NewInMemoryRequirementRepository создаёт новый экземпляр InMemoryRequirementRepository.
func NewInMemoryRequirementRepository() *InMemoryRequirementRepository {
	return &InMemoryRequirementRepository{
		index: make(map[string]*models.Requirement),
	}
}

// GetRequirements возвращает страницу требований, новые впереди,
// с необязательным фильтром по статусам.
func (r *InMemoryRequirementRepository) GetRequirements(ctx context.Context, limit, offset int, statuses []models.RequirementStatus) ([]models.Requirement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filtered := make([]models.Requirement, 0, len(r.items))
	for i := len(r.items) - 1; i >= 0; i-- {
		item := r.items[i]
		if len(statuses) > 0 && !utils.ContainsStatus(statuses, item.Status) {
			continue
		}
		filtered = append(filtered, *item)
	}

	if offset >= len(filtered) {
		return []models.Requirement{}, nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], nil
}

// CreateRequirement присваивает идентификатор и сохраняет требование.
func (r *InMemoryRequirementRepository) CreateRequirement(ctx context.Context, requirement models.Requirement) (*models.Requirement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	requirement.ID = fmt.Sprintf("REQ-%d-%03d", time.Now().Year(), r.seq)

	stored := requirement
	r.items = append(r.items, &stored)
	r.index[stored.ID] = &stored

	result := stored
	return &result, nil
}

// GetRequirementByID получает требование по ID.
func (r *InMemoryRequirementRepository) GetRequirementByID(ctx context.Context, requirementID string) (*models.Requirement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.index[requirementID]
	if !ok {
		return nil, ErrNotFound
	}
	result := *item
	return &result, nil
}

// UpdateRequirementStatus меняет статус требования.
func (r *InMemoryRequirementRepository) UpdateRequirementStatus(ctx context.Context, requirementID string, status models.RequirementStatus) (*models.Requirement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.index[requirementID]
	if !ok {
		return nil, ErrNotFound
	}
	item.Status = status
	result := *item
	return &result, nil
}

// Допустимые для правки поля требования.
var editableFields = map[string]bool{
	"title":       true,
	"department":  true,
	"region":      true,
	"budget":      true,
	"deadline":    true,
	"description": true,
	"tags":        true,
	"attachments": true,
}

// EditRequirement применяет частичное обновление полей требования.
// Ключи вне списка допустимых отвергаются; изменение бюджета
// перестраивает отображаемую строку (display выводится из суммы).
func (r *InMemoryRequirementRepository) EditRequirement(ctx context.Context, requirementID string, updateFields map[string]interface{}) (*models.Requirement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.index[requirementID]
	if !ok {
		return nil, ErrNotFound
	}

	for key := range updateFields {
		if !editableFields[key] {
			return nil, fmt.Errorf("unknown field %q", key)
		}
	}

	// Обновление применяется к копии: при ошибке типа или формата
	// сохранённое требование остаётся нетронутым.
	updated := *item
	for key, value := range updateFields {
		switch key {
		case "title":
			if s, ok := value.(string); ok {
				updated.Title = s
			} else {
				return nil, fmt.Errorf("field %q must be a string", key)
			}
		case "department":
			if s, ok := value.(string); ok {
				updated.Department = s
			} else {
				return nil, fmt.Errorf("field %q must be a string", key)
			}
		case "region":
			if s, ok := value.(string); ok {
				updated.Region = s
			} else {
				return nil, fmt.Errorf("field %q must be a string", key)
			}
		case "description":
			if s, ok := value.(string); ok {
				updated.Description = s
			} else {
				return nil, fmt.Errorf("field %q must be a string", key)
			}
		case "budget":
			n, ok := value.(float64)
			if !ok {
				return nil, fmt.Errorf("field %q must be a number", key)
			}
			updated.Budget = n
			updated.BudgetDisplay = utils.FormatBudget(n)
		case "deadline":
			s, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("field %q must be a string", key)
			}
			parsed, err := utils.ParseDate(s)
			if err != nil {
				return nil, err
			}
			updated.Deadline = parsed
		case "tags":
			tags, err := toStringSlice(value)
			if err != nil {
				return nil, fmt.Errorf("field %q must be a list of strings", key)
			}
			updated.Tags = tags
		case "attachments":
			attachments, err := toStringSlice(value)
			if err != nil {
				return nil, fmt.Errorf("field %q must be a list of strings", key)
			}
			updated.Attachments = attachments
		}
	}

	*item = updated
	result := updated
	return &result, nil
}

// IncrementApplicants увеличивает счётчик заявок ровно на единицу.
func (r *InMemoryRequirementRepository) IncrementApplicants(ctx context.Context, requirementID string) (*models.Requirement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.index[requirementID]
	if !ok {
		return nil, ErrNotFound
	}
	item.Applicants++
	result := *item
	return &result, nil
}

// IncrementViews увеличивает счётчик просмотров.
func (r *InMemoryRequirementRepository) IncrementViews(ctx context.Context, requirementID string) (*models.Requirement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.index[requirementID]
	if !ok {
		return nil, ErrNotFound
	}
	item.Views++
	result := *item
	return &result, nil
}

func toStringSlice(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...), nil
	case []interface{}:
		result := make([]string, 0, len(v))
		for _, elem := range v {
			s, ok := elem.(string)
			if !ok {
				return nil, fmt.Errorf("element %v is not a string", elem)
			}
			result = append(result, s)
		}
		return result, nil
	default:
		return nil, fmt.Errorf("value %v is not a list", value)
	}
}
