package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/TheSummerRain/wutongjiebang/internal/models"

	"github.com/stretchr/testify/require"
)

func storedRequirement(title string, status models.RequirementStatus) models.Requirement {
	return models.Requirement{
		Title:         title,
		Department:    "浙江移动",
		Budget:        5000000,
		BudgetDisplay: "¥500万",
		Deadline:      time.Date(2027, time.June, 1, 0, 0, 0, 0, time.UTC),
		Description:   "описание",
		Status:        status,
		PublishDate:   time.Now(),
	}
}

func TestCreateRequirement_AssignsSequentialIDs(t *testing.T) {
	repo := NewInMemoryRequirementRepository()
	ctx := context.Background()

	first, err := repo.CreateRequirement(ctx, storedRequirement("a", models.OpenRequirement))
	require.NoError(t, err)
	second, err := repo.CreateRequirement(ctx, storedRequirement("b", models.OpenRequirement))
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(first.ID, "REQ-"))
	require.True(t, strings.HasPrefix(second.ID, "REQ-"))
	require.NotEqual(t, first.ID, second.ID)
}

func TestGetRequirements_NewestFirstWithFilter(t *testing.T) {
	repo := NewInMemoryRequirementRepository()
	ctx := context.Background()

	_, err := repo.CreateRequirement(ctx, storedRequirement("первое", models.OpenRequirement))
	require.NoError(t, err)
	_, err = repo.CreateRequirement(ctx, storedRequirement("второе", models.DraftRequirement))
	require.NoError(t, err)
	_, err = repo.CreateRequirement(ctx, storedRequirement("третье", models.OpenRequirement))
	require.NoError(t, err)

	all, err := repo.GetRequirements(ctx, 10, 0, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "третье", all[0].Title)
	require.Equal(t, "первое", all[2].Title)

	open, err := repo.GetRequirements(ctx, 10, 0, []models.RequirementStatus{models.OpenRequirement})
	require.NoError(t, err)
	require.Len(t, open, 2)

	page, err := repo.GetRequirements(ctx, 1, 1, nil)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "второе", page[0].Title)

	empty, err := repo.GetRequirements(ctx, 10, 10, nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestEditRequirement_AllowListAndAtomicity(t *testing.T) {
	repo := NewInMemoryRequirementRepository()
	ctx := context.Background()

	created, err := repo.CreateRequirement(ctx, storedRequirement("исходное", models.DraftRequirement))
	require.NoError(t, err)

	updated, err := repo.EditRequirement(ctx, created.ID, map[string]interface{}{
		"budget": float64(1800000),
		"tags":   []interface{}{"绿色节能", "双碳"},
	})
	require.NoError(t, err)
	require.Equal(t, float64(1800000), updated.Budget)
	require.Equal(t, "¥180万", updated.BudgetDisplay)
	require.Equal(t, []string{"绿色节能", "双碳"}, updated.Tags)

	// Неизвестное поле отклоняется целиком, валидная часть не применяется.
	_, err = repo.EditRequirement(ctx, created.ID, map[string]interface{}{
		"title": "не должно примениться",
		"views": float64(100),
	})
	require.Error(t, err)

	unchanged, err := repo.GetRequirementByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "исходное", unchanged.Title)

	// Ошибка типа тоже оставляет требование нетронутым.
	_, err = repo.EditRequirement(ctx, created.ID, map[string]interface{}{
		"title":  "не должно примениться",
		"budget": "много",
	})
	require.Error(t, err)
	unchanged, err = repo.GetRequirementByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "исходное", unchanged.Title)
}

func TestCounters(t *testing.T) {
	repo := NewInMemoryRequirementRepository()
	ctx := context.Background()

	created, err := repo.CreateRequirement(ctx, storedRequirement("t", models.OpenRequirement))
	require.NoError(t, err)

	afterApplicant, err := repo.IncrementApplicants(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 1, afterApplicant.Applicants)

	afterView, err := repo.IncrementViews(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 1, afterView.Views)
	require.Equal(t, 1, afterView.Applicants)
}

func TestNotFound(t *testing.T) {
	repo := NewInMemoryRequirementRepository()
	ctx := context.Background()

	_, err := repo.GetRequirementByID(ctx, "REQ-2026-999")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = repo.UpdateRequirementStatus(ctx, "REQ-2026-999", models.OpenRequirement)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = repo.IncrementApplicants(ctx, "REQ-2026-999")
	require.ErrorIs(t, err, ErrNotFound)
}
