package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/TheSummerRain/wutongjiebang/internal/deadline"
	"github.com/TheSummerRain/wutongjiebang/internal/drafting"
	"github.com/TheSummerRain/wutongjiebang/internal/models"
	"github.com/TheSummerRain/wutongjiebang/internal/repository"

	"github.com/stretchr/testify/require"
)

// stubAnalyzer возвращает фиксированную оценку сложности.
type stubAnalyzer struct {
	score int
}

func (a *stubAnalyzer) Analyze(ctx context.Context, description string) drafting.Analysis {
	return drafting.Analysis{Score: a.score, Summary: "стабильная оценка"}
}

func newTestServices() (*RequirementService, *ProposalService, repository.ProposalRepository) {
	requirementRepo := repository.NewInMemoryRequirementRepository()
	proposalRepo := repository.NewInMemoryProposalRepository()
	requirementService := NewRequirementService(requirementRepo, proposalRepo, &stubAnalyzer{score: 77})
	proposalService := NewProposalService(proposalRepo, requirementRepo)
	return requirementService, proposalService, proposalRepo
}

func validRequest() models.RequirementRequest {
	return models.RequirementRequest{
		Title:       "5G+智慧港口无人机巡检系统",
		Department:  "浙江移动",
		Region:      "华东",
		Budget:      5000000,
		Deadline:    "2027-06-01",
		Description: "基于5G切片的无人机与机器人协同巡检方案。",
		Tags:        []string{"5G智联", "机器视觉"},
	}
}

func TestCreateRequirement_ImmediatePublish(t *testing.T) {
	service, _, _ := newTestServices()
	ctx := context.Background()

	created, err := service.CreateRequirement(ctx, validRequest(), models.ProvinceRole)
	require.NoError(t, err)
	require.Equal(t, models.OpenRequirement, created.Status)
	require.Equal(t, 0, created.Applicants)
	require.Equal(t, 0, created.Views)
	require.Equal(t, 77, created.AIComplexityScore)
	require.Equal(t, "¥500万", created.BudgetDisplay)
	require.Equal(t, "揭榜挂帅中", created.StatusLabel)
	require.NotEmpty(t, created.ID)
	require.False(t, created.PublishDate.IsZero())
}

func TestCreateRequirement_Validation(t *testing.T) {
	service, _, _ := newTestServices()
	ctx := context.Background()

	_, err := service.CreateRequirement(ctx, validRequest(), models.SpecializedRole)
	requireStatus(t, err, http.StatusForbidden)

	noTitle := validRequest()
	noTitle.Title = " "
	_, err = service.CreateRequirement(ctx, noTitle, models.ProvinceRole)
	requireStatus(t, err, http.StatusBadRequest)

	badDate := validRequest()
	badDate.Deadline = "01.06.2027"
	_, err = service.CreateRequirement(ctx, badDate, models.ProvinceRole)
	requireStatus(t, err, http.StatusBadRequest)
}

func TestLifecycle_FullLegalPath(t *testing.T) {
	service, proposalService, _ := newTestServices()
	ctx := context.Background()

	draftReq := validRequest()
	draftReq.SaveAsDraft = true
	created, err := service.CreateRequirement(ctx, draftReq, models.ProvinceRole)
	require.NoError(t, err)
	require.Equal(t, models.DraftRequirement, created.Status)

	steps := []models.RequirementStatus{
		models.AuditingRequirement,
		models.OpenRequirement,
	}
	current := created
	for _, target := range steps {
		current, err = service.UpdateRequirementStatus(ctx, created.ID, string(target), models.ProvinceRole)
		require.NoError(t, err)
		require.Equal(t, target, current.Status)
	}

	// Подача заявки в открытом статусе.
	proposal, err := proposalService.Reveal(ctx, created.ID, models.SpecializedRole, models.ProposalRequest{
		Author:  "专业公司A",
		Outline: "方案提纲",
	})
	require.NoError(t, err)

	current, err = service.UpdateRequirementStatus(ctx, created.ID, string(models.ReviewingRequirement), models.ProvinceRole)
	require.NoError(t, err)
	require.Equal(t, models.ReviewingRequirement, current.Status)

	// Без выбранного победителя стадия реализации недостижима.
	_, err = service.UpdateRequirementStatus(ctx, created.ID, string(models.DeliveringRequirement), models.ProvinceRole)
	requireStatus(t, err, http.StatusConflict)

	_, err = proposalService.SelectWinner(ctx, created.ID, proposal.ID, models.ProvinceRole)
	require.NoError(t, err)

	status, err := service.GetRequirementStatus(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, models.DeliveringRequirement, status)

	current, err = service.UpdateRequirementStatus(ctx, created.ID, string(models.CompletedRequirement), models.ProvinceRole)
	require.NoError(t, err)
	require.Equal(t, models.CompletedRequirement, current.Status)
}

func TestLifecycle_AuditRejectionReturnsToDraft(t *testing.T) {
	service, _, _ := newTestServices()
	ctx := context.Background()

	draftReq := validRequest()
	draftReq.SaveAsDraft = true
	created, err := service.CreateRequirement(ctx, draftReq, models.ProvinceRole)
	require.NoError(t, err)

	_, err = service.UpdateRequirementStatus(ctx, created.ID, string(models.AuditingRequirement), models.ProvinceRole)
	require.NoError(t, err)

	rejected, err := service.UpdateRequirementStatus(ctx, created.ID, string(models.DraftRequirement), models.ProvinceRole)
	require.NoError(t, err)
	require.Equal(t, models.DraftRequirement, rejected.Status)
}

func TestLifecycle_IllegalTransitionsRejected(t *testing.T) {
	service, _, _ := newTestServices()
	ctx := context.Background()

	created, err := service.CreateRequirement(ctx, validRequest(), models.ProvinceRole)
	require.NoError(t, err)

	// Перескок через стадию и движение назад равно недопустимы.
	for _, target := range []models.RequirementStatus{
		models.DeliveringRequirement,
		models.CompletedRequirement,
		models.DraftRequirement,
		models.AuditingRequirement,
	} {
		_, err = service.UpdateRequirementStatus(ctx, created.ID, string(target), models.ProvinceRole)
		requireStatus(t, err, http.StatusConflict)
		require.ErrorContains(t, err, "illegal transition from OPEN to "+string(target))
	}

	// Неудачные команды не изменили сущность.
	status, err := service.GetRequirementStatus(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, models.OpenRequirement, status)
}

func TestLifecycle_SubmitGuardRequiresFields(t *testing.T) {
	service, _, _ := newTestServices()
	ctx := context.Background()

	draftReq := validRequest()
	draftReq.SaveAsDraft = true
	draftReq.Deadline = ""
	created, err := service.CreateRequirement(ctx, draftReq, models.ProvinceRole)
	require.NoError(t, err)

	_, err = service.UpdateRequirementStatus(ctx, created.ID, string(models.AuditingRequirement), models.ProvinceRole)
	requireStatus(t, err, http.StatusBadRequest)
	require.ErrorContains(t, err, "deadline")

	status, err := service.GetRequirementStatus(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, models.DraftRequirement, status)
}

func TestLifecycle_RoleGating(t *testing.T) {
	service, _, _ := newTestServices()
	ctx := context.Background()

	draftReq := validRequest()
	draftReq.SaveAsDraft = true
	created, err := service.CreateRequirement(ctx, draftReq, models.ProvinceRole)
	require.NoError(t, err)

	_, err = service.UpdateRequirementStatus(ctx, created.ID, string(models.AuditingRequirement), models.SpecializedRole)
	requireStatus(t, err, http.StatusForbidden)
}

func TestEditRequirement_OnlyInDraft(t *testing.T) {
	service, _, _ := newTestServices()
	ctx := context.Background()

	draftReq := validRequest()
	draftReq.SaveAsDraft = true
	created, err := service.CreateRequirement(ctx, draftReq, models.ProvinceRole)
	require.NoError(t, err)

	updated, err := service.EditRequirement(ctx, created.ID, models.ProvinceRole, map[string]interface{}{
		"budget": float64(3200000),
		"title":  "更新后的标题",
	})
	require.NoError(t, err)
	require.Equal(t, "更新后的标题", updated.Title)
	// Отображаемый бюджет всегда выводится из числового значения.
	require.Equal(t, "¥320万", updated.BudgetDisplay)

	_, err = service.EditRequirement(ctx, created.ID, models.ProvinceRole, map[string]interface{}{
		"status": "COMPLETED",
	})
	requireStatus(t, err, http.StatusBadRequest)

	published, err := service.CreateRequirement(ctx, validRequest(), models.ProvinceRole)
	require.NoError(t, err)
	_, err = service.EditRequirement(ctx, published.ID, models.ProvinceRole, map[string]interface{}{
		"title": "нельзя",
	})
	requireStatus(t, err, http.StatusConflict)
}

func TestGetRequirement_CountsViewsAndClassifiesDeadline(t *testing.T) {
	service, _, _ := newTestServices()
	ctx := context.Background()

	request := validRequest()
	request.Deadline = "2020-01-01" // давно в прошлом
	created, err := service.CreateRequirement(ctx, request, models.ProvinceRole)
	require.NoError(t, err)

	first, err := service.GetRequirement(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 1, first.Views)
	require.Equal(t, deadline.Overdue, first.DeadlineInfo.Band)

	second, err := service.GetRequirement(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 2, second.Views)
}

func requireStatus(t *testing.T, err error, statusCode int) {
	t.Helper()
	require.Error(t, err)
	errorResponse, ok := err.(*models.ErrorResponse)
	require.True(t, ok, "expected *models.ErrorResponse, got %T: %v", err, err)
	require.Equal(t, statusCode, errorResponse.StatusCode)
}
