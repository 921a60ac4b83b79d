package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/TheSummerRain/wutongjiebang/internal/models"

	"github.com/stretchr/testify/require"
)

func TestReveal_CreatesProposalAndIncrementsApplicants(t *testing.T) {
	service, proposalService, _ := newTestServices()
	ctx := context.Background()

	created, err := service.CreateRequirement(ctx, validRequest(), models.ProvinceRole)
	require.NoError(t, err)

	proposal, err := proposalService.Reveal(ctx, created.ID, models.SpecializedRole, models.ProposalRequest{
		Author:  "专业公司A",
		Outline: "技术应答方案提纲",
	})
	require.NoError(t, err)
	require.NotEmpty(t, proposal.ID)
	require.Equal(t, models.PendingProposal, proposal.Decision)
	require.Equal(t, created.ID, proposal.RequirementID)

	// Счётчик претендентов вырос ровно на единицу, статус не изменился.
	status, err := service.GetRequirementStatus(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, models.OpenRequirement, status)

	view, err := service.GetRequirement(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 1, view.Applicants)
}

func TestReveal_RejectedOutsideOpenWindow(t *testing.T) {
	service, proposalService, _ := newTestServices()
	ctx := context.Background()

	created, err := service.CreateRequirement(ctx, validRequest(), models.ProvinceRole)
	require.NoError(t, err)
	_, err = service.UpdateRequirementStatus(ctx, created.ID, string(models.ReviewingRequirement), models.ProvinceRole)
	require.NoError(t, err)

	_, err = proposalService.Reveal(ctx, created.ID, models.SpecializedRole, models.ProposalRequest{
		Author:  "专业公司B",
		Outline: "提纲",
	})
	requireStatus(t, err, http.StatusConflict)
	require.ErrorContains(t, err, "illegal transition")
	require.ErrorContains(t, err, string(models.ReviewingRequirement))

	// Отклонённая заявка не изменила счётчик.
	view, err := service.GetRequirement(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 0, view.Applicants)

	proposals, err := proposalService.FetchProposals(ctx, created.ID)
	require.NoError(t, err)
	require.Empty(t, proposals)
}

func TestReveal_RoleGating(t *testing.T) {
	service, proposalService, _ := newTestServices()
	ctx := context.Background()

	created, err := service.CreateRequirement(ctx, validRequest(), models.ProvinceRole)
	require.NoError(t, err)

	_, err = proposalService.Reveal(ctx, created.ID, models.ProvinceRole, models.ProposalRequest{
		Author:  "省公司",
		Outline: "提纲",
	})
	requireStatus(t, err, http.StatusForbidden)
}

func TestSelectWinner_ApprovesOneRejectsRest(t *testing.T) {
	service, proposalService, _ := newTestServices()
	ctx := context.Background()

	created, err := service.CreateRequirement(ctx, validRequest(), models.ProvinceRole)
	require.NoError(t, err)

	first, err := proposalService.Reveal(ctx, created.ID, models.SpecializedRole, models.ProposalRequest{
		Author: "专业公司A", Outline: "方案A",
	})
	require.NoError(t, err)
	second, err := proposalService.Reveal(ctx, created.ID, models.SpecializedRole, models.ProposalRequest{
		Author: "专业公司B", Outline: "方案B",
	})
	require.NoError(t, err)

	_, err = service.UpdateRequirementStatus(ctx, created.ID, string(models.ReviewingRequirement), models.ProvinceRole)
	require.NoError(t, err)

	winner, err := proposalService.SelectWinner(ctx, created.ID, first.ID, models.ProvinceRole)
	require.NoError(t, err)
	require.Equal(t, models.ApprovedProposal, winner.Decision)

	status, err := service.GetRequirementStatus(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, models.DeliveringRequirement, status)

	proposals, err := proposalService.FetchProposals(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, proposals, 2)
	for _, proposal := range proposals {
		if proposal.ID == second.ID {
			require.Equal(t, models.RejectedProposal, proposal.Decision)
		}
	}

	// Повторный выбор невозможен: требование уже в стадии реализации.
	_, err = proposalService.SelectWinner(ctx, created.ID, second.ID, models.ProvinceRole)
	requireStatus(t, err, http.StatusConflict)
}

func TestSelectWinner_Guards(t *testing.T) {
	service, proposalService, _ := newTestServices()
	ctx := context.Background()

	created, err := service.CreateRequirement(ctx, validRequest(), models.ProvinceRole)
	require.NoError(t, err)
	proposal, err := proposalService.Reveal(ctx, created.ID, models.SpecializedRole, models.ProposalRequest{
		Author: "专业公司A", Outline: "方案A",
	})
	require.NoError(t, err)

	// Выбор победителя вне стадии оценки запрещён.
	_, err = proposalService.SelectWinner(ctx, created.ID, proposal.ID, models.ProvinceRole)
	requireStatus(t, err, http.StatusConflict)

	_, err = service.UpdateRequirementStatus(ctx, created.ID, string(models.ReviewingRequirement), models.ProvinceRole)
	require.NoError(t, err)

	_, err = proposalService.SelectWinner(ctx, created.ID, proposal.ID, models.SpecializedRole)
	requireStatus(t, err, http.StatusForbidden)

	_, err = proposalService.SelectWinner(ctx, created.ID, "missing-id", models.ProvinceRole)
	requireStatus(t, err, http.StatusNotFound)
}
