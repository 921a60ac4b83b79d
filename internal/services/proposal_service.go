package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/TheSummerRain/wutongjiebang/internal/models"
	"github.com/TheSummerRain/wutongjiebang/internal/repository"
)

// ProposalService реализует подачу заявок ("揭榜") и выбор победителя.
type ProposalService struct {
	Repo         repository.ProposalRepository
	Requirements repository.RequirementRepository
}

// NewProposalService создаёт новый экземпляр ProposalService.
func NewProposalService(repo repository.ProposalRepository, requirements repository.RequirementRepository) *ProposalService {
	return &ProposalService{Repo: repo, Requirements: requirements}
}

// Reveal регистрирует заявку на открытое требование: создаёт запись
// заявки и увеличивает счётчик претендентов ровно на единицу.
// Статус требования заявка не меняет.
func (s *ProposalService) Reveal(ctx context.Context, requirementID string, role models.UserRole, proposalReq models.ProposalRequest) (*models.Proposal, error) {
	if role != models.SpecializedRole {
		return nil, models.NewErrorResponse(http.StatusForbidden, "only the solving side may submit a reveal")
	}
	if strings.TrimSpace(proposalReq.Author) == "" || strings.TrimSpace(proposalReq.Outline) == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields: author, outline")
	}

	requirement, err := s.Requirements.GetRequirementByID(ctx, requirementID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "requirement not found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if requirement.Status != models.OpenRequirement {
		return nil, models.NewIllegalReveal(requirement.Status)
	}

	proposal, err := s.Repo.CreateProposal(ctx, models.Proposal{
		RequirementID: requirementID,
		Author:        proposalReq.Author,
		Outline:       proposalReq.Outline,
		Decision:      models.PendingProposal,
	})
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if _, err := s.Requirements.IncrementApplicants(ctx, requirementID); err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return proposal, nil
}

// FetchProposals получает заявки требования в порядке подачи.
func (s *ProposalService) FetchProposals(ctx context.Context, requirementID string) ([]models.Proposal, error) {
	if _, err := s.Requirements.GetRequirementByID(ctx, requirementID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "requirement not found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	proposals, err := s.Repo.GetProposalsByRequirement(ctx, requirementID)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return proposals, nil
}

// SelectWinner выбирает единственную победившую заявку и переводит
// требование в стадию реализации. Остальные заявки отклоняются.
func (s *ProposalService) SelectWinner(ctx context.Context, requirementID, proposalID string, role models.UserRole) (*models.Proposal, error) {
	if role != models.ProvinceRole {
		return nil, models.NewErrorResponse(http.StatusForbidden, "only the publishing side may select a winner")
	}

	requirement, err := s.Requirements.GetRequirementByID(ctx, requirementID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "requirement not found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if requirement.Status != models.ReviewingRequirement {
		return nil, models.NewIllegalTransition(requirement.Status, models.DeliveringRequirement)
	}

	proposal, err := s.Repo.GetProposalByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "proposal not found")
		}
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if proposal.RequirementID != requirementID {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "proposal does not belong to this requirement")
	}

	approved, err := s.Repo.CountByDecision(ctx, requirementID, models.ApprovedProposal)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	if approved > 0 {
		return nil, models.NewErrorResponse(http.StatusConflict, "a winner has already been selected")
	}

	// Все охранные условия выполнены, дальше только мутации.
	winner, err := s.Repo.SetDecision(ctx, proposalID, models.ApprovedProposal)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}

	others, err := s.Repo.GetProposalsByRequirement(ctx, requirementID)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	for _, other := range others {
		if other.ID == proposalID || other.Decision != models.PendingProposal {
			continue
		}
		if _, err := s.Repo.SetDecision(ctx, other.ID, models.RejectedProposal); err != nil {
			return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
		}
	}

	if _, err := s.Requirements.UpdateRequirementStatus(ctx, requirementID, models.DeliveringRequirement); err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "internal server error")
	}
	return winner, nil
}
