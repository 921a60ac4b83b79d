package repository

import (
	"context"
	"sync"
	"time"

	"github.com/TheSummerRain/wutongjiebang/internal/models"

	"github.com/google/uuid"
)

// ProposalRepository определяет операции хранения заявок.
type ProposalRepository interface {
	CreateProposal(ctx context.Context, proposal models.Proposal) (*models.Proposal, error)
	GetProposalByID(ctx context.Context, proposalID string) (*models.Proposal, error)
	GetProposalsByRequirement(ctx context.Context, requirementID string) ([]models.Proposal, error)
	SetDecision(ctx context.Context, proposalID string, decision models.ProposalDecision) (*models.Proposal, error)
	CountByDecision(ctx context.Context, requirementID string, decision models.ProposalDecision) (int, error)
}

// InMemoryProposalRepository хранит заявки в памяти процесса.
type InMemoryProposalRepository struct {
	mu    sync.RWMutex
	items []*models.Proposal
	index map[string]*models.Proposal
}

// NewInMemoryProposalRepository создаёт новый экземпляр InMemoryProposalRepository.
func NewInMemoryProposalRepository() *InMemoryProposalRepository {
	return &InMemoryProposalRepository{
		index: make(map[string]*models.Proposal),
	}
}

// CreateProposal присваивает идентификатор и сохраняет заявку.
func (r *InMemoryProposalRepository) CreateProposal(ctx context.Context, proposal models.Proposal) (*models.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	proposal.ID = uuid.NewString()
	proposal.CreatedAt = time.Now()
	if proposal.Decision == "" {
		proposal.Decision = models.PendingProposal
	}

	stored := proposal
	r.items = append(r.items, &stored)
	r.index[stored.ID] = &stored

	result := stored
	return &result, nil
}

// GetProposalByID получает заявку по ID.
func (r *InMemoryProposalRepository) GetProposalByID(ctx context.Context, proposalID string) (*models.Proposal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.index[proposalID]
	if !ok {
		return nil, ErrNotFound
	}
	result := *item
	return &result, nil
}

// GetProposalsByRequirement возвращает заявки требования в порядке подачи.
func (r *InMemoryProposalRepository) GetProposalsByRequirement(ctx context.Context, requirementID string) ([]models.Proposal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Proposal, 0)
	for _, item := range r.items {
		if item.RequirementID == requirementID {
			result = append(result, *item)
		}
	}
	return result, nil
}

// SetDecision фиксирует решение по заявке.
func (r *InMemoryProposalRepository) SetDecision(ctx context.Context, proposalID string, decision models.ProposalDecision) (*models.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.index[proposalID]
	if !ok {
		return nil, ErrNotFound
	}
	item.Decision = decision
	result := *item
	return &result, nil
}

// CountByDecision считает заявки требования с заданным решением.
func (r *InMemoryProposalRepository) CountByDecision(ctx context.Context, requirementID string, decision models.ProposalDecision) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, item := range r.items {
		if item.RequirementID == requirementID && item.Decision == decision {
			count++
		}
	}
	return count, nil
}
