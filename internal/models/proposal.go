package models

import "time"

type ProposalDecision string // Решение по заявке

const (
	PendingProposal  ProposalDecision = "PENDING"  // Заявка ожидает решения
	ApprovedProposal ProposalDecision = "APPROVED" // Заявка выбрана победителем
	RejectedProposal ProposalDecision = "REJECTED" // Заявка отклонена
)

// Proposal представляет заявку специализированной компании на требование.
type Proposal struct {
	ID            string           `json:"id"`
	RequirementID string           `json:"requirementId"`
	Author        string           `json:"author"`
	Outline       string           `json:"outline"`
	Decision      ProposalDecision `json:"decision"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// ProposalRequest представляет структуру запроса для подачи заявки.
type ProposalRequest struct {
	Author  string `json:"author"`
	Outline string `json:"outline"`
}
