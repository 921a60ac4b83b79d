package models

import "time"

type (
	RequirementStatus string // Статус требования
	UserRole          string // Роль участника маркетплейса
)

const (
	DraftRequirement      RequirementStatus = "DRAFT"      // Черновик у публикующей стороны
	AuditingRequirement   RequirementStatus = "AUDITING"   // Внутреннее согласование
	OpenRequirement       RequirementStatus = "OPEN"       // Открыт приём заявок
	ReviewingRequirement  RequirementStatus = "REVIEWING"  // Экспертная оценка заявок
	DeliveringRequirement RequirementStatus = "DELIVERING" // Проект в реализации
	CompletedRequirement  RequirementStatus = "COMPLETED"  // Принят и заархивирован

	ProvinceRole    UserRole = "PROVINCE"    // Публикует требования
	SpecializedRole UserRole = "SPECIALIZED" // Подаёт заявки на требования
)

// StatusLabels содержит отображаемые названия статусов.
var StatusLabels = map[RequirementStatus]string{
	DraftRequirement:      "草稿箱",
	AuditingRequirement:   "内部审批中",
	OpenRequirement:       "揭榜挂帅中",
	ReviewingRequirement:  "专家评审中",
	DeliveringRequirement: "项目交付中",
	CompletedRequirement:  "已验收归档",
}

// Requirement представляет модель требования.
type Requirement struct {
	ID                string            `json:"id"`
	Title             string            `json:"title"`
	Department        string            `json:"department"`
	Region            string            `json:"region"`
	Budget            float64           `json:"budget"`
	BudgetDisplay     string            `json:"budgetDisplay"`
	Deadline          time.Time         `json:"deadline"`
	Description       string            `json:"description"`
	Tags              []string          `json:"tags"`
	Status            RequirementStatus `json:"status"`
	AIComplexityScore int               `json:"aiComplexityScore"`
	Applicants        int               `json:"applicants"`
	PublishDate       time.Time         `json:"publishDate"`
	Views             int               `json:"views"`
	Attachments       []string          `json:"attachments,omitempty"`
}

// RequirementRequest представляет структуру запроса для создания требования.
type RequirementRequest struct {
	Title       string   `json:"title"`
	Department  string   `json:"department"`
	Region      string   `json:"region"`
	Budget      float64  `json:"budget"`
	Deadline    string   `json:"deadline"` // формат YYYY-MM-DD
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Attachments []string `json:"attachments"`
	SaveAsDraft bool     `json:"saveAsDraft"`
}
