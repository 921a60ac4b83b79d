package models

type ChatRole string // Автор сообщения в диалоге черновика

const (
	UserChatRole      ChatRole = "user"
	AssistantChatRole ChatRole = "assistant"
)

// ChatMessage представляет одно сообщение стенограммы диалога.
type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

// DraftFields представляет частично заполненные поля будущего требования.
// Набор полей строго совпадает с редактируемой частью Requirement.
type DraftFields struct {
	Title       string   `json:"title,omitempty"`
	Department  string   `json:"department,omitempty"`
	Region      string   `json:"region,omitempty"`
	Budget      float64  `json:"budget,omitempty"`
	Deadline    string   `json:"deadline,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// FieldPatch представляет проверенное частичное обновление полей черновика.
// Nil-указатель означает, что поле в патче отсутствует и не должно меняться.
type FieldPatch struct {
	Title       *string
	Department  *string
	Region      *string
	Budget      *float64
	Deadline    *string
	Description *string
	Tags        []string
}

// IsEmpty сообщает, содержит ли патч хоть одно поле.
func (p FieldPatch) IsEmpty() bool {
	return p.Title == nil && p.Department == nil && p.Region == nil &&
		p.Budget == nil && p.Deadline == nil && p.Description == nil && p.Tags == nil
}

// Apply накладывает патч на поля черновика: присутствующие в патче поля
// перекрывают прежние значения, отсутствующие остаются нетронутыми.
func (p FieldPatch) Apply(f *DraftFields) {
	if p.Title != nil {
		f.Title = *p.Title
	}
	if p.Department != nil {
		f.Department = *p.Department
	}
	if p.Region != nil {
		f.Region = *p.Region
	}
	if p.Budget != nil {
		f.Budget = *p.Budget
	}
	if p.Deadline != nil {
		f.Deadline = *p.Deadline
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.Tags != nil {
		f.Tags = append([]string(nil), p.Tags...)
	}
}
