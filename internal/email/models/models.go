package models

import (
	"strings"
	"time"

	dErrors "intake/pkg/domain-errors"
)

// Category ties a template to the review outcome it is written for.
type Category string

const (
	CategoryApproval  Category = "approval"
	CategoryRejection Category = "rejection"
	CategoryShortlist Category = "shortlist"
	CategoryInterview Category = "interview"
	CategoryGeneral   Category = "general"
)

// Categories returns every known category in display order.
func Categories() []Category {
	return []Category{
		CategoryApproval,
		CategoryRejection,
		CategoryShortlist,
		CategoryInterview,
		CategoryGeneral,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Template is a reusable email body with {{placeholder}} slots.
type Template struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  Category  `json:"category"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Validate checks a template before it is saved.
func (t *Template) Validate() error {
	if t.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "template name is required")
	}
	if !t.Category.Valid() {
		return dErrors.New(dErrors.CodeValidation, "unknown template category "+string(t.Category))
	}
	if t.Subject == "" {
		return dErrors.New(dErrors.CodeValidation, "template subject is required")
	}
	if t.Body == "" {
		return dErrors.New(dErrors.CodeValidation, "template body is required")
	}
	return nil
}

// Render substitutes {{key}} placeholders in the subject and body. Unknown
// placeholders are left verbatim so a preview makes the gap visible.
func (t *Template) Render(values map[string]string) (subject, body string) {
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	r := strings.NewReplacer(pairs...)
	return r.Replace(t.Subject), r.Replace(t.Body)
}

// Message is one outbound email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// HistoryEntry is one row of the sent-mail log.
type HistoryEntry struct {
	ID         string    `json:"id"`
	To         string    `json:"to"`
	Subject    string    `json:"subject"`
	TemplateID string    `json:"templateId,omitempty"`
	SentAt     time.Time `json:"sentAt"`
	Status     string    `json:"status"`
}
