package models

import (
	"strings"

	fb "intake/internal/formbuilder/models"
	dErrors "intake/pkg/domain-errors"
)

// UpdateProfileRequest carries the editable profile fields.
type UpdateProfileRequest struct {
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Organization string `json:"organization,omitempty"`
}

// Validate rejects a request that would change nothing.
func (r *UpdateProfileRequest) Validate() error {
	if r.FirstName == "" && r.LastName == "" && r.Organization == "" {
		return dErrors.New(dErrors.CodeValidation, "nothing to update")
	}
	return nil
}

// FormConfig is the owner's public application form definition.
type FormConfig struct {
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	Fields             []fb.Field `json:"fields"`
	AcceptingResponses bool       `json:"acceptingResponses"`
}

// Validate checks the whole form definition, including every field.
func (c *FormConfig) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return dErrors.New(dErrors.CodeValidation, "form title is required")
	}
	if len(c.Fields) == 0 {
		return dErrors.New(dErrors.CodeValidation, "form needs at least one field")
	}
	seen := make(map[string]struct{}, len(c.Fields))
	for _, f := range c.Fields {
		if err := f.Validate(); err != nil {
			return err
		}
		if f.ID == "" {
			return dErrors.New(dErrors.CodeValidation, "field "+f.Label+" has no id")
		}
		if _, dup := seen[f.ID]; dup {
			return dErrors.New(dErrors.CodeValidation, "duplicate field id "+f.ID)
		}
		seen[f.ID] = struct{}{}
	}
	return nil
}

// DashboardStats are the header numbers on the dashboard landing view.
type DashboardStats struct {
	TotalApplications int `json:"totalApplications"`
	FormViews         int `json:"formViews"`
	EmailsSent        int `json:"emailsSent"`
}
