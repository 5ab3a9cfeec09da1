package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	dErrors "intake/pkg/domain-errors"
)

// FieldType is the input widget a form field renders as.
type FieldType string

const (
	TypeText     FieldType = "text"
	TypeEmail    FieldType = "email"
	TypePhone    FieldType = "phone"
	TypeTextarea FieldType = "textarea"
	TypeSelect   FieldType = "select"
	TypeCheckbox FieldType = "checkbox"
	TypeRadio    FieldType = "radio"
	TypeFile     FieldType = "file"
	TypeDate     FieldType = "date"
)

// FieldTypes returns every known field type.
func FieldTypes() []FieldType {
	return []FieldType{
		TypeText, TypeEmail, TypePhone, TypeTextarea,
		TypeSelect, TypeCheckbox, TypeRadio, TypeFile, TypeDate,
	}
}

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	for _, known := range FieldTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// needsOptions reports whether the type renders a fixed choice list.
func (t FieldType) needsOptions() bool {
	switch t {
	case TypeSelect, TypeCheckbox, TypeRadio:
		return true
	}
	return false
}

// Field is one question on an application form.
type Field struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Placeholder string    `json:"placeholder,omitempty"`
	Options     []string  `json:"options,omitempty"`
	MaxLength   int       `json:"maxLength,omitempty"`
}

// Validate checks the field definition itself, not a response to it.
func (f *Field) Validate() error {
	if f.Label == "" {
		return dErrors.New(dErrors.CodeValidation, "field label is required")
	}
	if !f.Type.Valid() {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown field type %q", f.Type))
	}
	if f.Type.needsOptions() && len(f.Options) == 0 {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s field %q needs at least one option", f.Type, f.Label))
	}
	if !f.Type.needsOptions() && len(f.Options) > 0 {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s field %q must not carry options", f.Type, f.Label))
	}
	if f.MaxLength < 0 {
		return dErrors.New(dErrors.CodeValidation, "max length must not be negative")
	}
	return nil
}

// CheckResponse validates one applicant answer against the field. File fields
// only check presence; the upload itself travels out of band.
func (f *Field) CheckResponse(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		if f.Required {
			return dErrors.New(dErrors.CodeValidation, f.Label+" is required")
		}
		return nil
	}
	if f.MaxLength > 0 && len(value) > f.MaxLength {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s must be at most %d characters", f.Label, f.MaxLength))
	}

	switch f.Type {
	case TypeEmail:
		if _, err := mail.ParseAddress(value); err != nil {
			return dErrors.New(dErrors.CodeValidation, f.Label+" must be a valid email address")
		}
	case TypePhone:
		if !validPhone(value) {
			return dErrors.New(dErrors.CodeValidation, f.Label+" must be a valid phone number")
		}
	case TypeDate:
		if _, err := time.Parse("2006-01-02", value); err != nil {
			return dErrors.New(dErrors.CodeValidation, f.Label+" must be a date in YYYY-MM-DD form")
		}
	case TypeSelect, TypeRadio:
		if !contains(f.Options, value) {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%q is not an option for %s", value, f.Label))
		}
	case TypeCheckbox:
		// Checkbox answers arrive comma-separated.
		for _, picked := range strings.Split(value, ",") {
			picked = strings.TrimSpace(picked)
			if picked != "" && !contains(f.Options, picked) {
				return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%q is not an option for %s", picked, f.Label))
			}
		}
	}
	return nil
}

func validPhone(value string) bool {
	digits := 0
	for i, r := range value {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}

func contains(options []string, value string) bool {
	for _, opt := range options {
		if opt == value {
			return true
		}
	}
	return false
}
