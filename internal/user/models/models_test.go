package models

import (
	"testing"

	"github.com/stretchr/testify/require"

	fb "intake/internal/formbuilder/models"
)

func validConfig() FormConfig {
	return FormConfig{
		Title: "Engineering Intake",
		Fields: []fb.Field{
			{ID: "name", Label: "Full name", Type: fb.TypeText, Required: true},
			{ID: "email", Label: "Email", Type: fb.TypeEmail, Required: true},
		},
		AcceptingResponses: true,
	}
}

func TestFormConfigValidate(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestFormConfigRequiresTitle(t *testing.T) {
	cfg := validConfig()
	cfg.Title = "   "
	require.Error(t, cfg.Validate())
}

func TestFormConfigRequiresFields(t *testing.T) {
	cfg := validConfig()
	cfg.Fields = nil
	require.Error(t, cfg.Validate())
}

func TestFormConfigRejectsDuplicateFieldIDs(t *testing.T) {
	cfg := validConfig()
	cfg.Fields = append(cfg.Fields, fb.Field{ID: "name", Label: "Name again", Type: fb.TypeText})
	require.Error(t, cfg.Validate())
}

func TestFormConfigRejectsInvalidField(t *testing.T) {
	cfg := validConfig()
	cfg.Fields = append(cfg.Fields, fb.Field{ID: "role", Label: "Role", Type: fb.TypeSelect})
	require.Error(t, cfg.Validate())
}

func TestUpdateProfileRequestValidate(t *testing.T) {
	require.Error(t, (&UpdateProfileRequest{}).Validate())
	require.NoError(t, (&UpdateProfileRequest{FirstName: "Ada"}).Validate())
}
