package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "intake/pkg/domain-errors"
)

func TestParseStatusAcceptsKnownValues(t *testing.T) {
	for _, raw := range []string{"submitted", "under_review", "approved", "rejected", "shortlisted", "interview_scheduled"} {
		status, err := ParseStatus(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, Status(raw), status)
	}
}

func TestParseStatusRejectsUnknown(t *testing.T) {
	_, err := ParseStatus("archived")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "Under Review", StatusUnderReview.Label())
	assert.Equal(t, "Interview Scheduled", StatusInterviewScheduled.Label())
	assert.Equal(t, "weird", Status("weird").Label())
}

func TestFiltersEncodeEmpty(t *testing.T) {
	assert.Empty(t, Filters{}.Encode())
}

func TestFiltersEncode(t *testing.T) {
	f := Filters{
		Status:    StatusShortlisted,
		Search:    "jane",
		StartDate: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		Page:      2,
		PageSize:  25,
	}
	got := f.Encode()
	assert.Contains(t, got, "status=shortlisted")
	assert.Contains(t, got, "search=jane")
	assert.Contains(t, got, "startDate=2026-01-02T00%3A00%3A00Z")
	assert.Contains(t, got, "page=2")
	assert.Contains(t, got, "pageSize=25")
}

func TestSubmitRequestValidate(t *testing.T) {
	req := SubmitRequest{ApplicantEmail: "a@b.co"}
	err := req.Validate()
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	req.ApplicantName = "Ada"
	require.NoError(t, req.Validate())
}
