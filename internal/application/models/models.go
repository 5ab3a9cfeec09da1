package models

import (
	"net/url"
	"strconv"
	"time"

	dErrors "intake/pkg/domain-errors"
)

// Status is the review lifecycle of a submitted application. The client does
// not enforce a transition graph; reviewers move applications freely and the
// backend is the system of record.
type Status string

const (
	StatusSubmitted          Status = "submitted"
	StatusUnderReview        Status = "under_review"
	StatusApproved           Status = "approved"
	StatusRejected           Status = "rejected"
	StatusShortlisted        Status = "shortlisted"
	StatusInterviewScheduled Status = "interview_scheduled"
)

// All returns every known status in display order.
func All() []Status {
	return []Status{
		StatusSubmitted,
		StatusUnderReview,
		StatusShortlisted,
		StatusInterviewScheduled,
		StatusApproved,
		StatusRejected,
	}
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	for _, known := range All() {
		if s == known {
			return true
		}
	}
	return false
}

// Label returns the human-readable form shown in listings.
func (s Status) Label() string {
	switch s {
	case StatusSubmitted:
		return "Submitted"
	case StatusUnderReview:
		return "Under Review"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	case StatusShortlisted:
		return "Shortlisted"
	case StatusInterviewScheduled:
		return "Interview Scheduled"
	default:
		return string(s)
	}
}

// ParseStatus validates reviewer-typed input.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", dErrors.New(dErrors.CodeValidation, "unknown status "+strconv.Quote(raw))
	}
	return s, nil
}

// Application is one submission against a user's public form.
type Application struct {
	ID             string            `json:"id"`
	FormOwnerID    string            `json:"userId"`
	ApplicantName  string            `json:"applicantName"`
	ApplicantEmail string            `json:"applicantEmail"`
	ApplicantPhone string            `json:"applicantPhone,omitempty"`
	Responses      map[string]string `json:"responses,omitempty"`
	Status         Status            `json:"status"`
	Remarks        string            `json:"remarks,omitempty"`
	SubmittedAt    time.Time         `json:"submittedAt"`
	UpdatedAt      time.Time         `json:"updatedAt,omitzero"`
}

// SubmitRequest is the public form submission payload.
type SubmitRequest struct {
	ApplicantName  string            `json:"applicantName"`
	ApplicantEmail string            `json:"applicantEmail"`
	ApplicantPhone string            `json:"applicantPhone,omitempty"`
	Responses      map[string]string `json:"responses,omitempty"`
}

// Validate checks the submission before it leaves the client.
func (r *SubmitRequest) Validate() error {
	if r.ApplicantName == "" {
		return dErrors.New(dErrors.CodeValidation, "applicant name is required")
	}
	if r.ApplicantEmail == "" {
		return dErrors.New(dErrors.CodeValidation, "applicant email is required")
	}
	return nil
}

// Filters narrows application listings. Zero values are omitted from the
// query string.
type Filters struct {
	Status    Status
	Search    string
	StartDate time.Time
	EndDate   time.Time
	Page      int
	PageSize  int
}

// Encode renders the filters as a URL query string, empty when no filter is
// set.
func (f Filters) Encode() string {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if !f.StartDate.IsZero() {
		q.Set("startDate", f.StartDate.UTC().Format(time.RFC3339))
	}
	if !f.EndDate.IsZero() {
		q.Set("endDate", f.EndDate.UTC().Format(time.RFC3339))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(f.PageSize))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// Stats summarizes an inbox for the dashboard cards.
type Stats struct {
	Total              int `json:"total"`
	Submitted          int `json:"submitted"`
	UnderReview        int `json:"under_review"`
	Approved           int `json:"approved"`
	Rejected           int `json:"rejected"`
	Shortlisted        int `json:"shortlisted"`
	InterviewScheduled int `json:"interview_scheduled"`
}
