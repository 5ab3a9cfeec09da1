// Package service implements the application inbox: submissions coming in
// through public forms and the review operations the dashboard runs on them.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"intake/internal/api"
	"intake/internal/application/models"
	dErrors "intake/pkg/domain-errors"
)

// Service wraps the backend application endpoints.
type Service struct {
	client *api.Client
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New constructs an application service on top of the shared API client.
func New(client *api.Client, opts ...Option) *Service {
	s := &Service{client: client}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

type listResponse struct {
	Success      bool                 `json:"success"`
	Applications []models.Application `json:"applications"`
	Total        int                  `json:"total"`
}

type singleResponse struct {
	Success     bool               `json:"success"`
	Message     string             `json:"message"`
	Application models.Application `json:"application"`
}

type statsResponse struct {
	Success bool         `json:"success"`
	Stats   models.Stats `json:"stats"`
}

type bulkResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Updated int    `json:"updated"`
}

// Submit files an application against the given form owner. This is the only
// operation here that runs unauthenticated; everything else assumes a session.
func (s *Service) Submit(ctx context.Context, formOwnerID string, req models.SubmitRequest) (*models.Application, error) {
	if formOwnerID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "form owner id is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var resp singleResponse
	if err := s.client.Post(ctx, "/applications/submit/"+formOwnerID, req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, dErrors.New(dErrors.CodeServerError, nonEmpty(resp.Message, "submission was not accepted"))
	}
	s.logger.InfoContext(ctx, "application submitted",
		"application_id", resp.Application.ID, "form_owner", formOwnerID)
	return &resp.Application, nil
}

// SubmitWithAttachment files an application together with one uploaded file,
// typically a resume. The structured fields travel as multipart form values
// alongside the file part.
func (s *Service) SubmitWithAttachment(ctx context.Context, formOwnerID string, req models.SubmitRequest, filename string, file io.Reader) (*models.Application, error) {
	if formOwnerID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "form owner id is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	fields := map[string]string{
		"applicantName":  req.ApplicantName,
		"applicantEmail": req.ApplicantEmail,
	}
	if req.ApplicantPhone != "" {
		fields["applicantPhone"] = req.ApplicantPhone
	}
	for k, v := range req.Responses {
		fields["responses["+k+"]"] = v
	}

	var resp singleResponse
	if err := s.client.Upload(ctx, "/applications/submit/"+formOwnerID, "attachment", filename, file, fields, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, dErrors.New(dErrors.CodeServerError, nonEmpty(resp.Message, "submission was not accepted"))
	}
	return &resp.Application, nil
}

// List returns the caller's inbox, narrowed by the given filters.
func (s *Service) List(ctx context.Context, f models.Filters) ([]models.Application, error) {
	var resp listResponse
	if err := s.client.Get(ctx, "/applications"+f.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Applications, nil
}

// Get fetches one application by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Application, error) {
	if id == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "application id is required")
	}
	var resp singleResponse
	if err := s.client.Get(ctx, "/applications/"+id, &resp); err != nil {
		return nil, err
	}
	return &resp.Application, nil
}

// Recent returns the newest applications for the dashboard widget. Failures
// degrade to an empty list so the dashboard renders without an inbox.
func (s *Service) Recent(ctx context.Context, limit int) []models.Application {
	if limit <= 0 {
		limit = 5
	}
	var resp listResponse
	if err := s.client.Get(ctx, "/applications/recent?limit="+strconv.Itoa(limit), &resp); err != nil {
		s.logger.WarnContext(ctx, "recent applications unavailable", "error", err)
		return []models.Application{}
	}
	return resp.Applications
}

// Search is List with a free-text term layered over the other filters.
func (s *Service) Search(ctx context.Context, term string, f models.Filters) ([]models.Application, error) {
	f.Search = term
	return s.List(ctx, f)
}

// UpdateStatus moves one application to the given status, optionally
// replacing its remarks in the same call.
func (s *Service) UpdateStatus(ctx context.Context, id string, status models.Status, remarks string) (*models.Application, error) {
	if id == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "application id is required")
	}
	if !status.Valid() {
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown status %q", status))
	}

	body := map[string]string{"status": string(status)}
	if remarks != "" {
		body["remarks"] = remarks
	}
	var resp singleResponse
	if err := s.client.Patch(ctx, "/applications/"+id+"/status", body, &resp); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "application status updated", "application_id", id, "status", status)
	return &resp.Application, nil
}

// BulkUpdateStatus applies one status to many applications in a single
// request and reports how many the backend actually changed.
func (s *Service) BulkUpdateStatus(ctx context.Context, ids []string, status models.Status, remarks string) (int, error) {
	if len(ids) == 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "no applications selected")
	}
	if !status.Valid() {
		return 0, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown status %q", status))
	}

	body := map[string]any{"ids": ids, "status": string(status)}
	if remarks != "" {
		body["remarks"] = remarks
	}
	var resp bulkResponse
	if err := s.client.Patch(ctx, "/applications/bulk/status", body, &resp); err != nil {
		return 0, err
	}
	if !resp.Success {
		return 0, dErrors.New(dErrors.CodeServerError, nonEmpty(resp.Message, "bulk update was not applied"))
	}
	return resp.Updated, nil
}

// AddRemarks attaches reviewer notes without touching the status.
func (s *Service) AddRemarks(ctx context.Context, id, remarks string) (*models.Application, error) {
	if id == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "application id is required")
	}
	if remarks == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "remarks must not be empty")
	}
	var resp singleResponse
	if err := s.client.Patch(ctx, "/applications/"+id+"/remarks", map[string]string{"remarks": remarks}, &resp); err != nil {
		return nil, err
	}
	return &resp.Application, nil
}

// Stats fetches inbox counts for the dashboard. Failures degrade to zeroed
// counters rather than breaking the page.
func (s *Service) Stats(ctx context.Context) models.Stats {
	var resp statsResponse
	if err := s.client.Get(ctx, "/applications/stats", &resp); err != nil {
		s.logger.WarnContext(ctx, "application stats unavailable", "error", err)
		return models.Stats{}
	}
	return resp.Stats
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
