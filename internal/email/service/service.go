// Package service implements the email workflow: template management and
// sending notifications to applicants. The backend may not expose email
// endpoints at all, so every template operation falls back to the local
// library when the remote route is missing.
package service

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"intake/internal/api"
	"intake/internal/email/models"
	"intake/internal/email/store"
	dErrors "intake/pkg/domain-errors"
)

// sendConcurrency caps the parallel fan-out of a local bulk send.
const sendConcurrency = 4

// Service wraps the email endpoints with a local template fallback.
type Service struct {
	client *api.Client
	local  *store.TemplateStore
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New constructs the email service. The local store backs template
// operations whenever the backend lacks the corresponding route.
func New(client *api.Client, local *store.TemplateStore, opts ...Option) *Service {
	s := &Service{client: client, local: local}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

type templatesResponse struct {
	Success   bool              `json:"success"`
	Templates []models.Template `json:"templates"`
}

type templateResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Template models.Template `json:"template"`
}

type historyResponse struct {
	Success bool                  `json:"success"`
	History []models.HistoryEntry `json:"history"`
}

// routeMissing reports whether an error means the backend has no such
// endpoint, which is the signal to use the local library instead.
func routeMissing(err error) bool {
	return dErrors.HasCode(err, dErrors.CodeNotFound)
}

// Templates lists the template library, remote first.
func (s *Service) Templates(ctx context.Context) ([]models.Template, error) {
	var resp templatesResponse
	err := s.client.Get(ctx, "/emails/templates", &resp)
	if err == nil {
		return resp.Templates, nil
	}
	if !routeMissing(err) {
		return nil, err
	}
	s.logger.DebugContext(ctx, "email templates served from local library")
	return s.local.List()
}

// GetTemplate fetches one template by id, remote first.
func (s *Service) GetTemplate(ctx context.Context, id string) (*models.Template, error) {
	if id == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "template id is required")
	}
	var resp templateResponse
	err := s.client.Get(ctx, "/emails/templates/"+id, &resp)
	if err == nil {
		return &resp.Template, nil
	}
	if !routeMissing(err) {
		return nil, err
	}
	return s.local.Get(id)
}

// SaveTemplate creates or updates a template. New templates have no ID yet.
func (s *Service) SaveTemplate(ctx context.Context, tpl models.Template) (*models.Template, error) {
	if err := tpl.Validate(); err != nil {
		return nil, err
	}

	var resp templateResponse
	var err error
	if tpl.ID == "" {
		err = s.client.Post(ctx, "/emails/templates", tpl, &resp)
	} else {
		err = s.client.Put(ctx, "/emails/templates/"+tpl.ID, tpl, &resp)
	}
	if err == nil {
		return &resp.Template, nil
	}
	if !routeMissing(err) {
		return nil, err
	}
	return s.local.Save(tpl)
}

// DeleteTemplate removes a template from whichever library holds it.
func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	if id == "" {
		return dErrors.New(dErrors.CodeValidation, "template id is required")
	}
	err := s.client.Delete(ctx, "/emails/templates/"+id, nil)
	if err == nil || !routeMissing(err) {
		return err
	}
	return s.local.Delete(id)
}

// DuplicateTemplate copies an existing template under a new name so it can be
// edited without touching the original.
func (s *Service) DuplicateTemplate(ctx context.Context, id string) (*models.Template, error) {
	tpl, err := s.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	copied := *tpl
	copied.ID = ""
	copied.Name = tpl.Name + " (copy)"
	return s.SaveTemplate(ctx, copied)
}

// Preview renders a template against sample values without sending anything.
func (s *Service) Preview(ctx context.Context, id string, values map[string]string) (subject, body string, err error) {
	tpl, err := s.GetTemplate(ctx, id)
	if err != nil {
		return "", "", err
	}
	subject, body = tpl.Render(values)
	return subject, body, nil
}

// SendSingle delivers one message through the backend.
func (s *Service) SendSingle(ctx context.Context, msg models.Message) error {
	if msg.To == "" {
		return dErrors.New(dErrors.CodeValidation, "recipient is required")
	}
	if msg.Subject == "" {
		return dErrors.New(dErrors.CodeValidation, "subject is required")
	}
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := s.client.Post(ctx, "/emails/send", msg, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return dErrors.New(dErrors.CodeServerError, nonEmpty(resp.Message, "email was not accepted"))
	}
	return nil
}

// Recipient is one target of a bulk send with its placeholder values.
type Recipient struct {
	To     string            `json:"to"`
	Values map[string]string `json:"values,omitempty"`
}

// BulkFailure records one recipient a bulk send could not reach.
type BulkFailure struct {
	To     string `json:"to"`
	Reason string `json:"reason"`
}

// BulkReport summarizes a bulk send.
type BulkReport struct {
	Sent     int           `json:"sent"`
	Failures []BulkFailure `json:"failures,omitempty"`
}

// SendBulk renders the template per recipient and delivers to all of them.
// When the backend offers a bulk endpoint it does the fan-out; otherwise the
// client sends each message itself with bounded concurrency. Individual
// failures do not abort the batch.
func (s *Service) SendBulk(ctx context.Context, tpl models.Template, recipients []Recipient) (*BulkReport, error) {
	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "no recipients selected")
	}

	var resp struct {
		Success  bool          `json:"success"`
		Sent     int           `json:"sent"`
		Failures []BulkFailure `json:"failures"`
	}
	payload := map[string]any{"template": tpl, "recipients": recipients}
	err := s.client.Post(ctx, "/emails/send-bulk", payload, &resp)
	if err == nil {
		return &BulkReport{Sent: resp.Sent, Failures: resp.Failures}, nil
	}
	if !routeMissing(err) {
		return nil, err
	}

	s.logger.InfoContext(ctx, "bulk endpoint missing, sending individually",
		"recipients", len(recipients))
	return s.fanOut(ctx, tpl, recipients)
}

func (s *Service) fanOut(ctx context.Context, tpl models.Template, recipients []Recipient) (*BulkReport, error) {
	var (
		mu     sync.Mutex
		report BulkReport
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(sendConcurrency)
	for _, rcpt := range recipients {
		g.Go(func() error {
			subject, body := tpl.Render(rcpt.Values)
			err := s.SendSingle(ctx, models.Message{To: rcpt.To, Subject: subject, Body: body})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failures = append(report.Failures, BulkFailure{To: rcpt.To, Reason: err.Error()})
				return nil
			}
			report.Sent++
			return nil
		})
	}
	// Workers never return errors; Wait only surfaces context cancellation.
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "bulk send interrupted")
	}
	return &report, nil
}

// History returns the sent-mail log. A backend without the endpoint simply
// has no history.
func (s *Service) History(ctx context.Context) ([]models.HistoryEntry, error) {
	var resp historyResponse
	err := s.client.Get(ctx, "/emails/history", &resp)
	if err == nil {
		return resp.History, nil
	}
	if routeMissing(err) {
		return []models.HistoryEntry{}, nil
	}
	return nil, err
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
