package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"intake/internal/api"
	"intake/internal/application/models"
	dErrors "intake/pkg/domain-errors"
)

type ApplicationSuite struct {
	suite.Suite

	mux    *http.ServeMux
	server *httptest.Server
	svc    *Service
}

func TestApplicationSuite(t *testing.T) {
	suite.Run(t, new(ApplicationSuite))
}

func (s *ApplicationSuite) SetupTest() {
	s.mux = http.NewServeMux()
	s.server = httptest.NewServer(s.mux)
	client := api.New(s.server.URL, 5*time.Second)
	s.svc = New(client)
}

func (s *ApplicationSuite) TearDownTest() {
	s.server.Close()
}

func (s *ApplicationSuite) respond(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	s.Require().NoError(json.NewEncoder(w).Encode(v))
}

func (s *ApplicationSuite) TestSubmit() {
	var gotBody models.SubmitRequest
	s.mux.HandleFunc("POST /applications/submit/usr_1", func(w http.ResponseWriter, r *http.Request) {
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&gotBody))
		s.respond(w, map[string]any{
			"success": true,
			"application": map[string]any{
				"id":             "app_1",
				"applicantName":  "Ada Lovelace",
				"applicantEmail": "ada@example.com",
				"status":         "submitted",
			},
		})
	})

	app, err := s.svc.Submit(context.Background(), "usr_1", models.SubmitRequest{
		ApplicantName:  "Ada Lovelace",
		ApplicantEmail: "ada@example.com",
		Responses:      map[string]string{"role": "engineer"},
	})
	s.Require().NoError(err)
	s.Equal("app_1", app.ID)
	s.Equal(models.StatusSubmitted, app.Status)
	s.Equal("engineer", gotBody.Responses["role"])
}

func (s *ApplicationSuite) TestSubmitValidatesBeforeSending() {
	_, err := s.svc.Submit(context.Background(), "usr_1", models.SubmitRequest{})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.svc.Submit(context.Background(), "", models.SubmitRequest{
		ApplicantName: "Ada", ApplicantEmail: "ada@example.com",
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ApplicationSuite) TestSubmitUnsuccessfulBody() {
	s.mux.HandleFunc("POST /applications/submit/usr_1", func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, map[string]any{"success": false, "message": "form closed"})
	})

	_, err := s.svc.Submit(context.Background(), "usr_1", models.SubmitRequest{
		ApplicantName: "Ada", ApplicantEmail: "ada@example.com",
	})
	s.Require().Error(err)
	s.Contains(err.Error(), "form closed")
}

func (s *ApplicationSuite) TestSubmitWithAttachment() {
	s.mux.HandleFunc("POST /applications/submit/usr_1", func(w http.ResponseWriter, r *http.Request) {
		s.Require().NoError(r.ParseMultipartForm(1 << 20))
		s.Equal("Ada Lovelace", r.FormValue("applicantName"))
		s.Equal("engineer", r.FormValue("responses[role]"))

		file, header, err := r.FormFile("attachment")
		s.Require().NoError(err)
		defer file.Close()
		s.Equal("resume.pdf", header.Filename)

		s.respond(w, map[string]any{
			"success":     true,
			"application": map[string]any{"id": "app_2", "status": "submitted"},
		})
	})

	app, err := s.svc.SubmitWithAttachment(context.Background(), "usr_1",
		models.SubmitRequest{
			ApplicantName:  "Ada Lovelace",
			ApplicantEmail: "ada@example.com",
			Responses:      map[string]string{"role": "engineer"},
		},
		"resume.pdf", strings.NewReader("%PDF-1.4 fake"))
	s.Require().NoError(err)
	s.Equal("app_2", app.ID)
}

func (s *ApplicationSuite) TestListPassesFilters() {
	s.mux.HandleFunc("GET /applications", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("approved", r.URL.Query().Get("status"))
		s.Equal("jane", r.URL.Query().Get("search"))
		s.respond(w, map[string]any{
			"success": true,
			"applications": []map[string]any{
				{"id": "app_1", "status": "approved"},
				{"id": "app_2", "status": "approved"},
			},
		})
	})

	apps, err := s.svc.List(context.Background(), models.Filters{
		Status: models.StatusApproved,
		Search: "jane",
	})
	s.Require().NoError(err)
	s.Len(apps, 2)
	s.Equal(models.StatusApproved, apps[0].Status)
}

func (s *ApplicationSuite) TestGet() {
	s.mux.HandleFunc("GET /applications/app_1", func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, map[string]any{
			"success":     true,
			"application": map[string]any{"id": "app_1", "applicantName": "Ada Lovelace"},
		})
	})

	app, err := s.svc.Get(context.Background(), "app_1")
	s.Require().NoError(err)
	s.Equal("Ada Lovelace", app.ApplicantName)
}

func (s *ApplicationSuite) TestGetNotFound() {
	s.mux.HandleFunc("GET /applications/app_404", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		s.respond(w, map[string]any{"message": "application not found"})
	})

	_, err := s.svc.Get(context.Background(), "app_404")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ApplicationSuite) TestRecentDegradesToEmpty() {
	s.mux.HandleFunc("GET /applications/recent", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	apps := s.svc.Recent(context.Background(), 5)
	s.NotNil(apps)
	s.Empty(apps)
}

func (s *ApplicationSuite) TestRecentDefaultsLimit() {
	s.mux.HandleFunc("GET /applications/recent", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("5", r.URL.Query().Get("limit"))
		s.respond(w, map[string]any{
			"success":      true,
			"applications": []map[string]any{{"id": "app_1"}},
		})
	})

	apps := s.svc.Recent(context.Background(), 0)
	s.Len(apps, 1)
}

func (s *ApplicationSuite) TestUpdateStatus() {
	s.mux.HandleFunc("PATCH /applications/app_1/status", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&body))
		s.Equal("shortlisted", body["status"])
		s.Equal("strong portfolio", body["remarks"])
		s.respond(w, map[string]any{
			"success":     true,
			"application": map[string]any{"id": "app_1", "status": "shortlisted"},
		})
	})

	app, err := s.svc.UpdateStatus(context.Background(), "app_1", models.StatusShortlisted, "strong portfolio")
	s.Require().NoError(err)
	s.Equal(models.StatusShortlisted, app.Status)
}

func (s *ApplicationSuite) TestUpdateStatusRejectsUnknownStatus() {
	_, err := s.svc.UpdateStatus(context.Background(), "app_1", "archived", "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ApplicationSuite) TestBulkUpdateStatus() {
	s.mux.HandleFunc("PATCH /applications/bulk/status", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			IDs    []string `json:"ids"`
			Status string   `json:"status"`
		}
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&body))
		s.ElementsMatch([]string{"app_1", "app_2"}, body.IDs)
		s.respond(w, map[string]any{"success": true, "updated": 2})
	})

	updated, err := s.svc.BulkUpdateStatus(context.Background(), []string{"app_1", "app_2"}, models.StatusRejected, "")
	s.Require().NoError(err)
	s.Equal(2, updated)
}

func (s *ApplicationSuite) TestBulkUpdateRequiresSelection() {
	_, err := s.svc.BulkUpdateStatus(context.Background(), nil, models.StatusRejected, "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ApplicationSuite) TestAddRemarks() {
	s.mux.HandleFunc("PATCH /applications/app_1/remarks", func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, map[string]any{
			"success":     true,
			"application": map[string]any{"id": "app_1", "remarks": "call back Monday"},
		})
	})

	app, err := s.svc.AddRemarks(context.Background(), "app_1", "call back Monday")
	s.Require().NoError(err)
	s.Equal("call back Monday", app.Remarks)
}

func (s *ApplicationSuite) TestAddRemarksRejectsEmpty() {
	_, err := s.svc.AddRemarks(context.Background(), "app_1", "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ApplicationSuite) TestStats() {
	s.mux.HandleFunc("GET /applications/stats", func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, map[string]any{
			"success": true,
			"stats":   map[string]any{"total": 7, "approved": 2, "submitted": 5},
		})
	})

	stats := s.svc.Stats(context.Background())
	s.Equal(7, stats.Total)
	s.Equal(2, stats.Approved)
}

func (s *ApplicationSuite) TestStatsDegradesToZero() {
	s.mux.HandleFunc("GET /applications/stats", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	s.Equal(models.Stats{}, s.svc.Stats(context.Background()))
}
