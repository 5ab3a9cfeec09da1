package devstub

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	appmodels "intake/internal/application/models"
)

func (s *Server) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerID")

	var req appmodels.SubmitRequest
	switch {
	case strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"):
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid multipart payload")
			return
		}
		req.ApplicantName = r.FormValue("applicantName")
		req.ApplicantEmail = r.FormValue("applicantEmail")
		req.ApplicantPhone = r.FormValue("applicantPhone")
		req.Responses = make(map[string]string)
		for key, values := range r.MultipartForm.Value {
			if k, ok := responseKey(key); ok && len(values) > 0 {
				req.Responses[k] = values[0]
			}
		}
	default:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid JSON in request body")
			return
		}
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	if cfg, ok := s.configs[ownerID]; ok && !cfg.AcceptingResponses {
		s.mu.Unlock()
		s.writeError(w, http.StatusForbidden, "this form is not accepting responses")
		return
	}
	app := appmodels.Application{
		ID:             "app_" + uuid.NewString(),
		FormOwnerID:    ownerID,
		ApplicantName:  req.ApplicantName,
		ApplicantEmail: req.ApplicantEmail,
		ApplicantPhone: req.ApplicantPhone,
		Responses:      req.Responses,
		Status:         appmodels.StatusSubmitted,
		SubmittedAt:    s.now().UTC(),
	}
	s.applications[app.ID] = app
	s.mu.Unlock()

	s.writeJSON(w, http.StatusCreated, map[string]any{"success": true, "application": app})
}

// responseKey unwraps the "responses[field]" form key convention.
func responseKey(key string) (string, bool) {
	if strings.HasPrefix(key, "responses[") && strings.HasSuffix(key, "]") {
		return key[len("responses[") : len(key)-1], true
	}
	return "", false
}

func (s *Server) ownerApplications(r *http.Request) []appmodels.Application {
	user := currentUser(r)

	s.mu.RLock()
	defer s.mu.RUnlock()
	apps := make([]appmodels.Application, 0, len(s.applications))
	for _, app := range s.applications {
		if app.FormOwnerID == user.UserID {
			apps = append(apps, app)
		}
	}
	sort.Slice(apps, func(i, j int) bool {
		return apps[i].SubmittedAt.After(apps[j].SubmittedAt)
	})
	return apps
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	apps := s.ownerApplications(r)

	q := r.URL.Query()
	if status := q.Get("status"); status != "" {
		apps = filter(apps, func(a appmodels.Application) bool {
			return string(a.Status) == status
		})
	}
	if term := strings.ToLower(q.Get("search")); term != "" {
		apps = filter(apps, func(a appmodels.Application) bool {
			return strings.Contains(strings.ToLower(a.ApplicantName), term) ||
				strings.Contains(strings.ToLower(a.ApplicantEmail), term)
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"applications": apps,
		"total":        len(apps),
	})
}

func filter(apps []appmodels.Application, keep func(appmodels.Application) bool) []appmodels.Application {
	out := apps[:0:0]
	for _, a := range apps {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s *Server) handleRecentApplications(w http.ResponseWriter, r *http.Request) {
	apps := s.ownerApplications(r)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 5
	}
	if len(apps) > limit {
		apps = apps[:limit]
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "applications": apps})
}

func (s *Server) handleApplicationStats(w http.ResponseWriter, r *http.Request) {
	var stats appmodels.Stats
	for _, app := range s.ownerApplications(r) {
		stats.Total++
		switch app.Status {
		case appmodels.StatusSubmitted:
			stats.Submitted++
		case appmodels.StatusUnderReview:
			stats.UnderReview++
		case appmodels.StatusApproved:
			stats.Approved++
		case appmodels.StatusRejected:
			stats.Rejected++
		case appmodels.StatusShortlisted:
			stats.Shortlisted++
		case appmodels.StatusInterviewScheduled:
			stats.InterviewScheduled++
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "stats": stats})
}

// ownedApplication looks up one application and checks it belongs to the
// caller. Foreign applications read as absent, not forbidden.
func (s *Server) ownedApplication(r *http.Request, id string) (appmodels.Application, bool) {
	user := currentUser(r)
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.applications[id]
	if !ok || app.FormOwnerID != user.UserID {
		return appmodels.Application{}, false
	}
	return app, true
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	app, ok := s.ownedApplication(r, chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "application not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "application": app})
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status  string `json:"status"`
		Remarks string `json:"remarks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON in request body")
		return
	}
	status, err := appmodels.ParseStatus(req.Status)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	if _, ok := s.ownedApplication(r, id); !ok {
		s.writeError(w, http.StatusNotFound, "application not found")
		return
	}

	s.mu.Lock()
	app := s.applications[id]
	app.Status = status
	if req.Remarks != "" {
		app.Remarks = req.Remarks
	}
	app.UpdatedAt = s.now().UTC()
	s.applications[id] = app
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "application": app})
}

func (s *Server) handleAddRemarks(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Remarks string `json:"remarks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON in request body")
		return
	}
	if req.Remarks == "" {
		s.writeError(w, http.StatusBadRequest, "remarks must not be empty")
		return
	}

	id := chi.URLParam(r, "id")
	if _, ok := s.ownedApplication(r, id); !ok {
		s.writeError(w, http.StatusNotFound, "application not found")
		return
	}

	s.mu.Lock()
	app := s.applications[id]
	app.Remarks = req.Remarks
	app.UpdatedAt = s.now().UTC()
	s.applications[id] = app
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "application": app})
}

func (s *Server) handleBulkStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs     []string `json:"ids"`
		Status  string   `json:"status"`
		Remarks string   `json:"remarks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON in request body")
		return
	}
	status, err := appmodels.ParseStatus(req.Status)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := currentUser(r)
	updated := 0
	now := s.now().UTC()

	s.mu.Lock()
	for _, id := range req.IDs {
		app, ok := s.applications[id]
		if !ok || app.FormOwnerID != user.UserID {
			continue
		}
		app.Status = status
		if req.Remarks != "" {
			app.Remarks = req.Remarks
		}
		app.UpdatedAt = now
		s.applications[id] = app
		updated++
	}
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "updated": updated})
}
