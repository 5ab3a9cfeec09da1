package devstub

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	fb "intake/internal/formbuilder/models"
	usermodels "intake/internal/user/models"
)

// defaultFormConfig is what an owner who never customized their form serves.
func defaultFormConfig() usermodels.FormConfig {
	return usermodels.FormConfig{
		Title: "Application Form",
		Fields: []fb.Field{
			{ID: "fullName", Label: "Full name", Type: fb.TypeText, Required: true},
			{ID: "email", Label: "Email address", Type: fb.TypeEmail, Required: true},
			{ID: "phone", Label: "Phone number", Type: fb.TypePhone},
		},
		AcceptingResponses: true,
	}
}

func (s *Server) handleFormConfig(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	s.mu.RLock()
	cfg, ok := s.configs[user.UserID]
	s.mu.RUnlock()
	if !ok {
		cfg = defaultFormConfig()
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "formConfig": cfg})
}

func (s *Server) handlePublicFormConfig(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerID")

	s.mu.RLock()
	cfg, ok := s.configs[ownerID]
	s.mu.RUnlock()
	if !ok {
		cfg = defaultFormConfig()
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "formConfig": cfg})
}

func (s *Server) handleUpdateFormConfig(w http.ResponseWriter, r *http.Request) {
	var cfg usermodels.FormConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON in request body")
		return
	}
	if err := cfg.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := currentUser(r)
	s.mu.Lock()
	s.configs[user.UserID] = cfg
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "formConfig": cfg})
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	s.mu.RLock()
	total := 0
	for _, app := range s.applications {
		if app.FormOwnerID == user.UserID {
			total++
		}
	}
	emails := len(s.history)
	s.mu.RUnlock()

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats": usermodels.DashboardStats{
			TotalApplications: total,
			EmailsSent:        emails,
		},
	})
}
