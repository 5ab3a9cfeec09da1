package store

import (
	"encoding/json"

	"intake/internal/auth/models"
)

// Repository is the sole owner of the persisted credential slots. All session
// mutations flow through the auth service, which depends only on this
// interface so tests can substitute the in-memory implementation.
//
// Error Contract:
// - Load never fails: malformed or partial slot data yields an absent session.
// - Save/SaveLegacy/Clear return errors only for infrastructure failures.
type Repository interface {
	Save(token string, user *models.User) error
	SaveLegacy(user *models.User) error
	Load() models.Session
	Clear() error
}

// slots is the serialized form of the four credential slots. The keys match
// the storage keys the web client used, so a deployed backend sees identical
// shapes regardless of which client wrote them.
type slots struct {
	AuthToken  string `json:"authToken,omitempty"`
	User       string `json:"user,omitempty"`
	AdminToken string `json:"adminToken,omitempty"`
	AdminUser  string `json:"adminUser,omitempty"`
}

func (s slots) empty() bool {
	return s.AuthToken == "" && s.User == "" && s.AdminToken == "" && s.AdminUser == ""
}

// modernSlots builds the slot set for a multi-user session. Legacy slots are
// left zero so the schemes stay mutually exclusive.
func modernSlots(token string, user *models.User) (slots, error) {
	raw, err := json.Marshal(user)
	if err != nil {
		return slots{}, err
	}
	return slots{AuthToken: token, User: string(raw)}, nil
}

// legacySlots builds the slot set for the backward-compatibility admin
// session. IsLegacy is forced so downstream consumers can rely on it.
func legacySlots(user *models.User) (slots, error) {
	u := *user
	u.IsLegacy = true
	raw, err := json.Marshal(&u)
	if err != nil {
		return slots{}, err
	}
	return slots{AdminToken: models.LegacyToken, AdminUser: string(raw)}, nil
}

// decode turns raw slots into a session. Modern slots win; legacy slots are
// only consulted when the modern pair is incomplete. A user blob that fails
// to parse is treated as absent, so corrupt state degrades to logged-out
// rather than failing open.
func decode(s slots) models.Session {
	if s.AuthToken != "" && s.User != "" {
		var user models.User
		if err := json.Unmarshal([]byte(s.User), &user); err == nil {
			return models.Session{Token: s.AuthToken, Scheme: models.SchemeModern, User: &user}
		}
		return models.Session{}
	}
	if s.AdminToken != "" && s.AdminUser != "" {
		var user models.User
		if err := json.Unmarshal([]byte(s.AdminUser), &user); err == nil {
			user.IsLegacy = true
			return models.Session{Token: s.AdminToken, Scheme: models.SchemeLegacy, User: &user}
		}
		return models.Session{}
	}
	return models.Session{}
}
