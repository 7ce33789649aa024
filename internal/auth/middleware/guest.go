package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	guestCookie = "quiz_guest_id"
	guestPrefix = "guest|"
)

// POST /auth/guest
//
// Issues a learner token. A browser that already holds a guest cookie keeps
// its identity, so its sessions stay its own.
func GuestLoginHandler(a *AuthService, enabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !enabled {
			http.Error(w, "guest auth disabled", http.StatusForbidden)
			return
		}

		sub := ""
		if c, err := r.Cookie(guestCookie); err == nil && strings.HasPrefix(c.Value, guestPrefix) {
			if _, err := uuid.Parse(strings.TrimPrefix(c.Value, guestPrefix)); err == nil {
				sub = c.Value
			}
		}
		if sub == "" {
			sub = guestPrefix + uuid.NewString()
		}

		tok, err := a.IssueJWT(sub, "learner")
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     guestCookie,
			Value:    sub,
			Path:     "/",
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
			Expires:  a.now().Add(30 * 24 * time.Hour),
		})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: tok, Subject: sub, Role: "learner"})
	}
}
