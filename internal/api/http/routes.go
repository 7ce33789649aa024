package http

import (
	"github.com/go-chi/chi/v5"

	auth "github.com/mind-engage/quizengine/internal/auth/middleware"
	"github.com/mind-engage/quizengine/internal/rbac"
	"github.com/mind-engage/quizengine/internal/render"
	"github.com/mind-engage/quizengine/internal/session"
)

type Deps struct {
	Sessions *session.Service
	Auth     *auth.AuthService
	Labels   render.Labels

	AuthorUser     string
	AuthorPassHash string
	AllowGuests    bool
}

// Mount registers the auth endpoints and the protected API on r.
func Mount(r chi.Router, d Deps) {
	r.Post("/auth/login", auth.LoginHandler(d.Auth, d.AuthorUser, d.AuthorPassHash))
	r.Post("/auth/guest", auth.GuestLoginHandler(d.Auth, d.AllowGuests))

	// JWT → subject and role in context → RBAC
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(d.Auth))

		// Authors: documents carry answer keys
		pr.With(rbac.Require("document:create")).
			Post("/documents", CreateDocumentHandler(d.Sessions))
		pr.With(rbac.Require("document:view")).
			Get("/documents", ListDocumentsHandler(d.Sessions))
		pr.With(rbac.Require("document:view")).
			Get("/documents/{documentID}", GetDocumentHandler(d.Sessions))

		// Learner flow; handlers also check session ownership
		pr.With(rbac.Require("session:create")).
			Post("/sessions", StartSessionHandler(d.Sessions))
		pr.With(rbac.RequireAny("session:view", "session:view-all")).
			Get("/sessions/{sessionID}", GetSessionHandler(d.Sessions))
		pr.With(rbac.RequireAny("session:view", "session:view-all")).
			Get("/sessions/{sessionID}/view", ViewSessionHandler(d.Sessions, d.Labels))
		pr.With(rbac.Require("session:act")).
			Post("/sessions/{sessionID}/answers", AnswerHandler(d.Sessions))
		pr.With(rbac.Require("session:act")).
			Post("/sessions/{sessionID}/submit", SubmitHandler(d.Sessions))
		pr.With(rbac.Require("session:act")).
			Post("/sessions/{sessionID}/retry", RetryHandler(d.Sessions))
	})
}
