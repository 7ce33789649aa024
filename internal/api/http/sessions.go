package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/mind-engage/quizengine/internal/auth/middleware"
	"github.com/mind-engage/quizengine/internal/quiz"
	"github.com/mind-engage/quizengine/internal/rbac"
	"github.com/mind-engage/quizengine/internal/render"
	"github.com/mind-engage/quizengine/internal/session"
)

type sessionResponse struct {
	Session  session.Session   `json:"session"`
	Snapshot quiz.QuizSnapshot `json:"snapshot"`
}

// POST /sessions  { "document_id": "...", "quiz_index": 0 }
func StartSessionHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			DocumentID string `json:"document_id" validate:"required"`
			QuizIndex  int    `json:"quiz_index" validate:"min=0"`
		}
		if msg, ok := decode(r, &req); !ok {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		s, err := svc.Start(r.Context(), req.DocumentID, req.QuizIndex, auth.SubjectFromContext(r.Context()))
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, s)
	}
}

func GetSessionHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, qz, ok := openOwned(w, r, svc)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse{Session: s, Snapshot: qz.Snapshot()})
	}
}

// GET /sessions/{sessionID}/view returns the display model of the session.
func ViewSessionHandler(svc *session.Service, labels render.Labels) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, qz, ok := openOwned(w, r, svc)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, render.View(qz.Snapshot(), labels))
	}
}

// POST /sessions/{sessionID}/answers
func AnswerHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Exercise int    `json:"exercise" validate:"min=0"`
			Question int    `json:"question" validate:"min=0"`
			Line     int    `json:"line" validate:"min=0"`
			Unit     int    `json:"unit" validate:"min=0"`
			Kind     string `json:"kind" validate:"required,oneof=tick toggle select enter"`
			Ticked   bool   `json:"ticked"`
			Value    string `json:"value" validate:"max=10000"`
		}
		if msg, ok := decode(r, &req); !ok {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		act(w, r, svc, quiz.Action{
			Kind:   quiz.ActionKind(req.Kind),
			Ref:    quiz.Ref{Exercise: req.Exercise, Question: req.Question, Line: req.Line, Unit: req.Unit},
			Ticked: req.Ticked,
			Value:  req.Value,
		})
	}
}

func SubmitHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act(w, r, svc, quiz.Action{Kind: quiz.ActionSubmit})
	}
}

func RetryHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act(w, r, svc, quiz.Action{Kind: quiz.ActionRetry})
	}
}

func act(w http.ResponseWriter, r *http.Request, svc *session.Service, a quiz.Action) {
	id := chi.URLParam(r, "sessionID")
	s, err := svc.Session(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	if !owns(r, s) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	s, snap, err := svc.Act(r.Context(), id, a)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Session: s, Snapshot: snap})
}

func openOwned(w http.ResponseWriter, r *http.Request, svc *session.Service) (session.Session, *quiz.Quiz, bool) {
	s, qz, err := svc.Open(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		fail(w, r, err)
		return session.Session{}, nil, false
	}
	if !owns(r, s) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return session.Session{}, nil, false
	}
	return s, qz, true
}

// owns reports whether the caller may see s: its learner, or a role that
// may view every session.
func owns(r *http.Request, s session.Session) bool {
	return s.LearnerID == auth.SubjectFromContext(r.Context()) || rbac.Can(r.Context(), "session:view-all")
}
