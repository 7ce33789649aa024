package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/quizengine/internal/session"
)

// POST /documents  { "title": "...", "markup": "<lsx-quiz>...</lsx-quiz>" }
func CreateDocumentHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Title  string `json:"title" validate:"required,max=200"`
			Markup string `json:"markup" validate:"required"`
		}
		if msg, ok := decode(r, &req); !ok {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		d, err := svc.CreateDocument(r.Context(), req.Title, req.Markup)
		if err != nil {
			fail(w, r, err)
			return
		}
		d.Markup = ""
		writeJSON(w, http.StatusCreated, d)
	}
}

func ListDocumentsHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := svc.Documents(r.Context())
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, docs)
	}
}

func GetDocumentHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.Document(r.Context(), chi.URLParam(r, "documentID"))
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}
