package session

import (
	"context"

	"github.com/mind-engage/quizengine/internal/quiz"
)

// Store persists documents, sessions and the per-session action log.
// Implementations are safe for concurrent use and return ErrNotFound for
// unknown ids.
type Store interface {
	PutDocument(ctx context.Context, d Document) error
	GetDocument(ctx context.Context, id string) (Document, error)
	// ListDocuments returns documents without their markup, newest first.
	ListDocuments(ctx context.Context) ([]Document, error)

	NewSession(ctx context.Context, s Session) error
	GetSession(ctx context.Context, id string) (Session, error)
	// UpdateSession stores the mode and scores of s.
	UpdateSession(ctx context.Context, s Session) error

	AppendAction(ctx context.Context, sessionID string, a quiz.Action) error
	Actions(ctx context.Context, sessionID string) ([]quiz.Action, error)
}
