package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mind-engage/quizengine/internal/quiz"
	syncx "github.com/mind-engage/quizengine/internal/sync"
)

// SQLStore keeps documents and sessions in their own tables and the actions
// of a session in the shared event log, one stream per session.
type SQLStore struct {
	db     *sql.DB
	events *syncx.EventRepo
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, events: syncx.NewEventRepo(db)}
}

func (s *SQLStore) PutDocument(ctx context.Context, d Document) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO documents (id,title,markup,quizzes,created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, markup=EXCLUDED.markup, quizzes=EXCLUDED.quizzes`,
		d.ID, d.Title, d.Markup, d.Quizzes, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("put document %s: %w", d.ID, err)
	}
	return nil
}

func (s *SQLStore) GetDocument(ctx context.Context, id string) (Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,markup,quizzes,created_at FROM documents WHERE id=$1`, id)
	var d Document
	if err := row.Scan(&d.ID, &d.Title, &d.Markup, &d.Quizzes, &d.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, fmt.Errorf("document %s: %w", id, ErrNotFound)
		}
		return Document{}, err
	}
	return d, nil
}

func (s *SQLStore) ListDocuments(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,title,quizzes,created_at FROM documents ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Title, &d.Quizzes, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLStore) NewSession(ctx context.Context, sess Session) error {
	var exist int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM documents WHERE id=$1`, sess.DocumentID).Scan(&exist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("document %s: %w", sess.DocumentID, ErrNotFound)
		}
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO sessions (id,document_id,quiz_index,learner_id,mode,score,max_score,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		sess.ID, sess.DocumentID, sess.QuizIndex, sess.LearnerID, sess.Mode.String(), sess.Score, sess.MaxScore, sess.CreatedAt)
	if err != nil {
		return fmt.Errorf("new session: %w", err)
	}
	return nil
}

func (s *SQLStore) GetSession(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,document_id,quiz_index,learner_id,mode,score,max_score,created_at
		FROM sessions WHERE id=$1`, id)
	var (
		sess Session
		mode string
	)
	if err := row.Scan(&sess.ID, &sess.DocumentID, &sess.QuizIndex, &sess.LearnerID, &mode, &sess.Score, &sess.MaxScore, &sess.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
		}
		return Session{}, err
	}
	_ = sess.Mode.UnmarshalText([]byte(mode))
	return sess, nil
}

func (s *SQLStore) UpdateSession(ctx context.Context, sess Session) error {
	res, err := s.db.ExecContext(ctx, `UPDATE sessions SET mode=$1, score=$2, max_score=$3 WHERE id=$4`,
		sess.Mode.String(), sess.Score, sess.MaxScore, sess.ID)
	if err != nil {
		return fmt.Errorf("update session %s: %w", sess.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s: %w", sess.ID, ErrNotFound)
	}
	return nil
}

func (s *SQLStore) AppendAction(ctx context.Context, sessionID string, a quiz.Action) error {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return err
	}
	buf, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return s.events.Append(ctx, syncx.Event{Type: string(a.Kind), Stream: sessionID, DataJSON: string(buf)})
}

func (s *SQLStore) Actions(ctx context.Context, sessionID string) ([]quiz.Action, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	events, err := s.events.Stream(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("actions of %s: %w", sessionID, err)
	}
	out := make([]quiz.Action, 0, len(events))
	for _, e := range events {
		var a quiz.Action
		if err := json.Unmarshal([]byte(e.DataJSON), &a); err != nil {
			return nil, fmt.Errorf("event %d: %w", e.Seq, err)
		}
		out = append(out, a)
	}
	return out, nil
}
