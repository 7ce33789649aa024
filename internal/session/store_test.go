package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mind-engage/quizengine/internal/db"
	"github.com/mind-engage/quizengine/internal/quiz"
	"github.com/mind-engage/quizengine/internal/session"
)

/* ---------------- helpers ---------------- */

func sqliteStore(t *testing.T) *session.SQLStore {
	t.Helper()
	conn, err := db.Open(context.Background(), db.DriverSQLite, "file::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return session.NewSQLStore(conn)
}

func stores(t *testing.T) map[string]session.Store {
	return map[string]session.Store{
		"memory": session.NewMemoryStore(),
		"sqlite": sqliteStore(t),
	}
}

/* ---------------- contract ---------------- */

func TestStoreContract(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, err := st.GetDocument(ctx, "nope"); !errors.Is(err, session.ErrNotFound) {
				t.Fatalf("missing document err = %v", err)
			}
			if err := st.NewSession(ctx, session.Session{ID: "s0", DocumentID: "nope"}); !errors.Is(err, session.ErrNotFound) {
				t.Fatalf("session on missing document err = %v", err)
			}

			old := session.Document{ID: "d1", Title: "Old", Markup: "<lsx-quiz></lsx-quiz>", Quizzes: 1, CreatedAt: 100}
			fresh := session.Document{ID: "d2", Title: "New", Markup: "<lsx-quiz></lsx-quiz>", Quizzes: 1, CreatedAt: 200}
			for _, d := range []session.Document{old, fresh} {
				if err := st.PutDocument(ctx, d); err != nil {
					t.Fatalf("put %s: %v", d.ID, err)
				}
			}
			got, err := st.GetDocument(ctx, "d1")
			if err != nil || got != old {
				t.Fatalf("get d1 = %+v, %v", got, err)
			}
			list, err := st.ListDocuments(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(list) != 2 || list[0].ID != "d2" || list[0].Markup != "" {
				t.Fatalf("list = %+v", list)
			}

			sess := session.Session{ID: "s1", DocumentID: "d1", LearnerID: "ada", MaxScore: 3, CreatedAt: 300}
			if err := st.NewSession(ctx, sess); err != nil {
				t.Fatal(err)
			}
			sess.Mode, sess.Score = quiz.Correction, 2
			if err := st.UpdateSession(ctx, sess); err != nil {
				t.Fatal(err)
			}
			back, err := st.GetSession(ctx, "s1")
			if err != nil || back != sess {
				t.Fatalf("session = %+v, %v; want %+v", back, err, sess)
			}
			if err := st.UpdateSession(ctx, session.Session{ID: "ghost"}); !errors.Is(err, session.ErrNotFound) {
				t.Fatalf("update ghost err = %v", err)
			}

			actions := []quiz.Action{
				{Kind: quiz.ActionTick, Ref: quiz.Ref{Line: 1}, Ticked: true},
				{Kind: quiz.ActionEnter, Ref: quiz.Ref{Question: 2}, Value: "Paris"},
				{Kind: quiz.ActionSubmit},
			}
			for _, a := range actions {
				if err := st.AppendAction(ctx, "s1", a); err != nil {
					t.Fatal(err)
				}
			}
			replay, err := st.Actions(ctx, "s1")
			if err != nil {
				t.Fatal(err)
			}
			if len(replay) != len(actions) {
				t.Fatalf("actions = %+v", replay)
			}
			for i := range actions {
				if replay[i] != actions[i] {
					t.Fatalf("action %d = %+v, want %+v", i, replay[i], actions[i])
				}
			}
			if err := st.AppendAction(ctx, "ghost", quiz.Action{Kind: quiz.ActionSubmit}); !errors.Is(err, session.ErrNotFound) {
				t.Fatalf("append ghost err = %v", err)
			}
			if _, err := st.Actions(ctx, "ghost"); !errors.Is(err, session.ErrNotFound) {
				t.Fatalf("actions ghost err = %v", err)
			}
		})
	}
}
