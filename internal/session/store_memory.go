package session

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/mind-engage/quizengine/internal/quiz"
)

type MemoryStore struct {
	mu        sync.RWMutex
	documents map[string]Document
	sessions  map[string]Session
	actions   map[string][]quiz.Action
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		documents: map[string]Document{},
		sessions:  map[string]Session{},
		actions:   map[string][]quiz.Action{},
	}
}

func (m *MemoryStore) PutDocument(_ context.Context, d Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[d.ID] = d
	return nil
}

func (m *MemoryStore) GetDocument(_ context.Context, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.documents[id]
	if !ok {
		return Document{}, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return d, nil
}

func (m *MemoryStore) ListDocuments(_ context.Context) ([]Document, error) {
	m.mu.RLock()
	out := make([]Document, 0, len(m.documents))
	for _, d := range m.documents {
		d.Markup = ""
		out = append(out, d)
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b Document) int {
		if c := cmp.Compare(b.CreatedAt, a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (m *MemoryStore) NewSession(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.documents[s.DocumentID]; !ok {
		return fmt.Errorf("document %s: %w", s.DocumentID, ErrNotFound)
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *MemoryStore) GetSession(_ context.Context, id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return s, nil
}

func (m *MemoryStore) UpdateSession(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.sessions[s.ID]
	if !ok {
		return fmt.Errorf("session %s: %w", s.ID, ErrNotFound)
	}
	cur.Mode, cur.Score, cur.MaxScore = s.Mode, s.Score, s.MaxScore
	m.sessions[s.ID] = cur
	return nil
}

func (m *MemoryStore) AppendAction(_ context.Context, sessionID string, a quiz.Action) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sessionID]; !ok {
		return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	m.actions[sessionID] = append(m.actions[sessionID], a)
	return nil
}

func (m *MemoryStore) Actions(_ context.Context, sessionID string) ([]quiz.Action, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.sessions[sessionID]; !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	return slices.Clone(m.actions[sessionID]), nil
}
