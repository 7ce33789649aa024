package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mind-engage/quizengine/internal/markup"
	"github.com/mind-engage/quizengine/internal/quiz"
)

// Service runs learner sessions on top of a Store. Actions on one session
// are serialized; different sessions proceed in parallel.
type Service struct {
	store    Store
	quizOpts []quiz.Option
	prefix   string
	log      zerolog.Logger
	now      func() time.Time
	locks    keyedMutex
}

type Option func(*Service)

// WithQuizOptions sets the options every quiz is built with.
func WithQuizOptions(opts ...quiz.Option) Option {
	return func(s *Service) { s.quizOpts = append(s.quizOpts, opts...) }
}

// WithExercisePrefix sets the heading prefix for quizzes without one.
func WithExercisePrefix(p string) Option { return func(s *Service) { s.prefix = p } }

func WithLogger(l zerolog.Logger) Option { return func(s *Service) { s.log = l } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, log: zerolog.Nop(), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With().Str("component", "session").Logger()
	return s
}

/* ---------------- documents ---------------- */

// CreateDocument stores authored markup. Markup without any quiz is
// rejected with ErrNoQuiz.
func (s *Service) CreateDocument(ctx context.Context, title, source string) (Document, error) {
	root, err := markup.ParseString(source)
	if err != nil {
		return Document{}, fmt.Errorf("parse markup: %w", err)
	}
	n := len(quiz.BuildAll(root, s.quizOpts...))
	if n == 0 {
		return Document{}, ErrNoQuiz
	}
	d := Document{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(title),
		Markup:    source,
		Quizzes:   n,
		CreatedAt: s.now().Unix(),
	}
	if err := s.store.PutDocument(ctx, d); err != nil {
		return Document{}, err
	}
	s.log.Info().Str("document", d.ID).Int("quizzes", n).Msg("document stored")
	return d, nil
}

func (s *Service) Document(ctx context.Context, id string) (Document, error) {
	return s.store.GetDocument(ctx, id)
}

func (s *Service) Documents(ctx context.Context) ([]Document, error) {
	return s.store.ListDocuments(ctx)
}

/* ---------------- sessions ---------------- */

// Start opens a new session of learnerID on one quiz of a document.
func (s *Service) Start(ctx context.Context, documentID string, quizIndex int, learnerID string) (Session, error) {
	d, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return Session{}, err
	}
	qz, err := s.build(d, quizIndex)
	if err != nil {
		return Session{}, err
	}
	sess := Session{
		ID:         uuid.NewString(),
		DocumentID: d.ID,
		QuizIndex:  quizIndex,
		LearnerID:  learnerID,
		Mode:       qz.Mode,
		MaxScore:   qz.MaxScore,
		CreatedAt:  s.now().Unix(),
	}
	if err := s.store.NewSession(ctx, sess); err != nil {
		return Session{}, err
	}
	s.log.Info().Str("session", sess.ID).Str("document", d.ID).Str("learner", learnerID).Msg("session started")
	return sess, nil
}

func (s *Service) Session(ctx context.Context, id string) (Session, error) {
	return s.store.GetSession(ctx, id)
}

// Open rebuilds the live quiz of a session by replaying its actions.
func (s *Service) Open(ctx context.Context, id string) (Session, *quiz.Quiz, error) {
	unlock := s.locks.Lock(id)
	defer unlock()
	return s.open(ctx, id)
}

// Act applies a to the session and records it. A rejected action is not
// recorded and leaves the session unchanged.
func (s *Service) Act(ctx context.Context, id string, a quiz.Action) (Session, quiz.QuizSnapshot, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	sess, qz, err := s.open(ctx, id)
	if err != nil {
		return Session{}, quiz.QuizSnapshot{}, err
	}
	if err := qz.Apply(a); err != nil {
		s.log.Debug().Err(err).Str("session", id).Str("action", string(a.Kind)).Msg("action rejected")
		return Session{}, quiz.QuizSnapshot{}, err
	}
	if err := s.store.AppendAction(ctx, id, a); err != nil {
		return Session{}, quiz.QuizSnapshot{}, err
	}

	if a.Kind == quiz.ActionSubmit || a.Kind == quiz.ActionRetry {
		sess.Mode, sess.Score, sess.MaxScore = qz.Mode, qz.ActualScore, qz.MaxScore
		if err := s.store.UpdateSession(ctx, sess); err != nil {
			return Session{}, quiz.QuizSnapshot{}, err
		}
		s.log.Info().
			Str("session", id).
			Str("action", string(a.Kind)).
			Float64("score", sess.Score).
			Float64("max_score", sess.MaxScore).
			Msg("session scored")
	}
	return sess, qz.Snapshot(), nil
}

func (s *Service) open(ctx context.Context, id string) (Session, *quiz.Quiz, error) {
	sess, err := s.store.GetSession(ctx, id)
	if err != nil {
		return Session{}, nil, err
	}
	d, err := s.store.GetDocument(ctx, sess.DocumentID)
	if err != nil {
		return Session{}, nil, err
	}
	qz, err := s.build(d, sess.QuizIndex)
	if err != nil {
		return Session{}, nil, err
	}
	actions, err := s.store.Actions(ctx, id)
	if err != nil {
		return Session{}, nil, err
	}
	for i, a := range actions {
		if err := qz.Apply(a); err != nil {
			s.log.Warn().Err(err).Str("session", id).Int("index", i).Msg("skipping action on replay")
		}
	}
	return sess, qz, nil
}

func (s *Service) build(d Document, index int) (*quiz.Quiz, error) {
	root, err := markup.ParseString(d.Markup)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", d.ID, err)
	}
	all := quiz.BuildAll(root, s.quizOpts...)
	if index < 0 || index >= len(all) {
		return nil, fmt.Errorf("%w: %d of %d", ErrBadQuizIndex, index, len(all))
	}
	qz := all[index]
	if qz.ExercisePrefix == "" {
		qz.ExercisePrefix = s.prefix
	}
	return qz, nil
}

/* ---------------- locking ---------------- */

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sync.Mutex
	refs int
}

// Lock locks key and returns its unlock func. Entries are dropped once no
// goroutine holds or waits for them.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = map[string]*keyLock{}
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
