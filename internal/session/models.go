// Package session stores authored quiz documents and learner sessions. A
// session keeps no serialized quiz: it is rebuilt from the document markup
// and its action log whenever it is opened.
package session

import (
	"errors"

	"github.com/mind-engage/quizengine/internal/quiz"
)

var (
	ErrNotFound     = errors.New("session: not found")
	ErrNoQuiz       = errors.New("session: document contains no quiz")
	ErrBadQuizIndex = errors.New("session: quiz index out of range")
)

type Document struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Markup    string `json:"markup,omitempty"`
	Quizzes   int    `json:"quizzes"`
	CreatedAt int64  `json:"created_at"`
}

type Session struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	QuizIndex  int       `json:"quiz_index"`
	LearnerID  string    `json:"learner_id"`
	Mode       quiz.Mode `json:"mode"`
	Score      float64   `json:"score"`
	MaxScore   float64   `json:"max_score"`
	CreatedAt  int64     `json:"created_at"`
}
