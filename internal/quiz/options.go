package quiz

import (
	"strconv"
	"strings"
)

// Validator is a synchronous, named gap check. It receives the normalized
// answer and may set eval's status and points; a non-Unknown status is final.
// A validator that leaves eval at Unknown gives no verdict: the gap listener
// and then the gap's own rules decide. It must not touch anything but eval.
type Validator func(answer string, eval *Evaluation, gap *Gap)

// Validators maps the names used in `validate` attributes to callbacks.
type Validators map[string]Validator

// Lookup resolves a validator name. Unknown names resolve to nothing.
func (v Validators) Lookup(name string) (Validator, bool) {
	name = strings.TrimSpace(name)
	if name == "" || v == nil {
		return nil, false
	}
	fn, ok := v[name]
	return fn, ok && fn != nil
}

// GapEvent is emitted once per gap while evaluating, before rule matching.
// A listener that sets Evaluation.Status to anything but Unknown decides the
// gap.
type GapEvent struct {
	Answer     string
	Evaluation *Evaluation
	Gap        *Gap
	QuizID     string
	ExerciseID string
	QuestionID string
}

type GapListener func(*GapEvent)

// FreeTextGrader scores free-text lines. Without one, free-text lines are
// never scored.
type FreeTextGrader interface {
	MaxScore(line *FreeTextLine) float64
	Grade(answer string, line *FreeTextLine) Evaluation
}

// Options are the collaborators a quiz is built with.
type Options struct {
	ID         string
	Validators Validators
	OnGap      GapListener
	FreeText   FreeTextGrader
}

type Option func(*Options)

func WithID(id string) Option                    { return func(o *Options) { o.ID = id } }
func WithValidators(v Validators) Option         { return func(o *Options) { o.Validators = v } }
func WithGapListener(l GapListener) Option       { return func(o *Options) { o.OnGap = l } }
func WithFreeTextGrader(g FreeTextGrader) Option { return func(o *Options) { o.FreeText = g } }

// evalEnv carries what a line needs from its ancestors.
type evalEnv struct {
	opts     *Options
	quiz     *Quiz
	exercise *Exercise
	question *Question
}

func (e *evalEnv) gapEvent(answer string, ev *Evaluation, g *Gap) *GapEvent {
	return &GapEvent{
		Answer:     answer,
		Evaluation: ev,
		Gap:        g,
		QuizID:     e.quiz.ID,
		ExerciseID: strconv.Itoa(e.exercise.Number),
		QuestionID: strconv.Itoa(e.question.Number),
	}
}
