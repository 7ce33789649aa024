package quiz

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrLocked           = errors.New("quiz: answers are locked in correction mode")
	ErrNotFound         = errors.New("quiz: no such answer unit")
	ErrWrongType        = errors.New("quiz: action does not match the question type")
	ErrUnknownCandidate = errors.New("quiz: not an assignment candidate")
	ErrUnknownAction    = errors.New("quiz: unknown action")
)

// Ref addresses one answer unit by 0-based position. For gap-text lines
// Unit counts gaps only; free-text lines have a single unit 0.
type Ref struct {
	Exercise int `json:"exercise"`
	Question int `json:"question"`
	Line     int `json:"line"`
	Unit     int `json:"unit"`
}

func (r Ref) String() string {
	return fmt.Sprintf("%d/%d/%d/%d", r.Exercise, r.Question, r.Line, r.Unit)
}

// Question returns the question a ref points into.
func (q *Quiz) Question(r Ref) (*Question, error) {
	if r.Exercise < 0 || r.Exercise >= len(q.Exercises) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, r)
	}
	ex := q.Exercises[r.Exercise]
	if r.Question < 0 || r.Question >= len(ex.Questions) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, r)
	}
	return ex.Questions[r.Question], nil
}

func (q *Quiz) line(r Ref) (*Question, *Line, error) {
	qu, err := q.Question(r)
	if err != nil {
		return nil, nil, err
	}
	if r.Line < 0 || r.Line >= len(qu.Lines) || r.Unit < 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, r)
	}
	return qu, qu.Lines[r.Line], nil
}

func (q *Quiz) choiceAnswer(r Ref) (*Question, *ChoiceAnswer, error) {
	if q.Mode == Correction {
		return nil, nil, ErrLocked
	}
	qu, l, err := q.line(r)
	if err != nil {
		return nil, nil, err
	}
	cl, ok := l.Body.(*ChoiceLine)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s is %s", ErrWrongType, r, qu.Type)
	}
	if r.Unit >= len(cl.Answers) {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, r)
	}
	return qu, cl.Answers[r.Unit], nil
}

// Tick sets the tick state of a choice answer. Ticking an answer of a
// single-choice question unticks all of its other answers.
func (q *Quiz) Tick(r Ref, ticked bool) error {
	qu, a, err := q.choiceAnswer(r)
	if err != nil {
		return err
	}
	if ticked && qu.Kind == SingleChoice {
		for _, l := range qu.Lines {
			for _, other := range l.Body.(*ChoiceLine).Answers {
				other.Ticked = false
			}
		}
	}
	a.Ticked = ticked
	return nil
}

// Toggle flips the tick state of a choice answer.
func (q *Quiz) Toggle(r Ref) error {
	_, a, err := q.choiceAnswer(r)
	if err != nil {
		return err
	}
	return q.Tick(r, !a.Ticked)
}

// Select picks a candidate for an assignment unit.
func (q *Quiz) Select(r Ref, candidate string) error {
	if q.Mode == Correction {
		return ErrLocked
	}
	qu, l, err := q.line(r)
	if err != nil {
		return err
	}
	al, ok := l.Body.(*AssignmentLine)
	if !ok {
		return fmt.Errorf("%w: %s is %s", ErrWrongType, r, qu.Type)
	}
	if r.Unit >= len(al.Assignments) {
		return fmt.Errorf("%w: %s", ErrNotFound, r)
	}
	if !slices.Contains(qu.Candidates, candidate) {
		return fmt.Errorf("%w: %q", ErrUnknownCandidate, candidate)
	}
	al.Assignments[r.Unit].Selected = candidate
	return nil
}

// Enter sets the text of a gap or a free-text line.
func (q *Quiz) Enter(r Ref, text string) error {
	if q.Mode == Correction {
		return ErrLocked
	}
	qu, l, err := q.line(r)
	if err != nil {
		return err
	}
	switch b := l.Body.(type) {
	case *GapTextLine:
		gaps := b.Gaps()
		if r.Unit >= len(gaps) {
			return fmt.Errorf("%w: %s", ErrNotFound, r)
		}
		gaps[r.Unit].Entered = text
	case *FreeTextLine:
		if r.Unit != 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, r)
		}
		b.Entered = text
	default:
		return fmt.Errorf("%w: %s is %s", ErrWrongType, r, qu.Type)
	}
	return nil
}

// Submit always re-evaluates, from either mode.
func (q *Quiz) Submit() { q.Evaluate() }

// Retry always resets, from either mode.
func (q *Quiz) Retry() { q.Reset() }

type ActionKind string

const (
	ActionTick   ActionKind = "tick"
	ActionToggle ActionKind = "toggle"
	ActionSelect ActionKind = "select"
	ActionEnter  ActionKind = "enter"
	ActionSubmit ActionKind = "submit"
	ActionRetry  ActionKind = "retry"
)

// Action is a serialisable learner action.
type Action struct {
	Kind   ActionKind `json:"kind"`
	Ref    Ref        `json:"ref"`
	Ticked bool       `json:"ticked,omitempty"`
	Value  string     `json:"value,omitempty"`
}

// Apply performs a. A failed action leaves the quiz unchanged.
func (q *Quiz) Apply(a Action) error {
	switch a.Kind {
	case ActionTick:
		return q.Tick(a.Ref, a.Ticked)
	case ActionToggle:
		return q.Toggle(a.Ref)
	case ActionSelect:
		return q.Select(a.Ref, a.Value)
	case ActionEnter:
		return q.Enter(a.Ref, a.Value)
	case ActionSubmit:
		q.Submit()
	case ActionRetry:
		q.Retry()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
	}
	return nil
}
