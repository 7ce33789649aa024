// Package quiz turns authored quiz markup into a stateful object graph and
// scores it. A Quiz is driven by discrete actions (answer mutations, Submit,
// Retry) and is not safe for concurrent use.
package quiz

// Mode is the quiz-wide interaction state.
type Mode int

const (
	// Normal: answers mutable, correction hidden.
	Normal Mode = iota
	// Correction: answers locked, correction and scores visible.
	Correction
)

func (m Mode) String() string {
	if m == Correction {
		return "correction"
	}
	return "normal"
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	if string(b) == "correction" {
		*m = Correction
	} else {
		*m = Normal
	}
	return nil
}

// QuestionType is the closed set of question variants.
type QuestionType string

const (
	TypeChoice     QuestionType = "choice"
	TypeAssignment QuestionType = "assignment"
	TypeGapText    QuestionType = "gap-text"
	TypeFreeText   QuestionType = "free-text"
)

// ChoiceKind distinguishes single- from multiple-choice questions.
type ChoiceKind string

const (
	SingleChoice   ChoiceKind = "single-choice"
	MultipleChoice ChoiceKind = "multiple-choice"
)

// Quiz is the root of the entity tree.
type Quiz struct {
	ID             string
	ExercisePrefix string
	Mode           Mode
	Exercises      []*Exercise

	MaxScore    float64
	ActualScore float64

	opts Options
}

type Exercise struct {
	Number    int
	Title     string
	Hint      string
	Questions []*Question

	MaxScore    float64
	ActualScore float64
	Status      Status
}

type Question struct {
	Number int
	Type   QuestionType
	Kind   ChoiceKind // choice questions only
	Text   string
	Hint   string

	EmptyPoints float64
	WrongPoints float64

	// Candidates holds the assignment drop-down entries, sentinel first.
	Candidates  []string
	EmptyAnswer string

	// Attrs keeps presentation attributes (select-length, label-length,
	// mode, ...) for the render adapter.
	Attrs map[string]string

	Lines []*Line

	MaxScore    float64
	ActualScore float64
	Status      Status
}

// Line is one row of interactive content. Body holds the variant payload
// and always matches the owning question's Type.
type Line struct {
	Body LineBody

	MaxScore    float64
	ActualScore float64
	Status      Status
}

// LineBody is implemented by ChoiceLine, AssignmentLine, GapTextLine and
// FreeTextLine only.
type LineBody interface {
	evaluate(env *evalEnv) lineScore
	reset(env *evalEnv) lineScore
}

type lineScore struct {
	max    float64
	actual float64
	status Status
}

// Percentage is ActualScore/MaxScore, or 0 when nothing can be scored.
func (q *Quiz) Percentage() float64 { return ratio(q.ActualScore, q.MaxScore) }

func ratio(actual, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return actual / max
}
