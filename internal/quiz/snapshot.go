package quiz

import "maps"

// UnitKind tells a render adapter how to draw a unit.
type UnitKind string

const (
	UnitAnswer     UnitKind = "answer"
	UnitAssignment UnitKind = "assignment"
	UnitMarkup     UnitKind = "markup"
	UnitGap        UnitKind = "gap"
	UnitFreeText   UnitKind = "free-text"
)

// QuizSnapshot is a detached copy of the quiz state. Changing the quiz
// afterwards does not affect it.
type QuizSnapshot struct {
	ID             string             `json:"id"`
	Mode           Mode               `json:"mode"`
	ExercisePrefix string             `json:"exercise_prefix,omitempty"`
	MaxScore       float64            `json:"max_score"`
	ActualScore    float64            `json:"actual_score"`
	Percentage     float64            `json:"percentage"`
	Exercises      []ExerciseSnapshot `json:"exercises"`
}

type ExerciseSnapshot struct {
	Number      int                `json:"number"`
	Title       string             `json:"title,omitempty"`
	Hint        string             `json:"hint,omitempty"`
	MaxScore    float64            `json:"max_score"`
	ActualScore float64            `json:"actual_score"`
	Status      Status             `json:"status"`
	Questions   []QuestionSnapshot `json:"questions"`
}

type QuestionSnapshot struct {
	Number      int               `json:"number"`
	Type        QuestionType      `json:"type"`
	Kind        ChoiceKind        `json:"kind,omitempty"`
	Text        string            `json:"text,omitempty"`
	Hint        string            `json:"hint,omitempty"`
	Attrs       map[string]string `json:"attrs,omitempty"`
	Candidates  []string          `json:"candidates,omitempty"`
	EmptyAnswer string            `json:"empty_answer,omitempty"`
	MaxScore    float64           `json:"max_score"`
	ActualScore float64           `json:"actual_score"`
	Status      Status            `json:"status"`
	Lines       []LineSnapshot    `json:"lines"`
}

type LineSnapshot struct {
	MaxScore    float64        `json:"max_score"`
	ActualScore float64        `json:"actual_score"`
	Status      Status         `json:"status"`
	Units       []UnitSnapshot `json:"units"`
}

// UnitSnapshot is one drawable piece of a line. Ref is nil for static
// markup. RuleStatus, Expected and Evaluation are only set in Correction
// mode.
type UnitSnapshot struct {
	Kind     UnitKind          `json:"kind"`
	Ref      *Ref              `json:"ref,omitempty"`
	Label    string            `json:"label,omitempty"`
	Ticked   bool              `json:"ticked,omitempty"`
	Selected string            `json:"selected,omitempty"`
	Entered  string            `json:"entered,omitempty"`
	Length   string            `json:"length,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`

	RuleStatus Status      `json:"rule_status,omitempty"`
	Expected   string      `json:"expected,omitempty"`
	Evaluation *Evaluation `json:"evaluation,omitempty"`
}

// Snapshot copies the current state for rendering.
func (q *Quiz) Snapshot() QuizSnapshot {
	s := QuizSnapshot{
		ID:             q.ID,
		Mode:           q.Mode,
		ExercisePrefix: q.ExercisePrefix,
		MaxScore:       q.MaxScore,
		ActualScore:    q.ActualScore,
		Percentage:     q.Percentage(),
		Exercises:      make([]ExerciseSnapshot, 0, len(q.Exercises)),
	}
	corr := q.Mode == Correction
	for ei, ex := range q.Exercises {
		es := ExerciseSnapshot{
			Number:      ex.Number,
			Title:       ex.Title,
			Hint:        ex.Hint,
			MaxScore:    ex.MaxScore,
			ActualScore: ex.ActualScore,
			Status:      ex.Status,
			Questions:   make([]QuestionSnapshot, 0, len(ex.Questions)),
		}
		for qi, qu := range ex.Questions {
			qs := QuestionSnapshot{
				Number:      qu.Number,
				Type:        qu.Type,
				Kind:        qu.Kind,
				Text:        qu.Text,
				Hint:        qu.Hint,
				Attrs:       maps.Clone(qu.Attrs),
				Candidates:  append([]string(nil), qu.Candidates...),
				EmptyAnswer: qu.EmptyAnswer,
				MaxScore:    qu.MaxScore,
				ActualScore: qu.ActualScore,
				Status:      qu.Status,
				Lines:       make([]LineSnapshot, 0, len(qu.Lines)),
			}
			for li, l := range qu.Lines {
				ref := Ref{Exercise: ei, Question: qi, Line: li}
				qs.Lines = append(qs.Lines, LineSnapshot{
					MaxScore:    l.MaxScore,
					ActualScore: l.ActualScore,
					Status:      l.Status,
					Units:       unitSnapshots(l.Body, ref, corr),
				})
			}
			es.Questions = append(es.Questions, qs)
		}
		s.Exercises = append(s.Exercises, es)
	}
	return s
}

func unitSnapshots(body LineBody, ref Ref, corr bool) []UnitSnapshot {
	at := func(i int) *Ref {
		r := ref
		r.Unit = i
		return &r
	}
	eval := func(e Evaluation) *Evaluation {
		if !corr {
			return nil
		}
		return &e
	}

	var out []UnitSnapshot
	switch b := body.(type) {
	case *ChoiceLine:
		for i, a := range b.Answers {
			u := UnitSnapshot{Kind: UnitAnswer, Ref: at(i), Label: a.Label, Ticked: a.Ticked, Evaluation: eval(a.Current)}
			if corr {
				u.RuleStatus = a.Rule.Status
			}
			out = append(out, u)
		}
	case *AssignmentLine:
		for i, a := range b.Assignments {
			u := UnitSnapshot{Kind: UnitAssignment, Ref: at(i), Label: a.Label, Selected: a.Selected, Evaluation: eval(a.Current)}
			if corr {
				u.Expected = a.Expected
			}
			out = append(out, u)
		}
	case *GapTextLine:
		gi := 0
		for _, seg := range b.Segments {
			if seg.Gap == nil {
				out = append(out, UnitSnapshot{Kind: UnitMarkup, Label: seg.Markup})
				continue
			}
			g := seg.Gap
			u := UnitSnapshot{Kind: UnitGap, Ref: at(gi), Entered: g.Entered, Length: g.Length, Attrs: publicAttrs(g.Attrs), Evaluation: eval(g.Current)}
			if corr {
				u.Expected = g.Current.ExpectedDisplay
			}
			out = append(out, u)
			gi++
		}
	case *FreeTextLine:
		out = append(out, UnitSnapshot{Kind: UnitFreeText, Ref: at(0), Label: b.Label, Entered: b.Entered, Attrs: publicAttrs(b.Attrs), Evaluation: eval(b.Current)})
	}
	return out
}

// answerAttrs would reveal the solution of a gap or free-text line.
var answerAttrs = []string{"answer", "regexp", "correct", "wrong", "partially-correct", "partialy-correct", "points", "validate", "keywords"}

func publicAttrs(attrs map[string]string) map[string]string {
	out := maps.Clone(attrs)
	for _, k := range answerAttrs {
		delete(out, k)
	}
	return out
}
