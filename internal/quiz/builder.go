package quiz

import (
	"strconv"
	"strings"

	"github.com/mind-engage/quizengine/internal/markup"
)

// Authoring tags.
const (
	TagQuiz          = "lsx-quiz"
	TagExercise      = "lsx-exercise"
	TagExerciseTitle = "lsx-exercise-title"
	TagQuestion      = "lsx-question"
	TagQuestionText  = "lsx-question-text"
	TagHint          = "lsx-hint"
	TagLine          = "lsx-line"
	TagAnswer        = "lsx-answer"
	TagAssignment    = "lsx-assignment"
	TagGapText       = "lsx-gap-text"
	TagGap           = "lsx-gap"
	TagFreeText      = "lsx-free-text"
)

// Build constructs the quiz rooted at root, or at the first quiz element
// below it. Build never fails: malformed units are skipped and missing
// attributes take their defaults. The returned quiz is in Normal mode.
func Build(root *markup.Node, opts ...Option) *Quiz {
	o := Options{ID: "1"}
	for _, fn := range opts {
		fn(&o)
	}
	n := root
	if !root.Is(TagQuiz) {
		if f := root.Find(TagQuiz); f != nil {
			n = f
		}
	}
	return buildQuiz(n, o)
}

// BuildAll builds every quiz of a document. Quizzes are numbered from "1" in
// document order; a WithID option is ignored.
func BuildAll(root *markup.Node, opts ...Option) []*Quiz {
	nodes := root.FindAll(TagQuiz)
	if root.Is(TagQuiz) {
		nodes = []*markup.Node{root}
	}
	out := make([]*Quiz, 0, len(nodes))
	for i, n := range nodes {
		var o Options
		for _, fn := range opts {
			fn(&o)
		}
		o.ID = strconv.Itoa(i + 1)
		out = append(out, buildQuiz(n, o))
	}
	return out
}

func buildQuiz(n *markup.Node, o Options) *Quiz {
	q := &Quiz{
		ID:             o.ID,
		ExercisePrefix: n.AttrOr("prefix", ""),
		opts:           o,
	}
	for i, en := range n.FindAll(TagExercise) {
		q.Exercises = append(q.Exercises, buildExercise(i+1, en))
	}
	q.Reset()
	return q
}

func buildExercise(num int, n *markup.Node) *Exercise {
	ex := &Exercise{
		Number: num,
		Title:  joinTrim(n.AttrOr("title", ""), innerOf(n.ChildrenByTag(TagExerciseTitle))),
		Hint:   joinTrim(n.AttrOr("hint", ""), innerOf(n.ChildrenByTag(TagHint))),
	}
	for i, qn := range n.FindAll(TagQuestion) {
		ex.Questions = append(ex.Questions, buildQuestion(i+1, qn))
	}
	return ex
}

func buildQuestion(num int, n *markup.Node) *Question {
	typ, kind := parseType(n.AttrOr("type", ""))
	q := &Question{
		Number:      num,
		Type:        typ,
		Kind:        kind,
		Text:        joinTrim(n.AttrOr("text", ""), innerOf(n.ChildrenByTag(TagQuestionText))),
		Hint:        joinTrim(n.AttrOr("hint", ""), innerOf(n.ChildrenByTag(TagHint))),
		EmptyPoints: pointsOr(n, "empty-points", DefaultEmptyPoints),
		WrongPoints: pointsOr(n, "wrong-points", DefaultWrongPoints),
		Attrs:       n.AttrMap(),
	}
	switch typ {
	case TypeAssignment:
		buildAssignment(q, n)
	case TypeGapText:
		buildGapText(q, n)
	case TypeFreeText:
		buildFreeText(q, n)
	default:
		buildChoice(q, n)
	}
	return q
}

func parseType(s string) (QuestionType, ChoiceKind) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "multiple-choice":
		return TypeChoice, MultipleChoice
	case "assignment":
		return TypeAssignment, ""
	case "gap-text":
		return TypeGapText, ""
	case "free-text":
		return TypeFreeText, ""
	default:
		return TypeChoice, SingleChoice
	}
}

func innerOf(nodes []*markup.Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, n.InnerHTML())
	}
	return strings.Join(parts, " ")
}

func joinTrim(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// groupUnits returns the unit elements of a question grouped by line: the
// units inside each explicit line container form one group, every other
// unit is a group of its own.
func groupUnits(n *markup.Node, tag string) [][]*markup.Node {
	var groups [][]*markup.Node
	n.Walk(func(c *markup.Node) bool {
		switch {
		case c.Is(TagLine):
			if units := c.FindAll(tag); len(units) > 0 {
				groups = append(groups, units)
			}
			return false
		case c.Is(tag):
			groups = append(groups, []*markup.Node{c})
			return false
		}
		return true
	})
	return groups
}

// findAny returns the descendants carrying any of tags, in document order,
// without descending into matches.
func findAny(n *markup.Node, tags ...string) []*markup.Node {
	var out []*markup.Node
	n.Walk(func(c *markup.Node) bool {
		for _, t := range tags {
			if c.Is(t) {
				out = append(out, c)
				return false
			}
		}
		return true
	})
	return out
}
