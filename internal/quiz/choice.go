package quiz

import (
	"strings"

	"github.com/mind-engage/quizengine/internal/markup"
)

// ChoiceAnswer is one tickable answer of a single- or multiple-choice line.
type ChoiceAnswer struct {
	Label   string
	Ticked  bool
	Rule    Rule
	Current Evaluation
}

type ChoiceLine struct {
	Answers []*ChoiceAnswer
}

func buildChoice(q *Question, n *markup.Node) {
	for _, group := range groupUnits(n, TagAnswer) {
		line := &ChoiceLine{}
		for _, an := range group {
			rule := readRule(an, Unknown, q.WrongPoints)
			line.Answers = append(line.Answers, &ChoiceAnswer{
				Label: strings.TrimSpace(an.InnerHTML()),
				Rule:  rule,
			})
		}
		q.Lines = append(q.Lines, &Line{Body: line})
	}
}

// A correct answer left unticked counts as missed and scores emptyPoints.
func (l *ChoiceLine) evaluate(env *evalEnv) lineScore {
	s := lineScore{max: l.maxScore()}
	for _, a := range l.Answers {
		switch {
		case a.Ticked:
			a.Current = Evaluation{Status: a.Rule.Status, Points: a.Rule.Points}
		case a.Rule.Status == Correct:
			a.Current = Evaluation{Status: Wrong, Points: env.question.EmptyPoints}
		default:
			a.Current = Evaluation{}
		}
		s.actual += a.Current.Points
		s.status = UpdateStatus(s.status, a.Current.Status)
	}
	return s
}

func (l *ChoiceLine) reset(*evalEnv) lineScore {
	for _, a := range l.Answers {
		a.Ticked = false
		a.Current = Evaluation{}
	}
	return lineScore{max: l.maxScore()}
}

func (l *ChoiceLine) maxScore() float64 {
	var max float64
	for _, a := range l.Answers {
		if a.Rule.Status == Correct {
			max += a.Rule.Points
		}
	}
	return max
}
