package quiz

import (
	"strings"

	"github.com/mind-engage/quizengine/internal/markup"
)

// FreeTextLine is a free-form answer. It is only scored when the quiz was
// built with a FreeTextGrader.
type FreeTextLine struct {
	Label   string
	Attrs   map[string]string
	Entered string
	Current Evaluation
}

func buildFreeText(q *Question, n *markup.Node) {
	units := n.FindAll(TagFreeText)
	if len(units) == 0 {
		q.Lines = append(q.Lines, &Line{Body: &FreeTextLine{Attrs: map[string]string{}}})
		return
	}
	for _, u := range units {
		q.Lines = append(q.Lines, &Line{Body: &FreeTextLine{
			Label: strings.TrimSpace(u.InnerHTML()),
			Attrs: u.AttrMap(),
		}})
	}
}

func (l *FreeTextLine) evaluate(env *evalEnv) lineScore {
	g := env.opts.FreeText
	if g == nil {
		l.Current = Evaluation{}
		return lineScore{}
	}
	l.Current = g.Grade(strings.TrimSpace(l.Entered), l)
	return lineScore{max: g.MaxScore(l), actual: l.Current.Points, status: l.Current.Status}
}

func (l *FreeTextLine) reset(env *evalEnv) lineScore {
	l.Entered = ""
	l.Current = Evaluation{}
	if g := env.opts.FreeText; g != nil {
		return lineScore{max: g.MaxScore(l)}
	}
	return lineScore{}
}
