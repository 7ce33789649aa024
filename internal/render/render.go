// Package render turns quiz snapshots into a display model: headings,
// formatted scores and the actions a learner can take. Drawing the model is
// left to the client.
package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mind-engage/quizengine/internal/quiz"
)

// Labels are the configurable display strings. Points takes {1} for the
// actual and {2} for the maximum score.
type Labels struct {
	Points       string `json:"points"`
	Evaluate     string `json:"evaluate"`
	Retry        string `json:"retry"`
	HeadingLevel int    `json:"heading_level"`
}

func DefaultLabels() Labels {
	return Labels{
		Points:       "{1} from {2}",
		Evaluate:     "Correct",
		Retry:        "New Try",
		HeadingLevel: 2,
	}
}

type Action struct {
	Kind  quiz.ActionKind `json:"kind"`
	Label string          `json:"label"`
}

type Page struct {
	QuizID            string         `json:"quiz_id"`
	Mode              quiz.Mode      `json:"mode"`
	CorrectionVisible bool           `json:"correction_visible"`
	Points            string         `json:"points"`
	Percentage        string         `json:"percentage"`
	Actions           []Action       `json:"actions"`
	Exercises         []ExerciseView `json:"exercises"`
}

type ExerciseView struct {
	Heading      string         `json:"heading"`
	HeadingLevel int            `json:"heading_level"`
	Hint         string         `json:"hint,omitempty"`
	Points       string         `json:"points"`
	Status       quiz.Status    `json:"status"`
	Questions    []QuestionView `json:"questions"`
}

type QuestionView struct {
	quiz.QuestionSnapshot
	Points string `json:"points"`
}

// View builds the display model of s. Scores and statuses are only shown
// in correction mode; maximum points are always shown.
func View(s quiz.QuizSnapshot, l Labels) Page {
	if l.HeadingLevel < 1 || l.HeadingLevel > 6 {
		l.HeadingLevel = DefaultLabels().HeadingLevel
	}
	corr := s.Mode == quiz.Correction
	p := Page{
		QuizID:            s.ID,
		Mode:              s.Mode,
		CorrectionVisible: corr,
		Points:            PointsLabel(l.Points, s.ActualScore, s.MaxScore),
		Percentage:        FormatPercentage(s.Percentage),
		Exercises:         make([]ExerciseView, 0, len(s.Exercises)),
	}
	if corr {
		p.Actions = []Action{{Kind: quiz.ActionRetry, Label: l.Retry}}
	} else {
		p.Actions = []Action{{Kind: quiz.ActionSubmit, Label: l.Evaluate}}
	}

	for _, ex := range s.Exercises {
		ev := ExerciseView{
			Heading:      Heading(s.ExercisePrefix, ex.Number, ex.Title),
			HeadingLevel: l.HeadingLevel,
			Hint:         ex.Hint,
			Points:       PointsLabel(l.Points, ex.ActualScore, ex.MaxScore),
			Status:       ex.Status,
			Questions:    make([]QuestionView, 0, len(ex.Questions)),
		}
		for _, q := range ex.Questions {
			ev.Questions = append(ev.Questions, QuestionView{
				QuestionSnapshot: q,
				Points:           PointsLabel(l.Points, q.ActualScore, q.MaxScore),
			})
		}
		p.Exercises = append(p.Exercises, ev)
	}
	return p
}

// Heading substitutes the exercise number for the first "#" of prefix and
// appends the title.
func Heading(prefix string, number int, title string) string {
	prefix = strings.Replace(prefix, "#", strconv.Itoa(number), 1)
	return strings.TrimSpace(prefix + " " + title)
}

// HeadingHTML wraps an exercise heading in its <hN> element. The heading is
// authored markup and is not escaped.
func HeadingHTML(e ExerciseView) string {
	return fmt.Sprintf("<h%d>%s</h%d>", e.HeadingLevel, e.Heading, e.HeadingLevel)
}

func PointsLabel(tmpl string, actual, max float64) string {
	return strings.NewReplacer("{1}", FormatPoints(actual), "{2}", FormatPoints(max)).Replace(tmpl)
}

// FormatPoints prints points with at most two decimals and no trailing
// zeros.
func FormatPoints(f float64) string {
	s := strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
	if s == "-0" {
		return "0"
	}
	return s
}

// FormatPercentage renders a 0..1 fraction as a whole percentage, rounding
// half up.
func FormatPercentage(fraction float64) string {
	return fmt.Sprintf("%d%%", int(math.Floor(fraction*100+0.5)))
}
