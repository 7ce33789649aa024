package grading

import (
	"math"
	"strconv"
	"strings"

	"github.com/mind-engage/quizengine/internal/quiz"
)

// numericStrategy compares the answer with the gap's first correct literal
// as a number. Tolerances come from gap attributes:
//
//	<lsx-gap answer="3.14159" validate="numeric" tolerance="0.01">      absolute
//	<lsx-gap answer="100" validate="numeric" rel-tolerance="0.05">      5% relative
//
// Without either attribute the values must be equal.
type numericStrategy struct{}

func (numericStrategy) Validate(answer string, eval *quiz.Evaluation, gap *quiz.Gap) {
	target, ok := gap.CorrectLiteral()
	if !ok {
		return
	}
	if answer == gap.Normalize(target.Pattern) {
		eval.Status, eval.Points = quiz.Correct, target.Rule.Points
		return
	}

	rv, rOK := parseFloatLoose(answer)
	tv, tOK := parseFloatLoose(target.Pattern)
	if !rOK || !tOK {
		return
	}

	absTol, relTol := parseTolerances(gap.Attrs)
	diff := math.Abs(rv - tv)
	pass := diff == 0
	if !pass && absTol >= 0 && diff <= absTol {
		pass = true
	}
	if !pass && relTol >= 0 && diff <= relTol*math.Abs(tv) {
		pass = true
	}
	if pass {
		eval.Status, eval.Points = quiz.Correct, target.Rule.Points
	}
}

// parseFloatLoose accepts a leading number followed by a unit ("9.81 m/s²")
// and a decimal comma.
func parseFloatLoose(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}
	if sp := strings.Fields(s); len(sp) > 0 {
		head := strings.Replace(sp[0], ",", ".", 1)
		if v, err := strconv.ParseFloat(head, 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

func parseTolerances(attrs map[string]string) (absTol float64, relTol float64) {
	absTol, relTol = -1, -1
	if v, err := strconv.ParseFloat(strings.TrimSpace(attrs["tolerance"]), 64); err == nil && v >= 0 {
		absTol = v
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(attrs["rel-tolerance"]), 64); err == nil && v >= 0 {
		relTol = v
	}
	return
}
