package quiz

import (
	"strconv"
	"strings"

	"github.com/mind-engage/quizengine/internal/markup"
)

// Rule is the authored outcome of one candidate answer.
type Rule struct {
	Status Status  `json:"status"`
	Points float64 `json:"points"`
}

// Evaluation is the outcome currently assigned to an answer unit.
// ExpectedDisplay is only used by gaps.
type Evaluation struct {
	Status          Status  `json:"status"`
	Points          float64 `json:"points"`
	ExpectedDisplay string  `json:"expected_display,omitempty"`
}

// DefaultPoints derives the points of a rule that carries no explicit
// `points` attribute.
func DefaultPoints(s Status) float64 {
	switch s {
	case Correct:
		return 1
	case Partial:
		return 0.5
	case Wrong:
		return -1
	default:
		return 0
	}
}

const (
	DefaultEmptyPoints = 0.0
	DefaultWrongPoints = -1.0
)

// flagStatus reads the correctness flags of an answer-like element.
func flagStatus(n *markup.Node) (Status, bool) {
	switch {
	case n.Has("correct"):
		return Correct, true
	case n.Has("partially-correct"), n.Has("partialy-correct"):
		return Partial, true
	case n.Has("wrong"):
		return Wrong, true
	default:
		return Unknown, false
	}
}

// readRule derives the rule of an answer-like element. def is the status
// used when no flag is present; Wrong rules without explicit points take the
// question's wrongPoints.
func readRule(n *markup.Node, def Status, wrongPoints float64) Rule {
	status, flagged := flagStatus(n)
	if !flagged {
		status = def
	}
	r := Rule{Status: status, Points: DefaultPoints(status)}
	if status == Wrong {
		r.Points = wrongPoints
	}
	if p, ok := parsePoints(n, "points"); ok {
		r.Points = p
	}
	return r
}

func parsePoints(n *markup.Node, key string) (float64, bool) {
	v, ok := n.Attr(key)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func pointsOr(n *markup.Node, key string, def float64) float64 {
	if p, ok := parsePoints(n, key); ok {
		return p
	}
	return def
}
