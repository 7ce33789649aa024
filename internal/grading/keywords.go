package grading

import (
	"strconv"
	"strings"

	"github.com/mind-engage/quizengine/internal/quiz"
)

// KeywordGrader scores free-text lines that declare `keywords` (comma
// separated) by the share of keywords found in the answer. `points` sets the
// line's maximum, default 1. Lines without keywords stay ungraded.
type KeywordGrader struct{}

func (KeywordGrader) MaxScore(line *quiz.FreeTextLine) float64 {
	if len(keywords(line)) == 0 {
		return 0
	}
	return maxPoints(line)
}

func (KeywordGrader) Grade(answer string, line *quiz.FreeTextLine) quiz.Evaluation {
	required := keywords(line)
	if len(required) == 0 {
		return quiz.Evaluation{}
	}
	score := keywordHeuristic(answer, required, maxPoints(line))
	switch {
	case score == maxPoints(line):
		return quiz.Evaluation{Status: quiz.Correct, Points: score}
	case score > 0:
		return quiz.Evaluation{Status: quiz.Partial, Points: score}
	default:
		return quiz.Evaluation{Status: quiz.Wrong}
	}
}

func keywords(line *quiz.FreeTextLine) []string {
	var out []string
	for _, k := range strings.Split(line.Attrs["keywords"], ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func maxPoints(line *quiz.FreeTextLine) float64 {
	if v, err := strconv.ParseFloat(strings.TrimSpace(line.Attrs["points"]), 64); err == nil && v > 0 {
		return v
	}
	return 1
}

func keywordHeuristic(text string, required []string, max float64) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	found := 0
	low := strings.ToLower(text)
	for _, k := range required {
		if strings.Contains(low, strings.ToLower(k)) {
			found++
		}
	}
	return max * (float64(found) / float64(len(required)))
}
