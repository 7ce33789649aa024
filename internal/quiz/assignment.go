package quiz

import (
	"sort"
	"strings"

	"github.com/mind-engage/quizengine/internal/markup"
)

// DefaultEmptyAnswer is the drop-down entry meaning "nothing selected".
const DefaultEmptyAnswer = "---"

// Assignment is one label the learner assigns a candidate answer to.
type Assignment struct {
	Label    string
	Expected string
	Selected string
	// Rules holds the outcome of every candidate, the empty sentinel included.
	Rules   map[string]Rule
	Current Evaluation
}

type AssignmentLine struct {
	Assignments []*Assignment
}

var defaultAssignmentRule = Rule{Status: Correct, Points: DefaultPoints(Correct)}

type assignmentUnit struct {
	expected string
	rule     Rule
}

func buildAssignment(q *Question, n *markup.Node) {
	q.EmptyAnswer = strings.TrimSpace(n.AttrOr("empty-answer", ""))
	if q.EmptyAnswer == "" {
		q.EmptyAnswer = DefaultEmptyAnswer
	}

	// The candidate set spans the whole question, label-less distractors
	// included, so it has to be collected before any line is built.
	units := map[*markup.Node]assignmentUnit{}
	overrides := map[string]Rule{}
	seen := map[string]bool{}
	var candidates []string
	for _, an := range n.FindAll(TagAssignment) {
		expected := strings.TrimSpace(an.AttrOr("answer", ""))
		if expected == "" {
			continue
		}
		rule := readRule(an, Correct, q.WrongPoints)
		units[an] = assignmentUnit{expected: expected, rule: rule}
		// Only a rule other than plain Correct carries over to other units;
		// a bare `correct` flag scores a unit's own answer alone.
		if _, ok := overrides[expected]; rule != defaultAssignmentRule && !ok {
			overrides[expected] = rule
		}
		if !seen[expected] && expected != q.EmptyAnswer {
			seen[expected] = true
			candidates = append(candidates, expected)
		}
	}
	sort.Strings(candidates)
	q.Candidates = append([]string{q.EmptyAnswer}, candidates...)

	for _, group := range groupUnits(n, TagAssignment) {
		line := &AssignmentLine{}
		for _, an := range group {
			u, ok := units[an]
			if !ok {
				continue
			}
			label := strings.TrimSpace(an.InnerHTML())
			if label == "" {
				continue
			}
			line.Assignments = append(line.Assignments, &Assignment{
				Label:    label,
				Expected: u.expected,
				Selected: q.EmptyAnswer,
				Rules:    assignmentRules(q, u, overrides),
			})
		}
		if len(line.Assignments) > 0 {
			q.Lines = append(q.Lines, &Line{Body: line})
		}
	}
}

// assignmentRules maps every candidate for one unit: its own expected answer
// to its declared rule, another unit's answer to that unit's rule if it is
// not plain Correct/1, everything else to Wrong/wrongPoints.
func assignmentRules(q *Question, u assignmentUnit, overrides map[string]Rule) map[string]Rule {
	rules := make(map[string]Rule, len(q.Candidates))
	for _, c := range q.Candidates[1:] {
		switch r, ok := overrides[c]; {
		case c == u.expected:
			rules[c] = u.rule
		case ok:
			rules[c] = r
		default:
			rules[c] = Rule{Status: Wrong, Points: q.WrongPoints}
		}
	}
	rules[q.EmptyAnswer] = Rule{Status: Wrong, Points: q.EmptyPoints}
	return rules
}

func (l *AssignmentLine) evaluate(env *evalEnv) lineScore {
	s := lineScore{max: l.maxScore()}
	sentinel := env.question.EmptyAnswer
	for _, a := range l.Assignments {
		r, ok := a.Rules[a.Selected]
		if !ok {
			r = a.Rules[sentinel]
		}
		a.Current = Evaluation{Status: r.Status, Points: r.Points}
		s.actual += a.Current.Points
		s.status = UpdateStatus(s.status, a.Current.Status)
	}
	return s
}

func (l *AssignmentLine) reset(env *evalEnv) lineScore {
	for _, a := range l.Assignments {
		a.Selected = env.question.EmptyAnswer
		a.Current = Evaluation{}
	}
	return lineScore{max: l.maxScore()}
}

func (l *AssignmentLine) maxScore() float64 {
	var max float64
	for _, a := range l.Assignments {
		max += a.MaxScore()
	}
	return max
}

// MaxScore is the best outcome any candidate can give this unit.
func (a *Assignment) MaxScore() float64 {
	first := true
	var best float64
	for _, r := range a.Rules {
		if first || r.Points > best {
			best, first = r.Points, false
		}
	}
	return best
}
