// Package grading provides the named gap validators a quiz can reference
// from a `validate` attribute, and an optional keyword grader for free-text
// lines.
package grading

import (
	"github.com/mind-engage/quizengine/internal/quiz"
)

// Strategy decides a gap. A strategy without a verdict leaves eval at
// Unknown so the gap's own rules still apply.
type Strategy interface {
	Validate(answer string, eval *quiz.Evaluation, gap *quiz.Gap)
}

// StrategyFunc adapts a plain function to Strategy.
type StrategyFunc func(answer string, eval *quiz.Evaluation, gap *quiz.Gap)

func (f StrategyFunc) Validate(answer string, eval *quiz.Evaluation, gap *quiz.Gap) {
	f(answer, eval, gap)
}

// Registry options

type Option func(*config)

type config struct {
	MaxEditDistance int // for fuzzy
	extra           map[string]Strategy
}

func WithMaxEditDistance(n int) Option { return func(c *config) { c.MaxEditDistance = n } }

// WithStrategy registers s under name, replacing a built-in of that name.
func WithStrategy(name string, s Strategy) Option {
	return func(c *config) { c.extra[name] = s }
}

// NewRegistry installs the built-in strategies.
func NewRegistry(opts ...Option) quiz.Validators {
	cfg := &config{
		MaxEditDistance: 1,
		extra:           map[string]Strategy{},
	}
	for _, o := range opts {
		o(cfg)
	}
	strategies := map[string]Strategy{
		"numeric":       numericStrategy{},
		"fuzzy":         fuzzyStrategy{maxEdit: cfg.MaxEditDistance},
		"trimmed-equal": trimmedEqualStrategy{},
	}
	for name, s := range cfg.extra {
		strategies[name] = s
	}
	reg := make(quiz.Validators, len(strategies))
	for name, s := range strategies {
		reg[name] = s.Validate
	}
	return reg
}

// --- Strategies ---

// fuzzyStrategy accepts answers close to a correct literal: an exact match
// after normalization scores the rule's points, a match within maxEdit edits
// half of them.
type fuzzyStrategy struct{ maxEdit int }

func (s fuzzyStrategy) Validate(answer string, eval *quiz.Evaluation, gap *quiz.Gap) {
	normResp := normalize(answer)
	if normResp == "" {
		return
	}
	var near *quiz.MatchRule
	for _, r := range correctLiterals(gap) {
		nk := normalize(r.Pattern)
		if nk == normResp {
			eval.Status, eval.Points = quiz.Correct, r.Rule.Points
			return
		}
		if near == nil && s.maxEdit > 0 && levenshtein(nk, normResp) <= s.maxEdit {
			near = &r
		}
	}
	if near != nil {
		eval.Status, eval.Points = quiz.Partial, near.Rule.Points*0.5
	}
}

// trimmedEqualStrategy compares against every literal rule ignoring case,
// punctuation and runs of whitespace, and adopts the first matching rule.
type trimmedEqualStrategy struct{}

func (trimmedEqualStrategy) Validate(answer string, eval *quiz.Evaluation, gap *quiz.Gap) {
	norm := normalize(answer)
	for _, r := range gap.Rules {
		if r.Kind == quiz.MatchExact && normalize(r.Pattern) == norm {
			eval.Status, eval.Points = r.Rule.Status, r.Rule.Points
			return
		}
	}
}

// helpers

func correctLiterals(gap *quiz.Gap) []quiz.MatchRule {
	var out []quiz.MatchRule
	for _, r := range gap.Rules {
		if r.Kind == quiz.MatchExact && r.Rule.Status == quiz.Correct {
			out = append(out, r)
		}
	}
	return out
}
