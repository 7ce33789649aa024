package quiz

import (
	"html"
	"regexp"
	"strings"

	"github.com/mind-engage/quizengine/internal/markup"
)

type MatchKind string

const (
	MatchExact MatchKind = "exact"
	MatchRegex MatchKind = "regex"
)

// MatchRule is one authored gap answer, tested in authored order.
type MatchRule struct {
	Kind    MatchKind
	Pattern string
	Rule    Rule

	norm string
	re   *regexp.Regexp
}

// Gap is one text input inside a gap-text line.
type Gap struct {
	IgnoreCase   bool
	IgnoreSpaces bool
	// Validator names an entry of the quiz's Validators.
	Validator string
	Length    string
	Attrs     map[string]string
	Rules     []MatchRule

	Entered string
	Current Evaluation
}

// Segment is either static markup or a gap.
type Segment struct {
	Markup string
	Gap    *Gap
}

type GapTextLine struct {
	Segments []Segment
}

// Gaps returns the gaps of the line in order.
func (l *GapTextLine) Gaps() []*Gap {
	var out []*Gap
	for _, s := range l.Segments {
		if s.Gap != nil {
			out = append(out, s.Gap)
		}
	}
	return out
}

// Normalize applies the gap's comparison rules to an answer.
func (g *Gap) Normalize(s string) string {
	s = strings.TrimSpace(s)
	if g.IgnoreCase {
		s = strings.ToLower(s)
	}
	if g.IgnoreSpaces {
		s = strings.Join(strings.Fields(s), "")
	}
	return s
}

// CorrectLiteral returns the first exact answer ruled Correct.
func (g *Gap) CorrectLiteral() (MatchRule, bool) {
	for _, r := range g.Rules {
		if r.Kind == MatchExact && r.Rule.Status == Correct {
			return r, true
		}
	}
	return MatchRule{}, false
}

// MaxScore is the best outcome among the gap's rules, never below 0.
func (g *Gap) MaxScore() float64 {
	var best float64
	for _, r := range g.Rules {
		best = max(best, r.Rule.Points)
	}
	return best
}

func (g *Gap) addRule(kind MatchKind, pattern string, rule Rule) {
	mr := MatchRule{Kind: kind, Pattern: pattern, Rule: rule}
	switch kind {
	case MatchRegex:
		expr := pattern
		if g.IgnoreCase {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return
		}
		mr.re = re
	default:
		mr.norm = g.Normalize(pattern)
	}
	g.Rules = append(g.Rules, mr)
}

func (g *Gap) match(answer string) (Rule, bool) {
	for _, r := range g.Rules {
		switch r.Kind {
		case MatchRegex:
			if r.re.MatchString(answer) {
				return r.Rule, true
			}
		default:
			if answer == r.norm {
				return r.Rule, true
			}
		}
	}
	return Rule{}, false
}

// evaluate resolves the gap: named validator, then the gap listener, then
// the authored rules, then the wrong/empty fallback.
func (g *Gap) evaluate(env *evalEnv) {
	answer := g.Normalize(g.Entered)
	var ev Evaluation

	if fn, ok := env.opts.Validators.Lookup(g.Validator); ok {
		fn(answer, &ev, g)
	}
	if ev.Status == Unknown && env.opts.OnGap != nil {
		env.opts.OnGap(env.gapEvent(answer, &ev, g))
	}
	if ev.Status == Unknown {
		if r, ok := g.match(answer); ok {
			ev = Evaluation{Status: r.Status, Points: r.Points}
		} else if answer != "" {
			ev = Evaluation{Status: Wrong, Points: env.question.WrongPoints}
		} else {
			ev = Evaluation{Status: Wrong, Points: env.question.EmptyPoints}
		}
	}

	ev.ExpectedDisplay = ""
	if ev.Status == Wrong || ev.Status == Partial {
		if r, ok := g.CorrectLiteral(); ok {
			ev.ExpectedDisplay = r.Pattern
		}
	}
	g.Current = ev
}

func (l *GapTextLine) evaluate(env *evalEnv) lineScore {
	var s lineScore
	for _, g := range l.Gaps() {
		g.evaluate(env)
		s.max += g.MaxScore()
		s.actual += g.Current.Points
		s.status = UpdateStatus(s.status, g.Current.Status)
	}
	return s
}

func (l *GapTextLine) reset(*evalEnv) lineScore {
	var s lineScore
	for _, g := range l.Gaps() {
		g.Entered = ""
		g.Current = Evaluation{}
		s.max += g.MaxScore()
	}
	return s
}

// ----------------------------------------------------------------
// Building
// ----------------------------------------------------------------

const (
	gapModeSplitLines = "split-lines"
	gapModeSourceCode = "source-code"

	tabWidth = 4
	nbsp     = "\u00a0"
)

func buildGapText(q *Question, n *markup.Node) {
	mode := strings.ToLower(strings.TrimSpace(n.AttrOr("mode", "")))

	containers := findAny(n, TagGapText, TagLine)
	if len(containers) == 0 {
		implicit := &markup.Node{Tag: TagGapText}
		for _, c := range n.Children {
			if !c.Is(TagQuestionText) && !c.Is(TagHint) {
				implicit.Children = append(implicit.Children, c)
			}
		}
		containers = []*markup.Node{implicit}
	}

	for _, c := range containers {
		toks := tokenize(c)
		var lines [][]token
		switch mode {
		case gapModeSplitLines:
			lines = trimBlankEdges(splitLines(toks))
			for i := range lines {
				lines[i] = trimLeading(lines[i])
			}
		case gapModeSourceCode:
			lines = trimBlankEdges(splitLines(toks))
			dedent(lines)
		default:
			lines = [][]token{toks}
		}
		for _, l := range lines {
			q.Lines = append(q.Lines, &Line{Body: &GapTextLine{Segments: segments(q, l)}})
		}
	}
}

func buildGap(q *Question, n *markup.Node) *Gap {
	g := &Gap{
		IgnoreCase:   n.Has("ignore-case"),
		IgnoreSpaces: n.Has("ignore-spaces"),
		Validator:    strings.TrimSpace(n.AttrOr("validate", "")),
		Length:       n.AttrOr("length", ""),
		Attrs:        n.AttrMap(),
	}
	own := readRule(n, Correct, q.WrongPoints)
	if v := strings.TrimSpace(n.AttrOr("answer", "")); v != "" {
		g.addRule(MatchExact, v, own)
	}
	if v := n.AttrOr("regexp", ""); v != "" {
		g.addRule(MatchRegex, v, own)
	}

	nested := n.ChildrenByTag(TagAnswer)
	for _, an := range nested {
		rule := readRule(an, Correct, q.WrongPoints)
		if v := an.AttrOr("regexp", ""); v != "" {
			g.addRule(MatchRegex, v, rule)
			continue
		}
		lit := strings.TrimSpace(an.AttrOr("answer", ""))
		if lit == "" {
			lit = strings.TrimSpace(an.TextContent())
		}
		if lit != "" {
			g.addRule(MatchExact, lit, rule)
		}
	}

	// <lsx-gap>Paris</lsx-gap> shorthand
	if len(g.Rules) == 0 && len(nested) == 0 && !n.Has("regexp") {
		if lit := strings.TrimSpace(n.TextContent()); lit != "" {
			g.addRule(MatchExact, lit, own)
		}
	}
	return g
}

// token is a piece of gap-text content: plain text, opaque markup, a gap
// element or a line break.
type token struct {
	text   string
	markup string
	gap    *markup.Node
	br     bool
}

func (t token) isText() bool { return t.gap == nil && t.markup == "" && !t.br }

func tokenize(n *markup.Node) []token {
	var out []token
	for _, c := range n.Children {
		switch {
		case c.IsText():
			out = append(out, token{text: c.Text})
		case c.Is(TagGap):
			out = append(out, token{gap: c})
		case c.Is("br"):
			out = append(out, token{br: true})
		case c.Contains(TagGap):
			out = append(out, token{markup: c.OpenTag()})
			out = append(out, tokenize(c)...)
			if end := c.CloseTag(); end != "" {
				out = append(out, token{markup: end})
			}
		default:
			out = append(out, token{markup: c.OuterHTML()})
		}
	}
	return out
}

func splitLines(toks []token) [][]token {
	lines := [][]token{nil}
	for _, t := range toks {
		switch {
		case t.br:
			lines = append(lines, nil)
		case t.isText():
			parts := strings.Split(strings.ReplaceAll(t.text, "\r\n", "\n"), "\n")
			for i, p := range parts {
				if i > 0 {
					lines = append(lines, nil)
				}
				if p != "" {
					lines[len(lines)-1] = append(lines[len(lines)-1], token{text: p})
				}
			}
		default:
			lines[len(lines)-1] = append(lines[len(lines)-1], t)
		}
	}
	return lines
}

func isBlank(line []token) bool {
	for _, t := range line {
		if !t.isText() || strings.TrimSpace(t.text) != "" {
			return false
		}
	}
	return true
}

func trimBlankEdges(lines [][]token) [][]token {
	for len(lines) > 0 && isBlank(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && isBlank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func trimLeading(line []token) []token {
	for len(line) > 0 && line[0].isText() {
		t := strings.TrimLeft(line[0].text, " \t"+nbsp)
		if t != "" {
			line[0].text = t
			break
		}
		line = line[1:]
	}
	return line
}

// indent counts leading spaces; blank lines report -1.
func indent(line []token) int {
	if isBlank(line) {
		return -1
	}
	n := 0
	for _, t := range line {
		if !t.isText() {
			return n
		}
		trimmed := strings.TrimLeft(t.text, " ")
		n += len(t.text) - len(trimmed)
		if trimmed != "" {
			return n
		}
	}
	return n
}

// dedent strips the common indentation of all lines, then turns the
// remaining spaces into non-breaking ones.
func dedent(lines [][]token) {
	common := -1
	for i, l := range lines {
		for j := range l {
			if l[j].isText() {
				l[j].text = strings.ReplaceAll(l[j].text, "\t", strings.Repeat(" ", tabWidth))
			}
		}
		if n := indent(lines[i]); n >= 0 && (common < 0 || n < common) {
			common = n
		}
	}
	if common < 0 {
		common = 0
	}

	for i, l := range lines {
		drop := common
		for len(l) > 0 && l[0].isText() && drop > 0 {
			trimmed := strings.TrimLeft(l[0].text, " ")
			lead := len(l[0].text) - len(trimmed)
			if lead > drop {
				l[0].text = l[0].text[drop:]
				break
			}
			drop -= lead
			if trimmed != "" {
				l[0].text = trimmed
				break
			}
			l = l[1:]
		}
		for j := range l {
			if l[j].isText() {
				l[j].text = strings.ReplaceAll(l[j].text, " ", nbsp)
			}
		}
		lines[i] = l
	}
}

func segments(q *Question, line []token) []Segment {
	var out []Segment
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			out = append(out, Segment{Markup: b.String()})
			b.Reset()
		}
	}
	for _, t := range line {
		switch {
		case t.gap != nil:
			flush()
			out = append(out, Segment{Gap: buildGap(q, t.gap)})
		case t.markup != "":
			b.WriteString(t.markup)
		case t.text != "":
			b.WriteString(html.EscapeString(t.text))
		}
	}
	flush()
	return out
}
