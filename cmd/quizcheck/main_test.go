package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mind-engage/quizengine/internal/quiz"
	"github.com/mind-engage/quizengine/internal/render"
)

const doc = `<lsx-quiz><lsx-exercise title="Physics">
<lsx-question type="gap-text"><lsx-gap-text>g = <lsx-gap answer="9.81" validate="numeric" tolerance="0.05"></lsx-gap> m/s²</lsx-gap-text></lsx-question>
<lsx-question><lsx-answer correct>Newton</lsx-answer><lsx-answer>Pascal</lsx-answer></lsx-question>
</lsx-exercise></lsx-quiz>`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRunSnapshot(t *testing.T) {
	file := writeFile(t, "quiz.html", doc)
	actions := writeFile(t, "actions.json", `[
		{"kind":"enter","ref":{"exercise":0,"question":0,"line":0,"unit":0},"value":"9,8"},
		{"kind":"tick","ref":{"question":1,"line":1},"ticked":true}
	]`)

	var out bytes.Buffer
	if err := run([]string{"-actions", actions, file}, &out); err != nil {
		t.Fatal(err)
	}
	var snap quiz.QuizSnapshot
	if err := json.Unmarshal(out.Bytes(), &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Mode != quiz.Correction || snap.MaxScore != 2 || snap.ActualScore != 1 {
		t.Fatalf("snapshot mode=%s score=%v/%v", snap.Mode, snap.ActualScore, snap.MaxScore)
	}
}

func TestRunView(t *testing.T) {
	file := writeFile(t, "quiz.html", doc)
	var out bytes.Buffer
	if err := run([]string{"-view", "-no-submit", file}, &out); err != nil {
		t.Fatal(err)
	}
	var page render.Page
	if err := json.Unmarshal(out.Bytes(), &page); err != nil {
		t.Fatal(err)
	}
	if page.CorrectionVisible || page.Points != "0 from 2" || page.Actions[0].Kind != quiz.ActionSubmit {
		t.Fatalf("page = %+v", page)
	}
}

func TestRunErrors(t *testing.T) {
	file := writeFile(t, "quiz.html", doc)
	bad := writeFile(t, "bad.json", `[{"kind":"tick","ref":{"line":7}}]`)
	cases := map[string][]string{
		"no file":        {},
		"missing file":   {"/does/not/exist.html"},
		"quiz index":     {"-quiz", "1", file},
		"failing action": {"-actions", bad, file},
	}
	for name, args := range cases {
		if err := run(args, &bytes.Buffer{}); err == nil {
			t.Errorf("%s: want error", name)
		}
	}
}
