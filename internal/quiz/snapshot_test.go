package quiz_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mind-engage/quizengine/internal/quiz"
)

func TestSnapshotHidesCorrectionInNormalMode(t *testing.T) {
	qz := build(t, mixedQuiz)
	answerAll(t, qz)
	s := qz.Snapshot()

	if s.Mode != quiz.Normal || s.MaxScore != 5 || s.ActualScore != 0 {
		t.Fatalf("snapshot = %s %v/%v", s.Mode, s.ActualScore, s.MaxScore)
	}
	for _, ex := range s.Exercises {
		for _, q := range ex.Questions {
			for _, l := range q.Lines {
				for _, u := range l.Units {
					if u.Evaluation != nil || u.RuleStatus != quiz.Unknown || u.Expected != "" {
						t.Fatalf("correction data leaked in normal mode: %+v", u)
					}
					if _, ok := u.Attrs["answer"]; ok {
						t.Fatalf("gap answer leaked: %+v", u.Attrs)
					}
				}
			}
		}
	}

	choice := s.Exercises[0].Questions[0].Lines[1].Units[0]
	if !choice.Ticked || choice.Ref == nil || *choice.Ref != ref(0, 0, 1, 0) {
		t.Fatalf("choice unit = %+v", choice)
	}
	assign := s.Exercises[0].Questions[1]
	if assign.Lines[0].Units[0].Selected != "y" || len(assign.Candidates) != 3 {
		t.Fatalf("assignment = %+v", assign)
	}

	gapLine := s.Exercises[1].Questions[0].Lines[0]
	var kinds []string
	for _, u := range gapLine.Units {
		kinds = append(kinds, string(u.Kind))
	}
	if got := strings.Join(kinds, ","); got != "markup,gap,markup,gap" {
		t.Fatalf("gap line kinds = %s", got)
	}
	if gapLine.Units[0].Ref != nil || gapLine.Units[3].Ref.Unit != 1 || gapLine.Units[3].Entered != "nope" {
		t.Fatalf("gap refs = %+v", gapLine.Units)
	}
}

func TestSnapshotShowsCorrection(t *testing.T) {
	qz := build(t, mixedQuiz)
	answerAll(t, qz)
	qz.Submit()
	s := qz.Snapshot()

	if s.Mode != quiz.Correction || s.Percentage != 0 {
		t.Fatalf("snapshot = %s %v", s.Mode, s.Percentage)
	}
	a := s.Exercises[0].Questions[0].Lines[0].Units[0]
	if a.RuleStatus != quiz.Correct || a.Evaluation == nil || a.Evaluation.Status != quiz.Wrong {
		t.Fatalf("missed correct answer = %+v", a)
	}
	x := s.Exercises[0].Questions[1].Lines[0].Units[0]
	if x.Expected != "x" || x.Evaluation.Points != -1 {
		t.Fatalf("assignment unit = %+v", x)
	}
	g := s.Exercises[1].Questions[0].Lines[0].Units[3]
	if g.Expected != "2" || g.Evaluation.ExpectedDisplay != "2" {
		t.Fatalf("gap unit = %+v", g)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	qz := build(t, mixedQuiz)
	s := qz.Snapshot()
	question := qz.Exercises[0].Questions[1]
	question.Candidates[1] = "changed"
	question.Attrs["type"] = "changed"
	must(t, qz.Select(ref(0, 1, 0, 0), "y"))

	q := s.Exercises[0].Questions[1]
	if q.Candidates[1] != "x" || q.Attrs["type"] != "assignment" || q.Lines[0].Units[0].Selected != "---" {
		t.Fatalf("snapshot follows the quiz: %+v", q)
	}
}

func TestSnapshotJSON(t *testing.T) {
	qz := build(t, capitalsChoice)
	must(t, qz.Tick(ref(0, 0, 1, 0), true))
	qz.Submit()
	b, err := json.Marshal(qz.Snapshot())
	must(t, err)

	var back struct {
		Mode      string `json:"mode"`
		Exercises []struct {
			Status    string `json:"status"`
			Questions []struct {
				Type string `json:"type"`
			} `json:"questions"`
		} `json:"exercises"`
	}
	must(t, json.Unmarshal(b, &back))
	if back.Mode != "correction" || back.Exercises[0].Status != "correct" || back.Exercises[0].Questions[0].Type != "choice" {
		t.Fatalf("json = %s", b)
	}
}

func TestSnapshotHidesFreeTextGradingAttrs(t *testing.T) {
	qz := build(t, `<lsx-quiz><lsx-exercise><lsx-question type="free-text">`+
		`<lsx-free-text keywords="mitochondria, atp" points="2" rows="4">Explain</lsx-free-text>`+
		`</lsx-question></lsx-exercise></lsx-quiz>`)
	must(t, qz.Enter(ref(0, 0, 0, 0), "energy"))
	s := qz.Snapshot()

	u := s.Exercises[0].Questions[0].Lines[0].Units[0]
	if u.Kind != quiz.UnitFreeText || u.Entered != "energy" {
		t.Fatalf("free-text unit = %+v", u)
	}
	for _, k := range []string{"keywords", "points"} {
		if _, ok := u.Attrs[k]; ok {
			t.Errorf("%s leaked: %v", k, u.Attrs)
		}
	}
	if u.Attrs["rows"] != "4" {
		t.Errorf("rows dropped: %v", u.Attrs)
	}
	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "mitochondria") {
		t.Fatalf("keywords in snapshot json: %s", raw)
	}
}
