package quiz_test

import (
	"reflect"
	"testing"

	"github.com/mind-engage/quizengine/internal/markup"
	"github.com/mind-engage/quizengine/internal/quiz"
)

/* ---------------- helpers ---------------- */

func build(t *testing.T, src string, opts ...quiz.Option) *quiz.Quiz {
	t.Helper()
	root, err := markup.ParseString(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return quiz.Build(root, opts...)
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func ref(ex, q, line, unit int) quiz.Ref {
	return quiz.Ref{Exercise: ex, Question: q, Line: line, Unit: unit}
}

func question(qz *quiz.Quiz) *quiz.Question { return qz.Exercises[0].Questions[0] }

const capitalsChoice = `<lsx-quiz><lsx-exercise title="Capitals">` +
	`<lsx-question type="single-choice" text="Capital of France?">` +
	`<lsx-answer wrong>Rome</lsx-answer><lsx-answer correct>Paris</lsx-answer><lsx-answer wrong>Madrid</lsx-answer>` +
	`</lsx-question></lsx-exercise></lsx-quiz>`

const capitalsAssignment = `<lsx-quiz><lsx-exercise>` +
	`<lsx-question type="assignment">` +
	`<lsx-assignment answer="Paris">France</lsx-assignment><lsx-assignment answer="Berlin">Germany</lsx-assignment>` +
	`</lsx-question></lsx-exercise></lsx-quiz>`

const capitalGap = `<lsx-quiz><lsx-exercise><lsx-question type="gap-text">` +
	`<lsx-gap-text>The capital of France is <lsx-gap answer="Paris" ignore-case></lsx-gap>.</lsx-gap-text>` +
	`</lsx-question></lsx-exercise></lsx-quiz>`

/* ---------------- scenarios ---------------- */

func TestSingleChoiceCorrectTick(t *testing.T) {
	qz := build(t, capitalsChoice)
	must(t, qz.Tick(ref(0, 0, 1, 0), true))
	qz.Evaluate()

	q := question(qz)
	if q.MaxScore != 1 || q.ActualScore != 1 || q.Status != quiz.Correct {
		t.Fatalf("question = max %v actual %v status %s, want 1/1/correct", q.MaxScore, q.ActualScore, q.Status)
	}
	if qz.Mode != quiz.Correction {
		t.Fatalf("mode = %s, want correction", qz.Mode)
	}
	if qz.Percentage() != 1 {
		t.Fatalf("percentage = %v", qz.Percentage())
	}
}

func TestSingleChoiceMissedCorrect(t *testing.T) {
	qz := build(t, capitalsChoice)
	qz.Evaluate()

	q := question(qz)
	if q.MaxScore != 1 || q.ActualScore != quiz.DefaultEmptyPoints || q.Status != quiz.Wrong {
		t.Fatalf("question = max %v actual %v status %s, want 1/0/wrong", q.MaxScore, q.ActualScore, q.Status)
	}
	paris := q.Lines[1].Body.(*quiz.ChoiceLine).Answers[0]
	if paris.Current.Status != quiz.Wrong {
		t.Fatalf("unticked correct answer status = %s, want wrong", paris.Current.Status)
	}
}

func TestAssignmentWrongSelection(t *testing.T) {
	qz := build(t, capitalsAssignment)
	q := question(qz)
	if want := []string{"---", "Berlin", "Paris"}; !reflect.DeepEqual(q.Candidates, want) {
		t.Fatalf("candidates = %v, want %v", q.Candidates, want)
	}

	must(t, qz.Select(ref(0, 0, 0, 0), "Berlin"))
	qz.Evaluate()

	france := q.Lines[0].Body.(*quiz.AssignmentLine).Assignments[0]
	if france.Current.Status != quiz.Wrong || france.Current.Points != -1 {
		t.Fatalf("france = %+v, want wrong/-1", france.Current)
	}
	if q.ActualScore != 0 {
		t.Fatalf("question actual = %v, want clamp to 0", q.ActualScore)
	}
	if q.Lines[0].ActualScore != -1 {
		t.Fatalf("line actual = %v, lines are not clamped", q.Lines[0].ActualScore)
	}
}

func TestGapIgnoreCase(t *testing.T) {
	qz := build(t, capitalGap)
	must(t, qz.Enter(ref(0, 0, 0, 0), "paris"))
	qz.Evaluate()

	gap := question(qz).Lines[0].Body.(*quiz.GapTextLine).Gaps()[0]
	if gap.Current.Status != quiz.Correct || gap.Current.Points != 1 {
		t.Fatalf("gap = %+v, want correct/1", gap.Current)
	}
	if gap.Current.ExpectedDisplay != "" {
		t.Fatalf("expected display should be empty on correct, got %q", gap.Current.ExpectedDisplay)
	}
}

func TestRetryAfterSubmit(t *testing.T) {
	qz := build(t, capitalsChoice)
	must(t, qz.Tick(ref(0, 0, 1, 0), true))
	qz.Submit()
	qz.Retry()

	q := question(qz)
	if qz.Mode != quiz.Normal {
		t.Fatalf("mode = %s, want normal", qz.Mode)
	}
	if q.ActualScore != 0 || q.MaxScore != 1 || qz.ActualScore != 0 || qz.MaxScore != 1 {
		t.Fatalf("scores after retry: question %v/%v quiz %v/%v", q.ActualScore, q.MaxScore, qz.ActualScore, qz.MaxScore)
	}
	if q.Lines[1].Body.(*quiz.ChoiceLine).Answers[0].Ticked {
		t.Fatal("tick should be cleared")
	}
	if q.Status != quiz.Unknown {
		t.Fatalf("status = %s, want unknown", q.Status)
	}
}

/* ---------------- properties ---------------- */

const mixedQuiz = `<lsx-quiz prefix="Exercise #"><lsx-exercise title="One">` +
	`<lsx-question type="multiple-choice"><lsx-answer correct>A</lsx-answer><lsx-answer wrong>B</lsx-answer><lsx-answer wrong points="-2">C</lsx-answer></lsx-question>` +
	`<lsx-question type="assignment"><lsx-assignment answer="x">X</lsx-assignment><lsx-assignment answer="y">Y</lsx-assignment></lsx-question>` +
	`</lsx-exercise><lsx-exercise title="Two">` +
	`<lsx-question type="gap-text"><lsx-gap-text>a <lsx-gap answer="1"></lsx-gap> b <lsx-gap answer="2"></lsx-gap></lsx-gap-text></lsx-question>` +
	`<lsx-question type="free-text"><lsx-free-text>Explain</lsx-free-text></lsx-question>` +
	`</lsx-exercise></lsx-quiz>`

func answerAll(t *testing.T, qz *quiz.Quiz) {
	t.Helper()
	must(t, qz.Tick(ref(0, 0, 1, 0), true))
	must(t, qz.Tick(ref(0, 0, 2, 0), true))
	must(t, qz.Select(ref(0, 1, 0, 0), "y"))
	must(t, qz.Enter(ref(1, 0, 0, 0), "1"))
	must(t, qz.Enter(ref(1, 0, 0, 1), "nope"))
	must(t, qz.Enter(ref(1, 1, 0, 0), "because"))
}

func TestResetRestoresFreshState(t *testing.T) {
	fresh := build(t, mixedQuiz).Snapshot()

	qz := build(t, mixedQuiz)
	answerAll(t, qz)
	qz.Evaluate()
	qz.Reset()
	once := qz.Snapshot()
	qz.Reset()
	twice := qz.Snapshot()

	if !reflect.DeepEqual(fresh, once) {
		t.Fatalf("evaluate+reset differs from a fresh build:\nfresh %+v\ngot   %+v", fresh, once)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Fatal("second reset changed state")
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	qz := build(t, mixedQuiz)
	answerAll(t, qz)
	qz.Evaluate()
	first := qz.Snapshot()
	qz.Evaluate()
	if !reflect.DeepEqual(first, qz.Snapshot()) {
		t.Fatal("re-evaluating changed state")
	}
}

func TestScoresNeverNegativeAboveQuestion(t *testing.T) {
	sawNegativeUnit := false
	for mask := 0; mask < 8; mask++ {
		qz := build(t, mixedQuiz)
		for i := 0; i < 3; i++ {
			if mask&(1<<i) != 0 {
				must(t, qz.Tick(ref(0, 0, i, 0), true))
			}
		}
		qz.Evaluate()
		for _, ex := range qz.Exercises {
			if ex.ActualScore < 0 {
				t.Fatalf("mask %03b: exercise %d actual %v", mask, ex.Number, ex.ActualScore)
			}
			for _, q := range ex.Questions {
				if q.ActualScore < 0 {
					t.Fatalf("mask %03b: question %d actual %v", mask, q.Number, q.ActualScore)
				}
				for _, l := range q.Lines {
					if l.ActualScore < 0 {
						sawNegativeUnit = true
					}
				}
			}
		}
		if qz.ActualScore < 0 {
			t.Fatalf("mask %03b: quiz actual %v", mask, qz.ActualScore)
		}
	}
	if !sawNegativeUnit {
		t.Fatal("expected some line to carry negative points")
	}
}

func TestAggregation(t *testing.T) {
	qz := build(t, mixedQuiz)
	answerAll(t, qz)
	qz.Evaluate()

	// choice: max 1, B -1, C -2, A missed 0 -> clamp 0
	// assignment: max 2, X<-y -1, Y unselected 0 -> clamp 0
	// gaps: max 2, 1 + (-1) = 0
	// free text: no grader, 0/0
	if qz.MaxScore != 5 {
		t.Fatalf("max = %v, want 5", qz.MaxScore)
	}
	if qz.ActualScore != 0 {
		t.Fatalf("actual = %v, want 0", qz.ActualScore)
	}
	two := qz.Exercises[1]
	if two.MaxScore != 2 || two.Status != quiz.Partial {
		t.Fatalf("exercise two = %v %s", two.MaxScore, two.Status)
	}
	ft := two.Questions[1]
	if ft.Status != quiz.Unknown || ft.MaxScore != 0 {
		t.Fatalf("ungraded free text = %s %v", ft.Status, ft.MaxScore)
	}
}

func TestPercentageWithoutScorableContent(t *testing.T) {
	qz := build(t, `<lsx-quiz><lsx-exercise><lsx-question type="free-text"></lsx-question></lsx-exercise></lsx-quiz>`)
	qz.Evaluate()
	if qz.Percentage() != 0 {
		t.Fatalf("percentage = %v, want 0", qz.Percentage())
	}
}

/* ---------------- free text ---------------- */

type keywordGrader struct{ keyword string }

func (g keywordGrader) MaxScore(*quiz.FreeTextLine) float64 { return 2 }

func (g keywordGrader) Grade(answer string, _ *quiz.FreeTextLine) quiz.Evaluation {
	if answer == g.keyword {
		return quiz.Evaluation{Status: quiz.Correct, Points: 2}
	}
	return quiz.Evaluation{Status: quiz.Wrong}
}

func TestFreeTextGrader(t *testing.T) {
	qz := build(t, mixedQuiz, quiz.WithFreeTextGrader(keywordGrader{keyword: "because"}))
	ft := qz.Exercises[1].Questions[1]
	if ft.MaxScore != 2 {
		t.Fatalf("free text max before evaluation = %v, want 2", ft.MaxScore)
	}
	must(t, qz.Enter(ref(1, 1, 0, 0), "  because "))
	qz.Evaluate()
	if ft.Status != quiz.Correct || ft.ActualScore != 2 {
		t.Fatalf("free text = %s %v", ft.Status, ft.ActualScore)
	}
}
