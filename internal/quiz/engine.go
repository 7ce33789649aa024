package quiz

// Evaluate switches the quiz to Correction and scores every line in document
// order. Evaluating twice with unchanged answers yields identical state.
func (q *Quiz) Evaluate() {
	q.Mode = Correction
	q.aggregate(LineBody.evaluate)
}

// Reset switches the quiz to Normal and clears every answer. Max scores are
// recomputed from the rules, actual scores are zero.
func (q *Quiz) Reset() {
	q.Mode = Normal
	q.aggregate(LineBody.reset)
}

// aggregate applies step to every line and rolls the results up. Question
// scores are floored at zero; lines, exercises and the quiz are plain sums.
func (q *Quiz) aggregate(step func(LineBody, *evalEnv) lineScore) {
	env := &evalEnv{opts: &q.opts, quiz: q}
	q.MaxScore, q.ActualScore = 0, 0
	for _, ex := range q.Exercises {
		env.exercise = ex
		ex.MaxScore, ex.ActualScore, ex.Status = 0, 0, Unknown
		for _, qu := range ex.Questions {
			env.question = qu
			var max, actual float64
			st := Unknown
			for _, l := range qu.Lines {
				s := step(l.Body, env)
				l.MaxScore, l.ActualScore, l.Status = s.max, s.actual, s.status
				max += s.max
				actual += s.actual
				st = UpdateStatus(st, s.status)
			}
			if actual < 0 {
				actual = 0
			}
			qu.MaxScore, qu.ActualScore, qu.Status = max, actual, st
			ex.MaxScore += max
			ex.ActualScore += actual
			ex.Status = UpdateStatus(ex.Status, st)
		}
		q.MaxScore += ex.MaxScore
		q.ActualScore += ex.ActualScore
	}
}
