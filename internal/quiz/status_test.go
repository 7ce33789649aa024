package quiz_test

import (
	"testing"

	"github.com/mind-engage/quizengine/internal/quiz"
)

var allStatuses = []quiz.Status{quiz.Unknown, quiz.Correct, quiz.Partial, quiz.Wrong}

func TestUpdateStatusTable(t *testing.T) {
	U, C, P, W := quiz.Unknown, quiz.Correct, quiz.Partial, quiz.Wrong
	cases := []struct {
		running, incoming, want quiz.Status
	}{
		{U, U, U}, {U, C, C}, {U, P, P}, {U, W, W},
		{C, U, C}, {C, C, C}, {C, P, P}, {C, W, P},
		{W, U, W}, {W, C, P}, {W, P, P}, {W, W, W},
		{P, U, P}, {P, C, P}, {P, P, P}, {P, W, P},
	}
	for _, tc := range cases {
		if got := quiz.UpdateStatus(tc.running, tc.incoming); got != tc.want {
			t.Errorf("UpdateStatus(%s, %s) = %s, want %s", tc.running, tc.incoming, got, tc.want)
		}
	}
}

// Every sequence of up to five statuses is enumerated; sequences that are
// permutations of the same multiset must fold to the same status.
func TestFoldStatusIsOrderIndependent(t *testing.T) {
	byMultiset := map[[4]int]quiz.Status{}
	var walk func(seq []quiz.Status)
	walk = func(seq []quiz.Status) {
		var counts [4]int
		for _, s := range seq {
			counts[s]++
		}
		got := quiz.FoldStatus(seq...)
		if prev, ok := byMultiset[counts]; ok && prev != got {
			t.Fatalf("fold(%v) = %s, but another permutation gave %s", seq, got, prev)
		}
		byMultiset[counts] = got
		if len(seq) == 5 {
			return
		}
		for _, s := range allStatuses {
			walk(append(append([]quiz.Status(nil), seq...), s))
		}
	}
	walk(nil)

	// 126 multisets of size 0..5 over four values
	if len(byMultiset) != 126 {
		t.Fatalf("visited %d multisets, want 126", len(byMultiset))
	}
}

func TestUpdateStatusAssociativeAndIdempotent(t *testing.T) {
	for _, a := range allStatuses {
		if got := quiz.UpdateStatus(a, a); got != a {
			t.Errorf("UpdateStatus(%s, %s) = %s", a, a, got)
		}
		for _, b := range allStatuses {
			for _, c := range allStatuses {
				l := quiz.UpdateStatus(quiz.UpdateStatus(a, b), c)
				r := quiz.UpdateStatus(a, quiz.UpdateStatus(b, c))
				if l != r {
					t.Errorf("(%s.%s).%s = %s, %s.(%s.%s) = %s", a, b, c, l, a, b, c, r)
				}
			}
		}
	}
}

func TestStatusText(t *testing.T) {
	for _, s := range allStatuses {
		b, _ := s.MarshalText()
		var back quiz.Status
		if err := back.UnmarshalText(b); err != nil || back != s {
			t.Errorf("round trip %s: got %s, err %v", s, back, err)
		}
	}
	var s quiz.Status
	if err := s.UnmarshalText([]byte("maybe")); err == nil {
		t.Error("expected error for unknown status name")
	}
}
