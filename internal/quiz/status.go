package quiz

import "fmt"

// Status is the correctness classification of an answer, line or question.
type Status int

const (
	Unknown Status = iota
	Correct
	Partial
	Wrong
)

var statusNames = [...]string{
	Unknown: "unknown",
	Correct: "correct",
	Partial: "partial",
	Wrong:   "wrong",
}

func (s Status) String() string {
	if s < Unknown || s > Wrong {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	for i, name := range statusNames {
		if name == string(b) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", string(b))
}

// UpdateStatus folds incoming into running. Unknown never changes the
// running value, Partial absorbs, and Correct meeting Wrong gives Partial.
func UpdateStatus(running, incoming Status) Status {
	switch {
	case incoming == Unknown:
		return running
	case running == Unknown:
		return incoming
	case running == incoming:
		return running
	default:
		// any two distinct known statuses: Correct+Wrong, or either with Partial
		return Partial
	}
}

// FoldStatus reduces a sequence of statuses. The result does not depend on
// the order of the input.
func FoldStatus(statuses ...Status) Status {
	out := Unknown
	for _, s := range statuses {
		out = UpdateStatus(out, s)
	}
	return out
}
