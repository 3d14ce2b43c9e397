package framework

// Verdict is the terminal result of one function test.
type Verdict int

const (
	Passed Verdict = iota
	Failed
	Skipped
)

func (v Verdict) String() string {
	switch v {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	}
	return "unknown"
}

// TestOutcome records the verdict for one discovered function.
type TestOutcome struct {
	Name    string
	Verdict Verdict
	Reason  string
}

// RunSummary accumulates outcomes across the run. It is owned by the runner
// and returned as a value; there is no shared mutable state behind it.
type RunSummary struct {
	Passed   int
	Failed   int
	Skipped  int
	Total    int
	Outcomes []TestOutcome

	// HaltedAt names the function whose failure stopped the run, if any.
	HaltedAt string
}

func (s *RunSummary) Record(o TestOutcome) {
	s.Outcomes = append(s.Outcomes, o)
	switch o.Verdict {
	case Passed:
		s.Passed++
	case Failed:
		s.Failed++
	case Skipped:
		s.Skipped++
	}
}

// OK reports whether the run completed without any failed function.
func (s RunSummary) OK() bool {
	return s.Failed == 0
}
