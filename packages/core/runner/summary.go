package runner

import "time"

// Stat is a passed/failed/total triple for one granularity.
type Stat struct {
	Passed int
	Failed int
	Total  int
}

// Summary is the run-wide aggregate, recomputed from the result list at
// run end rather than maintained incrementally.
type Summary struct {
	Requests   Stat
	Tests      Stat
	Assertions Stat

	// TotalTime is the sum of per-request response times, so it excludes
	// inter-request orchestration overhead.
	TotalTime time.Duration
}

// HasFailures reports whether anything at any granularity failed.
func (s *Summary) HasFailures() bool {
	return s.Requests.Failed > 0 || s.Tests.Failed > 0 || s.Assertions.Failed > 0
}

// Summarize folds the ordered result list into a Summary. A request
// counts as failed only when it produced no test results, no assertion
// results, and carries a request-level error; a request whose tests or
// assertions failed still counts as a passed request, with the failures
// reported at test/assertion granularity. That asymmetry is part of the
// summary contract.
func Summarize(results []*ItemResult) *Summary {
	s := &Summary{}

	for _, r := range results {
		s.Requests.Total++
		if len(r.TestResults) == 0 && len(r.AssertionResults) == 0 && r.Error != nil {
			s.Requests.Failed++
		} else {
			s.Requests.Passed++
		}

		for _, t := range r.TestResults {
			s.Tests.Total++
			if t.Passed() {
				s.Tests.Passed++
			} else {
				s.Tests.Failed++
			}
		}

		for _, a := range r.AssertionResults {
			s.Assertions.Total++
			if a.Passed() {
				s.Assertions.Passed++
			} else {
				s.Assertions.Failed++
			}
		}

		s.TotalTime += r.ResponseTime
	}

	return s
}
