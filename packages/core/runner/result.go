package runner

import "time"

// CheckStatus is the outcome of a single test or assertion.
type CheckStatus string

const (
	StatusPass CheckStatus = "pass"
	StatusFail CheckStatus = "fail"
)

// CheckResult is one test or assertion outcome within a step.
type CheckResult struct {
	Name    string
	Status  CheckStatus
	Message string
}

func (c *CheckResult) Passed() bool {
	return c.Status == StatusPass
}

// NextRequest is the control directive a step may emit. Stop terminates
// the run immediately; otherwise Name names the request to execute next.
// A nil *NextRequest on a result means plain sequential continuation.
type NextRequest struct {
	Name string
	Stop bool
}

// ItemResult is the outcome of executing one request. It is appended to
// the run's result list and never mutated afterwards.
type ItemResult struct {
	Path             string
	Name             string
	Method           string
	URL              string
	StatusCode       int
	ResponseTime     time.Duration
	TestResults      []*CheckResult
	AssertionResults []*CheckResult
	Error            error
	Next             *NextRequest
}

// HasFailure reports whether the step carries a request-level error, a
// failed test, or a failed assertion. This is the bail trigger; it is
// deliberately stricter than the request-level pass/fail classification
// used by the summary.
func (r *ItemResult) HasFailure() bool {
	if r.Error != nil {
		return true
	}
	for _, t := range r.TestResults {
		if !t.Passed() {
			return true
		}
	}
	for _, a := range r.AssertionResults {
		if !a.Passed() {
			return true
		}
	}
	return false
}
