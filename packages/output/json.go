package output

import (
	"encoding/json"
	"io"

	"github.com/ninthday/bruno/packages/core/runner"
)

// JSONDocument is the persisted output layout: the run summary followed
// by the per-request results.
type JSONDocument struct {
	Summary JSONSummary  `json:"summary"`
	Results []JSONResult `json:"results"`
}

type JSONSummary struct {
	TotalRequests    int   `json:"totalRequests"`
	PassedRequests   int   `json:"passedRequests"`
	FailedRequests   int   `json:"failedRequests"`
	TotalTests       int   `json:"totalTests"`
	PassedTests      int   `json:"passedTests"`
	FailedTests      int   `json:"failedTests"`
	TotalAssertions  int   `json:"totalAssertions"`
	PassedAssertions int   `json:"passedAssertions"`
	FailedAssertions int   `json:"failedAssertions"`
	TotalTimeMs      int64 `json:"totalTime"`
}

type JSONResult struct {
	Path             string      `json:"path"`
	Name             string      `json:"name,omitempty"`
	Method           string      `json:"method,omitempty"`
	URL              string      `json:"url,omitempty"`
	Status           int         `json:"status,omitempty"`
	ResponseTimeMs   int64       `json:"responseTime"`
	Error            string      `json:"error,omitempty"`
	TestResults      []JSONCheck `json:"testResults"`
	AssertionResults []JSONCheck `json:"assertionResults"`
}

type JSONCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// WriteJSON serializes the run result to w.
func WriteJSON(w io.Writer, result *runner.RunResult) error {
	doc := JSONDocument{
		Summary: toJSONSummary(result.Summary),
		Results: make([]JSONResult, 0, len(result.Results)),
	}

	for _, r := range result.Results {
		jr := JSONResult{
			Path:             r.Path,
			Name:             r.Name,
			Method:           r.Method,
			URL:              r.URL,
			Status:           r.StatusCode,
			ResponseTimeMs:   r.ResponseTime.Milliseconds(),
			TestResults:      toJSONChecks(r.TestResults),
			AssertionResults: toJSONChecks(r.AssertionResults),
		}
		if r.Error != nil {
			jr.Error = r.Error.Error()
		}
		doc.Results = append(doc.Results, jr)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

func toJSONSummary(s *runner.Summary) JSONSummary {
	return JSONSummary{
		TotalRequests:    s.Requests.Total,
		PassedRequests:   s.Requests.Passed,
		FailedRequests:   s.Requests.Failed,
		TotalTests:       s.Tests.Total,
		PassedTests:      s.Tests.Passed,
		FailedTests:      s.Tests.Failed,
		TotalAssertions:  s.Assertions.Total,
		PassedAssertions: s.Assertions.Passed,
		FailedAssertions: s.Assertions.Failed,
		TotalTimeMs:      s.TotalTime.Milliseconds(),
	}
}

func toJSONChecks(checks []*runner.CheckResult) []JSONCheck {
	out := make([]JSONCheck, 0, len(checks))
	for _, c := range checks {
		out = append(out, JSONCheck{
			Name:    c.Name,
			Status:  string(c.Status),
			Message: c.Message,
		})
	}
	return out
}
