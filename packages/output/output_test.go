package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"testing"
	"time"

	"github.com/ninthday/bruno/packages/core/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun() *runner.RunResult {
	results := []*runner.ItemResult{
		{
			Path:         "users/create.bru",
			Name:         "Create User",
			Method:       "POST",
			URL:          "https://api.example.com/users",
			StatusCode:   201,
			ResponseTime: 150 * time.Millisecond,
			TestResults: []*runner.CheckResult{
				{Name: "returns an id", Status: runner.StatusPass},
			},
			AssertionResults: []*runner.CheckResult{
				{Name: "res.status eq 201", Status: runner.StatusPass},
				{Name: "res.body.role eq admin", Status: runner.StatusFail, Message: "expected admin, got user"},
			},
		},
		{
			Path:         "users/broken.bru",
			Name:         "Broken",
			Method:       "GET",
			URL:          "https://api.example.com/broken",
			ResponseTime: 20 * time.Millisecond,
			Error:        errors.New("connection refused"),
		},
	}
	return &runner.RunResult{
		Results: results,
		Summary: runner.Summarize(results),
	}
}

func TestConsoleSummaryLines(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))
	run := sampleRun()

	for _, r := range run.Results {
		f.FormatItem(r)
	}
	f.FormatSummary(run.Summary)

	out := buf.String()
	assert.Contains(t, out, "Requests:   1 passed, 1 failed, 2 total")
	assert.Contains(t, out, "Tests:      1 passed, 1 total")
	assert.Contains(t, out, "Assertions: 1 passed, 1 failed, 2 total")
	assert.Contains(t, out, "users/create.bru POST")
	assert.Contains(t, out, "connection refused")
	assert.Contains(t, out, "expected admin, got user")
}

func TestConsoleSummaryOmitsZeroFailed(t *testing.T) {
	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithNoColor(true))

	results := []*runner.ItemResult{{
		Path:             "ping.bru",
		AssertionResults: []*runner.CheckResult{{Name: "res.status eq 200", Status: runner.StatusPass}},
	}}
	f.FormatSummary(runner.Summarize(results))

	out := buf.String()
	assert.Contains(t, out, "Requests:   1 passed, 1 total")
	assert.NotContains(t, out, "0 failed")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleRun()))

	var doc JSONDocument
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, 2, doc.Summary.TotalRequests)
	assert.Equal(t, 1, doc.Summary.PassedRequests)
	assert.Equal(t, 1, doc.Summary.FailedRequests)
	assert.Equal(t, 2, doc.Summary.TotalAssertions)
	assert.Equal(t, int64(170), doc.Summary.TotalTimeMs)

	require.Len(t, doc.Results, 2)
	assert.Equal(t, "users/create.bru", doc.Results[0].Path)
	assert.Equal(t, "fail", doc.Results[0].AssertionResults[1].Status)
	assert.Equal(t, "connection refused", doc.Results[1].Error)
	assert.Empty(t, doc.Results[1].AssertionResults)
}

func TestWriteJUnit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJUnit(&buf, sampleRun()))

	out := buf.String()
	assert.Contains(t, out, `<?xml version="1.0" encoding="UTF-8"?>`)

	var suites JUnitTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &suites))

	require.Len(t, suites.TestSuites, 2)
	assert.Equal(t, "users/create.bru", suites.TestSuites[0].Name)
	assert.Equal(t, 3, suites.TestSuites[0].Tests)
	assert.Equal(t, 1, suites.TestSuites[0].Failures)
	assert.Equal(t, 1, suites.TestSuites[1].Errors)
	assert.Equal(t, 4, suites.Tests)
	assert.Equal(t, 1, suites.Failures)
	assert.Equal(t, 1, suites.Errors)

	// The failing assertion carries its detail message.
	var failing *JUnitTestCase
	for i := range suites.TestSuites[0].TestCases {
		if suites.TestSuites[0].TestCases[i].Failure != nil {
			failing = &suites.TestSuites[0].TestCases[i]
		}
	}
	require.NotNil(t, failing)
	assert.Contains(t, failing.Failure.Content, "expected admin")
}
