package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/ninthday/bruno/packages/core/runner"
)

// JUnit XML structures, following the conventional test-suite schema:
// one suite per source location, one case per test/assertion.

type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Time      float64         `xml:"time,attr"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
}

type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

type JUnitError struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
}

// WriteJUnit serializes the run result as JUnit XML to w.
func WriteJUnit(w io.Writer, result *runner.RunResult) error {
	suites := JUnitTestSuites{
		Name:      "bruno",
		Time:      result.Summary.TotalTime.Seconds(),
		Timestamp: time.Now().Format(time.RFC3339),
	}

	for _, r := range result.Results {
		suite := JUnitTestSuite{
			Name: r.Path,
			Time: r.ResponseTime.Seconds(),
		}

		if r.Error != nil {
			suite.Tests++
			suite.Errors++
			suite.TestCases = append(suite.TestCases, JUnitTestCase{
				Name:      r.Name,
				ClassName: r.Path,
				Time:      r.ResponseTime.Seconds(),
				Error: &JUnitError{
					Message: r.Error.Error(),
					Type:    "RequestError",
				},
			})
		}

		for _, c := range r.TestResults {
			suite.TestCases = append(suite.TestCases, toJUnitCase(r, c, "TestFailure"))
			suite.Tests++
			if !c.Passed() {
				suite.Failures++
			}
		}
		for _, c := range r.AssertionResults {
			suite.TestCases = append(suite.TestCases, toJUnitCase(r, c, "AssertionFailure"))
			suite.Tests++
			if !c.Passed() {
				suite.Failures++
			}
		}

		suites.Tests += suite.Tests
		suites.Failures += suite.Failures
		suites.Errors += suite.Errors
		suites.TestSuites = append(suites.TestSuites, suite)
	}

	if _, err := fmt.Fprintf(w, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"); err != nil {
		return err
	}
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	return encoder.Encode(suites)
}

func toJUnitCase(r *runner.ItemResult, c *runner.CheckResult, failureType string) JUnitTestCase {
	tc := JUnitTestCase{
		Name:      c.Name,
		ClassName: r.Path,
		Time:      r.ResponseTime.Seconds(),
	}
	if !c.Passed() {
		tc.Failure = &JUnitFailure{
			Message: c.Name,
			Type:    failureType,
			Content: c.Message,
		}
	}
	return tc
}
