// Package output renders run results: a color-coded console report with
// the three-line Requests/Tests/Assertions summary, plus JSON and JUnit
// XML documents for file export.
package output
