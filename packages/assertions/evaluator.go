package assertions

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/ninthday/bruno/packages/core/parser"
	"github.com/ninthday/bruno/packages/http"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

// Result is the outcome of one assertion or test expression.
type Result struct {
	Subject  string
	Operator string
	Expected string
	Actual   any
	Passed   bool
	Message  string
}

type Evaluator struct {
	response *http.Response
	bodyJSON gjson.Result
	baseDir  string // resolves relative jsonschema paths
}

func NewEvaluator(resp *http.Response, baseDir string) *Evaluator {
	e := &Evaluator{
		response: resp,
		baseDir:  baseDir,
	}
	if resp.IsJSON() {
		e.bodyJSON = gjson.ParseBytes(resp.Body)
	}
	return e
}

// EvaluateAll runs every assertion against the response in order.
func EvaluateAll(resp *http.Response, asserts []*parser.Assertion, baseDir string) []*Result {
	e := NewEvaluator(resp, baseDir)
	results := make([]*Result, len(asserts))
	for i, a := range asserts {
		results[i] = e.Evaluate(a)
	}
	return results
}

func (e *Evaluator) Evaluate(a *parser.Assertion) *Result {
	result := &Result{
		Subject:  a.Subject,
		Operator: string(a.Operator),
		Expected: a.Expected,
	}

	actual, err := e.subjectValue(a.Subject)
	if err != nil {
		result.Message = err.Error()
		return result
	}
	result.Actual = actual

	passed, msg := e.compare(actual, a)
	result.Passed = passed
	result.Message = msg
	return result
}

func (e *Evaluator) subjectValue(subject string) (any, error) {
	switch {
	case subject == "res.status":
		return e.response.StatusCode, nil
	case subject == "res.responseTime":
		return e.response.DurationMs(), nil
	case strings.HasPrefix(subject, "res.headers."):
		name := strings.TrimPrefix(subject, "res.headers.")
		value := e.response.Header(name)
		if value == "" {
			return nil, nil
		}
		return value, nil
	case subject == "res.body":
		if e.bodyJSON.Exists() {
			return e.bodyJSON.Value(), nil
		}
		return e.response.BodyString(), nil
	case strings.HasPrefix(subject, "res.body."):
		path := strings.TrimPrefix(subject, "res.body.")
		if !e.bodyJSON.Exists() {
			return nil, fmt.Errorf("response body is not JSON")
		}
		value := e.bodyJSON.Get(path)
		if !value.Exists() {
			return nil, nil
		}
		return value.Value(), nil
	default:
		return nil, fmt.Errorf("unknown assertion subject %q", subject)
	}
}

func (e *Evaluator) compare(actual any, a *parser.Assertion) (bool, string) {
	expected := a.Expected
	switch a.Operator {
	case parser.OpEq:
		return equals(actual, expected)
	case parser.OpNeq:
		passed, _ := equals(actual, expected)
		if passed {
			return false, fmt.Sprintf("expected not to equal %v", expected)
		}
		return true, ""
	case parser.OpGt:
		return compareNumeric(actual, expected, ">")
	case parser.OpGte:
		return compareNumeric(actual, expected, ">=")
	case parser.OpLt:
		return compareNumeric(actual, expected, "<")
	case parser.OpLte:
		return compareNumeric(actual, expected, "<=")
	case parser.OpContains:
		return contains(actual, expected)
	case parser.OpNotContains:
		passed, _ := contains(actual, expected)
		if passed {
			return false, fmt.Sprintf("expected not to contain %v", expected)
		}
		return true, ""
	case parser.OpStartsWith:
		if strings.HasPrefix(stringify(actual), expected) {
			return true, ""
		}
		return false, fmt.Sprintf("expected '%v' to start with '%v'", actual, expected)
	case parser.OpEndsWith:
		if strings.HasSuffix(stringify(actual), expected) {
			return true, ""
		}
		return false, fmt.Sprintf("expected '%v' to end with '%v'", actual, expected)
	case parser.OpMatches:
		return matches(actual, expected)
	case parser.OpIsDefined:
		if actual != nil {
			return true, ""
		}
		return false, "expected a value, got nothing"
	case parser.OpIsNull:
		if actual == nil {
			return true, ""
		}
		return false, fmt.Sprintf("expected null, got %v", actual)
	case parser.OpLength:
		return length(actual, expected)
	case parser.OpJSONSchema:
		return e.schema(actual, expected)
	default:
		return false, fmt.Sprintf("unknown operator: %v", a.Operator)
	}
}

func equals(actual any, expected string) (bool, string) {
	actualNum, aOk := toFloat64(actual)
	expectedNum, err := strconv.ParseFloat(expected, 64)
	if aOk && err == nil {
		if actualNum == expectedNum {
			return true, ""
		}
		return false, fmt.Sprintf("expected %v, got %v", expected, actual)
	}

	if stringify(actual) == expected {
		return true, ""
	}
	return false, fmt.Sprintf("expected %v, got %v", expected, actual)
}

func compareNumeric(actual any, expected, op string) (bool, string) {
	actualNum, aOk := toFloat64(actual)
	expectedNum, err := strconv.ParseFloat(expected, 64)
	if !aOk || err != nil {
		return false, fmt.Sprintf("cannot compare non-numeric values: %v %s %v", actual, op, expected)
	}

	var passed bool
	switch op {
	case ">":
		passed = actualNum > expectedNum
	case ">=":
		passed = actualNum >= expectedNum
	case "<":
		passed = actualNum < expectedNum
	case "<=":
		passed = actualNum <= expectedNum
	}

	if passed {
		return true, ""
	}
	return false, fmt.Sprintf("expected %v %s %v", actual, op, expected)
}

func contains(actual any, expected string) (bool, string) {
	if strings.Contains(stringify(actual), expected) {
		return true, ""
	}
	return false, fmt.Sprintf("expected '%v' to contain '%v'", actual, expected)
}

func matches(actual any, expected string) (bool, string) {
	pattern := strings.TrimSuffix(strings.TrimPrefix(expected, "/"), "/")
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Sprintf("invalid regex pattern: %v", err)
	}
	if re.MatchString(stringify(actual)) {
		return true, ""
	}
	return false, fmt.Sprintf("expected '%v' to match /%v/", actual, pattern)
}

func length(actual any, expected string) (bool, string) {
	expectedLen, err := strconv.Atoi(expected)
	if err != nil {
		return false, fmt.Sprintf("expected length must be a number, got %v", expected)
	}

	actualLen := -1
	switch v := actual.(type) {
	case string:
		actualLen = len(v)
	case []any:
		actualLen = len(v)
	case map[string]any:
		actualLen = len(v)
	default:
		rv := reflect.ValueOf(actual)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map, reflect.String:
			actualLen = rv.Len()
		}
	}
	if actualLen == -1 {
		return false, fmt.Sprintf("cannot get length of %T", actual)
	}

	if actualLen == expectedLen {
		return true, ""
	}
	return false, fmt.Sprintf("expected length %d, got %d", expectedLen, actualLen)
}

func (e *Evaluator) schema(actual any, expected string) (bool, string) {
	schemaPath := expected
	if !filepath.IsAbs(schemaPath) && e.baseDir != "" {
		schemaPath = filepath.Join(e.baseDir, schemaPath)
	}

	schemaData, err := os.ReadFile(schemaPath)
	if err != nil {
		return false, fmt.Sprintf("failed to read schema file: %v", err)
	}

	actualJSON, err := json.Marshal(actual)
	if err != nil {
		return false, fmt.Sprintf("failed to marshal actual value: %v", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaData),
		gojsonschema.NewBytesLoader(actualJSON),
	)
	if err != nil {
		return false, fmt.Sprintf("schema validation error: %v", err)
	}

	if result.Valid() {
		return true, ""
	}

	var errors []string
	for _, desc := range result.Errors() {
		errors = append(errors, desc.String())
	}
	return false, fmt.Sprintf("schema validation failed: %s", strings.Join(errors, "; "))
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
