package assertions

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ninthday/bruno/packages/core/parser"
	"github.com/ninthday/bruno/packages/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: 200,
		Status:     "200 OK",
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       []byte(body),
		Duration:   42 * time.Millisecond,
	}
}

func TestEvaluate(t *testing.T) {
	resp := jsonResponse(`{"name":"anna","age":30,"tags":["a","b"],"meta":{"active":true},"gone":null}`)

	tests := []struct {
		name     string
		subject  string
		operator parser.Operator
		expected string
		passed   bool
	}{
		{name: "status eq", subject: "res.status", operator: parser.OpEq, expected: "200", passed: true},
		{name: "status eq fails", subject: "res.status", operator: parser.OpEq, expected: "404", passed: false},
		{name: "status neq", subject: "res.status", operator: parser.OpNeq, expected: "500", passed: true},
		{name: "status gte", subject: "res.status", operator: parser.OpGte, expected: "200", passed: true},
		{name: "status lt", subject: "res.status", operator: parser.OpLt, expected: "300", passed: true},
		{name: "response time bounded", subject: "res.responseTime", operator: parser.OpLt, expected: "10000", passed: true},
		{name: "header eq", subject: "res.headers.content-type", operator: parser.OpEq, expected: "application/json", passed: true},
		{name: "missing header isNull", subject: "res.headers.x-nope", operator: parser.OpIsNull, expected: "", passed: true},
		{name: "body field eq", subject: "res.body.name", operator: parser.OpEq, expected: "anna", passed: true},
		{name: "numeric body field", subject: "res.body.age", operator: parser.OpGt, expected: "18", passed: true},
		{name: "nested field eq", subject: "res.body.meta.active", operator: parser.OpEq, expected: "true", passed: true},
		{name: "array element", subject: "res.body.tags.0", operator: parser.OpEq, expected: "a", passed: true},
		{name: "array length", subject: "res.body.tags", operator: parser.OpLength, expected: "2", passed: true},
		{name: "string contains", subject: "res.body.name", operator: parser.OpContains, expected: "nn", passed: true},
		{name: "string notContains", subject: "res.body.name", operator: parser.OpNotContains, expected: "zz", passed: true},
		{name: "startsWith", subject: "res.body.name", operator: parser.OpStartsWith, expected: "an", passed: true},
		{name: "endsWith", subject: "res.body.name", operator: parser.OpEndsWith, expected: "na", passed: true},
		{name: "matches", subject: "res.body.name", operator: parser.OpMatches, expected: "^an+a$", passed: true},
		{name: "isDefined", subject: "res.body.name", operator: parser.OpIsDefined, expected: "", passed: true},
		{name: "missing field isDefined fails", subject: "res.body.missing", operator: parser.OpIsDefined, expected: "", passed: false},
		{name: "missing field isNull", subject: "res.body.missing", operator: parser.OpIsNull, expected: "", passed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvaluator(resp, "")
			result := e.Evaluate(&parser.Assertion{
				Subject:  tt.subject,
				Operator: tt.operator,
				Expected: tt.expected,
			})
			assert.Equal(t, tt.passed, result.Passed, "message: %s", result.Message)
		})
	}
}

func TestEvaluateUnknownSubject(t *testing.T) {
	e := NewEvaluator(jsonResponse(`{}`), "")
	result := e.Evaluate(&parser.Assertion{Subject: "res.cookies.id", Operator: parser.OpEq, Expected: "1"})
	assert.False(t, result.Passed)
	assert.Contains(t, result.Message, "unknown assertion subject")
}

func TestEvaluateNonJSONBody(t *testing.T) {
	resp := &http.Response{
		StatusCode: 200,
		Headers:    map[string]string{"Content-Type": "text/plain"},
		Body:       []byte("pong"),
	}
	e := NewEvaluator(resp, "")

	result := e.Evaluate(&parser.Assertion{Subject: "res.body", Operator: parser.OpEq, Expected: "pong"})
	assert.True(t, result.Passed)

	result = e.Evaluate(&parser.Assertion{Subject: "res.body.field", Operator: parser.OpEq, Expected: "x"})
	assert.False(t, result.Passed)
	assert.Contains(t, result.Message, "not JSON")
}

func TestEvaluateJSONSchema(t *testing.T) {
	dir := t.TempDir()
	schema := `{
		"type": "object",
		"required": ["name"],
		"properties": {"name": {"type": "string"}}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.schema.json"), []byte(schema), 0644))

	e := NewEvaluator(jsonResponse(`{"name":"anna"}`), dir)

	t.Run("valid document", func(t *testing.T) {
		result := e.Evaluate(&parser.Assertion{Subject: "res.body", Operator: parser.OpJSONSchema, Expected: "user.schema.json"})
		assert.True(t, result.Passed, result.Message)
	})

	t.Run("invalid document", func(t *testing.T) {
		bad := NewEvaluator(jsonResponse(`{"age":30}`), dir)
		result := bad.Evaluate(&parser.Assertion{Subject: "res.body", Operator: parser.OpJSONSchema, Expected: "user.schema.json"})
		assert.False(t, result.Passed)
		assert.Contains(t, result.Message, "schema validation failed")
	})

	t.Run("missing schema file", func(t *testing.T) {
		result := e.Evaluate(&parser.Assertion{Subject: "res.body", Operator: parser.OpJSONSchema, Expected: "nope.schema.json"})
		assert.False(t, result.Passed)
	})
}

func TestEvaluateAllKeepsOrder(t *testing.T) {
	resp := jsonResponse(`{"ok":true}`)
	asserts := []*parser.Assertion{
		{Subject: "res.status", Operator: parser.OpEq, Expected: "200"},
		{Subject: "res.body.ok", Operator: parser.OpEq, Expected: "false"},
	}

	results := EvaluateAll(resp, asserts, "")
	require.Len(t, results, 2)
	assert.True(t, results[0].Passed)
	assert.False(t, results[1].Passed)
	assert.Equal(t, "res.status", results[0].Subject)
}
