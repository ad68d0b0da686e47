package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRequest = `meta {
  name: Create User
  type: http
  seq: 2
}

post {
  url: {{host}}/api/users
  body: json
  auth: none
}

headers {
  Content-Type: application/json
  ~X-Debug: 1
}

body:json {
  {
    "name": "anna",
    "role": "admin"
  }
}

assert {
  res.status: eq 201
  res.body.name: eq anna
}

tests {
  returns an id: res.body.id isDefined
}

vars:post-response {
  userId: res.body.id
}

control {
  when: res.status eq 401
  next: Login
}
`

func TestParseRequest(t *testing.T) {
	req, err := Parse(sampleRequest, "create-user.bru")
	require.NoError(t, err)

	assert.Equal(t, "Create User", req.Name)
	assert.Equal(t, "http", req.Type)
	assert.Equal(t, 2, req.Seq)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "{{host}}/api/users", req.URL)
	assert.Equal(t, "json", req.BodyType)
	assert.Equal(t, "none", req.AuthType)

	require.Len(t, req.Headers, 2)
	assert.Equal(t, "Content-Type", req.Headers[0].Key)
	assert.True(t, req.Headers[0].Enabled)
	assert.Equal(t, "X-Debug", req.Headers[1].Key)
	assert.False(t, req.Headers[1].Enabled)

	assert.Contains(t, req.Body, `"name": "anna"`)

	require.Len(t, req.Asserts, 2)
	assert.Equal(t, "res.status", req.Asserts[0].Subject)
	assert.Equal(t, OpEq, req.Asserts[0].Operator)
	assert.Equal(t, "201", req.Asserts[0].Expected)

	require.Len(t, req.Tests, 1)
	assert.Equal(t, "returns an id", req.Tests[0].Name)
	assert.Equal(t, "res.body.id", req.Tests[0].Expr.Subject)
	assert.Equal(t, OpIsDefined, req.Tests[0].Expr.Operator)

	require.Len(t, req.Captures, 1)
	assert.Equal(t, "userId", req.Captures[0].Name)
	assert.Equal(t, "res.body.id", req.Captures[0].Path)

	require.NotNil(t, req.Control)
	assert.Equal(t, "Login", req.Control.Next)
	assert.False(t, req.Control.Terminate)
	require.NotNil(t, req.Control.When)
	assert.Equal(t, "res.status", req.Control.When.Subject)
}

func TestParseMinimalRequest(t *testing.T) {
	input := `meta {
  name: Ping
}

get {
  url: https://example.com/ping
}
`
	req, err := Parse(input, "ping.bru")
	require.NoError(t, err)
	assert.Equal(t, "Ping", req.Name)
	assert.Equal(t, 0, req.Seq)
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "https://example.com/ping", req.URL)
	assert.Nil(t, req.Control)
}

func TestParseTerminateControl(t *testing.T) {
	input := `get {
  url: https://example.com
}

control {
  next: null
}
`
	req, err := Parse(input, "last.bru")
	require.NoError(t, err)
	require.NotNil(t, req.Control)
	assert.True(t, req.Control.Terminate)
	assert.Empty(t, req.Control.Next)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "missing method block",
			input: "meta {\n  name: X\n}\n",
		},
		{
			name:  "missing url",
			input: "get {\n  body: none\n}\n",
		},
		{
			name:  "unterminated block",
			input: "get {\n  url: https://example.com\n",
		},
		{
			name:  "stray text outside block",
			input: "GET https://example.com\n",
		},
		{
			name:  "bad seq",
			input: "meta {\n  seq: two\n}\n\nget {\n  url: https://example.com\n}\n",
		},
		{
			name:  "unknown assert operator",
			input: "get {\n  url: https://example.com\n}\n\nassert {\n  res.status: almost 200\n}\n",
		},
		{
			name:  "capture without path",
			input: "get {\n  url: https://example.com\n}\n\nvars:post-response {\n  token:\n}\n",
		},
		{
			name:  "condition without next",
			input: "get {\n  url: https://example.com\n}\n\ncontrol {\n  when: res.status eq 500\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input, tt.name+".bru")
			require.Error(t, err)
			var perr *ParseError
			assert.ErrorAs(t, err, &perr)
		})
	}
}

func TestParseEnvironment(t *testing.T) {
	input := `vars {
  host: http://localhost:3000
  apiKey: secret
}
`
	env, err := ParseEnvironment(input, "local.bru")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", env.Variables["host"])
	assert.Equal(t, "secret", env.Variables["apiKey"])
}

func TestParseEnvironmentEmpty(t *testing.T) {
	env, err := ParseEnvironment("", "empty.bru")
	require.NoError(t, err)
	assert.Empty(t, env.Variables)
}
