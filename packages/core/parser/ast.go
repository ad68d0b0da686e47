package parser

// Request is a parsed .bru request definition. It is created once at load
// time and never mutated afterwards.
type Request struct {
	Name     string
	Type     string // meta type, defaults to "http"
	Seq      int    // static ordering within a directory, defaults to 0
	Method   string
	URL      string
	BodyType string
	AuthType string
	Headers  []*Pair
	Query    []*Pair
	Body     string
	Asserts  []*Assertion
	Tests    []*Test
	Captures []*Capture
	Control  *Control
	Docs     string
}

// Pair is a key/value entry from a headers or query block. Entries prefixed
// with "~" in the source are kept but disabled.
type Pair struct {
	Key     string
	Value   string
	Enabled bool
}

// Operator identifies an assertion comparison.
type Operator string

const (
	OpEq          Operator = "eq"
	OpNeq         Operator = "neq"
	OpGt          Operator = "gt"
	OpGte         Operator = "gte"
	OpLt          Operator = "lt"
	OpLte         Operator = "lte"
	OpContains    Operator = "contains"
	OpNotContains Operator = "notContains"
	OpStartsWith  Operator = "startsWith"
	OpEndsWith    Operator = "endsWith"
	OpMatches     Operator = "matches"
	OpIsDefined   Operator = "isDefined"
	OpIsNull      Operator = "isNull"
	OpLength      Operator = "length"
	OpJSONSchema  Operator = "jsonschema"
)

// Assertion is one entry from an assert block: a response subject, an
// operator and an expected value, e.g. "res.status: eq 200".
type Assertion struct {
	Subject  string
	Operator Operator
	Expected string
	Line     int
}

// Test is a named check from a tests block. It shares the assertion
// expression syntax but reports under its own name.
type Test struct {
	Name string
	Expr *Assertion
}

// Capture is one entry from a vars:post-response block: after the request
// completes, the value at Path is written into the collection variables
// under Name.
type Capture struct {
	Name string
	Path string
	Line int
}

// Control is the parsed control block. Next names the request to execute
// after this one, overriding sequential order; Terminate is set when the
// source reads "next: null". When is an optional condition: the directive
// only applies when it holds against the response.
type Control struct {
	Next      string
	Terminate bool
	When      *Assertion
}

// Environment is a parsed environment definition file.
type Environment struct {
	Name      string
	Variables map[string]string
}
