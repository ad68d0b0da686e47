package parser

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ParseError describes a malformed definition file. Parsing never recovers:
// a corrupt file must surface before any request executes.
type ParseError struct {
	File    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
}

var methodBlocks = map[string]string{
	"get":     "GET",
	"post":    "POST",
	"put":     "PUT",
	"delete":  "DELETE",
	"patch":   "PATCH",
	"head":    "HEAD",
	"options": "OPTIONS",
}

// block is one "name { ... }" section of a .bru file.
type block struct {
	name string
	line int
	raw  string
}

// entry is one "key: value" line inside a dictionary block.
type entry struct {
	key   string
	value string
	line  int
}

func ParseFile(path string) (*Request, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(content), path)
}

// Parse parses one .bru request definition.
func Parse(input, filename string) (*Request, error) {
	blocks, err := scanBlocks(input, filename)
	if err != nil {
		return nil, err
	}

	req := &Request{Type: "http"}
	seenMethod := false

	for _, b := range blocks {
		switch {
		case b.name == "meta":
			if err := parseMeta(req, b, filename); err != nil {
				return nil, err
			}
		case methodBlocks[b.name] != "":
			if seenMethod {
				return nil, &ParseError{File: filename, Line: b.line, Message: "duplicate method block " + b.name}
			}
			seenMethod = true
			if err := parseMethod(req, b, filename); err != nil {
				return nil, err
			}
		case b.name == "headers":
			pairs, err := parsePairs(b, filename)
			if err != nil {
				return nil, err
			}
			req.Headers = pairs
		case b.name == "query", b.name == "params:query":
			pairs, err := parsePairs(b, filename)
			if err != nil {
				return nil, err
			}
			req.Query = pairs
		case strings.HasPrefix(b.name, "body"):
			req.Body = b.raw
			if req.BodyType == "" {
				req.BodyType = strings.TrimPrefix(strings.TrimPrefix(b.name, "body"), ":")
			}
		case b.name == "assert":
			asserts, err := parseAsserts(b, filename)
			if err != nil {
				return nil, err
			}
			req.Asserts = asserts
		case b.name == "tests":
			tests, err := parseTests(b, filename)
			if err != nil {
				return nil, err
			}
			req.Tests = tests
		case b.name == "vars:post-response":
			captures, err := parseCaptures(b, filename)
			if err != nil {
				return nil, err
			}
			req.Captures = captures
		case b.name == "control":
			ctrl, err := parseControl(b, filename)
			if err != nil {
				return nil, err
			}
			req.Control = ctrl
		case b.name == "docs":
			req.Docs = b.raw
			// Remaining block kinds (script:*, auth:*) carry payloads this
			// runner does not interpret; they pass through unexecuted.
		}
	}

	if !seenMethod {
		return nil, &ParseError{File: filename, Line: 1, Message: "missing method block (get, post, ...)"}
	}
	if req.URL == "" {
		return nil, &ParseError{File: filename, Line: 1, Message: "missing url in method block"}
	}

	return req, nil
}

// ParseEnvironmentFile parses an environments/<name>.bru definition.
func ParseEnvironmentFile(path string) (*Environment, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseEnvironment(string(content), path)
}

func ParseEnvironment(input, filename string) (*Environment, error) {
	blocks, err := scanBlocks(input, filename)
	if err != nil {
		return nil, err
	}

	env := &Environment{Variables: make(map[string]string)}
	for _, b := range blocks {
		if b.name != "vars" {
			continue
		}
		entries, err := parseEntries(b, filename)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			env.Variables[e.key] = e.value
		}
	}
	return env, nil
}

func scanBlocks(input, filename string) ([]*block, error) {
	var blocks []*block
	lines := strings.Split(input, "\n")

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			i++
			continue
		}

		name, ok := strings.CutSuffix(line, "{")
		if !ok {
			return nil, &ParseError{File: filename, Line: i + 1, Message: "expected block header, got " + line}
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, &ParseError{File: filename, Line: i + 1, Message: "block header missing a name"}
		}

		b := &block{name: name, line: i + 1}
		depth := 1
		var body []string
		j := i + 1
		for ; j < len(lines); j++ {
			depth += strings.Count(lines[j], "{") - strings.Count(lines[j], "}")
			if depth <= 0 {
				break
			}
			body = append(body, lines[j])
		}
		if depth > 0 {
			return nil, &ParseError{File: filename, Line: b.line, Message: "unterminated block " + name}
		}
		b.raw = strings.TrimRight(dedent(body), "\n")
		blocks = append(blocks, b)
		i = j + 1
	}

	return blocks, nil
}

// dedent strips the common two-space indent bru files conventionally use.
func dedent(lines []string) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(strings.TrimPrefix(l, "  "))
		sb.WriteString("\n")
	}
	return sb.String()
}

func parseEntries(b *block, filename string) ([]*entry, error) {
	var entries []*entry
	for n, line := range strings.Split(b.raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			return nil, &ParseError{File: filename, Line: b.line + n + 1, Message: "expected key: value, got " + line}
		}
		entries = append(entries, &entry{
			key:   strings.TrimSpace(key),
			value: strings.TrimSpace(value),
			line:  b.line + n + 1,
		})
	}
	return entries, nil
}

func parseMeta(req *Request, b *block, filename string) error {
	entries, err := parseEntries(b, filename)
	if err != nil {
		return err
	}
	for _, e := range entries {
		switch e.key {
		case "name":
			req.Name = e.value
		case "type":
			req.Type = e.value
		case "seq":
			seq, err := strconv.Atoi(e.value)
			if err != nil {
				return &ParseError{File: filename, Line: e.line, Message: "invalid seq value " + e.value}
			}
			req.Seq = seq
		}
	}
	return nil
}

func parseMethod(req *Request, b *block, filename string) error {
	req.Method = methodBlocks[b.name]
	entries, err := parseEntries(b, filename)
	if err != nil {
		return err
	}
	for _, e := range entries {
		switch e.key {
		case "url":
			req.URL = e.value
		case "body":
			req.BodyType = e.value
		case "auth":
			req.AuthType = e.value
		}
	}
	return nil
}

func parsePairs(b *block, filename string) ([]*Pair, error) {
	entries, err := parseEntries(b, filename)
	if err != nil {
		return nil, err
	}
	pairs := make([]*Pair, 0, len(entries))
	for _, e := range entries {
		p := &Pair{Key: e.key, Value: e.value, Enabled: true}
		if strings.HasPrefix(p.Key, "~") {
			p.Key = strings.TrimPrefix(p.Key, "~")
			p.Enabled = false
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

func parseAsserts(b *block, filename string) ([]*Assertion, error) {
	entries, err := parseEntries(b, filename)
	if err != nil {
		return nil, err
	}
	asserts := make([]*Assertion, 0, len(entries))
	for _, e := range entries {
		a, err := parseOperatorExpr(e.key, e.value, e.line, filename)
		if err != nil {
			return nil, err
		}
		asserts = append(asserts, a)
	}
	return asserts, nil
}

// parseOperatorExpr parses "<operator> [expected]" against a known subject.
func parseOperatorExpr(subject, expr string, line int, filename string) (*Assertion, error) {
	op, expected, _ := strings.Cut(expr, " ")
	if op == "" {
		return nil, &ParseError{File: filename, Line: line, Message: "assertion on " + subject + " is missing an operator"}
	}
	a := &Assertion{
		Subject:  subject,
		Operator: Operator(op),
		Expected: strings.TrimSpace(expected),
		Line:     line,
	}
	if !validOperator(a.Operator) {
		return nil, &ParseError{File: filename, Line: line, Message: "unknown assertion operator " + op}
	}
	return a, nil
}

// parseExpr parses a full "<subject> <operator> [expected]" expression.
func parseExpr(expr string, line int, filename string) (*Assertion, error) {
	subject, rest, found := strings.Cut(strings.TrimSpace(expr), " ")
	if !found {
		return nil, &ParseError{File: filename, Line: line, Message: "expected <subject> <operator> [value], got " + expr}
	}
	return parseOperatorExpr(subject, rest, line, filename)
}

func parseTests(b *block, filename string) ([]*Test, error) {
	entries, err := parseEntries(b, filename)
	if err != nil {
		return nil, err
	}
	tests := make([]*Test, 0, len(entries))
	for _, e := range entries {
		expr, err := parseExpr(e.value, e.line, filename)
		if err != nil {
			return nil, err
		}
		tests = append(tests, &Test{Name: e.key, Expr: expr})
	}
	return tests, nil
}

func parseCaptures(b *block, filename string) ([]*Capture, error) {
	entries, err := parseEntries(b, filename)
	if err != nil {
		return nil, err
	}
	captures := make([]*Capture, 0, len(entries))
	for _, e := range entries {
		if e.value == "" {
			return nil, &ParseError{File: filename, Line: e.line, Message: "capture " + e.key + " is missing a source path"}
		}
		captures = append(captures, &Capture{Name: e.key, Path: e.value, Line: e.line})
	}
	return captures, nil
}

func parseControl(b *block, filename string) (*Control, error) {
	entries, err := parseEntries(b, filename)
	if err != nil {
		return nil, err
	}
	ctrl := &Control{}
	for _, e := range entries {
		switch e.key {
		case "next":
			if e.value == "null" {
				ctrl.Terminate = true
			} else {
				ctrl.Next = e.value
			}
		case "when":
			expr, err := parseExpr(e.value, e.line, filename)
			if err != nil {
				return nil, err
			}
			ctrl.When = expr
		default:
			return nil, &ParseError{File: filename, Line: e.line, Message: "unknown control directive " + e.key}
		}
	}
	if ctrl.Next == "" && !ctrl.Terminate && ctrl.When != nil {
		return nil, &ParseError{File: filename, Line: b.line, Message: "control block has a condition but no next directive"}
	}
	return ctrl, nil
}

func validOperator(op Operator) bool {
	switch op {
	case OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte,
		OpContains, OpNotContains, OpStartsWith, OpEndsWith,
		OpMatches, OpIsDefined, OpIsNull, OpLength, OpJSONSchema:
		return true
	}
	return false
}
