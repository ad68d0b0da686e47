// Package executor runs a single request definition against the shared
// run state: it interpolates variables, performs the HTTP call, evaluates
// assert and tests entries, writes post-response captures back into the
// collection variables, and derives the next-request control directive.
package executor

import (
	"context"
	"path/filepath"
	"time"

	"github.com/ninthday/bruno/packages/assertions"
	"github.com/ninthday/bruno/packages/core/env"
	"github.com/ninthday/bruno/packages/core/loader"
	"github.com/ninthday/bruno/packages/core/parser"
	"github.com/ninthday/bruno/packages/core/runner"
	bhttp "github.com/ninthday/bruno/packages/http"
)

type Executor struct {
	client   *bhttp.Client
	warnFunc env.WarnFunc
}

type Option func(*Executor)

// WithWarnFunc routes interpolation warnings (unresolved placeholders)
// to fn.
func WithWarnFunc(fn env.WarnFunc) Option {
	return func(e *Executor) {
		e.warnFunc = fn
	}
}

func New(client *bhttp.Client, opts ...Option) *Executor {
	e := &Executor{client: client}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs one request. It is the only place collection variables are
// written: vars:post-response captures land in rt.Collection and are
// visible to every later request in the run.
func (e *Executor) Execute(ctx context.Context, item *loader.Item, rt *env.Runtime) *runner.ItemResult {
	req := item.Request

	resolver := env.NewResolver(rt)
	resolver.SetWarnFunc(e.warnFunc)

	httpReq := buildRequest(req, resolver)

	result := &runner.ItemResult{
		Path:   item.Path,
		Name:   req.Name,
		Method: httpReq.Method,
		URL:    httpReq.URL,
	}

	start := time.Now()
	resp, err := e.client.Do(ctx, httpReq)
	if err != nil {
		result.Error = err
		result.ResponseTime = time.Since(start)
		return result
	}

	result.StatusCode = resp.StatusCode
	result.ResponseTime = resp.Duration

	baseDir := filepath.Dir(item.AbsPath)
	evaluator := assertions.NewEvaluator(resp, baseDir)

	for _, a := range req.Asserts {
		result.AssertionResults = append(result.AssertionResults, toCheck(assertionName(a), evaluator.Evaluate(a)))
	}
	for _, tc := range req.Tests {
		result.TestResults = append(result.TestResults, toCheck(tc.Name, evaluator.Evaluate(tc.Expr)))
	}

	applyCaptures(req.Captures, resp, rt)

	result.Next = nextDirective(req.Control, evaluator)

	return result
}

func buildRequest(req *parser.Request, resolver *env.Resolver) *bhttp.Request {
	headers := make(map[string]string)
	for _, h := range req.Headers {
		if h.Enabled {
			headers[h.Key] = resolver.Resolve(h.Value)
		}
	}

	query := make(map[string]string)
	for _, q := range req.Query {
		if q.Enabled {
			query[q.Key] = resolver.Resolve(q.Value)
		}
	}

	return &bhttp.Request{
		Method:  req.Method,
		URL:     resolver.Resolve(req.URL),
		Headers: headers,
		Query:   query,
		Body:    resolver.Resolve(req.Body),
	}
}

func toCheck(name string, r *assertions.Result) *runner.CheckResult {
	check := &runner.CheckResult{
		Name:    name,
		Status:  runner.StatusFail,
		Message: r.Message,
	}
	if r.Passed {
		check.Status = runner.StatusPass
	}
	return check
}

func assertionName(a *parser.Assertion) string {
	name := a.Subject + " " + string(a.Operator)
	if a.Expected != "" {
		name += " " + a.Expected
	}
	return name
}

// nextDirective turns the control block into the runner's directive. A
// condition that does not hold (or cannot be evaluated) suppresses the
// directive entirely, leaving sequential continuation.
func nextDirective(ctrl *parser.Control, evaluator *assertions.Evaluator) *runner.NextRequest {
	if ctrl == nil {
		return nil
	}
	if ctrl.When != nil && !evaluator.Evaluate(ctrl.When).Passed {
		return nil
	}
	if ctrl.Terminate {
		return &runner.NextRequest{Stop: true}
	}
	if ctrl.Next != "" {
		return &runner.NextRequest{Name: ctrl.Next}
	}
	return nil
}
