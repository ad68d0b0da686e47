package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/ninthday/bruno/packages/core/env"
	"github.com/ninthday/bruno/packages/core/loader"
)

// JumpLimit is the global budget for next-request jumps in one run. It is
// a single ceiling shared by every jump target, so any mixture of jumps
// exhausts the same budget. Collections may loop on purpose (retry until
// ready, branch on a response); the budget only stops the run from
// spinning forever.
const JumpLimit = 10000

// ErrJumpLimitExceeded aborts the entire run; it is a fatal error, not a
// normal end-of-run condition, and no summary is produced for it.
var ErrJumpLimitExceeded = errors.New("next-request jump limit exceeded")

// Executor runs a single request against the shared runtime. It may
// mutate rt.Collection in place; the runner passes the same runtime to
// every step so captures become visible to later requests.
type Executor interface {
	Execute(ctx context.Context, item *loader.Item, rt *env.Runtime) *ItemResult
}

// WarnFunc receives non-fatal diagnostics during the walk.
type WarnFunc func(format string, args ...any)

// ResultFunc observes each result as soon as its request finishes, before
// the walk decides where to go next.
type ResultFunc func(*ItemResult)

type Config struct {
	Bail bool
}

type Runner struct {
	executor   Executor
	config     *Config
	warnFunc   WarnFunc
	resultFunc ResultFunc
}

type Option func(*Runner)

// WithWarnFunc routes walk-time warnings (for example an unknown jump
// target) to fn instead of discarding them.
func WithWarnFunc(fn WarnFunc) Option {
	return func(r *Runner) {
		r.warnFunc = fn
	}
}

// WithResultFunc registers a per-request callback, used for streaming
// progress output while the run is still going.
func WithResultFunc(fn ResultFunc) Option {
	return func(r *Runner) {
		r.resultFunc = fn
	}
}

func New(executor Executor, cfg *Config, opts ...Option) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	r := &Runner{
		executor: executor,
		config:   cfg,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) warn(format string, args ...any) {
	if r.warnFunc != nil {
		r.warnFunc(format, args...)
	}
}

// RunResult is the aggregate outcome of one collection run.
type RunResult struct {
	Results []*ItemResult
	Summary *Summary
}

// Run walks items in order, executing one request at a time. The list is
// fixed before the walk starts; control directives only change which
// index executes next. The returned error is non-nil only for jump-budget
// exhaustion, which aborts the run without a summary.
func (r *Runner) Run(ctx context.Context, items []*loader.Item, rt *env.Runtime) (*RunResult, error) {
	var results []*ItemResult
	jumpCount := 0

	i := 0
	for i < len(items) {
		result := r.executor.Execute(ctx, items[i], rt)
		results = append(results, result)
		if r.resultFunc != nil {
			r.resultFunc(result)
		}

		if r.config.Bail && result.HasFailure() {
			break
		}

		next := result.Next
		if next == nil {
			i++
			continue
		}
		if next.Stop {
			break
		}

		jumpCount++
		if jumpCount > JumpLimit {
			return nil, fmt.Errorf("%w after %d jumps (last target %q)", ErrJumpLimitExceeded, jumpCount, next.Name)
		}

		if target, ok := indexByName(items, next.Name); ok {
			i = target
		} else {
			r.warn("could not find request with name %q, continuing in sequence", next.Name)
			i++
		}
	}

	return &RunResult{
		Results: results,
		Summary: Summarize(results),
	}, nil
}

// indexByName returns the position of the first request whose name equals
// name. Names are not required to be unique; first match wins.
func indexByName(items []*loader.Item, name string) (int, bool) {
	for i, item := range items {
		if item.Request.Name == name {
			return i, true
		}
	}
	return 0, false
}
