package env

import (
	"regexp"
	"strings"
)

var variablePattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// WarnFunc receives diagnostics about unresolved placeholders.
type WarnFunc func(format string, args ...any)

// Resolver interpolates {{name}} placeholders against a Runtime. Lookup
// order: collection variables, then environment variables, then process
// variables; the {{process.env.NAME}} form addresses process variables
// directly. Unresolved placeholders are left as-is and reported through
// the warn function.
type Resolver struct {
	rt       *Runtime
	warnFunc WarnFunc
}

func NewResolver(rt *Runtime) *Resolver {
	return &Resolver{rt: rt}
}

// SetWarnFunc sets the handler for unresolved-placeholder warnings.
func (r *Resolver) SetWarnFunc(fn WarnFunc) {
	r.warnFunc = fn
}

func (r *Resolver) warn(format string, args ...any) {
	if r.warnFunc != nil {
		r.warnFunc(format, args...)
	}
}

func (r *Resolver) Resolve(input string) string {
	return variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		name := strings.TrimSpace(match[2 : len(match)-2])

		if envVar, ok := strings.CutPrefix(name, "process.env."); ok {
			if val, ok := r.rt.Process[envVar]; ok {
				return val
			}
			r.warn("unresolved process variable: %s", envVar)
			return match
		}

		if val, ok := r.rt.Collection[name]; ok {
			return val
		}
		if val, ok := r.rt.Environment[name]; ok {
			return val
		}
		if val, ok := r.rt.Process[name]; ok {
			return val
		}

		r.warn("unresolved variable: %s", name)
		return match
	})
}

// ResolvePairs resolves every value of a key/value map.
func (r *Resolver) ResolvePairs(values map[string]string) map[string]string {
	result := make(map[string]string, len(values))
	for k, v := range values {
		result[k] = r.Resolve(v)
	}
	return result
}
