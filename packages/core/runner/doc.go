// Package runner drives a collection run: it walks the ordered request
// list produced by the loader, delegates each step to an Executor, honors
// next-request control directives with runaway-jump protection, applies
// bail-on-failure, and folds the per-step results into a run summary.
package runner
