// Package assertions evaluates assert and tests entries against a
// completed HTTP response. Subjects address the response (res.status,
// res.responseTime, res.headers.<name>, res.body with an optional JSON
// path); operators cover equality, ordering, string and pattern checks,
// existence, length, and JSON Schema validation.
package assertions
