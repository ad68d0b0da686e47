package http

import "time"

// Request is a fully interpolated, ready-to-send HTTP request. All
// variable placeholders have been resolved before this point.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Query   map[string]string
	Body    string
	Timeout time.Duration
}
