// Package http is the transport layer: it turns an interpolated request
// into a wire call and captures status, headers, body and elapsed time.
package http
