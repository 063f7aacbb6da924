package probe

import "context"

// CheckResult is the outcome of a single probe.
//
// StatusCode is the HTTP status when a response was received; 0 for
// transport errors (connection refused, timeout, DNS).
type CheckResult struct {
	Success    bool
	StatusCode int
	LatencyMS  float64
	Message    string
}

// Checker performs a single check against a target URL.
type Checker interface {
	Check(ctx context.Context, target string) CheckResult
}
