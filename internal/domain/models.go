package domain

import "time"

// Service is one entry of the stack: a named container with a health URL
// the gate can probe.
type Service struct {
	Name      string `json:"name" yaml:"name"`
	HealthURL string `json:"health_url" yaml:"health_url"`

	// Optional per-service overrides; zero means "use the stack default".
	MaxAttempts int `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty"`
	IntervalMS  int `json:"interval_ms,omitempty" yaml:"interval_ms,omitempty"`
	TimeoutMS   int `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
}

// ProbeRecord is the latest observed health of a service. Records are kept
// in memory only while the status server runs; individual probe attempts
// are logged and discarded.
type ProbeRecord struct {
	Service    string    `json:"service"`
	Up         bool      `json:"up"`
	HTTPStatus int       `json:"http_status,omitempty"`
	LatencyMS  float64   `json:"latency_ms"`
	Reason     string    `json:"reason,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
}
