package probe

import (
	"context"
	"net/http"
	"time"
)

type HTTPChecker struct {
	Client *http.Client
}

func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	return &HTTPChecker{
		Client: &http.Client{Timeout: timeout},
	}
}

func (h *HTTPChecker) Check(ctx context.Context, target string) CheckResult {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return CheckResult{Success: false, Message: err.Error()}
	}

	resp, err := h.Client.Do(req)
	latency := time.Since(start).Seconds() * 1000 // ms
	if err != nil {
		return CheckResult{Success: false, Message: err.Error(), LatencyMS: latency}
	}
	defer resp.Body.Close()

	// Strictly 2xx. A redirecting health endpoint is a misconfigured one.
	success := resp.StatusCode >= 200 && resp.StatusCode < 300
	return CheckResult{
		Success:    success,
		StatusCode: resp.StatusCode,
		Message:    resp.Status,
		LatencyMS:  latency,
	}
}
