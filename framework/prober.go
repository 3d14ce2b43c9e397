package framework

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// ProbeResult reports whether the service answered on the port, and how long
// that took.
type ProbeResult struct {
	Ready   bool
	Elapsed time.Duration
}

// readyStatuses are the statuses that show the process has bound the port and
// is routing HTTP. The specific value does not matter, only that something is
// answering; a watchdog that rejects GET with 405 is just as alive as one that
// serves it.
var readyStatuses = map[int]bool{200: true, 400: true, 404: true, 405: true}

// ReadinessProber polls the shared port until the spawned process accepts
// connections or the timeout budget runs out. The budget has to be generous:
// an interpreted function runtime can take minutes to start.
type ReadinessProber struct {
	Port           int
	Timeout        time.Duration
	PollInterval   time.Duration
	RequestTimeout time.Duration

	// Output receives a progress dot per poll attempt; nil disables it.
	Output io.Writer
}

// WaitForReady blocks until the port is answering HTTP or the budget elapses.
// Connection failures mean "not ready yet"; they are never returned as errors.
// Debug traces go to logger, which may be nil.
func (p *ReadinessProber) WaitForReady(logger Logger) ProbeResult {
	if logger == nil {
		logger = NullLogger()
	}
	client := &http.Client{Timeout: p.RequestTimeout}
	url := fmt.Sprintf("http://localhost:%d/", p.Port)

	start := time.Now()
	deadline := start.Add(p.Timeout)
	for {
		resp, err := client.Get(url)
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			if readyStatuses[resp.StatusCode] {
				return ProbeResult{Ready: true, Elapsed: time.Since(start)}
			}
			logger.Printf("probe got status %d, still waiting", resp.StatusCode)
		} else {
			logger.Printf("probe failed (%s), still waiting", err)
		}
		if !time.Now().Before(deadline) {
			return ProbeResult{Ready: false, Elapsed: time.Since(start)}
		}
		if p.Output != nil {
			fmt.Fprint(p.Output, ".")
		}
		time.Sleep(p.PollInterval)
	}
}
