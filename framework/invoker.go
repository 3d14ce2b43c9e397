package framework

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"
)

// InvocationResult captures the transport status and raw body of one
// invocation. A network-level failure (reset, timeout, refused connection) is
// represented as Status 0 with the error text as the body, so that every
// invocation produces a result the runner can judge uniformly.
type InvocationResult struct {
	Status int
	Body   string
}

// Invoker sends the single canned POST request to the function under test. Its
// timeout is deliberately much shorter than the readiness budget: by the time
// we invoke, the process has already proven it is routing requests.
type Invoker struct {
	Port    int
	Timeout time.Duration
}

// Invoke posts the JSON body to the function and captures whatever comes back.
// Debug traces go to logger, which may be nil.
func (inv *Invoker) Invoke(body []byte, logger Logger) InvocationResult {
	if logger == nil {
		logger = NullLogger()
	}
	client := &http.Client{Timeout: inv.Timeout}
	url := fmt.Sprintf("http://localhost:%d/", inv.Port)

	logger.Printf("POST %s (%d bytes)", url, len(body))
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		logger.Printf("request failed: %s", err)
		return InvocationResult{Status: 0, Body: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Printf("reading response body failed: %s", err)
		return InvocationResult{Status: 0, Body: err.Error()}
	}
	return InvocationResult{Status: resp.StatusCode, Body: string(data)}
}
