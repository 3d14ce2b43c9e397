package faastests

import (
	"fmt"
	"os"
	"strings"

	"github.com/openfaas-community/faas-function-tests/framework"
)

// Prober, Invoker, and Teardown are the framework collaborators the runner
// drives, declared as the small interfaces the runner actually needs. The
// logger each collaborator receives is the per-function debug logger.
type Prober interface {
	WaitForReady(logger framework.Logger) framework.ProbeResult
}

type Invoker interface {
	Invoke(body []byte, logger framework.Logger) framework.InvocationResult
}

type Teardown interface {
	Teardown(h *framework.ProcessHandle)
}

// Runner drives each discovered function through the spawn → probe → invoke →
// teardown cycle, one at a time: iteration N+1 never launches before iteration
// N's teardown has returned, which is what keeps the shared port safe to
// reuse. The first failure halts the run.
type Runner struct {
	Launcher Launcher
	Prober   Prober
	Invoker  Invoker
	Teardown Teardown

	// Filter decides which functions to test; nil means all of them.
	Filter framework.Filter

	// DumpLogOnFailure prints the function's captured process log whenever
	// its test fails. The log is always printed on a readiness timeout.
	DumpLogOnFailure bool

	// Each function gets its own capturing debug logger, shared by the
	// launcher, prober, and invoker for that iteration. DebugOutputOnFailure
	// dumps the captured output when the function fails; DebugOutputOnSuccess
	// dumps it in every other case.
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

// RunSuite tests every manifest in order and returns the accumulated summary.
// Exactly one outcome is recorded per attempted manifest; manifests after a
// failure are not attempted.
func (r *Runner) RunSuite(manifests []FunctionManifest) framework.RunSummary {
	summary := framework.RunSummary{Total: len(manifests)}
	for i, m := range manifests {
		framework.PrintFunctionSeparator(i+1, len(manifests), m.Name)

		if m.Name == "" {
			framework.PrintWarning("Could not extract function name from %s, skipping...", m.Path)
			summary.Record(framework.TestOutcome{
				Name:    m.Path,
				Verdict: framework.Skipped,
				Reason:  "unidentifiable stack file",
			})
			continue
		}
		if r.Filter != nil && !r.Filter(m.Name) {
			framework.PrintWarning("Skipping %s (excluded by filter parameters)", m.Name)
			summary.Record(framework.TestOutcome{
				Name:    m.Name,
				Verdict: framework.Skipped,
				Reason:  "excluded by filter parameters",
			})
			continue
		}

		outcome := r.runOne(m)
		summary.Record(outcome)
		if outcome.Verdict == framework.Failed {
			summary.HaltedAt = m.Name
			framework.PrintError("Function %s FAILED - halting the run", m.Name)
			break
		}
	}
	return summary
}

// runOne takes a single function through the whole state machine. Teardown is
// deferred as soon as the launch is attempted, so every exit path — including
// a panic from a collaborator — releases the process and the port before the
// next manifest is considered.
func (r *Runner) runOne(m FunctionManifest) (outcome framework.TestOutcome) {
	outcome = framework.TestOutcome{Name: m.Name}

	framework.PrintStep("Testing function: %s", m.Name)
	framework.PrintInfo("Stack file: %s", m.Path)

	body := []byte(PayloadFor(m.Name).JSONString())
	framework.PrintInfo("Test payload: %s", body)

	// Anything left over on the port from a previous run dies first.
	r.Teardown.Teardown(nil)

	debugLogger := &framework.CapturingLogger{}

	var handle *framework.ProcessHandle
	defer func() {
		if p := recover(); p != nil {
			outcome.Verdict = framework.Failed
			outcome.Reason = fmt.Sprintf("unexpected panic: %v", p)
			framework.PrintError("Unexpected panic while testing %s: %v", m.Name, p)
		}
		r.Teardown.Teardown(handle)
		r.dumpDebugOutput(debugLogger, outcome.Verdict == framework.Failed)
	}()

	handle, err := r.Launcher.Launch(m, debugLogger)
	if err != nil {
		outcome.Verdict = framework.Failed
		outcome.Reason = fmt.Sprintf("spawn failed: %s", err)
		framework.PrintError("Could not start function: %s", err)
		return outcome
	}
	framework.PrintInfo("Function started with PID %d (output: %s)", handle.PID, handle.LogPath)
	framework.PrintInfo("Waiting for function to be ready...")

	probe := r.Prober.WaitForReady(debugLogger)
	if !probe.Ready {
		fmt.Println()
		framework.PrintError("Function did not become ready within %.0f seconds", probe.Elapsed.Seconds())
		r.dumpProcessLog(handle)
		outcome.Verdict = framework.Failed
		outcome.Reason = "readiness timeout"
		return outcome
	}
	fmt.Println()
	framework.PrintSuccess("Function is ready! (%.1fs)", probe.Elapsed.Seconds())

	framework.PrintInfo("Sending HTTP request...")
	result := r.Invoker.Invoke(body, debugLogger)
	framework.PrintInfo("HTTP Response Code: %d", result.Status)
	framework.PrintInfo("Response Body: %s", result.Body)

	tolerated, err := JudgeResponse(result)
	if err != nil {
		outcome.Verdict = framework.Failed
		outcome.Reason = err.Error()
		framework.PrintError("%s", err)
		if r.DumpLogOnFailure {
			r.dumpProcessLog(handle)
		}
		return outcome
	}
	if tolerated {
		framework.PrintWarning("Function returned validation error (4xx), but HTTP succeeded")
	}
	framework.PrintSuccess("Function %s passed!", m.Name)
	outcome.Verdict = framework.Passed
	return outcome
}

// dumpDebugOutput prints the iteration's captured debug trace, with the
// per-function verdict deciding whether it is wanted.
func (r *Runner) dumpDebugOutput(logger *framework.CapturingLogger, failed bool) {
	if failed && !r.DebugOutputOnFailure {
		return
	}
	if !failed && !r.DebugOutputOnSuccess {
		return
	}
	output := logger.Output()
	if len(output) == 0 {
		return
	}
	framework.PrintInfo("Debug output:")
	output.Dump(os.Stdout, "    DEBUG ")
}

func (r *Runner) dumpProcessLog(h *framework.ProcessHandle) {
	if h == nil || h.LogPath == "" {
		return
	}
	data, err := os.ReadFile(h.LogPath)
	if err != nil {
		framework.PrintWarning("Could not read process log %s: %s", h.LogPath, err)
		return
	}
	framework.PrintInfo("faas-cli output:")
	fmt.Print(string(data))
	if len(data) > 0 && data[len(data)-1] != '\n' {
		fmt.Println()
	}
}

// errorMarker is the envelope key the functions under test use to report their
// own failures inside a successful HTTP response.
const errorMarker = `"error"`

// JudgeResponse decides whether an invocation counts as a pass. The transport
// status must be 2xx. A body carrying the error marker still passes when it is
// accompanied by an embedded 4xx statusCode — the function rejected the input
// through its own envelope, which is a working function, not a broken one; in
// that case tolerated is true.
func JudgeResponse(result framework.InvocationResult) (tolerated bool, err error) {
	if result.Status < 200 || result.Status >= 300 {
		return false, fmt.Errorf("HTTP request failed with code %d: %s", result.Status, result.Body)
	}
	lower := strings.ToLower(result.Body)
	if strings.Contains(lower, errorMarker) {
		if strings.Contains(result.Body, `"statusCode": 4`) || strings.Contains(lower, `"statuscode": 4`) {
			return true, nil
		}
		return false, fmt.Errorf("response contains error: %s", result.Body)
	}
	return false, nil
}
