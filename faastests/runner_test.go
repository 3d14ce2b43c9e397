package faastests

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfaas-community/faas-function-tests/framework"
)

type stubLauncher struct {
	err      error
	launched []string
	loggers  []framework.Logger
}

func (s *stubLauncher) Launch(m FunctionManifest, logger framework.Logger) (*framework.ProcessHandle, error) {
	s.launched = append(s.launched, m.Name)
	s.loggers = append(s.loggers, logger)
	if s.err != nil {
		return nil, s.err
	}
	return &framework.ProcessHandle{PID: 4242, PGID: 4242}, nil
}

type stubProber struct {
	result  framework.ProbeResult
	loggers []framework.Logger
}

func (s *stubProber) WaitForReady(logger framework.Logger) framework.ProbeResult {
	s.loggers = append(s.loggers, logger)
	return s.result
}

type stubInvoker struct {
	result  framework.InvocationResult
	bodies  []string
	loggers []framework.Logger
}

func (s *stubInvoker) Invoke(body []byte, logger framework.Logger) framework.InvocationResult {
	s.bodies = append(s.bodies, string(body))
	s.loggers = append(s.loggers, logger)
	return s.result
}

type recordingTeardown struct {
	calls int
}

func (r *recordingTeardown) Teardown(h *framework.ProcessHandle) { r.calls++ }

func newTestRunner() (*Runner, *stubLauncher, *stubProber, *stubInvoker, *recordingTeardown) {
	launcher := &stubLauncher{}
	prober := &stubProber{result: framework.ProbeResult{Ready: true}}
	invoker := &stubInvoker{result: framework.InvocationResult{Status: 200, Body: `{"result": "ok"}`}}
	teardown := &recordingTeardown{}
	r := &Runner{Launcher: launcher, Prober: prober, Invoker: invoker, Teardown: teardown}
	return r, launcher, prober, invoker, teardown
}

func manifestsNamed(names ...string) []FunctionManifest {
	var ms []FunctionManifest
	for _, n := range names {
		ms = append(ms, FunctionManifest{Name: n, Path: "/stacks/" + n + "/stack.yaml"})
	}
	return ms
}

func TestRunnerPassesAllFunctions(t *testing.T) {
	r, launcher, _, invoker, teardown := newTestRunner()

	summary := r.RunSuite(manifestsNamed("fn-one", "fn-two"))

	assert.Equal(t, 2, summary.Passed)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 2, summary.Total)
	assert.True(t, summary.OK())
	assert.Empty(t, summary.HaltedAt)
	assert.Equal(t, []string{"fn-one", "fn-two"}, launcher.launched)
	// pre-spawn sweep plus deferred teardown, per function
	assert.Equal(t, 4, teardown.calls)
	require.Len(t, invoker.bodies, 2)
	assert.JSONEq(t, `{"test":true}`, invoker.bodies[0])
}

func TestRunnerSkipsUnidentifiableManifestWithoutSpawning(t *testing.T) {
	r, launcher, _, _, _ := newTestRunner()
	manifests := []FunctionManifest{
		{Name: "", Path: "/stacks/broken/stack.yaml"},
		{Name: "fn-ok", Path: "/stacks/fn-ok/stack.yaml"},
	}

	summary := r.RunSuite(manifests)

	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Passed)
	assert.Equal(t, []string{"fn-ok"}, launcher.launched, "no process may be spawned for a skipped manifest")
	require.Len(t, summary.Outcomes, 2)
	assert.Equal(t, framework.Skipped, summary.Outcomes[0].Verdict)
	assert.Equal(t, "unidentifiable stack file", summary.Outcomes[0].Reason)
}

func TestRunnerSpawnFailureHaltsRunButTearsDown(t *testing.T) {
	r, launcher, _, _, teardown := newTestRunner()
	launcher.err = errors.New("faas-cli not found")

	summary := r.RunSuite(manifestsNamed("fn-one", "fn-two", "fn-three"))

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 0, summary.Passed)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, "fn-one", summary.HaltedAt)
	assert.Equal(t, []string{"fn-one"}, launcher.launched, "remaining manifests must not be attempted")
	assert.Equal(t, 2, teardown.calls, "teardown still runs after a spawn failure")
	assert.Contains(t, summary.Outcomes[0].Reason, "spawn failed")
}

func TestRunnerReadinessTimeoutFailsAndHalts(t *testing.T) {
	r, _, prober, invoker, teardown := newTestRunner()
	prober.result = framework.ProbeResult{Ready: false}

	summary := r.RunSuite(manifestsNamed("fn-slow", "fn-never-reached"))

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, "fn-slow", summary.HaltedAt)
	assert.Equal(t, "readiness timeout", summary.Outcomes[0].Reason)
	assert.Empty(t, invoker.bodies, "a function that never became ready must not be invoked")
	assert.Equal(t, 2, teardown.calls)
}

func TestRunnerJudgesInvocationResults(t *testing.T) {
	for _, tc := range []struct {
		name    string
		result  framework.InvocationResult
		verdict framework.Verdict
	}{
		{
			name:    "plain success",
			result:  framework.InvocationResult{Status: 200, Body: `{"result": [1, 0, 1]}`},
			verdict: framework.Passed,
		},
		{
			name:    "tolerated validation error in 2xx envelope",
			result:  framework.InvocationResult{Status: 200, Body: `{"statusCode": 400, "error": "bad input"}`},
			verdict: framework.Passed,
		},
		{
			name:    "embedded server-side error in 2xx envelope",
			result:  framework.InvocationResult{Status: 200, Body: `{"statusCode": 500, "error": "boom"}`},
			verdict: framework.Failed,
		},
		{
			name:    "transport failure",
			result:  framework.InvocationResult{Status: 500, Body: "internal error"},
			verdict: framework.Failed,
		},
		{
			name:    "network failure captured as status zero",
			result:  framework.InvocationResult{Status: 0, Body: "connection reset by peer"},
			verdict: framework.Failed,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r, _, _, invoker, _ := newTestRunner()
			invoker.result = tc.result

			summary := r.RunSuite(manifestsNamed("fn-under-test"))

			require.Len(t, summary.Outcomes, 1)
			assert.Equal(t, tc.verdict, summary.Outcomes[0].Verdict)
			if tc.verdict == framework.Failed {
				assert.Equal(t, "fn-under-test", summary.HaltedAt)
			}
		})
	}
}

func TestRunnerFilterSkipsWithoutSpawning(t *testing.T) {
	r, launcher, _, _, _ := newTestRunner()
	r.Filter = func(name string) bool { return name != "fn-excluded" }

	summary := r.RunSuite(manifestsNamed("fn-excluded", "fn-included"))

	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Passed)
	assert.Equal(t, []string{"fn-included"}, launcher.launched)
	assert.Equal(t, "excluded by filter parameters", summary.Outcomes[0].Reason)
}

func TestRunnerRecoversFromPanicAndStillTearsDown(t *testing.T) {
	r, _, _, _, teardown := newTestRunner()
	r.Prober = panickingProber{}

	summary := r.RunSuite(manifestsNamed("fn-one"))

	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, summary.Outcomes[0].Reason, "unexpected panic")
	assert.Equal(t, 2, teardown.calls)
}

type panickingProber struct{}

func (panickingProber) WaitForReady(framework.Logger) framework.ProbeResult {
	panic("prober exploded")
}

func TestRunnerGivesEachFunctionItsOwnDebugLogger(t *testing.T) {
	r, launcher, prober, invoker, _ := newTestRunner()

	summary := r.RunSuite(manifestsNamed("fn-one", "fn-two"))

	require.True(t, summary.OK())
	require.Len(t, launcher.loggers, 2)
	require.Len(t, prober.loggers, 2)
	require.Len(t, invoker.loggers, 2)
	for i := range launcher.loggers {
		require.IsType(t, &framework.CapturingLogger{}, launcher.loggers[i])
		assert.Same(t, launcher.loggers[i], prober.loggers[i],
			"launcher and prober must share one function's debug logger")
		assert.Same(t, launcher.loggers[i], invoker.loggers[i],
			"launcher and invoker must share one function's debug logger")
	}
	assert.NotSame(t, launcher.loggers[0], launcher.loggers[1],
		"each function must get a fresh debug logger")
}

func TestJudgeResponse(t *testing.T) {
	tolerated, err := JudgeResponse(framework.InvocationResult{Status: 204, Body: ""})
	assert.NoError(t, err)
	assert.False(t, tolerated)

	tolerated, err = JudgeResponse(framework.InvocationResult{
		Status: 200, Body: `{"statuscode": 502, "error": "nope"}`,
	})
	assert.Error(t, err, "a non-4xx statuscode does not excuse the error marker")
	assert.False(t, tolerated)

	tolerated, err = JudgeResponse(framework.InvocationResult{
		Status: 200, Body: `{"STATUSCODE": 400, "ERROR": "bad"}`,
	})
	assert.NoError(t, err, "marker matching is case-insensitive")
	assert.True(t, tolerated)
}
