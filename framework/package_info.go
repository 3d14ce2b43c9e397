// Package framework contains the test harness infrastructure that is not specific
// to OpenFaaS: console reporting, outcome aggregation, process supervision,
// readiness probing, invocation, and teardown of the shared port.
//
// The general model is:
//
// 1. The harness spawns the service under test as an external process that is
// expected to bind a fixed local port once it is ready.
//
// 2. The harness acts purely as an HTTP client against that port: it polls until
// the process is routing requests, then sends it a single canned request.
//
// 3. Whatever happens, the process (and anything else that ended up holding the
// port, such as detached children) is torn down before the next test starts.
//
// The domain-specific code that knows what is being tested — which manifests to
// discover, which payload each function gets, and how to judge the response —
// lives in the higher-level faastests package.
package framework
