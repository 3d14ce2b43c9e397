// Package faastests contains the OpenFaaS function test suite itself: stack
// file discovery, the canned payload registry, the faas-cli launcher, and the
// runner that drives each function through spawn, readiness, invocation, and
// teardown.
//
// Harness infrastructure that is not specific to OpenFaaS, such as process
// supervision and the port teardown guarantee, is in the lower-level framework
// package.
package faastests
