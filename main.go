package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/openfaas-community/faas-function-tests/faastests"
	"github.com/openfaas-community/faas-function-tests/framework"
)

// The port and time budgets are fixed by the faas-cli local-run contract and
// the functions' watchdog images, not configurable per run. The readiness
// budget is deliberately in the minutes range: pulling and starting an
// interpreted runtime image can be slow on a cold machine.
const (
	functionPort          = 8080
	readinessTimeout      = 3 * time.Minute
	readinessPollInterval = 2 * time.Second
	probeRequestTimeout   = 10 * time.Second
	invokeRequestTimeout  = 30 * time.Second
	confirmationPause     = 3 * time.Second
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	var params commandParams
	if !params.Read(args) {
		return 1
	}

	framework.PrintHeaderBanner(
		"OpenFaaS Function Test Suite",
		"Testing all functions under "+params.rootDir,
	)

	framework.PrintStep("Discovering functions...")
	manifests, err := faastests.DiscoverFunctions(params.rootDir)
	if err != nil {
		framework.PrintError("%s", err)
		return 1
	}
	if len(manifests) == 0 {
		framework.PrintError("No function stack files found under %s", params.rootDir)
		return 1
	}
	framework.PrintInfo("Found %d function stack files", len(manifests))

	fmt.Println()
	framework.PrintInfo("Functions to test:")
	for _, m := range manifests {
		rel, relErr := filepath.Rel(params.rootDir, m.Path)
		if relErr != nil {
			rel = m.Path
		}
		name := m.Name
		if name == "" {
			name = "(unidentifiable)"
		}
		fmt.Printf("  - %s (%s)\n", name, rel)
	}
	if params.filters.IsDefined() {
		fmt.Println()
		framework.PrintInfo("Some functions will be skipped based on the filter criteria for this run")
	}

	if !params.assumeYes {
		fmt.Println()
		framework.PrintWarning("This will start each function one by one on port %d", functionPort)
		framework.PrintInfo("Press Ctrl+C to cancel, or wait %d seconds to continue...", confirmationPause/time.Second)
		if !awaitConfirmation(confirmationPause) {
			fmt.Println("\nCancelled by user.")
			return 0
		}
	}

	supervisor := &framework.Supervisor{}
	runner := &faastests.Runner{
		Launcher: &faastests.FaasCLILauncher{Port: functionPort, Supervisor: supervisor},
		Prober: &framework.ReadinessProber{
			Port:           functionPort,
			Timeout:        readinessTimeout,
			PollInterval:   readinessPollInterval,
			RequestTimeout: probeRequestTimeout,
			Output:         os.Stdout,
		},
		Invoker: &framework.Invoker{
			Port:    functionPort,
			Timeout: invokeRequestTimeout,
		},
		Teardown:             framework.NewTeardownManager(functionPort, framework.UnixSystemTools{}, nil),
		Filter:               params.filters.Match,
		DumpLogOnFailure:     params.debug || params.debugAll,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	summary := runner.RunSuite(manifests)

	fmt.Println()
	if !summary.OK() {
		framework.PrintFailureBanner("TEST FAILED")
		fmt.Println()
		framework.PrintRunSummary(summary)
		if summary.HaltedAt != "" {
			fmt.Printf("Failed at: %s\n", summary.HaltedAt)
		}
		return 1
	}

	framework.PrintSuccessBanner("ALL TESTS PASSED")
	fmt.Println()
	framework.PrintRunSummary(summary)
	fmt.Println()
	framework.PrintSuccess("All function tests completed successfully!")
	return 0
}

// awaitConfirmation gives the user a short window to abort before the first
// function is started; after that the run is not interruptible mid-iteration.
func awaitConfirmation(pause time.Duration) bool {
	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, os.Interrupt)
	defer signal.Stop(interrupted)

	timer := time.NewTimer(pause)
	defer timer.Stop()
	select {
	case <-interrupted:
		return false
	case <-timer.C:
		return true
	}
}
