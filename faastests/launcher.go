package faastests

import (
	"path/filepath"
	"strconv"

	"github.com/openfaas-community/faas-function-tests/framework"
)

// Launcher starts the process serving one function and hands back its handle.
// Debug traces for the spawn go to logger.
type Launcher interface {
	Launch(m FunctionManifest, logger framework.Logger) (*framework.ProcessHandle, error)
}

// FaasCLILauncher runs functions with faas-cli local-run, binding each to the
// fixed harness port. The spawn's working directory is the function's own
// directory, since stack files reference build context by relative path.
type FaasCLILauncher struct {
	Port       int
	Supervisor *framework.Supervisor
}

func (l *FaasCLILauncher) Launch(m FunctionManifest, logger framework.Logger) (*framework.ProcessHandle, error) {
	dir := filepath.Dir(m.Path)
	return l.Supervisor.Start(logger, dir, "faas-cli",
		"local-run", m.Name,
		"-f", filepath.Base(m.Path),
		"--port", strconv.Itoa(l.Port),
	)
}
