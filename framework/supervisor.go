package framework

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alessio/shellescape"
)

// ProcessHandle tracks one spawned function process from launch until teardown.
// It is created by Supervisor.Start and handed to the TeardownManager; after
// teardown confirms exit it is inert and safe to tear down again.
type ProcessHandle struct {
	PID       int
	PGID      int
	StartTime time.Time
	LogPath   string

	cmd      *exec.Cmd
	waitErr  error
	waitDone chan struct{}
}

// Exited reports whether the process has been reaped. Handles that never had a
// live process behind them count as exited.
func (h *ProcessHandle) Exited() bool {
	if h == nil || h.waitDone == nil {
		return true
	}
	select {
	case <-h.waitDone:
		return true
	default:
		return false
	}
}

// AwaitExit waits up to the given timeout for the process to be reaped,
// reporting whether it has exited.
func (h *ProcessHandle) AwaitExit(timeout time.Duration) bool {
	if h == nil || h.waitDone == nil {
		return true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-h.waitDone:
		return true
	case <-timer.C:
		return false
	}
}

// Supervisor spawns function processes. Each process becomes the leader of its
// own process group so it can be signaled independently of the harness, and its
// combined output is redirected to a per-run log file.
type Supervisor struct {
	// LogDir is where process log files are written; empty means the OS temp dir.
	LogDir string
}

// LogFilePath returns the log file used for spawned processes. The name
// includes the harness's own pid so that concurrent harness invocations do not
// clobber each other's logs.
func (s *Supervisor) LogFilePath() string {
	dir := s.LogDir
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, fmt.Sprintf("faas_output_%d.log", os.Getpid()))
}

// Start launches the command in the given working directory and returns
// without waiting for it to become ready. Failure to spawn at all is the only
// error condition; anything after a successful fork is the caller's problem to
// observe through the handle. Debug traces go to logger, which may be nil.
func (s *Supervisor) Start(logger Logger, dir string, command string, args ...string) (*ProcessHandle, error) {
	if logger == nil {
		logger = NullLogger()
	}

	logPath := s.LogFilePath()
	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("could not create log file %s: %w", logPath, err)
	}

	cmd := exec.Command(command, args...)
	cmd.Dir = dir
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	// New process group, so teardown can signal the whole tree without
	// touching the harness's own group.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	logger.Printf("Starting in %s: %s", dir, CommandDescription(command, args...))
	if err := cmd.Start(); err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("could not start %s: %w", command, err)
	}

	h := &ProcessHandle{
		PID:       cmd.Process.Pid,
		StartTime: time.Now(),
		LogPath:   logPath,
		cmd:       cmd,
		waitDone:  make(chan struct{}),
	}
	if pgid, err := syscall.Getpgid(h.PID); err == nil {
		h.PGID = pgid
	}

	go func() {
		h.waitErr = cmd.Wait()
		_ = logFile.Close()
		close(h.waitDone)
	}()

	return h, nil
}

// CommandDescription renders a command line with shell quoting, for log output.
func CommandDescription(command string, args ...string) string {
	quoted := []string{shellescape.Quote(command)}
	for _, a := range args {
		quoted = append(quoted, shellescape.Quote(a))
	}
	return strings.Join(quoted, " ")
}
