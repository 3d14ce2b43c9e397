package framework

import (
	"os"
	"syscall"
	"time"

	gopsnet "github.com/shirou/gopsutil/v4/net"
)

// SystemTools abstracts the OS-level process and port operations that teardown
// depends on, so the harness can degrade to a best-effort no-op where a query
// is unavailable instead of failing the run.
type SystemTools interface {
	// SignalProcess delivers sig to a single process.
	SignalProcess(pid int, sig syscall.Signal) error
	// SignalGroup delivers sig to every process in the group.
	SignalGroup(pgid int, sig syscall.Signal) error
	// PortOwners returns the pids currently holding the given local TCP port.
	PortOwners(port int) ([]int, error)
}

// UnixSystemTools is the real implementation: signals via the kernel, port
// ownership via the system connection table.
type UnixSystemTools struct{}

func (UnixSystemTools) SignalProcess(pid int, sig syscall.Signal) error {
	return syscall.Kill(pid, sig)
}

func (UnixSystemTools) SignalGroup(pgid int, sig syscall.Signal) error {
	return syscall.Kill(-pgid, sig)
}

func (UnixSystemTools) PortOwners(port int) ([]int, error) {
	conns, err := gopsnet.Connections("tcp")
	if err != nil {
		return nil, err
	}
	var pids []int
	seen := make(map[int]bool)
	for _, c := range conns {
		if c.Laddr.Port == uint32(port) && c.Pid > 0 && !seen[int(c.Pid)] {
			seen[int(c.Pid)] = true
			pids = append(pids, int(c.Pid))
		}
	}
	return pids, nil
}

const (
	defaultGroupGrace = 500 * time.Millisecond
	defaultExitWait   = 2 * time.Second
	defaultSettleTime = time.Second
)

// TeardownManager releases one iteration's process and the shared port. Every
// step is independently best-effort and nothing it does can fail the run: a
// process that is already gone is the desired state, not an error. It is
// idempotent, so calling it again on an already-cleaned-up handle is safe.
type TeardownManager struct {
	Port   int
	Tools  SystemTools
	Logger Logger

	// ExcludePID is an extra pid the port sweep must never kill. The
	// harness's own pid is always excluded.
	ExcludePID int

	// GroupGrace is how long the process group gets between SIGTERM and
	// SIGKILL. ExitWait bounds each wait for the tracked process to be
	// reaped. SettleTime is the pause after killing port strays, giving the
	// kernel time to release the socket.
	GroupGrace time.Duration
	ExitWait   time.Duration
	SettleTime time.Duration

	selfPID  int
	selfPGID int
}

func NewTeardownManager(port int, tools SystemTools, logger Logger) *TeardownManager {
	if logger == nil {
		logger = NullLogger()
	}
	t := &TeardownManager{
		Port:       port,
		Tools:      tools,
		Logger:     logger,
		GroupGrace: defaultGroupGrace,
		ExitWait:   defaultExitWait,
		SettleTime: defaultSettleTime,
		selfPID:    os.Getpid(),
	}
	if pgid, err := syscall.Getpgid(t.selfPID); err == nil {
		t.selfPGID = pgid
	}
	return t
}

// Teardown terminates the tracked process (group first, then the pid itself)
// and then sweeps the port for stray listeners, such as descendants that
// detached from the tracked process. The group is signaled even when the
// leader has already been reaped, since other group members can outlive it.
// The handle may be nil or partially populated, e.g. after a spawn failure;
// the sweep still runs.
func (t *TeardownManager) Teardown(h *ProcessHandle) {
	if h != nil {
		t.terminateGroup(h)
		t.terminateProcess(h)
	}
	t.sweepPort()
}

// terminateGroup signals the whole process group, graceful first. Signaling a
// group that contains the harness itself would be fatal, so the handle's group
// must differ from our own.
func (t *TeardownManager) terminateGroup(h *ProcessHandle) {
	if h.PGID <= 0 || h.PGID == t.selfPGID {
		return
	}
	if err := t.Tools.SignalGroup(h.PGID, syscall.SIGTERM); err != nil {
		t.Logger.Printf("group %d SIGTERM: %s", h.PGID, err)
		return
	}
	time.Sleep(t.GroupGrace)
	if err := t.Tools.SignalGroup(h.PGID, syscall.SIGKILL); err != nil {
		t.Logger.Printf("group %d SIGKILL: %s", h.PGID, err)
	}
}

// terminateProcess signals the tracked pid directly as well, covering cases
// where group signaling was unavailable or only partially effective.
func (t *TeardownManager) terminateProcess(h *ProcessHandle) {
	if h.Exited() {
		return
	}
	if err := t.Tools.SignalProcess(h.PID, syscall.SIGTERM); err != nil {
		t.Logger.Printf("pid %d SIGTERM: %s", h.PID, err)
	}
	if h.AwaitExit(t.ExitWait) {
		return
	}
	if err := t.Tools.SignalProcess(h.PID, syscall.SIGKILL); err != nil {
		t.Logger.Printf("pid %d SIGKILL: %s", h.PID, err)
	}
	if !h.AwaitExit(t.ExitWait) {
		t.Logger.Printf("pid %d still not reaped after SIGKILL", h.PID)
	}
}

// sweepPort force-kills whatever still holds the port, except the harness
// itself and ExcludePID. A failed ownership query degrades to a no-op sweep.
func (t *TeardownManager) sweepPort() {
	pids, err := t.Tools.PortOwners(t.Port)
	if err != nil {
		t.Logger.Printf("port %d ownership query unavailable: %s", t.Port, err)
		return
	}
	killed := false
	for _, pid := range pids {
		if pid == t.selfPID || (t.ExcludePID != 0 && pid == t.ExcludePID) {
			continue
		}
		t.Logger.Printf("killing stray process %d on port %d", pid, t.Port)
		if err := t.Tools.SignalProcess(pid, syscall.SIGKILL); err != nil {
			t.Logger.Printf("pid %d SIGKILL: %s", pid, err)
			continue
		}
		killed = true
	}
	if killed {
		time.Sleep(t.SettleTime)
	}
}
