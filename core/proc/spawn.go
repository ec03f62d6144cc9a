package proc

import (
	"os"
	"syscall"
)

// SpawnSpec describes one process to start.
type SpawnSpec struct {
	// Path is the resolved executable path.
	Path string
	// Argv is the full argument vector including the command name.
	Argv []string
	// Dir is the working directory.
	Dir string
	// Env is the environment in "key=value" form.
	Env []string

	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	// Pgid is the process group to join; 0 means lead a fresh group keyed
	// by the child's own pid.
	Pgid int
	// Foreground hands the terminal to the child's group before it execs.
	// Only honored when Stdin is the controlling terminal.
	Foreground bool
}

// Spawn starts the process described by the spec and returns its pid. The
// child joins its process group and, for foreground work on a terminal,
// takes the terminal before exec, so there is no window where it runs
// ungrouped.
func (o *Os) Spawn(spec SpawnSpec) (int, error) {
	attr := &os.ProcAttr{
		Dir:   spec.Dir,
		Env:   spec.Env,
		Files: []*os.File{spec.Stdin, spec.Stdout, spec.Stderr},
		Sys: &syscall.SysProcAttr{
			Setpgid: true,
			Pgid:    spec.Pgid,
		},
	}
	if o.interactive && spec.Foreground && spec.Stdin == o.tty {
		// Ctty is an index into attr.Files, not a descriptor number.
		attr.Sys.Foreground = true
		attr.Sys.Ctty = 0
	}

	p, err := os.StartProcess(spec.Path, spec.Argv, attr)
	if err != nil {
		return 0, err
	}
	pid := p.Pid
	// The parent never calls p.Wait; reaping happens through the job
	// table's wait4 loop.
	p.Release()

	o.Watch(pid)
	return pid, nil
}
