package interp

import (
	"path/filepath"

	"github.com/gush-sh/gush/core/ast"
)

// Runtime is the mutable per-shell evaluation state: working directory,
// environment, positional parameters, last exit status and the function
// table. Subshells evaluate against a Clone so their mutations stay local.
type Runtime struct {
	// WorkingDir is the directory command paths and redirect targets are
	// resolved against. Always absolute.
	WorkingDir string

	// Env is the exported variable store handed to spawned processes.
	Env *Env

	// Name is the shell's own name, substituted for $0.
	Name string

	// Args are the positional parameters; len(Args) is substituted for $#.
	Args []string

	// ExitStatus is the status of the most recently completed foreground
	// command, substituted for $?.
	ExitStatus int

	// Functions maps function names to their bodies.
	Functions map[string]ast.Command
}

// NewRuntime creates a runtime rooted at dir with the given environment.
func NewRuntime(dir string, env *Env) *Runtime {
	return &Runtime{
		WorkingDir: dir,
		Env:        env,
		Name:       "gush",
		Functions:  make(map[string]ast.Command),
	}
}

// Clone returns a deep copy of the runtime for subshell evaluation.
func (rt *Runtime) Clone() *Runtime {
	fns := make(map[string]ast.Command, len(rt.Functions))
	for k, v := range rt.Functions {
		fns[k] = v
	}
	args := make([]string, len(rt.Args))
	copy(args, rt.Args)

	return &Runtime{
		WorkingDir: rt.WorkingDir,
		Env:        rt.Env.Clone(),
		Name:       rt.Name,
		Args:       args,
		ExitStatus: rt.ExitStatus,
		Functions:  fns,
	}
}

// Abs resolves path against the runtime's working directory.
func (rt *Runtime) Abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(rt.WorkingDir, path)
}
