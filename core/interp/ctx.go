package interp

import (
	"github.com/gush-sh/gush/core/alias"
	"github.com/gush-sh/gush/core/history"
	"github.com/gush-sh/gush/core/hooks"
	"github.com/gush-sh/gush/core/logger"
	"github.com/gush-sh/gush/core/proc"
)

// Builtin is a command implemented inside the shell process.
type Builtin interface {
	// Run executes the builtin. args includes the command name at index 0.
	Run(ctx *Ctx, rt *Runtime, args []string) (CmdOutput, error)
}

// BuiltinFunc adapts a plain function to the Builtin interface.
type BuiltinFunc func(ctx *Ctx, rt *Runtime, args []string) (CmdOutput, error)

// Run implements Builtin.
func (f BuiltinFunc) Run(ctx *Ctx, rt *Runtime, args []string) (CmdOutput, error) {
	return f(ctx, rt, args)
}

// Ctx is the shared shell context the evaluator and builtins operate
// against. One Ctx lives for the whole session.
type Ctx struct {
	Jobs     *proc.Os
	Builtins map[string]Builtin
	Aliases  *alias.Store
	History  *history.History
	Hooks    *hooks.Hooks
	Log      *logger.Recorder

	// EvalLine parses and evaluates one command line to completion. Set by
	// the shell so builtins like source can reenter evaluation without an
	// import cycle.
	EvalLine func(line string) (int, error)

	// ExitRequested is set by the exit builtin; the read loop checks it
	// after each command.
	ExitRequested bool
	// ExitCode is the status the shell should exit with.
	ExitCode int
}
