// Package interp walks command trees and turns them into process groups,
// builtin invocations and environment mutations.
package interp

import (
	"fmt"
	"os"
	"strings"

	"github.com/gush-sh/gush/core/ast"
	"github.com/gush-sh/gush/core/parser"
	"github.com/gush-sh/gush/core/proc"
)

// Result is what evaluating one command yields: either a process that was
// spawned and not yet waited for, or a status that is already known.
type Result struct {
	// Spawned reports that Pid refers to a live process belonging to the
	// evaluator's pending job.
	Spawned bool
	Pid     int
	Status  int
}

// Exited returns a Result carrying a known status.
func Exited(status int) Result {
	return Result{Status: status}
}

// Evaluator walks one command tree. It accumulates the pids of the pipeline
// being built; Finish turns them into a job and waits for it. Evaluators
// are cheap and single-use per command line.
type Evaluator struct {
	// Stderr receives builtin diagnostics and command-not-found messages.
	// Defaults to the process's standard error.
	Stderr *os.File

	foreground bool
	pgid       int
	pids       []int
	argv       []string
}

// NewEvaluator creates an evaluator for one foreground command line.
func NewEvaluator() *Evaluator {
	return &Evaluator{foreground: true}
}

// Run evaluates cmd to completion against in/out and returns its exit
// status. This is the top-level entry the read loop uses.
func Run(ctx *Ctx, rt *Runtime, cmd ast.Command, in, out *os.File) (int, error) {
	e := NewEvaluator()
	res, err := e.Eval(ctx, rt, cmd, in, out)
	if err != nil {
		return 0, err
	}
	return e.Finish(ctx, rt, res)
}

func (e *Evaluator) stderr() *os.File {
	if e.Stderr != nil {
		return e.Stderr
	}
	return os.Stderr
}

// child creates a nested evaluator with an empty pipeline, for subtrees
// that must run to completion before their parent continues.
func (e *Evaluator) child() *Evaluator {
	return &Evaluator{Stderr: e.Stderr, foreground: e.foreground}
}

func (e *Evaluator) reset() {
	e.pgid = 0
	e.pids = nil
	e.argv = nil
}

// run evaluates cmd to completion in a nested pipeline and returns its
// status, recording it as $?.
func (e *Evaluator) run(ctx *Ctx, rt *Runtime, cmd ast.Command, in, out *os.File) (int, error) {
	sub := e.child()
	res, err := sub.Eval(ctx, rt, cmd, in, out)
	if err != nil {
		return 0, err
	}
	return sub.Finish(ctx, rt, res)
}

// Finish completes the pending pipeline. Spawned processes become a job
// that is waited for in the foreground; an already-known status is simply
// recorded. Either way the status becomes $?.
func (e *Evaluator) Finish(ctx *Ctx, rt *Runtime, res Result) (int, error) {
	if !res.Spawned {
		rt.ExitStatus = res.Status
		return res.Status, nil
	}

	job := ctx.Jobs.CreateJob(e.pgid, e.pids, strings.Join(e.argv, " | "))
	e.reset()
	status, err := ctx.Jobs.RunInForeground(job, false)
	if err != nil {
		return 0, err
	}
	rt.ExitStatus = status
	return status, nil
}

// background turns the pending pipeline into a background job. Pipelines
// that spawned nothing (pure builtins) leave no job behind.
func (e *Evaluator) background(ctx *Ctx) {
	if len(e.pids) == 0 {
		return
	}
	job := ctx.Jobs.CreateJob(e.pgid, e.pids, strings.Join(e.argv, " | "))
	e.reset()
	ctx.Jobs.RunInBackground(job, false)
	ctx.Log.JobStart(job.ID, job.Argv)
	fmt.Fprintf(e.stderr(), "[%d] %d\n", job.ID, job.Pgid)
}

// Eval evaluates one command tree node against the given descriptors.
// Spawned processes are accumulated in the evaluator and must be completed
// with Finish.
func (e *Evaluator) Eval(ctx *Ctx, rt *Runtime, cmd ast.Command, in, out *os.File) (Result, error) {
	switch n := cmd.(type) {
	case *ast.None, nil:
		return Exited(0), nil

	case *ast.Simple:
		return e.evalSimple(ctx, rt, n, in, out)

	case *ast.Pipeline:
		pr, pw, err := os.Pipe()
		if err != nil {
			return Result{}, fmt.Errorf("creating pipe: %w", err)
		}
		resA, errA := e.Eval(ctx, rt, n.A, in, pw)
		pw.Close()
		if errA != nil {
			pr.Close()
			return resA, errA
		}
		resB, errB := e.Eval(ctx, rt, n.B, pr, out)
		pr.Close()
		return resB, errB

	case *ast.And:
		status, err := e.run(ctx, rt, n.A, in, out)
		if err != nil {
			return Result{}, err
		}
		if status != 0 {
			return Exited(status), nil
		}
		return e.Eval(ctx, rt, n.B, in, out)

	case *ast.Or:
		status, err := e.run(ctx, rt, n.A, in, out)
		if err != nil {
			return Result{}, err
		}
		if status == 0 {
			return Exited(status), nil
		}
		return e.Eval(ctx, rt, n.B, in, out)

	case *ast.Not:
		status, err := e.run(ctx, rt, n.Cmd, in, out)
		if err != nil {
			return Result{}, err
		}
		if status == 0 {
			return Exited(1), nil
		}
		return Exited(0), nil

	case *ast.SeqList:
		if n.Rest == nil {
			return e.Eval(ctx, rt, n.First, in, out)
		}
		if _, err := e.run(ctx, rt, n.First, in, out); err != nil {
			return Result{}, err
		}
		return e.Eval(ctx, rt, n.Rest, in, out)

	case *ast.AsyncList:
		sub := e.child()
		sub.foreground = false
		if _, err := sub.Eval(ctx, rt, n.First, in, out); err != nil {
			return Result{}, err
		}
		sub.background(ctx)
		if n.Rest == nil {
			return Exited(0), nil
		}
		return e.Eval(ctx, rt, n.Rest, in, out)

	case *ast.Subshell:
		return e.Eval(ctx, rt.Clone(), n.Cmd, in, out)

	case *ast.If:
		for _, cond := range n.Conds {
			status, err := e.run(ctx, rt, cond.Cond, in, out)
			if err != nil {
				return Result{}, err
			}
			if status == 0 {
				status, err = e.run(ctx, rt, cond.Body, in, out)
				return Exited(status), err
			}
		}
		if n.Else != nil {
			status, err := e.run(ctx, rt, n.Else, in, out)
			return Exited(status), err
		}
		return Exited(0), nil

	case *ast.While:
		last := 0
		for {
			status, err := e.run(ctx, rt, n.Cond, in, out)
			if err != nil {
				return Result{}, err
			}
			if status != 0 {
				return Exited(last), nil
			}
			if last, err = e.run(ctx, rt, n.Body, in, out); err != nil {
				return Result{}, err
			}
		}

	case *ast.Until:
		last := 0
		for {
			status, err := e.run(ctx, rt, n.Cond, in, out)
			if err != nil {
				return Result{}, err
			}
			if status == 0 {
				return Exited(last), nil
			}
			if last, err = e.run(ctx, rt, n.Body, in, out); err != nil {
				return Result{}, err
			}
		}

	case *ast.For:
		last := 0
		for _, word := range n.WordList {
			for _, field := range strings.Fields(Substitute(rt, word)) {
				rt.Env.Set(n.Name, field)
				var err error
				if last, err = e.run(ctx, rt, n.Body, in, out); err != nil {
					return Result{}, err
				}
			}
		}
		return Exited(last), nil

	case *ast.Case:
		word := Substitute(rt, n.Word)
		for _, arm := range n.Arms {
			for _, pat := range arm.Patterns {
				if Substitute(rt, pat) == word {
					status, err := e.run(ctx, rt, arm.Body, in, out)
					return Exited(status), err
				}
			}
		}
		return Exited(0), nil

	case *ast.Fn:
		if parser.IsReservedWord(n.Name) {
			return Result{}, fmt.Errorf("%q: %w", n.Name, ErrReservedFuncName)
		}
		rt.Functions[n.Name] = n.Body
		return Exited(0), nil

	default:
		return Result{}, fmt.Errorf("unhandled command node %T", cmd)
	}
}

func (e *Evaluator) evalSimple(ctx *Ctx, rt *Runtime, n *ast.Simple, in, out *os.File) (Result, error) {
	args := SubstituteAll(rt, n.Args)

	io, opened, err := applyRedirects(rt, n.Redirects, stdio{in: in, out: out, err: e.stderr()})
	if err != nil {
		fmt.Fprintf(e.stderr(), "gush: %v\n", err)
		return Exited(1), nil
	}
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	// Bare assignments mutate the shell's own environment. Redirects have
	// already opened (and created) their targets.
	if len(args) == 0 {
		for _, a := range n.Assigns {
			rt.Env.Set(a.Name, Substitute(rt, a.Value))
		}
		return Exited(0), nil
	}

	if b, ok := ctx.Builtins[args[0]]; ok {
		return runBuiltin(ctx, rt, b, args, io)
	}

	if body, ok := rt.Functions[args[0]]; ok {
		return e.callFunction(ctx, rt, body, args, io)
	}

	path, err := proc.LookPath(rt.Env.Get("PATH"), rt.WorkingDir, args[0])
	if err != nil {
		fmt.Fprintf(io.err, "gush: %v\n", &CommandNotFoundError{Name: args[0]})
		return Exited(127), nil
	}

	env := rt.Env.Environ()
	for _, a := range n.Assigns {
		env = append(env, a.Name+"="+Substitute(rt, a.Value))
	}

	pid, err := ctx.Jobs.Spawn(proc.SpawnSpec{
		Path:       path,
		Argv:       args,
		Dir:        rt.WorkingDir,
		Env:        env,
		Stdin:      io.in,
		Stdout:     io.out,
		Stderr:     io.err,
		Pgid:       e.pgid,
		Foreground: e.foreground,
	})
	if err != nil {
		fmt.Fprintf(io.err, "gush: %s: %v\n", args[0], err)
		return Exited(126), nil
	}

	if e.pgid == 0 {
		e.pgid = pid
	}
	e.pids = append(e.pids, pid)
	e.argv = append(e.argv, strings.Join(args, " "))
	return Result{Spawned: true, Pid: pid}, nil
}

// runBuiltin executes a builtin in-process and copies its captured output
// onto the command's descriptors.
func runBuiltin(ctx *Ctx, rt *Runtime, b Builtin, args []string, io stdio) (Result, error) {
	output, err := b.Run(ctx, rt, args)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", args[0], err)
	}
	if output.Stdout != "" {
		fmt.Fprint(io.out, output.Stdout)
	}
	if output.Stderr != "" {
		fmt.Fprint(io.err, output.Stderr)
	}
	return Exited(output.Status), nil
}

// callFunction evaluates a function body with the call's arguments bound as
// positional parameters.
func (e *Evaluator) callFunction(ctx *Ctx, rt *Runtime, body ast.Command, args []string, io stdio) (Result, error) {
	savedArgs, savedName := rt.Args, rt.Name
	rt.Args, rt.Name = args[1:], args[0]
	defer func() { rt.Args, rt.Name = savedArgs, savedName }()

	status, err := e.run(ctx, rt, body, io.in, io.out)
	if err != nil {
		return Result{}, err
	}
	return Exited(status), nil
}
