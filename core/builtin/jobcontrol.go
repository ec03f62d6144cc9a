package builtin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gush-sh/gush/core/interp"
	"github.com/gush-sh/gush/core/proc"
)

// jobArg resolves a %N or N job designator, defaulting to the highest
// numbered job when absent.
func jobArg(ctx *interp.Ctx, args []string) (*proc.Job, error) {
	if len(args) > 2 {
		return nil, fmt.Errorf("%s: too many arguments", args[0])
	}
	if len(args) == 2 {
		id, err := strconv.Atoi(strings.TrimPrefix(args[1], "%"))
		if err != nil {
			return nil, fmt.Errorf("%s: %s: no such job", args[0], args[1])
		}
		return ctx.Jobs.Lookup(id)
	}

	jobs := ctx.Jobs.Jobs()
	if len(jobs) == 0 {
		return nil, fmt.Errorf("%s: no current job", args[0])
	}
	return jobs[len(jobs)-1], nil
}

// Fg resumes a job in the foreground and waits for it.
func Fg(ctx *interp.Ctx, rt *interp.Runtime, args []string) (interp.CmdOutput, error) {
	job, err := jobArg(ctx, args)
	if err != nil {
		return interp.Errorf(1, fmt.Sprintf("%v\n", err)), nil
	}

	out := interp.Stdout(job.Argv + "\n")
	status, err := ctx.Jobs.RunInForeground(job, true)
	if err != nil {
		return interp.Errorf(1, fmt.Sprintf("fg: %v\n", err)), nil
	}
	out.Status = status
	return out, nil
}

// Bg resumes a stopped job in the background.
func Bg(ctx *interp.Ctx, rt *interp.Runtime, args []string) (interp.CmdOutput, error) {
	job, err := jobArg(ctx, args)
	if err != nil {
		return interp.Errorf(1, fmt.Sprintf("%v\n", err)), nil
	}

	if err := ctx.Jobs.RunInBackground(job, true); err != nil {
		return interp.Errorf(1, fmt.Sprintf("bg: %v\n", err)), nil
	}
	return interp.Stdout(fmt.Sprintf("[%d] %s &\n", job.ID, job.Argv)), nil
}
