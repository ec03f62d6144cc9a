// Package builtin implements the commands the shell runs in-process.
package builtin

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pborman/getopt/v2"

	"github.com/gush-sh/gush/core/ast"
	"github.com/gush-sh/gush/core/interp"
	"github.com/gush-sh/gush/core/parser"
	"github.com/gush-sh/gush/core/proc"
)

// Registry returns the builtin table keyed by command name.
func Registry() map[string]interp.Builtin {
	return map[string]interp.Builtin{
		"alias":   interp.BuiltinFunc(Alias),
		"bg":      interp.BuiltinFunc(Bg),
		"cd":      interp.BuiltinFunc(Cd),
		"debug":   interp.BuiltinFunc(Debug),
		"exit":    interp.BuiltinFunc(Exit),
		"fg":      interp.BuiltinFunc(Fg),
		"export":  interp.BuiltinFunc(Export),
		"help":    interp.BuiltinFunc(Help),
		"history": interp.BuiltinFunc(History),
		"jobs":    interp.BuiltinFunc(Jobs),
		"source":  interp.BuiltinFunc(Source),
		"type":    interp.BuiltinFunc(Type),
		"unalias": interp.BuiltinFunc(Unalias),
		"unset":   interp.BuiltinFunc(Unset),
	}
}

// Cd changes the working directory. With no argument it goes home; with -
// it swaps back to $OLDPWD and prints the destination.
func Cd(ctx *interp.Ctx, rt *interp.Runtime, args []string) (interp.CmdOutput, error) {
	var dest string
	var echo bool
	switch len(args) {
	case 1:
		dest = rt.Env.Get("HOME")
		if dest == "" {
			return interp.Errorf(1, "cd: HOME not set\n"), nil
		}
	case 2:
		dest = args[1]
		if dest == "-" {
			old, ok := rt.Env.Lookup("OLDPWD")
			if !ok {
				return interp.Errorf(1, "cd: OLDPWD not set\n"), nil
			}
			dest, echo = old, true
		}
	default:
		return interp.Errorf(1, "cd: too many arguments\n"), nil
	}

	abs := rt.Abs(dest)
	fi, err := os.Stat(abs)
	if err != nil {
		return interp.Errorf(1, fmt.Sprintf("cd: %s: no such file or directory\n", dest)), nil
	}
	if !fi.IsDir() {
		return interp.Errorf(1, fmt.Sprintf("cd: %s: not a directory\n", dest)), nil
	}

	rt.Env.Set("OLDPWD", rt.WorkingDir)
	rt.WorkingDir = abs
	rt.Env.Set("PWD", abs)
	if echo {
		return interp.Stdout(abs + "\n"), nil
	}
	return interp.Success(), nil
}

// Exit asks the read loop to stop. With no argument the shell exits with
// the status of the last command.
func Exit(ctx *interp.Ctx, rt *interp.Runtime, args []string) (interp.CmdOutput, error) {
	code := rt.ExitStatus
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return interp.Errorf(2, fmt.Sprintf("exit: %s: numeric argument required\n", args[1])), nil
		}
		code = n & 0xff
	}
	ctx.ExitRequested = true
	ctx.ExitCode = code
	return interp.Success(), nil
}

// History displays or clears the command history.
func History(ctx *interp.Ctx, rt *interp.Runtime, args []string) (interp.CmdOutput, error) {
	opts := getopt.New()
	clear := opts.Bool('c', "clear the history by deleting all entries")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		var sb strings.Builder
		if err != nil {
			fmt.Fprintln(&sb, err)
		}
		fmt.Fprintln(&sb, "Display or manipulate the history list.")
		fmt.Fprintln(&sb)
		fmt.Fprintln(&sb, "Options:")
		opts.PrintOptions(&sb)
		return interp.Errorf(1, sb.String()), nil
	}

	if *clear {
		ctx.History.Clear()
		return interp.Success(), nil
	}

	var sb strings.Builder
	for i, line := range ctx.History.Entries() {
		fmt.Fprintf(&sb, "% 5d  %s\n", i+1, line)
	}
	return interp.Stdout(sb.String()), nil
}

// Export sets environment variables. With no arguments it prints the
// environment in export form.
func Export(ctx *interp.Ctx, rt *interp.Runtime, args []string) (interp.CmdOutput, error) {
	if len(args) == 1 {
		var sb strings.Builder
		for _, kv := range rt.Env.Environ() {
			fmt.Fprintf(&sb, "export %s\n", kv)
		}
		return interp.Stdout(sb.String()), nil
	}
	for _, arg := range args[1:] {
		name, value, found := strings.Cut(arg, "=")
		if !found {
			// Every variable is exported already; a bare name is a no-op
			// as long as it exists.
			continue
		}
		rt.Env.Set(name, value)
	}
	return interp.Success(), nil
}

// Unset removes environment variables and shell functions.
func Unset(ctx *interp.Ctx, rt *interp.Runtime, args []string) (interp.CmdOutput, error) {
	opts := getopt.New()
	fnOnly := opts.Bool('f', "treat NAME as a function")
	varOnly := opts.Bool('v', "treat NAME as a variable")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		var sb strings.Builder
		if err != nil {
			fmt.Fprintln(&sb, err)
		}
		fmt.Fprintln(&sb, "usage: unset [-fv] [NAME...]")
		fmt.Fprintln(&sb, "Unset shell variables and functions.")
		return interp.Errorf(1, sb.String()), nil
	}

	for _, name := range opts.Args() {
		if !*fnOnly {
			rt.Env.Unset(name)
		}
		if !*varOnly {
			delete(rt.Functions, name)
		}
	}
	return interp.Success(), nil
}

// Alias defines or lists aliases. Arguments are NAME=VALUE definitions or
// names to display.
func Alias(ctx *interp.Ctx, rt *interp.Runtime, args []string) (interp.CmdOutput, error) {
	if len(args) == 1 {
		var sb strings.Builder
		for _, a := range ctx.Aliases.List() {
			fmt.Fprintf(&sb, "alias %s='%s'\n", a.Name, a.Value)
		}
		return interp.Stdout(sb.String()), nil
	}

	out := interp.Success()
	var sb strings.Builder
	for _, arg := range args[1:] {
		name, value, found := strings.Cut(arg, "=")
		if found {
			ctx.Aliases.Set(name, value)
			continue
		}
		if v, ok := ctx.Aliases.Lookup(name); ok {
			fmt.Fprintf(&sb, "alias %s='%s'\n", name, v)
		} else {
			out.Stderr += fmt.Sprintf("alias: %s: not found\n", name)
			out.Status = 1
		}
	}
	out.Stdout = sb.String()
	return out, nil
}

// Unalias removes aliases; -a removes all of them.
func Unalias(ctx *interp.Ctx, rt *interp.Runtime, args []string) (interp.CmdOutput, error) {
	opts := getopt.New()
	all := opts.Bool('a', "remove all alias definitions")

	if err := opts.Getopt(args, nil); err != nil {
		return interp.Errorf(1, fmt.Sprintf("unalias: %v\n", err)), nil
	}

	if *all {
		for _, a := range ctx.Aliases.List() {
			ctx.Aliases.Unset(a.Name)
		}
		return interp.Success(), nil
	}

	out := interp.Success()
	for _, name := range opts.Args() {
		if !ctx.Aliases.Unset(name) {
			out.Stderr += fmt.Sprintf("unalias: %s: not found\n", name)
			out.Status = 1
		}
	}
	return out, nil
}

// Jobs lists the background job table.
func Jobs(ctx *interp.Ctx, rt *interp.Runtime, args []string) (interp.CmdOutput, error) {
	var sb strings.Builder
	for _, st := range ctx.Jobs.PollBackground() {
		fmt.Fprintf(&sb, "[%d]  %-8s %s\n", st.Job.ID, st.State, st.Job.Argv)
	}
	return interp.Stdout(sb.String()), nil
}

// Source reads a file and evaluates each line in the current shell.
func Source(ctx *interp.Ctx, rt *interp.Runtime, args []string) (interp.CmdOutput, error) {
	if len(args) != 2 {
		return interp.Errorf(2, "usage: source FILE\n"), nil
	}
	data, err := os.ReadFile(rt.Abs(args[1]))
	if err != nil {
		return interp.Errorf(1, fmt.Sprintf("source: %s: %v\n", args[1], err)), nil
	}

	status := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		st, err := ctx.EvalLine(line)
		if err != nil {
			return interp.Errorf(1, fmt.Sprintf("source: %s: %v\n", args[1], err)), nil
		}
		status = st
		if ctx.ExitRequested {
			break
		}
	}
	return interp.CmdOutput{Status: status}, nil
}

// Type reports how each name would be interpreted as a command.
func Type(ctx *interp.Ctx, rt *interp.Runtime, args []string) (interp.CmdOutput, error) {
	out := interp.Success()
	var sb strings.Builder
	for _, name := range args[1:] {
		if v, ok := ctx.Aliases.Lookup(name); ok {
			fmt.Fprintf(&sb, "%s is aliased to `%s'\n", name, v)
			continue
		}
		switch {
		case ctx.Builtins[name] != nil:
			fmt.Fprintf(&sb, "%s is a shell builtin\n", name)
		case rt.Functions[name] != nil:
			fmt.Fprintf(&sb, "%s is a function\n", name)
		default:
			path, err := proc.LookPath(rt.Env.Get("PATH"), rt.WorkingDir, name)
			if err != nil {
				out.Stderr += fmt.Sprintf("type: %s: not found\n", name)
				out.Status = 1
				continue
			}
			fmt.Fprintf(&sb, "%s is %s\n", name, path)
		}
	}
	out.Stdout = sb.String()
	return out, nil
}

// Debug parses its arguments as a command line and prints the tree.
func Debug(ctx *interp.Ctx, rt *interp.Runtime, args []string) (interp.CmdOutput, error) {
	if len(args) < 2 {
		return interp.Errorf(2, "usage: debug COMMAND...\n"), nil
	}
	cmd, err := parser.Parse(strings.Join(args[1:], " "))
	if err != nil {
		return interp.Errorf(1, fmt.Sprintf("debug: %v\n", err)), nil
	}
	return interp.Stdout(ast.Sprint(cmd)), nil
}

// Help lists the builtin commands.
func Help(ctx *interp.Ctx, rt *interp.Runtime, args []string) (interp.CmdOutput, error) {
	var names []string
	for name := range ctx.Builtins {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	fmt.Fprintln(&sb, "These commands are defined internally. Type `help' to see this list.")
	fmt.Fprintln(&sb)
	fmt.Fprintln(&sb, strings.Join(names, "\n"))
	return interp.Stdout(sb.String()), nil
}
