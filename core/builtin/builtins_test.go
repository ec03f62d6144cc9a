package builtin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gush-sh/gush/core/alias"
	"github.com/gush-sh/gush/core/history"
	"github.com/gush-sh/gush/core/hooks"
	"github.com/gush-sh/gush/core/interp"
	"github.com/gush-sh/gush/core/proc"
)

func testShell(t *testing.T) (*interp.Ctx, *interp.Runtime) {
	t.Helper()
	jobs, err := proc.NewOs(os.Stdin, false)
	require.NoError(t, err)

	ctx := &interp.Ctx{
		Jobs:     jobs,
		Builtins: Registry(),
		Aliases:  alias.NewStore(),
		History:  history.New(),
		Hooks:    &hooks.Hooks{},
	}
	rt := interp.NewRuntime(t.TempDir(), interp.NewEnv())
	return ctx, rt
}

func TestCd(t *testing.T) {
	ctx, rt := testShell(t)
	start := rt.WorkingDir
	sub := filepath.Join(start, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	out, err := Cd(ctx, rt, []string{"cd", "sub"})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Status)
	assert.Equal(t, sub, rt.WorkingDir)
	assert.Equal(t, sub, rt.Env.Get("PWD"))
	assert.Equal(t, start, rt.Env.Get("OLDPWD"))

	t.Run("Dash", func(t *testing.T) {
		out, err := Cd(ctx, rt, []string{"cd", "-"})
		require.NoError(t, err)
		assert.Equal(t, start+"\n", out.Stdout)
		assert.Equal(t, start, rt.WorkingDir)
	})

	t.Run("Home", func(t *testing.T) {
		rt.Env.Set("HOME", sub)
		out, err := Cd(ctx, rt, []string{"cd"})
		require.NoError(t, err)
		assert.Equal(t, 0, out.Status)
		assert.Equal(t, sub, rt.WorkingDir)
	})

	t.Run("Missing", func(t *testing.T) {
		out, err := Cd(ctx, rt, []string{"cd", "nowhere"})
		require.NoError(t, err)
		assert.Equal(t, 1, out.Status)
		assert.Contains(t, out.Stderr, "no such file or directory")
	})

	t.Run("NotADirectory", func(t *testing.T) {
		file := filepath.Join(rt.WorkingDir, "plain")
		require.NoError(t, os.WriteFile(file, nil, 0o644))
		out, err := Cd(ctx, rt, []string{"cd", "plain"})
		require.NoError(t, err)
		assert.Equal(t, 1, out.Status)
	})
}

func TestExit(t *testing.T) {
	ctx, rt := testShell(t)
	rt.ExitStatus = 4

	_, err := Exit(ctx, rt, []string{"exit"})
	require.NoError(t, err)
	assert.True(t, ctx.ExitRequested)
	assert.Equal(t, 4, ctx.ExitCode)

	t.Run("Explicit", func(t *testing.T) {
		_, err := Exit(ctx, rt, []string{"exit", "9"})
		require.NoError(t, err)
		assert.Equal(t, 9, ctx.ExitCode)
	})

	t.Run("NonNumeric", func(t *testing.T) {
		out, err := Exit(ctx, rt, []string{"exit", "lots"})
		require.NoError(t, err)
		assert.Equal(t, 2, out.Status)
	})
}

func TestExport(t *testing.T) {
	ctx, rt := testShell(t)

	_, err := Export(ctx, rt, []string{"export", "A=1", "B=two"})
	require.NoError(t, err)
	assert.Equal(t, "1", rt.Env.Get("A"))
	assert.Equal(t, "two", rt.Env.Get("B"))

	out, err := Export(ctx, rt, []string{"export"})
	require.NoError(t, err)
	assert.Contains(t, out.Stdout, "export A=1\n")
	assert.Contains(t, out.Stdout, "export B=two\n")
}

func TestUnset(t *testing.T) {
	ctx, rt := testShell(t)
	rt.Env.Set("GONE", "x")

	_, err := Unset(ctx, rt, []string{"unset", "GONE"})
	require.NoError(t, err)
	_, ok := rt.Env.Lookup("GONE")
	assert.False(t, ok)
}

func TestAliasLifecycle(t *testing.T) {
	ctx, rt := testShell(t)

	_, err := Alias(ctx, rt, []string{"alias", "ll=ls -l"})
	require.NoError(t, err)

	out, err := Alias(ctx, rt, []string{"alias"})
	require.NoError(t, err)
	assert.Equal(t, "alias ll='ls -l'\n", out.Stdout)

	out, err = Alias(ctx, rt, []string{"alias", "nope"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Status)

	_, err = Unalias(ctx, rt, []string{"unalias", "ll"})
	require.NoError(t, err)
	_, found := ctx.Aliases.Lookup("ll")
	assert.False(t, found)

	t.Run("UnaliasAll", func(t *testing.T) {
		ctx.Aliases.Set("a", "1")
		ctx.Aliases.Set("b", "2")
		_, err := Unalias(ctx, rt, []string{"unalias", "-a"})
		require.NoError(t, err)
		assert.Empty(t, ctx.Aliases.List())
	})
}

func TestHistory(t *testing.T) {
	ctx, rt := testShell(t)
	ctx.History.Append("ls")
	ctx.History.Append("make all")

	out, err := History(ctx, rt, []string{"history"})
	require.NoError(t, err)
	assert.Equal(t, "    1  ls\n    2  make all\n", out.Stdout)

	_, err = History(ctx, rt, []string{"history", "-c"})
	require.NoError(t, err)
	assert.Equal(t, 0, ctx.History.Len())
}

func TestType(t *testing.T) {
	ctx, rt := testShell(t)
	ctx.Aliases.Set("ll", "ls -l")
	rt.Env.Set("PATH", rt.WorkingDir)

	exe := filepath.Join(rt.WorkingDir, "tool")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755))

	out, err := Type(ctx, rt, []string{"type", "ll", "cd", "tool", "ghost"})
	require.NoError(t, err)
	assert.Contains(t, out.Stdout, "ll is aliased to `ls -l'")
	assert.Contains(t, out.Stdout, "cd is a shell builtin")
	assert.Contains(t, out.Stdout, "tool is "+exe)
	assert.Contains(t, out.Stderr, "ghost: not found")
	assert.Equal(t, 1, out.Status)
}

func TestSource(t *testing.T) {
	ctx, rt := testShell(t)

	var lines []string
	ctx.EvalLine = func(line string) (int, error) {
		lines = append(lines, line)
		return 0, nil
	}

	script := filepath.Join(rt.WorkingDir, "rc")
	require.NoError(t, os.WriteFile(script, []byte("alias ll='ls -l'\n\nexport A=1\n"), 0o644))

	out, err := Source(ctx, rt, []string{"source", "rc"})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Status)
	assert.Equal(t, []string{"alias ll='ls -l'", "export A=1"}, lines)

	t.Run("Missing", func(t *testing.T) {
		out, err := Source(ctx, rt, []string{"source", "absent"})
		require.NoError(t, err)
		assert.Equal(t, 1, out.Status)
	})
}

func TestDebugPrintsTree(t *testing.T) {
	ctx, rt := testShell(t)

	out, err := Debug(ctx, rt, []string{"debug", "echo", "hi"})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Status)
	assert.Equal(t, "Simple [\"echo\" \"hi\"]\n", out.Stdout)

	t.Run("NoArgs", func(t *testing.T) {
		out, err := Debug(ctx, rt, []string{"debug"})
		require.NoError(t, err)
		assert.Equal(t, 2, out.Status)
	})

	t.Run("SyntaxError", func(t *testing.T) {
		out, err := Debug(ctx, rt, []string{"debug", "then"})
		require.NoError(t, err)
		assert.Equal(t, 1, out.Status)
		assert.Contains(t, out.Stderr, "syntax error")
	})
}

func TestHelpListsBuiltins(t *testing.T) {
	ctx, rt := testShell(t)

	out, err := Help(ctx, rt, []string{"help"})
	require.NoError(t, err)
	for name := range ctx.Builtins {
		assert.Contains(t, out.Stdout, name)
	}
}

func TestJobsEmpty(t *testing.T) {
	ctx, rt := testShell(t)

	out, err := Jobs(ctx, rt, []string{"jobs"})
	require.NoError(t, err)
	assert.Equal(t, "", out.Stdout)
}

func TestFgBgWithoutJobs(t *testing.T) {
	ctx, rt := testShell(t)

	out, err := Fg(ctx, rt, []string{"fg"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Status)
	assert.Contains(t, out.Stderr, "no current job")

	out, err = Bg(ctx, rt, []string{"bg", "%3"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Status)
	assert.Contains(t, out.Stderr, "no such job")
}
