package core

import (
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gush-sh/gush/core/config"
)

func testShell(t *testing.T) *Shell {
	t.Helper()
	cfg, err := config.Load(afero.NewOsFs(), t.TempDir())
	require.NoError(t, err)

	shell, err := NewShell(cfg, false)
	require.NoError(t, err)
	t.Cleanup(func() { shell.Close() })
	return shell
}

func TestExpandAliases(t *testing.T) {
	s := testShell(t)
	s.Ctx.Aliases.Set("g", "git")
	s.Ctx.Aliases.Set("gl", "g log")

	assert.Equal(t, "git status", s.expandAliases("g status"))
	// Aliases chain until a non-alias word leads.
	assert.Equal(t, "git log -n 1", s.expandAliases("gl -n 1"))
	assert.Equal(t, "make all", s.expandAliases("make all"))
}

func TestExpandAliasesSelfReferenceTerminates(t *testing.T) {
	s := testShell(t)
	s.Ctx.Aliases.Set("ls", "ls -F")

	assert.Equal(t, "ls -F /tmp", s.expandAliases("ls /tmp"))
}

func TestPrompt(t *testing.T) {
	s := testShell(t)
	s.Config.Prompt = `\u@\h:\w\$ `
	s.Runtime.Env.Set(EnvUser, "pat")
	s.Runtime.Env.Set(EnvHostname, "box")
	s.Runtime.Env.Set(EnvHome, "/home/pat")
	s.Runtime.WorkingDir = "/home/pat/src"

	marker := "$"
	if os.Getuid() == 0 {
		marker = "#"
	}
	assert.Equal(t, "pat@box:~/src"+marker+" ", s.Prompt())
}

func TestEvalLineBuiltin(t *testing.T) {
	s := testShell(t)

	status, err := s.EvalLine("export FOO=from-test")
	require.NoError(t, err)
	assert.Equal(t, 0, status)
	assert.Equal(t, "from-test", s.Runtime.Env.Get("FOO"))
}

func TestEvalLineParseError(t *testing.T) {
	s := testShell(t)

	_, err := s.EvalLine("ls |")
	assert.Error(t, err)
}

func TestEvalLineAppliesAliases(t *testing.T) {
	s := testShell(t)
	s.Ctx.Aliases.Set("setfoo", "export FOO=aliased")

	_, err := s.EvalLine("setfoo")
	require.NoError(t, err)
	assert.Equal(t, "aliased", s.Runtime.Env.Get("FOO"))
}

func TestConfigAliasesInstalled(t *testing.T) {
	s := testShell(t)
	// The default configuration ships with ll and la.
	_, ok := s.Ctx.Aliases.Lookup("ll")
	assert.True(t, ok)
}
