package hooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHooksRunInOrder(t *testing.T) {
	var got []string
	h := &Hooks{}
	h.OnStartup(func() { got = append(got, "a") })
	h.OnStartup(func() { got = append(got, "b") })
	h.RunStartup()
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestBeforeCommandReceivesLine(t *testing.T) {
	var got string
	h := &Hooks{}
	h.OnBeforeCommand(func(line string) { got = line })
	h.RunBeforeCommand("ls -l")
	assert.Equal(t, "ls -l", got)
}

func TestAfterCommandReceivesStatus(t *testing.T) {
	var gotLine string
	var gotStatus int
	h := &Hooks{}
	h.OnAfterCommand(func(line string, status int) { gotLine, gotStatus = line, status })
	h.RunAfterCommand("false", 1)
	assert.Equal(t, "false", gotLine)
	assert.Equal(t, 1, gotStatus)
}

func TestJobExit(t *testing.T) {
	var gotID int
	var gotArgv string
	h := &Hooks{}
	h.OnJobExit(func(jobID int, argv string) { gotID, gotArgv = jobID, argv })
	h.RunJobExit(2, "sleep 10")
	assert.Equal(t, 2, gotID)
	assert.Equal(t, "sleep 10", gotArgv)
}

func TestZeroValueIsUsable(t *testing.T) {
	var h Hooks
	h.RunStartup()
	h.RunBeforeCommand("x")
	h.RunAfterCommand("x", 0)
	h.RunJobExit(1, "x")
}
