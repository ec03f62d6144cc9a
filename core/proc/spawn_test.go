package proc

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnEnvAndDir(t *testing.T) {
	o := testOs(t)

	path, err := LookPath(os.Getenv("PATH"), "/", "sh")
	if err != nil {
		t.Skip("sh not available")
	}

	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	null := devNull(t)

	pid, err := o.Spawn(SpawnSpec{
		Path:   path,
		Argv:   []string{"sh", "-c", "echo $MARKER $PWD"},
		Dir:    "/tmp",
		Env:    []string{"MARKER=zig", "PWD=/tmp"},
		Stdin:  null,
		Stdout: pw,
		Stderr: null,
	})
	require.NoError(t, err)
	pw.Close()

	job := o.CreateJob(pid, []int{pid}, "sh")
	status, err := o.WaitForJob(job)
	require.NoError(t, err)
	assert.Equal(t, 0, status)

	buf := make([]byte, 64)
	n, _ := pr.Read(buf)
	pr.Close()
	assert.Equal(t, "zig /tmp\n", string(buf[:n]))
}

// TestSpawnOnPty runs a command with a pseudo-terminal for its stdio, the
// way an interactive foreground job sees the world.
func TestSpawnOnPty(t *testing.T) {
	o := testOs(t)

	path, err := LookPath(os.Getenv("PATH"), "/", "echo")
	if err != nil {
		t.Skip("echo not available")
	}

	ptmx, tts, err := pty.Open()
	require.NoError(t, err)
	defer ptmx.Close()

	pid, err := o.Spawn(SpawnSpec{
		Path:   path,
		Argv:   []string{"echo", "hello from pty"},
		Dir:    "/",
		Env:    os.Environ(),
		Stdin:  tts,
		Stdout: tts,
		Stderr: tts,
	})
	require.NoError(t, err)
	tts.Close()

	job := o.CreateJob(pid, []int{pid}, "echo")
	status, err := o.WaitForJob(job)
	require.NoError(t, err)
	assert.Equal(t, 0, status)

	ptmx.SetReadDeadline(time.Now().Add(5 * time.Second))
	var sb strings.Builder
	buf := make([]byte, 256)
	for !strings.Contains(sb.String(), "hello from pty") {
		n, err := ptmx.Read(buf)
		if n > 0 {
			sb.Write(buf[:n])
		}
		if err != nil {
			break
		}
	}
	assert.Contains(t, sb.String(), "hello from pty")
}

func TestSpawnJoinsProcessGroup(t *testing.T) {
	o := testOs(t)

	path, err := LookPath(os.Getenv("PATH"), "/", "sleep")
	if err != nil {
		t.Skip("sleep not available")
	}
	null := devNull(t)

	lead, err := o.Spawn(SpawnSpec{
		Path: path, Argv: []string{"sleep", "0.2"}, Dir: "/", Env: os.Environ(),
		Stdin: null, Stdout: null, Stderr: null,
	})
	require.NoError(t, err)

	follow, err := o.Spawn(SpawnSpec{
		Path: path, Argv: []string{"sleep", "0.2"}, Dir: "/", Env: os.Environ(),
		Stdin: null, Stdout: null, Stderr: null,
		Pgid: lead,
	})
	require.NoError(t, err)

	job := o.CreateJob(lead, []int{lead, follow}, "sleep | sleep")
	status, err := o.WaitForJob(job)
	require.NoError(t, err)
	assert.Equal(t, 0, status)
}
