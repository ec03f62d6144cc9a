package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderWritesOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONLines(&buf)
	r.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	r.CommandStart("ls -l")
	r.CommandDone("ls -l", 0)
	r.JobExit(2, "sleep 10")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &ev))
	assert.Equal(t, KindCommand, ev.Kind)
	assert.Equal(t, "ls -l", ev.Line)
	assert.Equal(t, 2024, ev.Time.Year())

	require.NoError(t, json.Unmarshal([]byte(lines[2]), &ev))
	assert.Equal(t, KindJobExit, ev.Kind)
	assert.Equal(t, 2, ev.JobID)
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	r.SessionStart()
	r.CommandStart("ls")
	r.CommandDone("ls", 0)
	r.JobStart(1, "sleep")
	r.JobExit(1, "sleep")
	r.SessionEnd(0)
}
