// Package logger records shell activity as JSON lines, one event per line.
package logger

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// EventKind labels a log event.
type EventKind string

const (
	KindSessionStart EventKind = "session_start"
	KindSessionEnd   EventKind = "session_end"
	KindCommand      EventKind = "command"
	KindCommandDone  EventKind = "command_done"
	KindJobStart     EventKind = "job_start"
	KindJobExit      EventKind = "job_exit"
)

// Event is one JSON-lines log record. Unused fields are omitted.
type Event struct {
	Time  time.Time `json:"time"`
	Kind  EventKind `json:"kind"`
	Line  string    `json:"line,omitempty"`
	Argv  string    `json:"argv,omitempty"`
	Pid   int       `json:"pid,omitempty"`
	JobID int       `json:"job_id,omitempty"`
	// Status carries the exit status for command_done and job_exit.
	Status int `json:"status"`
}

// Recorder serializes events to a writer. Safe for concurrent use.
type Recorder struct {
	mu  sync.Mutex
	enc *json.Encoder
	now func() time.Time
}

// NewJSONLines creates a recorder writing one JSON object per line to w.
func NewJSONLines(w io.Writer) *Recorder {
	return &Recorder{enc: json.NewEncoder(w), now: time.Now}
}

// Record writes one event, stamping it with the current time.
func (r *Recorder) Record(ev Event) error {
	if r == nil {
		return nil
	}
	ev.Time = r.now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enc.Encode(ev)
}

// SessionStart logs the beginning of an interactive session.
func (r *Recorder) SessionStart() {
	r.Record(Event{Kind: KindSessionStart})
}

// SessionEnd logs the end of a session with the shell's exit code.
func (r *Recorder) SessionEnd(code int) {
	r.Record(Event{Kind: KindSessionEnd, Status: code})
}

// CommandStart logs an accepted command line.
func (r *Recorder) CommandStart(line string) {
	r.Record(Event{Kind: KindCommand, Line: line})
}

// CommandDone logs the completion of a foreground command.
func (r *Recorder) CommandDone(line string, status int) {
	r.Record(Event{Kind: KindCommandDone, Line: line, Status: status})
}

// JobStart logs a job being placed in the background.
func (r *Recorder) JobStart(jobID int, argv string) {
	r.Record(Event{Kind: KindJobStart, JobID: jobID, Argv: argv})
}

// JobExit logs a finished background job.
func (r *Recorder) JobExit(jobID int, argv string) {
	r.Record(Event{Kind: KindJobExit, JobID: jobID, Argv: argv})
}
