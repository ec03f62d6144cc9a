// Package proc owns process groups, the job table and the controlling
// terminal. It is the only package that talks to the tty or calls wait.
package proc

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ProcessState records what the wait loop has observed about a process.
type ProcessState struct {
	// Exited is true once the process is gone for good.
	Exited bool
	// Stopped is true while the process is suspended by a stop signal.
	Stopped bool
	// Status is the exit status, or 128 plus the signal number for a
	// signal death. Meaningless until Exited is true.
	Status int
}

// Job is a pipeline of processes sharing one process group.
type Job struct {
	ID   int
	Pgid int
	Pids []int
	// Argv is the display form of the job's command line.
	Argv string
}

// JobState describes a job for status reporting.
type JobState int

const (
	JobRunning JobState = iota
	JobStopped
	JobDone
)

func (s JobState) String() string {
	switch s {
	case JobRunning:
		return "Running"
	case JobStopped:
		return "Stopped"
	case JobDone:
		return "Done"
	default:
		return "?"
	}
}

// JobStatus pairs a job with its observed state.
type JobStatus struct {
	Job   *Job
	State JobState
}

// JobNotFoundError is returned when a job id has no table entry.
type JobNotFoundError struct {
	ID int
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("no such job: %%%d", e.ID)
}

// Os is the process-control context for one shell. It tracks the shell's
// own process group, the saved terminal mode, the job table, and the fates
// of every process the shell has spawned.
type Os struct {
	tty         *os.File
	interactive bool
	pgid        int
	tmods       *term.State

	jobs      map[int]*Job
	procState map[int]ProcessState
}

// NewOs prepares the shell for job control. When interactive and stdin is a
// terminal, the shell waits until it is in the foreground, moves into its
// own process group, claims the terminal and saves its mode. Otherwise the
// returned context degrades to plain wait bookkeeping.
func NewOs(tty *os.File, interactive bool) (*Os, error) {
	o := &Os{
		tty:       tty,
		jobs:      make(map[int]*Job),
		procState: make(map[int]ProcessState),
	}
	if !interactive || !term.IsTerminal(int(tty.Fd())) {
		return o, nil
	}
	o.interactive = true

	// Loop until the shell is the foreground process group; a background
	// shell that touched the terminal would be stopped by SIGTTIN.
	for {
		fg, err := unix.IoctlGetInt(int(tty.Fd()), unix.TIOCGPGRP)
		if err != nil {
			return nil, fmt.Errorf("reading foreground process group: %w", err)
		}
		pgrp := unix.Getpgrp()
		if fg == pgrp {
			break
		}
		if err := unix.Kill(-pgrp, unix.SIGTTIN); err != nil {
			return nil, fmt.Errorf("signaling own process group: %w", err)
		}
	}

	// Job-control signals would suspend the shell itself; route them to a
	// handler instead so spawned children still get default dispositions.
	signal.Ignore(unix.SIGTTOU, unix.SIGTTIN)

	pid := unix.Getpid()
	if err := unix.Setpgid(pid, pid); err != nil {
		return nil, fmt.Errorf("creating shell process group: %w", err)
	}
	o.pgid = pid

	if err := o.setForeground(pid); err != nil {
		return nil, fmt.Errorf("claiming terminal: %w", err)
	}

	tmods, err := term.GetState(int(tty.Fd()))
	if err != nil {
		return nil, fmt.Errorf("saving terminal mode: %w", err)
	}
	o.tmods = tmods
	return o, nil
}

// Interactive reports whether job control is active on a real terminal.
func (o *Os) Interactive() bool {
	return o.interactive
}

// Pgid returns the shell's own process group id, or 0 when job control is
// inactive.
func (o *Os) Pgid() int {
	return o.pgid
}

// setForeground hands the terminal to the given process group.
func (o *Os) setForeground(pgid int) error {
	return unix.IoctlSetPointerInt(int(o.tty.Fd()), unix.TIOCSPGRP, pgid)
}

// Watch registers a spawned process so wait results can be attributed.
func (o *Os) Watch(pid int) {
	o.procState[pid] = ProcessState{}
}

// CreateJob enters a process group into the job table under the lowest free
// id of at least 1 and returns the job.
func (o *Os) CreateJob(pgid int, pids []int, argv string) *Job {
	id := 1
	for {
		if _, used := o.jobs[id]; !used {
			break
		}
		id++
	}
	job := &Job{ID: id, Pgid: pgid, Pids: pids, Argv: argv}
	o.jobs[id] = job
	return job
}

// Jobs returns the table entries ordered by id.
func (o *Os) Jobs() []*Job {
	out := make([]*Job, 0, len(o.jobs))
	for _, j := range o.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out
}

// Lookup finds a job by id.
func (o *Os) Lookup(id int) (*Job, error) {
	job, ok := o.jobs[id]
	if !ok {
		return nil, &JobNotFoundError{ID: id}
	}
	return job, nil
}

func (o *Os) removeJob(id int) {
	delete(o.jobs, id)
}

// markWait records a wait result for a watched process.
func (o *Os) markWait(pid int, ws unix.WaitStatus) {
	if _, watched := o.procState[pid]; !watched {
		return
	}
	switch {
	case ws.Exited():
		o.procState[pid] = ProcessState{Exited: true, Status: ws.ExitStatus()}
	case ws.Signaled():
		o.procState[pid] = ProcessState{Exited: true, Status: 128 + int(ws.Signal())}
	case ws.Stopped():
		o.procState[pid] = ProcessState{Stopped: true, Status: 128 + int(ws.StopSignal())}
	}
}

// jobDone reports whether every process of the job has exited.
func (o *Os) jobDone(job *Job) bool {
	for _, pid := range job.Pids {
		if st, ok := o.procState[pid]; !ok || !st.Exited {
			return false
		}
	}
	return true
}

// jobSettled reports whether every process of the job has either exited or
// stopped; a settled job no longer makes foreground progress.
func (o *Os) jobSettled(job *Job) bool {
	for _, pid := range job.Pids {
		if st, ok := o.procState[pid]; !ok || (!st.Exited && !st.Stopped) {
			return false
		}
	}
	return true
}

func (o *Os) jobStopped(job *Job) bool {
	for _, pid := range job.Pids {
		if st, ok := o.procState[pid]; ok && st.Stopped {
			return true
		}
	}
	return false
}

// clearStopped forgets stop marks before a job is continued.
func (o *Os) clearStopped(job *Job) {
	for _, pid := range job.Pids {
		if st, ok := o.procState[pid]; ok && st.Stopped {
			o.procState[pid] = ProcessState{}
		}
	}
}

// WaitForJob blocks until every process in the job has exited or stopped.
// A fully exited job is dropped from the table and the status of its last
// process is returned. A stopped job stays in the table for later fg/bg
// and reports 128 plus the stop signal.
func (o *Os) WaitForJob(job *Job) (int, error) {
	for !o.jobSettled(job) {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(-1, &ws, unix.WUNTRACED, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("waiting for job %d: %w", job.ID, err)
		}
		o.markWait(pid, ws)
	}

	if o.jobStopped(job) {
		return 128 + int(unix.SIGTSTP), nil
	}

	status := 0
	if len(job.Pids) > 0 {
		status = o.procState[job.Pids[len(job.Pids)-1]].Status
	}
	for _, pid := range job.Pids {
		delete(o.procState, pid)
	}
	o.removeJob(job.ID)
	return status, nil
}

// RunInForeground gives the job the terminal, waits for it, then reclaims
// the terminal and restores the shell's saved mode. When cont is true the
// job's group is sent SIGCONT first, resuming a stopped job.
func (o *Os) RunInForeground(job *Job, cont bool) (int, error) {
	if cont {
		o.clearStopped(job)
		if err := unix.Kill(-job.Pgid, unix.SIGCONT); err != nil {
			return 0, fmt.Errorf("resuming job %d: %w", job.ID, err)
		}
	}

	if !o.interactive {
		return o.WaitForJob(job)
	}

	if err := o.setForeground(job.Pgid); err != nil {
		return 0, fmt.Errorf("foregrounding job %d: %w", job.ID, err)
	}
	defer func() {
		o.setForeground(o.pgid)
		if o.tmods != nil {
			term.Restore(int(o.tty.Fd()), o.tmods)
		}
	}()

	return o.WaitForJob(job)
}

// RunInBackground lets the job run detached. When cont is true the group is
// sent SIGCONT first, resuming a stopped job.
func (o *Os) RunInBackground(job *Job, cont bool) error {
	if cont {
		o.clearStopped(job)
		if err := unix.Kill(-job.Pgid, unix.SIGCONT); err != nil {
			return fmt.Errorf("resuming job %d: %w", job.ID, err)
		}
	}
	return nil
}

// PollBackground reaps finished background processes without blocking and
// returns the state of every job still in the table, ordered by id.
// Finished jobs are removed from the table after being reported.
func (o *Os) PollBackground() []JobStatus {
	for {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(-1, &ws, unix.WNOHANG|unix.WUNTRACED, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil || pid <= 0 {
			break
		}
		o.markWait(pid, ws)
	}

	var out []JobStatus
	for _, job := range o.Jobs() {
		switch {
		case o.jobDone(job):
			out = append(out, JobStatus{Job: job, State: JobDone})
			for _, pid := range job.Pids {
				delete(o.procState, pid)
			}
			o.removeJob(job.ID)
		case o.jobStopped(job):
			out = append(out, JobStatus{Job: job, State: JobStopped})
		default:
			out = append(out, JobStatus{Job: job, State: JobRunning})
		}
	}
	return out
}

// WaitAll blocks until every watched process has exited or the timeout
// elapses. Used at shutdown.
func (o *Os) WaitAll(timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for len(o.procState) > 0 && time.Now().Before(deadline) {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(-1, &ws, unix.WNOHANG, nil)
		if err != nil {
			return
		}
		if pid <= 0 {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		o.markWait(pid, ws)
		if st, ok := o.procState[pid]; ok && st.Exited {
			delete(o.procState, pid)
		}
	}
}
