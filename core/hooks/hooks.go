// Package hooks lets callers observe shell lifecycle events.
package hooks

// StartupFunc runs once, after the shell is initialized and before the
// first prompt.
type StartupFunc func()

// BeforeCommandFunc runs before each accepted command line is evaluated.
type BeforeCommandFunc func(line string)

// AfterCommandFunc runs once a foreground command line has completed.
type AfterCommandFunc func(line string, status int)

// JobExitFunc runs when a background job is observed to have finished.
type JobExitFunc func(jobID int, argv string)

// Hooks is an ordered registry of lifecycle callbacks. The zero value is
// usable.
type Hooks struct {
	startup       []StartupFunc
	beforeCommand []BeforeCommandFunc
	afterCommand  []AfterCommandFunc
	jobExit       []JobExitFunc
}

// OnStartup registers a startup callback.
func (h *Hooks) OnStartup(fn StartupFunc) {
	h.startup = append(h.startup, fn)
}

// OnBeforeCommand registers a pre-evaluation callback.
func (h *Hooks) OnBeforeCommand(fn BeforeCommandFunc) {
	h.beforeCommand = append(h.beforeCommand, fn)
}

// OnAfterCommand registers a post-evaluation callback.
func (h *Hooks) OnAfterCommand(fn AfterCommandFunc) {
	h.afterCommand = append(h.afterCommand, fn)
}

// OnJobExit registers a background-job completion callback.
func (h *Hooks) OnJobExit(fn JobExitFunc) {
	h.jobExit = append(h.jobExit, fn)
}

// RunStartup fires the startup callbacks in registration order.
func (h *Hooks) RunStartup() {
	for _, fn := range h.startup {
		fn()
	}
}

// RunBeforeCommand fires the pre-evaluation callbacks in registration order.
func (h *Hooks) RunBeforeCommand(line string) {
	for _, fn := range h.beforeCommand {
		fn(line)
	}
}

// RunAfterCommand fires the post-evaluation callbacks in registration order.
func (h *Hooks) RunAfterCommand(line string, status int) {
	for _, fn := range h.afterCommand {
		fn(line, status)
	}
}

// RunJobExit fires the job completion callbacks in registration order.
func (h *Hooks) RunJobExit(jobID int, argv string) {
	for _, fn := range h.jobExit {
		fn(jobID, argv)
	}
}
