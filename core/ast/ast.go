// Package ast defines the command tree produced by the parser and walked by
// the evaluator. Nodes are immutable once built; the evaluator borrows them
// for the duration of a single evaluation.
package ast

// RedirectMode enumerates the redirection operators.
type RedirectMode int

const (
	// Read opens the target read-only; it must already exist. (`<`)
	Read RedirectMode = iota
	// Write opens the target for writing, failing if it exists. (`>`)
	Write
	// ReadAppend opens an existing target for reading and appending. (`<<`)
	ReadAppend
	// WriteAppend opens the target write-append, failing if it exists. (`>>`)
	WriteAppend
	// ReadDup duplicates an input descriptor. Unsupported. (`<&`)
	ReadDup
	// WriteDup duplicates an output descriptor. Unsupported. (`>&`)
	WriteDup
	// ReadWrite opens the target read-write, failing if it exists. (`<>`)
	ReadWrite
)

func (m RedirectMode) String() string {
	switch m {
	case Read:
		return "<"
	case Write:
		return ">"
	case ReadAppend:
		return "<<"
	case WriteAppend:
		return ">>"
	case ReadDup:
		return "<&"
	case WriteDup:
		return ">&"
	case ReadWrite:
		return "<>"
	default:
		return "?"
	}
}

// Redirect is a single file redirection attached to a simple command.
// Multiple redirects apply left-to-right; later redirects targeting the same
// stream win.
type Redirect struct {
	Mode RedirectMode
	// File is the redirection target path, resolved against the runtime's
	// working directory at evaluation time.
	File string
	// N is the descriptor number preceding the operator (as in `2>`).
	// Nil means the default descriptor, 1.
	N *int
}

// Assign is a NAME=VALUE binding that decorates a single command invocation.
// It never mutates the shell's own environment.
type Assign struct {
	Name  string
	Value string
}

// Command is the tagged union of all command tree nodes.
type Command interface {
	isCommand()
}

// Simple is a single command: optional assignments, argument words and
// redirections. Args[0] is the command name.
type Simple struct {
	Assigns   []Assign
	Args      []string
	Redirects []Redirect
}

// Pipeline connects A's standard output to B's standard input. Longer
// pipelines nest on the left: a|b|c is Pipeline{Pipeline{a,b},c}.
type Pipeline struct {
	A, B Command
}

// And evaluates B only if A exits successfully.
type And struct {
	A, B Command
}

// Or evaluates B only if A exits unsuccessfully.
type Or struct {
	A, B Command
}

// Not inverts the exit status of Cmd.
type Not struct {
	Cmd Command
}

// SeqList runs First to completion, then Rest. Rest may be nil, in which
// case First's result is handed back to the caller still running.
type SeqList struct {
	First Command
	Rest  Command
}

// AsyncList places First in the background without waiting, then continues
// with Rest. Rest may be nil.
type AsyncList struct {
	First Command
	Rest  Command
}

// Subshell evaluates Cmd against a cloned runtime; mutations inside do not
// escape.
type Subshell struct {
	Cmd Command
}

// Condition is one guard/body pair of an If command.
type Condition struct {
	Cond Command
	Body Command
}

// If evaluates each condition's guard in order and runs the body of the
// first guard that succeeds, or Else if none do. Else may be nil.
type If struct {
	Conds []Condition
	Else  Command
}

// While runs Body while Cond succeeds.
type While struct {
	Cond Command
	Body Command
}

// Until runs Body while Cond fails.
type Until struct {
	Cond Command
	Body Command
}

// For binds Name to each whitespace-split word of WordList in turn and runs
// Body per binding. The final binding is left in the environment.
type For struct {
	Name     string
	WordList []string
	Body     Command
}

// CaseArm is one pattern set and body of a Case command.
type CaseArm struct {
	Patterns []string
	Body     Command
}

// Case runs the body of the first arm whose pattern set contains the
// substituted Word. No fall-through.
type Case struct {
	Word string
	Arms []CaseArm
}

// Fn installs Body into the runtime's function table under Name.
type Fn struct {
	Name string
	Body Command
}

// None is the empty command.
type None struct{}

func (*Simple) isCommand()    {}
func (*Pipeline) isCommand()  {}
func (*And) isCommand()       {}
func (*Or) isCommand()        {}
func (*Not) isCommand()       {}
func (*SeqList) isCommand()   {}
func (*AsyncList) isCommand() {}
func (*Subshell) isCommand()  {}
func (*If) isCommand()        {}
func (*While) isCommand()     {}
func (*Until) isCommand()     {}
func (*For) isCommand()       {}
func (*Case) isCommand()      {}
func (*Fn) isCommand()        {}
func (*None) isCommand()      {}
