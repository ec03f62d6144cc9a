package interp

// CmdOutput is the result of a builtin invocation: captured output text and
// an exit status.
type CmdOutput struct {
	Stdout string
	Stderr string
	Status int
}

// Success returns an empty, successful output.
func Success() CmdOutput {
	return CmdOutput{}
}

// Stdout returns a successful output carrying text for standard output.
func Stdout(text string) CmdOutput {
	return CmdOutput{Stdout: text}
}

// Errorf returns a failing output carrying text for standard error.
func Errorf(status int, text string) CmdOutput {
	return CmdOutput{Stderr: text, Status: status}
}

// Ok reports whether the command exited successfully.
func (o CmdOutput) Ok() bool {
	return o.Status == 0
}
