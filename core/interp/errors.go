package interp

import (
	"errors"
	"fmt"

	"github.com/gush-sh/gush/core/ast"
)

// ErrReservedFuncName is returned when a function definition reuses a shell
// keyword as its name.
var ErrReservedFuncName = errors.New("function name is a reserved word")

// RedirectError wraps a failure to open a redirection target.
type RedirectError struct {
	Redirect ast.Redirect
	Err      error
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("redirect %s %s: %v", e.Redirect.Mode, e.Redirect.File, e.Err)
}

func (e *RedirectError) Unwrap() error {
	return e.Err
}

// UnsupportedRedirectError is returned for descriptor-duplication operators,
// which the evaluator does not implement.
type UnsupportedRedirectError struct {
	Mode ast.RedirectMode
}

func (e *UnsupportedRedirectError) Error() string {
	return fmt.Sprintf("unsupported redirect operator %s", e.Mode)
}

// CommandNotFoundError is returned when a command name resolves to neither a
// builtin, a function, nor an executable on PATH.
type CommandNotFoundError struct {
	Name string
}

func (e *CommandNotFoundError) Error() string {
	return fmt.Sprintf("%s: command not found", e.Name)
}
