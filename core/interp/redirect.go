package interp

import (
	"os"

	"github.com/gush-sh/gush/core/ast"
)

// stdio is the descriptor triple a command evaluates against. Redirects
// rebind entries before the command runs.
type stdio struct {
	in  *os.File
	out *os.File
	err *os.File
}

// applyRedirects opens each redirection target in order and rebinds the
// descriptor triple. Write-mode redirects refuse to clobber existing files.
// The returned files belong to the caller and must be closed once the
// command has been handed its descriptors.
func applyRedirects(rt *Runtime, redirects []ast.Redirect, io stdio) (stdio, []*os.File, error) {
	var opened []*os.File

	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	for _, r := range redirects {
		path := rt.Abs(Substitute(rt, r.File))

		var f *os.File
		var err error
		switch r.Mode {
		case ast.Read:
			f, err = os.OpenFile(path, os.O_RDONLY, 0)
			if err == nil {
				io.in = f
			}
		case ast.Write:
			f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
			if err == nil {
				io = bindOut(io, r, f)
			}
		case ast.ReadAppend:
			f, err = os.OpenFile(path, os.O_RDWR|os.O_APPEND, 0)
			if err == nil {
				io.in = f
			}
		case ast.WriteAppend:
			f, err = os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE|os.O_EXCL, 0o644)
			if err == nil {
				io = bindOut(io, r, f)
			}
		case ast.ReadWrite:
			f, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
			if err == nil {
				io.in = f
				io.out = f
			}
		default:
			closeAll()
			return io, nil, &UnsupportedRedirectError{Mode: r.Mode}
		}
		if err != nil {
			closeAll()
			return io, nil, &RedirectError{Redirect: r, Err: err}
		}
		opened = append(opened, f)
	}
	return io, opened, nil
}

// bindOut rebinds the output descriptor a write redirect names: 2 for
// standard error, anything else for standard output.
func bindOut(io stdio, r ast.Redirect, f *os.File) stdio {
	if r.N != nil && *r.N == 2 {
		io.err = f
	} else {
		io.out = f
	}
	return io
}
