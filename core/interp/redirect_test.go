package interp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gush-sh/gush/core/ast"
)

func testStdio(t *testing.T) stdio {
	t.Helper()
	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	require.NoError(t, err)
	t.Cleanup(func() { devNull.Close() })
	return stdio{in: devNull, out: devNull, err: devNull}
}

func closeAll(files []*os.File) {
	for _, f := range files {
		f.Close()
	}
}

func TestRedirectWriteRefusesClobber(t *testing.T) {
	rt := NewRuntime(t.TempDir(), NewEnv())
	redirs := []ast.Redirect{{Mode: ast.Write, File: "out"}}

	io, opened, err := applyRedirects(rt, redirs, testStdio(t))
	require.NoError(t, err)
	io.out.WriteString("first\n")
	closeAll(opened)

	_, _, err = applyRedirects(rt, redirs, testStdio(t))
	require.Error(t, err)
	var redirErr *RedirectError
	assert.ErrorAs(t, err, &redirErr)
	assert.True(t, os.IsExist(redirErr.Err))

	data, err := os.ReadFile(filepath.Join(rt.WorkingDir, "out"))
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(data))
}

func TestRedirectReadMissingFile(t *testing.T) {
	rt := NewRuntime(t.TempDir(), NewEnv())
	redirs := []ast.Redirect{{Mode: ast.Read, File: "absent"}}

	_, _, err := applyRedirects(rt, redirs, testStdio(t))
	var redirErr *RedirectError
	assert.ErrorAs(t, err, &redirErr)
}

func TestRedirectRead(t *testing.T) {
	rt := NewRuntime(t.TempDir(), NewEnv())
	require.NoError(t, os.WriteFile(filepath.Join(rt.WorkingDir, "in"), []byte("data"), 0o644))

	io, opened, err := applyRedirects(rt, []ast.Redirect{{Mode: ast.Read, File: "in"}}, testStdio(t))
	require.NoError(t, err)
	defer closeAll(opened)

	buf := make([]byte, 16)
	n, err := io.in.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "data", string(buf[:n]))
}

func TestRedirectStderrDescriptor(t *testing.T) {
	rt := NewRuntime(t.TempDir(), NewEnv())
	base := testStdio(t)

	n := 2
	io, opened, err := applyRedirects(rt, []ast.Redirect{{Mode: ast.Write, File: "errs", N: &n}}, base)
	require.NoError(t, err)
	defer closeAll(opened)

	// Only standard error moved.
	assert.Equal(t, base.out, io.out)
	assert.NotEqual(t, base.err, io.err)
}

func TestRedirectReadWriteSharesHandle(t *testing.T) {
	rt := NewRuntime(t.TempDir(), NewEnv())

	io, opened, err := applyRedirects(rt, []ast.Redirect{{Mode: ast.ReadWrite, File: "both"}}, testStdio(t))
	require.NoError(t, err)
	defer closeAll(opened)

	assert.Equal(t, io.in, io.out)
}

func TestRedirectDupUnsupported(t *testing.T) {
	rt := NewRuntime(t.TempDir(), NewEnv())

	_, _, err := applyRedirects(rt, []ast.Redirect{{Mode: ast.WriteDup, File: "1"}}, testStdio(t))
	var unsupported *UnsupportedRedirectError
	assert.ErrorAs(t, err, &unsupported)
}

func TestRedirectTargetSubstituted(t *testing.T) {
	rt := NewRuntime(t.TempDir(), NewEnv())
	rt.Env.Set("NAME", "target")

	_, opened, err := applyRedirects(rt, []ast.Redirect{{Mode: ast.Write, File: "$NAME"}}, testStdio(t))
	require.NoError(t, err)
	closeAll(opened)

	_, err = os.Stat(filepath.Join(rt.WorkingDir, "target"))
	assert.NoError(t, err)
}
