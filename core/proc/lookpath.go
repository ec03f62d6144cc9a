package proc

import (
	"os"
	"path/filepath"
	"strings"
)

// LookPath searches for an executable named file in the directories listed
// in pathEnv. Names containing a slash are resolved against dir directly
// and not searched.
func LookPath(pathEnv, dir, file string) (string, error) {
	if strings.Contains(file, "/") {
		abs := file
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(dir, abs)
		}
		if err := findExecutable(abs); err != nil {
			return "", &os.PathError{Op: "exec", Path: file, Err: err}
		}
		return abs, nil
	}
	for _, searchDir := range filepath.SplitList(pathEnv) {
		if searchDir == "" {
			searchDir = dir
		}
		path := filepath.Join(searchDir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", &os.PathError{Op: "exec", Path: file, Err: os.ErrNotExist}
}

func findExecutable(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if fi.Mode().IsRegular() && fi.Mode().Perm()&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
