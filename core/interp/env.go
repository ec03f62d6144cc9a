package interp

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Env is an in-memory environment-variable store.
type Env struct {
	rw   sync.RWMutex
	vars map[string]string
}

// NewEnv creates an empty environment.
func NewEnv() *Env {
	return &Env{}
}

// NewEnvFromEnviron creates an environment populated from a list of
// "key=value" strings, such as os.Environ().
func NewEnvFromEnviron(environ []string) *Env {
	out := &Env{}
	for _, e := range environ {
		split := strings.SplitN(e, "=", 2)
		key, value := split[0], ""
		if len(split) > 1 {
			value = split[1]
		}
		out.Set(key, value)
	}
	return out
}

// Set sets the value of the variable named by the key.
func (e *Env) Set(key, value string) {
	e.rw.Lock()
	defer e.rw.Unlock()
	if e.vars == nil {
		e.vars = make(map[string]string)
	}
	e.vars[key] = value
}

// Unset removes a single variable.
func (e *Env) Unset(key string) {
	e.rw.Lock()
	defer e.rw.Unlock()
	if e.vars != nil {
		delete(e.vars, key)
	}
}

// Lookup retrieves the value of the variable named by the key. The boolean
// reports whether the variable was present.
func (e *Env) Lookup(key string) (string, bool) {
	e.rw.RLock()
	defer e.rw.RUnlock()
	val, ok := e.vars[key]
	return val, ok
}

// Get retrieves the value of the variable named by the key, or "" if it is
// not present.
func (e *Env) Get(key string) string {
	val, _ := e.Lookup(key)
	return val
}

// Environ returns the variables as a sorted list of "key=value" strings.
func (e *Env) Environ() []string {
	e.rw.RLock()
	defer e.rw.RUnlock()

	env := make([]string, 0, len(e.vars))
	for k, v := range e.vars {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(env)
	return env
}

// Clone returns an independent copy of the environment.
func (e *Env) Clone() *Env {
	e.rw.RLock()
	defer e.rw.RUnlock()

	out := &Env{vars: make(map[string]string, len(e.vars))}
	for k, v := range e.vars {
		out.vars[k] = v
	}
	return out
}
