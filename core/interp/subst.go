package interp

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	varRegexp      = regexp.MustCompile(`\$([a-zA-Z_][a-zA-Z0-9_]*)`)
	curlyVarRegexp = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)
)

// Substitute expands a single word: the special parameters $?, $# and $0,
// then $NAME and ${NAME} variable references, then a leading tilde. Unset
// variables expand to the empty string.
func Substitute(rt *Runtime, word string) string {
	out := strings.ReplaceAll(word, "$?", strconv.Itoa(rt.ExitStatus))
	out = strings.ReplaceAll(out, "$#", strconv.Itoa(len(rt.Args)))
	out = strings.ReplaceAll(out, "$0", rt.Name)

	out = varRegexp.ReplaceAllStringFunc(out, func(m string) string {
		return rt.Env.Get(m[1:])
	})
	out = curlyVarRegexp.ReplaceAllStringFunc(out, func(m string) string {
		return rt.Env.Get(m[2 : len(m)-1])
	})

	if strings.HasPrefix(out, "~") {
		out = rt.Env.Get("HOME") + out[1:]
	}
	return out
}

// SubstituteAll expands every word in a slice, preserving order.
func SubstituteAll(rt *Runtime, words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = Substitute(rt, w)
	}
	return out
}
