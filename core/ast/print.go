package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented dump of the command tree to w. The format is
// stable and used by golden tests and the debug builtin.
func Fprint(w io.Writer, cmd Command) {
	fprint(w, cmd, 0)
}

// Sprint returns the Fprint dump as a string.
func Sprint(cmd Command) string {
	var sb strings.Builder
	Fprint(&sb, cmd)
	return sb.String()
}

func fprint(w io.Writer, cmd Command, depth int) {
	pad := strings.Repeat("  ", depth)

	switch n := cmd.(type) {
	case nil:
		fmt.Fprintf(w, "%s<nil>\n", pad)
	case *Simple:
		fmt.Fprintf(w, "%sSimple %q\n", pad, n.Args)
		for _, a := range n.Assigns {
			fmt.Fprintf(w, "%s  assign %s=%q\n", pad, a.Name, a.Value)
		}
		for _, r := range n.Redirects {
			if r.N != nil {
				fmt.Fprintf(w, "%s  redirect %d%s %q\n", pad, *r.N, r.Mode, r.File)
			} else {
				fmt.Fprintf(w, "%s  redirect %s %q\n", pad, r.Mode, r.File)
			}
		}
	case *Pipeline:
		fmt.Fprintf(w, "%sPipeline\n", pad)
		fprint(w, n.A, depth+1)
		fprint(w, n.B, depth+1)
	case *And:
		fmt.Fprintf(w, "%sAnd\n", pad)
		fprint(w, n.A, depth+1)
		fprint(w, n.B, depth+1)
	case *Or:
		fmt.Fprintf(w, "%sOr\n", pad)
		fprint(w, n.A, depth+1)
		fprint(w, n.B, depth+1)
	case *Not:
		fmt.Fprintf(w, "%sNot\n", pad)
		fprint(w, n.Cmd, depth+1)
	case *SeqList:
		fmt.Fprintf(w, "%sSeqList\n", pad)
		fprint(w, n.First, depth+1)
		if n.Rest != nil {
			fprint(w, n.Rest, depth+1)
		}
	case *AsyncList:
		fmt.Fprintf(w, "%sAsyncList\n", pad)
		fprint(w, n.First, depth+1)
		if n.Rest != nil {
			fprint(w, n.Rest, depth+1)
		}
	case *Subshell:
		fmt.Fprintf(w, "%sSubshell\n", pad)
		fprint(w, n.Cmd, depth+1)
	case *If:
		fmt.Fprintf(w, "%sIf\n", pad)
		for _, c := range n.Conds {
			fmt.Fprintf(w, "%s  cond\n", pad)
			fprint(w, c.Cond, depth+2)
			fmt.Fprintf(w, "%s  body\n", pad)
			fprint(w, c.Body, depth+2)
		}
		if n.Else != nil {
			fmt.Fprintf(w, "%s  else\n", pad)
			fprint(w, n.Else, depth+2)
		}
	case *While:
		fmt.Fprintf(w, "%sWhile\n", pad)
		fprint(w, n.Cond, depth+1)
		fprint(w, n.Body, depth+1)
	case *Until:
		fmt.Fprintf(w, "%sUntil\n", pad)
		fprint(w, n.Cond, depth+1)
		fprint(w, n.Body, depth+1)
	case *For:
		fmt.Fprintf(w, "%sFor %s in %q\n", pad, n.Name, n.WordList)
		fprint(w, n.Body, depth+1)
	case *Case:
		fmt.Fprintf(w, "%sCase %q\n", pad, n.Word)
		for _, arm := range n.Arms {
			fmt.Fprintf(w, "%s  arm %q\n", pad, arm.Patterns)
			fprint(w, arm.Body, depth+2)
		}
	case *Fn:
		fmt.Fprintf(w, "%sFn %s\n", pad, n.Name)
		fprint(w, n.Body, depth+1)
	case *None:
		fmt.Fprintf(w, "%sNone\n", pad)
	default:
		fmt.Fprintf(w, "%sunknown %T\n", pad, cmd)
	}
}
