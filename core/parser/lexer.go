// Package parser turns raw command lines into command trees.
//
// The grammar is the POSIX subset the evaluator understands: simple commands
// with assignments and redirections, pipelines, && / || / !, ; and &
// lists, subshells, if/while/until/for/case and function definitions.
package parser

import (
	"fmt"
	"strings"
	"unicode"
)

// ReservedWords are the shell keywords; they cannot be used as function
// names and terminate command lists where the grammar expects them.
var ReservedWords = []string{
	"if", "then", "elif", "else", "fi",
	"while", "until", "for", "in", "do", "done",
	"case", "esac",
}

// IsReservedWord reports whether s is a shell keyword.
func IsReservedWord(s string) bool {
	for _, w := range ReservedWords {
		if s == w {
			return true
		}
	}
	return false
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokWord
	tokIONumber // digits immediately preceding a redirect operator
	tokNewline
	tokSemi      // ;
	tokDSemi     // ;;
	tokAmp       // &
	tokAndIf     // &&
	tokPipe      // |
	tokOrIf      // ||
	tokBang      // !
	tokLParen    // (
	tokRParen    // )
	tokLBrace    // {
	tokRBrace    // }
	tokLess      // <
	tokGreat     // >
	tokDLess     // <<
	tokDGreat    // >>
	tokLessAnd   // <&
	tokGreatAnd  // >&
	tokLessGreat // <>
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokWord:
		return "word"
	case tokIONumber:
		return "io number"
	case tokNewline:
		return "newline"
	case tokSemi:
		return "';'"
	case tokDSemi:
		return "';;'"
	case tokAmp:
		return "'&'"
	case tokAndIf:
		return "'&&'"
	case tokPipe:
		return "'|'"
	case tokOrIf:
		return "'||'"
	case tokBang:
		return "'!'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokLess:
		return "'<'"
	case tokGreat:
		return "'>'"
	case tokDLess:
		return "'<<'"
	case tokDGreat:
		return "'>>'"
	case tokLessAnd:
		return "'<&'"
	case tokGreatAnd:
		return "'>&'"
	case tokLessGreat:
		return "'<>'"
	default:
		return "?"
	}
}

type token struct {
	kind tokenKind
	val  string
	pos  int
}

type lexer struct {
	input string
	pos   int
}

func lex(input string) ([]token, error) {
	l := &lexer{input: input}
	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			return toks, nil
		}
	}
}

func (l *lexer) peekByte(off int) byte {
	if l.pos+off >= len(l.input) {
		return 0
	}
	return l.input[l.pos+off]
}

func (l *lexer) next() (token, error) {
	// Skip horizontal whitespace and comments.
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c == ' ' || c == '\t' || c == '\r' {
			l.pos++
			continue
		}
		if c == '#' {
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
			continue
		}
		break
	}

	start := l.pos
	if l.pos >= len(l.input) {
		return token{kind: tokEOF, pos: start}, nil
	}

	switch c := l.input[l.pos]; c {
	case '\n':
		l.pos++
		return token{kind: tokNewline, pos: start}, nil
	case ';':
		if l.peekByte(1) == ';' {
			l.pos += 2
			return token{kind: tokDSemi, pos: start}, nil
		}
		l.pos++
		return token{kind: tokSemi, pos: start}, nil
	case '&':
		if l.peekByte(1) == '&' {
			l.pos += 2
			return token{kind: tokAndIf, pos: start}, nil
		}
		l.pos++
		return token{kind: tokAmp, pos: start}, nil
	case '|':
		if l.peekByte(1) == '|' {
			l.pos += 2
			return token{kind: tokOrIf, pos: start}, nil
		}
		l.pos++
		return token{kind: tokPipe, pos: start}, nil
	case '(':
		l.pos++
		return token{kind: tokLParen, pos: start}, nil
	case ')':
		l.pos++
		return token{kind: tokRParen, pos: start}, nil
	case '<':
		switch l.peekByte(1) {
		case '<':
			l.pos += 2
			return token{kind: tokDLess, pos: start}, nil
		case '&':
			l.pos += 2
			return token{kind: tokLessAnd, pos: start}, nil
		case '>':
			l.pos += 2
			return token{kind: tokLessGreat, pos: start}, nil
		}
		l.pos++
		return token{kind: tokLess, pos: start}, nil
	case '>':
		switch l.peekByte(1) {
		case '>':
			l.pos += 2
			return token{kind: tokDGreat, pos: start}, nil
		case '&':
			l.pos += 2
			return token{kind: tokGreatAnd, pos: start}, nil
		}
		l.pos++
		return token{kind: tokGreat, pos: start}, nil
	case '!':
		if l.isWordBoundary(1) {
			l.pos++
			return token{kind: tokBang, pos: start}, nil
		}
	case '{', '}':
		// Braces are operators only when they stand alone, so words like
		// ${HOME} lex as a single word.
		if l.isWordBoundary(1) {
			l.pos++
			if c == '{' {
				return token{kind: tokLBrace, pos: start}, nil
			}
			return token{kind: tokRBrace, pos: start}, nil
		}
	}

	return l.lexWord(start)
}

// isWordBoundary reports whether the byte at offset off would end a word.
func (l *lexer) isWordBoundary(off int) bool {
	c := l.peekByte(off)
	switch c {
	case 0, ' ', '\t', '\r', '\n', ';', '&', '|', '(', ')':
		return true
	}
	return false
}

func (l *lexer) lexWord(start int) (token, error) {
	var sb strings.Builder
	digitsOnly := true

	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch c {
		case ' ', '\t', '\r', '\n', ';', '&', '|', '(', ')', '<', '>':
			goto done
		case '\\':
			if l.pos+1 >= len(l.input) {
				return token{}, fmt.Errorf("syntax error: trailing backslash")
			}
			sb.WriteByte(l.input[l.pos+1])
			l.pos += 2
			digitsOnly = false
			continue
		case '\'':
			end := strings.IndexByte(l.input[l.pos+1:], '\'')
			if end < 0 {
				return token{}, fmt.Errorf("syntax error: unterminated single quote")
			}
			sb.WriteString(l.input[l.pos+1 : l.pos+1+end])
			l.pos += end + 2
			digitsOnly = false
			continue
		case '"':
			l.pos++
			for {
				if l.pos >= len(l.input) {
					return token{}, fmt.Errorf("syntax error: unterminated double quote")
				}
				qc := l.input[l.pos]
				if qc == '"' {
					l.pos++
					break
				}
				if qc == '\\' && l.pos+1 < len(l.input) {
					nc := l.input[l.pos+1]
					if nc == '"' || nc == '\\' || nc == '$' {
						sb.WriteByte(nc)
						l.pos += 2
						continue
					}
				}
				sb.WriteByte(qc)
				l.pos++
			}
			digitsOnly = false
			continue
		}
		if !unicode.IsDigit(rune(c)) {
			digitsOnly = false
		}
		sb.WriteByte(c)
		l.pos++
	}

done:
	word := sb.String()
	if l.pos == start {
		return token{}, fmt.Errorf("syntax error: unexpected character %q", l.input[l.pos])
	}
	// A bare number glued to a redirect operator is an io number, as in 2>.
	if digitsOnly && (l.peekByte(0) == '<' || l.peekByte(0) == '>') {
		return token{kind: tokIONumber, val: word, pos: start}, nil
	}
	return token{kind: tokWord, val: word, pos: start}, nil
}
