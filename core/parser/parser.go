package parser

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/gush-sh/gush/core/ast"
)

// ParseError reports a syntax error with the byte offset it occurred at.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

var assignRegexp = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_]*)=(.*)$`)

// Parse turns one command line (or script fragment) into a command tree.
// Empty input yields ast.None.
func Parse(input string) (ast.Command, error) {
	toks, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	p.skipSeparators()
	if p.peek().kind == tokEOF {
		return &ast.None{}, nil
	}
	cmd, err := p.parseList()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, p.errorf("unexpected %s", p.peek().kind)
	}
	return cmd, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	if p.pos >= len(p.toks) {
		return token{kind: tokEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) peekAt(off int) token {
	if p.pos+off >= len(p.toks) {
		return token{kind: tokEOF}
	}
	return p.toks[p.pos+off]
}

func (p *parser) next() token {
	tok := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &ParseError{Pos: p.peek().pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) skipNewlines() {
	for p.peek().kind == tokNewline {
		p.next()
	}
}

func (p *parser) skipSeparators() {
	for p.peek().kind == tokNewline || p.peek().kind == tokSemi {
		p.next()
	}
}

// peekWord reports whether the current token is the given keyword.
func (p *parser) peekWord(word string) bool {
	tok := p.peek()
	return tok.kind == tokWord && tok.val == word
}

func (p *parser) expectWord(word string) error {
	if !p.peekWord(word) {
		return p.errorf("expected %q, got %s", word, p.peek().kind)
	}
	p.next()
	return nil
}

func (p *parser) expectWordToken() (string, error) {
	tok := p.peek()
	if tok.kind != tokWord && tok.kind != tokIONumber {
		return "", p.errorf("expected word, got %s", tok.kind)
	}
	p.next()
	return tok.val, nil
}

// listEnds reports whether the current token terminates a command list.
func (p *parser) listEnds(stop []string) bool {
	tok := p.peek()
	switch tok.kind {
	case tokEOF, tokRParen, tokRBrace, tokDSemi:
		return true
	case tokWord:
		for _, s := range stop {
			if tok.val == s {
				return true
			}
		}
	}
	return false
}

// parseList parses a ;/&/newline separated list, producing right-nested
// SeqList/AsyncList nodes. Parsing stops at EOF, a closing bracket, ';;' or
// any of the stop keywords.
func (p *parser) parseList(stop ...string) (ast.Command, error) {
	first, err := p.parseAndOr(stop)
	if err != nil {
		return nil, err
	}

	switch p.peek().kind {
	case tokSemi, tokNewline:
		p.skipSeparators()
		if p.listEnds(stop) {
			return &ast.SeqList{First: first}, nil
		}
		rest, err := p.parseList(stop...)
		if err != nil {
			return nil, err
		}
		return &ast.SeqList{First: first, Rest: rest}, nil
	case tokAmp:
		p.next()
		p.skipSeparators()
		if p.listEnds(stop) {
			return &ast.AsyncList{First: first}, nil
		}
		rest, err := p.parseList(stop...)
		if err != nil {
			return nil, err
		}
		return &ast.AsyncList{First: first, Rest: rest}, nil
	default:
		return first, nil
	}
}

func (p *parser) parseAndOr(stop []string) (ast.Command, error) {
	left, err := p.parsePipeline(stop)
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokAndIf:
			p.next()
			p.skipNewlines()
			right, err := p.parsePipeline(stop)
			if err != nil {
				return nil, err
			}
			left = &ast.And{A: left, B: right}
		case tokOrIf:
			p.next()
			p.skipNewlines()
			right, err := p.parsePipeline(stop)
			if err != nil {
				return nil, err
			}
			left = &ast.Or{A: left, B: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) parsePipeline(stop []string) (ast.Command, error) {
	negate := false
	if p.peek().kind == tokBang {
		p.next()
		negate = true
	}
	left, err := p.parseCommand(stop)
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokPipe {
		p.next()
		p.skipNewlines()
		right, err := p.parseCommand(stop)
		if err != nil {
			return nil, err
		}
		left = &ast.Pipeline{A: left, B: right}
	}
	if negate {
		return &ast.Not{Cmd: left}, nil
	}
	return left, nil
}

func (p *parser) parseCommand(stop []string) (ast.Command, error) {
	tok := p.peek()
	switch {
	case tok.kind == tokLParen:
		p.next()
		p.skipNewlines()
		inner, err := p.parseList()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokRParen {
			return nil, p.errorf("expected ')', got %s", p.peek().kind)
		}
		p.next()
		return &ast.Subshell{Cmd: inner}, nil
	case p.peekWord("if"):
		return p.parseIf()
	case p.peekWord("while"):
		return p.parseWhileUntil(false)
	case p.peekWord("until"):
		return p.parseWhileUntil(true)
	case p.peekWord("for"):
		return p.parseFor()
	case p.peekWord("case"):
		return p.parseCase()
	case tok.kind == tokWord && p.peekAt(1).kind == tokLParen && p.peekAt(2).kind == tokRParen:
		return p.parseFnDef()
	default:
		return p.parseSimple()
	}
}

func (p *parser) parseIf() (ast.Command, error) {
	p.next() // if
	cond, err := p.parseList("then")
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("then"); err != nil {
		return nil, err
	}
	p.skipSeparators()
	body, err := p.parseList("elif", "else", "fi")
	if err != nil {
		return nil, err
	}
	conds := []ast.Condition{{Cond: cond, Body: body}}

	for p.peekWord("elif") {
		p.next()
		c, err := p.parseList("then")
		if err != nil {
			return nil, err
		}
		if err := p.expectWord("then"); err != nil {
			return nil, err
		}
		p.skipSeparators()
		b, err := p.parseList("elif", "else", "fi")
		if err != nil {
			return nil, err
		}
		conds = append(conds, ast.Condition{Cond: c, Body: b})
	}

	var els ast.Command
	if p.peekWord("else") {
		p.next()
		p.skipSeparators()
		els, err = p.parseList("fi")
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectWord("fi"); err != nil {
		return nil, err
	}
	return &ast.If{Conds: conds, Else: els}, nil
}

func (p *parser) parseWhileUntil(until bool) (ast.Command, error) {
	p.next() // while / until
	cond, err := p.parseList("do")
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("do"); err != nil {
		return nil, err
	}
	p.skipSeparators()
	body, err := p.parseList("done")
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("done"); err != nil {
		return nil, err
	}
	if until {
		return &ast.Until{Cond: cond, Body: body}, nil
	}
	return &ast.While{Cond: cond, Body: body}, nil
}

func (p *parser) parseFor() (ast.Command, error) {
	p.next() // for
	name, err := p.expectWordToken()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("in"); err != nil {
		return nil, err
	}
	var words []string
	for p.peek().kind == tokWord || p.peek().kind == tokIONumber {
		if p.peekWord("do") {
			break
		}
		w, _ := p.expectWordToken()
		words = append(words, w)
	}
	p.skipSeparators()
	if err := p.expectWord("do"); err != nil {
		return nil, err
	}
	p.skipSeparators()
	body, err := p.parseList("done")
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("done"); err != nil {
		return nil, err
	}
	return &ast.For{Name: name, WordList: words, Body: body}, nil
}

func (p *parser) parseCase() (ast.Command, error) {
	p.next() // case
	word, err := p.expectWordToken()
	if err != nil {
		return nil, err
	}
	if err := p.expectWord("in"); err != nil {
		return nil, err
	}
	p.skipSeparators()

	var arms []ast.CaseArm
	for !p.peekWord("esac") {
		if p.peek().kind == tokEOF {
			return nil, p.errorf("expected \"esac\", got %s", p.peek().kind)
		}
		if p.peek().kind == tokLParen {
			p.next()
		}
		pat, err := p.expectWordToken()
		if err != nil {
			return nil, err
		}
		pats := []string{pat}
		for p.peek().kind == tokPipe {
			p.next()
			pat, err := p.expectWordToken()
			if err != nil {
				return nil, err
			}
			pats = append(pats, pat)
		}
		if p.peek().kind != tokRParen {
			return nil, p.errorf("expected ')', got %s", p.peek().kind)
		}
		p.next()
		p.skipNewlines()

		var body ast.Command
		if p.peek().kind == tokDSemi || p.peekWord("esac") {
			body = &ast.None{}
		} else {
			body, err = p.parseList("esac")
			if err != nil {
				return nil, err
			}
		}
		if p.peek().kind == tokDSemi {
			p.next()
			p.skipSeparators()
		}
		arms = append(arms, ast.CaseArm{Patterns: pats, Body: body})
	}
	p.next() // esac
	return &ast.Case{Word: word, Arms: arms}, nil
}

func (p *parser) parseFnDef() (ast.Command, error) {
	name := p.next().val
	p.next() // (
	p.next() // )
	p.skipNewlines()
	if p.peek().kind != tokLBrace {
		return nil, p.errorf("expected '{', got %s", p.peek().kind)
	}
	p.next()
	p.skipSeparators()
	body, err := p.parseList()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokRBrace {
		return nil, p.errorf("expected '}', got %s", p.peek().kind)
	}
	p.next()
	return &ast.Fn{Name: name, Body: body}, nil
}

func redirectMode(k tokenKind) (ast.RedirectMode, bool) {
	switch k {
	case tokLess:
		return ast.Read, true
	case tokGreat:
		return ast.Write, true
	case tokDLess:
		return ast.ReadAppend, true
	case tokDGreat:
		return ast.WriteAppend, true
	case tokLessAnd:
		return ast.ReadDup, true
	case tokGreatAnd:
		return ast.WriteDup, true
	case tokLessGreat:
		return ast.ReadWrite, true
	default:
		return 0, false
	}
}

func (p *parser) parseSimple() (ast.Command, error) {
	var (
		assigns []ast.Assign
		args    []string
		redirs  []ast.Redirect
	)

	for {
		tok := p.peek()

		if tok.kind == tokIONumber {
			if _, ok := redirectMode(p.peekAt(1).kind); ok {
				n, err := strconv.Atoi(tok.val)
				if err != nil {
					return nil, p.errorf("bad io number %q", tok.val)
				}
				p.next()
				mode, _ := redirectMode(p.next().kind)
				target, err := p.expectWordToken()
				if err != nil {
					return nil, err
				}
				redirs = append(redirs, ast.Redirect{Mode: mode, File: target, N: &n})
				continue
			}
			// Not followed by a redirect operator: a plain word.
			p.next()
			args = append(args, tok.val)
			continue
		}

		if mode, ok := redirectMode(tok.kind); ok {
			p.next()
			target, err := p.expectWordToken()
			if err != nil {
				return nil, err
			}
			redirs = append(redirs, ast.Redirect{Mode: mode, File: target})
			continue
		}

		if tok.kind != tokWord {
			break
		}
		if len(args) == 0 && IsReservedWord(tok.val) {
			return nil, p.errorf("unexpected keyword %q", tok.val)
		}
		if len(args) == 0 {
			if m := assignRegexp.FindStringSubmatch(tok.val); m != nil {
				p.next()
				assigns = append(assigns, ast.Assign{Name: m[1], Value: m[2]})
				continue
			}
		}
		p.next()
		args = append(args, tok.val)
	}

	if len(assigns) == 0 && len(args) == 0 && len(redirs) == 0 {
		return nil, p.errorf("expected command, got %s", p.peek().kind)
	}
	return &ast.Simple{Assigns: assigns, Args: args, Redirects: redirs}, nil
}
