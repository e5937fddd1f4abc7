// Package reader implements Mal's read_str: tokenizing source text and
// building the corresponding *mal.Term tree, one recursive-descent
// production per syntactic form (lists, vectors, hash-maps, the quote
// family, metadata, strings, atoms).
package reader

import (
	"strconv"
	"strings"

	"github.com/gomal-lang/gomal/mal"
	"github.com/gomal-lang/gomal/reader/lexer"
	"github.com/gomal-lang/gomal/reader/token"
)

// Parser turns a token stream into *mal.Term values.
type Parser struct {
	lex  *lexer.Lexer
	curr token.Token
	peek token.Token
}

// New returns a Parser reading from src.
func New(src string) *Parser {
	p := &Parser{lex: lexer.New(src)}
	p.readToken()
	p.readToken()
	return p
}

func (p *Parser) readToken() {
	p.curr = p.peek
	p.peek = p.lex.NextToken()
}

// Reader is a mal.Reader backed by this package, injected into the root
// Environment via mal.WithReader.
type Reader struct{}

// NewReader returns a mal.Reader implementation that parses with this
// package.
func NewReader() Reader { return Reader{} }

// ReadStr implements mal.Reader: it parses the first form in src and
// returns it.
func (Reader) ReadStr(src string) (*mal.Term, *mal.MalError) {
	return ReadStr(src)
}

// ReadStr parses the first form found in src.
func ReadStr(src string) (*mal.Term, *mal.MalError) {
	p := New(src)
	return p.parseExpr()
}

// ReadAll parses every top-level form in src and returns them in order.
func ReadAll(src string) ([]*mal.Term, *mal.MalError) {
	p := New(src)
	var out []*mal.Term
	for {
		p.skipComments()
		if p.curr.Type == token.EOF {
			return out, nil
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		out = append(out, expr)
	}
}

func (p *Parser) skipComments() {
	for p.curr.Type == token.COMMENT {
		p.readToken()
	}
}

func readerErr(format string, args ...interface{}) *mal.MalError {
	return mal.ReaderError(format, args...)
}

func (p *Parser) parseExpr() (*mal.Term, *mal.MalError) {
	p.skipComments()
	switch p.curr.Type {
	case token.EOF:
		return nil, readerErr("unexpected EOF")
	case token.ERROR:
		return nil, readerErr("%s at %s", p.curr.Text, p.curr.Source)
	case token.PAREN_L:
		return p.parseSeq(token.PAREN_R, mal.NewList)
	case token.PAREN_R:
		return nil, readerErr("unexpected ')' at %s", p.curr.Source)
	case token.BRACKET_L:
		return p.parseSeq(token.BRACKET_R, mal.NewVector)
	case token.BRACKET_R:
		return nil, readerErr("unexpected ']' at %s", p.curr.Source)
	case token.BRACE_L:
		return p.parseHashMap()
	case token.BRACE_R:
		return nil, readerErr("unexpected '}' at %s", p.curr.Source)
	case token.QUOTE:
		return p.parseWrapped("quote")
	case token.QUASIQUOTE:
		return p.parseWrapped("quasiquote")
	case token.UNQUOTE:
		return p.parseWrapped("unquote")
	case token.SPLICE_UNQUOTE:
		return p.parseWrapped("splice-unquote")
	case token.DEREF:
		return p.parseWrapped("deref")
	case token.META:
		return p.parseMeta()
	case token.STRING:
		return p.parseString()
	case token.ATOM:
		return p.parseAtom()
	default:
		return nil, readerErr("unexpected token %s at %s", p.curr.Type, p.curr.Source)
	}
}

func (p *Parser) parseSeq(end token.Type, build func(...*mal.Term) *mal.Term) (*mal.Term, *mal.MalError) {
	p.readToken()
	var items []*mal.Term
	for {
		p.skipComments()
		if p.curr.Type == end {
			p.readToken()
			return build(items...), nil
		}
		if p.curr.Type == token.EOF {
			return nil, readerErr("unexpected EOF, expected %s", end)
		}
		item, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

func (p *Parser) parseHashMap() (*mal.Term, *mal.MalError) {
	p.readToken()
	var items []*mal.Term
	for {
		p.skipComments()
		if p.curr.Type == token.BRACE_R {
			p.readToken()
			break
		}
		if p.curr.Type == token.EOF {
			return nil, readerErr("unexpected EOF, expected }")
		}
		item, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items)%2 != 0 {
		return nil, readerErr("odd number of forms in hash-map literal")
	}
	out := mal.NewHashMap()
	for i := 0; i < len(items); i += 2 {
		var ok bool
		out, ok = mal.HashMapSet(out, items[i], items[i+1])
		if !ok {
			return nil, readerErr("hash-map keys must be string or keyword literals, got %s", items[i].Type)
		}
	}
	return out, nil
}

func (p *Parser) parseWrapped(sym string) (*mal.Term, *mal.MalError) {
	p.readToken()
	inner, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return mal.NewList(mal.NewSymbol(sym), inner), nil
}

// parseMeta desugars `^m x` into `(with-meta x m)`.
func (p *Parser) parseMeta() (*mal.Term, *mal.MalError) {
	p.readToken()
	metaTerm, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	target, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return mal.NewList(mal.NewSymbol("with-meta"), target, metaTerm), nil
}

func (p *Parser) parseString() (*mal.Term, *mal.MalError) {
	text := p.curr.Text
	p.readToken()
	unquoted, err := unescapeString(text)
	if err != nil {
		return nil, err
	}
	return mal.NewString(unquoted), nil
}

func unescapeString(text string) (string, *mal.MalError) {
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return "", readerErr("unterminated string")
	}
	body := text[1 : len(text)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", readerErr("unterminated string escape")
		}
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte(body[i])
		}
	}
	return b.String(), nil
}

func (p *Parser) parseAtom() (*mal.Term, *mal.MalError) {
	text := p.curr.Text
	p.readToken()

	switch text {
	case "nil":
		return mal.Nil, nil
	case "true":
		return mal.True, nil
	case "false":
		return mal.False, nil
	}

	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return mal.NewNumber(n), nil
	}

	if strings.HasPrefix(text, ":") {
		return mal.NewKeyword(text[1:]), nil
	}

	return mal.NewSymbol(text), nil
}
