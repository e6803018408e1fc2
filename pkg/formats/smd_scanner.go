package formats

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokenString tokenKind = iota
	tokenInt
	tokenFloat
)

// token is one whitespace or quote delimited word of SMD text.
type token struct {
	kind    tokenKind
	text    string
	intVal  int
	fltVal  float32
	line    int
	crossed bool // A line break separates this token from the previous one
	quoted  bool
}

// scanner tokenizes SMD text. The first failure is sticky: once err is set
// every read returns a zero value and the parse loops unwind.
type scanner struct {
	path string
	src  []byte
	pos  int
	line int

	tok     token
	lastEnd int // Line the previous token ended on
	unread  bool
	err     error
}

func newScanner(path string, data []byte) *scanner {
	return &scanner{
		path:    path,
		src:     data,
		line:    1,
		lastEnd: 1,
	}
}

// ok reports whether no error has been recorded.
func (s *scanner) ok() bool {
	return s.err == nil
}

// fail records err with the current line, keeping the first error only.
func (s *scanner) fail(err error, format string, args ...any) {
	if s.err != nil {
		return
	}
	s.err = &ParseError{
		Path: s.path,
		Line: s.tok.line,
		Msg:  fmt.Sprintf(format, args...),
		Err:  err,
	}
}

// next advances to the next token. It returns false at end of input.
func (s *scanner) next() bool {
	if s.err != nil {
		return false
	}
	if s.unread {
		s.unread = false
		return true
	}

	if !s.skipSpace() {
		return false
	}

	tok := token{
		line:    s.line,
		crossed: s.line != s.lastEnd,
	}

	if s.src[s.pos] == '"' {
		s.pos++
		start := s.pos
		for s.pos < len(s.src) && s.src[s.pos] != '"' {
			if s.src[s.pos] == '\n' {
				s.line++
			}
			s.pos++
		}
		tok.text = string(s.src[start:s.pos])
		tok.quoted = true
		if s.pos < len(s.src) {
			s.pos++ // closing quote
		}
	} else {
		start := s.pos
		for s.pos < len(s.src) && !isSpace(s.src[s.pos]) {
			s.pos++
		}
		tok.text = string(s.src[start:s.pos])
		classify(&tok)
	}

	s.lastEnd = s.line
	s.tok = tok
	return true
}

// skipSpace skips whitespace and // comments. It returns false at end of input.
func (s *scanner) skipSpace() bool {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '\n':
			s.line++
			s.pos++
		case isSpace(c):
			s.pos++
		case c == '/' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '/':
			for s.pos < len(s.src) && s.src[s.pos] != '\n' {
				s.pos++
			}
		default:
			return true
		}
	}
	return false
}

// unget pushes the current token back so the next call to next returns it again.
func (s *scanner) unget() {
	s.unread = true
}

// checkString consumes the next token if it equals want (case-insensitive).
func (s *scanner) checkString(want string) bool {
	if !s.next() {
		return false
	}
	if !s.tok.quoted && strings.EqualFold(s.tok.text, want) {
		return true
	}
	s.unget()
	return false
}

// checkIntOnLine consumes the next token if it is an integer on the current line.
func (s *scanner) checkIntOnLine() (int, bool) {
	if !s.next() {
		return 0, false
	}
	if s.tok.kind == tokenInt && !s.tok.crossed {
		return s.tok.intVal, true
	}
	s.unget()
	return 0, false
}

func (s *scanner) mustString() string {
	if !s.next() {
		s.failEOF("string")
		return ""
	}
	return s.tok.text
}

func (s *scanner) mustInt() int {
	if !s.next() {
		s.failEOF("integer")
		return 0
	}
	if s.tok.kind != tokenInt {
		s.fail(ErrMalformedSMD, "expected integer, got %q", s.tok.text)
		return 0
	}
	return s.tok.intVal
}

func (s *scanner) mustFloat() float32 {
	if !s.next() {
		s.failEOF("number")
		return 0
	}
	switch s.tok.kind {
	case tokenInt:
		return float32(s.tok.intVal)
	case tokenFloat:
		return s.tok.fltVal
	}
	s.fail(ErrMalformedSMD, "expected number, got %q", s.tok.text)
	return 0
}

func (s *scanner) failEOF(want string) {
	if s.err != nil {
		return
	}
	s.fail(ErrUnexpectedEOF, "unexpected end of file, expected %s", want)
}

// skipSection discards tokens up to and including the next "end".
func (s *scanner) skipSection() {
	for s.ok() && !s.checkString("end") {
		s.mustString()
	}
}

func classify(tok *token) {
	if v, err := strconv.Atoi(tok.text); err == nil {
		tok.kind = tokenInt
		tok.intVal = v
		return
	}
	if v, err := strconv.ParseFloat(tok.text, 32); err == nil {
		tok.kind = tokenFloat
		tok.fltVal = float32(v)
		return
	}
	tok.kind = tokenString
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\v' || c == '\f'
}
