package discord

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrNoArgs is returned when every argument has been consumed
var ErrNoArgs = errors.New("no arguments left")

// DefaultDelimiters split arguments on ", " and ","; whitespace always
// separates arguments too.
var DefaultDelimiters = []string{", ", ","}

// Args walks the text following a command name
type Args struct {
	raw        string
	pos        int
	delimiters []string
}

// NewArgs creates Args over raw
func NewArgs(raw string, delimiters []string) *Args {
	if delimiters == nil {
		delimiters = DefaultDelimiters
	}
	return &Args{raw: raw, delimiters: delimiters}
}

// Raw returns the full argument text
func (a *Args) Raw() string {
	return a.raw
}

// delimiterAt returns the length of the delimiter starting at i, or 0
func (a *Args) delimiterAt(i int) int {
	for _, d := range a.delimiters {
		if strings.HasPrefix(a.raw[i:], d) {
			return len(d)
		}
	}
	r, size := utf8.DecodeRuneInString(a.raw[i:])
	if unicode.IsSpace(r) {
		return size
	}
	return 0
}

func (a *Args) skipDelimiters() {
	for a.pos < len(a.raw) {
		n := a.delimiterAt(a.pos)
		if n == 0 {
			return
		}
		a.pos += n
	}
}

// Peek returns the next argument without consuming it
func (a *Args) Peek() (string, error) {
	pos := a.pos
	s, err := a.Single()
	a.pos = pos
	return s, err
}

// Single consumes the next argument
func (a *Args) Single() (string, error) {
	a.skipDelimiters()
	if a.pos >= len(a.raw) {
		return "", ErrNoArgs
	}
	start := a.pos
	for a.pos < len(a.raw) && a.delimiterAt(a.pos) == 0 {
		_, size := utf8.DecodeRuneInString(a.raw[a.pos:])
		a.pos += size
	}
	return a.raw[start:a.pos], nil
}

// SingleQuoted consumes the next argument, keeping a "double quoted" span
// together as one argument.
func (a *Args) SingleQuoted() (string, error) {
	a.skipDelimiters()
	if a.pos >= len(a.raw) {
		return "", ErrNoArgs
	}
	if a.raw[a.pos] != '"' {
		return a.Single()
	}
	end := strings.IndexByte(a.raw[a.pos+1:], '"')
	if end < 0 {
		return a.Single()
	}
	s := a.raw[a.pos+1 : a.pos+1+end]
	a.pos += end + 2
	return s, nil
}

// Rest consumes and returns everything left, trimmed
func (a *Args) Rest() string {
	a.skipDelimiters()
	s := strings.TrimSpace(a.raw[a.pos:])
	a.pos = len(a.raw)
	return s
}

// Empty reports whether no argument is left
func (a *Args) Empty() bool {
	_, err := a.Peek()
	return err != nil
}
