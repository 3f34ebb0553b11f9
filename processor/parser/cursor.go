package parser

import "unicode"

// Full-width closing glyphs emitted by some exports in place of '}' and ']'.
const (
	fullWidthRightBrace   = '｝'
	fullWidthRightBracket = '］'
)

// cursor is a forward-only scan position over an immutable rune buffer.
// offset is added to every reported position so errors point into the
// caller's untrimmed input.
type cursor struct {
	src    []rune
	pos    int
	offset int
}

func newCursor(text string, offset int) *cursor {
	return &cursor{src: []rune(text), offset: offset}
}

func (c *cursor) eof() bool {
	return c.pos >= len(c.src)
}

// peek returns the current rune, or 0 at end of input.
func (c *cursor) peek() rune {
	if c.eof() {
		return 0
	}
	return c.src[c.pos]
}

// at returns the rune at absolute index i, or 0 outside the buffer.
func (c *cursor) at(i int) rune {
	if i < 0 || i >= len(c.src) {
		return 0
	}
	return c.src[i]
}

func (c *cursor) advance() {
	if !c.eof() {
		c.pos++
	}
}

func (c *cursor) skipSpace() {
	for !c.eof() && unicode.IsSpace(c.src[c.pos]) {
		c.pos++
	}
}

// skipSpaceFrom returns the first index at or after i that is not whitespace.
func (c *cursor) skipSpaceFrom(i int) int {
	for i < len(c.src) && unicode.IsSpace(c.src[i]) {
		i++
	}
	return i
}

func (c *cursor) slice(from, to int) string {
	return string(c.src[from:to])
}

// position reports the current scan position in caller coordinates.
func (c *cursor) position() int {
	return c.pos + c.offset
}

func isObjectClose(r rune) bool {
	return r == '}' || r == fullWidthRightBrace
}

func isArrayClose(r rune) bool {
	return r == ']' || r == fullWidthRightBracket
}

func isClose(r rune) bool {
	return isObjectClose(r) || isArrayClose(r)
}

// isKeyRune reports whether r may appear in a key: letters, digits and _ . : -
func isKeyRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case '_', '.', ':', '-':
		return true
	}
	return false
}
