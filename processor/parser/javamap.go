package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxDepth bounds object/array nesting so hostile input cannot exhaust the stack.
const maxDepth = 1000

// mode tells the primitive reader which container it is in.
type mode uint8

const (
	inObject mode = iota
	inArray
)

// JavaMapParser parses the unquoted "Java map" notation emitted by scheduler
// export tools, e.g.
//
//	{Folder={Type=SimpleFolder, Job={RunAs=batch, When={WeekDays=[MON, TUE]}}}}
//
// Strings are never quoted, so value boundaries are found from nesting depth
// plus a key-shaped lookahead after every top-level comma.
// A JavaMapParser is immutable and safe for concurrent use.
type JavaMapParser struct {
	denylist *Denylist
}

// Option configures a JavaMapParser.
type Option func(*JavaMapParser)

// WithDenylist replaces the default comma-lookahead denylist.
func WithDenylist(d *Denylist) Option {
	return func(p *JavaMapParser) {
		if d != nil {
			p.denylist = d
		}
	}
}

// WithExtraDenylist extends the default denylist with words.
func WithExtraDenylist(words ...string) Option {
	return func(p *JavaMapParser) {
		p.denylist = p.denylist.With(words...)
	}
}

// NewJavaMapParser creates a parser for the map notation.
func NewJavaMapParser(opts ...Option) *JavaMapParser {
	p := &JavaMapParser{denylist: DefaultDenylist()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Format returns the format name
func (p *JavaMapParser) Format() string {
	return FormatJavaMap
}

// Parse parses map-notation bytes into a value tree.
func (p *JavaMapParser) Parse(data []byte) (*Value, error) {
	return p.ParseString(string(data))
}

// Validate checks that data parses, discarding the tree.
func (p *JavaMapParser) Validate(data []byte) error {
	_, err := p.Parse(data)
	return err
}

// Parse parses text with a default JavaMapParser.
func Parse(text string) (*Value, error) {
	return defaultJavaMap.ParseString(text)
}

var defaultJavaMap = NewJavaMapParser()

// ParseString parses map-notation text into a value tree. No partial tree is
// returned on failure.
func (p *JavaMapParser) ParseString(text string) (*Value, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, &ParseError{Pos: -1, Err: ErrEmptyInput}
	}

	lead := utf8.RuneCountInString(text[:len(text)-len(strings.TrimLeftFunc(text, unicode.IsSpace))])
	s := &state{cur: newCursor(trimmed, lead), deny: p.denylist}

	root, err := s.parseRoot()
	if err != nil {
		return nil, err
	}

	s.cur.skipSpace()
	if !s.cur.eof() {
		return nil, s.malformed("unexpected trailing content")
	}
	return root, nil
}

// state carries one parse invocation. It is never shared between calls.
type state struct {
	cur   *cursor
	deny  *Denylist
	key   string // last key read, for error context
	depth int
}

func (s *state) malformed(msg string) error {
	return &ParseError{Pos: s.cur.position(), Key: s.key, Message: msg, Err: ErrMalformedStructure}
}

func (s *state) emptyKey() error {
	return &ParseError{Pos: s.cur.position(), Key: s.key, Message: "empty key", Err: ErrEmptyKey}
}

// parseRoot handles "{...}", "[...]" and a bare "key=value" pair. A bare
// pair becomes a single-entry object.
func (s *state) parseRoot() (*Value, error) {
	switch s.cur.peek() {
	case '{':
		return s.parseObject()
	case '[':
		return s.parseArray()
	}

	start := s.cur.pos
	for !s.cur.eof() {
		r := s.cur.peek()
		if r == '=' || r == '[' || r == '{' {
			break
		}
		s.cur.advance()
	}
	key := strings.TrimSpace(s.cur.slice(start, s.cur.pos))
	if key == "" {
		return nil, s.emptyKey()
	}
	if s.cur.eof() {
		return nil, s.malformed("expected '=' after root key")
	}
	if s.cur.peek() == '=' {
		s.cur.advance()
	}
	s.key = key

	value, err := s.parseValue(inObject)
	if err != nil {
		return nil, err
	}

	obj := NewObject()
	obj.Set(key, value)
	return NewObjectValue(obj), nil
}

func (s *state) enter() error {
	s.depth++
	if s.depth > maxDepth {
		return s.malformed("nesting too deep")
	}
	return nil
}

func (s *state) leave() {
	s.depth--
}

// parseObject expects the cursor on '{'.
func (s *state) parseObject() (*Value, error) {
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.leave()

	s.cur.advance()
	obj := NewObject()

	for {
		s.cur.skipSpace()
		if s.cur.eof() {
			return nil, s.malformed("unterminated object")
		}
		if isObjectClose(s.cur.peek()) {
			s.cur.advance()
			return NewObjectValue(obj), nil
		}

		key, err := s.readKey()
		if err != nil {
			return nil, err
		}
		s.key = key

		value, err := s.parseValue(inObject)
		if err != nil {
			return nil, err
		}
		obj.Set(key, value)

		s.cur.skipSpace()
		if s.cur.eof() {
			return nil, s.malformed("unterminated object")
		}

		r := s.cur.peek()
		switch {
		case isObjectClose(r):
			s.cur.advance()
			return NewObjectValue(obj), nil
		case r == ',':
			s.cur.advance()
		case isKeyRune(r):
			// Missing separator after a nested container, e.g. "{A={x=1} B=2}".
			// Retry the key scan; readKey consumes input or fails, so this terminates.
		default:
			return nil, s.malformed("expected ',' or '}'")
		}
	}
}

// readKey reads up to the first unescaped '=' and consumes it. A backslash
// escapes the next rune. Structural brackets end the scan with an error.
func (s *state) readKey() (string, error) {
	var b strings.Builder
	for {
		if s.cur.eof() {
			return "", s.malformed("expected '=' after key")
		}
		r := s.cur.peek()
		switch {
		case r == '=':
			s.cur.advance()
			key := strings.TrimSpace(b.String())
			if key == "" {
				return "", s.emptyKey()
			}
			return key, nil
		case r == '\\':
			s.cur.advance()
			if s.cur.eof() {
				return "", s.malformed("expected '=' after key")
			}
			b.WriteRune(s.cur.peek())
		case r == '{' || r == '[' || isClose(r):
			s.key = strings.TrimSpace(b.String())
			return "", s.malformed("expected '=' after key")
		default:
			b.WriteRune(r)
		}
		s.cur.advance()
	}
}

// parseArray expects the cursor on '['. Elements are always comma-delimited,
// so no lookahead is applied inside arrays.
func (s *state) parseArray() (*Value, error) {
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.leave()

	s.cur.advance()
	arr := NewArray()

	for {
		s.cur.skipSpace()
		if s.cur.eof() {
			return nil, s.malformed("unterminated array")
		}
		if isArrayClose(s.cur.peek()) {
			s.cur.advance()
			return NewArrayValue(arr), nil
		}

		value, err := s.parseValue(inArray)
		if err != nil {
			return nil, err
		}
		arr.Append(value)

		s.cur.skipSpace()
		if s.cur.eof() {
			return nil, s.malformed("unterminated array")
		}

		r := s.cur.peek()
		switch {
		case isArrayClose(r):
			s.cur.advance()
			return NewArrayValue(arr), nil
		case r == ',':
			s.cur.advance()
		default:
			return nil, s.malformed("expected ',' or ']'")
		}
	}
}

// parseValue dispatches on the next rune: objects, arrays, then the
// exact tokens true/false, otherwise a primitive.
func (s *state) parseValue(m mode) (*Value, error) {
	s.cur.skipSpace()

	switch s.cur.peek() {
	case '{':
		return s.parseObject()
	case '[':
		return s.parseArray()
	}

	text := s.readPrimitive(m)
	switch text {
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	}
	return Primitive(text), nil
}

// readPrimitive scans to the end of an unquoted value. Brackets inside the
// text are depth-tracked; at depth zero a closer always ends the value, and a
// comma ends it in arrays, or in objects when a new key follows.
func (s *state) readPrimitive(m mode) string {
	start := s.cur.pos
	depth := 0

scan:
	for !s.cur.eof() {
		r := s.cur.peek()
		switch {
		case r == '{' || r == '[':
			depth++
		case isClose(r):
			if depth == 0 {
				break scan
			}
			depth--
		case r == ',' && depth == 0:
			if m == inArray || looksLikeNextKeyAfterComma(s.cur, s.deny) {
				break scan
			}
		}
		s.cur.advance()
	}

	return strings.TrimSpace(s.cur.slice(start, s.cur.pos))
}
