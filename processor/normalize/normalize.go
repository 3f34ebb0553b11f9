package normalize

import (
	"strings"

	"github.com/c360/jobmap/processor/parser"
)

// Config selects which object keys each rule applies to. Matching is exact
// and case-sensitive.
type Config struct {
	PrefixFields []string `json:"prefix_fields" yaml:"prefix_fields"`
	EscapeFields []string `json:"escape_fields" yaml:"escape_fields"`
}

// DefaultConfig returns the field sets the deployment API expects.
func DefaultConfig() Config {
	return Config{
		PrefixFields: []string{"OS400-JOBD"},
		EscapeFields: []string{"Message", "Subject"},
	}
}

// Stats counts the rewrites performed by one Normalize call.
type Stats struct {
	Prefixed int
	Escaped  int
	Visited  int // containers walked
}

// Normalizer applies field rewrites to a parsed tree in place. It holds no
// per-call state and is safe for concurrent use on distinct trees.
type Normalizer struct {
	prefixFields map[string]bool // Set for fast lookup
	escapeFields map[string]bool
}

// New creates a Normalizer from configuration.
func New(cfg Config) *Normalizer {
	n := &Normalizer{
		prefixFields: make(map[string]bool, len(cfg.PrefixFields)),
		escapeFields: make(map[string]bool, len(cfg.EscapeFields)),
	}
	for _, f := range cfg.PrefixFields {
		n.prefixFields[f] = true
	}
	for _, f := range cfg.EscapeFields {
		n.escapeFields[f] = true
	}
	return n
}

var defaultNormalizer = New(DefaultConfig())

// Normalize rewrites v with the default field sets and returns it.
func Normalize(v *parser.Value) *parser.Value {
	return defaultNormalizer.Normalize(v)
}

// Normalize rewrites v in place and returns it.
func (n *Normalizer) Normalize(v *parser.Value) *parser.Value {
	out, _ := n.NormalizeWithStats(v)
	return out
}

// NormalizeWithStats rewrites v in place and reports what changed. Running it
// again on its own output changes nothing.
func (n *Normalizer) NormalizeWithStats(v *parser.Value) (*parser.Value, Stats) {
	w := walk{n: n, visited: make(map[any]struct{})}
	w.value(v)
	return v, w.stats
}

// walk is one traversal. visited is keyed by container pointer so a shared or
// cyclic subtree is entered once.
type walk struct {
	n       *Normalizer
	visited map[any]struct{}
	stats   Stats
}

func (w *walk) seen(container any) bool {
	if _, ok := w.visited[container]; ok {
		return true
	}
	w.visited[container] = struct{}{}
	w.stats.Visited++
	return false
}

func (w *walk) value(v *parser.Value) {
	if v == nil {
		return
	}
	switch v.Kind() {
	case parser.KindObject:
		w.object(v.Object())
	case parser.KindArray:
		w.array(v.Array())
	case parser.KindBool, parser.KindPrimitive, parser.KindNumber, parser.KindNull:
	}
}

func (w *walk) object(obj *parser.Object) {
	if obj == nil || w.seen(obj) {
		return
	}

	obj.Range(func(key string, child *parser.Value) bool {
		if child.IsPrimitive() {
			text, _ := child.Text()
			if w.n.prefixFields[key] {
				if out := PrefixPath(text); out != text {
					obj.Set(key, parser.Primitive(out))
					w.stats.Prefixed++
				}
			}
			if w.n.escapeFields[key] {
				current, _ := obj.Get(key)
				text, _ = current.Text()
				if out := EscapeControl(text); out != text {
					obj.Set(key, parser.Primitive(out))
					w.stats.Escaped++
				}
			}
			return true
		}
		w.value(child)
		return true
	})
}

func (w *walk) array(arr *parser.Array) {
	if arr == nil || w.seen(arr) {
		return
	}
	for _, item := range arr.Items() {
		w.value(item)
	}
}

// PrefixPath trims s and prepends '*' unless it is empty or already starts
// with one.
func PrefixPath(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || strings.HasPrefix(trimmed, "*") {
		return trimmed
	}
	return "*" + trimmed
}

// EscapeControl folds CR LF and lone CR to LF, replaces LF, TAB, FF and BS
// with their two-character escapes and drops every other byte below 0x20.
func EscapeControl(s string) string {
	if !hasControl(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			b.WriteString(`\n`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\f':
			b.WriteString(`\f`)
		case '\b':
			b.WriteString(`\b`)
		default:
			if c < 0x20 {
				continue
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}

func hasControl(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 {
			return true
		}
	}
	return false
}
