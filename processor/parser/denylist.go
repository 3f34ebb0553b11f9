package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// defaultDenylistWords are prose words that show up in Message/Subject bodies
// right before an '=' from unrelated content. A key-shaped word from this list
// after a comma never starts a new key. Keep the list as data; it is matched
// in its lowercase and capitalized forms.
var defaultDenylistWords = []string{
	"estimado", "estimados", "estimada", "estimadas",
	"informo", "informa", "informamos",
	"que", "se", "el", "la", "los", "las", "lo",
	"de", "del", "al", "en",
	"por", "para", "con", "sin", "su", "sus",
	"un", "una", "es", "fue", "ha", "no", "si",
	"ud", "uds", "usted", "ustedes",
	"proceso", "procesos", "detallado",
	"asunto", "atte", "saludos", "favor", "gracias",
	"finalizo", "finalizó", "incorrectamente", "correctamente",
	"ademas", "además", "registra", "promedio",
	"ejecucion", "ejecución", "termino", "término",
	"operador", "sistema", "revisar",
}

// Denylist is an immutable set of words that must not be accepted as keys by
// the comma lookahead. Extend it with With, which returns a new set.
type Denylist struct {
	words map[string]struct{}
}

// NewDenylist builds a set holding words in their given, lowercase and
// capitalized forms.
func NewDenylist(words ...string) *Denylist {
	d := &Denylist{words: make(map[string]struct{}, len(words)*2)}
	d.add(words)
	return d
}

// DefaultDenylist returns the built-in set.
func DefaultDenylist() *Denylist {
	return NewDenylist(defaultDenylistWords...)
}

// With returns a copy of d extended with words.
func (d *Denylist) With(words ...string) *Denylist {
	out := &Denylist{words: make(map[string]struct{}, len(d.words)+len(words)*2)}
	for w := range d.words {
		out.words[w] = struct{}{}
	}
	out.add(words)
	return out
}

func (d *Denylist) add(words []string) {
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		d.words[w] = struct{}{}
		lower := strings.ToLower(w)
		d.words[lower] = struct{}{}
		d.words[capitalize(lower)] = struct{}{}
	}
}

// Contains reports whether word is denied.
func (d *Denylist) Contains(word string) bool {
	if d == nil {
		return false
	}
	_, ok := d.words[word]
	return ok
}

// Len returns the number of distinct forms held.
func (d *Denylist) Len() int {
	if d == nil {
		return 0
	}
	return len(d.words)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
