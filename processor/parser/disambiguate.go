package parser

import "unicode"

// looksLikeNextKeyAfterComma decides whether the comma at the cursor ends the
// current primitive. It peeks past the comma without moving the cursor and
// accepts only a key-shaped word that is directly followed by '=', starts with
// a letter or underscore and is not a denied prose word.
//
// Message bodies that happen to contain "word=" after a comma still split
// here. That is a known limitation of the unquoted notation.
func looksLikeNextKeyAfterComma(c *cursor, deny *Denylist) bool {
	i := c.skipSpaceFrom(c.pos + 1)
	start := i
	for i < len(c.src) && isKeyRune(c.src[i]) {
		i++
	}
	if i == start {
		return false
	}

	if c.at(c.skipSpaceFrom(i)) != '=' {
		return false
	}

	first := c.src[start]
	if !unicode.IsLetter(first) && first != '_' {
		return false
	}

	return !deny.Contains(c.slice(start, i))
}
