// Package parser turns scheduler definition payloads into ordered value trees.
//
// # Overview
//
// Two notations are supported, both producing the same *Value tree:
//
//   - JSON (JSONParser, DecodeJSON): strict JSON, key order preserved.
//   - Java map notation (JavaMapParser, Parse): the unquoted
//     "{key=value, list=[a, b]}" text some export tools emit.
//
// A Value is a tagged variant. Consumers switch on Kind():
//
//	switch v.Kind() {
//	case parser.KindObject:
//	    v.Object().Range(func(key string, child *parser.Value) bool { ... })
//	case parser.KindArray:
//	    for _, item := range v.Array().Items() { ... }
//	case parser.KindBool:
//	    b, _ := v.BoolValue()
//	case parser.KindPrimitive, parser.KindNumber:
//	    s, _ := v.Text()
//	case parser.KindNull:
//	}
//
// The map notation is untyped: every scalar other than the exact tokens
// true and false is a primitive holding the trimmed source text. Numbers and
// nulls only appear in trees decoded from JSON.
//
// # Map Notation Grammar
//
//	root      = object | array | key ( "=" value | object | array )
//	object    = "{" [ key "=" value { "," key "=" value } ] "}"
//	array     = "[" [ value { "," value } ] "]"
//	value     = object | array | "true" | "false" | primitive
//	key       = text up to the first unescaped "="
//
// Primitives have no delimiters. A primitive ends at a closing bracket at
// nesting depth zero, or at a depth-zero comma: always inside arrays, and
// inside objects only when the text after the comma looks like the next key
// (letter or underscore first, key characters up to "=", not a denied word).
// The Denylist holds prose words from notification bodies that would
// otherwise be mistaken for keys:
//
//	Message=Estimado, informo a Ud., AttachOutput=false
//
// parses into Message="Estimado, informo a Ud." and AttachOutput=false.
// Free text that contains a real "word=" after a comma still splits; that is
// an inherent limit of the notation.
//
// Full-width closing glyphs (U+FF5D, U+FF3D) are accepted wherever '}' and
// ']' are.
//
// # Errors
//
// Every failure is a *ParseError carrying the rune position and the last key
// read. It unwraps to ErrEmptyInput, ErrMalformedStructure or ErrEmptyKey,
// and to errors.ErrParsingFailed:
//
//	_, err := parser.Parse("{A=1")
//	errors.Is(err, parser.ErrMalformedStructure) // true
//
// # Output
//
// Encode renders a tree as JSON with a caller-chosen indentation, preserving
// key order and leaving HTML characters unescaped.
package parser
