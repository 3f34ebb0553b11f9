package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/c360/jobmap/errors"
)

// JSONParser handles strict JSON input, decoding it into an ordered value tree
type JSONParser struct{}

// NewJSONParser creates a new JSON parser
func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

// Parse parses JSON data into an ordered value tree
func (p *JSONParser) Parse(data []byte) (*Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ParseError{Pos: -1, Err: ErrEmptyInput}
	}

	v, err := DecodeJSON(data)
	if err != nil {
		return nil, errors.WrapInvalid(err, "JSONParser", "Parse", "json parsing failed")
	}

	return v, nil
}

// Format returns the format name
func (p *JSONParser) Format() string {
	return FormatJSON
}

// Validate checks if the data is valid JSON
func (p *JSONParser) Validate(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return &ParseError{Pos: -1, Err: ErrEmptyInput}
	}

	if !json.Valid(data) {
		var temp any
		err := json.Unmarshal(data, &temp)
		return errors.WrapInvalid(err, "JSONParser", "Validate", "invalid json format")
	}

	return nil
}

// DecodeJSON decodes a single JSON document, keeping object key order.
// Strings become primitives, numbers keep their literal text.
func DecodeJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec, 0)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("unexpected trailing data at offset %d", dec.InputOffset())
		}
		return nil, err
	}
	return v, nil
}

func decodeValue(dec *json.Decoder, depth int) (*Value, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("nesting too deep at offset %d", dec.InputOffset())
	}

	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T at offset %d", keyTok, dec.InputOffset())
				}
				child, err := decodeValue(dec, depth+1)
				if err != nil {
					return nil, err
				}
				obj.Set(key, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return NewObjectValue(obj), nil
		case '[':
			arr := NewArray()
			for dec.More() {
				child, err := decodeValue(dec, depth+1)
				if err != nil {
					return nil, err
				}
				arr.Append(child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return NewArrayValue(arr), nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q at offset %d", rune(t), dec.InputOffset())
		}
	case string:
		return Primitive(t), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t.String()), nil
	case nil:
		return Null(), nil
	default:
		return nil, fmt.Errorf("unexpected token %T", tok)
	}
}

// Encode renders v as JSON. indent > 0 pretty-prints with that many spaces per
// level. HTML characters are not escaped.
func Encode(v *Value, indent int) ([]byte, error) {
	var compact bytes.Buffer
	if err := appendJSON(&compact, v); err != nil {
		return nil, err
	}
	if indent <= 0 {
		return compact.Bytes(), nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", strings.Repeat(" ", indent)); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// MarshalJSON implements json.Marshaler, preserving key order.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := appendJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, preserving key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	*v = *decoded
	return nil
}

func appendJSON(buf *bytes.Buffer, v *Value) error {
	if v == nil {
		buf.WriteString("null")
		return nil
	}

	switch v.kind {
	case KindObject:
		buf.WriteByte('{')
		var err error
		first := true
		v.obj.Range(func(key string, child *Value) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err = appendString(buf, key); err != nil {
				return false
			}
			buf.WriteByte(':')
			err = appendJSON(buf, child)
			return err == nil
		})
		if err != nil {
			return err
		}
		buf.WriteByte('}')
	case KindArray:
		buf.WriteByte('[')
		for i, child := range v.arr.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendJSON(buf, child); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindPrimitive:
		return appendString(buf, v.text)
	case KindNumber:
		buf.WriteString(v.text)
	case KindNull:
		buf.WriteString("null")
	default:
		return fmt.Errorf("cannot encode value of kind %s", v.kind)
	}
	return nil
}

func appendString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encoder terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
