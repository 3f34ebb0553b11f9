package parser

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// KindObject is an ordered key/value mapping.
	KindObject Kind = iota
	// KindArray is an ordered sequence of values.
	KindArray
	// KindBool is an unquoted true/false literal.
	KindBool
	// KindPrimitive is trimmed literal text. The map notation is untyped, so
	// every scalar it produces is a primitive.
	KindPrimitive
	// KindNumber is a JSON number kept in its literal form. Only DecodeJSON produces it.
	KindNumber
	// KindNull is a JSON null. Only DecodeJSON produces it.
	KindNull
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindBool:
		return "bool"
	case KindPrimitive:
		return "primitive"
	case KindNumber:
		return "number"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// Value is a node of a parsed definitions tree.
type Value struct {
	kind Kind

	obj  *Object
	arr  *Array
	b    bool
	text string // primitive text or number literal
}

// NewObjectValue wraps an object. A nil object is replaced by an empty one.
func NewObjectValue(o *Object) *Value {
	if o == nil {
		o = NewObject()
	}
	return &Value{kind: KindObject, obj: o}
}

// NewArrayValue wraps an array. A nil array is replaced by an empty one.
func NewArrayValue(a *Array) *Value {
	if a == nil {
		a = NewArray()
	}
	return &Value{kind: KindArray, arr: a}
}

// Bool returns a boolean leaf.
func Bool(b bool) *Value {
	return &Value{kind: KindBool, b: b}
}

// Primitive returns a text leaf.
func Primitive(text string) *Value {
	return &Value{kind: KindPrimitive, text: text}
}

// Number returns a numeric leaf holding the literal as written.
func Number(literal string) *Value {
	return &Value{kind: KindNumber, text: literal}
}

// Null returns a null leaf.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Kind reports the variant of v.
func (v *Value) Kind() Kind {
	return v.kind
}

// Object returns the object held by v, or nil if v is not an object.
func (v *Value) Object() *Object {
	if v == nil || v.kind != KindObject {
		return nil
	}
	return v.obj
}

// Array returns the array held by v, or nil if v is not an array.
func (v *Value) Array() *Array {
	if v == nil || v.kind != KindArray {
		return nil
	}
	return v.arr
}

// BoolValue returns the boolean held by v and whether v is a boolean.
func (v *Value) BoolValue() (bool, bool) {
	if v == nil || v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Text returns the primitive text (or number literal) held by v and whether
// v carries text.
func (v *Value) Text() (string, bool) {
	if v == nil || (v.kind != KindPrimitive && v.kind != KindNumber) {
		return "", false
	}
	return v.text, true
}

// IsPrimitive reports whether v is a text leaf.
func (v *Value) IsPrimitive() bool {
	return v != nil && v.kind == KindPrimitive
}

// Lookup walks nested objects by key and returns the value at the end of the
// path, or nil when any segment is missing or not an object.
func (v *Value) Lookup(path ...string) *Value {
	cur := v
	for _, key := range path {
		obj := cur.Object()
		if obj == nil {
			return nil
		}
		next, ok := obj.Get(key)
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// Object is an insertion-ordered mapping from key to value.
type Object struct {
	keys   []string
	values map[string]*Value
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]*Value)}
}

// Set stores value under key. Re-setting an existing key replaces its value
// and keeps the key at its original position.
func (o *Object) Set(key string, value *Value) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (*Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of entries.
func (o *Object) Len() int {
	return len(o.keys)
}

// Range calls fn for every entry in insertion order until fn returns false.
func (o *Object) Range(fn func(key string, value *Value) bool) {
	for _, key := range o.keys {
		if !fn(key, o.values[key]) {
			return
		}
	}
}

// Array is an ordered sequence of values.
type Array struct {
	items []*Value
}

// NewArray creates an array holding items.
func NewArray(items ...*Value) *Array {
	return &Array{items: items}
}

// Append adds a value at the end.
func (a *Array) Append(v *Value) {
	a.items = append(a.items, v)
}

// Len returns the number of elements.
func (a *Array) Len() int {
	return len(a.items)
}

// At returns the element at index i.
func (a *Array) At(i int) *Value {
	return a.items[i]
}

// Items returns the elements in order. The slice is shared with the array.
func (a *Array) Items() []*Value {
	return a.items
}

// Texts returns the text of every text element, skipping the rest.
func (a *Array) Texts() []string {
	out := make([]string, 0, len(a.items))
	for _, item := range a.items {
		if s, ok := item.Text(); ok {
			out = append(out, s)
		}
	}
	return out
}
