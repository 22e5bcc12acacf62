// Copyright (c) 2025-present deep.rent GmbH (https://deep.rent)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package json implements a defensively bounded JSON (RFC 7159) object
// model and parser.
//
// Unlike encoding/json, values here are a tagged variant a caller builds and
// mutates directly, with an explicit lock/clone/invalidate lifecycle
// suited to carrying credential material: a signed JWT's header and claims,
// or a parsed JWK, are Values from construction through destruction, and
// nothing silently reparses a floating-point literal and loses precision
// along the way.
//
// # Building a value
//
//	obj := json.NewObject()
//	obj.Add("sub", json.NewString("alice"))
//	obj.AddFinal("iss", json.NewString("issuer")) // cannot be overwritten
//	obj.Lock()                                    // now fully read-only
//
// # Parsing
//
//	v, err := json.Parse(json.DefaultLimits(), []byte(`{"a":1}`))
package json

// Kind identifies which of the seven JSON shapes a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the lower-case RFC 7159 name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a tagged variant over the seven JSON shapes. The zero Value is a
// JSON null. Values are single-owner by default: Clone produces an
// independent deep copy, and Lock transitions a value (and, recursively, its
// children) to read-only.
type Value struct {
	kind Kind

	b   bool
	i   int64
	num string // preserved textual lexeme for Number; unused for Integer
	s   string

	arr []*Value
	obj *object

	locked bool
}

// NewNull returns a new Value holding the JSON null keyword.
func NewNull() *Value { return &Value{kind: KindNull} }

// NewBool returns a new Value holding a JSON boolean.
func NewBool(v bool) *Value { return &Value{kind: KindBool, b: v} }

// NewInteger returns a new Value holding a signed 64-bit JSON integer.
func NewInteger(v int64) *Value { return &Value{kind: KindInteger, i: v} }

// NewNumber returns a new Value holding a JSON number whose textual lexeme is
// preserved verbatim. The caller is responsible for passing a lexeme that
// conforms to the JSON number grammar; values produced by the parser are
// always pre-validated, but programmatically constructed ones are not
// re-validated here to keep construction allocation-free.
func NewNumber(lexeme string) *Value { return &Value{kind: KindNumber, num: lexeme} }

// NewString returns a new Value holding a JSON string.
func NewString(v string) *Value { return &Value{kind: KindString, s: v} }

// NewArray returns a new, empty JSON array Value.
func NewArray() *Value { return &Value{kind: KindArray} }

// NewObject returns a new, empty JSON object Value.
func NewObject() *Value { return &Value{kind: KindObject, obj: newObjectData()} }

// Kind reports which JSON shape this Value holds.
func (v *Value) Kind() Kind { return v.kind }

func (v *Value) IsNull() bool   { return v.kind == KindNull }
func (v *Value) IsBool() bool   { return v.kind == KindBool }
func (v *Value) IsInteger() bool {
	return v.kind == KindInteger
}
func (v *Value) IsNumber() bool { return v.kind == KindNumber || v.kind == KindInteger }
func (v *Value) IsString() bool { return v.kind == KindString }
func (v *Value) IsArray() bool  { return v.kind == KindArray }
func (v *Value) IsObject() bool { return v.kind == KindObject }

// Bool returns the boolean held by this Value, or ErrIncompatibleType if the
// Value is not a boolean.
func (v *Value) Bool() (bool, error) {
	if v.kind != KindBool {
		return false, wrongKind(v.kind, KindBool)
	}
	return v.b, nil
}

// Integer returns the signed 64-bit integer held by this Value, or
// ErrIncompatibleType if the Value is not an Integer.
func (v *Value) Integer() (int64, error) {
	if v.kind != KindInteger {
		return 0, wrongKind(v.kind, KindInteger)
	}
	return v.i, nil
}

// Number returns the preserved textual lexeme of a Number or Integer value,
// or ErrIncompatibleType otherwise. For an Integer, the lexeme is formatted
// on demand using strconv.
func (v *Value) Number() (string, error) {
	switch v.kind {
	case KindNumber:
		return v.num, nil
	case KindInteger:
		return formatInt(v.i), nil
	default:
		return "", wrongKind(v.kind, KindNumber)
	}
}

// Text returns the string held by this Value, or ErrIncompatibleType if the
// Value is not a string.
func (v *Value) Text() (string, error) {
	if v.kind != KindString {
		return "", wrongKind(v.kind, KindString)
	}
	return v.s, nil
}

func wrongKind(got, want Kind) error {
	return valueErr(ErrIncompatibleType, "expected %s, got %s", want, got)
}

// Clone returns an independent deep copy of this Value. The clone is always
// unlocked, regardless of the source's lock state.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	c := &Value{kind: v.kind, b: v.b, i: v.i, num: v.num, s: v.s}
	switch v.kind {
	case KindArray:
		c.arr = make([]*Value, len(v.arr))
		for i, e := range v.arr {
			c.arr[i] = e.Clone()
		}
	case KindObject:
		c.obj = v.obj.clone()
	}
	return c
}

// Lock transitions this Value, and recursively every Value it contains, to
// read-only. All subsequent mutation attempts fail with ErrPermViolation.
// Lock is idempotent.
func (v *Value) Lock() {
	if v == nil || v.locked {
		return
	}
	v.locked = true
	switch v.kind {
	case KindArray:
		for _, e := range v.arr {
			e.Lock()
		}
	case KindObject:
		v.obj.lock()
	}
}

// Locked reports whether Lock has been called on this Value.
func (v *Value) Locked() bool { return v.locked }

// Invalidate clears this Value's payload and releases its children,
// recursively. String and number lexemes are cleared with
// secure.EraseString, which drops the Value's reference but does not
// overwrite the immutable Go string's backing bytes; booleans and integers
// are zeroed. It must be called on any Value that may have carried
// credential material (signatures, symmetric key bytes, decoded payloads)
// once the Value is no longer needed. After Invalidate, the Value must not
// be used again.
func (v *Value) Invalidate() {
	if v == nil {
		return
	}
	switch v.kind {
	case KindString:
		eraseString(&v.s)
	case KindNumber:
		eraseString(&v.num)
	case KindArray:
		for _, e := range v.arr {
			e.Invalidate()
		}
		v.arr = nil
	case KindObject:
		v.obj.invalidate()
		v.obj = nil
	}
	v.b = false
	v.i = 0
}
