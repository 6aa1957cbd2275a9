// Package abi implements the Type ABI: the mapping from source-language
// types to Wasm value-stack shapes and linear-memory layouts.
package abi

import "fmt"

// Kind distinguishes the shape of a source-language type.
type Kind int

const (
	KindInt Kind = iota
	KindUint
	KindBool
	KindPrincipal
	KindBuff
	KindStringASCII
	KindStringUTF8
	KindList
	KindTuple
	KindOptional
	KindResponse
	KindTrait
	KindNoType
)

// Type is the abstract, statically known type of a source-language value.
// It is immutable once constructed; the ABI never carries a runtime type
// tag alongside a value (other than the one-word discriminant of Optional
// and Response).
type Type struct {
	Kind Kind

	// MaxLen is the maximum element/byte count for Buff, StringASCII,
	// StringUTF8 and List.
	MaxLen uint32

	// Elem is the element type for List.
	Elem *Type

	// Fields holds tuple fields already sorted into canonical key order.
	// Build it with NewTuple, which does the sorting; a slice set by hand
	// is used in whatever order it is given.
	Fields []TupleField

	// Some/Ok/Err hold the carried type(s) for Optional and Response.
	Some *Type
	Ok   *Type
	Err  *Type
}

// TupleField is one key/type pair of a Tuple, in canonical order.
type TupleField struct {
	Key  string
	Type Type
}

var (
	Int       = Type{Kind: KindInt}
	Uint      = Type{Kind: KindUint}
	Bool      = Type{Kind: KindBool}
	Principal = Type{Kind: KindPrincipal}
	NoType    = Type{Kind: KindNoType}
)

// Buff constructs a buff(n) type.
func Buff(n uint32) Type { return Type{Kind: KindBuff, MaxLen: n} }

// StringASCII constructs a string-ascii(n) type.
func StringASCII(n uint32) Type { return Type{Kind: KindStringASCII, MaxLen: n} }

// StringUTF8 constructs a string-utf8(n) type. Length is a codepoint bound;
// the in-memory representation budgets 4 bytes per codepoint (see
// MemorySize), matching the source language's fixed-width UTF-8 encoding.
func StringUTF8(n uint32) Type { return Type{Kind: KindStringUTF8, MaxLen: n} }

// List constructs a list(T, n) type.
func List(elem Type, n uint32) Type {
	return Type{Kind: KindList, MaxLen: n, Elem: &elem}
}

// NewTuple sorts fields by key into canonical order and builds a tuple type.
// Canonical order must be stable across all emitted code for a module, so
// every caller must route tuple construction through here rather than
// building Fields directly.
func NewTuple(fields map[string]Type) Type {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sortStrings(keys)
	out := make([]TupleField, len(keys))
	for i, k := range keys {
		out[i] = TupleField{Key: k, Type: fields[k]}
	}
	return Type{Kind: KindTuple, Fields: out}
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// Optional constructs an (optional T) type.
func Optional(some Type) Type { return Type{Kind: KindOptional, Some: &some} }

// Response constructs a (response T E) type.
func Response(ok, err Type) Type { return Type{Kind: KindResponse, Ok: &ok, Err: &err} }

func (t Type) String() string {
	switch t.Kind {
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindBool:
		return "bool"
	case KindPrincipal:
		return "principal"
	case KindBuff:
		return fmt.Sprintf("(buff %d)", t.MaxLen)
	case KindStringASCII:
		return fmt.Sprintf("(string-ascii %d)", t.MaxLen)
	case KindStringUTF8:
		return fmt.Sprintf("(string-utf8 %d)", t.MaxLen)
	case KindList:
		return fmt.Sprintf("(list %d %s)", t.MaxLen, t.Elem)
	case KindTuple:
		s := "(tuple"
		for _, f := range t.Fields {
			s += fmt.Sprintf(" (%s %s)", f.Key, f.Type)
		}
		return s + ")"
	case KindOptional:
		return fmt.Sprintf("(optional %s)", t.Some)
	case KindResponse:
		return fmt.Sprintf("(response %s %s)", t.Ok, t.Err)
	case KindTrait:
		return "trait_reference"
	case KindNoType:
		return "UnknownType"
	default:
		return "?"
	}
}

// IsSequence reports whether t is one of the three sequence kinds.
func (t Type) IsSequence() bool {
	switch t.Kind {
	case KindBuff, KindStringASCII, KindStringUTF8, KindList:
		return true
	}
	return false
}
