package abi

// ValKind is a Wasm value kind used in the direct representation of a
// source-language type. It mirrors the subset of WebAssembly value types
// the compiler ever pushes to the value stack.
type ValKind byte

const (
	I32 ValKind = iota
	I64
)

// WasmShape returns the ordered Wasm value kinds the direct representation
// of t occupies. For Response, both arms are included, recursively: the
// inactive arm's slots exist on the stack but carry zeros.
func WasmShape(t Type) []ValKind {
	switch t.Kind {
	case KindInt, KindUint:
		return []ValKind{I64, I64}
	case KindBool:
		return []ValKind{I32}
	case KindNoType:
		return []ValKind{I32}
	case KindPrincipal, KindBuff, KindStringASCII, KindStringUTF8:
		return []ValKind{I32, I32} // (offset, length)
	case KindList:
		return []ValKind{I32, I32} // (offset, length) into memory; lists are always in-memory
	case KindTuple:
		if IsInMemory(t) {
			return []ValKind{I32, I32}
		}
		var shape []ValKind
		for _, f := range t.Fields {
			shape = append(shape, WasmShape(f.Type)...)
		}
		return shape
	case KindOptional:
		shape := []ValKind{I32} // discriminant
		shape = append(shape, WasmShape(*t.Some)...)
		return shape
	case KindResponse:
		shape := []ValKind{I32} // discriminant
		shape = append(shape, WasmShape(*t.Ok)...)
		shape = append(shape, WasmShape(*t.Err)...)
		return shape
	case KindTrait:
		return nil // function/trait references carry no runtime value
	default:
		return nil
	}
}

// IsInMemory reports whether t's indirect representation is required
// anywhere t appears directly: sequences, principals, and any composite
// that contains one. The predicate is a pure function of the static type.
func IsInMemory(t Type) bool {
	switch t.Kind {
	case KindPrincipal, KindBuff, KindStringASCII, KindStringUTF8, KindList:
		return true
	case KindTuple:
		for _, f := range t.Fields {
			if IsInMemory(f.Type) {
				return true
			}
		}
		return false
	case KindOptional:
		return IsInMemory(*t.Some)
	case KindResponse:
		return IsInMemory(*t.Ok) || IsInMemory(*t.Err)
	default:
		return false
	}
}

// MemorySize returns the byte size of the indirect representation of t. For
// variable-length sequences this is the maximum permitted by the static
// type, never the current content length: the predicate that decides
// layout is fixed for the module's lifetime.
func MemorySize(t Type) uint32 {
	switch t.Kind {
	case KindInt, KindUint:
		return 16
	case KindBool:
		return 1
	case KindNoType:
		return 0
	case KindPrincipal:
		return principalMaxSize
	case KindBuff, KindStringASCII:
		return t.MaxLen
	case KindStringUTF8:
		return t.MaxLen * 4 // fixed-width 4 bytes/codepoint, see StringUTF8
	case KindList:
		return t.MaxLen * MemorySize(*t.Elem)
	case KindTuple:
		var size uint32
		for _, f := range t.Fields {
			size += MemorySize(f.Type)
		}
		return size
	case KindOptional:
		return 1 + MemorySize(*t.Some)
	case KindResponse:
		return 1 + MemorySize(*t.Ok) + MemorySize(*t.Err)
	default:
		return 0
	}
}

// principalMaxSize is a 1-byte version tag, 20-byte hash, 1-byte name
// length prefix and a maximum 40-byte contract name.
const principalMaxSize = 1 + 20 + 1 + 40

// NumDirectSlots is the number of value-stack slots WasmShape(t) occupies;
// it is the quantity sometimes written |wasm_shape(T)|.
func NumDirectSlots(t Type) int { return len(WasmShape(t)) }
