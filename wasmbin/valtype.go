// Package wasmbin is a minimal WebAssembly 1.0 module assembler: the code
// generator builds up types, imports, globals, functions and instruction
// sequences through this package, then calls Module.Encode to produce the
// final binary.
//
// It intentionally does not decode, validate beyond what it needs to stay
// internally consistent, or execute Wasm: compiling/running the result is
// the host runtime's job (see hostiface and the wazero-backed tests).
package wasmbin

// ValueType is a WebAssembly value type byte. Values match the encoding
// used by the WebAssembly binary format (and by wazero's api.ValueType).
type ValueType = byte

const (
	ValueTypeI32 ValueType = 0x7f
	ValueTypeI64 ValueType = 0x7e
	ValueTypeF32 ValueType = 0x7d
	ValueTypeF64 ValueType = 0x7c
)

// ExternKind classifies an import or export.
type ExternKind = byte

const (
	ExternKindFunc ExternKind = iota
	ExternKindTable
	ExternKindMemory
	ExternKindGlobal
)
