package wasmbin

import "github.com/stacks-network/clarity-wasm-sub001/internal/leb128"

// FuncType is a function signature, keyed into the module's type section
// by its position.
type FuncType struct {
	Params  []ValueType
	Results []ValueType
}

// Import describes one imported func, memory or global. The HI imports all
// live under the fixed "clarity" namespace; the standard runtime's
// arithmetic and hash functions are imported under "stdruntime", while its
// comparison, bitwise, shift and memcpy bodies are defined in the module
// and called as ordinary intra-module functions.
type Import struct {
	Module, Name string
	Kind         ExternKind
	TypeIndex    uint32 // ExternKindFunc
	GlobalType   ValueType
	GlobalMut    bool
}

// Export describes one export: every public/read-only function, plus the
// module's memory and `.top-level` initializer.
type Export struct {
	Name  string
	Kind  ExternKind
	Index uint32
}

// Global is a module-level global. The compiler only ever needs one: the
// mutable i32 stack pointer.
type Global struct {
	Type    ValueType
	Mutable bool
	Init    []byte // a constant-expression instruction sequence, already End-terminated
}

// Func is a defined (non-imported) function: its signature is looked up by
// TypeIndex, and Locals/Body make up its code-section entry.
type Func struct {
	TypeIndex uint32
	Locals    []ValueType // additional locals beyond the parameters, one ValueType per local
	Body      []byte      // instruction sequence, already End-terminated
}

// Module accumulates the pieces of an in-progress Wasm module. It makes no
// attempt at general-purpose module surgery: it is built once, forward
// only, by the code generator and standard runtime.
type Module struct {
	Types     []FuncType
	Imports   []Import
	Funcs     []Func
	Memory    MemoryLimits
	Globals   []Global
	Exports   []Export
	DataInits []DataInit
}

// MemoryLimits is the module's single linear memory's min/max page counts.
// Max applies only when HasMax is set; without it the memory is unbounded,
// matching the Wasm binary encoding's limits flag byte.
type MemoryLimits struct {
	Min uint32
	Max uint32
	HasMax bool
}

// DataInit is one active data segment: bytes written into linear memory at
// module instantiation, used for the literal region.
type DataInit struct {
	Offset uint32
	Bytes  []byte
}

// AddType interns ft, returning its index. The code generator calls this
// once per distinct function signature it needs (imports and definitions
// alike share the same type space).
func (m *Module) AddType(ft FuncType) uint32 {
	for i, existing := range m.Types {
		if sameSig(existing, ft) {
			return uint32(i)
		}
	}
	m.Types = append(m.Types, ft)
	return uint32(len(m.Types) - 1)
}

func sameSig(a, b FuncType) bool {
	if len(a.Params) != len(b.Params) || len(a.Results) != len(b.Results) {
		return false
	}
	for i := range a.Params {
		if a.Params[i] != b.Params[i] {
			return false
		}
	}
	for i := range a.Results {
		if a.Results[i] != b.Results[i] {
			return false
		}
	}
	return true
}

// AddImportFunc registers an imported function and returns its index in the
// function index space (imports are numbered before module-defined
// functions, per the Wasm spec).
func (m *Module) AddImportFunc(namespace, name string, ft FuncType) uint32 {
	idx := m.numImportedFuncs()
	m.Imports = append(m.Imports, Import{Module: namespace, Name: name, Kind: ExternKindFunc, TypeIndex: m.AddType(ft)})
	return idx
}

func (m *Module) numImportedFuncs() uint32 {
	var n uint32
	for _, im := range m.Imports {
		if im.Kind == ExternKindFunc {
			n++
		}
	}
	return n
}

// AddFunc appends a module-defined function and returns its index in the
// function index space.
func (m *Module) AddFunc(f Func) uint32 {
	m.Funcs = append(m.Funcs, f)
	return m.numImportedFuncs() + uint32(len(m.Funcs)) - 1
}

// AddGlobal appends a global and returns its index.
func (m *Module) AddGlobal(g Global) uint32 {
	m.Globals = append(m.Globals, g)
	return uint32(len(m.Globals) - 1)
}

// AddExport exports the given index under name.
func (m *Module) AddExport(name string, kind ExternKind, index uint32) {
	m.Exports = append(m.Exports, Export{Name: name, Kind: kind, Index: index})
}

// AddData appends an active data segment.
func (m *Module) AddData(offset uint32, b []byte) {
	m.DataInits = append(m.DataInits, DataInit{Offset: offset, Bytes: b})
}

const (
	magic   = "\x00asm"
	version = 1
)

const (
	secType    byte = 1
	secImport  byte = 2
	secFunc    byte = 3
	secTable   byte = 4
	secMemory  byte = 5
	secGlobal  byte = 6
	secExport  byte = 7
	secStart   byte = 8
	secElement byte = 9
	secCode    byte = 10
	secData    byte = 11
)

// Encode assembles the module into a standalone WebAssembly binary.
func (m *Module) Encode() []byte {
	out := append([]byte{}, magic...)
	out = append(out, byte(version), 0, 0, 0) // version is a plain 4-byte little-endian u32, not LEB128

	if len(m.Types) > 0 {
		out = appendSection(out, secType, m.encodeTypeSection())
	}
	if len(m.Imports) > 0 {
		out = appendSection(out, secImport, m.encodeImportSection())
	}
	if len(m.Funcs) > 0 {
		out = appendSection(out, secFunc, m.encodeFuncSection())
	}
	if m.Memory.Min > 0 || m.Memory.HasMax {
		out = appendSection(out, secMemory, m.encodeMemorySection())
	}
	if len(m.Globals) > 0 {
		out = appendSection(out, secGlobal, m.encodeGlobalSection())
	}
	if len(m.Exports) > 0 {
		out = appendSection(out, secExport, m.encodeExportSection())
	}
	if len(m.Funcs) > 0 {
		out = appendSection(out, secCode, m.encodeCodeSection())
	}
	if len(m.DataInits) > 0 {
		out = appendSection(out, secData, m.encodeDataSection())
	}
	return out
}

func appendSection(out []byte, id byte, body []byte) []byte {
	out = append(out, id)
	out = leb128.AppendUint32(out, uint32(len(body)))
	return append(out, body...)
}

func appendVec[T any](out []byte, items []T, encode func([]byte, T) []byte) []byte {
	out = leb128.AppendUint32(out, uint32(len(items)))
	for _, it := range items {
		out = encode(out, it)
	}
	return out
}

func (m *Module) encodeTypeSection() []byte {
	return appendVec(nil, m.Types, func(out []byte, ft FuncType) []byte {
		out = append(out, 0x60) // func type tag
		out = appendVec(out, ft.Params, func(o []byte, vt ValueType) []byte { return append(o, vt) })
		out = appendVec(out, ft.Results, func(o []byte, vt ValueType) []byte { return append(o, vt) })
		return out
	})
}

func (m *Module) encodeImportSection() []byte {
	return appendVec(nil, m.Imports, func(out []byte, im Import) []byte {
		out = appendName(out, im.Module)
		out = appendName(out, im.Name)
		out = append(out, im.Kind)
		switch im.Kind {
		case ExternKindFunc:
			out = leb128.AppendUint32(out, im.TypeIndex)
		case ExternKindGlobal:
			out = append(out, im.GlobalType)
			out = appendBool(out, im.GlobalMut)
		}
		return out
	})
}

func (m *Module) encodeFuncSection() []byte {
	return appendVec(nil, m.Funcs, func(out []byte, f Func) []byte {
		return leb128.AppendUint32(out, f.TypeIndex)
	})
}

func (m *Module) encodeMemorySection() []byte {
	return appendVec(nil, []MemoryLimits{m.Memory}, func(out []byte, lim MemoryLimits) []byte {
		return appendLimits(out, lim)
	})
}

func appendLimits(out []byte, lim MemoryLimits) []byte {
	if lim.HasMax {
		out = append(out, 0x01)
		out = leb128.AppendUint32(out, lim.Min)
		out = leb128.AppendUint32(out, lim.Max)
	} else {
		out = append(out, 0x00)
		out = leb128.AppendUint32(out, lim.Min)
	}
	return out
}

func (m *Module) encodeGlobalSection() []byte {
	return appendVec(nil, m.Globals, func(out []byte, g Global) []byte {
		out = append(out, g.Type)
		out = appendBool(out, g.Mutable)
		return append(out, g.Init...)
	})
}

func (m *Module) encodeExportSection() []byte {
	return appendVec(nil, m.Exports, func(out []byte, e Export) []byte {
		out = appendName(out, e.Name)
		out = append(out, e.Kind)
		return leb128.AppendUint32(out, e.Index)
	})
}

func (m *Module) encodeCodeSection() []byte {
	return appendVec(nil, m.Funcs, func(out []byte, f Func) []byte {
		body := encodeLocals(f.Locals)
		body = append(body, f.Body...)
		out = leb128.AppendUint32(out, uint32(len(body)))
		return append(out, body...)
	})
}

// encodeLocals groups consecutive identical ValueTypes into (count, type)
// runs, as the binary format requires.
func encodeLocals(locals []ValueType) []byte {
	type run struct {
		vt    ValueType
		count uint32
	}
	var runs []run
	for _, vt := range locals {
		if len(runs) > 0 && runs[len(runs)-1].vt == vt {
			runs[len(runs)-1].count++
			continue
		}
		runs = append(runs, run{vt: vt, count: 1})
	}
	return appendVec(nil, runs, func(out []byte, r run) []byte {
		out = leb128.AppendUint32(out, r.count)
		return append(out, r.vt)
	})
}

func (m *Module) encodeDataSection() []byte {
	return appendVec(nil, m.DataInits, func(out []byte, d DataInit) []byte {
		out = leb128.AppendUint32(out, 0) // memory index 0
		out = append(out, OpI32Const)
		out = leb128.AppendInt32(out, int32(d.Offset))
		out = append(out, OpEnd)
		out = leb128.AppendUint32(out, uint32(len(d.Bytes)))
		return append(out, d.Bytes...)
	})
}

func appendName(out []byte, s string) []byte {
	out = leb128.AppendUint32(out, uint32(len(s)))
	return append(out, s...)
}

func appendBool(out []byte, b bool) []byte {
	if b {
		return append(out, 1)
	}
	return append(out, 0)
}

// ConstI32 builds a constant-expression global initializer.
func ConstI32(v int32) []byte {
	i := NewInstr().I32Const(v).End()
	return i.Bytes()
}
