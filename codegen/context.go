// Package codegen implements the Code Generator (CG): a
// depth-first walker over an analysed ast.Program that builds a Wasm
// module by dispatching on each expression's construct kind.
package codegen

import (
	"github.com/stacks-network/clarity-wasm-sub001/abi"
	"github.com/stacks-network/clarity-wasm-sub001/ast"
	"github.com/stacks-network/clarity-wasm-sub001/memory"
	"github.com/stacks-network/clarity-wasm-sub001/stdruntime"
	"github.com/stacks-network/clarity-wasm-sub001/wasmbin"
)

// Generator holds everything shared across every function CG lowers for
// one contract: the module under construction, the standard runtime's
// resolved function indices, the Host Interface's resolved import
// indices, the linear-memory region manager, and the two-pass table of
// user-defined function indices.
type Generator struct {
	Module *wasmbin.Module
	SR     *stdruntime.Funcs
	HI     *hiFuncs
	Mem    *memory.Manager

	stackPtrGlobal uint32
	funcIndex      map[string]uint32
	funcDefs       map[string]*ast.FunctionDef

	nameLiterals map[string][2]uint32 // name -> (offset, length), deduplicated
}

// NewGenerator prepares a Generator: HI imports are added first, then SR
// (its own imports followed by its locally defined bodies), then the
// stack-pointer global. Every import must be in place before the first
// defined function, since Wasm numbers imports ahead of defined functions
// and an import added later would shift every index AddFunc already
// returned.
func NewGenerator() *Generator {
	m := &wasmbin.Module{}
	hi := buildHI(m)
	sr := stdruntime.Build(m)
	g := &Generator{
		Module:       m,
		SR:           sr,
		HI:           hi,
		Mem:          memory.NewManager(),
		funcIndex:    map[string]uint32{},
		funcDefs:     map[string]*ast.FunctionDef{},
		nameLiterals: map[string][2]uint32{},
	}
	// The stack pointer global's index must be fixed before any function
	// body is generated (GlobalGet/GlobalSet encode it inline), but its
	// initial value — the literal region's end — is only known once every
	// literal has been emitted; FinalizeMemory patches it in after the
	// fact the same way DefineFunctions patches deferred function bodies.
	g.stackPtrGlobal = m.AddGlobal(wasmbin.Global{
		Type:    wasmbin.ValueTypeI32,
		Mutable: true,
		Init:    wasmbin.NewInstr().I32Const(0).End().Bytes(),
	})
	return g
}

// FinalizeMemory patches the stack-pointer global's initial value to the
// literal region's final end, and sizes the module's memory section.
func (g *Generator) FinalizeMemory(headroomBytes uint32) {
	g.Module.Globals[g.stackPtrGlobal].Init = wasmbin.NewInstr().I32Const(int32(g.Mem.LiteralEnd())).End().Bytes()
	g.Module.Memory = wasmbin.MemoryLimits{
		Min: memory.MemoryPages(g.Mem.LiteralEnd(), headroomBytes),
	}
	for _, d := range g.Mem.DataInits() {
		g.Module.AddData(d.Offset, d.Bytes)
	}
}

// literalName returns the (offset, length) of s in the literal region,
// adding it on first use so repeated references to the same variable, map
// or asset name share one copy.
func (g *Generator) literalName(s string) (uint32, uint32) {
	if ol, ok := g.nameLiterals[s]; ok {
		return ol[0], ol[1]
	}
	off := g.Mem.AddLiteral([]byte(s))
	g.nameLiterals[s] = [2]uint32{off, uint32(len(s))}
	return off, uint32(len(s))
}

func valKindToWasm(k abi.ValKind) wasmbin.ValueType {
	if k == abi.I64 {
		return wasmbin.ValueTypeI64
	}
	return wasmbin.ValueTypeI32
}

// funcCtx is the per-function lowering state: the growing list of extra
// locals (beyond parameters), the name->local-slots environment, and the
// instruction sequence being assembled.
type funcCtx struct {
	g *Generator

	paramCount uint32
	locals     []wasmbin.ValueType // additional locals, indices start at paramCount

	env     map[string][]uint32
	envType map[string]abi.Type

	body *wasmbin.Instr

	returnType abi.Type
	inPublic   bool // true for define-public
	hasBracket bool // true for define-public/define-read-only (either opened a call bracket)

	frame    *memory.Frame
	framePtr uint32 // local index holding this frame's base address
}

func newFuncCtx(g *Generator, paramCount uint32, retType abi.Type) *funcCtx {
	return &funcCtx{
		g:          g,
		paramCount: paramCount,
		env:        map[string][]uint32{},
		envType:    map[string]abi.Type{},
		body:       wasmbin.NewInstr(),
		returnType: retType,
		frame:      &memory.Frame{},
	}
}

// allocLocals reserves one fresh local per Wasm value slot of t and
// returns their indices in shape order.
func (fc *funcCtx) allocLocals(t abi.Type) []uint32 {
	shape := abi.WasmShape(t)
	out := make([]uint32, len(shape))
	for i, k := range shape {
		idx := fc.paramCount + uint32(len(fc.locals))
		fc.locals = append(fc.locals, valKindToWasm(k))
		out[i] = idx
	}
	return out
}

// allocRawLocal reserves one fresh local of a raw Wasm value type, for
// lowering helpers that need scratch space not tied to a source-language
// type's shape (e.g. word-by-word equality).
func (fc *funcCtx) allocRawLocal(vt wasmbin.ValueType) uint32 {
	idx := fc.paramCount + uint32(len(fc.locals))
	fc.locals = append(fc.locals, vt)
	return idx
}

// bind introduces name into the environment, bound to freshly allocated
// locals of type t; the caller is responsible for having already pushed
// t's direct representation onto the stack in order, so storeInto runs
// immediately after.
func (fc *funcCtx) bind(name string, t abi.Type) []uint32 {
	locals := fc.allocLocals(t)
	fc.env[name] = locals
	fc.envType[name] = t
	return locals
}

// storeLocals pops len(locals) stack values into locals, in reverse
// order (the top of the stack is the last shape slot).
func storeLocals(body *wasmbin.Instr, locals []uint32) {
	for i := len(locals) - 1; i >= 0; i-- {
		body.LocalSet(locals[i])
	}
}

// loadLocals pushes locals onto the stack in order.
func loadLocals(body *wasmbin.Instr, locals []uint32) {
	for _, idx := range locals {
		body.LocalGet(idx)
	}
}

// pushZeros pushes len(shape) zero constants, used for the inactive arm
// of an optional/response crossing a function boundary.
func pushZeros(body *wasmbin.Instr, shape []abi.ValKind) {
	for _, k := range shape {
		if k == abi.I64 {
			body.I64Const(0)
		} else {
			body.I32Const(0)
		}
	}
}
