package codegen

import (
	"math/big"

	"github.com/stacks-network/clarity-wasm-sub001/abi"
	"github.com/stacks-network/clarity-wasm-sub001/ast"
	"github.com/stacks-network/clarity-wasm-sub001/memory"
	"github.com/stacks-network/clarity-wasm-sub001/wasmbin"
)

// NewTopLevelCtx creates the lowering context for the `.top-level`
// initializer: a zero-parameter, no-result function whose only job is to
// register every persistent-state definition with the Host Interface.
func (g *Generator) NewTopLevelCtx() *funcCtx {
	fc := newFuncCtx(g, 0, abi.NoType)
	fc.framePtr = fc.paramCount + uint32(len(fc.locals))
	fc.locals = append(fc.locals, wasmbin.ValueTypeI32)
	return fc
}

// EmitDefineVariable materializes a `define-data-var`'s initial value and
// registers it.
func (g *Generator) EmitDefineVariable(fc *funcCtx, vd *ast.VariableDef) {
	nameOff, nameLen := g.literalName(vd.Name)
	initOff, initSize := fc.materializeToFrame(g, &vd.Initial)

	fc.body.I32Const(int32(nameOff)).I32Const(int32(nameLen))
	pushFrameAddr(fc, initOff)
	fc.body.I32Const(int32(initSize))
	fc.body.Call(g.HI.defineVariable)
}

// EmitDefineMap registers a `define-map`.
func (g *Generator) EmitDefineMap(fc *funcCtx, md *ast.MapDef) {
	nameOff, nameLen := g.literalName(md.Name)
	fc.body.I32Const(int32(nameOff)).I32Const(int32(nameLen))
	fc.body.Call(g.HI.defineMap)
}

// EmitDefineFT registers a `define-fungible-token`, with its supply cap
// (if any) split into the two i64 words define_ft expects.
func (g *Generator) EmitDefineFT(fc *funcCtx, ft *ast.FTDef) {
	nameOff, nameLen := g.literalName(ft.Name)
	fc.body.I32Const(int32(nameOff)).I32Const(int32(nameLen))

	hasCap := int32(0)
	var lo, hi uint64
	if ft.HasCap {
		hasCap = 1
		lo, hi = splitDecimalToWords(ft.Cap)
	}
	fc.body.I32Const(hasCap)
	fc.body.I64Const(int64(lo)).I64Const(int64(hi))
	fc.body.Call(g.HI.defineFT)
}

// EmitDefineNFT registers a `define-non-fungible-token`.
func (g *Generator) EmitDefineNFT(fc *funcCtx, nd *ast.NFTDef) {
	nameOff, nameLen := g.literalName(nd.Name)
	fc.body.I32Const(int32(nameOff)).I32Const(int32(nameLen))
	fc.body.Call(g.HI.defineNFT)
}

// EmitDefineFunction records a user function's definition kind under its
// name, so dynamic dispatch (contract-call?) can later look it up.
func (g *Generator) EmitDefineFunction(fc *funcCtx, fd *ast.FunctionDef) {
	nameOff, nameLen := g.literalName(fd.Name)
	fc.body.I32Const(int32(fd.Kind))
	fc.body.I32Const(int32(nameOff)).I32Const(int32(nameLen))
	fc.body.Call(g.HI.defineFunction)
}

// FinishTopLevel wraps fc's accumulated body in the standard frame
// prelude/postlude, registers it as a module-defined function, and
// exports it under name.
func (g *Generator) FinishTopLevel(fc *funcCtx, name string) {
	final := wasmbin.NewInstr()
	final.Raw(memory.Prelude(g.stackPtrGlobal, fc.framePtr, fc.frame.Size()).Bytes())
	final.Raw(fc.body.Bytes())
	final.Raw(memory.Postlude(g.stackPtrGlobal, fc.framePtr).Bytes())
	final.End()

	ty := g.Module.AddType(wasmbin.FuncType{})
	idx := g.Module.AddFunc(wasmbin.Func{TypeIndex: ty, Locals: fc.locals, Body: final.Bytes()})
	g.Module.AddExport(name, wasmbin.ExternKindFunc, idx)
}

// splitDecimalToWords parses a non-negative base-10 literal into its
// 128-bit little-endian word pair.
func splitDecimalToWords(s string) (lo, hi uint64) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return 0, 0
	}
	mask := new(big.Int).SetUint64(^uint64(0))
	lo = new(big.Int).And(v, mask).Uint64()
	hi = new(big.Int).Rsh(v, 64).Uint64()
	return lo, hi
}
