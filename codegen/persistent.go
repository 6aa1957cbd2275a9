package codegen

import (
	"github.com/stacks-network/clarity-wasm-sub001/abi"
	"github.com/stacks-network/clarity-wasm-sub001/ast"
)

// emitVarGet reads a `define-data-var` variable into its direct
// representation. Scoped to int/uint/bool variables: the variable's type
// is always statically known at the call site, so no discriminant is
// needed, matching get_variable's signature.
func (g *Generator) emitVarGet(fc *funcCtx, e *ast.Expr) {
	nameOff, nameLen := g.literalName(e.Name)
	size := abi.MemorySize(e.Type)
	offset := fc.frame.Alloc(size)

	fc.body.I32Const(int32(nameOff)).I32Const(int32(nameLen))
	pushFrameAddr(fc, offset)
	fc.body.I32Const(int32(size))
	fc.body.Call(g.HI.getVariable)

	readScalarFromFrame(fc.body, fc.framePtr, offset, e.Type)
}

// emitVarSet materializes Value's indirect form and calls set_variable;
// `var-set` always yields `true`.
func (g *Generator) emitVarSet(fc *funcCtx, e *ast.Expr) {
	nameOff, nameLen := g.literalName(e.Name)
	valAddr, valSize := fc.materializeForHICall(g, e.Value)

	fc.body.I32Const(int32(nameOff)).I32Const(int32(nameLen))
	fc.body.LocalGet(valAddr)
	fc.body.LocalGet(valSize)
	fc.body.Call(g.HI.setVariable)

	fc.body.I32Const(1)
}

// emitMapGet materializes Key, calls map_get into an optional-shaped frame
// slot (4-byte discriminant + value), and reads both back. The value arm
// is still read back as a scalar (readScalarFromFrame's documented scope),
// but the key itself can be any type, including in-memory ones such as
// principal, via materializeForHICall.
func (g *Generator) emitMapGet(fc *funcCtx, e *ast.Expr) {
	nameOff, nameLen := g.literalName(e.Name)
	keyAddr, keySize := fc.materializeForHICall(g, e.Key)

	valSize := abi.MemorySize(*e.Type.Some)
	outCap := 4 + valSize
	outOffset := fc.frame.Alloc(outCap)

	fc.body.I32Const(int32(nameOff)).I32Const(int32(nameLen))
	fc.body.LocalGet(keyAddr)
	fc.body.LocalGet(keySize)
	pushFrameAddr(fc, outOffset)
	fc.body.I32Const(int32(outCap))
	fc.body.Call(g.HI.mapGet)

	pushFrameAddr(fc, outOffset)
	fc.body.I32Load(0)
	readScalarFromFrame(fc.body, fc.framePtr, outOffset+4, *e.Type.Some)
}

// emitMapSet materializes Key and Value and calls map_set, whose i32
// result is already the direct representation of `map-set`'s `true`.
func (g *Generator) emitMapSet(fc *funcCtx, e *ast.Expr) {
	g.emitMapWrite(fc, e, g.HI.mapSet)
}

// emitMapInsert is map_set's sibling: its i32 result reports whether the
// key was previously absent.
func (g *Generator) emitMapInsert(fc *funcCtx, e *ast.Expr) {
	g.emitMapWrite(fc, e, g.HI.mapInsert)
}

func (g *Generator) emitMapWrite(fc *funcCtx, e *ast.Expr, hiFunc uint32) {
	nameOff, nameLen := g.literalName(e.Name)
	keyAddr, keySize := fc.materializeForHICall(g, e.Key)
	valAddr, valSize := fc.materializeForHICall(g, e.Value)

	fc.body.I32Const(int32(nameOff)).I32Const(int32(nameLen))
	fc.body.LocalGet(keyAddr)
	fc.body.LocalGet(keySize)
	fc.body.LocalGet(valAddr)
	fc.body.LocalGet(valSize)
	fc.body.Call(hiFunc)
}

// emitMapDelete materializes Key and calls map_delete; its i32 result is
// `map-delete`'s boolean.
func (g *Generator) emitMapDelete(fc *funcCtx, e *ast.Expr) {
	nameOff, nameLen := g.literalName(e.Name)
	keyAddr, keySize := fc.materializeForHICall(g, e.Key)

	fc.body.I32Const(int32(nameOff)).I32Const(int32(nameLen))
	fc.body.LocalGet(keyAddr)
	fc.body.LocalGet(keySize)
	fc.body.Call(g.HI.mapDelete)
}

// pushFrameAddr pushes the absolute address of a frame-relative offset:
// HI call arguments are plain i32 values on the stack, unlike load/store
// instructions, so the addition can't be folded into an instruction's own
// offset immediate the way readFrameI64Pair etc. do.
func pushFrameAddr(fc *funcCtx, offset uint32) {
	fc.body.LocalGet(fc.framePtr).I32Const(int32(offset)).I32Add()
}
