package codegen

import (
	"github.com/stacks-network/clarity-wasm-sub001/abi"
	"github.com/stacks-network/clarity-wasm-sub001/ast"
	"github.com/stacks-network/clarity-wasm-sub001/wasmbin"
)

// elementStride is the byte width of one element as stored in a sequence's
// linear-memory region: 1 for buff/string-ascii, 4 for string-utf8's
// fixed-width codepoints, and the element type's own MemorySize for list.
func elementStride(t abi.Type) uint32 {
	switch t.Kind {
	case abi.KindList:
		return abi.MemorySize(*t.Elem)
	case abi.KindStringUTF8:
		return 4
	default:
		return 1
	}
}

// readElementDynamic loads t's direct representation from the byte address
// held in addrLocal. In-memory element types (a list of buffs, say) are
// left at their full stride width rather than their true encoded length,
// since that length isn't tracked per slot — see DESIGN.md.
func readElementDynamic(body *wasmbin.Instr, addrLocal uint32, t abi.Type) {
	if abi.IsInMemory(t) {
		body.LocalGet(addrLocal)
		body.I32Const(int32(abi.MemorySize(t)))
		return
	}
	switch t.Kind {
	case abi.KindInt, abi.KindUint:
		body.LocalGet(addrLocal).I64Load(0)
		body.LocalGet(addrLocal).I64Load(8)
	case abi.KindBool:
		body.LocalGet(addrLocal).I32Load8U(0)
	}
}

// writeElementToFrame evaluates e and stores its indirect form at
// fc.framePtr+offset. Scalars are written word-by-word exactly like
// materializeToFrame; already-indirect values copy their own (offset,
// length) byte range in via SR's Memcpy.
func (g *Generator) writeElementToFrame(fc *funcCtx, e *ast.Expr, offset uint32) {
	t := e.Type
	if abi.IsInMemory(t) {
		g.emitExpr(fc, e) // srcOffset, length
		srcLen := fc.allocRawLocal(wasmbin.ValueTypeI32)
		srcOff := fc.allocRawLocal(wasmbin.ValueTypeI32)
		fc.body.LocalSet(srcLen)
		fc.body.LocalSet(srcOff)
		fc.body.LocalGet(srcOff)
		fc.body.LocalGet(srcLen)
		pushFrameAddr(fc, offset)
		fc.body.Call(g.SR.Memcpy)
		fc.body.Drop() // discard memcpy's chained dst+length result
		return
	}
	g.emitExpr(fc, e)
	locals := fc.allocLocals(t)
	storeLocals(fc.body, locals)
	switch t.Kind {
	case abi.KindInt, abi.KindUint:
		writeFrameI64Pair(fc.body, fc.framePtr, offset, locals[0], locals[1])
	case abi.KindBool:
		writeFrameBool(fc.body, fc.framePtr, offset, locals[0])
	}
}

// emitListLit materializes e's elements contiguously into a fresh frame
// slot sized to the list's static maximum and pushes (offset, length).
func (g *Generator) emitListLit(fc *funcCtx, e *ast.Expr) {
	stride := abi.MemorySize(*e.Type.Elem)
	offset := fc.frame.Alloc(e.Type.MaxLen * stride)
	for i := range e.Elements {
		g.writeElementToFrame(fc, &e.Elements[i], offset+uint32(i)*stride)
	}
	pushFrameAddr(fc, offset)
	fc.body.I32Const(int32(len(e.Elements)))
}

// emitConcat copies Seq1 then Seq2 into a fresh destination frame slot
// sized to the result type's static maximum and pushes (offset, total
// length). Grounded on SR's Memcpy chainable dst+length return: the
// second copy's destination is exactly where the first copy left off.
func (g *Generator) emitConcat(fc *funcCtx, e *ast.Expr) {
	stride := elementStride(e.Type)
	dest := fc.frame.Alloc(abi.MemorySize(e.Type))

	g.emitExpr(fc, e.Seq1)
	len1 := fc.allocRawLocal(wasmbin.ValueTypeI32)
	off1 := fc.allocRawLocal(wasmbin.ValueTypeI32)
	fc.body.LocalSet(len1)
	fc.body.LocalSet(off1)

	g.emitExpr(fc, e.Seq2)
	len2 := fc.allocRawLocal(wasmbin.ValueTypeI32)
	off2 := fc.allocRawLocal(wasmbin.ValueTypeI32)
	fc.body.LocalSet(len2)
	fc.body.LocalSet(off2)

	byteLen1 := fc.allocRawLocal(wasmbin.ValueTypeI32)
	fc.body.LocalGet(len1).I32Const(int32(stride)).I32Mul().LocalSet(byteLen1)

	fc.body.LocalGet(off1)
	fc.body.LocalGet(byteLen1)
	pushFrameAddr(fc, dest)
	fc.body.Call(g.SR.Memcpy)
	cursor := fc.allocRawLocal(wasmbin.ValueTypeI32)
	fc.body.LocalSet(cursor)

	fc.body.LocalGet(off2)
	fc.body.LocalGet(len2).I32Const(int32(stride)).I32Mul()
	fc.body.LocalGet(cursor)
	fc.body.Call(g.SR.Memcpy)
	fc.body.Drop()

	pushFrameAddr(fc, dest)
	fc.body.LocalGet(len1).LocalGet(len2).I32Add()
}

// emitElementAt bound-checks Index against Seq1's dynamic length and
// yields `none` or `(some element)` of e's statically known optional type.
func (g *Generator) emitElementAt(fc *funcCtx, e *ast.Expr) {
	elemType := *e.Type.Some
	stride := elementStride(e.Seq1.Type)

	g.emitExpr(fc, e.Seq1)
	seqLen := fc.allocRawLocal(wasmbin.ValueTypeI32)
	seqOff := fc.allocRawLocal(wasmbin.ValueTypeI32)
	fc.body.LocalSet(seqLen)
	fc.body.LocalSet(seqOff)

	g.emitExpr(fc, e.Index) // uint: lo, hi
	idxHi := fc.allocRawLocal(wasmbin.ValueTypeI64)
	idxLo := fc.allocRawLocal(wasmbin.ValueTypeI64)
	fc.body.LocalSet(idxHi).LocalSet(idxLo)
	idx := fc.allocRawLocal(wasmbin.ValueTypeI32)
	fc.body.LocalGet(idxLo).I32WrapI64().LocalSet(idx)

	someLocals := fc.allocLocals(elemType)
	disc := fc.allocRawLocal(wasmbin.ValueTypeI32)

	// out of bounds when the hi word is non-zero or lo >= length
	fc.body.LocalGet(idxHi).I64Const(0).I64Ne()
	fc.body.LocalGet(idxLo).LocalGet(seqLen).I64ExtendI32U().I64GeU()
	fc.body.I32Or()
	fc.body.If(wasmbin.BlockTypeEmpty)
	fc.body.I32Const(0).LocalSet(disc)
	pushZeros(fc.body, abi.WasmShape(elemType))
	storeLocals(fc.body, someLocals)
	fc.body.Else()
	addr := fc.allocRawLocal(wasmbin.ValueTypeI32)
	fc.body.LocalGet(seqOff).LocalGet(idx).I32Const(int32(stride)).I32Mul().I32Add().LocalSet(addr)
	fc.body.I32Const(1).LocalSet(disc)
	readElementDynamic(fc.body, addr, elemType)
	storeLocals(fc.body, someLocals)
	fc.body.End()

	fc.body.LocalGet(disc)
	loadLocals(fc.body, someLocals)
}

// emitFold lowers a fold over Seq1 starting from Initial. The reducer has
// no call-site identity of its own to resolve through funcIndex, so its
// two parameters are bound as ordinary funcCtx locals and its body is
// inlined once per loop iteration, the same way emitLet inlines a
// binding's scope. The loop shape itself is modeled on SR's Memcpy: an
// index local compared against the dynamic length, with the empty-sequence
// case falling out of the loop's leading bounds check rather than needing
// a separate branch.
func (g *Generator) emitFold(fc *funcCtx, e *ast.Expr) {
	elemType := *e.Seq1.Type.Elem
	stride := elementStride(e.Seq1.Type)

	g.emitExpr(fc, e.Seq1)
	seqLen := fc.allocRawLocal(wasmbin.ValueTypeI32)
	seqOff := fc.allocRawLocal(wasmbin.ValueTypeI32)
	fc.body.LocalSet(seqLen)
	fc.body.LocalSet(seqOff)

	g.emitExpr(fc, e.Initial)
	accLocals := fc.bind(e.Reducer.Params[1].Name, e.Initial.Type)
	storeLocals(fc.body, accLocals)

	idx := fc.allocRawLocal(wasmbin.ValueTypeI32)
	fc.body.I32Const(0).LocalSet(idx)

	elemName := e.Reducer.Params[0].Name
	elemLocals := fc.allocLocals(elemType)
	fc.env[elemName] = elemLocals
	fc.envType[elemName] = elemType

	fc.body.Block(wasmbin.BlockTypeEmpty)
	fc.body.Loop(wasmbin.BlockTypeEmpty)
	fc.body.LocalGet(idx).LocalGet(seqLen).I32GeU().BrIf(1)

	addr := fc.allocRawLocal(wasmbin.ValueTypeI32)
	fc.body.LocalGet(seqOff).LocalGet(idx).I32Const(int32(stride)).I32Mul().I32Add().LocalSet(addr)
	readElementDynamic(fc.body, addr, elemType)
	storeLocals(fc.body, elemLocals)

	for i := range e.Reducer.Body {
		g.emitExpr(fc, &e.Reducer.Body[i])
		if i != len(e.Reducer.Body)-1 {
			dropShape(fc.body, abi.WasmShape(e.Reducer.Body[i].Type))
		}
	}
	storeLocals(fc.body, accLocals)

	fc.body.LocalGet(idx).I32Const(1).I32Add().LocalSet(idx)
	fc.body.Br(0)
	fc.body.End() // loop
	fc.body.End() // block

	loadLocals(fc.body, accLocals)
}
