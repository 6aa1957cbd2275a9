package codegen

import (
	"github.com/stacks-network/clarity-wasm-sub001/abi"
	"github.com/stacks-network/clarity-wasm-sub001/ast"
	"github.com/stacks-network/clarity-wasm-sub001/wasmbin"
)

// tupleFieldLocals slices the already-loaded locals of a direct-
// representation tuple down to the shape slots belonging to one field, in
// canonical field order.
func tupleFieldLocals(t abi.Type, fieldName string, locals []uint32) []uint32 {
	pos := 0
	for _, f := range t.Fields {
		n := len(abi.WasmShape(f.Type))
		if f.Key == fieldName {
			return locals[pos : pos+n]
		}
		pos += n
	}
	panic("codegen: unknown tuple field " + fieldName)
}

// tupleFieldOffset returns a field's byte offset within an in-memory
// tuple's layout (fields laid out back to back in canonical order) and its
// type.
func tupleFieldOffset(t abi.Type, fieldName string) (uint32, abi.Type) {
	var off uint32
	for _, f := range t.Fields {
		if f.Key == fieldName {
			return off, f.Type
		}
		off += abi.MemorySize(f.Type)
	}
	panic("codegen: unknown tuple field " + fieldName)
}

// emitTupleLit builds a tuple value in canonical field order: a
// direct-representation tuple is simply its fields' shapes concatenated on
// the stack, while a tuple containing an in-memory field materializes to a
// frame slot laid out the same way tupleFieldOffset expects, and pushes
// (offset, size).
func (g *Generator) emitTupleLit(fc *funcCtx, e *ast.Expr) {
	t := e.Type
	if abi.IsInMemory(t) {
		size := abi.MemorySize(t)
		offset := fc.frame.Alloc(size)
		var cur uint32
		for _, f := range t.Fields {
			fe := e.Fields[f.Key]
			g.writeElementToFrame(fc, &fe, offset+cur)
			cur += abi.MemorySize(f.Type)
		}
		pushFrameAddr(fc, offset)
		fc.body.I32Const(int32(size))
		return
	}
	for _, f := range t.Fields {
		fe := e.Fields[f.Key]
		g.emitExpr(fc, &fe)
	}
}

// emitTupleGet projects one field out of Tuple's value.
func (g *Generator) emitTupleGet(fc *funcCtx, e *ast.Expr) {
	tupleType := e.Tuple.Type

	if abi.IsInMemory(tupleType) {
		g.emitExpr(fc, e.Tuple)
		fc.body.Drop() // size is fixed by the static type, not needed here
		base := fc.allocRawLocal(wasmbin.ValueTypeI32)
		fc.body.LocalSet(base)

		fieldOff, fieldType := tupleFieldOffset(tupleType, e.FieldName)
		addr := fc.allocRawLocal(wasmbin.ValueTypeI32)
		fc.body.LocalGet(base).I32Const(int32(fieldOff)).I32Add().LocalSet(addr)
		readElementDynamic(fc.body, addr, fieldType)
		return
	}

	g.emitExpr(fc, e.Tuple)
	locals := fc.allocLocals(tupleType)
	storeLocals(fc.body, locals)
	loadLocals(fc.body, tupleFieldLocals(tupleType, e.FieldName, locals))
}
