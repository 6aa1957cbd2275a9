package codegen

import (
	"math/big"

	"github.com/stacks-network/clarity-wasm-sub001/abi"
	"github.com/stacks-network/clarity-wasm-sub001/ast"
	"github.com/stacks-network/clarity-wasm-sub001/wasmbin"
)

// encodeScalarLiteral renders an int/uint/bool/buffer value into its
// fixed-width indirect byte form, for literals that need a
// linear-memory home: map keys/values and HI call arguments.
func encodeScalarLiteral(t abi.Type, intVal int64, boolVal bool, buf []byte) []byte {
	switch t.Kind {
	case abi.KindInt, abi.KindUint:
		b := make([]byte, 16)
		v := big.NewInt(intVal)
		if v.Sign() < 0 {
			mod := new(big.Int).Lsh(big.NewInt(1), 128)
			v.Add(v, mod)
		}
		full := v.FillBytes(make([]byte, 16))
		// FillBytes is big-endian; the Type ABI's in-memory words are
		// little-endian, so reverse.
		for i := 0; i < 16; i++ {
			b[i] = full[15-i]
		}
		return b
	case abi.KindBool:
		if boolVal {
			return []byte{1}
		}
		return []byte{0}
	default:
		return buf
	}
}

// writeFrameI64Pair emits code storing two locals (lo, hi) as a 16-byte
// little-endian word pair at framePtr+offset, the in-memory layout of
// int/uint.
func writeFrameI64Pair(body *wasmbin.Instr, framePtr uint32, offset uint32, lo, hi uint32) {
	body.LocalGet(framePtr).LocalGet(lo).I64Store(offset)
	body.LocalGet(framePtr).LocalGet(hi).I64Store(offset + 8)
}

func readFrameI64Pair(body *wasmbin.Instr, framePtr uint32, offset uint32) {
	body.LocalGet(framePtr).I64Load(offset)
	body.LocalGet(framePtr).I64Load(offset + 8)
}

func writeFrameBool(body *wasmbin.Instr, framePtr uint32, offset uint32, local uint32) {
	body.LocalGet(framePtr).LocalGet(local).I32Store8(offset)
}

func readFrameBool(body *wasmbin.Instr, framePtr uint32, offset uint32) {
	body.LocalGet(framePtr).I32Load8U(offset)
}

// materializeToFrame evaluates e (whose direct-representation slots end
// up on the stack), stores them into fresh locals, writes the indirect
// form into a newly allocated frame slot, and returns (offset, size) of
// that slot. Scoped to int/uint/bool, the scalar types HI calls in this
// generator pass by value; sequences are passed via their own
// already-indirect (offset, length) pair instead.
func (fc *funcCtx) materializeToFrame(g *Generator, e *ast.Expr) (offset uint32, size uint32) {
	g.emitExpr(fc, e)
	t := e.Type
	locals := fc.allocLocals(t)
	storeLocals(fc.body, locals)

	size = abi.MemorySize(t)
	offset = fc.frame.Alloc(size)

	switch t.Kind {
	case abi.KindInt, abi.KindUint:
		writeFrameI64Pair(fc.body, fc.framePtr, offset, locals[0], locals[1])
	case abi.KindBool:
		writeFrameBool(fc.body, fc.framePtr, offset, locals[0])
	}
	return offset, size
}

// pushValueAddrSize pushes (addr, size) for e onto the stack, for HI call
// sites that take a value by address+length: sequences and principals are
// already indirect, so their own (offset, length) is used as-is; scalars
// are first materialized into a fresh frame slot.
func (fc *funcCtx) pushValueAddrSize(g *Generator, e *ast.Expr) {
	if abi.IsInMemory(e.Type) {
		g.emitExpr(fc, e)
		return
	}
	off, size := fc.materializeToFrame(g, e)
	pushFrameAddr(fc, off)
	fc.body.I32Const(int32(size))
}

// materializeForHICall pushes (addr, size) for e onto the stack and stores
// them into fresh locals, so a caller that needs the same address/size
// twice (e.g. both key and value before one map_set call) can reload them
// without re-evaluating e. Unlike materializeToFrame, this handles
// already-indirect types (sequences, principals, and composites
// containing them) correctly by routing through pushValueAddrSize instead
// of assuming every value is a scalar that needs fresh encoding.
func (fc *funcCtx) materializeForHICall(g *Generator, e *ast.Expr) (addrLocal, sizeLocal uint32) {
	fc.pushValueAddrSize(g, e)
	sizeLocal = fc.allocRawLocal(wasmbin.ValueTypeI32)
	addrLocal = fc.allocRawLocal(wasmbin.ValueTypeI32)
	fc.body.LocalSet(sizeLocal)
	fc.body.LocalSet(addrLocal)
	return addrLocal, sizeLocal
}

// readScalarFromFrame loads t's direct representation from framePtr+offset
// onto the stack.
func readScalarFromFrame(body *wasmbin.Instr, framePtr uint32, offset uint32, t abi.Type) {
	switch t.Kind {
	case abi.KindInt, abi.KindUint:
		readFrameI64Pair(body, framePtr, offset)
	case abi.KindBool:
		readFrameBool(body, framePtr, offset)
	}
}

// readValueFromFrame loads t's direct representation from a byte region at
// framePtr+offset, recursing through Optional/Response the same way
// abi.MemorySize lays out their discriminant-plus-arms byte layout (1 byte
// tag, then each arm in order). In-memory types read back the region's own
// address and its static maximum size rather than any shorter length
// actually written there, the same fixed-stride convention
// readElementDynamic uses for a sequence's nested in-memory elements.
func readValueFromFrame(body *wasmbin.Instr, framePtr uint32, offset uint32, t abi.Type) {
	if abi.IsInMemory(t) {
		body.LocalGet(framePtr).I32Const(int32(offset)).I32Add()
		body.I32Const(int32(abi.MemorySize(t)))
		return
	}
	switch t.Kind {
	case abi.KindInt, abi.KindUint:
		readFrameI64Pair(body, framePtr, offset)
	case abi.KindBool:
		readFrameBool(body, framePtr, offset)
	case abi.KindOptional:
		body.LocalGet(framePtr).I32Load8U(offset)
		readValueFromFrame(body, framePtr, offset+1, *t.Some)
	case abi.KindResponse:
		body.LocalGet(framePtr).I32Load8U(offset)
		readValueFromFrame(body, framePtr, offset+1, *t.Ok)
		readValueFromFrame(body, framePtr, offset+1+abi.MemorySize(*t.Ok), *t.Err)
	}
}
