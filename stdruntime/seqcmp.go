package stdruntime

import "github.com/stacks-network/clarity-wasm-sub001/wasmbin"

// seq4 is the shared signature for sequence-lexicographic comparisons:
// (a_offset, a_length, b_offset, b_length) -> i32. Unlike the 128-bit
// arithmetic and hashing SR functions, sequence comparison only needs the
// calling module's own linear memory, so it is hand-assembled exactly like
// the other comparison and bitwise SR functions rather than delegated to a
// host import.
var seq4 = wasmbin.FuncType{
	Params:  []wasmbin.ValueType{wasmbin.ValueTypeI32, wasmbin.ValueTypeI32, wasmbin.ValueTypeI32, wasmbin.ValueTypeI32},
	Results: []wasmbin.ValueType{wasmbin.ValueTypeI32},
}

// defineSeqCore builds the shared lexicographic byte-compare, returning
// -1, 0, or 1 the way bytes.Compare does. buff and string-ascii share this
// directly, and string-utf8 values are compared with the same byte-wise
// compare over their stored bytes.
func defineSeqCore(m *wasmbin.Module) uint32 {
	ty := m.AddType(seq4)
	// params: a_off(0) a_len(1) b_off(2) b_len(3)
	// locals: i(4) minLen(5) tri(6) mismatched(7) aByte(8) bByte(9)
	locals := []wasmbin.ValueType{
		wasmbin.ValueTypeI32, wasmbin.ValueTypeI32, wasmbin.ValueTypeI32,
		wasmbin.ValueTypeI32, wasmbin.ValueTypeI32, wasmbin.ValueTypeI32,
	}
	body := wasmbin.NewInstr()

	body.LocalGet(1).LocalGet(3).I32LtU()
	body.If(wasmbin.ValueTypeI32)
	body.LocalGet(1)
	body.Else()
	body.LocalGet(3)
	body.End()
	body.LocalSet(5) // minLen

	body.I32Const(0).LocalSet(4) // i
	body.I32Const(0).LocalSet(6) // tri
	body.I32Const(0).LocalSet(7) // mismatched

	body.Block(wasmbin.BlockTypeEmpty)
	body.Loop(wasmbin.BlockTypeEmpty)

	body.LocalGet(4).LocalGet(5).I32GeU().BrIf(1) // i >= minLen: exit block, no mismatch

	body.LocalGet(0).LocalGet(4).I32Add().I32Load8U(0).LocalSet(8)
	body.LocalGet(2).LocalGet(4).I32Add().I32Load8U(0).LocalSet(9)

	body.LocalGet(8).LocalGet(9).I32Eq()
	body.If(wasmbin.BlockTypeEmpty)
	body.LocalGet(4).I32Const(1).I32Add().LocalSet(4)
	body.Br(1) // continue loop
	body.Else()
	body.LocalGet(8).LocalGet(9).I32LtU()
	body.If(wasmbin.ValueTypeI32)
	body.I32Const(-1)
	body.Else()
	body.I32Const(1)
	body.End()
	body.LocalSet(6)
	body.I32Const(1).LocalSet(7)
	body.Br(2) // exit block: byte mismatch decides tri
	body.End() // eq/mismatch if
	body.End() // loop
	body.End() // block

	// common prefix exhausted with no mismatch: shorter sequence sorts first
	body.LocalGet(7).I32Eqz()
	body.If(wasmbin.BlockTypeEmpty)
	body.LocalGet(1).LocalGet(3).I32Eq()
	body.If(wasmbin.BlockTypeEmpty)
	body.Else()
	body.LocalGet(1).LocalGet(3).I32LtU()
	body.If(wasmbin.ValueTypeI32)
	body.I32Const(-1)
	body.Else()
	body.I32Const(1)
	body.End()
	body.LocalSet(6)
	body.End()
	body.End()

	body.LocalGet(6)
	return m.AddFunc(wasmbin.Func{TypeIndex: ty, Locals: locals, Body: body.End().Bytes()})
}

// defineSeqPredicate wraps the shared core compare, exporting a predicate
// function that calls it and reduces the tri-state result to a boolean:
// wantEqual true tests tri == target, false tests tri != target.
func defineSeqPredicate(m *wasmbin.Module, coreIdx uint32, target int32, wantEqual bool) uint32 {
	ty := m.AddType(seq4)
	body := wasmbin.NewInstr()
	body.LocalGet(0).LocalGet(1).LocalGet(2).LocalGet(3).Call(coreIdx)
	body.I32Const(target)
	if wantEqual {
		body.I32Eq()
	} else {
		body.I32Ne()
	}
	return m.AddFunc(wasmbin.Func{TypeIndex: ty, Body: body.End().Bytes()})
}
