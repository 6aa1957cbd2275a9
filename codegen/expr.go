package codegen

import (
	"math/big"

	"github.com/stacks-network/clarity-wasm-sub001/abi"
	"github.com/stacks-network/clarity-wasm-sub001/ast"
	"github.com/stacks-network/clarity-wasm-sub001/memory"
	"github.com/stacks-network/clarity-wasm-sub001/stdruntime"
	"github.com/stacks-network/clarity-wasm-sub001/wasmbin"
)

// emitExpr dispatches on e.Kind and appends e's instructions to fc.body,
// leaving e's direct representation on the stack.
func (g *Generator) emitExpr(fc *funcCtx, e *ast.Expr) {
	switch e.Kind {
	case ast.KindIntLit, ast.KindUintLit:
		lo, hi := e.IntVal, int64(0)
		if e.IntVal < 0 {
			hi = -1
		}
		if v, ok := new(big.Int).SetString(e.BigVal, 10); ok {
			if v.Sign() < 0 {
				v.Add(v, new(big.Int).Lsh(big.NewInt(1), 128)) // two's complement over 128 bits
			}
			ulo, uhi := splitDecimalToWords(v.String())
			lo, hi = int64(ulo), int64(uhi)
		}
		fc.body.I64Const(lo).I64Const(hi)

	case ast.KindBoolLit:
		v := int32(0)
		if e.BoolVal {
			v = 1
		}
		fc.body.I32Const(v)

	case ast.KindBufferLit:
		offset := g.Mem.AddLiteral(e.BufferVal)
		fc.body.I32Const(int32(offset)).I32Const(int32(len(e.BufferVal)))

	case ast.KindLocalRef:
		loadLocals(fc.body, fc.env[e.LocalName])

	case ast.KindArith:
		g.emitArith(fc, e)

	case ast.KindCompare:
		g.emitCompare(fc, e)

	case ast.KindLogical:
		g.emitLogical(fc, e)

	case ast.KindLet:
		g.emitLet(fc, e)

	case ast.KindBegin:
		g.emitBegin(fc, e)

	case ast.KindIf:
		g.emitIf(fc, e)

	case ast.KindAsserts:
		g.emitAsserts(fc, e)

	case ast.KindVarGet:
		g.emitVarGet(fc, e)
	case ast.KindVarSet:
		g.emitVarSet(fc, e)

	case ast.KindMapGet:
		g.emitMapGet(fc, e)
	case ast.KindMapSet:
		g.emitMapSet(fc, e)
	case ast.KindMapInsert:
		g.emitMapInsert(fc, e)
	case ast.KindMapDelete:
		g.emitMapDelete(fc, e)

	case ast.KindOk:
		g.emitOkErr(fc, e, true)
	case ast.KindErr:
		g.emitOkErr(fc, e, false)
	case ast.KindSome:
		g.emitOptional(fc, e, true)
	case ast.KindNone:
		g.emitOptionalNone(fc, e)

	case ast.KindUnwrap:
		g.emitUnwrap(fc, e)
	case ast.KindUnwrapPanic:
		g.emitUnwrapPanic(fc, e)

	case ast.KindCall:
		g.emitCall(fc, e)
	case ast.KindContractCall:
		g.emitContractCall(fc, e)

	case ast.KindListLit:
		g.emitListLit(fc, e)
	case ast.KindConcat:
		g.emitConcat(fc, e)
	case ast.KindElementAt:
		g.emitElementAt(fc, e)
	case ast.KindFold:
		g.emitFold(fc, e)

	case ast.KindTupleLit:
		g.emitTupleLit(fc, e)
	case ast.KindTupleGet:
		g.emitTupleGet(fc, e)

	case ast.KindFtTransfer:
		g.emitFtTransfer(fc, e)
	case ast.KindFtGetBalance:
		g.emitFtGetBalance(fc, e)
	case ast.KindNftTransfer:
		g.emitNftTransfer(fc, e)
	case ast.KindPrint:
		g.emitPrint(fc, e)

	default:
		panic("codegen: unsupported construct kind")
	}
}

// emitArith left-folds a variadic arithmetic construct through SR's binary
// entry point, choosing the int or uint variant from the expression's
// static type.
func (g *Generator) emitArith(fc *funcCtx, e *ast.Expr) {
	signed := e.Type.Kind == abi.KindInt
	g.emitExpr(fc, &e.Args[0])
	fn := arithFunc(g.SR, e.ArithOp, signed)
	for i := 1; i < len(e.Args); i++ {
		g.emitExpr(fc, &e.Args[i])
		fc.body.Call(fn)
	}
}

func arithFunc(sr *stdruntime.Funcs, op ast.ArithOp, signed bool) uint32 {
	if signed {
		switch op {
		case ast.OpAdd:
			return sr.AddInt
		case ast.OpSub:
			return sr.SubInt
		case ast.OpMul:
			return sr.MulInt
		case ast.OpDiv:
			return sr.DivInt
		case ast.OpMod:
			return sr.ModInt
		case ast.OpPow:
			return sr.PowInt
		}
	}
	switch op {
	case ast.OpAdd:
		return sr.AddUint
	case ast.OpSub:
		return sr.SubUint
	case ast.OpMul:
		return sr.MulUint
	case ast.OpDiv:
		return sr.DivUint
	case ast.OpMod:
		return sr.ModUint
	case ast.OpPow:
		return sr.PowUint
	}
	panic("codegen: unknown arithmetic operator")
}

func (g *Generator) emitCompare(fc *funcCtx, e *ast.Expr) {
	argT := e.Args[0].Type
	g.emitExpr(fc, &e.Args[0])
	g.emitExpr(fc, &e.Args[1])

	switch e.CompareOp {
	case ast.OpEq:
		g.emitEquality(fc, argT)
		return
	case ast.OpNe:
		g.emitEquality(fc, argT)
		fc.body.I32Eqz()
		return
	}

	fc.body.Call(compareFunc(g.SR, argT, e.CompareOp))
}

// emitEquality consumes two already-pushed values of type t and leaves a
// single i32 boolean. int/uint have no dedicated SR equality entry point,
// so it is assembled from locals directly; sequences and principals (both
// (offset, length) pairs) reuse the lexicographic predicates: equal is
// exactly "not less and not greater".
func (g *Generator) emitEquality(fc *funcCtx, t abi.Type) {
	switch {
	case t.Kind == abi.KindBool:
		fc.body.I32Eq()

	case t.Kind == abi.KindInt || t.Kind == abi.KindUint:
		bHi := fc.allocRawLocal(wasmbin.ValueTypeI64)
		bLo := fc.allocRawLocal(wasmbin.ValueTypeI64)
		aHi := fc.allocRawLocal(wasmbin.ValueTypeI64)
		aLo := fc.allocRawLocal(wasmbin.ValueTypeI64)
		// stack on entry: a_lo a_hi b_lo b_hi
		fc.body.LocalSet(bHi)
		fc.body.LocalSet(bLo)
		fc.body.LocalSet(aHi)
		fc.body.LocalSet(aLo)
		fc.body.LocalGet(aLo).LocalGet(bLo).I64Eq()
		fc.body.LocalGet(aHi).LocalGet(bHi).I64Eq()
		fc.body.I32And()

	case t.IsSequence() || t.Kind == abi.KindPrincipal:
		bLen := fc.allocRawLocal(wasmbin.ValueTypeI32)
		bOff := fc.allocRawLocal(wasmbin.ValueTypeI32)
		aLen := fc.allocRawLocal(wasmbin.ValueTypeI32)
		aOff := fc.allocRawLocal(wasmbin.ValueTypeI32)
		fc.body.LocalSet(bLen)
		fc.body.LocalSet(bOff)
		fc.body.LocalSet(aLen)
		fc.body.LocalSet(aOff)
		loadAB := func() {
			fc.body.LocalGet(aOff).LocalGet(aLen).LocalGet(bOff).LocalGet(bLen)
		}
		loadAB()
		fc.body.Call(g.SR.LeSeq)
		loadAB()
		fc.body.Call(g.SR.GeSeq)
		fc.body.I32And()

	default:
		panic("codegen: equality not supported for this type")
	}
}

func compareFunc(sr *stdruntime.Funcs, t abi.Type, op ast.CompareOp) uint32 {
	if t.Kind == abi.KindInt {
		switch op {
		case ast.OpLt:
			return sr.LtInt
		case ast.OpGt:
			return sr.GtInt
		case ast.OpLe:
			return sr.LeInt
		case ast.OpGe:
			return sr.GeInt
		}
	}
	if t.Kind == abi.KindUint {
		switch op {
		case ast.OpLt:
			return sr.LtUint
		case ast.OpGt:
			return sr.GtUint
		case ast.OpLe:
			return sr.LeUint
		case ast.OpGe:
			return sr.GeUint
		}
	}
	if t.IsSequence() || t.Kind == abi.KindPrincipal {
		switch op {
		case ast.OpLt:
			return sr.LtSeq
		case ast.OpGt:
			return sr.GtSeq
		case ast.OpLe:
			return sr.LeSeq
		case ast.OpGe:
			return sr.GeSeq
		}
	}
	panic("codegen: comparison not supported for this type")
}

func (g *Generator) emitLogical(fc *funcCtx, e *ast.Expr) {
	switch e.LogicalOp {
	case ast.OpNot:
		g.emitExpr(fc, &e.Args[0])
		fc.body.I32Eqz()
	case ast.OpAnd:
		g.emitExpr(fc, &e.Args[0])
		fc.body.If(wasmbin.ValueTypeI32)
		g.emitExpr(fc, &e.Args[1])
		fc.body.Else()
		fc.body.I32Const(0)
		fc.body.End()
	case ast.OpOr:
		g.emitExpr(fc, &e.Args[0])
		fc.body.If(wasmbin.ValueTypeI32)
		fc.body.I32Const(1)
		fc.body.Else()
		g.emitExpr(fc, &e.Args[1])
		fc.body.End()
	}
}

func (g *Generator) emitLet(fc *funcCtx, e *ast.Expr) {
	for i := range e.Bindings {
		bnd := &e.Bindings[i]
		g.emitExpr(fc, &bnd.Value)
		locals := fc.bind(bnd.Name, bnd.Value.Type)
		storeLocals(fc.body, locals)
	}
	for i := range e.Body {
		g.emitExpr(fc, &e.Body[i])
		if i != len(e.Body)-1 {
			dropShape(fc.body, abi.WasmShape(e.Body[i].Type))
		}
	}
}

func (g *Generator) emitBegin(fc *funcCtx, e *ast.Expr) {
	for i := range e.Args {
		g.emitExpr(fc, &e.Args[i])
		if i != len(e.Args)-1 {
			dropShape(fc.body, abi.WasmShape(e.Args[i].Type))
		}
	}
}

func dropShape(body *wasmbin.Instr, shape []abi.ValKind) {
	for range shape {
		body.Drop()
	}
}

// emitIf lowers a conditional whose arms may occupy more than one Wasm
// value slot by routing the result through pre-allocated locals rather
// than a native multi-value block type.
func (g *Generator) emitIf(fc *funcCtx, e *ast.Expr) {
	g.emitExpr(fc, e.Cond)

	resLocals := fc.allocLocals(e.Then.Type)

	fc.body.If(wasmbin.BlockTypeEmpty)
	g.emitExpr(fc, e.Then)
	storeLocals(fc.body, resLocals)
	fc.body.Else()
	g.emitExpr(fc, e.Else)
	storeLocals(fc.body, resLocals)
	fc.body.End()

	loadLocals(fc.body, resLocals)
}

// emitAsserts evaluates Cond; on false, builds the enclosing function's
// declared response type with ThrownValue as the err arm and returns
// immediately. On true it yields the bool true.
func (g *Generator) emitAsserts(fc *funcCtx, e *ast.Expr) {
	g.emitExpr(fc, e.Cond)
	fc.body.I32Eqz()
	fc.body.If(wasmbin.BlockTypeEmpty)
	emitEarlyErr(g, fc, e.ThrownValue)
	fc.body.End()
	fc.body.I32Const(1)
}

// emitEarlyErr unwinds a function early via `asserts!`'s failed-condition
// path: roll back the open call bracket (public/read-only functions only;
// the bracket began in lowerFunctionBody), restore the stack pointer the
// way the normal-exit postlude would, and return the err response
// immediately.
func emitEarlyErr(g *Generator, fc *funcCtx, thrown *ast.Expr) {
	rt := fc.returnType
	fc.body.I32Const(0) // discriminant: err arm active
	pushZeros(fc.body, abi.WasmShape(*rt.Ok))
	g.emitExpr(fc, thrown)
	if fc.hasBracket {
		fc.body.Call(g.HI.rollBackCall)
	}
	fc.body.Raw(memory.Postlude(fc.g.stackPtrGlobal, fc.framePtr).Bytes())
	fc.body.Return()
}
