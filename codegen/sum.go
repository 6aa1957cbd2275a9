package codegen

import (
	"github.com/stacks-network/clarity-wasm-sub001/abi"
	"github.com/stacks-network/clarity-wasm-sub001/ast"
	"github.com/stacks-network/clarity-wasm-sub001/wasmbin"
)

// emitOkErr builds a (response Ok Err) value: the discriminant followed
// by the active arm's slots and the inactive arm's slots zeroed.
func (g *Generator) emitOkErr(fc *funcCtx, e *ast.Expr, ok bool) {
	rt := e.Type
	if ok {
		fc.body.I32Const(1)
		g.emitExpr(fc, e.Inner)
		pushZeros(fc.body, abi.WasmShape(*rt.Err))
	} else {
		fc.body.I32Const(0)
		pushZeros(fc.body, abi.WasmShape(*rt.Ok))
		g.emitExpr(fc, e.Inner)
	}
}

// emitOptional builds an (optional Some) value with the some arm active.
func (g *Generator) emitOptional(fc *funcCtx, e *ast.Expr, some bool) {
	_ = some // always true; callers route the none case through emitOptionalNone
	fc.body.I32Const(1)
	g.emitExpr(fc, e.Inner)
}

// emitOptionalNone builds the canonical `none` of e's statically known
// optional type, zeroing the some arm's slots.
func (g *Generator) emitOptionalNone(fc *funcCtx, e *ast.Expr) {
	fc.body.I32Const(0)
	pushZeros(fc.body, abi.WasmShape(*e.Type.Some))
}

// emitUnwrap evaluates Inner (an optional or response); if its
// discriminant marks the inactive/failure arm, it unwinds immediately with
// Default as the enclosing function's err arm, mirroring emitAsserts's
// early-exit rather than emitUnwrapPanic's trap.
func (g *Generator) emitUnwrap(fc *funcCtx, e *ast.Expr) {
	g.emitExpr(fc, e.Inner)
	innerT := e.Inner.Type

	switch innerT.Kind {
	case abi.KindOptional:
		someLocals := fc.allocLocals(*innerT.Some)
		storeLocals(fc.body, someLocals)
		disc := fc.allocRawLocal(wasmbin.ValueTypeI32)
		fc.body.LocalSet(disc)

		fc.body.LocalGet(disc).I32Eqz()
		fc.body.If(wasmbin.BlockTypeEmpty)
		emitEarlyErr(g, fc, e.Default)
		fc.body.End()
		loadLocals(fc.body, someLocals)

	case abi.KindResponse:
		errLocals := fc.allocLocals(*innerT.Err)
		storeLocals(fc.body, errLocals)
		okLocals := fc.allocLocals(*innerT.Ok)
		storeLocals(fc.body, okLocals)
		disc := fc.allocRawLocal(wasmbin.ValueTypeI32)
		fc.body.LocalSet(disc)

		fc.body.LocalGet(disc).I32Eqz()
		fc.body.If(wasmbin.BlockTypeEmpty)
		emitEarlyErr(g, fc, e.Default)
		fc.body.End()
		loadLocals(fc.body, okLocals)

	default:
		panic("codegen: unwrap requires an optional or response operand")
	}
}

// emitUnwrapPanic evaluates Inner (an optional or response), traps via
// `unreachable` if its discriminant marks the inactive/failure arm, and
// otherwise leaves the active arm's value on the stack.
func (g *Generator) emitUnwrapPanic(fc *funcCtx, e *ast.Expr) {
	g.emitExpr(fc, e.Inner)
	innerT := e.Inner.Type

	switch innerT.Kind {
	case abi.KindOptional:
		someLocals := fc.allocLocals(*innerT.Some)
		storeLocals(fc.body, someLocals)
		disc := fc.allocRawLocal(wasmbin.ValueTypeI32)
		fc.body.LocalSet(disc)

		fc.body.LocalGet(disc).I32Eqz()
		fc.body.If(wasmbin.BlockTypeEmpty)
		fc.body.Unreachable()
		fc.body.End()
		loadLocals(fc.body, someLocals)

	case abi.KindResponse:
		errLocals := fc.allocLocals(*innerT.Err)
		storeLocals(fc.body, errLocals)
		okLocals := fc.allocLocals(*innerT.Ok)
		storeLocals(fc.body, okLocals)
		disc := fc.allocRawLocal(wasmbin.ValueTypeI32)
		fc.body.LocalSet(disc)

		fc.body.LocalGet(disc).I32Eqz()
		fc.body.If(wasmbin.BlockTypeEmpty)
		fc.body.Unreachable()
		fc.body.End()
		loadLocals(fc.body, okLocals)

	default:
		panic("codegen: unwrap-panic requires an optional or response operand")
	}
}
