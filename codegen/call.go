package codegen

import (
	"github.com/stacks-network/clarity-wasm-sub001/abi"
	"github.com/stacks-network/clarity-wasm-sub001/ast"
	"github.com/stacks-network/clarity-wasm-sub001/wasmbin"
)

// emitCall invokes a user-defined function directly by its resolved
// index; mutual and forward references resolve because functions.go
// registers every function's index before lowering any body.
func (g *Generator) emitCall(fc *funcCtx, e *ast.Expr) {
	for i := range e.Args {
		g.emitExpr(fc, &e.Args[i])
	}
	fc.body.Call(g.funcIndex[e.Callee])
}

// emitContractCall invokes another contract's exported function by name —
// the direct (statically known callee) form only, matching
// hostiface/control.go's contractCall, which traps if asked for trait
// dispatch. Arguments are packed contiguously into one frame region the
// same way emitTupleLit packs fields, since contract_call's host
// signature takes a single marshalled args_offset rather than one
// (addr, size) pair per argument; the callee's result is read back out of
// a second frame region sized by this call site's own statically known
// result type.
func (g *Generator) emitContractCall(fc *funcCtx, e *ast.Expr) {
	var argsSize uint32
	for i := range e.Args {
		argsSize += abi.MemorySize(e.Args[i].Type)
	}
	argsOffset := fc.frame.Alloc(argsSize)
	var cur uint32
	for i := range e.Args {
		g.writeElementToFrame(fc, &e.Args[i], argsOffset+cur)
		cur += abi.MemorySize(e.Args[i].Type)
	}

	outSize := abi.MemorySize(e.Type)
	outOffset := fc.frame.Alloc(outSize)

	contractOff, contractLen := g.literalName(e.ContractName)
	fnOff, fnLen := g.literalName(e.Callee)

	fc.body.I32Const(0).I32Const(0) // trait_ptr, trait_len: direct form only
	fc.body.I32Const(int32(contractOff)).I32Const(int32(contractLen))
	fc.body.I32Const(int32(fnOff)).I32Const(int32(fnLen))
	pushFrameAddr(fc, argsOffset)
	pushFrameAddr(fc, outOffset)
	fc.body.I32Const(int32(outSize))
	fc.body.Call(g.HI.contractCall)

	readValueFromFrame(fc.body, fc.framePtr, outOffset, e.Type)
}

func (g *Generator) emitPrint(fc *funcCtx, e *ast.Expr) {
	typeOff, typeLen := g.literalName(e.PrintValue.Type.String())
	fc.pushValueAddrSize(g, e.PrintValue)
	fc.body.I32Const(int32(typeOff)).I32Const(int32(typeLen))
	fc.body.Call(g.HI.print)
}

// emitFtTransfer calls ft_transfer and reassembles its 4-word host result
// (success flag, response discriminant, error code lo/hi) into this
// generator's (response bool uint) shape: the ok arm's bool is always
// `true` on success and is read off the discriminant directly, and the
// err arm's words are zeroed when the discriminant is active, per the
// zero-inactive-arm convention.
func (g *Generator) emitFtTransfer(fc *funcCtx, e *ast.Expr) {
	nameOff, nameLen := g.literalName(e.AssetName)
	fc.body.I32Const(int32(nameOff)).I32Const(int32(nameLen))
	g.emitExpr(fc, e.Amount)
	g.emitExpr(fc, e.Sender)
	g.emitExpr(fc, e.Recipient)
	fc.body.Call(g.HI.ftTransfer)
	g.emitTransferResultShape(fc)
}

func (g *Generator) emitNftTransfer(fc *funcCtx, e *ast.Expr) {
	nameOff, nameLen := g.literalName(e.AssetName)
	fc.body.I32Const(int32(nameOff)).I32Const(int32(nameLen))
	g.emitExpr(fc, e.Asset)
	g.emitExpr(fc, e.Sender)
	g.emitExpr(fc, e.Recipient)
	fc.body.Call(g.HI.nftTransfer)
	g.emitTransferResultShape(fc)
}

func (g *Generator) emitFtGetBalance(fc *funcCtx, e *ast.Expr) {
	nameOff, nameLen := g.literalName(e.AssetName)
	fc.body.I32Const(int32(nameOff)).I32Const(int32(nameLen))
	g.emitExpr(fc, e.Asset)
	fc.body.Call(g.HI.ftGetBalance)
}

// emitTransferResultShape pops the 4-word (succ, disc, errLo, errHi)
// tuple a transfer-class HI call leaves on the stack and pushes
// (disc, okBool, errLo', errHi'), where okBool mirrors disc (the ok arm
// always carries `true`) and the err words are zeroed on success.
func (g *Generator) emitTransferResultShape(fc *funcCtx) {
	errHi := fc.allocRawLocal(wasmbin.ValueTypeI64)
	errLo := fc.allocRawLocal(wasmbin.ValueTypeI64)
	disc := fc.allocRawLocal(wasmbin.ValueTypeI32)
	succ := fc.allocRawLocal(wasmbin.ValueTypeI32)

	fc.body.LocalSet(errHi)
	fc.body.LocalSet(errLo)
	fc.body.LocalSet(disc)
	fc.body.LocalSet(succ)
	_ = succ // the reference host always reports success; only disc/err matter

	fc.body.LocalGet(disc)
	fc.body.LocalGet(disc)

	fc.body.I64Const(0)
	fc.body.LocalGet(errLo)
	fc.body.LocalGet(disc)
	fc.body.Select()

	fc.body.I64Const(0)
	fc.body.LocalGet(errHi)
	fc.body.LocalGet(disc)
	fc.body.Select()
}
