// Package compiler ties the pieces together: given an analysed
// ast.Program it drives codegen to produce a standalone Wasm module,
// lowering every top-level definition into a `.top-level` initializer
// function the host runs once at deployment before any public or
// read-only function becomes callable.
package compiler

import (
	"github.com/stacks-network/clarity-wasm-sub001/ast"
	"github.com/stacks-network/clarity-wasm-sub001/codegen"
	"github.com/stacks-network/clarity-wasm-sub001/wasmbin"
)

// TopLevelExport is the name the `.top-level` initializer is exported
// under; a host runtime must call it exactly once, before any other
// export, to populate persistent-state definitions.
const TopLevelExport = ".top-level"

// memoryHeadroom is the scratch/call-stack region reserved beyond the
// literal region, in 64KiB pages' worth of bytes; a real deployment would
// size this from the contract's deepest observed frame nesting, but a
// fixed generous headroom is sufficient for the programs this compiler
// targets.
const memoryHeadroom = 4 * 65536

// Compile lowers prog into a complete Wasm binary module.
func Compile(prog *ast.Program) []byte {
	g := codegen.NewGenerator()

	g.DefineFunctions(prog)
	defineTopLevel(g, prog)
	g.FinalizeMemory(memoryHeadroom)
	g.Module.AddExport("memory", wasmbin.ExternKindMemory, 0)

	return g.Module.Encode()
}

// defineTopLevel builds the `.top-level` function: one Host Interface
// define_* call per variable, map, fungible token and non-fungible token,
// in source order, followed by a define_function registration for every
// user function so later contract-call dispatch can look kinds up by
// name.
func defineTopLevel(g *codegen.Generator, prog *ast.Program) {
	fc := g.NewTopLevelCtx()

	for i := range prog.Variables {
		g.EmitDefineVariable(fc, &prog.Variables[i])
	}
	for i := range prog.Maps {
		g.EmitDefineMap(fc, &prog.Maps[i])
	}
	for i := range prog.FTs {
		g.EmitDefineFT(fc, &prog.FTs[i])
	}
	for i := range prog.NFTs {
		g.EmitDefineNFT(fc, &prog.NFTs[i])
	}
	for i := range prog.Functions {
		g.EmitDefineFunction(fc, &prog.Functions[i])
	}

	g.FinishTopLevel(fc, TopLevelExport)
}
