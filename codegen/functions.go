package codegen

import (
	"github.com/stacks-network/clarity-wasm-sub001/abi"
	"github.com/stacks-network/clarity-wasm-sub001/ast"
	"github.com/stacks-network/clarity-wasm-sub001/memory"
	"github.com/stacks-network/clarity-wasm-sub001/wasmbin"
)

// funcSlot maps a user function's full function-index-space index back to
// its position in Module.Funcs, so DefineFunctions's first pass can
// reserve every index before any body is lowered and the second pass can
// fill bodies in, resolving forward and mutual calls.
type funcSlot struct {
	index uint32
	slot  int
}

// DefineFunctions lowers every function in prog in two passes: the first
// registers every function's signature and reserves its index (so a call
// to a not-yet-lowered function still resolves), the second lowers each
// body in turn.
func (g *Generator) DefineFunctions(prog *ast.Program) {
	base := g.numDefinedFuncBase()
	slots := make(map[string]funcSlot, len(prog.Functions))

	for i := range prog.Functions {
		fd := &prog.Functions[i]
		g.funcDefs[fd.Name] = fd
		ty := g.Module.AddType(funcSignature(fd))
		idx := g.Module.AddFunc(wasmbin.Func{TypeIndex: ty})
		g.funcIndex[fd.Name] = idx
		slots[fd.Name] = funcSlot{index: idx, slot: int(idx) - int(base)}

		if fd.Kind != ast.FuncPrivate {
			g.Module.AddExport(fd.Name, wasmbin.ExternKindFunc, idx)
		}
	}

	for i := range prog.Functions {
		fd := &prog.Functions[i]
		body, locals := g.lowerFunctionBody(fd)
		s := slots[fd.Name]
		g.Module.Funcs[s.slot].Locals = locals
		g.Module.Funcs[s.slot].Body = body
	}
}

// numDefinedFuncBase returns the current import count: the
// function-index-space index of Module.Funcs[0] (SR's own defined bodies
// come first, user functions after them), so an index minus this base is
// that function's slot in Module.Funcs.
func (g *Generator) numDefinedFuncBase() uint32 {
	var n uint32
	for _, im := range g.Module.Imports {
		if im.Kind == wasmbin.ExternKindFunc {
			n++
		}
	}
	return n
}

func funcSignature(fd *ast.FunctionDef) wasmbin.FuncType {
	var params []wasmbin.ValueType
	for _, p := range fd.Params {
		params = append(params, shapeToWasm(abi.WasmShape(p.Type))...)
	}
	return wasmbin.FuncType{
		Params:  params,
		Results: shapeToWasm(abi.WasmShape(fd.ReturnType)),
	}
}

func shapeToWasm(shape []abi.ValKind) []wasmbin.ValueType {
	out := make([]wasmbin.ValueType, len(shape))
	for i, k := range shape {
		out[i] = valKindToWasm(k)
	}
	return out
}

// lowerFunctionBody assembles one function's parameter bindings, begin/
// commit-or-rollback call bracket (public and read-only forms only,
// the public/read-only kinds only), frame prelude/postlude, and expression body.
func (g *Generator) lowerFunctionBody(fd *ast.FunctionDef) ([]byte, []wasmbin.ValueType) {
	paramShapeLen := uint32(0)
	for _, p := range fd.Params {
		paramShapeLen += uint32(len(abi.WasmShape(p.Type)))
	}

	fc := newFuncCtx(g, paramShapeLen, fd.ReturnType)
	fc.inPublic = fd.Kind == ast.FuncPublic
	fc.hasBracket = fd.Kind != ast.FuncPrivate

	idx := uint32(0)
	for _, p := range fd.Params {
		shape := abi.WasmShape(p.Type)
		locals := make([]uint32, len(shape))
		for i := range shape {
			locals[i] = idx
			idx++
		}
		fc.env[p.Name] = locals
		fc.envType[p.Name] = p.Type
	}

	fc.framePtr = fc.paramCount + uint32(len(fc.locals))
	fc.locals = append(fc.locals, wasmbin.ValueTypeI32)

	switch fd.Kind {
	case ast.FuncPublic:
		fc.body.Call(g.HI.beginPublicCall)
	case ast.FuncReadOnly:
		fc.body.Call(g.HI.beginReadOnlyCall)
	}

	for i := range fd.Body {
		g.emitExpr(fc, &fd.Body[i])
		if i != len(fd.Body)-1 {
			dropShape(fc.body, abi.WasmShape(fd.Body[i].Type))
		}
	}

	if fc.hasBracket {
		fc.body.Call(g.HI.commitCall)
	}

	final := wasmbin.NewInstr()
	final.Raw(memory.Prelude(g.stackPtrGlobal, fc.framePtr, fc.frame.Size()).Bytes())
	final.Raw(fc.body.Bytes())
	final.Raw(memory.Postlude(g.stackPtrGlobal, fc.framePtr).Bytes())
	final.End()

	return final.Bytes(), fc.locals
}
