package codegen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/stacks-network/clarity-wasm-sub001/abi"
	"github.com/stacks-network/clarity-wasm-sub001/ast"
	"github.com/stacks-network/clarity-wasm-sub001/hostiface"
	"github.com/stacks-network/clarity-wasm-sub001/stdruntime"
	"github.com/stacks-network/clarity-wasm-sub001/wasmbin"
)

// topLevelExport mirrors compiler.TopLevelExport; this package cannot
// import the compiler package (which itself imports codegen), so the
// short top-level-orchestration step compiler.Compile performs is
// duplicated here rather than exercised through that package.
const topLevelExport = ".top-level"

func compileForTest(prog *ast.Program) []byte {
	g := NewGenerator()
	g.DefineFunctions(prog)

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
	g.FinishTopLevel(fc, topLevelExport)

	g.FinalizeMemory(4 * 65536)
	g.Module.AddExport("memory", wasmbin.ExternKindMemory, 0)
	return g.Module.Encode()
}

// testRun instantiates a compiled module against a fresh runtime wired
// with both the stdruntime and clarity host namespaces, and runs the
// `.top-level` initializer.
func testRun(t *testing.T, prog *ast.Program) api.Module {
	t.Helper()
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	t.Cleanup(func() { r.Close(ctx) })

	_, err := stdruntime.InstantiateHostModule(ctx, r)
	require.NoError(t, err)

	h := hostiface.NewHostInterface("SP000CONTRACT", 0)
	_, err = h.Build(ctx, r)
	require.NoError(t, err)

	compiled, err := r.CompileModule(ctx, compileForTest(prog))
	require.NoError(t, err)

	mod, err := r.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	require.NoError(t, err)
	t.Cleanup(func() { mod.Close(ctx) })

	_, err = mod.ExportedFunction(topLevelExport).Call(ctx)
	require.NoError(t, err)
	return mod
}

// writeIntList grows mod's memory by one page and writes values, each
// encoded in the Type ABI's 16-byte little-endian int layout, contiguously
// at the start of the newly added page.
func writeIntList(t *testing.T, mod api.Module, values []int64) (offset uint32, length uint32) {
	t.Helper()
	var buf []byte
	for _, v := range values {
		buf = append(buf, encodeScalarLiteral(abi.Int, v, false, nil)...)
	}
	prevPages, ok := mod.Memory().Grow(1)
	require.True(t, ok)
	base := prevPages * 65536
	require.True(t, mod.Memory().Write(base, buf))
	return base, uint32(len(values))
}

func addReducer() *ast.FunctionDef {
	return &ast.FunctionDef{
		Params: []ast.Param{{Name: "x", Type: abi.Int}, {Name: "acc", Type: abi.Int}},
		Body: []ast.Expr{
			{
				Kind:    ast.KindArith,
				Type:    abi.Int,
				ArithOp: ast.OpAdd,
				Args: []ast.Expr{
					{Kind: ast.KindLocalRef, Type: abi.Int, LocalName: "x"},
					{Kind: ast.KindLocalRef, Type: abi.Int, LocalName: "acc"},
				},
			},
		},
	}
}

// sumListProgram builds:
//
//	(define-read-only (sum-list (xs (list 4 int))) (fold + xs 0))
func sumListProgram() *ast.Program {
	listT := abi.List(abi.Int, 4)
	return &ast.Program{
		Functions: []ast.FunctionDef{
			{
				Kind:       ast.FuncReadOnly,
				Name:       "sum-list",
				Params:     []ast.Param{{Name: "xs", Type: listT}},
				ReturnType: abi.Int,
				Body: []ast.Expr{
					{
						Kind:    ast.KindFold,
						Type:    abi.Int,
						Seq1:    &ast.Expr{Kind: ast.KindLocalRef, Type: listT, LocalName: "xs"},
						Reducer: addReducer(),
						Initial: &ast.Expr{Kind: ast.KindIntLit, Type: abi.Int, IntVal: 0},
					},
				},
			},
		},
	}
}

func TestEmitFoldOverNonEmptyList(t *testing.T) {
	mod := testRun(t, sumListProgram())
	off, n := writeIntList(t, mod, []int64{1, 2, 3, 4})

	fn := mod.ExportedFunction("sum-list")
	require.NotNil(t, fn)
	results, err := fn.Call(context.Background(), uint64(off), uint64(n))
	require.NoError(t, err)
	require.Equal(t, uint64(10), results[0])
	require.Equal(t, uint64(0), results[1])
}

// elementAtProgram builds:
//
//	(define-read-only (at-idx (xs (list 4 int)) (idx uint)) (element-at? xs idx))
func elementAtProgram() *ast.Program {
	listT := abi.List(abi.Int, 4)
	optT := abi.Optional(abi.Int)
	return &ast.Program{
		Functions: []ast.FunctionDef{
			{
				Kind: ast.FuncReadOnly,
				Name: "at-idx",
				Params: []ast.Param{
					{Name: "xs", Type: listT},
					{Name: "idx", Type: abi.Uint},
				},
				ReturnType: optT,
				Body: []ast.Expr{
					{
						Kind: ast.KindElementAt,
						Type: optT,
						Seq1: &ast.Expr{Kind: ast.KindLocalRef, Type: listT, LocalName: "xs"},
						Index: &ast.Expr{
							Kind: ast.KindLocalRef, Type: abi.Uint, LocalName: "idx",
						},
					},
				},
			},
		},
	}
}

func TestEmitElementAtInBounds(t *testing.T) {
	mod := testRun(t, elementAtProgram())
	off, n := writeIntList(t, mod, []int64{10, 20, 30, 40})

	fn := mod.ExportedFunction("at-idx")
	require.NotNil(t, fn)
	results, err := fn.Call(context.Background(), uint64(off), uint64(n), 2, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(1), results[0], "some arm active")
	require.Equal(t, uint64(30), results[1])
}

func TestEmitElementAtOutOfBounds(t *testing.T) {
	mod := testRun(t, elementAtProgram())
	off, n := writeIntList(t, mod, []int64{10, 20, 30, 40})

	fn := mod.ExportedFunction("at-idx")
	require.NotNil(t, fn)
	results, err := fn.Call(context.Background(), uint64(off), uint64(n), 99, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(0), results[0], "none arm active")
	require.Equal(t, uint64(0), results[1], "carried value zeroed")
}
