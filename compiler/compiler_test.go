package compiler

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
)

// testContract instantiates a compiled module against a fresh runtime
// wired with both the stdruntime and clarity host namespaces, runs the
// `.top-level` initializer, and returns the instantiated module plus the
// HostInterface so a test can inspect persistent state and events.
func testContract(t *testing.T, prog *ast.Program) (mod api.Module, h *hostiface.HostInterface) {
	t.Helper()
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	t.Cleanup(func() { r.Close(ctx) })

	_, err := stdruntime.InstantiateHostModule(ctx, r)
	require.NoError(t, err)

	h = hostiface.NewHostInterface("SP000CONTRACT", 0)
	_, err = h.Build(ctx, r)
	require.NoError(t, err)

	wasmBytes := Compile(prog)

	compiled, err := r.CompileModule(ctx, wasmBytes)
	require.NoError(t, err)

	mod, err = r.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	require.NoError(t, err)
	t.Cleanup(func() { mod.Close(ctx) })

	_, err = mod.ExportedFunction(TopLevelExport).Call(ctx)
	require.NoError(t, err)

	return mod, h
}

func intLit(v int64) ast.Expr  { return ast.Expr{Kind: ast.KindIntLit, Type: abi.Int, IntVal: v} }
func uintLit(v int64) ast.Expr { return ast.Expr{Kind: ast.KindUintLit, Type: abi.Uint, IntVal: v} }
func localRef(name string, t abi.Type) ast.Expr {
	return ast.Expr{Kind: ast.KindLocalRef, Type: t, LocalName: name}
}

// incProgram builds `(define-public (inc (x int)) (ok (+ x 1)))`.
func incProgram() *ast.Program {
	respT := abi.Response(abi.Int, abi.Int)
	return &ast.Program{
		Functions: []ast.FunctionDef{
			{
				Kind:       ast.FuncPublic,
				Name:       "inc",
				Params:     []ast.Param{{Name: "x", Type: abi.Int}},
				ReturnType: respT,
				Body: []ast.Expr{
					{
						Kind: ast.KindOk,
						Type: respT,
						Inner: &ast.Expr{
							Kind:    ast.KindArith,
							Type:    abi.Int,
							ArithOp: ast.OpAdd,
							Args:    []ast.Expr{localRef("x", abi.Int), intLit(1)},
						},
					},
				},
			},
		},
	}
}

func TestCompileIncPublicFunction(t *testing.T) {
	mod, _ := testContract(t, incProgram())

	fn := mod.ExportedFunction("inc")
	require.NotNil(t, fn)

	results, err := fn.Call(context.Background(), uint64(41), 0)
	require.NoError(t, err)
	// (disc, ok_lo, ok_hi, err_lo, err_hi)
	require.Equal(t, uint64(1), results[0], "ok arm active")
	require.Equal(t, uint64(42), results[1])
	require.Equal(t, uint64(0), results[2])
}

// counterProgram builds a contract with a data-var and a public function
// that increments and returns it:
//
//	(define-data-var counter int 0)
//	(define-public (bump) (begin (var-set counter (+ (var-get counter) 1)) (ok (var-get counter))))
func counterProgram() *ast.Program {
	respT := abi.Response(abi.Int, abi.Int)
	varGet := ast.Expr{Kind: ast.KindVarGet, Type: abi.Int, Name: "counter"}
	varSet := ast.Expr{
		Kind: ast.KindVarSet,
		Type: abi.Bool,
		Name: "counter",
		Value: &ast.Expr{
			Kind:    ast.KindArith,
			Type:    abi.Int,
			ArithOp: ast.OpAdd,
			Args:    []ast.Expr{varGet, intLit(1)},
		},
	}
	return &ast.Program{
		Variables: []ast.VariableDef{
			{Name: "counter", Type: abi.Int, Initial: intLit(0)},
		},
		Functions: []ast.FunctionDef{
			{
				Kind:       ast.FuncPublic,
				Name:       "bump",
				ReturnType: respT,
				Body: []ast.Expr{
					{
						Kind: ast.KindBegin,
						Type: respT,
						Args: []ast.Expr{
							varSet,
							{Kind: ast.KindOk, Type: respT, Inner: &varGet},
						},
					},
				},
			},
		},
	}
}

func TestCompileVariableGetSetRoundTrips(t *testing.T) {
	mod, _ := testContract(t, counterProgram())

	fn := mod.ExportedFunction("bump")
	require.NotNil(t, fn)
	ctx := context.Background()

	results, err := fn.Call(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), results[0])
	require.Equal(t, uint64(1), results[1])

	results, err = fn.Call(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(2), results[1])
}

// assertsProgram builds:
//
//	(define-public (withdraw (amount uint))
//	  (begin (asserts! (> amount u0) (err u1)) (ok amount)))
func assertsProgram() *ast.Program {
	respT := abi.Response(abi.Uint, abi.Uint)
	return &ast.Program{
		Functions: []ast.FunctionDef{
			{
				Kind:       ast.FuncPublic,
				Name:       "withdraw",
				Params:     []ast.Param{{Name: "amount", Type: abi.Uint}},
				ReturnType: respT,
				Body: []ast.Expr{
					{
						Kind: ast.KindAsserts,
						Type: abi.Bool,
						Cond: &ast.Expr{
							Kind:      ast.KindCompare,
							Type:      abi.Bool,
							CompareOp: ast.OpGt,
							Args:      []ast.Expr{localRef("amount", abi.Uint), uintLit(0)},
						},
						ThrownValue: &ast.Expr{Kind: ast.KindUintLit, Type: abi.Uint, IntVal: 1},
					},
					{
						Kind:  ast.KindOk,
						Type:  respT,
						Inner: &ast.Expr{Kind: ast.KindLocalRef, Type: abi.Uint, LocalName: "amount"},
					},
				},
			},
		},
	}
}

func TestCompileAssertsFailurePath(t *testing.T) {
	mod, _ := testContract(t, assertsProgram())

	fn := mod.ExportedFunction("withdraw")
	require.NotNil(t, fn)
	ctx := context.Background()

	results, err := fn.Call(ctx, 0, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(0), results[0], "err arm active")
	require.Equal(t, uint64(0), results[1], "ok arm zeroed")
	require.Equal(t, uint64(1), results[3], "err code carried through")

	results, err = fn.Call(ctx, 5, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(1), results[0], "ok arm active")
	require.Equal(t, uint64(5), results[1])
}

// mapProgram builds:
//
//	(define-map balances principal int)
//	(define-public (credit (who principal) (amount int))
//	  (ok (map-set balances who amount)))
func mapProgram() *ast.Program {
	respT := abi.Response(abi.Bool, abi.Int)
	return &ast.Program{
		Maps: []ast.MapDef{{Name: "balances", KeyType: abi.Principal, ValType: abi.Int}},
		Functions: []ast.FunctionDef{
			{
				Kind: ast.FuncPublic,
				Name: "credit",
				Params: []ast.Param{
					{Name: "who", Type: abi.Principal},
					{Name: "amount", Type: abi.Int},
				},
				ReturnType: respT,
				Body: []ast.Expr{
					{
						Kind: ast.KindOk,
						Type: respT,
						Inner: &ast.Expr{
							Kind:  ast.KindMapSet,
							Type:  abi.Bool,
							Name:  "balances",
							Key:   &ast.Expr{Kind: ast.KindLocalRef, Type: abi.Principal, LocalName: "who"},
							Value: &ast.Expr{Kind: ast.KindLocalRef, Type: abi.Int, LocalName: "amount"},
						},
					},
				},
			},
		},
	}
}

func TestCompileMapSet(t *testing.T) {
	mod, _ := testContract(t, mapProgram())

	fn := mod.ExportedFunction("credit")
	require.NotNil(t, fn)
	ctx := context.Background()

	// who is (principal): (offset, length); amount is (int): (lo, hi).
	results, err := fn.Call(ctx, /*who off*/ 0, /*who len*/ 0, /*amount lo*/ 1, /*amount hi*/ 0)
	require.NoError(t, err)
	require.Equal(t, uint64(1), results[0], "ok arm active")
	require.Equal(t, uint64(1), results[1], "map-set returns true")
}

// sumListProgram builds:
//
//	(define-read-only (sum-list (xs (list 4 int)))
//	  (fold + xs 0))
func sumListProgram() *ast.Program {
	reducer := &ast.FunctionDef{
		Params: []ast.Param{{Name: "x", Type: abi.Int}, {Name: "acc", Type: abi.Int}},
		Body: []ast.Expr{
			{
				Kind:    ast.KindArith,
				Type:    abi.Int,
				ArithOp: ast.OpAdd,
				Args:    []ast.Expr{localRef("x", abi.Int), localRef("acc", abi.Int)},
			},
		},
	}
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
						Reducer: reducer,
						Initial: &ast.Expr{Kind: ast.KindIntLit, Type: abi.Int, IntVal: 0},
					},
				},
			},
		},
	}
}

func TestCompileFoldOverList(t *testing.T) {
	mod, _ := testContract(t, sumListProgram())

	fn := mod.ExportedFunction("sum-list")
	require.NotNil(t, fn)
	ctx := context.Background()

	// xs built via a private helper isn't exercised here directly since
	// list literals aren't a top-level export; this checks the empty-list
	// identity instead, which only needs a valid (offset, length=0) pair.
	results, err := fn.Call(ctx, 0, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(0), results[0])
	require.Equal(t, uint64(0), results[1])
}

// concatBuffProgram builds:
//
//	(define-read-only (join (a (buff 8)) (b (buff 8))) (concat a b))
func concatBuffProgram() *ast.Program {
	buffT := abi.Buff(8)
	resultT := abi.Buff(16)
	return &ast.Program{
		Functions: []ast.FunctionDef{
			{
				Kind:       ast.FuncReadOnly,
				Name:       "join",
				Params:     []ast.Param{{Name: "a", Type: buffT}, {Name: "b", Type: buffT}},
				ReturnType: resultT,
				Body: []ast.Expr{
					{
						Kind: ast.KindConcat,
						Type: resultT,
						Seq1: &ast.Expr{Kind: ast.KindLocalRef, Type: buffT, LocalName: "a"},
						Seq2: &ast.Expr{Kind: ast.KindLocalRef, Type: buffT, LocalName: "b"},
					},
				},
			},
		},
	}
}

func TestCompileConcatBuffers(t *testing.T) {
	mod, _ := testContract(t, concatBuffProgram())

	fn := mod.ExportedFunction("join")
	require.NotNil(t, fn)
	ctx := context.Background()

	aOff := writeTestBytes(t, mod, []byte("abcd"))
	bOff := writeTestBytes(t, mod, []byte("wxyz"))

	results, err := fn.Call(ctx, uint64(aOff), 4, uint64(bOff), 4)
	require.NoError(t, err)
	destOff := uint32(results[0])
	destLen := uint32(results[1])
	require.Equal(t, uint32(8), destLen)

	data, ok := mod.Memory().Read(destOff, destLen)
	require.True(t, ok)
	require.Equal(t, []byte("abcdwxyz"), data)
}

// tupleFieldProgram builds:
//
//	(define-read-only (get-x (x int) (y bool)) (get x (tuple (x x) (y y))))
func tupleFieldProgram() *ast.Program {
	tupleT := abi.NewTuple(map[string]abi.Type{"x": abi.Int, "y": abi.Bool})
	tupleLit := ast.Expr{
		Kind: ast.KindTupleLit,
		Type: tupleT,
		Fields: map[string]ast.Expr{
			"x": localRef("x", abi.Int),
			"y": {Kind: ast.KindLocalRef, Type: abi.Bool, LocalName: "y"},
		},
	}
	return &ast.Program{
		Functions: []ast.FunctionDef{
			{
				Kind: ast.FuncReadOnly,
				Name: "get-x",
				Params: []ast.Param{
					{Name: "x", Type: abi.Int},
					{Name: "y", Type: abi.Bool},
				},
				ReturnType: abi.Int,
				Body: []ast.Expr{
					{Kind: ast.KindTupleGet, Type: abi.Int, Tuple: &tupleLit, FieldName: "x"},
				},
			},
		},
	}
}

func TestCompileTupleLitAndGet(t *testing.T) {
	mod, _ := testContract(t, tupleFieldProgram())

	fn := mod.ExportedFunction("get-x")
	require.NotNil(t, fn)
	ctx := context.Background()

	// x is (int): (lo, hi); y is (bool): one i32.
	results, err := fn.Call(ctx, /*x lo*/ 7, /*x hi*/ 0, /*y*/ 1)
	require.NoError(t, err)
	require.Equal(t, uint64(7), results[0])
}

// unwrapProgram builds:
//
//	(define-public (require-some (opt (optional int)))
//	  (ok (unwrap! opt (err u0))))
func unwrapProgram() *ast.Program {
	optT := abi.Optional(abi.Int)
	respT := abi.Response(abi.Int, abi.Uint)
	return &ast.Program{
		Functions: []ast.FunctionDef{
			{
				Kind:       ast.FuncPublic,
				Name:       "require-some",
				Params:     []ast.Param{{Name: "opt", Type: optT}},
				ReturnType: respT,
				Body: []ast.Expr{
					{
						Kind: ast.KindOk,
						Type: respT,
						Inner: &ast.Expr{
							Kind:  ast.KindUnwrap,
							Type:  abi.Int,
							Inner: &ast.Expr{Kind: ast.KindLocalRef, Type: optT, LocalName: "opt"},
							Default: &ast.Expr{Kind: ast.KindUintLit, Type: abi.Uint, IntVal: 0},
						},
					},
				},
			},
		},
	}
}

func TestCompileUnwrapEarlyExit(t *testing.T) {
	mod, _ := testContract(t, unwrapProgram())

	fn := mod.ExportedFunction("require-some")
	require.NotNil(t, fn)
	ctx := context.Background()

	// discriminant=0 (none), carried value irrelevant.
	results, err := fn.Call(ctx, 0, 0, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(0), results[0], "err arm active")
	require.Equal(t, uint64(0), results[3], "err code from Default")

	// discriminant=1 (some), value 9.
	results, err = fn.Call(ctx, 1, 9, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(1), results[0], "ok arm active")
	require.Equal(t, uint64(9), results[1])
}

// writeTestBytes grows the module's memory by one page and writes b at
// the start of the newly added page, for tests that need to hand in
// sequence arguments living outside the compiled module's own
// literal/stack region.
func writeTestBytes(t *testing.T, mod api.Module, b []byte) uint32 {
	t.Helper()
	prevPages, ok := mod.Memory().Grow(1)
	require.True(t, ok)
	base := prevPages * 65536
	require.True(t, mod.Memory().Write(base, b))
	return base
}
