// Package ast defines the analysed program tree CG walks. A real
// front end would produce this tree by parsing and type-checking source
// text; constructing it directly (as the compiler's tests do) is exactly
// equivalent to the host handing CG an already-analysed program, which is
// the boundary this module draws around parsing and type-checking.
package ast

import "github.com/stacks-network/clarity-wasm-sub001/abi"

// Kind tags the dispatch of codegen's emitExpr switch: a plain enum standing in
// for a dynamic-dispatch-on-operator-node hierarchy.
type Kind int

const (
	KindIntLit Kind = iota
	KindUintLit
	KindBoolLit
	KindBufferLit
	KindLocalRef
	KindArith
	KindCompare
	KindLogical
	KindLet
	KindIf
	KindBegin
	KindAsserts
	KindVarGet
	KindVarSet
	KindMapGet
	KindMapSet
	KindMapInsert
	KindMapDelete
	KindOk
	KindErr
	KindSome
	KindNone
	KindUnwrap
	KindUnwrapPanic
	KindListLit
	KindConcat
	KindFold
	KindElementAt
	KindTupleLit
	KindTupleGet
	KindCall
	KindContractCall
	KindFtTransfer
	KindFtGetBalance
	KindNftTransfer
	KindPrint
)

// ArithOp names an SR arithmetic entry point, independent of operand type;
// CG chooses the `-int`/`-uint` variant at lowering time from the static
// type of the expression.
type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
)

// CompareOp names one of the six relational predicates.
type CompareOp int

const (
	OpLt CompareOp = iota
	OpGt
	OpLe
	OpGe
	OpEq
	OpNe
)

// LogicalOp names `and`/`or`/`not`.
type LogicalOp int

const (
	OpAnd LogicalOp = iota
	OpOr
	OpNot
)

// Expr is one node of the analysed expression tree. Every Expr carries
// its own static Type so CG never re-derives it.
type Expr struct {
	Kind Kind
	Type abi.Type

	// Literal payloads.
	IntVal    int64 // for IntLit/UintLit magnitude when it fits an int64; BigVal used otherwise
	BigVal    string // decimal, set when the literal does not fit in IntVal
	BoolVal   bool
	BufferVal []byte

	// Arith/Compare/Logical.
	ArithOp   ArithOp
	CompareOp CompareOp
	LogicalOp LogicalOp
	Args      []Expr

	// LocalRef.
	LocalName string

	// Let.
	Bindings []Binding
	Body     []Expr

	// If.
	Cond, Then, Else *Expr

	// Asserts: evaluate Cond; if false, unwind with ThrownValue as the err
	// arm of the enclosing public function's response.
	ThrownValue *Expr

	// Var/map ops.
	Name    string // variable or map name
	Key     *Expr  // map key expression
	Value   *Expr  // value expression for set/insert

	// Ok/Err/Some wrap a single inner value.
	Inner *Expr

	// Unwrap/UnwrapPanic: inspect Inner's discriminant; Default supplies
	// the asserts!-style early-exit value for the non-panic family.
	Default *Expr

	// ListLit/Concat/Fold/ElementAt.
	Elements []Expr
	Seq1     *Expr
	Seq2     *Expr
	Index    *Expr
	Reducer  *FunctionDef // for fold
	Initial  *Expr

	// TupleLit/TupleGet.
	Fields    map[string]Expr
	FieldName string
	Tuple     *Expr

	// Call: invoke a user-defined function by name.
	Callee string

	// ContractCall: invoke another contract's exported function by name,
	// the direct (statically known callee) form; Callee names the target
	// function and Args its arguments, the same fields KindCall uses.
	// Dynamic (trait-typed) dispatch is not represented here.
	ContractName string

	// FtTransfer/FtGetBalance/NftTransfer.
	AssetName string
	Amount    *Expr
	Asset     *Expr
	Sender    *Expr
	Recipient *Expr

	// Print.
	PrintValue *Expr
}

// Binding is one `let` clause: name bound to Value's result.
type Binding struct {
	Name  string
	Value Expr
}

// FunctionKind distinguishes the three definition forms.
type FunctionKind int

const (
	FuncReadOnly FunctionKind = iota
	FuncPublic
	FuncPrivate
)

// Param is one function parameter.
type Param struct {
	Name string
	Type abi.Type
}

// FunctionDef is one `define-{public,read-only,private}` form.
type FunctionDef struct {
	Kind       FunctionKind
	Name       string
	Params     []Param
	ReturnType abi.Type
	Body       []Expr
}

// VariableDef is one `define-data-var`.
type VariableDef struct {
	Name    string
	Type    abi.Type
	Initial Expr
}

// MapDef is one `define-map`.
type MapDef struct {
	Name     string
	KeyType  abi.Type
	ValType  abi.Type
}

// FTDef is one `define-fungible-token`.
type FTDef struct {
	Name   string
	HasCap bool
	Cap    string // decimal, only meaningful when HasCap
}

// NFTDef is one `define-non-fungible-token`.
type NFTDef struct {
	Name      string
	AssetType abi.Type
}

// Program is a fully analysed contract: every definition CG needs to
// lower, in source order.
type Program struct {
	Variables []VariableDef
	Maps      []MapDef
	FTs       []FTDef
	NFTs      []NFTDef
	Functions []FunctionDef
}
