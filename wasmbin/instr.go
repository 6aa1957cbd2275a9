package wasmbin

import "github.com/stacks-network/clarity-wasm-sub001/internal/leb128"

// Instr is a growable instruction-sequence buffer: callers append
// instructions and read the accumulated bytes back out once the sequence
// is complete. It backs a plain Go slice since emitted Wasm is data, not
// mapped executable memory.
type Instr struct {
	b []byte
}

// NewInstr returns an empty instruction sequence.
func NewInstr() *Instr { return &Instr{} }

// Bytes returns the accumulated instruction bytes, including the
// terminating End this sequence's owner is responsible for appending.
func (i *Instr) Bytes() []byte { return i.b }

func (i *Instr) op(b byte) *Instr { i.b = append(i.b, b); return i }

func (i *Instr) Unreachable() *Instr { return i.op(OpUnreachable) }
func (i *Instr) Nop() *Instr         { return i.op(OpNop) }
func (i *Instr) Return() *Instr      { return i.op(OpReturn) }
func (i *Instr) Drop() *Instr        { return i.op(OpDrop) }
func (i *Instr) Select() *Instr      { return i.op(OpSelect) }
func (i *Instr) End() *Instr         { return i.op(OpEnd) }
func (i *Instr) Else() *Instr        { return i.op(OpElse) }

// Block opens a `block` with the given block type (BlockTypeEmpty or a
// concrete ValueType); callers must close it with End.
func (i *Instr) Block(blockType byte) *Instr { return i.op(OpBlock).u8(blockType) }
func (i *Instr) Loop(blockType byte) *Instr  { return i.op(OpLoop).u8(blockType) }
func (i *Instr) If(blockType byte) *Instr    { return i.op(OpIf).u8(blockType) }

func (i *Instr) u8(b byte) *Instr { i.b = append(i.b, b); return i }

func (i *Instr) Br(depth uint32) *Instr   { return i.op(OpBr).uleb(depth) }
func (i *Instr) BrIf(depth uint32) *Instr { return i.op(OpBrIf).uleb(depth) }

func (i *Instr) Call(funcIdx uint32) *Instr          { return i.op(OpCall).uleb(funcIdx) }
func (i *Instr) CallIndirect(typeIdx uint32) *Instr  { return i.op(OpCallIndirect).uleb(typeIdx).u8(0x00) }

func (i *Instr) LocalGet(idx uint32) *Instr  { return i.op(OpLocalGet).uleb(idx) }
func (i *Instr) LocalSet(idx uint32) *Instr  { return i.op(OpLocalSet).uleb(idx) }
func (i *Instr) LocalTee(idx uint32) *Instr  { return i.op(OpLocalTee).uleb(idx) }
func (i *Instr) GlobalGet(idx uint32) *Instr { return i.op(OpGlobalGet).uleb(idx) }
func (i *Instr) GlobalSet(idx uint32) *Instr { return i.op(OpGlobalSet).uleb(idx) }

func (i *Instr) I32Const(v int32) *Instr { return i.op(OpI32Const).sleb64(int64(v)) }
func (i *Instr) I64Const(v int64) *Instr { return i.op(OpI64Const).sleb64(v) }

func (i *Instr) uleb(v uint32) *Instr {
	i.b = leb128.AppendUint32(i.b, v)
	return i
}

func (i *Instr) sleb64(v int64) *Instr {
	i.b = leb128.AppendInt64(i.b, v)
	return i
}

// memArg appends the (align, offset) pair every load/store carries.
func (i *Instr) memArg(align, offset uint32) *Instr {
	i.b = leb128.AppendUint32(i.b, align)
	i.b = leb128.AppendUint32(i.b, offset)
	return i
}

func (i *Instr) I32Load(offset uint32) *Instr    { return i.op(OpI32Load).memArg(2, offset) }
func (i *Instr) I64Load(offset uint32) *Instr    { return i.op(OpI64Load).memArg(3, offset) }
func (i *Instr) I32Load8U(offset uint32) *Instr  { return i.op(OpI32Load8U).memArg(0, offset) }
func (i *Instr) I64Load8U(offset uint32) *Instr  { return i.op(OpI64Load8U).memArg(0, offset) }
func (i *Instr) I32Store(offset uint32) *Instr   { return i.op(OpI32Store).memArg(2, offset) }
func (i *Instr) I64Store(offset uint32) *Instr   { return i.op(OpI64Store).memArg(3, offset) }
func (i *Instr) I32Store8(offset uint32) *Instr  { return i.op(OpI32Store8).memArg(0, offset) }
func (i *Instr) I64Store8(offset uint32) *Instr  { return i.op(OpI64Store8).memArg(0, offset) }

func (i *Instr) MemorySize() *Instr          { return i.op(OpMemorySize).u8(0x00) }
func (i *Instr) MemoryGrow() *Instr          { return i.op(OpMemoryGrow).u8(0x00) }

// Binary/unary numeric opcodes used directly by the standard runtime and by
// shift/comparison lowering; CG's n-ary arithmetic itself always goes
// through SR calls, but SR's own bodies are hand-assembled i32/i64
// sequences, hence the full complement here.
func (i *Instr) I32Add() *Instr  { return i.op(OpI32Add) }
func (i *Instr) I32Sub() *Instr  { return i.op(OpI32Sub) }
func (i *Instr) I32Mul() *Instr  { return i.op(OpI32Mul) }
func (i *Instr) I32And() *Instr  { return i.op(OpI32And) }
func (i *Instr) I32Or() *Instr   { return i.op(OpI32Or) }
func (i *Instr) I32Xor() *Instr  { return i.op(OpI32Xor) }
func (i *Instr) I32Eq() *Instr   { return i.op(OpI32Eq) }
func (i *Instr) I32Ne() *Instr   { return i.op(OpI32Ne) }
func (i *Instr) I32Eqz() *Instr  { return i.op(OpI32Eqz) }
func (i *Instr) I32LtU() *Instr  { return i.op(OpI32LtU) }
func (i *Instr) I32LtS() *Instr  { return i.op(OpI32LtS) }
func (i *Instr) I32GeU() *Instr  { return i.op(OpI32GeU) }
func (i *Instr) I32GtU() *Instr  { return i.op(OpI32GtU) }
func (i *Instr) I32LeU() *Instr  { return i.op(OpI32LeU) }

func (i *Instr) I64Add() *Instr  { return i.op(OpI64Add) }
func (i *Instr) I64Sub() *Instr  { return i.op(OpI64Sub) }
func (i *Instr) I64Mul() *Instr  { return i.op(OpI64Mul) }
func (i *Instr) I64DivU() *Instr { return i.op(OpI64DivU) }
func (i *Instr) I64DivS() *Instr { return i.op(OpI64DivS) }
func (i *Instr) I64RemU() *Instr { return i.op(OpI64RemU) }
func (i *Instr) I64RemS() *Instr { return i.op(OpI64RemS) }
func (i *Instr) I64And() *Instr  { return i.op(OpI64And) }
func (i *Instr) I64Or() *Instr   { return i.op(OpI64Or) }
func (i *Instr) I64Xor() *Instr  { return i.op(OpI64Xor) }
func (i *Instr) I64Shl() *Instr  { return i.op(OpI64Shl) }
func (i *Instr) I64ShrS() *Instr { return i.op(OpI64ShrS) }
func (i *Instr) I64ShrU() *Instr { return i.op(OpI64ShrU) }
func (i *Instr) I64Eq() *Instr   { return i.op(OpI64Eq) }
func (i *Instr) I64Ne() *Instr   { return i.op(OpI64Ne) }
func (i *Instr) I64Eqz() *Instr  { return i.op(OpI64Eqz) }
func (i *Instr) I64LtU() *Instr  { return i.op(OpI64LtU) }
func (i *Instr) I64LtS() *Instr  { return i.op(OpI64LtS) }
func (i *Instr) I64GtU() *Instr  { return i.op(OpI64GtU) }
func (i *Instr) I64GtS() *Instr  { return i.op(OpI64GtS) }
func (i *Instr) I64LeU() *Instr  { return i.op(OpI64LeU) }
func (i *Instr) I64LeS() *Instr  { return i.op(OpI64LeS) }
func (i *Instr) I64GeU() *Instr  { return i.op(OpI64GeU) }
func (i *Instr) I64GeS() *Instr  { return i.op(OpI64GeS) }
func (i *Instr) I64ExtendI32U() *Instr { return i.op(OpI64ExtendI32U) }
func (i *Instr) I64ExtendI32S() *Instr { return i.op(OpI64ExtendI32S) }
func (i *Instr) I32WrapI64() *Instr    { return i.op(OpI32WrapI64) }

// Raw appends instruction bytes produced by another Instr sequence (used to
// splice a previously assembled subsequence, e.g. the arms of an if/else).
func (i *Instr) Raw(b []byte) *Instr { i.b = append(i.b, b...); return i }
