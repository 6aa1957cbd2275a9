// Package memory implements the linear-memory layout conventions: a
// literal region fixed at module-assembly time, a call-stack
// region addressed relative to a global stack pointer, and the prelude and
// postlude sequences every addressable-local function needs.
package memory

import (
	"github.com/stacks-network/clarity-wasm-sub001/wasmbin"
)

// PageSize is the WebAssembly linear memory page size.
const PageSize = 65536

// Manager tracks the three running counters the design notes call for in
// place of a runtime allocator: literal_end, stack_base (== literal_end),
// and the frame size of the function currently being generated.
type Manager struct {
	// literalEnd is the address one past the last literal byte written so
	// far; new literals are appended here.
	literalEnd uint32

	// StackPointerGlobal is the index of the mutable i32 global used as the
	// stack pointer, once it has been added to the module.
	StackPointerGlobal uint32

	data []wasmbin.DataInit
}

// NewManager creates a Manager whose literal region starts at address 0.
func NewManager() *Manager { return &Manager{} }

// AddLiteral appends b to the literal region and returns its offset. The
// literal region is never written again after module assembly.
func (m *Manager) AddLiteral(b []byte) uint32 {
	offset := m.literalEnd
	if len(b) > 0 {
		m.data = append(m.data, wasmbin.DataInit{Offset: offset, Bytes: append([]byte{}, b...)})
	}
	m.literalEnd += uint32(len(b))
	return offset
}

// LiteralEnd returns the current end of the literal region: this becomes
// the stack base once literal emission is complete.
func (m *Manager) LiteralEnd() uint32 { return m.literalEnd }

// DataInits returns the accumulated data-segment initializers for the
// literal region, to be installed into the module's data section.
func (m *Manager) DataInits() []wasmbin.DataInit { return m.data }

// MemoryPages computes the minimum page count needed to back the literal
// region plus the requested amount of initial scratch/stack headroom.
func MemoryPages(literalEnd, headroom uint32) uint32 {
	total := literalEnd + headroom
	pages := total / PageSize
	if total%PageSize != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return pages
}

// Frame tracks the addressable-local layout of a single function being
// generated: allocate_call_stack_local is Frame.Alloc.
type Frame struct {
	size uint32
}

// Alloc reserves size bytes in the current frame and returns their offset,
// relative to the frame pointer.
func (f *Frame) Alloc(size uint32) uint32 {
	offset := f.size
	f.size += size
	return offset
}

// Size returns the statically computed size of the frame, used by the
// prelude to bump the stack pointer.
func (f *Frame) Size() uint32 { return f.size }

// Prelude emits the standard function entry sequence:
//  1. read the stack pointer global into framePointerLocal
//  2. add the frame size and write the result back to the stack pointer
//
// A function with a zero-size frame may skip prelude/postlude entirely;
// callers decide that by checking Frame.Size() == 0 themselves.
func Prelude(stackPointerGlobal uint32, framePointerLocal uint32, frameSize uint32) *wasmbin.Instr {
	i := wasmbin.NewInstr()
	i.GlobalGet(stackPointerGlobal).LocalSet(framePointerLocal)
	i.LocalGet(framePointerLocal).I32Const(int32(frameSize)).I32Add().GlobalSet(stackPointerGlobal)
	return i
}

// Postlude restores the stack pointer to the saved frame pointer. CG emits
// this on every exit path of a function that ran Prelude; the stack
// pointer observed on exit must equal its value on entry.
func Postlude(stackPointerGlobal uint32, framePointerLocal uint32) *wasmbin.Instr {
	return wasmbin.NewInstr().LocalGet(framePointerLocal).GlobalSet(stackPointerGlobal)
}
