package memory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stacks-network/clarity-wasm-sub001/wasmbin"
)

func TestAddLiteralAccumulatesOffsets(t *testing.T) {
	m := NewManager()
	o1 := m.AddLiteral([]byte("apple"))
	o2 := m.AddLiteral([]byte("pear"))
	require.Equal(t, uint32(0), o1)
	require.Equal(t, uint32(5), o2)
	require.Equal(t, uint32(9), m.LiteralEnd())
	require.Len(t, m.DataInits(), 2)
}

func TestEmptyLiteralIsNotRecordedAsDataSegment(t *testing.T) {
	m := NewManager()
	m.AddLiteral(nil)
	require.Empty(t, m.DataInits())
}

func TestFrameAllocIsSequential(t *testing.T) {
	f := &Frame{}
	a := f.Alloc(16)
	b := f.Alloc(4)
	require.Equal(t, uint32(0), a)
	require.Equal(t, uint32(16), b)
	require.Equal(t, uint32(20), f.Size())
}

func TestMemoryPagesRoundsUp(t *testing.T) {
	require.Equal(t, uint32(1), MemoryPages(0, 0))
	require.Equal(t, uint32(1), MemoryPages(100, 100))
	require.Equal(t, uint32(2), MemoryPages(PageSize, 1))
}

func TestPreludePostludeAreSymmetric(t *testing.T) {
	pre := Prelude(0, 1, 32)
	post := Postlude(0, 1)
	require.NotEmpty(t, pre.Bytes())
	require.NotEmpty(t, post.Bytes())
	require.Equal(t, []byte{
		wasmbin.OpGlobalGet, 0, wasmbin.OpLocalSet, 1,
		wasmbin.OpLocalGet, 1, wasmbin.OpI32Const, 32, wasmbin.OpI32Add, wasmbin.OpGlobalSet, 0,
	}, pre.Bytes())
	require.Equal(t, []byte{wasmbin.OpLocalGet, 1, wasmbin.OpGlobalSet, 0}, post.Bytes())
}
