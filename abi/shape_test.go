package abi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWasmShapeScalars(t *testing.T) {
	require.Equal(t, []ValKind{I64, I64}, WasmShape(Int))
	require.Equal(t, []ValKind{I32}, WasmShape(Bool))
	require.Equal(t, []ValKind{I32, I32}, WasmShape(Buff(10)))
}

func TestWasmShapeOptionalCarriesDiscriminantFirst(t *testing.T) {
	shape := WasmShape(Optional(Int))
	require.Equal(t, []ValKind{I32, I64, I64}, shape)
}

func TestWasmShapeResponseCarriesBothArms(t *testing.T) {
	shape := WasmShape(Response(Int, Bool))
	require.Equal(t, []ValKind{I32, I64, I64, I32}, shape)
}

func TestWasmShapeDirectTupleConcatenatesFieldsInCanonicalOrder(t *testing.T) {
	tup := NewTuple(map[string]Type{"b": Bool, "a": Int})
	// canonical order sorts keys, so "a" (int) precedes "b" (bool)
	require.Equal(t, []ValKind{I64, I64, I32}, WasmShape(tup))
}

func TestIsInMemory(t *testing.T) {
	require.False(t, IsInMemory(Int))
	require.False(t, IsInMemory(Bool))
	require.True(t, IsInMemory(Buff(4)))
	require.True(t, IsInMemory(Principal))
	require.True(t, IsInMemory(List(Int, 3)))

	require.False(t, IsInMemory(NewTuple(map[string]Type{"x": Int})))
	require.True(t, IsInMemory(NewTuple(map[string]Type{"x": Buff(4)})))

	require.False(t, IsInMemory(Optional(Int)))
	require.True(t, IsInMemory(Optional(Buff(4))))

	require.False(t, IsInMemory(Response(Int, Bool)))
	require.True(t, IsInMemory(Response(Int, Buff(4))))
}

func TestIsInMemoryTupleShapeCollapsesToOffsetLength(t *testing.T) {
	tup := NewTuple(map[string]Type{"x": Buff(4)})
	require.Equal(t, []ValKind{I32, I32}, WasmShape(tup))
}

func TestMemorySize(t *testing.T) {
	require.Equal(t, uint32(16), MemorySize(Int))
	require.Equal(t, uint32(1), MemorySize(Bool))
	require.Equal(t, uint32(10), MemorySize(Buff(10)))
	require.Equal(t, uint32(40), MemorySize(StringUTF8(10)))
	require.Equal(t, uint32(3*16), MemorySize(List(Int, 3)))

	tup := NewTuple(map[string]Type{"a": Int, "b": Bool})
	require.Equal(t, uint32(16+1), MemorySize(tup))

	require.Equal(t, uint32(1+16), MemorySize(Optional(Int)))
	require.Equal(t, uint32(1+16+1), MemorySize(Response(Int, Bool)))
}

func TestNewTupleSortsFieldsByKey(t *testing.T) {
	tup := NewTuple(map[string]Type{"z": Int, "a": Bool, "m": Int})
	var keys []string
	for _, f := range tup.Fields {
		keys = append(keys, f.Key)
	}
	require.Equal(t, []string{"a", "m", "z"}, keys)
}
