package wasmbin

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeMinimalModule(t *testing.T) {
	m := &Module{}
	ft := m.AddType(FuncType{Params: []ValueType{ValueTypeI32}, Results: []ValueType{ValueTypeI32}})

	body := NewInstr().LocalGet(0).I32Const(1).I32Add().End()
	fnIdx := m.AddFunc(Func{TypeIndex: ft, Body: body.Bytes()})
	m.AddExport("inc", ExternKindFunc, fnIdx)

	out := m.Encode()

	require.Equal(t, []byte(magic), out[:4])
	require.Equal(t, []byte{1, 0, 0, 0}, out[4:8])

	// Every section after the header starts with an id byte and a LEB128
	// size; at minimum we should see type(1), func(3), export(7), code(10).
	var sawType, sawFunc, sawExport, sawCode bool
	for i := 8; i < len(out); {
		id := out[i]
		i++
		size, next := decodeUint32(out, i)
		i = next + int(size)
		switch id {
		case secType:
			sawType = true
		case secFunc:
			sawFunc = true
		case secExport:
			sawExport = true
		case secCode:
			sawCode = true
		}
	}
	require.True(t, sawType)
	require.True(t, sawFunc)
	require.True(t, sawExport)
	require.True(t, sawCode)
}

func TestAddTypeInternsIdenticalSignatures(t *testing.T) {
	m := &Module{}
	a := m.AddType(FuncType{Params: []ValueType{ValueTypeI64, ValueTypeI64}, Results: []ValueType{ValueTypeI64}})
	b := m.AddType(FuncType{Params: []ValueType{ValueTypeI64, ValueTypeI64}, Results: []ValueType{ValueTypeI64}})
	require.Equal(t, a, b)
	require.Len(t, m.Types, 1)
}

func TestEncodeLocalsGroupsRuns(t *testing.T) {
	out := encodeLocals([]ValueType{ValueTypeI64, ValueTypeI64, ValueTypeI32, ValueTypeI64})
	// 3 runs: (2, i64), (1, i32), (1, i64)
	require.Equal(t, []byte{3, 2, ValueTypeI64, 1, ValueTypeI32, 1, ValueTypeI64}, out)
}

func decodeUint32(buf []byte, off int) (uint32, int) {
	var result uint32
	var shift uint
	for {
		b := buf[off]
		off++
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
	}
	return result, off
}
