package leb128

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendDecodeInt32(t *testing.T) {
	for _, c := range []struct {
		input    int32
		expected []byte
	}{
		{input: -165675008, expected: []byte{0x80, 0x80, 0x80, 0xb1, 0x7f}},
		{input: -624485, expected: []byte{0x9b, 0xf1, 0x59}},
		{input: -16256, expected: []byte{0x80, 0x81, 0x7f}},
		{input: -4, expected: []byte{0x7c}},
		{input: -1, expected: []byte{0x7f}},
		{input: 0, expected: []byte{0x00}},
		{input: 1, expected: []byte{0x01}},
		{input: 4, expected: []byte{0x04}},
		{input: 16256, expected: []byte{0x80, 0xff, 0x0}},
		{input: 624485, expected: []byte{0xe5, 0x8e, 0x26}},
		{input: 165675008, expected: []byte{0x80, 0x80, 0x80, 0xcf, 0x0}},
		{input: math.MaxInt32, expected: []byte{0xff, 0xff, 0xff, 0xff, 0x7}},
	} {
		got := AppendInt32(nil, c.input)
		require.Equal(t, c.expected, got)
		decoded, n := DecodeInt32(got, 0)
		require.Equal(t, len(got), n)
		require.Equal(t, c.input, decoded)
	}
}

func TestAppendDecodeUint32(t *testing.T) {
	for _, c := range []struct {
		input    uint32
		expected []byte
	}{
		{input: 0, expected: []byte{0x00}},
		{input: 1, expected: []byte{0x01}},
		{input: 127, expected: []byte{0x7f}},
		{input: 128, expected: []byte{0x80, 0x01}},
		{input: 624485, expected: []byte{0xe5, 0x8e, 0x26}},
		{input: math.MaxUint32, expected: []byte{0xff, 0xff, 0xff, 0xff, 0xf}},
	} {
		got := AppendUint32(nil, c.input)
		require.Equal(t, c.expected, got)
		decoded, n := DecodeUint32(got, 0)
		require.Equal(t, len(got), n)
		require.Equal(t, c.input, decoded)
	}
}

func TestAppendDecodeInt64RoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 42, -42, math.MaxInt64, math.MinInt64, 1 << 40, -(1 << 40)} {
		got := AppendInt64(nil, v)
		decoded, n := DecodeInt64(got, 0)
		require.Equal(t, len(got), n)
		require.Equal(t, v, decoded)
	}
}

func TestMultipleValuesAppendToSameBuffer(t *testing.T) {
	var buf []byte
	buf = AppendUint32(buf, 3)
	buf = AppendInt64(buf, -1)
	buf = AppendUint32(buf, 128)

	v1, off := DecodeUint32(buf, 0)
	require.Equal(t, uint32(3), v1)
	v2, off := DecodeInt64(buf, off)
	require.Equal(t, int64(-1), v2)
	v3, off := DecodeUint32(buf, off)
	require.Equal(t, uint32(128), v3)
	require.Equal(t, len(buf), off)
}
