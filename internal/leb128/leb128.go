// Package leb128 encodes the variable-length integer formats used
// throughout the WebAssembly binary format: unsigned LEB128 for section
// and vector sizes, and signed LEB128 for i32.const/i64.const immediates.
package leb128

// AppendUint32 appends the unsigned LEB128 encoding of v to buf.
func AppendUint32(buf []byte, v uint32) []byte { return appendUint64(buf, uint64(v)) }

// AppendUint64 appends the unsigned LEB128 encoding of v to buf.
func AppendUint64(buf []byte, v uint64) []byte { return appendUint64(buf, v) }

func appendUint64(buf []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			buf = append(buf, b|0x80)
			continue
		}
		return append(buf, b)
	}
}

// AppendInt32 appends the signed LEB128 encoding of v to buf.
func AppendInt32(buf []byte, v int32) []byte { return appendInt64(buf, int64(v)) }

// AppendInt64 appends the signed LEB128 encoding of v to buf.
func AppendInt64(buf []byte, v int64) []byte { return appendInt64(buf, v) }

func appendInt64(buf []byte, v int64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			return append(buf, b)
		}
		buf = append(buf, b|0x80)
	}
}

// DecodeUint32 reads an unsigned LEB128 value from buf starting at off,
// returning the value and the offset of the first unread byte.
func DecodeUint32(buf []byte, off int) (uint32, int) {
	v, n := DecodeUint64(buf, off)
	return uint32(v), n
}

// DecodeUint64 reads an unsigned LEB128 value from buf starting at off.
func DecodeUint64(buf []byte, off int) (uint64, int) {
	var result uint64
	var shift uint
	for {
		b := buf[off]
		off++
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
	}
	return result, off
}

// DecodeInt32 reads a signed LEB128 value from buf starting at off.
func DecodeInt32(buf []byte, off int) (int32, int) {
	v, n := DecodeInt64(buf, off)
	return int32(v), n
}

// DecodeInt64 reads a signed LEB128 value from buf starting at off.
func DecodeInt64(buf []byte, off int) (int64, int) {
	var result int64
	var shift uint
	var b byte
	for {
		b = buf[off]
		off++
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}
	return result, off
}
