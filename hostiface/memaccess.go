package hostiface

import (
	"encoding/binary"
	"fmt"

	"github.com/tetratelabs/wazero/api"
)

// readBytes copies length bytes at offset out of mod's linear memory. A
// failure here is always fatal (out-of-bounds
// memory access traps the module).
func readBytes(mod api.Module, offset, length uint32) []byte {
	if length == 0 {
		return nil
	}
	b, ok := mod.Memory().Read(offset, length)
	if !ok {
		fatal("read", fmt.Sprintf("out of bounds at %d len %d", offset, length))
	}
	out := make([]byte, length)
	copy(out, b)
	return out
}

func readString(mod api.Module, offset, length uint32) string {
	return string(readBytes(mod, offset, length))
}

func writeBytes(mod api.Module, offset uint32, data []byte) {
	if !mod.Memory().Write(offset, data) {
		fatal("write", fmt.Sprintf("out of bounds at %d len %d", offset, len(data)))
	}
}

// writeOptional fills outCap bytes at outPtr with the discriminant/value
// encoding HI getters use: a 4-byte discriminant (0 = none, 1 = some)
// followed by the value bytes, zero-padded to outCap. some == nil writes
// the canonical none.
func writeOptional(mod api.Module, outPtr, outCap uint32, some []byte) {
	buf := make([]byte, outCap)
	if some != nil {
		binary.LittleEndian.PutUint32(buf[0:4], 1)
		copy(buf[4:], some)
	}
	writeBytes(mod, outPtr, buf)
}

// writeValue fills outCap bytes at outPtr with value, zero-padded, with no
// discriminant prefix (used by get_variable, whose type is statically
// known so no optional wrapper is needed).
func writeValue(mod api.Module, outPtr, outCap uint32, value []byte) {
	buf := make([]byte, outCap)
	copy(buf, value)
	writeBytes(mod, outPtr, buf)
}
