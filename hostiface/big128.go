package hostiface

import "math/big"

// toUint128 reconstructs an unsigned 128-bit value from its low/high i64
// words, the same word convention the Type ABI uses on the value stack
//. Token amounts, balances and supplies are always `uint`.
func toUint128(lo, hi uint64) *big.Int {
	v := new(big.Int).SetUint64(hi)
	v.Lsh(v, 64)
	v.Or(v, new(big.Int).SetUint64(lo))
	return v
}

func fromUint128(v *big.Int) (lo, hi uint64) {
	mask := new(big.Int).SetUint64(^uint64(0))
	loBig := new(big.Int).And(v, mask)
	hiBig := new(big.Int).Rsh(v, 64)
	return loBig.Uint64(), hiBig.Uint64()
}
