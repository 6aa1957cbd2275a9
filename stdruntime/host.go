package stdruntime

import (
	"context"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"math/big"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // hash160 is defined in terms of RIPEMD-160, as in the source chain.
	"golang.org/x/crypto/sha3"
)

// TrapCode identifies why an SR arithmetic function trapped. The Wasm 1.0
// `unreachable` instruction carries no payload, so distinguishing failure
// modes happens on the host side: the host function panics with a
// TrapError before the module ever reaches `unreachable`, and the runtime
// surfaces that panic as the call's error.
type TrapCode int

const (
	TrapOverflow TrapCode = iota + 1
	TrapDivideByZero
)

// TrapError is the panic value host functions raise to fail a call with a
// specific, recoverable-by-the-host reason.
type TrapError struct {
	Code TrapCode
	Op   string
}

func (e *TrapError) Error() string { return fmt.Sprintf("%s: trap %d", e.Op, e.Code) }

func words(v *big.Int) (lo, hi int64) {
	u := new(big.Int).Abs(v)
	mask := new(big.Int).SetUint64(^uint64(0))
	loU := new(big.Int).And(u, mask)
	hiU := new(big.Int).Rsh(u, 64)
	loWord := loU.Uint64()
	hiWord := hiU.Uint64()
	if v.Sign() < 0 {
		// two's complement negate the 128-bit pair
		loWord = ^loWord + 1
		hiWord = ^hiWord
		if loWord == 0 {
			hiWord++
		}
	}
	return int64(loWord), int64(hiWord)
}

func toBig128(lo, hi int64, signed bool) *big.Int {
	v := new(big.Int).SetUint64(uint64(hi))
	v.Lsh(v, 64)
	v.Or(v, new(big.Int).SetUint64(uint64(lo)))
	if signed {
		// reinterpret the 128-bit pattern as signed two's complement
		signBit := new(big.Int).Lsh(big.NewInt(1), 127)
		if v.Cmp(signBit) >= 0 {
			mod := new(big.Int).Lsh(big.NewInt(1), 128)
			v.Sub(v, mod)
		}
	}
	return v
}

const (
	minInt128Str = "-170141183460469231731687303715884105728"
	maxInt128Str = "170141183460469231731687303715884105727"
	maxUint128Str = "340282366920938463463374607431768211455"
)

var (
	minInt128, _  = new(big.Int).SetString(minInt128Str, 10)
	maxInt128, _  = new(big.Int).SetString(maxInt128Str, 10)
	maxUint128, _ = new(big.Int).SetString(maxUint128Str, 10)
)

func checkIntRange(v *big.Int, op string) {
	if v.Cmp(minInt128) < 0 || v.Cmp(maxInt128) > 0 {
		panic(&TrapError{Code: TrapOverflow, Op: op})
	}
}

func checkUintRange(v *big.Int, op string) {
	if v.Sign() < 0 || v.Cmp(maxUint128) > 0 {
		panic(&TrapError{Code: TrapOverflow, Op: op})
	}
}

// arith128 builds a binary 128-bit operation over big.Int, checking range
// after the operation per the signed/unsigned domain.
func arith128(signed bool, op string, f func(a, b *big.Int) *big.Int) func(context.Context, int64, int64, int64, int64) (int64, int64) {
	return func(_ context.Context, aLo, aHi, bLo, bHi int64) (int64, int64) {
		a := toBig128(aLo, aHi, signed)
		b := toBig128(bLo, bHi, signed)
		r := f(a, b)
		if signed {
			checkIntRange(r, op)
		} else {
			checkUintRange(r, op)
		}
		lo, hi := words(r)
		return lo, hi
	}
}

func divmod(signed bool, op string, wantMod bool) func(context.Context, int64, int64, int64, int64) (int64, int64) {
	return func(_ context.Context, aLo, aHi, bLo, bHi int64) (int64, int64) {
		a := toBig128(aLo, aHi, signed)
		b := toBig128(bLo, bHi, signed)
		if b.Sign() == 0 {
			panic(&TrapError{Code: TrapDivideByZero, Op: op})
		}
		q, m := new(big.Int), new(big.Int)
		if signed {
			q.QuoRem(a, b, m)
		} else {
			q.DivMod(a, b, m)
		}
		r := q
		if wantMod {
			r = m
		}
		if signed {
			checkIntRange(r, op)
		} else {
			checkUintRange(r, op)
		}
		return words(r)
	}
}

func pow(signed bool, op string) func(context.Context, int64, int64, int64, int64) (int64, int64) {
	return func(_ context.Context, aLo, aHi, bLo, bHi int64) (int64, int64) {
		base := toBig128(aLo, aHi, signed)
		exp := toBig128(bLo, bHi, false)
		if exp.Sign() < 0 {
			panic(&TrapError{Code: TrapOverflow, Op: op})
		}
		r := new(big.Int).Exp(base, exp, nil)
		if signed {
			checkIntRange(r, op)
		} else {
			checkUintRange(r, op)
		}
		return words(r)
	}
}

func log2(signed bool, op string) func(context.Context, int64, int64) (int64, int64) {
	return func(_ context.Context, lo, hi int64) (int64, int64) {
		v := toBig128(lo, hi, signed)
		if v.Sign() <= 0 {
			panic(&TrapError{Code: TrapOverflow, Op: op})
		}
		return words(big.NewInt(int64(v.BitLen() - 1)))
	}
}

func sqrti(signed bool, op string) func(context.Context, int64, int64) (int64, int64) {
	return func(_ context.Context, lo, hi int64) (int64, int64) {
		v := toBig128(lo, hi, signed)
		if v.Sign() < 0 {
			panic(&TrapError{Code: TrapOverflow, Op: op})
		}
		return words(new(big.Int).Sqrt(v))
	}
}

// hashFunc reads length bytes at offset from the calling module's memory,
// hashes them, and writes the digest back at out.
func hashFunc(digest func([]byte) []byte) func(context.Context, api.Module, uint32, uint32, uint32) {
	return func(_ context.Context, mod api.Module, offset, length, out uint32) {
		buf, ok := mod.Memory().Read(offset, length)
		if !ok {
			panic(fmt.Errorf("stdruntime: hash read out of bounds at %d len %d", offset, length))
		}
		sum := digest(buf)
		if !mod.Memory().Write(out, sum) {
			panic(fmt.Errorf("stdruntime: hash write out of bounds at %d", out))
		}
	}
}

func sha256Sum(b []byte) []byte { s := sha256.Sum256(b); return s[:] }
func sha512Sum(b []byte) []byte { s := sha512.Sum512(b); return s[:] }
func sha512_256Sum(b []byte) []byte { s := sha512.Sum512_256(b); return s[:] }
func keccak256Sum(b []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(b)
	return h.Sum(nil)
}
func hash160Sum(b []byte) []byte {
	sha := sha256.Sum256(b)
	r := ripemd160.New()
	r.Write(sha[:])
	return r.Sum(nil)
}

// InstantiateHostModule registers every stdruntime host import with r under
// the "stdruntime" namespace, returning the instantiated host module. The
// returned module also exports every function under its own name, so
// arithmetic and hashing can be exercised directly in tests.
func InstantiateHostModule(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	b := r.NewHostModuleBuilder(hostNamespace)

	b.NewFunctionBuilder().WithFunc(arith128(true, "add-int", func(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) })).Export("add-int")
	b.NewFunctionBuilder().WithFunc(arith128(true, "sub-int", func(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) })).Export("sub-int")
	b.NewFunctionBuilder().WithFunc(arith128(true, "mul-int", func(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) })).Export("mul-int")
	b.NewFunctionBuilder().WithFunc(divmod(true, "div-int", false)).Export("div-int")
	b.NewFunctionBuilder().WithFunc(divmod(true, "mod-int", true)).Export("mod-int")
	b.NewFunctionBuilder().WithFunc(pow(true, "pow-int")).Export("pow-int")
	b.NewFunctionBuilder().WithFunc(log2(true, "log2-int")).Export("log2-int")
	b.NewFunctionBuilder().WithFunc(sqrti(true, "sqrti-int")).Export("sqrti-int")

	b.NewFunctionBuilder().WithFunc(arith128(false, "add-uint", func(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) })).Export("add-uint")
	b.NewFunctionBuilder().WithFunc(arith128(false, "sub-uint", func(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) })).Export("sub-uint")
	b.NewFunctionBuilder().WithFunc(arith128(false, "mul-uint", func(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) })).Export("mul-uint")
	b.NewFunctionBuilder().WithFunc(divmod(false, "div-uint", false)).Export("div-uint")
	b.NewFunctionBuilder().WithFunc(divmod(false, "mod-uint", true)).Export("mod-uint")
	b.NewFunctionBuilder().WithFunc(pow(false, "pow-uint")).Export("pow-uint")
	b.NewFunctionBuilder().WithFunc(log2(false, "log2-uint")).Export("log2-uint")
	b.NewFunctionBuilder().WithFunc(sqrti(false, "sqrti-uint")).Export("sqrti-uint")

	b.NewFunctionBuilder().WithFunc(hashFunc(sha256Sum)).Export("sha256")
	b.NewFunctionBuilder().WithFunc(hashFunc(keccak256Sum)).Export("keccak256")
	b.NewFunctionBuilder().WithFunc(hashFunc(hash160Sum)).Export("hash160")
	b.NewFunctionBuilder().WithFunc(hashFunc(sha512Sum)).Export("sha512")
	b.NewFunctionBuilder().WithFunc(hashFunc(sha512_256Sum)).Export("sha512_256")

	return b.Instantiate(ctx)
}
