package hostiface

import (
	"context"
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // principal hashing is defined in terms of RIPEMD-160.
)

const (
	msgHashLen  = 32
	compactSigLen = 65 // r(32) || s(32) || recovery id(1)
	pubkeyLen   = 33   // compressed
)

func (h *HostInterface) buildCrypto(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().WithFunc(h.secp256k1Recover).Export("secp256k1_recover")
	b.NewFunctionBuilder().WithFunc(h.secp256k1Verify).Export("secp256k1_verify")
	b.NewFunctionBuilder().WithFunc(h.principalOf).Export("principal_of")
}

// secp256k1_recover writes an optional compressed public key: none if the
// signature does not recover to a valid point, the recovered key
// otherwise. Malformed input lengths are a type-admit failure and
// trap rather than returning none.
func (h *HostInterface) secp256k1Recover(_ context.Context, mod api.Module, hashPtr, hashLen, sigPtr, sigLen, outPtr, outCap uint32) {
	if hashLen != msgHashLen {
		fatal("secp256k1_recover", "message hash must be 32 bytes")
	}
	if sigLen != compactSigLen {
		fatal("secp256k1_recover", "signature must be 65 bytes")
	}
	hash := readBytes(mod, hashPtr, hashLen)
	sig := readBytes(mod, sigPtr, sigLen)

	recoveryID := sig[64]
	compact := make([]byte, 65)
	compact[0] = 27 + recoveryID
	copy(compact[1:], sig[:64])

	pub, _, err := ecdsa.RecoverCompact(compact, hash)
	if err != nil {
		writeOptional(mod, outPtr, outCap, nil)
		return
	}
	writeOptional(mod, outPtr, outCap, pub.SerializeCompressed())
}

func (h *HostInterface) secp256k1Verify(_ context.Context, mod api.Module, hashPtr, hashLen, sigPtr, sigLen, pubkeyPtr, pubkeyLen_ uint32) uint32 {
	if hashLen != msgHashLen {
		fatal("secp256k1_verify", "message hash must be 32 bytes")
	}
	hash := readBytes(mod, hashPtr, hashLen)
	sigBytes := readBytes(mod, sigPtr, sigLen)
	pubBytes := readBytes(mod, pubkeyPtr, pubkeyLen_)

	pub, err := btcec.ParsePubKey(pubBytes)
	if err != nil {
		return 0
	}

	var rBytes, sBytes []byte
	switch len(sigBytes) {
	case compactSigLen:
		rBytes, sBytes = sigBytes[0:32], sigBytes[32:64]
	case 64:
		rBytes, sBytes = sigBytes[0:32], sigBytes[32:64]
	default:
		fatal("secp256k1_verify", "unsupported signature length")
	}
	var rScalar, sScalar btcec.ModNScalar
	rScalar.SetByteSlice(rBytes)
	sScalar.SetByteSlice(sBytes)
	sig := ecdsa.NewSignature(&rScalar, &sScalar)
	return boolToI32(sig.Verify(hash, pub))
}

// principalOf hashes a compressed public key into the source language's
// standard-principal wire format: one version byte followed by the
// 20-byte hash160 of the key.
func (h *HostInterface) principalOf(_ context.Context, mod api.Module, pubkeyPtr, pubkeyLen_ uint32, outPtr, outCap uint32) {
	if pubkeyLen_ != pubkeyLen {
		fatal("principal_of", "public key must be 33 bytes compressed")
	}
	pub := readBytes(mod, pubkeyPtr, pubkeyLen_)
	sum := sha256.Sum256(pub)
	r := ripemd160.New()
	r.Write(sum[:])
	hash := r.Sum(nil)

	version := byte(0x16)
	if !h.Store.mainnet {
		version = 0x1a
	}
	encoded := append([]byte{version}, hash...)
	writeOptional(mod, outPtr, outCap, encoded)
}
