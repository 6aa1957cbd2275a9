package hostiface

import (
	"context"
	"math/big"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

func (h *HostInterface) buildChain(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().WithFunc(func(context.Context) uint64 { return h.Store.blockHeight }).Export("block_height")
	b.NewFunctionBuilder().WithFunc(func(context.Context) uint64 { return h.Store.burnBlockHeight }).Export("burn_block_height")
	b.NewFunctionBuilder().WithFunc(func(context.Context) uint64 { return h.Store.stacksBlockHeight }).Export("stacks_block_height")
	b.NewFunctionBuilder().WithFunc(func(context.Context) uint64 { return h.Store.tenureHeight }).Export("tenure_height")
	b.NewFunctionBuilder().WithFunc(func(context.Context) uint32 { return h.Store.chainID }).Export("chain_id")
	b.NewFunctionBuilder().WithFunc(func(context.Context) uint32 { return boolToI32(h.Store.mainnet) }).Export("is_in_mainnet")
	b.NewFunctionBuilder().WithFunc(func(context.Context) uint32 { return boolToI32(!h.Store.mainnet) }).Export("is_in_regtest")

	b.NewFunctionBuilder().WithFunc(h.stxLiquidSupply).Export("stx_liquid_supply")
	b.NewFunctionBuilder().WithFunc(h.stxGetBalance).Export("stx_get_balance")
	b.NewFunctionBuilder().WithFunc(h.stxAccount).Export("stx_account")

	b.NewFunctionBuilder().WithFunc(h.infoGetter("block")).Export("get_block_info_property")
	b.NewFunctionBuilder().WithFunc(h.infoGetter("burn_block")).Export("get_burn_block_info_property")
	b.NewFunctionBuilder().WithFunc(h.infoGetter("stacks_block")).Export("get_stacks_block_info_property")
	b.NewFunctionBuilder().WithFunc(h.infoGetter("tenure")).Export("get_tenure_info_property")
}

func (h *HostInterface) stxLiquidSupply(_ context.Context) (uint64, uint64) {
	return fromUint128(h.Store.stxLiquidSupply)
}

func (h *HostInterface) stxGetBalance(_ context.Context, mod api.Module, principalPtr, principalLen uint32) (uint64, uint64) {
	return fromUint128(h.Store.stxBalanceOf(readString(mod, principalPtr, principalLen)))
}

// stxAccount returns the tuple { locked, unlock-height, unlocked } in
// canonical field order, directly as six i64 results (locked lo/hi,
// unlock-height lo/hi, unlocked lo/hi): this reference host never locks
// STX, so locked and unlock-height are always zero.
func (h *HostInterface) stxAccount(_ context.Context, mod api.Module, principalPtr, principalLen uint32) (uint64, uint64, uint64, uint64, uint64, uint64) {
	unlockedLo, unlockedHi := fromUint128(h.Store.stxBalanceOf(readString(mod, principalPtr, principalLen)))
	return 0, 0, 0, 0, unlockedLo, unlockedHi
}

// infoGetter returns a host function reading a historical chain-info
// property for category. An out-of-range height (>= current,
// or not representable in 32 bits) writes a none and returns without
// error rather than trapping; property identity is passed as a short
// string read out of the module's own memory alongside the height so one
// function per category covers every property name.
func (h *HostInterface) infoGetter(category string) func(context.Context, api.Module, uint32, uint32, uint64, uint64, uint32, uint32) {
	return func(_ context.Context, mod api.Module, propPtr, propLen uint32, heightLo, heightHi uint64, outPtr, outCap uint32) {
		property := readString(mod, propPtr, propLen)
		height := toUint128(heightLo, heightHi)
		max32 := new(big.Int).SetUint64(0xFFFFFFFF)
		current := h.Store.CurrentHeight(category)
		if height.Cmp(max32) > 0 || height.Uint64() >= current {
			writeOptional(mod, outPtr, outCap, nil)
			return
		}
		v, ok := h.Store.GetInfo(category, height.Uint64(), property)
		if !ok {
			writeOptional(mod, outPtr, outCap, nil)
			return
		}
		writeOptional(mod, outPtr, outCap, v)
	}
}
