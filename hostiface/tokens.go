package hostiface

import (
	"context"
	"math/big"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// okResult and errResult pack the 4-word tuple every transfer-class HI function
// returns: success is always 1 here since a recoverable failure
// is reported through the discriminant/error words, not a trap.
func okResult() (uint32, uint32, uint64, uint64)            { return 1, 1, 0, 0 }
func errResult(code uint64) (uint32, uint32, uint64, uint64) { return 1, 0, code, 0 }

func (h *HostInterface) buildTokens(b wazero.HostModuleBuilder) {
	b.NewFunctionBuilder().WithFunc(h.ftMint).Export("ft_mint")
	b.NewFunctionBuilder().WithFunc(h.ftBurn).Export("ft_burn")
	b.NewFunctionBuilder().WithFunc(h.ftTransfer).Export("ft_transfer")
	b.NewFunctionBuilder().WithFunc(h.ftGetSupply).Export("ft_get_supply")
	b.NewFunctionBuilder().WithFunc(h.ftGetBalance).Export("ft_get_balance")

	b.NewFunctionBuilder().WithFunc(h.nftMint).Export("nft_mint")
	b.NewFunctionBuilder().WithFunc(h.nftBurn).Export("nft_burn")
	b.NewFunctionBuilder().WithFunc(h.nftTransfer).Export("nft_transfer")
	b.NewFunctionBuilder().WithFunc(h.nftGetOwner).Export("nft_get_owner")
}

func (h *HostInterface) ft(name string) *FungibleToken {
	t, ok := h.Store.ft[name]
	if !ok {
		fatal("ft", "no such fungible token: "+name)
	}
	return t
}

func (h *HostInterface) nft(name string) *NonFungibleToken {
	t, ok := h.Store.nft[name]
	if !ok {
		fatal("nft", "no such non-fungible token: "+name)
	}
	return t
}

func (h *HostInterface) ftMint(_ context.Context, mod api.Module, namePtr, nameLen uint32, amountLo, amountHi uint64, recipientPtr, recipientLen uint32) (uint32, uint32, uint64, uint64) {
	t := h.ft(readString(mod, namePtr, nameLen))
	amount := toUint128(amountLo, amountHi)
	if amount.Sign() <= 0 {
		return errResult(ErrAmountNotPositive)
	}
	recipient := readString(mod, recipientPtr, recipientLen)
	newSupply := new(big.Int).Add(t.Supply, amount)
	if t.HasCap && newSupply.Cmp(t.Cap) > 0 {
		return errResult(ErrInsufficientBalance)
	}
	t.Supply = newSupply
	t.Balances[recipient] = new(big.Int).Add(t.balanceOf(recipient), amount)
	return okResult()
}

func (h *HostInterface) ftBurn(_ context.Context, mod api.Module, namePtr, nameLen uint32, amountLo, amountHi uint64, ownerPtr, ownerLen uint32) (uint32, uint32, uint64, uint64) {
	t := h.ft(readString(mod, namePtr, nameLen))
	amount := toUint128(amountLo, amountHi)
	if amount.Sign() <= 0 {
		return errResult(ErrAmountNotPositive)
	}
	owner := readString(mod, ownerPtr, ownerLen)
	bal := t.balanceOf(owner)
	if bal.Cmp(amount) < 0 {
		return errResult(ErrInsufficientBalance)
	}
	t.Balances[owner] = new(big.Int).Sub(bal, amount)
	t.Supply = new(big.Int).Sub(t.Supply, amount)
	return okResult()
}

func (h *HostInterface) ftTransfer(_ context.Context, mod api.Module, namePtr, nameLen uint32, amountLo, amountHi uint64, senderPtr, senderLen, recipientPtr, recipientLen uint32) (uint32, uint32, uint64, uint64) {
	t := h.ft(readString(mod, namePtr, nameLen))
	amount := toUint128(amountLo, amountHi)
	sender := readString(mod, senderPtr, senderLen)
	recipient := readString(mod, recipientPtr, recipientLen)

	if amount.Sign() <= 0 {
		return errResult(ErrAmountNotPositive)
	}
	if sender == recipient {
		return errResult(ErrSenderIsRecipient)
	}
	if sender != h.Store.TxSender() {
		return errResult(ErrSenderNotTxSender)
	}
	bal := t.balanceOf(sender)
	if bal.Cmp(amount) < 0 {
		return errResult(ErrInsufficientBalance)
	}
	t.Balances[sender] = new(big.Int).Sub(bal, amount)
	t.Balances[recipient] = new(big.Int).Add(t.balanceOf(recipient), amount)
	return okResult()
}

func (h *HostInterface) ftGetSupply(_ context.Context, mod api.Module, namePtr, nameLen uint32) (uint64, uint64) {
	t := h.ft(readString(mod, namePtr, nameLen))
	return fromUint128(t.Supply)
}

func (h *HostInterface) ftGetBalance(_ context.Context, mod api.Module, namePtr, nameLen, principalPtr, principalLen uint32) (uint64, uint64) {
	t := h.ft(readString(mod, namePtr, nameLen))
	return fromUint128(t.balanceOf(readString(mod, principalPtr, principalLen)))
}

func (h *HostInterface) nftMint(_ context.Context, mod api.Module, namePtr, nameLen, assetPtr, assetLen, recipientPtr, recipientLen uint32) (uint32, uint32, uint64, uint64) {
	t := h.nft(readString(mod, namePtr, nameLen))
	asset := readString(mod, assetPtr, assetLen)
	if _, exists := t.Owners[asset]; exists {
		return errResult(ErrNFTAlreadyExists)
	}
	t.Owners[asset] = readString(mod, recipientPtr, recipientLen)
	return okResult()
}

func (h *HostInterface) nftBurn(_ context.Context, mod api.Module, namePtr, nameLen, assetPtr, assetLen, ownerPtr, ownerLen uint32) (uint32, uint32, uint64, uint64) {
	t := h.nft(readString(mod, namePtr, nameLen))
	asset := readString(mod, assetPtr, assetLen)
	owner := readString(mod, ownerPtr, ownerLen)
	current, exists := t.Owners[asset]
	if !exists {
		return errResult(ErrDoesNotExist)
	}
	if current != owner {
		return errResult(ErrNotOwnedBy)
	}
	delete(t.Owners, asset)
	return okResult()
}

func (h *HostInterface) nftTransfer(_ context.Context, mod api.Module, namePtr, nameLen, assetPtr, assetLen, senderPtr, senderLen, recipientPtr, recipientLen uint32) (uint32, uint32, uint64, uint64) {
	t := h.nft(readString(mod, namePtr, nameLen))
	asset := readString(mod, assetPtr, assetLen)
	sender := readString(mod, senderPtr, senderLen)
	recipient := readString(mod, recipientPtr, recipientLen)

	current, exists := t.Owners[asset]
	if !exists {
		return errResult(ErrDoesNotExist)
	}
	if current != sender {
		return errResult(ErrNotOwnedBy)
	}
	if sender != h.Store.TxSender() {
		return errResult(ErrSenderNotTxSender)
	}
	t.Owners[asset] = recipient
	return okResult()
}

func (h *HostInterface) nftGetOwner(_ context.Context, mod api.Module, namePtr, nameLen, assetPtr, assetLen, outPtr, outCap uint32) {
	t := h.nft(readString(mod, namePtr, nameLen))
	owner, ok := t.Owners[readString(mod, assetPtr, assetLen)]
	if !ok {
		writeOptional(mod, outPtr, outCap, nil)
		return
	}
	writeOptional(mod, outPtr, outCap, []byte(owner))
}
