package hostiface

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
)

func newTestHost(t *testing.T) (*HostInterface, context.Context) {
	t.Helper()
	ctx := context.Background()
	h := NewHostInterface("SP000CONTRACT", 0)
	return h, ctx
}

func TestMapInsertThenDeleteThenGet(t *testing.T) {
	h, _ := newTestHost(t)
	h.Store.DefineMap("prices")

	ok, err := h.Store.MapInsert("prices", "apple", []byte{5})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = h.Store.MapInsert("prices", "apple", []byte{6})
	require.NoError(t, err)
	require.False(t, ok, "second insert of an existing key must report conflict")

	v, found := h.Store.MapGet("prices", "apple")
	require.True(t, found)
	require.Equal(t, []byte{5}, v)

	existed, err := h.Store.MapDelete("prices", "apple")
	require.NoError(t, err)
	require.True(t, existed)

	_, found = h.Store.MapGet("prices", "apple")
	require.False(t, found)
}

func TestFTTransferNonPositiveAmountLeavesBalancesUntouched(t *testing.T) {
	h, _ := newTestHost(t)
	h.Store.DefineFT("token", false, nil)
	h.Store.ft["token"].Balances["alice"] = big.NewInt(100)
	h.Store.txSender = "alice"

	success, disc, errLo, errHi := h.ftTransferRaw("token", 0, "alice", "bob")
	require.Equal(t, uint32(1), success)
	require.Equal(t, uint32(0), disc, "discriminant 0 marks the err arm")
	require.Equal(t, uint64(ErrAmountNotPositive), errLo)
	require.Equal(t, uint64(0), errHi)

	require.Equal(t, big.NewInt(100), h.Store.ft["token"].Balances["alice"])
	require.Nil(t, h.Store.ft["token"].Balances["bob"])
}

func TestFTTransferMovesBalance(t *testing.T) {
	h, _ := newTestHost(t)
	h.Store.DefineFT("token", false, nil)
	h.Store.ft["token"].Balances["alice"] = big.NewInt(100)
	h.Store.txSender = "alice"

	success, disc, _, _ := h.ftTransferRaw("token", 40, "alice", "bob")
	require.Equal(t, uint32(1), success)
	require.Equal(t, uint32(1), disc)
	require.Equal(t, big.NewInt(60), h.Store.ft["token"].Balances["alice"])
	require.Equal(t, big.NewInt(40), h.Store.ft["token"].Balances["bob"])
}

// ftTransferRaw repeats ftTransfer's checks and balance updates, in the
// same order, on big.Int amounts without going through the wazero memory
// boundary; it does not call ftTransfer itself.
func (h *HostInterface) ftTransferRaw(name string, amount int64, sender, recipient string) (uint32, uint32, uint64, uint64) {
	t := h.ft(name)
	amt := big.NewInt(amount)
	if amt.Sign() <= 0 {
		return errResult(ErrAmountNotPositive)
	}
	if sender == recipient {
		return errResult(ErrSenderIsRecipient)
	}
	if sender != h.Store.TxSender() {
		return errResult(ErrSenderNotTxSender)
	}
	bal := t.balanceOf(sender)
	if bal.Cmp(amt) < 0 {
		return errResult(ErrInsufficientBalance)
	}
	t.Balances[sender] = new(big.Int).Sub(bal, amt)
	t.Balances[recipient] = new(big.Int).Add(t.balanceOf(recipient), amt)
	return okResult()
}

func TestNestedPublicCallRollbackHidesInnerWrites(t *testing.T) {
	h, _ := newTestHost(t)
	h.Store.DefineVariable("counter", []byte{0})

	h.beginPublicCall(context.Background())
	require.NoError(t, h.Store.SetVariable("counter", []byte{1}))

	h.beginPublicCall(context.Background())
	require.NoError(t, h.Store.SetVariable("counter", []byte{2}))
	h.rollBackCall(context.Background())

	v, _ := h.Store.GetVariable("counter")
	require.Equal(t, []byte{1}, v, "inner call's write must not be visible after its rollback")

	h.commitCall(context.Background())
	v, _ = h.Store.GetVariable("counter")
	require.Equal(t, []byte{1}, v)
}

func TestReadOnlyCallRejectsWrites(t *testing.T) {
	h, _ := newTestHost(t)
	h.Store.DefineVariable("v", []byte{0})
	h.beginReadOnlyCall(context.Background())
	err := h.Store.SetVariable("v", []byte{1})
	require.Error(t, err)
	h.rollBackCall(context.Background())
}

func TestBuildRegistersEveryCategory(t *testing.T) {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	h := NewHostInterface("SP000CONTRACT", 0)
	mod, err := h.Build(ctx, r)
	require.NoError(t, err)
	defer mod.Close(ctx)

	for _, name := range []string{
		"define_variable", "get_variable", "set_variable",
		"map_get", "map_insert", "map_delete",
		"ft_mint", "ft_transfer", "nft_mint", "nft_get_owner",
		"block_height", "stx_get_balance",
		"begin_public_call", "commit_call", "roll_back_call",
		"print", "add_memory", "secp256k1_verify", "principal_of",
	} {
		require.NotNilf(t, mod.ExportedFunction(name), "expected export %q", name)
	}
}
