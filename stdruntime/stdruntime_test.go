package stdruntime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
)

func TestAddIntRoundTrips(t *testing.T) {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	mod, err := InstantiateHostModule(ctx, r)
	require.NoError(t, err)
	defer mod.Close(ctx)

	fn := mod.ExportedFunction("add-int")
	require.NotNil(t, fn)

	results, err := fn.Call(ctx, uint64(41), 0, uint64(1), 0)
	require.NoError(t, err)
	require.Equal(t, uint64(42), results[0])
	require.Equal(t, uint64(0), results[1])
}

func TestSubUintUnderflowTraps(t *testing.T) {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	mod, err := InstantiateHostModule(ctx, r)
	require.NoError(t, err)
	defer mod.Close(ctx)

	fn := mod.ExportedFunction("sub-uint")
	_, err = fn.Call(ctx, uint64(0), 0, uint64(1), 0)
	require.Error(t, err)
}

func TestDivIntByZeroTraps(t *testing.T) {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	mod, err := InstantiateHostModule(ctx, r)
	require.NoError(t, err)
	defer mod.Close(ctx)

	fn := mod.ExportedFunction("div-int")
	_, err = fn.Call(ctx, uint64(10), 0, 0, 0)
	require.Error(t, err)
}

func TestMulIntOverflowTraps(t *testing.T) {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	mod, err := InstantiateHostModule(ctx, r)
	require.NoError(t, err)
	defer mod.Close(ctx)

	fn := mod.ExportedFunction("mul-int")
	// max int128 * 2 overflows
	_, err = fn.Call(ctx, uint64(0xFFFFFFFFFFFFFFFF), 0x7FFFFFFFFFFFFFFF, 2, 0)
	require.Error(t, err)
}

