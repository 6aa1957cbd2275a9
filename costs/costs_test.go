package costs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDimensionEvaluate(t *testing.T) {
	require.Equal(t, uint64(0), none().Evaluate(5))
	require.Equal(t, uint64(7), constant(7).Evaluate(100))
	require.Equal(t, uint64(2*10+3), linear(2, 3).Evaluate(10))
}

func TestLog2Ceil(t *testing.T) {
	cases := map[uint64]uint64{0: 0, 1: 0, 2: 1, 3: 2, 4: 2, 5: 3, 8: 3, 9: 4}
	for n, want := range cases {
		require.Equal(t, want, log2Ceil(n), "n=%d", n)
	}
}

func TestLookupKnownAndUnknownWords(t *testing.T) {
	row, ok := Lookup(Clarity2, WordAdd)
	require.True(t, ok)
	require.Equal(t, uint64(1), row.Runtime.A)

	_, ok = Lookup(Clarity2, Word("not-a-real-word"))
	require.False(t, ok)
}

func TestClarity3RetunesPersistentStateWordsCheaper(t *testing.T) {
	c2, ok := Lookup(Clarity2, WordFetchVar)
	require.True(t, ok)
	c3, ok := Lookup(Clarity3, WordFetchVar)
	require.True(t, ok)
	require.Less(t, c3.Runtime.A, c2.Runtime.A)
}

func TestBuildReturnsIndependentCopy(t *testing.T) {
	sched := Build(Clarity2)
	require.Equal(t, Clarity2, sched.Epoch)
	require.NotEmpty(t, sched.Rows)

	sched.Rows[WordAdd] = WordCost{}
	row, _ := Lookup(Clarity2, WordAdd)
	require.NotEqual(t, WordCost{}, row, "mutating a Build result must not affect the published table")
}
