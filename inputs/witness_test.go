package inputs

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssignmentPadsRemaining(t *testing.T) {
	email := testEmail(0)
	const capacity = 4096
	bundle, err := Assemble(email, testModulus(t), capacity)
	require.NoError(t, err)

	a, err := bundle.Assignment()
	require.NoError(t, err)
	require.Len(t, a.Remaining, capacity)
	require.Len(t, a.Signature, LimbCount)
	require.Len(t, a.Modulus, LimbCount)
	require.Len(t, a.Redc, LimbCount)
	require.Equal(t, len(email), a.RemainingLen)

	// Real bytes first, zero padding after.
	for i, b := range email {
		require.Equal(t, b, a.Remaining[i].(byte), "byte %d", i)
	}
	for i := len(email); i < capacity; i++ {
		require.Equal(t, 0, a.Remaining[i].(int), "padding byte %d", i)
	}
}

func TestAssignmentLimbValues(t *testing.T) {
	modulus := testModulus(t)
	bundle, err := Assemble(testEmail(0), modulus, 4096)
	require.NoError(t, err)

	a, err := bundle.Assignment()
	require.NoError(t, err)

	reconstructed := new(big.Int)
	for i := len(a.Modulus) - 1; i >= 0; i-- {
		reconstructed.Lsh(reconstructed, LimbBits)
		reconstructed.Add(reconstructed, a.Modulus[i].(*big.Int))
	}
	require.Zero(t, reconstructed.Cmp(modulus))
}

func TestWitnessCreation(t *testing.T) {
	bundle, err := Assemble(testEmail(0), testModulus(t), 1024)
	require.NoError(t, err)

	w, err := bundle.Witness()
	require.NoError(t, err)

	// The modulus limbs are the public part of the witness.
	public, err := w.Public()
	require.NoError(t, err)
	require.NotNil(t, public)
}
