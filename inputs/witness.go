package inputs

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/frontend"
)

// CircuitAssignment is the witness layout the email circuit consumes.
// Remaining is zero-padded to the capacity bound so the schema has a fixed
// size; RemainingLen carries the true length. The proving backend owns the
// constraint system; this type only fixes the witness schema, so Define is
// a no-op.
type CircuitAssignment struct {
	HashState    [8]frontend.Variable
	Remaining    []frontend.Variable
	RemainingLen frontend.Variable
	TotalLength  frontend.Variable

	Signature []frontend.Variable
	Modulus   []frontend.Variable `gnark:",public"`
	Redc      []frontend.Variable

	FromHeaderStart   frontend.Variable
	FromHeaderLength  frontend.Variable
	FromAddressStart  frontend.Variable
	FromAddressLength frontend.Variable
}

func (c *CircuitAssignment) Define(frontend.API) error { return nil }

// Assignment converts the bundle into a gnark witness assignment.
func (b *Bundle) Assignment() (*CircuitAssignment, error) {
	a := &CircuitAssignment{
		Remaining:    make([]frontend.Variable, b.Capacity),
		RemainingLen: len(b.PartialHash.Remaining),
		TotalLength:  b.PartialHash.TotalLength,

		FromHeaderStart:   b.From.HeaderStart,
		FromHeaderLength:  b.From.HeaderLength,
		FromAddressStart:  b.From.AddressStart,
		FromAddressLength: b.From.AddressLength,
	}
	for i, word := range b.PartialHash.State {
		a.HashState[i] = word
	}
	for i := range a.Remaining {
		if i < len(b.PartialHash.Remaining) {
			a.Remaining[i] = b.PartialHash.Remaining[i]
		} else {
			a.Remaining[i] = 0
		}
	}

	var err error
	if a.Signature, err = limbVariables(b.SignatureLimbs); err != nil {
		return nil, err
	}
	if a.Modulus, err = limbVariables(b.ModulusLimbs); err != nil {
		return nil, err
	}
	if a.Redc, err = limbVariables(b.RedcLimbs); err != nil {
		return nil, err
	}
	return a, nil
}

// Witness builds the gnark witness over the BN254 scalar field, ready for
// the proving backend.
func (b *Bundle) Witness() (witness.Witness, error) {
	assignment, err := b.Assignment()
	if err != nil {
		return nil, err
	}
	return frontend.NewWitness(assignment, ecc.BN254.ScalarField())
}

func limbVariables(v []string) ([]frontend.Variable, error) {
	out := make([]frontend.Variable, len(v))
	for i, s := range v {
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("limb %d: %q is not a decimal integer", i, s)
		}
		out[i] = n
	}
	return out, nil
}
