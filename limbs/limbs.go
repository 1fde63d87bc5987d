// Package limbs encodes arbitrary-precision integers as fixed-width,
// little-endian limb vectors for use as circuit witnesses, and computes the
// Montgomery reduction constant circuit-side modular multiplication needs.
// These are public values; nothing here is constant-time.
package limbs

import (
	"fmt"
	"math/big"
)

// Vector is an ordered sequence of decimal limb strings, least significant
// limb first. Each limb is in [0, 2^bits) for the width it was encoded with.
type Vector []string

// Encode splits v into count limbs of the given bit width by repeatedly
// masking the low bits and shifting right. The caller must guarantee
// v < 2^(count*bits); higher-order bits are silently dropped.
func Encode(v *big.Int, count, bits uint) Vector {
	mask := new(big.Int).Lsh(big.NewInt(1), bits)
	mask.Sub(mask, big.NewInt(1))

	rest := new(big.Int).Set(v)
	limb := new(big.Int)
	out := make(Vector, count)
	for i := range out {
		limb.And(rest, mask)
		out[i] = limb.String()
		rest.Rsh(rest, bits)
	}
	return out
}

// Decode reconstructs the integer a vector encodes under positional weights
// 2^(bits*i). It is the inverse of Encode for values within range.
func Decode(v Vector, bits uint) (*big.Int, error) {
	out := new(big.Int)
	limb := new(big.Int)
	for i := len(v) - 1; i >= 0; i-- {
		if _, ok := limb.SetString(v[i], 10); !ok {
			return nil, fmt.Errorf("limb %d: %q is not a decimal integer", i, v[i])
		}
		out.Lsh(out, bits)
		out.Add(out, limb)
	}
	return out, nil
}

// RedcParam computes the Montgomery reduction constant
// (-modulus^-1) mod R with R = 2^(count*bits), encoded as limbs, so that
// modulus * redc = -1 (mod R). Fails when the modulus is not invertible
// modulo R, i.e. when it is even.
func RedcParam(modulus *big.Int, count, bits uint) (Vector, error) {
	r := new(big.Int).Lsh(big.NewInt(1), count*bits)
	inv := new(big.Int).ModInverse(modulus, r)
	if inv == nil {
		return nil, fmt.Errorf("modulus is not invertible modulo 2^%d", count*bits)
	}
	redc := inv.Neg(inv)
	redc.Mod(redc, r)
	return Encode(redc, count, bits), nil
}
