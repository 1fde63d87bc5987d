// Package inputs assembles the circuit input bundle: the SHA-256 midstate
// over the header prefix, the DKIM signature and RSA modulus as limb
// vectors, the Montgomery reduction constant, and the From-header byte
// ranges. The bundle is built once per email and handed to the proving
// backend as a JSON or CBOR mapping, or as a gnark witness.
package inputs

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"

	"zkemail-witness/emailparse"
	"zkemail-witness/limbs"
	"zkemail-witness/partialsha"
)

// Limb geometry for a 2048-bit RSA modulus: 17 limbs of 121 bits each hold
// 2057 bits, and a 121-bit limb fits the BN254 scalar field.
const (
	LimbBits  = 121
	LimbCount = 17
)

// ErrSignatureDecode reports a b= value that is not valid base64.
var ErrSignatureDecode = errors.New("DKIM signature is not valid base64")

// Fragments are the parsed and limb-encoded DKIM and From values of one
// email, everything the circuit needs besides the hash midstate.
type Fragments struct {
	SignatureLimbs limbs.Vector
	ModulusLimbs   limbs.Vector
	RedcLimbs      limbs.Vector
	From           *emailparse.FromHeader
	Selector       string
	Domain         string
}

// Bundle is the full witness input for one email. Transient: built once,
// serialized for the backend, then discarded.
type Bundle struct {
	PartialHash *partialsha.PartialHash
	Fragments
	Capacity int
}

// ParseDKIMAndFrom extracts the DKIM-Signature and From headers from raw
// email text and encodes the signature, the given modulus, and its
// Montgomery reduction constant as limb vectors.
func ParseDKIMAndFrom(email []byte, modulus *big.Int) (*Fragments, error) {
	sig, err := emailparse.ExtractDKIMSignature(email)
	if err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(sig.SignatureB64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureDecode, err)
	}
	from, err := emailparse.FindFromHeader(email)
	if err != nil {
		return nil, err
	}

	signature := new(big.Int).SetBytes(raw)
	if err := checkGeometry(signature, "signature"); err != nil {
		return nil, err
	}
	if err := checkGeometry(modulus, "modulus"); err != nil {
		return nil, err
	}
	redc, err := limbs.RedcParam(modulus, LimbCount, LimbBits)
	if err != nil {
		return nil, err
	}

	return &Fragments{
		SignatureLimbs: limbs.Encode(signature, LimbCount, LimbBits),
		ModulusLimbs:   limbs.Encode(modulus, LimbCount, LimbBits),
		RedcLimbs:      redc,
		From:           from,
		Selector:       sig.Selector,
		Domain:         sig.Domain,
	}, nil
}

// Assemble builds the complete bundle: DKIM/From fragments plus the partial
// hash of the header under the given capacity bound.
func Assemble(email []byte, modulus *big.Int, capacity int) (*Bundle, error) {
	fragments, err := ParseDKIMAndFrom(email, modulus)
	if err != nil {
		return nil, err
	}
	partial, err := partialsha.Compute(email, capacity)
	if err != nil {
		return nil, err
	}
	return &Bundle{PartialHash: partial, Fragments: *fragments, Capacity: capacity}, nil
}

// checkGeometry enforces the limb codec precondition: the value must fit
// the fixed limb layout. That a single limb fits the BN254 scalar field is
// a property of the constants, asserted in tests.
func checkGeometry(v *big.Int, name string) error {
	if uint(v.BitLen()) > LimbCount*LimbBits {
		return fmt.Errorf("%s is %d bits, limb layout holds at most %d", name, v.BitLen(), LimbCount*LimbBits)
	}
	return nil
}
