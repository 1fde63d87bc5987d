package inputs

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/fxamacker/cbor/v2"
)

// bundleWire is the named-field mapping the proving backend consumes: raw
// bytes hex-encoded, hash words and lengths as fixed-width integers, limb
// vectors as decimal strings.
type bundleWire struct {
	HashState         [8]uint32     `json:"hash_state"`
	Remaining         hexutil.Bytes `json:"remaining"`
	TotalLength       uint64        `json:"total_length"`
	PrehashedLength   uint64        `json:"prehashed_length"`
	SignatureLimbs    []string      `json:"signature_limbs"`
	ModulusLimbs      []string      `json:"modulus_limbs"`
	RedcLimbs         []string      `json:"redc_limbs"`
	FromHeaderStart   int           `json:"from_header_start"`
	FromHeaderLength  int           `json:"from_header_length"`
	FromAddressStart  int           `json:"from_address_start"`
	FromAddressLength int           `json:"from_address_length"`
	FromAddress       string        `json:"from_address"`
	Selector          string        `json:"selector,omitempty"`
	Domain            string        `json:"domain,omitempty"`
}

func (b *Bundle) wire() bundleWire {
	return bundleWire{
		HashState:         b.PartialHash.State,
		Remaining:         b.PartialHash.Remaining,
		TotalLength:       b.PartialHash.TotalLength,
		PrehashedLength:   b.PartialHash.PrehashedLength,
		SignatureLimbs:    b.SignatureLimbs,
		ModulusLimbs:      b.ModulusLimbs,
		RedcLimbs:         b.RedcLimbs,
		FromHeaderStart:   b.From.HeaderStart,
		FromHeaderLength:  b.From.HeaderLength,
		FromAddressStart:  b.From.AddressStart,
		FromAddressLength: b.From.AddressLength,
		FromAddress:       b.From.Address,
		Selector:          b.Selector,
		Domain:            b.Domain,
	}
}

// MarshalJSON serializes the bundle in the backend wire format.
func (b *Bundle) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.wire())
}

// ToCBOR serializes the bundle deterministically, for backends that take a
// binary hand-off.
func (b *Bundle) ToCBOR() ([]byte, error) {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	return mode.Marshal(b.wire())
}
