package partialsha

import (
	"encoding/binary"
	"fmt"

	"zkemail-witness/emailparse"
)

// PartialHash is a SHA-256 midstate plus the unconsumed remainder of the
// message. Continuing standard padding and finalization over Remaining,
// with TotalLength as the length suffix, reproduces SHA-256 of the whole
// input. Not mutated after construction.
type PartialHash struct {
	State           [8]uint32
	Remaining       []byte
	TotalLength     uint64
	PrehashedLength uint64 // always a multiple of BlockSize
}

// Compute hashes as much of header as possible outside the circuit while
// keeping the From header, and at most capacity bytes, in the remainder.
// Headers that already fit the capacity bound are returned whole on the
// canonical initial state. Fails with emailparse.ErrFromHeaderNotFound when
// a split is needed but no From header exists, and with ErrUnsplittable
// when no legal split point exists.
func Compute(header []byte, capacity int) (*PartialHash, error) {
	if len(header) <= capacity {
		return &PartialHash{
			State:       initialState,
			Remaining:   header,
			TotalLength: uint64(len(header)),
		}, nil
	}

	mandatoryPos, ok := emailparse.LocateFromHeader(header)
	if !ok {
		return nil, emailparse.ErrFromHeaderNotFound
	}
	split, err := PlanSplit(len(header)-capacity, mandatoryPos)
	if err != nil {
		return nil, fmt.Errorf("header of %d bytes, capacity %d, From at %d: %w",
			len(header), capacity, mandatoryPos, err)
	}

	state := initialState
	for off := 0; off < split; off += BlockSize {
		state = Compress(state, toBlock(header[off:off+BlockSize]))
	}
	return &PartialHash{
		State:           state,
		Remaining:       header[split:],
		TotalLength:     uint64(len(header)),
		PrehashedLength: uint64(split),
	}, nil
}

// Sum finishes the hash over Remaining with standard SHA-256 padding, using
// TotalLength for the length suffix. The result equals SHA-256 of the
// original header; callers can use it to cross-check a midstate against an
// independent implementation.
func (p *PartialHash) Sum() [32]byte {
	msg := make([]byte, 0, len(p.Remaining)+BlockSize+8)
	msg = append(msg, p.Remaining...)
	msg = append(msg, 0x80)
	for (p.PrehashedLength+uint64(len(msg)))%BlockSize != 56 {
		msg = append(msg, 0)
	}
	msg = binary.BigEndian.AppendUint64(msg, p.TotalLength*8)

	state := p.State
	for off := 0; off < len(msg); off += BlockSize {
		state = Compress(state, toBlock(msg[off:off+BlockSize]))
	}

	var digest [32]byte
	for i, word := range state {
		binary.BigEndian.PutUint32(digest[4*i:], word)
	}
	return digest
}

func toBlock(b []byte) [16]uint32 {
	var block [16]uint32
	for i := range block {
		block[i] = binary.BigEndian.Uint32(b[4*i:])
	}
	return block
}
