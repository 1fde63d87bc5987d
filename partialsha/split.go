package partialsha

import "errors"

// BlockSize is the SHA-256 block size; split points must be multiples of it.
const BlockSize = 64

// ErrUnsplittable reports that no block-aligned split point exists that both
// keeps the mandatory position in the remainder and keeps the remainder
// within the capacity bound.
var ErrUnsplittable = errors.New("no legal block-aligned split point")

// PlanSplit picks the byte offset at which precomputation stops. minSplit is
// the smallest split that keeps the remainder within the capacity bound
// (len(header)-capacity); mandatoryPos is the first byte that must stay
// unconsumed. On success the result is a multiple of BlockSize with
// minSplit <= split < mandatoryPos.
//
// When mandatoryPos <= minSplit the two requirements contradict each other
// and PlanSplit fails. Rounding minSplit down and accepting any result that
// falls before mandatoryPos would instead leave a remainder larger than the
// capacity bound, so the bound is re-validated and that case fails too.
func PlanSplit(minSplit, mandatoryPos int) (int, error) {
	if mandatoryPos <= minSplit {
		return 0, ErrUnsplittable
	}
	// Largest block boundary strictly before the mandatory position.
	split := (mandatoryPos - 1) &^ (BlockSize - 1)
	if split < minSplit {
		return 0, ErrUnsplittable
	}
	return split, nil
}
