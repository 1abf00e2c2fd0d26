package model

import (
	"math"
	"slices"
)

// Balances maps an institution to its most recently known balance in won.
type Balances map[Institution]int64

// Total sums every known balance, including institutions outside DisplayOrder.
// The sum saturates at the int64 bounds instead of wrapping.
func (b Balances) Total() int64 {
	var total int64
	for _, v := range b {
		switch {
		case v > 0 && total > math.MaxInt64-v:
			total = math.MaxInt64
		case v < 0 && total < math.MinInt64-v:
			total = math.MinInt64
		default:
			total += v
		}
	}
	return total
}

// Merge overwrites entries in b with every entry in newer.
// Entries missing from newer are kept.
func (b Balances) Merge(newer Balances) {
	for inst, v := range newer {
		b[inst] = v
	}
}

// Clone returns a shallow copy of b. A nil receiver yields an empty map.
func (b Balances) Clone() Balances {
	out := make(Balances, len(b))
	for inst, v := range b {
		out[inst] = v
	}
	return out
}

// Institutions returns the keys of b, display institutions first in
// display order and any others after in name order.
func (b Balances) Institutions() []Institution {
	keys := make([]Institution, 0, len(b))
	for _, inst := range DisplayOrder {
		if _, ok := b[inst]; ok {
			keys = append(keys, inst)
		}
	}
	var extra []Institution
	for inst := range b {
		if !slices.Contains(DisplayOrder, inst) {
			extra = append(extra, inst)
		}
	}
	slices.Sort(extra)
	return append(keys, extra...)
}
