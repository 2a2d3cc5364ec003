package store

import (
	"sort"

	"github.com/rcliao/memory-cartography/internal/model"
)

// Sort returns a new ordering of records under the given criterion. The
// input is never mutated and the sort is stable: records that compare
// equal keep their prior relative order.
//
// Weight orders descending over the effective weight (missing weight
// counts as 1.0). Date orders descending over the parsed date; records
// whose date does not parse sink below every parseable one and keep
// their relative order among themselves. Relevance is a passthrough:
// the server's order is authoritative and never recomputed locally.
func Sort(records []model.Memory, by model.SortBy) []model.Memory {
	out := make([]model.Memory, len(records))
	copy(out, records)

	switch by {
	case model.SortByWeight:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].EffectiveWeight() > out[j].EffectiveWeight()
		})
	case model.SortByDate:
		sort.SliceStable(out, func(i, j int) bool {
			ti, oki := out[i].ParsedDate()
			tj, okj := out[j].ParsedDate()
			switch {
			case oki && okj:
				return ti.After(tj)
			case oki:
				return true
			default:
				return false
			}
		})
	}
	return out
}
