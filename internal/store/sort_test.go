package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcliao/memory-cartography/internal/model"
)

func fptr(v float64) *float64 { return &v }

func ids(records []model.Memory) []int {
	out := make([]int, len(records))
	for i, m := range records {
		out[i] = m.ID
	}
	return out
}

func TestSort_WeightDescending(t *testing.T) {
	in := []model.Memory{
		{ID: 1, Weight: fptr(0.8)},
		{ID: 2, Weight: fptr(1.5)},
		{ID: 3}, // missing weight counts as 1.0
		{ID: 4, Weight: fptr(1.2)},
	}
	out := Sort(in, model.SortByWeight)
	assert.Equal(t, []int{2, 4, 3, 1}, ids(out))
}

func TestSort_WeightStableOnTies(t *testing.T) {
	in := []model.Memory{
		{ID: 1, Weight: fptr(1.0)},
		{ID: 2}, // also effectively 1.0
		{ID: 3, Weight: fptr(1.0)},
		{ID: 4, Weight: fptr(2.0)},
	}
	out := Sort(in, model.SortByWeight)
	assert.Equal(t, []int{4, 1, 2, 3}, ids(out), "equal weights keep prior relative order")
}

func TestSort_DateDescending(t *testing.T) {
	in := []model.Memory{
		{ID: 1, Date: "2018-03-01"},
		{ID: 2, Date: "2021-11-20"},
		{ID: 3, Date: "2019-07-04"},
	}
	out := Sort(in, model.SortByDate)
	assert.Equal(t, []int{2, 3, 1}, ids(out))
}

func TestSort_DateUnparseableSinksLast(t *testing.T) {
	in := []model.Memory{
		{ID: 1, Date: "who knows"},
		{ID: 2, Date: "2021-11-20"},
		{ID: 3, Date: ""},
		{ID: 4, Date: "2019-07-04"},
	}
	out := Sort(in, model.SortByDate)
	assert.Equal(t, []int{2, 4, 1, 3}, ids(out), "bad dates sink, keeping their relative order")
}

func TestSort_RelevanceIsIdentity(t *testing.T) {
	in := []model.Memory{
		{ID: 3, Weight: fptr(0.1)},
		{ID: 1, Weight: fptr(2.0)},
		{ID: 2, Weight: fptr(1.0)},
	}
	out := Sort(in, model.SortByRelevance)
	assert.Equal(t, []int{3, 1, 2}, ids(out), "server order is authoritative")
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	in := []model.Memory{
		{ID: 1, Weight: fptr(0.5)},
		{ID: 2, Weight: fptr(1.5)},
	}
	_ = Sort(in, model.SortByWeight)
	assert.Equal(t, []int{1, 2}, ids(in))
}
