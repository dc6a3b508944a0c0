package generator

import (
	"math/rand"
	"sort"
)

// RollFunc is the signature of a dice roll so services can swap in a
// scripted roll under test.
type RollFunc func(sides, times, keep int) int

// Roll rolls a dy die `times` times and returns the sum of the `keep`
// highest results. The mint check uses Roll(4, 1, 1), a single uniform
// draw in [1, sides].
func Roll(sides, times, keep int) int {
	if sides < 1 || times < 1 {
		return 0
	}
	if keep > times {
		keep = times
	}

	results := make([]int, times)
	for i := range results {
		results[i] = rand.Intn(sides) + 1
	}
	sort.Sort(sort.Reverse(sort.IntSlice(results)))

	total := 0
	for _, r := range results[:keep] {
		total += r
	}
	return total
}
