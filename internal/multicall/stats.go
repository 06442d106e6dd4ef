package multicall

import "sort"

// Percentile99GasUsed returns the 99th-percentile gasUsed across the
// successful results, or 0 if none succeeded (spec §4.1/§9.4: the
// quoter reports one approximate per-call gas figure rather than a
// per-route one).
func Percentile99GasUsed(results []Result) uint64 {
	var used []uint64
	for _, r := range results {
		if r.Success {
			used = append(used, r.GasUsed)
		}
	}
	if len(used) == 0 {
		return 0
	}
	sort.Slice(used, func(i, j int) bool { return used[i] < used[j] })

	// Nearest-rank: the ceil(0.99*n)-th smallest value.
	idx := (99*len(used)+99)/100 - 1
	return used[idx]
}
