package splitoptimizer

import (
	"math/big"

	"sorcore/internal/poolmodel"
)

// search2Split tries every percents[i] against its complement,
// picking the first pool-disjoint candidate in the complement bucket
// (spec §4.7 step 4). Returns the best 2-split found, if any improved
// on bestSum.
func search2Split(
	percents []int,
	byPercent map[int][]poolmodel.RouteWithValidQuote,
	comp func(a, b *big.Int) bool,
	bestSum *big.Int,
) ([]poolmodel.RouteWithValidQuote, *big.Int, bool) {
	limit := (len(percents) + 1) / 2

	var bestSplit []poolmodel.RouteWithValidQuote
	best := bestSum
	improved := false

	for i := 0; i < limit; i++ {
		bucketA := byPercent[percents[i]]
		if len(bucketA) == 0 {
			continue
		}
		a := bucketA[0]

		pB := 100 - percents[i]
		bucketB, ok := byPercent[pB]
		if !ok {
			continue
		}

		b, found := findDisjoint(bucketB, a.Route)
		if !found {
			continue
		}

		sum := new(big.Int).Add(a.QuoteAdjustedForGas, b.QuoteAdjustedForGas)
		if comp(sum, best) {
			best = sum
			bestSplit = []poolmodel.RouteWithValidQuote{a, b}
			improved = true
		}
	}

	return bestSplit, best, improved
}

// search3Split is only invoked when a 2-split already improved on the
// baseline (spec §4.7 step 4, preserved even though this gate can miss
// 3-splits a 2-split search would not have found — spec §9 open
// question 3).
func search3Split(
	percents []int,
	byPercent map[int][]poolmodel.RouteWithValidQuote,
	comp func(a, b *big.Int) bool,
	bestSum *big.Int,
) ([]poolmodel.RouteWithValidQuote, *big.Int, bool) {
	var bestSplit []poolmodel.RouteWithValidQuote
	best := bestSum
	improved := false

	for i := 0; i < len(percents); i++ {
		bucketA := byPercent[percents[i]]
		if len(bucketA) == 0 {
			continue
		}
		a := bucketA[0]

		for j := i + 1; j < len(percents); j++ {
			bucketB := byPercent[percents[j]]
			if len(bucketB) == 0 {
				continue
			}
			b, found := findDisjoint(bucketB, a.Route)
			if !found {
				continue
			}

			pC := 100 - percents[i] - percents[j]
			bucketC, ok := byPercent[pC]
			if !ok {
				continue
			}
			c, found := findDisjoint(bucketC, a.Route, b.Route)
			if !found {
				continue
			}

			sum := new(big.Int).Add(new(big.Int).Add(a.QuoteAdjustedForGas, b.QuoteAdjustedForGas), c.QuoteAdjustedForGas)
			if comp(sum, best) {
				best = sum
				bestSplit = []poolmodel.RouteWithValidQuote{a, b, c}
				improved = true
			}
		}
	}

	return bestSplit, best, improved
}
