// Package splitoptimizer implements the Split Optimiser (C7):
// combining per-(route, percent) quotes into the best 1-, 2-, or
// 3-way split under a pool-disjointness constraint (spec §4.7). This
// is the core's hardest component.
package splitoptimizer

import (
	"fmt"
	"math/big"
	"sort"

	"sorcore/internal/gasmodel"
	"sorcore/internal/poolmodel"
	"sorcore/internal/quoter"
	"sorcore/internal/sorerr"
	"sorcore/internal/token"
)

// FindBest runs the bounded split search and assembles a SwapPlan, or
// returns (nil, nil) if no 100% baseline route survives validation
// (spec §4.7 step 3 — "no route found" is not an error).
func FindBest(
	percents []int,
	routesWithQuotes []quoter.RoutesWithQuotes,
	quoteToken token.Token,
	tradeType poolmodel.TradeType,
	gm *gasmodel.Model,
	maxSplits int,
	blockNumber uint64,
	gasPriceWei *big.Int,
) (*poolmodel.SwapPlan, error) {
	if maxSplits < 1 || maxSplits > 3 {
		return nil, sorerr.New("splitoptimizer.FindBest", sorerr.ConfigInvalid,
			fmt.Errorf("maxSplits %d unsupported, must be in [1,3]", maxSplits))
	}

	byPercent := bucket(percents, routesWithQuotes, quoteToken, tradeType, gm)
	sortBuckets(byPercent, tradeType)

	baseline, ok := byPercent[100]
	if !ok || len(baseline) == 0 {
		return nil, nil
	}

	comp := compareFunc(tradeType)

	best := []poolmodel.RouteWithValidQuote{baseline[0]}
	bestSum := baseline[0].QuoteAdjustedForGas

	if maxSplits >= 2 {
		if twoSplit, sum, improved := search2Split(percents, byPercent, comp, bestSum); improved {
			best, bestSum = twoSplit, sum

			if maxSplits >= 3 {
				if threeSplit, sum3, improved3 := search3Split(percents, byPercent, comp, bestSum); improved3 {
					best, bestSum = threeSplit, sum3
				}
			}
		}
	}

	return assemblePlan(best, bestSum, blockNumber, gasPriceWei), nil
}

func bucket(
	percents []int,
	routesWithQuotes []quoter.RoutesWithQuotes,
	quoteToken token.Token,
	tradeType poolmodel.TradeType,
	gm *gasmodel.Model,
) map[int][]poolmodel.RouteWithValidQuote {
	byPercent := make(map[int][]poolmodel.RouteWithValidQuote)

	for _, rwq := range routesWithQuotes {
		for i, q := range rwq.Quotes {
			if q.Failed() {
				continue
			}
			if i >= len(percents) {
				continue
			}
			percent := percents[i]

			cost := gm.EstimateGasCost(rwq.Route, q.GasEstimate)
			adjusted := adjustForGas(q.Quote, cost.GasCostInQuoteToken, tradeType)

			byPercent[percent] = append(byPercent[percent], poolmodel.RouteWithValidQuote{
				Route:               rwq.Route,
				Amount:              q.Amount,
				RawQuote:            q.Quote,
				QuoteAdjustedForGas: adjusted,
				GasEstimate:         q.GasEstimate,
				Percent:             percent,
				QuoteToken:          quoteToken,
				TradeType:           tradeType,
			})
		}
	}

	return byPercent
}

func adjustForGas(rawQuote, gasCostInQuoteToken *big.Int, tradeType poolmodel.TradeType) *big.Int {
	if tradeType == poolmodel.ExactOut {
		return new(big.Int).Add(rawQuote, gasCostInQuoteToken)
	}
	return new(big.Int).Sub(rawQuote, gasCostInQuoteToken)
}

func sortBuckets(byPercent map[int][]poolmodel.RouteWithValidQuote, tradeType poolmodel.TradeType) {
	desc := tradeType == poolmodel.ExactIn
	for percent := range byPercent {
		bucket := byPercent[percent]
		sort.SliceStable(bucket, func(i, j int) bool {
			cmp := bucket[i].QuoteAdjustedForGas.Cmp(bucket[j].QuoteAdjustedForGas)
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
		byPercent[percent] = bucket
	}
}

// compareFunc returns comp(a,b) meaning "a is better than b".
func compareFunc(tradeType poolmodel.TradeType) func(a, b *big.Int) bool {
	if tradeType == poolmodel.ExactOut {
		return func(a, b *big.Int) bool { return a.Cmp(b) < 0 }
	}
	return func(a, b *big.Int) bool { return a.Cmp(b) > 0 }
}

// findDisjoint returns the first candidate whose route is pool-disjoint
// from every route already in against (spec §4.7 step 4: per-bucket
// lists are sorted best-first, so the first disjoint candidate is the
// best feasible one).
func findDisjoint(candidates []poolmodel.RouteWithValidQuote, against ...poolmodel.Route) (poolmodel.RouteWithValidQuote, bool) {
	for _, c := range candidates {
		disjoint := true
		for _, r := range against {
			if !c.Route.DisjointFrom(r) {
				disjoint = false
				break
			}
		}
		if disjoint {
			return c, true
		}
	}
	return poolmodel.RouteWithValidQuote{}, false
}
