package splitoptimizer

import (
	"math/big"
	"sort"

	"sorcore/internal/poolmodel"
)

// assemblePlan builds the final SwapPlan from the winning split.
// Percentages always sum to 100 by construction: a single-route
// baseline is 100%, a 2-split is percents[i] and 100-percents[i], a
// 3-split is percents[i], percents[j], and the remainder. RouteAmounts
// are emitted sorted by percentage descending (spec §4.7 step 5).
func assemblePlan(best []poolmodel.RouteWithValidQuote, sum *big.Int, blockNumber uint64, gasPriceWei *big.Int) *poolmodel.SwapPlan {
	routeAmounts := make([]poolmodel.RouteAmount, len(best))
	totalGas := new(big.Int)
	totalRaw := new(big.Int)

	percentageOf := func(component poolmodel.RouteWithValidQuote) int {
		if len(best) == 1 {
			return 100
		}
		return component.Percent
	}

	for i, c := range best {
		routeAmounts[i] = poolmodel.RouteAmount{
			Route:      c.Route,
			Percentage: percentageOf(c),
			Quote:      c.RawQuote,
		}
		totalGas.Add(totalGas, c.GasEstimate)
		totalRaw.Add(totalRaw, c.RawQuote)
	}

	sort.SliceStable(routeAmounts, func(i, j int) bool {
		return routeAmounts[i].Percentage > routeAmounts[j].Percentage
	})

	return &poolmodel.SwapPlan{
		Quote:            totalRaw,
		QuoteGasAdjusted: sum,
		EstimatedGasUsed: totalGas,
		GasPriceWei:      gasPriceWei,
		BlockNumber:      blockNumber,
		RouteAmounts:     routeAmounts,
	}
}
