package splitoptimizer

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"sorcore/internal/gasmodel"
	"sorcore/internal/poolmodel"
	"sorcore/internal/quoter"
	"sorcore/internal/sorerr"
	"sorcore/internal/token"
)

func mkToken(addr string) token.Token {
	return token.Token{ChainID: 1, Address: common.HexToAddress(addr)}
}

func mkRoute(tokenIn, tokenOut token.Token, pools ...poolmodel.Pool) poolmodel.Route {
	return poolmodel.Route{Pools: pools, TokenIn: tokenIn, TokenOut: tokenOut}
}

func validQuote(amount, quote int64) poolmodel.AmountQuote {
	return poolmodel.AmountQuote{
		Amount:                      big.NewInt(amount),
		Quote:                       big.NewInt(quote),
		SqrtPriceX96AfterList:       []*uint256.Int{uint256.NewInt(1)},
		InitializedTicksCrossedList: []int32{0},
		GasEstimate:                 big.NewInt(100_000),
	}
}

func noopGasModel(quoteToken token.Token) *gasmodel.Model {
	native := mkToken("0xnative")
	return gasmodel.Build(big.NewInt(0), native, quoteToken, nil)
}

func TestFindBestBaselineOnly(t *testing.T) {
	a, b := mkToken("0x01"), mkToken("0x02")
	pool := poolmodel.NewPool(a, b, 500, uint256.NewInt(1), uint256.NewInt(1), 0)
	route := mkRoute(a, b, pool)

	percents := []int{100}
	rwq := []quoter.RoutesWithQuotes{
		{Route: route, Quotes: []poolmodel.AmountQuote{validQuote(100, 95)}},
	}

	plan, err := FindBest(percents, rwq, b, poolmodel.ExactIn, noopGasModel(b), 3, 42, big.NewInt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan == nil {
		t.Fatalf("expected a plan")
	}
	if len(plan.RouteAmounts) != 1 || plan.RouteAmounts[0].Percentage != 100 {
		t.Fatalf("expected single 100%% route amount, got %+v", plan.RouteAmounts)
	}
	if plan.Quote.Cmp(big.NewInt(95)) != 0 {
		t.Fatalf("expected quote 95, got %s", plan.Quote)
	}
}

func TestFindBestNoBaselineReturnsNilPlanNoError(t *testing.T) {
	a, b := mkToken("0x01"), mkToken("0x02")
	pool := poolmodel.NewPool(a, b, 500, uint256.NewInt(1), uint256.NewInt(1), 0)
	route := mkRoute(a, b, pool)

	// Only a 50% quote exists; no 100% baseline.
	percents := []int{50}
	rwq := []quoter.RoutesWithQuotes{
		{Route: route, Quotes: []poolmodel.AmountQuote{validQuote(50, 47)}},
	}

	plan, err := FindBest(percents, rwq, b, poolmodel.ExactIn, noopGasModel(b), 3, 1, big.NewInt(1))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if plan != nil {
		t.Fatalf("expected nil plan when no 100%% baseline exists")
	}
}

func TestAssemblePlanOrdersRouteAmountsByPercentageDescending(t *testing.T) {
	a, b, c := mkToken("0x01"), mkToken("0x02"), mkToken("0x03")
	poolAB := poolmodel.NewPool(a, b, 500, uint256.NewInt(1), uint256.NewInt(1), 0)
	poolAC := poolmodel.NewPool(a, c, 500, uint256.NewInt(1), uint256.NewInt(1), 0)

	minority := poolmodel.RouteWithValidQuote{Route: mkRoute(a, b, poolAB), RawQuote: big.NewInt(30), GasEstimate: big.NewInt(1), Percent: 30}
	majority := poolmodel.RouteWithValidQuote{Route: mkRoute(a, c, poolAC), RawQuote: big.NewInt(70), GasEstimate: big.NewInt(1), Percent: 70}

	plan := assemblePlan([]poolmodel.RouteWithValidQuote{minority, majority}, big.NewInt(100), 1, big.NewInt(1))

	if len(plan.RouteAmounts) != 2 {
		t.Fatalf("expected 2 route amounts, got %d", len(plan.RouteAmounts))
	}
	if plan.RouteAmounts[0].Percentage != 70 || plan.RouteAmounts[1].Percentage != 30 {
		t.Fatalf("expected route amounts sorted 70 then 30, got %+v", plan.RouteAmounts)
	}
}

func TestFindBestRejectsUnsupportedSplitCount(t *testing.T) {
	_, err := FindBest(nil, nil, token.Token{}, poolmodel.ExactIn, noopGasModel(token.Token{}), 4, 1, big.NewInt(1))
	if err == nil {
		t.Fatalf("expected an error for maxSplits >= 4")
	}
	if !sorerr.Is(err, sorerr.ConfigInvalid) {
		t.Fatalf("expected ConfigInvalid, got %v", err)
	}
}

func TestFindBestTwoSplitBeatsBaseline(t *testing.T) {
	a, b, c, d := mkToken("0x01"), mkToken("0x02"), mkToken("0x03"), mkToken("0x04")

	// Baseline: a single pool-A-B route, mediocre at 100%.
	directPool := poolmodel.NewPool(a, b, 500, uint256.NewInt(1), uint256.NewInt(1), 0)
	directRoute := mkRoute(a, b, directPool)

	// Split alternative: two disjoint pools, each better per-unit than the direct route.
	poolHalf1 := poolmodel.NewPool(a, c, 500, uint256.NewInt(1), uint256.NewInt(1), 0)
	poolHalf2 := poolmodel.NewPool(c, d, 500, uint256.NewInt(1), uint256.NewInt(1), 0)
	splitRouteA := mkRoute(a, b, poolHalf1)
	splitRouteB := mkRoute(a, b, poolHalf2)

	percents := []int{50, 100}
	rwq := []quoter.RoutesWithQuotes{
		{Route: directRoute, Quotes: []poolmodel.AmountQuote{validQuote(50, 45), validQuote(100, 90)}},
		{Route: splitRouteA, Quotes: []poolmodel.AmountQuote{validQuote(50, 49), poolmodel.AmountQuote{Amount: big.NewInt(100)}}},
		{Route: splitRouteB, Quotes: []poolmodel.AmountQuote{validQuote(50, 49), poolmodel.AmountQuote{Amount: big.NewInt(100)}}},
	}

	plan, err := FindBest(percents, rwq, b, poolmodel.ExactIn, noopGasModel(b), 3, 1, big.NewInt(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan == nil {
		t.Fatalf("expected a plan")
	}

	total := 0
	for _, ra := range plan.RouteAmounts {
		total += ra.Percentage
	}
	if total != 100 {
		t.Fatalf("expected percentages to sum to 100, got %d", total)
	}

	if plan.Quote.Cmp(big.NewInt(90)) <= 0 {
		t.Fatalf("expected the 2-split (49+49=98) to beat the 90-quote baseline, got %s", plan.Quote)
	}

	if len(plan.RouteAmounts) == 2 {
		usedPools := make(map[common.Address]struct{})
		for _, ra := range plan.RouteAmounts {
			for _, p := range ra.Route.Pools {
				if _, dup := usedPools[p.Address]; dup {
					t.Fatalf("expected pool-disjoint route components")
				}
				usedPools[p.Address] = struct{}{}
			}
		}
	}
}
