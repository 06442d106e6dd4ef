package poolmodel

import (
	"math/big"

	"github.com/holiman/uint256"

	"sorcore/internal/token"
)

// AmountQuote is the result of simulating one (route, amount) pair
// against the quoter contract. Absent optional fields (nil Quote)
// signal a failed quote (spec §3).
type AmountQuote struct {
	Amount                      *big.Int
	Quote                       *big.Int
	SqrtPriceX96AfterList       []*uint256.Int
	InitializedTicksCrossedList []int32
	GasEstimate                 *big.Int
}

// Failed reports whether any required field for a successful quote is
// missing (spec §4.7 step 1).
func (q AmountQuote) Failed() bool {
	return q.Quote == nil || q.SqrtPriceX96AfterList == nil || q.InitializedTicksCrossedList == nil || q.GasEstimate == nil
}

// RouteWithValidQuote pairs a validated quote with its route and the
// gas-adjusted figure used to rank and compose splits (spec §3).
type RouteWithValidQuote struct {
	Route               Route
	Amount              *big.Int
	RawQuote             *big.Int
	QuoteAdjustedForGas *big.Int
	GasEstimate         *big.Int
	Percent             int
	QuoteToken          token.Token
	TradeType           TradeType
}

// RouteAmount is one component of an assembled SwapPlan.
type RouteAmount struct {
	Route      Route
	Percentage int
	Quote      *big.Int
}

// SwapPlan is the router's final output: one or more pool-disjoint
// routes whose percentages sum to 100 (spec §3).
type SwapPlan struct {
	Quote             *big.Int
	QuoteGasAdjusted  *big.Int
	EstimatedGasUsed  *big.Int
	GasPriceWei       *big.Int
	BlockNumber       uint64
	RouteAmounts      []RouteAmount
}
