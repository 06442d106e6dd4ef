package quoter

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"sorcore/internal/chain"
	"sorcore/internal/multicall"
	"sorcore/internal/poolmodel"
	"sorcore/internal/sorerr"
)

// RoutesWithQuotes is one route paired with its per-percent quotes, in
// the same order as the amounts slice passed in.
type RoutesWithQuotes struct {
	Route  poolmodel.Route
	Quotes []poolmodel.AmountQuote
}

// Result is C1's output (spec §4.1).
type Result struct {
	BlockNumber                 uint64
	RoutesWithQuotes            []RoutesWithQuotes
	ApproxGasUsedPerSuccessCall uint64
}

const quoterCallGasLimit = 1_500_000

// QuoteManyExactIn simulates every (route, amount) pair for a fixed
// input amount. amounts and routes are independent axes: the output
// has len(routes) x len(amounts) entries in row-major order.
func QuoteManyExactIn(ctx context.Context, client *chain.Client, quoterAddress common.Address, routes []poolmodel.Route, amounts []*big.Int, chunkSize int) (Result, error) {
	return quoteMany(ctx, client, quoterAddress, routes, amounts, poolmodel.ExactIn, chunkSize)
}

// QuoteManyExactOut simulates every (route, amount) pair for a fixed
// output amount.
func QuoteManyExactOut(ctx context.Context, client *chain.Client, quoterAddress common.Address, routes []poolmodel.Route, amounts []*big.Int, chunkSize int) (Result, error) {
	return quoteMany(ctx, client, quoterAddress, routes, amounts, poolmodel.ExactOut, chunkSize)
}

func quoteMany(ctx context.Context, client *chain.Client, quoterAddress common.Address, routes []poolmodel.Route, amounts []*big.Int, tradeType poolmodel.TradeType, chunkSize int) (Result, error) {
	abiDef, err := QuoterABI()
	if err != nil {
		return Result{}, sorerr.New("quoter.quoteMany", sorerr.ConfigInvalid, err)
	}

	method := "quoteExactInput"
	if tradeType == poolmodel.ExactOut {
		method = "quoteExactOutput"
	}

	calls := make([]multicall.Call, 0, len(routes)*len(amounts))
	for _, route := range routes {
		path := encodePath(route, tradeType)
		for _, amount := range amounts {
			data, err := abiDef.Pack(method, path, amount)
			if err != nil {
				return Result{}, sorerr.New("quoter.quoteMany", sorerr.ConfigInvalid, err)
			}
			calls = append(calls, multicall.Call{
				Target:   quoterAddress,
				GasLimit: quoterCallGasLimit,
				CallData: data,
			})
		}
	}

	batch, err := multicall.Dispatch(ctx, client, calls, multicall.Options{ChunkSize: chunkSize})
	if err != nil {
		return Result{}, sorerr.New("quoter.quoteMany", sorerr.TransportFailure, err)
	}

	routesWithQuotes := make([]RoutesWithQuotes, len(routes))
	for r, route := range routes {
		quotes := make([]poolmodel.AmountQuote, len(amounts))
		for m, amount := range amounts {
			idx := r*len(amounts) + m
			quotes[m] = decodeQuote(abiDef, method, amount, batch.Results[idx])
		}
		routesWithQuotes[r] = RoutesWithQuotes{Route: route, Quotes: quotes}
	}

	return Result{
		BlockNumber:                 batch.BlockNumber,
		RoutesWithQuotes:            routesWithQuotes,
		ApproxGasUsedPerSuccessCall: multicall.Percentile99GasUsed(batch.Results),
	}, nil
}

// decodeQuote turns one multicall result into an AmountQuote. A
// failed call, or one returning the empty `0x` payload, is a failed
// quote with every optional field left absent (spec §4.1).
func decodeQuote(abiDef abi.ABI, method string, amount *big.Int, res multicall.Result) poolmodel.AmountQuote {
	if !res.Success || len(res.ReturnData) <= 2 {
		return poolmodel.AmountQuote{Amount: amount}
	}

	out, err := abiDef.Unpack(method, res.ReturnData)
	if err != nil || len(out) != 4 {
		return poolmodel.AmountQuote{Amount: amount}
	}

	quote, ok := out[0].(*big.Int)
	if !ok {
		return poolmodel.AmountQuote{Amount: amount}
	}
	sqrtPrices, err := toUint256List(out[1])
	if err != nil {
		return poolmodel.AmountQuote{Amount: amount}
	}
	ticksCrossed, err := toInt32List(out[2])
	if err != nil {
		return poolmodel.AmountQuote{Amount: amount}
	}
	gasEstimate, ok := out[3].(*big.Int)
	if !ok {
		return poolmodel.AmountQuote{Amount: amount}
	}

	return poolmodel.AmountQuote{
		Amount:                      amount,
		Quote:                       quote,
		SqrtPriceX96AfterList:       sqrtPrices,
		InitializedTicksCrossedList: ticksCrossed,
		GasEstimate:                 gasEstimate,
	}
}
