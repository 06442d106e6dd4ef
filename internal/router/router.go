// Package router implements the Router Orchestrator (C8): the
// top-level pipeline driving pool selection through split
// optimisation to a final SwapPlan (spec §4.8/§5).
package router

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"sorcore/internal/amountdist"
	"sorcore/internal/chain"
	"sorcore/internal/config"
	"sorcore/internal/gasmodel"
	"sorcore/internal/poolmodel"
	"sorcore/internal/poolselector"
	"sorcore/internal/quoter"
	"sorcore/internal/routeenum"
	"sorcore/internal/sorerr"
	"sorcore/internal/splitoptimizer"
	"sorcore/internal/subgraph"
	"sorcore/internal/token"
)

// Orchestrator sequences C3 -> C4 -> C5 -> C1 -> C7 for a single
// routing request.
type Orchestrator struct {
	client        *chain.Client
	provider      subgraph.Provider
	registry      *token.Registry
	wrappedNative token.Token
	quoterAddress common.Address
	cfg           config.Config
	logger        *zap.Logger
}

// New builds an Orchestrator bound to one chain connection and token
// universe.
func New(client *chain.Client, provider subgraph.Provider, registry *token.Registry, wrappedNative token.Token, quoterAddress common.Address, cfg config.Config, logger *zap.Logger) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Orchestrator{
		client:        client,
		provider:      provider,
		registry:      registry,
		wrappedNative: wrappedNative,
		quoterAddress: quoterAddress,
		cfg:           cfg,
		logger:        logger,
	}, nil
}

// Route runs the full pipeline for one (tokenIn, tokenOut, amount,
// tradeType) request, returning nil (not an error) when no viable
// route exists. tokenIn/tokenOut may be the native-currency sentinel
// (token.Token.IsNative); it is translated to the chain's wrapped
// token for the internal pipeline and re-wrapped on plan emission,
// since every on-chain pool and the quoter contract only ever speak
// the wrapped token (spec §4.8).
func (o *Orchestrator) Route(ctx context.Context, tokenIn, tokenOut token.Token, amount *big.Int, tradeType poolmodel.TradeType) (*poolmodel.SwapPlan, error) {
	start := time.Now()

	gasPriceWei, err := o.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, sorerr.New("router.Route", sorerr.GasPriceUnavailable, err)
	}

	internalTokenIn, internalTokenOut := tokenIn, tokenOut
	if tokenIn.IsNative() {
		internalTokenIn = o.wrappedNative
	}
	if tokenOut.IsNative() {
		internalTokenOut = o.wrappedNative
	}

	quoteToken := internalTokenOut
	if tradeType == poolmodel.ExactOut {
		quoteToken = internalTokenIn
	}

	selectStart := time.Now()
	selection, err := poolselector.Select(ctx, o.client, o.provider, o.registry, o.wrappedNative, internalTokenIn, internalTokenOut, tradeType, o.cfg)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("pool selection complete",
		zap.Duration("elapsed", time.Since(selectStart)),
		zap.Int("candidates", len(selection.CandidateSet)),
		zap.Int("bridge_pools", len(selection.BridgePools)),
	)

	enumStart := time.Now()
	routes := routeenum.Enumerate(internalTokenIn, internalTokenOut, selection.CandidateSet, o.cfg.MaxSwapsPerPath)
	o.logger.Debug("route enumeration complete",
		zap.Duration("elapsed", time.Since(enumStart)),
		zap.Int("routes", len(routes)),
	)
	if len(routes) == 0 {
		return nil, nil
	}

	percents, amounts, err := amountdist.Distribute(amount, o.cfg.DistributionPercent)
	if err != nil {
		return nil, err
	}

	quoteStart := time.Now()
	var quoteResult quoter.Result
	if tradeType == poolmodel.ExactIn {
		quoteResult, err = quoter.QuoteManyExactIn(ctx, o.client, o.quoterAddress, routes, amounts, o.cfg.MulticallChunkSize)
	} else {
		quoteResult, err = quoter.QuoteManyExactOut(ctx, o.client, o.quoterAddress, routes, amounts, o.cfg.MulticallChunkSize)
	}
	if err != nil {
		return nil, err
	}
	o.logger.Debug("quoting complete",
		zap.Duration("elapsed", time.Since(quoteStart)),
		zap.Uint64("block_number", quoteResult.BlockNumber),
		zap.Uint64("approx_gas_used_per_success_call", quoteResult.ApproxGasUsedPerSuccessCall),
	)

	gm := gasmodel.Build(gasPriceWei, o.wrappedNative, quoteToken, selection.BridgePools)

	optimizeStart := time.Now()
	plan, err := splitoptimizer.FindBest(percents, quoteResult.RoutesWithQuotes, quoteToken, tradeType, gm, o.cfg.MaxSplits, quoteResult.BlockNumber, gasPriceWei)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("split optimisation complete",
		zap.Duration("elapsed", time.Since(optimizeStart)),
		zap.Bool("plan_found", plan != nil),
	)

	rewrapPlan(plan, o.wrappedNative, tokenIn, tokenOut)

	o.logger.Info("routing request complete",
		zap.String("token_in", tokenIn.String()),
		zap.String("token_out", tokenOut.String()),
		zap.String("trade_type", tradeType.String()),
		zap.Duration("elapsed", time.Since(start)),
	)

	return plan, nil
}

// rewrapPlan replaces every route's wrapped-native endpoint with the
// original native-currency token requested by the caller. Pools
// themselves always trade the wrapped token on-chain; only the route's
// logical TokenIn/TokenOut are re-wrapped so a caller who asked for the
// native currency sees it reflected back in the plan (spec §4.8). A nil
// plan (no route found) is left untouched.
func rewrapPlan(plan *poolmodel.SwapPlan, wrappedNative, tokenIn, tokenOut token.Token) {
	if plan == nil || (!tokenIn.IsNative() && !tokenOut.IsNative()) {
		return
	}
	for i, ra := range plan.RouteAmounts {
		route := ra.Route
		if tokenIn.IsNative() && route.TokenIn.Equal(wrappedNative) {
			route.TokenIn = tokenIn
		}
		if tokenOut.IsNative() && route.TokenOut.Equal(wrappedNative) {
			route.TokenOut = tokenOut
		}
		plan.RouteAmounts[i].Route = route
	}
}
