// Package poolselector implements the Pool Selector (C3): filtering
// and ranking the pool universe into a bounded candidate set via seven
// TVL-keyed slices (spec §4.3).
package poolselector

import (
	"context"
	"math/big"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"

	"sorcore/internal/chain"
	"sorcore/internal/config"
	"sorcore/internal/poolaccessor"
	"sorcore/internal/poolmodel"
	"sorcore/internal/sorerr"
	"sorcore/internal/subgraph"
	"sorcore/internal/token"
)

// Candidate is a subgraph pool resolved against the token registry,
// carrying its TVL rank key.
type candidate struct {
	subgraphID string
	token0     token.Token
	token1     token.Token
	fee        uint32
	tvlUSD     *big.Rat
}

// Result is C3's output: the resolved candidate pool set plus the
// bridge pools (slice 2) the Gas Model (C6) needs to price gas in the
// quote token.
type Result struct {
	Accessor     *poolaccessor.Accessor
	CandidateSet []poolmodel.Pool
	BridgePools  []poolmodel.Pool
}

// Select fetches the pool universe from the subgraph provider, filters
// to pools whose tokens are both known, and extracts the seven
// disjoint TVL-keyed slices described in spec §4.3, deduplicating
// before resolving through the Pool Accessor (C2).
func Select(
	ctx context.Context,
	client *chain.Client,
	provider subgraph.Provider,
	registry *token.Registry,
	wrappedNative token.Token,
	tokenIn, tokenOut token.Token,
	tradeType poolmodel.TradeType,
	cfg config.Config,
) (Result, error) {
	raw, err := provider.GetPools(ctx)
	if err != nil {
		return Result{}, sorerr.New("poolselector.Select", sorerr.TransportFailure, err)
	}

	candidates := resolveAndFilter(raw, registry, tokenIn.ChainID)
	sortByTVLDesc(candidates)

	chosen := mapset.NewSet[string]()

	quoteToken := tokenOut
	if tradeType == poolmodel.ExactOut {
		quoteToken = tokenIn
	}

	slice1 := top2DirectSwapPool(candidates, chosen, tokenIn, tokenOut)
	slice2 := top2EthQuoteTokenPool(candidates, chosen, wrappedNative, quoteToken, tradeType)
	slice3 := topByTVL(candidates, chosen, cfg.TopN)
	slice4 := topByTVLUsingToken(candidates, chosen, tokenIn, cfg.TopNTokenInOut)
	slice5 := topByTVLUsingToken(candidates, chosen, tokenOut, cfg.TopNTokenInOut)
	slice6 := topByTVLUsingTokenInSecondHops(candidates, chosen, slice4, tokenIn, cfg.TopNSecondHop)
	// Slice 7 reuses slice 4's tokenIn-side counterparties (the same
	// list slice 6 computes) instead of recomputing them from slice 5,
	// and filters for pools touching tokenOut directly rather than the
	// counterparty endpoint — preserved asymmetry, see spec §9 open
	// question 1.
	slice7 := topByTVLUsingTokenOutSecondHops(candidates, chosen, slice4, tokenIn, tokenOut, cfg.TopNSecondHop)

	all := make([]candidate, 0, len(slice1)+len(slice2)+len(slice3)+len(slice4)+len(slice5)+len(slice6)+len(slice7))
	all = append(all, slice1...)
	all = append(all, slice2...)
	all = append(all, slice3...)
	all = append(all, slice4...)
	all = append(all, slice5...)
	all = append(all, slice6...)
	all = append(all, slice7...)

	keys := make([]poolaccessor.Key, 0, len(all))
	for _, c := range all {
		keys = append(keys, poolaccessor.Key{TokenA: c.token0, TokenB: c.token1, Fee: c.fee})
	}

	accessor, err := poolaccessor.GetPools(ctx, client, keys, cfg.MulticallChunkSize)
	if err != nil {
		return Result{}, err
	}

	candidateSet := make([]poolmodel.Pool, 0, len(all))
	for _, c := range all {
		if p, ok := accessor.GetPool(c.token0, c.token1, c.fee); ok {
			candidateSet = append(candidateSet, p)
		}
	}

	bridgePools := make([]poolmodel.Pool, 0, len(slice2))
	for _, c := range slice2 {
		if p, ok := accessor.GetPool(c.token0, c.token1, c.fee); ok {
			bridgePools = append(bridgePools, p)
		}
	}

	return Result{Accessor: accessor, CandidateSet: candidateSet, BridgePools: bridgePools}, nil
}

func resolveAndFilter(raw []subgraph.Pool, registry *token.Registry, chainID uint64) []candidate {
	out := make([]candidate, 0, len(raw))
	for _, p := range raw {
		t0, ok0 := registry.ByAddress(chainID, common.HexToAddress(p.Token0ID))
		t1, ok1 := registry.ByAddress(chainID, common.HexToAddress(p.Token1ID))
		if !ok0 || !ok1 {
			continue
		}
		tvl, ok := new(big.Rat).SetString(p.TotalValueLockedUSD)
		if !ok {
			tvl = new(big.Rat)
		}
		out = append(out, candidate{
			subgraphID: p.ID,
			token0:     t0,
			token1:     t1,
			fee:        p.FeeTier,
			tvlUSD:     tvl,
		})
	}
	return out
}

func sortByTVLDesc(cands []candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].tvlUSD.Cmp(cands[j].tvlUSD) > 0
	})
}

func takeUnused(cands []candidate, chosen mapset.Set[string], n int, match func(candidate) bool) []candidate {
	out := make([]candidate, 0, n)
	for _, c := range cands {
		if len(out) >= n {
			break
		}
		if chosen.Contains(c.subgraphID) {
			continue
		}
		if !match(c) {
			continue
		}
		chosen.Add(c.subgraphID)
		out = append(out, c)
	}
	return out
}

// top2DirectSwapPool is slice 1: up to 2 pools whose tokens are
// exactly (tokenIn, tokenOut), in either order.
func top2DirectSwapPool(cands []candidate, chosen mapset.Set[string], tokenIn, tokenOut token.Token) []candidate {
	return takeUnused(cands, chosen, 2, func(c candidate) bool {
		return (c.token0.Equal(tokenIn) && c.token1.Equal(tokenOut)) ||
			(c.token0.Equal(tokenOut) && c.token1.Equal(tokenIn))
	})
}

// top2EthQuoteTokenPool is slice 2: up to 2 pools pairing the
// wrapped-native token with the quote token. The EXACT_IN branch
// compares by lowercase address; the EXACT_OUT branch compares by
// symbol instead. This divergence is preserved verbatim (spec §9
// open question 2): symbols are not a stable key, but changing this
// branch would alter downstream gas pricing for existing configs.
func top2EthQuoteTokenPool(cands []candidate, chosen mapset.Set[string], wrappedNative, quoteToken token.Token, tradeType poolmodel.TradeType) []candidate {
	if tradeType == poolmodel.ExactIn {
		nativeAddr := addressKey(wrappedNative)
		quoteAddr := addressKey(quoteToken)
		return takeUnused(cands, chosen, 2, func(c candidate) bool {
			return (addressKey(c.token0) == nativeAddr && addressKey(c.token1) == quoteAddr) ||
				(addressKey(c.token0) == quoteAddr && addressKey(c.token1) == nativeAddr)
		})
	}

	return takeUnused(cands, chosen, 2, func(c candidate) bool {
		return (c.token0.Symbol == wrappedNative.Symbol && c.token1.Symbol == quoteToken.Symbol) ||
			(c.token0.Symbol == quoteToken.Symbol && c.token1.Symbol == wrappedNative.Symbol)
	})
}

func addressKey(t token.Token) string {
	return toLowerHex(t.Address)
}

func toLowerHex(a common.Address) string {
	return strings.ToLower(a.Hex())
}

// topByTVL is slice 3: top N pools overall, irrespective of tokens.
func topByTVL(cands []candidate, chosen mapset.Set[string], n int) []candidate {
	return takeUnused(cands, chosen, n, func(candidate) bool { return true })
}

// topByTVLUsingToken is slices 4 and 5: top N pools touching tok.
func topByTVLUsingToken(cands []candidate, chosen mapset.Set[string], tok token.Token, n int) []candidate {
	return takeUnused(cands, chosen, n, func(c candidate) bool {
		return c.token0.Equal(tok) || c.token1.Equal(tok)
	})
}

// secondHopCounterparties identifies, for each seed pool, its
// non-pivotToken endpoint, deduplicated by address.
func secondHopCounterparties(seeds []candidate, pivotToken token.Token) []token.Token {
	out := make([]token.Token, 0, len(seeds))
	seen := mapset.NewSet[string]()
	for _, s := range seeds {
		other, ok := poolOtherToken(s, pivotToken)
		if !ok {
			continue
		}
		key := addressKey(other)
		if seen.Contains(key) {
			continue
		}
		seen.Add(key)
		out = append(out, other)
	}
	return out
}

func poolOtherToken(c candidate, tok token.Token) (token.Token, bool) {
	switch {
	case c.token0.Equal(tok):
		return c.token1, true
	case c.token1.Equal(tok):
		return c.token0, true
	default:
		return token.Token{}, false
	}
}

// topByTVLUsingTokenInSecondHops is slice 6: for each pool in slice 4,
// identify its non-tokenIn endpoint, then gather pools touching that
// endpoint (in either position), deduplicate, re-sort by TVL, and keep
// the top n.
func topByTVLUsingTokenInSecondHops(cands []candidate, chosen mapset.Set[string], slice4 []candidate, tokenIn token.Token, n int) []candidate {
	counterparties := secondHopCounterparties(slice4, tokenIn)

	var gathered []candidate
	seenPool := mapset.NewSet[string]()
	for _, cp := range counterparties {
		for _, c := range cands {
			if chosen.Contains(c.subgraphID) || seenPool.Contains(c.subgraphID) {
				continue
			}
			if c.token0.Equal(cp) || c.token1.Equal(cp) {
				seenPool.Add(c.subgraphID)
				gathered = append(gathered, c)
			}
		}
	}

	sortByTVLDesc(gathered)
	if len(gathered) > n {
		gathered = gathered[:n]
	}
	for _, c := range gathered {
		chosen.Add(c.subgraphID)
	}
	return gathered
}

// topByTVLUsingTokenOutSecondHops is slice 7. It should, by symmetry
// with slice 6, reseed from slice 5 (tokenOut's own top candidates)
// and gather pools touching each counterparty's non-tokenOut endpoint.
// Instead it reuses slice 4's tokenIn-side counterparties (identical to
// slice 6's counterparty list) and filters directly for tokenOut-touching
// pools — the per-counterparty loop does not change the match set, only
// how many times the dedup set is probed. Preserved verbatim (spec §9
// open question 1).
func topByTVLUsingTokenOutSecondHops(cands []candidate, chosen mapset.Set[string], slice4 []candidate, tokenIn, tokenOut token.Token, n int) []candidate {
	counterparties := secondHopCounterparties(slice4, tokenIn)

	var gathered []candidate
	seenPool := mapset.NewSet[string]()
	for range counterparties {
		for _, c := range cands {
			if chosen.Contains(c.subgraphID) || seenPool.Contains(c.subgraphID) {
				continue
			}
			if c.token0.Equal(tokenOut) || c.token1.Equal(tokenOut) {
				seenPool.Add(c.subgraphID)
				gathered = append(gathered, c)
			}
		}
	}

	sortByTVLDesc(gathered)
	if len(gathered) > n {
		gathered = gathered[:n]
	}
	for _, c := range gathered {
		chosen.Add(c.subgraphID)
	}
	return gathered
}
