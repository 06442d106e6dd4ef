// Package poolmodel defines the router's per-request entities: Pool,
// Route, AmountQuote, RouteWithValidQuote, and SwapPlan (spec §3).
package poolmodel

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"sorcore/internal/token"
)

// Pool is a snapshot of one concentrated-liquidity pool's on-chain
// state. Invariant: Token0.Address < Token1.Address lexicographically.
type Pool struct {
	Address      common.Address
	Token0       token.Token
	Token1       token.Token
	Fee          uint32
	Liquidity    *uint256.Int
	SqrtPriceX96 *uint256.Int
	Tick         int32
}

// SortTokens returns (token0, token1) in canonical address order.
func SortTokens(a, b token.Token) (token.Token, token.Token) {
	if a.Address.Cmp(b.Address) < 0 {
		return a, b
	}
	return b, a
}

// ComputePoolAddress derives the deterministic pool identity for a
// (token0, token1, fee) tuple. Real deployments use CREATE2 against a
// factory's init code hash; here identity is a keccak256 digest of the
// canonical tuple truncated to 20 bytes, which preserves the
// determinism and collision properties the router relies on without
// needing a live factory contract.
func ComputePoolAddress(token0, token1 token.Token, fee uint32) common.Address {
	buf := make([]byte, 0, 20+20+4)
	buf = append(buf, token0.Address.Bytes()...)
	buf = append(buf, token1.Address.Bytes()...)
	buf = append(buf, byte(fee>>16), byte(fee>>8), byte(fee))
	digest := crypto.Keccak256(buf)
	return common.BytesToAddress(digest[12:])
}

// NewPool builds a Pool, sorting tokens into canonical order and
// deriving its deterministic address.
func NewPool(tokenA, tokenB token.Token, fee uint32, liquidity, sqrtPriceX96 *uint256.Int, tick int32) Pool {
	token0, token1 := SortTokens(tokenA, tokenB)
	return Pool{
		Address:      ComputePoolAddress(token0, token1, fee),
		Token0:       token0,
		Token1:       token1,
		Fee:          fee,
		Liquidity:    liquidity,
		SqrtPriceX96: sqrtPriceX96,
		Tick:         tick,
	}
}

// Involves reports whether the pool has tok as one of its two tokens.
func (p Pool) Involves(tok token.Token) bool {
	return p.Token0.Equal(tok) || p.Token1.Equal(tok)
}

// OtherToken returns the pool's counterparty token to tok.
func (p Pool) OtherToken(tok token.Token) (token.Token, bool) {
	switch {
	case p.Token0.Equal(tok):
		return p.Token1, true
	case p.Token1.Equal(tok):
		return p.Token0, true
	default:
		return token.Token{}, false
	}
}

func (p Pool) String() string {
	return fmt.Sprintf("%s/%s:%d@%s", p.Token0.Symbol, p.Token1.Symbol, p.Fee, p.Address.Hex())
}
