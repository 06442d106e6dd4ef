package poolmodel

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"sorcore/internal/token"
)

// TradeType is the direction of the user's fixed amount.
type TradeType int

const (
	ExactIn TradeType = iota
	ExactOut
)

func (t TradeType) String() string {
	if t == ExactOut {
		return "EXACT_OUT"
	}
	return "EXACT_IN"
}

// Route is an ordered sequence of pools chaining from TokenIn to
// TokenOut. Invariant: 1 <= len(Pools) <= maxSwapsPerPath; consecutive
// pools share exactly one token; no pool repeats.
type Route struct {
	Pools    []Pool
	TokenIn  token.Token
	TokenOut token.Token
}

// PoolAddresses returns the set of pool addresses touched by the route,
// used for the pool-disjointness constraint (spec §4.7, invariant 2).
func (r Route) PoolAddresses() map[common.Address]struct{} {
	out := make(map[common.Address]struct{}, len(r.Pools))
	for _, p := range r.Pools {
		out[p.Address] = struct{}{}
	}
	return out
}

// DisjointFrom reports whether r shares no pool with other.
func (r Route) DisjointFrom(other Route) bool {
	used := other.PoolAddresses()
	for _, p := range r.Pools {
		if _, ok := used[p.Address]; ok {
			return false
		}
	}
	return true
}

// Validate checks route well-formedness (spec §8, invariant 4).
func (r Route) Validate(maxSwapsPerPath int) error {
	if len(r.Pools) == 0 {
		return fmt.Errorf("route has no pools")
	}
	if len(r.Pools) > maxSwapsPerPath {
		return fmt.Errorf("route length %d exceeds maxSwapsPerPath %d", len(r.Pools), maxSwapsPerPath)
	}

	seen := make(map[common.Address]struct{}, len(r.Pools))
	cursor := r.TokenIn
	for i, p := range r.Pools {
		if _, dup := seen[p.Address]; dup {
			return fmt.Errorf("pool %s repeats in route", p.Address.Hex())
		}
		seen[p.Address] = struct{}{}

		if !p.Involves(cursor) {
			return fmt.Errorf("pool %d does not involve expected token %s", i, cursor.Symbol)
		}
		next, _ := p.OtherToken(cursor)
		cursor = next
	}
	if !cursor.Equal(r.TokenOut) {
		return fmt.Errorf("route ends at %s, expected %s", cursor.Symbol, r.TokenOut.Symbol)
	}
	return nil
}

func (r Route) String() string {
	s := r.TokenIn.Symbol
	cursor := r.TokenIn
	for _, p := range r.Pools {
		next, _ := p.OtherToken(cursor)
		s += fmt.Sprintf(" -[%d]-> %s", p.Fee, next.Symbol)
		cursor = next
	}
	return s
}
