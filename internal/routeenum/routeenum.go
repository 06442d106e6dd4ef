// Package routeenum implements the Route Enumerator (C4): a bounded
// depth-first search over the candidate pool graph (spec §4.4).
package routeenum

import (
	"github.com/bits-and-blooms/bitset"

	"sorcore/internal/poolmodel"
	"sorcore/internal/token"
)

// Enumerate returns every simple path from tokenIn to tokenOut over
// pools, of length at most maxHops. Emission order is not contractual.
func Enumerate(tokenIn, tokenOut token.Token, pools []poolmodel.Pool, maxHops int) []poolmodel.Route {
	var routes []poolmodel.Route
	used := bitset.New(uint(len(pools)))
	stack := make([]poolmodel.Pool, 0, maxHops)

	var dfs func(previousTokenOut token.Token)
	dfs = func(previousTokenOut token.Token) {
		if len(stack) >= maxHops {
			return
		}
		for i, p := range pools {
			if used.Test(uint(i)) {
				continue
			}
			if !p.Involves(previousTokenOut) {
				continue
			}

			next, _ := p.OtherToken(previousTokenOut)

			used.Set(uint(i))
			stack = append(stack, p)

			if next.Equal(tokenOut) {
				route := poolmodel.Route{
					Pools:    append([]poolmodel.Pool(nil), stack...),
					TokenIn:  tokenIn,
					TokenOut: tokenOut,
				}
				routes = append(routes, route)
			}

			dfs(next)

			stack = stack[:len(stack)-1]
			used.Clear(uint(i))
		}
	}

	dfs(tokenIn)
	return routes
}
