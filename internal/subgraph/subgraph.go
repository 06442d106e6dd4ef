// Package subgraph defines the boundary to the Subgraph Provider
// external collaborator (spec §6) and a default HTTP implementation
// against a Uniswap-V3-style subgraph endpoint.
package subgraph

import "context"

// Pool is the subgraph's pool record. ID is the pool's on-chain
// address, lowercase hex.
type Pool struct {
	ID                   string
	Token0ID             string
	Token0Symbol         string
	Token1ID             string
	Token1Symbol         string
	FeeTier              uint32
	TotalValueLockedUSD  string
}

// Provider fetches the full pool universe. Pools are returned in
// arbitrary order; sorting by TVL is the Pool Selector's job (C3).
type Provider interface {
	GetPools(ctx context.Context) ([]Pool, error)
}
