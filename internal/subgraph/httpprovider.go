package subgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const poolsQuery = `{"query":"{ pools(first: 1000, orderBy: totalValueLockedUSD, orderDirection: desc) { id feeTier totalValueLockedUSD token0 { id symbol } token1 { id symbol } } }"}`

// HTTPProvider is a thin GraphQL client against a Uniswap-V3-style
// subgraph endpoint. No GraphQL client library appears anywhere in
// the example corpus, so this uses net/http and encoding/json
// directly rather than importing one (see DESIGN.md).
type HTTPProvider struct {
	endpoint string
	client   *http.Client
}

// NewHTTPProvider builds a subgraph Provider bound to endpoint.
func NewHTTPProvider(endpoint string) *HTTPProvider {
	return &HTTPProvider{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type poolsResponse struct {
	Data struct {
		Pools []struct {
			ID                  string `json:"id"`
			FeeTier             string `json:"feeTier"`
			TotalValueLockedUSD string `json:"totalValueLockedUSD"`
			Token0              struct {
				ID     string `json:"id"`
				Symbol string `json:"symbol"`
			} `json:"token0"`
			Token1 struct {
				ID     string `json:"id"`
				Symbol string `json:"symbol"`
			} `json:"token1"`
		} `json:"pools"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// GetPools fetches the full pool universe from the subgraph endpoint.
func (p *HTTPProvider) GetPools(ctx context.Context) ([]Pool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewBufferString(poolsQuery))
	if err != nil {
		return nil, fmt.Errorf("build subgraph request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("subgraph request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("subgraph returned status %d", resp.StatusCode)
	}

	var parsed poolsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode subgraph response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("subgraph error: %s", parsed.Errors[0].Message)
	}

	out := make([]Pool, 0, len(parsed.Data.Pools))
	for _, raw := range parsed.Data.Pools {
		out = append(out, Pool{
			ID:                  raw.ID,
			Token0ID:            raw.Token0.ID,
			Token0Symbol:        raw.Token0.Symbol,
			Token1ID:            raw.Token1.ID,
			Token1Symbol:        raw.Token1.Symbol,
			FeeTier:             parseFeeTier(raw.FeeTier),
			TotalValueLockedUSD: raw.TotalValueLockedUSD,
		})
	}
	return out, nil
}

func parseFeeTier(s string) uint32 {
	var v uint32
	_, _ = fmt.Sscanf(s, "%d", &v)
	return v
}
