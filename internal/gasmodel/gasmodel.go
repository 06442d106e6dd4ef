// Package gasmodel implements the Gas Model (C6): converting a
// route's estimated gas and a gas price into a token-denominated cost
// (spec §4.6).
package gasmodel

import (
	"math/big"

	"sorcore/internal/poolmodel"
	"sorcore/internal/token"
)

// q96 is 2^96, the sqrtPriceX96 fixed-point scale.
var q96 = new(big.Int).Lsh(big.NewInt(1), 96)

// Cost is one route's priced gas: the native-currency amount and its
// conversion into the quote token.
type Cost struct {
	GasCostInToken      *big.Int
	GasCostInQuoteToken *big.Int
}

// Model prices gas in the quote token using the bridge pools the Pool
// Selector (C3) identified between the wrapped-native token and the
// quote token.
type Model struct {
	gasPriceWei   *big.Int
	quoteToken    token.Token
	wrappedNative token.Token
	bridgePools   []poolmodel.Pool
}

// Build constructs a Model. bridgePools is C3's slice 2 output.
func Build(gasPriceWei *big.Int, wrappedNative, quoteToken token.Token, bridgePools []poolmodel.Pool) *Model {
	return &Model{
		gasPriceWei:   gasPriceWei,
		quoteToken:    quoteToken,
		wrappedNative: wrappedNative,
		bridgePools:   bridgePools,
	}
}

// EstimateGasCost prices route's gas into the quote token. If no
// bridge pool prices the native currency against the quote token, the
// cost is zero but the gas estimate is still recorded — a deliberate
// degradation, not a failure (spec §4.6).
func (m *Model) EstimateGasCost(route poolmodel.Route, quoterGasEstimate *big.Int) Cost {
	gasCostInToken := new(big.Int).Mul(m.gasPriceWei, quoterGasEstimate)

	if m.quoteToken.Equal(m.wrappedNative) {
		return Cost{GasCostInToken: gasCostInToken, GasCostInQuoteToken: new(big.Int).Set(gasCostInToken)}
	}

	bridge := m.findBridgePool()
	if bridge == nil {
		return Cost{GasCostInToken: gasCostInToken, GasCostInQuoteToken: big.NewInt(0)}
	}

	quoteCost := priceThroughBridge(*bridge, m.wrappedNative, gasCostInToken)
	return Cost{GasCostInToken: gasCostInToken, GasCostInQuoteToken: quoteCost}
}

func (m *Model) findBridgePool() *poolmodel.Pool {
	for _, p := range m.bridgePools {
		if (p.Token0.Equal(m.wrappedNative) && p.Token1.Equal(m.quoteToken)) ||
			(p.Token1.Equal(m.wrappedNative) && p.Token0.Equal(m.quoteToken)) {
			pp := p
			return &pp
		}
	}
	return nil
}

// priceThroughBridge converts an amount of nativeToken into the
// bridge pool's other token using the pool's current sqrtPriceX96, a
// first-order spot-price approximation (no slippage applied, since
// this is a gas cost estimate rather than a swap simulation).
func priceThroughBridge(pool poolmodel.Pool, nativeToken token.Token, amountNative *big.Int) *big.Int {
	sqrtPriceX96 := new(big.Int).SetBytes(pool.SqrtPriceX96.Bytes())
	priceX192 := new(big.Int).Mul(sqrtPriceX96, sqrtPriceX96)

	// price = (sqrtPriceX96^2) / 2^192 expresses token1 per token0.
	if pool.Token0.Equal(nativeToken) {
		num := new(big.Int).Mul(amountNative, priceX192)
		denom := new(big.Int).Mul(q96, q96)
		return new(big.Int).Quo(num, denom)
	}

	num := new(big.Int).Mul(amountNative, new(big.Int).Mul(q96, q96))
	if priceX192.Sign() == 0 {
		return big.NewInt(0)
	}
	return new(big.Int).Quo(num, priceX192)
}
