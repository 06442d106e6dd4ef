package gasmodel

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"sorcore/internal/poolmodel"
	"sorcore/internal/token"
)

func mkToken(addr string) token.Token {
	return token.Token{ChainID: 1, Address: common.HexToAddress(addr)}
}

func TestEstimateGasCostQuoteEqualsNative(t *testing.T) {
	native := mkToken("0x01")
	m := Build(big.NewInt(10), native, native, nil)

	cost := m.EstimateGasCost(poolmodel.Route{}, big.NewInt(21_000))
	want := new(big.Int).Mul(big.NewInt(10), big.NewInt(21_000))
	if cost.GasCostInToken.Cmp(want) != 0 {
		t.Fatalf("GasCostInToken = %s, want %s", cost.GasCostInToken, want)
	}
	if cost.GasCostInQuoteToken.Cmp(want) != 0 {
		t.Fatalf("expected quote token cost to equal native cost when quote token is the wrapped native")
	}
}

func TestEstimateGasCostNoBridgeDegradesToZero(t *testing.T) {
	native := mkToken("0x01")
	quote := mkToken("0x02")
	m := Build(big.NewInt(10), native, quote, nil)

	cost := m.EstimateGasCost(poolmodel.Route{}, big.NewInt(21_000))
	if cost.GasCostInQuoteToken.Sign() != 0 {
		t.Fatalf("expected zero quote-token cost with no bridge pool, got %s", cost.GasCostInQuoteToken)
	}
	if cost.GasCostInToken.Sign() == 0 {
		t.Fatalf("expected the native-token gas estimate to still be recorded")
	}
}

func TestEstimateGasCostViaBridgePool(t *testing.T) {
	native := mkToken("0x01")
	quote := mkToken("0x02")

	// sqrtPriceX96 = 2^96 means a 1:1 spot price between token0 and token1.
	sqrtPrice := new(big.Int).Lsh(big.NewInt(1), 96)
	sqrtPriceU256, overflow := uint256.FromBig(sqrtPrice)
	if overflow {
		t.Fatalf("unexpected overflow constructing test fixture")
	}
	bridge := poolmodel.NewPool(native, quote, 500, uint256.NewInt(1), sqrtPriceU256, 0)

	m := Build(big.NewInt(10), native, quote, []poolmodel.Pool{bridge})
	cost := m.EstimateGasCost(poolmodel.Route{}, big.NewInt(21_000))

	if cost.GasCostInQuoteToken.Sign() == 0 {
		t.Fatalf("expected a nonzero quote-token cost when a bridge pool is available")
	}
	if cost.GasCostInQuoteToken.Cmp(cost.GasCostInToken) != 0 {
		t.Fatalf("expected 1:1 spot price to preserve the native-token amount, got %s vs %s", cost.GasCostInQuoteToken, cost.GasCostInToken)
	}
}
