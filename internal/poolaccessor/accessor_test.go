package poolaccessor

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"sorcore/internal/poolmodel"
	"sorcore/internal/token"
)

func mkToken(addr, symbol string) token.Token {
	return token.Token{ChainID: 1, Address: common.HexToAddress(addr), Symbol: symbol}
}

func TestDecodeLiquidity(t *testing.T) {
	abiDef, err := V3PoolABI()
	if err != nil {
		t.Fatalf("V3PoolABI: %v", err)
	}

	packed, err := abiDef.Methods[methodLiquidity].Outputs.Pack(big.NewInt(123_456))
	if err != nil {
		t.Fatalf("pack liquidity: %v", err)
	}

	got, err := decodeLiquidity(abiDef, packed)
	if err != nil {
		t.Fatalf("decodeLiquidity: %v", err)
	}
	if got.ToBig().Cmp(big.NewInt(123_456)) != 0 {
		t.Fatalf("liquidity = %s, want 123456", got)
	}
}

func TestDecodeSlot0(t *testing.T) {
	abiDef, err := V3PoolABI()
	if err != nil {
		t.Fatalf("V3PoolABI: %v", err)
	}

	packed, err := abiDef.Methods[methodSlot0].Outputs.Pack(
		big.NewInt(1<<62),
		big.NewInt(-1000),
		uint16(0),
		uint16(1),
		uint16(1),
		uint8(0),
		true,
	)
	if err != nil {
		t.Fatalf("pack slot0: %v", err)
	}

	sqrtPriceX96, tick, err := decodeSlot0(abiDef, packed)
	if err != nil {
		t.Fatalf("decodeSlot0: %v", err)
	}
	if sqrtPriceX96.ToBig().Cmp(big.NewInt(1<<62)) != 0 {
		t.Fatalf("sqrtPriceX96 = %s, want %d", sqrtPriceX96, int64(1<<62))
	}
	if tick != -1000 {
		t.Fatalf("tick = %d, want -1000", tick)
	}
}

func TestKeyOfIsOrderSensitive(t *testing.T) {
	a := mkToken("0x01", "A")
	b := mkToken("0x02", "B")
	if keyOf(a, b, 500) == keyOf(b, a, 500) {
		t.Fatalf("keyOf should be order-sensitive; callers are expected to sort first")
	}
}

func TestGetPoolCanonicalisesTokenOrder(t *testing.T) {
	a, b := poolmodel.SortTokens(mkToken("0x01", "A"), mkToken("0x02", "B"))
	addr := poolmodel.ComputePoolAddress(a, b, 500)
	pool := poolmodel.Pool{
		Address:      addr,
		Token0:       a,
		Token1:       b,
		Fee:          500,
		Liquidity:    uint256.NewInt(1),
		SqrtPriceX96: uint256.NewInt(1),
	}

	accessor := &Accessor{
		byAddress: map[common.Address]poolmodel.Pool{addr: pool},
		byKey:     map[string]common.Address{keyOf(a, b, 500): addr},
	}

	// Look the pool up passing tokens in the reverse of their sorted
	// order; GetPool sorts before keying, so either call order resolves
	// to the same pool.
	got, ok := accessor.GetPool(b, a, 500)
	if !ok {
		t.Fatalf("expected GetPool to find the pool regardless of argument order")
	}
	if got.Address != addr {
		t.Fatalf("GetPool returned pool at %s, want %s", got.Address, addr)
	}
}
