package quoter

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"sorcore/internal/multicall"
)

func TestDecodeQuoteFailedCall(t *testing.T) {
	got := decodeQuote(mustABI(t), "quoteExactInput", big.NewInt(100), multicall.Result{Success: false})
	if !got.Failed() {
		t.Fatalf("expected a failed call to produce a failed quote")
	}
}

func TestDecodeQuoteEmptyReturnData(t *testing.T) {
	got := decodeQuote(mustABI(t), "quoteExactInput", big.NewInt(100), multicall.Result{Success: true, ReturnData: []byte{0x00}})
	if !got.Failed() {
		t.Fatalf("expected empty return data to produce a failed quote")
	}
}

func TestDecodeQuoteSuccess(t *testing.T) {
	abiDef := mustABI(t)

	packed, err := abiDef.Methods["quoteExactInput"].Outputs.Pack(
		big.NewInt(950),
		[]*big.Int{big.NewInt(1 << 62)},
		[]uint32{3},
		big.NewInt(150_000),
	)
	if err != nil {
		t.Fatalf("pack outputs: %v", err)
	}

	got := decodeQuote(abiDef, "quoteExactInput", big.NewInt(1000), multicall.Result{Success: true, ReturnData: packed})
	if got.Failed() {
		t.Fatalf("expected a successful decode")
	}
	if got.Quote.Cmp(big.NewInt(950)) != 0 {
		t.Fatalf("Quote = %s, want 950", got.Quote)
	}
	if len(got.SqrtPriceX96AfterList) != 1 || len(got.InitializedTicksCrossedList) != 1 {
		t.Fatalf("expected one entry per list")
	}
	if got.InitializedTicksCrossedList[0] != 3 {
		t.Fatalf("InitializedTicksCrossedList[0] = %d, want 3", got.InitializedTicksCrossedList[0])
	}
	if got.GasEstimate.Cmp(big.NewInt(150_000)) != 0 {
		t.Fatalf("GasEstimate = %s, want 150000", got.GasEstimate)
	}
}

func mustABI(t *testing.T) abi.ABI {
	t.Helper()
	abiDef, err := QuoterABI()
	if err != nil {
		t.Fatalf("QuoterABI: %v", err)
	}
	return abiDef
}
