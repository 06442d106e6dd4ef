package multicall

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func bigFromUint64(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}

func TestEncodeDecodeMulticallRoundTrip(t *testing.T) {
	abiDef, err := AggregatorABI()
	if err != nil {
		t.Fatalf("AggregatorABI: %v", err)
	}

	calls := []Call{
		{Target: common.HexToAddress("0x01"), GasLimit: 100_000, CallData: []byte{0xaa, 0xbb}},
		{Target: common.HexToAddress("0x02"), GasLimit: 200_000, CallData: []byte{0xcc}},
	}

	encoded, err := encodeMulticall(abiDef, calls)
	if err != nil {
		t.Fatalf("encodeMulticall: %v", err)
	}
	if len(encoded) == 0 {
		t.Fatalf("expected non-empty encoded calldata")
	}

	// Build a synthetic aggregator response by packing outputs directly,
	// exercising decodeMulticall against a known shape.
	packed, err := abiDef.Pack("multicall", []multicallCallTuple{
		{Target: calls[0].Target, GasLimit: bigFromUint64(calls[0].GasLimit), CallData: calls[0].CallData},
	})
	if err != nil {
		t.Fatalf("pack calls: %v", err)
	}
	if len(packed) == 0 {
		t.Fatalf("expected non-empty packed calldata")
	}

	outputs, err := abiDef.Methods["multicall"].Outputs.Pack(bigFromUint64(7), []multicallResultTuple{
		{Success: true, GasUsed: bigFromUint64(21_000), ReturnData: []byte{0x01}},
		{Success: false, GasUsed: bigFromUint64(0), ReturnData: nil},
	})
	if err != nil {
		t.Fatalf("pack outputs: %v", err)
	}

	blockNumber, results, err := decodeMulticall(abiDef, outputs)
	if err != nil {
		t.Fatalf("decodeMulticall: %v", err)
	}
	if blockNumber != 7 {
		t.Fatalf("blockNumber = %d, want 7", blockNumber)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Success || results[0].GasUsed != 21_000 || !bytes.Equal(results[0].ReturnData, []byte{0x01}) {
		t.Fatalf("unexpected first result: %+v", results[0])
	}
	if results[1].Success {
		t.Fatalf("expected second result to be unsuccessful")
	}
}
