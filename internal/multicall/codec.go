package multicall

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// multicallCallTuple and multicallResultTuple mirror the aggregator
// ABI's tuple components so go-ethereum's abi package can pack/unpack
// them via reflection.
type multicallCallTuple struct {
	Target   common.Address
	GasLimit *big.Int
	CallData []byte
}

type multicallResultTuple struct {
	Success    bool
	GasUsed    *big.Int
	ReturnData []byte
}

func encodeMulticall(aggABI abi.ABI, calls []Call) ([]byte, error) {
	tuples := make([]multicallCallTuple, len(calls))
	for i, c := range calls {
		tuples[i] = multicallCallTuple{
			Target:   c.Target,
			GasLimit: new(big.Int).SetUint64(c.GasLimit),
			CallData: c.CallData,
		}
	}
	return aggABI.Pack("multicall", tuples)
}

func decodeMulticall(aggABI abi.ABI, data []byte) (uint64, []Result, error) {
	out, err := aggABI.Unpack("multicall", data)
	if err != nil {
		return 0, nil, fmt.Errorf("unpack multicall return: %w", err)
	}
	if len(out) != 2 {
		return 0, nil, fmt.Errorf("unexpected multicall return arity %d", len(out))
	}

	blockNumber, ok := out[0].(*big.Int)
	if !ok {
		return 0, nil, fmt.Errorf("unexpected blockNumber type %T", out[0])
	}

	// Unpack yields a reflect-built anonymous struct slice; copy it into
	// the named tuple type field by field.
	tuples, ok := abi.ConvertType(out[1], new([]multicallResultTuple)).(*[]multicallResultTuple)
	if !ok {
		return 0, nil, fmt.Errorf("unexpected returnData type %T", out[1])
	}

	results := make([]Result, len(*tuples))
	for i, t := range *tuples {
		var gasUsed uint64
		if t.GasUsed != nil {
			gasUsed = t.GasUsed.Uint64()
		}
		results[i] = Result{
			Success:    t.Success,
			GasUsed:    gasUsed,
			ReturnData: t.ReturnData,
		}
	}
	return blockNumber.Uint64(), results, nil
}
