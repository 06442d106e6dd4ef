// Package multicall implements the chunked, parallel multicall
// mechanism shared by the Batched RPC Quoter (C1) and the Pool
// Accessor (C2): spec §4.1/§4.2/§5.
package multicall

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sourcegraph/conc/pool"

	"sorcore/internal/chain"
)

// Call is one sub-call to be aggregated into a multicall.
type Call struct {
	Target   common.Address
	GasLimit uint64
	CallData []byte
}

// Result is one sub-call's outcome.
type Result struct {
	Success    bool
	GasUsed    uint64
	ReturnData []byte
}

// Options configures a batched dispatch.
type Options struct {
	// ChunkSize is the number of calls packed into a single multicall
	// (spec's multicallChunkSize, default 50).
	ChunkSize int
	// BlockTag pins all batches to the same block when non-nil.
	BlockTag *big.Int
	// MaxConcurrentBatches bounds how many chunk calls are in flight
	// at once; 0 means unbounded.
	MaxConcurrentBatches int
}

// BatchResult is the outcome of dispatching every call in order.
type BatchResult struct {
	BlockNumber uint64
	Results     []Result
}

// Dispatch partitions calls into chunks of opts.ChunkSize, submits each
// chunk as one eth_call to the aggregator contract, and awaits all
// chunks concurrently. Results preserve the caller's call order
// regardless of which chunk completes first; BlockNumber is that of
// the first chunk to complete (spec §5).
func Dispatch(ctx context.Context, client *chain.Client, calls []Call, opts Options) (BatchResult, error) {
	if len(calls) == 0 {
		return BatchResult{}, nil
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 50
	}

	aggABI, err := AggregatorABI()
	if err != nil {
		return BatchResult{}, fmt.Errorf("parse aggregator abi: %w", err)
	}

	results := make([]Result, len(calls))

	var (
		blockOnce  sync.Once
		blockNum   uint64
		firstErrMu sync.Mutex
		firstErr   error
	)

	p := pool.New().WithErrors()
	if opts.MaxConcurrentBatches > 0 {
		p = p.WithMaxGoroutines(opts.MaxConcurrentBatches)
	}

	for start := 0; start < len(calls); start += chunkSize {
		end := start + chunkSize
		if end > len(calls) {
			end = len(calls)
		}
		start, end := start, end

		p.Go(func() error {
			chunk := calls[start:end]

			callData, err := encodeMulticall(aggABI, chunk)
			if err != nil {
				recordErr(&firstErrMu, &firstErr, fmt.Errorf("encode multicall: %w", err))
				return err
			}

			msg := ethereum.CallMsg{To: &MulticallAddress, Data: callData}
			resp, err := client.CallContract(ctx, msg, opts.BlockTag)
			if err != nil {
				recordErr(&firstErrMu, &firstErr, fmt.Errorf("multicall eth_call: %w", err))
				return err
			}

			blockNumber, chunkResults, err := decodeMulticall(aggABI, resp)
			if err != nil {
				recordErr(&firstErrMu, &firstErr, fmt.Errorf("decode multicall: %w", err))
				return err
			}
			if len(chunkResults) != len(chunk) {
				decodeErr := fmt.Errorf("multicall returned %d results for %d calls", len(chunkResults), len(chunk))
				recordErr(&firstErrMu, &firstErr, decodeErr)
				return decodeErr
			}

			blockOnce.Do(func() { blockNum = blockNumber })

			copy(results[start:end], chunkResults)
			return nil
		})
	}

	_ = p.Wait()

	if firstErr != nil {
		return BatchResult{}, firstErr
	}

	return BatchResult{BlockNumber: blockNum, Results: results}, nil
}

func recordErr(mu *sync.Mutex, slot *error, err error) {
	mu.Lock()
	if *slot == nil {
		*slot = err
	}
	mu.Unlock()
}
