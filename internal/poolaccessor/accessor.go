package poolaccessor

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"sorcore/internal/chain"
	"sorcore/internal/multicall"
	"sorcore/internal/poolmodel"
	"sorcore/internal/sorerr"
	"sorcore/internal/token"
)

const (
	callGasLimit = 200_000

	methodLiquidity = "liquidity"
	methodSlot0     = "slot0"
)

// Key identifies a pool by its constituent tokens and fee tier, in
// either order; canonicalisation happens inside GetPools.
type Key struct {
	TokenA token.Token
	TokenB token.Token
	Fee    uint32
}

// Accessor is the read-through view over a batch of resolved pools
// (spec §4.2). Pools that failed to resolve are simply absent.
type Accessor struct {
	byAddress map[common.Address]poolmodel.Pool
	byKey     map[string]common.Address
}

func keyOf(token0, token1 token.Token, fee uint32) string {
	return fmt.Sprintf("%s-%s-%d", token0.Address.Hex(), token1.Address.Hex(), fee)
}

// GetPool returns the pool for the given (tokenA, tokenB, fee), in
// either token order.
func (a *Accessor) GetPool(tokenA, tokenB token.Token, fee uint32) (poolmodel.Pool, bool) {
	t0, t1 := poolmodel.SortTokens(tokenA, tokenB)
	addr, ok := a.byKey[keyOf(t0, t1, fee)]
	if !ok {
		return poolmodel.Pool{}, false
	}
	p, ok := a.byAddress[addr]
	return p, ok
}

// GetPoolByAddress returns the pool at addr, if resolved.
func (a *Accessor) GetPoolByAddress(addr common.Address) (poolmodel.Pool, bool) {
	p, ok := a.byAddress[addr]
	return p, ok
}

// GetAllPools returns every resolved pool in unspecified order.
func (a *Accessor) GetAllPools() []poolmodel.Pool {
	out := make([]poolmodel.Pool, 0, len(a.byAddress))
	for _, p := range a.byAddress {
		out = append(out, p)
	}
	return out
}

// GetPools resolves every (tokenA, tokenB, fee) key into live pool
// state via one batched multicall. Keys are canonicalised and
// deduplicated before dispatch; pools that fail the call (or decode)
// are omitted rather than failing the whole request (spec §4.2).
func GetPools(ctx context.Context, client *chain.Client, keys []Key, chunkSize int) (*Accessor, error) {
	abiDef, err := V3PoolABI()
	if err != nil {
		return nil, sorerr.New("poolaccessor.GetPools", sorerr.ConfigInvalid, err)
	}

	type canonical struct {
		addr   common.Address
		token0 token.Token
		token1 token.Token
		fee    uint32
	}

	seen := make(map[common.Address]canonical)
	for _, k := range keys {
		t0, t1 := poolmodel.SortTokens(k.TokenA, k.TokenB)
		addr := poolmodel.ComputePoolAddress(t0, t1, k.Fee)
		seen[addr] = canonical{addr: addr, token0: t0, token1: t1, fee: k.Fee}
	}

	ordered := make([]canonical, 0, len(seen))
	for _, c := range seen {
		ordered = append(ordered, c)
	}

	liquidityData, err := abiDef.Pack(methodLiquidity)
	if err != nil {
		return nil, sorerr.New("poolaccessor.GetPools", sorerr.ConfigInvalid, err)
	}
	slot0Data, err := abiDef.Pack(methodSlot0)
	if err != nil {
		return nil, sorerr.New("poolaccessor.GetPools", sorerr.ConfigInvalid, err)
	}

	calls := make([]multicall.Call, 0, len(ordered)*2)
	for _, c := range ordered {
		calls = append(calls,
			multicall.Call{Target: c.addr, GasLimit: callGasLimit, CallData: liquidityData},
			multicall.Call{Target: c.addr, GasLimit: callGasLimit, CallData: slot0Data},
		)
	}

	batch, err := multicall.Dispatch(ctx, client, calls, multicall.Options{ChunkSize: chunkSize})
	if err != nil {
		return nil, sorerr.New("poolaccessor.GetPools", sorerr.TransportFailure, err)
	}

	accessor := &Accessor{
		byAddress: make(map[common.Address]poolmodel.Pool, len(ordered)),
		byKey:     make(map[string]common.Address, len(ordered)),
	}

	for i, c := range ordered {
		liquidityRes := batch.Results[i*2]
		slot0Res := batch.Results[i*2+1]
		if !liquidityRes.Success || len(liquidityRes.ReturnData) == 0 ||
			!slot0Res.Success || len(slot0Res.ReturnData) == 0 {
			continue
		}

		liquidity, err := decodeLiquidity(abiDef, liquidityRes.ReturnData)
		if err != nil {
			continue
		}
		sqrtPriceX96, tick, err := decodeSlot0(abiDef, slot0Res.ReturnData)
		if err != nil {
			continue
		}

		pool := poolmodel.Pool{
			Address:      c.addr,
			Token0:       c.token0,
			Token1:       c.token1,
			Fee:          c.fee,
			Liquidity:    liquidity,
			SqrtPriceX96: sqrtPriceX96,
			Tick:         tick,
		}
		accessor.byAddress[c.addr] = pool
		accessor.byKey[keyOf(c.token0, c.token1, c.fee)] = c.addr
	}

	return accessor, nil
}

func decodeLiquidity(abiDef abi.ABI, data []byte) (*uint256.Int, error) {
	out, err := abiDef.Unpack(methodLiquidity, data)
	if err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("unexpected liquidity return arity %d", len(out))
	}
	raw, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected liquidity type %T", out[0])
	}
	v, overflow := uint256.FromBig(raw)
	if overflow {
		return nil, fmt.Errorf("liquidity overflows uint256")
	}
	return v, nil
}

func decodeSlot0(abiDef abi.ABI, data []byte) (*uint256.Int, int32, error) {
	out, err := abiDef.Unpack(methodSlot0, data)
	if err != nil {
		return nil, 0, err
	}
	if len(out) < 2 {
		return nil, 0, fmt.Errorf("unexpected slot0 return arity %d", len(out))
	}
	sqrtPriceRaw, ok := out[0].(*big.Int)
	if !ok {
		return nil, 0, fmt.Errorf("unexpected sqrtPriceX96 type %T", out[0])
	}
	tickRaw, ok := out[1].(*big.Int)
	if !ok {
		return nil, 0, fmt.Errorf("unexpected tick type %T", out[1])
	}
	sqrtPriceX96, overflow := uint256.FromBig(sqrtPriceRaw)
	if overflow {
		return nil, 0, fmt.Errorf("sqrtPriceX96 overflows uint256")
	}
	return sqrtPriceX96, int32(tickRaw.Int64()), nil
}
