package token

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"sorcore/internal/chain"
)

// Cache caches hydrated token metadata by address, safe for concurrent use.
type Cache struct {
	mu   sync.RWMutex
	data map[common.Address]Token
}

// NewCache builds an empty token metadata cache.
func NewCache() *Cache {
	return &Cache{data: make(map[common.Address]Token)}
}

func (c *Cache) Get(address common.Address) (Token, bool) {
	c.mu.RLock()
	tok, ok := c.data[address]
	c.mu.RUnlock()
	return tok, ok
}

func (c *Cache) Set(address common.Address, tok Token) {
	c.mu.Lock()
	c.data[address] = tok
	c.mu.Unlock()
}

// FetchMeta loads decimals and symbol for an ERC20 token via eth_call,
// trying the string ABI first and falling back to bytes32 for the
// symbol. The token name is not fetched.
func FetchMeta(ctx context.Context, chainClient *chain.Client, chainID uint64, addr common.Address, logger *zap.Logger) (Token, error) {
	tok := Token{ChainID: chainID, Address: addr}
	if chainClient == nil {
		return tok, fmt.Errorf("chain client is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	stringABI, err := erc20ABIStringInstance()
	if err != nil {
		return tok, fmt.Errorf("parse erc20 string abi: %w", err)
	}
	bytes32ABI, err := erc20ABIBytes32Instance()
	if err != nil {
		return tok, fmt.Errorf("parse erc20 bytes32 abi: %w", err)
	}

	call := func(method string, parsed abi.ABI) ([]interface{}, error) {
		data, err := parsed.Pack(method)
		if err != nil {
			return nil, fmt.Errorf("pack %s: %w", method, err)
		}
		msg := ethereum.CallMsg{To: &addr, Data: data}
		resp, err := chainClient.CallContract(ctx, msg, nil)
		if err != nil {
			return nil, fmt.Errorf("call %s: %w", method, err)
		}
		values, err := parsed.Unpack(method, resp)
		if err != nil {
			return nil, fmt.Errorf("unpack %s: %w", method, err)
		}
		return values, nil
	}

	values, err := call("decimals", stringABI)
	if err != nil {
		return tok, err
	}
	decimals, err := asUint8(values[0])
	if err != nil {
		return tok, err
	}
	tok.Decimals = decimals

	if values, err := call("symbol", stringABI); err == nil {
		if symbol, ok := values[0].(string); ok {
			tok.Symbol = symbol
		}
	} else if values, err := call("symbol", bytes32ABI); err == nil {
		if symbol, ok := bytes32ToString(values[0]); ok {
			tok.Symbol = symbol
		}
	} else {
		logger.Debug("symbol call failed", zap.String("token", addr.Hex()), zap.Error(err))
	}

	return tok, nil
}

func asUint8(value interface{}) (uint8, error) {
	switch v := value.(type) {
	case uint8:
		return v, nil
	case uint16:
		return uint8(v), nil
	case uint32:
		return uint8(v), nil
	case uint64:
		return uint8(v), nil
	case *big.Int:
		return uint8(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unsupported uint8 type %T", value)
	}
}
