// Package token models the immutable Token value type and the
// long-lived, read-only token registry (spec §3).
package token

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Token is an immutable value identified by chain id and address.
// Two tokens are equal iff ChainID and Address match (case-insensitive,
// which common.Address already guarantees via its fixed-width byte
// representation).
type Token struct {
	ChainID  uint64
	Address  common.Address
	Symbol   string
	Decimals uint8
}

// Equal reports whether two tokens share the same chain id and address.
func (t Token) Equal(other Token) bool {
	return t.ChainID == other.ChainID && t.Address == other.Address
}

// IsNative reports whether t is the chain's native currency sentinel
// (the zero address), used before wrapping to an internal Token.
func (t Token) IsNative() bool {
	return t.Address == (common.Address{})
}

func (t Token) String() string {
	if t.Symbol != "" {
		return t.Symbol
	}
	return t.Address.Hex()
}

// key is the registry lookup key: lowercase-normalized chain+address.
func key(chainID uint64, addr common.Address) string {
	return fmt.Sprintf("%d:%s", chainID, strings.ToLower(addr.Hex()))
}

// Registry is a long-lived, read-only collection of known tokens,
// populated once at startup (token-list ingestion is an external
// collaborator, out of scope for this core).
type Registry struct {
	byAddress map[string]Token
	bySymbol  map[string]Token
}

// NewRegistry builds a Registry from a fixed set of tokens.
func NewRegistry(tokens []Token) *Registry {
	r := &Registry{
		byAddress: make(map[string]Token, len(tokens)),
		bySymbol:  make(map[string]Token, len(tokens)),
	}
	for _, tok := range tokens {
		r.byAddress[key(tok.ChainID, tok.Address)] = tok
		if tok.Symbol != "" {
			r.bySymbol[strings.ToUpper(tok.Symbol)] = tok
		}
	}
	return r
}

// ByAddress looks up a token by chain id and address.
func (r *Registry) ByAddress(chainID uint64, addr common.Address) (Token, bool) {
	if r == nil {
		return Token{}, false
	}
	tok, ok := r.byAddress[key(chainID, addr)]
	return tok, ok
}

// BySymbol looks up a token by symbol, case-insensitive.
func (r *Registry) BySymbol(chainID uint64, symbol string) (Token, bool) {
	if r == nil {
		return Token{}, false
	}
	tok, ok := r.bySymbol[strings.ToUpper(symbol)]
	if !ok || tok.ChainID != chainID {
		return Token{}, false
	}
	return tok, ok
}

// Contains reports whether the given address is a known token on chainID.
func (r *Registry) Contains(chainID uint64, addr common.Address) bool {
	_, ok := r.ByAddress(chainID, addr)
	return ok
}
