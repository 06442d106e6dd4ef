package quoter

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"

	"sorcore/internal/poolmodel"
)

// encodePath builds the Uniswap-style path encoding for a route:
// token ‖ fee(3 bytes, big-endian) ‖ token ‖ fee ‖ … ‖ token. For
// EXACT_OUT the hop order is reversed, since the quoter walks an
// exact-output path from tokenOut back to tokenIn.
func encodePath(r poolmodel.Route, tradeType poolmodel.TradeType) []byte {
	hops := hopTokens(r)
	fees := hopFees(r)

	if tradeType == poolmodel.ExactOut {
		reverseTokens(hops)
		reverseFees(fees)
	}

	path := make([]byte, 0, len(hops)*20+len(fees)*3)
	for i, tok := range hops {
		path = append(path, tok.Bytes()...)
		if i < len(fees) {
			path = append(path, encodeFee(fees[i])...)
		}
	}
	return path
}

func hopTokens(r poolmodel.Route) []common.Address {
	out := make([]common.Address, 0, len(r.Pools)+1)
	cursor := r.TokenIn
	out = append(out, cursor.Address)
	for _, p := range r.Pools {
		next, _ := p.OtherToken(cursor)
		out = append(out, next.Address)
		cursor = next
	}
	return out
}

func hopFees(r poolmodel.Route) []uint32 {
	out := make([]uint32, len(r.Pools))
	for i, p := range r.Pools {
		out[i] = p.Fee
	}
	return out
}

func reverseTokens(s []common.Address) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseFees(s []uint32) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func encodeFee(fee uint32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], fee)
	return buf[1:] // uint24, last 3 bytes
}
