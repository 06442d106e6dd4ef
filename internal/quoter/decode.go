package quoter

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

func toUint256List(v interface{}) ([]*uint256.Int, error) {
	raw, ok := v.([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected type %T", v)
	}
	out := make([]*uint256.Int, len(raw))
	for i, r := range raw {
		u, overflow := uint256.FromBig(r)
		if overflow {
			return nil, fmt.Errorf("value at index %d overflows uint256", i)
		}
		out[i] = u
	}
	return out, nil
}

func toInt32List(v interface{}) ([]int32, error) {
	raw, ok := v.([]uint32)
	if !ok {
		return nil, fmt.Errorf("unexpected type %T", v)
	}
	out := make([]int32, len(raw))
	for i, r := range raw {
		out[i] = int32(r)
	}
	return out, nil
}
