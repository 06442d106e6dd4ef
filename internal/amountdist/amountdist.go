// Package amountdist implements the Amount Distributor (C5): splitting
// a trade amount into equal-percent slices using exact rational
// arithmetic (spec §4.5).
package amountdist

import (
	"fmt"
	"math/big"

	"sorcore/internal/sorerr"
)

// Distribute splits amount into K = 100/distributionPercent slices.
// percents[i] = (i+1)*distributionPercent and amounts[i] =
// amount*percents[i]/100, computed with big.Rat so no precision is
// lost; amounts[K-1] always equals amount exactly.
func Distribute(amount *big.Int, distributionPercent int) ([]int, []*big.Int, error) {
	if distributionPercent <= 0 || 100%distributionPercent != 0 {
		return nil, nil, sorerr.New("amountdist.Distribute", sorerr.ConfigInvalid,
			fmt.Errorf("distributionPercent %d does not divide 100", distributionPercent))
	}

	k := 100 / distributionPercent
	percents := make([]int, k)
	amounts := make([]*big.Int, k)

	amountRat := new(big.Rat).SetInt(amount)
	hundred := big.NewRat(100, 1)

	for i := 0; i < k; i++ {
		percent := (i + 1) * distributionPercent
		percents[i] = percent

		frac := new(big.Rat).Quo(new(big.Rat).Mul(amountRat, big.NewRat(int64(percent), 1)), hundred)
		amounts[i] = new(big.Int).Quo(frac.Num(), frac.Denom())
	}

	amounts[k-1] = new(big.Int).Set(amount)

	return percents, amounts, nil
}
