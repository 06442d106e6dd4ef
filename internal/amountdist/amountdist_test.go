package amountdist

import (
	"math/big"
	"testing"

	"sorcore/internal/sorerr"
)

func TestDistributeExactness(t *testing.T) {
	amount := big.NewInt(1_000_000)
	percents, amounts, err := Distribute(amount, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(percents) != 20 || len(amounts) != 20 {
		t.Fatalf("expected 20 slices, got %d percents and %d amounts", len(percents), len(amounts))
	}

	for i, p := range percents {
		want := (i + 1) * 5
		if p != want {
			t.Fatalf("percents[%d] = %d, want %d", i, p, want)
		}
	}

	// Distribution exactness (spec §8 invariant 5): the final slice
	// always equals the full amount.
	if amounts[len(amounts)-1].Cmp(amount) != 0 {
		t.Fatalf("expected last amount to equal the full amount, got %s", amounts[len(amounts)-1])
	}

	// Each amount should equal amount*percent/100 exactly when it divides evenly.
	want := new(big.Int).Div(new(big.Int).Mul(amount, big.NewInt(50)), big.NewInt(100))
	if amounts[9].Cmp(want) != 0 {
		t.Fatalf("amounts[9] = %s, want %s", amounts[9], want)
	}
}

func TestDistributeRejectsNonDivisor(t *testing.T) {
	_, _, err := Distribute(big.NewInt(100), 7)
	if err == nil {
		t.Fatalf("expected an error when distributionPercent does not divide 100")
	}
	if !sorerr.Is(err, sorerr.ConfigInvalid) {
		t.Fatalf("expected ConfigInvalid, got %v", err)
	}
}

func TestDistributeSinglePercent(t *testing.T) {
	amount := big.NewInt(42)
	percents, amounts, err := Distribute(amount, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(percents) != 1 || percents[0] != 100 {
		t.Fatalf("expected a single 100%% slice, got %v", percents)
	}
	if amounts[0].Cmp(amount) != 0 {
		t.Fatalf("expected the single amount to equal the full amount")
	}
}
