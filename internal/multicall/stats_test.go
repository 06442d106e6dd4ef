package multicall

import "testing"

func TestPercentile99GasUsedIgnoresFailures(t *testing.T) {
	results := []Result{
		{Success: true, GasUsed: 100},
		{Success: false, GasUsed: 999_999},
		{Success: true, GasUsed: 200},
	}
	got := Percentile99GasUsed(results)
	if got != 200 {
		t.Fatalf("Percentile99GasUsed = %d, want 200 (max of successful calls)", got)
	}
}

func TestPercentile99GasUsedNoSuccesses(t *testing.T) {
	results := []Result{{Success: false, GasUsed: 100}}
	if got := Percentile99GasUsed(results); got != 0 {
		t.Fatalf("expected 0 with no successful calls, got %d", got)
	}
}

func TestPercentile99GasUsedSingleValue(t *testing.T) {
	results := []Result{{Success: true, GasUsed: 42}}
	if got := Percentile99GasUsed(results); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}
