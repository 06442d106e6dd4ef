package config

import (
	"testing"

	"sorcore/internal/sorerr"
)

func TestValidateDefaults(t *testing.T) {
	cfg := Config{MaxSplits: 3, DistributionPercent: 5, MaxSwapsPerPath: 3}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestValidateRejectsMaxSplitsTooHigh(t *testing.T) {
	cfg := Config{MaxSplits: 4, DistributionPercent: 5, MaxSwapsPerPath: 3}
	err := cfg.Validate()
	if err == nil || !sorerr.Is(err, sorerr.ConfigInvalid) {
		t.Fatalf("expected ConfigInvalid for maxSplits=4, got %v", err)
	}
}

func TestValidateRejectsNonDivisorDistributionPercent(t *testing.T) {
	cfg := Config{MaxSplits: 3, DistributionPercent: 7, MaxSwapsPerPath: 3}
	err := cfg.Validate()
	if err == nil || !sorerr.Is(err, sorerr.ConfigInvalid) {
		t.Fatalf("expected ConfigInvalid for a distributionPercent that does not divide 100, got %v", err)
	}
}

func TestValidateRejectsZeroMaxSwapsPerPath(t *testing.T) {
	cfg := Config{MaxSplits: 3, DistributionPercent: 5, MaxSwapsPerPath: 0}
	err := cfg.Validate()
	if err == nil || !sorerr.Is(err, sorerr.ConfigInvalid) {
		t.Fatalf("expected ConfigInvalid for maxSwapsPerPath=0, got %v", err)
	}
}
