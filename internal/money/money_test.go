package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRound2HalfUp(t *testing.T) {
	cases := map[string]string{
		"10.005":  "10.01",
		"10.004":  "10.00",
		"-10.005": "-10.01",
		"0.125":   "0.13",
	}
	for in, want := range cases {
		got := Round2(decimal.RequireFromString(in))
		if got.String() != decimal.RequireFromString(want).String() {
			t.Fatalf("Round2(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestClampNonNegative(t *testing.T) {
	if !ClampNonNegative(decimal.NewFromInt(-5)).IsZero() {
		t.Fatal("expected negative value clamped to zero")
	}
	v := decimal.NewFromFloat(3.5)
	if !ClampNonNegative(v).Equal(v) {
		t.Fatal("expected positive value unchanged")
	}
}

func TestPercent(t *testing.T) {
	got := Percent(decimal.NewFromInt(200), decimal.NewFromInt(10))
	if !got.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected 20, got %s", got)
	}
}

func TestRateZeroWhole(t *testing.T) {
	if !Rate(decimal.NewFromInt(5), decimal.Zero).IsZero() {
		t.Fatal("expected zero rate for zero whole")
	}
}

func TestFromCents(t *testing.T) {
	if got := FromCents(12345); got.String() != "123.45" {
		t.Fatalf("expected 123.45, got %s", got)
	}
}
