package gex

import (
	"testing"
	"time"
)

func TestExpiryToken(t *testing.T) {
	tests := []struct {
		name       string
		instrument string
		want       string
	}{
		{"standard option", "BTC-28MAR25-50000-C", "28MAR25"},
		{"put option", "ETH-4APR25-3000-P", "4APR25"},
		{"two fields only", "BTC-28MAR25", "28MAR25"},
		{"no delimiter", "BTCPERPETUAL", "UNKNOWN"},
		{"empty", "", "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpiryToken(tt.instrument); got != tt.want {
				t.Errorf("ExpiryToken(%q) = %q, want %q", tt.instrument, got, tt.want)
			}
		})
	}
}

func TestParseExpiry(t *testing.T) {
	got := ParseExpiry("28MAR25")
	want := time.Date(2025, time.March, 28, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseExpiry(28MAR25) = %v, want %v", got, want)
	}

	// Single-digit day
	got = ParseExpiry("4APR25")
	want = time.Date(2025, time.April, 4, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseExpiry(4APR25) = %v, want %v", got, want)
	}
}

func TestParseExpiry_Unparseable(t *testing.T) {
	epoch := time.Unix(0, 0).UTC()

	for _, token := range []string{"UNKNOWN", "PERPETUAL", "28mar25", "MAR25", ""} {
		if got := ParseExpiry(token); !got.Equal(epoch) {
			t.Errorf("ParseExpiry(%q) = %v, want epoch", token, got)
		}
	}
}

func TestSortExpiries(t *testing.T) {
	tokens := []string{"26DEC25", "28MAR25", "4APR25"}
	SortExpiries(tokens)

	want := []string{"28MAR25", "4APR25", "26DEC25"}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("SortExpiries = %v, want %v", tokens, want)
		}
	}
}

func TestSortExpiries_UnparseableSortsFirst(t *testing.T) {
	tokens := []string{"28MAR25", "UNKNOWN", "3JAN25"}
	SortExpiries(tokens)

	if tokens[0] != "UNKNOWN" {
		t.Errorf("expected UNKNOWN first, got %v", tokens)
	}
	if tokens[1] != "3JAN25" || tokens[2] != "28MAR25" {
		t.Errorf("unexpected order: %v", tokens)
	}
}
