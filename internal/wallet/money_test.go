package wallet

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"500", 50_000, false},
		{"12500.50", 1_250_050, false},
		{"0.01", 1, false},
		{"0", 0, true},
		{"-5", 0, true},
		{"1.005", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("ParseAmount(%q): expected ErrInvalidAmount, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseAmount(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseAmount(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseBalance(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"0", 0, false},
		{"0.0", 0, false},
		{"0.00", 0, false},
		{"0.000", 0, false},
		{"12500.50", 1_250_050, false},
		{"-5", 0, true},
		{"1.005", 0, true},
		{"abc", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseBalance(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("ParseBalance(%q): expected ErrInvalidAmount, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseBalance(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseBalance(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(1_250_050); got != "12500.50" {
		t.Fatalf("expected 12500.50, got %q", got)
	}
	if got := FormatAmount(1_300_050); got != "13000.50" {
		t.Fatalf("expected 13000.50, got %q", got)
	}
	if got := FormatAmount(0); got != "0.00" {
		t.Fatalf("expected 0.00, got %q", got)
	}
}

// 12500.50 credited with 500 must land on exactly 13000.50: the arithmetic
// happens on integers, only the rendering is decimal.
func TestCreditArithmeticIsExact(t *testing.T) {
	start, err := ParseAmount("12500.50")
	if err != nil {
		t.Fatalf("parse start: %v", err)
	}
	credit, err := ParseAmount("500")
	if err != nil {
		t.Fatalf("parse credit: %v", err)
	}
	if got := FormatAmount(start + credit); got != "13000.50" {
		t.Fatalf("expected 13000.50, got %q", got)
	}
}
