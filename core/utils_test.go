package core

import "testing"

func TestCleanString(t *testing.T) {
	if got := CleanString("  Asha Verma "); got != "Asha Verma" {
		t.Errorf("CleanString = %q", got)
	}
	if got := CleanString(" Asha@Example.COM ", true); got != "asha@example.com" {
		t.Errorf("CleanString(lower) = %q", got)
	}
}

func TestFormatINR(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{99999, "99,999"},
		{100000, "1,00,000"},
		{1234567, "12,34,567"},
		{123456789, "12,34,56,789"},
		{-45000, "-45,000"},
	}
	for _, tt := range tests {
		if got := FormatINR(tt.amount); got != tt.want {
			t.Errorf("FormatINR(%d) = %q; want %q", tt.amount, got, tt.want)
		}
	}
}
