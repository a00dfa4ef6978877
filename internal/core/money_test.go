package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"12.34", "12.34"},
		{"12,34", "12.34"},
		{" 2.50 ", "2.5"},
		{"100", "100"},
		{"-5", "-5"},
		{"", "0"},
		{"abc", "0"},
		{"1.2.3", "0"},
		{"$10", "0"},
	}
	for _, tc := range cases {
		if got := ParseAmount(tc.in); !got.Equal(dec(tc.want)) {
			t.Errorf("ParseAmount(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestCurrencySymbol(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"USD", "$"},
		{"usd", "$"},
		{"EUR", "€"},
		{"INR", "₹"},
		{"XYZ", "XYZ"}, // unknown codes fall back to the code
	}
	for _, tc := range cases {
		if got := CurrencySymbol(tc.code); got != tc.want {
			t.Errorf("CurrencySymbol(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(dec("1180"), "USD"); got != "$1180.00" {
		t.Errorf("FormatAmount = %q, want $1180.00", got)
	}
}
