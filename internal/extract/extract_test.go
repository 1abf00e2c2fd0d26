package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBalance(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   int64
		wantOK bool
	}{
		{"separators and suffix", "[KB]10/16 출금 5,000 잔액 1,234,567원", 1234567, true},
		{"no space", "잔액12,345원", 12345, true},
		{"no suffix", "입출금안내 잔액 900", 900, true},
		{"newline before digits", "잔액\n42원", 42, true},
		{"no-break space", "잔액\u00a012,345원", 12345, true},
		{"ideographic space", "잔액\u300012,345원", 12345, true},
		{"vertical tab", "잔액\v12,345원", 12345, true},
		{"label without digits", "잔액 확인 불가", 0, false},
		{"separator only", "잔액 ,원", 0, false},
		{"no label", "입금 10,000원", 0, false},
		{"overflow", "잔액 99999999999999999999원", 0, false},
		{"empty", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Balance(tt.body)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		digits     string
		separators string
		want       int64
		wantOK     bool
	}{
		{"1,234,567", ",", 1234567, true},
		{"1.234.567", ".,", 1234567, true},
		{"1.234,567", ".,", 1234567, true},
		{"007", ",", 7, true},
		{"1.5", ",", 0, false},
		{",,,", ",", 0, false},
		{"", ",", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseAmount(tt.digits, tt.separators)
		assert.Equal(t, tt.wantOK, ok, "ParseAmount(%q, %q)", tt.digits, tt.separators)
		assert.Equal(t, tt.want, got, "ParseAmount(%q, %q)", tt.digits, tt.separators)
	}
}

func TestDetails(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantKind    string
		wantAmount  int64
		wantAccount string
	}{
		{
			name:        "kb withdrawal",
			text:        "[KB]10/16 14:05\n123***4567\n출금 5,000\n잔액 1,000원",
			wantKind:    "출금",
			wantAmount:  5000,
			wantAccount: "123***4567",
		},
		{
			name:        "shinhyup field amount",
			text:        "입출금안내 1234**5678\n입금\n금액 30,000원\n잔액 130,000원",
			wantKind:    "입금",
			wantAmount:  30000,
			wantAccount: "1234**5678",
		},
		{
			name:     "no transaction words",
			text:     "잔액 130,000원",
			wantKind: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, amount, account := Details(tt.text)
			assert.Equal(t, tt.wantKind, string(kind))
			assert.Equal(t, tt.wantAmount, amount)
			assert.Equal(t, tt.wantAccount, account)
		})
	}
}
