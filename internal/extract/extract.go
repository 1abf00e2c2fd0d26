// Package extract pulls bank balances out of Korean SMS and notification text.
package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/banktotal-dev/banktotal/internal/model"
)

// balanceLabel must appear in a text before any pattern is tried.
const balanceLabel = "잔액"

// gap is optional whitespace between a label and its figure. RE2's \s is
// ASCII only; bank texts also use NBSP, the ideographic space and \v.
const gap = `[\s\v\p{Z}]*`

var (
	smsBalancePattern = regexp.MustCompile(`잔액` + gap + `([\d,]+)원?`)

	accountPattern     = regexp.MustCompile(`(\d{3,4}-?\*+\d{1,4}|\d+\*+\d+)`)
	fieldAmountPattern = regexp.MustCompile(`금액` + gap + `([\d,]+)원`)
	depositPattern     = regexp.MustCompile(`입금` + gap + `([\d,]+)`)
	withdrawalPattern  = regexp.MustCompile(`출금` + gap + `([\d,]+)`)
)

// DefaultSenders maps bank SMS sender numbers (without dashes) to institutions.
func DefaultSenders() map[string]model.Institution {
	return map[string]model.Institution{
		"16449999": model.InstitutionKB,
		"15991111": model.InstitutionHana,
		"15666000": model.InstitutionShinhyup,
	}
}

// Balance extracts the balance from an SMS body. It reports false when the
// body has no balance label, the pattern does not match or the digits do
// not convert.
func Balance(body string) (int64, bool) {
	return find(smsBalancePattern, body, ",")
}

func find(pattern *regexp.Regexp, text, separators string) (int64, bool) {
	if !strings.Contains(text, balanceLabel) {
		return 0, false
	}
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return ParseAmount(m[1], separators)
}

// ParseAmount strips every rune in separators from digits and converts the
// rest to a non-negative integer. Values that are empty, fractional or do
// not fit in int64 are rejected.
func ParseAmount(digits, separators string) (int64, bool) {
	s := strings.Map(func(r rune) rune {
		if strings.ContainsRune(separators, r) {
			return -1
		}
		return r
	}, digits)
	if s == "" {
		return 0, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() || d.IsNegative() {
		return 0, false
	}
	n := d.BigInt()
	if !n.IsInt64() {
		return 0, false
	}
	return n.Int64(), true
}

// Details recovers the transaction kind, amount and masked account number
// from a bank message. Missing parts come back as zero values.
func Details(text string) (kind model.TxnKind, amount int64, account string) {
	var inline *regexp.Regexp
	switch {
	case strings.Contains(text, string(model.TxnDeposit)):
		kind, inline = model.TxnDeposit, depositPattern
	case strings.Contains(text, string(model.TxnWithdrawal)):
		kind, inline = model.TxnWithdrawal, withdrawalPattern
	}

	// "금액 N원" on its own line takes precedence over "입금 N".
	if m := fieldAmountPattern.FindStringSubmatch(text); m != nil {
		amount, _ = ParseAmount(m[1], ",")
	} else if inline != nil {
		if m := inline.FindStringSubmatch(text); m != nil {
			amount, _ = ParseAmount(m[1], ",")
		}
	}

	account = accountPattern.FindString(text)
	return kind, amount, account
}

func observe(inst model.Institution, balance int64, src model.Source, sender, text string) model.Observation {
	kind, amount, account := Details(text)
	return model.Observation{
		Institution: inst,
		Balance:     balance,
		Source:      src,
		Sender:      sender,
		Kind:        kind,
		Amount:      amount,
		Account:     account,
		Raw:         text,
	}
}
