// Package present formats the balance summary for the notification and
// the terminal.
package present

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/banktotal-dev/banktotal/internal/model"
)

const (
	placeholder     = "---"
	separator       = " | "
	timestampLayout = "01/02 15:04"
)

var printer = message.NewPrinter(language.Korean)

// FormatAmount renders n with thousands separators.
func FormatAmount(n int64) string {
	return printer.Sprintf("%d", n)
}

// Summary is the presented view of a merged balance record.
type Summary struct {
	Balances model.Balances
	Total    int64
	At       time.Time
}

// Summarize totals every balance in b, not only the displayed ones.
func Summarize(b model.Balances, at time.Time) Summary {
	return Summary{Balances: b, Total: b.Total(), At: at}
}

// Title is the formatted total.
func (s Summary) Title() string {
	return FormatAmount(s.Total)
}

// Timestamp is the run time as MM/DD HH:MM.
func (s Summary) Timestamp() string {
	return s.At.Format(timestampLayout)
}

// Content lists every display institution by abbreviation, with a
// placeholder for unknown balances, followed by the timestamp.
func (s Summary) Content() string {
	parts := make([]string, 0, len(model.DisplayOrder)+1)
	for _, inst := range model.DisplayOrder {
		if v, ok := s.Balances[inst]; ok {
			parts = append(parts, inst.Abbrev()+" "+FormatAmount(v))
		} else {
			parts = append(parts, inst.Abbrev()+" "+placeholder)
		}
	}
	parts = append(parts, s.Timestamp())
	return strings.Join(parts, separator)
}

// WriteTerminal prints the summary with one right-aligned row per known
// display institution.
func WriteTerminal(w io.Writer, s Summary) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n  %s\n", s.Title())
	for _, inst := range model.DisplayOrder {
		if v, ok := s.Balances[inst]; ok {
			fmt.Fprintf(&sb, "  %-2s %12s\n", inst.Abbrev(), FormatAmount(v))
		}
	}
	fmt.Fprintf(&sb, "  %s\n\n", s.Timestamp())
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteDebug dumps the freshly parsed, previously saved and merged records.
func WriteDebug(w io.Writer, fresh, saved, merged model.Balances) error {
	var sb strings.Builder
	sb.WriteString("=== 디버그 ===\n")
	fmt.Fprintf(&sb, "SMS 파싱: %s\n", FormatBalances(fresh))
	fmt.Fprintf(&sb, "저장된 값: %s\n", FormatBalances(saved))
	fmt.Fprintf(&sb, "최종 값: %s\n", FormatBalances(merged))
	sb.WriteString("==============\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatBalances renders b as {name: value, ...}, display institutions
// first and any others after in name order.
func FormatBalances(b model.Balances) string {
	keys := b.Institutions()
	parts := make([]string, len(keys))
	for i, inst := range keys {
		parts[i] = fmt.Sprintf("%s: %d", inst, b[inst])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
