package extract

import (
	"regexp"
	"strings"

	"github.com/banktotal-dev/banktotal/internal/model"
)

// Rule resolves a notification to an institution by package name and
// extracts the balance from its text.
type Rule struct {
	Institution model.Institution
	Package     string // substring of the notification package name
	IgnoreCase  bool
	WithTitle   bool // search "title content" instead of content alone
	Pattern     *regexp.Regexp
	Separators  string
}

// Matches reports whether pkg belongs to the rule's institution.
func (r Rule) Matches(pkg string) bool {
	if r.IgnoreCase {
		return strings.Contains(strings.ToLower(pkg), strings.ToLower(r.Package))
	}
	return strings.Contains(pkg, r.Package)
}

func (r Rule) text(n model.Notification) string {
	if r.WithTitle {
		return n.Title + " " + n.Content
	}
	return n.Content
}

// Extractor resolves senders to institutions and extracts balances.
type Extractor struct {
	senders map[string]model.Institution
	rules   []Rule
}

// New creates an Extractor with the given sender table and no notification rules.
func New(senders map[string]model.Institution) *Extractor {
	return &Extractor{senders: senders}
}

// Register adds a notification rule. Panics on a duplicate institution.
func (e *Extractor) Register(r Rule) {
	for _, existing := range e.rules {
		if existing.Institution == r.Institution {
			panic("duplicate notification rule: " + string(r.Institution))
		}
	}
	e.rules = append(e.rules, r)
}

// Default returns an Extractor with the built-in sender table and rules.
// Only the Shinhan package match ignores case.
func Default() *Extractor {
	e := New(DefaultSenders())
	e.Register(Rule{
		Institution: model.InstitutionShinhyup,
		Package:     "cu.onbank",
		Pattern:     regexp.MustCompile(`잔액` + gap + `([\d,]+)원`),
		Separators:  ",",
	})
	e.Register(Rule{
		Institution: model.InstitutionHana,
		Package:     "hanapush",
		Pattern:     regexp.MustCompile(`잔액` + gap + `([\d,]+)원`),
		Separators:  ",",
	})
	e.Register(Rule{
		Institution: model.InstitutionShinhan,
		Package:     "shinhan",
		IgnoreCase:  true,
		WithTitle:   true,
		Pattern:     regexp.MustCompile(`잔액` + gap + `([\d.,]+)원`),
		Separators:  ".,",
	})
	return e
}

// Message extracts an observation from an SMS or captured-log entry.
func (e *Extractor) Message(m model.Message, src model.Source) (model.Observation, bool) {
	number := strings.ReplaceAll(m.Number, "-", "")
	inst, ok := e.senders[number]
	if !ok {
		return model.Observation{}, false
	}
	bal, ok := Balance(m.Body)
	if !ok {
		return model.Observation{}, false
	}
	return observe(inst, bal, src, number, m.Body), true
}

// Notification extracts observations from a notification. Each rule is
// tried independently, so one notification can yield several.
func (e *Extractor) Notification(n model.Notification) []model.Observation {
	var obs []model.Observation
	for _, r := range e.rules {
		if !r.Matches(n.PackageName) {
			continue
		}
		text := r.text(n)
		bal, ok := find(r.Pattern, text, r.Separators)
		if !ok {
			continue
		}
		obs = append(obs, observe(r.Institution, bal, model.SourceNotification, n.PackageName, text))
	}
	return obs
}

// Messages scans messages ordered oldest-first. The last match for an
// institution wins. Every match is returned in scan order.
func (e *Extractor) Messages(msgs []model.Message, src model.Source) (model.Balances, []model.Observation) {
	balances := model.Balances{}
	var all []model.Observation
	for _, m := range msgs {
		o, ok := e.Message(m, src)
		if !ok {
			continue
		}
		balances[o.Institution] = o.Balance
		all = append(all, o)
	}
	return balances, all
}

// Notifications scans notifications ordered newest-first. Only the first
// match for an institution is used; the returned observations are the ones
// that were used.
func (e *Extractor) Notifications(notifs []model.Notification) (model.Balances, []model.Observation) {
	balances := model.Balances{}
	var used []model.Observation
	for _, n := range notifs {
		for _, o := range e.Notification(n) {
			if _, seen := balances[o.Institution]; seen {
				continue
			}
			balances[o.Institution] = o.Balance
			used = append(used, o)
		}
	}
	return balances, used
}
