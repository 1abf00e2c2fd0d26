package model

// Institution identifies a bank whose balance is tracked.
type Institution string

const (
	InstitutionKB       Institution = "KB국민"
	InstitutionHana     Institution = "하나"
	InstitutionShinhyup Institution = "신협"
	InstitutionShinhan  Institution = "신한"
)

// DisplayOrder is the fixed order institutions appear in the summary.
var DisplayOrder = []Institution{
	InstitutionKB,
	InstitutionHana,
	InstitutionShinhyup,
	InstitutionShinhan,
}

var abbreviations = map[Institution]string{
	InstitutionKB:       "k",
	InstitutionHana:     "ha",
	InstitutionShinhyup: "s",
	InstitutionShinhan:  "sh",
}

// Abbrev returns the short label shown in the notification, or the full
// name for institutions outside the display list.
func (i Institution) Abbrev() string {
	if a, ok := abbreviations[i]; ok {
		return a
	}
	return string(i)
}
