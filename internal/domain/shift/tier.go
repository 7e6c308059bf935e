package shift

import (
	"fmt"
	"strings"
)

type Tier int

const (
	Tier1 Tier = 1
	Tier2 Tier = 2
	Tier3 Tier = 3
)

// Tiers is the announcement order.
var Tiers = []Tier{Tier3, Tier2, Tier1}

// Classify derives a tier from a free-text role label. "L3" wins over "L1";
// anything unmarked (including Spec Ops roles) is Tier2.
func Classify(roleLabel string) Tier {
	switch {
	case strings.Contains(roleLabel, "L3"):
		return Tier3
	case strings.Contains(roleLabel, "L1"):
		return Tier1
	default:
		return Tier2
	}
}

// Label is the display name used in announcements.
func (t Tier) Label() string {
	switch t {
	case Tier3:
		return "Tier 3"
	case Tier2:
		return "Spec Ops"
	case Tier1:
		return "Tier 1"
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

func (t Tier) String() string { return t.Label() }
