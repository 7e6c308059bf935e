package shift

import "time"

// Record is one roster row: a single continuous interval worked by one person.
type Record struct {
	PersonID   string
	PersonName string
	RoleLabel  string
	Start      time.Time
	End        time.Time
}

// Range is a consolidated working interval. Start is always before End.
type Range struct {
	Start time.Time
	End   time.Time
}

// PersonSchedule holds one person's merged ranges in chronological order.
// Key is the grouping key (person id, or display name in legacy mode).
type PersonSchedule struct {
	Key    string
	Name   string
	Ranges []Range
}

// TierSchedule lists people in the order they first appeared in the roster.
type TierSchedule []PersonSchedule

// Person returns the first schedule whose display name matches name.
func (ts TierSchedule) Person(name string) (PersonSchedule, bool) {
	for _, p := range ts {
		if p.Name == name {
			return p, true
		}
	}
	return PersonSchedule{}, false
}

// DaySchedule maps every tier to its schedule. All three tiers are always present.
type DaySchedule map[Tier]TierSchedule

func NewDaySchedule() DaySchedule {
	return DaySchedule{
		Tier3: TierSchedule{},
		Tier2: TierSchedule{},
		Tier1: TierSchedule{},
	}
}

// PeopleCount is the number of person entries across all tiers.
func (d DaySchedule) PeopleCount() int {
	n := 0
	for _, ts := range d {
		n += len(ts)
	}
	return n
}
