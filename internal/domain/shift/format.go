package shift

import (
	"strings"
	"time"
)

const Greeting = "Good morning! Here's who is on today:"

// Format renders the announcement: the greeting, then one line per tier
// (Tier 3, Spec Ops, Tier 1) listing people with their ranges.
func Format(day DaySchedule) string {
	var b strings.Builder
	b.WriteString(Greeting)
	for _, tier := range Tiers {
		b.WriteString("\n")
		b.WriteString(tier.Label())
		b.WriteString(":")

		people := day[tier]
		if len(people) == 0 {
			continue
		}
		parts := make([]string, 0, len(people))
		for _, p := range people {
			parts = append(parts, formatPerson(p))
		}
		b.WriteString(" ")
		b.WriteString(strings.Join(parts, ", "))
	}
	return b.String()
}

func formatPerson(p PersonSchedule) string {
	ranges := make([]string, 0, len(p.Ranges))
	for _, r := range p.Ranges {
		ranges = append(ranges, FormatRange(r))
	}
	return "*" + p.Name + "* " + strings.Join(ranges, " & ")
}

// FormatRange renders "9-5PM" style ranges: the start never carries AM/PM,
// the end always does.
func FormatRange(r Range) string {
	return clock(r.Start, false) + "-" + clock(r.End, true)
}

func clock(t time.Time, meridiem bool) string {
	layout := "3"
	if t.Minute() != 0 {
		layout = "3:04"
	}
	if meridiem {
		layout += "PM"
	}
	return t.Format(layout)
}
