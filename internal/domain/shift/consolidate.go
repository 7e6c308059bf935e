package shift

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnsorted is returned when records are not ordered by start time.
var ErrUnsorted = errors.New("shift records not sorted by start time")

type Options struct {
	// GroupByName groups people by display name instead of person id.
	// Two different people sharing a first name collapse into one entry.
	GroupByName bool
}

// CheckOrder verifies that records are non-decreasing by start time.
// Consolidate only merges ranges that are adjacent in input order, so
// it depends on this ordering.
func CheckOrder(records []Record) error {
	for i := 1; i < len(records); i++ {
		if records[i].Start.Before(records[i-1].Start) {
			return fmt.Errorf("%w: record %d starts at %s, before record %d at %s",
				ErrUnsorted, i, records[i].Start.Format(time.RFC3339), i-1, records[i-1].Start.Format(time.RFC3339))
		}
	}
	return nil
}

// Consolidate groups records by tier and person and merges each person's
// back-to-back shifts into single ranges. A record extends the person's
// last range only when that range ends exactly where the record starts.
// On unsorted input it returns ErrUnsorted and an empty schedule.
func Consolidate(records []Record, opts Options) (DaySchedule, error) {
	day := NewDaySchedule()
	if err := CheckOrder(records); err != nil {
		return day, err
	}

	index := make(map[Tier]map[string]int, len(Tiers))
	for _, r := range records {
		tier := Classify(r.RoleLabel)
		key := r.PersonID
		if opts.GroupByName {
			key = r.PersonName
		}

		people, ok := index[tier]
		if !ok {
			people = make(map[string]int)
			index[tier] = people
		}

		ts := day[tier]
		i, seen := people[key]
		if !seen {
			people[key] = len(ts)
			day[tier] = append(ts, PersonSchedule{
				Key:    key,
				Name:   r.PersonName,
				Ranges: []Range{{Start: r.Start, End: r.End}},
			})
			continue
		}

		p := &ts[i]
		last := &p.Ranges[len(p.Ranges)-1]
		if last.End.Equal(r.Start) {
			last.End = r.End
			continue
		}
		p.Ranges = append(p.Ranges, Range{Start: r.Start, End: r.End})
	}
	return day, nil
}
