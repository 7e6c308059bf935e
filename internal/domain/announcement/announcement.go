package announcement

import "time"

// Announcement is the delivery record for one day's post to one channel.
// It never carries schedule content.
type Announcement struct {
	Day         time.Time
	Channel     string
	PostedAt    time.Time
	ShiftCount  int
	PeopleCount int
	// Error is empty when the post went out and the roster was fetched cleanly.
	Error string
}

func (a Announcement) Succeeded() bool { return a.Error == "" }
