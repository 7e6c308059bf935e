package jolt

import (
	"encoding/json"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL    = "https://app.joltup.com"
	DefaultLocationID = "0000029b258af59dee075b58f3060177"

	schedulePath = "/rest/v1/ScheduleShift"

	// local wall clock, no zone
	timestampLayout = "2006-01-02T15:04:05"
	dayStartHour    = 6
)

// Shift listing sort and eager-load directives. The remote API only returns
// a well-formed payload when these match its contract exactly.
const (
	sortParam = `[{"property":"startTime","direction":"ASC"},{"property":"personId","direction":"ASC"}]`
	withParam = `{"swapRequest":{"scopes":{"active":[],"userPermissionScope":[]},"with":{"approver":{"alias":"swapApprover"}}},` +
		`"pickupRequests":{"scopes":{"active":[]},"with":{"newPerson":{"scopes":{"eagerThumbnailScope":["newPhoto","newThumb"]}},"oldPerson":{"scopes":{"eagerThumbnailScope":["oldPhoto","oldThumb"]}},"approver":{}}},` +
		`"person":{"scopes":{"eagerThumbnailScope":[]}},"role":{},"hasStations":{"scopes":{"active":[]}},"stations":{}}`
)

type scopes struct {
	Active                    []any    `json:"active"`
	CheckForInvalidSwapTrades []any    `json:"checkForInvalidSwapTrades"`
	PublishedScope            []any    `json:"publishedScope"`
	AssignedScope             []bool   `json:"assignedScope"`
	PreviouslyOwnedScope      struct{} `json:"previouslyOwnedScope"`
	Location                  []string `json:"location"`
	InRange                   []any    `json:"inRange"`
}

// Query builds shift listing URLs for one location.
type Query struct {
	BaseURL    string
	LocationID string
}

func NewQuery(baseURL, locationID string) Query {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if strings.TrimSpace(locationID) == "" {
		locationID = DefaultLocationID
	}
	return Query{BaseURL: strings.TrimRight(baseURL, "/"), LocationID: locationID}
}

// DayWindow returns [06:00 today, 06:00 tomorrow - 1s] in now's location.
func DayWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), dayStartHour, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Second)
	return start, end
}

// URL returns the fully encoded shift listing URL for the day containing now.
func (q Query) URL(now time.Time) string {
	start, end := DayWindow(now)
	s := scopes{
		Active:                    []any{},
		CheckForInvalidSwapTrades: []any{},
		PublishedScope:            []any{},
		AssignedScope:             []bool{true},
		Location:                  []string{q.LocationID},
		InRange:                   []any{start.Format(timestampLayout), end.Format(timestampLayout), true},
	}
	// cannot fail: only strings, bools and empty collections
	scopesJSON, _ := json.Marshal(s)

	v := url.Values{}
	v.Set("scopes", string(scopesJSON))
	v.Set("sort", sortParam)
	v.Set("with", withParam)
	return q.BaseURL + schedulePath + "?" + v.Encode()
}
