package jolt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/example/shiftcall/internal/domain/shift"
	"github.com/example/shiftcall/internal/internaltypes"
)

type envelope struct {
	Success *bool `json:"success"`
	Data    *struct {
		ScheduleShift json.RawMessage `json:"scheduleShift"`
	} `json:"data"`
}

type rawShift struct {
	Person *struct {
		ID        json.RawMessage `json:"id"`
		FirstName *string         `json:"firstName"`
	} `json:"person"`
	Role *struct {
		Name *string `json:"name"`
	} `json:"role"`
	StartTime *float64 `json:"startTime"`
	EndTime   *float64 `json:"endTime"`
}

// Parse validates a shift listing response and returns its records in
// response order. It fails on the first malformed record.
func Parse(body []byte) ([]shift.Record, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", internaltypes.ErrMalformedResponse, err)
	}
	if env.Success == nil || !*env.Success {
		return nil, internaltypes.ErrAPIFailure
	}
	if env.Data == nil || len(env.Data.ScheduleShift) == 0 {
		return nil, fmt.Errorf("%w: data.scheduleShift missing", internaltypes.ErrMalformedResponse)
	}
	raw := bytes.TrimSpace(env.Data.ScheduleShift)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("%w: data.scheduleShift is not an array", internaltypes.ErrMalformedResponse)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: data.scheduleShift: %v", internaltypes.ErrMalformedResponse, err)
	}

	out := make([]shift.Record, 0, len(items))
	for i, item := range items {
		r, err := parseShift(item)
		if err != nil {
			return nil, fmt.Errorf("%w: scheduleShift[%d]: %v", internaltypes.ErrMalformedRecord, i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func parseShift(item json.RawMessage) (shift.Record, error) {
	var s rawShift
	if err := json.Unmarshal(item, &s); err != nil {
		return shift.Record{}, err
	}
	switch {
	case s.Person == nil:
		return shift.Record{}, fmt.Errorf("person missing")
	case s.Person.FirstName == nil:
		return shift.Record{}, fmt.Errorf("person.firstName missing")
	case s.Role == nil || s.Role.Name == nil:
		return shift.Record{}, fmt.Errorf("role.name missing")
	case s.StartTime == nil:
		return shift.Record{}, fmt.Errorf("startTime missing")
	case s.EndTime == nil:
		return shift.Record{}, fmt.Errorf("endTime missing")
	}
	id, err := personID(s.Person.ID)
	if err != nil {
		return shift.Record{}, err
	}
	start, end := unixTime(*s.StartTime), unixTime(*s.EndTime)
	if !start.Before(end) {
		return shift.Record{}, fmt.Errorf("endTime %s not after startTime %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return shift.Record{
		PersonID:   id,
		PersonName: *s.Person.FirstName,
		RoleLabel:  *s.Role.Name,
		Start:      start,
		End:        end,
	}, nil
}

// personID accepts either a JSON string or number and returns it as text.
func personID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", fmt.Errorf("person.id missing")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("person.id: %w", err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("person.id must be a string or number")
	}
	return strings.TrimSpace(n.String()), nil
}

// unixTime converts epoch seconds into the host's local time.
func unixTime(sec float64) time.Time {
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(math.Round(frac*1e9)))
}
