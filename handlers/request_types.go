package handlers

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/gurukul/gurukul-backend/models"
	"github.com/gurukul/gurukul-backend/services"
	"github.com/pkg/errors"
)

// flexDate accepts RFC 3339 timestamps and plain 2006-01-02 dates.
type flexDate struct {
	time.Time
}

func parseFlexDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, errors.Errorf("invalid date %q", s)
	}
	return t, nil
}

func (d *flexDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	t, err := parseFlexDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// flexEducation accepts a list of entries or a single degree string.
type flexEducation struct {
	Entries []models.Education
	Text    string
	Set     bool
}

func (e *flexEducation) UnmarshalJSON(b []byte) error {
	e.Set = true
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &e.Text)
	}
	return json.Unmarshal(b, &e.Entries)
}

// Resolve turns a degree string into one entry using the loose institution fields.
func (e flexEducation) Resolve(institution, start, end string) []models.Education {
	if e.Text != "" {
		return services.EducationFromText(e.Text, institution, start, end)
	}
	if e.Entries == nil {
		return []models.Education{}
	}
	return e.Entries
}

// flexAvailability accepts a list of {day, time} entries or text like "Mon-Fri: 9AM - 5PM".
type flexAvailability struct {
	Entries []models.AvailableTime
	Text    string
	Set     bool
}

func (a *flexAvailability) UnmarshalJSON(b []byte) error {
	a.Set = true
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &a.Text)
	}
	return json.Unmarshal(b, &a.Entries)
}

func (a flexAvailability) Resolve() []models.AvailableTime {
	if a.Text != "" {
		return services.ParseAvailableTimes(a.Text)
	}
	if a.Entries == nil {
		return []models.AvailableTime{}
	}
	return a.Entries
}
