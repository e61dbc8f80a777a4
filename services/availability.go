package services

import (
	"strings"

	"github.com/gurukul/gurukul-backend/models"
)

var weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var weekdayNames = map[string]string{
	"Mon": "Monday",
	"Tue": "Tuesday",
	"Wed": "Wednesday",
	"Thu": "Thursday",
	"Fri": "Friday",
	"Sat": "Saturday",
	"Sun": "Sunday",
}

// ParseAvailableTimes expands "Mon-Fri: 9AM - 5PM" into one entry per day.
// A single day ("Sat: 10AM - 1PM") gives one entry. Unknown days give none.
func ParseAvailableTimes(text string) []models.AvailableTime {
	out := []models.AvailableTime{}

	daysPart, timePart, found := strings.Cut(text, ":")
	if !found {
		return out
	}
	daysPart = strings.TrimSpace(daysPart)
	timePart = strings.TrimSpace(timePart)

	if start, end, isRange := strings.Cut(daysPart, "-"); isRange {
		from, to := weekdayIndex(strings.TrimSpace(start)), weekdayIndex(strings.TrimSpace(end))
		if from < 0 || to < 0 {
			return out
		}
		for i := from; i <= to; i++ {
			out = append(out, models.AvailableTime{Day: weekdayNames[weekdays[i]], Time: timePart})
		}
		return out
	}

	if name, ok := weekdayNames[daysPart]; ok {
		out = append(out, models.AvailableTime{Day: name, Time: timePart})
	}
	return out
}

func weekdayIndex(code string) int {
	for i, d := range weekdays {
		if d == code {
			return i
		}
	}
	return -1
}

// EducationFromText turns a single degree string and its loose form fields into an entry.
func EducationFromText(degree, institution, start, end string) []models.Education {
	return []models.Education{{
		Degree:          degree,
		InstitutionName: institution,
		StartDate:       start,
		EndDate:         end,
	}}
}
