package blackout

import (
	"sort"
	"time"
)

// NewsEvent is a scheduled economic news release.
type NewsEvent struct {
	EventName    string
	Currency     string
	EventTimeUTC time.Time
	ImpactLevel  string // "high" or "medium"
}

var releaseTime = struct{ hour, minute int }{8, 30}

func firstFridayOfMonth(year int, month time.Month) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysUntilFriday := (int(time.Friday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, daysUntilFriday)
}

func toUTC(eventDate time.Time, loc *time.Location) time.Time {
	y, m, d := eventDate.Date()
	local := time.Date(y, m, d, releaseTime.hour, releaseTime.minute, 0, 0, loc)
	return local.UTC()
}

func easternLocation() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}

// GenerateNFPEvents produces one NFP event per month in [startDate, endDate]
// (first Friday, 08:30 America/New_York), skipping U.S. market holidays.
func GenerateNFPEvents(startDate, endDate time.Time) []NewsEvent {
	loc := easternLocation()
	var events []NewsEvent

	current := time.Date(startDate.Year(), startDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !current.After(endDate) {
		nfpDate := firstFridayOfMonth(current.Year(), current.Month())
		if !nfpDate.Before(startDate) && !nfpDate.After(endDate) && !IsUSMarketHoliday(nfpDate) {
			events = append(events, NewsEvent{
				EventName:    "NFP",
				Currency:     "USD",
				EventTimeUTC: toUTC(nfpDate, loc),
				ImpactLevel:  "high",
			})
		}
		if current.Month() == time.December {
			current = time.Date(current.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC)
		} else {
			current = time.Date(current.Year(), current.Month()+1, 1, 0, 0, 0, 0, time.UTC)
		}
	}
	return events
}

// GenerateIJCEvents produces one IJC event per Thursday in [startDate,
// endDate] (08:30 America/New_York), skipping U.S. market holidays.
func GenerateIJCEvents(startDate, endDate time.Time) []NewsEvent {
	loc := easternLocation()
	var events []NewsEvent

	daysUntilThursday := (int(time.Thursday) - int(startDate.Weekday()) + 7) % 7
	current := startDate.AddDate(0, 0, daysUntilThursday)

	for !current.After(endDate) {
		if !IsUSMarketHoliday(current) {
			events = append(events, NewsEvent{
				EventName:    "IJC",
				Currency:     "USD",
				EventTimeUTC: toUTC(current, loc),
				ImpactLevel:  "high",
			})
		}
		current = current.AddDate(0, 0, 7)
	}
	return events
}

// GenerateNewsCalendar produces a combined, chronologically sorted calendar
// for the requested event types (default: NFP and IJC).
func GenerateNewsCalendar(startDate, endDate time.Time, eventTypes []string) []NewsEvent {
	if len(eventTypes) == 0 {
		eventTypes = []string{"NFP", "IJC"}
	}
	want := make(map[string]bool, len(eventTypes))
	for _, t := range eventTypes {
		want[t] = true
	}

	var all []NewsEvent
	if want["NFP"] {
		all = append(all, GenerateNFPEvents(startDate, endDate)...)
	}
	if want["IJC"] {
		all = append(all, GenerateIJCEvents(startDate, endDate)...)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].EventTimeUTC.Before(all[j].EventTimeUTC) })
	return all
}
