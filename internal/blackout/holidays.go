// Package blackout generates news and session blackout windows and filters
// signal timestamps against them.
package blackout

import "time"

// nthWeekdayOfMonth returns the date of the nth occurrence (1-indexed) of
// weekday in the given month.
func nthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysUntil := (int(weekday) - int(first.Weekday()) + 7) % 7
	firstOccurrence := first.AddDate(0, 0, daysUntil)
	return firstOccurrence.AddDate(0, 0, 7*(n-1))
}

// lastWeekdayOfMonth returns the date of the last occurrence of weekday in
// the given month.
func lastWeekdayOfMonth(year int, month time.Month, weekday time.Weekday) time.Time {
	var lastDay time.Time
	if month == time.December {
		lastDay = time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	} else {
		lastDay = time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	}
	daysBack := (int(lastDay.Weekday()) - int(weekday) + 7) % 7
	return lastDay.AddDate(0, 0, -daysBack)
}

// easterSunday computes the date of Easter Sunday via the Anonymous
// Gregorian algorithm.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// observedDate applies the Saturday->Friday / Sunday->Monday weekend
// observance rule.
func observedDate(holiday time.Time) time.Time {
	switch holiday.Weekday() {
	case time.Saturday:
		return holiday.AddDate(0, 0, -1)
	case time.Sunday:
		return holiday.AddDate(0, 0, 1)
	default:
		return holiday
	}
}

// usHolidaysForYear returns the NYSE market holidays for a given year, each
// truncated to midnight UTC for day-granularity comparison.
func usHolidaysForYear(year int) []time.Time {
	holidays := []time.Time{
		observedDate(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)),
		nthWeekdayOfMonth(year, time.January, time.Monday, 3),  // MLK Day
		nthWeekdayOfMonth(year, time.February, time.Monday, 3), // Presidents Day
		easterSunday(year).AddDate(0, 0, -2),                   // Good Friday
		lastWeekdayOfMonth(year, time.May, time.Monday),        // Memorial Day
		observedDate(time.Date(year, time.July, 4, 0, 0, 0, 0, time.UTC)),
		nthWeekdayOfMonth(year, time.September, time.Monday, 1),  // Labor Day
		nthWeekdayOfMonth(year, time.November, time.Thursday, 4), // Thanksgiving
		observedDate(time.Date(year, time.December, 25, 0, 0, 0, 0, time.UTC)),
	}
	if year >= 2021 {
		holidays = append(holidays, observedDate(time.Date(year, time.June, 19, 0, 0, 0, 0, time.UTC)))
	}
	return holidays
}

// IsUSMarketHoliday reports whether checkDate (compared at day granularity)
// falls on an NYSE market holiday.
func IsUSMarketHoliday(checkDate time.Time) bool {
	y, m, d := checkDate.Date()
	target := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	for _, h := range usHolidaysForYear(checkDate.Year()) {
		if h.Equal(target) {
			return true
		}
	}
	return false
}
