package blackout

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// TradingSession is a named trading session with fixed local hours.
type TradingSession struct {
	Name      string
	StartHour int
	StartMin  int
	EndHour   int
	EndMin    int
	Timezone  string
}

// tradingSessions mirrors the standard forex session definitions.
var tradingSessions = map[string]TradingSession{
	"NY":     {Name: "New York", StartHour: 8, EndHour: 17, Timezone: "America/New_York"},
	"LONDON": {Name: "London", StartHour: 8, EndHour: 16, Timezone: "Europe/London"},
	"ASIA":   {Name: "Asian", StartHour: 9, EndHour: 18, Timezone: "Asia/Tokyo"},
	"SYDNEY": {Name: "Sydney", StartHour: 7, EndHour: 16, Timezone: "Australia/Sydney"},
}

// GetSession looks up a trading session by name (case-insensitive).
func GetSession(name string) (TradingSession, error) {
	key := strings.ToUpper(name)
	s, ok := tradingSessions[key]
	if !ok {
		valid := make([]string, 0, len(tradingSessions))
		for k := range tradingSessions {
			valid = append(valid, k)
		}
		sort.Strings(valid)
		return TradingSession{}, fmt.Errorf("unknown session %q, valid sessions: %s", name, strings.Join(valid, ", "))
	}
	return s, nil
}

// utcWindow returns this session's UTC start/end for one trading date.
func (s TradingSession) utcWindow(tradingDate time.Time) (time.Time, time.Time, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	y, m, d := tradingDate.Date()
	start := time.Date(y, m, d, s.StartHour, s.StartMin, 0, 0, loc)
	end := time.Date(y, m, d, s.EndHour, s.EndMin, 0, 0, loc)
	return start.UTC(), end.UTC(), nil
}

// GetAllowedSessionWindows generates merged UTC windows of allowed trading
// time for the given sessions across every weekday in [startDate, endDate].
func GetAllowedSessionWindows(startDate, endDate time.Time, allowedSessions []string) ([]Window, error) {
	if len(allowedSessions) == 0 {
		return nil, nil
	}
	sessions := make([]TradingSession, 0, len(allowedSessions))
	for _, name := range allowedSessions {
		s, err := GetSession(name)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	var all []Window
	for current := startDate; !current.After(endDate); current = current.AddDate(0, 0, 1) {
		if current.Weekday() == time.Saturday || current.Weekday() == time.Sunday {
			continue
		}
		for _, s := range sessions {
			start, end, err := s.utcWindow(current)
			if err != nil {
				return nil, err
			}
			all = append(all, Window{StartUTC: start, EndUTC: end, Source: SourceSession})
		}
	}
	if len(all) == 0 {
		return nil, nil
	}
	return MergeOverlapping(all), nil
}

// BuildSessionOnlyBlackouts inverts the allowed session windows across
// [startDate, endDate] into blackout windows covering everything outside
// them.
func BuildSessionOnlyBlackouts(startDate, endDate time.Time, allowedSessions []string) ([]Window, error) {
	if len(allowedSessions) == 0 {
		return nil, nil
	}
	allowed, err := GetAllowedSessionWindows(startDate, endDate, allowedSessions)
	if err != nil {
		return nil, err
	}
	if len(allowed) == 0 {
		return nil, nil
	}

	sort.Slice(allowed, func(i, j int) bool { return allowed[i].StartUTC.Before(allowed[j].StartUTC) })

	var blackouts []Window
	dayStart := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, time.UTC)
	if allowed[0].StartUTC.After(dayStart) {
		blackouts = append(blackouts, Window{StartUTC: dayStart, EndUTC: allowed[0].StartUTC, Source: SourceSession})
	}
	for i := 0; i < len(allowed)-1; i++ {
		currentEnd := allowed[i].EndUTC
		nextStart := allowed[i+1].StartUTC
		if nextStart.After(currentEnd) {
			blackouts = append(blackouts, Window{StartUTC: currentEnd, EndUTC: nextStart, Source: SourceSession})
		}
	}
	dayEnd := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	if allowed[len(allowed)-1].EndUTC.Before(dayEnd) {
		blackouts = append(blackouts, Window{StartUTC: allowed[len(allowed)-1].EndUTC, EndUTC: dayEnd, Source: SourceSession})
	}
	return blackouts, nil
}
