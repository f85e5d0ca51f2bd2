package blackout

import (
	"sort"
	"time"
)

// Source identifies what produced a blackout window.
type Source string

const (
	SourceNews    Source = "news"
	SourceSession Source = "session"
)

// Window is a UTC time interval during which new entries are blocked.
type Window struct {
	StartUTC time.Time
	EndUTC   time.Time
	Source   Source
}

// ExpandNewsWindows expands each news event into a blackout window of
// [event_time - preClose, event_time + postPause].
func ExpandNewsWindows(events []NewsEvent, preClose, postPause time.Duration) []Window {
	windows := make([]Window, 0, len(events))
	for _, e := range events {
		windows = append(windows, Window{
			StartUTC: e.EventTimeUTC.Add(-preClose),
			EndUTC:   e.EventTimeUTC.Add(postPause),
			Source:   SourceNews,
		})
	}
	return windows
}

// MergeOverlapping merges overlapping or touching windows via a single
// sorted pass. The merged window's source is "news" if any contributing
// window was news, else "session".
func MergeOverlapping(windows []Window) []Window {
	if len(windows) == 0 {
		return nil
	}
	sorted := make([]Window, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartUTC.Before(sorted[j].StartUTC) })

	merged := make([]Window, 0, len(sorted))
	curStart, curEnd, curSource := sorted[0].StartUTC, sorted[0].EndUTC, sorted[0].Source

	for _, w := range sorted[1:] {
		if !w.StartUTC.After(curEnd) {
			if w.EndUTC.After(curEnd) {
				curEnd = w.EndUTC
			}
			if w.Source == SourceNews || curSource == SourceNews {
				curSource = SourceNews
			}
			continue
		}
		merged = append(merged, Window{StartUTC: curStart, EndUTC: curEnd, Source: curSource})
		curStart, curEnd, curSource = w.StartUTC, w.EndUTC, w.Source
	}
	merged = append(merged, Window{StartUTC: curStart, EndUTC: curEnd, Source: curSource})
	return merged
}

// IsInBlackout reports whether timestamp falls within any window (closed
// on both ends).
func IsInBlackout(timestamp time.Time, windows []Window) bool {
	for _, w := range windows {
		if !timestamp.Before(w.StartUTC) && !timestamp.After(w.EndUTC) {
			return true
		}
	}
	return false
}

// ExpandSessionWindows generates one session-gap window per weekday in
// [startDate, endDate]: from NY close (minus preClose) to the next day's
// Asian open (plus postPause).
func ExpandSessionWindows(startDate, endDate time.Time, cfg SessionBlackoutConfig) ([]Window, error) {
	nyLoc, err := time.LoadLocation(cfg.NYTimezone)
	if err != nil {
		return nil, err
	}
	asianLoc, err := time.LoadLocation(cfg.AsianTimezone)
	if err != nil {
		return nil, err
	}
	nyHour, nyMin, err := parseHHMM(cfg.NYCloseTime)
	if err != nil {
		return nil, err
	}
	asianHour, asianMin, err := parseHHMM(cfg.AsianOpenTime)
	if err != nil {
		return nil, err
	}

	var windows []Window
	for current := startDate; !current.After(endDate); current = current.AddDate(0, 0, 1) {
		if current.Weekday() == time.Saturday || current.Weekday() == time.Sunday {
			continue
		}
		y, m, d := current.Date()
		nyClose := time.Date(y, m, d, nyHour, nyMin, 0, 0, nyLoc)
		windowStart := nyClose.Add(-time.Duration(cfg.PreCloseMinutes) * time.Minute)

		nextDay := current.AddDate(0, 0, 1)
		ny, nm, nd := nextDay.Date()
		asianOpen := time.Date(ny, nm, nd, asianHour, asianMin, 0, 0, asianLoc)
		windowEnd := asianOpen.Add(time.Duration(cfg.PostPauseMinutes) * time.Minute)

		windows = append(windows, Window{
			StartUTC: windowStart.UTC(),
			EndUTC:   windowEnd.UTC(),
			Source:   SourceSession,
		})
	}
	return windows, nil
}
