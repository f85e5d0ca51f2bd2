package blackout

import "time"

// BuildWindows generates and merges every enabled blackout source into one
// sorted, non-overlapping window list covering [startDate, endDate].
func BuildWindows(startDate, endDate time.Time, cfg Config) ([]Window, error) {
	var all []Window

	if cfg.News.Enabled {
		events := GenerateNewsCalendar(startDate, endDate, cfg.News.EventTypes)
		preClose := time.Duration(cfg.News.PreCloseMinutes) * time.Minute
		postPause := time.Duration(cfg.News.PostPauseMinutes) * time.Minute
		all = append(all, ExpandNewsWindows(events, preClose, postPause)...)
	}

	if cfg.Sessions.Enabled {
		sessionWindows, err := ExpandSessionWindows(startDate, endDate, cfg.Sessions)
		if err != nil {
			return nil, err
		}
		all = append(all, sessionWindows...)
	}

	if cfg.SessionOnly.Enabled {
		whitelistWindows, err := BuildSessionOnlyBlackouts(startDate, endDate, cfg.SessionOnly.AllowedSessions)
		if err != nil {
			return nil, err
		}
		all = append(all, whitelistWindows...)
	}

	return MergeOverlapping(all), nil
}

// Filter returns the indices of timestamps that fall outside every window,
// plus the count of timestamps blocked (inclusive of both window bounds).
func Filter(timestamps []time.Time, windows []Window) (filteredIndices []int, blockedCount int) {
	for i, ts := range timestamps {
		if IsInBlackout(ts, windows) {
			blockedCount++
			continue
		}
		filteredIndices = append(filteredIndices, i)
	}
	return filteredIndices, blockedCount
}
