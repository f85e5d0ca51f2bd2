package blackout

import (
	"strconv"
	"strings"

	"fxtrendback/internal/bterrors"
)

// NewsBlackoutConfig configures the NFP/IJC news blackout generator.
type NewsBlackoutConfig struct {
	Enabled          bool
	PreCloseMinutes  int // default 10, must be in [0, 60]
	PostPauseMinutes int // default 30, must be in [0, 120]
	ForceClose       bool
	EventTypes       []string // subset of {"NFP", "IJC"}, default both
}

// DefaultNewsBlackoutConfig returns the documented defaults.
func DefaultNewsBlackoutConfig() NewsBlackoutConfig {
	return NewsBlackoutConfig{
		PreCloseMinutes:  10,
		PostPauseMinutes: 30,
		EventTypes:       []string{"NFP", "IJC"},
	}
}

// Validate checks the news blackout invariants.
func (c NewsBlackoutConfig) Validate() error {
	if c.PreCloseMinutes < 0 || c.PreCloseMinutes > 60 {
		return &bterrors.BlackoutConfigError{Field: "news.pre_close_minutes", Reason: "must be in [0, 60]"}
	}
	if c.PostPauseMinutes < 0 || c.PostPauseMinutes > 120 {
		return &bterrors.BlackoutConfigError{Field: "news.post_pause_minutes", Reason: "must be in [0, 120]"}
	}
	for _, t := range c.EventTypes {
		if t != "NFP" && t != "IJC" {
			return &bterrors.BlackoutConfigError{Field: "news.event_types", Reason: "must be a subset of {NFP, IJC}, got " + t}
		}
	}
	return nil
}

// SessionBlackoutConfig configures the NY-close-to-Asian-open session gap.
type SessionBlackoutConfig struct {
	Enabled          bool
	PreCloseMinutes  int // default 10, must be in [0, 60]
	PostPauseMinutes int // default 5, must be in [0, 60]
	ForceClose       bool
	NYCloseTime      string // "HH:MM", default "17:00"
	AsianOpenTime    string // "HH:MM", default "09:00"
	NYTimezone       string // default "America/New_York"
	AsianTimezone    string // default "Asia/Tokyo"
}

// DefaultSessionBlackoutConfig returns the documented defaults.
func DefaultSessionBlackoutConfig() SessionBlackoutConfig {
	return SessionBlackoutConfig{
		PreCloseMinutes:  10,
		PostPauseMinutes: 5,
		NYCloseTime:      "17:00",
		AsianOpenTime:    "09:00",
		NYTimezone:       "America/New_York",
		AsianTimezone:    "Asia/Tokyo",
	}
}

// Validate checks the session blackout invariants, including that both
// HH:MM time strings parse.
func (c SessionBlackoutConfig) Validate() error {
	if c.PreCloseMinutes < 0 || c.PreCloseMinutes > 60 {
		return &bterrors.BlackoutConfigError{Field: "sessions.pre_close_minutes", Reason: "must be in [0, 60]"}
	}
	if c.PostPauseMinutes < 0 || c.PostPauseMinutes > 60 {
		return &bterrors.BlackoutConfigError{Field: "sessions.post_pause_minutes", Reason: "must be in [0, 60]"}
	}
	if _, _, err := parseHHMM(c.NYCloseTime); err != nil {
		return &bterrors.BlackoutConfigError{Field: "sessions.ny_close_time", Reason: err.Error()}
	}
	if _, _, err := parseHHMM(c.AsianOpenTime); err != nil {
		return &bterrors.BlackoutConfigError{Field: "sessions.asian_open_time", Reason: err.Error()}
	}
	return nil
}

// SessionOnlyConfig restricts entries to a whitelist of trading sessions.
type SessionOnlyConfig struct {
	Enabled         bool
	AllowedSessions []string // subset of {"NY", "LONDON", "ASIA", "SYDNEY"}
}

// Validate checks that every allowed session name is recognized.
func (c SessionOnlyConfig) Validate() error {
	for _, name := range c.AllowedSessions {
		if _, err := GetSession(name); err != nil {
			return &bterrors.BlackoutConfigError{Field: "session_only.allowed_sessions", Reason: err.Error()}
		}
	}
	return nil
}

// Config is the top-level blackout configuration, combining news, session
// gap, and session-only whitelist settings.
type Config struct {
	News        NewsBlackoutConfig
	Sessions    SessionBlackoutConfig
	SessionOnly SessionOnlyConfig
}

// DefaultConfig returns a Config with every blackout source disabled.
func DefaultConfig() Config {
	return Config{
		News:     DefaultNewsBlackoutConfig(),
		Sessions: DefaultSessionBlackoutConfig(),
	}
}

// AnyEnabled reports whether any blackout source is active.
func (c Config) AnyEnabled() bool {
	return c.News.Enabled || c.Sessions.Enabled || c.SessionOnly.Enabled
}

// Validate checks all three sub-configs.
func (c Config) Validate() error {
	if err := c.News.Validate(); err != nil {
		return err
	}
	if err := c.Sessions.Validate(); err != nil {
		return err
	}
	return c.SessionOnly.Validate()
}

func parseHHMM(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, &bterrors.BlackoutConfigError{Field: s, Reason: "expected HH:MM format"}
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, &bterrors.BlackoutConfigError{Field: s, Reason: "invalid hour"}
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, &bterrors.BlackoutConfigError{Field: s, Reason: "invalid minute"}
	}
	return hour, minute, nil
}
