package service

import (
	"errors"
	"strings"
	"time"
)

var ErrTenantRequired = errors.New("tenant id is required")

// Settings carries the product conventions used by the expanders and classifier.
type Settings struct {
	Location             *time.Location
	ShiftDefaultHour     int
	ShiftDefaultMinute   int
	ShiftDuration        time.Duration
	EventDefaultDuration time.Duration
	InactiveAfter        time.Duration
	ConfirmedResponse    string
	BrokerAccountTypes   []string
	BrokerFanout         int
	// FetchRetries is the number of retries after a failed source read; 0 disables retrying.
	FetchRetries int
}

func DefaultSettings() Settings {
	return Settings{
		Location:             time.Local,
		ShiftDefaultHour:     9,
		ShiftDefaultMinute:   0,
		ShiftDuration:        2 * time.Hour,
		EventDefaultDuration: time.Hour,
		InactiveAfter:        24 * time.Hour,
		ConfirmedResponse:    "confirmed",
		BrokerAccountTypes:   []string{"broker", "team_lead"},
		BrokerFanout:         8,
		FetchRetries:         2,
	}
}

func (s Settings) normalized() Settings {
	def := DefaultSettings()
	if s.Location == nil {
		s.Location = def.Location
	}
	if s.ShiftDefaultHour < 0 || s.ShiftDefaultHour > 23 || s.ShiftDefaultMinute < 0 || s.ShiftDefaultMinute > 59 {
		s.ShiftDefaultHour, s.ShiftDefaultMinute = def.ShiftDefaultHour, def.ShiftDefaultMinute
	}
	if s.ShiftDuration <= 0 {
		s.ShiftDuration = def.ShiftDuration
	}
	if s.EventDefaultDuration <= 0 {
		s.EventDefaultDuration = def.EventDefaultDuration
	}
	if s.InactiveAfter <= 0 {
		s.InactiveAfter = def.InactiveAfter
	}
	if strings.TrimSpace(s.ConfirmedResponse) == "" {
		s.ConfirmedResponse = def.ConfirmedResponse
	}
	if len(s.BrokerAccountTypes) == 0 {
		s.BrokerAccountTypes = def.BrokerAccountTypes
	}
	if s.BrokerFanout <= 0 {
		s.BrokerFanout = def.BrokerFanout
	}
	if s.FetchRetries < 0 {
		s.FetchRetries = 0
	}
	return s
}

// ParseDailyTime parses a strict two-digit "HH:MM". ok is false for anything else.
func ParseDailyTime(value string) (hour, minute int, ok bool) {
	value = strings.TrimSpace(value)
	if len(value) != len(dailyTimeLayout) || !isDigit(value[0]) || !isDigit(value[1]) {
		return 0, 0, false
	}
	t, err := time.Parse(dailyTimeLayout, value)
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}

const dailyTimeLayout = "15:04"

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
