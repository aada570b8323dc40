package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/officeboard/backend/internal/models"
)

var brt = time.FixedZone("BRT", -3*60*60)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, brt)
}

func testSettings() Settings {
	s := DefaultSettings()
	s.Location = brt
	s.FetchRetries = 0
	return s
}

func dayWindow(y int, m time.Month, d int) Window {
	start := time.Date(y, m, d, 0, 0, 0, 0, brt)
	return Window{Start: start, End: start.Add(24*time.Hour - time.Millisecond)}
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

var errSourceDown = errors.New("source down")

type fakeSource struct {
	shifts    []models.DutyShift
	events    []models.CalendarEvent
	brokers   []models.Broker
	shiftErr  error
	eventErr  error
	brokerErr error

	mu    sync.Mutex
	calls map[string]int
}

func (f *fakeSource) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
}

func (f *fakeSource) ListDutyShifts(ctx context.Context, tenantID string, from, to time.Time) ([]models.DutyShift, error) {
	f.count("shifts")
	if f.shiftErr != nil {
		return nil, f.shiftErr
	}
	return f.shifts, nil
}

func (f *fakeSource) ListCalendarEvents(ctx context.Context, tenantID string, from, to time.Time) ([]models.CalendarEvent, error) {
	f.count("events")
	if f.eventErr != nil {
		return nil, f.eventErr
	}
	return f.events, nil
}

func (f *fakeSource) ListBrokers(ctx context.Context, tenantID string, accountTypes []string) ([]models.Broker, error) {
	f.count("brokers")
	if f.brokerErr != nil {
		return nil, f.brokerErr
	}
	return f.brokers, nil
}

type fakeTasks struct {
	tasks  map[string][]models.FollowUpTask
	failed map[string]bool
}

func (f *fakeTasks) ListPendingTasks(ctx context.Context, tenantID, brokerID string) ([]models.FollowUpTask, error) {
	if f.failed[brokerID] {
		return nil, errSourceDown
	}
	return f.tasks[brokerID], nil
}
