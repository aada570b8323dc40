package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/officeboard/backend/internal/models"
	"github.com/officeboard/backend/internal/utils"
)

// AgendaSource is the read-only record store behind the agenda.
type AgendaSource interface {
	ListDutyShifts(ctx context.Context, tenantID string, from, to time.Time) ([]models.DutyShift, error)
	ListCalendarEvents(ctx context.Context, tenantID string, from, to time.Time) ([]models.CalendarEvent, error)
	ListBrokers(ctx context.Context, tenantID string, accountTypes []string) ([]models.Broker, error)
}

type SourceName string

const (
	SourceShifts      SourceName = "shifts"
	SourceEvents      SourceName = "events"
	SourceBrokers     SourceName = "brokers"
	SourceBrokerTasks SourceName = "broker_tasks"
)

type SourceState string

const (
	StateLoading SourceState = "loading"
	StateReady   SourceState = "ready"
	StateError   SourceState = "error"
)

type SourceStatus struct {
	State  SourceState `json:"state"`
	Count  int         `json:"count"`
	Failed int         `json:"failed,omitempty"`
}

// Snapshot is the raw data of one fetch cycle.
type Snapshot struct {
	TenantID  string
	FetchedAt time.Time
	Window    Window
	Shifts    []models.DutyShift
	Events    []models.CalendarEvent
	Brokers   []models.Broker
	Sources   map[SourceName]SourceStatus
}

type Timeline struct {
	Window         Window        `json:"window"`
	Slots          []models.Slot `json:"slots"`
	Remaining      []models.Slot `json:"remaining"`
	RemainingCount int           `json:"remaining_count"`
	CompletedCount int           `json:"completed_count"`
	Current        []models.Slot `json:"current"`
	Next           *models.Slot  `json:"next,omitempty"`
}

type DaySlots struct {
	Date  string        `json:"date"`
	Slots []models.Slot `json:"slots"`
}

type WeekTimeline struct {
	Timeline
	Days []DaySlots `json:"days"`
}

type Agenda struct {
	TenantID  string                       `json:"tenant_id"`
	Now       time.Time                    `json:"now"`
	Today     Timeline                     `json:"today"`
	Week      WeekTimeline                 `json:"week"`
	Corporate []models.CorporateAgendaItem `json:"corporate"`
	Sources   map[SourceName]SourceStatus  `json:"sources"`
}

type AgendaService struct {
	Source   AgendaSource
	Settings Settings
	Logger   zerolog.Logger
}

// FetchWindow covers today through the later of end of week and end of tomorrow.
func FetchWindow(now time.Time) Window {
	tomorrow := utils.EndOfDay(utils.StartOfDay(now).AddDate(0, 0, 1))
	return Window{
		Start: utils.StartOfDay(now),
		End:   utils.MaxTime(utils.EndOfWeek(now), tomorrow),
	}
}

// FetchProgress receives the data gathered so far each time one source settles.
// Sources still in flight are reported as loading.
type FetchProgress func(partial Snapshot)

// LoadingSnapshot is an empty snapshot with every source still loading.
func (s *AgendaService) LoadingSnapshot(tenantID string, now time.Time) Snapshot {
	now = now.In(s.Settings.normalized().Location)
	return Snapshot{
		TenantID:  strings.TrimSpace(tenantID),
		FetchedAt: now,
		Window:    FetchWindow(now),
		Sources: map[SourceName]SourceStatus{
			SourceShifts:  {State: StateLoading},
			SourceEvents:  {State: StateLoading},
			SourceBrokers: {State: StateLoading},
		},
	}
}

// Fetch reads the three sources concurrently. A failing source leaves its list empty and
// is flagged in Sources; only a missing tenant or a cancelled context fail the call.
func (s *AgendaService) Fetch(ctx context.Context, tenantID string, now time.Time) (Snapshot, error) {
	return s.FetchWithProgress(ctx, tenantID, now, nil)
}

// FetchWithProgress is Fetch with a callback after each source settles. progress may be nil.
// Calls to progress are serialized and stop once ctx is done.
func (s *AgendaService) FetchWithProgress(ctx context.Context, tenantID string, now time.Time, progress FetchProgress) (Snapshot, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return Snapshot{}, ErrTenantRequired
	}
	settings := s.Settings.normalized()
	snap := s.LoadingSnapshot(tenantID, now)
	window := snap.Window

	var mu sync.Mutex
	settle := func(name SourceName, status SourceStatus, apply func(*Snapshot)) {
		mu.Lock()
		defer mu.Unlock()
		apply(&snap)
		snap.Sources[name] = status
		if progress != nil && ctx.Err() == nil {
			progress(snap.clone())
		}
	}

	// Source errors are absorbed into each SourceStatus; Wait only joins the reads.
	var g errgroup.Group
	g.Go(func() error {
		shifts, status := fetchSource(ctx, s, tenantID, SourceShifts, func(ctx context.Context) ([]models.DutyShift, error) {
			return s.Source.ListDutyShifts(ctx, tenantID, window.Start, window.End)
		})
		settle(SourceShifts, status, func(sn *Snapshot) { sn.Shifts = shifts })
		return nil
	})
	g.Go(func() error {
		events, status := fetchSource(ctx, s, tenantID, SourceEvents, func(ctx context.Context) ([]models.CalendarEvent, error) {
			return s.Source.ListCalendarEvents(ctx, tenantID, window.Start, window.End)
		})
		settle(SourceEvents, status, func(sn *Snapshot) { sn.Events = events })
		return nil
	})
	g.Go(func() error {
		brokers, status := fetchSource(ctx, s, tenantID, SourceBrokers, func(ctx context.Context) ([]models.Broker, error) {
			return s.Source.ListBrokers(ctx, tenantID, settings.BrokerAccountTypes)
		})
		settle(SourceBrokers, status, func(sn *Snapshot) { sn.Brokers = brokers })
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	for _, sh := range snap.Shifts {
		if _, _, ok := ParseDailyTime(sh.DailyTime); !ok {
			s.Logger.Debug().Str("tenant_id", tenantID).Str("shift_id", sh.ID).Str("daily_time", sh.DailyTime).Msg("invalid shift time, using default")
		}
	}
	return snap, nil
}

// FetchBrokers reads only the broker directory, with the same retry and state reporting as Fetch.
func (s *AgendaService) FetchBrokers(ctx context.Context, tenantID string) ([]models.Broker, SourceStatus, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return nil, SourceStatus{}, ErrTenantRequired
	}
	accountTypes := s.Settings.normalized().BrokerAccountTypes
	brokers, status := fetchSource(ctx, s, tenantID, SourceBrokers, func(ctx context.Context) ([]models.Broker, error) {
		return s.Source.ListBrokers(ctx, tenantID, accountTypes)
	})
	if err := ctx.Err(); err != nil {
		return nil, SourceStatus{}, err
	}
	return brokers, status, nil
}

// clone copies the source map; the record slices are never mutated after a fetch.
func (snap Snapshot) clone() Snapshot {
	sources := make(map[SourceName]SourceStatus, len(snap.Sources))
	for name, status := range snap.Sources {
		sources[name] = status
	}
	snap.Sources = sources
	return snap
}

func fetchSource[T any](ctx context.Context, s *AgendaService, tenantID string, name SourceName, read func(context.Context) ([]T, error)) ([]T, SourceStatus) {
	started := time.Now()
	var items []T
	err := withRetry(ctx, s.Settings.normalized().FetchRetries, func() error {
		var err error
		items, err = read(ctx)
		return err
	})
	sourceFetchDuration.WithLabelValues(string(name)).Observe(time.Since(started).Seconds())
	if err != nil {
		sourceFetchTotal.WithLabelValues(string(name), "error").Inc()
		if ctx.Err() == nil {
			s.Logger.Error().Err(err).Str("tenant_id", tenantID).Str("source", string(name)).Msg("source fetch failed")
		}
		return nil, SourceStatus{State: StateError}
	}
	sourceFetchTotal.WithLabelValues(string(name), "ok").Inc()
	return items, SourceStatus{State: StateReady, Count: len(items)}
}

// Build evaluates a snapshot against now.
func (s *AgendaService) Build(snap Snapshot, now time.Time) Agenda {
	return BuildAgenda(snap, now, s.Settings)
}

// BuildAgenda is a pure function of the fetched data and now.
func BuildAgenda(snap Snapshot, now time.Time, settings Settings) Agenda {
	settings = settings.normalized()
	now = now.In(settings.Location)

	todayWindow := Window{Start: utils.StartOfDay(now), End: utils.EndOfDay(now)}
	weekWindow := Window{Start: utils.StartOfDay(now), End: utils.EndOfWeek(now)}

	todaySlots := mergeSlots(
		ExpandDutyShifts(snap.Shifts, todayWindow, settings),
		ExpandCalendarEvents(snap.Events, todayWindow, settings),
	)
	weekSlots := mergeSlots(
		ExpandDutyShifts(snap.Shifts, weekWindow, settings),
		ExpandCalendarEvents(snap.Events, weekWindow, settings),
	)

	week := WeekTimeline{Timeline: buildTimeline(weekWindow, weekSlots, now)}
	week.Days = groupByDay(weekSlots)

	sources := make(map[SourceName]SourceStatus, len(snap.Sources))
	for name, status := range snap.Sources {
		sources[name] = status
	}

	return Agenda{
		TenantID:  snap.TenantID,
		Now:       now,
		Today:     buildTimeline(todayWindow, todaySlots, now),
		Week:      week,
		Corporate: BuildCorporateAgenda(snap, now, settings),
		Sources:   sources,
	}
}

func mergeSlots(shifts []ShiftOccurrence, events []EventOccurrence) []models.Slot {
	slots := make([]models.Slot, 0, len(shifts)+len(events))
	for _, o := range shifts {
		slots = append(slots, o.Slot())
	}
	for _, o := range events {
		slots = append(slots, o.Slot())
	}
	sort.SliceStable(slots, func(i, j int) bool {
		if !slots[i].Start.Equal(slots[j].Start) {
			return slots[i].Start.Before(slots[j].Start)
		}
		return slots[i].ID < slots[j].ID
	})
	return slots
}

// PartitionElapsed splits slots into those still ahead of now and those already ended.
func PartitionElapsed(slots []models.Slot, now time.Time) (remaining, completed []models.Slot) {
	remaining = make([]models.Slot, 0, len(slots))
	completed = make([]models.Slot, 0)
	for _, slot := range slots {
		if !slot.End.After(now) {
			completed = append(completed, slot)
			continue
		}
		remaining = append(remaining, slot)
	}
	return remaining, completed
}

func buildTimeline(w Window, slots []models.Slot, now time.Time) Timeline {
	remaining, completed := PartitionElapsed(slots, now)
	tl := Timeline{
		Window:         w,
		Slots:          slots,
		Remaining:      remaining,
		RemainingCount: len(remaining),
		CompletedCount: len(completed),
		Current:        make([]models.Slot, 0),
	}
	for i := range remaining {
		slot := remaining[i]
		if !slot.Start.After(now) {
			tl.Current = append(tl.Current, slot)
			continue
		}
		if tl.Next == nil {
			tl.Next = &slot
		}
	}
	return tl
}

func groupByDay(slots []models.Slot) []DaySlots {
	days := make([]DaySlots, 0)
	for _, slot := range slots {
		date := slot.Start.Format(time.DateOnly)
		if n := len(days); n > 0 && days[n-1].Date == date {
			days[n-1].Slots = append(days[n-1].Slots, slot)
			continue
		}
		days = append(days, DaySlots{Date: date, Slots: []models.Slot{slot}})
	}
	return days
}

// BuildCorporateAgenda lists shift occurrences and events falling on today or tomorrow,
// ordered by end time.
func BuildCorporateAgenda(snap Snapshot, now time.Time, settings Settings) []models.CorporateAgendaItem {
	settings = settings.normalized()
	now = now.In(settings.Location)
	today := utils.StartOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	w := Window{Start: today, End: utils.EndOfDay(tomorrow)}

	items := make([]models.CorporateAgendaItem, 0)
	for _, o := range ExpandDutyShifts(snap.Shifts, w, settings) {
		items = append(items, models.CorporateAgendaItem{
			Origin:             models.OriginShift,
			ID:                 o.ID,
			Title:              o.Shift.PartnerName,
			KindLabel:          models.KindDutyShift.Label(),
			Start:              o.Start,
			End:                o.End,
			ConfirmedAttendees: confirmedAttendees(o.Shift.AttendanceResponses, snap.Brokers, settings.ConfirmedResponse),
		})
	}
	for _, ev := range snap.Events {
		start := ev.Start.In(settings.Location)
		if !utils.SameDay(start, today) && !utils.SameDay(start, tomorrow) {
			continue
		}
		kind := ev.Kind
		if kind == "" {
			kind = models.KindOther
		}
		items = append(items, models.CorporateAgendaItem{
			Origin:             models.OriginEvent,
			ID:                 ev.ID,
			Title:              ev.Title,
			KindLabel:          kind.Label(),
			Start:              start,
			End:                EffectiveEnd(ev, settings).In(settings.Location),
			ConfirmedAttendees: confirmedAttendees(ev.AttendanceResponses, snap.Brokers, settings.ConfirmedResponse),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.End.Equal(b.End) {
			return a.End.Before(b.End)
		}
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		return a.ID < b.ID
	})
	return items
}

// confirmedAttendees resolves confirmed responses against the broker directory, in directory order.
func confirmedAttendees(responses map[string]string, brokers []models.Broker, confirmed string) []models.Attendee {
	attendees := make([]models.Attendee, 0)
	if len(responses) == 0 {
		return attendees
	}
	for _, b := range brokers {
		if responses[b.ID] == confirmed {
			attendees = append(attendees, models.Attendee{Name: b.Name, PhotoURL: b.PhotoURL})
		}
	}
	return attendees
}
