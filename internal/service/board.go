package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/officeboard/backend/internal/clock"
	"github.com/officeboard/backend/internal/models"
)

// Dashboard is the payload rendered by the office TV.
type Dashboard struct {
	Agenda
	Brokers []models.BrokerStatus `json:"brokers"`
}

// ComposeDashboard merges the agenda with broker statuses. Both are computed independently.
func ComposeDashboard(agenda Agenda, brokers []models.BrokerStatus, brokerTasks SourceStatus) Dashboard {
	if brokers == nil {
		brokers = make([]models.BrokerStatus, 0)
	}
	if agenda.Sources == nil {
		agenda.Sources = make(map[SourceName]SourceStatus)
	}
	agenda.Sources[SourceBrokerTasks] = brokerTasks
	return Dashboard{Agenda: agenda, Brokers: brokers}
}

type boardData struct {
	snapshot Snapshot
	tasks    BrokerTasks
	// complete is set once every source and the broker fan-out have settled.
	complete bool
}

// Board keeps one tenant's dashboard current: it refetches on a cron schedule and
// re-evaluates the last fetched data on every tick.
type Board struct {
	TenantID string
	Agenda   *AgendaService
	Brokers  *BrokerStatusService
	Clock    clock.Clock
	Tick     time.Duration
	Refetch  string
	Logger   zerolog.Logger

	// publishMu orders publications so a slow tick cannot overwrite a newer refetch.
	publishMu sync.Mutex
	data      atomic.Pointer[boardData]
	state     atomic.Pointer[Dashboard]
}

// State returns the last published dashboard.
func (b *Board) State() (*Dashboard, bool) {
	d := b.state.Load()
	return d, d != nil
}

// Loading builds a dashboard with every source still loading.
func (b *Board) Loading() Dashboard {
	now := b.Clock.Now()
	return b.build(&boardData{snapshot: b.Agenda.LoadingSnapshot(b.TenantID, now)}, now)
}

// Refresh fetches all sources and publishes a new state unless ctx is done. Until the
// first complete fetch, partial data is published as each source settles.
func (b *Board) Refresh(ctx context.Context) error {
	var progress FetchProgress
	if current := b.data.Load(); current == nil || !current.complete {
		progress = func(partial Snapshot) {
			b.data.Store(&boardData{snapshot: partial})
			b.publish(ctx, "progress")
		}
	}

	snap, err := b.Agenda.FetchWithProgress(ctx, b.TenantID, b.Clock.Now(), progress)
	if err != nil {
		return err
	}
	tasks, err := b.Brokers.FetchTasks(ctx, b.TenantID, snap.Brokers)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b.data.Store(&boardData{snapshot: snap, tasks: tasks, complete: true})
	b.publish(ctx, "refetch")
	return nil
}

// Recompute re-evaluates the fetched data against the current time without fetching.
func (b *Board) Recompute(ctx context.Context) {
	b.publish(ctx, "tick")
}

func (b *Board) publish(ctx context.Context, trigger string) {
	b.publishMu.Lock()
	defer b.publishMu.Unlock()

	data := b.data.Load()
	if data == nil {
		return
	}
	dash := b.build(data, b.Clock.Now())
	if ctx.Err() != nil {
		return
	}
	b.state.Store(&dash)
	boardRecomputeTotal.WithLabelValues(trigger).Inc()
}

func (b *Board) build(data *boardData, now time.Time) Dashboard {
	agenda := b.Agenda.Build(data.snapshot, now)
	if !data.complete {
		return ComposeDashboard(agenda, nil, SourceStatus{State: StateLoading})
	}
	statuses := ClassifyAll(data.snapshot.Brokers, data.tasks, now, b.Brokers.Settings)
	return ComposeDashboard(agenda, statuses, data.tasks.Status())
}

// Run blocks until ctx is done.
func (b *Board) Run(ctx context.Context) error {
	tick := b.Tick
	if tick <= 0 {
		tick = 30 * time.Second
	}
	if b.data.Load() == nil {
		now := b.Clock.Now()
		b.data.Store(&boardData{snapshot: b.Agenda.LoadingSnapshot(b.TenantID, now)})
		b.publish(ctx, "start")
	}
	if err := b.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		b.Logger.Error().Err(err).Str("tenant_id", b.TenantID).Msg("initial board fetch failed")
	}

	loc := b.Agenda.Settings.normalized().Location
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddFunc(b.Refetch, func() {
		if err := b.Refresh(ctx); err != nil && ctx.Err() == nil {
			b.Logger.Error().Err(err).Str("tenant_id", b.TenantID).Msg("board refetch failed")
		}
	}); err != nil {
		return fmt.Errorf("refetch schedule %q: %w", b.Refetch, err)
	}
	c.Start()
	defer func() { <-c.Stop().Done() }()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			b.Recompute(ctx)
		}
	}
}

type BoardConfig struct {
	Tenants []string
	Tick    time.Duration
	Refetch string
}

// BoardRegistry holds the live boards. The set of boards is fixed at construction.
type BoardRegistry struct {
	boards map[string]*Board
	logger zerolog.Logger
}

func NewBoardRegistry(cfg BoardConfig, agenda *AgendaService, brokers *BrokerStatusService, clk clock.Clock, logger zerolog.Logger) *BoardRegistry {
	r := &BoardRegistry{boards: make(map[string]*Board), logger: logger}
	for _, tenant := range cfg.Tenants {
		tenant = strings.TrimSpace(tenant)
		if tenant == "" {
			continue
		}
		r.boards[tenant] = &Board{
			TenantID: tenant,
			Agenda:   agenda,
			Brokers:  brokers,
			Clock:    clk,
			Tick:     cfg.Tick,
			Refetch:  cfg.Refetch,
			Logger:   logger,
		}
	}
	return r
}

func (r *BoardRegistry) Get(tenantID string) (*Board, bool) {
	if r == nil {
		return nil, false
	}
	b, ok := r.boards[tenantID]
	return b, ok
}

// Run starts every board and waits for all of them to stop.
func (r *BoardRegistry) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, b := range r.boards {
		wg.Add(1)
		go func(b *Board) {
			defer wg.Done()
			if err := b.Run(ctx); err != nil {
				r.logger.Error().Err(err).Str("tenant_id", b.TenantID).Msg("board stopped")
			}
		}(b)
	}
	wg.Wait()
}
