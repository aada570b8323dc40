package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/officeboard/backend/internal/clock"
	"github.com/officeboard/backend/internal/config"
	"github.com/officeboard/backend/internal/db"
	httpapi "github.com/officeboard/backend/internal/http"
	"github.com/officeboard/backend/internal/service"
)

type app struct {
	cfg     config.Config
	logger  zerolog.Logger
	store   *db.Store
	clock   clock.Clock
	agenda  *service.AgendaService
	brokers *service.BrokerStatusService
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := log.Level(level).With().Str("service", "officeboard").Logger()

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	if _, err := cron.ParseStandard(cfg.RefetchCron); err != nil {
		return nil, fmt.Errorf("REFETCH_CRON: %w", err)
	}

	settings := service.DefaultSettings()
	settings.Location = loc
	if h, m, ok := service.ParseDailyTime(cfg.ShiftDefaultTime); ok {
		settings.ShiftDefaultHour, settings.ShiftDefaultMinute = h, m
	} else {
		logger.Warn().Str("value", cfg.ShiftDefaultTime).Msg("invalid SHIFT_DEFAULT_TIME, using 09:00")
	}
	settings.ShiftDuration = cfg.ShiftDuration
	settings.EventDefaultDuration = cfg.EventDefaultDuration
	settings.InactiveAfter = cfg.InactiveAfter
	settings.ConfirmedResponse = cfg.ConfirmedResponse
	settings.BrokerAccountTypes = cfg.AccountTypes()
	settings.BrokerFanout = cfg.BrokerFanout
	settings.FetchRetries = cfg.FetchRetries

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	store.EventFallback = cfg.EventDefaultDuration

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		clock:   clock.NewSystem(loc),
		agenda:  &service.AgendaService{Source: store, Settings: settings, Logger: logger},
		brokers: &service.BrokerStatusService{Tasks: store, Settings: settings, Logger: logger},
	}, nil
}

func runServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.store.Close()

	boards := service.NewBoardRegistry(service.BoardConfig{
		Tenants: a.cfg.Tenants(),
		Tick:    a.cfg.ClockTick,
		Refetch: a.cfg.RefetchCron,
	}, a.agenda, a.brokers, a.clock, a.logger)

	router := httpapi.Router(a.cfg, httpapi.Deps{
		Store:   a.store,
		Agenda:  a.agenda,
		Brokers: a.brokers,
		Boards:  boards,
		Clock:   a.clock,
	}, a.logger)

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           http.TimeoutHandler(router, a.cfg.RequestTimeout, `{"error":{"code":"TIMEOUT","message":"Request timed out"}}`),
		ReadHeaderTimeout: 10 * time.Second,
	}

	boardsDone := make(chan struct{})
	go func() {
		defer close(boardsDone)
		boards.Run(ctx)
	}()

	go func() {
		a.logger.Info().Str("port", a.cfg.Port).Strs("boards", a.cfg.Tenants()).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	<-boardsDone
	a.logger.Info().Msg("server stopped")
	return nil
}

func runSnapshot(ctx context.Context, tenantID, date string, out io.Writer) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.store.Close()

	now := a.clock.Now()
	if date != "" {
		day, err := time.ParseInLocation(time.DateOnly, date, now.Location())
		if err != nil {
			return fmt.Errorf("--date: %w", err)
		}
		now = time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), now.Second(), 0, now.Location())
	}

	snap, err := a.agenda.Fetch(ctx, tenantID, now)
	if err != nil {
		return err
	}
	statuses, status, err := a.brokers.Statuses(ctx, tenantID, snap.Brokers, now)
	if err != nil {
		return err
	}
	dash := service.ComposeDashboard(a.agenda.Build(snap, now), statuses, status)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(dash)
}
