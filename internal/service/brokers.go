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

// TaskSource reads pending follow-up tasks on leads owned by a broker.
type TaskSource interface {
	ListPendingTasks(ctx context.Context, tenantID, brokerID string) ([]models.FollowUpTask, error)
}

// BrokerTasks holds the result of one fan-out over the broker directory.
type BrokerTasks struct {
	Tasks  map[string][]models.FollowUpTask
	Failed map[string]error
}

func (bt BrokerTasks) Status() SourceStatus {
	if len(bt.Tasks) == 0 && len(bt.Failed) > 0 {
		return SourceStatus{State: StateError, Failed: len(bt.Failed)}
	}
	return SourceStatus{State: StateReady, Count: len(bt.Tasks), Failed: len(bt.Failed)}
}

type BrokerStatusService struct {
	Tasks    TaskSource
	Settings Settings
	Logger   zerolog.Logger
}

// FetchTasks looks up every broker's tasks concurrently. A failed lookup is recorded
// in Failed and never cancels the other lookups.
func (s *BrokerStatusService) FetchTasks(ctx context.Context, tenantID string, brokers []models.Broker) (BrokerTasks, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return BrokerTasks{}, ErrTenantRequired
	}
	settings := s.Settings.normalized()

	result := BrokerTasks{
		Tasks:  make(map[string][]models.FollowUpTask, len(brokers)),
		Failed: make(map[string]error),
	}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(settings.BrokerFanout)
	for _, b := range brokers {
		brokerID := b.ID
		g.Go(func() error {
			var tasks []models.FollowUpTask
			err := withRetry(ctx, settings.FetchRetries, func() error {
				var err error
				tasks, err = s.Tasks.ListPendingTasks(ctx, tenantID, brokerID)
				return err
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed[brokerID] = err
				brokerLookupFailures.Inc()
				if ctx.Err() == nil {
					s.Logger.Error().Err(err).Str("tenant_id", tenantID).Str("broker_id", brokerID).Msg("broker task lookup failed")
				}
				return nil
			}
			result.Tasks[brokerID] = tasks
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return BrokerTasks{}, err
	}
	return result, nil
}

// Statuses fetches tasks and classifies the brokers against now.
func (s *BrokerStatusService) Statuses(ctx context.Context, tenantID string, brokers []models.Broker, now time.Time) ([]models.BrokerStatus, SourceStatus, error) {
	bt, err := s.FetchTasks(ctx, tenantID, brokers)
	if err != nil {
		return nil, SourceStatus{}, err
	}
	return ClassifyAll(brokers, bt, now, s.Settings), bt.Status(), nil
}

// ClassifyAll returns one status per broker in display order. Brokers whose lookup
// failed are reported as unknown.
func ClassifyAll(brokers []models.Broker, bt BrokerTasks, now time.Time, settings Settings) []models.BrokerStatus {
	settings = settings.normalized()
	statuses := make([]models.BrokerStatus, 0, len(brokers))
	for _, b := range brokers {
		tier := models.TierUnknown
		if _, failed := bt.Failed[b.ID]; !failed {
			tier = ClassifyBroker(b, bt.Tasks[b.ID], now.In(settings.Location), settings.InactiveAfter)
		}
		statuses = append(statuses, models.BrokerStatus{
			BrokerID: b.ID,
			Name:     b.Name,
			PhotoURL: b.PhotoURL,
			Tier:     tier,
		})
	}
	return SortBrokerStatuses(statuses)
}

// ClassifyBroker applies the tier rules in order: overdue, due today, inactive, no task.
// Only pending call and visit tasks count. Due dates compare by calendar day in now's location.
func ClassifyBroker(b models.Broker, tasks []models.FollowUpTask, now time.Time, inactiveAfter time.Duration) models.Tier {
	today := utils.StartOfDay(now)

	pending := 0
	dueToday := false
	for _, task := range tasks {
		if task.Status != models.TaskPending {
			continue
		}
		if task.Type != models.TaskCall && task.Type != models.TaskVisit {
			continue
		}
		pending++
		due := utils.StartOfDay(task.Due.In(now.Location()))
		if due.Before(today) {
			return models.TierOverdue
		}
		if due.Equal(today) {
			dueToday = true
		}
	}
	if dueToday {
		return models.TierDueToday
	}
	if pending == 0 && b.LastActiveAt != nil && now.Sub(*b.LastActiveAt) > inactiveAfter {
		return models.TierInactive24
	}
	return models.TierNoTask
}

// SortBrokerStatuses returns a copy ordered by tier priority, keeping input order within a tier.
func SortBrokerStatuses(statuses []models.BrokerStatus) []models.BrokerStatus {
	out := make([]models.BrokerStatus, len(statuses))
	copy(out, statuses)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Tier.Priority() < out[j].Tier.Priority()
	})
	return out
}
