package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/officeboard/backend/internal/models"
)

type Store struct {
	Pool *pgxpool.Pool
	// EventFallback is the duration assumed for events stored without an end.
	EventFallback time.Duration
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool, EventFallback: time.Hour}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

// ListDutyShifts returns the tenant's shifts whose date range intersects [from, to].
func (s *Store) ListDutyShifts(ctx context.Context, tenantID string, from, to time.Time) ([]models.DutyShift, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, tenant_id, partner_name, responsible_name, daily_time, range_start, range_end, notes, attendance_responses
		FROM duty_shifts
		WHERE tenant_id = $1 AND range_start <= $3::date AND range_end >= $2::date
		ORDER BY range_start ASC, id ASC`,
		tenantID, dateOnly(from), dateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("list duty shifts: %w", err)
	}
	defer rows.Close()

	out := make([]models.DutyShift, 0)
	for rows.Next() {
		var sh models.DutyShift
		var responses []byte
		if err := rows.Scan(&sh.ID, &sh.TenantID, &sh.PartnerName, &sh.ResponsibleName, &sh.DailyTime,
			&sh.RangeStart, &sh.RangeEnd, &sh.Notes, &responses); err != nil {
			return nil, fmt.Errorf("scan duty shift: %w", err)
		}
		if sh.AttendanceResponses, err = decodeResponses(responses); err != nil {
			return nil, fmt.Errorf("duty shift %s: %w", sh.ID, err)
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

// ListCalendarEvents returns the tenant's events overlapping [from, to].
func (s *Store) ListCalendarEvents(ctx context.Context, tenantID string, from, to time.Time) ([]models.CalendarEvent, error) {
	fallback := s.EventFallback
	if fallback <= 0 {
		fallback = time.Hour
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, tenant_id, title, kind, location, responsible, start_at, end_at, attendance_responses
		FROM calendar_events
		WHERE tenant_id = $1 AND start_at <= $3 AND COALESCE(end_at, start_at + $4::interval) >= $2
		ORDER BY start_at ASC, id ASC`,
		tenantID, from, to, fallback)
	if err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}
	defer rows.Close()

	out := make([]models.CalendarEvent, 0)
	for rows.Next() {
		var ev models.CalendarEvent
		var kind string
		var responses []byte
		if err := rows.Scan(&ev.ID, &ev.TenantID, &ev.Title, &kind, &ev.Location, &ev.Responsible,
			&ev.Start, &ev.End, &responses); err != nil {
			return nil, fmt.Errorf("scan calendar event: %w", err)
		}
		ev.Kind = models.EventKind(kind)
		if ev.AttendanceResponses, err = decodeResponses(responses); err != nil {
			return nil, fmt.Errorf("calendar event %s: %w", ev.ID, err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// ListBrokers returns the tenant's brokers with one of the given account types, by name.
func (s *Store) ListBrokers(ctx context.Context, tenantID string, accountTypes []string) ([]models.Broker, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, name, photo_url, account_type, last_active_at
		FROM brokers
		WHERE tenant_id = $1 AND account_type = ANY($2)
		ORDER BY name ASC, id ASC`,
		tenantID, accountTypes)
	if err != nil {
		return nil, fmt.Errorf("list brokers: %w", err)
	}
	defer rows.Close()

	out := make([]models.Broker, 0)
	for rows.Next() {
		var b models.Broker
		if err := rows.Scan(&b.ID, &b.Name, &b.PhotoURL, &b.AccountType, &b.LastActiveAt); err != nil {
			return nil, fmt.Errorf("scan broker: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListPendingTasks returns pending follow-up tasks on the leads a broker owns.
func (s *Store) ListPendingTasks(ctx context.Context, tenantID, brokerID string) ([]models.FollowUpTask, error) {
	leadIDs, err := s.listLeadIDs(ctx, tenantID, brokerID)
	if err != nil {
		return nil, err
	}
	if len(leadIDs) == 0 {
		return []models.FollowUpTask{}, nil
	}

	rows, err := s.Pool.Query(ctx, `
		SELECT id, lead_id, due_at, status, type
		FROM follow_up_tasks
		WHERE lead_id = ANY($1) AND status = $2
		ORDER BY due_at ASC, id ASC`,
		leadIDs, string(models.TaskPending))
	if err != nil {
		return nil, fmt.Errorf("list follow-up tasks: %w", err)
	}
	defer rows.Close()

	out := make([]models.FollowUpTask, 0)
	for rows.Next() {
		var t models.FollowUpTask
		var status, typ string
		if err := rows.Scan(&t.ID, &t.LeadID, &t.Due, &status, &typ); err != nil {
			return nil, fmt.Errorf("scan follow-up task: %w", err)
		}
		t.Status = models.TaskStatus(status)
		t.Type = models.TaskType(typ)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) listLeadIDs(ctx context.Context, tenantID, brokerID string) ([]string, error) {
	rows, err := s.Pool.Query(ctx, `SELECT id FROM leads WHERE tenant_id = $1 AND owner_broker_id = $2`, tenantID, brokerID)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return ids, nil
}

func decodeResponses(raw []byte) (map[string]string, error) {
	out := make(map[string]string)
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode attendance responses: %w", err)
	}
	return out, nil
}

// dateOnly keeps the calendar date of t as seen in its own location.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
