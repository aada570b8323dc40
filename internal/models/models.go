package models

import "time"

type EventKind string

const (
	KindMeeting          EventKind = "meeting"
	KindEvent            EventKind = "event"
	KindTraining         EventKind = "training"
	KindReviewCRM        EventKind = "review-crm"
	KindOutboundCall     EventKind = "outbound-call"
	KindStreetAction     EventKind = "street-action"
	KindBroadcastMessage EventKind = "broadcast-message"
	KindOther            EventKind = "other"

	// KindDutyShift is only ever set on slots derived from duty shifts.
	KindDutyShift EventKind = "duty-shift"
)

// IsSalesAction reports whether slots of this kind are grouped as sales actions.
func (k EventKind) IsSalesAction() bool {
	switch k {
	case KindReviewCRM, KindOutboundCall, KindStreetAction, KindBroadcastMessage:
		return true
	default:
		return false
	}
}

// Label is the display name used on corporate agenda cards.
func (k EventKind) Label() string {
	switch k {
	case KindMeeting:
		return "Meeting"
	case KindEvent:
		return "Event"
	case KindTraining:
		return "Training"
	case KindReviewCRM:
		return "CRM Review"
	case KindOutboundCall:
		return "Outbound Calls"
	case KindStreetAction:
		return "Street Action"
	case KindBroadcastMessage:
		return "Broadcast Message"
	case KindDutyShift:
		return "Duty Shift"
	default:
		return "Other"
	}
}

type Origin string

const (
	OriginShift Origin = "shift"
	OriginEvent Origin = "event"
)

type DutyShift struct {
	ID                  string            `json:"id"`
	TenantID            string            `json:"tenant_id"`
	PartnerName         string            `json:"partner_name"`
	ResponsibleName     string            `json:"responsible_name"`
	DailyTime           string            `json:"daily_time"`
	RangeStart          time.Time         `json:"range_start"`
	RangeEnd            time.Time         `json:"range_end"`
	Notes               *string           `json:"notes,omitempty"`
	AttendanceResponses map[string]string `json:"attendance_responses"`
}

type CalendarEvent struct {
	ID                  string            `json:"id"`
	TenantID            string            `json:"tenant_id"`
	Title               string            `json:"title"`
	Kind                EventKind         `json:"kind"`
	Location            *string           `json:"location,omitempty"`
	Responsible         *string           `json:"responsible,omitempty"`
	Start               time.Time         `json:"start"`
	End                 *time.Time        `json:"end,omitempty"`
	AttendanceResponses map[string]string `json:"attendance_responses"`
}

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskDone      TaskStatus = "done"
	TaskCancelled TaskStatus = "cancelled"
)

type TaskType string

const (
	TaskCall     TaskType = "call"
	TaskWhatsApp TaskType = "whatsapp"
	TaskVisit    TaskType = "visit"
)

type FollowUpTask struct {
	ID     string     `json:"id"`
	LeadID string     `json:"lead_id"`
	Due    time.Time  `json:"due"`
	Status TaskStatus `json:"status"`
	Type   TaskType   `json:"type"`
}

type Broker struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	PhotoURL     *string    `json:"photo_url,omitempty"`
	AccountType  string     `json:"account_type"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty"`
}

type Slot struct {
	ID            string    `json:"id"`
	Origin        Origin    `json:"origin"`
	Title         string    `json:"title"`
	Kind          EventKind `json:"kind"`
	Location      *string   `json:"location,omitempty"`
	Responsible   *string   `json:"responsible,omitempty"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	IsSalesAction bool      `json:"is_sales_action"`
}

type Attendee struct {
	Name     string  `json:"name"`
	PhotoURL *string `json:"photo_url,omitempty"`
}

type CorporateAgendaItem struct {
	Origin             Origin     `json:"origin"`
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	KindLabel          string     `json:"kind_label"`
	Start              time.Time  `json:"start"`
	End                time.Time  `json:"end"`
	ConfirmedAttendees []Attendee `json:"confirmed_attendees"`
}

type Tier string

const (
	TierOverdue    Tier = "overdue"
	TierDueToday   Tier = "due-today"
	TierNoTask     Tier = "no-task"
	TierInactive24 Tier = "inactive-24h"
	TierUnknown    Tier = "unknown"
)

// Priority orders tiers for display; lower comes first.
func (t Tier) Priority() int {
	switch t {
	case TierOverdue:
		return 0
	case TierDueToday:
		return 1
	case TierNoTask:
		return 2
	case TierInactive24:
		return 3
	default:
		return 4
	}
}

type BrokerStatus struct {
	BrokerID string  `json:"broker_id"`
	Name     string  `json:"name"`
	PhotoURL *string `json:"photo_url,omitempty"`
	Tier     Tier    `json:"tier"`
}
