package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/officeboard/backend/internal/models"
)

func TestExpandCalendarEventsDefaultEnd(t *testing.T) {
	ev := models.CalendarEvent{ID: "e1", Title: "Team meeting", Kind: models.KindMeeting, Start: at(2025, 2, 20, 15, 0)}

	got := ExpandCalendarEvents([]models.CalendarEvent{ev}, dayWindow(2025, 2, 20), testSettings())

	require.Len(t, got, 1)
	assert.Equal(t, "e1", got[0].ID)
	assert.Equal(t, at(2025, 2, 20, 16, 0), got[0].End)
	assert.False(t, got[0].Slot().IsSalesAction)
}

func TestExpandCalendarEventsSalesAction(t *testing.T) {
	ev := models.CalendarEvent{
		ID:    "e2",
		Kind:  models.KindOutboundCall,
		Start: at(2025, 2, 20, 10, 0),
		End:   timePtr(at(2025, 2, 20, 10, 30)),
	}

	got := ExpandCalendarEvents([]models.CalendarEvent{ev}, dayWindow(2025, 2, 20), testSettings())

	require.Len(t, got, 1)
	slot := got[0].Slot()
	assert.True(t, slot.IsSalesAction)
	assert.Equal(t, at(2025, 2, 20, 10, 0), slot.Start)
	assert.Equal(t, at(2025, 2, 20, 10, 30), slot.End)
}

func TestExpandCalendarEventsMultiDay(t *testing.T) {
	// Monday 18:00 through Wednesday 09:00.
	ev := models.CalendarEvent{
		ID:    "conf",
		Kind:  models.KindEvent,
		Start: at(2025, 2, 17, 18, 0),
		End:   timePtr(at(2025, 2, 19, 9, 0)),
	}
	w := Window{Start: at(2025, 2, 16, 0, 0), End: time.Date(2025, 2, 22, 23, 59, 59, 999e6, brt)}

	got := ExpandCalendarEvents([]models.CalendarEvent{ev}, w, testSettings())

	require.Len(t, got, 3)
	assert.Equal(t, "conf@2025-02-17", got[0].ID)
	assert.Equal(t, at(2025, 2, 17, 18, 0), got[0].Start)
	assert.Equal(t, time.Date(2025, 2, 17, 23, 59, 59, 999e6, brt), got[0].End)

	assert.Equal(t, "conf@2025-02-18", got[1].ID)
	assert.Equal(t, at(2025, 2, 18, 0, 0), got[1].Start)
	assert.Equal(t, time.Date(2025, 2, 18, 23, 59, 59, 999e6, brt), got[1].End)

	assert.Equal(t, "conf@2025-02-19", got[2].ID)
	assert.Equal(t, at(2025, 2, 19, 0, 0), got[2].Start)
	assert.Equal(t, at(2025, 2, 19, 9, 0), got[2].End)
}

func TestExpandCalendarEventsInteriorDaysKeepTimeOfDay(t *testing.T) {
	// 09:00 Monday through 17:00 Thursday runs 09:00-17:00 on the days in between.
	ev := models.CalendarEvent{
		ID:    "fair",
		Start: at(2025, 2, 17, 9, 0),
		End:   timePtr(at(2025, 2, 20, 17, 0)),
	}

	got := ExpandCalendarEvents([]models.CalendarEvent{ev}, dayWindow(2025, 2, 18), testSettings())

	require.Len(t, got, 1)
	assert.Equal(t, at(2025, 2, 18, 9, 0), got[0].Start)
	assert.Equal(t, at(2025, 2, 18, 17, 0), got[0].End)
	assert.Equal(t, models.KindOther, got[0].Slot().Kind)
}

func TestExpandCalendarEventsClippedToWindow(t *testing.T) {
	ev := models.CalendarEvent{
		ID:    "conf",
		Start: at(2025, 2, 19, 18, 0),
		End:   timePtr(at(2025, 2, 21, 9, 0)),
	}
	w := Window{Start: at(2025, 2, 20, 0, 0), End: at(2025, 2, 20, 12, 0)}

	got := ExpandCalendarEvents([]models.CalendarEvent{ev}, w, testSettings())

	require.Len(t, got, 1)
	assert.Equal(t, at(2025, 2, 20, 0, 0), got[0].Start)
	assert.Equal(t, at(2025, 2, 20, 12, 0), got[0].End)
}

func TestExpandCalendarEventsEndingAtMidnight(t *testing.T) {
	ev := models.CalendarEvent{
		ID:    "party",
		Start: at(2025, 2, 20, 20, 0),
		End:   timePtr(at(2025, 2, 21, 0, 0)),
	}
	w := Window{Start: at(2025, 2, 20, 0, 0), End: time.Date(2025, 2, 22, 23, 59, 59, 999e6, brt)}

	got := ExpandCalendarEvents([]models.CalendarEvent{ev}, w, testSettings())

	require.Len(t, got, 1)
	assert.Equal(t, "party", got[0].ID)
}

func TestExpandCalendarEventsOutsideWindow(t *testing.T) {
	events := []models.CalendarEvent{
		{ID: "before", Start: at(2025, 2, 19, 10, 0)},
		{ID: "after", Start: at(2025, 2, 21, 10, 0)},
	}

	assert.Empty(t, ExpandCalendarEvents(events, dayWindow(2025, 2, 20), testSettings()))
}

func TestExpandCalendarEventsSortedByStart(t *testing.T) {
	events := []models.CalendarEvent{
		{ID: "b", Start: at(2025, 2, 20, 16, 0)},
		{ID: "a", Start: at(2025, 2, 20, 8, 0)},
	}

	got := ExpandCalendarEvents(events, dayWindow(2025, 2, 20), testSettings())

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}
