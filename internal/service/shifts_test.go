package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/officeboard/backend/internal/models"
)

func TestExpandDutyShiftsSingleDay(t *testing.T) {
	shift := models.DutyShift{
		ID:          "s1",
		PartnerName: "Residencial Aurora",
		DailyTime:   "14:30",
		RangeStart:  at(2025, 2, 20, 0, 0),
		RangeEnd:    at(2025, 2, 20, 0, 0),
	}

	got := ExpandDutyShifts([]models.DutyShift{shift}, dayWindow(2025, 2, 20), testSettings())

	require.Len(t, got, 1)
	assert.Equal(t, at(2025, 2, 20, 14, 30), got[0].Start)
	assert.Equal(t, at(2025, 2, 20, 16, 30), got[0].End)
	assert.Equal(t, "s1@2025-02-20", got[0].ID)
}

func TestExpandDutyShiftsMiddleDayOfRange(t *testing.T) {
	shift := models.DutyShift{
		ID:         "s1",
		DailyTime:  "09:00",
		RangeStart: at(2025, 2, 19, 0, 0),
		RangeEnd:   at(2025, 2, 21, 0, 0),
	}

	got := ExpandDutyShifts([]models.DutyShift{shift}, dayWindow(2025, 2, 20), testSettings())

	require.Len(t, got, 1)
	assert.Equal(t, at(2025, 2, 20, 9, 0), got[0].Start)
	assert.Equal(t, at(2025, 2, 20, 11, 0), got[0].End)
}

func TestExpandDutyShiftsWeekWindow(t *testing.T) {
	shift := models.DutyShift{
		ID:         "s1",
		DailyTime:  "08:15",
		RangeStart: at(2025, 2, 1, 0, 0),
		RangeEnd:   at(2025, 3, 31, 0, 0),
	}
	w := Window{Start: at(2025, 2, 20, 0, 0), End: time.Date(2025, 2, 22, 23, 59, 59, 999e6, brt)}

	got := ExpandDutyShifts([]models.DutyShift{shift}, w, testSettings())

	require.Len(t, got, 3)
	for i, day := range []int{20, 21, 22} {
		assert.Equal(t, at(2025, 2, day, 8, 15), got[i].Start)
	}
}

func TestExpandDutyShiftsDropsStartAfterWindowEnd(t *testing.T) {
	shift := models.DutyShift{
		ID:         "s1",
		DailyTime:  "18:00",
		RangeStart: at(2025, 2, 20, 0, 0),
		RangeEnd:   at(2025, 2, 20, 0, 0),
	}
	w := Window{Start: at(2025, 2, 20, 0, 0), End: at(2025, 2, 20, 12, 0)}

	assert.Empty(t, ExpandDutyShifts([]models.DutyShift{shift}, w, testSettings()))
}

func TestExpandDutyShiftsInvertedRange(t *testing.T) {
	shift := models.DutyShift{
		ID:         "s1",
		DailyTime:  "09:00",
		RangeStart: at(2025, 2, 21, 0, 0),
		RangeEnd:   at(2025, 2, 19, 0, 0),
	}

	assert.Empty(t, ExpandDutyShifts([]models.DutyShift{shift}, dayWindow(2025, 2, 20), testSettings()))
}

func TestExpandDutyShiftsOutsideWindow(t *testing.T) {
	shift := models.DutyShift{
		ID:         "s1",
		DailyTime:  "09:00",
		RangeStart: at(2025, 2, 10, 0, 0),
		RangeEnd:   at(2025, 2, 12, 0, 0),
	}

	assert.Empty(t, ExpandDutyShifts([]models.DutyShift{shift}, dayWindow(2025, 2, 20), testSettings()))
}

func TestExpandDutyShiftsMalformedTimeUsesDefault(t *testing.T) {
	for _, raw := range []string{"", "9h", "25:00", "10:75", "ab:cd"} {
		shift := models.DutyShift{
			ID:         "s1",
			DailyTime:  raw,
			RangeStart: at(2025, 2, 20, 0, 0),
			RangeEnd:   at(2025, 2, 20, 0, 0),
		}
		got := ExpandDutyShifts([]models.DutyShift{shift}, dayWindow(2025, 2, 20), testSettings())
		require.Len(t, got, 1, "daily time %q", raw)
		assert.Equal(t, at(2025, 2, 20, 9, 0), got[0].Start, "daily time %q", raw)
	}
}

func TestExpandDutyShiftsSortedByStart(t *testing.T) {
	shifts := []models.DutyShift{
		{ID: "late", DailyTime: "16:00", RangeStart: at(2025, 2, 20, 0, 0), RangeEnd: at(2025, 2, 20, 0, 0)},
		{ID: "early", DailyTime: "07:00", RangeStart: at(2025, 2, 20, 0, 0), RangeEnd: at(2025, 2, 20, 0, 0)},
	}

	got := ExpandDutyShifts(shifts, dayWindow(2025, 2, 20), testSettings())

	require.Len(t, got, 2)
	assert.Equal(t, "early@2025-02-20", got[0].ID)
	assert.Equal(t, "late@2025-02-20", got[1].ID)
}

func TestShiftOccurrenceSlot(t *testing.T) {
	o := ShiftOccurrence{
		ID:    "s1@2025-02-20",
		Shift: models.DutyShift{ID: "s1", PartnerName: "Aurora", ResponsibleName: "Carla"},
		Start: at(2025, 2, 20, 9, 0),
		End:   at(2025, 2, 20, 11, 0),
	}

	slot := o.Slot()

	assert.Equal(t, models.OriginShift, slot.Origin)
	assert.Equal(t, models.KindDutyShift, slot.Kind)
	assert.Equal(t, "Aurora", slot.Title)
	require.NotNil(t, slot.Responsible)
	assert.Equal(t, "Carla", *slot.Responsible)
	assert.False(t, slot.IsSalesAction)
}

func TestParseDailyTime(t *testing.T) {
	h, m, ok := ParseDailyTime("07:05")
	require.True(t, ok)
	assert.Equal(t, 7, h)
	assert.Equal(t, 5, m)

	h, m, ok = ParseDailyTime(" 23:59 ")
	require.True(t, ok)
	assert.Equal(t, 23, h)
	assert.Equal(t, 59, m)

	for _, raw := range []string{"24:00", "9:05", "9:5", "09:5", "+9:05", "-0:-0", "09:05:00", "0900", "12:60"} {
		_, _, ok = ParseDailyTime(raw)
		assert.False(t, ok, "daily time %q", raw)
	}
}
