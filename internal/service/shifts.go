package service

import (
	"sort"
	"time"

	"github.com/officeboard/backend/internal/models"
	"github.com/officeboard/backend/internal/utils"
)

// Window is an inclusive time range.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ShiftOccurrence is one day of a duty shift.
type ShiftOccurrence struct {
	ID    string
	Shift models.DutyShift
	Day   time.Time
	Start time.Time
	End   time.Time
}

func (o ShiftOccurrence) Slot() models.Slot {
	slot := models.Slot{
		ID:     o.ID,
		Origin: models.OriginShift,
		Title:  o.Shift.PartnerName,
		Kind:   models.KindDutyShift,
		Start:  o.Start,
		End:    o.End,
	}
	if o.Shift.ResponsibleName != "" {
		name := o.Shift.ResponsibleName
		slot.Responsible = &name
	}
	return slot
}

// ExpandDutyShifts produces one occurrence per calendar day a shift covers inside w,
// ordered by start. Shifts with an inverted range produce nothing.
func ExpandDutyShifts(shifts []models.DutyShift, w Window, settings Settings) []ShiftOccurrence {
	settings = settings.normalized()
	loc := settings.Location
	ws, we := w.Start.In(loc), w.End.In(loc)

	out := make([]ShiftOccurrence, 0)
	for _, sh := range shifts {
		first := dateIn(sh.RangeStart, loc)
		last := dateIn(sh.RangeEnd, loc)
		if last.Before(first) {
			continue
		}
		if utils.EndOfDay(last).Before(ws) || first.After(we) {
			continue
		}

		hour, minute, ok := ParseDailyTime(sh.DailyTime)
		if !ok {
			hour, minute = settings.ShiftDefaultHour, settings.ShiftDefaultMinute
		}

		from := utils.StartOfDay(utils.MaxTime(ws, first))
		to := utils.MinTime(we, utils.EndOfDay(last))
		for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
			start := utils.AtTime(day, hour, minute)
			if start.After(we) {
				break
			}
			out = append(out, ShiftOccurrence{
				ID:    occurrenceID(sh.ID, day),
				Shift: sh,
				Day:   day,
				Start: start,
				End:   start.Add(settings.ShiftDuration),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// dateIn reads the calendar date of a date-only value and pins it to midnight in loc.
func dateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func occurrenceID(id string, day time.Time) string {
	return id + "@" + day.Format(time.DateOnly)
}
