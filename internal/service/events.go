package service

import (
	"sort"
	"time"

	"github.com/officeboard/backend/internal/models"
	"github.com/officeboard/backend/internal/utils"
)

// EventOccurrence is an event, or one calendar day of a multi-day event.
type EventOccurrence struct {
	ID    string
	Event models.CalendarEvent
	Day   time.Time
	Start time.Time
	End   time.Time
}

func (o EventOccurrence) Slot() models.Slot {
	kind := o.Event.Kind
	if kind == "" {
		kind = models.KindOther
	}
	return models.Slot{
		ID:            o.ID,
		Origin:        models.OriginEvent,
		Title:         o.Event.Title,
		Kind:          kind,
		Location:      o.Event.Location,
		Responsible:   o.Event.Responsible,
		Start:         o.Start,
		End:           o.End,
		IsSalesAction: kind.IsSalesAction(),
	}
}

// EffectiveEnd returns the event end, or start plus the default duration when no end is stored.
func EffectiveEnd(ev models.CalendarEvent, settings Settings) time.Time {
	if ev.End != nil {
		return *ev.End
	}
	return ev.Start.Add(settings.normalized().EventDefaultDuration)
}

// ExpandCalendarEvents converts events overlapping w into occurrences ordered by start.
// Single-day events keep their real bounds; multi-day events are split per day and clipped to w.
func ExpandCalendarEvents(events []models.CalendarEvent, w Window, settings Settings) []EventOccurrence {
	settings = settings.normalized()
	loc := settings.Location
	ws, we := w.Start.In(loc), w.End.In(loc)

	out := make([]EventOccurrence, 0)
	for _, ev := range events {
		start := ev.Start.In(loc)
		end := EffectiveEnd(ev, settings).In(loc)
		if end.Before(start) {
			end = start
		}
		if end.Before(ws) || start.After(we) {
			continue
		}

		firstDay := utils.StartOfDay(start)
		lastDay := utils.StartOfDay(end)
		// an event ending exactly at midnight belongs to the previous day
		if end.After(start) && end.Equal(lastDay) {
			lastDay = lastDay.AddDate(0, 0, -1)
		}
		if !lastDay.After(firstDay) {
			out = append(out, EventOccurrence{ID: ev.ID, Event: ev, Day: firstDay, Start: start, End: end})
			continue
		}

		from := utils.MaxTime(firstDay, utils.StartOfDay(ws))
		to := utils.MinTime(lastDay, utils.StartOfDay(we))
		for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
			var segStart, segEnd time.Time
			switch {
			case day.Equal(firstDay):
				segStart, segEnd = start, utils.EndOfDay(day)
			case day.Equal(lastDay):
				segStart, segEnd = utils.AtTime(day, start.Hour(), start.Minute()), end
				if !segStart.Before(segEnd) {
					segStart = day
				}
			default:
				segStart = utils.AtTime(day, start.Hour(), start.Minute())
				segEnd = utils.AtTime(day, end.Hour(), end.Minute())
				if !segStart.Before(segEnd) {
					segStart, segEnd = day, utils.EndOfDay(day)
				}
			}
			segStart = utils.MaxTime(segStart, ws)
			segEnd = utils.MinTime(segEnd, we)
			if segEnd.Before(segStart) {
				continue
			}
			out = append(out, EventOccurrence{
				ID:    occurrenceID(ev.ID, day),
				Event: ev,
				Day:   day,
				Start: segStart,
				End:   segEnd,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}
