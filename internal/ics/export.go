package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/officeboard/backend/internal/models"
)

const productID = "-//officeboard//agenda//EN"

// WeekCalendar renders slots as a published iCalendar feed. Slot IDs become UIDs
// scoped by tenant so subscribers can update occurrences in place.
func WeekCalendar(tenantID string, slots []models.Slot, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetProductId(productID)
	cal.SetMethod(ical.MethodPublish)
	cal.SetXWRCalName(fmt.Sprintf("Office agenda (%s)", tenantID))

	for _, slot := range slots {
		ev := cal.AddEvent(fmt.Sprintf("%s/%s@officeboard", tenantID, slot.ID))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(slot.Start)
		ev.SetEndAt(slot.End)
		ev.SetSummary(slot.Title)
		ev.SetProperty(ical.ComponentPropertyCategories, slot.Kind.Label())
		if slot.Location != nil && *slot.Location != "" {
			ev.SetLocation(*slot.Location)
		}
		if slot.Responsible != nil && *slot.Responsible != "" {
			ev.SetDescription("Responsible: " + *slot.Responsible)
		}
	}
	return cal.Serialize()
}
