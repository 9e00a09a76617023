package export

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/bloodlink/bloodlink-api/internal/model"
)

const productID = "bloodlink"

// DonorCalendar builds an iCalendar feed of a donor's registered events.
// Events are all-day entries on the event date.
func DonorCalendar(regs []*model.RegistrationDetail, now time.Time) string {
	cal := ics.NewCalendarFor(productID)
	cal.SetMethod(ics.MethodPublish)
	cal.SetName("BloodLink Appointments")

	for _, r := range regs {
		ev := cal.AddEvent(fmt.Sprintf("%s@bloodlink", r.ID))
		ev.SetDtStampTime(now)
		ev.SetSummary(r.EventName)
		ev.SetLocation(r.EventLocation)
		ev.SetAllDayStartAt(r.EventDate)
		ev.SetAllDayEndAt(r.EventDate.AddDate(0, 0, 1))

		desc := []string{"Registration status: " + string(r.Status)}
		if r.EventTime != "" {
			desc = append(desc, "Starts at "+r.EventTime)
		}
		ev.SetDescription(strings.Join(desc, ". "))

		if model.EventStatus(r.EventStatus) == model.EventCancelled {
			ev.SetStatus(ics.ObjectStatusCancelled)
		} else {
			ev.SetStatus(ics.ObjectStatusConfirmed)
		}
	}
	return cal.Serialize()
}
