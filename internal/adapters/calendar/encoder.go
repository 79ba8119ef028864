package calendar

import (
	"fmt"
	"time"

	"churchevents/internal/domain"

	ical "github.com/arran4/golang-ical"
)

const productID = "-//churchevents//program export//EN"

type icsEncoder struct {
	loc *time.Location
	now func() time.Time
}

// NewICSEncoder returns a ProgramCalendarEncoder that writes one VEVENT per activity.
// Program wall-clock times are read in loc.
func NewICSEncoder(loc *time.Location) domain.ProgramCalendarEncoder {
	if loc == nil {
		loc = time.UTC
	}
	return &icsEncoder{loc: loc, now: time.Now}
}

func (e *icsEncoder) Encode(event *domain.Event, programs []*domain.DayProgram) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetName(event.Name)
	cal.SetXWRTimezone(e.loc.String())

	stamp := e.now().UTC()
	for _, p := range programs {
		day, err := time.ParseInLocation(domain.DayLayout, p.Day, e.loc)
		if err != nil {
			return nil, fmt.Errorf("program day %q: %w", p.Day, err)
		}
		for i, a := range p.Activities {
			start, ok := domain.ParseClock(a.Start)
			if !ok {
				return nil, fmt.Errorf("activity %q: bad start %q", a.Label, a.Start)
			}
			end, ok := domain.ParseClock(a.End)
			if !ok {
				return nil, fmt.Errorf("activity %q: bad end %q", a.Label, a.End)
			}
			ve := cal.AddEvent(fmt.Sprintf("%s-%s-%d@churchevents", event.ID, p.Day, i))
			ve.SetDtStampTime(stamp)
			ve.SetStartAt(atMinute(day, start))
			ve.SetEndAt(atMinute(day, end))
			ve.SetSummary(a.Label)
			if a.Presenter != "" {
				ve.SetDescription("Presenter: " + a.Presenter)
			}
			if event.Venue != nil && *event.Venue != "" {
				ve.SetLocation(*event.Venue)
			}
		}
	}
	return []byte(cal.Serialize()), nil
}

// atMinute returns the instant minute minutes after local midnight of day.
func atMinute(day time.Time, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), minute/60, minute%60, 0, 0, day.Location())
}
