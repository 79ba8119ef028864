package domain

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// NoReplace is passed as replaceIndex to TryAdmit to append the candidate instead of editing a slot.
const NoReplace = -1

// DayLayout is the date format of a program day (YYYY-MM-DD).
const DayLayout = "2006-01-02"

// Activity is one scheduled slot of a day program. Start and End are wall-clock HH:MM strings.
// swagger:model Activity
type Activity struct {
	Start     string `json:"start" yaml:"start"`
	End       string `json:"end" yaml:"end"`
	Label     string `json:"label" yaml:"label"`
	Presenter string `json:"presenter,omitempty" yaml:"presenter,omitempty"`
}

// Schedule is a day's activities, sorted ascending by Start with no two activities overlapping.
type Schedule []Activity

// DayProgram is the persisted schedule of one event day.
// swagger:model DayProgram
type DayProgram struct {
	EventID    string    `json:"event_id"`
	Day        string    `json:"day"`
	Activities Schedule  `json:"activities"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// RejectionReason names why a candidate activity was not admitted.
type RejectionReason string

const (
	ReasonMissingFields   RejectionReason = "missing_fields"
	ReasonInvertedRange   RejectionReason = "inverted_range"
	ReasonOverlapDetected RejectionReason = "overlap_detected"
)

// Rejection sentinels. A *Rejection unwraps to one of these.
var (
	ErrMissingFields   = errors.New("label, start and end are required")
	ErrInvertedRange   = errors.New("start must be before end")
	ErrOverlapDetected = errors.New("activity overlaps an existing activity")
)

// Rejection reports a candidate activity that could not be admitted into a schedule.
// It is a recoverable input error: the schedule it was checked against is left untouched.
type Rejection struct {
	Reason RejectionReason
	// ConflictingLabel and ConflictingIndex are set for ReasonOverlapDetected only.
	ConflictingLabel string
	ConflictingIndex int
}

func (r *Rejection) Error() string {
	if r.Reason == ReasonOverlapDetected {
		return fmt.Sprintf("activity overlaps %q", r.ConflictingLabel)
	}
	return r.Unwrap().Error()
}

func (r *Rejection) Unwrap() error {
	switch r.Reason {
	case ReasonMissingFields:
		return ErrMissingFields
	case ReasonInvertedRange:
		return ErrInvertedRange
	default:
		return ErrOverlapDetected
	}
}

// ParseClock parses a time of day ("H:MM", "HH:MM" or "HH:MM:SS") into minutes after midnight.
// Seconds are dropped.
func ParseClock(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	if len(parts[0]) < 1 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	if len(parts) == 3 {
		sec, err := strconv.Atoi(parts[2])
		if err != nil || len(parts[2]) != 2 || sec < 0 || sec > 59 {
			return 0, false
		}
	}
	return h*60 + m, true
}

// NormalizeClock returns s as a zero-padded HH:MM string, or "" if s is not a valid time of day.
func NormalizeClock(s string) string {
	minutes, ok := ParseClock(s)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Normalized returns a copy with trimmed text and zero-padded clocks.
func (a Activity) Normalized() Activity {
	return Activity{
		Start:     NormalizeClock(a.Start),
		End:       NormalizeClock(a.End),
		Label:     strings.TrimSpace(a.Label),
		Presenter: strings.TrimSpace(a.Presenter),
	}
}

// Overlaps reports whether the half-open ranges [a.Start, a.End) and [b.Start, b.End) intersect.
// Both activities must be normalized. Touching endpoints do not overlap.
func (a Activity) Overlaps(b Activity) bool {
	return a.Start < b.End && b.Start < a.End
}

// TryAdmit validates candidate against schedule and returns a new schedule containing it,
// sorted by start. With replaceIndex != NoReplace the candidate replaces that slot and is
// not checked against the slot's previous range. The input schedule is never modified.
//
// Checks run in order and the first failure is returned as a *Rejection:
// missing fields, inverted range, overlap with an existing activity.
func TryAdmit(schedule Schedule, candidate Activity, replaceIndex int) (Schedule, error) {
	if replaceIndex != NoReplace && (replaceIndex < 0 || replaceIndex >= len(schedule)) {
		return nil, fmt.Errorf("%w: replace index %d out of range", ErrInvalidInput, replaceIndex)
	}

	c := candidate.Normalized()
	if c.Label == "" || c.Start == "" || c.End == "" {
		return nil, &Rejection{Reason: ReasonMissingFields}
	}
	if c.Start >= c.End {
		return nil, &Rejection{Reason: ReasonInvertedRange}
	}
	for i, existing := range schedule {
		if i == replaceIndex {
			continue
		}
		if c.Overlaps(existing.Normalized()) {
			return nil, &Rejection{
				Reason:           ReasonOverlapDetected,
				ConflictingLabel: existing.Label,
				ConflictingIndex: i,
			}
		}
	}

	out := make(Schedule, 0, len(schedule)+1)
	out = append(out, schedule...)
	if replaceIndex == NoReplace {
		out = append(out, c)
	} else {
		out[replaceIndex] = c
	}
	slices.SortStableFunc(out, func(a, b Activity) int {
		return strings.Compare(NormalizeClock(a.Start), NormalizeClock(b.Start))
	})
	return out, nil
}

// BuildSchedule admits activities one by one into an empty schedule.
func BuildSchedule(activities []Activity) (Schedule, error) {
	s := Schedule{}
	for _, a := range activities {
		next, err := TryAdmit(s, a, NoReplace)
		if err != nil {
			return nil, err
		}
		s = next
	}
	return s, nil
}

// Validate reports the first rejection found when rebuilding s from scratch.
func (s Schedule) Validate() error {
	_, err := BuildSchedule(s)
	return err
}

// Remove returns a copy of s without the activity at index i.
func (s Schedule) Remove(i int) (Schedule, error) {
	if i < 0 || i >= len(s) {
		return nil, fmt.Errorf("%w: activity index %d out of range", ErrInvalidInput, i)
	}
	out := make(Schedule, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...), nil
}

// ParseDay parses a YYYY-MM-DD program day.
func ParseDay(day string) (time.Time, error) {
	t, err := time.Parse(DayLayout, strings.TrimSpace(day))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day must be YYYY-MM-DD", ErrInvalidInput)
	}
	return t, nil
}

// ProgramRepository stores day programs. A day is always written wholesale.
type ProgramRepository interface {
	GetDay(ctx context.Context, eventID, day string) (*DayProgram, error)
	ListByEventID(ctx context.Context, eventID string) ([]*DayProgram, error)
	ReplaceDay(ctx context.Context, program *DayProgram) error
	DeleteDay(ctx context.Context, eventID, day string) error
}

// ProgramFeed fetches an external schedule (e.g. Sessionize) to import as day programs.
type ProgramFeed interface {
	Fetch(ctx context.Context, feedID string) (ProgramFeedResponse, error)
}

// ProgramCalendarEncoder renders an event's programs as an iCalendar document.
type ProgramCalendarEncoder interface {
	Encode(event *Event, programs []*DayProgram) ([]byte, error)
}

// ProgramService defines the business logic for event day programs.
type ProgramService interface {
	Preview(ctx context.Context, schedule Schedule, candidate Activity, replaceIndex int) (Schedule, error)
	GetDayProgram(ctx context.Context, eventID, day string) (*DayProgram, error)
	ListPrograms(ctx context.Context, eventID string) ([]*DayProgram, error)
	AdmitActivity(ctx context.Context, eventID, ownerID, day string, candidate Activity, replaceIndex int) (*DayProgram, error)
	RemoveActivity(ctx context.Context, eventID, ownerID, day string, index int) (*DayProgram, error)
	ReplaceDayProgram(ctx context.Context, eventID, ownerID, day string, activities []Activity) (*DayProgram, error)
	DeleteDayProgram(ctx context.Context, eventID, ownerID, day string) error
	ImportSessionize(ctx context.Context, eventID, ownerID, sessionizeID string) ([]*DayProgram, error)
	ExportCalendar(ctx context.Context, eventID string) ([]byte, error)
}
