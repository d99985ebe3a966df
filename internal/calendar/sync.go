// Package calendar reconciles parsed timetables against Google Calendar:
// one recurring event per class, per-class outcome accounting, paced
// sequential external calls, and bulk cleanup by student marker.
package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/Ankitrj3/Encrypt-Edge-TIme-Table/internal/student"
	"github.com/Ankitrj3/Encrypt-Edge-TIme-Table/internal/timetable"
)

// Google Calendar color IDs: practicals stand out from lectures.
const (
	colorPractical = "5"
	colorDefault   = "9"
)

const reminderMinutes = 10

// Pacing spaces out external calendar calls to stay under provider rate
// limits. Calls are sequential; the delay sits between successive calls.
type Pacing struct {
	CreateDelay time.Duration
	DeleteDelay time.Duration
}

// DefaultPacing matches the provider's observed tolerance.
var DefaultPacing = Pacing{
	CreateDelay: 200 * time.Millisecond,
	DeleteDelay: 100 * time.Millisecond,
}

// Authorizer reports whether a token is currently held.
type Authorizer interface {
	Authenticated() bool
}

// Outcome is the result of attempting one class against the calendar.
type Outcome struct {
	Class     timetable.ClassSlot `json:"class"`
	EventID   string              `json:"eventId,omitempty"`
	EventLink string              `json:"eventLink,omitempty"`
	Reason    string              `json:"reason,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// Result collects every class's outcome for one sync run. Each class lands
// in exactly one of the three buckets; nothing is discarded.
type Result struct {
	Success []Outcome `json:"success"`
	Failed  []Outcome `json:"failed"`
	Skipped []Outcome `json:"skipped"`
}

// Status derives the coarse per-student sync status from the tally.
func (r *Result) Status() string {
	if len(r.Failed) == 0 {
		return "synced"
	}
	return "partial"
}

// Reconciler maps timetables onto calendar events. Runs are additive: the
// reconciler never deduplicates, so re-sync without an intervening delete
// produces a second full set of events.
type Reconciler struct {
	api    API
	auth   Authorizer
	loc    *time.Location
	pacing Pacing
	log    *zap.Logger

	// now is swapped in tests to pin the weekday math.
	now func() time.Time
}

// NewReconciler creates a Reconciler. A nil logger disables logging.
func NewReconciler(api API, auth Authorizer, loc *time.Location, pacing Pacing, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{
		api:    api,
		auth:   auth,
		loc:    loc,
		pacing: pacing,
		log:    log,
		now:    time.Now,
	}
}

// Sync attempts, in table order, to create one weekly recurring event per
// class. Classes with incomplete day/time data are skipped without an
// external call; provider failures are recorded per class and never abort
// the remaining classes. An authentication failure is fatal to the whole
// attempt.
func (r *Reconciler) Sync(ctx context.Context, tt *timetable.Timetable, st student.Student) (*Result, error) {
	if !r.auth.Authenticated() {
		return nil, fmt.Errorf("not authenticated with the calendar provider")
	}

	result := &Result{
		Success: []Outcome{},
		Failed:  []Outcome{},
		Skipped: []Outcome{},
	}

	for _, class := range tt.Classes {
		if !class.Complete() {
			result.Skipped = append(result.Skipped, Outcome{
				Class:  class,
				Reason: "incomplete time or day information",
			})
			continue
		}

		ev := r.buildEvent(class, tt, st)
		created, err := r.api.CreateEvent(ctx, ev)
		if err != nil {
			r.log.Warn("event creation failed",
				zap.String("regNo", st.RegNo),
				zap.String("course", class.Course),
				zap.Error(err))
			result.Failed = append(result.Failed, Outcome{
				Class: class,
				Error: err.Error(),
			})
		} else {
			r.log.Debug("created event",
				zap.String("regNo", st.RegNo),
				zap.String("course", class.Course),
				zap.String("day", class.Day),
				zap.String("eventId", created.Id))
			result.Success = append(result.Success, Outcome{
				Class:     class,
				EventID:   created.Id,
				EventLink: created.HtmlLink,
			})
		}

		sleepCtx(ctx, r.pacing.CreateDelay)
	}

	r.log.Info("sync run complete",
		zap.String("regNo", st.RegNo),
		zap.Int("created", len(result.Success)),
		zap.Int("failed", len(result.Failed)),
		zap.Int("skipped", len(result.Skipped)))
	return result, nil
}

// buildEvent spans the class's next future occurrence in the institution's
// time zone with a weekly recurrence rule and a single popup reminder.
func (r *Reconciler) buildEvent(class timetable.ClassSlot, tt *timetable.Timetable, st student.Student) *gcal.Event {
	date := timetable.NextOccurrence(class.Day, r.now().In(r.loc))
	start := atHour(date, class.StartTime, r.loc)
	end := atHour(date, class.EndTime, r.loc)

	section := class.Section
	if section == "" {
		section = tt.Section
	}
	if section == "" {
		section = "N/A"
	}

	color := colorDefault
	if class.Type == timetable.Practical {
		color = colorPractical
	}

	description := strings.Join([]string{
		"Student: " + st.Name,
		"Reg No: " + st.RegNo,
		"Section: " + section,
		"Type: " + string(class.Type),
		"Room: " + class.Room,
	}, "\n")

	return &gcal.Event{
		Summary:     fmt.Sprintf("%s - Room %s", class.Course, class.Room),
		Description: description,
		Location:    "Room " + class.Room,
		Start: &gcal.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: r.loc.String(),
		},
		End: &gcal.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: r.loc.String(),
		},
		Recurrence: []string{
			"RRULE:FREQ=WEEKLY;BYDAY=" + rruleDay[class.Day],
		},
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides: []*gcal.EventReminder{
				{Method: "popup", Minutes: reminderMinutes},
			},
			ForceSendFields: []string{"UseDefault"},
		},
		ColorId: color,
	}
}

// DeleteStudentEvents removes every event whose description carries the
// student's registration number. Listing failures abort the whole operation;
// deletion proceeds sequentially with pacing and returns the count removed.
func (r *Reconciler) DeleteStudentEvents(ctx context.Context, regNo string) (int, error) {
	if !r.auth.Authenticated() {
		return 0, fmt.Errorf("not authenticated with the calendar provider")
	}

	events, err := r.api.ListEvents(ctx, regNo)
	if err != nil {
		return 0, fmt.Errorf("listing events for %s: %w", regNo, err)
	}

	deleted := 0
	for _, ev := range events {
		if !strings.Contains(ev.Description, regNo) {
			continue
		}
		if err := r.api.DeleteEvent(ctx, ev.Id); err != nil {
			return deleted, fmt.Errorf("deleting events for %s: %w", regNo, err)
		}
		deleted++
		sleepCtx(ctx, r.pacing.DeleteDelay)
	}

	r.log.Info("deleted student events",
		zap.String("regNo", regNo),
		zap.Int("deleted", deleted))
	return deleted, nil
}

var rruleDay = map[string]string{
	"Monday":    "MO",
	"Tuesday":   "TU",
	"Wednesday": "WE",
	"Thursday":  "TH",
	"Friday":    "FR",
	"Saturday":  "SA",
	"Sunday":    "SU",
}

// atHour places an "HH:00" time onto a date in the given location.
func atHour(date time.Time, hhmm string, loc *time.Location) time.Time {
	var hour, minute int
	fmt.Sscanf(hhmm, "%d:%d", &hour, &minute)
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, loc)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
