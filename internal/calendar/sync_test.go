package calendar

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/Ankitrj3/Encrypt-Edge-TIme-Table/internal/student"
	"github.com/Ankitrj3/Encrypt-Edge-TIme-Table/internal/timetable"
)

type fakeAuth struct{ ok bool }

func (f fakeAuth) Authenticated() bool { return f.ok }

// fakeAPI records calls and can be told to fail per course or per event ID.
type fakeAPI struct {
	created    []*gcal.Event
	failCreate map[string]error // keyed by event summary
	listed     []*gcal.Event
	listErr    error
	deleted    []string
	deleteErr  map[string]error
}

func (f *fakeAPI) CreateEvent(_ context.Context, ev *gcal.Event) (*gcal.Event, error) {
	if err, ok := f.failCreate[ev.Summary]; ok {
		return nil, err
	}
	f.created = append(f.created, ev)
	out := *ev
	out.Id = fmt.Sprintf("evt-%d", len(f.created))
	out.HtmlLink = "https://calendar.example/" + out.Id
	return &out, nil
}

func (f *fakeAPI) ListEvents(_ context.Context, _ string) ([]*gcal.Event, error) {
	return f.listed, f.listErr
}

func (f *fakeAPI) DeleteEvent(_ context.Context, eventID string) error {
	if err, ok := f.deleteErr[eventID]; ok {
		return err
	}
	f.deleted = append(f.deleted, eventID)
	return nil
}

func testStudent() student.Student {
	return student.Student{Name: "Paramjit Singh", RegNo: "12311061", Phone: "9876543210"}
}

func testTimetable() *timetable.Timetable {
	tt := timetable.New("12311061")
	tt.Add(timetable.ClassSlot{
		Day: "Monday", StartTime: "10:00", EndTime: "11:00",
		Course: "CSE310", Room: "25-301", Section: "K22EI", Type: timetable.Lecture,
	})
	tt.Add(timetable.ClassSlot{
		Day: "Tuesday", StartTime: "14:00", EndTime: "15:00",
		Course: "INT219", Room: "25-306", Type: timetable.Practical,
	})
	// No start time: must be skipped without an external call.
	tt.Add(timetable.ClassSlot{
		Day: "Wednesday", EndTime: "16:00",
		Course: "MTH302", Room: "33-304", Type: timetable.Lecture,
	})
	return tt
}

func newTestReconciler(api API) *Reconciler {
	loc, _ := time.LoadLocation("Asia/Kolkata")
	r := NewReconciler(api, fakeAuth{ok: true}, loc, Pacing{}, nil)
	// Saturday 2026-01-03, so Monday rolls to Jan 5 and Tuesday to Jan 6.
	r.now = func() time.Time {
		return time.Date(2026, time.January, 3, 12, 0, 0, 0, loc)
	}
	return r
}

func TestSyncCreatesEventsAndSkipsIncomplete(t *testing.T) {
	api := &fakeAPI{}
	r := newTestReconciler(api)

	result, err := r.Sync(context.Background(), testTimetable(), testStudent())
	require.NoError(t, err)

	assert.Len(t, result.Success, 2)
	assert.Empty(t, result.Failed)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "MTH302", result.Skipped[0].Class.Course)
	assert.Equal(t, "incomplete time or day information", result.Skipped[0].Reason)

	// The incomplete class never reached the provider.
	require.Len(t, api.created, 2)
	assert.Equal(t, "synced", result.Status())
	assert.NotEmpty(t, result.Success[0].EventID)
	assert.NotEmpty(t, result.Success[0].EventLink)
}

func TestSyncEventShape(t *testing.T) {
	api := &fakeAPI{}
	r := newTestReconciler(api)

	_, err := r.Sync(context.Background(), testTimetable(), testStudent())
	require.NoError(t, err)
	require.Len(t, api.created, 2)

	lecture := api.created[0]
	assert.Equal(t, "CSE310 - Room 25-301", lecture.Summary)
	assert.Equal(t, "Room 25-301", lecture.Location)
	assert.Equal(t, colorDefault, lecture.ColorId)
	assert.Equal(t, []string{"RRULE:FREQ=WEEKLY;BYDAY=MO"}, lecture.Recurrence)

	assert.Contains(t, lecture.Description, "Student: Paramjit Singh")
	assert.Contains(t, lecture.Description, "Reg No: 12311061")
	assert.Contains(t, lecture.Description, "Section: K22EI")
	assert.Contains(t, lecture.Description, "Type: Lecture")
	assert.Contains(t, lecture.Description, "Room: 25-301")

	// From Saturday Jan 3, the next Monday is Jan 5.
	assert.Equal(t, "2026-01-05T10:00:00+05:30", lecture.Start.DateTime)
	assert.Equal(t, "2026-01-05T11:00:00+05:30", lecture.End.DateTime)
	assert.Equal(t, "Asia/Kolkata", lecture.Start.TimeZone)

	require.NotNil(t, lecture.Reminders)
	assert.False(t, lecture.Reminders.UseDefault)
	assert.Contains(t, lecture.Reminders.ForceSendFields, "UseDefault")
	require.Len(t, lecture.Reminders.Overrides, 1)
	assert.Equal(t, "popup", lecture.Reminders.Overrides[0].Method)
	assert.Equal(t, int64(reminderMinutes), lecture.Reminders.Overrides[0].Minutes)

	practical := api.created[1]
	assert.Equal(t, colorPractical, practical.ColorId)
	assert.Equal(t, []string{"RRULE:FREQ=WEEKLY;BYDAY=TU"}, practical.Recurrence)
	// Class without its own section inherits the table-level one.
	assert.Contains(t, practical.Description, "Section: K22EI")
}

func TestSyncSectionFallsBackToNA(t *testing.T) {
	api := &fakeAPI{}
	r := newTestReconciler(api)

	tt := timetable.New("12311061")
	tt.Add(timetable.ClassSlot{
		Day: "Friday", StartTime: "09:00", EndTime: "10:00",
		Course: "PEA306", Room: "25-101", Type: timetable.Lecture,
	})

	_, err := r.Sync(context.Background(), tt, testStudent())
	require.NoError(t, err)
	require.Len(t, api.created, 1)
	assert.Contains(t, api.created[0].Description, "Section: N/A")
}

func TestSyncFailureDoesNotAbortRemaining(t *testing.T) {
	api := &fakeAPI{
		failCreate: map[string]error{
			"CSE310 - Room 25-301": errors.New("quota exceeded"),
		},
	}
	r := newTestReconciler(api)

	result, err := r.Sync(context.Background(), testTimetable(), testStudent())
	require.NoError(t, err)

	require.Len(t, result.Failed, 1)
	assert.Equal(t, "CSE310", result.Failed[0].Class.Course)
	assert.Equal(t, "quota exceeded", result.Failed[0].Error)

	// The second class still went through.
	require.Len(t, result.Success, 1)
	assert.Equal(t, "INT219", result.Success[0].Class.Course)
	assert.Equal(t, "partial", result.Status())
}

func TestSyncIsAdditive(t *testing.T) {
	api := &fakeAPI{}
	r := newTestReconciler(api)

	_, err := r.Sync(context.Background(), testTimetable(), testStudent())
	require.NoError(t, err)
	_, err = r.Sync(context.Background(), testTimetable(), testStudent())
	require.NoError(t, err)

	// No dedup between runs.
	assert.Len(t, api.created, 4)
}

func TestSyncRequiresAuthentication(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Kolkata")
	api := &fakeAPI{}
	r := NewReconciler(api, fakeAuth{ok: false}, loc, Pacing{}, nil)

	_, err := r.Sync(context.Background(), testTimetable(), testStudent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authenticated")
	assert.Empty(t, api.created)
}

func TestDeleteStudentEvents(t *testing.T) {
	api := &fakeAPI{
		listed: []*gcal.Event{
			{Id: "evt-1", Description: "Student: Paramjit Singh\nReg No: 12311061"},
			{Id: "evt-2", Description: "unrelated meeting"},
			{Id: "evt-3", Description: "Reg No: 12311061"},
		},
	}
	r := newTestReconciler(api)

	deleted, err := r.DeleteStudentEvents(context.Background(), "12311061")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	// Only events carrying the registration number in the description.
	assert.Equal(t, []string{"evt-1", "evt-3"}, api.deleted)
}

func TestDeleteStudentEventsListErrorAborts(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("backend unavailable")}
	r := newTestReconciler(api)

	deleted, err := r.DeleteStudentEvents(context.Background(), "12311061")
	require.Error(t, err)
	assert.Zero(t, deleted)
	assert.Empty(t, api.deleted)
}

func TestDeleteStudentEventsStopsOnDeleteError(t *testing.T) {
	api := &fakeAPI{
		listed: []*gcal.Event{
			{Id: "evt-1", Description: "Reg No: 12311061"},
			{Id: "evt-2", Description: "Reg No: 12311061"},
			{Id: "evt-3", Description: "Reg No: 12311061"},
		},
		deleteErr: map[string]error{"evt-2": errors.New("gone")},
	}
	r := newTestReconciler(api)

	deleted, err := r.DeleteStudentEvents(context.Background(), "12311061")
	require.Error(t, err)
	assert.Equal(t, 1, deleted)
	assert.Equal(t, []string{"evt-1"}, api.deleted)
}
