package event

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePersistence struct {
	data    map[string]string
	saves   []string
	loadErr error
	saveErr error
}

func newFakePersistence() *fakePersistence {
	return &fakePersistence{data: map[string]string{}}
}

func (f *fakePersistence) Load(_ context.Context, key string) (string, bool, error) {
	if f.loadErr != nil {
		return "", false, f.loadErr
	}

	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakePersistence) Save(_ context.Context, key, value string) error {
	if f.saveErr != nil {
		f.saves = append(f.saves, "<failed>")
		return f.saveErr
	}

	f.saves = append(f.saves, value)
	f.data[key] = value
	return nil
}

type scheduled struct {
	at          time.Time
	title, body string
}

type fakeReminders struct {
	scheduled   []scheduled
	cancelled   []string
	rearmed     []string
	scheduleErr error
	cancelErr   error
	next        int
}

func (f *fakeReminders) Schedule(_ context.Context, at time.Time, title, body string) (string, error) {
	if f.scheduleErr != nil {
		return "", f.scheduleErr
	}

	f.scheduled = append(f.scheduled, scheduled{at: at, title: title, body: body})
	f.next++
	return fmt.Sprintf("handle-%d", f.next), nil
}

func (f *fakeReminders) Cancel(_ context.Context, handle string) error {
	f.cancelled = append(f.cancelled, handle)
	return f.cancelErr
}

type fakeRearmer struct {
	fakeReminders
}

func (f *fakeRearmer) Rearm(_ context.Context, handle string, _ time.Time, _, _ string) error {
	f.rearmed = append(f.rearmed, handle)
	return nil
}

var testNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, p persistence, r reminders) *Store {
	t.Helper()

	s := NewStore(p, r, WithLocation(time.UTC), WithClock(func() time.Time { return testNow }))
	require.NoError(t, s.Initialize(context.Background()))
	return s
}

func TestStore_Initialize_EmptyWhenAbsent(t *testing.T) {
	s := newTestStore(t, newFakePersistence(), &fakeReminders{})
	assert.Empty(t, s.Events())
}

func TestStore_Initialize_LoadsPersisted(t *testing.T) {
	p := newFakePersistence()
	p.data[DefaultKey] = `[{"id":"1","name":"Dentist","reminder":"2099-01-01T10:00:00Z","notificationId":"h1"}]`

	s := newTestStore(t, p, &fakeReminders{})

	events := s.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "Dentist", events[0].Name)
	assert.Equal(t, "h1", events[0].NotificationID)
}

func TestStore_Initialize_Errors(t *testing.T) {
	p := newFakePersistence()
	p.loadErr = errors.New("disk gone")

	s := NewStore(p, &fakeReminders{})
	err := s.Initialize(context.Background())
	assert.ErrorIs(t, err, ErrPersistence)

	p = newFakePersistence()
	p.data[DefaultKey] = "{not json"

	s = NewStore(p, &fakeReminders{})
	err = s.Initialize(context.Background())
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestStore_OperationsRequireInitialize(t *testing.T) {
	s := NewStore(newFakePersistence(), &fakeReminders{})

	_, err := s.AddEvent(context.Background(), "Birthday", "2099-01-01 10:00")
	assert.ErrorIs(t, err, ErrNotInitialized)

	err = s.RemoveEvent(context.Background(), "1", "")
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = s.Rearm(context.Background())
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestStore_AddEvent_Success(t *testing.T) {
	p := newFakePersistence()
	r := &fakeReminders{}
	s := newTestStore(t, p, r)

	ev, err := s.AddEvent(context.Background(), "Birthday", "2099-01-01 10:00")
	require.NoError(t, err)

	want := time.Date(2099, 1, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "Birthday", ev.Name)
	assert.True(t, ev.ReminderAt.Equal(want))
	assert.Equal(t, "handle-1", ev.NotificationID)
	assert.Equal(t, fmt.Sprint(testNow.UnixMilli()), ev.ID)

	events := s.Events()
	require.Len(t, events, 1)
	assert.Equal(t, ev, events[0])

	require.Len(t, r.scheduled, 1)
	assert.True(t, r.scheduled[0].at.Equal(want))
	assert.Equal(t, "Event Reminder: Birthday", r.scheduled[0].title)
	assert.Equal(t, "Don't forget to attend the event: Birthday.", r.scheduled[0].body)
}

func TestStore_AddEvent_TwoWrites(t *testing.T) {
	p := newFakePersistence()
	s := newTestStore(t, p, &fakeReminders{})

	_, err := s.AddEvent(context.Background(), "Birthday", "2099-01-01 10:00")
	require.NoError(t, err)
	require.Len(t, p.saves, 2)

	first, err := decode(p.saves[0])
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, first[0].Pending(), "first write holds the provisional record")

	second, err := decode(p.saves[1])
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "handle-1", second[0].NotificationID)
}

func TestStore_AddEvent_Validation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		reminder string
		want     error
	}{
		{"empty name", "", "2099-01-01 10:00", ErrMissingField},
		{"blank name", "   ", "2099-01-01 10:00", ErrMissingField},
		{"empty reminder", "Birthday", "", ErrMissingField},
		{"both empty", "", "", ErrMissingField},
		{"missing wins over bad date", "", "not-a-date", ErrMissingField},
		{"not a date", "Birthday", "not-a-date", ErrUnparseableDateTime},
		{"invalid month", "Birthday", "2099-13-01 10:00", ErrUnparseableDateTime},
		{"yesterday", "Birthday", "2026-10-13 12:00", ErrPastDateTime},
		{"exactly now", "Birthday", "2026-10-14 12:00", ErrPastDateTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newFakePersistence()
			r := &fakeReminders{}
			s := newTestStore(t, p, r)

			_, err := s.AddEvent(context.Background(), tt.input, tt.reminder)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidation(err))
			assert.Empty(t, s.Events())
			assert.Empty(t, p.saves)
			assert.Empty(t, r.scheduled)
		})
	}
}

func TestStore_AddEvent_UniqueIDs(t *testing.T) {
	s := newTestStore(t, newFakePersistence(), &fakeReminders{})

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		ev, err := s.AddEvent(context.Background(), fmt.Sprintf("event %d", i), "2099-01-01 10:00")
		require.NoError(t, err)
		assert.False(t, seen[ev.ID], "duplicate id %s", ev.ID)
		seen[ev.ID] = true
	}

	assert.Len(t, s.Events(), 5)
}

func TestStore_AddEvent_IDsAfterLoadedOnes(t *testing.T) {
	p := newFakePersistence()
	future := testNow.Add(time.Hour).UnixMilli()
	p.data[DefaultKey] = fmt.Sprintf(`[{"id":"%d","name":"a","reminder":"2099-01-01T10:00:00Z"}]`, future)

	s := newTestStore(t, p, &fakeReminders{})

	ev, err := s.AddEvent(context.Background(), "b", "2099-01-01 10:00")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprint(future+1), ev.ID)
}

func TestStore_AddEvent_SchedulingFailure(t *testing.T) {
	p := newFakePersistence()
	r := &fakeReminders{scheduleErr: errors.New("no permission")}
	s := newTestStore(t, p, r)

	ev, err := s.AddEvent(context.Background(), "Birthday", "2099-01-01 10:00")
	assert.ErrorIs(t, err, ErrScheduling)
	assert.True(t, ev.Pending())

	events := s.Events()
	require.Len(t, events, 1, "provisional record is kept")
	assert.True(t, events[0].Pending())
	assert.Len(t, p.saves, 1)
}

func TestStore_AddEvent_PersistenceFailure(t *testing.T) {
	p := newFakePersistence()
	p.saveErr = errors.New("quota exceeded")
	r := &fakeReminders{}
	s := newTestStore(t, p, r)

	_, err := s.AddEvent(context.Background(), "Birthday", "2099-01-01 10:00")
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Len(t, s.Events(), 1, "no rollback of the in-memory append")
	assert.Empty(t, r.scheduled)
}

func TestStore_RemoveEvent(t *testing.T) {
	p := newFakePersistence()
	r := &fakeReminders{}
	s := newTestStore(t, p, r)

	ev, err := s.AddEvent(context.Background(), "Birthday", "2099-01-01 10:00")
	require.NoError(t, err)

	require.NoError(t, s.RemoveEvent(context.Background(), ev.ID, ev.NotificationID))

	assert.Empty(t, s.Events())
	assert.Equal(t, []string{ev.NotificationID}, r.cancelled)

	persisted, err := decode(p.data[DefaultKey])
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestStore_RemoveEvent_UnknownIDIsNoop(t *testing.T) {
	r := &fakeReminders{}
	s := newTestStore(t, newFakePersistence(), r)

	_, err := s.AddEvent(context.Background(), "Birthday", "2099-01-01 10:00")
	require.NoError(t, err)

	require.NoError(t, s.RemoveEvent(context.Background(), "missing", ""))
	assert.Len(t, s.Events(), 1)
	assert.Empty(t, r.cancelled)
}

func TestStore_RemoveEvent_CancelFailureKeepsRemoval(t *testing.T) {
	r := &fakeReminders{}
	s := newTestStore(t, newFakePersistence(), r)

	ev, err := s.AddEvent(context.Background(), "Birthday", "2099-01-01 10:00")
	require.NoError(t, err)

	r.cancelErr = errors.New("already delivered")
	require.NoError(t, s.RemoveEvent(context.Background(), ev.ID, ev.NotificationID))
	assert.Empty(t, s.Events())
}

func TestStore_RemoveEvent_PersistenceFailureSkipsCancel(t *testing.T) {
	p := newFakePersistence()
	r := &fakeReminders{}
	s := newTestStore(t, p, r)

	ev, err := s.AddEvent(context.Background(), "Birthday", "2099-01-01 10:00")
	require.NoError(t, err)

	p.saveErr = errors.New("read-only")
	err = s.RemoveEvent(context.Background(), ev.ID, ev.NotificationID)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Empty(t, r.cancelled)
}

func TestStore_Remove_UsesStoredHandle(t *testing.T) {
	r := &fakeReminders{}
	s := newTestStore(t, newFakePersistence(), r)

	ev, err := s.AddEvent(context.Background(), "Birthday", "2099-01-01 10:00")
	require.NoError(t, err)

	require.NoError(t, s.Remove(context.Background(), ev.ID))
	assert.Equal(t, []string{"handle-1"}, r.cancelled)

	_, err = s.Get(ev.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestStore_RoundTrip(t *testing.T) {
	p := newFakePersistence()
	s := newTestStore(t, p, &fakeReminders{})

	for _, name := range []string{"Birthday", "Dentist", "Flight"} {
		_, err := s.AddEvent(context.Background(), name, "2099-01-01 10:00")
		require.NoError(t, err)
	}

	reloaded := newTestStore(t, p, &fakeReminders{})

	want, got := s.Events(), reloaded.Events()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.True(t, want[i].ReminderAt.Equal(got[i].ReminderAt))
		assert.Equal(t, want[i].NotificationID, got[i].NotificationID)
	}
}

func TestStore_Rearm(t *testing.T) {
	p := newFakePersistence()
	p.data[DefaultKey] = `[
		{"id":"1","name":"future","reminder":"2099-01-01T10:00:00Z","notificationId":"h1"},
		{"id":"2","name":"past","reminder":"2020-01-01T10:00:00Z","notificationId":"h2"},
		{"id":"3","name":"unscheduled","reminder":"2099-01-01T10:00:00Z"}
	]`

	r := &fakeRearmer{}
	s := newTestStore(t, p, r)

	n, err := s.Rearm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"h1"}, r.rearmed)
	assert.Len(t, s.Events(), 3, "past events stay in the collection")
}

func TestStore_Rearm_UnsupportedScheduler(t *testing.T) {
	s := newTestStore(t, newFakePersistence(), &fakeReminders{})

	n, err := s.Rearm(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_BirthdayScenario(t *testing.T) {
	r := &fakeReminders{}
	s := newTestStore(t, newFakePersistence(), r)

	ev, err := s.AddEvent(context.Background(), "Birthday", "2099-01-01 10:00")
	require.NoError(t, err)

	events := s.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "Birthday", events[0].Name)
	assert.True(t, events[0].ReminderAt.Equal(time.Date(2099, 1, 1, 10, 0, 0, 0, time.UTC)))

	require.NoError(t, s.RemoveEvent(context.Background(), ev.ID, ev.NotificationID))
	assert.Empty(t, s.Events())
	assert.Equal(t, []string{ev.NotificationID}, r.cancelled)
}

var _ reminders = (*fakeReminders)(nil)
var _ rearmer = (*fakeRearmer)(nil)
