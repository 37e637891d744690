// Package event keeps the collection of events in memory, mirrors it to a key-value
// backend and coordinates the reminder scheduled for each event.
package event

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/event-reminder/internal/metrics"
	"github.com/aliskhannn/event-reminder/internal/model"
)

// DefaultKey is the key the whole collection is persisted under.
const DefaultKey = "events"

type persistence interface {
	Load(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key, value string) error
}

type reminders interface {
	Schedule(ctx context.Context, at time.Time, title, body string) (string, error)
	Cancel(ctx context.Context, handle string) error
}

// rearmer is implemented by schedulers that can re-register a reminder under a known handle.
type rearmer interface {
	Rearm(ctx context.Context, handle string, at time.Time, title, body string) error
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the persistence key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithLocation sets the zone reminder input without an offset is interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is the authoritative in-memory collection of events.
//
// Every operation holds the store lock from start to finish, including the awaited
// persistence and scheduling calls, so operations never interleave.
type Store struct {
	mu        sync.Mutex
	persist   persistence
	reminders reminders
	key       string
	loc       *time.Location
	now       func() time.Time

	events []model.Event
	loaded bool
	lastID int64
}

// NewStore creates a store. Initialize must be called before any other operation.
func NewStore(p persistence, r reminders, opts ...Option) *Store {
	s := &Store{
		persist:   p,
		reminders: r,
		key:       DefaultKey,
		loc:       time.Local,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Initialize loads the persisted collection. A missing key starts an empty collection.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, ok, err := s.persist.Load(ctx, s.key)
	if err != nil {
		return fmt.Errorf("%w: load %s: %w", ErrPersistence, s.key, err)
	}

	events := []model.Event{}
	if ok {
		events, err = decode(blob)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPersistence, err)
		}
	}

	s.events = events
	s.loaded = true

	for _, e := range events {
		if n, err := strconv.ParseInt(e.ID, 10, 64); err == nil && n > s.lastID {
			s.lastID = n
		}
	}

	zlog.Logger.Info().Int("count", len(events)).Str("key", s.key).Msg("events loaded")
	return nil
}

// Events returns a snapshot of the collection in insertion order.
func (s *Store) Events() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Get returns the event with the given id.
func (s *Store) Get(id string) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		return s.events[i], nil
	}

	return model.Event{}, ErrEventNotFound
}

// AddEvent validates the input, appends a new event and schedules its reminder.
//
// The collection is written twice: once with the provisional record and once after the
// reminder handle is attached. On a collaborator failure the returned event is the last
// state the record reached in memory.
func (s *Store) AddEvent(ctx context.Context, name, reminderText string) (model.Event, error) {
	ev, _, err := s.add(ctx, name, reminderText)
	return ev, err
}

// add reports committed once the first write of the new record succeeded.
func (s *Store) add(ctx context.Context, name, reminderText string) (model.Event, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return model.Event{}, false, ErrNotInitialized
	}

	name = strings.TrimSpace(name)
	reminderText = strings.TrimSpace(reminderText)

	if name == "" || reminderText == "" {
		metrics.Rejections.WithLabelValues("missing_field").Inc()
		return model.Event{}, false, ErrMissingField
	}

	at, err := ParseReminder(reminderText, s.loc)
	if err != nil {
		metrics.Rejections.WithLabelValues("unparseable").Inc()
		return model.Event{}, false, err
	}

	if !at.After(s.now()) {
		metrics.Rejections.WithLabelValues("past").Inc()
		return model.Event{}, false, fmt.Errorf("%w: %s", ErrPastDateTime, reminderText)
	}

	provisional := model.NewProvisional(s.nextID(), name, at)

	updated := make([]model.Event, len(s.events), len(s.events)+1)
	copy(updated, s.events)
	s.events = append(updated, provisional)

	if err := s.saveLocked(ctx); err != nil {
		return provisional, false, err
	}

	handle, err := s.reminders.Schedule(ctx, provisional.ReminderAt,
		model.ReminderTitle(name), model.ReminderBody(name))
	if err != nil {
		zlog.Logger.Error().Err(err).Str("id", provisional.ID).Msg("failed to schedule reminder")
		return provisional, true, fmt.Errorf("%w: %w", ErrScheduling, err)
	}

	final := provisional.Finalize(handle)
	s.replace(final)

	if err := s.saveLocked(ctx); err != nil {
		return final, true, err
	}

	metrics.EventsAdded.Inc()
	zlog.Logger.Info().
		Str("id", final.ID).
		Str("name", final.Name).
		Time("reminder_at", final.ReminderAt).
		Str("handle", handle).
		Msg("event added")

	return final, true, nil
}

// RemoveEvent deletes the event with the given id and cancels the reminder identified by
// handle, if any. An unknown id is not an error. A failed cancellation is logged and
// does not restore the event.
func (s *Store) RemoveEvent(ctx context.Context, id, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.removeLocked(ctx, id, handle)
}

// Remove deletes the event with the given id using the handle stored on it.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var handle string
	if i := s.indexOf(id); i >= 0 {
		handle = s.events[i].NotificationID
	}

	return s.removeLocked(ctx, id, handle)
}

func (s *Store) removeLocked(ctx context.Context, id, handle string) error {
	if !s.loaded {
		return ErrNotInitialized
	}

	filtered := make([]model.Event, 0, len(s.events))
	for _, e := range s.events {
		if e.ID != id {
			filtered = append(filtered, e)
		}
	}

	removed := len(filtered) != len(s.events)
	s.events = filtered

	if err := s.saveLocked(ctx); err != nil {
		return err
	}

	if removed {
		metrics.EventsRemoved.Inc()
		zlog.Logger.Info().Str("id", id).Msg("event removed")
	}

	if handle == "" {
		return nil
	}

	if err := s.reminders.Cancel(ctx, handle); err != nil {
		zlog.Logger.Warn().Err(err).Str("id", id).Str("handle", handle).Msg("failed to cancel reminder")
	}

	return nil
}

// Rearm re-registers reminders of stored events that are still in the future with a
// scheduler that keeps pending reminders in memory. It returns how many were re-armed.
// Schedulers without re-arm support are left alone.
func (s *Store) Rearm(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return 0, ErrNotInitialized
	}

	r, ok := s.reminders.(rearmer)
	if !ok {
		return 0, nil
	}

	now := s.now()
	count := 0

	var errs []error
	for _, e := range s.events {
		if e.Pending() || !e.ReminderAt.After(now) {
			continue
		}

		err := r.Rearm(ctx, e.NotificationID, e.ReminderAt, model.ReminderTitle(e.Name), model.ReminderBody(e.Name))
		if err != nil {
			errs = append(errs, fmt.Errorf("rearm %s: %w", e.ID, err))
			continue
		}

		count++
	}

	if len(errs) > 0 {
		return count, fmt.Errorf("%w: %w", ErrScheduling, errors.Join(errs...))
	}

	zlog.Logger.Info().Int("count", count).Msg("reminders re-armed")
	return count, nil
}

func (s *Store) saveLocked(ctx context.Context) error {
	blob, err := encode(s.events)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if err := s.persist.Save(ctx, s.key, blob); err != nil {
		zlog.Logger.Error().Err(err).Str("key", s.key).Msg("failed to persist events")
		return fmt.Errorf("%w: save %s: %w", ErrPersistence, s.key, err)
	}

	return nil
}

// nextID returns a millisecond timestamp token that is strictly greater than every id
// handed out or loaded so far.
func (s *Store) nextID() string {
	n := s.now().UnixMilli()
	if n <= s.lastID {
		n = s.lastID + 1
	}

	for s.indexOf(strconv.FormatInt(n, 10)) >= 0 {
		n++
	}

	s.lastID = n
	return strconv.FormatInt(n, 10)
}

func (s *Store) indexOf(id string) int {
	for i, e := range s.events {
		if e.ID == id {
			return i
		}
	}

	return -1
}

// replace swaps the record with the same id for ev, building a new slice.
func (s *Store) replace(ev model.Event) {
	updated := make([]model.Event, len(s.events))
	for i, e := range s.events {
		if e.ID == ev.ID {
			updated[i] = ev
			continue
		}

		updated[i] = e
	}

	s.events = updated
}
