package worker

import (
	"container/heap"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/event-reminder/internal/metrics"
)

// Reminder statuses.
const (
	StatusPending    = "pending"
	StatusDelivering = "delivering"
	StatusSent       = "sent"
	StatusFailed     = "failed"
	StatusCancelled  = "cancelled"
)

var (
	ErrReminderNotFound  = errors.New("reminder not found")
	ErrAlreadyDelivering = errors.New("reminder is already being delivered")
)

const (
	// idleWait bounds how long the dispatch loop sleeps when nothing is queued.
	idleWait = time.Hour

	// recentLimit is how many finished reminders stay visible to Get.
	recentLimit = 1024
)

// Notifier delivers a fired reminder.
type Notifier interface {
	Send(ctx context.Context, title, body string) error
}

// Reminder is a single scheduled alert.
type Reminder struct {
	Handle string    `json:"handle"`
	At     time.Time `json:"at"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	Status string    `json:"status"`

	index int // position in the queue, -1 once popped or removed
}

// Scheduler keeps pending reminders in memory and delivers each one at its trigger time.
type Scheduler struct {
	mu       sync.Mutex
	queue    reminderQueue
	byHandle map[string]*Reminder
	recent   recentReminders
	wake     chan struct{}
	notifier Notifier
}

// NewScheduler creates a scheduler that delivers through n. Reminders only fire while
// Run is active.
func NewScheduler(n Notifier) *Scheduler {
	return &Scheduler{
		byHandle: make(map[string]*Reminder),
		recent:   newRecentReminders(recentLimit),
		wake:     make(chan struct{}, 1),
		notifier: n,
	}
}

// Schedule registers a reminder for at and returns its handle.
func (s *Scheduler) Schedule(_ context.Context, at time.Time, title, body string) (string, error) {
	handle := uuid.New().String()
	s.add(handle, at, title, body)
	metrics.Reminders.WithLabelValues("scheduled").Inc()

	zlog.Logger.Info().Str("handle", handle).Time("at", at).Msg("reminder scheduled")
	return handle, nil
}

// Rearm registers a reminder under an existing handle, replacing any previous one.
func (s *Scheduler) Rearm(_ context.Context, handle string, at time.Time, title, body string) error {
	if _, err := uuid.Parse(handle); err != nil {
		return err
	}

	s.add(handle, at, title, body)
	return nil
}

func (s *Scheduler) add(handle string, at time.Time, title, body string) {
	r := &Reminder{Handle: handle, At: at, Title: title, Body: body, Status: StatusPending}

	s.mu.Lock()
	if old, ok := s.byHandle[handle]; ok && old.index >= 0 {
		heap.Remove(&s.queue, old.index)
	}
	s.byHandle[handle] = r
	heap.Push(&s.queue, r)
	s.mu.Unlock()

	s.signal()
}

// Cancel drops a pending reminder. Unknown or finished handles are ignored. A reminder
// whose delivery has started can no longer be cancelled and yields ErrAlreadyDelivering.
func (s *Scheduler) Cancel(_ context.Context, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byHandle[handle]
	if !ok {
		return nil
	}

	if r.Status == StatusDelivering {
		return ErrAlreadyDelivering
	}

	if r.index >= 0 {
		heap.Remove(&s.queue, r.index)
	}

	r.Status = StatusCancelled
	s.retire(r)
	metrics.Reminders.WithLabelValues(StatusCancelled).Inc()
	zlog.Logger.Info().Str("handle", handle).Msg("reminder cancelled")
	return nil
}

// Get returns a copy of the reminder with the given handle.
func (s *Scheduler) Get(handle string) (Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.byHandle[handle]; ok {
		return *r, nil
	}

	if r, ok := s.recent.get(handle); ok {
		return r, nil
	}

	return Reminder{}, ErrReminderNotFound
}

// Run dispatches due reminders to workerCount delivery goroutines until ctx is done.
func (s *Scheduler) Run(ctx context.Context, strategy retry.Strategy, workerCount int) {
	if workerCount < 1 {
		workerCount = 1
	}

	var wg sync.WaitGroup
	dueChan := make(chan *Reminder, workerCount*10)

	go s.dispatch(ctx, dueChan)

	wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go func(id int) {
			defer wg.Done()

			zlog.Logger.Printf("worker-%d started", id)

			for {
				select {
				case <-ctx.Done():
					zlog.Logger.Printf("worker-%d shutting down", id)
					return
				case r := <-dueChan:
					if !s.claim(r) {
						zlog.Logger.Printf("reminder %s cancelled, skipping", r.Handle)
						continue
					}

					s.deliver(ctx, *r, strategy)
					s.finish(r)
				}
			}
		}(i)
	}

	<-ctx.Done()
	wg.Wait()
	zlog.Logger.Print("scheduler stopped")
}

// dispatch pops due reminders off the queue and hands them to the workers.
func (s *Scheduler) dispatch(ctx context.Context, out chan<- *Reminder) {
	for {
		due, wait := s.popDue(time.Now())

		for _, r := range due {
			select {
			case out <- r:
			case <-ctx.Done():
				return
			}
		}

		if len(due) > 0 {
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		case <-s.wake:
			timer.Stop()
		}
	}
}

// popDue removes every reminder due at now and reports how long to wait for the next one.
func (s *Scheduler) popDue(now time.Time) ([]*Reminder, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []*Reminder
	for s.queue.Len() > 0 {
		next := s.queue[0]
		if next.At.After(now) {
			return due, next.At.Sub(now)
		}

		due = append(due, heap.Pop(&s.queue).(*Reminder))
	}

	return due, idleWait
}

// claim moves r to delivering if it is still the pending reminder for its handle.
func (s *Scheduler) claim(r *Reminder) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.byHandle[r.Handle] != r || r.Status != StatusPending {
		return false
	}

	r.Status = StatusDelivering
	return true
}

// deliver sends r and records the outcome in r.Status.
func (s *Scheduler) deliver(ctx context.Context, r Reminder, strategy retry.Strategy) {
	zlog.Logger.Info().Msgf("delivering reminder %s due at %v", r.Handle, r.At)

	err := retry.Do(func() error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return s.notifier.Send(ctx, r.Title, r.Body)
		}
	}, strategy)

	if err != nil {
		zlog.Logger.Error().Err(err).Str("handle", r.Handle).Msg("reminder delivery failed")
		s.setOutcome(r.Handle, StatusFailed)
		return
	}

	zlog.Logger.Info().Str("handle", r.Handle).Msg("reminder delivered")
	s.setOutcome(r.Handle, StatusSent)
}

func (s *Scheduler) setOutcome(handle, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.byHandle[handle]; ok && r.Status == StatusDelivering {
		r.Status = status
		metrics.Reminders.WithLabelValues(status).Inc()
	}
}

// finish retires r once its delivery attempt is over.
func (s *Scheduler) finish(r *Reminder) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.byHandle[r.Handle] == r {
		s.retire(r)
	}
}

// retire moves a finished reminder from the live set to the recent cache. The caller
// holds s.mu.
func (s *Scheduler) retire(r *Reminder) {
	delete(s.byHandle, r.Handle)
	s.recent.put(*r)
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// reminderQueue is a min-heap ordered by trigger time.
type reminderQueue []*Reminder

func (q reminderQueue) Len() int           { return len(q) }
func (q reminderQueue) Less(i, j int) bool { return q[i].At.Before(q[j].At) }

func (q reminderQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *reminderQueue) Push(x any) {
	r := x.(*Reminder)
	r.index = len(*q)
	*q = append(*q, r)
}

func (q *reminderQueue) Pop() any {
	old := *q
	n := len(old)
	r := old[n-1]
	old[n-1] = nil
	r.index = -1
	*q = old[:n-1]
	return r
}

// recentReminders keeps the last few finished reminders, evicting the oldest first.
type recentReminders struct {
	limit int
	order []string
	byKey map[string]Reminder
}

func newRecentReminders(limit int) recentReminders {
	return recentReminders{limit: limit, byKey: make(map[string]Reminder, limit)}
}

func (c *recentReminders) put(r Reminder) {
	if _, ok := c.byKey[r.Handle]; !ok {
		c.order = append(c.order, r.Handle)
	}
	c.byKey[r.Handle] = r

	for len(c.order) > c.limit {
		delete(c.byKey, c.order[0])
		c.order = c.order[1:]
	}
}

func (c *recentReminders) get(handle string) (Reminder, bool) {
	r, ok := c.byKey[handle]
	return r, ok
}

func (c *recentReminders) size() int { return len(c.byKey) }
