package model

import (
	"fmt"
	"time"
)

// Event represents a user-defined event with a single reminder.
type Event struct {
	ID             string    `json:"id"`                       // timestamp-derived token, unique within the collection
	Name           string    `json:"name"`                     // name supplied by the user
	ReminderAt     time.Time `json:"reminder"`                 // point in time the reminder fires at
	NotificationID string    `json:"notificationId,omitempty"` // handle returned by the scheduler, empty until scheduled
}

// NewProvisional builds an event record that has not been scheduled yet.
func NewProvisional(id, name string, at time.Time) Event {
	return Event{
		ID:         id,
		Name:       name,
		ReminderAt: at.UTC(),
	}
}

// Finalize returns a copy of e with the scheduler handle attached.
func (e Event) Finalize(handle string) Event {
	e.NotificationID = handle
	return e
}

// Pending reports whether the reminder handle is still absent.
func (e Event) Pending() bool {
	return e.NotificationID == ""
}

// ReminderTitle returns the notification title for an event name.
func ReminderTitle(name string) string {
	return fmt.Sprintf("Event Reminder: %s", name)
}

// ReminderBody returns the notification body for an event name.
func ReminderBody(name string) string {
	return fmt.Sprintf("Don't forget to attend the event: %s.", name)
}
