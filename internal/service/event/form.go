package event

import (
	"context"
	"errors"

	"github.com/aliskhannn/event-reminder/internal/model"
)

// Form holds the two user inputs of the add action.
type Form struct {
	Name     string `json:"name"`
	Reminder string `json:"reminder"`
}

// Reset clears both inputs.
func (f *Form) Reset() {
	f.Name = ""
	f.Reminder = ""
}

// Submit adds an event from the form. Both inputs are cleared once the new event has
// been written for the first time, so a later scheduling failure still clears them.
// Validation failures keep the inputs so the user can correct them.
func (s *Store) Submit(ctx context.Context, f *Form) (model.Event, error) {
	ev, committed, err := s.add(ctx, f.Name, f.Reminder)
	if committed {
		f.Reset()
	}

	return ev, err
}

// Alert returns the title and message shown to the user for a validation failure.
// ok is false for errors that are not validation failures.
func Alert(err error) (title, message string, ok bool) {
	switch {
	case errors.Is(err, ErrMissingField):
		return "Error", "Please enter all fields", true
	case errors.Is(err, ErrUnparseableDateTime):
		return "Invalid Date", "Please enter a valid date and time in the format YYYY-MM-DD HH:mm", true
	case errors.Is(err, ErrPastDateTime):
		return "Invalid Date", "Please select a future date and time", true
	default:
		return "", "", false
	}
}
