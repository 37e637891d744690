package event

import (
	"fmt"
	"time"
)

// InputLayout is the human-entered reminder format, YYYY-MM-DD HH:mm.
const InputLayout = "2006-01-02 15:04"

// acceptedLayouts are tried in order. The first one is the documented input format.
var acceptedLayouts = []string{
	InputLayout,
	time.DateTime,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

// ParseReminder parses user input into a point in time. Inputs without an offset are
// interpreted in loc.
func ParseReminder(text string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, text); err == nil {
		return t, nil
	}

	for _, layout := range acceptedLayouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q, expected format YYYY-MM-DD HH:mm", ErrUnparseableDateTime, text)
}
