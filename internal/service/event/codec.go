package event

import (
	"encoding/json"
	"fmt"

	"github.com/aliskhannn/event-reminder/internal/model"
)

// encode serializes the whole collection as a JSON array.
func encode(events []model.Event) (string, error) {
	if events == nil {
		events = []model.Event{}
	}

	data, err := json.Marshal(events)
	if err != nil {
		return "", fmt.Errorf("marshal events: %w", err)
	}

	return string(data), nil
}

// decode parses a persisted collection. An empty blob is an empty collection.
func decode(blob string) ([]model.Event, error) {
	if blob == "" {
		return []model.Event{}, nil
	}

	var events []model.Event
	if err := json.Unmarshal([]byte(blob), &events); err != nil {
		return nil, fmt.Errorf("unmarshal events: %w", err)
	}

	if events == nil {
		events = []model.Event{}
	}

	return events, nil
}
