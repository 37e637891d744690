package email

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Message(t *testing.T) {
	c := NewClient("smtp.example.com", 587, "user", "pass", "reminders@example.com")

	msg := c.Message("me@example.com", "Event Reminder: Birthday", "Don't forget to attend the event: Birthday.")

	assert.Equal(t, []string{"reminders@example.com"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"me@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Event Reminder: Birthday"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Don't forget to attend the event: Birthday.")
}
