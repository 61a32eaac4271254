package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwapEvent_RoundTrip(t *testing.T) {
	event := NewFeedbackAddedEvent(10, 1, 2, 5)

	values, err := event.ToMap()
	require.NoError(t, err)

	// The stream entry carries a type field for quick filtering plus the
	// full JSON payload.
	assert.Equal(t, EventFeedbackAdded, values["type"])

	parsed, err := ParseSwapEvent(values)
	require.NoError(t, err)

	assert.Equal(t, event.Type, parsed.Type)
	assert.Equal(t, int64(10), parsed.SwapID)
	assert.Equal(t, int64(1), parsed.ActorID)
	assert.Equal(t, int64(2), parsed.TargetUserID)
	assert.Equal(t, 5, parsed.Rating)
	assert.Equal(t, event.Timestamp, parsed.Timestamp)
}

func TestParseSwapEvent_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]interface{}
	}{
		{"missing data field", map[string]interface{}{"type": EventSwapCreated}},
		{"data not a string", map[string]interface{}{"data": 42}},
		{"data not JSON", map[string]interface{}{"data": "{broken"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSwapEvent(tt.values)
			assert.Error(t, err)
		})
	}
}

func TestEventConstructors(t *testing.T) {
	tests := []struct {
		name     string
		event    SwapEvent
		wantType string
	}{
		{"swap created", NewSwapCreatedEvent(10, 1), EventSwapCreated},
		{"status changed", NewSwapStatusChangedEvent(10, 2, "accepted"), EventSwapStatusChanged},
		{"swap deleted", NewSwapDeletedEvent(10, 1), EventSwapDeleted},
		{"user banned", NewUserBannedEvent(7, 1), EventUserBanned},
		{"user unbanned", NewUserUnbannedEvent(7, 1), EventUserUnbanned},
		{"profile updated", NewProfileUpdatedEvent(7), EventProfileUpdated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.event.Type)
			assert.NotZero(t, tt.event.Timestamp)
		})
	}
}
