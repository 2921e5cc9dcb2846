package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	ProductID string `json:"product_id"`
	Added     int    `json:"added"`
}

func TestNewEvent(t *testing.T) {
	evt, err := NewEvent("reviewhub.review.ingested", "laptop-15", "review", "reviewhub",
		testPayload{ProductID: "laptop-15", Added: 3})

	require.NoError(t, err)
	assert.NotEmpty(t, evt.EventID)
	assert.Equal(t, "reviewhub.review.ingested", evt.EventType)
	assert.Equal(t, "laptop-15", evt.AggregateID)
	assert.Equal(t, "review", evt.AggregateType)
	assert.Equal(t, 1, evt.Version)
	assert.Equal(t, "reviewhub", evt.Source)
	assert.WithinDuration(t, time.Now().UTC(), evt.Timestamp, time.Minute)
}

func TestNewEvent_UniqueIDs(t *testing.T) {
	a, err := NewEvent("t", "id", "review", "reviewhub", nil)
	require.NoError(t, err)
	b, err := NewEvent("t", "id", "review", "reviewhub", nil)
	require.NoError(t, err)

	assert.NotEqual(t, a.EventID, b.EventID)
}

func TestEvent_WithCorrelationID(t *testing.T) {
	evt, err := NewEvent("t", "id", "review", "reviewhub", nil)
	require.NoError(t, err)

	evt = evt.WithCorrelationID("corr-1")
	assert.Equal(t, "corr-1", evt.CorrelationID)
}

func TestEvent_MarshalRoundTrip(t *testing.T) {
	evt, err := NewEvent("reviewhub.review.moderated", "laptop-15/Amazon/A1", "review", "reviewhub",
		testPayload{ProductID: "laptop-15", Added: 1})
	require.NoError(t, err)

	raw, err := evt.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, evt.EventID, decoded.EventID)
	assert.Equal(t, evt.EventType, decoded.EventType)

	var payload testPayload
	require.NoError(t, decoded.UnmarshalData(&payload))
	assert.Equal(t, "laptop-15", payload.ProductID)
	assert.Equal(t, 1, payload.Added)
}

func TestUnmarshalEvent_Invalid(t *testing.T) {
	_, err := UnmarshalEvent([]byte("not json"))
	assert.Error(t, err)
}
