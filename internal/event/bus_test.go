package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopic_Matches(t *testing.T) {
	tests := []struct {
		topic   Topic
		pattern Topic
		want    bool
	}{
		{"document.committed", "document.committed", true},
		{"document.committed", "document.*", true},
		{"document.committed", "*.committed", true},
		{"document.committed", "**", true},
		{"document.a.b", "document.**", true},
		{"document", "document.**", true},
		{"document.committed", "document", false},
		{"document.committed", "document.*.x", false},
		{"document.a.b", "document.*", false},
		{"store.saved", "document.*", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.topic.Matches(tt.pattern), "%s ~ %s", tt.topic, tt.pattern)
	}
	assert.False(t, Topic("a..b").IsValid())
	assert.False(t, Topic("").IsValid())
}

func TestBus_PublishSubscribe(t *testing.T) {
	b := NewBus()
	var got []Event

	id, err := b.Subscribe("document.*", func(e Event) { got = append(got, e) })
	require.NoError(t, err)

	require.NoError(t, b.Publish(context.Background(), TopicCommitted, "engine", 7))
	require.NoError(t, b.Publish(context.Background(), "store.saved", "store", nil))

	require.Len(t, got, 1)
	assert.Equal(t, TopicCommitted, got[0].Topic)
	assert.Equal(t, "engine", got[0].Source)
	assert.Equal(t, 7, got[0].Payload)
	assert.NotEmpty(t, got[0].ID)

	require.NoError(t, b.Unsubscribe(id))
	assert.ErrorIs(t, b.Unsubscribe(id), ErrSubscriptionNotFound)

	require.NoError(t, b.Publish(context.Background(), TopicCommitted, "engine", 8))
	assert.Len(t, got, 1)

	st := b.Stats()
	assert.Equal(t, uint64(3), st.Published)
	assert.Equal(t, uint64(1), st.Delivered)
}

func TestBus_PanicRecovered(t *testing.T) {
	b := NewBus()
	calls := 0
	_, err := b.Subscribe("**", func(Event) { panic("boom") })
	require.NoError(t, err)
	_, err = b.Subscribe("**", func(Event) { calls++ })
	require.NoError(t, err)

	require.NoError(t, b.Publish(context.Background(), TopicLoaded, "", nil))
	assert.Equal(t, 1, calls)
	assert.Equal(t, uint64(1), b.Stats().Panics)
}

func TestBus_Errors(t *testing.T) {
	b := NewBus()
	_, err := b.Subscribe("", func(Event) {})
	assert.ErrorIs(t, err, ErrInvalidTopic)
	_, err = b.Subscribe("a", nil)
	assert.ErrorIs(t, err, ErrNilHandler)
	assert.ErrorIs(t, b.Publish(context.Background(), "", "", nil), ErrInvalidTopic)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _ = b.Subscribe("a", func(Event) {})
	assert.ErrorIs(t, b.Publish(ctx, "a", "", nil), context.Canceled)
}
