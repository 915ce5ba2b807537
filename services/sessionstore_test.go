package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStorePublishSubscribe(t *testing.T) {
	store := NewSessionStore()
	events, cancel := store.Subscribe()
	defer cancel()

	require.Equal(t, 1, store.Subscribers())
	store.Publish(SessionEvent{UserID: 7, Type: EventLogin})

	select {
	case e := <-events:
		assert.Equal(t, uint(7), e.UserID)
		assert.Equal(t, EventLogin, e.Type)
		assert.False(t, e.At.IsZero(), "publish must stamp the event time")
	default:
		t.Fatal("expected a delivered event")
	}
}

func TestSessionStoreFanOut(t *testing.T) {
	store := NewSessionStore()
	first, cancelFirst := store.Subscribe()
	second, cancelSecond := store.Subscribe()
	defer cancelFirst()
	defer cancelSecond()

	store.Publish(SessionEvent{UserID: 1, Type: EventSubscriptionActivated})

	for _, ch := range []<-chan SessionEvent{first, second} {
		select {
		case e := <-ch:
			assert.Equal(t, EventSubscriptionActivated, e.Type)
		default:
			t.Fatal("every subscriber receives every event")
		}
	}
}

func TestSessionStoreCancelRemovesSubscriber(t *testing.T) {
	store := NewSessionStore()
	events, cancel := store.Subscribe()

	cancel()
	assert.Equal(t, 0, store.Subscribers())

	_, open := <-events
	assert.False(t, open, "cancel closes the channel")

	// Cancelling twice is harmless.
	cancel()
}

func TestSessionStoreSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	store := NewSessionStore()
	_, cancel := store.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		// Far more events than the subscriber buffer holds; nobody drains.
		for i := 0; i < 200; i++ {
			store.Publish(SessionEvent{UserID: uint(i), Type: EventLogout, At: time.Now()})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
