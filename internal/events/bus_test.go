package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusPublishSubscribe(t *testing.T) {
	b := NewBus(nil, nil)
	defer b.Close()

	watched := b.Subscribe(TypeEpisodeWatched, 4)
	scanned := b.Subscribe(TypeLibraryScanned, 4)

	b.Publish(context.Background(), NewEpisodeWatched(42, 3, 3, false))

	select {
	case e := <-watched:
		ev, ok := e.(EpisodeWatchedEvent)
		require.True(t, ok)
		assert.Equal(t, int64(42), ev.EntityID())
		assert.Equal(t, EntitySeries, ev.EntityType())
		assert.Equal(t, 3, ev.Episode)
	default:
		t.Fatal("subscriber did not receive the event")
	}

	select {
	case <-scanned:
		t.Fatal("event delivered to wrong subscription")
	default:
	}
}

func TestBusSubscribeAll(t *testing.T) {
	b := NewBus(nil, nil)
	defer b.Close()

	all := b.SubscribeAll(4)
	b.Publish(context.Background(), NewLibraryScanned(10, 2))
	b.Publish(context.Background(), NewListRefreshed(5))

	first := <-all
	second := <-all
	assert.Equal(t, TypeLibraryScanned, first.EventType())
	assert.Equal(t, TypeListRefreshed, second.EventType())
}

func TestBusFullSubscriberDropsEvent(t *testing.T) {
	b := NewBus(nil, nil)
	defer b.Close()

	ch := b.Subscribe(TypeListRefreshed, 1)
	b.Publish(context.Background(), NewListRefreshed(1))
	// Second publish finds the buffer full and must not block.
	b.Publish(context.Background(), NewListRefreshed(2))

	e := <-ch
	assert.Equal(t, 1, e.(ListRefreshedEvent).Count)
	select {
	case <-ch:
		t.Fatal("second event should have been dropped")
	default:
	}
}

func TestBusUnsubscribe(t *testing.T) {
	b := NewBus(nil, nil)
	defer b.Close()

	ch := b.Subscribe(TypeListRefreshed, 1)
	b.Unsubscribe(ch)

	// Channel is closed on unsubscribe.
	_, open := <-ch
	assert.False(t, open)

	b.Publish(context.Background(), NewListRefreshed(1))
}

func TestBusClose(t *testing.T) {
	b := NewBus(nil, nil)
	ch := b.Subscribe(TypeListRefreshed, 1)

	b.Close()
	_, open := <-ch
	assert.False(t, open)

	// Publishing after close is a no-op.
	b.Publish(context.Background(), NewListRefreshed(1))
	b.Close()
}
