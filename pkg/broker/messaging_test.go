package broker

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBroker(queueSize int) *InMemoryBroker {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewInMemoryBroker(log, queueSize)
}

func TestPublishDeliversToAllSubscribers(t *testing.T) {
	ctx := context.Background()
	b := newTestBroker(10)
	defer b.Close()

	var mu sync.Mutex
	var got []string
	handler := func(name string) MessageHandler {
		return func(ctx context.Context, msg *Message) error {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, name+":"+string(msg.Payload))
			return nil
		}
	}

	_, err := b.Subscribe(ctx, "submissions", handler("a"))
	require.NoError(t, err)
	_, err = b.Subscribe(ctx, "submissions", handler("b"))
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, "submissions", []byte("hello"), nil))
	b.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"a:hello", "b:hello"}, got)
}

func TestPublishWithoutSubscribersIsDropped(t *testing.T) {
	ctx := context.Background()
	b := newTestBroker(10)
	defer b.Close()

	assert.NoError(t, b.Publish(ctx, "submissions", []byte("lost"), nil))
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	ctx := context.Background()
	b := newTestBroker(10)
	defer b.Close()

	var mu sync.Mutex
	count := 0
	sub, err := b.Subscribe(ctx, "submissions", func(ctx context.Context, msg *Message) error {
		mu.Lock()
		defer mu.Unlock()
		count++
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, "submissions", []byte("one"), nil))
	b.Wait()

	require.NoError(t, sub.Unsubscribe())
	assert.True(t, sub.IsClosed())
	require.NoError(t, b.Publish(ctx, "submissions", []byte("two"), nil))
	b.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, count)
}

func TestClosedBrokerRejectsOperations(t *testing.T) {
	ctx := context.Background()
	b := newTestBroker(10)
	require.NoError(t, b.Close())

	assert.ErrorIs(t, b.Publish(ctx, "submissions", []byte("x"), nil), ErrBrokerClosed)
	_, err := b.Subscribe(ctx, "submissions", func(ctx context.Context, msg *Message) error { return nil })
	assert.ErrorIs(t, err, ErrBrokerClosed)
	assert.ErrorIs(t, b.CreateTopic(ctx, "submissions"), ErrBrokerClosed)

	// Closing twice is a no-op.
	assert.NoError(t, b.Close())
}
