package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanBroker struct {
	mu   sync.Mutex
	subs map[string]chan []byte
}

func newChanBroker() *chanBroker {
	return &chanBroker{subs: make(map[string]chan []byte)}
}

func (b *chanBroker) Publish(_ context.Context, channel string, message interface{}) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}
	b.mu.Lock()
	ch := b.subs[channel]
	b.mu.Unlock()
	if ch != nil {
		ch <- payload
	}
	return nil
}

func (b *chanBroker) Subscribe(_ context.Context, channel string) (<-chan []byte, error) {
	ch := make(chan []byte, 10)
	b.mu.Lock()
	b.subs[channel] = ch
	b.mu.Unlock()
	return ch, nil
}

func (b *chanBroker) Close() error { return nil }

func TestAdapterDeliversAndSurvivesHandlerErrors(t *testing.T) {
	adapter := NewBrokerAdapter(newChanBroker())

	got := make(chan string, 2)
	err := adapter.Subscribe(context.Background(), "cache", func(msg []byte) error {
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return err
		}
		got <- s
		if s == "first" {
			return errors.New("handler failed")
		}
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, adapter.Publish(context.Background(), "cache", "first"))
	require.NoError(t, adapter.Publish(context.Background(), "cache", "second"))

	for _, want := range []string{"first", "second"} {
		select {
		case s := <-got:
			assert.Equal(t, want, s)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}
