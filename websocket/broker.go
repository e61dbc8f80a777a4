package websocket

import (
	"context"
	"encoding/json"
	"sync"
)

// Envelope is a frame on its way to every member of Room except the connection Origin.
type Envelope struct {
	Room   string          `json:"room"`
	Origin string          `json:"origin,omitempty"`
	Frame  json.RawMessage `json:"frame"`
}

// Broker fans envelopes out to every hub subscribed to it.
type Broker interface {
	Publish(ctx context.Context, env Envelope) error
	// Subscribe registers fn and returns once the subscription is live.
	// fn is called until ctx is done.
	Subscribe(ctx context.Context, fn func(Envelope)) error
	Close() error
}

// LocalBroker delivers within this process.
type LocalBroker struct {
	mu       sync.RWMutex
	handlers map[int]func(Envelope)
	next     int
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{handlers: make(map[int]func(Envelope))}
}

func (b *LocalBroker) Publish(_ context.Context, env Envelope) error {
	b.mu.RLock()
	handlers := make([]func(Envelope), 0, len(b.handlers))
	for _, fn := range b.handlers {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(env)
	}
	return nil
}

func (b *LocalBroker) Subscribe(ctx context.Context, fn func(Envelope)) error {
	b.mu.Lock()
	id := b.next
	b.next++
	b.handlers[id] = fn
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}()
	return nil
}

func (b *LocalBroker) Close() error { return nil }
