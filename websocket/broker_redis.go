package websocket

import (
	"context"
	"encoding/json"
	"log"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisChannel = "gurukul:chat"

// RedisBroker shares chat rooms between API instances over redis pub/sub.
type RedisBroker struct {
	client  *redis.Client
	channel string
}

func NewRedisBroker(ctx context.Context, addr, password string) (*RedisBroker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "connect to redis")
	}
	return &RedisBroker{client: client, channel: redisChannel}, nil
}

func (b *RedisBroker) Publish(ctx context.Context, env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return errors.Wrap(b.client.Publish(ctx, b.channel, payload).Err(), "publish chat frame")
}

func (b *RedisBroker) Subscribe(ctx context.Context, fn func(Envelope)) error {
	sub := b.client.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return errors.Wrap(err, "subscribe to chat channel")
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var env Envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					log.Printf("⚠️ Dropping malformed chat frame: %v", err)
					continue
				}
				fn(env)
			}
		}
	}()
	return nil
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}
