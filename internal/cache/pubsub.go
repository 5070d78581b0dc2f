// Package cache fans committed game updates out through Redis pub/sub so
// every server instance can feed its own websocket subscribers.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/JTR-Brands/fore-fairways-and-greens/internal/game"
)

// channelFor names the per-game update channel.
func channelFor(gameID uuid.UUID) string {
	return "game:updates:" + gameID.String()
}

// Publisher pushes update records onto the per-game channel.
type Publisher struct {
	client *redis.Client
	log    *logrus.Logger
}

// Connect opens the Redis client and verifies the connection.
func Connect(ctx context.Context, redisURL string, log *logrus.Logger) (*Publisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("cache: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("cache: ping: %w", err)
	}
	return &Publisher{client: client, log: log}, nil
}

// Close releases the client.
func (p *Publisher) Close() error {
	return p.client.Close()
}

// Publish sends one update record. Called from the coordinator's post-commit
// hook; errors are logged and dropped so a Redis outage never fails a move.
func (p *Publisher) Publish(update game.Update) {
	payload, err := json.Marshal(update)
	if err != nil {
		p.log.WithError(err).Error("cache: marshal update")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.client.Publish(ctx, channelFor(update.GameID), payload).Err(); err != nil {
		p.log.WithError(err).WithField("game_id", update.GameID).Warn("cache: publish failed")
	}
}

// Subscribe delivers every game's update stream onto the returned channel
// until ctx is cancelled. Malformed payloads are skipped.
func (p *Publisher) Subscribe(ctx context.Context) (<-chan game.Update, error) {
	sub := p.client.PSubscribe(ctx, "game:updates:*")
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("cache: subscribe: %w", err)
	}
	out := make(chan game.Update, 16)
	go func() {
		defer close(out)
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
				var update game.Update
				if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
					p.log.WithError(err).Warn("cache: bad update payload")
					continue
				}
				select {
				case out <- update:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
