package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// BoardEventsChannel carries board events between server instances.
const BoardEventsChannel = "board_events"

// Connect establishes a connection to Redis
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

// BoardSnapshotKey is where a board snapshot is cached.
func BoardSnapshotKey(boardID string) string {
	return "board:" + boardID + ":snapshot"
}

// ChatRateKey guards the chat assistant for one client.
func ChatRateKey(clientID string) string {
	return "chat_rate:" + clientID
}
