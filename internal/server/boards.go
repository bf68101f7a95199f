package server

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/wikicollage/internal/config"
	"github.com/matzehuels/wikicollage/pkg/board"
)

// RedisBoards stores each session's board in Redis so replicas behind a
// load balancer share it. Keys expire ttl after the last append.
func RedisBoards(client redis.UniversalClient, ttl time.Duration) BoardFactory {
	return func(id string) board.Board { return board.NewRedis(client, id, ttl) }
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// BoardsFromConfig selects the board backend named by cfg. The returned
// closer releases the backend's connections.
func BoardsFromConfig(ctx context.Context, cfg *config.Config) (BoardFactory, io.Closer, error) {
	switch cfg.Server.Board {
	case config.BoardRedis:
		client, err := board.Connect(ctx, cfg.Server.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return RedisBoards(client, cfg.Server.SessionTTL.Duration), client, nil
	case config.BoardMemory, "":
		return MemoryBoards(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrInvalidBoard, cfg.Server.Board)
	}
}
