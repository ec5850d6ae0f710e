package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const reminderTTL = 48 * time.Hour

// RedisReminderGuard remembers which goal reminders went out on which day so
// a scheduled sweep and a manual trigger do not both send one.
type RedisReminderGuard struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisReminderGuard connects to the Redis server at url (redis://...) and pings it.
func NewRedisReminderGuard(ctx context.Context, url string, logger *slog.Logger) (*RedisReminderGuard, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	logger.Info("🔌 [Redis] Connecting to Redis...", "addr", opts.Addr, "db", opts.DB)
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("✅ [Redis] Redis connection established")
	return NewRedisReminderGuardWithClient(client, logger), nil
}

func NewRedisReminderGuardWithClient(client *redis.Client, logger *slog.Logger) *RedisReminderGuard {
	return &RedisReminderGuard{client: client, logger: logger}
}

func reminderKey(goalID uint, day string) string {
	return fmt.Sprintf("reminder:%d:%s", goalID, day)
}

// Acquire reports true the first time it sees (goalID, day).
func (g *RedisReminderGuard) Acquire(ctx context.Context, goalID uint, day string) (bool, error) {
	ok, err := g.client.SetNX(ctx, reminderKey(goalID, day), time.Now().Unix(), reminderTTL).Result()
	if err != nil {
		return false, fmt.Errorf("acquire reminder %d/%s: %w", goalID, day, err)
	}
	if !ok {
		g.logger.Debug("[Redis] Reminder already sent", "goal_id", goalID, "day", day)
	}
	return ok, nil
}

func (g *RedisReminderGuard) Close() error {
	return g.client.Close()
}

// NoOpReminderGuard lets every reminder through. It is used when Redis is not configured.
type NoOpReminderGuard struct{}

func (NoOpReminderGuard) Acquire(context.Context, uint, string) (bool, error) {
	return true, nil
}

func (NoOpReminderGuard) Close() error {
	return nil
}
