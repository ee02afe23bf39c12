package event

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Mo7amed-Boukab/eventia-backend/config"
)

const publishedEventsKey = "events:published"

// Cache holds the published-events list in Redis. All methods degrade to
// a miss when Redis is unavailable, so the catalog keeps working without it.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache returns nil when no Redis address is configured.
func NewCache(cfg *config.Config) *Cache {
	if cfg.RedisAddr == "" {
		log.Println("⚠️ REDIS_ADDR not set, event cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis ping failed: %v (event cache disabled)", err)
		return nil
	}

	log.Println("✅ Redis connected, event cache enabled")
	return &Cache{client: client, ttl: 60 * time.Second}
}

func (c *Cache) GetPublished(ctx context.Context) ([]Event, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, publishedEventsKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("⚠️ Event cache read failed: %v", err)
		}
		return nil, false
	}

	var events []Event
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, false
	}
	return events, true
}

func (c *Cache) SetPublished(ctx context.Context, events []Event) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(events)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, publishedEventsKey, raw, c.ttl).Err(); err != nil {
		log.Printf("⚠️ Event cache write failed: %v", err)
	}
}

// Invalidate drops the cached list. Called after any event write and after
// reservation transitions that change participant counters.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, publishedEventsKey).Err(); err != nil {
		log.Printf("⚠️ Event cache invalidation failed: %v", err)
	}
}
