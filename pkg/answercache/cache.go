package answercache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	answerKeyPrefix = "answer:"
	answerTTL       = 6 * time.Hour
)

// Cache stores assistant answers keyed by normalized question text,
// so repeated questions skip the upstream model. A nil redis client
// disables caching entirely and every lookup is a miss.
type Cache struct {
	redis *redis.Client
}

func New(redisClient *redis.Client) *Cache {
	return &Cache{redis: redisClient}
}

func cacheKey(topic, question string) string {
	normalized := strings.ToLower(strings.TrimSpace(question))
	sum := sha256.Sum256([]byte(topic + "|" + normalized))
	return answerKeyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached answer for the question, or ("", false) on a miss.
func (c *Cache) Get(ctx context.Context, topic, question string) (string, bool) {
	if c == nil || c.redis == nil {
		return "", false
	}
	answer, err := c.redis.Get(ctx, cacheKey(topic, question)).Result()
	if err != nil {
		return "", false
	}
	return answer, true
}

// Set stores the answer. Failures are ignored, the cache is best-effort.
func (c *Cache) Set(ctx context.Context, topic, question, answer string) {
	if c == nil || c.redis == nil {
		return
	}
	c.redis.Set(ctx, cacheKey(topic, question), answer, answerTTL)
}
