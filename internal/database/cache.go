package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/wakatake-dev/faqbot/pkg/utils"
)

// Cache is the transport-layer TTL cache: remote bodies (FAQ table, pages,
// feeds) and resolved answers. The matching core tolerates the stale reads
// this implies.
type Cache struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewCache(client *redis.Client, logger *logrus.Logger) *Cache {
	return &Cache{client: client, logger: logger}
}

const (
	fetchedBodyKey = "fetch:body:%s"
	answerKey      = "answer:%s"
)

// CacheFetchedBody stores a fetched remote body under the URL's hash.
func (c *Cache) CacheFetchedBody(ctx context.Context, url, body string, ttl time.Duration) error {
	key := fmt.Sprintf(fetchedBodyKey, utils.MD5Hash(url))
	return c.client.Set(ctx, key, body, ttl).Err()
}

func (c *Cache) GetFetchedBody(ctx context.Context, url string) (string, error) {
	key := fmt.Sprintf(fetchedBodyKey, utils.MD5Hash(url))
	return c.client.Get(ctx, key).Result()
}

// CacheAnswer stores a resolved answer payload for a question hash.
func (c *Cache) CacheAnswer(ctx context.Context, questionHash string, payload interface{}, ttl time.Duration) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	return c.client.Set(ctx, fmt.Sprintf(answerKey, questionHash), data, ttl).Err()
}

func (c *Cache) GetCachedAnswer(ctx context.Context, questionHash string, out interface{}) error {
	data, err := c.client.Get(ctx, fmt.Sprintf(answerKey, questionHash)).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), out)
}
