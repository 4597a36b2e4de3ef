// Package cache is a Redis read-through cache for lookup results.
//
// Keys encode the exact lookup pair, so a null region and an empty region
// never share an entry:
//
//	sales_rules:lookup:FR:null
//	sales_rules:lookup:FR:""
//	sales_rules:lookup:FR:"EU"
//
// Every key also has a generation counter under sales_rules:lookup_gen:.
// Writers bump it when they invalidate, and a lookup only stores its
// result when the generation it read before querying is still current, so
// a read that raced with a write cannot put the old answer back.
package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/deppfellow/sales-org-service/internal/model"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix        = "sales_rules:lookup:"
	generationPrefix = "sales_rules:lookup_gen:"
)

// KEYS[1] entry, KEYS[2] generation; ARGV[1] expected generation,
// ARGV[2] payload, ARGV[3] ttl in milliseconds.
var setIfGeneration = redis.NewScript(`
local current = redis.call("GET", KEYS[2])
if not current then
	current = "0"
end
if current ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// LookupCache stores LookupResponse values by rule key.
type LookupCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLookupCache(client *redis.Client, ttl time.Duration) *LookupCache {
	return &LookupCache{client: client, ttl: ttl}
}

// Key renders the cache key for a lookup pair.
func Key(key model.RuleKey) string {
	region := "null"
	if key.Region != nil {
		region = strconv.Quote(*key.Region)
	}
	return keyPrefix + key.Country + ":" + region
}

func generationKey(key model.RuleKey) string {
	return generationPrefix + strings.TrimPrefix(Key(key), keyPrefix)
}

// Get returns the cached response, or (nil, nil) on a miss.
func (c *LookupCache) Get(ctx context.Context, key model.RuleKey) (*model.LookupResponse, error) {
	data, err := c.client.Get(ctx, Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "cache get")
	}

	var resp model.LookupResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, errors.Wrap(err, "cache decode")
	}
	return &resp, nil
}

// Generation returns the current write generation of key, 0 when the key
// was never invalidated.
func (c *LookupCache) Generation(ctx context.Context, key model.RuleKey) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "cache generation")
	}
	return gen, nil
}

// SetIfGeneration stores resp only while key is still at generation gen.
// It reports whether the entry was written.
func (c *LookupCache) SetIfGeneration(ctx context.Context, key model.RuleKey, gen int64, resp *model.LookupResponse) (bool, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return false, errors.Wrap(err, "cache encode")
	}

	stored, err := setIfGeneration.Run(ctx, c.client,
		[]string{Key(key), generationKey(key)},
		strconv.FormatInt(gen, 10), data, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, errors.Wrap(err, "cache set")
	}
	return stored == 1, nil
}

// Invalidate bumps the generation of every given key, then drops its
// entry, in one transaction.
func (c *LookupCache) Invalidate(ctx context.Context, keys ...model.RuleKey) error {
	if len(keys) == 0 {
		return nil
	}

	names := make([]string, 0, len(keys))
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range keys {
			pipe.Incr(ctx, generationKey(k))
			names = append(names, Key(k))
		}
		pipe.Del(ctx, names...)
		return nil
	})
	return errors.Wrap(err, "cache invalidate")
}
