package inventory

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// redisKeyPrefix is the namespace for catalog sets. Paths for a page type
// live in the set "pages:<type>", maintained by the catalog exporter.
const redisKeyPrefix = "pages:"

// scanCount is the SSCAN batch hint. Large inventories stream in chunks of
// this size rather than arriving in one reply.
const scanCount = 200

// Redis is an Inventory backed by a Redis catalog store.
type Redis struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedis creates a Redis-backed inventory.
func NewRedis(client *redis.Client) *Redis {
	if client == nil {
		panic("redis client cannot be nil")
	}
	return &Redis{
		client: client,
		logger: log.With().Str("component", "redis-inventory").Logger(),
	}
}

// PagePaths implements Inventory. Each page type's set is scanned lazily via
// SSCAN; types are consumed in the order given.
func (r *Redis) PagePaths(_ context.Context, pageTypes []string) (PathIterator, error) {
	return &redisIterator{inv: r, pageTypes: pageTypes}, nil
}

// redisIterator chains the SSCAN iterators of the requested page types.
type redisIterator struct {
	inv       *Redis
	pageTypes []string
	typePos   int
	scan      *redis.ScanIterator
	val       string
	err       error
}

func (it *redisIterator) Next(ctx context.Context) bool {
	if it.err != nil {
		return false
	}

	for {
		if it.scan != nil {
			if it.scan.Next(ctx) {
				it.val = it.scan.Val()
				return true
			}
			if err := it.scan.Err(); err != nil {
				it.err = err
				return false
			}
			it.scan = nil
		}

		if it.typePos >= len(it.pageTypes) {
			return false
		}

		pageType := it.pageTypes[it.typePos]
		it.typePos++
		it.scan = it.inv.client.SScan(ctx, redisKeyPrefix+pageType, 0, "", scanCount).Iterator()

		it.inv.logger.Debug().
			Str("page_type", pageType).
			Msg("Scanning catalog set")
	}
}

func (it *redisIterator) Val() string { return it.val }

func (it *redisIterator) Err() error { return it.err }
