// Package cache is an in-process cache of rendered read responses.
// Writes invalidate by path prefix; with a broker configured the
// invalidation is broadcast so every instance drops its copy.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/his-api/pkg/messaging"
	"github.com/jwalitptl/his-api/pkg/metrics"
)

// Invalidator drops cached pages under the given path prefixes.
type Invalidator interface {
	Invalidate(ctx context.Context, prefixes ...string)
}

// Entry is a cached response body.
type Entry struct {
	Status      int
	ContentType string
	Body        []byte
}

type invalidation struct {
	Origin   string   `json:"origin"`
	Prefixes []string `json:"prefixes"`
}

type PageCache struct {
	store   *gocache.Cache
	broker  messaging.MessageBroker
	channel string
	origin  string
	metrics *metrics.Metrics
}

type Options struct {
	TTL             time.Duration
	CleanupInterval time.Duration
	Broker          messaging.MessageBroker
	Channel         string
	InstanceID      string
	Metrics         *metrics.Metrics
}

func New(opts Options) *PageCache {
	if opts.TTL <= 0 {
		opts.TTL = time.Minute
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = 5 * time.Minute
	}
	return &PageCache{
		store:   gocache.New(opts.TTL, opts.CleanupInterval),
		broker:  opts.Broker,
		channel: opts.Channel,
		origin:  opts.InstanceID,
		metrics: opts.Metrics,
	}
}

// Key is the cache key for a request. The credential class is part of the
// key so API-key and session callers never share an entry.
func Key(class, requestURI string) string {
	return class + "|" + requestURI
}

func (c *PageCache) Get(key string) (*Entry, bool) {
	v, ok := c.store.Get(key)
	c.metrics.CacheLookup(ok)
	if !ok {
		return nil, false
	}
	return v.(*Entry), true
}

func (c *PageCache) Set(key string, e *Entry) {
	c.store.SetDefault(key, e)
}

// Invalidate drops local entries and, when a broker is configured,
// broadcasts the prefixes. Broadcast failures are logged only.
func (c *PageCache) Invalidate(ctx context.Context, prefixes ...string) {
	if len(prefixes) == 0 {
		return
	}
	c.drop(prefixes)
	c.metrics.CacheInvalidation("local")

	if c.broker == nil {
		return
	}
	msg := invalidation{Origin: c.origin, Prefixes: prefixes}
	if err := c.broker.Publish(ctx, c.channel, msg); err != nil {
		log.Warn().Err(err).Strs("prefixes", prefixes).Msg("failed to broadcast cache invalidation")
	}
}

// Listen applies invalidations published by other instances until ctx is done.
func (c *PageCache) Listen(ctx context.Context) error {
	if c.broker == nil {
		return nil
	}
	return c.broker.Subscribe(ctx, c.channel, c.handleRemote)
}

func (c *PageCache) handleRemote(payload []byte) error {
	var msg invalidation
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("failed to decode invalidation: %w", err)
	}
	if msg.Origin == c.origin {
		return nil
	}
	c.drop(msg.Prefixes)
	c.metrics.CacheInvalidation("remote")
	return nil
}

func (c *PageCache) drop(prefixes []string) {
	for key := range c.store.Items() {
		_, uri, _ := strings.Cut(key, "|")
		for _, p := range prefixes {
			if strings.HasPrefix(uri, p) {
				c.store.Delete(key)
				break
			}
		}
	}
}

// Nop satisfies Invalidator without caching anything.
type Nop struct{}

func (Nop) Invalidate(context.Context, ...string) {}
