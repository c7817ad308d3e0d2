package connection

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"google.golang.org/grpc"

	"github.com/ledgerworks/hashgraph-go/module"
)

// CachedClient is a gRPC connection to a node kept for reuse.
type CachedClient struct {
	ClientConn     *grpc.ClientConn
	Address        string
	timeout        time.Duration
	closeRequested *atomic.Bool
	inflight       sync.WaitGroup
	mu             sync.Mutex
}

// Close marks the connection as closing, waits for the requests in flight and
// closes it. Requests started after Close fail as unavailable.
func (cc *CachedClient) Close() error {
	if !cc.closeRequested.CompareAndSwap(false, true) {
		return nil
	}

	// any dial in progress holds the lock
	cc.mu.Lock()
	conn := cc.ClientConn
	cc.mu.Unlock()

	if conn == nil {
		return nil
	}

	cc.inflight.Wait()
	if err := conn.Close(); err != nil {
		return fmt.Errorf("could not close connection to %s: %w", cc.Address, err)
	}
	return nil
}

// Cache holds at most size node connections. Evicted connections are closed
// once their requests complete.
type Cache struct {
	log     zerolog.Logger
	metrics module.GRPCConnectionPoolMetrics
	cache   *lru.Cache[string, *CachedClient]
	size    int
}

// NewCache creates a cache of connections holding up to size entries.
func NewCache(log zerolog.Logger, metrics module.GRPCConnectionPoolMetrics, size int) (*Cache, error) {
	c := &Cache{
		log:     log.With().Str("component", "connection_cache").Logger(),
		metrics: metrics,
		size:    size,
	}

	cache, err := lru.NewWithEvict(size, c.onEvict)
	if err != nil {
		return nil, fmt.Errorf("could not initialize connection cache: %w", err)
	}
	c.cache = cache
	return c, nil
}

func (c *Cache) onEvict(address string, client *CachedClient) {
	// closing may block on requests in flight, the cache lock is held here
	go func() {
		if err := client.Close(); err != nil {
			c.log.Warn().Err(err).Str("address", address).Msg("failed to close evicted connection")
		}
	}()
	c.log.Debug().Str("address", address).Msg("closing evicted connection")
	c.metrics.ConnectionFromPoolEvicted()
}

// Get returns the client cached for address.
func (c *Cache) Get(address string) (*CachedClient, bool) {
	return c.cache.Get(address)
}

// GetOrAdd returns the client cached for address, or caches a new one.
// A new client is returned with its lock held so that the caller dials the
// connection before anyone else uses it. The boolean reports whether the
// client already existed.
func (c *Cache) GetOrAdd(address string, timeout time.Duration) (*CachedClient, bool) {
	client := &CachedClient{
		Address:        address,
		timeout:        timeout,
		closeRequested: atomic.NewBool(false),
	}
	client.mu.Lock()

	existing, ok, _ := c.cache.PeekOrAdd(address, client)
	if ok {
		return existing, true
	}
	return client, false
}

// Remove drops the client cached for address. The client is closed like an
// evicted one.
func (c *Cache) Remove(address string) bool {
	return c.cache.Remove(address)
}

func (c *Cache) Len() int {
	return c.cache.Len()
}

func (c *Cache) MaxSize() int {
	return c.size
}

func (c *Cache) Contains(address string) bool {
	return c.cache.Contains(address)
}

// Close closes every cached connection and empties the cache.
func (c *Cache) Close() error {
	var err error
	for _, address := range c.cache.Keys() {
		client, ok := c.cache.Peek(address)
		if !ok {
			continue
		}
		// removing through the cache would close the client asynchronously
		err = multierr.Append(err, client.Close())
	}
	c.cache.Purge()
	return err
}
