package connection

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/status"

	"github.com/ledgerworks/hashgraph-go/module"
)

const (
	// DefaultClientTimeout bounds a single request to a node.
	DefaultClientTimeout = 10 * time.Second

	// DefaultMaxMsgSize is the largest response accepted from a node.
	DefaultMaxMsgSize = 16 * 1024 * 1024
)

// CircuitBreakerConfig configures the circuit breaker guarding each node
// connection.
type CircuitBreakerConfig struct {
	// Enabled turns the circuit breaker on.
	Enabled bool
	// RestoreTimeout is how long the breaker stays open before letting
	// requests through again.
	RestoreTimeout time.Duration
	// MaxFailures is the number of consecutive failures opening the breaker.
	MaxFailures uint32
	// MaxRequests is the number of requests let through while half open.
	MaxRequests uint32
}

// Config configures the connections opened by a Manager.
type Config struct {
	Timeout        time.Duration
	MaxMsgSize     uint
	CircuitBreaker CircuitBreakerConfig
	// TLS is used to secure connections. Connections are plaintext when nil.
	TLS *tls.Config
}

// Manager opens gRPC connections to nodes and reuses them through a cache.
type Manager struct {
	cache   *Cache
	logger  zerolog.Logger
	metrics module.GRPCConnectionPoolMetrics
	config  Config
}

// NewManager creates a connection manager. Connections are not cached when
// cache is nil.
func NewManager(
	logger zerolog.Logger,
	metrics module.GRPCConnectionPoolMetrics,
	cache *Cache,
	config Config,
) *Manager {
	if config.Timeout == 0 {
		config.Timeout = DefaultClientTimeout
	}
	if config.MaxMsgSize == 0 {
		config.MaxMsgSize = DefaultMaxMsgSize
	}
	return &Manager{
		cache:   cache,
		logger:  logger.With().Str("component", "connection_manager").Logger(),
		metrics: metrics,
		config:  config,
	}
}

// GetConnection returns a connection to address, and the closer releasing it.
// Cached connections are released by the cache, their closer does nothing.
func (m *Manager) GetConnection(address string) (*grpc.ClientConn, io.Closer, error) {
	if m.cache != nil {
		conn, err := m.retrieveConnection(address)
		if err != nil {
			return nil, nil, err
		}
		return conn, &noopCloser{}, nil
	}

	conn, err := m.createConnection(address, nil)
	if err != nil {
		return nil, nil, err
	}
	return conn, io.Closer(conn), nil
}

// Remove closes and forgets the connection cached for address.
func (m *Manager) Remove(address string) bool {
	if m.cache == nil {
		return false
	}
	if !m.cache.Remove(address) {
		return false
	}
	m.metrics.ConnectionFromPoolInvalidated()
	return true
}

// Close closes every cached connection.
func (m *Manager) Close() error {
	if m.cache == nil {
		return nil
	}
	return m.cache.Close()
}

func (m *Manager) retrieveConnection(address string) (*grpc.ClientConn, error) {
	client, existed := m.cache.GetOrAdd(address, m.config.Timeout)
	if existed {
		// wait for the goroutine dialing the connection, if any
		client.mu.Lock()
		m.metrics.ConnectionFromPoolReused()
	} else {
		m.metrics.ConnectionAddedToPool()
	}
	defer client.mu.Unlock()

	if client.ClientConn != nil && client.ClientConn.GetState() != connectivity.Shutdown {
		return client.ClientConn, nil
	}

	conn, err := m.createConnection(address, client)
	if err != nil {
		return nil, err
	}

	client.ClientConn = conn
	m.metrics.NewConnectionEstablished()
	m.metrics.TotalConnectionsInPool(uint(m.cache.Len()), uint(m.cache.MaxSize()))

	return client.ClientConn, nil
}

// createConnection dials address. cachedClient is the cache entry the
// connection is created for, nil when connections are not cached.
func (m *Manager) createConnection(address string, cachedClient *CachedClient) (*grpc.ClientConn, error) {
	keepaliveParams := keepalive.ClientParameters{
		Time:    10 * time.Second,
		Timeout: m.config.Timeout,
	}

	// interceptors run in order, the request watcher must see every request
	var interceptors []grpc.UnaryClientInterceptor
	if cachedClient != nil {
		interceptors = append(interceptors, createRequestWatcherInterceptor(cachedClient))
	}
	interceptors = append(interceptors, grpc_prometheus.UnaryClientInterceptor)
	if m.config.CircuitBreaker.Enabled {
		interceptors = append(interceptors, m.createCircuitBreakerInterceptor(address))
	}
	interceptors = append(interceptors, createClientTimeoutInterceptor(m.config.Timeout))

	transportCredentials := insecure.NewCredentials()
	if m.config.TLS != nil {
		transportCredentials = credentials.NewTLS(m.config.TLS)
	}

	conn, err := grpc.Dial(
		address,
		grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(int(m.config.MaxMsgSize))),
		grpc.WithTransportCredentials(transportCredentials),
		grpc.WithKeepaliveParams(keepaliveParams),
		grpc.WithChainUnaryInterceptor(interceptors...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to address %s: %w", address, err)
	}
	return conn, nil
}

// createCircuitBreakerInterceptor guards the connection to address with a
// circuit breaker. While the breaker is open requests fail immediately with
// gobreaker.ErrOpenState, and with gobreaker.ErrTooManyRequests while it is
// half open and the probe budget is spent.
func (m *Manager) createCircuitBreakerInterceptor(address string) grpc.UnaryClientInterceptor {
	config := m.config.CircuitBreaker
	log := m.logger.With().Str("address", address).Logger()

	circuitBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        address,
		Timeout:     config.RestoreTimeout,
		MaxRequests: config.MaxRequests,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.MaxFailures
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Info().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker changed state")
		},
	})

	return func(
		ctx context.Context,
		method string,
		req interface{},
		reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		_, err := circuitBreaker.Execute(func() (interface{}, error) {
			return nil, invoker(ctx, method, req, reply, cc, opts...)
		})
		return err
	}
}

// isSuccessful reports whether a request outcome says the node is healthy.
// Errors caused by the request itself do not count against the node.
func isSuccessful(err error) bool {
	switch status.Code(err) {
	case codes.OK, codes.Canceled, codes.InvalidArgument, codes.NotFound, codes.Unimplemented, codes.OutOfRange:
		return true
	default:
		return false
	}
}

// createRequestWatcherInterceptor tracks the requests in flight on a cached
// connection so that closing it waits for them.
func createRequestWatcherInterceptor(cachedClient *CachedClient) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req interface{},
		reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		if cachedClient.closeRequested.Load() {
			return status.Errorf(codes.Unavailable, "the connection to %s was closed", cachedClient.Address)
		}

		cachedClient.inflight.Add(1)
		defer cachedClient.inflight.Done()

		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// createClientTimeoutInterceptor bounds every request by timeout.
func createClientTimeoutInterceptor(timeout time.Duration) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req interface{},
		reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

type noopCloser struct{}

func (c *noopCloser) Close() error {
	return nil
}
