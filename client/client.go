package client

import (
	"fmt"
	"sync"

	"github.com/gammazero/workerpool"
	"github.com/rs/zerolog"

	"github.com/ledgerworks/hashgraph-go/crypto"
	"github.com/ledgerworks/hashgraph-go/model/hiero"
	"github.com/ledgerworks/hashgraph-go/module"
	"github.com/ledgerworks/hashgraph-go/network"
	"github.com/ledgerworks/hashgraph-go/network/connection"
	"github.com/ledgerworks/hashgraph-go/transaction"
)

// Client connects to a network of nodes on behalf of an operator. It is the
// network transactions are frozen with and executed against.
type Client struct {
	*network.Network

	log      zerolog.Logger
	metrics  module.SDKMetrics
	settings transaction.Settings
	pool     *workerpool.WorkerPool

	mu       sync.RWMutex
	operator *transaction.Operator
	closed   bool
}

var _ transaction.Network = (*Client)(nil)

// New creates a client for the nodes of config.Network.
func New(log zerolog.Logger, metrics module.SDKMetrics, config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	book, err := network.NewAddressBook(config.Network)
	if err != nil {
		return nil, fmt.Errorf("could not create address book: %w", err)
	}

	cache, err := connection.NewCache(log, metrics, config.ConnectionCacheSize)
	if err != nil {
		return nil, err
	}
	connections := connection.NewManager(log, metrics, cache, connection.Config{
		Timeout:        config.ConnectionTimeout,
		MaxMsgSize:     config.MaxMsgSize,
		CircuitBreaker: config.CircuitBreaker,
		TLS:            config.TLS,
	})

	nodes := network.New(log, metrics, book, connections, network.Config{
		MaxNodesPerTransaction: config.MaxNodesPerTransaction,
		ReceiptMinBackoff:      config.ReceiptMinBackoff,
		ReceiptMaxBackoff:      config.ReceiptMaxBackoff,
		CircuitBreakerEnabled:  config.CircuitBreaker.Enabled,
	})

	log.Info().
		Int("nodes", book.Len()).
		Str("ledger", config.LedgerID.String()).
		Msg("client created")

	return &Client{
		Network:  nodes,
		log:      log,
		metrics:  metrics,
		settings: config.settings(),
		pool:     workerpool.New(config.AsyncWorkers),
	}, nil
}

// SetOperator sets the account paying for transactions and the key signing
// for it.
func (c *Client) SetOperator(account hiero.AccountID, key crypto.PrivateKey) {
	c.SetOperatorWith(account, key.PublicKey(), key.Sign)
}

// SetOperatorWith sets the operator with a signer holding the key, such as a
// remote signing service.
func (c *Client) SetOperatorWith(account hiero.AccountID, publicKey crypto.PublicKey, signer transaction.Signer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.operator = &transaction.Operator{
		AccountID: account,
		PublicKey: publicKey,
		Signer:    signer,
	}
}

// Operator returns the operator, or nil when none is set.
func (c *Client) Operator() *transaction.Operator {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.operator
}

func (c *Client) Settings() transaction.Settings {
	return c.settings
}

func (c *Client) Logger() zerolog.Logger {
	return c.log
}

func (c *Client) Metrics() module.TransactionMetrics {
	return c.metrics
}

// Go runs an asynchronous execution on the worker pool. Once the client is
// closed, tasks run on their own goroutine.
func (c *Client) Go(task func()) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		go task()
		return
	}
	c.pool.Submit(task)
}

// Close waits for the asynchronous executions in progress and closes every
// node connection.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.pool.StopWait()

	if err := c.Network.Close(); err != nil {
		return fmt.Errorf("could not close client: %w", err)
	}
	return nil
}
