package network

import (
	"context"
	"fmt"
	"time"

	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/services"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"

	"github.com/ledgerworks/hashgraph-go/model/hiero"
	"github.com/ledgerworks/hashgraph-go/module"
	"github.com/ledgerworks/hashgraph-go/network/connection"
	"github.com/ledgerworks/hashgraph-go/utils/rand"
)

const (
	DefaultReceiptMinBackoff = 250 * time.Millisecond
	DefaultReceiptMaxBackoff = 8 * time.Second
)

// Config configures how nodes are selected and receipts polled.
type Config struct {
	// MaxNodesPerTransaction caps the number of nodes a transaction is
	// prepared for. When zero, a third of the address book is used.
	MaxNodesPerTransaction int
	ReceiptMinBackoff      time.Duration
	ReceiptMaxBackoff      time.Duration
	CircuitBreakerEnabled  bool
}

// Network sends transactions and receipt queries to the nodes of an address
// book.
type Network struct {
	log          zerolog.Logger
	metrics      module.TransactionMetrics
	book         *AddressBook
	connections  *connection.Manager
	communicator *NodeCommunicator
	config       Config
}

func New(
	log zerolog.Logger,
	metrics module.TransactionMetrics,
	book *AddressBook,
	connections *connection.Manager,
	config Config,
) *Network {
	if config.ReceiptMinBackoff <= 0 {
		config.ReceiptMinBackoff = DefaultReceiptMinBackoff
	}
	if config.ReceiptMaxBackoff <= 0 {
		config.ReceiptMaxBackoff = DefaultReceiptMaxBackoff
	}
	return &Network{
		log:          log.With().Str("component", "network").Logger(),
		metrics:      metrics,
		book:         book,
		connections:  connections,
		communicator: NewNodeCommunicator(config.CircuitBreakerEnabled),
		config:       config,
	}
}

func (n *Network) AddressBook() *AddressBook {
	return n.book
}

// SelectNodeAccountIDs picks a random subset of the address book holding a
// third of its nodes, rounded up.
func (n *Network) SelectNodeAccountIDs() ([]hiero.AccountID, error) {
	nodes := n.book.Nodes()

	count := (len(nodes) + 2) / 3
	if n.config.MaxNodesPerTransaction > 0 && count > n.config.MaxNodesPerTransaction {
		count = n.config.MaxNodesPerTransaction
	}

	err := rand.Samples(len(nodes), count, func(i, j int) {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	})
	if err != nil {
		return nil, fmt.Errorf("could not sample nodes: %w", err)
	}
	return nodes[:count], nil
}

// Submit sends tx to node through the given gRPC method.
func (n *Network) Submit(ctx context.Context, node hiero.AccountID, method string, tx *services.Transaction) (*services.TransactionResponse, error) {
	resp := &services.TransactionResponse{}
	if err := n.invoke(ctx, node, method, tx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// invoke calls method on node. Connections answering as unavailable are
// dropped so that the next request dials again.
func (n *Network) invoke(ctx context.Context, node hiero.AccountID, method string, req proto.Message, reply proto.Message) error {
	address, err := n.book.Address(node)
	if err != nil {
		return err
	}

	conn, closer, err := n.connections.GetConnection(address)
	if err != nil {
		return fmt.Errorf("could not connect to node %s: %w", node, err)
	}
	defer closer.Close()

	err = conn.Invoke(ctx, method, req, reply)
	if err != nil {
		if status.Code(err) == codes.Unavailable && n.connections.Remove(address) {
			n.log.Debug().Str("node", node.String()).Str("address", address).Msg("dropped unavailable connection")
		}
		return fmt.Errorf("failed to call %s on node %s: %w", method, node, err)
	}
	return nil
}

// Close closes every connection to the nodes.
func (n *Network) Close() error {
	return n.connections.Close()
}
