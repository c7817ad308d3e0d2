package client

import (
	"crypto/tls"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ledgerworks/hashgraph-go/model/hiero"
	"github.com/ledgerworks/hashgraph-go/network"
	"github.com/ledgerworks/hashgraph-go/network/connection"
	"github.com/ledgerworks/hashgraph-go/transaction"
)

// Config configures a Client. Start from DefaultConfig and set Network.
type Config struct {
	// Network maps the gRPC address of every node to its account.
	Network  map[string]hiero.AccountID `validate:"min=1,dive,keys,hostname_port,endkeys"`
	LedgerID hiero.LedgerID             `validate:"ledger"`

	// AutoValidateChecksums checks the entity IDs of a transaction against
	// LedgerID before it is executed.
	AutoValidateChecksums bool
	// RegenerateTransactionID lets generated transaction IDs be replaced when
	// a node reports them expired.
	RegenerateTransactionID bool
	// DefaultMaxTransactionFee overrides the fee of each transaction kind
	// when non zero.
	DefaultMaxTransactionFee hiero.Hbar `validate:"gte=0"`

	MaxAttempts int           `validate:"gte=1"`
	MinBackoff  time.Duration `validate:"gt=0"`
	MaxBackoff  time.Duration `validate:"gtefield=MinBackoff"`
	// RequestTimeout bounds executions whose context has no deadline. Zero
	// disables it.
	RequestTimeout time.Duration `validate:"gte=0"`

	// MaxNodesPerTransaction caps the number of nodes a transaction is
	// prepared for. Zero selects a third of the network.
	MaxNodesPerTransaction int           `validate:"gte=0"`
	ReceiptMinBackoff      time.Duration `validate:"gt=0"`
	ReceiptMaxBackoff      time.Duration `validate:"gtefield=ReceiptMinBackoff"`

	ConnectionCacheSize int                             `validate:"gte=1"`
	ConnectionTimeout   time.Duration                   `validate:"gt=0"`
	MaxMsgSize          uint                            `validate:"gt=0"`
	CircuitBreaker      connection.CircuitBreakerConfig
	// TLS secures node connections. Connections are plaintext when nil.
	TLS *tls.Config `validate:"-"`

	// AsyncWorkers is the number of asynchronous executions run at once.
	AsyncWorkers int `validate:"gte=1"`
}

// DefaultConfig returns the default configuration, without any node.
func DefaultConfig() Config {
	return Config{
		LedgerID:                hiero.Mainnet,
		AutoValidateChecksums:   false,
		RegenerateTransactionID: true,
		MaxAttempts:             transaction.DefaultMaxAttempts,
		MinBackoff:              transaction.DefaultMinBackoff,
		MaxBackoff:              transaction.DefaultMaxBackoff,
		RequestTimeout:          2 * time.Minute,
		ReceiptMinBackoff:       network.DefaultReceiptMinBackoff,
		ReceiptMaxBackoff:       network.DefaultReceiptMaxBackoff,
		ConnectionCacheSize:     50,
		ConnectionTimeout:       connection.DefaultClientTimeout,
		MaxMsgSize:              connection.DefaultMaxMsgSize,
		CircuitBreaker: connection.CircuitBreakerConfig{
			Enabled:        true,
			RestoreTimeout: 60 * time.Second,
			MaxFailures:    5,
			MaxRequests:    1,
		},
		AsyncWorkers: 16,
	}
}

// NewValidator returns a validator knowing the custom rules used by Config.
func NewValidator() (*validator.Validate, error) {
	v := validator.New()

	err := v.RegisterValidation("ledger", func(fl validator.FieldLevel) bool {
		ledger := hiero.LedgerID(fl.Field().Uint())
		return ledger <= hiero.LocalNode
	})
	if err != nil {
		return nil, fmt.Errorf("could not register ledger validation: %w", err)
	}

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		breaker := sl.Current().Interface().(connection.CircuitBreakerConfig)
		if !breaker.Enabled {
			return
		}
		if breaker.MaxFailures == 0 {
			sl.ReportError(breaker.MaxFailures, "MaxFailures", "MaxFailures", "breaker", "")
		}
		if breaker.MaxRequests == 0 {
			sl.ReportError(breaker.MaxRequests, "MaxRequests", "MaxRequests", "breaker", "")
		}
		if breaker.RestoreTimeout <= 0 {
			sl.ReportError(breaker.RestoreTimeout, "RestoreTimeout", "RestoreTimeout", "breaker", "")
		}
	}, connection.CircuitBreakerConfig{})

	return v, nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	v, err := NewValidator()
	if err != nil {
		return err
	}
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid client configuration: %w", err)
	}
	return nil
}

func (c Config) settings() transaction.Settings {
	return transaction.Settings{
		LedgerID:                 c.LedgerID,
		AutoValidateChecksums:    c.AutoValidateChecksums,
		RegenerateTransactionID:  c.RegenerateTransactionID,
		DefaultMaxTransactionFee: c.DefaultMaxTransactionFee,
		MaxAttempts:              c.MaxAttempts,
		MinBackoff:               c.MinBackoff,
		MaxBackoff:               c.MaxBackoff,
		RequestTimeout:           c.RequestTimeout,
	}
}
