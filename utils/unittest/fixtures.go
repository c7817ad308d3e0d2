package unittest

import (
	crand "crypto/rand"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerworks/hashgraph-go/crypto"
	"github.com/ledgerworks/hashgraph-go/model/hiero"
)

// AccountIDFixture returns a random account in shard 0, realm 0, above the
// range of system accounts.
func AccountIDFixture() hiero.AccountID {
	return hiero.AccountIDFromNum(10_000 + rand.Int63n(1_000_000))
}

// NodeAccountIDsFixture returns the accounts of n consecutive nodes starting
// at 0.0.3.
func NodeAccountIDsFixture(n int) []hiero.AccountID {
	nodes := make([]hiero.AccountID, n)
	for i := range nodes {
		nodes[i] = hiero.AccountIDFromNum(int64(3 + i))
	}
	return nodes
}

// TransactionIDFixture returns an ID for a random payer with a fixed valid
// start.
func TransactionIDFixture() hiero.TransactionID {
	return TransactionIDForPayer(AccountIDFixture())
}

func TransactionIDForPayer(payer hiero.AccountID) hiero.TransactionID {
	return hiero.NewTransactionID(payer, time.Unix(1_700_000_000, 500).UTC())
}

// PrivateKeyFixture generates a key of the given type.
func PrivateKeyFixture(t testing.TB, keyType crypto.KeyType) crypto.PrivateKey {
	key, err := crypto.GeneratePrivateKey(keyType)
	require.NoError(t, err)
	return key
}

func RandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := crand.Read(b); err != nil {
		panic(err)
	}
	return b
}
