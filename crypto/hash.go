package crypto

import (
	"github.com/onflow/flow-go/crypto/hash"
)

// HashLen is the length of a transaction hash.
const HashLen = 48

// Hash returns the SHA-384 digest of data. Transactions are identified on the
// network by the hash of their signed transaction bytes.
func Hash(data []byte) []byte {
	return hash.NewSHA2_384().ComputeHash(data)
}
