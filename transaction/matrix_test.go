package transaction

import (
	"testing"

	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/ledgerworks/hashgraph-go/crypto"
	"github.com/ledgerworks/hashgraph-go/engine/common/rpc/convert"
	"github.com/ledgerworks/hashgraph-go/utils/unittest"
)

func matrixFixture(rows, nodes int) *signableMatrix {
	m := newSignableMatrix(nodes)
	for i := 0; i < rows*nodes; i++ {
		m.appendCell(unittest.RandomBytes(32), nil, nil)
	}
	return m
}

func TestSignableMatrix_Layout(t *testing.T) {
	m := matrixFixture(3, 4)

	assert.Equal(t, 12, m.len())
	assert.Equal(t, 3, m.rows())
	assert.Equal(t, 0, m.cell(0, 0))
	assert.Equal(t, 7, m.cell(1, 3))
	assert.Equal(t, 11, m.cell(2, 3))

	var empty *signableMatrix
	assert.Equal(t, 0, empty.len())
	assert.Equal(t, 0, empty.rows())
	empty.invalidate()
}

func TestSignableMatrix_Envelope(t *testing.T) {
	m := matrixFixture(1, 2)
	key := unittest.PrivateKeyFixture(t, crypto.ED25519)

	first, err := m.envelope(0)
	require.NoError(t, err)

	t.Run("envelopes are cached", func(t *testing.T) {
		again, err := m.envelope(0)
		require.NoError(t, err)
		assert.Same(t, first, again)
	})

	t.Run("adding a signature drops the cached envelope", func(t *testing.T) {
		signature, err := key.Sign(m.bodies[0])
		require.NoError(t, err)

		m.addSignature(0, convert.SignaturePairToMessage(key.PublicKey(), signature))
		assert.Nil(t, m.built[0])
		assert.True(t, m.hasSignature(0, key.PublicKey()))
		assert.False(t, m.hasSignature(1, key.PublicKey()))

		envelope, err := m.envelope(0)
		require.NoError(t, err)

		signed := &services.SignedTransaction{}
		require.NoError(t, proto.Unmarshal(envelope.GetSignedTransactionBytes(), signed))
		assert.Equal(t, m.bodies[0], signed.GetBodyBytes())
		require.Len(t, signed.GetSigMap().GetSigPair(), 1)
		assert.True(t, key.PublicKey().Verify(signed.GetBodyBytes(), signed.GetSigMap().GetSigPair()[0].GetEd25519()))
	})

	t.Run("invalidate drops every envelope", func(t *testing.T) {
		_, err := m.envelope(1)
		require.NoError(t, err)
		m.invalidate()
		assert.Nil(t, m.built[0])
		assert.Nil(t, m.built[1])
	})
}

func TestKeyMatchesPrefix(t *testing.T) {
	key := unittest.PrivateKeyFixture(t, crypto.ED25519).PublicKey()

	assert.True(t, keyMatchesPrefix(key, key.Bytes()))
	assert.True(t, keyMatchesPrefix(key, key.Bytes()[:6]))
	assert.False(t, keyMatchesPrefix(key, nil))
	assert.False(t, keyMatchesPrefix(key, append([]byte{key.Bytes()[0] ^ 0xff}, key.Bytes()[1:]...)))
}
