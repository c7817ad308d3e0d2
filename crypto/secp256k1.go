package crypto

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"golang.org/x/crypto/sha3"
)

// secp256k1 signatures are the 64 byte r||s over the keccak256 digest of the
// message.
const secp256k1SignatureLen = 64

type secp256k1PrivateKey struct {
	key *btcec.PrivateKey
}

type secp256k1PublicKey struct {
	key *btcec.PublicKey
}

var _ PrivateKey = (*secp256k1PrivateKey)(nil)
var _ PublicKey = (*secp256k1PublicKey)(nil)

func generateSecp256k1() (*secp256k1PrivateKey, error) {
	key, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("could not generate secp256k1 key: %w", err)
	}
	return &secp256k1PrivateKey{key: key}, nil
}

func decodeSecp256k1PrivateKey(b []byte) (*secp256k1PrivateKey, error) {
	if len(b) != btcec.PrivKeyBytesLen {
		return nil, fmt.Errorf("invalid secp256k1 private key length %d", len(b))
	}
	key, _ := btcec.PrivKeyFromBytes(b)
	return &secp256k1PrivateKey{key: key}, nil
}

func decodeSecp256k1PublicKey(b []byte) (*secp256k1PublicKey, error) {
	key, err := btcec.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("invalid secp256k1 public key: %w", err)
	}
	return &secp256k1PublicKey{key: key}, nil
}

func keccak256(message []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(message)
	return h.Sum(nil)
}

func (k *secp256k1PrivateKey) Type() KeyType {
	return ECDSASecp256k1
}

func (k *secp256k1PrivateKey) Bytes() []byte {
	return k.key.Serialize()
}

func (k *secp256k1PrivateKey) PublicKey() PublicKey {
	return &secp256k1PublicKey{key: k.key.PubKey()}
}

func (k *secp256k1PrivateKey) Sign(message []byte) ([]byte, error) {
	compact := ecdsa.SignCompact(k.key, keccak256(message), true)
	// drop the recovery byte
	return compact[1:], nil
}

func (k *secp256k1PublicKey) Type() KeyType {
	return ECDSASecp256k1
}

func (k *secp256k1PublicKey) Bytes() []byte {
	return k.key.SerializeCompressed()
}

func (k *secp256k1PublicKey) Verify(message []byte, signature []byte) bool {
	if len(signature) != secp256k1SignatureLen {
		return false
	}
	var r, s btcec.ModNScalar
	if overflow := r.SetByteSlice(signature[:32]); overflow {
		return false
	}
	if overflow := s.SetByteSlice(signature[32:]); overflow {
		return false
	}
	return ecdsa.NewSignature(&r, &s).Verify(keccak256(message), k.key)
}

func (k *secp256k1PublicKey) String() string {
	return keyString(k.Bytes())
}
