package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
)

type ed25519PrivateKey struct {
	key ed25519.PrivateKey
}

type ed25519PublicKey struct {
	key ed25519.PublicKey
}

var _ PrivateKey = (*ed25519PrivateKey)(nil)
var _ PublicKey = (*ed25519PublicKey)(nil)

func generateEd25519() (*ed25519PrivateKey, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("could not generate ed25519 key: %w", err)
	}
	return &ed25519PrivateKey{key: key}, nil
}

// decodeEd25519PrivateKey accepts either the 32 byte seed or the 64 byte
// seed||public form.
func decodeEd25519PrivateKey(b []byte) (*ed25519PrivateKey, error) {
	switch len(b) {
	case ed25519.SeedSize:
		return &ed25519PrivateKey{key: ed25519.NewKeyFromSeed(b)}, nil
	case ed25519.PrivateKeySize:
		return &ed25519PrivateKey{key: ed25519.NewKeyFromSeed(b[:ed25519.SeedSize])}, nil
	}
	return nil, fmt.Errorf("invalid ed25519 private key length %d", len(b))
}

func decodeEd25519PublicKey(b []byte) (*ed25519PublicKey, error) {
	if len(b) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid ed25519 public key length %d", len(b))
	}
	key := make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(key, b)
	return &ed25519PublicKey{key: key}, nil
}

func (k *ed25519PrivateKey) Type() KeyType {
	return ED25519
}

// Bytes returns the 32 byte seed.
func (k *ed25519PrivateKey) Bytes() []byte {
	return k.key.Seed()
}

func (k *ed25519PrivateKey) PublicKey() PublicKey {
	return &ed25519PublicKey{key: k.key.Public().(ed25519.PublicKey)}
}

func (k *ed25519PrivateKey) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(k.key, message), nil
}

func (k *ed25519PublicKey) Type() KeyType {
	return ED25519
}

func (k *ed25519PublicKey) Bytes() []byte {
	return append([]byte(nil), k.key...)
}

func (k *ed25519PublicKey) Verify(message []byte, signature []byte) bool {
	return ed25519.Verify(k.key, message, signature)
}

func (k *ed25519PublicKey) String() string {
	return keyString(k.key)
}
