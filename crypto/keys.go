// Package crypto provides the key types used to sign transactions and the
// hash used to identify them.
package crypto

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// KeyType is the signature algorithm of a key.
type KeyType int

const (
	UnknownKeyType KeyType = iota
	ED25519
	ECDSASecp256k1
)

func (t KeyType) String() string {
	switch t {
	case ED25519:
		return "ED25519"
	case ECDSASecp256k1:
		return "ECDSA_secp256k1"
	}
	return "UNKNOWN"
}

// PublicKey verifies signatures produced by the matching PrivateKey.
type PublicKey interface {
	Type() KeyType
	// Bytes returns the raw encoding: 32 bytes for ED25519, the 33 byte
	// compressed point for ECDSA secp256k1.
	Bytes() []byte
	Verify(message []byte, signature []byte) bool
	String() string
}

// PrivateKey signs transaction bodies.
type PrivateKey interface {
	Type() KeyType
	Bytes() []byte
	PublicKey() PublicKey
	Sign(message []byte) ([]byte, error)
}

// GeneratePrivateKey creates a new random key of the given type.
func GeneratePrivateKey(keyType KeyType) (PrivateKey, error) {
	switch keyType {
	case ED25519:
		return generateEd25519()
	case ECDSASecp256k1:
		return generateSecp256k1()
	}
	return nil, fmt.Errorf("unsupported key type %s", keyType)
}

// DecodePrivateKey decodes a raw private key of the given type.
func DecodePrivateKey(keyType KeyType, b []byte) (PrivateKey, error) {
	switch keyType {
	case ED25519:
		return decodeEd25519PrivateKey(b)
	case ECDSASecp256k1:
		return decodeSecp256k1PrivateKey(b)
	}
	return nil, fmt.Errorf("unsupported key type %s", keyType)
}

// DecodePublicKey decodes a raw public key of the given type.
func DecodePublicKey(keyType KeyType, b []byte) (PublicKey, error) {
	switch keyType {
	case ED25519:
		return decodeEd25519PublicKey(b)
	case ECDSASecp256k1:
		return decodeSecp256k1PublicKey(b)
	}
	return nil, fmt.Errorf("unsupported key type %s", keyType)
}

// KeysEqual reports whether both keys have the same type and encoding.
func KeysEqual(a, b PublicKey) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Type() == b.Type() && bytes.Equal(a.Bytes(), b.Bytes())
}

func keyString(b []byte) string {
	return hex.EncodeToString(b)
}
