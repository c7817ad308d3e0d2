package convert

import (
	"fmt"

	"github.com/hiero-ledger/hiero-sdk-go/v2/proto/services"

	"github.com/ledgerworks/hashgraph-go/crypto"
)

// KeyToMessage converts a public key to a protobuf message
func KeyToMessage(key crypto.PublicKey) *services.Key {
	switch key.Type() {
	case crypto.ECDSASecp256k1:
		return &services.Key{Key: &services.Key_ECDSASecp256K1{ECDSASecp256K1: key.Bytes()}}
	default:
		return &services.Key{Key: &services.Key_Ed25519{Ed25519: key.Bytes()}}
	}
}

// MessageToKey converts a protobuf message to a public key. Only single
// ED25519 and ECDSA secp256k1 keys are supported.
func MessageToKey(m *services.Key) (crypto.PublicKey, error) {
	switch k := m.GetKey().(type) {
	case *services.Key_Ed25519:
		return crypto.DecodePublicKey(crypto.ED25519, k.Ed25519)
	case *services.Key_ECDSASecp256K1:
		return crypto.DecodePublicKey(crypto.ECDSASecp256k1, k.ECDSASecp256K1)
	case nil:
		return nil, ErrEmptyMessage
	default:
		return nil, fmt.Errorf("unsupported key kind %T", k)
	}
}

// SignaturePairToMessage builds the signature pair for a signature made by key.
// The full public key is used as prefix.
func SignaturePairToMessage(key crypto.PublicKey, signature []byte) *services.SignaturePair {
	pair := &services.SignaturePair{PubKeyPrefix: key.Bytes()}
	switch key.Type() {
	case crypto.ECDSASecp256k1:
		pair.Signature = &services.SignaturePair_ECDSASecp256K1{ECDSASecp256K1: signature}
	default:
		pair.Signature = &services.SignaturePair_Ed25519{Ed25519: signature}
	}
	return pair
}

// MessageToSignaturePair returns the public key and signature of a signature
// pair whose prefix holds the full public key.
func MessageToSignaturePair(m *services.SignaturePair) (crypto.PublicKey, []byte, error) {
	switch sig := m.GetSignature().(type) {
	case *services.SignaturePair_Ed25519:
		key, err := crypto.DecodePublicKey(crypto.ED25519, m.GetPubKeyPrefix())
		if err != nil {
			return nil, nil, fmt.Errorf("could not convert signature pair: %w", err)
		}
		return key, sig.Ed25519, nil
	case *services.SignaturePair_ECDSASecp256K1:
		key, err := crypto.DecodePublicKey(crypto.ECDSASecp256k1, m.GetPubKeyPrefix())
		if err != nil {
			return nil, nil, fmt.Errorf("could not convert signature pair: %w", err)
		}
		return key, sig.ECDSASecp256K1, nil
	case nil:
		return nil, nil, ErrEmptyMessage
	default:
		return nil, nil, fmt.Errorf("unsupported signature kind %T", sig)
	}
}
