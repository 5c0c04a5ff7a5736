// Package sshkey wraps 'crypto/ed25519' and 'x/crypto/ssh' for the one job
// the provisioner needs: mint an ed25519 key pair, hand the public half to
// EC2 in authorized_keys format, and write the private half to a PEM file an
// operator can feed to ssh -i.
package sshkey

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"fmt"

	"golang.org/x/crypto/ssh"
)

var (
	ErrKeyGen         = fmt.Errorf("failed to generate ed25519 key pair")
	ErrPubKeyMarshal  = fmt.Errorf("failed to marshal public key to OpenSSH format")
	ErrPrivKeyMarshal = fmt.Errorf("failed to marshal private key to OpenSSH format")
)

// KeyPair holds a freshly generated ed25519 key pair.
type KeyPair struct {
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}

// New generates an ed25519 key pair.
func New() (KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, fmt.Errorf("%w: %w", ErrKeyGen, err)
	}
	return KeyPair{Public: pub, Private: priv}, nil
}

// PublicOpenSSH renders the public key in the authorized_keys format EC2's
// ImportKeyPair expects.
func (kp KeyPair) PublicOpenSSH() ([]byte, error) {
	pub, err := ssh.NewPublicKey(kp.Public)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPubKeyMarshal, err)
	}
	marshaled := ssh.MarshalAuthorizedKey(pub)
	if marshaled == nil {
		return nil, ErrPubKeyMarshal
	}
	return marshaled, nil
}

// PrivatePEM renders the private key as a PEM-encoded OpenSSH key.
func (kp KeyPair) PrivatePEM(comment string) ([]byte, error) {
	block, err := ssh.MarshalPrivateKey(kp.Private, comment)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPrivKeyMarshal, err)
	}
	encoded := pem.EncodeToMemory(block)
	if encoded == nil {
		return nil, ErrPrivKeyMarshal
	}
	return encoded, nil
}
