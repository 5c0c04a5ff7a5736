package sshkey

import (
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func TestKeyPairRoundTrip(t *testing.T) {
	kp, err := New()
	require.NoError(t, err)

	pub, err := kp.PublicOpenSSH()
	require.NoError(t, err)
	parsed, _, _, _, err := ssh.ParseAuthorizedKey(pub)
	require.NoError(t, err)
	assert.Equal(t, "ssh-ed25519", parsed.Type())

	pemBytes, err := kp.PrivatePEM("scraper-app")
	require.NoError(t, err)
	block, _ := pem.Decode(pemBytes)
	require.NotNil(t, block)
	assert.Equal(t, "OPENSSH PRIVATE KEY", block.Type)

	signer, err := ssh.ParsePrivateKey(pemBytes)
	require.NoError(t, err)
	// The parsed private key must match the exported public key.
	assert.Equal(t, parsed.Marshal(), signer.PublicKey().Marshal())
}
