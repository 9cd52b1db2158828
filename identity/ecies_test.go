package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertEd25519ToX25519(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)

	xPriv, err := convertEd25519PrivToX25519(kp.PrivateKey())
	require.NoError(t, err)
	assert.Len(t, xPriv, 32)

	xPub, err := convertEd25519PubToX25519(kp.PublicKey())
	require.NoError(t, err)
	assert.Len(t, xPub, 32)
}

func TestEncryptDecryptWithEd25519Peer(t *testing.T) {
	peer, err := GenerateKeyPair()
	require.NoError(t, err)

	msg := []byte("static ed25519 messaging")
	packet, err := EncryptWithEd25519Peer(peer.PublicKey(), msg)
	require.NoError(t, err)
	require.NotEmpty(t, packet)

	// Packet format: [32-byte ephPub || 12-byte nonce || ciphertext]
	ephPub := packet[:32]
	nonce := packet[32 : 32+12]
	ct := packet[32+12:]

	assert.Len(t, ephPub, 32, "ephemeral public key must be 32 bytes")
	assert.Len(t, nonce, 12, "nonce must be 12 bytes for AES-GCM")
	assert.NotEmpty(t, ct, "ciphertext must not be empty for non-empty message")

	pt, err := DecryptWithEd25519Peer(peer.PrivateKey(), packet)
	require.NoError(t, err)
	assert.Equal(t, msg, pt)

	t.Run("tampered ephemeral public key", func(t *testing.T) {
		bad := make([]byte, len(packet))
		copy(bad, packet)
		bad[0] ^= 0xFF
		_, err = DecryptWithEd25519Peer(peer.PrivateKey(), bad)
		assert.Error(t, err)
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		bad := make([]byte, len(packet))
		copy(bad, packet)
		bad[len(bad)-1] ^= 0xFF
		_, err = DecryptWithEd25519Peer(peer.PrivateKey(), bad)
		assert.Error(t, err)
	})

	t.Run("too-short packet", func(t *testing.T) {
		short := []byte{1, 2, 3}
		_, err = DecryptWithEd25519Peer(peer.PrivateKey(), short)
		assert.Error(t, err)
	})

	t.Run("wrong recipient cannot decrypt", func(t *testing.T) {
		other, err := GenerateKeyPair()
		require.NoError(t, err)
		_, err = DecryptWithEd25519Peer(other.PrivateKey(), packet)
		assert.Error(t, err)
	})
}

func TestEncryptWithEd25519PeerIsNonDeterministic(t *testing.T) {
	peer, err := GenerateKeyPair()
	require.NoError(t, err)

	msg := []byte("same plaintext, different ciphertext")
	p1, err := EncryptWithEd25519Peer(peer.PublicKey(), msg)
	require.NoError(t, err)
	p2, err := EncryptWithEd25519Peer(peer.PublicKey(), msg)
	require.NoError(t, err)

	assert.NotEqual(t, p1, p2, "fresh ephemeral key each call must change the packet")
}
