package qr

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeProducesPNG(t *testing.T) {
	g := NewGenerator("order-qr-secret")

	encoded, err := g.Encode("ORD-1756710000000-123|evt_1|60.00")
	require.NoError(t, err)

	png, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	// PNG magic bytes.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	g := NewGenerator("order-qr-secret")

	payload := "ORD-1756710000000-123|evt_1|60.00"
	encrypted, err := encryptAES([]byte(payload), g.secret)
	require.NoError(t, err)
	assert.NotContains(t, encrypted, payload)

	decrypted, err := g.Decrypt(encrypted)
	require.NoError(t, err)
	assert.Equal(t, payload, decrypted)
}

func TestDecryptWrongSecret(t *testing.T) {
	g := NewGenerator("order-qr-secret")
	other := NewGenerator("different-secret")

	encrypted, err := encryptAES([]byte("payload"), g.secret)
	require.NoError(t, err)

	decrypted, err := other.Decrypt(encrypted)
	require.NoError(t, err)
	assert.NotEqual(t, "payload", decrypted)
}
