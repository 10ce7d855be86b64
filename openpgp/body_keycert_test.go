package openpgp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyCertificatePublicRSA(t *testing.T) {
	var body bytes.Buffer
	body.WriteByte(4)                 // version
	body.Write([]byte{0, 0, 1, 0})    // timestamp
	body.WriteByte(1)                 // algo: RSA
	body.Write([]byte{0x00, 0x08, 0x05}) // n
	body.Write([]byte{0x00, 0x08, 0x03}) // e

	raw := body.Bytes()
	s := NewSource(bytes.NewReader(raw))
	pkt := &Packet{}
	err := parseKeyCertificate(s, TagPublicKey, uint32(len(raw)), pkt)
	require.NoError(t, err)
	c := pkt.KeyCertificate
	require.NotNil(t, c)
	assert.False(t, c.IsSecret)
	assert.Equal(t, 4, c.Version)
	assert.EqualValues(t, 256, c.Timestamp)
	assert.EqualValues(t, 5, c.RSAN.Int().Int64())
	assert.EqualValues(t, 3, c.RSAE.Int().Int64())
}

func TestParseKeyCertificateSecretRSALegacyProtectionAlwaysStoresIV(t *testing.T) {
	var body bytes.Buffer
	body.WriteByte(4)
	body.Write([]byte{0, 0, 1, 0})
	body.WriteByte(2) // algo: RSA (encrypt-only id, still is_RSA)
	body.Write([]byte{0x00, 0x08, 0x05})
	body.Write([]byte{0x00, 0x08, 0x03})
	body.WriteByte(7) // protect algo: not Blowfish-160 (which would be 43)
	iv := bytes.Repeat([]byte{0x42}, 8)
	body.Write(iv)
	body.Write([]byte{0x00, 0x08, 0x01}) // d
	body.Write([]byte{0x00, 0x08, 0x01}) // p
	body.Write([]byte{0x00, 0x08, 0x01}) // q
	body.Write([]byte{0x00, 0x08, 0x01}) // u
	body.Write([]byte{0xBE, 0xEF})       // checksum

	raw := body.Bytes()
	s := NewSource(bytes.NewReader(raw))
	pkt := &Packet{}
	err := parseKeyCertificate(s, TagSecretKey, uint32(len(raw)), pkt)
	require.NoError(t, err)
	c := pkt.KeyCertificate
	require.NotNil(t, c)
	assert.True(t, c.IsSecret)
	assert.True(t, c.Protect.Protected)
	// The original only copied this IV into the cert for cipher algo 43
	// (Blowfish-160); this implementation always stores it.
	assert.True(t, c.Protect.HasIV)
	assert.EqualValues(t, iv, c.Protect.IV[:])
	assert.EqualValues(t, 0xBEEF, c.Checksum)
}

func TestParseKeyCertificatePublicSubkeyHashCommentEscape(t *testing.T) {
	body := append([]byte{'#'}, []byte("a comment")...)
	s := NewSource(bytes.NewReader(body))
	pkt := &Packet{}
	err := parseKeyCertificate(s, TagPublicSubkey, uint32(len(body)), pkt)
	require.NoError(t, err)
	c := pkt.KeyCertificate
	require.NotNil(t, c)
	assert.True(t, c.IsComment)
	assert.Equal(t, "a comment", string(c.CommentText))
}

func TestParseKeyCertificateSecretElGamalExtendedS2K(t *testing.T) {
	var body bytes.Buffer
	body.WriteByte(4)
	body.Write([]byte{0, 0, 0, 1})
	body.WriteByte(16) // algo: ElGamal
	body.Write([]byte{0x00, 0x08, 0x02}) // p
	body.Write([]byte{0x00, 0x08, 0x03}) // g
	body.Write([]byte{0x00, 0x08, 0x04}) // y
	body.WriteByte(255)                  // protect algo: extended S2K form
	body.WriteByte(9)                    // real cipher algo
	body.WriteByte(1)                    // s2k mode: salted
	body.WriteByte(2)                    // hash algo
	body.Write(bytes.Repeat([]byte{0x11}, 8)) // salt
	body.Write(bytes.Repeat([]byte{0x22}, 8)) // IV
	body.Write([]byte{0x00, 0x08, 0x07})      // x
	body.Write([]byte{0x12, 0x34})            // checksum

	raw := body.Bytes()
	s := NewSource(bytes.NewReader(raw))
	pkt := &Packet{}
	err := parseKeyCertificate(s, TagSecretKey, uint32(len(raw)), pkt)
	require.NoError(t, err)
	c := pkt.KeyCertificate
	require.NotNil(t, c)
	assert.Equal(t, 1, c.Protect.S2K.Mode)
	assert.Equal(t, 9, c.Protect.Algo)
	assert.EqualValues(t, 7, c.ElGamalX.Int().Int64())
	assert.EqualValues(t, 0x1234, c.Checksum)
}
