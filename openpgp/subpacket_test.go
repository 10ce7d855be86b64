package openpgp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSubpacketArea(entries ...[]byte) []byte {
	var body []byte
	for _, e := range entries {
		body = append(body, byte(len(e)))
		body = append(body, e...)
	}
	area := make([]byte, 2+len(body))
	area[0] = byte(len(body) >> 8)
	area[1] = byte(len(body))
	copy(area[2:], body)
	return area
}

func TestScanSubpacketsFindsEntry(t *testing.T) {
	sigCreated := append([]byte{SubpacketSigCreated}, 0x00, 0x00, 0x00, 0x42)
	area := buildSubpacketArea(sigCreated)

	data, ok := findSubpacket(area, SubpacketSigCreated)
	require.True(t, ok)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x42}, data)
}

func TestScanSubpacketsMissingEntry(t *testing.T) {
	area := buildSubpacketArea(append([]byte{SubpacketSigCreated}, 1, 2, 3, 4))
	_, ok := findSubpacket(area, SubpacketIssuer)
	assert.False(t, ok)
}

func TestScanSubpacketsCriticalFlag(t *testing.T) {
	critical := append([]byte{SubpacketIssuer | 0x80}, make([]byte, 8)...)
	area := buildSubpacketArea(critical)
	entries, err := scanSubpackets(area)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Critical)
	assert.Equal(t, byte(SubpacketIssuer), entries[0].Type)
}

func TestParseSigSubpktUnknownTypeReturnsNotFoundNeverPanics(t *testing.T) {
	area := buildSubpacketArea(append([]byte{SubpacketSigCreated}, 0, 0, 0, 1))
	assert.NotPanics(t, func() {
		_, ok := ParseSigSubpkt(area, 200) // an unrecognized/unrequested type
		assert.False(t, ok)
	})
}

func TestDecodeSubpacketLengthTiers(t *testing.T) {
	n, extra, err := decodeSubpacketLength(100, nil)
	require.NoError(t, err)
	assert.Equal(t, 100, n)
	assert.Equal(t, 0, extra)

	n, extra, err = decodeSubpacketLength(192, []byte{1})
	require.NoError(t, err)
	assert.Equal(t, 193, n)
	assert.Equal(t, 1, extra)

	n, extra, err = decodeSubpacketLength(255, []byte{0, 0, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, 256, n)
	assert.Equal(t, 4, extra)
}
