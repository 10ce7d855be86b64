package openpgp

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMPI(t *testing.T) {
	// bit-length 9 (0x0009), value byte 0x01 0x80 -> 0x0180, 9 significant bits.
	raw := []byte{0x00, 0x09, 0x01, 0x80}
	s := NewSource(bytes.NewReader(raw))
	m, n, err := readMPI(s)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
	assert.Equal(t, 9, m.BitLen())
	assert.Equal(t, big.NewInt(0x0180), m.Int())
}

func TestReadMPIZero(t *testing.T) {
	raw := []byte{0x00, 0x00}
	s := NewSource(bytes.NewReader(raw))
	m, n, err := readMPI(s)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, 0, m.Int().Sign())
}

func TestReadMPITruncated(t *testing.T) {
	raw := []byte{0x00, 0x10, 0x01} // claims 2 bytes, only 1 present
	s := NewSource(bytes.NewReader(raw))
	_, _, err := readMPI(s)
	assert.Error(t, err)
}
