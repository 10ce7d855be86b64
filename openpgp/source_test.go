package openpgp

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkipRestDefiniteLength(t *testing.T) {
	raw := []byte("0123456789trailer")
	s := NewSource(bytes.NewReader(raw))
	skipRest(s, 10)

	rest := make([]byte, 7)
	n, err := s.Read(rest)
	require.NoError(t, err)
	assert.Equal(t, "trailer", string(rest[:n]))
}

func TestSkipRestBlockMode(t *testing.T) {
	raw := []byte("all of this is consumed")
	s := NewSource(bytes.NewReader(raw))
	s.SetBlockMode(true)
	skipRest(s, 0)

	assert.False(t, s.InBlockMode())
	_, err := s.Get()
	assert.ErrorIs(t, err, io.EOF)
}

func TestPartialModeChunking(t *testing.T) {
	// First chunk ("AB", 2 bytes) already framed by the caller via
	// SetPartialBlockMode. The stream then holds a second partial chunk
	// marker (226 => 2^(226-224) = 4 bytes: "CDEF"), followed by a
	// zero-length final chunk (short-length tier, c=0) that ends the body.
	raw := []byte{'A', 'B', 226, 'C', 'D', 'E', 'F', 0}
	s := NewSource(bytes.NewReader(raw))
	s.SetPartialBlockMode(2)

	var got []byte
	for {
		b, err := s.Get()
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			break
		}
		got = append(got, b)
	}
	assert.Equal(t, "ABCDEF", string(got))
}

func TestGetOrFailWrapsEOFAsInvalidFraming(t *testing.T) {
	s := NewSource(bytes.NewReader(nil))
	_, err := s.GetOrFail()
	assert.ErrorIs(t, err, ErrInvalidFraming)
}
