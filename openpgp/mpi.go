package openpgp

import (
	"fmt"
	"io"
	"math/big"
)

// MPI is a multi-precision integer as it appears on the wire: a 16-bit
// big-endian bit-length followed by ceil(bits/8) bytes of big-endian value.
// Per spec.md §6 the decoder is specified at interface level only; secure
// allocation (the secure_flag parameter in the original's mpi_read) is a
// concern of the downstream key-unprotection step, never this package, so
// it is not represented here.
type MPI struct {
	bits int
	v    *big.Int
}

// Int returns the decoded value as a *big.Int. A zero-value MPI is the
// integer zero.
func (m MPI) Int() *big.Int {
	if m.v == nil {
		return new(big.Int)
	}
	return m.v
}

// BitLen returns the wire bit-length, which may exceed the minimal bit
// length of the value if the encoder padded it (the original tolerates
// this; readMPI does not second-guess it).
func (m MPI) BitLen() int { return m.bits }

func mpiFromBytes(bits int, data []byte) MPI {
	return MPI{bits: bits, v: new(big.Int).SetBytes(data)}
}

// readMPI decodes one MPI from s and reports the total number of bytes
// consumed, including the 2-byte length prefix, so the caller can decrement
// its own pktlen counter exactly as parse_pubkeyenc/parse_certificate/
// parse_signature do in the original (spec.md §4.2).
func readMPI(s *Source) (MPI, uint32, error) {
	hi, err := s.GetOrFail()
	if err != nil {
		return MPI{}, 0, err
	}
	lo, err := s.GetOrFail()
	if err != nil {
		return MPI{}, 0, err
	}
	nbits := int(hi)<<8 | int(lo)
	nbytes := (nbits + 7) / 8

	data := make([]byte, nbytes)
	if nbytes > 0 {
		if _, err := io.ReadFull(mpiByteReader{s}, data); err != nil {
			return MPI{}, 0, fmt.Errorf("%s: truncated MPI: %w", s.Where(), ErrInvalidFraming)
		}
	}
	return mpiFromBytes(nbits, data), uint32(2 + nbytes), nil
}

// mpiByteReader adapts Source's Get-based reads to io.Reader one byte at a
// time, since Source.Read honors block/partial mode but an MPI body always
// lies entirely within the already-framed, definite-length remainder of a
// packet that body parsers track themselves.
type mpiByteReader struct{ s *Source }

func (r mpiByteReader) Read(p []byte) (int, error) {
	for i := range p {
		b, err := r.s.GetOrFail()
		if err != nil {
			return i, err
		}
		p[i] = b
	}
	return len(p), nil
}
