package openpgp

import "fmt"

const maxSubpacketAreaLen = 10000

// parseSignature implements spec.md §4.6's signature body parser (RFC 4880
// §5.2), versions 2, 3, and 4.
func parseSignature(s *Source, tag Tag, pktlen uint32, pkt *Packet) (err error) {
	defer func() { skipRest(s, pktlen) }()

	if pktlen < 16 {
		return fmt.Errorf("%s: signature packet too short: %w", s.Where(), ErrInvalidBody)
	}

	sig := &Signature{}
	version, err := s.GetOrFail()
	pktlen--
	if err != nil {
		return err
	}
	sig.Version = int(version)
	isV4 := version == 4
	if !isV4 && version != 2 && version != 3 {
		return fmt.Errorf("%s: signature with unknown version %d: %w", s.Where(), version, ErrInvalidBody)
	}

	if !isV4 {
		md5len, err := s.GetOrFail()
		pktlen--
		if err != nil {
			return err
		}
		sig.MD5Len = int(md5len) // recorded, not enforced to 5 — spec.md §9
	}

	sigClass, err := s.GetOrFail()
	pktlen--
	if err != nil {
		return err
	}
	sig.SigClass = int(sigClass)

	if !isV4 {
		var ts, kid0, kid1 uint32
		for i := 0; i < 4; i++ {
			b, err := s.GetOrFail()
			if err != nil {
				return err
			}
			ts = ts<<8 | uint32(b)
		}
		pktlen -= 4
		for i := 0; i < 4; i++ {
			b, err := s.GetOrFail()
			if err != nil {
				return err
			}
			kid0 = kid0<<8 | uint32(b)
		}
		pktlen -= 4
		for i := 0; i < 4; i++ {
			b, err := s.GetOrFail()
			if err != nil {
				return err
			}
			kid1 = kid1<<8 | uint32(b)
		}
		pktlen -= 4
		sig.Timestamp = ts
		sig.KeyID = [2]uint32{kid0, kid1}
	}

	algo, err := s.GetOrFail()
	pktlen--
	if err != nil {
		return err
	}
	sig.PubkeyAlgo = int(algo)
	digest, err := s.GetOrFail()
	pktlen--
	if err != nil {
		return err
	}
	sig.DigestAlgo = int(digest)

	if isV4 {
		hashed, n, err := readSubpacketArea(s)
		if err != nil {
			return err
		}
		if pktlen < n {
			return fmt.Errorf("%s: signature hashed area overruns packet: %w", s.Where(), ErrInvalidBody)
		}
		pktlen -= n
		sig.HashedData = hashed

		unhashed, n, err := readSubpacketArea(s)
		if err != nil {
			return err
		}
		if pktlen < n {
			return fmt.Errorf("%s: signature unhashed area overruns packet: %w", s.Where(), ErrInvalidBody)
		}
		pktlen -= n
		sig.UnhashedData = unhashed
	}

	if pktlen < 5 {
		return fmt.Errorf("%s: signature packet too short: %w", s.Where(), ErrInvalidBody)
	}

	d0, err := s.GetOrFail()
	pktlen--
	if err != nil {
		return err
	}
	d1, err := s.GetOrFail()
	pktlen--
	if err != nil {
		return err
	}
	sig.DigestStart = [2]byte{d0, d1}

	if isV4 {
		if p, ok := findSubpacket(sig.HashedData, SubpacketSigCreated); ok && len(p) >= 4 {
			sig.Timestamp = uint32(p[0])<<24 | uint32(p[1])<<16 | uint32(p[2])<<8 | uint32(p[3])
		}
		if p, ok := findSubpacket(sig.UnhashedData, SubpacketIssuer); ok && len(p) >= 8 {
			sig.KeyID[0] = uint32(p[0])<<24 | uint32(p[1])<<16 | uint32(p[2])<<8 | uint32(p[3])
			sig.KeyID[1] = uint32(p[4])<<24 | uint32(p[5])<<16 | uint32(p[6])<<8 | uint32(p[7])
		}
		// Absence of either is non-fatal: logged by the caller via the
		// diagnostic sink if it wants to, never by this package.
	}

	switch {
	case isElGamal(sig.PubkeyAlgo):
		r, n, err := readMPI(s)
		if err != nil {
			return err
		}
		pktlen -= n
		sv, n, err := readMPI(s)
		if err != nil {
			return err
		}
		pktlen -= n
		sig.ElGamalR, sig.ElGamalS = r, sv
	case isDSA(sig.PubkeyAlgo):
		r, n, err := readMPI(s)
		if err != nil {
			return err
		}
		pktlen -= n
		sv, n, err := readMPI(s)
		if err != nil {
			return err
		}
		pktlen -= n
		sig.DSAR, sig.DSAS = r, sv
	case isRSA(sig.PubkeyAlgo):
		m, n, err := readMPI(s)
		if err != nil {
			return err
		}
		pktlen -= n
		sig.RSA = m
	}

	pkt.Signature = sig
	return nil
}

// readSubpacketArea reads a v4 signature's hashed or unhashed subpacket
// area: a 16-bit length, then that many raw bytes. It returns the raw area
// *including* the 2-byte length prefix (spec.md's "raw bytes" invariant —
// "the original bytes can be rehashed later verbatim") and the total byte
// count consumed, including the prefix.
func readSubpacketArea(s *Source) ([]byte, uint32, error) {
	hi, err := s.GetOrFail()
	if err != nil {
		return nil, 0, err
	}
	lo, err := s.GetOrFail()
	if err != nil {
		return nil, 0, err
	}
	n := int(hi)<<8 | int(lo)
	if n > maxSubpacketAreaLen {
		return nil, 0, fmt.Errorf("%s: subpacket area too long (%d bytes): %w", s.Where(), n, ErrInvalidBody)
	}
	if n == 0 {
		return []byte{hi, lo}, 2, nil
	}
	area := make([]byte, 2+n)
	area[0], area[1] = hi, lo
	for i := 0; i < n; i++ {
		b, err := s.GetOrFail()
		if err != nil {
			return nil, 0, fmt.Errorf("%s: premature eof reading subpacket area: %w", s.Where(), err)
		}
		area[2+i] = b
	}
	return area, uint32(2 + n), nil
}
