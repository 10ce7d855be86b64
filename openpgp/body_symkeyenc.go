package openpgp

import "fmt"

// parseSymkeyEnc implements spec.md §4.6's symkey-enc body parser (RFC 4880
// §5.3, Symmetric-Key Encrypted Session Key packet).
func parseSymkeyEnc(s *Source, tag Tag, pktlen uint32, pkt *Packet) (err error) {
	defer func() { skipRest(s, pktlen) }()

	if pktlen < 4 {
		return fmt.Errorf("%s: symkey-enc packet too short: %w", s.Where(), ErrInvalidBody)
	}

	version, err := s.GetOrFail()
	pktlen--
	if err != nil {
		return err
	}
	if version != 4 {
		return fmt.Errorf("%s: symkey-enc with unknown version %d: %w", s.Where(), version, ErrInvalidBody)
	}
	if pktlen > 200 { // the wire format encodes the session-key length in a byte
		return fmt.Errorf("%s: symkey-enc packet too large: %w", s.Where(), ErrInvalidBody)
	}

	cipherAlgo, err := s.GetOrFail()
	pktlen--
	if err != nil {
		return err
	}
	s2kMode, err := s.GetOrFail()
	pktlen--
	if err != nil {
		return err
	}
	hashAlgo, err := s.GetOrFail()
	pktlen--
	if err != nil {
		return err
	}

	k := &SymkeyEnc{
		Version:    int(version),
		CipherAlgo: int(cipherAlgo),
		S2K: S2K{
			Mode:     int(s2kMode),
			HashAlgo: int(hashAlgo),
		},
	}

	var minlen uint32
	switch s2kMode {
	case 0:
		minlen = 0
	case 1:
		minlen = 8
	case 4:
		minlen = 12
	default:
		// Unknown S2K mode: non-fatal, per spec.md §7. The mode is
		// recorded as-is and the remainder of the body is left for
		// the deferred skipRest to consume.
		pkt.SymkeyEnc = k
		return nil
	}
	if minlen > pktlen {
		return fmt.Errorf("%s: symkey-enc with S2K %d too short: %w", s.Where(), s2kMode, ErrInvalidBody)
	}

	if s2kMode == 1 || s2kMode == 4 {
		for i := 0; i < 8 && pktlen > 0; i, pktlen = i+1, pktlen-1 {
			b, err := s.GetOrFail()
			if err != nil {
				return err
			}
			k.S2K.Salt[i] = b
		}
	}
	if s2kMode == 4 {
		var count uint32
		for i := 0; i < 4; i++ {
			b, err := s.GetOrFail()
			if err != nil {
				return err
			}
			count = count<<8 | uint32(b)
		}
		pktlen -= 4
		k.S2K.Count = count
	}

	seskeylen := pktlen
	if seskeylen > 0 {
		k.SessionKey = make([]byte, 0, seskeylen)
		for i := uint32(0); i < seskeylen; i++ {
			b, err := s.GetOrFail()
			if err != nil {
				return err
			}
			k.SessionKey = append(k.SessionKey, b)
			pktlen--
		}
	}

	pkt.SymkeyEnc = k
	return nil
}
