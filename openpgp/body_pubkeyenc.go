package openpgp

import "fmt"

// isElGamal and isRSA classify public-key algorithm ids the way the
// original's is_ELGAMAL()/is_RSA() macros do.
func isElGamal(algo int) bool { return algo == 16 || algo == 20 }
func isRSA(algo int) bool     { return algo >= 1 && algo <= 3 }
func isDSA(algo int) bool     { return algo == 17 }

// parsePubkeyEnc implements spec.md §4.6's pubkey-enc body parser (RFC 4880
// §5.1, Public-Key Encrypted Session Key packet).
func parsePubkeyEnc(s *Source, tag Tag, pktlen uint32, pkt *Packet) (err error) {
	defer func() { skipRest(s, pktlen) }()

	if pktlen < 12 {
		return fmt.Errorf("%s: pubkey-enc packet too short: %w", s.Where(), ErrInvalidBody)
	}

	k := &PubkeyEnc{}
	version, err := s.GetOrFail()
	pktlen--
	if err != nil {
		return err
	}
	k.Version = int(version)
	if version != 2 && version != 3 {
		return fmt.Errorf("%s: pubkey-enc with unknown version %d: %w", s.Where(), version, ErrInvalidBody)
	}

	for half := 0; half < 2; half++ {
		var v uint32
		for i := 0; i < 4; i++ {
			b, err := s.GetOrFail()
			if err != nil {
				return err
			}
			v = v<<8 | uint32(b)
		}
		k.KeyID[half] = v
		pktlen -= 4
	}

	algo, err := s.GetOrFail()
	pktlen--
	if err != nil {
		return err
	}
	k.PubkeyAlgo = int(algo)

	switch {
	case isElGamal(k.PubkeyAlgo):
		a, n, err := readMPI(s)
		if err != nil {
			return err
		}
		pktlen -= n
		b, n, err := readMPI(s)
		if err != nil {
			return err
		}
		pktlen -= n
		k.ElGamalA, k.ElGamalB = a, b
	case isRSA(k.PubkeyAlgo):
		m, n, err := readMPI(s)
		if err != nil {
			return err
		}
		pktlen -= n
		k.RSAInteger = m
	default:
		// Unknown algorithm: non-fatal, per spec.md §7. The MPIs (if any)
		// are simply left undecoded and skipRest consumes whatever
		// remains.
	}

	pkt.PubkeyEnc = k
	return nil
}
