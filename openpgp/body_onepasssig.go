package openpgp

import "fmt"

// parseOnePassSignature implements spec.md §4.6's one-pass-signature body
// parser (RFC 4880 §5.4).
func parseOnePassSignature(s *Source, tag Tag, pktlen uint32, pkt *Packet) (err error) {
	defer func() { skipRest(s, pktlen) }()

	if pktlen < 13 {
		return fmt.Errorf("%s: onepass_sig packet too short: %w", s.Where(), ErrInvalidBody)
	}

	version, err := s.GetOrFail()
	pktlen--
	if err != nil {
		return err
	}
	if version != 3 {
		return fmt.Errorf("%s: onepass_sig with unknown version %d: %w", s.Where(), version, ErrInvalidBody)
	}

	o := &OnePassSignature{Version: int(version)}

	sigClass, err := s.GetOrFail()
	pktlen--
	if err != nil {
		return err
	}
	o.SigClass = int(sigClass)

	digest, err := s.GetOrFail()
	pktlen--
	if err != nil {
		return err
	}
	o.DigestAlgo = int(digest)

	algo, err := s.GetOrFail()
	pktlen--
	if err != nil {
		return err
	}
	o.PubkeyAlgo = int(algo)

	for half := 0; half < 2; half++ {
		var v uint32
		for i := 0; i < 4; i++ {
			b, err := s.GetOrFail()
			if err != nil {
				return err
			}
			v = v<<8 | uint32(b)
		}
		o.KeyID[half] = v
		pktlen -= 4
	}

	last, err := s.GetOrFail()
	pktlen--
	if err != nil {
		return err
	}
	o.Last = last != 0

	pkt.OnePassSignature = o
	return nil
}
