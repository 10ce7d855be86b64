package openpgp

import "fmt"

// parsePlaintext implements spec.md §4.6's literal-data body parser (RFC
// 4880 §5.9). Unlike the other parsers it does not call skipRest on the
// success path: the packet's data is out of scope for this package (no
// decoder), so Data is handed back as a borrowed DataHandle over whatever
// bytes remain, definite or not.
func parsePlaintext(s *Source, tag Tag, pktlen uint32, pkt *Packet) error {
	if pktlen != 0 && pktlen < 6 {
		skipRest(s, pktlen)
		return fmt.Errorf("%s: literal data packet too short: %w", s.Where(), ErrInvalidBody)
	}

	mode, err := s.GetOrFail()
	if pktlen != 0 {
		pktlen--
	}
	if err != nil {
		skipRest(s, pktlen)
		return err
	}

	namelenByte, err := s.GetOrFail()
	if pktlen != 0 {
		pktlen--
	}
	if err != nil {
		skipRest(s, pktlen)
		return err
	}
	namelen := int(namelenByte)

	name := make([]byte, 0, namelen)
	if pktlen != 0 {
		for i := 0; pktlen > 4 && i < namelen; i++ {
			b, err := s.GetOrFail()
			if err != nil {
				skipRest(s, pktlen)
				return err
			}
			name = append(name, b)
			pktlen--
		}
	} else {
		for i := 0; i < namelen; i++ {
			b, err := s.Get()
			if err != nil {
				break
			}
			name = append(name, b)
		}
	}

	var ts uint32
	for i := 0; i < 4; i++ {
		b, err := s.GetOrFail()
		if err != nil {
			skipRest(s, pktlen)
			return err
		}
		ts = ts<<8 | uint32(b)
	}
	if pktlen != 0 {
		pktlen -= 4
	}

	bounded := pktlen != 0 || !(s.InBlockMode() || s.InPartialMode())
	pkt.Plaintext = &Plaintext{
		Mode:      mode,
		Name:      name,
		Timestamp: ts,
		Data:      DataHandle{src: s, Bounded: bounded, Remaining: pktlen},
	}
	return nil
}
