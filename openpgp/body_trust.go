package openpgp

// parseTrust implements spec.md §4.6's trust body parser (RFC 4880 §5.10): a
// single diagnostic byte private to the local keyring, never interpreted by
// this package.
func parseTrust(s *Source, tag Tag, pktlen uint32, pkt *Packet) (err error) {
	defer func() { skipRest(s, pktlen) }()

	if pktlen == 0 {
		pkt.Trust = &Trust{}
		return nil
	}
	b, err := s.GetOrFail()
	pktlen--
	if err != nil {
		return err
	}
	pkt.Trust = &Trust{Flag: b}
	return nil
}
