package openpgp

// parseUserID implements spec.md §4.6's user-id body parser (RFC 4880
// §5.11): the packet body is the raw identity string, taken verbatim.
func parseUserID(s *Source, tag Tag, pktlen uint32, pkt *Packet) (err error) {
	defer func() { skipRest(s, pktlen) }()

	name := make([]byte, 0, pktlen)
	for ; pktlen > 0; pktlen-- {
		b, err := s.GetOrFail()
		if err != nil {
			return err
		}
		name = append(name, b)
	}

	pkt.UserID = &UserID{Name: name}
	return nil
}
