package openpgp

// parseComment implements spec.md §4.6's comment body parser: both the
// modern comment packet (tag 61, privately reserved in this implementation)
// and the deprecated "OpenPGP draft" comment packet (tag 16) carry a raw
// byte string and nothing else.
func parseComment(s *Source, tag Tag, pktlen uint32, pkt *Packet) (err error) {
	defer func() { skipRest(s, pktlen) }()

	data := make([]byte, 0, pktlen)
	for ; pktlen > 0; pktlen-- {
		b, err := s.GetOrFail()
		if err != nil {
			return err
		}
		data = append(data, b)
	}

	pkt.Comment = &Comment{Old: tag == TagOldComment, Data: data}
	return nil
}
