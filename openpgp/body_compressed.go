package openpgp

// parseCompressed implements spec.md §4.6's compressed-data body parser
// (RFC 4880 §5.6). pktlen is 0 for the legacy indeterminate form (which
// never sets block mode for this tag) and for a new-format partial body; a
// definite-length packet passes its header length, which is not used: the
// algorithm byte is followed by however much data the stream (or the
// partial body) actually holds. No skipRest call: decompression is out of
// scope, so the remainder is handed back as a borrowed, unbounded handle.
func parseCompressed(s *Source, tag Tag, pktlen uint32, pkt *Packet) error {
	algo, err := s.GetOrFail()
	if err != nil {
		return err
	}

	pkt.Compressed = &Compressed{
		Algorithm: algo,
		Data:      DataHandle{src: s},
	}
	return nil
}
