package openpgp

import "fmt"

// parseEncrypted implements spec.md §4.6's encrypted-data body parser (RFC
// 4880 §5.7/§5.13, tags 9 and 18). Like plaintext and compressed, it leaves
// the ciphertext as a borrowed handle: decryption is out of scope.
func parseEncrypted(s *Source, tag Tag, pktlen uint32, pkt *Packet) error {
	if pktlen != 0 && pktlen < 10 {
		skipRest(s, pktlen)
		return fmt.Errorf("%s: encrypted data packet too short: %w", s.Where(), ErrInvalidBody)
	}

	bounded := pktlen != 0 || !(s.InBlockMode() || s.InPartialMode())
	pkt.Encrypted = &Encrypted{
		Len:  pktlen,
		Data: DataHandle{src: s, Bounded: bounded, Remaining: pktlen},
	}
	return nil
}
