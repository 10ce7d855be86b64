package openpgp

import "fmt"

// Historical GnuPG-private algorithm ids referenced only by the legacy
// (non-255) secret-key protection fallback below.
const (
	cipherAlgoBlowfish160 = 43
	digestAlgoMD5         = 1
	digestAlgoRMD160      = 3
)

// parseKeyCertificate implements spec.md §4.6's key-certificate body parser
// for tags 5 (secret key), 6 (public key), 7 (secret subkey), and 14 (public
// subkey), including the legacy '#'-prefixed comment escape that old G10
// releases used in place of a public-subkey packet.
func parseKeyCertificate(s *Source, tag Tag, pktlen uint32, pkt *Packet) (err error) {
	defer func() { skipRest(s, pktlen) }()

	version, err := s.GetOrFail()
	pktlen--
	if err != nil {
		return err
	}

	if tag == TagPublicSubkey && version == '#' {
		text := make([]byte, 0, pktlen)
		for ; pktlen > 0; pktlen-- {
			b, err := s.GetOrFail()
			if err != nil {
				return err
			}
			text = append(text, b)
		}
		pkt.KeyCertificate = &KeyCertificate{Tag: tag, IsComment: true, CommentText: text}
		return nil
	}

	isV4 := version == 4
	if !isV4 && version != 2 && version != 3 {
		return fmt.Errorf("%s: key packet(%s) with unknown version %d: %w", s.Where(), tag, version, ErrInvalidBody)
	}
	if pktlen < 11 {
		return fmt.Errorf("%s: key packet(%s) too short: %w", s.Where(), tag, ErrInvalidBody)
	}

	var ts uint32
	for i := 0; i < 4; i++ {
		b, err := s.GetOrFail()
		if err != nil {
			return err
		}
		ts = ts<<8 | uint32(b)
	}
	pktlen -= 4

	var validDays uint16
	if !isV4 {
		hi, err := s.GetOrFail()
		if err != nil {
			return err
		}
		lo, err := s.GetOrFail()
		if err != nil {
			return err
		}
		validDays = uint16(hi)<<8 | uint16(lo)
		pktlen -= 2
	}

	algo, err := s.GetOrFail()
	pktlen--
	if err != nil {
		return err
	}

	c := &KeyCertificate{
		Tag:        tag,
		Version:    int(version),
		Timestamp:  ts,
		ValidDays:  validDays,
		PubkeyAlgo: int(algo),
		IsSecret:   tag == TagSecretKey || tag == TagSecretSubkey,
	}

	switch {
	case isElGamal(c.PubkeyAlgo):
		p, n, err := readMPI(s)
		if err != nil {
			return err
		}
		pktlen -= n
		g, n, err := readMPI(s)
		if err != nil {
			return err
		}
		pktlen -= n
		y, n, err := readMPI(s)
		if err != nil {
			return err
		}
		pktlen -= n
		c.ElGamalP, c.ElGamalG, c.ElGamalY = p, g, y

		if c.IsSecret {
			if err := parseLegacyProtection(s, &pktlen, c); err != nil {
				return err
			}
			x, n, err := readMPI(s)
			if err != nil {
				return err
			}
			pktlen -= n
			c.ElGamalX = x
			if err := readChecksum(s, &pktlen, c); err != nil {
				return err
			}
		}

	case isDSA(c.PubkeyAlgo):
		p, n, err := readMPI(s)
		if err != nil {
			return err
		}
		pktlen -= n
		q, n, err := readMPI(s)
		if err != nil {
			return err
		}
		pktlen -= n
		g, n, err := readMPI(s)
		if err != nil {
			return err
		}
		pktlen -= n
		y, n, err := readMPI(s)
		if err != nil {
			return err
		}
		pktlen -= n
		c.DSAP, c.DSAQ, c.DSAG, c.DSAY = p, q, g, y

		if c.IsSecret {
			if err := parseLegacyProtection(s, &pktlen, c); err != nil {
				return err
			}
			x, n, err := readMPI(s)
			if err != nil {
				return err
			}
			pktlen -= n
			c.DSAX = x
			if err := readChecksum(s, &pktlen, c); err != nil {
				return err
			}
		}

	case isRSA(c.PubkeyAlgo):
		n1, n, err := readMPI(s)
		if err != nil {
			return err
		}
		pktlen -= n
		e, n, err := readMPI(s)
		if err != nil {
			return err
		}
		pktlen -= n
		c.RSAN, c.RSAE = n1, e

		if c.IsSecret {
			protectAlgo, err := s.GetOrFail()
			pktlen--
			if err != nil {
				return err
			}
			c.Protect.Algo = int(protectAlgo)
			if protectAlgo != 0 {
				c.Protect.Protected = true
				var temp [8]byte
				got := 0
				for ; got < 8 && pktlen > 0; got, pktlen = got+1, pktlen-1 {
					b, err := s.GetOrFail()
					if err != nil {
						return err
					}
					temp[got] = b
				}
				// The original only copied this IV into the secret cert
				// for CIPHER_ALGO_BLOWFISH160, leaving it zeroed for
				// every other legacy cipher — almost certainly a typo,
				// since the IV is needed to unprotect any of them.
				// Fixed here to always store it.
				c.Protect.IV = temp
				c.Protect.HasIV = true
			}
			d, n, err := readMPI(s)
			if err != nil {
				return err
			}
			pktlen -= n
			p, n, err := readMPI(s)
			if err != nil {
				return err
			}
			pktlen -= n
			q, n, err := readMPI(s)
			if err != nil {
				return err
			}
			pktlen -= n
			u, n, err := readMPI(s)
			if err != nil {
				return err
			}
			pktlen -= n
			c.RSAD, c.RSAP, c.RSAQ, c.RSAU = d, p, q, u
			if err := readChecksum(s, &pktlen, c); err != nil {
				return err
			}
		}

	default:
		// Unknown algorithm: non-fatal, per spec.md §7.
	}

	pkt.KeyCertificate = c
	return nil
}

// parseLegacyProtection reads the ElGamal/DSA secret-key protection prefix:
// a protect-algo byte, and — if nonzero — either a full S2K specifier
// (protect-algo byte 255 introduces one) or a fabricated simple S2K plus an
// 8-byte IV, matching parse_certificate's two branches exactly.
func parseLegacyProtection(s *Source, pktlen *uint32, c *KeyCertificate) error {
	protectAlgo, err := s.GetOrFail()
	*pktlen--
	if err != nil {
		return err
	}
	if protectAlgo == 0 {
		c.Protect.Protected = false
		return nil
	}
	c.Protect.Protected = true

	if protectAlgo == 255 {
		if *pktlen < 3 {
			return fmt.Errorf("%s: secret key protection too short: %w", s.Where(), ErrInvalidBody)
		}
		algo, err := s.GetOrFail()
		*pktlen--
		if err != nil {
			return err
		}
		mode, err := s.GetOrFail()
		*pktlen--
		if err != nil {
			return err
		}
		hashAlgo, err := s.GetOrFail()
		*pktlen--
		if err != nil {
			return err
		}
		c.Protect.Algo = int(algo)
		c.Protect.S2K.Mode = int(mode)
		c.Protect.S2K.HashAlgo = int(hashAlgo)

		if mode == 1 || mode == 4 {
			for i := 0; i < 8 && *pktlen > 0; i, *pktlen = i+1, *pktlen-1 {
				b, err := s.GetOrFail()
				if err != nil {
					return err
				}
				c.Protect.S2K.Salt[i] = b
			}
		}
		switch mode {
		case 0, 1, 4:
		default:
			return fmt.Errorf("%s: unknown secret key S2K mode %d: %w", s.Where(), mode, ErrInvalidBody)
		}
		if mode == 4 {
			if *pktlen < 4 {
				return fmt.Errorf("%s: secret key S2K count truncated: %w", s.Where(), ErrInvalidBody)
			}
			var count uint32
			for i := 0; i < 4; i++ {
				b, err := s.GetOrFail()
				if err != nil {
					return err
				}
				count = count<<8 | uint32(b)
			}
			*pktlen -= 4
			c.Protect.S2K.Count = count
		}
	} else {
		c.Protect.Algo = int(protectAlgo)
		c.Protect.S2K.Mode = 0
		if protectAlgo == cipherAlgoBlowfish160 && isElGamal(c.PubkeyAlgo) {
			c.Protect.S2K.HashAlgo = digestAlgoRMD160
		} else {
			c.Protect.S2K.HashAlgo = digestAlgoMD5
		}
	}

	if *pktlen < 8 {
		return fmt.Errorf("%s: secret key protection IV truncated: %w", s.Where(), ErrInvalidBody)
	}
	var iv [8]byte
	for i := 0; i < 8 && *pktlen > 0; i, *pktlen = i+1, *pktlen-1 {
		b, err := s.GetOrFail()
		if err != nil {
			return err
		}
		iv[i] = b
	}
	c.Protect.IV = iv
	c.Protect.HasIV = true
	return nil
}

// readChecksum reads the trailing 16-bit checksum that follows a secret
// key's private MPIs.
func readChecksum(s *Source, pktlen *uint32, c *KeyCertificate) error {
	hi, err := s.GetOrFail()
	if err != nil {
		return err
	}
	lo, err := s.GetOrFail()
	if err != nil {
		return err
	}
	*pktlen -= 2
	c.Checksum = uint16(hi)<<8 | uint16(lo)
	return nil
}
