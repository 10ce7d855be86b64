package openpgp

import "io"

// Tag identifies the type of an OpenPGP packet, taken from the low bits of
// the CTB (new format: 0..63, legacy format: 0..15).
type Tag int

const (
	TagReserved         Tag = 0
	TagPubkeyEnc        Tag = 1
	TagSignature        Tag = 2
	TagSymkeyEnc        Tag = 3
	TagOnePassSignature Tag = 4
	TagSecretKey        Tag = 5
	TagPublicKey        Tag = 6
	TagSecretSubkey     Tag = 7
	TagCompressed       Tag = 8
	TagEncrypted        Tag = 9
	TagPlaintext        Tag = 11
	TagTrust            Tag = 12
	TagUserID           Tag = 13
	TagPublicSubkey     Tag = 14
	TagOldComment       Tag = 16
	TagEncryptedMDC     Tag = 18
	TagComment          Tag = 61
)

// String names a tag the way the original's list-mode printf()s did,
// without the trailing ":" punctuation.
func (t Tag) String() string {
	switch t {
	case TagPubkeyEnc:
		return "pubkey enc"
	case TagSignature:
		return "signature"
	case TagSymkeyEnc:
		return "symkey enc"
	case TagOnePassSignature:
		return "onepass_sig"
	case TagSecretKey:
		return "secret key"
	case TagPublicKey:
		return "public key"
	case TagSecretSubkey:
		return "secret sub"
	case TagPublicSubkey:
		return "public sub"
	case TagCompressed:
		return "compressed"
	case TagEncrypted, TagEncryptedMDC:
		return "encrypted data"
	case TagPlaintext:
		return "literal data"
	case TagTrust:
		return "trust"
	case TagUserID:
		return "user id"
	case TagOldComment:
		return "OpenPGP draft comment"
	case TagComment:
		return "comment"
	default:
		return "unknown"
	}
}

// Format distinguishes legacy (PGP 2.x) framing from the new format
// introduced for v4 packets, per spec.md §3 ("Header frame").
type Format int

const (
	FormatLegacy Format = iota
	FormatNew
)

// LengthKind records which of the three body-length encodings a packet
// header selected.
type LengthKind int

const (
	LengthDefinite LengthKind = iota
	LengthIndeterminate
	LengthPartial
)

// Header is the framing information decoded ahead of every packet body. Raw
// is the verbatim header bytes (≤6), kept for byte-identical copy-mode
// pass-through and for key-certificate hashing.
type Header struct {
	Format Format
	Tag    Tag
	Length LengthKind
	Len    uint32 // only meaningful when Length == LengthDefinite
	Raw    []byte
}

// Packet is a tagged record produced by the decoder. Reader never returns a
// record for an unknown or filtered packet: ParsePacket and SearchPacket
// loop past those, so Skipped is never set by this package. On success the
// one body field matching Tag is populated.
type Packet struct {
	Header
	Skipped bool

	SymkeyEnc        *SymkeyEnc
	PubkeyEnc        *PubkeyEnc
	Signature        *Signature
	OnePassSignature *OnePassSignature
	KeyCertificate   *KeyCertificate
	UserID           *UserID
	Comment          *Comment
	Trust            *Trust
	Plaintext        *Plaintext
	Compressed       *Compressed
	Encrypted        *Encrypted
}

// S2K is a string-to-key specifier (RFC 4880 §3.7). Mode 0 is "simple" (no
// salt, no count); mode 1 adds an 8-byte salt; mode 4 adds both salt and a
// 32-bit coded iteration count.
type S2K struct {
	Mode     int
	HashAlgo int
	Salt     [8]byte
	Count    uint32 // only set for Mode == 4
}

// SymkeyEnc is a Symmetric-Key Encrypted Session Key packet (tag 3).
type SymkeyEnc struct {
	Version     int
	CipherAlgo  int
	S2K         S2K
	SessionKey  []byte // ciphertext, or empty if the S2K output is used directly
}

// PubkeyEnc is a Public-Key Encrypted Session Key packet (tag 1).
type PubkeyEnc struct {
	Version     int
	KeyID       [2]uint32 // big-endian halves of the 64-bit key id
	PubkeyAlgo  int
	ElGamalA    MPI
	ElGamalB    MPI
	RSAInteger  MPI
}

// Signature is a Signature packet (tag 2), versions 2/3/4.
type Signature struct {
	Version      int
	MD5Len       int // v2/v3 "hashed material length" byte, recorded not enforced
	SigClass     int
	Timestamp    uint32
	KeyID        [2]uint32
	PubkeyAlgo   int
	DigestAlgo   int
	HashedData   []byte // v4 only: raw area including its 2-byte length prefix
	UnhashedData []byte // v4 only: same
	DigestStart  [2]byte

	ElGamalR MPI
	ElGamalS MPI
	DSAR     MPI
	DSAS     MPI
	RSA      MPI
}

// OnePassSignature is a One-Pass Signature packet (tag 4).
type OnePassSignature struct {
	Version    int
	SigClass   int
	DigestAlgo int
	PubkeyAlgo int
	KeyID      [2]uint32
	Last       bool
}

// KeyProtection describes how a secret key's material is protected, per
// spec.md §3's "Key certificate body" description.
type KeyProtection struct {
	Algo      int // 0 = unprotected
	S2K       S2K
	IV        [8]byte
	HasIV     bool
	Protected bool
}

// KeyCertificate is a public or secret, primary or sub, key packet (tags 5,
// 6, 7, 14). IsComment and CommentText are set instead of the rest when the
// legacy public-subkey-as-'#'-comment escape fires.
type KeyCertificate struct {
	Tag         Tag
	Version     int
	Timestamp   uint32
	ValidDays   uint16 // v2/v3 only
	PubkeyAlgo  int
	IsComment   bool
	CommentText []byte

	ElGamalP MPI
	ElGamalG MPI
	ElGamalY MPI
	DSAP     MPI
	DSAQ     MPI
	DSAG     MPI
	DSAY     MPI
	RSAN     MPI
	RSAE     MPI

	IsSecret   bool
	Protect    KeyProtection
	ElGamalX   MPI
	DSAX       MPI
	RSAD       MPI
	RSAP       MPI
	RSAQ       MPI
	RSAU       MPI
	Checksum   uint16
}

// UserID is a User ID packet (tag 13): the raw identity string bytes.
type UserID struct {
	Name []byte
}

// Comment is a Comment or deprecated "OpenPGP draft" Comment packet.
type Comment struct {
	Old  bool
	Data []byte
}

// Trust is a Ring Trust packet (tag 12): a single diagnostic byte, never
// interpreted by this package.
type Trust struct {
	Flag byte
}

// Plaintext is a Literal Data packet (tag 11). Data is a borrowed handle
// into the byte source, not materialized: the underlying source must
// outlive the Packet.
type Plaintext struct {
	Mode      byte
	Name      []byte
	Timestamp uint32
	Data      DataHandle
}

// Compressed is a Compressed Data packet (tag 8): an algorithm id plus an
// opaque, borrowed payload handle.
type Compressed struct {
	Algorithm byte
	Data      DataHandle
}

// Encrypted is a Symmetrically Encrypted (Integrity Protected) Data packet
// (tags 9/18): length (0 if indeterminate) plus a borrowed payload handle.
type Encrypted struct {
	Len  uint32
	Data DataHandle
}

// DataHandle is a borrowed reference to the remaining bytes of a packet
// body whose contents this package does not interpret (plaintext,
// compressed, encrypted). Reading from it consumes the underlying Source;
// ownership of the Source is not transferred. When a plaintext or encrypted
// packet had a definite length, Bounded is true and Remaining tracks how
// many bytes of the body are left, so a Read past the packet's own end never
// reaches into whatever follows it in the stream; for indeterminate or
// partial-body packets, Bounded is false and the Source's own block/partial
// mode already stops Read at the right place. A compressed packet's handle
// is never bounded: it reads to the end of the stream (or of the partial
// body) whatever the packet's header length.
type DataHandle struct {
	src       *Source
	Bounded   bool
	Remaining uint32
}

// Read satisfies io.Reader, honoring whichever length scheme the enclosing
// packet used.
func (d *DataHandle) Read(p []byte) (int, error) {
	if d.Bounded {
		if d.Remaining == 0 {
			return 0, io.EOF
		}
		if uint32(len(p)) > d.Remaining {
			p = p[:d.Remaining]
		}
		n, err := d.src.Read(p)
		d.Remaining -= uint32(n)
		return n, err
	}
	return d.src.Read(p)
}
