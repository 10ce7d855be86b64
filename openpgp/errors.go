package openpgp

import "errors"

// Sentinel errors returned by the packet decoder. End-of-stream is not
// among them: callers see io.EOF instead, the idiomatic Go spelling of the
// original parser's "-1, no more packets" return code.
var (
	// ErrInvalidFraming means the stream itself is broken: a clear high
	// bit on the CTB, a length field truncated mid-read, or the stream
	// ending inside a packet body (any GetOrFail at end of stream, or a
	// truncated MPI). The stream cannot be resynchronized past this point.
	ErrInvalidFraming = errors.New("openpgp: invalid packet framing")

	// ErrInvalidBody means a packet's header was fine but its body did
	// not match its declared structure (too short, bad version, runaway
	// subpacket area). The dispatcher has already consumed the rest of
	// the packet via skipRest, so the stream is positioned at the next
	// packet boundary.
	ErrInvalidBody = errors.New("openpgp: invalid packet body")
)
