package openpgp

import (
	"encoding/hex"

	"github.com/rs/zerolog"
)

// DiagnosticSink is list-mode's output collaborator (spec.md §6): "a
// formatted-line writer; implementations route it to a file or discard."
// It replaces the original's process-wide list_mode/mpi_print_mode globals
// (spec.md §9) with an object passed explicitly to a Reader.
type DiagnosticSink interface {
	// Packet is called once a recognized packet body has been decoded,
	// with a short human-facing summary of its fields.
	Packet(tag Tag, summary string)
	// Skipped is called for an unknown or filtered-out packet, carrying
	// its raw undecoded bytes for the original's hex-dump-on-skip
	// behavior (parse-packet.c's skip_packet, list_mode branch).
	Skipped(tag Tag, length uint32, raw []byte)
}

// DiscardSink implements DiagnosticSink by doing nothing, the default when
// no caller asked for list mode.
type DiscardSink struct{}

func (DiscardSink) Packet(Tag, string)          {}
func (DiscardSink) Skipped(Tag, uint32, []byte) {}

// ZerologSink is the diagnostic sink used by cmd/pgpdump, emitting one
// structured zerolog event per packet in place of the original's raw
// printf() list-mode lines.
type ZerologSink struct {
	Logger zerolog.Logger
}

func (z ZerologSink) Packet(tag Tag, summary string) {
	z.Logger.Info().Str("type", tag.String()).Msg(summary)
}

func (z ZerologSink) Skipped(tag Tag, length uint32, raw []byte) {
	z.Logger.Debug().
		Str("type", tag.String()).
		Uint32("length", length).
		Str("dump", hex.EncodeToString(raw)).
		Msg("skipped packet")
}
