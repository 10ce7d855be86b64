// This is free and unencumbered software released into the public domain.

package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/skeeto/optparse-go"
	"golang.org/x/crypto/openpgp/armor"

	"nullprogram.com/x/pgppacket/openpgp"
)

const (
	cmdDump = iota
	cmdSearch
	cmdCopy
	cmdSkip
)

// Print the message like fmt.Printf() and then os.Exit(1).
func fatal(format string, args ...interface{}) {
	buf := bytes.NewBufferString("pgpdump: ")
	fmt.Fprintf(buf, format, args...)
	buf.WriteRune('\n')
	os.Stderr.Write(buf.Bytes())
	os.Exit(1)
}

type config struct {
	cmd     int
	args    []string
	armored bool
	help    bool
	quiet   bool
	tag     int
	stop    uint64
	skipN   int
	verbose bool
}

func usage(w io.Writer) {
	bw := bufio.NewWriter(w)
	i := "  "
	b := "      "
	p := "pgpdump"
	f := func(s ...interface{}) {
		fmt.Fprintln(bw, s...)
	}
	f("Usage:")
	f(i, p, "[-hqv] [-a] [file]              dump every packet (default)")
	f(b, "-g TAG [-a] [file]               find the first packet of type TAG")
	f(b, "-C [-a] [-o offset] <in >out     copy packets through byte-identically")
	f(b, "-k N [-a] <in >out               skip N leading packets")
	f("Options:")
	f(i, "-a, --armor            input is ASCII-armored")
	f(i, "-g, --grep TAG         search for the first packet with this tag number")
	f(i, "-C, --copy             copy-through mode")
	f(i, "-o, --offset N         stop byte offset for --copy")
	f(i, "-k, --skip N           packet-skip mode, N packets")
	f(i, "-h, --help             print this help message")
	f(i, "-q, --quiet            suppress per-packet diagnostics")
	f(i, "-v, --verbose          include skipped/unknown packets in the dump")
	bw.Flush()
}

func parse() *config {
	conf := config{cmd: cmdDump, tag: -1}

	options := []optparse.Option{
		{"armor", 'a', optparse.KindNone},
		{"grep", 'g', optparse.KindRequired},
		{"copy", 'C', optparse.KindNone},
		{"offset", 'o', optparse.KindRequired},
		{"skip", 'k', optparse.KindRequired},
		{"help", 'h', optparse.KindNone},
		{"quiet", 'q', optparse.KindNone},
		{"verbose", 'v', optparse.KindNone},
	}

	results, rest, err := optparse.Parse(options, os.Args)
	if err != nil {
		usage(os.Stderr)
		fatal("%s", err)
	}
	for _, result := range results {
		switch result.Long {
		case "armor":
			conf.armored = true
		case "grep":
			tag, err := strconv.Atoi(result.Optarg)
			if err != nil {
				fatal("--grep (-g): %s", err)
			}
			conf.cmd = cmdSearch
			conf.tag = tag
		case "copy":
			conf.cmd = cmdCopy
		case "offset":
			n, err := strconv.ParseUint(result.Optarg, 10, 64)
			if err != nil {
				fatal("--offset (-o): %s", err)
			}
			conf.stop = n
		case "skip":
			n, err := strconv.Atoi(result.Optarg)
			if err != nil {
				fatal("--skip (-k): %s", err)
			}
			conf.cmd = cmdSkip
			conf.skipN = n
		case "help":
			usage(os.Stdout)
			os.Exit(0)
		case "quiet":
			conf.quiet = true
		case "verbose":
			conf.verbose = true
		}
	}

	conf.args = rest
	return &conf
}

// openInput opens either stdin or the single positional file argument,
// unwrapping ASCII armor first when requested.
func openInput(conf *config) (io.Reader, func(), error) {
	var r io.Reader = os.Stdin
	closer := func() {}

	if len(conf.args) > 0 {
		f, err := os.Open(conf.args[0])
		if err != nil {
			return nil, nil, err
		}
		r = f
		closer = func() { f.Close() }
	}

	if conf.armored {
		block, err := armor.Decode(r)
		if err != nil {
			closer()
			return nil, nil, err
		}
		r = block.Body
	}

	return r, closer, nil
}

func main() {
	conf := parse()

	in, closeIn, err := openInput(conf)
	if err != nil {
		fatal("%s", err)
	}
	defer closeIn()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if conf.quiet {
		logger = logger.Level(zerolog.Disabled)
	}

	switch conf.cmd {
	case cmdDump:
		rd := openpgp.NewReader(in)
		sink := openpgp.ZerologSink{Logger: logger}
		if conf.verbose {
			rd.SetPacketListMode(sink)
		} else {
			rd.SetPacketListMode(dumpSink{sink})
		}
		for {
			_, err := rd.ParsePacket()
			if err != nil {
				if err == io.EOF {
					return
				}
				fatal("%s", err)
			}
		}

	case cmdSearch:
		rd := openpgp.NewReader(in)
		rd.SetPacketListMode(openpgp.ZerologSink{Logger: logger})
		pkt, offset, err := rd.SearchPacket(openpgp.Tag(conf.tag))
		if err != nil {
			fatal("%s", err)
		}
		fmt.Printf("found %s packet at offset %d\n", pkt.Tag, offset)

	case cmdCopy:
		stop := conf.stop
		if stop == 0 {
			if err := openpgp.CopyAllPackets(in, os.Stdout); err != nil {
				fatal("%s", err)
			}
		} else {
			if err := openpgp.CopySomePackets(in, os.Stdout, stop); err != nil {
				fatal("%s", err)
			}
		}

	case cmdSkip:
		rd := openpgp.NewReader(in)
		if err := rd.SkipSomePackets(conf.skipN); err != nil {
			fatal("%s", err)
		}
		if _, err := io.Copy(os.Stdout, in); err != nil {
			fatal("%s", err)
		}
	}
}

// dumpSink wraps a DiagnosticSink so that, absent --verbose, skipped/unknown
// packets are not reported at all — matching list_mode's default terseness
// in the original, which only ever described packets it could parse.
type dumpSink struct {
	inner openpgp.DiagnosticSink
}

func (d dumpSink) Packet(tag openpgp.Tag, summary string) { d.inner.Packet(tag, summary) }
func (d dumpSink) Skipped(openpgp.Tag, uint32, []byte)    {}
