package openpgp

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildUserIDPacket builds a legacy-format user id packet with a one-byte
// length, the minimal well-formed packet used across several scenarios.
func buildUserIDPacket(name string) []byte {
	return append([]byte{0xb4, byte(len(name))}, []byte(name)...)
}

func TestParsePacketStreamOfTwoPackets(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(buildUserIDPacket("first"))
	stream.Write(buildUserIDPacket("second"))

	rd := NewReader(&stream)
	p1, err := rd.ParsePacket()
	require.NoError(t, err)
	assert.Equal(t, "first", string(p1.UserID.Name))

	p2, err := rd.ParsePacket()
	require.NoError(t, err)
	assert.Equal(t, "second", string(p2.UserID.Name))

	_, err = rd.ParsePacket()
	assert.ErrorIs(t, err, io.EOF)
}

func TestParsePacketEmptyInputReturnsEOF(t *testing.T) {
	rd := NewReader(bytes.NewReader(nil))
	_, err := rd.ParsePacket()
	assert.ErrorIs(t, err, io.EOF)
}

func TestParsePacketSkipsUnknownTag(t *testing.T) {
	var stream bytes.Buffer
	// Legacy CTB, tag 15 (unassigned in this implementation's dispatch
	// table), one-byte length.
	stream.Write([]byte{0xbc, 3, 'x', 'y', 'z'})
	stream.Write(buildUserIDPacket("visible"))

	rd := NewReader(&stream)
	pkt, err := rd.ParsePacket()
	require.NoError(t, err)
	assert.Equal(t, "visible", string(pkt.UserID.Name))
}

func TestSearchPacketFindsRequestedTagAndOffset(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(buildUserIDPacket("skip-me"))
	offsetOfSecond := stream.Len()
	stream.Write(buildUserIDPacket("find-me"))

	rd := NewReader(&stream)
	pkt, offset, err := rd.SearchPacket(TagUserID)
	require.NoError(t, err)
	assert.Equal(t, "skip-me", string(pkt.UserID.Name))
	assert.EqualValues(t, 0, offset)

	pkt2, offset2, err := rd.SearchPacket(TagUserID)
	require.NoError(t, err)
	assert.Equal(t, "find-me", string(pkt2.UserID.Name))
	assert.EqualValues(t, offsetOfSecond, offset2)
}

func TestCopyAllPacketsByteIdentical(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(buildUserIDPacket("alice"))
	stream.Write(buildUserIDPacket("bob"))
	original := append([]byte{}, stream.Bytes()...)

	var out bytes.Buffer
	require.NoError(t, CopyAllPackets(bytes.NewReader(stream.Bytes()), &out))
	assert.Equal(t, original, out.Bytes())
}

func TestCopyAllPacketsDropsDeletedPackets(t *testing.T) {
	var stream bytes.Buffer
	stream.Write([]byte{0x80, 3, 'd', 'e', 'l'}) // legacy tag 0 (reserved/deleted)
	stream.Write(buildUserIDPacket("kept"))

	var out bytes.Buffer
	require.NoError(t, CopyAllPackets(bytes.NewReader(stream.Bytes()), &out))
	assert.Equal(t, buildUserIDPacket("kept"), out.Bytes())
}

func TestSkipSomePackets(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(buildUserIDPacket("one"))
	stream.Write(buildUserIDPacket("two"))
	remainder := buildUserIDPacket("three")
	stream.Write(remainder)

	r := bytes.NewReader(stream.Bytes())
	rd := NewReader(r)
	require.NoError(t, rd.SkipSomePackets(2))

	var out bytes.Buffer
	_, err := io.Copy(&out, r)
	require.NoError(t, err)
	assert.Equal(t, remainder, out.Bytes())
}

type recordingSink struct {
	packets []string
	skipped []Tag
}

func (r *recordingSink) Packet(tag Tag, summary string) { r.packets = append(r.packets, summary) }
func (r *recordingSink) Skipped(tag Tag, length uint32, raw []byte) {
	r.skipped = append(r.skipped, tag)
}

func TestSetPacketListModeReceivesSummaries(t *testing.T) {
	rd := NewReader(bytes.NewReader(buildUserIDPacket("carol")))
	sink := &recordingSink{}
	old := rd.SetPacketListMode(sink)
	require.IsType(t, DiscardSink{}, old)

	_, err := rd.ParsePacket()
	require.NoError(t, err)
	require.Len(t, sink.packets, 1)
	assert.Contains(t, sink.packets[0], "carol")
}
