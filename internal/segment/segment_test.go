package segment

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/smppctl/internal/protocol"
	"github.com/danmuck/smppctl/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedRef(b byte) *Segmenter {
	return New(WithReference(func() byte { return b }))
}

func TestGSMEncodeBasicAndEscape(t *testing.T) {
	testlog.Start(t)
	b, c, err := Encode("@", GSM7)
	require.NoError(t, err)
	assert.Equal(t, GSM7, c)
	assert.Equal(t, []byte{0x00}, b)

	b, _, err = Encode("^€", GSM7)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1B, 0x14, 0x1B, 0x65}, b)

	b, _, err = Encode("§", GSM7)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x5F}, b)
}

func TestSingleParts(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		text   string
		coding Coding
		want   []byte
		actual Coding
	}{
		{"@", GSM7, []byte{0x00}, GSM7},
		{"Ая", GSM7, []byte{0x04, 0x10, 0x04, 0x4F}, UCS2},
		{"é", Latin1, []byte{0xE9}, Latin1},
		{"Ая", Latin1, []byte{0x04, 0x10, 0x04, 0x4F}, UCS2},
	}
	for _, tc := range cases {
		res, err := Make(tc.text, tc.coding)
		require.NoError(t, err, tc.text)
		assert.Equal(t, [][]byte{tc.want}, res.Parts, tc.text)
		assert.Equal(t, tc.actual, res.Coding, tc.text)
		assert.Equal(t, protocol.MsgTypeDefault, res.ESMClass)
		assert.False(t, res.Multipart())
	}
}

func TestSegmentationBoundary(t *testing.T) {
	testlog.Start(t)
	s := fixedRef(0x42)

	res, err := s.Make(strings.Repeat("a", 160), GSM7)
	require.NoError(t, err)
	assert.Len(t, res.Parts, 1)
	assert.Len(t, res.Parts[0], 160)

	res, err = s.Make(strings.Repeat("a", 161), GSM7)
	require.NoError(t, err)
	require.Len(t, res.Parts, 2)
	assert.Equal(t, protocol.GSMFeatUDHI, res.ESMClass)
	assert.Equal(t, []byte{0x05, 0x00, 0x03, 0x42, 0x02, 0x01}, res.Parts[0][:UDHLen])
	assert.Equal(t, []byte{0x05, 0x00, 0x03, 0x42, 0x02, 0x02}, res.Parts[1][:UDHLen])
	assert.Len(t, res.Parts[0], UDHLen+153)
	assert.Len(t, res.Parts[1], UDHLen+8)
}

func TestMultipartMatchesFixedChunks(t *testing.T) {
	testlog.Start(t)
	res, err := fixedRef(0x42).Make(strings.Repeat("@", 153*2), GSM7)
	require.NoError(t, err)
	want := [][]byte{
		append([]byte{0x05, 0x00, 0x03, 0x42, 0x02, 0x01}, make([]byte, 153)...),
		append([]byte{0x05, 0x00, 0x03, 0x42, 0x02, 0x02}, make([]byte, 153)...),
	}
	assert.Equal(t, want, res.Parts)
}

func TestUCS2PartCount(t *testing.T) {
	testlog.Start(t)
	res, err := Make(strings.Repeat("Привет мир!\n", 10), GSM7)
	require.NoError(t, err)
	assert.Equal(t, UCS2, res.Coding)
	assert.Len(t, res.Parts, 2)
}

func TestEscapePairNeverSplit(t *testing.T) {
	testlog.Start(t)
	text := strings.Repeat("a", 152) + "€" + strings.Repeat("b", 10)
	res, err := fixedRef(1).Make(text, GSM7)
	require.NoError(t, err)
	require.Len(t, res.Parts, 2)
	first := res.Parts[0][UDHLen:]
	assert.Len(t, first, 152)
	assert.NotEqual(t, byte(0x1B), first[len(first)-1])
	assert.Equal(t, []byte{0x1B, 0x65}, res.Parts[1][UDHLen:UDHLen+2])
}

func TestSurrogatePairNeverSplit(t *testing.T) {
	testlog.Start(t)
	text := strings.Repeat("Ж", 66) + "😀" + strings.Repeat("Ж", 5)
	res, err := fixedRef(1).Make(text, UCS2)
	require.NoError(t, err)
	require.Len(t, res.Parts, 2)
	assert.Len(t, res.Parts[0][UDHLen:], 132)
	assert.Equal(t, []byte{0xD8, 0x3D, 0xDE, 0x00}, res.Parts[1][UDHLen:UDHLen+4])
}

func TestMessageTooLong(t *testing.T) {
	testlog.Start(t)
	_, err := Make(strings.Repeat("a", 153*255), GSM7)
	assert.NoError(t, err)
	_, err = Make(strings.Repeat("a", 153*255+1), GSM7)
	assert.ErrorIs(t, err, protocol.ErrMessageTooLong)
}

func TestUnsupportedCoding(t *testing.T) {
	testlog.Start(t)
	_, err := Make("x", Coding(protocol.CodingBinary))
	assert.ErrorIs(t, err, ErrUnsupportedCoding)
	_, err = ParseCoding("ebcdic")
	assert.ErrorIs(t, err, ErrUnsupportedCoding)
	c, err := ParseCoding("ucs2")
	require.NoError(t, err)
	assert.Equal(t, UCS2, c)
}

func TestDecodeRoundTrip(t *testing.T) {
	testlog.Start(t)
	for _, tc := range []struct {
		text   string
		coding Coding
	}{
		{"Hello {world} €5 [ok]", GSM7},
		{"café olé", Latin1},
		{"Привет 😀", UCS2},
	} {
		b, actual, err := Encode(tc.text, tc.coding)
		require.NoError(t, err)
		require.Equal(t, tc.coding, actual)
		got, err := Decode(b, actual)
		require.NoError(t, err)
		assert.Equal(t, tc.text, got)
	}
}

func TestReassembleOutOfOrder(t *testing.T) {
	testlog.Start(t)
	text := strings.Repeat("0123456789", 40)
	res, err := fixedRef(9).Make(text, GSM7)
	require.NoError(t, err)
	require.Len(t, res.Parts, 3)

	r := NewReassembler()
	for _, i := range []int{2, 0} {
		_, done, err := r.Add("12345", res.Parts[i], res.Coding)
		require.NoError(t, err)
		assert.False(t, done)
	}
	assert.Equal(t, 1, r.Pending())
	got, done, err := r.Add("12345", res.Parts[1], res.Coding)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, text, got)
	assert.Equal(t, 0, r.Pending())
}

func TestReassemblerPrune(t *testing.T) {
	testlog.Start(t)
	res, err := fixedRef(3).Make(strings.Repeat("x", 200), GSM7)
	require.NoError(t, err)
	r := NewReassembler()
	base := time.Unix(1700000000, 0)
	r.now = func() time.Time { return base }
	_, _, err = r.Add("src", res.Parts[0], res.Coding)
	require.NoError(t, err)
	r.now = func() time.Time { return base.Add(time.Minute) }
	assert.Equal(t, 0, r.Prune(2*time.Minute))
	assert.Equal(t, 1, r.Prune(30*time.Second))
	assert.Equal(t, 0, r.Pending())
}

func TestParseConcat(t *testing.T) {
	testlog.Start(t)
	c, payload, err := ParseConcat([]byte{0x05, 0x00, 0x03, 0x42, 0x03, 0x02, 'h', 'i'})
	require.NoError(t, err)
	assert.Equal(t, Concat{Ref: 0x42, Total: 3, Index: 2}, c)
	assert.Equal(t, []byte("hi"), payload)

	c, _, err = ParseConcat([]byte{0x06, 0x08, 0x04, 0x12, 0x34, 0x02, 0x01})
	require.NoError(t, err)
	assert.Equal(t, Concat{Ref: 0x1234, Total: 2, Index: 1}, c)

	_, _, err = ParseConcat([]byte{0x09, 0x00})
	assert.ErrorIs(t, err, protocol.ErrMalformedPDU)

	_, payload, err = ParseConcat([]byte{0x04, 0x05, 0x02, 0x00, 0x01, 'x'})
	assert.ErrorIs(t, err, ErrNoConcatHeader)
	assert.True(t, bytes.Equal(payload, []byte("x")))
}
