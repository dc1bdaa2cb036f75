package segment

import (
	"errors"
	"fmt"

	"github.com/danmuck/smppctl/internal/protocol"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var ErrUnsupportedCoding = errors.New("segment: unsupported data coding")

// Coding is an SMPP data_coding value the segmenter can produce.
type Coding uint8

const (
	GSM7   Coding = Coding(protocol.CodingDefault)
	Latin1 Coding = Coding(protocol.CodingLatin1)
	UCS2   Coding = Coding(protocol.CodingUCS2)
)

func (c Coding) String() string {
	switch c {
	case GSM7:
		return "gsm7"
	case Latin1:
		return "latin1"
	case UCS2:
		return "ucs2"
	default:
		return fmt.Sprintf("coding(0x%02x)", uint8(c))
	}
}

// ParseCoding maps a config or flag value to a Coding.
func ParseCoding(s string) (Coding, error) {
	switch s {
	case "", "gsm7", "default":
		return GSM7, nil
	case "latin1", "iso-8859-1":
		return Latin1, nil
	case "ucs2", "utf-16be":
		return UCS2, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedCoding, s)
	}
}

// Limits holds the single-message and per-part payload sizes in octets.
type Limits struct {
	Single  int
	PerPart int
}

var limits = map[Coding]Limits{
	GSM7:   {Single: 160, PerPart: 153},
	Latin1: {Single: 140, PerPart: 134},
	UCS2:   {Single: 140, PerPart: 134},
}

func LimitsFor(c Coding) (Limits, error) {
	l, ok := limits[c]
	if !ok {
		return Limits{}, fmt.Errorf("%w: %s", ErrUnsupportedCoding, c)
	}
	return l, nil
}

var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// units encodes text one character at a time so callers can split on
// character boundaries. ok is false when a character is outside c.
func units(text string, c Coding) ([][]byte, bool, error) {
	out := make([][]byte, 0, len(text))
	switch c {
	case GSM7:
		for _, r := range text {
			u, ok := gsmUnit(r)
			if !ok {
				return nil, false, nil
			}
			out = append(out, u)
		}
	case Latin1:
		for _, r := range text {
			b, ok := charmap.ISO8859_1.EncodeRune(r)
			if !ok {
				return nil, false, nil
			}
			out = append(out, []byte{b})
		}
	case UCS2:
		enc := utf16be.NewEncoder()
		for _, r := range text {
			u, err := enc.Bytes([]byte(string(r)))
			if err != nil {
				return nil, false, fmt.Errorf("segment: utf-16 encode %U: %w", r, err)
			}
			out = append(out, u)
		}
	default:
		return nil, false, fmt.Errorf("%w: %s", ErrUnsupportedCoding, c)
	}
	return out, true, nil
}

// Encode returns text in the requested coding, falling back to UCS2.
func Encode(text string, c Coding) ([]byte, Coding, error) {
	u, actual, err := encodeUnits(text, c)
	if err != nil {
		return nil, 0, err
	}
	return join(u), actual, nil
}

func encodeUnits(text string, c Coding) ([][]byte, Coding, error) {
	u, ok, err := units(text, c)
	if err != nil {
		return nil, 0, err
	}
	if ok {
		return u, c, nil
	}
	u, _, err = units(text, UCS2)
	if err != nil {
		return nil, 0, err
	}
	return u, UCS2, nil
}

// Decode converts a payload without UDH back to text.
func Decode(payload []byte, c Coding) (string, error) {
	switch c {
	case GSM7:
		return gsmDecode(payload), nil
	case Latin1:
		b, err := charmap.ISO8859_1.NewDecoder().Bytes(payload)
		if err != nil {
			return "", fmt.Errorf("segment: latin1 decode: %w", err)
		}
		return string(b), nil
	case UCS2:
		b, err := utf16be.NewDecoder().Bytes(payload)
		if err != nil {
			return "", fmt.Errorf("segment: utf-16 decode: %w", err)
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedCoding, c)
	}
}

func join(parts [][]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
