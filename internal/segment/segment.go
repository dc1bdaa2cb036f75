// Package segment turns message text into SMPP short_message payloads: it
// picks a data coding, and splits long text into parts carrying an 8-bit
// concatenation user data header.
package segment

import (
	"fmt"
	"math/rand/v2"

	"github.com/danmuck/smppctl/internal/protocol"
	"github.com/rs/zerolog/log"
)

// MaxParts is bounded by the one-byte part index.
const MaxParts = 255

// UDHLen is the size of the concatenation header prefixed to each part.
const UDHLen = 6

// Result is the outcome of segmenting one message.
type Result struct {
	Parts    [][]byte
	Coding   Coding
	ESMClass uint8
}

func (r Result) Multipart() bool {
	return r.ESMClass&protocol.GSMFeatUDHI != 0
}

// Segmenter splits text. The reference source is replaceable for tests.
type Segmenter struct {
	ref func() byte
}

type Option func(*Segmenter)

// WithReference fixes how the per-message reference byte is drawn.
func WithReference(fn func() byte) Option {
	return func(s *Segmenter) {
		if fn != nil {
			s.ref = fn
		}
	}
}

func New(opts ...Option) *Segmenter {
	s := &Segmenter{ref: func() byte { return byte(rand.IntN(256)) }}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultSegmenter = New()

// Make segments text with a random reference byte.
func Make(text string, coding Coding) (Result, error) {
	return defaultSegmenter.Make(text, coding)
}

// Make encodes text in coding, or UCS2 when text falls outside it, and
// returns one part or up to MaxParts parts with concatenation headers.
// Parts never split a GSM escape sequence or a UTF-16 surrogate pair.
func (s *Segmenter) Make(text string, coding Coding) (Result, error) {
	if _, err := LimitsFor(coding); err != nil {
		return Result{}, err
	}
	u, actual, err := encodeUnits(text, coding)
	if err != nil {
		return Result{}, err
	}
	lim, _ := LimitsFor(actual)
	if actual != coding {
		log.Debug().Msgf("segment.Make fallback requested=%s actual=%s", coding, actual)
	}

	payload := join(u)
	if len(payload) <= lim.Single {
		return Result{Parts: [][]byte{payload}, Coding: actual, ESMClass: protocol.MsgTypeDefault}, nil
	}

	chunks := chunk(u, lim.PerPart)
	if len(chunks) > MaxParts {
		return Result{}, fmt.Errorf("%w: %d parts needed, max %d", protocol.ErrMessageTooLong, len(chunks), MaxParts)
	}
	ref := s.ref()
	total := byte(len(chunks))
	parts := make([][]byte, len(chunks))
	for i, c := range chunks {
		part := make([]byte, 0, UDHLen+len(c))
		part = append(part, 0x05, protocol.UDHIEConcat8, 0x03, ref, total, byte(i+1))
		parts[i] = append(part, c...)
	}
	log.Debug().Msgf("segment.Make coding=%s parts=%d ref=%d", actual, len(parts), ref)
	return Result{Parts: parts, Coding: actual, ESMClass: protocol.GSMFeatUDHI}, nil
}

// chunk packs whole units into chunks of at most size bytes.
func chunk(units [][]byte, size int) [][]byte {
	out := make([][]byte, 0)
	cur := make([]byte, 0, size)
	for _, u := range units {
		if len(cur)+len(u) > size {
			out = append(out, cur)
			cur = make([]byte, 0, size)
		}
		cur = append(cur, u...)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
