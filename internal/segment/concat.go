package segment

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/danmuck/smppctl/internal/protocol"
)

var ErrNoConcatHeader = errors.New("segment: no concatenation header")

// Concat identifies one part of a concatenated message.
type Concat struct {
	Ref   uint16
	Total uint8
	Index uint8
}

// ParseConcat reads the user data header at the start of part and returns
// the concatenation element plus the payload after the header.
func ParseConcat(part []byte) (Concat, []byte, error) {
	if len(part) < 1 {
		return Concat{}, nil, ErrNoConcatHeader
	}
	udhl := int(part[0])
	if len(part) < 1+udhl {
		return Concat{}, nil, protocol.Malformed("udh length %d exceeds part of %d bytes", udhl, len(part))
	}
	ies := part[1 : 1+udhl]
	payload := part[1+udhl:]
	for i := 0; i+2 <= len(ies); {
		iei, l := ies[i], int(ies[i+1])
		if i+2+l > len(ies) {
			return Concat{}, nil, protocol.Malformed("udh element 0x%02x overruns header", iei)
		}
		v := ies[i+2 : i+2+l]
		switch {
		case iei == protocol.UDHIEConcat8 && l == 3:
			return Concat{Ref: uint16(v[0]), Total: v[1], Index: v[2]}, payload, nil
		case iei == protocol.UDHIEConcat16 && l == 4:
			return Concat{Ref: uint16(v[0])<<8 | uint16(v[1]), Total: v[2], Index: v[3]}, payload, nil
		}
		i += 2 + l
	}
	return Concat{}, payload, ErrNoConcatHeader
}

type groupKey struct {
	source string
	ref    uint16
	total  uint8
}

type group struct {
	parts   map[uint8][]byte
	coding  Coding
	firstAt time.Time
}

// Reassembler collects inbound parts until a message is complete.
type Reassembler struct {
	mu     sync.Mutex
	groups map[groupKey]*group
	now    func() time.Time
}

func NewReassembler() *Reassembler {
	return &Reassembler{
		groups: make(map[groupKey]*group),
		now:    time.Now,
	}
}

// Add stores one UDH-prefixed part. When the last part arrives it returns
// the decoded text and true.
func (r *Reassembler) Add(source string, part []byte, coding Coding) (string, bool, error) {
	c, payload, err := ParseConcat(part)
	if err != nil {
		return "", false, err
	}
	if c.Total == 0 || c.Index == 0 || c.Index > c.Total {
		return "", false, fmt.Errorf("%w: part %d of %d", ErrNoConcatHeader, c.Index, c.Total)
	}
	key := groupKey{source: source, ref: c.Ref, total: c.Total}

	r.mu.Lock()
	g, ok := r.groups[key]
	if !ok {
		g = &group{parts: make(map[uint8][]byte, c.Total), coding: coding, firstAt: r.now()}
		r.groups[key] = g
	}
	g.parts[c.Index] = append([]byte(nil), payload...)
	if len(g.parts) < int(c.Total) {
		r.mu.Unlock()
		return "", false, nil
	}
	delete(r.groups, key)
	r.mu.Unlock()

	ordered := make([][]byte, 0, c.Total)
	for i := uint8(1); i <= c.Total; i++ {
		ordered = append(ordered, g.parts[i])
	}
	text, err := Decode(join(ordered), g.coding)
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

// Pending is the number of incomplete messages held.
func (r *Reassembler) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.groups)
}

// Prune drops incomplete messages whose first part is older than maxAge.
func (r *Reassembler) Prune(maxAge time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-maxAge)
	n := 0
	for key, g := range r.groups {
		if g.firstAt.Before(cutoff) {
			delete(r.groups, key)
			n++
		}
	}
	return n
}
