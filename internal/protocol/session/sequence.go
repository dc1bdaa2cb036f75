package session

import "go.uber.org/atomic"

const (
	MinSequence uint32 = 0x00000001
	MaxSequence uint32 = 0x7FFFFFFF
)

// SequenceGenerator hands out sequence numbers for outbound requests.
type SequenceGenerator interface {
	// Current returns the last number handed out.
	Current() uint32
	// Next advances and returns the new number.
	Next() uint32
}

// Counter is the default SequenceGenerator. Safe for concurrent use.
type Counter struct {
	v *atomic.Uint32
}

func NewSequenceGenerator() *Counter {
	return NewSequenceGeneratorAt(MinSequence)
}

// NewSequenceGeneratorAt starts at seed. Out-of-range seeds start at 1.
func NewSequenceGeneratorAt(seed uint32) *Counter {
	if seed < MinSequence || seed > MaxSequence {
		seed = MinSequence
	}
	return &Counter{v: atomic.NewUint32(seed)}
}

func (c *Counter) Current() uint32 {
	return c.v.Load()
}

// Next wraps from MaxSequence back to MinSequence.
func (c *Counter) Next() uint32 {
	for {
		cur := c.v.Load()
		next := cur + 1
		if cur >= MaxSequence {
			next = MinSequence
		}
		if c.v.CompareAndSwap(cur, next) {
			return next
		}
	}
}
