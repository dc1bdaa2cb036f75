package session

import (
	"testing"

	"github.com/danmuck/smppctl/internal/protocol"
	"github.com/danmuck/smppctl/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
)

func TestSequenceStartsAtOne(t *testing.T) {
	testlog.Start(t)
	g := NewSequenceGenerator()
	assert.Equal(t, MinSequence, g.Current())
	assert.Equal(t, uint32(2), g.Next())
	assert.Equal(t, uint32(3), g.Next())
	assert.Equal(t, uint32(3), g.Current())
}

func TestSequenceSeeds(t *testing.T) {
	testlog.Start(t)
	assert.Equal(t, uint32(50), NewSequenceGeneratorAt(50).Current())
	assert.Equal(t, MaxSequence, NewSequenceGeneratorAt(MaxSequence).Current())
	assert.Equal(t, MinSequence, NewSequenceGeneratorAt(0).Current())
	assert.Equal(t, MinSequence, NewSequenceGeneratorAt(MaxSequence+1).Current())
}

func TestSequenceWraps(t *testing.T) {
	testlog.Start(t)
	g := NewSequenceGeneratorAt(MaxSequence - 1)
	assert.Equal(t, MaxSequence, g.Next())
	assert.Equal(t, MinSequence, g.Next())
	assert.Equal(t, uint32(2), g.Next())
}

type fixedSequence struct{ n uint32 }

func (f *fixedSequence) Current() uint32 { return f.n }
func (f *fixedSequence) Next() uint32    { f.n += 10; return f.n }

func TestSessionUsesInjectedGenerator(t *testing.T) {
	testlog.Start(t)
	s := newSession(t, WithSequenceGenerator(&fixedSequence{}))
	p, err := s.NewRequest(protocol.EnquireLink)
	assert.NoError(t, err)
	assert.Equal(t, uint32(10), p.Sequence)
}
