package session

import (
	"testing"
	"time"

	"github.com/danmuck/smppctl/internal/protocol"
	"github.com/danmuck/smppctl/internal/protocol/pdu"
	"github.com/danmuck/smppctl/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingTableLifecycle(t *testing.T) {
	testlog.Start(t)
	tbl := NewPendingTable()
	now := time.Unix(1700000000, 0)
	tbl.Track(PendingRequest{Sequence: 7, Command: protocol.SubmitSM, SentAt: now, Deadline: now.Add(10 * time.Second)})
	tbl.Track(PendingRequest{Sequence: 3, Command: protocol.QuerySM, SentAt: now, Deadline: now.Add(time.Second)})
	tbl.Track(PendingRequest{Sequence: 0, Command: protocol.EnquireLink})
	assert.Equal(t, 2, tbl.Len())

	list := tbl.List()
	require.Len(t, list, 2)
	assert.Equal(t, uint32(3), list[0].Sequence)

	wrong := pdu.MustNew(protocol.DeliverSMResp)
	wrong.Sequence = 7
	_, ok := tbl.Resolve(wrong)
	assert.False(t, ok, "mismatched response must not resolve")

	resp := pdu.MustNew(protocol.SubmitSMResp)
	resp.Sequence = 7
	item, ok := tbl.Resolve(resp)
	require.True(t, ok)
	assert.Equal(t, protocol.SubmitSM, item.Command)
	_, ok = tbl.Get(7)
	assert.False(t, ok)

	expired := tbl.Expire(now.Add(5 * time.Second))
	require.Len(t, expired, 1)
	assert.Equal(t, uint32(3), expired[0].Sequence)
	assert.Equal(t, 0, tbl.Len())
}

func TestPendingTableGenericNackResolvesAnyRequest(t *testing.T) {
	testlog.Start(t)
	tbl := NewPendingTable()
	tbl.Track(PendingRequest{Sequence: 11, Command: protocol.BindTransmitter})
	nack := pdu.MustNew(protocol.GenericNack)
	nack.Sequence = 11
	nack.Status = protocol.StatusInvCmdLen
	item, ok := tbl.Resolve(nack)
	require.True(t, ok)
	assert.Equal(t, protocol.BindTransmitter, item.Command)

	tbl.Track(PendingRequest{Sequence: 12, Command: protocol.EnquireLink})
	tbl.Remove(12)
	assert.Equal(t, 0, tbl.Len())
	_, ok = tbl.Resolve(pdu.MustNew(protocol.EnquireLink))
	assert.False(t, ok, "requests never resolve")
}
