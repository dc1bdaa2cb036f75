package session

import (
	"sync"
	"testing"

	"github.com/danmuck/smppctl/internal/protocol"
	"github.com/danmuck/smppctl/internal/protocol/pdu"
	"github.com/danmuck/smppctl/internal/protocol/schema"
	"github.com/danmuck/smppctl/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	cfg := DefaultConfig()
	cfg.TLVMode = pdu.TLVStrict
	s, err := New(cfg, opts...)
	require.NoError(t, err)
	return s
}

// smscReply encodes a PDU the way the peer would send it.
func smscReply(t *testing.T, cmd protocol.CommandID, seq uint32, status protocol.Status) []byte {
	t.Helper()
	p := pdu.MustNew(cmd)
	p.Sequence = seq
	p.Status = status
	b, err := pdu.Encode(p)
	require.NoError(t, err)
	return b
}

func bindAs(t *testing.T, s *Session, cmd protocol.CommandID) {
	t.Helper()
	require.NoError(t, s.Connect())
	req, err := s.NewRequest(cmd)
	require.NoError(t, err)
	_, err = s.Encode(req)
	require.NoError(t, err)
	_, err = s.Decode(smscReply(t, cmd.Response(), req.Sequence, protocol.StatusOK))
	require.NoError(t, err)
}

func TestNewRequiresTLVMode(t *testing.T) {
	testlog.Start(t)
	_, err := New(DefaultConfig())
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, pdu.ErrInvalidMode)
}

func TestLifecycle(t *testing.T) {
	testlog.Start(t)
	var seen []State
	s := newSession(t, WithStateObserver(func(_, to State) { seen = append(seen, to) }))
	assert.Equal(t, StateClosed, s.State())

	bindAs(t, s, protocol.BindTransceiver)
	assert.Equal(t, StateBoundTRX, s.State())
	assert.ErrorIs(t, s.Connect(), protocol.ErrInvalidState)

	unbind, err := s.NewRequest(protocol.Unbind)
	require.NoError(t, err)
	_, err = s.Encode(unbind)
	require.NoError(t, err)
	_, err = s.Decode(smscReply(t, protocol.UnbindResp, unbind.Sequence, protocol.StatusOK))
	require.NoError(t, err)
	assert.Equal(t, StateOpen, s.State())

	s.Disconnect()
	assert.Equal(t, StateClosed, s.State())
	s.Disconnect()
	assert.Equal(t, []State{StateOpen, StateBoundTRX, StateOpen, StateClosed}, seen)
}

func TestStateNames(t *testing.T) {
	testlog.Start(t)
	want := []string{"CLOSED", "OPEN", "BOUND_TRANSMITTER", "BOUND_RECEIVER", "BOUND_TRANSCEIVER"}
	got := make([]string, 0, len(want))
	for _, st := range States() {
		got = append(got, st.String())
	}
	assert.Equal(t, want, got)

	s := newSession(t)
	bindAs(t, s, protocol.BindTransmitter)
	assert.Equal(t, "BOUND_TRANSMITTER", s.State().String())
}

func TestSubmitBeforeBindFails(t *testing.T) {
	testlog.Start(t)
	s := newSession(t)
	require.NoError(t, s.Connect())

	submit, err := s.NewRequest(protocol.SubmitSM)
	require.NoError(t, err)
	_, err = s.Encode(submit)
	require.ErrorIs(t, err, protocol.ErrInvalidState)
	var se *protocol.StateError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, protocol.SubmitSM, se.Command)
	assert.Equal(t, "OPEN", se.State)
	assert.True(t, se.Outbound)

	bind, err := s.NewRequest(protocol.BindTransmitter)
	require.NoError(t, err)
	_, err = s.Encode(bind)
	require.NoError(t, err)
	_, err = s.Decode(smscReply(t, protocol.BindTransmitterResp, bind.Sequence, protocol.StatusOK))
	require.NoError(t, err)
	assert.Equal(t, StateBoundTX, s.State())
	_, err = s.Encode(submit)
	assert.NoError(t, err)
}

func TestBindErrorResponseKeepsState(t *testing.T) {
	testlog.Start(t)
	s := newSession(t)
	require.NoError(t, s.Connect())
	p, err := s.Decode(smscReply(t, protocol.BindTransmitterResp, 1, protocol.StatusInvPaswd))
	require.NoError(t, err)
	assert.True(t, p.IsError())
	assert.Equal(t, StateOpen, s.State())
}

func TestInboundLegality(t *testing.T) {
	testlog.Start(t)
	s := newSession(t)
	bindAs(t, s, protocol.BindTransmitter)

	deliver := pdu.MustNew(protocol.DeliverSM)
	deliver.Sequence = 40
	b, err := pdu.Encode(deliver)
	require.NoError(t, err)
	p, err := s.Decode(b)
	require.ErrorIs(t, err, protocol.ErrInvalidState)
	require.NotNil(t, p)
	var se *protocol.StateError
	require.ErrorAs(t, err, &se)
	assert.False(t, se.Outbound)
}

func TestReceiverAcceptsDeliverAndAnswers(t *testing.T) {
	testlog.Start(t)
	s := newSession(t)
	bindAs(t, s, protocol.BindReceiver)

	deliver := pdu.MustNew(protocol.DeliverSM)
	deliver.Sequence = 900
	require.NoError(t, deliver.SetBytes(schema.FieldShortMessage, []byte("hi")))
	b, err := pdu.Encode(deliver)
	require.NoError(t, err)

	in, err := s.Decode(b)
	require.NoError(t, err)
	resp, err := s.NewResponse(in, protocol.StatusOK)
	require.NoError(t, err)
	assert.Equal(t, uint32(900), resp.Sequence)
	assert.Equal(t, protocol.DeliverSMResp, resp.Command)

	out, err := s.Encode(resp)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80, 0x00, 0x00, 0x05}, out[4:8])
}

func TestSmscInitiatedUnbind(t *testing.T) {
	testlog.Start(t)
	s := newSession(t)
	bindAs(t, s, protocol.BindTransceiver)

	in, err := s.Decode(smscReply(t, protocol.Unbind, 12, protocol.StatusOK))
	require.NoError(t, err)
	resp, err := s.NewResponse(in, protocol.StatusOK)
	require.NoError(t, err)
	_, err = s.Encode(resp)
	require.NoError(t, err)
	assert.Equal(t, StateOpen, s.State())
}

func TestEncodeAssignsSequenceToRequestsOnly(t *testing.T) {
	testlog.Start(t)
	s := newSession(t)
	require.NoError(t, s.Connect())

	p := pdu.MustNew(protocol.EnquireLink)
	_, err := s.Encode(p)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), p.Sequence)

	explicit := pdu.MustNew(protocol.EnquireLink)
	explicit.Sequence = 99
	_, err = s.Encode(explicit)
	require.NoError(t, err)
	assert.Equal(t, uint32(99), explicit.Sequence)

	resp := pdu.MustNew(protocol.EnquireLinkResp)
	_, err = s.Encode(resp)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), resp.Sequence)
}

func TestClosedSessionRejectsEverything(t *testing.T) {
	testlog.Start(t)
	s := newSession(t)
	for _, id := range protocol.Commands() {
		err := s.CheckOutbound(pdu.MustNew(id))
		assert.ErrorIs(t, err, protocol.ErrInvalidState, id.String())
	}
}

func TestLegalityTableCoversCatalog(t *testing.T) {
	testlog.Start(t)
	for _, id := range protocol.Commands() {
		assert.NotEmpty(t, legal[id], "no legality entry for %s", id)
	}
	assert.True(t, Allowed(protocol.QuerySM, StateBoundTRX))
	assert.True(t, Allowed(protocol.EnquireLink, StateOpen))
	assert.False(t, Allowed(protocol.SubmitSM, StateBoundRX))
	assert.False(t, Allowed(protocol.DeliverSM, StateBoundTX))
}

func TestNewRequestAndResponseGuards(t *testing.T) {
	testlog.Start(t)
	s := newSession(t)
	_, err := s.NewRequest(protocol.SubmitSMResp)
	assert.ErrorIs(t, err, protocol.ErrInvalidField)
	_, err = s.NewResponse(pdu.MustNew(protocol.SubmitSMResp), protocol.StatusOK)
	assert.ErrorIs(t, err, protocol.ErrInvalidField)
}

func TestConcurrentStateReads(t *testing.T) {
	testlog.Start(t)
	s := newSession(t)
	bindAs(t, s, protocol.BindTransceiver)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p, err := s.NewRequest(protocol.EnquireLink)
				if err != nil {
					t.Error(err)
					return
				}
				if _, err := s.Encode(p); err != nil {
					t.Error(err)
					return
				}
				_ = s.State()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint32(2+800), s.Sequence().Current())
}
