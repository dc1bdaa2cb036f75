package session

import (
	"github.com/danmuck/smppctl/internal/protocol"
	"github.com/looplab/fsm"
)

// State is the bind state of a session.
type State string

const (
	StateClosed   State = "CLOSED"
	StateOpen     State = "OPEN"
	StateBoundTX  State = "BOUND_TRANSMITTER"
	StateBoundRX  State = "BOUND_RECEIVER"
	StateBoundTRX State = "BOUND_TRANSCEIVER"
)

func (s State) String() string { return string(s) }

// Bound reports any of the three bound states.
func (s State) Bound() bool {
	return s == StateBoundTX || s == StateBoundRX || s == StateBoundTRX
}

// States lists every state in lifecycle order.
func States() []State {
	return []State{StateClosed, StateOpen, StateBoundTX, StateBoundRX, StateBoundTRX}
}

const (
	eventConnect    = "connect"
	eventDisconnect = "disconnect"
	eventBindTX     = "bind_tx"
	eventBindRX     = "bind_rx"
	eventBindTRX    = "bind_trx"
	eventUnbind     = "unbind"
)

var (
	bound   = []State{StateBoundTX, StateBoundRX, StateBoundTRX}
	sending = []State{StateBoundTX, StateBoundTRX}
	getting = []State{StateBoundRX, StateBoundTRX}
	open    = []State{StateOpen}
	alive   = []State{StateOpen, StateBoundTX, StateBoundRX, StateBoundTRX}
)

// legal maps each command to the states in which it may be sent or received.
var legal = map[protocol.CommandID][]State{
	protocol.BindTransmitter:     open,
	protocol.BindTransmitterResp: open,
	protocol.BindReceiver:        open,
	protocol.BindReceiverResp:    open,
	protocol.BindTransceiver:     open,
	protocol.BindTransceiverResp: open,
	protocol.Outbind:             open,
	protocol.Unbind:              bound,
	protocol.UnbindResp:          bound,
	protocol.SubmitSM:            sending,
	protocol.SubmitSMResp:        sending,
	protocol.DataSM:              bound,
	protocol.DataSMResp:          bound,
	protocol.DeliverSM:           getting,
	protocol.DeliverSMResp:       getting,
	protocol.QuerySM:             sending,
	protocol.QuerySMResp:         sending,
	protocol.CancelSM:            sending,
	protocol.CancelSMResp:        sending,
	protocol.ReplaceSM:           sending,
	protocol.ReplaceSMResp:       sending,
	protocol.EnquireLink:         alive,
	protocol.EnquireLinkResp:     alive,
	protocol.AlertNotification:   getting,
	protocol.GenericNack:         alive,
}

// transitions fire after a successful (status 0) PDU.
var transitions = map[protocol.CommandID]string{
	protocol.BindTransmitterResp: eventBindTX,
	protocol.BindReceiverResp:    eventBindRX,
	protocol.BindTransceiverResp: eventBindTRX,
	protocol.UnbindResp:          eventUnbind,
}

// Allowed reports whether cmd is legal in state.
func Allowed(cmd protocol.CommandID, state State) bool {
	for _, s := range legal[cmd] {
		if s == state {
			return true
		}
	}
	return false
}

func names(states []State) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = string(s)
	}
	return out
}

func newMachine(callbacks fsm.Callbacks) *fsm.FSM {
	return fsm.NewFSM(
		string(StateClosed),
		fsm.Events{
			{Name: eventConnect, Src: names([]State{StateClosed}), Dst: string(StateOpen)},
			{Name: eventDisconnect, Src: names(alive), Dst: string(StateClosed)},
			{Name: eventBindTX, Src: names(open), Dst: string(StateBoundTX)},
			{Name: eventBindRX, Src: names(open), Dst: string(StateBoundRX)},
			{Name: eventBindTRX, Src: names(open), Dst: string(StateBoundTRX)},
			{Name: eventUnbind, Src: names(bound), Dst: string(StateOpen)},
		},
		callbacks,
	)
}
