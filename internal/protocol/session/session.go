package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/danmuck/smppctl/internal/protocol"
	"github.com/danmuck/smppctl/internal/protocol/pdu"
	"github.com/looplab/fsm"
	"github.com/rs/zerolog/log"
)

// Session is the engine state for one connection. Methods are safe for
// concurrent use.
type Session struct {
	mu       sync.Mutex
	machine  *fsm.FSM
	seq      SequenceGenerator
	mode     pdu.TLVMode
	onChange func(from, to State)
}

type Option func(*Session)

// WithSequenceGenerator replaces the default counter.
func WithSequenceGenerator(g SequenceGenerator) Option {
	return func(s *Session) {
		if g != nil {
			s.seq = g
		}
	}
}

// WithStateObserver registers fn for every state change. fn runs with the
// session locked and must not call back into the session.
func WithStateObserver(fn func(from, to State)) Option {
	return func(s *Session) { s.onChange = fn }
}

// New returns a CLOSED session.
func New(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		seq:  NewSequenceGenerator(),
		mode: cfg.TLVMode,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.machine = newMachine(fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) { s.entered(e) },
	})
	return s, nil
}

func (s *Session) entered(e *fsm.Event) {
	log.Debug().Msgf("session.transition event=%s from=%s to=%s", e.Event, e.Src, e.Dst)
	if s.onChange != nil {
		s.onChange(State(e.Src), State(e.Dst))
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State(s.machine.Current())
}

func (s *Session) TLVMode() pdu.TLVMode { return s.mode }

func (s *Session) Sequence() SequenceGenerator { return s.seq }

// Connect moves CLOSED to OPEN once the transport is up.
func (s *Session) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fire(eventConnect)
}

// Disconnect moves any state to CLOSED.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if State(s.machine.Current()) == StateClosed {
		return
	}
	_ = s.fire(eventDisconnect)
}

// fire runs an event. Caller holds mu.
func (s *Session) fire(event string) error {
	err := s.machine.Event(context.Background(), event)
	if err == nil {
		return nil
	}
	var noop fsm.NoTransitionError
	if errors.As(err, &noop) {
		return nil
	}
	return fmt.Errorf("%w: event %s in state %s: %v", protocol.ErrInvalidState, event, s.machine.Current(), err)
}

func (s *Session) check(p *pdu.PDU, outbound bool) error {
	state := State(s.machine.Current())
	if Allowed(p.Command, state) {
		return nil
	}
	return &protocol.StateError{Command: p.Command, State: string(state), Outbound: outbound}
}

// CheckOutbound fails with *protocol.StateError when p may not be sent now.
func (s *Session) CheckOutbound(p *pdu.PDU) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.check(p, true)
}

// CheckInbound fails with *protocol.StateError when p may not be received now.
func (s *Session) CheckInbound(p *pdu.PDU) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.check(p, false)
}

// NewRequest builds a request PDU stamped with the next sequence number.
func (s *Session) NewRequest(cmd protocol.CommandID) (*pdu.PDU, error) {
	if cmd.IsResponse() {
		return nil, fmt.Errorf("%w: %s is a response", protocol.ErrInvalidField, cmd)
	}
	p, err := pdu.New(cmd)
	if err != nil {
		return nil, err
	}
	p.Sequence = s.seq.Next()
	return p, nil
}

// NewResponse builds the response to req, echoing its sequence number.
func (s *Session) NewResponse(req *pdu.PDU, status protocol.Status) (*pdu.PDU, error) {
	if req.IsResponse() {
		return nil, fmt.Errorf("%w: %s is already a response", protocol.ErrInvalidField, req.Command)
	}
	p, err := pdu.New(req.Command.Response())
	if err != nil {
		return nil, err
	}
	p.Sequence = req.Sequence
	p.Status = status
	return p, nil
}

// Encode checks legality, assigns a sequence to unsequenced requests and
// serializes p. Sending a successful unbind_resp returns the session to OPEN.
func (s *Session) Encode(p *pdu.PDU) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(p, true); err != nil {
		log.Debug().Msgf("session.Encode rejected command=%s state=%s", p.Command, s.machine.Current())
		return nil, err
	}
	if p.Sequence == 0 && !p.IsResponse() {
		p.Sequence = s.seq.Next()
	}
	b, err := pdu.Encode(p)
	if err != nil {
		return nil, err
	}
	if p.Command == protocol.UnbindResp && p.Status.OK() {
		if err := s.fire(eventUnbind); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Decode parses b with the session TLV mode, checks inbound legality and
// applies any state transition the PDU triggers.
func (s *Session) Decode(b []byte) (*pdu.PDU, error) {
	p, err := pdu.Decode(b, s.mode)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(p, false); err != nil {
		return p, err
	}
	if event, ok := transitions[p.Command]; ok && p.Status.OK() {
		if err := s.fire(event); err != nil {
			return p, err
		}
	}
	return p, nil
}
