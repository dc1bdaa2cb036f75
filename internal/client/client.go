// Package client is an SMPP 3.4 ESME built on the protocol engine. It owns
// the connection, drives the session state machine and dispatches inbound
// PDUs to handlers.
//
// A Client is driven by one reader goroutine (ReadOnce, Listen or the
// request helpers that await a response). Send may be called from others.
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/danmuck/smppctl/internal/observability"
	"github.com/danmuck/smppctl/internal/protocol"
	"github.com/danmuck/smppctl/internal/protocol/frame"
	"github.com/danmuck/smppctl/internal/protocol/pdu"
	"github.com/danmuck/smppctl/internal/protocol/session"
	"github.com/danmuck/smppctl/internal/segment"
	"github.com/danmuck/smppctl/internal/transport"
	"github.com/rs/zerolog/log"
)

var ErrNotConnected = errors.New("client: not connected")

// DecodeError is a frame read in full that did not decode. The stream stays
// aligned, so reading can go on.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return e.Err.Error() }

func (e *DecodeError) Unwrap() error { return e.Err }

// Recoverable reports whether err left the link usable for further reads.
func Recoverable(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// Dialer opens the link to the SMSC.
type Dialer func(ctx context.Context, cfg transport.Config) (*transport.Conn, error)

type Client struct {
	cfg         Config
	sess        *session.Session
	dial        Dialer
	pending     *session.PendingTable
	segmenter   *segment.Segmenter
	reassembler *segment.Reassembler
	handlers    Handlers
	now         func() time.Time
	seq         session.SequenceGenerator

	mu   sync.RWMutex
	conn *transport.Conn
}

type Option func(*Client)

// WithDialer replaces transport.Dial, typically with an in-memory pipe.
func WithDialer(d Dialer) Option {
	return func(c *Client) {
		if d != nil {
			c.dial = d
		}
	}
}

func WithHandlers(h Handlers) Option {
	return func(c *Client) { c.handlers = h }
}

func WithSegmenter(s *segment.Segmenter) Option {
	return func(c *Client) {
		if s != nil {
			c.segmenter = s
		}
	}
}

func WithSequenceGenerator(g session.SequenceGenerator) Option {
	return func(c *Client) { c.seq = g }
}

func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		cfg:         cfg,
		dial:        transport.Dial,
		pending:     session.NewPendingTable(),
		segmenter:   segment.New(),
		reassembler: segment.NewReassembler(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	sessOpts := []session.Option{
		session.WithStateObserver(func(_, to session.State) {
			observability.SetState(string(to), stateNames())
		}),
	}
	if c.seq != nil {
		sessOpts = append(sessOpts, session.WithSequenceGenerator(c.seq))
	}
	sess, err := session.New(cfg.Session, sessOpts...)
	if err != nil {
		return nil, err
	}
	c.sess = sess
	observability.SetState(string(session.StateClosed), stateNames())
	return c, nil
}

func stateNames() []string {
	states := session.States()
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = string(s)
	}
	return out
}

func (c *Client) State() session.State { return c.sess.State() }

func (c *Client) Session() *session.Session { return c.sess }

// Pending lists requests still awaiting a response.
func (c *Client) Pending() []session.PendingRequest { return c.pending.List() }

// Connect opens the link and moves the session to OPEN.
func (c *Client) Connect(ctx context.Context) error {
	conn, err := c.dial(ctx, c.cfg.Transport)
	if err != nil {
		return err
	}
	if err := c.sess.Connect(); err != nil {
		_ = conn.Close()
		return err
	}
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	log.Info().Msgf("client.Connect addr=%q", c.cfg.Transport.Address)
	return nil
}

// Disconnect closes the link without unbinding.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	c.sess.Disconnect()
	for _, p := range c.pending.List() {
		c.pending.Remove(p.Sequence)
	}
	if conn == nil {
		return nil
	}
	log.Info().Msgf("client.Disconnect addr=%q", c.cfg.Transport.Address)
	return conn.Close()
}

func (c *Client) link() (*transport.Conn, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.conn == nil {
		return nil, ErrNotConnected
	}
	return c.conn, nil
}

// Send checks p against the session state, encodes and writes it. Requests
// are tracked until their response arrives.
func (c *Client) Send(ctx context.Context, p *pdu.PDU) error {
	conn, err := c.link()
	if err != nil {
		return err
	}
	b, err := c.sess.Encode(p)
	if err != nil {
		return err
	}
	if !p.IsResponse() {
		now := c.now()
		c.pending.Track(session.PendingRequest{
			Sequence: p.Sequence,
			Command:  p.Command,
			SentAt:   now,
			Deadline: now.Add(c.cfg.Session.ResponseTimeout),
		})
	}
	if err := conn.Send(ctx, b); err != nil {
		if !p.IsResponse() {
			c.pending.Remove(p.Sequence)
		}
		return err
	}
	observability.RecordSent(p.Name())
	log.Debug().Msgf("client.Send command=%s seq=%d len=%d", p.Command, p.Sequence, len(b))
	return nil
}

// ReadPDU reads and decodes one PDU. Decode failures come back as
// *DecodeError. A PDU that decodes but is illegal in the current state is
// returned together with the error.
func (c *Client) ReadPDU(ctx context.Context) (*pdu.PDU, error) {
	conn, err := c.link()
	if err != nil {
		return nil, err
	}
	raw, err := frame.ReadFrame(conn.Receiver(ctx), c.cfg.Session.Limits)
	if err != nil {
		if errors.Is(err, protocol.ErrMalformedPDU) {
			observability.RecordDecodeError("framing")
		}
		return nil, err
	}
	p, err := c.sess.Decode(raw)
	if err != nil {
		observability.RecordDecodeError(decodeReason(err))
		if p == nil {
			c.nackUndecodable(ctx, raw, err)
		}
		return p, &DecodeError{Err: err}
	}
	observability.RecordReceived(p.Name(), uint32(p.Status))
	if item, ok := c.pending.Resolve(p); ok {
		observability.RecordResponse(item.Command.String(), c.now().Sub(item.SentAt))
	}
	log.Debug().Msgf("client.ReadPDU command=%s seq=%d status=%s", p.Command, p.Sequence, p.Status)
	return p, nil
}

func decodeReason(err error) string {
	switch {
	case errors.Is(err, protocol.ErrUnknownCommand):
		return "unknown_command"
	case errors.Is(err, protocol.ErrUnknownOptionalParameter):
		return "unknown_tlv"
	case errors.Is(err, protocol.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, protocol.ErrMalformedPDU):
		return "malformed"
	default:
		return "other"
	}
}

// nackUndecodable answers a request that could not be decoded with
// generic_nack carrying the request's sequence number.
func (c *Client) nackUndecodable(ctx context.Context, raw []byte, cause error) {
	h, err := frame.DecodeHeader(raw)
	if err != nil || h.Command.IsResponse() {
		return
	}
	status := protocol.StatusInvMsgLen
	if errors.Is(cause, protocol.ErrUnknownCommand) {
		status = protocol.StatusInvCmdID
	}
	nack := pdu.MustNew(protocol.GenericNack)
	nack.Sequence = h.Sequence
	nack.Status = status
	if err := c.Send(ctx, nack); err != nil {
		log.Warn().Msgf("client.nack seq=%d err=%v", h.Sequence, err)
	}
}

// Await reads until the response to req arrives, dispatching anything else
// it reads on the way. A non-zero status is returned as protocol.StatusError
// along with the response.
func (c *Client) Await(ctx context.Context, req *pdu.PDU) (*pdu.PDU, error) {
	if timeout := c.cfg.Session.ResponseTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	for {
		p, err := c.ReadPDU(ctx)
		if err != nil {
			if Recoverable(err) {
				log.Warn().Msgf("client.Await skipping seq=%d err=%v", req.Sequence, err)
				continue
			}
			if errors.Is(err, protocol.ErrTimeout) {
				c.pending.Remove(req.Sequence)
			}
			return nil, err
		}
		if p.Sequence == req.Sequence && p.IsResponse() {
			if p.IsError() {
				return p, protocol.StatusError{Command: p.Command, Status: p.Status}
			}
			return p, nil
		}
		if err := c.dispatch(ctx, p); err != nil {
			c.pending.Remove(req.Sequence)
			return nil, err
		}
	}
}

// request sends a fresh request and awaits its response.
func (c *Client) request(ctx context.Context, p *pdu.PDU) (*pdu.PDU, error) {
	if err := c.Send(ctx, p); err != nil {
		return nil, err
	}
	resp, err := c.Await(ctx, p)
	if err != nil {
		return resp, fmt.Errorf("client: %s: %w", p.Command, err)
	}
	return resp, nil
}
