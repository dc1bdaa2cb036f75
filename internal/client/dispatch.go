package client

import (
	"context"
	"errors"
	"time"

	"github.com/danmuck/smppctl/internal/protocol"
	"github.com/danmuck/smppctl/internal/protocol/pdu"
	"github.com/danmuck/smppctl/internal/protocol/schema"
	"github.com/danmuck/smppctl/internal/segment"
	"github.com/rs/zerolog/log"
)

// Handlers receive inbound PDUs. Nil handlers fall back to logging, except
// OnError whose default turns the PDU into a protocol.StatusError.
type Handlers struct {
	// OnMessage handles deliver_sm and data_sm. Its status goes back in the
	// automatic response.
	OnMessage func(p *pdu.PDU) protocol.Status
	// OnText receives complete message text, after reassembly of
	// concatenated parts.
	OnText func(source, text string)
	// OnSent handles submit_sm_resp.
	OnSent func(p *pdu.PDU)
	// OnQuery handles query_sm_resp.
	OnQuery func(p *pdu.PDU)
	// OnReceived handles alert_notification and other unsolicited PDUs.
	OnReceived func(p *pdu.PDU)
	// OnError handles any PDU with a non-zero status. A returned error stops
	// ReadOnce.
	OnError func(p *pdu.PDU) error
}

// reassemblyWindow bounds how long an incomplete concatenated message is kept.
const reassemblyWindow = 10 * time.Minute

// ReadOnce reads one PDU and acts on it. When auto enquire_link is on, an
// idle read sends enquire_link instead of failing.
func (c *Client) ReadOnce(ctx context.Context) error {
	readCtx := ctx
	if c.cfg.AutoEnquireLink && c.cfg.Session.EnquireLinkInterval > 0 {
		var cancel context.CancelFunc
		readCtx, cancel = context.WithTimeout(ctx, c.cfg.Session.EnquireLinkInterval)
		defer cancel()
	}

	p, err := c.ReadPDU(readCtx)
	if err != nil {
		if c.cfg.AutoEnquireLink && errors.Is(err, protocol.ErrTimeout) && ctx.Err() == nil {
			log.Debug().Msgf("client.ReadOnce idle, sending enquire_link state=%s", c.sess.State())
			return c.enquireLink(ctx)
		}
		return err
	}
	c.expire()
	return c.dispatch(ctx, p)
}

// Listen runs ReadOnce until ctx ends, a non-recoverable error occurs or the
// session is no longer bound. PDUs that fail to decode are logged and skipped.
func (c *Client) Listen(ctx context.Context) error {
	for {
		if err := c.ReadOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if !Recoverable(err) {
				return err
			}
			log.Warn().Msgf("client.Listen skipping undecodable pdu err=%v", err)
		}
		if !c.sess.State().Bound() {
			log.Info().Msgf("client.Listen stopped state=%s", c.sess.State())
			return nil
		}
	}
}

// pollWait is how long Poll checks the link for a pending byte.
const pollWait = time.Millisecond

// Poll handles every PDU already waiting on the link and returns once none
// is left. It never blocks for new traffic, which suits callers that run
// their own event loop.
func (c *Client) Poll(ctx context.Context) error {
	for {
		conn, err := c.link()
		if err != nil {
			return err
		}
		ready, err := conn.Ready(ctx, pollWait)
		if err != nil {
			return err
		}
		if !ready {
			return nil
		}
		if err := c.ReadOnce(ctx); err != nil && !Recoverable(err) {
			return err
		}
	}
}

func (c *Client) enquireLink(ctx context.Context) error {
	req, err := c.sess.NewRequest(protocol.EnquireLink)
	if err != nil {
		return err
	}
	return c.Send(ctx, req)
}

func (c *Client) expire() {
	for _, item := range c.pending.Expire(c.now()) {
		log.Warn().Msgf("client.expire command=%s seq=%d sent=%s", item.Command, item.Sequence, item.SentAt.Format(time.RFC3339))
	}
	c.reassembler.Prune(reassemblyWindow)
}

func (c *Client) dispatch(ctx context.Context, p *pdu.PDU) error {
	if p.IsError() {
		return c.onError(p)
	}
	switch p.Command {
	case protocol.DeliverSM, protocol.DataSM:
		return c.messageReceived(ctx, p)
	case protocol.EnquireLink, protocol.Unbind:
		if p.Command == protocol.Unbind {
			log.Info().Msgf("client.dispatch unbind received seq=%d", p.Sequence)
		}
		return c.respond(ctx, p, protocol.StatusOK)
	case protocol.SubmitSMResp:
		if c.handlers.OnSent != nil {
			c.handlers.OnSent(p)
			return nil
		}
		log.Info().Msgf("client.dispatch submitted seq=%d message_id=%q", p.Sequence, p.String(schema.FieldMessageID))
	case protocol.QuerySMResp:
		if c.handlers.OnQuery != nil {
			c.handlers.OnQuery(p)
			return nil
		}
		log.Info().Msgf("client.dispatch query message_id=%q state=%d", p.String(schema.FieldMessageID), p.Int(schema.FieldMessageState))
	case protocol.EnquireLinkResp, protocol.UnbindResp:
	default:
		if c.handlers.OnReceived != nil {
			c.handlers.OnReceived(p)
			return nil
		}
		log.Warn().Msgf("client.dispatch unhandled command=%s seq=%d", p.Command, p.Sequence)
	}
	return nil
}

func (c *Client) onError(p *pdu.PDU) error {
	if c.handlers.OnError != nil {
		return c.handlers.OnError(p)
	}
	return protocol.StatusError{Command: p.Command, Status: p.Status}
}

func (c *Client) messageReceived(ctx context.Context, p *pdu.PDU) error {
	status := protocol.StatusOK
	if c.handlers.OnMessage != nil {
		status = c.handlers.OnMessage(p)
	}
	c.deliverText(p)
	return c.respond(ctx, p, status)
}

func (c *Client) respond(ctx context.Context, req *pdu.PDU, status protocol.Status) error {
	resp, err := c.sess.NewResponse(req, status)
	if err != nil {
		return err
	}
	return c.Send(ctx, resp)
}

// deliverText hands complete text to OnText, buffering concatenated parts.
func (c *Client) deliverText(p *pdu.PDU) {
	if c.handlers.OnText == nil {
		return
	}
	body := p.Bytes(schema.FieldShortMessage)
	if len(body) == 0 {
		body = p.Bytes(schema.FieldMessagePayload)
	}
	coding := segment.Coding(p.Int(schema.FieldDataCoding))
	source := p.String(schema.FieldSourceAddr)

	if p.Int(schema.FieldESMClass)&uint32(protocol.GSMFeatUDHI) == 0 {
		text, err := segment.Decode(body, coding)
		if err != nil {
			log.Warn().Msgf("client.deliverText source=%q coding=%s err=%v", source, coding, err)
			return
		}
		c.handlers.OnText(source, text)
		return
	}
	text, done, err := c.reassembler.Add(source, body, coding)
	if err != nil {
		log.Warn().Msgf("client.deliverText source=%q err=%v", source, err)
		return
	}
	if done {
		c.handlers.OnText(source, text)
	}
}
