package client

import (
	"context"
	"fmt"

	"github.com/danmuck/smppctl/internal/observability"
	"github.com/danmuck/smppctl/internal/protocol"
	"github.com/danmuck/smppctl/internal/protocol/pdu"
	"github.com/danmuck/smppctl/internal/protocol/schema"
	"github.com/danmuck/smppctl/internal/segment"
	"github.com/rs/zerolog/log"
)

type Address struct {
	TON  uint8
	NPI  uint8
	Addr string
}

// Message is one outbound text. Long text is split into concatenated parts.
type Message struct {
	Source             Address
	Destination        Address
	Text               string
	Coding             segment.Coding
	ServiceType        string
	ESMClass           uint8
	ProtocolID         uint8
	PriorityFlag       uint8
	RegisteredDelivery uint8
	ValidityPeriod     string
}

// SendMessage submits one submit_sm per part and returns the sent requests.
// Responses arrive through ReadOnce or Listen.
func (c *Client) SendMessage(ctx context.Context, msg Message) ([]*pdu.PDU, error) {
	res, err := c.segmenter.Make(msg.Text, msg.Coding)
	if err != nil {
		return nil, err
	}
	observability.RecordMessageParts(len(res.Parts))

	sent := make([]*pdu.PDU, 0, len(res.Parts))
	for i, part := range res.Parts {
		req, err := c.sess.NewRequest(protocol.SubmitSM)
		if err != nil {
			return sent, err
		}
		if err := fillSubmit(req, msg, res, part); err != nil {
			return sent, err
		}
		if err := c.Send(ctx, req); err != nil {
			return sent, fmt.Errorf("client: submit part %d/%d: %w", i+1, len(res.Parts), err)
		}
		sent = append(sent, req)
	}
	log.Debug().Msgf("client.SendMessage dest=%q parts=%d coding=%s", msg.Destination.Addr, len(sent), res.Coding)
	return sent, nil
}

func fillSubmit(p *pdu.PDU, msg Message, res segment.Result, part []byte) error {
	set := fieldSetter{p: p}
	set.str(schema.FieldServiceType, msg.ServiceType)
	set.int(schema.FieldSourceAddrTON, uint32(msg.Source.TON))
	set.int(schema.FieldSourceAddrNPI, uint32(msg.Source.NPI))
	set.str(schema.FieldSourceAddr, msg.Source.Addr)
	set.int(schema.FieldDestAddrTON, uint32(msg.Destination.TON))
	set.int(schema.FieldDestAddrNPI, uint32(msg.Destination.NPI))
	set.str(schema.FieldDestinationAddr, msg.Destination.Addr)
	set.int(schema.FieldESMClass, uint32(msg.ESMClass|res.ESMClass))
	set.int(schema.FieldProtocolID, uint32(msg.ProtocolID))
	set.int(schema.FieldPriorityFlag, uint32(msg.PriorityFlag))
	set.str(schema.FieldValidityPeriod, msg.ValidityPeriod)
	set.int(schema.FieldRegisteredDelivery, uint32(msg.RegisteredDelivery))
	set.int(schema.FieldDataCoding, uint32(res.Coding))
	set.bytes(schema.FieldShortMessage, part)
	return set.err
}

type QueryParams struct {
	MessageID string
	Source    Address
}

// QueryMessage sends query_sm and waits for query_sm_resp.
func (c *Client) QueryMessage(ctx context.Context, params QueryParams) (*pdu.PDU, error) {
	req, err := c.sess.NewRequest(protocol.QuerySM)
	if err != nil {
		return nil, err
	}
	set := fieldSetter{p: req}
	set.str(schema.FieldMessageID, params.MessageID)
	set.int(schema.FieldSourceAddrTON, uint32(params.Source.TON))
	set.int(schema.FieldSourceAddrNPI, uint32(params.Source.NPI))
	set.str(schema.FieldSourceAddr, params.Source.Addr)
	if set.err != nil {
		return nil, set.err
	}
	return c.request(ctx, req)
}
