package client

import (
	"context"

	"github.com/danmuck/smppctl/internal/protocol"
	"github.com/danmuck/smppctl/internal/protocol/pdu"
	"github.com/danmuck/smppctl/internal/protocol/schema"
	"github.com/rs/zerolog/log"
)

// BindParams fills the bind request body. Zero InterfaceVersion keeps the
// catalog default of 3.4.
type BindParams struct {
	SystemID         string
	Password         string
	SystemType       string
	InterfaceVersion uint8
	AddrTON          uint8
	AddrNPI          uint8
	AddressRange     string
}

func (c *Client) BindTransmitter(ctx context.Context, params BindParams) (*pdu.PDU, error) {
	return c.bind(ctx, protocol.BindTransmitter, params)
}

func (c *Client) BindReceiver(ctx context.Context, params BindParams) (*pdu.PDU, error) {
	return c.bind(ctx, protocol.BindReceiver, params)
}

func (c *Client) BindTransceiver(ctx context.Context, params BindParams) (*pdu.PDU, error) {
	return c.bind(ctx, protocol.BindTransceiver, params)
}

func (c *Client) bind(ctx context.Context, cmd protocol.CommandID, params BindParams) (*pdu.PDU, error) {
	req, err := c.sess.NewRequest(cmd)
	if err != nil {
		return nil, err
	}
	if err := fillBind(req, params); err != nil {
		return nil, err
	}
	resp, err := c.request(ctx, req)
	if err != nil {
		log.Warn().Msgf("client.bind command=%s system_id=%q err=%v", cmd, params.SystemID, err)
		return resp, err
	}
	log.Info().Msgf("client.bind command=%s system_id=%q smsc=%q state=%s",
		cmd, params.SystemID, resp.String(schema.FieldSystemID), c.sess.State())
	return resp, nil
}

func fillBind(p *pdu.PDU, params BindParams) error {
	set := fieldSetter{p: p}
	set.str(schema.FieldSystemID, params.SystemID)
	set.str(schema.FieldPassword, params.Password)
	set.str(schema.FieldSystemType, params.SystemType)
	if params.InterfaceVersion != 0 {
		set.int(schema.FieldInterfaceVersion, uint32(params.InterfaceVersion))
	}
	set.int(schema.FieldAddrTON, uint32(params.AddrTON))
	set.int(schema.FieldAddrNPI, uint32(params.AddrNPI))
	set.str(schema.FieldAddressRange, params.AddressRange)
	return set.err
}

// Unbind asks the SMSC to end the bind and waits for unbind_resp.
func (c *Client) Unbind(ctx context.Context) (*pdu.PDU, error) {
	req, err := c.sess.NewRequest(protocol.Unbind)
	if err != nil {
		return nil, err
	}
	return c.request(ctx, req)
}

// fieldSetter keeps the first setter error.
type fieldSetter struct {
	p   *pdu.PDU
	err error
}

func (s *fieldSetter) int(name string, v uint32) {
	if s.err == nil {
		s.err = s.p.SetInt(name, v)
	}
}

func (s *fieldSetter) str(name, v string) {
	if s.err == nil && v != "" {
		s.err = s.p.SetString(name, v)
	}
}

func (s *fieldSetter) bytes(name string, v []byte) {
	if s.err == nil {
		s.err = s.p.SetBytes(name, v)
	}
}
