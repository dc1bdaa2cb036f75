package config

import (
	"github.com/danmuck/smppctl/internal/client"
	"github.com/danmuck/smppctl/internal/protocol"
	"github.com/danmuck/smppctl/internal/protocol/pdu"
	"github.com/danmuck/smppctl/internal/transport"
)

// ClientConfig converts a validated File into client settings.
func (f File) ClientConfig() (client.Config, error) {
	if err := Validate(f); err != nil {
		return client.Config{}, err
	}
	cfg := client.DefaultConfig()
	mode, _ := pdu.ParseTLVMode(f.TLVMode)
	cfg.Session.TLVMode = mode
	cfg.AutoEnquireLink = f.AutoEnquireLink

	cfg.Transport.Address = f.Address
	cfg.Transport.TLS = transport.TLSConfig{
		Enabled:            f.TLS.Enabled,
		Mutual:             f.TLS.Mutual,
		CAFile:             f.TLS.CAFile,
		CertFile:           f.TLS.CertFile,
		KeyFile:            f.TLS.KeyFile,
		ServerName:         f.TLS.ServerName,
		InsecureSkipVerify: f.TLS.InsecureSkipVerify,
	}

	// Validate already parsed these; zero values keep the defaults.
	if d, _ := parseDuration(f.ConnectTimeout); d > 0 {
		cfg.Transport.ConnectTimeout = d
	}
	if d, _ := parseDuration(f.ReadTimeout); d > 0 {
		cfg.Transport.ReadTimeout = d
	}
	if d, _ := parseDuration(f.WriteTimeout); d > 0 {
		cfg.Transport.WriteTimeout = d
	}
	if d, _ := parseDuration(f.ResponseTimeout); d > 0 {
		cfg.Session.ResponseTimeout = d
	}
	if d, _ := parseDuration(f.EnquireLinkInterval); d > 0 {
		cfg.Session.EnquireLinkInterval = d
	}

	if err := cfg.Validate(); err != nil {
		return client.Config{}, err
	}
	return cfg, nil
}

func (f File) BindParams() client.BindParams {
	return client.BindParams{
		SystemID:     f.SystemID,
		Password:     f.Password,
		SystemType:   f.SystemType,
		AddrTON:      f.AddrTON,
		AddrNPI:      f.AddrNPI,
		AddressRange: f.AddressRange,
	}
}

// BindCommand maps the bind mode to its request command_id.
func (f File) BindCommand() protocol.CommandID {
	switch f.Bind {
	case "transmitter":
		return protocol.BindTransmitter
	case "receiver":
		return protocol.BindReceiver
	default:
		return protocol.BindTransceiver
	}
}

func (f File) SourceAddress() client.Address {
	return client.Address{TON: f.Source.TON, NPI: f.Source.NPI, Addr: f.Source.Addr}
}
