package client

import (
	"errors"
	"fmt"

	"github.com/danmuck/smppctl/internal/protocol/session"
	"github.com/danmuck/smppctl/internal/transport"
)

var ErrInvalidConfig = errors.New("client: invalid config")

// Config combines the link and protocol settings of one ESME client.
type Config struct {
	Transport transport.Config
	Session   session.Config
	// AutoEnquireLink sends enquire_link when a read idles for
	// Session.EnquireLinkInterval instead of surfacing the timeout.
	AutoEnquireLink bool
}

func DefaultConfig() Config {
	return Config{
		Transport:       transport.DefaultConfig(),
		Session:         session.DefaultConfig(),
		AutoEnquireLink: true,
	}
}

func (c Config) Validate() error {
	if err := c.Transport.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Session.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Session.Limits.MaxPDUBytes == 0 {
		return fmt.Errorf("%w: max pdu bytes must be positive", ErrInvalidConfig)
	}
	return nil
}
