package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/danmuck/smppctl/internal/protocol/frame"
	"github.com/danmuck/smppctl/internal/protocol/pdu"
)

var ErrInvalidConfig = errors.New("session: invalid config")

// Config defines per-session protocol behavior.
type Config struct {
	// TLVMode has no default. Callers pick strict or permissive decoding.
	TLVMode             pdu.TLVMode
	Limits              frame.Limits
	ResponseTimeout     time.Duration
	EnquireLinkInterval time.Duration
}

// DefaultConfig returns defaults for everything except TLVMode.
func DefaultConfig() Config {
	return Config{
		Limits:              frame.DefaultLimits(),
		ResponseTimeout:     10 * time.Second,
		EnquireLinkInterval: 30 * time.Second,
	}
}

func (c Config) Validate() error {
	if !c.TLVMode.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, pdu.ErrInvalidMode)
	}
	if c.ResponseTimeout < 0 {
		return fmt.Errorf("%w: negative response timeout %s", ErrInvalidConfig, c.ResponseTimeout)
	}
	if c.EnquireLinkInterval < 0 {
		return fmt.Errorf("%w: negative enquire_link interval %s", ErrInvalidConfig, c.EnquireLinkInterval)
	}
	return nil
}
