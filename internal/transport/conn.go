package transport

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/danmuck/smppctl/internal/protocol"
	"github.com/danmuck/smppctl/internal/protocol/frame"
	"github.com/rs/zerolog/log"
)

// Conn is a deadline-bound byte pipe to an SMSC. Reads and writes may run
// concurrently with each other but not with themselves.
type Conn struct {
	raw    net.Conn
	reader *bufio.Reader
	cfg    Config

	wmu sync.Mutex
	rmu sync.Mutex

	closeOnce sync.Once
	closeErr  error
}

// NewConn wraps an established connection. cfg timeouts are defaulted.
func NewConn(raw net.Conn, cfg Config) *Conn {
	return &Conn{
		raw:    raw,
		reader: bufio.NewReader(raw),
		cfg:    cfg.WithDefaults(),
	}
}

// Dial opens one connection to cfg.Address. Reconnecting is the caller's
// policy.
func Dial(ctx context.Context, cfg Config) (*Conn, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	raw, err := dialOnce(ctx, cfg)
	if err != nil {
		log.Warn().Msgf("transport.Dial addr=%q err=%v", cfg.Address, err)
		return nil, fmt.Errorf("%w: %v", protocol.ErrConnectionFailure, err)
	}
	log.Debug().Msgf("transport.Dial addr=%q tls=%v", cfg.Address, cfg.TLS.Enabled)
	return NewConn(raw, cfg), nil
}

func dialOnce(ctx context.Context, cfg Config) (net.Conn, error) {
	dialer := net.Dialer{Timeout: cfg.ConnectTimeout}
	raw, err := dialer.DialContext(ctx, "tcp", cfg.Address)
	if err != nil {
		return nil, err
	}
	if !cfg.TLS.Enabled {
		return raw, nil
	}

	tlsCfg, err := ClientTLSConfig(cfg)
	if err != nil {
		_ = raw.Close()
		return nil, err
	}
	conn := tls.Client(raw, tlsCfg)
	handshakeCtx, cancel := context.WithTimeout(ctx, cfg.HandshakeTimeout)
	defer cancel()
	if err := conn.HandshakeContext(handshakeCtx); err != nil {
		_ = raw.Close()
		return nil, err
	}
	return conn, nil
}

// Receiver returns a frame.Receiver for reading one frame. ctx and the read
// timeout bound the wait for the frame's first byte; an idle timeout leaves
// the stream untouched. Once a frame has started, only the read timeout
// bounds the rest, and running out of it mid-frame is a connection failure.
func (c *Conn) Receiver(ctx context.Context) frame.Receiver {
	return &ctxReceiver{conn: c, ctx: ctx}
}

type ctxReceiver struct {
	conn    *Conn
	ctx     context.Context
	started bool
}

func (r *ctxReceiver) RecvExact(n int) ([]byte, error) {
	if !r.started {
		if err := r.conn.wait(r.ctx, deadline(r.ctx, r.conn.cfg.ReadTimeout)); err != nil {
			return nil, err
		}
		r.started = true
	}
	return r.conn.recv(n)
}

// Send writes b in full.
func (c *Conn) Send(ctx context.Context, b []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if err := c.raw.SetWriteDeadline(deadline(ctx, c.cfg.WriteTimeout)); err != nil {
		return mapErr(err)
	}
	if _, err := c.raw.Write(b); err != nil {
		return mapErr(err)
	}
	return nil
}

// RecvExact reads exactly n bytes within the read timeout. It satisfies
// frame.Receiver.
func (c *Conn) RecvExact(n int) ([]byte, error) {
	return c.Receiver(context.Background()).RecvExact(n)
}

// Ready reports whether at least one byte can be read within wait. Nothing
// is consumed.
func (c *Conn) Ready(ctx context.Context, wait time.Duration) (bool, error) {
	err := c.wait(ctx, deadline(ctx, wait))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, protocol.ErrTimeout) && ctx.Err() == nil:
		return false, nil
	default:
		return false, err
	}
}

// wait blocks until a byte is buffered or until. Buffered bytes answer
// without touching the socket.
func (c *Conn) wait(ctx context.Context, until time.Time) error {
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", protocol.ErrTimeout, err)
		}
		return err
	}
	c.rmu.Lock()
	defer c.rmu.Unlock()
	if c.reader.Buffered() > 0 {
		return nil
	}
	if err := c.raw.SetReadDeadline(until); err != nil {
		return mapErr(err)
	}
	if _, err := c.reader.Peek(1); err != nil {
		return mapErr(err)
	}
	return nil
}

func (c *Conn) recv(n int) ([]byte, error) {
	c.rmu.Lock()
	defer c.rmu.Unlock()
	if err := c.raw.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout)); err != nil {
		return nil, mapErr(err)
	}
	buf := make([]byte, n)
	got, err := io.ReadFull(c.reader, buf)
	if err == nil {
		return buf, nil
	}
	err = mapErr(err)
	if errors.Is(err, protocol.ErrTimeout) {
		log.Warn().Msgf("transport.recv stalled mid-frame got=%d want=%d", got, n)
		return nil, fmt.Errorf("%w: read stalled mid-frame after %d of %d bytes", protocol.ErrConnectionFailure, got, n)
	}
	return nil, err
}

func (c *Conn) RemoteAddr() net.Addr { return c.raw.RemoteAddr() }

func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.raw.Close()
	})
	return c.closeErr
}

func deadline(ctx context.Context, timeout time.Duration) time.Time {
	d := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(d) {
		d = ctxDeadline
	}
	return d
}

func mapErr(err error) error {
	var ne net.Error
	switch {
	case errors.Is(err, os.ErrDeadlineExceeded), errors.As(err, &ne) && ne.Timeout():
		return fmt.Errorf("%w: %v", protocol.ErrTimeout, err)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: connection closed by peer", protocol.ErrConnectionFailure)
	default:
		return fmt.Errorf("%w: %v", protocol.ErrConnectionFailure, err)
	}
}
