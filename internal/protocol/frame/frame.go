// Package frame reads and writes the 16-byte SMPP header and the
// length-prefixed PDUs it frames.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/danmuck/smppctl/internal/protocol"
)

const HeaderLen = protocol.HeaderLen

var (
	ErrShortHeader    = fmt.Errorf("%w: frame short header", protocol.ErrMalformedPDU)
	ErrLengthTooSmall = fmt.Errorf("%w: frame command_length smaller than header", protocol.ErrMalformedPDU)
	ErrLengthMismatch = fmt.Errorf("%w: frame command_length does not match data", protocol.ErrMalformedPDU)
	ErrPDUTooLarge    = fmt.Errorf("%w: frame pdu too large", protocol.ErrMalformedPDU)
	ErrShortRead      = errors.New("frame: receiver returned fewer bytes than requested")
)

// Header is the fixed wire header.
type Header struct {
	Length   uint32
	Command  protocol.CommandID
	Status   protocol.Status
	Sequence uint32
}

// Limits constrains frame decode memory use.
type Limits struct {
	MaxPDUBytes uint32
}

func DefaultLimits() Limits {
	return Limits{
		MaxPDUBytes: 64 * 1024,
	}
}

// Receiver delivers exactly n bytes or fails.
type Receiver interface {
	RecvExact(n int) ([]byte, error)
}

// ReaderReceiver adapts an io.Reader to Receiver.
type ReaderReceiver struct {
	R io.Reader
}

func (rr ReaderReceiver) RecvExact(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rr.R, buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %v", protocol.ErrConnectionFailure, err)
		}
		return nil, err
	}
	return buf, nil
}

// ReadFrame reads one complete PDU, header included.
func ReadFrame(r Receiver, limits Limits) ([]byte, error) {
	hb, err := r.RecvExact(HeaderLen)
	if err != nil {
		return nil, err
	}
	if len(hb) != HeaderLen {
		return nil, ErrShortRead
	}
	h, err := DecodeHeader(hb)
	if err != nil {
		return nil, err
	}
	if h.Length < HeaderLen {
		return nil, fmt.Errorf("%w: command_length=%d", ErrLengthTooSmall, h.Length)
	}
	if limits.MaxPDUBytes > 0 && h.Length > limits.MaxPDUBytes {
		return nil, fmt.Errorf("%w: command_length=%d max=%d", ErrPDUTooLarge, h.Length, limits.MaxPDUBytes)
	}

	out := make([]byte, h.Length)
	copy(out, hb)
	bodyLen := int(h.Length) - HeaderLen
	if bodyLen > 0 {
		body, err := r.RecvExact(bodyLen)
		if err != nil {
			return nil, err
		}
		if len(body) != bodyLen {
			return nil, ErrShortRead
		}
		copy(out[HeaderLen:], body)
	}
	return out, nil
}

// WriteFrame writes b after checking its length prefix.
func WriteFrame(w io.Writer, b []byte) error {
	h, err := DecodeHeader(b)
	if err != nil {
		return err
	}
	if int(h.Length) != len(b) {
		return fmt.Errorf("%w: command_length=%d data=%d", ErrLengthMismatch, h.Length, len(b))
	}
	_, err = w.Write(b)
	return err
}

func EncodeHeader(h Header) []byte {
	buf := make([]byte, HeaderLen)
	PutHeader(buf, h)
	return buf
}

// PutHeader writes h into the first 16 bytes of buf.
func PutHeader(buf []byte, h Header) {
	binary.BigEndian.PutUint32(buf[0:4], h.Length)
	binary.BigEndian.PutUint32(buf[4:8], uint32(h.Command))
	binary.BigEndian.PutUint32(buf[8:12], uint32(h.Status))
	binary.BigEndian.PutUint32(buf[12:16], h.Sequence)
}

// DecodeHeader parses the first 16 bytes of b.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderLen {
		return Header{}, fmt.Errorf("%w: got %d bytes", ErrShortHeader, len(b))
	}
	return Header{
		Length:   binary.BigEndian.Uint32(b[0:4]),
		Command:  protocol.CommandID(binary.BigEndian.Uint32(b[4:8])),
		Status:   protocol.Status(binary.BigEndian.Uint32(b[8:12])),
		Sequence: binary.BigEndian.Uint32(b[12:16]),
	}, nil
}
