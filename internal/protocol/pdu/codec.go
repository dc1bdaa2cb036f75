package pdu

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/danmuck/smppctl/internal/protocol"
	"github.com/danmuck/smppctl/internal/protocol/frame"
	"github.com/danmuck/smppctl/internal/protocol/schema"
	"github.com/danmuck/smppctl/internal/protocol/tlv"
	"github.com/rs/zerolog/log"
)

// TLVMode selects how Decode treats TLVs the command schema does not declare.
// The zero value is invalid so callers always state intent.
type TLVMode uint8

const (
	// TLVStrict fails with protocol.ErrUnknownOptionalParameter.
	TLVStrict TLVMode = iota + 1
	// TLVPermissive keeps the TLV in PDU.Extensions.
	TLVPermissive
)

var ErrInvalidMode = errors.New("pdu: tlv mode must be TLVStrict or TLVPermissive")

func (m TLVMode) Valid() bool {
	return m == TLVStrict || m == TLVPermissive
}

func (m TLVMode) String() string {
	switch m {
	case TLVStrict:
		return "strict"
	case TLVPermissive:
		return "permissive"
	default:
		return fmt.Sprintf("tlvmode(%d)", uint8(m))
	}
}

// ParseTLVMode maps a config string to a mode.
func ParseTLVMode(s string) (TLVMode, error) {
	switch s {
	case "strict":
		return TLVStrict, nil
	case "permissive":
		return TLVPermissive, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

func (p *PDU) bind() error {
	if p.schema != nil && p.schema.Command() == p.Command {
		return nil
	}
	s, err := schema.Lookup(p.Command)
	if err != nil {
		return err
	}
	p.schema = s
	if p.values == nil {
		p.values = make(map[string]value)
	}
	return nil
}

// Prepare applies suppression rules and recomputes every length field from
// its octet string. Encode calls it first.
func (p *PDU) Prepare() error {
	if err := p.bind(); err != nil {
		return err
	}
	for _, sup := range p.schema.Suppressions() {
		if !p.Has(sup.When) {
			continue
		}
		for _, name := range sup.Drop {
			delete(p.values, name)
		}
	}
	for _, par := range p.schema.Mandatory() {
		k, ok := par.Kind.(schema.Octets)
		if !ok || k.LengthField == "" {
			continue
		}
		p.values[k.LengthField] = value{num: uint32(len(p.values[par.Name].raw))}
	}
	return nil
}

// Encode serializes p. Error responses carry the header only.
func Encode(p *PDU) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil pdu", protocol.ErrInvalidField)
	}
	if err := p.Prepare(); err != nil {
		return nil, err
	}

	out := make([]byte, frame.HeaderLen, frame.HeaderLen+64)
	if p.Status.OK() {
		var err error
		if out, err = p.appendMandatory(out); err != nil {
			return nil, err
		}
		if out, err = p.appendOptional(out); err != nil {
			return nil, err
		}
		for _, ext := range p.Extensions {
			if out, err = tlv.AppendField(out, ext); err != nil {
				return nil, err
			}
		}
	}
	frame.PutHeader(out, frame.Header{
		Length:   uint32(len(out)),
		Command:  p.Command,
		Status:   p.Status,
		Sequence: p.Sequence,
	})
	return out, nil
}

func (p *PDU) appendMandatory(out []byte) ([]byte, error) {
	for _, par := range p.schema.Mandatory() {
		v := p.values[par.Name]
		switch k := par.Kind.(type) {
		case schema.Int:
			b, err := tlv.PutUint(v.num, k.Width)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", p.Command, par.Name, err)
			}
			out = append(out, b...)
		case schema.CString:
			out = append(out, clip(v.raw, k.Max-1)...)
			out = append(out, 0)
		case schema.Octets:
			if k.Size > 0 {
				out = append(out, fixed(v.raw, k.Size)...)
			} else {
				out = append(out, v.raw...)
			}
		default:
			return nil, fmt.Errorf("%w: %s mandatory %s", protocol.ErrInvalidField, p.Command, par)
		}
	}
	return out, nil
}

func (p *PDU) appendOptional(out []byte) ([]byte, error) {
	for _, par := range p.schema.Optional() {
		v, present := p.values[par.Name]
		if !present {
			continue
		}
		tag, _ := p.schema.Tag(par.Name)
		var val []byte
		switch k := par.Kind.(type) {
		case schema.Int:
			b, err := tlv.PutUint(v.num, k.Width)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", p.Command, par.Name, err)
			}
			val = b
		case schema.CString:
			if len(v.raw) == 0 {
				continue
			}
			val = clip(v.raw, k.Max-1)
		case schema.Octets:
			if len(v.raw) == 0 {
				continue
			}
			val = v.raw
			if k.Size > 0 {
				val = fixed(v.raw, k.Size)
			}
		case schema.Flag:
			val = nil
		default:
			return nil, fmt.Errorf("%w: %s optional %s", protocol.ErrInvalidField, p.Command, par)
		}
		var err error
		if out, err = tlv.AppendField(out, tlv.Field{Tag: tag, Value: val}); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Decode parses one complete PDU. mode must be TLVStrict or TLVPermissive.
func Decode(b []byte, mode TLVMode) (*PDU, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidMode, mode)
	}
	h, err := frame.DecodeHeader(b)
	if err != nil {
		return nil, err
	}
	if h.Length < frame.HeaderLen || int(h.Length) != len(b) {
		return nil, protocol.Malformed("command_length=%d but %d bytes supplied", h.Length, len(b))
	}
	s, err := schema.Lookup(h.Command)
	if err != nil {
		return nil, err
	}
	p := &PDU{
		Command:  h.Command,
		Sequence: h.Sequence,
		Status:   h.Status,
		schema:   s,
		values:   make(map[string]value),
	}
	if !h.Status.OK() {
		return p, nil
	}

	body := b[frame.HeaderLen:]
	off, err := p.readMandatory(body)
	if err != nil {
		return nil, err
	}
	if err := p.readOptional(body[off:], mode); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *PDU) readMandatory(body []byte) (int, error) {
	off := 0
	for _, par := range p.schema.Mandatory() {
		switch k := par.Kind.(type) {
		case schema.Int:
			if len(body)-off < k.Width {
				return 0, protocol.Malformed("%s.%s needs %d bytes at offset %d, body is %d", p.Command, par.Name, k.Width, off, len(body))
			}
			n, _ := tlv.Uint(body[off : off+k.Width])
			p.values[par.Name] = value{num: n}
			off += k.Width
		case schema.CString:
			end := bytes.IndexByte(body[off:], 0)
			if end < 0 {
				return 0, protocol.Malformed("%s.%s missing terminator at offset %d", p.Command, par.Name, off)
			}
			p.values[par.Name] = value{raw: append([]byte(nil), body[off:off+end]...)}
			off += end + 1
		case schema.Octets:
			size := k.Size
			if k.LengthField != "" {
				size = int(p.values[k.LengthField].num)
			}
			if len(body)-off < size {
				return 0, protocol.Malformed("%s.%s needs %d bytes at offset %d, body is %d", p.Command, par.Name, size, off, len(body))
			}
			p.values[par.Name] = value{raw: append([]byte(nil), body[off:off+size]...)}
			off += size
		default:
			return 0, fmt.Errorf("%w: %s mandatory %s", protocol.ErrInvalidField, p.Command, par)
		}
	}
	return off, nil
}

func (p *PDU) readOptional(rest []byte, mode TLVMode) error {
	if len(rest) == 0 {
		return nil
	}
	fields, err := tlv.DecodeFields(rest)
	if err != nil {
		return fmt.Errorf("%s: %w", p.Command, err)
	}
	for _, f := range fields {
		par, ok := p.schema.OptionalByTag(f.Tag)
		if !ok {
			if mode == TLVStrict {
				return fmt.Errorf("%w: %s does not declare %s", protocol.ErrUnknownOptionalParameter, p.Command, f.Tag)
			}
			log.Debug().Msgf("pdu.Decode keep extension command=%s tag=0x%04x len=%d", p.Command, uint16(f.Tag), len(f.Value))
			p.Extensions = append(p.Extensions, f)
			continue
		}
		switch par.Kind.(type) {
		case schema.Int:
			n, err := tlv.Uint(f.Value)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", p.Command, par.Name, err)
			}
			p.values[par.Name] = value{num: n}
		case schema.CString:
			p.values[par.Name] = value{raw: bytes.TrimSuffix(f.Value, []byte{0})}
		case schema.Octets:
			p.values[par.Name] = value{raw: f.Value}
		case schema.Flag:
			p.values[par.Name] = value{}
		}
	}
	return nil
}

func clip(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}

func fixed(b []byte, size int) []byte {
	out := make([]byte, size)
	copy(out, b)
	return out
}
