// Package pdu holds the in-memory PDU value and the schema-driven codec
// that maps it to and from SMPP wire bytes.
package pdu

import (
	"bytes"
	"fmt"

	"github.com/danmuck/smppctl/internal/protocol"
	"github.com/danmuck/smppctl/internal/protocol/schema"
	"github.com/danmuck/smppctl/internal/protocol/tlv"
)

type value struct {
	num uint32
	raw []byte
}

// PDU is one protocol data unit. Field values are keyed by schema field
// name; a field is absent until set.
type PDU struct {
	Command  protocol.CommandID
	Sequence uint32
	Status   protocol.Status

	// Extensions holds TLVs the schema does not declare, kept by permissive
	// decoding and re-emitted after the declared optional block.
	Extensions []tlv.Field

	schema *schema.Schema
	values map[string]value
}

// New returns an empty PDU for cmd with schema defaults applied.
func New(cmd protocol.CommandID) (*PDU, error) {
	s, err := schema.Lookup(cmd)
	if err != nil {
		return nil, err
	}
	p := &PDU{Command: cmd, schema: s, values: make(map[string]value)}
	for name, v := range s.Defaults() {
		p.values[name] = value{num: v}
	}
	return p, nil
}

func MustNew(cmd protocol.CommandID) *PDU {
	p, err := New(cmd)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *PDU) Schema() *schema.Schema { return p.schema }

func (p *PDU) Name() string { return p.Command.String() }

func (p *PDU) IsResponse() bool { return p.Command.IsResponse() }

// IsError reports a non-zero command_status.
func (p *PDU) IsError() bool { return !p.Status.OK() }

// Summary is a one-line description for logs.
func (p *PDU) Summary() string {
	return fmt.Sprintf("%s seq=%d status=%s fields=%d", p.Command, p.Sequence, p.Status, len(p.values))
}

func (p *PDU) param(name string) (schema.Param, error) {
	par, ok := p.schema.Param(name)
	if !ok {
		return schema.Param{}, fmt.Errorf("%w: %s has no field %q", protocol.ErrInvalidField, p.Command, name)
	}
	return par, nil
}

func kindError(cmd protocol.CommandID, par schema.Param, want string) error {
	return fmt.Errorf("%w: %s field %s is not %s", protocol.ErrInvalidField, cmd, par, want)
}

// SetInt sets an integer field. The value must fit the declared width.
func (p *PDU) SetInt(name string, v uint32) error {
	par, err := p.param(name)
	if err != nil {
		return err
	}
	k, ok := par.Kind.(schema.Int)
	if !ok {
		return kindError(p.Command, par, "an int")
	}
	if _, err := tlv.PutUint(v, k.Width); err != nil {
		return fmt.Errorf("%s.%s: %w", p.Command, name, err)
	}
	p.values[name] = value{num: v}
	return nil
}

// SetString sets a c-string field, truncating to Max-1 bytes.
func (p *PDU) SetString(name, s string) error {
	par, err := p.param(name)
	if err != nil {
		return err
	}
	k, ok := par.Kind.(schema.CString)
	if !ok {
		return kindError(p.Command, par, "a c-string")
	}
	if i := bytes.IndexByte([]byte(s), 0); i >= 0 {
		return fmt.Errorf("%w: %s.%s contains NUL at %d", protocol.ErrInvalidField, p.Command, name, i)
	}
	if len(s) > k.Max-1 {
		s = s[:k.Max-1]
	}
	if s != "" && len(s)+1 < k.Min {
		return fmt.Errorf("%w: %s.%s shorter than %d", protocol.ErrInvalidField, p.Command, name, k.Min-1)
	}
	p.values[name] = value{raw: []byte(s)}
	return nil
}

// SetBytes sets an octet string field.
func (p *PDU) SetBytes(name string, b []byte) error {
	par, err := p.param(name)
	if err != nil {
		return err
	}
	k, ok := par.Kind.(schema.Octets)
	if !ok {
		return kindError(p.Command, par, "an octet string")
	}
	switch {
	case k.Size > 0 && len(b) > k.Size:
		return fmt.Errorf("%w: %s.%s is %d bytes, size %d", protocol.ErrInvalidField, p.Command, name, len(b), k.Size)
	case k.Max > 0 && len(b) > k.Max:
		return fmt.Errorf("%w: %s.%s is %d bytes, max %d", protocol.ErrInvalidField, p.Command, name, len(b), k.Max)
	case len(b) > 0 && len(b) < k.Min:
		return fmt.Errorf("%w: %s.%s is %d bytes, min %d", protocol.ErrInvalidField, p.Command, name, len(b), k.Min)
	}
	p.values[name] = value{raw: append([]byte(nil), b...)}
	return nil
}

// SetFlag marks a flag present, or removes it when on is false.
func (p *PDU) SetFlag(name string, on bool) error {
	par, err := p.param(name)
	if err != nil {
		return err
	}
	if _, ok := par.Kind.(schema.Flag); !ok {
		return kindError(p.Command, par, "a flag")
	}
	if on {
		p.values[name] = value{}
	} else {
		delete(p.values, name)
	}
	return nil
}

func (p *PDU) Unset(name string) {
	delete(p.values, name)
}

func (p *PDU) Has(name string) bool {
	_, ok := p.values[name]
	return ok
}

// Int returns an integer field, zero when absent.
func (p *PDU) Int(name string) uint32 {
	return p.values[name].num
}

func (p *PDU) String(name string) string {
	return string(p.values[name].raw)
}

func (p *PDU) Bytes(name string) []byte {
	v, ok := p.values[name]
	if !ok {
		return nil
	}
	return append([]byte(nil), v.raw...)
}

func (p *PDU) Flag(name string) bool {
	return p.Has(name)
}

// Fields lists present fields in schema order.
func (p *PDU) Fields() []string {
	out := make([]string, 0, len(p.values))
	for _, par := range p.schema.Mandatory() {
		if p.Has(par.Name) {
			out = append(out, par.Name)
		}
	}
	for _, par := range p.schema.Optional() {
		if p.Has(par.Name) {
			out = append(out, par.Name)
		}
	}
	return out
}
