// Package schema describes the body layout of every supported SMPP command:
// the ordered mandatory block, the optional TLV set, defaults and
// suppression rules. Schemas are built once and never mutated.
package schema

import (
	"fmt"
	"sort"

	"github.com/danmuck/smppctl/internal/protocol"
	"github.com/danmuck/smppctl/internal/protocol/tlv"
	"github.com/rs/zerolog/log"
)

type ValidationError struct {
	Command protocol.CommandID
	Field   string
	Reason  string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema: command=%s: %s", e.Command, e.Reason)
	}
	return fmt.Sprintf("schema: command=%s field=%s: %s", e.Command, e.Field, e.Reason)
}

// Suppression drops fields from the wire while When is present. Length
// fields governing a dropped octet string are encoded as zero.
type Suppression struct {
	When string
	Drop []string
}

// Schema is the immutable layout of one command body.
type Schema struct {
	command   protocol.CommandID
	mandatory []Param
	optional  []Param
	tags      map[string]tlv.Tag
	byTag     map[tlv.Tag]int
	index     map[string]int
	defaults  map[string]uint32
	suppress  []Suppression
	lengthFor map[string]string
}

type Option func(*Schema)

// WithDefault sets an Int field on every PDU built from the schema.
func WithDefault(name string, v uint32) Option {
	return func(s *Schema) { s.defaults[name] = v }
}

func WithSuppression(when string, drop ...string) Option {
	return func(s *Schema) {
		s.suppress = append(s.suppress, Suppression{When: when, Drop: append([]string(nil), drop...)})
	}
}

// New validates and builds a schema. Optional names must be registered TLVs.
func New(cmd protocol.CommandID, mandatory, optional []Param, opts ...Option) (*Schema, error) {
	s := &Schema{
		command:   cmd,
		mandatory: append([]Param(nil), mandatory...),
		optional:  append([]Param(nil), optional...),
		tags:      make(map[string]tlv.Tag, len(optional)),
		byTag:     make(map[tlv.Tag]int, len(optional)),
		index:     make(map[string]int, len(mandatory)+len(optional)),
		defaults:  make(map[string]uint32),
		lengthFor: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	fail := func(field, reason string) error {
		return ValidationError{Command: cmd, Field: field, Reason: reason}
	}
	if !cmd.Known() {
		return nil, fail("", "unknown command")
	}

	for i, p := range s.mandatory {
		if _, dup := s.index[p.Name]; dup || p.Name == "" {
			return nil, fail(p.Name, "duplicate or empty name")
		}
		if reason := checkParam(p, false); reason != "" {
			return nil, fail(p.Name, reason)
		}
		if o, ok := p.Kind.(Octets); ok && o.LengthField != "" {
			j, found := s.index[o.LengthField]
			if !found {
				return nil, fail(p.Name, fmt.Sprintf("length field %q must precede it", o.LengthField))
			}
			if _, isInt := s.mandatory[j].Kind.(Int); !isInt {
				return nil, fail(p.Name, fmt.Sprintf("length field %q is not an int", o.LengthField))
			}
			s.lengthFor[o.LengthField] = p.Name
		}
		s.index[p.Name] = i
	}
	for i, p := range s.optional {
		if _, dup := s.index[p.Name]; dup || p.Name == "" {
			return nil, fail(p.Name, "duplicate or empty name")
		}
		if reason := checkParam(p, true); reason != "" {
			return nil, fail(p.Name, reason)
		}
		tag, err := tlv.TagByName(p.Name)
		if err != nil {
			return nil, fail(p.Name, "not a registered optional parameter")
		}
		s.tags[p.Name] = tag
		s.byTag[tag] = i
		s.index[p.Name] = len(s.mandatory) + i
	}
	for name := range s.defaults {
		p, ok := s.Param(name)
		if !ok {
			return nil, fail(name, "default for unknown field")
		}
		if _, isInt := p.Kind.(Int); !isInt {
			return nil, fail(name, "default on non-int field")
		}
	}
	for _, sup := range s.suppress {
		if _, ok := s.index[sup.When]; !ok {
			return nil, fail(sup.When, "suppression trigger is not a field")
		}
		for _, d := range sup.Drop {
			if _, ok := s.index[d]; !ok {
				return nil, fail(d, "suppressed field is not a field")
			}
		}
	}
	return s, nil
}

func MustNew(cmd protocol.CommandID, mandatory, optional []Param, opts ...Option) *Schema {
	s, err := New(cmd, mandatory, optional, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Command() protocol.CommandID { return s.command }

// Mandatory returns the mandatory params in wire order.
func (s *Schema) Mandatory() []Param {
	return append([]Param(nil), s.mandatory...)
}

// Optional returns the optional params in canonical emit order.
func (s *Schema) Optional() []Param {
	return append([]Param(nil), s.optional...)
}

func (s *Schema) Param(name string) (Param, bool) {
	i, ok := s.index[name]
	if !ok {
		return Param{}, false
	}
	if i < len(s.mandatory) {
		return s.mandatory[i], true
	}
	return s.optional[i-len(s.mandatory)], true
}

func (s *Schema) IsOptional(name string) bool {
	_, ok := s.tags[name]
	return ok
}

func (s *Schema) Tag(name string) (tlv.Tag, bool) {
	tag, ok := s.tags[name]
	return tag, ok
}

// OptionalByTag resolves a TLV tag declared by this schema.
func (s *Schema) OptionalByTag(tag tlv.Tag) (Param, bool) {
	i, ok := s.byTag[tag]
	if !ok {
		return Param{}, false
	}
	return s.optional[i], true
}

// LengthTarget returns the octet string governed by a length field.
func (s *Schema) LengthTarget(lengthField string) (string, bool) {
	name, ok := s.lengthFor[lengthField]
	return name, ok
}

func (s *Schema) Defaults() map[string]uint32 {
	out := make(map[string]uint32, len(s.defaults))
	for k, v := range s.defaults {
		out[k] = v
	}
	return out
}

func (s *Schema) Suppressions() []Suppression {
	return append([]Suppression(nil), s.suppress...)
}

var catalog = map[protocol.CommandID]*Schema{}

func register(s *Schema) {
	if _, dup := catalog[s.command]; dup {
		panic(fmt.Sprintf("schema: duplicate registration for %s", s.command))
	}
	catalog[s.command] = s
}

// Lookup returns the schema for a command id.
func Lookup(id protocol.CommandID) (*Schema, error) {
	s, ok := catalog[id]
	if !ok {
		log.Debug().Msgf("schema.Lookup unknown command_id=0x%08x", uint32(id))
		return nil, fmt.Errorf("%w: no schema for command_id=0x%08x", protocol.ErrUnknownCommand, uint32(id))
	}
	return s, nil
}

// All returns every registered schema ordered by command id.
func All() []*Schema {
	out := make([]*Schema, 0, len(catalog))
	for _, s := range catalog {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].command < out[j].command })
	return out
}
