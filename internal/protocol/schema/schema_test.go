package schema

import (
	"errors"
	"testing"

	"github.com/danmuck/smppctl/internal/protocol"
	"github.com/danmuck/smppctl/internal/protocol/tlv"
	"github.com/danmuck/smppctl/internal/testutil/testlog"
)

func TestCatalogCoversRegisteredCommands(t *testing.T) {
	testlog.Start(t)
	for _, id := range protocol.Commands() {
		s, err := Lookup(id)
		if err != nil {
			t.Fatalf("lookup %s: %v", id, err)
		}
		if s.Command() != id {
			t.Fatalf("schema for %s reports %s", id, s.Command())
		}
	}
	if got, want := len(All()), len(protocol.Commands()); got != want {
		t.Fatalf("catalog has %d schemas, registry has %d commands", got, want)
	}
}

func TestLookupUnknownCommand(t *testing.T) {
	testlog.Start(t)
	_, err := Lookup(0x00000021)
	if !errors.Is(err, protocol.ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestSubmitAndDeliverShareMandatoryBody(t *testing.T) {
	testlog.Start(t)
	submit, _ := Lookup(protocol.SubmitSM)
	deliver, _ := Lookup(protocol.DeliverSM)
	a, b := submit.Mandatory(), deliver.Mandatory()
	if len(a) != len(b) || len(a) != 18 {
		t.Fatalf("mandatory lengths submit=%d deliver=%d", len(a), len(b))
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			t.Fatalf("field %d differs: %s vs %s", i, a[i].Name, b[i].Name)
		}
	}
	if !submit.IsOptional(FieldAlertOnMessageDelivery) || deliver.IsOptional(FieldAlertOnMessageDelivery) {
		t.Fatalf("alert_on_message_delivery should be submit-only")
	}
	if !deliver.IsOptional(FieldReceiptedMessageID) || submit.IsOptional(FieldReceiptedMessageID) {
		t.Fatalf("receipted_message_id should be deliver-only")
	}
	if target, ok := submit.LengthTarget(FieldSMLength); !ok || target != FieldShortMessage {
		t.Fatalf("sm_length should govern short_message, got %q", target)
	}
	if sups := submit.Suppressions(); len(sups) != 1 || sups[0].When != FieldMessagePayload {
		t.Fatalf("unexpected suppressions: %+v", sups)
	}
}

func TestBindDefaultsInterfaceVersion(t *testing.T) {
	testlog.Start(t)
	for _, id := range []protocol.CommandID{protocol.BindTransmitter, protocol.BindReceiver, protocol.BindTransceiver} {
		s, _ := Lookup(id)
		if v, ok := s.Defaults()[FieldInterfaceVersion]; !ok || v != 0x34 {
			t.Fatalf("%s default interface_version=%#x ok=%v", id, v, ok)
		}
	}
}

func TestSchemaIsImmutableThroughAccessors(t *testing.T) {
	testlog.Start(t)
	s, _ := Lookup(protocol.SubmitSM)
	m := s.Mandatory()
	m[0].Name = "mutated"
	d := s.Defaults()
	d["x"] = 1
	if s.Mandatory()[0].Name != FieldServiceType {
		t.Fatalf("mandatory slice aliased")
	}
	bind, _ := Lookup(protocol.BindTransmitter)
	bd := bind.Defaults()
	bd[FieldInterfaceVersion] = 0x33
	if bind.Defaults()[FieldInterfaceVersion] != 0x34 {
		t.Fatalf("defaults map aliased")
	}
}

func TestOptionalByTag(t *testing.T) {
	testlog.Start(t)
	s, _ := Lookup(protocol.DataSMResp)
	p, ok := s.OptionalByTag(tlv.NetworkErrorCode)
	if !ok || p.Name != FieldNetworkErrorCode {
		t.Fatalf("lookup network_error_code: %+v %v", p, ok)
	}
	if _, ok := s.OptionalByTag(tlv.MessagePayload); ok {
		t.Fatalf("message_payload is not declared by data_sm_resp")
	}
}

func TestNewRejectsBadDescriptors(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name      string
		mandatory []Param
		optional  []Param
		opts      []Option
	}{
		{name: "int width", mandatory: []Param{I("a", 5)}},
		{name: "nil kind", mandatory: []Param{{Name: "a"}}},
		{name: "octets two modes", mandatory: []Param{I("n", 1), O("b", Octets{Size: 3, LengthField: "n"})}},
		{name: "mandatory unbounded octets", mandatory: []Param{O("b", Octets{Max: 10})}},
		{name: "length field after", mandatory: []Param{O("b", Octets{LengthField: "n"}), I("n", 1)}},
		{name: "length field not int", mandatory: []Param{C("n", 4), O("b", Octets{LengthField: "n"})}},
		{name: "mandatory flag", mandatory: []Param{F("f")}},
		{name: "duplicate", mandatory: []Param{I("a", 1), I("a", 1)}},
		{name: "unregistered optional", optional: []Param{I("not_a_tlv", 1)}},
		{name: "default on string", mandatory: []Param{C("s", 4)}, opts: []Option{WithDefault("s", 1)}},
		{name: "suppression unknown", opts: []Option{WithSuppression(FieldMessagePayload, FieldShortMessage)}},
	}
	for _, tc := range cases {
		_, err := New(protocol.SubmitSM, tc.mandatory, tc.optional, tc.opts...)
		var ve ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
	}
}

func TestNewRejectsUnknownCommand(t *testing.T) {
	testlog.Start(t)
	if _, err := New(0x00000099, nil, nil); err == nil {
		t.Fatalf("expected error for unregistered command")
	}
}
