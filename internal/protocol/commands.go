package protocol

import (
	"fmt"
	"sort"
)

// CommandID is the numeric command_id carried in every PDU header.
type CommandID uint32

// ResponseBit marks a response command_id.
const ResponseBit CommandID = 0x80000000

const (
	GenericNack         CommandID = 0x80000000
	BindReceiver        CommandID = 0x00000001
	BindReceiverResp    CommandID = BindReceiver | ResponseBit
	BindTransmitter     CommandID = 0x00000002
	BindTransmitterResp CommandID = BindTransmitter | ResponseBit
	QuerySM             CommandID = 0x00000003
	QuerySMResp         CommandID = QuerySM | ResponseBit
	SubmitSM            CommandID = 0x00000004
	SubmitSMResp        CommandID = SubmitSM | ResponseBit
	DeliverSM           CommandID = 0x00000005
	DeliverSMResp       CommandID = DeliverSM | ResponseBit
	Unbind              CommandID = 0x00000006
	UnbindResp          CommandID = Unbind | ResponseBit
	ReplaceSM           CommandID = 0x00000007
	ReplaceSMResp       CommandID = ReplaceSM | ResponseBit
	CancelSM            CommandID = 0x00000008
	CancelSMResp        CommandID = CancelSM | ResponseBit
	BindTransceiver     CommandID = 0x00000009
	BindTransceiverResp CommandID = BindTransceiver | ResponseBit
	Outbind             CommandID = 0x0000000B
	EnquireLink         CommandID = 0x00000015
	EnquireLinkResp     CommandID = EnquireLink | ResponseBit
	AlertNotification   CommandID = 0x00000102
	DataSM              CommandID = 0x00000103
	DataSMResp          CommandID = DataSM | ResponseBit
)

var commandNames = map[CommandID]string{
	GenericNack:         "generic_nack",
	BindReceiver:        "bind_receiver",
	BindReceiverResp:    "bind_receiver_resp",
	BindTransmitter:     "bind_transmitter",
	BindTransmitterResp: "bind_transmitter_resp",
	QuerySM:             "query_sm",
	QuerySMResp:         "query_sm_resp",
	SubmitSM:            "submit_sm",
	SubmitSMResp:        "submit_sm_resp",
	DeliverSM:           "deliver_sm",
	DeliverSMResp:       "deliver_sm_resp",
	Unbind:              "unbind",
	UnbindResp:          "unbind_resp",
	ReplaceSM:           "replace_sm",
	ReplaceSMResp:       "replace_sm_resp",
	CancelSM:            "cancel_sm",
	CancelSMResp:        "cancel_sm_resp",
	BindTransceiver:     "bind_transceiver",
	BindTransceiverResp: "bind_transceiver_resp",
	Outbind:             "outbind",
	EnquireLink:         "enquire_link",
	EnquireLinkResp:     "enquire_link_resp",
	AlertNotification:   "alert_notification",
	DataSM:              "data_sm",
	DataSMResp:          "data_sm_resp",
}

var commandIDs = func() map[string]CommandID {
	out := make(map[string]CommandID, len(commandNames))
	for id, name := range commandNames {
		out[name] = id
	}
	return out
}()

// CommandName resolves a command_id to its symbolic name.
func CommandName(id CommandID) (string, error) {
	name, ok := commandNames[id]
	if !ok {
		return "", fmt.Errorf("%w: command_id=0x%08x", ErrUnknownCommand, uint32(id))
	}
	return name, nil
}

// CommandByName resolves a symbolic name to its command_id.
func CommandByName(name string) (CommandID, error) {
	id, ok := commandIDs[name]
	if !ok {
		return 0, fmt.Errorf("%w: name=%q", ErrUnknownCommand, name)
	}
	return id, nil
}

// Commands returns every registered command_id in ascending order.
func Commands() []CommandID {
	out := make([]CommandID, 0, len(commandNames))
	for id := range commandNames {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (id CommandID) Known() bool {
	_, ok := commandNames[id]
	return ok
}

// IsResponse reports whether the high bit is set.
func (id CommandID) IsResponse() bool {
	return id&ResponseBit != 0
}

// Response returns the response command_id paired with a request.
func (id CommandID) Response() CommandID {
	return id | ResponseBit
}

// Request returns the request command_id paired with a response.
func (id CommandID) Request() CommandID {
	return id &^ ResponseBit
}

func (id CommandID) String() string {
	if name, ok := commandNames[id]; ok {
		return name
	}
	return fmt.Sprintf("command(0x%08x)", uint32(id))
}
