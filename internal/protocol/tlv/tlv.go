// Package tlv holds the SMPP optional parameter registry and the
// tag/length/value wire primitives used by the PDU codec.
package tlv

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/danmuck/smppctl/internal/protocol"
)

// HeaderLen is the size of a TLV tag plus length prefix.
const HeaderLen = 4

var (
	ErrShortFieldHeader = fmt.Errorf("%w: tlv short field header", protocol.ErrMalformedPDU)
	ErrShortFieldValue  = fmt.Errorf("%w: tlv short field value", protocol.ErrMalformedPDU)
)

// Tag is the 16-bit optional parameter identifier.
type Tag uint16

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tlv(0x%04x)", uint16(t))
}

// Field is one optional parameter as it appears on the wire.
type Field struct {
	Tag   Tag
	Value []byte
}

// Len is the encoded size of the field including its header.
func (f Field) Len() int {
	return HeaderLen + len(f.Value)
}

// AppendField appends the wire form of f to dst.
func AppendField(dst []byte, f Field) ([]byte, error) {
	if len(f.Value) > 0xFFFF {
		return dst, fmt.Errorf("%w: tlv %s value length %d exceeds 65535", protocol.ErrInvalidField, f.Tag, len(f.Value))
	}
	var hdr [HeaderLen]byte
	binary.BigEndian.PutUint16(hdr[0:2], uint16(f.Tag))
	binary.BigEndian.PutUint16(hdr[2:4], uint16(len(f.Value)))
	dst = append(dst, hdr[:]...)
	return append(dst, f.Value...), nil
}

// EncodeFields encodes fields in the order given.
func EncodeFields(fields []Field) ([]byte, error) {
	size := 0
	for _, f := range fields {
		size += f.Len()
	}
	out := make([]byte, 0, size)
	var err error
	for _, f := range fields {
		if out, err = AppendField(out, f); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DecodeFields splits a TLV stream. Values are copied out of payload.
func DecodeFields(payload []byte) ([]Field, error) {
	fields := make([]Field, 0)
	i := 0
	for i < len(payload) {
		if len(payload)-i < HeaderLen {
			return nil, fmt.Errorf("%w: %d bytes left at offset %d", ErrShortFieldHeader, len(payload)-i, i)
		}
		tag := Tag(binary.BigEndian.Uint16(payload[i : i+2]))
		l := int(binary.BigEndian.Uint16(payload[i+2 : i+4]))
		i += HeaderLen
		if len(payload)-i < l {
			return nil, fmt.Errorf("%w: %s wants %d bytes, %d left", ErrShortFieldValue, tag, l, len(payload)-i)
		}
		val := make([]byte, l)
		copy(val, payload[i:i+l])
		i += l
		fields = append(fields, Field{Tag: tag, Value: val})
	}
	return fields, nil
}

func GetField(fields []Field, tag Tag) (Field, bool) {
	for _, f := range fields {
		if f.Tag == tag {
			return f, true
		}
	}
	return Field{}, false
}

// PutUint encodes v big-endian in width bytes (1 to 4).
func PutUint(v uint32, width int) ([]byte, error) {
	if width < 1 || width > 4 {
		return nil, fmt.Errorf("%w: integer width %d", protocol.ErrInvalidField, width)
	}
	if width < 4 && v >= 1<<(8*uint(width)) {
		return nil, fmt.Errorf("%w: value %d does not fit in %d bytes", protocol.ErrInvalidField, v, width)
	}
	out := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}
	return out, nil
}

// Uint reads a big-endian unsigned integer of 1 to 4 bytes.
func Uint(b []byte) (uint32, error) {
	if len(b) < 1 || len(b) > 4 {
		return 0, fmt.Errorf("%w: integer length %d", protocol.ErrMalformedPDU, len(b))
	}
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	return v, nil
}

// Optional parameter tags.
const (
	DestAddrSubunit        Tag = 0x0005
	DestNetworkType        Tag = 0x0006
	DestBearerType         Tag = 0x0007
	DestTelematicsID       Tag = 0x0008
	SourceAddrSubunit      Tag = 0x000D
	SourceNetworkType      Tag = 0x000E
	SourceBearerType       Tag = 0x000F
	SourceTelematicsID     Tag = 0x0010
	QOSTimeToLive          Tag = 0x0017
	PayloadType            Tag = 0x0019
	AdditionalStatusInfo   Tag = 0x001D
	ReceiptedMessageID     Tag = 0x001E
	MsMsgWaitFacilities    Tag = 0x0030
	PrivacyIndicator       Tag = 0x0201
	SourceSubaddress       Tag = 0x0202
	DestSubaddress         Tag = 0x0203
	UserMessageReference   Tag = 0x0204
	UserResponseCode       Tag = 0x0205
	SourcePort             Tag = 0x020A
	DestinationPort        Tag = 0x020B
	SarMsgRefNum           Tag = 0x020C
	LanguageIndicator      Tag = 0x020D
	SarTotalSegments       Tag = 0x020E
	SarSegmentSeqnum       Tag = 0x020F
	SCInterfaceVersion     Tag = 0x0210
	CallbackNumPresInd     Tag = 0x0302
	CallbackNumAtag        Tag = 0x0303
	NumberOfMessages       Tag = 0x0304
	CallbackNum            Tag = 0x0381
	DpfResult              Tag = 0x0420
	SetDpf                 Tag = 0x0421
	MsAvailabilityStatus   Tag = 0x0422
	NetworkErrorCode       Tag = 0x0423
	MessagePayload         Tag = 0x0424
	DeliveryFailureReason  Tag = 0x0425
	MoreMessagesToSend     Tag = 0x0426
	MessageState           Tag = 0x0427
	UssdServiceOp          Tag = 0x0501
	DisplayTime            Tag = 0x1201
	SmsSignal              Tag = 0x1203
	MsValidity             Tag = 0x1204
	AlertOnMessageDelivery Tag = 0x130C
	ItsReplyType           Tag = 0x1380
	ItsSessionInfo         Tag = 0x1383
)

var tagNames = map[Tag]string{
	DestAddrSubunit:        "dest_addr_subunit",
	DestNetworkType:        "dest_network_type",
	DestBearerType:         "dest_bearer_type",
	DestTelematicsID:       "dest_telematics_id",
	SourceAddrSubunit:      "source_addr_subunit",
	SourceNetworkType:      "source_network_type",
	SourceBearerType:       "source_bearer_type",
	SourceTelematicsID:     "source_telematics_id",
	QOSTimeToLive:          "qos_time_to_live",
	PayloadType:            "payload_type",
	AdditionalStatusInfo:   "additional_status_info_text",
	ReceiptedMessageID:     "receipted_message_id",
	MsMsgWaitFacilities:    "ms_msg_wait_facilities",
	PrivacyIndicator:       "privacy_indicator",
	SourceSubaddress:       "source_subaddress",
	DestSubaddress:         "dest_subaddress",
	UserMessageReference:   "user_message_reference",
	UserResponseCode:       "user_response_code",
	SourcePort:             "source_port",
	DestinationPort:        "destination_port",
	SarMsgRefNum:           "sar_msg_ref_num",
	LanguageIndicator:      "language_indicator",
	SarTotalSegments:       "sar_total_segments",
	SarSegmentSeqnum:       "sar_segment_seqnum",
	SCInterfaceVersion:     "sc_interface_version",
	CallbackNumPresInd:     "callback_num_pres_ind",
	CallbackNumAtag:        "callback_num_atag",
	NumberOfMessages:       "number_of_messages",
	CallbackNum:            "callback_num",
	DpfResult:              "dpf_result",
	SetDpf:                 "set_dpf",
	MsAvailabilityStatus:   "ms_availability_status",
	NetworkErrorCode:       "network_error_code",
	MessagePayload:         "message_payload",
	DeliveryFailureReason:  "delivery_failure_reason",
	MoreMessagesToSend:     "more_messages_to_send",
	MessageState:           "message_state",
	UssdServiceOp:          "ussd_service_op",
	DisplayTime:            "display_time",
	SmsSignal:              "sms_signal",
	MsValidity:             "ms_validity",
	AlertOnMessageDelivery: "alert_on_message_delivery",
	ItsReplyType:           "its_reply_type",
	ItsSessionInfo:         "its_session_info",
}

var tagsByName = func() map[string]Tag {
	out := make(map[string]Tag, len(tagNames))
	for tag, name := range tagNames {
		out[name] = tag
	}
	return out
}()

// TagName resolves a registered tag to its field name.
func TagName(tag Tag) (string, error) {
	name, ok := tagNames[tag]
	if !ok {
		return "", fmt.Errorf("%w: tag=0x%04x", protocol.ErrUnknownOptionalParameter, uint16(tag))
	}
	return name, nil
}

// TagByName resolves a field name to its registered tag.
func TagByName(name string) (Tag, error) {
	tag, ok := tagsByName[name]
	if !ok {
		return 0, fmt.Errorf("%w: name=%q", protocol.ErrUnknownOptionalParameter, name)
	}
	return tag, nil
}

// Tags returns every registered tag in ascending order.
func Tags() []Tag {
	out := make([]Tag, 0, len(tagNames))
	for tag := range tagNames {
		out = append(out, tag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
