package schema

import "github.com/danmuck/smppctl/internal/protocol"

// Shared body fragments. Fragments are copied by join, never aliased.

var bindBody = []Param{
	C(FieldSystemID, 16),
	C(FieldPassword, 9),
	C(FieldSystemType, 13),
	I(FieldInterfaceVersion, 1),
	I(FieldAddrTON, 1),
	I(FieldAddrNPI, 1),
	C(FieldAddressRange, 41),
}

var bindRespBody = []Param{
	C(FieldSystemID, 16),
}

var bindRespOptional = []Param{
	I(FieldSCInterfaceVersion, 1),
}

func sourceAddr(max int) []Param {
	return []Param{
		I(FieldSourceAddrTON, 1),
		I(FieldSourceAddrNPI, 1),
		C(FieldSourceAddr, max),
	}
}

func destAddr(max int) []Param {
	return []Param{
		I(FieldDestAddrTON, 1),
		I(FieldDestAddrNPI, 1),
		C(FieldDestinationAddr, max),
	}
}

var smTime = CString{Max: 17, Min: 17}

var shortMessage = []Param{
	I(FieldSMLength, 1),
	O(FieldShortMessage, Octets{Max: 254, LengthField: FieldSMLength}),
}

// submit_sm and deliver_sm share this mandatory block.
var messageBody = join(
	[]Param{C(FieldServiceType, 6)},
	sourceAddr(21),
	destAddr(21),
	[]Param{
		I(FieldESMClass, 1),
		I(FieldProtocolID, 1),
		I(FieldPriorityFlag, 1),
		{Name: FieldScheduleDeliveryTime, Kind: smTime},
		{Name: FieldValidityPeriod, Kind: smTime},
		I(FieldRegisteredDelivery, 1),
		I(FieldReplaceIfPresentFlag, 1),
		I(FieldDataCoding, 1),
		I(FieldSMDefaultMsgID, 1),
	},
	shortMessage,
)

var messageOptional = []Param{
	I(FieldUserMessageReference, 2),
	I(FieldSourcePort, 2),
	I(FieldDestinationPort, 2),
	I(FieldSarMsgRefNum, 2),
	I(FieldSarTotalSegments, 1),
	I(FieldSarSegmentSeqnum, 1),
	I(FieldUserResponseCode, 1),
	I(FieldPrivacyIndicator, 1),
	I(FieldPayloadType, 1),
	O(FieldMessagePayload, Octets{Max: 65535}),
	O(FieldCallbackNum, Octets{Min: 4, Max: 19}),
	O(FieldSourceSubaddress, Octets{Min: 2, Max: 23}),
	O(FieldDestSubaddress, Octets{Min: 2, Max: 23}),
	I(FieldLanguageIndicator, 1),
	I(FieldItsSessionInfo, 2),
}

var submitOptional = join(messageOptional, []Param{
	I(FieldSourceAddrSubunit, 1),
	I(FieldDestAddrSubunit, 1),
	I(FieldMoreMessagesToSend, 1),
	I(FieldCallbackNumPresInd, 1),
	O(FieldCallbackNumAtag, Octets{Max: 65}),
	I(FieldDisplayTime, 1),
	I(FieldSmsSignal, 2),
	I(FieldMsValidity, 1),
	I(FieldMsMsgWaitFacilities, 1),
	I(FieldNumberOfMessages, 1),
	F(FieldAlertOnMessageDelivery),
	I(FieldItsReplyType, 1),
	I(FieldUssdServiceOp, 1),
})

var deliverOptional = join(messageOptional, []Param{
	O(FieldNetworkErrorCode, Octets{Size: 3}),
	I(FieldMessageState, 1),
	C(FieldReceiptedMessageID, 65),
	I(FieldUssdServiceOp, 1),
})

var dataSMBody = join(
	[]Param{C(FieldServiceType, 6)},
	sourceAddr(65),
	destAddr(65),
	[]Param{
		I(FieldESMClass, 1),
		I(FieldRegisteredDelivery, 1),
		I(FieldDataCoding, 1),
	},
)

var dataSMOptional = join(messageOptional, []Param{
	I(FieldSourceAddrSubunit, 1),
	I(FieldSourceNetworkType, 1),
	I(FieldSourceBearerType, 1),
	I(FieldSourceTelematicsID, 2),
	I(FieldDestAddrSubunit, 1),
	I(FieldDestNetworkType, 1),
	I(FieldDestBearerType, 1),
	I(FieldDestTelematicsID, 2),
	I(FieldMoreMessagesToSend, 1),
	I(FieldQOSTimeToLive, 4),
	I(FieldSetDpf, 1),
	C(FieldReceiptedMessageID, 65),
	I(FieldMessageState, 1),
	O(FieldNetworkErrorCode, Octets{Size: 3}),
	I(FieldCallbackNumPresInd, 1),
	O(FieldCallbackNumAtag, Octets{Max: 65}),
	I(FieldDisplayTime, 1),
	I(FieldSmsSignal, 2),
	I(FieldMsValidity, 1),
	I(FieldMsMsgWaitFacilities, 1),
	I(FieldNumberOfMessages, 1),
	F(FieldAlertOnMessageDelivery),
	I(FieldItsReplyType, 1),
})

var messageIDBody = []Param{
	C(FieldMessageID, 65),
}

var dataSMRespOptional = []Param{
	I(FieldDeliveryFailureReason, 1),
	O(FieldNetworkErrorCode, Octets{Size: 3}),
	C(FieldAdditionalStatusInfo, 256),
	I(FieldDpfResult, 1),
}

var querySMBody = join(messageIDBody, sourceAddr(21))

var querySMRespBody = join(messageIDBody, []Param{
	{Name: FieldFinalDate, Kind: smTime},
	I(FieldMessageState, 1),
	I(FieldErrorCode, 1),
})

var cancelSMBody = join(
	[]Param{C(FieldServiceType, 6)},
	messageIDBody,
	sourceAddr(21),
	destAddr(21),
)

var replaceSMBody = join(
	messageIDBody,
	sourceAddr(21),
	[]Param{
		{Name: FieldScheduleDeliveryTime, Kind: smTime},
		{Name: FieldValidityPeriod, Kind: smTime},
		I(FieldRegisteredDelivery, 1),
		I(FieldSMDefaultMsgID, 1),
	},
	shortMessage,
)

var alertBody = join(sourceAddr(65), []Param{
	I(FieldESMEAddrTON, 1),
	I(FieldESMEAddrNPI, 1),
	C(FieldESMEAddr, 65),
})

var alertOptional = []Param{
	I(FieldMsAvailabilityStatus, 1),
}

var outbindBody = []Param{
	C(FieldSystemID, 16),
	C(FieldPassword, 9),
}

func join(parts ...[]Param) []Param {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]Param, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func init() {
	payloadWins := WithSuppression(FieldMessagePayload, FieldShortMessage)
	bindDefault := WithDefault(FieldInterfaceVersion, uint32(protocol.Version34))

	for _, cmd := range []protocol.CommandID{protocol.BindTransmitter, protocol.BindReceiver, protocol.BindTransceiver} {
		register(MustNew(cmd, bindBody, nil, bindDefault))
		register(MustNew(cmd.Response(), bindRespBody, bindRespOptional))
	}
	for _, cmd := range []protocol.CommandID{protocol.GenericNack, protocol.Unbind, protocol.UnbindResp, protocol.EnquireLink, protocol.EnquireLinkResp, protocol.CancelSMResp, protocol.ReplaceSMResp} {
		register(MustNew(cmd, nil, nil))
	}
	register(MustNew(protocol.Outbind, outbindBody, nil))
	register(MustNew(protocol.SubmitSM, messageBody, submitOptional, payloadWins))
	register(MustNew(protocol.SubmitSMResp, messageIDBody, nil))
	register(MustNew(protocol.DeliverSM, messageBody, deliverOptional, payloadWins))
	register(MustNew(protocol.DeliverSMResp, messageIDBody, nil))
	register(MustNew(protocol.DataSM, dataSMBody, dataSMOptional))
	register(MustNew(protocol.DataSMResp, messageIDBody, dataSMRespOptional))
	register(MustNew(protocol.QuerySM, querySMBody, nil))
	register(MustNew(protocol.QuerySMResp, querySMRespBody, nil))
	register(MustNew(protocol.CancelSM, cancelSMBody, nil))
	register(MustNew(protocol.ReplaceSM, replaceSMBody, nil))
	register(MustNew(protocol.AlertNotification, alertBody, alertOptional))
}
