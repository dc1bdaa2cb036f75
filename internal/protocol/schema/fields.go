package schema

// Mandatory field names.
const (
	FieldSystemID             = "system_id"
	FieldPassword             = "password"
	FieldSystemType           = "system_type"
	FieldInterfaceVersion     = "interface_version"
	FieldAddrTON              = "addr_ton"
	FieldAddrNPI              = "addr_npi"
	FieldAddressRange         = "address_range"
	FieldServiceType          = "service_type"
	FieldSourceAddrTON        = "source_addr_ton"
	FieldSourceAddrNPI        = "source_addr_npi"
	FieldSourceAddr           = "source_addr"
	FieldDestAddrTON          = "dest_addr_ton"
	FieldDestAddrNPI          = "dest_addr_npi"
	FieldDestinationAddr      = "destination_addr"
	FieldESMClass             = "esm_class"
	FieldProtocolID           = "protocol_id"
	FieldPriorityFlag         = "priority_flag"
	FieldScheduleDeliveryTime = "schedule_delivery_time"
	FieldValidityPeriod       = "validity_period"
	FieldRegisteredDelivery   = "registered_delivery"
	FieldReplaceIfPresentFlag = "replace_if_present_flag"
	FieldDataCoding           = "data_coding"
	FieldSMDefaultMsgID       = "sm_default_msg_id"
	FieldSMLength             = "sm_length"
	FieldShortMessage         = "short_message"
	FieldMessageID            = "message_id"
	FieldFinalDate            = "final_date"
	FieldMessageState         = "message_state"
	FieldErrorCode            = "error_code"
	FieldESMEAddrTON          = "esme_addr_ton"
	FieldESMEAddrNPI          = "esme_addr_npi"
	FieldESMEAddr             = "esme_addr"
)

// Optional field names. They match the TLV registry.
const (
	FieldUserMessageReference   = "user_message_reference"
	FieldSourcePort             = "source_port"
	FieldSourceAddrSubunit      = "source_addr_subunit"
	FieldSourceNetworkType      = "source_network_type"
	FieldSourceBearerType       = "source_bearer_type"
	FieldSourceTelematicsID     = "source_telematics_id"
	FieldDestinationPort        = "destination_port"
	FieldDestAddrSubunit        = "dest_addr_subunit"
	FieldDestNetworkType        = "dest_network_type"
	FieldDestBearerType         = "dest_bearer_type"
	FieldDestTelematicsID       = "dest_telematics_id"
	FieldSarMsgRefNum           = "sar_msg_ref_num"
	FieldSarTotalSegments       = "sar_total_segments"
	FieldSarSegmentSeqnum       = "sar_segment_seqnum"
	FieldMoreMessagesToSend     = "more_messages_to_send"
	FieldQOSTimeToLive          = "qos_time_to_live"
	FieldPayloadType            = "payload_type"
	FieldMessagePayload         = "message_payload"
	FieldSetDpf                 = "set_dpf"
	FieldReceiptedMessageID     = "receipted_message_id"
	FieldNetworkErrorCode       = "network_error_code"
	FieldPrivacyIndicator       = "privacy_indicator"
	FieldCallbackNum            = "callback_num"
	FieldCallbackNumPresInd     = "callback_num_pres_ind"
	FieldCallbackNumAtag        = "callback_num_atag"
	FieldSourceSubaddress       = "source_subaddress"
	FieldDestSubaddress         = "dest_subaddress"
	FieldUserResponseCode       = "user_response_code"
	FieldDisplayTime            = "display_time"
	FieldSmsSignal              = "sms_signal"
	FieldMsValidity             = "ms_validity"
	FieldMsMsgWaitFacilities    = "ms_msg_wait_facilities"
	FieldNumberOfMessages       = "number_of_messages"
	FieldAlertOnMessageDelivery = "alert_on_message_delivery"
	FieldLanguageIndicator      = "language_indicator"
	FieldItsReplyType           = "its_reply_type"
	FieldItsSessionInfo         = "its_session_info"
	FieldUssdServiceOp          = "ussd_service_op"
	FieldSCInterfaceVersion     = "sc_interface_version"
	FieldMsAvailabilityStatus   = "ms_availability_status"
	FieldDeliveryFailureReason  = "delivery_failure_reason"
	FieldAdditionalStatusInfo   = "additional_status_info_text"
	FieldDpfResult              = "dpf_result"
)
