package protocol

import "fmt"

// Status is the command_status header field. Zero is success.
type Status uint32

const (
	StatusOK              Status = 0x00000000
	StatusInvMsgLen       Status = 0x00000001
	StatusInvCmdLen       Status = 0x00000002
	StatusInvCmdID        Status = 0x00000003
	StatusInvBndSts       Status = 0x00000004
	StatusAlyBnd          Status = 0x00000005
	StatusInvPrtFlg       Status = 0x00000006
	StatusInvRegDlvFlg    Status = 0x00000007
	StatusSysErr          Status = 0x00000008
	StatusInvSrcAdr       Status = 0x0000000A
	StatusInvDstAdr       Status = 0x0000000B
	StatusInvMsgID        Status = 0x0000000C
	StatusBindFail        Status = 0x0000000D
	StatusInvPaswd        Status = 0x0000000E
	StatusInvSysID        Status = 0x0000000F
	StatusCancelFail      Status = 0x00000011
	StatusReplaceFail     Status = 0x00000013
	StatusMsgQFul         Status = 0x00000014
	StatusInvSerTyp       Status = 0x00000015
	StatusInvNumDests     Status = 0x00000033
	StatusInvDLName       Status = 0x00000034
	StatusInvDestFlag     Status = 0x00000040
	StatusInvSubRep       Status = 0x00000042
	StatusInvEsmClass     Status = 0x00000043
	StatusCntSubDL        Status = 0x00000044
	StatusSubmitFail      Status = 0x00000045
	StatusInvSrcTON       Status = 0x00000048
	StatusInvSrcNPI       Status = 0x00000049
	StatusInvDstTON       Status = 0x00000050
	StatusInvDstNPI       Status = 0x00000051
	StatusInvSysTyp       Status = 0x00000053
	StatusInvRepFlag      Status = 0x00000054
	StatusInvNumMsgs      Status = 0x00000055
	StatusThrottled       Status = 0x00000058
	StatusInvSched        Status = 0x00000061
	StatusInvExpiry       Status = 0x00000062
	StatusInvDftMsgID     Status = 0x00000063
	StatusXTAppn          Status = 0x00000064
	StatusXPAppn          Status = 0x00000065
	StatusXRAppn          Status = 0x00000066
	StatusQueryFail       Status = 0x00000067
	StatusInvOptParStream Status = 0x000000C0
	StatusOptParNotAllwd  Status = 0x000000C1
	StatusInvParLen       Status = 0x000000C2
	StatusMissingOptParam Status = 0x000000C3
	StatusInvOptParamVal  Status = 0x000000C4
	StatusDeliveryFailure Status = 0x000000FE
	StatusUnknownErr      Status = 0x000000FF
)

var statusDescriptions = map[Status]string{
	StatusOK:              "No Error",
	StatusInvMsgLen:       "Message Length is invalid",
	StatusInvCmdLen:       "Command Length is invalid",
	StatusInvCmdID:        "Invalid Command ID",
	StatusInvBndSts:       "Incorrect BIND Status for given command",
	StatusAlyBnd:          "ESME Already in Bound State",
	StatusInvPrtFlg:       "Invalid Priority Flag",
	StatusInvRegDlvFlg:    "Invalid Registered Delivery Flag",
	StatusSysErr:          "System Error",
	StatusInvSrcAdr:       "Invalid Source Address",
	StatusInvDstAdr:       "Invalid Destination Address",
	StatusInvMsgID:        "Invalid Message ID",
	StatusBindFail:        "Bind Failed",
	StatusInvPaswd:        "Invalid Password",
	StatusInvSysID:        "Invalid System ID",
	StatusCancelFail:      "Cancel SM Failed",
	StatusReplaceFail:     "Replace SM Failed",
	StatusMsgQFul:         "Message Queue is full",
	StatusInvSerTyp:       "Invalid Service Type",
	StatusInvNumDests:     "Invalid number of destinations",
	StatusInvDLName:       "Invalid Distribution List name",
	StatusInvDestFlag:     "Invalid Destination Flag (submit_multi)",
	StatusInvSubRep:       "Invalid Submit With Replace request (replace_if_present_flag set)",
	StatusInvEsmClass:     "Invalid esm_class field data",
	StatusCntSubDL:        "Cannot submit to Distribution List",
	StatusSubmitFail:      "submit_sm or submit_multi failed",
	StatusInvSrcTON:       "Invalid Source address TON",
	StatusInvSrcNPI:       "Invalid Source address NPI",
	StatusInvDstTON:       "Invalid Destination address TON",
	StatusInvDstNPI:       "Invalid Destination address NPI",
	StatusInvSysTyp:       "Invalid system_type field",
	StatusInvRepFlag:      "Invalid replace_if_present flag",
	StatusInvNumMsgs:      "Invalid number of messages",
	StatusThrottled:       "Throttling error (ESME has exceeded allowed message limits)",
	StatusInvSched:        "Invalid Scheduled Delivery Time",
	StatusInvExpiry:       "Invalid message validity period (Expiry Time)",
	StatusInvDftMsgID:     "Predefined Message is invalid or not found",
	StatusXTAppn:          "ESME received Temporary App Error Code",
	StatusXPAppn:          "ESME received Permanent App Error Code",
	StatusXRAppn:          "ESME received Reject Message Error Code",
	StatusQueryFail:       "query_sm request failed",
	StatusInvOptParStream: "Error in the optional part of the PDU body",
	StatusOptParNotAllwd:  "Optional Parameter not allowed",
	StatusInvParLen:       "Invalid Parameter Length",
	StatusMissingOptParam: "Expected Optional Parameter missing",
	StatusInvOptParamVal:  "Invalid Optional Parameter Value",
	StatusDeliveryFailure: "Delivery Failure (used data_sm_resp)",
	StatusUnknownErr:      "Unknown Error",
}

// Description returns the SMPP description for a status code.
func (s Status) Description() string {
	if desc, ok := statusDescriptions[s]; ok {
		return desc
	}
	return fmt.Sprintf("Description for status 0x%x not found", uint32(s))
}

func (s Status) OK() bool {
	return s == StatusOK
}

func (s Status) String() string {
	return fmt.Sprintf("0x%08x", uint32(s))
}
