package protocol

// HeaderLen is the fixed size of every PDU header.
const HeaderLen = 16

// Interface versions carried in bind interface_version.
const (
	Version33 uint8 = 0x33
	Version34 uint8 = 0x34
)

// Type of number.
const (
	TONUnknown       uint8 = 0x00
	TONInternational uint8 = 0x01
	TONNational      uint8 = 0x02
	TONNetwork       uint8 = 0x03
	TONSubscriber    uint8 = 0x04
	TONAlphanumeric  uint8 = 0x05
	TONAbbreviated   uint8 = 0x06
)

// Numbering plan indicator.
const (
	NPIUnknown    uint8 = 0x00
	NPIISDN       uint8 = 0x01
	NPIData       uint8 = 0x03
	NPITelex      uint8 = 0x04
	NPILandMobile uint8 = 0x06
	NPINational   uint8 = 0x08
	NPIPrivate    uint8 = 0x09
	NPIERMES      uint8 = 0x0A
	NPIInternet   uint8 = 0x0E
	NPIWAP        uint8 = 0x12
)

// data_coding values.
const (
	CodingDefault   uint8 = 0x00
	CodingIA5       uint8 = 0x01
	CodingBinary    uint8 = 0x02
	CodingLatin1    uint8 = 0x03
	CodingBinary2   uint8 = 0x04
	CodingJIS       uint8 = 0x05
	CodingCyrillic  uint8 = 0x06
	CodingHebrew    uint8 = 0x07
	CodingUCS2      uint8 = 0x08
	CodingPictogram uint8 = 0x09
	CodingISO2022JP uint8 = 0x0A
	CodingExtJIS    uint8 = 0x0D
	CodingKSC5601   uint8 = 0x0E
)

// language_indicator values.
const (
	LangDefault uint8 = 0x00
	LangEnglish uint8 = 0x01
	LangFrench  uint8 = 0x02
	LangSpanish uint8 = 0x03
	LangGerman  uint8 = 0x04
)

// esm_class messaging mode bits.
const (
	MsgModeDefault      uint8 = 0x00
	MsgModeDatagram     uint8 = 0x01
	MsgModeForward      uint8 = 0x02
	MsgModeStoreForward uint8 = 0x03
)

// esm_class message type bits.
const (
	MsgTypeDefault     uint8 = 0x00
	MsgTypeDeliveryAck uint8 = 0x08
	MsgTypeUserAck     uint8 = 0x10
)

// esm_class GSM feature bits.
const (
	GSMFeatNone          uint8 = 0x00
	GSMFeatUDHI          uint8 = 0x40
	GSMFeatReplyPath     uint8 = 0x80
	GSMFeatUDHIReplyPath uint8 = 0xC0
)

// protocol_id values.
const (
	PIDDefault          uint8 = 0x00
	PIDReplaceIfPresent uint8 = 0x41
)

// User data header information element identifiers.
const (
	UDHIEConcat8  uint8 = 0x00
	UDHIESpecial  uint8 = 0x01
	UDHIEPort8    uint8 = 0x04
	UDHIEPort16   uint8 = 0x05
	UDHIEConcat16 uint8 = 0x08
)
