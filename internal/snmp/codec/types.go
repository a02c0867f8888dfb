// Package codec decodes SNMP messages from raw BER-encoded buffers.
// It understands the three wire formats (SNMPv1, SNMPv2c, SNMPv3) and
// produces a structured message without interpreting varbind values.
package codec

import "net/netip"

// PduType is the context-specific tag of the PDU container.
type PduType byte

const (
	GetRequest     PduType = 0xa0
	GetNextRequest PduType = 0xa1
	GetResponse    PduType = 0xa2
	SetRequest     PduType = 0xa3
	TrapV1         PduType = 0xa4
	GetBulkRequest PduType = 0xa5
	InformRequest  PduType = 0xa6
	SNMPv2Trap     PduType = 0xa7
	Report         PduType = 0xa8
)

func (t PduType) String() string {
	switch t {
	case GetRequest:
		return "get-request"
	case GetNextRequest:
		return "get-next-request"
	case GetResponse:
		return "response"
	case SetRequest:
		return "set-request"
	case TrapV1:
		return "trap-v1"
	case GetBulkRequest:
		return "get-bulk-request"
	case InformRequest:
		return "inform-request"
	case SNMPv2Trap:
		return "trap-v2"
	case Report:
		return "report"
	}
	return "unknown"
}

// ErrorStatus is the error-status field of a generic PDU (RFC 3416).
type ErrorStatus int

const (
	NoError             ErrorStatus = 0
	TooBig              ErrorStatus = 1
	NoSuchName          ErrorStatus = 2
	BadValue            ErrorStatus = 3
	ReadOnly            ErrorStatus = 4
	GenErr              ErrorStatus = 5
	NoAccess            ErrorStatus = 6
	WrongType           ErrorStatus = 7
	WrongLength         ErrorStatus = 8
	WrongEncoding       ErrorStatus = 9
	WrongValue          ErrorStatus = 10
	NoCreation          ErrorStatus = 11
	InconsistentValue   ErrorStatus = 12
	ResourceUnavailable ErrorStatus = 13
	CommitFailed        ErrorStatus = 14
	UndoFailed          ErrorStatus = 15
	AuthorizationError  ErrorStatus = 16
	NotWritable         ErrorStatus = 17
	InconsistentName    ErrorStatus = 18
)

// TrapType is the generic-trap field of an SNMPv1 trap PDU (RFC 1157).
type TrapType int

const (
	ColdStart             TrapType = 0
	WarmStart             TrapType = 1
	LinkDown              TrapType = 2
	LinkUp                TrapType = 3
	AuthenticationFailure TrapType = 4
	EGPNeighborLoss       TrapType = 5
	EnterpriseSpecific    TrapType = 6
)

// RawValue keeps a varbind value undecoded: the summary only needs OIDs.
type RawValue struct {
	Tag   byte
	Bytes []byte
}

// Varbind is one OID/value pair, in wire order.
type Varbind struct {
	Oid   string
	Value RawValue
}

// V1TrapInfo holds the header fields specific to an SNMPv1 trap PDU.
type V1TrapInfo struct {
	Enterprise   string
	AgentAddr    netip.Addr
	GenericTrap  TrapType
	SpecificTrap int
	Timestamp    uint32
}

// PDU is the decoded protocol data unit. Which fields are meaningful
// depends on Type: generic PDUs carry RequestID/ErrorStatus/ErrorIndex,
// GetBulkRequest reuses the error fields as NonRepeaters/MaxRepetitions,
// and TrapV1 carries Trap instead of a request header.
type PDU struct {
	Type           PduType
	RequestID      int32
	ErrorStatus    ErrorStatus
	ErrorIndex     int
	NonRepeaters   int
	MaxRepetitions int
	Trap           *V1TrapInfo
	Varbinds       []Varbind
}

// Message is one decoded SNMP message: *CommunityMessage for v1/v2c,
// *V3Message for v3.
type Message interface {
	// WireVersion is the version integer as encoded on the wire:
	// 0 for SNMPv1, 1 for SNMPv2c, 3 for SNMPv3.
	WireVersion() int
}

// CommunityMessage is an SNMPv1 or SNMPv2c message.
type CommunityMessage struct {
	Version   int // 0 or 1
	Community string
	PDU       PDU
}

func (m *CommunityMessage) WireVersion() int { return m.Version }

// V3 message flags.
const (
	V3FlagAuth       = 0x01
	V3FlagPriv       = 0x02
	V3FlagReportable = 0x04
)

// SecurityModelUSM is the registered number of the user-based security model.
const SecurityModelUSM = 3

// V3Header is msgGlobalData of an SNMPv3 message (RFC 3412).
type V3Header struct {
	MsgID         int32
	MaxSize       int32
	Flags         byte
	SecurityModel int
}

// USMSecurityParams are the decoded user-based security model parameters
// (RFC 3414). Only identity is extracted; nothing is verified.
type USMSecurityParams struct {
	AuthEngineID    []byte
	AuthEngineBoots int
	AuthEngineTime  int
	UserName        string
	AuthParams      []byte
	PrivParams      []byte
}

// ScopedPDU is the plaintext scoped PDU of an SNMPv3 message.
type ScopedPDU struct {
	ContextEngineID []byte
	ContextName     string
	PDU             PDU
}

// V3Message is an SNMPv3 message. When the security model is USM the
// parameters are decoded into USM; otherwise the raw parameter octets are
// kept and USM is nil. When the priv flag is set the scoped PDU stays as
// opaque ciphertext in EncryptedPDU and ScopedPDU is nil.
type V3Message struct {
	Version      int // always 3
	Header       V3Header
	USM          *USMSecurityParams
	RawSecParams []byte
	ScopedPDU    *ScopedPDU
	Encrypted    bool
	EncryptedPDU []byte
}

func (m *V3Message) WireVersion() int { return m.Version }
