package codec

import (
	"fmt"
	"math"
)

// Decode parses one SNMP message from buf. It returns ErrTruncated (wrapped)
// when buf ends before the encoding does, and ErrMalformed (wrapped) when the
// bytes cannot be SNMP. Trailing bytes after the outer sequence are ignored.
func Decode(buf []byte) (Message, error) {
	tag, body, _, err := readTLV(buf)
	if err != nil {
		return nil, err
	}
	if tag != tagSequence {
		return nil, fmt.Errorf("%w: message is not a sequence", ErrMalformed)
	}

	version, rest, err := readInt(body)
	if err != nil {
		return nil, fmt.Errorf("version: %w", err)
	}

	switch version {
	case 0, 1:
		return decodeCommunityMessage(int(version), rest)
	case 3:
		return decodeV3Message(rest)
	default:
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformed, version)
	}
}

func decodeCommunityMessage(version int, buf []byte) (*CommunityMessage, error) {
	community, rest, err := readOctetString(buf)
	if err != nil {
		return nil, fmt.Errorf("community: %w", err)
	}

	pdu, err := decodePDUContainer(rest)
	if err != nil {
		return nil, err
	}
	return &CommunityMessage{
		Version:   version,
		Community: string(community),
		PDU:       *pdu,
	}, nil
}

// decodePDUContainer reads the context-specific constructed element holding
// the PDU and dispatches on its type tag.
func decodePDUContainer(buf []byte) (*PDU, error) {
	tag, body, _, err := readTLV(buf)
	if err != nil {
		return nil, fmt.Errorf("pdu: %w", err)
	}
	if tag&classMask != classContextConstructed {
		return nil, fmt.Errorf("%w: pdu tag 0x%02x is not context constructed", ErrMalformed, tag)
	}
	pduType := PduType(tag)
	if pduType > Report {
		return nil, fmt.Errorf("%w: unknown pdu type 0x%02x", ErrMalformed, tag)
	}
	return decodePDU(pduType, body)
}

func decodePDU(pduType PduType, body []byte) (*PDU, error) {
	switch pduType {
	case TrapV1:
		return decodeV1TrapPDU(body)
	case GetBulkRequest:
		return decodeBulkPDU(body)
	default:
		return decodeGenericPDU(pduType, body)
	}
}

func decodeGenericPDU(pduType PduType, body []byte) (*PDU, error) {
	requestID, rest, err := readInt(body)
	if err != nil {
		return nil, fmt.Errorf("request-id: %w", err)
	}
	if requestID < math.MinInt32 || requestID > math.MaxInt32 {
		return nil, fmt.Errorf("%w: request-id out of range", ErrMalformed)
	}
	errStatus, rest, err := readInt(rest)
	if err != nil {
		return nil, fmt.Errorf("error-status: %w", err)
	}
	errIndex, rest, err := readInt(rest)
	if err != nil {
		return nil, fmt.Errorf("error-index: %w", err)
	}
	varbinds, err := decodeVarbindList(rest)
	if err != nil {
		return nil, err
	}
	return &PDU{
		Type:        pduType,
		RequestID:   int32(requestID),
		ErrorStatus: ErrorStatus(errStatus),
		ErrorIndex:  int(errIndex),
		Varbinds:    varbinds,
	}, nil
}

func decodeBulkPDU(body []byte) (*PDU, error) {
	requestID, rest, err := readInt(body)
	if err != nil {
		return nil, fmt.Errorf("request-id: %w", err)
	}
	nonRepeaters, rest, err := readInt(rest)
	if err != nil {
		return nil, fmt.Errorf("non-repeaters: %w", err)
	}
	maxReps, rest, err := readInt(rest)
	if err != nil {
		return nil, fmt.Errorf("max-repetitions: %w", err)
	}
	varbinds, err := decodeVarbindList(rest)
	if err != nil {
		return nil, err
	}
	return &PDU{
		Type:           GetBulkRequest,
		RequestID:      int32(requestID),
		NonRepeaters:   int(nonRepeaters),
		MaxRepetitions: int(maxReps),
		Varbinds:       varbinds,
	}, nil
}

func decodeV1TrapPDU(body []byte) (*PDU, error) {
	tag, val, rest, err := readTLV(body)
	if err != nil {
		return nil, fmt.Errorf("enterprise: %w", err)
	}
	if tag != tagObjectIdentifier {
		return nil, fmt.Errorf("%w: enterprise is not an oid", ErrMalformed)
	}
	enterprise, err := parseObjectIdentifier(val)
	if err != nil {
		return nil, fmt.Errorf("enterprise: %w", err)
	}

	tag, val, rest, err = readTLV(rest)
	if err != nil {
		return nil, fmt.Errorf("agent-addr: %w", err)
	}
	// RFC 1157 NetworkAddress is application tag 0; tolerate a plain
	// octet string, some agents encode it that way.
	if tag != tagIPAddress && tag != tagOctetString {
		return nil, fmt.Errorf("%w: agent-addr tag 0x%02x", ErrMalformed, tag)
	}
	agentAddr, err := parseIPAddress(val)
	if err != nil {
		return nil, fmt.Errorf("agent-addr: %w", err)
	}

	genericTrap, rest, err := readInt(rest)
	if err != nil {
		return nil, fmt.Errorf("generic-trap: %w", err)
	}
	specificTrap, rest, err := readInt(rest)
	if err != nil {
		return nil, fmt.Errorf("specific-trap: %w", err)
	}

	tag, val, rest, err = readTLV(rest)
	if err != nil {
		return nil, fmt.Errorf("time-stamp: %w", err)
	}
	if tag != tagTimeTicks && tag != tagInteger {
		return nil, fmt.Errorf("%w: time-stamp tag 0x%02x", ErrMalformed, tag)
	}
	timestamp, err := parseInt(val)
	if err != nil {
		return nil, fmt.Errorf("time-stamp: %w", err)
	}

	varbinds, err := decodeVarbindList(rest)
	if err != nil {
		return nil, err
	}
	return &PDU{
		Type: TrapV1,
		Trap: &V1TrapInfo{
			Enterprise:   enterprise,
			AgentAddr:    agentAddr,
			GenericTrap:  TrapType(genericTrap),
			SpecificTrap: int(specificTrap),
			Timestamp:    uint32(timestamp),
		},
		Varbinds: varbinds,
	}, nil
}

func decodeVarbindList(buf []byte) ([]Varbind, error) {
	tag, body, _, err := readTLV(buf)
	if err != nil {
		return nil, fmt.Errorf("varbind list: %w", err)
	}
	if tag != tagSequence {
		return nil, fmt.Errorf("%w: varbind list is not a sequence", ErrMalformed)
	}

	var varbinds []Varbind
	for len(body) > 0 {
		var inner []byte
		tag, inner, body, err = readTLV(body)
		if err != nil {
			return nil, fmt.Errorf("varbind: %w", err)
		}
		if tag != tagSequence {
			return nil, fmt.Errorf("%w: varbind is not a sequence", ErrMalformed)
		}

		vtag, val, rest, err := readTLV(inner)
		if err != nil {
			return nil, fmt.Errorf("varbind oid: %w", err)
		}
		if vtag != tagObjectIdentifier {
			return nil, fmt.Errorf("%w: varbind name is not an oid", ErrMalformed)
		}
		oid, err := parseObjectIdentifier(val)
		if err != nil {
			return nil, fmt.Errorf("varbind oid: %w", err)
		}

		vtag, val, _, err = readTLV(rest)
		if err != nil {
			return nil, fmt.Errorf("varbind value: %w", err)
		}
		varbinds = append(varbinds, Varbind{
			Oid:   oid,
			Value: RawValue{Tag: vtag, Bytes: val},
		})
	}
	return varbinds, nil
}

func decodeV3Message(buf []byte) (*V3Message, error) {
	tag, header, rest, err := readTLV(buf)
	if err != nil {
		return nil, fmt.Errorf("v3 header: %w", err)
	}
	if tag != tagSequence {
		return nil, fmt.Errorf("%w: v3 header is not a sequence", ErrMalformed)
	}

	msgID, hrest, err := readInt(header)
	if err != nil {
		return nil, fmt.Errorf("msg-id: %w", err)
	}
	maxSize, hrest, err := readInt(hrest)
	if err != nil {
		return nil, fmt.Errorf("msg-max-size: %w", err)
	}
	flags, hrest, err := readOctetString(hrest)
	if err != nil {
		return nil, fmt.Errorf("msg-flags: %w", err)
	}
	if len(flags) != 1 {
		return nil, fmt.Errorf("%w: msg-flags must be one byte", ErrMalformed)
	}
	secModel, _, err := readInt(hrest)
	if err != nil {
		return nil, fmt.Errorf("msg-security-model: %w", err)
	}

	secParams, rest, err := readOctetString(rest)
	if err != nil {
		return nil, fmt.Errorf("security parameters: %w", err)
	}

	msg := &V3Message{
		Version: 3,
		Header: V3Header{
			MsgID:         int32(msgID),
			MaxSize:       int32(maxSize),
			Flags:         flags[0],
			SecurityModel: int(secModel),
		},
		RawSecParams: secParams,
	}

	if msg.Header.SecurityModel == SecurityModelUSM {
		usm, err := decodeUSMParams(secParams)
		if err != nil {
			return nil, err
		}
		msg.USM = usm
	}

	tag, data, _, err := readTLV(rest)
	if err != nil {
		return nil, fmt.Errorf("scoped pdu: %w", err)
	}
	switch tag {
	case tagOctetString:
		// encryptedPDU: ciphertext, left opaque
		msg.Encrypted = true
		msg.EncryptedPDU = data
	case tagSequence:
		scoped, err := decodeScopedPDU(data)
		if err != nil {
			return nil, err
		}
		msg.ScopedPDU = scoped
	default:
		return nil, fmt.Errorf("%w: scoped pdu tag 0x%02x", ErrMalformed, tag)
	}
	return msg, nil
}

func decodeUSMParams(buf []byte) (*USMSecurityParams, error) {
	tag, body, _, err := readTLV(buf)
	if err != nil {
		return nil, fmt.Errorf("usm: %w", err)
	}
	if tag != tagSequence {
		return nil, fmt.Errorf("%w: usm parameters are not a sequence", ErrMalformed)
	}

	engineID, rest, err := readOctetString(body)
	if err != nil {
		return nil, fmt.Errorf("usm engine-id: %w", err)
	}
	boots, rest, err := readInt(rest)
	if err != nil {
		return nil, fmt.Errorf("usm engine-boots: %w", err)
	}
	engineTime, rest, err := readInt(rest)
	if err != nil {
		return nil, fmt.Errorf("usm engine-time: %w", err)
	}
	userName, rest, err := readOctetString(rest)
	if err != nil {
		return nil, fmt.Errorf("usm user-name: %w", err)
	}
	authParams, rest, err := readOctetString(rest)
	if err != nil {
		return nil, fmt.Errorf("usm auth-params: %w", err)
	}
	privParams, _, err := readOctetString(rest)
	if err != nil {
		return nil, fmt.Errorf("usm priv-params: %w", err)
	}
	return &USMSecurityParams{
		AuthEngineID:    engineID,
		AuthEngineBoots: int(boots),
		AuthEngineTime:  int(engineTime),
		UserName:        string(userName),
		AuthParams:      authParams,
		PrivParams:      privParams,
	}, nil
}

func decodeScopedPDU(body []byte) (*ScopedPDU, error) {
	engineID, rest, err := readOctetString(body)
	if err != nil {
		return nil, fmt.Errorf("context engine-id: %w", err)
	}
	name, rest, err := readOctetString(rest)
	if err != nil {
		return nil, fmt.Errorf("context name: %w", err)
	}
	pdu, err := decodePDUContainer(rest)
	if err != nil {
		return nil, err
	}
	return &ScopedPDU{
		ContextEngineID: engineID,
		ContextName:     string(name),
		PDU:             *pdu,
	}, nil
}

// PeekEnvelope inspects only the outer shape of a message: it confirms the
// buffer starts with a sequence, counts the sequence's immediate children,
// and reports the value of the first child when it is an INTEGER. Nothing
// deeper is decoded; protocol detection uses this before a session exists.
func PeekEnvelope(buf []byte) (elems int, first int64, firstIsInt bool, err error) {
	tag, body, _, err := readTLV(buf)
	if err != nil {
		return 0, 0, false, err
	}
	if tag != tagSequence {
		return 0, 0, false, fmt.Errorf("%w: not a sequence", ErrMalformed)
	}

	for len(body) > 0 {
		var etag byte
		var val []byte
		etag, val, body, err = readTLV(body)
		if err != nil {
			return 0, 0, false, err
		}
		if elems == 0 && etag == tagInteger {
			if first, err = parseInt(val); err != nil {
				return 0, 0, false, err
			}
			firstIsInt = true
		}
		elems++
	}
	return elems, first, firstIsInt, nil
}
