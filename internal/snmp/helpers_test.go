package snmp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"firestige.xyz/ninox/internal/snmp/codec"
)

func mustDecode(t *testing.T, buf []byte) codec.Message {
	t.Helper()
	msg, err := codec.Decode(buf)
	require.NoError(t, err)
	return msg
}

// Minimal BER construction for test vectors. Only short/long definite
// lengths and the handful of types SNMP envelopes need.

func tlv(tag byte, content []byte) []byte {
	n := len(content)
	if n < 0x80 {
		return append([]byte{tag, byte(n)}, content...)
	}
	return append([]byte{tag, 0x81, byte(n)}, content...)
}

func berInt(v int) []byte {
	if v < 0x80 {
		return tlv(0x02, []byte{byte(v)})
	}
	return tlv(0x02, []byte{byte(v >> 8), byte(v)})
}

func berStr(s string) []byte {
	return tlv(0x04, []byte(s))
}

func berSeq(elems ...[]byte) []byte {
	return berConstructed(0x30, elems...)
}

func berConstructed(tag byte, elems ...[]byte) []byte {
	var body []byte
	for _, e := range elems {
		body = append(body, e...)
	}
	return tlv(tag, body)
}

// sysDescrOID is .1.3.6.1.2.1.1.1.0 in wire form.
var sysDescrOID = tlv(0x06, []byte{0x2b, 6, 1, 2, 1, 1, 1, 0})

// sysUpTimeOID is .1.3.6.1.2.1.1.3.0 in wire form.
var sysUpTimeOID = tlv(0x06, []byte{0x2b, 6, 1, 2, 1, 1, 3, 0})

func varbindNull(oid []byte) []byte {
	return berSeq(oid, tlv(0x05, nil))
}

// communityRequest builds a v1/v2c get-request (wire version 0 or 1).
func communityRequest(wireVersion int, community string, oids ...[]byte) []byte {
	vbs := make([][]byte, 0, len(oids))
	for _, oid := range oids {
		vbs = append(vbs, varbindNull(oid))
	}
	pdu := berConstructed(0xa0, berInt(1), berInt(0), berInt(0), berSeq(vbs...))
	return berSeq(berInt(wireVersion), berStr(community), pdu)
}

// v3Request builds a v3 message with a USM security blob.
func v3Request(user string, encrypted bool) []byte {
	header := berSeq(berInt(100), berInt(65507), berStr("\x04"), berInt(3))
	usm := berSeq(berStr("engine01"), berInt(1), berInt(5),
		berStr(user), berStr(""), berStr(""))

	var scoped []byte
	if encrypted {
		scoped = berStr("\x99\x88\x77\x66\x55\x44")
	} else {
		pdu := berConstructed(0xa0, berInt(1), berInt(0), berInt(0),
			berSeq(varbindNull(sysDescrOID)))
		scoped = berSeq(berStr("engine01"), berStr(""), pdu)
	}
	return berSeq(berInt(3), header, tlv(0x04, usm), scoped)
}

// v3NonUSMRequest builds a v3 message declaring security model 42 with an
// opaque security blob.
func v3NonUSMRequest() []byte {
	header := berSeq(berInt(100), berInt(65507), berStr("\x04"), berInt(42))
	pdu := berConstructed(0xa0, berInt(1), berInt(0), berInt(0),
		berSeq(varbindNull(sysDescrOID)))
	scoped := berSeq(berStr("engine01"), berStr(""), pdu)
	return berSeq(berInt(3), header, berStr("\x01\x02\x03"), scoped)
}
