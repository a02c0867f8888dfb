package codec

import (
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

// BER universal tags used by SNMP, plus the SNMP application tags.
const (
	tagInteger          = 0x02
	tagOctetString      = 0x04
	tagNull             = 0x05
	tagObjectIdentifier = 0x06
	tagSequence         = 0x30

	tagIPAddress = 0x40 // application 0
	tagTimeTicks = 0x43 // application 3

	// Context-specific constructed class; PDU type lives in the low bits.
	classContextConstructed = 0xa0
	classMask               = 0xe0
	tagMask                 = 0x1f
)

var (
	// ErrTruncated means the buffer ends before the encoding does; the
	// caller may retry with more bytes.
	ErrTruncated = errors.New("ninox: truncated message")

	// ErrMalformed means the bytes cannot be a BER-encoded SNMP message.
	ErrMalformed = errors.New("ninox: malformed message")
)

// readTLV splits one tag-length-value element off the front of buf.
// Indefinite lengths are rejected; SNMP uses definite-length BER only.
func readTLV(buf []byte) (tag byte, val []byte, rest []byte, err error) {
	if len(buf) < 2 {
		return 0, nil, nil, ErrTruncated
	}
	tag = buf[0]

	length := int(buf[1])
	cursor := 2
	if length&0x80 != 0 {
		n := length & 0x7f
		if n == 0 || n > 4 {
			return 0, nil, nil, fmt.Errorf("%w: bad length form", ErrMalformed)
		}
		if len(buf) < 2+n {
			return 0, nil, nil, ErrTruncated
		}
		length = 0
		for i := 0; i < n; i++ {
			length = length<<8 | int(buf[2+i])
		}
		cursor = 2 + n
	}

	if length > len(buf)-cursor {
		return 0, nil, nil, ErrTruncated
	}
	return tag, buf[cursor : cursor+length], buf[cursor+length:], nil
}

// readInt consumes one INTEGER element.
func readInt(buf []byte) (int64, []byte, error) {
	tag, val, rest, err := readTLV(buf)
	if err != nil {
		return 0, nil, err
	}
	if tag != tagInteger {
		return 0, nil, fmt.Errorf("%w: expected integer, got tag 0x%02x", ErrMalformed, tag)
	}
	v, err := parseInt(val)
	if err != nil {
		return 0, nil, err
	}
	return v, rest, nil
}

// readOctetString consumes one OCTET STRING element.
func readOctetString(buf []byte) ([]byte, []byte, error) {
	tag, val, rest, err := readTLV(buf)
	if err != nil {
		return nil, nil, err
	}
	if tag != tagOctetString {
		return nil, nil, fmt.Errorf("%w: expected octet string, got tag 0x%02x", ErrMalformed, tag)
	}
	return val, rest, nil
}

// parseInt decodes a two's complement big-endian BER integer body.
func parseInt(val []byte) (int64, error) {
	if len(val) == 0 {
		return 0, fmt.Errorf("%w: empty integer", ErrMalformed)
	}
	if len(val) > 8 {
		return 0, fmt.Errorf("%w: integer too large", ErrMalformed)
	}
	var ret int64
	for _, b := range val {
		ret = ret<<8 | int64(b)
	}
	// Sign-extend.
	ret <<= 64 - uint8(len(val))*8
	ret >>= 64 - uint8(len(val))*8
	return ret, nil
}

// parseObjectIdentifier decodes an OID body into dotted string form
// (".1.3.6.1.2.1").
func parseObjectIdentifier(val []byte) (string, error) {
	if len(val) == 0 {
		return "", fmt.Errorf("%w: empty object identifier", ErrMalformed)
	}

	// X.690: the first octet encodes the first two arcs as 40*a+b. Arcs 0
	// and 1 only allow b < 40; everything from 80 up belongs to arc 2.
	first, second := int(val[0])/40, int(val[0])%40
	if val[0] >= 80 {
		first, second = 2, int(val[0])-80
	}

	var sb strings.Builder
	sb.WriteByte('.')
	sb.WriteString(strconv.Itoa(first))
	sb.WriteByte('.')
	sb.WriteString(strconv.Itoa(second))

	var sub int64
	pending := false
	for _, b := range val[1:] {
		if sub > 1<<55 {
			return "", fmt.Errorf("%w: oid subidentifier overflow", ErrMalformed)
		}
		sub = sub<<7 | int64(b&0x7f)
		pending = true
		if b&0x80 == 0 {
			sb.WriteByte('.')
			sb.WriteString(strconv.FormatInt(sub, 10))
			sub = 0
			pending = false
		}
	}
	if pending {
		return "", fmt.Errorf("%w: unterminated oid subidentifier", ErrMalformed)
	}
	return sb.String(), nil
}

// parseIPAddress decodes the 4-byte NetworkAddress body of a v1 trap.
func parseIPAddress(val []byte) (netip.Addr, error) {
	if len(val) != 4 {
		return netip.Addr{}, fmt.Errorf("%w: address must be 4 bytes, got %d", ErrMalformed, len(val))
	}
	return netip.AddrFrom4([4]byte(val)), nil
}
