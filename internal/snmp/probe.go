package snmp

import (
	"errors"

	"firestige.xyz/ninox/internal/snmp/codec"
)

// ProbeResult classifies a byte prefix during protocol detection.
type ProbeResult uint8

const (
	// ProbeUndetermined means the prefix is too short to decide; ask again
	// with more bytes.
	ProbeUndetermined ProbeResult = iota

	// ProbeDetected means the prefix looks like an SNMP message envelope.
	ProbeDetected

	// ProbeRejected means the prefix is definitively not SNMP; detection
	// for this flow should stop.
	ProbeRejected
)

// minProbeLength is the smallest envelope worth classifying.
const minProbeLength = 4

// Probe guesses the SNMP version from the outer message envelope without
// decoding the message. An SNMPv1/v2c envelope is a 3-element sequence
// whose first element is the integer 0 or 1; an SNMPv3 envelope is a
// 4-element sequence starting with the integer 3. Probe has no side
// effects; it runs once per flow, before any session exists.
func Probe(buf []byte) (ProbeResult, Version) {
	if len(buf) < minProbeLength {
		return ProbeUndetermined, VersionUnknown
	}

	elems, first, firstIsInt, err := codec.PeekEnvelope(buf)
	if err != nil {
		if errors.Is(err, codec.ErrTruncated) {
			return ProbeUndetermined, VersionUnknown
		}
		return ProbeRejected, VersionUnknown
	}
	if !firstIsInt {
		return ProbeRejected, VersionUnknown
	}

	switch {
	case elems == 3 && first == 0:
		return ProbeDetected, Version1
	case elems == 3 && first == 1:
		return ProbeDetected, Version2c
	case elems == 4 && first == 3:
		return ProbeDetected, Version3
	}
	return ProbeRejected, VersionUnknown
}
