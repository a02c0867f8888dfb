// Package core defines core data structures with zero external dependencies.
package core

import (
	"net/netip"
	"time"
)

// DecodedPacket is the result of L2-L4 protocol stack decoding, as delivered
// by the host capture pipeline. Only the fields the inspector needs are kept.
type DecodedPacket struct {
	Timestamp time.Time
	IP        IPHeader
	Transport TransportHeader
	Payload   []byte // Application layer payload, zero-copy slice
}

// OutputRecord is the final per-transaction output handed to reporters.
type OutputRecord struct {
	Timestamp time.Time

	// Network context
	SrcIP    netip.Addr
	DstIP    netip.Addr
	SrcPort  uint16
	DstPort  uint16
	Protocol uint8

	// Labels — parser annotations
	Labels Labels

	// Typed payload — the parser's structured result. Reporters do a type
	// assertion based on PayloadType.
	PayloadType string
	Payload     any
}
