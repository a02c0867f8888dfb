// Package core defines core types with zero external dependencies.
package core

import "net/netip"

// IPHeader represents L3 IP header (IPv4/IPv6).
type IPHeader struct {
	Version  uint8
	SrcIP    netip.Addr
	DstIP    netip.Addr
	Protocol uint8 // TCP=6, UDP=17
	TTL      uint8
}

// TransportHeader represents L4 transport layer header (TCP/UDP).
type TransportHeader struct {
	SrcPort  uint16
	DstPort  uint16
	Protocol uint8
}
