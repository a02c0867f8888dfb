package snmp

import (
	"firestige.xyz/ninox/internal/snmp"
	"firestige.xyz/ninox/pkg/plugin"
)

// Detection depth bounds handed to the host: probing may start on the
// first byte and gives up after 16.
const (
	minProbeDepth = 0
	maxProbeDepth = 16
)

// NewRegistration describes the SNMP inspector to the host pipeline.
// proto is the identifier the host allocated for SNMP; the probe entry
// points capture it by value, so no registration state is shared.
// SNMP envelopes look the same in both directions, hence one probe serves
// request and response sides alike.
func NewRegistration(proto plugin.AppProto, ports []uint16) plugin.Registration {
	if len(ports) == 0 {
		ports = defaultPorts
	}

	probe := func(buf []byte) plugin.AppProto {
		switch res, _ := snmp.Probe(buf); res {
		case snmp.ProbeDetected:
			return proto
		case snmp.ProbeUndetermined:
			return plugin.ProtoUnknown
		default:
			return plugin.ProtoFailed
		}
	}

	return plugin.Registration{
		Name:          "snmp",
		IPProto:       protoUDP,
		Ports:         ports,
		MinDepth:      minProbeDepth,
		MaxDepth:      maxProbeDepth,
		ProbeToServer: probe,
		ProbeToClient: probe,
	}
}
