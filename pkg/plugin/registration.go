package plugin

// AppProto identifies a registered application protocol. Concrete values
// are allocated by the host at registration time; a prober receives the
// allocated value as an argument instead of reading shared state.
type AppProto uint16

const (
	// ProtoUnknown is returned by a probe that needs more bytes.
	ProtoUnknown AppProto = 0

	// ProtoFailed is returned by a probe that has ruled the protocol out.
	ProtoFailed AppProto = 1
)

// ProbeFunc classifies a byte prefix observed on one direction of a flow.
// It returns the protocol's allocated identifier on a match, ProtoUnknown
// when undecided and ProtoFailed on a definitive mismatch.
type ProbeFunc func(buf []byte) AppProto

// Registration describes a protocol inspector to the host pipeline.
type Registration struct {
	Name     string
	IPProto  uint8    // transport protocol number (17 = UDP)
	Ports    []uint16 // default service ports
	MinDepth int      // bytes required before probing is attempted
	MaxDepth int      // bytes to inspect before detection gives up

	ProbeToServer ProbeFunc
	ProbeToClient ProbeFunc
}
