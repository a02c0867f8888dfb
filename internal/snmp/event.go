package snmp

// Event is a protocol anomaly code attached to a transaction.
type Event uint8

const (
	// EventMalformedData marks a buffer that failed to decode. Because no
	// transaction exists for such a buffer, it lands on the most recently
	// created transaction in the session.
	EventMalformedData Event = iota

	// EventUnknownSecurityModel marks a v3 message whose security
	// parameters are not user-based (USM).
	EventUnknownSecurityModel

	// EventVersionMismatch marks a message whose declared version differs
	// from the session's established version.
	EventVersionMismatch
)

// eventNames are the stable names used by the host alert/log subsystem.
var eventNames = map[Event]string{
	EventMalformedData:        "malformed_data",
	EventUnknownSecurityModel: "unknown_security_model",
	EventVersionMismatch:      "version_mismatch",
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return "unknown"
}

// EventName resolves an event code to its stable name.
func EventName(e Event) (string, bool) {
	name, ok := eventNames[e]
	return name, ok
}

// EventByName resolves a stable name back to its event code.
func EventByName(name string) (Event, bool) {
	for e, n := range eventNames {
		if n == name {
			return e, true
		}
	}
	return 0, false
}
