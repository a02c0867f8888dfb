// Package snmp implements the SNMP session/transaction tracker: protocol
// version detection, per-flow session state, transaction records with
// anomaly events, and the pull-based iterator used by a detection engine.
//
// ID convention: transaction IDs are assigned 1-based internally and are
// strictly increasing per session. Every exported surface (Transaction.ID,
// Session.GetByID/FreeByID, Session.NextTx) speaks the external 0-based
// convention; the translation happens only inside this package.
package snmp

// Version is the negotiated SNMP protocol version of a session or the
// normalized version of a single transaction.
type Version uint8

const (
	VersionUnknown Version = 0
	Version1       Version = 1
	Version2c      Version = 2
	Version3       Version = 3
)

func (v Version) String() string {
	switch v {
	case Version1:
		return "v1"
	case Version2c:
		return "v2c"
	case Version3:
		return "v3"
	}
	return "unknown"
}

// versionFromWire normalizes the wire-encoded version integer
// (0 → v1, 1 → v2c, 3 → v3).
func versionFromWire(wire int) Version {
	switch wire {
	case 0:
		return Version1
	case 1:
		return Version2c
	case 3:
		return Version3
	}
	return VersionUnknown
}

// Direction tags which side of the flow a buffer was observed on.
type Direction uint8

const (
	DirToServer Direction = iota
	DirToClient
)

func (d Direction) String() string {
	if d == DirToClient {
		return "to_client"
	}
	return "to_server"
}
