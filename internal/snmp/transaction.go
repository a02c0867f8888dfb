package snmp

import (
	"net/netip"

	"firestige.xyz/ninox/internal/snmp/codec"
)

// TrapInfo summarizes the header of an SNMPv1 trap PDU.
type TrapInfo struct {
	Type       codec.TrapType
	Enterprise string
	AgentAddr  netip.Addr
}

// PduSummary is an immutable snapshot of a decoded PDU: type, error status
// (generic PDUs only), trap header (v1 traps only) and every OID referenced
// by the PDU's varbinds, in wire order. A PDU is never decoded twice.
type PduSummary struct {
	Type        codec.PduType
	ErrorStatus codec.ErrorStatus
	Trap        *TrapInfo
	Oids        []string
}

// Transaction is one observed SNMP message. Version, Summary, Community,
// SecurityUser and Encrypted are populated at creation and read-only once
// the transaction is pushed into a session; only the anomaly events and the
// detection state may change afterwards.
type Transaction struct {
	// Version is the normalized protocol version at creation time.
	Version Version

	// Summary is the PDU snapshot, absent when the scoped PDU is encrypted.
	Summary *PduSummary

	// Community is set for v1/v2c messages only.
	Community string

	// SecurityUser is the USM user name, v3 messages only.
	SecurityUser string

	// Encrypted is true when the v3 scoped PDU was ciphertext.
	Encrypted bool

	id          uint64 // internal 1-based ID
	events      []Event
	detectState any
}

func newTransaction(version Version, id uint64) *Transaction {
	return &Transaction{
		Version: version,
		id:      id,
	}
}

// ID returns the externally visible transaction ID. External IDs are
// 0-based: the first transaction of a session has ID 0.
func (tx *Transaction) ID() uint64 {
	return tx.id - 1
}

// AddEvent appends an anomaly event. Duplicates are possible when the same
// condition is detected twice; consumers see the accumulated list.
func (tx *Transaction) AddEvent(e Event) {
	tx.events = append(tx.events, e)
}

// Events returns the accumulated anomaly events.
func (tx *Transaction) Events() []Event {
	return tx.events
}

// HasEvent reports whether e has been recorded on this transaction.
func (tx *Transaction) HasEvent(e Event) bool {
	for _, ev := range tx.events {
		if ev == e {
			return true
		}
	}
	return false
}

// SetDetectState attaches the detection engine's opaque per-transaction
// state. The tracker stores the handle without ever interpreting it.
func (tx *Transaction) SetDetectState(state any) {
	tx.detectState = state
}

// DetectState returns the attached detection state, nil if none.
func (tx *Transaction) DetectState() any {
	return tx.detectState
}

// Progress reports transaction completeness for the given direction.
// SNMP has no partial-transaction notion: a transaction is complete in
// both directions the moment it is created.
func (tx *Transaction) Progress(Direction) int {
	return 1
}

// buildPduSummary snapshots the decoded PDU. The error status is only
// meaningful for generic PDUs; bulk requests reuse those fields and v1
// traps have no request header at all.
func buildPduSummary(pdu *codec.PDU) *PduSummary {
	s := &PduSummary{Type: pdu.Type}
	switch pdu.Type {
	case codec.GetBulkRequest:
	case codec.TrapV1:
		s.Trap = &TrapInfo{
			Type:       pdu.Trap.GenericTrap,
			Enterprise: pdu.Trap.Enterprise,
			AgentAddr:  pdu.Trap.AgentAddr,
		}
	default:
		s.ErrorStatus = pdu.ErrorStatus
	}
	for _, vb := range pdu.Varbinds {
		s.Oids = append(s.Oids, vb.Oid)
	}
	return s
}
