package snmp

import (
	"fmt"

	"firestige.xyz/ninox/internal/core"
	"firestige.xyz/ninox/internal/log"
	"firestige.xyz/ninox/internal/snmp/codec"
)

// Session is the per-flow tracker state. It owns the ordered transaction
// list, the negotiated protocol version and the ID counter. A session is
// uninitialized until the first message commits a version, then stays on
// that version; later disagreeing messages are tagged, never rejected.
//
// All mutation is serialized by the host's per-flow processing model;
// Session performs no locking of its own.
type Session struct {
	version      Version
	transactions []*Transaction
	txID         uint64 // last assigned internal ID
}

// NewSession creates the tracker state for a freshly detected flow.
func NewSession() *Session {
	return &Session{}
}

// Version returns the session's established protocol version,
// VersionUnknown before the first message.
func (s *Session) Version() Version {
	return s.version
}

// Parse handles one raw buffer observed on the flow. A decode failure is
// reported to the caller and raises a MalformedData anomaly, but leaves the
// session usable for subsequent buffers.
func (s *Session) Parse(buf []byte, dir Direction) error {
	if s.version == VersionUnknown {
		if res, v := Probe(buf); res == ProbeDetected {
			s.version = v
		}
	}

	msg, err := codec.Decode(buf)
	if err != nil {
		log.GetLogger().WithError(err).Debug("snmp decode failed")
		s.HandleDecodeFailure()
		return fmt.Errorf("%w: %w", core.ErrMalformedMessage, err)
	}

	s.HandleMessage(msg, dir)
	return nil
}

// HandleMessage builds a transaction from a decoded message, appends it to
// the session and returns its external ID. It never fails: a message that
// flunks the version check still produces a (tagged) transaction.
func (s *Session) HandleMessage(msg codec.Message, dir Direction) uint64 {
	var tx *Transaction
	switch m := msg.(type) {
	case *codec.CommunityMessage:
		tx = s.handleCommunityMessage(m)
	case *codec.V3Message:
		tx = s.handleV3Message(m)
	default:
		// The decoder produces no other variants.
		tx = s.newTx(VersionUnknown)
	}
	s.transactions = append(s.transactions, tx)
	return tx.ID()
}

func (s *Session) handleCommunityMessage(msg *codec.CommunityMessage) *Transaction {
	version := versionFromWire(msg.Version)
	tx := s.newTx(version)
	s.checkVersion(tx, version)
	tx.Summary = buildPduSummary(&msg.PDU)
	tx.Community = msg.Community
	return tx
}

func (s *Session) handleV3Message(msg *codec.V3Message) *Transaction {
	version := versionFromWire(msg.Version)
	tx := s.newTx(version)
	s.checkVersion(tx, version)

	if msg.Encrypted {
		tx.Encrypted = true
	} else {
		tx.Summary = buildPduSummary(&msg.ScopedPDU.PDU)
	}

	if msg.USM != nil {
		tx.SecurityUser = msg.USM.UserName
	} else {
		tx.AddEvent(EventUnknownSecurityModel)
	}
	return tx
}

// checkVersion commits the session version on first use and tags the
// transaction when a later message disagrees with it.
func (s *Session) checkVersion(tx *Transaction, version Version) {
	if s.version == VersionUnknown {
		s.version = version
		return
	}
	if s.version != version {
		log.GetLogger().Debugf("snmp version mismatch: expected %s, received %s", s.version, version)
		tx.AddEvent(EventVersionMismatch)
	}
}

func (s *Session) newTx(version Version) *Transaction {
	s.txID++
	return newTransaction(version, s.txID)
}

// HandleDecodeFailure records a MalformedData anomaly. No transaction exists
// for a buffer that failed to decode, so the event lands on the most
// recently created transaction; with an empty session it is dropped.
func (s *Session) HandleDecodeFailure() {
	if len(s.transactions) == 0 {
		log.GetLogger().Debug("snmp decode failure before first transaction, event dropped")
		return
	}
	s.transactions[len(s.transactions)-1].AddEvent(EventMalformedData)
}

// GetByID returns the live transaction with the given external (0-based)
// ID. The scan runs newest-first: the detection engine mostly asks for
// recently created transactions.
func (s *Session) GetByID(id uint64) (*Transaction, bool) {
	for i := len(s.transactions) - 1; i >= 0; i-- {
		if s.transactions[i].id == id+1 {
			return s.transactions[i], true
		}
	}
	return nil, false
}

// FreeByID removes exactly the transaction with the given external ID and
// releases its event list and detection-state handle. The host tracks live
// IDs, so a miss is a consistency fault and is logged as an error rather
// than silently accepted.
func (s *Session) FreeByID(id uint64) bool {
	for i, tx := range s.transactions {
		if tx.id == id+1 {
			tx.events = nil
			tx.detectState = nil
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return true
		}
	}
	log.GetLogger().WithField("tx_id", id).Error("snmp free for unknown transaction id")
	return false
}

// Count returns the total number of transactions ever created in this
// session, independent of how many have since been freed.
func (s *Session) Count() uint64 {
	return s.txID
}

// Live returns the number of transactions not yet freed.
func (s *Session) Live() int {
	return len(s.transactions)
}

// Close releases all remaining transactions. Driven by the host's flow
// lifecycle; the session must not be used afterwards.
func (s *Session) Close() {
	for _, tx := range s.transactions {
		tx.events = nil
		tx.detectState = nil
	}
	s.transactions = nil
}
