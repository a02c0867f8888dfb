package snmp

// Cursor is the opaque resumable position of a transaction iteration. The
// zero value starts from the beginning; the same cursor must be passed back
// on each subsequent call.
type Cursor uint64

// NextTx returns the first live transaction whose external ID is at least
// minID, scanning forward from the position stored in cursor, together with
// its external ID and a flag telling whether more qualifying transactions
// remain after it. The cursor is advanced past the returned transaction.
//
// When nothing qualifies, the transaction is nil and the cursor is left
// unchanged; the caller should stop.
//
// Transactions freed before the cursor simply no longer appear in the
// sequence. Removal at or after the cursor during a single pass is not
// supported; the host's per-flow serialization guarantees it cannot happen.
func (s *Session) NextTx(minID uint64, cursor *Cursor) (tx *Transaction, id uint64, hasMore bool) {
	index := int(*cursor)
	n := len(s.transactions)

	for index < n {
		cand := s.transactions[index]
		if cand.id < minID+1 {
			index++
			continue
		}
		*cursor = Cursor(index + 1)
		// IDs grow with position, so every later entry also qualifies.
		return cand, cand.ID(), n-index > 1
	}
	return nil, 0, false
}
