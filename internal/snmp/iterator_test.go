package snmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionWithN(t *testing.T, n int) *Session {
	t.Helper()
	s := NewSession()
	for i := 0; i < n; i++ {
		require.NoError(t, s.Parse(communityRequest(1, "public", sysDescrOID), DirToServer))
	}
	return s
}

func drain(s *Session, minID uint64) (ids []uint64, hasMoreFlags []bool) {
	var cursor Cursor
	for {
		tx, id, hasMore := s.NextTx(minID, &cursor)
		if tx == nil {
			return ids, hasMoreFlags
		}
		ids = append(ids, id)
		hasMoreFlags = append(hasMoreFlags, hasMore)
	}
}

func TestNextTxFullDrain(t *testing.T) {
	s := sessionWithN(t, 5)

	ids, hasMore := drain(s, 0)
	assert.Equal(t, []uint64{0, 1, 2, 3, 4}, ids)
	// hasMore is false only on the last yield.
	assert.Equal(t, []bool{true, true, true, true, false}, hasMore)
}

func TestNextTxMinIDSkipsOlder(t *testing.T) {
	s := sessionWithN(t, 5)

	ids, _ := drain(s, 3)
	assert.Equal(t, []uint64{3, 4}, ids)
}

func TestNextTxSkipsFreed(t *testing.T) {
	s := sessionWithN(t, 4)
	require.True(t, s.FreeByID(1))

	ids, hasMore := drain(s, 0)
	assert.Equal(t, []uint64{0, 2, 3}, ids)
	assert.Equal(t, []bool{true, true, false}, hasMore)
}

func TestNextTxEmptySession(t *testing.T) {
	s := NewSession()
	var cursor Cursor
	tx, _, hasMore := s.NextTx(0, &cursor)
	assert.Nil(t, tx)
	assert.False(t, hasMore)
	assert.Equal(t, Cursor(0), cursor)
}

func TestNextTxPastEnd(t *testing.T) {
	s := sessionWithN(t, 3)

	var cursor Cursor
	tx, _, _ := s.NextTx(3, &cursor)
	assert.Nil(t, tx)
	// An exhausted call leaves the cursor alone.
	assert.Equal(t, Cursor(0), cursor)
}

func TestNextTxResume(t *testing.T) {
	s := sessionWithN(t, 3)

	var cursor Cursor
	tx, id, _ := s.NextTx(0, &cursor)
	require.NotNil(t, tx)
	assert.Equal(t, uint64(0), id)

	// New transactions arriving between calls are picked up.
	require.NoError(t, s.Parse(communityRequest(1, "public", sysDescrOID), DirToServer))

	var rest []uint64
	for {
		tx, id, _ := s.NextTx(0, &cursor)
		if tx == nil {
			break
		}
		rest = append(rest, id)
	}
	assert.Equal(t, []uint64{1, 2, 3}, rest)
}
