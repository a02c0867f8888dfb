package snmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/ninox/internal/core"
)

func TestSessionFirstMessageCommitsVersion(t *testing.T) {
	s := NewSession()
	assert.Equal(t, VersionUnknown, s.Version())

	err := s.Parse(communityRequest(1, "public", sysDescrOID, sysUpTimeOID), DirToServer)
	require.NoError(t, err)

	assert.Equal(t, Version2c, s.Version())
	assert.Equal(t, uint64(1), s.Count())

	tx, ok := s.GetByID(0)
	require.True(t, ok)
	assert.Equal(t, Version2c, tx.Version)
	assert.Equal(t, "public", tx.Community)
	assert.Empty(t, tx.Events())
	require.NotNil(t, tx.Summary)
	assert.Equal(t, []string{".1.3.6.1.2.1.1.1.0", ".1.3.6.1.2.1.1.3.0"}, tx.Summary.Oids)
}

func TestSessionVersionMismatchTagsTransaction(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Parse(communityRequest(1, "public", sysDescrOID), DirToServer))

	// A v1 message on an established v2c session.
	require.NoError(t, s.Parse(communityRequest(0, "legacy", sysDescrOID), DirToServer))

	// The session version does not move.
	assert.Equal(t, Version2c, s.Version())

	tx, ok := s.GetByID(1)
	require.True(t, ok)
	// The transaction carries its own message's version, not the session's.
	assert.Equal(t, Version1, tx.Version)
	assert.Equal(t, "legacy", tx.Community)
	assert.True(t, tx.HasEvent(EventVersionMismatch))
	// Tagging does not suppress the rest of the record.
	require.NotNil(t, tx.Summary)
	assert.Len(t, tx.Summary.Oids, 1)
}

func TestSessionV3Encrypted(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Parse(v3Request("admin", true), DirToServer))

	assert.Equal(t, Version3, s.Version())
	tx, ok := s.GetByID(0)
	require.True(t, ok)
	assert.Equal(t, Version3, tx.Version)
	assert.Equal(t, "admin", tx.SecurityUser)
	assert.True(t, tx.Encrypted)
	assert.Nil(t, tx.Summary)
	assert.Empty(t, tx.Events())
}

func TestSessionV3Plaintext(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Parse(v3Request("operator", false), DirToServer))

	tx, ok := s.GetByID(0)
	require.True(t, ok)
	assert.Equal(t, "operator", tx.SecurityUser)
	assert.False(t, tx.Encrypted)
	require.NotNil(t, tx.Summary)
	assert.Equal(t, []string{".1.3.6.1.2.1.1.1.0"}, tx.Summary.Oids)
}

func TestSessionV3NonUSMSecurityModel(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Parse(v3NonUSMRequest(), DirToServer))

	tx, ok := s.GetByID(0)
	require.True(t, ok)
	assert.Empty(t, tx.SecurityUser)
	assert.True(t, tx.HasEvent(EventUnknownSecurityModel))
}

func TestSessionDecodeFailureTagsMostRecent(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Parse(communityRequest(1, "public", sysDescrOID), DirToServer))

	err := s.Parse([]byte("garbage that is long enough"), DirToServer)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrMalformedMessage)

	// No new transaction; the event lands on the existing one.
	assert.Equal(t, uint64(1), s.Count())
	tx, ok := s.GetByID(0)
	require.True(t, ok)
	assert.True(t, tx.HasEvent(EventMalformedData))

	// The session keeps working.
	require.NoError(t, s.Parse(communityRequest(1, "public", sysUpTimeOID), DirToServer))
	assert.Equal(t, uint64(2), s.Count())
}

func TestSessionDecodeFailureOnEmptySession(t *testing.T) {
	s := NewSession()
	err := s.Parse([]byte("garbage that is long enough"), DirToServer)
	require.Error(t, err)
	assert.Equal(t, uint64(0), s.Count())
	assert.Equal(t, 0, s.Live())
}

func TestSessionIDsAreSequential(t *testing.T) {
	s := NewSession()
	for i := 0; i < 5; i++ {
		id := s.HandleMessage(mustDecode(t, communityRequest(1, "public", sysDescrOID)), DirToServer)
		assert.Equal(t, uint64(i), id)
	}
	assert.Equal(t, uint64(5), s.Count())
	assert.Equal(t, 5, s.Live())
}

func TestSessionGetAndFree(t *testing.T) {
	s := NewSession()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Parse(communityRequest(1, "public", sysDescrOID), DirToServer))
	}

	assert.True(t, s.FreeByID(1))
	assert.Equal(t, 2, s.Live())
	// Count is a high-water mark, freeing does not lower it.
	assert.Equal(t, uint64(3), s.Count())

	_, ok := s.GetByID(1)
	assert.False(t, ok)
	_, ok = s.GetByID(0)
	assert.True(t, ok)
	_, ok = s.GetByID(2)
	assert.True(t, ok)

	// Double free and unknown IDs fail.
	assert.False(t, s.FreeByID(1))
	assert.False(t, s.FreeByID(99))

	// Freed IDs are never reused.
	require.NoError(t, s.Parse(communityRequest(1, "public", sysDescrOID), DirToServer))
	tx, ok := s.GetByID(3)
	require.True(t, ok)
	assert.Equal(t, uint64(3), tx.ID())
}

func TestSessionFreeReleasesState(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Parse(communityRequest(1, "public", sysDescrOID), DirToServer))

	tx, _ := s.GetByID(0)
	tx.SetDetectState(&struct{ n int }{n: 7})
	require.NotNil(t, tx.DetectState())

	require.True(t, s.FreeByID(0))
	assert.Nil(t, tx.DetectState())
	assert.Empty(t, tx.Events())
}

func TestSessionClose(t *testing.T) {
	s := NewSession()
	for i := 0; i < 4; i++ {
		require.NoError(t, s.Parse(communityRequest(1, "public", sysDescrOID), DirToServer))
	}
	s.Close()
	assert.Equal(t, 0, s.Live())
	assert.Equal(t, uint64(4), s.Count())
}

func TestTransactionProgressAlwaysComplete(t *testing.T) {
	tx := newTransaction(Version2c, 1)
	assert.Equal(t, 1, tx.Progress(DirToServer))
	assert.Equal(t, 1, tx.Progress(DirToClient))
}

func TestTransactionEventsAccumulate(t *testing.T) {
	tx := newTransaction(Version2c, 1)
	tx.AddEvent(EventMalformedData)
	tx.AddEvent(EventMalformedData)
	assert.Len(t, tx.Events(), 2)
	assert.True(t, tx.HasEvent(EventMalformedData))
	assert.False(t, tx.HasEvent(EventVersionMismatch))
}
