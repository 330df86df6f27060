package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RecordAndList(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "exports.db"))
	require.NoError(t, err)
	defer s.Close()

	older := &Export{
		PeerID:          2,
		PeerName:        "Bob",
		Username:        "bob",
		MessageCount:    120,
		JSONPath:        "dialog_bob_20240301_120000.json",
		HTMLPath:        "dialog_bob_20240301_120000.html",
		ExportTimestamp: 100,
	}
	newer := &Export{
		PeerID:          3,
		PeerName:        "Carol",
		MessageCount:    7,
		JSONPath:        "dialog_user_3_20240302_090000.json",
		HTMLPath:        "dialog_user_3_20240302_090000.html",
		ExportTimestamp: 200,
	}
	require.NoError(t, s.Record(older))
	require.NoError(t, s.Record(newer))

	// IDs are assigned on record.
	assert.Len(t, older.ID, 8)
	assert.Len(t, newer.ID, 8)

	exports, err := s.List(50)
	require.NoError(t, err)
	require.Len(t, exports, 2)

	// Most recent first.
	assert.Equal(t, "Carol", exports[0].PeerName)
	assert.Equal(t, "Bob", exports[1].PeerName)
	assert.Equal(t, older, exports[1])
}

func TestStore_ListHonorsPageSize(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "exports.db"))
	require.NoError(t, err)
	defer s.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record(&Export{
			PeerID:          int64(i),
			PeerName:        "Peer",
			JSONPath:        "x.json",
			HTMLPath:        "x.html",
			ExportTimestamp: int64(i + 1),
		}))
	}

	exports, err := s.List(3)
	require.NoError(t, err)
	assert.Len(t, exports, 3)
}
