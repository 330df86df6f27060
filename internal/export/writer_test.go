package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBundle() *Bundle {
	return &Bundle{
		Info: &Info{
			ExportedAt:    "2024-03-01 12:00:00",
			TotalMessages: 2,
			Participants: []*Participant{
				{Name: "Alice", Username: "alice", UserID: 1, IsMe: true},
				{Name: "Боб Иванов", UserID: 2, IsMe: false},
			},
		},
		Messages: []*MessageRecord{
			{
				ID:         1,
				Date:       "2024-03-01 11:00:00",
				Timestamp:  1709290800,
				FromMe:     false,
				SenderName: "Боб Иванов",
				Text:       "Привет! 2 < 3 && 3 > 2",
			},
			{
				ID:         2,
				Date:       "2024-03-01 11:05:00",
				Timestamp:  1709291100,
				FromMe:     true,
				SenderName: "Alice",
				Text:       "",
				Media:      &MediaDescriptor{Kind: "photo"},
				ReplyTo:    1,
			},
		},
	}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	bundle := testBundle()
	path := filepath.Join(t.TempDir(), "dialog.json")
	require.NoError(t, Write(bundle, path))

	decoded, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, bundle, decoded)
}

func TestWrite_PreservesNonASCIILiterally(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dialog.json")
	require.NoError(t, Write(testBundle(), path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	document := string(content)
	assert.Contains(t, document, "Привет")
	assert.Contains(t, document, "2 < 3 && 3 > 2")
	assert.NotContains(t, document, `\u003c`)
	assert.NotContains(t, document, `\u0026`)
}

func TestWrite_FailureLeavesNoDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dialog.json")
	require.Error(t, Write(testBundle(), path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRead_RejectsDocumentWithoutInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dialog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"messages": []}`), 0644))
	_, err := Read(path)
	require.Error(t, err)
}

func TestRead_RejectsLopsidedParticipants(t *testing.T) {
	tests := []struct {
		name     string
		document string
	}{
		{
			name:     "missing other participant",
			document: `{"export_info": {"exported_at": "2024-03-01 12:00:00", "total_messages": 0, "dialog_participants": [{"name": "Alice", "user_id": 1, "is_me": true}]}, "messages": []}`,
		},
		{
			name:     "missing self participant",
			document: `{"export_info": {"exported_at": "2024-03-01 12:00:00", "total_messages": 0, "dialog_participants": [{"name": "Боб", "user_id": 2, "is_me": false}]}, "messages": []}`,
		},
		{
			name:     "no participants",
			document: `{"export_info": {"exported_at": "2024-03-01 12:00:00", "total_messages": 0}, "messages": []}`,
		},
		{
			name:     "two self participants",
			document: `{"export_info": {"exported_at": "2024-03-01 12:00:00", "total_messages": 0, "dialog_participants": [{"name": "Alice", "user_id": 1, "is_me": true}, {"name": "Alice2", "user_id": 3, "is_me": true}, {"name": "Боб", "user_id": 2, "is_me": false}]}, "messages": []}`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "dialog.json")
			require.NoError(t, os.WriteFile(path, []byte(test.document), 0644))
			_, err := Read(path)
			require.Error(t, err)
		})
	}
}

func TestDefaultFilename(t *testing.T) {
	withUsername := DefaultFilename("/tmp/exports", &Participant{Username: "bob", UserID: 2})
	assert.Equal(t, "/tmp/exports", filepath.Dir(withUsername))
	base := filepath.Base(withUsername)
	assert.True(t, strings.HasPrefix(base, "dialog_bob_"), base)
	assert.True(t, strings.HasSuffix(base, ".json"), base)

	withoutUsername := filepath.Base(DefaultFilename(".", &Participant{UserID: 42}))
	assert.True(t, strings.HasPrefix(withoutUsername, "dialog_user_42_"), withoutUsername)
}
