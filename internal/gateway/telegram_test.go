package gateway

import (
	"testing"
	"time"

	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIterator_ConsumeAdvancesOffsetPastHoles(t *testing.T) {
	it := &messageIterator{client: &Client{self: &Identity{ID: 1}}}

	// A full page of history holes must still move the offset, or the
	// next fetch would request the same page again.
	page := make([]tg.MessageClass, 0, historyPageSize)
	for i := 0; i < historyPageSize; i++ {
		page = append(page, &tg.MessageEmpty{ID: 1000 - i})
	}
	it.consume(page)

	assert.Empty(t, it.buffer)
	assert.Equal(t, 1000-historyPageSize+1, it.offsetID)
}

func TestIterator_ConsumeBuffersPlainMessagesOnly(t *testing.T) {
	it := &messageIterator{client: &Client{self: &Identity{ID: 1}}}

	it.consume([]tg.MessageClass{
		&tg.Message{ID: 30, Date: int(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC).Unix()), Message: "hello", PeerID: &tg.PeerUser{UserID: 2}},
		&tg.MessageService{ID: 29, PeerID: &tg.PeerUser{UserID: 2}},
		&tg.MessageEmpty{ID: 28},
	})

	require.Len(t, it.buffer, 1)
	assert.Equal(t, 30, it.buffer[0].ID)
	assert.Equal(t, "hello", it.buffer[0].Text)
	assert.Equal(t, int64(2), it.buffer[0].SenderID)
	assert.Equal(t, 28, it.offsetID)
}
