package render

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malonaz/tgexport/internal/export"
)

func record(id int, timestamp time.Time, fromMe bool, text string) *export.MessageRecord {
	senderName := "Bob"
	if fromMe {
		senderName = "Alice"
	}
	return &export.MessageRecord{
		ID:         id,
		Date:       timestamp.Format(export.TimeLayout),
		Timestamp:  timestamp.Unix(),
		FromMe:     fromMe,
		SenderName: senderName,
		Text:       text,
	}
}

func bundleOf(records ...*export.MessageRecord) *export.Bundle {
	return &export.Bundle{
		Info: &export.Info{
			ExportedAt:    "2024-03-01 12:00:00",
			TotalMessages: len(records),
			Participants: []*export.Participant{
				{Name: "Alice", UserID: 1, IsMe: true},
				{Name: "Bob", UserID: 2, IsMe: false},
			},
		},
		Messages: records,
	}
}

func TestRender_DateSeparators(t *testing.T) {
	day1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	day2 := time.Date(2024, 3, 2, 10, 0, 0, 0, time.Local)
	document, err := Render(bundleOf(
		record(1, day1, false, "first day"),
		record(2, day1.Add(time.Hour), true, "same day"),
		record(3, day2, false, "second day"),
	))
	require.NoError(t, err)

	// One separator per distinct calendar date, in order.
	assert.Equal(t, 2, strings.Count(document, `<div class="date-separator">`))
	first := strings.Index(document, "1 March 2024")
	second := strings.Index(document, "2 March 2024")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)
}

func TestRender_MediaOnlyMessage(t *testing.T) {
	timestamp := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	photo := record(1, timestamp, false, "")
	photo.Media = &export.MediaDescriptor{Kind: "photo"}
	document, err := Render(bundleOf(photo))
	require.NoError(t, err)

	assert.Contains(t, document, "📷 Photo")
	assert.Contains(t, document, `<div class="message-text"></div>`)
}

func TestRender_MediaLineWithFileName(t *testing.T) {
	timestamp := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	document := record(1, timestamp, true, "")
	document.Media = &export.MediaDescriptor{Kind: "document", FileName: "report.pdf", Size: 2048}
	unknown := record(2, timestamp, false, "")
	unknown.Media = &export.MediaDescriptor{Kind: "poll"}

	page, err := Render(bundleOf(document, unknown))
	require.NoError(t, err)
	assert.Contains(t, page, "📎 File: report.pdf")
	assert.Contains(t, page, "📎 poll")
}

func TestRender_EscapesBodyAndConvertsNewlines(t *testing.T) {
	timestamp := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	page, err := Render(bundleOf(record(1, timestamp, false, "<script>alert(1)</script>\nsecond line")))
	require.NoError(t, err)

	assert.NotContains(t, page, "<script>alert(1)</script>")
	assert.Contains(t, page, "&lt;script&gt;alert(1)&lt;/script&gt;<br>second line")
}

func TestRender_SearchAttributesAndScript(t *testing.T) {
	timestamp := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	page, err := Render(bundleOf(record(1, timestamp, false, "Hello World")))
	require.NoError(t, err)

	assert.Contains(t, page, `data-text="hello world"`)
	assert.Contains(t, page, `getElementById('searchInput')`)
	// Highlighting walks text nodes so queries matching tag or entity
	// characters cannot mangle the bubble markup.
	assert.Contains(t, page, "createTreeWalker")
	assert.Contains(t, page, "surroundContents")
	assert.NotContains(t, page, "innerHTML.replace")
	// Self-contained: no external resources.
	assert.NotContains(t, page, "http://")
	assert.NotContains(t, page, "https://")
}

func TestRender_DirectionAndStats(t *testing.T) {
	timestamp := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	page, err := Render(bundleOf(
		record(1, timestamp, true, "sent"),
		record(2, timestamp.Add(time.Minute), false, "received"),
		record(3, timestamp.Add(2*time.Minute), false, "received again"),
	))
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(page, `class="message from-me"`))
	assert.Equal(t, 2, strings.Count(page, `class="message from-other"`))
}

func TestRender_ForwardMarkerAndTimeStamp(t *testing.T) {
	timestamp := time.Date(2024, 3, 1, 10, 30, 0, 0, time.Local)
	forwarded := record(1, timestamp, false, "passed along")
	forwarded.Forward = &export.ForwardDescriptor{FromName: "Carol"}
	page, err := Render(bundleOf(forwarded))
	require.NoError(t, err)

	assert.Contains(t, page, "📤 Forwarded")
	assert.Contains(t, page, "10:30")
}

func TestRender_Idempotent(t *testing.T) {
	timestamp := time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)
	var records []*export.MessageRecord
	for i := 0; i < 20; i++ {
		records = append(records, record(i+1, timestamp.Add(time.Duration(i)*time.Hour), i%2 == 0, fmt.Sprintf("message %d", i)))
	}
	bundle := bundleOf(records...)

	first, err := Render(bundle)
	require.NoError(t, err)
	second, err := Render(bundle)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
