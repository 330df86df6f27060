package export

import (
	"github.com/malonaz/tgexport/internal/gateway"
)

// mediaKinds maps the gateway's structural categories onto canonical
// descriptor kinds. Unmapped categories pass through as-is.
var mediaKinds = map[string]string{
	"photo":      "photo",
	"document":   "document",
	"video":      "video",
	"video_note": "video",
	"audio":      "audio",
	"voice":      "voice",
	"sticker":    "sticker",
	"animation":  "animation",
}

// Normalize maps one raw message into a canonical record. The direction
// flag is computed once from the authenticated self identity; the sender
// name follows it, since a dialog has exactly two parties.
func Normalize(raw *gateway.RawMessage, self *gateway.Identity, selfName, peerName string) *MessageRecord {
	fromMe := raw.SenderID == self.ID
	senderName := peerName
	if fromMe {
		senderName = selfName
	}

	record := &MessageRecord{
		ID:         raw.ID,
		Date:       raw.Date.Format(TimeLayout),
		Timestamp:  raw.Date.Unix(),
		FromMe:     fromMe,
		SenderName: senderName,
		Text:       raw.Text,
		ReplyTo:    raw.ReplyToID,
	}
	if raw.Attachment != nil {
		record.Media = &MediaDescriptor{
			Kind:     mediaKind(raw.Attachment.Category),
			Caption:  raw.Attachment.Caption,
			FileName: raw.Attachment.FileName,
			Size:     raw.Attachment.Size,
		}
	}
	if raw.EditedAt != nil {
		record.EditDate = raw.EditedAt.Format(TimeLayout)
	}
	if raw.Forward != nil {
		forward := &ForwardDescriptor{FromName: raw.Forward.FromName}
		if !raw.Forward.Date.IsZero() {
			forward.Date = raw.Forward.Date.Format(TimeLayout)
		}
		record.Forward = forward
	}
	return record
}

func mediaKind(category string) string {
	if kind, ok := mediaKinds[category]; ok {
		return kind
	}
	return category
}
