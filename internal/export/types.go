package export

// TimeLayout is the human-readable timestamp layout used throughout the
// structured document.
const TimeLayout = "2006-01-02 15:04:05"

// MediaDescriptor describes a message attachment.
type MediaDescriptor struct {
	Kind     string `json:"kind"`
	Caption  string `json:"caption,omitempty"`
	FileName string `json:"file_name,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// ForwardDescriptor carries forward origin metadata. Fields are
// best-effort: absent ones are omitted, never synthesized.
type ForwardDescriptor struct {
	FromName string `json:"from_name,omitempty"`
	Date     string `json:"date,omitempty"`
}

// MessageRecord is the canonical export unit. IDs are unique within a
// dialog; Timestamp is the epoch-seconds sort key derived from Date.
type MessageRecord struct {
	ID         int                `json:"id"`
	Date       string             `json:"date"`
	Timestamp  int64              `json:"date_timestamp"`
	FromMe     bool               `json:"from_me"`
	SenderName string             `json:"sender_name"`
	Text       string             `json:"text"`
	Media      *MediaDescriptor   `json:"media,omitempty"`
	ReplyTo    int                `json:"reply_to,omitempty"`
	EditDate   string             `json:"edit_date,omitempty"`
	Forward    *ForwardDescriptor `json:"forward_from,omitempty"`
}

// Participant is one of the two parties of an exported dialog.
type Participant struct {
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	UserID   int64  `json:"user_id"`
	IsMe     bool   `json:"is_me"`
}

// Info holds export metadata. Participants always contains exactly one
// is_me entry each way.
type Info struct {
	ExportedAt    string         `json:"exported_at"`
	TotalMessages int            `json:"total_messages"`
	Participants  []*Participant `json:"dialog_participants"`
}

// Bundle is the complete exported record set for one dialog. Messages are
// chronologically non-decreasing by Timestamp.
type Bundle struct {
	Info     *Info            `json:"export_info"`
	Messages []*MessageRecord `json:"messages"`
}

// Other returns the non-self participant.
func (b *Bundle) Other() *Participant {
	for _, participant := range b.Info.Participants {
		if !participant.IsMe {
			return participant
		}
	}
	return nil
}

// Self returns the self participant.
func (b *Bundle) Self() *Participant {
	for _, participant := range b.Info.Participants {
		if participant.IsMe {
			return participant
		}
	}
	return nil
}
