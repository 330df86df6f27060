package gateway

import (
	"context"
	"time"
)

// Identity describes the authenticated account.
type Identity struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
}

// Peer is an opaque reference addressing one conversation.
// A gateway only accepts peers it produced itself.
type Peer interface {
	PeerID() int64
}

// RawUser is the remote account behind a dialog.
type RawUser struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
	Bot       bool
}

// RawDialog is one conversation as delivered by the gateway, in the
// gateway's native ordering.
type RawDialog struct {
	Peer          Peer
	IsUser        bool
	User          RawUser
	LastMessageAt time.Time
	UnreadCount   int
}

// RawAttachment describes a message attachment. Category is the
// attachment's structural category; FileName and Size are best-effort.
type RawAttachment struct {
	Category string
	Caption  string
	FileName string
	Size     int64
}

// RawForward carries forward origin metadata when the remote service
// exposes it. Absent fields stay zero, they are never synthesized.
type RawForward struct {
	FromName string
	Date     time.Time
}

// RawMessage is one message as delivered by the gateway, before
// normalization. Ordering across messages is unspecified.
type RawMessage struct {
	ID         int
	Date       time.Time
	SenderID   int64
	Out        bool
	Text       string
	Attachment *RawAttachment
	ReplyToID  int
	EditedAt   *time.Time
	Forward    *RawForward
}

// MessageIterator lazily walks a dialog's message history.
type MessageIterator interface {
	// Next advances the iterator, fetching more pages as needed.
	Next(ctx context.Context) bool
	// Value returns the current message. Only valid after Next returned true.
	Value() *RawMessage
	// Err returns the retrieval error that stopped iteration, if any.
	Err() error
}
