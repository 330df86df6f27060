package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	dialogPageSize  = 100
	historyPageSize = 100
)

// Client is a Telegram-backed gateway.
type Client struct {
	client        *telegram.Client
	authenticator auth.UserAuthenticator
	api           *tg.Client
	self          *Identity
}

// NewClient instantiates a Telegram gateway. The session is persisted to
// sessionFile so subsequent runs skip the login flow.
func NewClient(apiID int, apiHash, sessionFile string, authenticator auth.UserAuthenticator, logger *zap.Logger) *Client {
	client := telegram.NewClient(apiID, apiHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: sessionFile},
		Logger:         logger,
	})
	return &Client{client: client, authenticator: authenticator}
}

// Run connects, authenticates if necessary, and invokes f with a live
// session. The session is closed when f returns or ctx is canceled.
func (c *Client) Run(ctx context.Context, f func(ctx context.Context) error) error {
	return c.client.Run(ctx, func(ctx context.Context) error {
		flow := auth.NewFlow(c.authenticator, auth.SendCodeOptions{})
		if err := c.client.Auth().IfNecessary(ctx, flow); err != nil {
			return errors.Wrap(err, "authenticating")
		}
		c.api = c.client.API()

		user, err := c.client.Self(ctx)
		if err != nil {
			return errors.Wrap(err, "fetching self")
		}
		c.self = &Identity{
			ID:        user.ID,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Username:  user.Username,
		}
		return f(ctx)
	})
}

// Self returns the authenticated identity.
func (c *Client) Self(ctx context.Context) (*Identity, error) {
	if c.self == nil {
		return nil, errors.New("gateway is not running")
	}
	return c.self, nil
}

// telegramPeer holds the input peer needed to re-enter the API.
type telegramPeer struct {
	input tg.InputPeerClass
	id    int64
}

func (p telegramPeer) PeerID() int64 { return p.id }

// ListDialogs fetches all dialogs, in the server's native recency ordering.
func (c *Client) ListDialogs(ctx context.Context) ([]*RawDialog, error) {
	var (
		out        []*RawDialog
		offsetDate int
		offsetID   int
		offsetPeer tg.InputPeerClass = &tg.InputPeerEmpty{}
	)
	for {
		result, err := c.api.MessagesGetDialogs(ctx, &tg.MessagesGetDialogsRequest{
			OffsetDate: offsetDate,
			OffsetID:   offsetID,
			OffsetPeer: offsetPeer,
			Limit:      dialogPageSize,
		})
		if err != nil {
			return nil, errors.Wrap(err, "fetching dialogs")
		}

		var (
			dialogs  []tg.DialogClass
			messages []tg.MessageClass
			users    []tg.UserClass
			more     bool
		)
		switch d := result.(type) {
		case *tg.MessagesDialogs:
			dialogs, messages, users = d.Dialogs, d.Messages, d.Users
		case *tg.MessagesDialogsSlice:
			dialogs, messages, users = d.Dialogs, d.Messages, d.Users
			more = len(d.Dialogs) == dialogPageSize
		default:
			return out, nil
		}

		userByID := make(map[int64]*tg.User, len(users))
		for _, uc := range users {
			if user, ok := uc.(*tg.User); ok {
				userByID[user.ID] = user
			}
		}
		messageByKey := make(map[string]*tg.Message, len(messages))
		for _, mc := range messages {
			if message, ok := mc.(*tg.Message); ok {
				messageByKey[messageKey(message.PeerID, message.ID)] = message
			}
		}

		var lastMessage *tg.Message
		for _, dc := range dialogs {
			dialog, ok := dc.(*tg.Dialog)
			if !ok {
				continue
			}
			topMessage := messageByKey[messageKey(dialog.Peer, dialog.TopMessage)]
			if topMessage != nil {
				lastMessage = topMessage
			}
			out = append(out, c.translateDialog(dialog, topMessage, userByID))
		}

		if !more || lastMessage == nil {
			return out, nil
		}
		offsetDate = lastMessage.Date
		offsetID = lastMessage.ID
		offsetPeer = inputPeer(lastMessage.PeerID, userByID)
	}
}

// Messages returns a lazy iterator over the dialog's full history, in the
// order delivered by the server (newest first).
func (c *Client) Messages(peer Peer) MessageIterator {
	p, ok := peer.(telegramPeer)
	if !ok {
		return &messageIterator{err: errors.New("peer was not produced by this gateway")}
	}
	return &messageIterator{client: c, peer: p.input}
}

func (c *Client) translateDialog(dialog *tg.Dialog, topMessage *tg.Message, userByID map[int64]*tg.User) *RawDialog {
	raw := &RawDialog{
		Peer:        telegramPeer{input: inputPeer(dialog.Peer, userByID), id: peerID(dialog.Peer)},
		UnreadCount: dialog.UnreadCount,
	}
	if topMessage != nil {
		raw.LastMessageAt = time.Unix(int64(topMessage.Date), 0)
	}
	peerUser, ok := dialog.Peer.(*tg.PeerUser)
	if !ok {
		return raw
	}
	user, ok := userByID[peerUser.UserID]
	if !ok {
		return raw
	}
	raw.IsUser = true
	raw.User = RawUser{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		Bot:       user.Bot,
	}
	return raw
}

// translateMessage maps a wire message into a RawMessage.
func (c *Client) translateMessage(message *tg.Message) *RawMessage {
	raw := &RawMessage{
		ID:   message.ID,
		Date: time.Unix(int64(message.Date), 0),
		Out:  message.Out,
		Text: message.Message,
	}

	if from, ok := message.GetFromID(); ok {
		if peerUser, ok := from.(*tg.PeerUser); ok {
			raw.SenderID = peerUser.UserID
		}
	}
	if raw.SenderID == 0 {
		// Direct messages omit from_id; outgoing messages are ours,
		// incoming ones belong to the dialog peer.
		if message.Out {
			raw.SenderID = c.self.ID
		} else if peerUser, ok := message.PeerID.(*tg.PeerUser); ok {
			raw.SenderID = peerUser.UserID
		}
	}

	if media, ok := message.GetMedia(); ok {
		raw.Attachment = classifyMedia(media)
	}
	if replyTo, ok := message.GetReplyTo(); ok {
		if header, ok := replyTo.(*tg.MessageReplyHeader); ok {
			if id, ok := header.GetReplyToMsgID(); ok {
				raw.ReplyToID = id
			}
		}
	}
	if editDate, ok := message.GetEditDate(); ok {
		editedAt := time.Unix(int64(editDate), 0)
		raw.EditedAt = &editedAt
	}
	if forward, ok := message.GetFwdFrom(); ok {
		rawForward := &RawForward{Date: time.Unix(int64(forward.Date), 0)}
		if fromName, ok := forward.GetFromName(); ok {
			rawForward.FromName = fromName
		}
		raw.Forward = rawForward
	}
	return raw
}

// classifyMedia decides the attachment's structural category once, from the
// wire representation.
func classifyMedia(media tg.MessageMediaClass) *RawAttachment {
	switch m := media.(type) {
	case *tg.MessageMediaPhoto:
		return &RawAttachment{Category: "photo"}
	case *tg.MessageMediaDocument:
		attachment := &RawAttachment{Category: "document"}
		documentClass, ok := m.GetDocument()
		if !ok {
			return attachment
		}
		document, ok := documentClass.AsNotEmpty()
		if !ok {
			return attachment
		}
		attachment.Size = document.Size
		var video, round, audio, voice, sticker, animated bool
		for _, attributeClass := range document.Attributes {
			switch attribute := attributeClass.(type) {
			case *tg.DocumentAttributeFilename:
				if attachment.FileName == "" {
					attachment.FileName = attribute.FileName
				}
			case *tg.DocumentAttributeVideo:
				video = true
				round = attribute.RoundMessage
			case *tg.DocumentAttributeAudio:
				audio = true
				voice = attribute.Voice
			case *tg.DocumentAttributeSticker:
				sticker = true
			case *tg.DocumentAttributeAnimated:
				animated = true
			}
		}
		switch {
		case sticker:
			attachment.Category = "sticker"
		case animated:
			attachment.Category = "animation"
		case voice:
			attachment.Category = "voice"
		case round:
			attachment.Category = "video_note"
		case video:
			attachment.Category = "video"
		case audio:
			attachment.Category = "audio"
		}
		return attachment
	case *tg.MessageMediaGeo, *tg.MessageMediaGeoLive:
		return &RawAttachment{Category: "location"}
	case *tg.MessageMediaContact:
		return &RawAttachment{Category: "contact"}
	case *tg.MessageMediaPoll:
		return &RawAttachment{Category: "poll"}
	case *tg.MessageMediaWebPage:
		return &RawAttachment{Category: "webpage"}
	default:
		return &RawAttachment{Category: "other"}
	}
}

type messageIterator struct {
	client   *Client
	peer     tg.InputPeerClass
	buffer   []*RawMessage
	current  *RawMessage
	offsetID int
	done     bool
	err      error
}

func (it *messageIterator) Next(ctx context.Context) bool {
	if it.err != nil {
		return false
	}
	for len(it.buffer) == 0 {
		if it.done {
			return false
		}
		if err := it.fetch(ctx); err != nil {
			it.err = err
			return false
		}
	}
	it.current = it.buffer[0]
	it.buffer = it.buffer[1:]
	return true
}

func (it *messageIterator) Value() *RawMessage { return it.current }

func (it *messageIterator) Err() error { return it.err }

// fetch pulls the next history page, newest first.
func (it *messageIterator) fetch(ctx context.Context) error {
	result, err := it.client.api.MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{
		Peer:     it.peer,
		OffsetID: it.offsetID,
		Limit:    historyPageSize,
	})
	if err != nil {
		return errors.Wrap(err, "fetching history page")
	}

	var messages []tg.MessageClass
	switch h := result.(type) {
	case *tg.MessagesMessages:
		messages = h.Messages
		it.done = true
	case *tg.MessagesMessagesSlice:
		messages = h.Messages
	case *tg.MessagesChannelMessages:
		messages = h.Messages
	default:
		it.done = true
		return nil
	}
	if len(messages) == 0 {
		it.done = true
		return nil
	}

	it.consume(messages)
	if len(messages) < historyPageSize {
		it.done = true
	}
	return nil
}

// consume buffers the page's plain messages. Service messages and holes
// are not part of the export, but every class carries the ID the next
// page offsets from.
func (it *messageIterator) consume(messages []tg.MessageClass) {
	for _, messageClass := range messages {
		it.offsetID = messageClass.GetID()
		if message, ok := messageClass.(*tg.Message); ok {
			it.buffer = append(it.buffer, it.client.translateMessage(message))
		}
	}
}

func peerID(peer tg.PeerClass) int64 {
	switch p := peer.(type) {
	case *tg.PeerUser:
		return p.UserID
	case *tg.PeerChat:
		return p.ChatID
	case *tg.PeerChannel:
		return p.ChannelID
	}
	return 0
}

func inputPeer(peer tg.PeerClass, userByID map[int64]*tg.User) tg.InputPeerClass {
	if peerUser, ok := peer.(*tg.PeerUser); ok {
		if user, ok := userByID[peerUser.UserID]; ok {
			return user.AsInputPeer()
		}
	}
	return &tg.InputPeerEmpty{}
}

func messageKey(peer tg.PeerClass, id int) string {
	return fmt.Sprintf("%d:%d", peerID(peer), id)
}
