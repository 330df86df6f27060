package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/malonaz/tgexport/internal/gateway"
)

// Lister is the slice of the gateway the catalog consumes.
type Lister interface {
	ListDialogs(ctx context.Context) ([]*gateway.RawDialog, error)
}

// DialogSummary is one exportable one-on-one conversation.
type DialogSummary struct {
	// 1-based display index, assigned in the gateway's native ordering.
	Index         int
	Name          string
	Username      string
	UserID        int64
	LastMessageAt time.Time
	UnreadCount   int
	// Peer re-enters the gateway for full retrieval.
	Peer gateway.Peer
}

// ListPrivateDialogs returns the one-on-one, non-bot dialogs, ordered as
// the gateway delivered them.
func ListPrivateDialogs(ctx context.Context, lister Lister) ([]*DialogSummary, error) {
	rawDialogs, err := lister.ListDialogs(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing dialogs")
	}

	var dialogs []*DialogSummary
	for _, rawDialog := range rawDialogs {
		if !rawDialog.IsUser || rawDialog.User.Bot {
			continue
		}
		user := rawDialog.User
		dialogs = append(dialogs, &DialogSummary{
			Index:         len(dialogs) + 1,
			Name:          DisplayName(user.FirstName, user.LastName, user.Username, user.ID),
			Username:      user.Username,
			UserID:        user.ID,
			LastMessageAt: rawDialog.LastMessageAt,
			UnreadCount:   rawDialog.UnreadCount,
			Peer:          rawDialog.Peer,
		})
	}
	return dialogs, nil
}

// DisplayName resolves a user's display name. First non-empty rule wins:
// first+last name, first name, @username, "User {id}".
func DisplayName(firstName, lastName, username string, id int64) string {
	switch {
	case firstName != "" && lastName != "":
		return firstName + " " + lastName
	case firstName != "":
		return firstName
	case username != "":
		return "@" + username
	default:
		return fmt.Sprintf("User %d", id)
	}
}
