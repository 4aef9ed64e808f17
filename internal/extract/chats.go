package extract

import (
	"context"

	"github.com/samber/lo"
	"github.com/samber/oops"
)

// RawChat is a conversation as reported by the session, one entry per
// dialog with the platform-provided classification flags.
type RawChat struct {
	Id         int64
	Title      string
	IsUser     bool
	IsBot      bool
	IsGroup    bool
	IsChannel  bool
	IsArchived bool
}

// ChatLister yields every conversation visible to the authenticated
// session, in platform-returned order.
type ChatLister interface {
	ListChats(ctx context.Context) ([]RawChat, error)
}

// ClassifyChat maps the platform flags of a dialog to a chat type.
// Group and channel flags win over the user flags, mirroring how the
// platform itself presents supergroups that are also broadcast channels.
func ClassifyChat(c RawChat) ChatType {
	switch {
	case c.IsGroup:
		return ChatTypeGroup
	case c.IsChannel:
		return ChatTypeChannel
	case c.IsBot:
		return ChatTypeBot
	default:
		return ChatTypePersonal
	}
}

// Chats fetches the full dialog list and keeps only chats whose resolved
// type is in wanted. An empty filter keeps everything. Relative order of
// the returned records follows the order the lister produced.
func Chats(ctx context.Context, lister ChatLister, wanted []ChatType) ([]ChatRecord, error) {
	raw, err := lister.ListChats(ctx)
	if err != nil {
		return nil, oops.Wrapf(err, "fetch failed")
	}

	return lo.FilterMap(raw, func(c RawChat, _ int) (ChatRecord, bool) {
		t := ClassifyChat(c)
		if len(wanted) > 0 && !lo.Contains(wanted, t) {
			return ChatRecord{}, false
		}
		return ChatRecord{
			Name:       c.Title,
			Type:       t,
			Id:         c.Id,
			IsArchived: c.IsArchived,
		}, true
	}), nil
}
