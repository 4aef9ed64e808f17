package extract

import (
	"context"

	"github.com/samber/oops"
)

// FolderInfo identifies one chat folder, as listed by the platform.
type FolderInfo struct {
	Id   int32
	Name string
}

// FolderDef is the full platform definition of a chat folder: explicit
// chat references by id plus the folder's membership rules.
type FolderDef struct {
	Id       int32
	Name     string
	Emoticon string

	PinnedChatIds   []int64
	IncludedChatIds []int64
	ExcludedChatIds []int64

	IncludeContacts    bool
	IncludeNonContacts bool
	IncludeGroups      bool
	IncludeChannels    bool
	IncludeBots        bool
	ExcludeMuted       bool
	ExcludeRead        bool
	ExcludeArchived    bool
}

// FolderSource reads chat-folder definitions from the session.
type FolderSource interface {
	ChatFolders(ctx context.Context) ([]FolderInfo, error)
	ChatFolder(ctx context.Context, folderId int32) (*FolderDef, error)
}

// NameResolver resolves a chat id to its display name. An error means the
// chat is not visible to the session (deleted, left, never loaded).
type NameResolver interface {
	ChatName(ctx context.Context, chatId int64) (string, error)
}

// Folders fetches the definitions of the selected folders and resolves
// their explicit chat references to display names. References that cannot
// be resolved are dropped from the list, without a placeholder. Lists keep
// the platform-declared order.
func Folders(ctx context.Context, src FolderSource, resolver NameResolver, selected []FolderInfo) ([]FolderRecord, error) {
	records := make([]FolderRecord, 0, len(selected))
	for _, info := range selected {
		def, err := src.ChatFolder(ctx, info.Id)
		if err != nil {
			return nil, oops.With("folder_id", info.Id).With("folder_name", info.Name).Wrapf(err, "fetch failed")
		}

		emoticon := def.Emoticon
		if emoticon == "" {
			emoticon = "None"
		}

		records = append(records, FolderRecord{
			Name:          def.Name,
			Id:            def.Id,
			Emoticon:      emoticon,
			PinnedChats:   resolveNames(ctx, resolver, def.PinnedChatIds),
			IncludedChats: resolveNames(ctx, resolver, def.IncludedChatIds),
			ExcludedChats: resolveNames(ctx, resolver, def.ExcludedChatIds),

			RuleContacts:        def.IncludeContacts,
			RuleNonContacts:     def.IncludeNonContacts,
			RuleGroups:          def.IncludeGroups,
			RuleChannels:        def.IncludeChannels,
			RuleBots:            def.IncludeBots,
			RuleExcludeMuted:    def.ExcludeMuted,
			RuleExcludeRead:     def.ExcludeRead,
			RuleExcludeArchived: def.ExcludeArchived,
		})
	}

	return records, nil
}

func resolveNames(ctx context.Context, resolver NameResolver, chatIds []int64) []string {
	names := make([]string, 0, len(chatIds))
	for _, id := range chatIds {
		name, err := resolver.ChatName(ctx, id)
		if err != nil {
			continue
		}
		names = append(names, name)
	}

	return names
}
