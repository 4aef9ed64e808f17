// Package extract turns raw Telegram data into normalized, export-ready
// records: the master chat list and the chat-folder definitions.
package extract

import (
	"strconv"
	"strings"
)

type ChatType string

const (
	ChatTypePersonal ChatType = "Personal"
	ChatTypeGroup    ChatType = "Group"
	ChatTypeChannel  ChatType = "Channel"
	ChatTypeBot      ChatType = "Bot"
)

// AllChatTypes lists every chat type in menu order.
var AllChatTypes = []ChatType{ChatTypePersonal, ChatTypeGroup, ChatTypeChannel, ChatTypeBot}

// ChatRecord is one row of the master chat list.
type ChatRecord struct {
	Name       string   `json:"chat_name"`
	Type       ChatType `json:"chat_type"`
	Id         int64    `json:"chat_id"`
	IsArchived bool     `json:"is_archived"`
}

func (r ChatRecord) Fields() []string {
	return []string{"chat_name", "chat_type", "chat_id", "is_archived"}
}

func (r ChatRecord) Values() []string {
	return []string{
		r.Name,
		string(r.Type),
		strconv.FormatInt(r.Id, 10),
		strconv.FormatBool(r.IsArchived),
	}
}

// FolderRecord is one exported chat folder: its explicit chat lists
// resolved to display names plus the folder's rule flags, verbatim.
type FolderRecord struct {
	Name          string   `json:"folder_name"`
	Id            int32    `json:"folder_id"`
	Emoticon      string   `json:"emoticon"`
	PinnedChats   []string `json:"pinned_chats"`
	IncludedChats []string `json:"included_chats"`
	ExcludedChats []string `json:"excluded_chats"`

	RuleContacts        bool `json:"rule_contacts"`
	RuleNonContacts     bool `json:"rule_non_contacts"`
	RuleGroups          bool `json:"rule_groups"`
	RuleChannels        bool `json:"rule_channels"`
	RuleBots            bool `json:"rule_bots"`
	RuleExcludeMuted    bool `json:"rule_exclude_muted"`
	RuleExcludeRead     bool `json:"rule_exclude_read"`
	RuleExcludeArchived bool `json:"rule_exclude_archived"`
}

func (r FolderRecord) Fields() []string {
	return []string{
		"folder_name", "folder_id", "emoticon",
		"pinned_chats", "included_chats", "excluded_chats",
		"rule_contacts", "rule_non_contacts", "rule_groups", "rule_channels", "rule_bots",
		"rule_exclude_muted", "rule_exclude_read", "rule_exclude_archived",
	}
}

func (r FolderRecord) Values() []string {
	return []string{
		r.Name,
		strconv.FormatInt(int64(r.Id), 10),
		r.Emoticon,
		strings.Join(r.PinnedChats, ", "),
		strings.Join(r.IncludedChats, ", "),
		strings.Join(r.ExcludedChats, ", "),
		strconv.FormatBool(r.RuleContacts),
		strconv.FormatBool(r.RuleNonContacts),
		strconv.FormatBool(r.RuleGroups),
		strconv.FormatBool(r.RuleChannels),
		strconv.FormatBool(r.RuleBots),
		strconv.FormatBool(r.RuleExcludeMuted),
		strconv.FormatBool(r.RuleExcludeRead),
		strconv.FormatBool(r.RuleExcludeArchived),
	}
}
