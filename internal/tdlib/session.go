// Package tdlib wraps the TDLib client: login, the persisted session
// directory and the handful of read calls the exporters need.
package tdlib

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/zelenin/go-tdlib/client"

	"github.com/avolkov/tgexport/internal/config"
	"github.com/avolkov/tgexport/internal/extract"
)

// Session is an authenticated TDLib client. It is handed explicitly to
// the enumerator and the folder extractor; there is no ambient global
// client state.
type Session struct {
	log         *slog.Logger
	cfg         *config.Config
	tdlibClient *client.Client
	me          *client.User

	m           sync.RWMutex
	localChats  map[int64]*client.Chat
	chatFolders []*client.ChatFolderInfo
}

// NewSession connects and authorizes against Telegram. On first run the
// prompter is asked for the confirmation code and, if needed, the 2FA
// password; afterwards the session directory is reused and no prompts
// appear.
func NewSession(ctx context.Context, log *slog.Logger, cfg *config.Config, prompts LoginPrompter) (*Session, error) {
	s := &Session{
		log:        log,
		cfg:        cfg,
		localChats: make(map[int64]*client.Chat),
	}

	authorizer := newClientAuthorizer(log, createTdlibParameters(cfg))
	go promptInteractor(log, authorizer, cfg.PhoneNumber, prompts)

	_, _ = client.SetLogVerbosityLevel(&client.SetLogVerbosityLevelRequest{
		NewVerbosityLevel: 1,
	})

	tdlibClient, err := client.NewClient(authorizer, client.WithResultHandler(client.NewCallbackResultHandler(s.handleUpdate)))
	if err != nil {
		return nil, fmt.Errorf("NewClient error: %w", err)
	}
	s.tdlibClient = tdlibClient

	optionValue, err := tdlibClient.GetOption(&client.GetOptionRequest{
		Name: "version",
	})
	if err != nil {
		return nil, fmt.Errorf("GetOption error: %w", err)
	}
	log.Info("TDLib", "version", optionValue.(*client.OptionValueString).Value)

	me, err := tdlibClient.GetMe(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetMe error: %w", err)
	}
	s.me = me

	return s, nil
}

// Me returns the account owner, for the post-login greeting.
func (s *Session) Me() *client.User {
	return s.me
}

func (s *Session) Close() {
	_, _ = s.tdlibClient.Close(context.Background())
}

// handleUpdate runs on TDLib's result goroutine. The only update this
// tool cares about is the folder list, which TDLib pushes once right
// after authorization and again on every change.
func (s *Session) handleUpdate(ctx context.Context, update client.Type) {
	if update.GetType() != client.TypeUpdate {
		return
	}
	switch update.GetConstructor() {
	case client.ConstructorUpdateChatFolders:
		upd := update.(*client.UpdateChatFolders)
		s.m.Lock()
		s.chatFolders = upd.ChatFolders
		s.m.Unlock()
		s.log.Debug("chat folders update", "count", len(upd.ChatFolders))
	}
}

// ListChats drains the main and archive chat lists and returns every
// dialog with its classification flags. Order within each list follows
// the platform, main list first.
func (s *Session) ListChats(ctx context.Context) ([]extract.RawChat, error) {
	raw := make([]extract.RawChat, 0)

	for _, list := range []struct {
		chatList client.ChatList
		archived bool
	}{
		{&client.ChatListMain{}, false},
		{&client.ChatListArchive{}, true},
	} {
		chatIds, err := s.chatIds(ctx, list.chatList)
		if err != nil {
			return nil, fmt.Errorf("failed to load chat list %s: %w", list.chatList.ChatListConstructor(), err)
		}
		for _, chatId := range chatIds {
			c, err := s.rawChat(ctx, chatId, list.archived)
			if err != nil {
				return nil, fmt.Errorf("failed to load chat %d: %w", chatId, err)
			}
			raw = append(raw, c)
		}
	}

	return raw, nil
}

// chatIds forces TDLib to load the whole list and returns the known chat
// ids in list order. LoadChats answers 404 once everything is loaded.
// @see https://github.com/tdlib/td/blob/fb39e5d74667db915a75a5e58065c59af8e7d8d6/td/generate/scheme/td_api.tl#L4171
func (s *Session) chatIds(ctx context.Context, chatList client.ChatList) ([]int64, error) {
	for {
		loadChatsReq := &client.LoadChatsRequest{ChatList: chatList, Limit: 500}
		_, err := s.tdlibClient.LoadChats(ctx, loadChatsReq)
		if err == nil {
			continue
		}
		if err.Error() == "404 Not Found" {
			break
		}
		return nil, err
	}

	getChatsReq := &client.GetChatsRequest{ChatList: chatList, Limit: 500}
	chats, err := s.tdlibClient.GetChats(ctx, getChatsReq)
	if err != nil {
		return nil, err
	}

	return chats.ChatIds, nil
}

func (s *Session) rawChat(ctx context.Context, chatId int64, archived bool) (extract.RawChat, error) {
	chat, err := s.getChat(ctx, chatId)
	if err != nil {
		return extract.RawChat{}, err
	}

	raw := extract.RawChat{Id: chat.Id, Title: chat.Title, IsArchived: archived}

	switch chat.Type.ChatTypeConstructor() {
	case client.ConstructorChatTypeBasicGroup:
		raw.IsGroup = true

	case client.ConstructorChatTypeSupergroup:
		typ := chat.Type.(*client.ChatTypeSupergroup)
		sg, err := s.tdlibClient.GetSupergroup(ctx, &client.GetSupergroupRequest{SupergroupId: typ.SupergroupId})
		if err != nil {
			return extract.RawChat{}, err
		}
		if sg.IsChannel {
			raw.IsChannel = true
		} else {
			raw.IsGroup = true
		}

	case client.ConstructorChatTypePrivate:
		typ := chat.Type.(*client.ChatTypePrivate)
		if err := s.fillUserFlags(ctx, typ.UserId, &raw); err != nil {
			return extract.RawChat{}, err
		}

	case client.ConstructorChatTypeSecret:
		typ := chat.Type.(*client.ChatTypeSecret)
		if err := s.fillUserFlags(ctx, typ.UserId, &raw); err != nil {
			return extract.RawChat{}, err
		}
	}

	return raw, nil
}

func (s *Session) fillUserFlags(ctx context.Context, userId int64, raw *extract.RawChat) error {
	user, err := s.tdlibClient.GetUser(ctx, &client.GetUserRequest{UserId: userId})
	if err != nil {
		return err
	}
	raw.IsUser = true
	raw.IsBot = user.Type.UserTypeConstructor() == client.ConstructorUserTypeBot

	return nil
}

// ChatFolders returns the account's folder list. TDLib pushes it via an
// update shortly after authorization, so the first call may have to wait
// for it; a quiet account with no folders simply times out to an empty
// list.
func (s *Session) ChatFolders(ctx context.Context) ([]extract.FolderInfo, error) {
	deadline := time.Now().Add(5 * time.Second)
	for {
		s.m.RLock()
		folders := s.chatFolders
		s.m.RUnlock()

		if folders != nil {
			infos := make([]extract.FolderInfo, 0, len(folders))
			for _, f := range folders {
				infos = append(infos, extract.FolderInfo{Id: f.Id, Name: f.Name.Text.Text})
			}
			return infos, nil
		}
		if time.Now().After(deadline) {
			return []extract.FolderInfo{}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// ChatFolder fetches one folder definition.
func (s *Session) ChatFolder(ctx context.Context, folderId int32) (*extract.FolderDef, error) {
	folder, err := s.tdlibClient.GetChatFolder(ctx, &client.GetChatFolderRequest{ChatFolderId: folderId})
	if err != nil {
		return nil, err
	}

	def := &extract.FolderDef{
		Id:   folderId,
		Name: folder.Name.Text.Text,

		PinnedChatIds:   folder.PinnedChatIds,
		IncludedChatIds: folder.IncludedChatIds,
		ExcludedChatIds: folder.ExcludedChatIds,

		IncludeContacts:    folder.IncludeContacts,
		IncludeNonContacts: folder.IncludeNonContacts,
		IncludeGroups:      folder.IncludeGroups,
		IncludeChannels:    folder.IncludeChannels,
		IncludeBots:        folder.IncludeBots,
		ExcludeMuted:       folder.ExcludeMuted,
		ExcludeRead:        folder.ExcludeRead,
		ExcludeArchived:    folder.ExcludeArchived,
	}
	if folder.Icon != nil {
		def.Emoticon = folder.Icon.Name
	}

	return def, nil
}

// ChatName resolves a chat id to its display name. Errors mean the chat
// is not visible to this session anymore.
func (s *Session) ChatName(ctx context.Context, chatId int64) (string, error) {
	chat, err := s.getChat(ctx, chatId)
	if err != nil {
		s.log.Debug("failed to resolve chat", "chat_id", chatId, "error", err)
		return "", err
	}
	if chat.Title == "" {
		return fmt.Sprintf("no_name %d", chatId), nil
	}

	return chat.Title, nil
}

func (s *Session) getChat(ctx context.Context, chatId int64) (*client.Chat, error) {
	s.m.RLock()
	fullChat, ok := s.localChats[chatId]
	s.m.RUnlock()
	if ok {
		return fullChat, nil
	}

	fullChat, err := s.tdlibClient.GetChat(ctx, &client.GetChatRequest{ChatId: chatId})
	if err != nil {
		return nil, err
	}
	s.m.Lock()
	s.localChats[chatId] = fullChat
	s.m.Unlock()

	return fullChat, nil
}

func createTdlibParameters(cfg *config.Config) *client.SetTdlibParametersRequest {
	return &client.SetTdlibParametersRequest{
		UseTestDc:           false,
		DatabaseDirectory:   filepath.Join(cfg.SessionName, "database"),
		FilesDirectory:      filepath.Join(cfg.SessionName, "files"),
		UseFileDatabase:     false,
		UseChatInfoDatabase: true,
		UseMessageDatabase:  false,
		UseSecretChats:      false,
		ApiId:               cfg.ApiId,
		ApiHash:             cfg.ApiHash,
		SystemLanguageCode:  "en",
		DeviceModel:         "Linux",
		SystemVersion:       "1.0.0",
		ApplicationVersion:  "1.0.0",
	}
}
