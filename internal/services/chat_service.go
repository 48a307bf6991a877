package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"notegpt/internal/chat"
	"notegpt/internal/config"
	"notegpt/internal/events"
	"notegpt/internal/models"
	"notegpt/internal/repositories"
	"notegpt/internal/vault"
)

// ChatSystemPrompt replaces the refactor system prompt for conversation
// turns.
const ChatSystemPrompt = "You are a helpful assistant living inside a note vault. Answer in markdown."

// ErrBusy is returned while a completion request is already in flight on
// the same interaction surface. The UI disables submission for the
// duration; this is the backstop.
var ErrBusy = errors.New("a request is already in progress")

// Completer is the single outbound AI call.
type Completer interface {
	Complete(ctx context.Context, cfg config.Config, instruction, content string) (string, error)
}

// ConversationStore is the persistence surface the controller drives.
// *chat.Store implements it.
type ConversationStore interface {
	List(ctx context.Context) ([]chat.Summary, error)
	Create(ctx context.Context, displayName string) (chat.Conversation, error)
	AppendTurn(ctx context.Context, conv chat.Conversation, speaker chat.Speaker, text string) error
	ReadTranscript(ctx context.Context, conv chat.Conversation) (string, error)
	Delete(ctx context.Context, conv chat.Conversation) error
	Open(folder string) chat.Conversation
}

// ConversationView is what the open-conversation screen renders.
type ConversationView struct {
	Conversation chat.Conversation `json:"conversation"`
	Transcript   string            `json:"transcript"`
	Turns        []chat.Turn       `json:"turns"`
}

// ChatService drives the two-screen chat flow: the conversation list and
// one open conversation. It owns sequencing around the completion call;
// rendering is the frontend's job, driven by the returned views and the
// emitted events.
type ChatService struct {
	ctx       context.Context
	cfg       config.Config
	store     ConversationStore
	completer Completer
	records   repositories.CompletionRecordRepository
	vaultRoot string

	mu       sync.Mutex
	inFlight map[string]bool // conversation folder -> request outstanding
}

func NewChatService(store ConversationStore, completer Completer, records repositories.CompletionRecordRepository, cfg config.Config, vaultRoot string) *ChatService {
	return &ChatService{
		cfg:       cfg,
		store:     store,
		completer: completer,
		records:   records,
		vaultRoot: vaultRoot,
		inFlight:  make(map[string]bool),
	}
}

func (s *ChatService) Startup(ctx context.Context) {
	s.ctx = ctx
}

// ListConversations returns all conversations, most recent first.
func (s *ChatService) ListConversations() ([]chat.Summary, error) {
	return s.store.List(s.context())
}

// CreateConversation makes a new conversation and returns it opened.
func (s *ChatService) CreateConversation(displayName string) (*ConversationView, error) {
	conv, err := s.store.Create(s.context(), displayName)
	if err != nil {
		return nil, err
	}
	return s.view(conv)
}

// OpenConversation loads one conversation for rendering.
func (s *ChatService) OpenConversation(folder string) (*ConversationView, error) {
	if strings.TrimSpace(folder) == "" {
		return nil, fmt.Errorf("conversation folder is required")
	}
	return s.view(s.store.Open(folder))
}

// DeleteConversation removes a conversation irreversibly. When the vault
// is a git repository the prior state is committed first, best-effort.
func (s *ChatService) DeleteConversation(folder string) error {
	if strings.TrimSpace(folder) == "" {
		return fmt.Errorf("conversation folder is required")
	}
	conv := s.store.Open(folder)
	if s.vaultRoot != "" {
		if err := vault.Snapshot(s.vaultRoot, "notegpt: before deleting "+conv.Name); err != nil {
			events.Emit(s.context(), events.ChatError, events.NewInfo("vault snapshot skipped: "+err.Error()))
		}
	}
	return s.store.Delete(s.context(), conv)
}

// SendMessage appends the user turn, asks the assistant, and appends the
// reply. The user turn is durable before the network call; on failure it
// stays and no assistant turn is written, so the caller can restore the
// typed text and retry by hand.
func (s *ChatService) SendMessage(folder, text string) (*ConversationView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("message text is required")
	}
	if strings.TrimSpace(folder) == "" {
		return nil, fmt.Errorf("conversation folder is required")
	}

	if !s.acquire(folder) {
		return nil, ErrBusy
	}
	defer s.release(folder)

	ctx := s.context()
	conv := s.store.Open(folder)

	history, err := s.store.ReadTranscript(ctx, conv)
	if err != nil {
		return nil, err
	}

	if err := s.store.AppendTurn(ctx, conv, chat.SpeakerUser, text); err != nil {
		return nil, err
	}
	turnEvt := events.NewInfo(text)
	turnEvt.Conversation = conv.Folder
	turnEvt.Speaker = string(chat.SpeakerUser)
	events.Emit(ctx, events.ChatTurn, turnEvt)

	chatCfg := s.cfg
	chatCfg.System = ChatSystemPrompt

	start := time.Now()
	reply, err := s.completer.Complete(ctx, chatCfg, text, history)
	recordCompletion(ctx, s.records, models.CompletionKindChat, chatCfg.ResolvedModel(), start, err)
	if err != nil {
		errEvt := events.NewError(err.Error())
		errEvt.Conversation = conv.Folder
		events.Emit(ctx, events.ChatError, errEvt)
		return nil, err
	}

	if err := s.store.AppendTurn(ctx, conv, chat.SpeakerAssistant, reply); err != nil {
		return nil, err
	}
	doneEvt := events.NewSuccess(reply)
	doneEvt.Conversation = conv.Folder
	doneEvt.Speaker = string(chat.SpeakerAssistant)
	events.Emit(ctx, events.ChatDone, doneEvt)

	return s.view(conv)
}

func (s *ChatService) view(conv chat.Conversation) (*ConversationView, error) {
	transcript, err := s.store.ReadTranscript(s.context(), conv)
	if err != nil {
		return nil, err
	}
	return &ConversationView{
		Conversation: conv,
		Transcript:   transcript,
		Turns:        chat.ScanTurns(transcript),
	}, nil
}

func (s *ChatService) acquire(folder string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[folder] {
		return false
	}
	s.inFlight[folder] = true
	return true
}

func (s *ChatService) release(folder string) {
	s.mu.Lock()
	delete(s.inFlight, folder)
	s.mu.Unlock()
}

func (s *ChatService) context() context.Context {
	if s.ctx != nil {
		return s.ctx
	}
	return context.Background()
}
