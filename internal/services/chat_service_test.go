package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"notegpt/internal/chat"
	"notegpt/internal/config"
	"notegpt/internal/events"
	"notegpt/internal/models"
	"notegpt/internal/tests/mocks"
	"notegpt/internal/vault"
)

func newChatFixture(t *testing.T, completer *mocks.CompleterMock) (*ChatService, *mocks.CompletionRecordRepositoryMock) {
	t.Helper()
	v, err := vault.NewOS(t.TempDir())
	assert.NoError(t, err)
	store := chat.NewStore(v, config.DefaultChatFolder)
	records := &mocks.CompletionRecordRepositoryMock{}

	svc := NewChatService(store, completer, records, config.Config{APIKey: "sk-test"}, "")
	svc.Startup(context.Background())
	return svc, records
}

func TestChatService_EndToEnd(t *testing.T) {
	completer := &mocks.CompleterMock{
		CompleteFunc: func(ctx context.Context, cfg config.Config, instruction, content string) (string, error) {
			return "Hi there", nil
		},
	}
	svc, records := newChatFixture(t, completer)

	view, err := svc.CreateConversation("Demo")
	assert.NoError(t, err)
	assert.Equal(t, "Demo", view.Conversation.Name)

	view, err = svc.SendMessage(view.Conversation.Folder, "Hello")
	assert.NoError(t, err)

	turns := view.Turns
	assert.Len(t, turns, 2)
	assert.Equal(t, chat.SpeakerUser, turns[0].Speaker)
	assert.Equal(t, "Hello", turns[0].Text)
	assert.Equal(t, chat.SpeakerAssistant, turns[1].Speaker)
	assert.Equal(t, "Hi there", turns[1].Text)

	assert.Len(t, records.Created, 1)
	assert.Equal(t, models.CompletionKindChat, records.Created[0].Kind)
	assert.Equal(t, models.CompletionStatusOK, records.Created[0].Status)
}

func TestChatService_SendMessage_UsesChatSystemPromptAndHistory(t *testing.T) {
	var gotSystem, gotInstruction, gotContent string
	completer := &mocks.CompleterMock{
		CompleteFunc: func(ctx context.Context, cfg config.Config, instruction, content string) (string, error) {
			gotSystem = cfg.ResolvedSystem()
			gotInstruction = instruction
			gotContent = content
			return "reply", nil
		},
	}
	svc, _ := newChatFixture(t, completer)

	view, err := svc.CreateConversation("Demo")
	assert.NoError(t, err)
	_, err = svc.SendMessage(view.Conversation.Folder, "Hello")
	assert.NoError(t, err)

	assert.Equal(t, ChatSystemPrompt, gotSystem)
	assert.Equal(t, "Hello", gotInstruction)
	// The body is the transcript as it stood before the new user turn.
	assert.Contains(t, gotContent, "# Demo")
	assert.NotContains(t, gotContent, "Hello")
}

func TestChatService_SendMessage_FailureKeepsUserTurnOnly(t *testing.T) {
	completer := &mocks.CompleterMock{
		CompleteFunc: func(ctx context.Context, cfg config.Config, instruction, content string) (string, error) {
			return "", errors.New("API 500: boom")
		},
	}
	svc, records := newChatFixture(t, completer)

	view, err := svc.CreateConversation("Demo")
	assert.NoError(t, err)

	_, err = svc.SendMessage(view.Conversation.Folder, "Hello")
	assert.Error(t, err)

	reopened, err := svc.OpenConversation(view.Conversation.Folder)
	assert.NoError(t, err)
	assert.Len(t, reopened.Turns, 1)
	assert.Equal(t, chat.SpeakerUser, reopened.Turns[0].Speaker)
	assert.Equal(t, "Hello", reopened.Turns[0].Text)

	assert.Len(t, records.Created, 1)
	assert.Equal(t, models.CompletionStatusError, records.Created[0].Status)
	assert.Contains(t, records.Created[0].ErrorText, "API 500")
}

func TestChatService_SendMessage_Validation(t *testing.T) {
	svc, _ := newChatFixture(t, &mocks.CompleterMock{})

	_, err := svc.SendMessage("some/folder", "   ")
	assert.EqualError(t, err, "message text is required")

	_, err = svc.SendMessage("", "Hello")
	assert.EqualError(t, err, "conversation folder is required")
}

func TestChatService_SendMessage_BusyGuard(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	completer := &mocks.CompleterMock{
		CompleteFunc: func(ctx context.Context, cfg config.Config, instruction, content string) (string, error) {
			close(started)
			<-release
			return "late reply", nil
		},
	}
	svc, _ := newChatFixture(t, completer)

	view, err := svc.CreateConversation("Demo")
	assert.NoError(t, err)
	folder := view.Conversation.Folder

	done := make(chan error, 1)
	go func() {
		_, err := svc.SendMessage(folder, "first")
		done <- err
	}()
	<-started

	_, err = svc.SendMessage(folder, "second")
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	assert.NoError(t, <-done)
}

func TestChatService_ListAndDelete(t *testing.T) {
	svc, _ := newChatFixture(t, &mocks.CompleterMock{})

	_, err := svc.CreateConversation("Keep")
	assert.NoError(t, err)
	gone, err := svc.CreateConversation("Gone")
	assert.NoError(t, err)

	summaries, err := svc.ListConversations()
	assert.NoError(t, err)
	assert.Len(t, summaries, 2)

	assert.NoError(t, svc.DeleteConversation(gone.Conversation.Folder))

	summaries, err = svc.ListConversations()
	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, "Keep", summaries[0].Name)
}

func TestChatService_EmitsTurnAndDoneEvents(t *testing.T) {
	var names []string
	events.SetCustomEmitter(func(ctx context.Context, name string, evt events.ChatEvent) {
		names = append(names, name)
	})
	defer events.DisableEmitter()

	completer := &mocks.CompleterMock{
		CompleteFunc: func(ctx context.Context, cfg config.Config, instruction, content string) (string, error) {
			return "Hi there", nil
		},
	}
	svc, _ := newChatFixture(t, completer)

	view, err := svc.CreateConversation("Demo")
	assert.NoError(t, err)
	_, err = svc.SendMessage(view.Conversation.Folder, "Hello")
	assert.NoError(t, err)

	assert.Equal(t, []string{events.ChatTurn, events.ChatDone}, names)
}

func TestChatService_TranscriptIsRawMarkdown(t *testing.T) {
	completer := &mocks.CompleterMock{
		CompleteFunc: func(ctx context.Context, cfg config.Config, instruction, content string) (string, error) {
			return "*emphasis* stays", nil
		},
	}
	svc, _ := newChatFixture(t, completer)

	view, err := svc.CreateConversation("Demo")
	assert.NoError(t, err)
	view, err = svc.SendMessage(view.Conversation.Folder, "Hello")
	assert.NoError(t, err)

	assert.True(t, strings.Contains(view.Transcript, "**You:** Hello"))
	assert.True(t, strings.Contains(view.Transcript, "**Assistant:** *emphasis* stays"))
}
