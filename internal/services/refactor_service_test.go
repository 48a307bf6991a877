package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"notegpt/internal/config"
	"notegpt/internal/events"
	"notegpt/internal/models"
	"notegpt/internal/tests/mocks"
)

func TestRefactorService_EmptySelection(t *testing.T) {
	completer := &mocks.CompleterMock{}
	svc := NewRefactorService(completer, nil, config.Config{})

	_, err := svc.Refactor("make it shorter", "   \n\t")
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Zero(t, completer.Calls)
}

func TestRefactorService_Success(t *testing.T) {
	completer := &mocks.CompleterMock{
		CompleteFunc: func(ctx context.Context, cfg config.Config, instruction, content string) (string, error) {
			assert.Equal(t, "make it shorter", instruction)
			assert.Equal(t, "a very long paragraph", content)
			return "short", nil
		},
	}
	records := &mocks.CompletionRecordRepositoryMock{}
	svc := NewRefactorService(completer, records, config.Config{Model: "gpt-4o"})

	out, err := svc.Refactor("make it shorter", "a very long paragraph")
	assert.NoError(t, err)
	assert.Equal(t, "short", out)

	assert.Len(t, records.Created, 1)
	assert.Equal(t, models.CompletionKindRefactor, records.Created[0].Kind)
	assert.Equal(t, models.CompletionStatusOK, records.Created[0].Status)
	assert.Equal(t, "gpt-4o", records.Created[0].Model)
}

func TestRefactorService_FailureClearsBusy(t *testing.T) {
	calls := 0
	completer := &mocks.CompleterMock{
		CompleteFunc: func(ctx context.Context, cfg config.Config, instruction, content string) (string, error) {
			calls++
			if calls == 1 {
				return "", errors.New("API 429: rate limited")
			}
			return "second try", nil
		},
	}
	records := &mocks.CompletionRecordRepositoryMock{}
	svc := NewRefactorService(completer, records, config.Config{})

	_, err := svc.Refactor("fix grammar", "teh text")
	assert.EqualError(t, err, "API 429: rate limited")
	assert.Equal(t, models.CompletionStatusError, records.Created[0].Status)

	// A failed request must not leave the service stuck busy.
	out, err := svc.Refactor("fix grammar", "teh text")
	assert.NoError(t, err)
	assert.Equal(t, "second try", out)
}

func TestRefactorService_BusyGuard(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	completer := &mocks.CompleterMock{
		CompleteFunc: func(ctx context.Context, cfg config.Config, instruction, content string) (string, error) {
			close(started)
			<-release
			return "done", nil
		},
	}
	svc := NewRefactorService(completer, nil, config.Config{})

	done := make(chan error, 1)
	go func() {
		_, err := svc.Refactor("first", "selection")
		done <- err
	}()
	<-started

	_, err := svc.Refactor("second", "selection")
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	assert.NoError(t, <-done)
}

func TestRefactorService_EmitsEvents(t *testing.T) {
	var names []string
	events.SetCustomEmitter(func(ctx context.Context, name string, evt events.ChatEvent) {
		names = append(names, name)
	})
	defer events.DisableEmitter()

	completer := &mocks.CompleterMock{
		CompleteFunc: func(ctx context.Context, cfg config.Config, instruction, content string) (string, error) {
			return "ok", nil
		},
	}
	svc := NewRefactorService(completer, nil, config.Config{})

	_, err := svc.Refactor("tighten", "loose prose")
	assert.NoError(t, err)
	assert.Equal(t, []string{events.RefactorDone}, names)
}
