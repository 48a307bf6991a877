package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"notegpt/internal/config"
	"notegpt/internal/events"
	"notegpt/internal/models"
	"notegpt/internal/repositories"
)

// ErrEmptySelection means there was nothing to rewrite. The modal stays
// open so the user can select text and resubmit.
var ErrEmptySelection = errors.New("select text first")

// RefactorService is the one-shot rewrite flow: the frontend captures the
// live selection at submit time, passes it here with the instruction, and
// replaces the selection with the returned text on success.
type RefactorService struct {
	ctx       context.Context
	cfg       config.Config
	completer Completer
	records   repositories.CompletionRecordRepository

	mu   sync.Mutex
	busy bool
}

func NewRefactorService(completer Completer, records repositories.CompletionRecordRepository, cfg config.Config) *RefactorService {
	return &RefactorService{cfg: cfg, completer: completer, records: records}
}

func (s *RefactorService) Startup(ctx context.Context) {
	s.ctx = ctx
}

// Refactor rewrites selection per instruction and returns the replacement
// text. One request per submission; failures return for manual retry, the
// modal re-enables.
func (s *RefactorService) Refactor(instruction, selection string) (string, error) {
	if strings.TrimSpace(selection) == "" {
		return "", ErrEmptySelection
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return "", ErrBusy
	}
	s.busy = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	ctx := s.context()
	start := time.Now()
	out, err := s.completer.Complete(ctx, s.cfg, instruction, selection)
	recordCompletion(ctx, s.records, models.CompletionKindRefactor, s.cfg.ResolvedModel(), start, err)
	if err != nil {
		events.Emit(ctx, events.RefactorError, events.NewError(err.Error()))
		return "", err
	}

	events.Emit(ctx, events.RefactorDone, events.NewSuccess(out))
	return out, nil
}

func (s *RefactorService) context() context.Context {
	if s.ctx != nil {
		return s.ctx
	}
	return context.Background()
}
