package services

import (
	"context"
	"time"

	"notegpt/internal/models"
	"notegpt/internal/repositories"
)

const defaultRecentLimit = 50

// CompletionLogService exposes the completion audit log to the frontend.
type CompletionLogService struct {
	ctx     context.Context
	records repositories.CompletionRecordRepository
}

func NewCompletionLogService(records repositories.CompletionRecordRepository) *CompletionLogService {
	return &CompletionLogService{records: records}
}

func (s *CompletionLogService) Startup(ctx context.Context) {
	s.ctx = ctx
}

// Recent returns the latest completion attempts, newest first.
func (s *CompletionLogService) Recent(limit int) ([]models.CompletionRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return s.records.ListRecent(ctx, limit)
}

// recordCompletion writes one audit row. Best-effort: a nil repository or
// a write failure never fails the interaction being recorded.
func recordCompletion(ctx context.Context, repo repositories.CompletionRecordRepository, kind, model string, start time.Time, callErr error) {
	if repo == nil {
		return
	}
	record := &models.CompletionRecord{
		Kind:       kind,
		Model:      model,
		Status:     models.CompletionStatusOK,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if callErr != nil {
		record.Status = models.CompletionStatusError
		record.ErrorText = callErr.Error()
	}
	_ = repo.Create(ctx, record)
}
