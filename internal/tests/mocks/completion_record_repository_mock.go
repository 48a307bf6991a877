package mocks

import (
	"context"

	"notegpt/internal/models"
)

type CompletionRecordRepositoryMock struct {
	CreateFunc     func(ctx context.Context, record *models.CompletionRecord) error
	ListRecentFunc func(ctx context.Context, limit int) ([]models.CompletionRecord, error)
	Created        []models.CompletionRecord
}

func (m *CompletionRecordRepositoryMock) Create(ctx context.Context, record *models.CompletionRecord) error {
	m.Created = append(m.Created, *record)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, record)
	}
	return nil
}

func (m *CompletionRecordRepositoryMock) ListRecent(ctx context.Context, limit int) ([]models.CompletionRecord, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, limit)
	}
	return nil, nil
}
