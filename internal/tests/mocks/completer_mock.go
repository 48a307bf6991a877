package mocks

import (
	"context"

	"notegpt/internal/config"
)

type CompleterMock struct {
	CompleteFunc func(ctx context.Context, cfg config.Config, instruction, content string) (string, error)
	Calls        int
}

func (m *CompleterMock) Complete(ctx context.Context, cfg config.Config, instruction, content string) (string, error) {
	m.Calls++
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, cfg, instruction, content)
	}
	return "", nil
}
