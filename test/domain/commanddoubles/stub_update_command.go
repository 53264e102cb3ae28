//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/depbump/internal/domain/commands"
	"github.com/rios0rios0/depbump/internal/domain/entities"
	"github.com/rios0rios0/depbump/internal/domain/repositories"
)

// StubUpdateCommand is a stub implementation of commands.Update.
type StubUpdateCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Result           *entities.PullRequest
	LastRequest      entities.UpdateRequest
	LastOpts         commands.UpdateOptions
	Requests         []entities.UpdateRequest
}

var _ commands.Update = (*StubUpdateCommand)(nil)

func (s *StubUpdateCommand) Execute(
	_ context.Context,
	_ repositories.ProviderRepository,
	_ commands.Gateways,
	request entities.UpdateRequest,
	opts commands.UpdateOptions,
) (*entities.PullRequest, error) {
	s.ExecuteCallCount++
	s.LastRequest = request
	s.LastOpts = opts
	s.Requests = append(s.Requests, request)
	if s.ExecuteErr != nil {
		return nil, s.ExecuteErr
	}
	if s.Result != nil {
		return s.Result, nil
	}
	return &entities.PullRequest{ID: 1, Title: request.Summary(), URL: "https://example.com/pr/1"}, nil
}
