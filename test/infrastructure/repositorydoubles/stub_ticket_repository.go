//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/depbump/internal/domain/entities"
	"github.com/rios0rios0/depbump/internal/domain/repositories"
)

// TicketCall records one CreateTicket invocation.
type TicketCall struct {
	Project     string
	Summary     string
	Description []entities.ContentNode
	IssueType   string
}

// NotifyCall records one NotifyUpdate invocation.
type NotifyCall struct {
	Request          entities.UpdateRequest
	ChangeRequestURL string
}

// SpyTicketRepository implements repositories.TicketRepository as a configurable spy.
type SpyTicketRepository struct {
	CreateTicketErr error
	TicketCalls     []TicketCall

	NotifyErr   error
	NotifyCalls []NotifyCall
}

var _ repositories.TicketRepository = (*SpyTicketRepository)(nil)

func (s *SpyTicketRepository) CreateTicket(
	_ context.Context,
	project, summary string,
	description []entities.ContentNode,
	issueType string,
) error {
	s.TicketCalls = append(s.TicketCalls, TicketCall{
		Project:     project,
		Summary:     summary,
		Description: description,
		IssueType:   issueType,
	})
	return s.CreateTicketErr
}

func (s *SpyTicketRepository) NotifyUpdate(
	_ context.Context, request entities.UpdateRequest, changeRequestURL string,
) error {
	s.NotifyCalls = append(s.NotifyCalls, NotifyCall{
		Request:          request,
		ChangeRequestURL: changeRequestURL,
	})
	return s.NotifyErr
}
