package repositories

import (
	"context"

	"github.com/rios0rios0/depbump/internal/domain/entities"
)

// TicketRepository abstracts the ticketing system that tracks published
// version bumps.
type TicketRepository interface {
	// CreateTicket opens a ticket with a rich description made of typed
	// content nodes.
	CreateTicket(
		ctx context.Context,
		project, summary string,
		description []entities.ContentNode,
		issueType string,
	) error

	// NotifyUpdate announces a published change request for the given bump.
	NotifyUpdate(ctx context.Context, request entities.UpdateRequest, changeRequestURL string) error
}

// TicketGatewayFactory connects a ticketing gateway for the configured
// tracker.
type TicketGatewayFactory func(cfg entities.TicketingConfig) (TicketRepository, error)
