package jira

import (
	"context"
	"fmt"
	"strings"

	jira "github.com/andygrunwald/go-jira"

	"github.com/rios0rios0/depbump/internal/domain/entities"
	"github.com/rios0rios0/depbump/internal/domain/repositories"
)

const defaultIssueType = "Task"

// JiraTicketRepository implements repositories.TicketRepository against a
// Jira instance.
type JiraTicketRepository struct {
	client     *jira.Client
	projectKey string
	issueType  string
}

// NewTicketRepository connects to the configured Jira instance using basic
// auth (username + API token).
func NewTicketRepository(cfg entities.TicketingConfig) (repositories.TicketRepository, error) {
	transport := jira.BasicAuthTransport{
		Username: cfg.Username,
		Password: cfg.Token,
	}

	client, err := jira.NewClient(transport.Client(), cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to create jira client for %q: %w", cfg.URL, err)
	}

	issueType := cfg.IssueType
	if issueType == "" {
		issueType = defaultIssueType
	}

	return &JiraTicketRepository{
		client:     client,
		projectKey: cfg.ProjectKey,
		issueType:  issueType,
	}, nil
}

// CreateTicket opens a ticket with the rendered rich description.
func (r *JiraTicketRepository) CreateTicket(
	ctx context.Context,
	project, summary string,
	description []entities.ContentNode,
	issueType string,
) error {
	if issueType == "" {
		issueType = r.issueType
	}

	issue := &jira.Issue{
		Fields: &jira.IssueFields{
			Project:     jira.Project{Key: project},
			Summary:     summary,
			Description: RenderDescription(description),
			Type:        jira.IssueType{Name: issueType},
		},
	}

	_, _, err := r.client.Issue.CreateWithContext(ctx, issue)
	if err != nil {
		return fmt.Errorf("failed to create ticket in %q: %w", project, err)
	}
	return nil
}

// NotifyUpdate opens a ticket announcing a published change request.
func (r *JiraTicketRepository) NotifyUpdate(
	ctx context.Context,
	request entities.UpdateRequest,
	changeRequestURL string,
) error {
	return r.CreateTicket(
		ctx,
		r.projectKey,
		request.Summary(),
		entities.NotificationBody(request, changeRequestURL),
		r.issueType,
	)
}

// RenderDescription flattens typed content nodes into Jira wiki markup:
// text nodes verbatim, link nodes as "[text|url]".
func RenderDescription(nodes []entities.ContentNode) string {
	var builder strings.Builder
	for _, node := range nodes {
		switch node.Type {
		case entities.ContentLink:
			if node.Text == "" {
				builder.WriteString("[" + node.URL + "]")
			} else {
				builder.WriteString("[" + node.Text + "|" + node.URL + "]")
			}
		default:
			builder.WriteString(node.Text)
		}
	}
	return builder.String()
}
