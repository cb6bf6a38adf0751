package service

import (
	"context"

	"storyhub/entities"
	"storyhub/pkg/auth"
	"storyhub/pkg/story/repository"
)

type ClaimResult struct {
	Story      *entities.Story                `json:"story"`
	Assignment *entities.TranslatorAssignment `json:"assignment"`
	Outcome    repository.Outcome             `json:"-"`
	// Noop is set when the actor already held the active assignment.
	Noop bool `json:"noop"`
}

// WorkflowService moves stories through DRAFT → IN_TRANSLATION → REVIEW → PUBLISHED.
// Every call re-validates its preconditions inside one transaction.
type WorkflowService interface {
	Claim(ctx context.Context, storyID uint, actor auth.Actor) (*ClaimResult, error)
	Complete(ctx context.Context, storyID uint, actor auth.Actor) (*entities.Story, error)
	Publish(ctx context.Context, storyID uint, actor auth.Actor) (*entities.Story, error)
}
