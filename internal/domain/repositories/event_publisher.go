package repositories

import (
	"context"

	"github.com/rondagdag/audience-survey/internal/domain/entities"
)

// EventPublisher delivers store changes to live subscribers
type EventPublisher interface {
	Publish(ctx context.Context, event entities.Event) error
}
