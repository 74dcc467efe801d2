package messaging

import (
	"context"

	"github.com/feral-file/ff-nft-lifecycle/internal/domain"
)

// Publisher defines the interface for publishing contract events to a message broker
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishEvent publishes a decoded contract event
	PublishEvent(ctx context.Context, event domain.ChainEvent) error
	// Close closes the connection
	Close()
}
