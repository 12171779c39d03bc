package interfaces

import (
	"context"

	"inventory-ledger/internal/models"
)

// MessagePublisher defines the contract for publishing stock-change events.
// Events are an observability side-channel: publish failures are logged by
// callers and never affect ledger control flow.
type MessagePublisher interface {
	PublishStockEvent(ctx context.Context, event *models.StockEvent) error
	Close() error
}
