// Package producer emits delivery intents to the external sender pipeline.
package producer

import (
	"context"

	"fieldsafe/backend/internal/notification/domain"
)

// Producer emits resolved delivery intents. Delivery itself is external; this
// module only produces intents, never sends.
type Producer interface {
	Emit(ctx context.Context, intent domain.DeliveryIntent) error
	Close() error
}
