package repository

import (
	"context"

	"farewatch-service/internal/domain/entity"
)

// AlertDispatcher delivers fired alerts to an outbound channel.
// Dispatch is fire-and-forget from the pipeline's point of view.
type AlertDispatcher interface {
	Name() string
	Dispatch(ctx context.Context, event *entity.AlertEvent) error
}
