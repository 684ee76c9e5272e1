package repository

import (
	"context"

	"farewatch-service/internal/domain/entity"
)

// NotificationRepository defines the interface for the notification log
type NotificationRepository interface {
	Add(ctx context.Context, notification *entity.Notification)
	List(ctx context.Context, limit int) []*entity.Notification
	Unread(ctx context.Context) []*entity.Notification
	MarkRead(ctx context.Context, id string) bool
	MarkAllRead(ctx context.Context)
	Delete(ctx context.Context, id string) bool
	Clear(ctx context.Context)
}
