// internal/interface/repository/kv_notification_repo.go
package repository

import (
	"context"
	"encoding/json"
	"sync"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"
	"farewatch-service/pkg/logger"
)

// PriceNotificationsKey is the durable-store key holding the notification log
const PriceNotificationsKey = "priceNotifications"

const defaultNotificationLimit = 50

// KVNotificationRepository implements NotificationRepository on the durable
// key-value store. Records are kept newest-first and capped, with the oldest
// dropped on overflow.
type KVNotificationRepository struct {
	store         repository.KVStore
	logger        logger.Logger
	limit         int
	mu            sync.Mutex
	notifications []*entity.Notification
}

// NewKVNotificationRepository creates a notification log backed by the given
// key-value store, retaining at most limit records
func NewKVNotificationRepository(store repository.KVStore, limit int, log logger.Logger) *KVNotificationRepository {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}

	r := &KVNotificationRepository{
		store:  store,
		logger: log,
		limit:  limit,
	}
	r.notifications = r.loadSnapshot()
	return r
}

// Add prepends a notification, dropping the oldest past the cap
func (r *KVNotificationRepository) Add(ctx context.Context, notification *entity.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifications = append([]*entity.Notification{notification}, r.notifications...)
	if len(r.notifications) > r.limit {
		r.notifications = r.notifications[:r.limit]
	}

	r.persistLocked(ctx)
}

// List returns up to limit notifications, newest first. A non-positive limit
// returns everything retained.
func (r *KVNotificationRepository) List(ctx context.Context, limit int) []*entity.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 || limit > len(r.notifications) {
		limit = len(r.notifications)
	}

	result := make([]*entity.Notification, 0, limit)
	for _, n := range r.notifications[:limit] {
		clone := *n
		result = append(result, &clone)
	}
	return result
}

// Unread returns the unread notifications, newest first
func (r *KVNotificationRepository) Unread(ctx context.Context) []*entity.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*entity.Notification
	for _, n := range r.notifications {
		if !n.Read {
			clone := *n
			result = append(result, &clone)
		}
	}
	return result
}

// MarkRead marks one notification as read, returning false when absent
func (r *KVNotificationRepository) MarkRead(ctx context.Context, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.notifications {
		if n.ID == id {
			n.Read = true
			r.persistLocked(ctx)
			return true
		}
	}
	return false
}

// MarkAllRead marks every retained notification as read
func (r *KVNotificationRepository) MarkAllRead(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.notifications {
		n.Read = true
	}
	r.persistLocked(ctx)
}

// Delete removes one notification, returning false when absent
func (r *KVNotificationRepository) Delete(ctx context.Context, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, n := range r.notifications {
		if n.ID == id {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			r.persistLocked(ctx)
			return true
		}
	}
	return false
}

// Clear removes all notifications
func (r *KVNotificationRepository) Clear(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifications = nil
	r.persistLocked(ctx)
}

func (r *KVNotificationRepository) loadSnapshot() []*entity.Notification {
	data, found, err := r.store.Get(context.Background(), PriceNotificationsKey)
	if err != nil {
		r.logger.Error("Failed to load notifications, starting empty", "error", err)
		return nil
	}
	if !found {
		return nil
	}

	var notifications []*entity.Notification
	if err := json.Unmarshal(data, &notifications); err != nil {
		r.logger.Error("Stored notifications are corrupt, starting empty", "error", err)
		return nil
	}
	return notifications
}

func (r *KVNotificationRepository) persistLocked(ctx context.Context) {
	snapshot := r.notifications
	if snapshot == nil {
		snapshot = []*entity.Notification{}
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		r.logger.Error("Failed to encode notifications", "error", err)
		return
	}

	if err := r.store.Set(ctx, PriceNotificationsKey, data); err != nil {
		r.logger.Error("Failed to persist notifications", "error", err)
	}
}
