package usecase

import (
	"context"

	"storefront/internal/domain/service"
)

// NotificationUsecase turns published events into customer e-mails.
type NotificationUsecase interface {
	NotifyOrderPlaced(ctx context.Context, event *service.OrderPlacedEvent) error
	NotifyAccountEvent(ctx context.Context, event *service.AccountEvent) error
}
