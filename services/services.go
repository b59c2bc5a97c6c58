// Package services holds the business logic: auth, catalog, cart mutation
// and checkout. All stock-sensitive writes run inside store transactions;
// the cache is advisory and never drives a decision.
package services

import (
	"context"

	apperrors "github.com/shopswift/backend/errors"
	"github.com/shopswift/backend/models"
)

// EventPublisher publishes domain events after a transaction commits.
// Publishing is best-effort and must never fail the request.
type EventPublisher interface {
	OrderCreated(ctx context.Context, order *models.Order) error
}

// storeErr passes domain errors through unchanged and wraps anything else as
// a database failure with the given message.
func storeErr(err error, message string) error {
	if apperrors.IsDomain(err) {
		return err
	}
	return apperrors.Database(message, err)
}

func totalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
