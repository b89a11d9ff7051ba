// Package store defines the persistence contract behind the development API server.
package store

import (
	"context"
	"errors"

	"github.com/Makepad-fr/tada/internal/model"
)

// ErrNotFound is returned when no item has the requested id.
var ErrNotFound = errors.New("todo not found")

// Store persists todos for every owner. Ids are assigned by the store,
// start at 1 and are never reused.
type Store interface {
	List(ctx context.Context, userID int) ([]model.Item, error)
	Create(ctx context.Context, d model.Draft) (model.Item, error)
	Delete(ctx context.Context, id int) error
	Close() error
}
