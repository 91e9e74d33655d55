// Package database persists the order document. Two backends implement Store:
// a JSON file for single-instance deployments and MongoDB for everything else.
package database

import (
	"context"

	"sals-backend/internal/models"
)

// Store loads and persists the whole document. Update is the only safe way to
// change it: the load, the mutation and the write happen as one unit, and
// nothing is written when fn returns an error. fn may run more than once on
// backends that retry, so it must not keep state between calls.
type Store interface {
	Load(ctx context.Context) (*models.Document, error)
	Save(ctx context.Context, doc *models.Document) error
	Update(ctx context.Context, fn func(doc *models.Document) error) error
	Close(ctx context.Context) error
}

// Pinger is implemented by stores that can report whether their backend is
// reachable without touching the document.
type Pinger interface {
	Ping(ctx context.Context) error
}
