// ABOUTME: Repository interface for body-measurement records.
// ABOUTME: Defines the contract the CLI, MCP server, and export code depend on.
package storage

import (
	"context"

	"github.com/harperreed/bodylog/internal/models"
)

// Repository defines the storage interface for records.
// This interface allows swapping implementations (e.g., for testing).
//
// Boolean results conflate "no such row" with "database unavailable";
// the error return is reserved for ErrInvalidArgument.
type Repository interface {
	List(ctx context.Context) []models.Record
	FindByID(ctx context.Context, r *models.Record) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Insert(ctx context.Context, r *models.Record) (bool, error)
	Update(ctx context.Context, r *models.Record) (bool, error)
	Delete(ctx context.Context, r *models.Record) (bool, error)
}
