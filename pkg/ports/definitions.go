package ports

import (
	"context"

	"github.com/wadjakorntonsri/go-shortlink/pkg/core/domain"
)

// LinkRepository defines storage operations for links
type LinkRepository interface {
	// Create inserts a new link. Returns domain.ErrConflict if the short
	// code or deletion token is already taken.
	Create(ctx context.Context, link *domain.Link) error
	// GetByShortCode returns (nil, nil) when the code is unknown.
	GetByShortCode(ctx context.Context, code string) (*domain.Link, error)
	// Exists reports whether a short code is taken, without fetching the row.
	Exists(ctx context.Context, code string) (bool, error)
	// IncrementClicks bumps the click counter in place, atomically.
	IncrementClicks(ctx context.Context, code string) error
	// Delete hard-deletes the row; the code becomes reusable immediately.
	Delete(ctx context.Context, code string) error
	Dump(ctx context.Context) ([]domain.Link, error) // For the export/import CLI
	Close() error
}

// LinkService defines the business logic operations
type LinkService interface {
	CreateLink(ctx context.Context, rawURL string) (*domain.Link, error)
	Resolve(ctx context.Context, code string) (string, error)
	Stats(ctx context.Context, code string) (*domain.Link, error)
	DeletionViewExists(ctx context.Context, code string) (bool, error)
	ConfirmDeletion(ctx context.Context, code, token string) error
}
