package interfaces

import (
	"context"

	"github.com/woowtech/odoogate/internal/models"
)

// AccountStorage persists account rows. Implementations must keep the
// at-most-one-active invariant observable: DeactivateAll completes before any
// subsequent activation is visible.
type AccountStorage interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
	Find(ctx context.Context, serverURL, database, username string) (*models.Account, error)
	GetActive(ctx context.Context) (*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
	Upsert(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id string) error
	DeactivateAll(ctx context.Context) error
	Activate(ctx context.Context, id string) error
	TouchLastLogin(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
