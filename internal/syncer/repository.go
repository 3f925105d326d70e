package syncer

import (
	"context"

	"github.com/andeanmarket/catalog-service/internal/model"
)

// RunRepository persists sync-run audit records. A run is inserted as started
// and finished exactly once by the owning sync call.
type RunRepository interface {
	Create(ctx context.Context, run *model.SyncRun) error
	Finish(ctx context.Context, run *model.SyncRun) error
	GetByID(ctx context.Context, id string) (*model.SyncRun, error)
	ListRecent(ctx context.Context, limit int) ([]model.SyncRun, error)
}
