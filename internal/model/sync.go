package model

import "time"

// Sync run types.
const (
	SyncTypeFull           = "full"
	SyncTypeIncremental    = "incremental"
	SyncTypeCategoriesOnly = "categories_only"
	SyncTypeProductsOnly   = "products_only"
	SyncTypeVariationsOnly = "variations_only"
)

// Sync run statuses. A run is created as started and set terminal exactly once.
const (
	SyncStatusStarted = "started"
	SyncStatusSuccess = "success"
	SyncStatusPartial = "partial"
	SyncStatusFailed  = "failed"
)

// SyncRun is the audit record for one execution of the sync engine. It is
// mutated only by the owning sync call and is immutable once terminal.
type SyncRun struct {
	ID               string     `db:"id" json:"id"`
	Type             string     `db:"type" json:"type"`
	Status           string     `db:"status" json:"status"`
	CategoriesSynced int        `db:"categories_synced" json:"categories_synced"`
	ProductsSynced   int        `db:"products_synced" json:"products_synced"`
	VariationsSynced int        `db:"variations_synced" json:"variations_synced"`
	ErrorCount       int        `db:"error_count" json:"error_count"`
	ErrorDetails     string     `db:"error_details" json:"error_details"`
	StartedAt        time.Time  `db:"started_at" json:"started_at"`
	FinishedAt       *time.Time `db:"finished_at" json:"finished_at"`
}

// Duration is derived from the timestamps; zero until the run is terminal.
func (r *SyncRun) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
