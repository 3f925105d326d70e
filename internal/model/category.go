package model

import "time"

// Category mirrors a supplier category. Rows are written only by the sync
// engine; remote_id is globally unique. ParentID is resolved in a second pass
// after a sync batch because the paginated feed may deliver children first.
type Category struct {
	BaseModel
	RemoteID       int64      `db:"remote_id" json:"remote_id"`
	Name           string     `db:"name" json:"name"`
	Slug           string     `db:"slug" json:"slug"`
	Description    string     `db:"description" json:"description"`
	RemoteParentID int64      `db:"remote_parent_id" json:"remote_parent_id"`
	ParentID       *string    `db:"parent_id" json:"parent_id"` // Nullable
	ProductCount   int        `db:"product_count" json:"product_count"`
	ImageURL       *string    `db:"image_url" json:"image_url"`
	DisplayOrder   int        `db:"display_order" json:"display_order"`
	LastSyncedAt   time.Time  `db:"last_synced_at" json:"last_synced_at"`
	Children       []Category `db:"-" json:"children,omitempty"` // For tree views, not in DB
}
