package model

import "time"

// Supplier product types.
const (
	ProductTypeSimple   = "simple"
	ProductTypeGrouped  = "grouped"
	ProductTypeExternal = "external"
	ProductTypeVariable = "variable"
)

// Product mirrors a supplier product. Price fields hold the raw supplier
// values; every sell price shown externally must go through pricing.Resolver.
type Product struct {
	BaseModel
	RemoteID         int64         `db:"remote_id" json:"remote_id"`
	Name             string        `db:"name" json:"name"`
	Slug             string        `db:"slug" json:"slug"`
	Permalink        string        `db:"permalink" json:"permalink"`
	Type             string        `db:"type" json:"type"`
	ShortDescription string        `db:"short_description" json:"short_description"`
	Description      string        `db:"description" json:"description"`
	Price            float64       `db:"price" json:"price"`
	RegularPrice     float64       `db:"regular_price" json:"regular_price"`
	SalePrice        float64       `db:"sale_price" json:"sale_price"`
	OnSale           bool          `db:"on_sale" json:"on_sale"`
	StockStatus      string        `db:"stock_status" json:"stock_status"`
	StockQuantity    *int          `db:"stock_quantity" json:"stock_quantity"` // Nullable when unmanaged
	ManageStock      bool          `db:"manage_stock" json:"manage_stock"`
	Attributes       AttributeList `db:"attributes" json:"attributes"`
	RatingAverage    float64       `db:"rating_average" json:"rating_average"`
	RatingCount      int           `db:"rating_count" json:"rating_count"`
	Featured         bool          `db:"featured" json:"featured"`
	Status           string        `db:"status" json:"status"`
	ParentRemoteID   int64         `db:"parent_remote_id" json:"parent_remote_id"`
	RemoteCreatedAt  *time.Time    `db:"remote_created_at" json:"remote_created_at"`
	RemoteModifiedAt *time.Time    `db:"remote_modified_at" json:"remote_modified_at"`
	LastSyncedAt     time.Time     `db:"last_synced_at" json:"last_synced_at"`

	Categories []Category         `db:"-" json:"categories,omitempty"` // Joined data
	Images     []ProductImage     `db:"-" json:"images,omitempty"`
	Variations []ProductVariation `db:"-" json:"variations,omitempty"`
}

// ProductImage rows are owned by a product and replaced wholesale on each sync.
type ProductImage struct {
	ID        string `db:"id" json:"id"`
	ProductID string `db:"product_id" json:"product_id"`
	RemoteID  int64  `db:"remote_id" json:"remote_id"`
	URL       string `db:"url" json:"url"`
	Alt       string `db:"alt" json:"alt"`
	Position  int    `db:"position" json:"position"`
}

// ProductVariation carries its own raw price/stock fields plus a flattened
// attribute map. Owned by a variable product, cascade-deleted with it.
type ProductVariation struct {
	BaseModel
	ProductID     string    `db:"product_id" json:"product_id"`
	RemoteID      int64     `db:"remote_id" json:"remote_id"`
	Price         float64   `db:"price" json:"price"`
	RegularPrice  float64   `db:"regular_price" json:"regular_price"`
	SalePrice     float64   `db:"sale_price" json:"sale_price"`
	OnSale        bool      `db:"on_sale" json:"on_sale"`
	StockStatus   string    `db:"stock_status" json:"stock_status"`
	StockQuantity *int      `db:"stock_quantity" json:"stock_quantity"`
	ManageStock   bool      `db:"manage_stock" json:"manage_stock"`
	Attributes    StringMap `db:"attributes" json:"attributes"`
	ImageURL      *string   `db:"image_url" json:"image_url"`
	LastSyncedAt  time.Time `db:"last_synced_at" json:"last_synced_at"`
}
