package dto

// LocalizedCategory is a category rendered in the caller's language.
type LocalizedCategory struct {
	RemoteID     int64   `json:"remote_id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Description  string  `json:"description,omitempty"`
	ProductCount int     `json:"product_count"`
	ImageURL     *string `json:"image_url,omitempty"`
}

// CategoryNode is a category with its resolved children, for tree views.
type CategoryNode struct {
	LocalizedCategory
	Children []CategoryNode `json:"children,omitempty"`
}

// ThemeGroup is a hand-curated bucket of categories for the storefront's
// themed navigation.
type ThemeGroup struct {
	Theme      string              `json:"theme"`
	Categories []LocalizedCategory `json:"categories"`
}

// LocalizedProduct is one item of a localized product page. Price fields are
// margin-adjusted and currency-converted.
type LocalizedProduct struct {
	RemoteID         int64   `json:"remote_id"`
	Name             string  `json:"name"`
	Slug             string  `json:"slug"`
	Type             string  `json:"type"`
	ShortDescription string  `json:"short_description"`
	Price            float64 `json:"price"`
	RegularPrice     float64 `json:"regular_price"`
	SalePrice        float64 `json:"sale_price"`
	OnSale           bool    `json:"on_sale"`
	Currency         string  `json:"currency"`
	StockStatus      string  `json:"stock_status"`
	ImageURL         string  `json:"image_url,omitempty"`
	CategoryName     string  `json:"category_name,omitempty"`
	VariationCount   int     `json:"variation_count,omitempty"`
}

// LocalizedProductPage is one page of localized products plus paging info.
type LocalizedProductPage struct {
	Items    []LocalizedProduct `json:"items"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PerPage  int                `json:"per_page"`
	Lang     string             `json:"lang"`
	Currency string             `json:"currency"`
}

// LocalizedVariation is the per-variation price/stock summary on a detail view.
type LocalizedVariation struct {
	RemoteID      int64             `json:"remote_id"`
	Attributes    map[string]string `json:"attributes"`
	Price         float64           `json:"price"`
	RegularPrice  float64           `json:"regular_price"`
	SalePrice     float64           `json:"sale_price"`
	OnSale        bool              `json:"on_sale"`
	StockStatus   string            `json:"stock_status"`
	StockQuantity *int              `json:"stock_quantity,omitempty"`
	ImageURL      *string           `json:"image_url,omitempty"`
}

// ProductImageView is an image on a detail view.
type ProductImageView struct {
	URL      string `json:"url"`
	Alt      string `json:"alt,omitempty"`
	Position int    `json:"position"`
}

// LocalizedProductDetail is the full localized product view.
type LocalizedProductDetail struct {
	RemoteID         int64                `json:"remote_id"`
	Name             string               `json:"name"`
	Slug             string               `json:"slug"`
	Permalink        string               `json:"permalink"`
	Type             string               `json:"type"`
	ShortDescription string               `json:"short_description"`
	Description      string               `json:"description"`
	Price            float64              `json:"price"`
	RegularPrice     float64              `json:"regular_price"`
	SalePrice        float64              `json:"sale_price"`
	OnSale           bool                 `json:"on_sale"`
	Currency         string               `json:"currency"`
	StockStatus      string               `json:"stock_status"`
	StockQuantity    *int                 `json:"stock_quantity,omitempty"`
	RatingAverage    float64              `json:"rating_average"`
	RatingCount      int                  `json:"rating_count"`
	Images           []ProductImageView   `json:"images"`
	Categories       []LocalizedCategory  `json:"categories"`
	Attributes       map[string][]string  `json:"attributes,omitempty"`
	Variations       []LocalizedVariation `json:"variations,omitempty"`
	Lang             string               `json:"lang"`
}
