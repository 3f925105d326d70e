package remote

// Record structs mirror the supplier's REST payloads. Prices arrive as
// strings and are parsed by the sync engine, not here.

type CategoryRecord struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Description string       `json:"description"`
	Parent      int64        `json:"parent"`
	Count       int          `json:"count"`
	MenuOrder   int          `json:"menu_order"`
	Image       *ImageRecord `json:"image"`
}

type ImageRecord struct {
	ID       int64  `json:"id"`
	Src      string `json:"src"`
	Alt      string `json:"alt"`
	Position int    `json:"position"`
}

type AttributeRecord struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

type DimensionsRecord struct {
	Length string `json:"length"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

type CategoryRefRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ProductRecord struct {
	ID               int64               `json:"id"`
	Name             string              `json:"name"`
	Slug             string              `json:"slug"`
	Permalink        string              `json:"permalink"`
	Type             string              `json:"type"`
	Status           string              `json:"status"`
	Featured         bool                `json:"featured"`
	Description      string              `json:"description"`
	ShortDescription string              `json:"short_description"`
	Price            string              `json:"price"`
	RegularPrice     string              `json:"regular_price"`
	SalePrice        string              `json:"sale_price"`
	OnSale           bool                `json:"on_sale"`
	StockStatus      string              `json:"stock_status"`
	StockQuantity    *int                `json:"stock_quantity"`
	ManageStock      bool                `json:"manage_stock"`
	Weight           string              `json:"weight"`
	Dimensions       DimensionsRecord    `json:"dimensions"`
	AverageRating    string              `json:"average_rating"`
	RatingCount      int                 `json:"rating_count"`
	ParentID         int64               `json:"parent_id"`
	Categories       []CategoryRefRecord `json:"categories"`
	Attributes       []AttributeRecord   `json:"attributes"`
	Images           []ImageRecord       `json:"images"`
	DateCreated      string              `json:"date_created_gmt"`
	DateModified     string              `json:"date_modified_gmt"`
}

// VariationAttributeRecord is a selected option on a variation,
// e.g. {"name": "Color", "option": "Red"}.
type VariationAttributeRecord struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Option string `json:"option"`
}

type VariationRecord struct {
	ID            int64                      `json:"id"`
	Price         string                     `json:"price"`
	RegularPrice  string                     `json:"regular_price"`
	SalePrice     string                     `json:"sale_price"`
	OnSale        bool                       `json:"on_sale"`
	Status        string                     `json:"status"`
	StockStatus   string                     `json:"stock_status"`
	StockQuantity *int                       `json:"stock_quantity"`
	ManageStock   bool                       `json:"manage_stock"`
	Attributes    []VariationAttributeRecord `json:"attributes"`
	Image         *ImageRecord               `json:"image"`
}

// AttributeMap flattens the variation's name/option pairs.
func (v *VariationRecord) AttributeMap() map[string]string {
	m := make(map[string]string, len(v.Attributes))
	for _, attr := range v.Attributes {
		m[attr.Name] = attr.Option
	}
	return m
}
