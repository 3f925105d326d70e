package model

// CategoryMargin is an operator-managed markup for one category. Exactly one
// of Percentage / Multiplier applies, selected by UseMultiplier.
type CategoryMargin struct {
	BaseModel
	CategoryID    string  `db:"category_id" json:"category_id"`
	Percentage    float64 `db:"percentage" json:"percentage"`
	Multiplier    float64 `db:"multiplier" json:"multiplier"`
	UseMultiplier bool    `db:"use_multiplier" json:"use_multiplier"`
	IsActive      bool    `db:"is_active" json:"is_active"`
	Notes         string  `db:"notes" json:"notes"`
}

// DefaultMargin is the catalog-wide fallback. At most one active row is used.
type DefaultMargin struct {
	BaseModel
	Percentage    float64 `db:"percentage" json:"percentage"`
	Multiplier    float64 `db:"multiplier" json:"multiplier"`
	UseMultiplier bool    `db:"use_multiplier" json:"use_multiplier"`
	IsActive      bool    `db:"is_active" json:"is_active"`
	Notes         string  `db:"notes" json:"notes"`
}
