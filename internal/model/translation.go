package model

import "time"

// Content types for translated entries. The type decides the HTML policy:
// name-like fields are stripped of markup before translation, description
// fields keep the markup-bearing original as the persisted source.
const (
	ContentTypeCategoryName       = "category_name"
	ContentTypeProductName        = "product_name"
	ContentTypeProductShortDesc   = "product_short_description"
	ContentTypeProductDescription = "product_description"
	ContentTypeFreeText           = "free_text"
)

// TranslatedEntry is one cached translation, unique on
// (content_type, object_id, target_lang). Written only by the batch filler
// or an explicit re-translate; read-only everywhere else.
type TranslatedEntry struct {
	ID             string    `db:"id" json:"id"`
	ContentType    string    `db:"content_type" json:"content_type"`
	ObjectID       int64     `db:"object_id" json:"object_id"`
	SourceLang     string    `db:"source_lang" json:"source_lang"`
	TargetLang     string    `db:"target_lang" json:"target_lang"`
	SourceText     string    `db:"source_text" json:"source_text"`
	TranslatedText string    `db:"translated_text" json:"translated_text"`
	Engine         string    `db:"engine" json:"engine"`
	Verified       bool      `db:"verified" json:"verified"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// IsNameContent reports whether markup must be stripped before translating.
func IsNameContent(contentType string) bool {
	return contentType == ContentTypeCategoryName || contentType == ContentTypeProductName
}
