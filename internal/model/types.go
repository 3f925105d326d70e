package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// ProductAttribute is one ordered name→options entry from the supplier feed.
type ProductAttribute struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

// AttributeList is stored as a JSONB column.
type AttributeList []ProductAttribute

func (a AttributeList) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return json.Marshal(a)
}

func (a *AttributeList) Scan(src interface{}) error {
	return scanJSON(src, a)
}

// StringMap is a flattened attribute map, e.g. {"Color":"Red"}. JSONB column.
type StringMap map[string]string

func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

func (m *StringMap) Scan(src interface{}) error {
	return scanJSON(src, m)
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("unsupported source type for JSON column")
	}
}
