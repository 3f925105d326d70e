package syncer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andeanmarket/catalog-service/internal/remote"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain", "120000", 120000},
		{"decimal", "99.90", 99.9},
		{"empty means unset", "", 0},
		{"garbage means unset", "n/a", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, parsePrice(tt.input), 1e-9)
		})
	}
}

func TestParseRemoteTime(t *testing.T) {
	got := parseRemoteTime("2024-03-15T10:30:00")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), *got)

	assert.Nil(t, parseRemoteTime(""))
	assert.Nil(t, parseRemoteTime("15/03/2024"))
}

func TestMapProduct(t *testing.T) {
	now := time.Now()
	rec := &remote.ProductRecord{
		ID:            42,
		Name:          "Cafetera italiana",
		Type:          "simple",
		Status:        "publish",
		Price:         "120000",
		RegularPrice:  "130000",
		SalePrice:     "",
		OnSale:        false,
		AverageRating: "4.5",
		RatingCount:   12,
		Attributes: []remote.AttributeRecord{
			{Name: "Material", Options: []string{"Aluminio", "Acero"}},
		},
		DateCreated: "2024-03-15T10:30:00",
	}

	p := mapProduct(rec, now)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, int64(42), p.RemoteID)
	assert.InDelta(t, 120000.0, p.Price, 1e-9)
	assert.InDelta(t, 0.0, p.SalePrice, 1e-9)
	assert.InDelta(t, 4.5, p.RatingAverage, 1e-9)
	require.Len(t, p.Attributes, 1)
	assert.Equal(t, "Material", p.Attributes[0].Name)
	require.NotNil(t, p.RemoteCreatedAt)
	assert.Nil(t, p.RemoteModifiedAt)
	assert.Equal(t, now, p.LastSyncedAt)
}

func TestMapImages_PositionFallsBackToIndex(t *testing.T) {
	images := mapImages("prod-1", []remote.ImageRecord{
		{ID: 1, Src: "a.jpg"},
		{ID: 2, Src: "b.jpg"},
		{ID: 3, Src: "c.jpg", Position: 7},
	})

	require.Len(t, images, 3)
	assert.Equal(t, 0, images[0].Position)
	assert.Equal(t, 1, images[1].Position)
	assert.Equal(t, 7, images[2].Position)
	assert.Equal(t, "prod-1", images[0].ProductID)
}

func TestMapVariation_FlattensAttributes(t *testing.T) {
	now := time.Now()
	rec := &remote.VariationRecord{
		ID:    4201,
		Price: "99000",
		Attributes: []remote.VariationAttributeRecord{
			{Name: "Color", Option: "Rojo"},
			{Name: "Talla", Option: "M"},
		},
		Image: &remote.ImageRecord{Src: "rojo-m.jpg"},
	}

	v := mapVariation("prod-1", rec, now)

	assert.Equal(t, "prod-1", v.ProductID)
	assert.Equal(t, map[string]string{"Color": "Rojo", "Talla": "M"}, map[string]string(v.Attributes))
	require.NotNil(t, v.ImageURL)
	assert.Equal(t, "rojo-m.jpg", *v.ImageURL)
}

func TestBatchError(t *testing.T) {
	b := &BatchError{}
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, "", b.Details())

	b.Add("category", 7, assert.AnError)
	b.Add("product", 42, assert.AnError)

	assert.Equal(t, 2, b.Len())
	assert.Contains(t, b.Details(), "category 7")
	assert.Contains(t, b.Details(), "product 42")
	assert.Equal(t, "2 record(s) failed", b.Error())
}
