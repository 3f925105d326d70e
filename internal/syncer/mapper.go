package syncer

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/andeanmarket/catalog-service/internal/model"
	"github.com/andeanmarket/catalog-service/internal/remote"
)

// Supplier timestamps arrive without a zone suffix, in GMT.
const remoteTimeLayout = "2006-01-02T15:04:05"

func mapCategory(rec *remote.CategoryRecord, now time.Time) *model.Category {
	c := &model.Category{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		RemoteID:       rec.ID,
		Name:           rec.Name,
		Slug:           rec.Slug,
		Description:    rec.Description,
		RemoteParentID: rec.Parent,
		ProductCount:   rec.Count,
		DisplayOrder:   rec.MenuOrder,
		LastSyncedAt:   now,
	}
	if rec.Image != nil && rec.Image.Src != "" {
		src := rec.Image.Src
		c.ImageURL = &src
	}
	return c
}

func mapProduct(rec *remote.ProductRecord, now time.Time) *model.Product {
	attrs := make(model.AttributeList, 0, len(rec.Attributes))
	for _, a := range rec.Attributes {
		attrs = append(attrs, model.ProductAttribute{Name: a.Name, Options: a.Options})
	}

	return &model.Product{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		RemoteID:         rec.ID,
		Name:             rec.Name,
		Slug:             rec.Slug,
		Permalink:        rec.Permalink,
		Type:             rec.Type,
		ShortDescription: rec.ShortDescription,
		Description:      rec.Description,
		Price:            parsePrice(rec.Price),
		RegularPrice:     parsePrice(rec.RegularPrice),
		SalePrice:        parsePrice(rec.SalePrice),
		OnSale:           rec.OnSale,
		StockStatus:      rec.StockStatus,
		StockQuantity:    rec.StockQuantity,
		ManageStock:      rec.ManageStock,
		Attributes:       attrs,
		RatingAverage:    parsePrice(rec.AverageRating),
		RatingCount:      rec.RatingCount,
		Featured:         rec.Featured,
		Status:           rec.Status,
		ParentRemoteID:   rec.ParentID,
		RemoteCreatedAt:  parseRemoteTime(rec.DateCreated),
		RemoteModifiedAt: parseRemoteTime(rec.DateModified),
		LastSyncedAt:     now,
	}
}

func mapImages(productID string, records []remote.ImageRecord) []model.ProductImage {
	images := make([]model.ProductImage, 0, len(records))
	for i, rec := range records {
		position := rec.Position
		if position == 0 {
			position = i
		}
		images = append(images, model.ProductImage{
			ID:        uuid.New().String(),
			ProductID: productID,
			RemoteID:  rec.ID,
			URL:       rec.Src,
			Alt:       rec.Alt,
			Position:  position,
		})
	}
	return images
}

func mapVariation(productID string, rec *remote.VariationRecord, now time.Time) *model.ProductVariation {
	v := &model.ProductVariation{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ProductID:     productID,
		RemoteID:      rec.ID,
		Price:         parsePrice(rec.Price),
		RegularPrice:  parsePrice(rec.RegularPrice),
		SalePrice:     parsePrice(rec.SalePrice),
		OnSale:        rec.OnSale,
		StockStatus:   rec.StockStatus,
		StockQuantity: rec.StockQuantity,
		ManageStock:   rec.ManageStock,
		Attributes:    rec.AttributeMap(),
		LastSyncedAt:  now,
	}
	if rec.Image != nil && rec.Image.Src != "" {
		src := rec.Image.Src
		v.ImageURL = &src
	}
	return v
}

// parsePrice tolerates the supplier's empty price strings.
func parsePrice(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseRemoteTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(remoteTimeLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
