package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/andeanmarket/catalog-service/internal/catalog"
	"github.com/andeanmarket/catalog-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) UpsertCategory(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO categories (
            id, remote_id, name, slug, description, remote_parent_id,
            product_count, image_url, display_order, last_synced_at, created_at, updated_at
        )
        VALUES (
            :id, :remote_id, :name, :slug, :description, :remote_parent_id,
            :product_count, :image_url, :display_order, :last_synced_at, :created_at, :updated_at
        )
        ON CONFLICT (remote_id) DO UPDATE SET
            name = EXCLUDED.name,
            slug = EXCLUDED.slug,
            description = EXCLUDED.description,
            remote_parent_id = EXCLUDED.remote_parent_id,
            product_count = EXCLUDED.product_count,
            image_url = EXCLUDED.image_url,
            display_order = EXCLUDED.display_order,
            last_synced_at = EXCLUDED.last_synced_at,
            updated_at = EXCLUDED.updated_at
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

// ResolveCategoryParents runs the second pass after a category batch: parents
// may arrive later pages than their children, so references are linked only
// once the whole feed is consumed. Categories pointing at a parent that never
// appeared are returned as skipped, not treated as errors.
func (r *PGRepository) ResolveCategoryParents(ctx context.Context) (int, []int64, error) {
	res, err := r.DB.ExecContext(ctx, `
        UPDATE categories AS child
        SET parent_id = parent.id
        FROM categories AS parent
        WHERE child.remote_parent_id = parent.remote_id
          AND child.remote_parent_id > 0
    `)
	if err != nil {
		return 0, nil, err
	}
	resolved, _ := res.RowsAffected()

	var skipped []int64
	err = r.DB.SelectContext(ctx, &skipped, `
        SELECT remote_id FROM categories
        WHERE remote_parent_id > 0
          AND NOT EXISTS (
              SELECT 1 FROM categories p WHERE p.remote_id = categories.remote_parent_id
          )
    `)
	if err != nil {
		return int(resolved), nil, err
	}
	return int(resolved), skipped, nil
}

func (r *PGRepository) UpsertProduct(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, remote_id, name, slug, permalink, type, short_description, description,
            price, regular_price, sale_price, on_sale, stock_status, stock_quantity,
            manage_stock, attributes, rating_average, rating_count, featured, status,
            parent_remote_id, remote_created_at, remote_modified_at, last_synced_at,
            created_at, updated_at
        )
        VALUES (
            :id, :remote_id, :name, :slug, :permalink, :type, :short_description, :description,
            :price, :regular_price, :sale_price, :on_sale, :stock_status, :stock_quantity,
            :manage_stock, :attributes, :rating_average, :rating_count, :featured, :status,
            :parent_remote_id, :remote_created_at, :remote_modified_at, :last_synced_at,
            :created_at, :updated_at
        )
        ON CONFLICT (remote_id) DO UPDATE SET
            name = EXCLUDED.name,
            slug = EXCLUDED.slug,
            permalink = EXCLUDED.permalink,
            type = EXCLUDED.type,
            short_description = EXCLUDED.short_description,
            description = EXCLUDED.description,
            price = EXCLUDED.price,
            regular_price = EXCLUDED.regular_price,
            sale_price = EXCLUDED.sale_price,
            on_sale = EXCLUDED.on_sale,
            stock_status = EXCLUDED.stock_status,
            stock_quantity = EXCLUDED.stock_quantity,
            manage_stock = EXCLUDED.manage_stock,
            attributes = EXCLUDED.attributes,
            rating_average = EXCLUDED.rating_average,
            rating_count = EXCLUDED.rating_count,
            featured = EXCLUDED.featured,
            status = EXCLUDED.status,
            parent_remote_id = EXCLUDED.parent_remote_id,
            remote_created_at = EXCLUDED.remote_created_at,
            remote_modified_at = EXCLUDED.remote_modified_at,
            last_synced_at = EXCLUDED.last_synced_at,
            updated_at = EXCLUDED.updated_at
        RETURNING id
    `
	rows, err := r.DB.NamedQueryContext(ctx, query, p)
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		// Keep the row's id: on conflict the pre-existing one wins.
		if err := rows.Scan(&p.ID); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *PGRepository) ReplaceProductCategories(ctx context.Context, productID string, remoteCategoryIDs []int64) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_categories WHERE product_id = $1`, productID); err != nil {
		return err
	}

	// Insert in feed order; remote ids with no local category are dropped.
	for position, remoteID := range remoteCategoryIDs {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO product_categories (product_id, category_id, position)
            SELECT $1, id, $2 FROM categories WHERE remote_id = $3
            ON CONFLICT DO NOTHING
        `, productID, position, remoteID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ReplaceProductImages deletes and reinserts the product's images in position
// order. There is no guard against a concurrent read of the same product's
// images; acceptable at batch-sync frequency.
func (r *PGRepository) ReplaceProductImages(ctx context.Context, productID string, images []model.ProductImage) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_images WHERE product_id = $1`, productID); err != nil {
		return err
	}

	for _, img := range images {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO product_images (id, product_id, remote_id, url, alt, position)
            VALUES ($1, $2, $3, $4, $5, $6)
        `, img.ID, productID, img.RemoteID, img.URL, img.Alt, img.Position)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PGRepository) UpsertVariation(ctx context.Context, v *model.ProductVariation) error {
	query := `
        INSERT INTO product_variations (
            id, product_id, remote_id, price, regular_price, sale_price, on_sale,
            stock_status, stock_quantity, manage_stock, attributes, image_url,
            last_synced_at, created_at, updated_at
        )
        VALUES (
            :id, :product_id, :remote_id, :price, :regular_price, :sale_price, :on_sale,
            :stock_status, :stock_quantity, :manage_stock, :attributes, :image_url,
            :last_synced_at, :created_at, :updated_at
        )
        ON CONFLICT (remote_id) DO UPDATE SET
            product_id = EXCLUDED.product_id,
            price = EXCLUDED.price,
            regular_price = EXCLUDED.regular_price,
            sale_price = EXCLUDED.sale_price,
            on_sale = EXCLUDED.on_sale,
            stock_status = EXCLUDED.stock_status,
            stock_quantity = EXCLUDED.stock_quantity,
            manage_stock = EXCLUDED.manage_stock,
            attributes = EXCLUDED.attributes,
            image_url = EXCLUDED.image_url,
            last_synced_at = EXCLUDED.last_synced_at,
            updated_at = EXCLUDED.updated_at
    `
	_, err := r.DB.NamedExecContext(ctx, query, v)
	return err
}

func (r *PGRepository) UpdateStockAndPrice(ctx context.Context, u *catalog.StockPriceUpdate) error {
	res, err := r.DB.ExecContext(ctx, `
        UPDATE products SET
            price = $2,
            regular_price = $3,
            sale_price = $4,
            on_sale = $5,
            stock_status = $6,
            stock_quantity = $7,
            manage_stock = $8,
            last_synced_at = NOW(),
            updated_at = NOW()
        WHERE remote_id = $1
    `, u.RemoteID, u.Price, u.RegularPrice, u.SalePrice, u.OnSale, u.StockStatus, u.StockQuantity, u.ManageStock)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("product with remote id %d not found", u.RemoteID)
	}
	return nil
}

func (r *PGRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.DB.SelectContext(ctx, &categories, `
        SELECT * FROM categories ORDER BY display_order ASC, name ASC
    `)
	return categories, err
}

func (r *PGRepository) GetCategoryByRemoteID(ctx context.Context, remoteID int64) (*model.Category, error) {
	var category model.Category
	err := r.DB.GetContext(ctx, &category, `SELECT * FROM categories WHERE remote_id = $1 LIMIT 1`, remoteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *PGRepository) ListPublishedProducts(ctx context.Context, categoryRemoteID int64, page, perPage int) (*catalog.ProductPage, error) {
	conditions := []string{"p.status = 'publish'"}
	args := []interface{}{}

	if categoryRemoteID > 0 {
		args = append(args, categoryRemoteID)
		conditions = append(conditions, fmt.Sprintf(`
            EXISTS (
                SELECT 1 FROM product_categories pc
                JOIN categories c ON c.id = pc.category_id
                WHERE pc.product_id = p.id AND c.remote_id = $%d
            )`, len(args)))
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.DB.GetContext(ctx, &total, "SELECT count(*) FROM products p"+whereClause, args...); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	query := "SELECT p.* FROM products p" + whereClause +
		" ORDER BY p.remote_created_at DESC NULLS LAST, p.remote_id DESC"
	if perPage > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", perPage, (page-1)*perPage)
	}

	var products []model.Product
	if err := r.DB.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, err
	}

	return &catalog.ProductPage{Products: products, Total: total}, nil
}

func (r *PGRepository) GetProductByRemoteID(ctx context.Context, remoteID int64) (*model.Product, error) {
	var product model.Product
	err := r.DB.GetContext(ctx, &product, `SELECT * FROM products WHERE remote_id = $1 LIMIT 1`, remoteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	loaded, err := r.LoadProductRelations(ctx, []model.Product{product})
	if err != nil {
		return nil, err
	}
	return &loaded[0], nil
}

func (r *PGRepository) ListVariableProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.DB.SelectContext(ctx, &products, `
        SELECT * FROM products WHERE type = $1 AND status = 'publish' ORDER BY remote_id
    `, model.ProductTypeVariable)
	return products, err
}

func (r *PGRepository) ListPublishedRemoteIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.DB.SelectContext(ctx, &ids, `SELECT remote_id FROM products WHERE status = 'publish' ORDER BY remote_id`)
	return ids, err
}

// LoadProductRelations attaches images and ordered categories to each product
// in the slice with two batched queries.
func (r *PGRepository) LoadProductRelations(ctx context.Context, products []model.Product) ([]model.Product, error) {
	if len(products) == 0 {
		return products, nil
	}

	ids := make([]string, 0, len(products))
	index := make(map[string]int, len(products))
	for i := range products {
		ids = append(ids, products[i].ID)
		index[products[i].ID] = i
	}

	imgQuery, imgArgs, err := sqlx.In(`
        SELECT * FROM product_images WHERE product_id IN (?) ORDER BY product_id, position
    `, ids)
	if err != nil {
		return nil, err
	}
	var images []model.ProductImage
	if err := r.DB.SelectContext(ctx, &images, r.DB.Rebind(imgQuery), imgArgs...); err != nil {
		return nil, err
	}
	for _, img := range images {
		i := index[img.ProductID]
		products[i].Images = append(products[i].Images, img)
	}

	type productCategory struct {
		ProductID string `db:"product_id"`
		model.Category
	}
	catQuery, catArgs, err := sqlx.In(`
        SELECT pc.product_id, c.* FROM product_categories pc
        JOIN categories c ON c.id = pc.category_id
        WHERE pc.product_id IN (?)
        ORDER BY pc.product_id, pc.position
    `, ids)
	if err != nil {
		return nil, err
	}
	var cats []productCategory
	if err := r.DB.SelectContext(ctx, &cats, r.DB.Rebind(catQuery), catArgs...); err != nil {
		return nil, err
	}
	for _, pc := range cats {
		i := index[pc.ProductID]
		products[i].Categories = append(products[i].Categories, pc.Category)
	}

	return products, nil
}

func (r *PGRepository) ListVariations(ctx context.Context, productID string) ([]model.ProductVariation, error) {
	var variations []model.ProductVariation
	err := r.DB.SelectContext(ctx, &variations, `
        SELECT * FROM product_variations WHERE product_id = $1 ORDER BY remote_id
    `, productID)
	return variations, err
}

func (r *PGRepository) CountVariations(ctx context.Context, productID string) (int, error) {
	var count int
	err := r.DB.GetContext(ctx, &count, `SELECT count(*) FROM product_variations WHERE product_id = $1`, productID)
	return count, err
}

func (r *PGRepository) TopCategories(ctx context.Context, limit int) ([]model.Category, error) {
	var categories []model.Category
	err := r.DB.SelectContext(ctx, &categories, `
        SELECT * FROM categories ORDER BY product_count DESC, name ASC LIMIT $1
    `, limit)
	return categories, err
}

func (r *PGRepository) Stats(ctx context.Context) (*catalog.CatalogStats, error) {
	stats := &catalog.CatalogStats{}
	err := r.DB.GetContext(ctx, stats, `
        SELECT
            (SELECT count(*) FROM categories) AS categories,
            (SELECT count(*) FROM products) AS products,
            (SELECT count(*) FROM products WHERE status = 'publish') AS published,
            (SELECT count(*) FROM product_variations) AS variations,
            (SELECT count(*) FROM products WHERE on_sale) AS on_sale,
            (SELECT COALESCE(avg(price), 0) FROM products WHERE status = 'publish') AS average_price,
            (SELECT count(*) FROM translated_entries) AS translated_rows
    `)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
