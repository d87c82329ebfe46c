// Package catalog reads products and categories straight from the relational
// catalog schema.
//
// List reads degrade: a store failure is logged and an empty page comes
// back. Detail reads surface every failure to the caller.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"

	"github.com/01moynul/storefront/internal/apperr"
	"github.com/01moynul/storefront/internal/database"
	"github.com/01moynul/storefront/internal/models"
)

// Repository runs catalog queries over a shared connection pool.
type Repository struct {
	db      *sql.DB
	dialect database.Dialect
	log     zerolog.Logger
}

func NewRepository(db *sql.DB, d database.Dialect, log zerolog.Logger) *Repository {
	return &Repository{
		db:      db,
		dialect: d,
		log:     log.With().Str("component", "catalog").Logger(),
	}
}

// ListProducts returns one page of active products that belong to exactly
// p.CategoryID (when set) and match p.Search (when set), plus the total count.
func (r *Repository) ListProducts(ctx context.Context, p ListParams) (ProductList, error) {
	return r.list(ctx, "catalog.ListProducts", p, categoryFilter(p))
}

// ListProductsWithChildCategories behaves like ListProducts but also accepts
// products filed under a direct child of p.CategoryID. Only one level is
// expanded.
func (r *Repository) ListProductsWithChildCategories(ctx context.Context, p ListParams) (ProductList, error) {
	const op = "catalog.ListProductsWithChildCategories"

	if p.CategoryID == nil {
		return r.list(ctx, op, p, nil)
	}

	children, err := r.ChildCategories(ctx, *p.CategoryID)
	if err != nil {
		r.log.Error().Err(err).Str("op", op).Int64("category_id", *p.CategoryID).Msg("Failed to resolve child categories")
		return emptyList(), nil
	}

	ids := []int64{*p.CategoryID}
	for _, c := range children {
		ids = append(ids, c.ID)
	}
	return r.list(ctx, op, p, ids)
}

func (r *Repository) list(ctx context.Context, op string, p ListParams, categoryIDs []int64) (ProductList, error) {
	// 1. --- Build both queries up front so bad params never touch the DB ---
	query, args, err := buildListQuery(r.dialect, p, categoryIDs)
	if err != nil {
		return emptyList(), err
	}
	countQuery, countArgs, err := buildCountQuery(r.dialect, p, categoryIDs)
	if err != nil {
		return emptyList(), err
	}

	// 2. --- Page ---
	products, err := r.queryProducts(ctx, query, args...)
	if err != nil {
		r.log.Error().Err(err).Str("op", op).Msg("Failed to list products")
		return emptyList(), nil
	}

	// 3. --- Total, without pagination ---
	var count int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&count); err != nil {
		r.log.Error().Err(err).Str("op", op).Msg("Failed to count products")
		return emptyList(), nil
	}

	// 4. --- Categories & images ---
	if err := r.enrich(ctx, products); err != nil {
		r.log.Error().Err(err).Str("op", op).Msg("Failed to load product relations")
		return emptyList(), nil
	}

	return ProductList{Products: products, Count: count}, nil
}

// GetProduct loads one product with categories, images, tags and options.
func (r *Repository) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	const op = "catalog.GetProduct"

	query := "SELECT " + productColumns(r.dialect) + " FROM product p WHERE p.product_id = " + r.dialect.Placeholder(1)
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.NotFound, op, "Product not found")
		}
		return nil, apperr.Wrap(apperr.TransientStoreFailure, op, err)
	}

	if err := r.loadDetail(ctx, op, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductByHandle resolves a URL handle (the slugified product name) to an
// active product. The first match by product_id wins.
func (r *Repository) GetProductByHandle(ctx context.Context, handle string) (*models.Product, error) {
	const op = "catalog.GetProductByHandle"

	want := slug.Make(handle)
	if want == "" {
		return nil, apperr.New(apperr.NotFound, op, "Product not found")
	}

	// slug.Make transliterates (& -> and, é -> e), so the stored name cannot
	// be narrowed in SQL. Compare slugs over every active name instead.
	var queryBuilder strings.Builder
	args := &argList{d: r.dialect}
	queryBuilder.WriteString("SELECT p.product_id, p.product_name FROM product p")
	queryBuilder.WriteString(" WHERE p.status = " + args.add(models.ProductStatusActive))
	queryBuilder.WriteString(" AND p.product_name IS NOT NULL")
	queryBuilder.WriteString(" ORDER BY p.product_id")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args.args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.TransientStoreFailure, op, err)
	}
	defer rows.Close()

	var matchID int64
	found := false
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, apperr.Wrap(apperr.TransientStoreFailure, op, err)
		}
		if !found && slug.Make(name) == want {
			matchID, found = id, true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.TransientStoreFailure, op, err)
	}
	rows.Close()

	if !found {
		return nil, apperr.New(apperr.NotFound, op, "Product not found")
	}
	return r.GetProduct(ctx, matchID)
}

// RelatedProducts returns the products named by matching_product_id1..3, in
// slot order. Products without a price report "0".
func (r *Repository) RelatedProducts(ctx context.Context, product *models.Product) ([]models.Product, error) {
	const op = "catalog.RelatedProducts"

	ids := product.RelatedIDs()
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	args := &argList{d: r.dialect}
	query := "SELECT " + productColumns(r.dialect) + " FROM product p WHERE p.product_id IN (" + placeholders(args, ids) + ")"
	found, err := r.queryProducts(ctx, query, args.args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.TransientStoreFailure, op, err)
	}
	if err := r.enrich(ctx, found); err != nil {
		return nil, apperr.Wrap(apperr.TransientStoreFailure, op, err)
	}

	byID := make(map[int64]models.Product, len(found))
	for _, p := range found {
		if p.Price == nil {
			zero := "0"
			p.Price = &zero
		}
		byID[p.ID] = p
	}

	related := make([]models.Product, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok && !seen[id] {
			related = append(related, p)
			seen[id] = true
		}
	}
	return related, nil
}

// ProductTags returns the product's tag names sorted by name.
func (r *Repository) ProductTags(ctx context.Context, productID int64) ([]string, error) {
	const op = "catalog.ProductTags"

	rows, err := r.db.QueryContext(ctx,
		"SELECT tag_name FROM product_tag_map WHERE product_id = "+r.dialect.Placeholder(1)+" ORDER BY tag_name",
		productID)
	if err != nil {
		return nil, apperr.Wrap(apperr.TransientStoreFailure, op, err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, apperr.Wrap(apperr.TransientStoreFailure, op, err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.TransientStoreFailure, op, err)
	}
	return tags, nil
}

// ProductOptions returns the options mapped to a product, ordered by
// display_order, each with its values ordered by display_order. Options
// without any value are left out.
func (r *Repository) ProductOptions(ctx context.Context, productID int64) ([]models.ProductOption, error) {
	const op = "catalog.ProductOptions"

	ph := r.dialect.Placeholder(1)
	optionsQuery := `
		SELECT mo.option_id, mo.option_name, mo.option_code, mo.display_name, mo.display_order, mo.brand
		FROM master_option mo
		WHERE EXISTS (SELECT 1 FROM product_option_map pom WHERE pom.product_id = ` + ph + ` AND pom.option_id = mo.option_id)
		  AND EXISTS (SELECT 1 FROM master_option_value mov WHERE mov.option_id = mo.option_id)
		ORDER BY mo.display_order, mo.option_id`

	options, err := r.queryOptions(ctx, optionsQuery, productID)
	if err != nil {
		return nil, apperr.Wrap(apperr.TransientStoreFailure, op, err)
	}
	if len(options) == 0 {
		return options, nil
	}

	ids := make([]int64, len(options))
	index := make(map[int64]int, len(options))
	for i, o := range options {
		ids[i] = o.ID
		index[o.ID] = i
	}

	args := &argList{d: r.dialect}
	valuesQuery := `
		SELECT option_value_id, option_id, option_value_name, option_value_code, option_value_code2,
		       display_name, option_value_abbreviation, option_value_abbreviation2,
		       ` + r.dialect.CastText("price_adjustment") + `, ` + r.dialect.CastText("price_adjustment_addtn") + `,
		       price_adjustment_type, apply_sale, display_order
		FROM master_option_value
		WHERE option_id IN (` + placeholders(args, ids) + `)
		ORDER BY option_id, display_order, option_value_id`

	rows, err := r.db.QueryContext(ctx, valuesQuery, args.args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.TransientStoreFailure, op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			v                                                models.ProductOptionValue
			code, code2, display, abbr, abbr2, adj, adjAddtn sql.NullString
			applySale                                        int
		)
		if err := rows.Scan(&v.ID, &v.OptionID, &v.Name, &code, &code2, &display, &abbr, &abbr2,
			&adj, &adjAddtn, &v.PriceAdjustmentType, &applySale, &v.DisplayOrder); err != nil {
			return nil, apperr.Wrap(apperr.TransientStoreFailure, op, err)
		}
		v.Code = nullString(code)
		v.Code2 = nullString(code2)
		v.DisplayName = nullString(display)
		v.Abbreviation = nullString(abbr)
		v.Abbreviation2 = nullString(abbr2)
		v.PriceAdjustmentAddtn = nullString(adjAddtn)
		v.PriceAdjustment = "0"
		if adj.Valid {
			v.PriceAdjustment = adj.String
		}
		v.ApplySale = applySale == 1

		i := index[v.OptionID]
		options[i].Values = append(options[i].Values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.TransientStoreFailure, op, err)
	}
	return options, nil
}

func (r *Repository) queryOptions(ctx context.Context, query string, args ...any) ([]models.ProductOption, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := []models.ProductOption{}
	for rows.Next() {
		var (
			o                    models.ProductOption
			code, display, brand sql.NullString
		)
		if err := rows.Scan(&o.ID, &o.Name, &code, &display, &o.DisplayOrder, &brand); err != nil {
			return nil, err
		}
		o.Code = nullString(code)
		o.DisplayName = nullString(display)
		o.Brand = nullString(brand)
		o.Values = []models.ProductOptionValue{}
		options = append(options, o)
	}
	return options, rows.Err()
}

// loadDetail fills every relation of a single product. Each lookup finishes
// (rows closed) before the next starts.
func (r *Repository) loadDetail(ctx context.Context, op string, p *models.Product) error {
	one := []models.Product{*p}
	if err := r.enrich(ctx, one); err != nil {
		return apperr.Wrap(apperr.TransientStoreFailure, op, err)
	}
	*p = one[0]

	tags, err := r.ProductTags(ctx, p.ID)
	if err != nil {
		return err
	}
	p.Tags = tags

	options, err := r.ProductOptions(ctx, p.ID)
	if err != nil {
		return err
	}
	p.Options = options
	return nil
}

func (r *Repository) queryProducts(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// enrich attaches categories and images to every product with one batched
// query per relation. Both slices end up non-nil.
func (r *Repository) enrich(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]int64, len(products))
	index := make(map[int64]int, len(products))
	for i := range products {
		products[i].Categories = []models.Category{}
		products[i].Images = []models.Image{}
		ids[i] = products[i].ID
		index[products[i].ID] = i
	}

	// 1. --- Categories ---
	catArgs := &argList{d: r.dialect}
	catQuery := `
		SELECT pcm.product_id, c.category_id, c.category_name, c.parent_category_id
		FROM product_category_map pcm
		JOIN category c ON c.category_id = pcm.category_id
		WHERE pcm.product_id IN (` + placeholders(catArgs, ids) + `)
		ORDER BY c.category_name, c.category_id`
	if err := r.eachRow(ctx, catQuery, catArgs.args, func(rows *sql.Rows) error {
		var (
			productID int64
			c         models.Category
			parent    sql.NullInt64
		)
		if err := rows.Scan(&productID, &c.ID, &c.Name, &parent); err != nil {
			return err
		}
		c.ParentID = nullInt64(parent)
		i := index[productID]
		products[i].Categories = append(products[i].Categories, c)
		return nil
	}); err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	// 2. --- Images, in gallery order ---
	imgArgs := &argList{d: r.dialect}
	imgQuery := `
		SELECT pmm.product_id, m.media_id, m.filename, m.media_desc, m.file_path, m.media_caption, m.picture_tag, m.brand
		FROM product_media_map pmm
		JOIN media m ON m.media_id = pmm.media_id
		WHERE pmm.product_id IN (` + placeholders(imgArgs, ids) + `)
		ORDER BY pmm.product_id, pmm.sort_order, m.media_id`
	if err := r.eachRow(ctx, imgQuery, imgArgs.args, func(rows *sql.Rows) error {
		var (
			productID                              int64
			img                                    models.Image
			desc, path, caption, pictureTag, brand sql.NullString
		)
		if err := rows.Scan(&productID, &img.MediaID, &img.Filename, &desc, &path, &caption, &pictureTag, &brand); err != nil {
			return err
		}
		img.Description = nullString(desc)
		img.FilePath = nullString(path)
		img.Caption = nullString(caption)
		img.PictureTag = nullString(pictureTag)
		img.Brand = nullString(brand)
		i := index[productID]
		products[i].Images = append(products[i].Images, img)
		return nil
	}); err != nil {
		return fmt.Errorf("load images: %w", err)
	}

	return nil
}

func (r *Repository) eachRow(ctx context.Context, query string, args []any, fn func(*sql.Rows) error) error {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanProduct reads one row laid out by productColumns.
func scanProduct(s rowScanner) (models.Product, error) {
	var (
		p                                                models.Product
		name, desc, price, oldPrice, gender, sku, brand  sql.NullString
		metaKeywords, metaDescription, metaTitle         sql.NullString
		dimension, dimensionName, size, sizeUnit, source sql.NullString
		metal, attributes, weight                        sql.NullString
		stock, freeShipping, match1, match2, match3      sql.NullInt64
		created, updated                                 database.Timestamp
	)

	err := s.Scan(
		&p.ID, &name, &desc,
		&price, &oldPrice, &stock,
		&p.Status, &freeShipping, &gender, &sku, &brand,
		&metaKeywords, &metaDescription, &metaTitle,
		&dimension, &dimensionName, &size, &sizeUnit, &source,
		&metal, &attributes, &weight,
		&match1, &match2, &match3,
		&created, &updated,
	)
	if err != nil {
		return p, err
	}

	p.Name = name.String
	p.Description = nullString(desc)
	p.Price = nullString(price)
	p.OldPrice = nullString(oldPrice)
	if stock.Valid {
		q := int(stock.Int64)
		p.StockQuantity = &q
	}
	p.FreeShipping = freeShipping.Valid && freeShipping.Int64 == 1
	p.ForGender = nullString(gender)
	p.SKU = nullString(sku)
	p.Brand = nullString(brand)
	p.MetaKeywords = nullString(metaKeywords)
	p.MetaDescription = nullString(metaDescription)
	p.MetaTitle = nullString(metaTitle)
	p.Dimension = nullString(dimension)
	p.DimensionName = nullString(dimensionName)
	p.Size = nullString(size)
	p.SizeUnit = nullString(sizeUnit)
	p.Source = nullString(source)
	p.MetalString = nullString(metal)
	p.AdditionalAttributes = nullString(attributes)
	p.Weight = nullString(weight)
	p.MatchingProductID1 = nullInt64(match1)
	p.MatchingProductID2 = nullInt64(match2)
	p.MatchingProductID3 = nullInt64(match3)
	p.CreatedOn = created.Time
	p.UpdatedOn = updated.Time
	p.Categories = []models.Category{}
	p.Images = []models.Image{}
	return p, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullInt64(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}

// sortCategories orders by name, then id.
func sortCategories(cats []models.Category) {
	sort.SliceStable(cats, func(i, j int) bool {
		if cats[i].Name != cats[j].Name {
			return cats[i].Name < cats[j].Name
		}
		return cats[i].ID < cats[j].ID
	})
}
