package catalog

import (
	"fmt"
	"strings"

	"github.com/01moynul/storefront/internal/apperr"
	"github.com/01moynul/storefront/internal/database"
	"github.com/01moynul/storefront/internal/models"
)

// SortKey is a column the product list may be ordered by. Only keys in
// sortColumns ever reach the SQL text.
type SortKey string

const (
	SortCreatedOn     SortKey = "created_on"
	SortUpdatedOn     SortKey = "updated_on"
	SortPrice         SortKey = "price"
	SortProductName   SortKey = "product_name"
	SortStockQuantity SortKey = "stock_quantity"
)

var sortColumns = map[SortKey]string{
	SortCreatedOn:     "p.created_on",
	SortUpdatedOn:     "p.updated_on",
	SortPrice:         "p.price",
	SortProductName:   "p.product_name",
	SortStockQuantity: "p.stock_quantity",
}

// Order is the sort direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// searchColumns are matched case-insensitively against the search term.
var searchColumns = []string{
	"product_name",
	"full_description",
	"sku_number",
	"brand",
	"meta_keywords",
	"meta_description",
	"meta_title",
	"dimension",
	"dimension_name",
	"size",
	"for_gender",
	"source",
	"metal_string_temp",
	"addtn_attributes",
}

// ListParams drives the product list. Zero values mean "no filter";
// Limit 0 means every matching row.
type ListParams struct {
	Limit      int
	Offset     int
	CategoryID *int64
	Search     string
	SortBy     string
	Order      string
}

// ProductList is one page plus the total number of matching products.
type ProductList struct {
	Products []models.Product `json:"products"`
	Count    int              `json:"count"`
}

func emptyList() ProductList {
	return ProductList{Products: []models.Product{}, Count: 0}
}

// ParseSortKey validates s against the allow-list. Empty selects created_on.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortCreatedOn, nil
	}
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := sortColumns[k]; !ok {
		return "", apperr.New(apperr.ValidationFailed, "catalog.ParseSortKey", fmt.Sprintf("unsupported sort key %q", s))
	}
	return k, nil
}

// ParseOrder validates the direction. Empty selects desc.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderDesc:
		return OrderDesc, nil
	case OrderAsc:
		return OrderAsc, nil
	}
	return "", apperr.New(apperr.ValidationFailed, "catalog.ParseOrder", fmt.Sprintf("unsupported sort order %q", s))
}

// argList collects bind values and hands back the matching placeholder.
type argList struct {
	d    database.Dialect
	args []any
}

func (a *argList) add(v any) string {
	a.args = append(a.args, v)
	return a.d.Placeholder(len(a.args))
}

// productColumns is the select list every product scan expects, in order.
func productColumns(d database.Dialect) string {
	return strings.Join([]string{
		"p.product_id", "p.product_name", "p.full_description",
		d.CastText("p.price"), d.CastText("p.old_price"), "p.stock_quantity",
		"p.status", "p.free_shipping", "p.for_gender", "p.sku_number", "p.brand",
		"p.meta_keywords", "p.meta_description", "p.meta_title",
		"p.dimension", "p.dimension_name", "p.size", "p.size_unit", "p.source",
		"p.metal_string_temp", "p.addtn_attributes", d.CastText("p.weight"),
		"p.matching_product_id1", "p.matching_product_id2", "p.matching_product_id3",
		"p.created_on", "p.updated_on",
	}, ", ")
}

// BuildListQuery assembles the paginated product query for p.
func BuildListQuery(d database.Dialect, p ListParams) (string, []any, error) {
	return buildListQuery(d, p, categoryFilter(p))
}

// BuildCountQuery assembles the matching COUNT(*) query. Pagination and sort
// are ignored, but an invalid sort key is still rejected.
func BuildCountQuery(d database.Dialect, p ListParams) (string, []any, error) {
	return buildCountQuery(d, p, categoryFilter(p))
}

func categoryFilter(p ListParams) []int64 {
	if p.CategoryID == nil {
		return nil
	}
	return []int64{*p.CategoryID}
}

func buildListQuery(d database.Dialect, p ListParams, categoryIDs []int64) (string, []any, error) {
	const op = "catalog.BuildListQuery"

	sortKey, err := ParseSortKey(p.SortBy)
	if err != nil {
		return "", nil, err
	}
	order, err := ParseOrder(p.Order)
	if err != nil {
		return "", nil, err
	}
	if p.Limit < 0 {
		return "", nil, apperr.New(apperr.ValidationFailed, op, "limit must not be negative")
	}

	var queryBuilder strings.Builder
	args := &argList{d: d}

	// 1. SELECT
	queryBuilder.WriteString("SELECT ")
	queryBuilder.WriteString(productColumns(d))
	queryBuilder.WriteString(" FROM product p")

	// 2. WHERE
	writeFilters(&queryBuilder, args, p.Search, categoryIDs)

	// 3. ORDER BY, product_id keeps equal keys in a stable order across pages
	dir := strings.ToUpper(string(order))
	fmt.Fprintf(&queryBuilder, " ORDER BY %s %s, p.product_id %s", sortColumns[sortKey], dir, dir)

	// 4. Pagination
	if p.Limit > 0 {
		queryBuilder.WriteString(" LIMIT " + args.add(p.Limit))
		if p.Offset > 0 {
			queryBuilder.WriteString(" OFFSET " + args.add(p.Offset))
		}
	}

	return queryBuilder.String(), args.args, nil
}

func buildCountQuery(d database.Dialect, p ListParams, categoryIDs []int64) (string, []any, error) {
	if _, err := ParseSortKey(p.SortBy); err != nil {
		return "", nil, err
	}

	var queryBuilder strings.Builder
	args := &argList{d: d}

	queryBuilder.WriteString("SELECT COUNT(*) FROM product p")
	writeFilters(&queryBuilder, args, p.Search, categoryIDs)

	return queryBuilder.String(), args.args, nil
}

func writeFilters(b *strings.Builder, args *argList, search string, categoryIDs []int64) {
	b.WriteString(" WHERE p.status = " + args.add(models.ProductStatusActive))
	b.WriteString(" AND p.product_name IS NOT NULL AND TRIM(p.product_name) <> ''")

	if len(categoryIDs) > 0 {
		b.WriteString(" AND EXISTS (SELECT 1 FROM product_category_map pcm WHERE pcm.product_id = p.product_id AND ")
		if len(categoryIDs) == 1 {
			b.WriteString("pcm.category_id = " + args.add(categoryIDs[0]))
		} else {
			b.WriteString("pcm.category_id IN (" + placeholders(args, categoryIDs) + ")")
		}
		b.WriteString(")")
	}

	if term := strings.TrimSpace(search); term != "" {
		pattern := "%" + database.EscapeLike(term) + "%"
		ph := args.add(pattern)
		b.WriteString(" AND (")
		for i, col := range searchColumns {
			if i > 0 {
				b.WriteString(" OR ")
				if !args.d.Numbered() {
					ph = args.add(pattern)
				}
			}
			b.WriteString(args.d.ContainsFold("p."+col, ph))
		}
		b.WriteString(")")
	}
}

// placeholders binds every id and returns the comma separated markers.
func placeholders(args *argList, ids []int64) string {
	marks := make([]string, len(ids))
	for i, id := range ids {
		marks[i] = args.add(id)
	}
	return strings.Join(marks, ", ")
}
