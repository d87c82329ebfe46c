package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/01moynul/storefront/internal/apperr"
	"github.com/01moynul/storefront/internal/models"
)

// MaxCategoryDepth bounds every walk over parent_category_id. The column is
// not constrained to form a tree, so a cycle must not hang a request.
const MaxCategoryDepth = 32

// AllCategories returns every category, sorted by name.
func (r *Repository) AllCategories(ctx context.Context) ([]models.Category, error) {
	const op = "catalog.AllCategories"

	cats, err := r.queryCategories(ctx,
		"SELECT category_id, category_name, parent_category_id FROM category ORDER BY category_name, category_id")
	if err != nil {
		return nil, apperr.Wrap(apperr.TransientStoreFailure, op, err)
	}
	return cats, nil
}

// CategoryByID returns one category or NotFound.
func (r *Repository) CategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	const op = "catalog.CategoryByID"

	var (
		c      models.Category
		parent sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT category_id, category_name, parent_category_id FROM category WHERE category_id = "+r.dialect.Placeholder(1),
		id).Scan(&c.ID, &c.Name, &parent)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.NotFound, op, "Category not found")
		}
		return nil, apperr.Wrap(apperr.TransientStoreFailure, op, err)
	}
	c.ParentID = nullInt64(parent)
	return &c, nil
}

// ProductCategories returns the categories a product is filed under.
func (r *Repository) ProductCategories(ctx context.Context, productID int64) ([]models.Category, error) {
	const op = "catalog.ProductCategories"

	cats, err := r.queryCategories(ctx, `
		SELECT c.category_id, c.category_name, c.parent_category_id
		FROM category c
		JOIN product_category_map pcm ON c.category_id = pcm.category_id
		WHERE pcm.product_id = `+r.dialect.Placeholder(1)+`
		ORDER BY c.category_name, c.category_id`, productID)
	if err != nil {
		return nil, apperr.Wrap(apperr.TransientStoreFailure, op, err)
	}
	return cats, nil
}

// ChildCategories returns the direct children of parentID, sorted by name.
func (r *Repository) ChildCategories(ctx context.Context, parentID int64) ([]models.Category, error) {
	const op = "catalog.ChildCategories"

	cats, err := r.queryCategories(ctx,
		"SELECT category_id, category_name, parent_category_id FROM category WHERE parent_category_id = "+
			r.dialect.Placeholder(1)+" ORDER BY category_name, category_id", parentID)
	if err != nil {
		return nil, apperr.Wrap(apperr.TransientStoreFailure, op, err)
	}
	return cats, nil
}

// CategoryAncestors returns the breadcrumb for id, root first and id last.
// The walk stops at a missing parent, at a revisited id, or after
// MaxCategoryDepth steps.
func (r *Repository) CategoryAncestors(ctx context.Context, id int64) ([]models.Category, error) {
	start, err := r.CategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	chain := []models.Category{*start}
	visited := map[int64]bool{start.ID: true}
	current := start

	for len(chain) < MaxCategoryDepth && current.ParentID != nil {
		parentID := *current.ParentID
		if visited[parentID] {
			r.log.Warn().Int64("category_id", id).Int64("parent_id", parentID).Msg("Category parent chain loops back on itself")
			break
		}

		parent, err := r.CategoryByID(ctx, parentID)
		if err != nil {
			if apperr.KindOf(err) == apperr.NotFound {
				break
			}
			return nil, err
		}

		visited[parent.ID] = true
		chain = append(chain, *parent)
		current = parent
	}

	// Reverse into root-first order.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// CategoryTree nests every category under its parent. Roots are categories
// with no parent or a parent that does not exist. Nesting stops at
// MaxCategoryDepth and never revisits a category, so members of a parent
// cycle that is not hanging off a root are left out.
func (r *Repository) CategoryTree(ctx context.Context) ([]models.Category, error) {
	all, err := r.AllCategories(ctx)
	if err != nil {
		return nil, err
	}

	// 1. Index by id and group by parent.
	exists := make(map[int64]bool, len(all))
	for _, c := range all {
		exists[c.ID] = true
	}
	children := make(map[int64][]models.Category)
	var roots []models.Category
	for _, c := range all {
		if c.ParentID == nil || !exists[*c.ParentID] {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	// 2. Build downwards from the roots.
	visited := make(map[int64]bool, len(all))
	var build func(c models.Category, depth int) models.Category
	build = func(c models.Category, depth int) models.Category {
		visited[c.ID] = true
		c.Children = []models.Category{}
		if depth >= MaxCategoryDepth {
			return c
		}
		for _, child := range children[c.ID] {
			if visited[child.ID] {
				continue
			}
			c.Children = append(c.Children, build(child, depth+1))
		}
		sortCategories(c.Children)
		return c
	}

	tree := make([]models.Category, 0, len(roots))
	for _, root := range roots {
		tree = append(tree, build(root, 1))
	}
	sortCategories(tree)
	return tree, nil
}

func (r *Repository) queryCategories(ctx context.Context, query string, args ...any) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cats := []models.Category{}
	for rows.Next() {
		var (
			c      models.Category
			parent sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.Name, &parent); err != nil {
			return nil, err
		}
		c.ParentID = nullInt64(parent)
		cats = append(cats, c)
	}
	return cats, rows.Err()
}
