package models

// Category defines the struct for the 'category' table.
// ParentID is trusted to form a tree but never assumed to; walks over it are
// bounded by the catalog package.
type Category struct {
	ID       int64  `json:"category_id" db:"category_id"`
	Name     string `json:"category_name" db:"category_name"`
	ParentID *int64 `json:"parent_category_id" db:"parent_category_id"` // Use pointer for NULL

	// Virtual Field (Not in DB) - Used for constructing the Tree View in the UI
	Children []Category `json:"children,omitempty" db:"-"`
}
