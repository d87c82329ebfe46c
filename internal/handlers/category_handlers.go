package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetAllCategories handles GET /categories (flat list).
func (h *Handlers) GetAllCategories(c *gin.Context) {
	categories, err := h.Catalog.AllCategories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategoryTree handles GET /categories/tree.
func (h *Handlers) GetCategoryTree(c *gin.Context) {
	tree, err := h.Catalog.CategoryTree(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": tree})
}

func (h *Handlers) GetCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	category, err := h.Catalog.CategoryByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// GetChildCategories handles GET /categories/:id/children.
func (h *Handlers) GetChildCategories(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	children, err := h.Catalog.ChildCategories(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": children})
}

// GetCategoryBreadcrumb handles GET /categories/:id/ancestors, root first.
func (h *Handlers) GetCategoryBreadcrumb(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ancestors, err := h.Catalog.CategoryAncestors(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": ancestors})
}
