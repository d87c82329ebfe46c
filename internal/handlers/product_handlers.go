package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/storefront/internal/catalog"
	"github.com/01moynul/storefront/internal/models"
)

// ProductListResponse is one page of the catalog.
type ProductListResponse struct {
	Products   []models.Product `json:"products"`
	Count      int              `json:"count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

// ListProducts handles GET /products.
// Query: page, limit, category_id, include_children, search, sort_by, order.
func (h *Handlers) ListProducts(c *gin.Context) {
	// 1. --- Pagination ---
	page, err := queryInt(c, "page", 1)
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
		return
	}
	limit, err := queryInt(c, "limit", h.DefaultPageSize)
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}
	if limit > h.MaxPageSize {
		limit = h.MaxPageSize
	}
	if page > catalog.MaxPage(limit) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
		return
	}

	params := catalog.ListParams{
		Limit:  limit,
		Offset: catalog.OffsetForPage(page, limit),
		Search: c.Query("search"),
		SortBy: c.Query("sort_by"),
		Order:  c.Query("order"),
	}

	// 2. --- Category filter ---
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
			return
		}
		params.CategoryID = &id
	}

	// 3. --- Query ---
	var list catalog.ProductList
	if includeChildren, _ := strconv.ParseBool(c.Query("include_children")); includeChildren {
		list, err = h.Catalog.ListProductsWithChildCategories(c.Request.Context(), params)
	} else {
		list, err = h.Catalog.ListProducts(c.Request.Context(), params)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProductListResponse{
		Products:   list.Products,
		Count:      list.Count,
		Page:       page,
		Limit:      limit,
		TotalPages: catalog.TotalPages(list.Count, limit),
	})
}

// GetProduct handles GET /products/:id.
func (h *Handlers) GetProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	product, err := h.Catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, productDetail(product))
}

// GetProductByHandle handles GET /products/handle/:handle.
func (h *Handlers) GetProductByHandle(c *gin.Context) {
	product, err := h.Catalog.GetProductByHandle(c.Request.Context(), c.Param("handle"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, productDetail(product))
}

// GetRelatedProducts handles GET /products/:id/related.
func (h *Handlers) GetRelatedProducts(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	product, err := h.Catalog.GetProduct(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	related, err := h.Catalog.RelatedProducts(ctx, product)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": related})
}

// GetProductTags handles GET /products/:id/tags.
func (h *Handlers) GetProductTags(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	tags, err := h.Catalog.ProductTags(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// GetProductOptions handles GET /products/:id/options.
func (h *Handlers) GetProductOptions(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	options, err := h.Catalog.ProductOptions(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": options})
}

// ProductDetailResponse adds display prices to a product.
type ProductDetailResponse struct {
	*models.Product
	DisplayPrice    string  `json:"display_price"`
	DisplayOldPrice *string `json:"display_old_price"`
}

func productDetail(p *models.Product) ProductDetailResponse {
	resp := ProductDetailResponse{Product: p, DisplayPrice: catalog.FormatPrice(p.Price)}
	if old, ok := catalog.FormatOldPrice(p.OldPrice); ok {
		resp.DisplayOldPrice = &old
	}
	return resp
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
