package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/01moynul/storefront/internal/apperr"
	"github.com/01moynul/storefront/internal/catalog"
	"github.com/01moynul/storefront/internal/models"
	"github.com/01moynul/storefront/internal/wishlist"
)

type AddToWishlistInput struct {
	ProductID int64 `json:"product_id" binding:"required,gt=0"`
}

// GetWishlist handles GET /wishlist.
func (h *Handlers) GetWishlist(c *gin.Context) {
	w, err := h.wishlists(c).Get(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": w.Items, "count": len(w.Items)})
}

// AddToWishlist handles POST /wishlist/items. Saving a product twice is a no-op.
func (h *Handlers) AddToWishlist(c *gin.Context) {
	var input AddToWishlistInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	ctx := c.Request.Context()

	product, err := h.Catalog.GetProduct(ctx, input.ProductID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if product.Status != models.ProductStatusActive {
		h.respondError(c, apperr.New(apperr.NotFound, "handlers.AddToWishlist", "Product not found or not active"))
		return
	}

	// Unpriced products can still be saved; they show as zero.
	price, ok := catalog.ParsePrice(product.Price)
	if !ok {
		price = decimal.Zero
	}

	w, err := h.wishlists(c).Add(ctx, product.ID, wishlist.Entry{
		ProductName: product.Name,
		Price:       price,
		Thumbnail:   product.Thumbnail(),
		Images:      wishlistImages(product.Images),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"items": w.Items, "count": len(w.Items)})
}

// RemoveFromWishlist handles DELETE /wishlist/items/:product_id.
func (h *Handlers) RemoveFromWishlist(c *gin.Context) {
	productID, ok := paramID(c, "product_id")
	if !ok {
		return
	}
	w, err := h.wishlists(c).Remove(c.Request.Context(), productID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": w.Items, "count": len(w.Items)})
}

// WishlistContains handles GET /wishlist/items/:product_id.
func (h *Handlers) WishlistContains(c *gin.Context) {
	productID, ok := paramID(c, "product_id")
	if !ok {
		return
	}
	saved, err := h.wishlists(c).Contains(c.Request.Context(), productID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product_id": productID, "in_wishlist": saved})
}

// ClearWishlist handles DELETE /wishlist.
func (h *Handlers) ClearWishlist(c *gin.Context) {
	w, err := h.wishlists(c).Clear(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": w.Items, "count": 0})
}

func wishlistImages(images []models.Image) []models.WishlistImage {
	out := make([]models.WishlistImage, 0, len(images))
	for _, img := range images {
		wi := models.WishlistImage{Filename: img.Filename}
		if img.FilePath != nil {
			wi.FilePath = *img.FilePath
		}
		if img.Caption != nil {
			wi.MediaCaption = *img.Caption
		}
		out = append(out, wi)
	}
	return out
}
