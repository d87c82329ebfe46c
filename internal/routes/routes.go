package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/01moynul/storefront/internal/handlers"
	"github.com/01moynul/storefront/internal/middleware"
)

// Options are the router-level settings that do not belong to a handler.
type Options struct {
	CORSAllowedOrigin string
	Log               zerolog.Logger
}

func SetupRouter(h *handlers.Handlers, opts Options) *gin.Engine {
	router := gin.New()

	// --- Global middleware ---
	// CORS first so preflights never reach auth or the handlers.
	router.Use(
		middleware.CORS(opts.CORSAllowedOrigin),
		middleware.RequestID(),
		middleware.Logger(opts.Log),
		middleware.CustomerAuth(h.Tokens),
	)

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Catalog Routes (Public) ---
		products := v1.Group("/products")
		{
			products.GET("", h.ListProducts)
			products.GET("/handle/:handle", h.GetProductByHandle)
			products.GET("/:id", h.GetProduct)
			products.GET("/:id/related", h.GetRelatedProducts)
			products.GET("/:id/tags", h.GetProductTags)
			products.GET("/:id/options", h.GetProductOptions)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", h.GetAllCategories)
			categories.GET("/tree", h.GetCategoryTree)
			categories.GET("/:id", h.GetCategory)
			categories.GET("/:id/children", h.GetChildCategories)
			categories.GET("/:id/ancestors", h.GetCategoryBreadcrumb)
		}

		// --- Session Routes (cart & wishlist live in the client session) ---
		cart := v1.Group("/cart")
		{
			cart.GET("", h.GetCart)
			cart.DELETE("", h.ClearCart)
			cart.POST("/items", h.AddToCart)
			cart.PATCH("/items/:product_id", h.UpdateCartItem)
			cart.DELETE("/items/:product_id", h.DeleteCartItem)
		}

		wishlist := v1.Group("/wishlist")
		{
			wishlist.GET("", h.GetWishlist)
			wishlist.DELETE("", h.ClearWishlist)
			wishlist.POST("/items", h.AddToWishlist)
			wishlist.GET("/items/:product_id", h.WishlistContains)
			wishlist.DELETE("/items/:product_id", h.RemoveFromWishlist)
		}

		v1.POST("/checkout", h.PlaceOrder)

		// --- Auth Routes ---
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", h.SignUp)
			auth.POST("/signin", h.SignIn)
			auth.POST("/signout", h.SignOut)
			auth.GET("/me", middleware.RequireCustomer(), h.Me)
		}
	}

	return router
}
