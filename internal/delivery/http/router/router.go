// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"storefront/config"
	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/router/handler"
	"storefront/internal/domain/entity"
	"storefront/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	Config          *config.Config
	Metrics         *metrics.Registry
	AuthMiddleware  *middleware.AuthMiddleware
	AuthHandler     *handler.AuthHandler
	AccountHandler  *handler.AccountHandler
	CatalogHandler  *handler.CatalogHandler
	CartHandler     *handler.CartHandler
	CheckoutHandler *handler.CheckoutHandler
	OrderHandler    *handler.OrderHandler
	AddressHandler  *handler.AddressHandler
	WishlistHandler *handler.WishlistHandler
	AdminHandler    *handler.AdminHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	RouterParams
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{RouterParams: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)
	if r.Config.Metrics != nil && r.Config.Metrics.Enabled {
		e.GET(r.Config.Metrics.Path, echo.WrapHandler(r.Metrics.Handler()))
	}

	authenticated := r.AuthMiddleware.Authenticate

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.AuthHandler.Register)
		authGroup.POST("/login", r.AuthHandler.Login)
		authGroup.POST("/refresh", r.AuthHandler.RefreshToken)
		authGroup.POST("/logout", r.AuthHandler.Logout)
	}

	accountGroup := e.Group("/account", authenticated)
	{
		accountGroup.GET("/profile", r.AccountHandler.GetProfile)
		accountGroup.PUT("/profile", r.AccountHandler.UpdateProfile)
		accountGroup.PUT("/password", r.AccountHandler.ChangePassword)
		accountGroup.GET("/sessions", r.AccountHandler.ListSessions)
		accountGroup.DELETE("/sessions/:id", r.AccountHandler.RevokeSession)
	}

	// Public catalog
	catalogGroup := e.Group("/catalog")
	{
		catalogGroup.GET("/categories", r.CatalogHandler.ListCategories)
		catalogGroup.GET("/categories/:id", r.CatalogHandler.GetCategory)
		catalogGroup.GET("/categories/:id/products", r.CatalogHandler.ListCategoryProducts)
		catalogGroup.GET("/products", r.CatalogHandler.ListProducts)
		catalogGroup.GET("/products/flash-sale", r.CatalogHandler.ListFlashSale)
		catalogGroup.GET("/products/:id", r.CatalogHandler.GetProduct)
	}
	e.GET(handler.MediaRoute+"*", r.CatalogHandler.ServeMedia)

	cartGroup := e.Group("/cart", authenticated)
	{
		cartGroup.GET("", r.CartHandler.GetCart)
		cartGroup.POST("/items", r.CartHandler.AddItem)
		cartGroup.POST("/items/:id/increment", r.CartHandler.IncrementItem)
		cartGroup.POST("/items/:id/decrement", r.CartHandler.DecrementItem)
		cartGroup.DELETE("/items/:id", r.CartHandler.RemoveItem)
	}

	e.POST("/checkout", r.CheckoutHandler.PlaceOrder, authenticated)

	orderGroup := e.Group("/orders", authenticated)
	{
		orderGroup.GET("", r.OrderHandler.ListMyOrders)
		orderGroup.GET("/:id", r.OrderHandler.GetMyOrder)
		orderGroup.GET("/:id/qrcode", r.OrderHandler.GetPickupQRCode)
	}

	addressGroup := e.Group("/addresses", authenticated)
	{
		addressGroup.GET("", r.AddressHandler.ListAddresses)
		addressGroup.POST("", r.AddressHandler.CreateAddress)
		addressGroup.PUT("/:id", r.AddressHandler.UpdateAddress)
		addressGroup.DELETE("/:id", r.AddressHandler.DeleteAddress)
		addressGroup.POST("/:id/primary", r.AddressHandler.SetPrimaryAddress)
	}

	wishlistGroup := e.Group("/wishlist", authenticated)
	{
		wishlistGroup.GET("", r.WishlistHandler.ListWishlist)
		wishlistGroup.POST("", r.WishlistHandler.AddToWishlist)
		wishlistGroup.DELETE("/:productId", r.WishlistHandler.RemoveFromWishlist)
		wishlistGroup.POST("/:productId/move-to-cart", r.WishlistHandler.MoveToCart)
	}

	// Back office: authenticate first, then check the role.
	adminGroup := e.Group("/admin", authenticated, r.AuthMiddleware.RequireRole(entity.RoleAdmin))
	{
		adminGroup.GET("/dashboard", r.AdminHandler.Dashboard)
		adminGroup.GET("/customers", r.AdminHandler.ListCustomers)

		adminGroup.POST("/categories", r.CatalogHandler.CreateCategory)
		adminGroup.PUT("/categories/:id", r.CatalogHandler.UpdateCategory)
		adminGroup.DELETE("/categories/:id", r.CatalogHandler.DeleteCategory)

		adminGroup.POST("/products", r.CatalogHandler.CreateProduct)
		adminGroup.PUT("/products/:id", r.CatalogHandler.UpdateProduct)
		adminGroup.DELETE("/products/:id", r.CatalogHandler.DeleteProduct)
		adminGroup.POST("/products/:id/picture", r.CatalogHandler.UploadPicture)

		adminGroup.GET("/orders", r.OrderHandler.ListOrders)
		adminGroup.PUT("/orders/:id/status", r.OrderHandler.UpdateOrderStatus)
		adminGroup.POST("/orders/scan", r.OrderHandler.ScanQRCode)
	}

	superAdmin := r.AuthMiddleware.RequireRole(entity.RoleSuperAdmin)
	{
		adminGroup.GET("/admins", r.AdminHandler.ListAdmins, superAdmin)
		adminGroup.POST("/admins", r.AdminHandler.CreateAdmin, superAdmin)
		adminGroup.DELETE("/admins/:id", r.AdminHandler.DeleteAdmin, superAdmin)
		adminGroup.PUT("/users/:id/role", r.AdminHandler.ChangeRole, superAdmin)
	}
}
