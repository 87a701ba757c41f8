package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/junaidrashid-git/cartledger-api/controllers/cart"
	"github.com/junaidrashid-git/cartledger-api/events"
	"github.com/junaidrashid-git/cartledger-api/middleware"
	"github.com/junaidrashid-git/cartledger-api/session"
)

// SetupAdminRoutes registers all “/admin/*” endpoints. Requires the API‐Key middleware.
func SetupAdminRoutes(r *gin.Engine, store session.Store, notifier *events.Notifier) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		adminGroup.GET("/carts/:name", cartControllers.GetAdminCart(store, notifier))             // GET /admin/carts/:name
		adminGroup.GET("/carts/:name/export", cartControllers.ExportCartToExcel(store, notifier)) // GET /admin/carts/:name/export
		adminGroup.DELETE("/carts/:name", cartControllers.DestroyAdminCart(store, notifier))      // DELETE /admin/carts/:name
	}
}
