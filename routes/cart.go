package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/junaidrashid-git/cartledger-api/controllers/cart"
	"github.com/junaidrashid-git/cartledger-api/events"
	"github.com/junaidrashid-git/cartledger-api/middleware"
	"github.com/junaidrashid-git/cartledger-api/session"
	"gorm.io/gorm"
)

// SetupCartRoutes registers all “/cart/*” endpoints. Requires JWT middleware.
func SetupCartRoutes(r *gin.Engine, db *gorm.DB, store session.Store, notifier *events.Notifier) {
	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.ValidateToken)
	{
		// ──────────────── Shopping Cart ────────────────
		cartGroup.GET("/", cartControllers.GetCart(store, notifier))                   // GET /cart
		cartGroup.POST("/", cartControllers.AddCartItem(db, store, notifier))          // POST /cart
		cartGroup.POST("/batch", cartControllers.AddCartBatch(db, store, notifier))    // POST /cart/batch
		cartGroup.PUT("/:row_id", cartControllers.UpdateCartRow(store, notifier))      // PUT /cart/:row_id
		cartGroup.DELETE("/:row_id", cartControllers.DeleteCartRow(store, notifier))   // DELETE /cart/:row_id
		cartGroup.DELETE("/", cartControllers.DestroyCart(store, notifier))            // DELETE /cart
		cartGroup.GET("/total", cartControllers.GetCartTotals(store, notifier))        // GET /cart/total
		cartGroup.POST("/search", cartControllers.SearchCart(store, notifier))         // POST /cart/search
	}

	// ──────────────── Live Event Feed ────────────────
	r.GET("/cart/events/ws", cartControllers.CartEventsWebSocketHandler) // GET /cart/events/ws
}
