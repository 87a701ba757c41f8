package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cartledger-api/events"
	"github.com/junaidrashid-git/cartledger-api/session"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry‐point that wires up the Cart and Admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, store session.Store, notifier *events.Notifier) {
	// 1️⃣ Cart routes (JWT‐protected)
	SetupCartRoutes(r, db, store, notifier)

	// 2️⃣ Admin routes (API‐Key‐protected)
	SetupAdminRoutes(r, store, notifier)
}
