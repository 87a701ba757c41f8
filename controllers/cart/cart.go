package cartControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cartledger-api/cart"
	"github.com/junaidrashid-git/cartledger-api/events"
	"github.com/junaidrashid-git/cartledger-api/models"
	"github.com/junaidrashid-git/cartledger-api/session"
	"gorm.io/gorm"
)

type AddItemInput struct {
	ItemID          string            `json:"item_id"`
	ProductID       *uint             `json:"product_id"`
	Name            string            `json:"name"`
	Quantity        int               `json:"quantity" binding:"required,min=1"`
	UnitPrice       float64           `json:"unit_price"`
	Options         map[string]string `json:"options"`
	AssociatedModel string            `json:"associated_model"`
}

type UpdateRowInput struct {
	Quantity  *int              `json:"quantity"`
	Name      *string           `json:"name"`
	UnitPrice *float64          `json:"unit_price"`
	Options   map[string]string `json:"options"`
}

// cartName resolves which cart a request targets: explicit ?cart= wins,
// then the authenticated user's id, then the default cart.
func cartName(c *gin.Context) string {
	if name := c.Query("cart"); name != "" {
		return name
	}
	if userID, exists := c.Get("user_id"); exists {
		if s, ok := userID.(string); ok && s != "" {
			return s
		}
	}
	return cart.DefaultCart
}

// respondCartError maps business rule violations to 400/404 and
// persistence failures to 500, mirroring how the ledger separates them.
func respondCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cart.ErrRowNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart row not found"})
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInvalidPrice),
		errors.Is(err, cart.ErrInvalidAssociation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist cart"})
	}
}

// resolveItem turns an input descriptor into a cart item. A product_id
// fills name and price from the catalog.
func resolveItem(db *gorm.DB, in AddItemInput) (models.Item, error) {
	item := models.Item{
		ItemID:          in.ItemID,
		Name:            in.Name,
		Quantity:        in.Quantity,
		UnitPrice:       in.UnitPrice,
		Options:         in.Options,
		AssociatedModel: in.AssociatedModel,
	}

	if in.ProductID != nil {
		var product models.Product
		if err := db.First(&product, *in.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.Item{}, errors.New("product does not exist")
			}
			return models.Item{}, errors.New("failed to validate product")
		}
		item.ItemID = strconv.Itoa(int(product.ID))
		item.Name = product.Name
		item.UnitPrice = product.SalePrice
		item.AssociatedModel = "Product"
		return item, nil
	}

	if item.ItemID == "" {
		return models.Item{}, errors.New("item_id or product_id is required")
	}
	return item, nil
}

// GET /cart
func GetCart(store session.Store, notifier *events.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		ledger := cart.New(store, notifier, cartName(c))

		rows, err := ledger.All()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		total, err := ledger.Total()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		totalItems := 0
		for _, row := range rows {
			totalItems += row.Quantity
		}
		c.JSON(http.StatusOK, gin.H{
			"cart":          ledger.Name(),
			"items":         rows,
			"total":         total,
			"total_items":   totalItems,
			"distinct_rows": len(rows),
		})
	}
}

// POST /cart
func AddCartItem(db *gorm.DB, store session.Store, notifier *events.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := resolveItem(db, input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ledger := cart.New(store, notifier, cartName(c))
		rowID, err := ledger.AddOne(item)
		if err != nil {
			respondCartError(c, err)
			return
		}

		row, err := ledger.Get(rowID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart row"})
			return
		}
		c.JSON(http.StatusCreated, row)
	}
}

// POST /cart/batch
func AddCartBatch(db *gorm.DB, store session.Store, notifier *events.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var inputs []AddItemInput
		if err := c.ShouldBindJSON(&inputs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if len(inputs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Batch must contain at least one item"})
			return
		}

		items := make([]models.Item, 0, len(inputs))
		for _, input := range inputs {
			item, err := resolveItem(db, input)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			items = append(items, item)
		}

		ledger := cart.New(store, notifier, cartName(c))
		rowIDs, err := ledger.AddBatch(items)
		if err != nil {
			respondCartError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"row_ids": rowIDs})
	}
}

// PUT /cart/:row_id
func UpdateCartRow(store session.Store, notifier *events.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		rowID := c.Param("row_id")

		var input UpdateRowInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		ledger := cart.New(store, notifier, cartName(c))
		row, err := ledger.Update(rowID, models.Changes{
			Quantity:  input.Quantity,
			Name:      input.Name,
			UnitPrice: input.UnitPrice,
			Options:   input.Options,
		})
		if err != nil {
			respondCartError(c, err)
			return
		}
		if row == nil {
			// Quantity dropped to zero or below.
			c.JSON(http.StatusOK, gin.H{"message": "Cart row removed", "row_id": rowID})
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

// DELETE /cart/:row_id
func DeleteCartRow(store session.Store, notifier *events.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		rowID := c.Param("row_id")

		ledger := cart.New(store, notifier, cartName(c))
		ok, err := ledger.Remove(rowID)
		if !ok {
			respondCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart row deleted"})
	}
}

// DELETE /cart
func DestroyCart(store session.Store, notifier *events.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		ledger := cart.New(store, notifier, cartName(c))
		ok, err := ledger.Destroy()
		if !ok {
			respondCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart destroyed"})
	}
}

// GET /cart/total
func GetCartTotals(store session.Store, notifier *events.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		ledger := cart.New(store, notifier, cartName(c))

		total, err := ledger.Total()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		totalItems, err := ledger.Count(true)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		distinctRows, err := ledger.Count(false)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"cart":          ledger.Name(),
			"total":         total,
			"total_items":   totalItems,
			"distinct_rows": distinctRows,
		})
	}
}

// POST /cart/search
func SearchCart(store session.Store, notifier *events.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var criteria map[string]any
		if err := c.ShouldBindJSON(&criteria); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		ledger := cart.New(store, notifier, cartName(c))
		rows, err := ledger.Search(criteria)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": rows})
	}
}

// GET /admin/carts/:name
func GetAdminCart(store session.Store, notifier *events.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart name is required"})
			return
		}

		ledger := cart.New(store, notifier, name)
		rows, err := ledger.All()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// DELETE /admin/carts/:name
func DestroyAdminCart(store session.Store, notifier *events.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart name is required"})
			return
		}

		ledger := cart.New(store, notifier, name)
		ok, err := ledger.Destroy()
		if !ok {
			respondCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart destroyed"})
	}
}
