package cartControllers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/cartledger-api/cart"
	"github.com/junaidrashid-git/cartledger-api/events"
	"github.com/junaidrashid-git/cartledger-api/session"
	"github.com/tealeg/xlsx"
)

// GET /admin/carts/:name/export
func ExportCartToExcel(store session.Store, notifier *events.Notifier) gin.HandlerFunc {
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

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Cart")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		// Header row
		headers := []string{
			"RowID", "ItemID", "Name", "Quantity", "UnitPrice", "Total",
			"Options", "AssociatedModel", "AddedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		// Data rows
		for _, r := range rows {
			row := sheet.AddRow()

			row.AddCell().SetValue(r.RowID)
			row.AddCell().SetValue(r.ItemID)
			row.AddCell().SetValue(r.Name)
			row.AddCell().SetValue(r.Quantity)
			row.AddCell().SetValue(r.UnitPrice)
			row.AddCell().SetValue(r.Total)

			opts := make([]string, 0, len(r.Options))
			for k, v := range r.Options {
				opts = append(opts, k+"="+v)
			}
			sort.Strings(opts)
			row.AddCell().SetValue(strings.Join(opts, ","))

			row.AddCell().SetValue(r.AssociatedModel)
			row.AddCell().SetValue(r.AddedAt.Format("2006-01-02 15:04:05"))
		}

		// Set response headers for download
		c.Header("Content-Disposition", "attachment; filename="+name+"-cart.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		// Write file to response
		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
