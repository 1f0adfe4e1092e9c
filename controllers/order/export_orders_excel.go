package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momagdy121/ecommerce-api/store"
	"github.com/tealeg/xlsx"
)

// ExportOrdersToExcel streams every order as an .xlsx download (admin).
// GET /orders/export
func ExportOrdersToExcel(orders *store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := orders.FindAll()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		// Header row
		headers := []string{
			"ID", "OrderRef", "UserID", "Items", "TotalPrice", "Discount",
			"CouponCode", "OrderStatus", "PaymentStatus", "PaymentMethod",
			"TrackingNumber", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		// Data rows
		for _, o := range all {
			row := sheet.AddRow()

			row.AddCell().SetValue(o.ID)
			row.AddCell().SetValue(o.OrderRef)
			row.AddCell().SetValue(o.UserID)

			itemCount := 0
			for _, it := range o.Items {
				itemCount += it.Quantity
			}
			row.AddCell().SetValue(itemCount)

			row.AddCell().SetValue(o.TotalPrice)
			row.AddCell().SetValue(o.Discount)
			row.AddCell().SetValue(o.CouponCode)
			row.AddCell().SetValue(string(o.OrderStatus))
			row.AddCell().SetValue(string(o.PaymentStatus))
			row.AddCell().SetValue(string(o.PaymentMethod))
			row.AddCell().SetValue(o.TrackingNumber)
			row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		// Set response headers for download
		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
