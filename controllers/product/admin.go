package productControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/momagdy121/ecommerce-api/models"
	"gorm.io/gorm"
)

type ProductInput struct {
	Title         string  `json:"title" binding:"required"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	DiscountPrice float64 `json:"discount_price" binding:"gte=0"`
	Image         string  `json:"image"`
	Stock         int     `json:"stock" binding:"gte=0"`
	IsActive      *bool   `json:"is_active"`
}

// CreateProduct adds a product to the catalog (admin).
// POST /admin/products
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.DiscountPrice > input.Price {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Discount price cannot exceed price"})
			return
		}

		product := models.Product{
			Title:         input.Title,
			Description:   input.Description,
			Price:         input.Price,
			DiscountPrice: input.DiscountPrice,
			Image:         input.Image,
			Stock:         input.Stock,
			IsActive:      true,
		}
		if input.IsActive != nil {
			product.IsActive = *input.IsActive
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// UpdateProduct edits a product (admin). Stock changes here are for catalog
// management only; checkout adjusts stock through its own atomic path.
// PUT /admin/products/:id
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			}
			return
		}

		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.DiscountPrice > input.Price {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Discount price cannot exceed price"})
			return
		}

		product.Title = input.Title
		product.Description = input.Description
		product.Price = input.Price
		product.DiscountPrice = input.DiscountPrice
		product.Image = input.Image
		product.Stock = input.Stock
		if input.IsActive != nil {
			product.IsActive = *input.IsActive
		}

		if err := db.Save(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// DeleteProduct soft-deletes a product (admin).
// DELETE /admin/products/:id
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		res := db.Delete(&models.Product{}, id)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
