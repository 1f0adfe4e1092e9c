package userControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momagdy121/ecommerce-api/models"
	"gorm.io/gorm"
)

type UpdateUserInput struct {
	Name    *string         `json:"name"`
	Phone   *string         `json:"phone"`
	Address *models.Address `json:"address"`
}

// GET /user
// Returns the profile with the active cart, the five most recent orders and
// the unread notification count, which is what the account page renders.
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		var user models.User

		if err := db.
			Preload("Cart.Items").
			Preload("Orders", func(tx *gorm.DB) *gorm.DB {
				return tx.Order("created_at desc").Limit(5)
			}).
			First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var unread int64
		db.Model(&models.Notification{}).
			Where("user_id = ? AND read = ?", userID, false).
			Count(&unread)

		c.JSON(http.StatusOK, gin.H{
			"user":                 user,
			"unread_notifications": unread,
		})
	}
}

// GET /admin/users
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []struct {
			models.User
			OrderCount int64 `json:"order_count"`
		}
		orderCount := db.Model(&models.Order{}).
			Select("COUNT(*)").Where("orders.user_id = users.id")
		if err := db.Model(&models.User{}).
			Select("users.id, users.email, users.name, users.phone, users.created_at, (?) AS order_count", orderCount).
			Order("users.created_at desc").
			Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}

		c.JSON(http.StatusOK, users)
	}
}

// PUT /user
// The stored address pre-fills the shipping address at checkout; orders keep
// their own copy, so editing it never touches past orders.
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		var user models.User

		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updates := make(map[string]interface{})
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Phone != nil {
			updates["phone"] = *input.Phone
		}
		if input.Address != nil {
			updates["country"] = input.Address.Country
			updates["state"] = input.Address.State
			updates["city"] = input.Address.City
			updates["street"] = input.Address.Street
			updates["postal_code"] = input.Address.PostalCode
		}

		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
				return
			}
		}

		c.JSON(http.StatusOK, user)
	}
}
