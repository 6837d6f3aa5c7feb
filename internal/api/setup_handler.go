package api

import (
	"net/http"
	"strings"

	"gutenlens/internal/db"
	"gutenlens/internal/user"

	"github.com/gin-gonic/gin"
)

type SetupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SetupHandler creates the first admin account. It is disabled as soon
// as any user exists.
func SetupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		exists, err := db.HasUsers()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "DB error"}})
			return
		}
		if exists {
			c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "Setup not allowed; users already exist"}})
			return
		}
		var req SetupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid request"}})
			return
		}
		if req.Username == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Username and password required"}})
			return
		}
		pwHash, err := user.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Password hash failed"}})
			return
		}
		u := user.User{
			Username:     req.Username,
			PasswordHash: pwHash,
			Role:         user.RoleAdmin,
		}
		if err := db.DB.Create(&u).Error; err != nil {
			if strings.Contains(err.Error(), "unique") {
				c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Username already exists"}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "DB error"}})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"id":             u.ID,
			"username":       u.Username,
			"role":           u.Role,
			"setup_complete": true,
		})
	}
}
