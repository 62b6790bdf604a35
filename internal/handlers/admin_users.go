package handlers

import (
	"net/http"

	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var userSortColumns = map[string]string{
	"createdAt":   "created_at",
	"username":    "username",
	"tasksSolved": "tasks_solved",
	"hackathons":  "hackathons_participated",
}

func AdminListUsers(c *gin.Context) {
	q := parseListQuery(c, userSortColumns, "createdAt", true)

	db := database.DB.Model(&models.User{})
	if q.Search != "" {
		term := utils.SanitizeSearchQuery(q.Search)
		db = db.Where("LOWER(username) LIKE ? ESCAPE '\\' OR LOWER(email) LIKE ? ESCAPE '\\' OR LOWER(name) LIKE ? ESCAPE '\\'", term, term, term)
	}
	switch c.Query("role") {
	case string(models.RoleAdmin), string(models.RoleUser):
		db = db.Where("role = ?", c.Query("role"))
	}
	if c.Query("blocked") == "true" {
		db = db.Where("is_blocked = ?", true)
	}

	var total int64
	db.Count(&total)

	var users []models.User
	if err := q.apply(db).Find(&users).Error; err != nil {
		respondError(c, err, "User")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "pagination": q.meta(total)})
}

func AdminUpdateUserRole(c *gin.Context) {
	adminID := getAdminID(c)
	userID := c.Param("id")

	var req struct {
		Role models.Role `json:"role" binding:"required,oneof=USER ADMIN"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if userID == adminID && req.Role != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot remove your own admin role"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", userID).Update("role", req.Role)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return logAdminAction(tx, adminID, models.ActionUpdateUser, userID, "user", "Role set to "+string(req.Role))
	})
	if err != nil {
		respondError(c, err, "User")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated"})
}

func setBlocked(c *gin.Context, blocked bool) {
	adminID := getAdminID(c)
	userID := c.Param("id")
	if userID == adminID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot block yourself"})
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	action := models.ActionUnblockUser
	if blocked {
		action = models.ActionBlockUser
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", userID).Update("is_blocked", blocked)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return logAdminAction(tx, adminID, action, userID, "user", req.Reason)
	})
	if err != nil {
		respondError(c, err, "User")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated", "isBlocked": blocked})
}

func AdminBlockUser(c *gin.Context) {
	setBlocked(c, true)
}

func AdminUnblockUser(c *gin.Context) {
	setBlocked(c, false)
}

// AdminDeleteUser soft-deletes the account; submissions and scores stay for reports.
func AdminDeleteUser(c *gin.Context) {
	adminID := getAdminID(c)
	userID := c.Param("id")
	if userID == adminID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete yourself"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", userID).Delete(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return logAdminAction(tx, adminID, models.ActionDeleteUser, userID, "user", "")
	})
	if err != nil {
		respondError(c, err, "User")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
