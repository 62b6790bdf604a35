package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/internal/services"
	"github.com/Ariet2003/codigma-sub000/pkg/logger"
	"github.com/Ariet2003/codigma-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
)

const maxAvatarBytes = 2 << 20

var avatarExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// UploadAvatar stores a profile image in object storage and points the
// caller's profile at it.
func UploadAvatar(c *gin.Context) {
	if services.DefaultStore == nil {
		respondError(c, services.ErrStorageNotConfigured, "Avatar")
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image field"})
		return
	}
	defer file.Close()

	if header.Size > maxAvatarBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image must be 2MB or smaller"})
		return
	}
	body, err := io.ReadAll(io.LimitReader(file, maxAvatarBytes+1))
	if err != nil || len(body) > maxAvatarBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image"})
		return
	}

	// Sniff rather than trust the client's Content-Type.
	contentType := http.DetectContentType(body)
	ext, ok := avatarExtensions[contentType]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported image type"})
		return
	}

	userID := currentUserID(c)
	key := fmt.Sprintf("avatars/%s/%s%s", userID, utils.GenerateID(), ext)
	url, err := services.DefaultStore.Put(c.Request.Context(), key, contentType, body)
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Avatar upload failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Upload failed"})
		return
	}

	if err := database.DB.Model(&models.User{}).Where("id = ?", userID).Update("image", url).Error; err != nil {
		respondError(c, err, "User")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":      url,
		"mimetype": contentType,
		"size":     len(body),
	})
}
