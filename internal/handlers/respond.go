package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/Ariet2003/codigma-sub000/internal/services"
	apperrors "github.com/Ariet2003/codigma-sub000/pkg/errors"
	"github.com/Ariet2003/codigma-sub000/pkg/logger"
	"github.com/Ariet2003/codigma-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Service errors that map straight onto a status code.
var serviceErrorStatus = map[error]int{
	services.ErrUnsupportedLanguage:  http.StatusBadRequest,
	services.ErrNoTestCases:          http.StatusBadRequest,
	services.ErrAlreadyParticipant:   http.StatusConflict,
	services.ErrNotParticipant:       http.StatusForbidden,
	services.ErrHackathonClosed:      http.StatusBadRequest,
	services.ErrHackathonOpen:        http.StatusBadRequest,
	services.ErrHackathonEnded:       http.StatusBadRequest,
	services.ErrHackathonNotActive:   http.StatusBadRequest,
	services.ErrHackathonStarted:     http.StatusBadRequest,
	services.ErrRequestExists:        http.StatusConflict,
	services.ErrRequestReviewed:      http.StatusConflict,
	services.ErrTaskNotInHackathon:   http.StatusNotFound,
	services.ErrDuplicateTask:        http.StatusBadRequest,
	services.ErrUnknownTask:          http.StatusBadRequest,
	services.ErrDraftNotFound:        http.StatusNotFound,
	services.ErrDraftForm:            http.StatusBadRequest,
	services.ErrDraftTooLarge:        http.StatusRequestEntityTooLarge,
	services.ErrDraftInvalid:         http.StatusBadRequest,
	services.ErrDraftsUnavailable:    http.StatusServiceUnavailable,
	services.ErrStorageNotConfigured: http.StatusServiceUnavailable,
	services.ErrInvalidSignature:     http.StatusBadRequest,
}

// respondError writes err as {"error": ...}. what names the resource for
// not-found and conflict messages.
func respondError(c *gin.Context, err error, what string) {
	if errors.Is(err, services.ErrJudgeUnavailable) {
		c.JSON(http.StatusBadGateway, gin.H{"error": apperrors.ErrJudgeUnavailable.Message})
		return
	}
	for target, status := range serviceErrorStatus {
		if errors.Is(err, target) {
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
	}

	appErr := apperrors.FromDB(err, what)
	if appErr.Code >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	}
	c.JSON(appErr.Code, gin.H{"error": appErr.Message})
}

func currentUserID(c *gin.Context) string {
	return c.GetString("userId")
}

func getAdminID(c *gin.Context) string {
	return currentUserID(c)
}

func logAdminAction(tx *gorm.DB, adminID string, action models.ActionType, targetID, targetType, reason string) error {
	audit := models.AdminAction{
		ID:         utils.GenerateID(),
		AdminID:    adminID,
		Action:     action,
		TargetID:   targetID,
		TargetType: targetType,
		Reason:     reason,
		CreatedAt:  time.Now(),
	}
	return tx.Create(&audit).Error
}
