package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/Ariet2003/codigma-sub000/internal/services"
	"github.com/gin-gonic/gin"
)

// Drafts are per-admin autosaves of the task and hackathon forms.

func GetDraft(c *gin.Context) {
	data, err := services.LoadDraft(currentUserID(c), c.Param("form"))
	if err != nil {
		respondError(c, err, "Draft")
		return
	}
	c.JSON(http.StatusOK, gin.H{"form": c.Param("form"), "data": data})
}

func SaveDraft(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, services.MaxDraftBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}
	if err := services.SaveDraft(currentUserID(c), c.Param("form"), json.RawMessage(body)); err != nil {
		respondError(c, err, "Draft")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Draft saved"})
}

func DeleteDraft(c *gin.Context) {
	if err := services.ClearDraft(currentUserID(c), c.Param("form")); err != nil {
		respondError(c, err, "Draft")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Draft cleared"})
}

type MarkdownInput struct {
	Content string `json:"content" binding:"max=100000"`
}

// PreviewMarkdown renders task or hackathon descriptions for the editor preview.
func PreviewMarkdown(c *gin.Context) {
	var req MarkdownInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	html, err := services.RenderMarkdown(req.Content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"html": html})
}
