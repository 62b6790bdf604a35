package handlers

import (
	"net/http"
	"testing"

	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftEndpoints(t *testing.T) {
	db := SetupTestDB(t)
	seedUser(t, db, "root", models.RoleAdmin)

	mr := miniredis.RunT(t)
	database.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { database.Redis = nil }()

	w := perform(t, http.MethodGet, "/admin/drafts/:form", "/admin/drafts/task", nil, "root", models.RoleAdmin, GetDraft)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(t, http.MethodPut, "/admin/drafts/:form", "/admin/drafts/task", `{"title":"WIP"}`, "root", models.RoleAdmin, SaveDraft)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = perform(t, http.MethodGet, "/admin/drafts/:form", "/admin/drafts/task", nil, "root", models.RoleAdmin, GetDraft)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data map[string]string `json:"data"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "WIP", resp.Data["title"])

	w = perform(t, http.MethodPut, "/admin/drafts/:form", "/admin/drafts/profile", `{}`, "root", models.RoleAdmin, SaveDraft)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// creating the task clears its draft
	w = perform(t, http.MethodPost, "/admin/tasks", "/admin/tasks", taskBody(), "root", models.RoleAdmin, AdminCreateTask)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.False(t, mr.Exists("draft:root:task"))
}

func TestPreviewMarkdown(t *testing.T) {
	SetupTestDB(t)

	w := perform(t, http.MethodPost, "/markdown/preview", "/markdown/preview",
		gin.H{"content": "# Title\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n<iframe src=x></iframe>"}, "alice", models.RoleUser, PreviewMarkdown)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		HTML string `json:"html"`
	}
	decode(t, w, &resp)
	assert.Contains(t, resp.HTML, `<h1 id="title">Title</h1>`)
	assert.Contains(t, resp.HTML, "<table>")
	assert.NotContains(t, resp.HTML, "<iframe")
}
