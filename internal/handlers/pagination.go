package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// listQuery is the page/limit/sort/order/search part of a list request.
type listQuery struct {
	Page   int
	Limit  int
	Sort   string // column name, already allow-listed
	Desc   bool
	Search string
}

// parseListQuery reads ?page&limit&sort&order&search. sortable maps the
// public sort key to a column; unknown keys fall back to defaultSort.
func parseListQuery(c *gin.Context, sortable map[string]string, defaultSort string, defaultDesc bool) listQuery {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}

	col, ok := sortable[c.Query("sort")]
	if !ok {
		col = sortable[defaultSort]
	}

	desc := defaultDesc
	switch strings.ToLower(c.Query("order")) {
	case "asc":
		desc = false
	case "desc":
		desc = true
	}

	return listQuery{
		Page:   page,
		Limit:  limit,
		Sort:   col,
		Desc:   desc,
		Search: strings.TrimSpace(c.Query("search")),
	}
}

func (q listQuery) offset() int {
	return (q.Page - 1) * q.Limit
}

// apply adds ordering and the page window to db.
func (q listQuery) apply(db *gorm.DB) *gorm.DB {
	dir := " ASC"
	if q.Desc {
		dir = " DESC"
	}
	if q.Sort != "" {
		db = db.Order(q.Sort + dir)
	}
	return db.Offset(q.offset()).Limit(q.Limit)
}

func (q listQuery) meta(total int64) gin.H {
	return gin.H{
		"page":       q.Page,
		"limit":      q.Limit,
		"total":      total,
		"totalPages": (total + int64(q.Limit) - 1) / int64(q.Limit),
	}
}
