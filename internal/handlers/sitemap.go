package handlers

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Ariet2003/codigma-sub000/internal/config"
	"github.com/Ariet2003/codigma-sub000/internal/database"
	"github.com/Ariet2003/codigma-sub000/internal/models"
	"github.com/gin-gonic/gin"
)

// Sitemap Cache
var (
	sitemapCache     []byte
	sitemapRefreshed time.Time
	sitemapMutex     sync.RWMutex
	cacheDuration    = 6 * time.Hour
)

// SitemapEntry represents a single URL entry in the sitemap
type SitemapEntry struct {
	XMLName    xml.Name `xml:"url"`
	Loc        string   `xml:"loc"`
	LastMod    string   `xml:"lastmod,omitempty"`
	ChangeFreq string   `xml:"changefreq,omitempty"`
	Priority   string   `xml:"priority,omitempty"`
}

// URLSet is the root element of the sitemap
type URLSet struct {
	XMLName xml.Name       `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	URLs    []SitemapEntry `xml:"url"`
}

func siteBaseURL() string {
	if config.AppConfig == nil {
		return ""
	}
	return strings.TrimRight(config.AppConfig.FrontendURL, "/")
}

// buildSitemap lists public pages, published tasks and hackathons.
func buildSitemap(base string) ([]byte, error) {
	var urls []SitemapEntry

	for _, p := range []string{"", "/tasks", "/hackathons", "/leaderboard"} {
		urls = append(urls, SitemapEntry{Loc: base + p, ChangeFreq: "daily", Priority: "0.8"})
	}

	var tasks []models.Task
	database.DB.Select("slug", "updated_at").Where("is_published = ?", true).Order("created_at desc").Limit(2000).Find(&tasks)
	for _, t := range tasks {
		urls = append(urls, SitemapEntry{
			Loc:        fmt.Sprintf("%s/tasks/%s", base, t.Slug),
			LastMod:    t.UpdatedAt.Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   "0.6",
		})
	}

	var hackathons []models.Hackathon
	database.DB.Select("slug", "updated_at").Order("start_date desc").Limit(500).Find(&hackathons)
	for _, h := range hackathons {
		urls = append(urls, SitemapEntry{
			Loc:        fmt.Sprintf("%s/hackathons/%s", base, h.Slug),
			LastMod:    h.UpdatedAt.Format("2006-01-02"),
			ChangeFreq: "daily",
			Priority:   "0.7",
		})
	}

	output, err := xml.MarshalIndent(URLSet{URLs: urls}, "", "  ")
	if err != nil {
		return nil, err
	}
	return []byte(xml.Header + string(output)), nil
}

// GenerateSitemap handles the dynamic sitemap generation with caching
func GenerateSitemap(c *gin.Context) {
	sitemapMutex.RLock()
	if sitemapCache != nil && time.Since(sitemapRefreshed) < cacheDuration {
		cached := sitemapCache
		sitemapMutex.RUnlock()
		c.Data(http.StatusOK, "application/xml", cached)
		return
	}
	sitemapMutex.RUnlock()

	out, err := buildSitemap(siteBaseURL())
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	sitemapMutex.Lock()
	sitemapCache = out
	sitemapRefreshed = time.Now()
	sitemapMutex.Unlock()

	c.Data(http.StatusOK, "application/xml", out)
}

// GenerateRobotsTXT returns the robots.txt file
func GenerateRobotsTXT(c *gin.Context) {
	base := siteBaseURL()
	robots := `User-agent: *
Allow: /
Disallow: /login
Disallow: /register
Disallow: /admin
Disallow: /api
Disallow: /auth

Sitemap: ` + base + `/sitemap.xml`

	c.String(http.StatusOK, robots)
}
