package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pairbook/internal/models"
)

// listCategories returns the configured category list in display order.
func (s *Server) listCategories(c *gin.Context) {
	categories, err := s.store.ListCategories(c.Request.Context())
	if err != nil {
		slog.Error("ListCategories failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load categories"})
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	c.JSON(http.StatusOK, categories)
}

// replaceCategories saves the full category list. Records that reference a
// removed name keep it; the summary shows such names with a fallback icon.
func (s *Server) replaceCategories(c *gin.Context) {
	var categories []models.Category
	if err := c.ShouldBindJSON(&categories); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cleaned := make([]models.Category, 0, len(categories))
	seen := make(map[string]bool, len(categories))
	for _, cat := range categories {
		cat.Name = strings.TrimSpace(cat.Name)
		if cat.Name == "" || seen[cat.Name] {
			continue
		}
		seen[cat.Name] = true
		if cat.Icon == "" {
			cat.Icon = models.FallbackIcon
		}
		cleaned = append(cleaned, cat)
	}
	if len(cleaned) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one category is required"})
		return
	}

	if err := s.store.ReplaceCategories(c.Request.Context(), cleaned); err != nil {
		slog.Error("ReplaceCategories failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save categories"})
		return
	}

	// Month-scoped summary keys are left to their short TTL.
	s.cache.Invalidate(c.Request.Context(), "summary:all")
	c.JSON(http.StatusOK, cleaned)
}
