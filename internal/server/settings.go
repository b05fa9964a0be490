package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"pairbook/internal/models"
)

// getSettings returns the household settings, zero-valued when unset.
func (s *Server) getSettings(c *gin.Context) {
	settings, err := s.store.GetSettings(c.Request.Context())
	if err != nil {
		slog.Error("GetSettings failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// saveSettings replaces the household settings.
func (s *Server) saveSettings(c *gin.Context) {
	var settings models.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if settings.MonthlyBudget < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "monthly budget must not be negative"})
		return
	}

	if err := s.store.SaveSettings(c.Request.Context(), &settings); err != nil {
		slog.Error("SaveSettings failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
		return
	}

	// The budget feeds the summary gauge.
	s.cache.Invalidate(c.Request.Context(), "summary:all")
	c.JSON(http.StatusOK, settings)
}
