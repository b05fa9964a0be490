package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"pairbook/internal/ledger"
	"pairbook/internal/storage"
)

// getSummary builds the spend overview for the calendar and budget views.
// Like getBalance it recomputes from the full snapshot; ?month= scopes it.
func (s *Server) getSummary(c *gin.Context) {
	month := c.Query("month")
	key := "summary:all"
	if month != "" {
		key = "summary:" + month
	}

	var cached ledger.Summary
	if s.cache.Get(c.Request.Context(), key, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	records, err := s.store.ListRecords(c.Request.Context(), storage.RecordFilter{Month: month})
	if err != nil {
		slog.Error("ListRecords failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load records"})
		return
	}

	categories, err := s.store.ListCategories(c.Request.Context())
	if err != nil {
		slog.Error("ListCategories failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load categories"})
		return
	}

	settings, err := s.store.GetSettings(c.Request.Context())
	if err != nil {
		slog.Error("GetSettings failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
		return
	}

	summary := ledger.Summarize(records, categories, settings.MonthlyBudget)
	ledgerRecomputes.Inc()

	s.cache.Set(c.Request.Context(), key, summary)
	c.JSON(http.StatusOK, summary)
}
