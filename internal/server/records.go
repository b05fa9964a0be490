package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"pairbook/internal/middleware"
	"pairbook/internal/models"
	"pairbook/internal/normalizer"
	"pairbook/internal/storage"
)

// expenseRequest is the raw expense submission from the UI.
// Amount is a json.Number so the normalizer gets the user's text verbatim.
type expenseRequest struct {
	Title     string           `json:"title"`
	Amount    json.Number      `json:"amount"`
	Category  string           `json:"category"`
	Date      string           `json:"date"`
	Payer     string           `json:"payer"`
	SplitType models.SplitType `json:"split_type"`
	MyRatio   int64            `json:"my_ratio"`
	Note      string           `json:"note"`
}

func (r expenseRequest) submission() normalizer.ExpenseSubmission {
	return normalizer.ExpenseSubmission{
		Title:     r.Title,
		Amount:    r.Amount.String(),
		Category:  r.Category,
		Date:      r.Date,
		Payer:     r.Payer,
		SplitType: r.SplitType,
		MyRatio:   r.MyRatio,
		Note:      r.Note,
	}
}

// listRecords returns the history, optionally narrowed to one month and
// filtered by free text. Settlements are included; the UI renders them as
// repayment rows.
func (s *Server) listRecords(c *gin.Context) {
	records, err := s.store.ListRecords(c.Request.Context(), storage.RecordFilter{
		Month: c.Query("month"),
		Query: c.Query("q"),
	})
	if err != nil {
		slog.Error("ListRecords failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list records"})
		return
	}

	// Empty array, never null.
	if records == nil {
		records = []*models.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

// createExpense validates, normalizes and persists a new expense.
func (s *Server) createExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	categories, err := s.store.ListCategories(c.Request.Context())
	if err != nil {
		slog.Error("ListCategories failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load categories"})
		return
	}

	rec, err := normalizer.NormalizeExpense(req.submission(), middleware.GetEmail(c), s.pair, categories)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.store.CreateRecord(c.Request.Context(), rec); err != nil {
		slog.Error("CreateRecord failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save record"})
		return
	}

	recordsWritten.WithLabelValues(string(rec.Kind), "create").Inc()
	s.invalidateMonths(c, monthKey(rec))
	c.JSON(http.StatusCreated, rec)
}

// updateExpense replaces an expense wholesale. Records are immutable apart
// from this full-record replace.
func (s *Server) updateExpense(c *gin.Context) {
	id := c.Param("id")

	existing, err := s.store.GetRecord(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
			return
		}
		slog.Error("GetRecord failed", "record_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load record"})
		return
	}
	if existing.Kind != models.KindExpense {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only expenses can be edited"})
		return
	}

	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	categories, err := s.store.ListCategories(c.Request.Context())
	if err != nil {
		slog.Error("ListCategories failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load categories"})
		return
	}

	rec, err := normalizer.NormalizeExpense(req.submission(), middleware.GetEmail(c), s.pair, categories)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec.ID = existing.ID
	rec.CreatedAt = existing.CreatedAt

	if err := s.store.UpdateRecord(c.Request.Context(), rec); err != nil {
		slog.Error("UpdateRecord failed", "record_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update record"})
		return
	}

	recordsWritten.WithLabelValues(string(rec.Kind), "update").Inc()
	// The edit may have moved the record to another month.
	s.invalidateMonths(c, monthKey(existing), monthKey(rec))
	c.JSON(http.StatusOK, rec)
}

// deleteRecord removes a record (expense or settlement) by ID.
func (s *Server) deleteRecord(c *gin.Context) {
	id := c.Param("id")

	existing, err := s.store.GetRecord(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
			return
		}
		slog.Error("GetRecord failed", "record_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load record"})
		return
	}

	if err := s.store.DeleteRecord(c.Request.Context(), id); err != nil {
		slog.Error("DeleteRecord failed", "record_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete record"})
		return
	}

	recordsWritten.WithLabelValues(string(existing.Kind), "delete").Inc()
	s.invalidateMonths(c, monthKey(existing))
	c.Status(http.StatusNoContent)
}
