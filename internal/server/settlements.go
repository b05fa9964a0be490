package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"pairbook/internal/middleware"
	"pairbook/internal/normalizer"
)

// settlementRequest is the raw repayment submission from the UI. All fields
// but amount are optional: payer defaults to the submitter, receiver to the
// other participant, method to cash.
type settlementRequest struct {
	Amount   json.Number `json:"amount"`
	Date     string      `json:"date"`
	Payer    string      `json:"payer"`
	Receiver string      `json:"receiver"`
	Method   string      `json:"method"`
	Note     string      `json:"note"`
}

// createSettlement records a repayment between the pair. Any positive
// amount is accepted; partial settlements simply shift the balance.
func (s *Server) createSettlement(c *gin.Context) {
	var req settlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := normalizer.NormalizeSettlement(normalizer.SettlementSubmission{
		Amount:   req.Amount.String(),
		Date:     req.Date,
		Payer:    req.Payer,
		Receiver: req.Receiver,
		Method:   req.Method,
		Note:     req.Note,
	}, middleware.GetEmail(c), s.pair)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.store.CreateRecord(c.Request.Context(), rec); err != nil {
		slog.Error("CreateRecord failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settlement"})
		return
	}

	recordsWritten.WithLabelValues(string(rec.Kind), "create").Inc()
	s.invalidateMonths(c, monthKey(rec))
	c.JSON(http.StatusCreated, rec)
}
