package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"pairbook/internal/ledger"
	"pairbook/internal/middleware"
	"pairbook/internal/models"
	"pairbook/internal/storage"
)

// memberBalance is one participant's side of the ledger, in whole yen.
type memberBalance struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	Photo       string `json:"photo,omitempty"`
	Paid        int64  `json:"paid"`
	ShouldPay   int64  `json:"should_pay"`
	Repaid      int64  `json:"repaid"`
	Received    int64  `json:"received"`
	Balance     int64  `json:"balance"`
}

type balanceResponse struct {
	Members    []memberBalance    `json:"members"`
	Suggestion *ledger.Suggestion `json:"suggestion,omitempty"`
	Skipped    int                `json:"skipped,omitempty"`
}

// getBalance recomputes the pair balance from the record snapshot. The
// optional ?month= parameter scopes the fold to one calendar month;
// omitting it folds the full history.
func (s *Server) getBalance(c *gin.Context) {
	month := c.Query("month")
	key := "balance:all"
	if month != "" {
		key = "balance:" + month
	}

	var cached balanceResponse
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

	stats := ledger.Compute(records, s.pair)
	ledgerRecomputes.Inc()

	resp := balanceResponse{
		Members: make([]memberBalance, 0, 2),
		Skipped: stats.Skipped,
	}
	for _, p := range s.pair.Emails() {
		m := stats.Member(p)
		paid, shouldPay, repaid, received := m.Yen()
		mb := memberBalance{
			Email:     p,
			Paid:      paid,
			ShouldPay: shouldPay,
			Repaid:    repaid,
			Received:  received,
			Balance:   m.BalanceYen(),
		}
		if user := s.lookupUser(c, p); user != nil {
			mb.DisplayName = user.DisplayName
			mb.Photo = user.Photo
		}
		resp.Members = append(resp.Members, mb)
	}

	if sug, ok := ledger.SuggestSettlement(stats, s.pair, middleware.GetEmail(c)); ok {
		resp.Suggestion = &sug
	}

	s.cache.Set(c.Request.Context(), key, resp)
	c.JSON(http.StatusOK, resp)
}

// lookupUser fetches the account behind an email for display metadata.
// A missing account is not an error; the pair allows emails that have
// not registered yet.
func (s *Server) lookupUser(c *gin.Context, email string) *models.User {
	user, err := s.store.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		slog.Warn("GetUserByEmail failed", "email", email, "error", err)
		return nil
	}
	return user
}
