// Package ledger computes per-participant balances for a two-person ledger.
//
// The engine is a pure function over the full record snapshot: it holds no
// state between invocations and is recomputed from scratch on every change.
// That keeps the math trivially order-independent and idempotent, which is
// the right trade at personal-ledger data volumes.
package ledger

import (
	"github.com/shopspring/decimal"

	"pairbook/internal/models"
)

var hundred = decimal.NewFromInt(100)

// MemberStats is one participant's aggregated position.
//
// Share obligations from ratio splits can be fractional (e.g. 70% of ¥1001),
// so the counters are exact decimals. Rounding happens once, at display time,
// via the Yen helpers; intermediate per-record shares are never rounded to
// avoid penny drift across many records.
type MemberStats struct {
	Email string

	// Paid is the total this participant physically paid across expenses.
	Paid decimal.Decimal

	// ShouldPay is this participant's share obligation across all expenses.
	ShouldPay decimal.Decimal

	// Repaid is the total this participant sent in settlements.
	Repaid decimal.Decimal

	// Received is the total this participant received in settlements.
	Received decimal.Decimal
}

// Balance is the participant's net position:
// positive means they are owed money, negative means they owe.
func (m *MemberStats) Balance() decimal.Decimal {
	return m.Paid.Sub(m.ShouldPay).Add(m.Repaid.Sub(m.Received))
}

// BalanceYen is Balance rounded to whole yen (half away from zero).
func (m *MemberStats) BalanceYen() int64 {
	return m.Balance().Round(0).IntPart()
}

// Yen returns the four counters rounded to whole yen for display.
func (m *MemberStats) Yen() (paid, shouldPay, repaid, received int64) {
	return m.Paid.Round(0).IntPart(),
		m.ShouldPay.Round(0).IntPart(),
		m.Repaid.Round(0).IntPart(),
		m.Received.Round(0).IntPart()
}

// Stats is the derived aggregate over the full record set. It is never
// persisted; callers recompute it on every snapshot.
type Stats struct {
	Members map[string]*MemberStats

	// Skipped counts records excluded from monetary aggregation because no
	// payer could be resolved within the pair. Such records still appear in
	// history; one malformed record must not poison the whole balance view.
	Skipped int
}

// Member returns the stats for email, or nil for identities outside the pair.
func (s *Stats) Member(email string) *MemberStats {
	return s.Members[models.NormalizeEmail(email)]
}

// Compute folds the record snapshot into per-participant stats.
//
// The fold is commutative: permuting records never changes the result. It
// never fails; an empty snapshot yields zeroed stats, and records that
// cannot be attributed to a pair member are counted in Skipped.
func Compute(records []*models.Record, pair models.Pair) *Stats {
	stats := &Stats{Members: make(map[string]*MemberStats, 2)}
	for _, email := range pair.Emails() {
		stats.Members[email] = &MemberStats{Email: email}
	}

	for _, rec := range records {
		switch rec.Kind {
		case models.KindExpense:
			if !applyExpense(stats, pair, rec) {
				stats.Skipped++
			}
		case models.KindSettlement:
			if !applySettlement(stats, pair, rec) {
				stats.Skipped++
			}
		default:
			stats.Skipped++
		}
	}
	return stats
}

// applyExpense attributes one expense. The payer carries amount*ratio/100,
// the other participant the remainder, so the two shares always sum to the
// exact amount.
func applyExpense(stats *Stats, pair models.Pair, rec *models.Record) bool {
	payer := rec.EffectivePayer(pair)
	if payer == "" {
		return false
	}
	other, ok := pair.Other(payer)
	if !ok {
		return false
	}

	amount := decimal.NewFromInt(rec.Amount)
	share := amount.Mul(decimal.NewFromInt(clampRatio(rec.MyRatio))).Div(hundred)

	stats.Members[payer].Paid = stats.Members[payer].Paid.Add(amount)
	stats.Members[payer].ShouldPay = stats.Members[payer].ShouldPay.Add(share)
	stats.Members[other.Email].ShouldPay = stats.Members[other.Email].ShouldPay.Add(amount.Sub(share))
	return true
}

// applySettlement attributes one repayment. Both sides must be pair members.
func applySettlement(stats *Stats, pair models.Pair, rec *models.Record) bool {
	payer := rec.EffectivePayer(pair)
	receiver := models.NormalizeEmail(rec.Receiver)
	if payer == "" || !pair.Contains(receiver) || payer == receiver {
		return false
	}

	amount := decimal.NewFromInt(rec.Amount)
	stats.Members[payer].Repaid = stats.Members[payer].Repaid.Add(amount)
	stats.Members[receiver].Received = stats.Members[receiver].Received.Add(amount)
	return true
}

func clampRatio(r int64) int64 {
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}

// Suggestion is the default settlement offered to clear the current balance.
// It is a convenience only: the caller may override both amount and payer,
// and partial settlements are legal.
type Suggestion struct {
	// Amount is the outstanding debt in yen.
	Amount int64 `json:"amount"`

	// Payer is the side that currently owes.
	Payer string `json:"payer"`

	// Receiver is the side that is owed.
	Receiver string `json:"receiver"`
}

// SuggestSettlement derives the settlement that would zero the current
// balance. ok is false when the pair is already settled (or me is not a
// pair member).
func SuggestSettlement(stats *Stats, pair models.Pair, me string) (Suggestion, bool) {
	mine := stats.Member(me)
	if mine == nil {
		return Suggestion{}, false
	}
	other, _ := pair.Other(mine.Email)

	balance := mine.BalanceYen()
	if balance == 0 {
		return Suggestion{}, false
	}
	if balance > 0 {
		// I am owed: the partner pays me.
		return Suggestion{Amount: balance, Payer: other.Email, Receiver: mine.Email}, true
	}
	return Suggestion{Amount: -balance, Payer: mine.Email, Receiver: other.Email}, true
}
