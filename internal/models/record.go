package models

// Kind distinguishes the two record types in the ledger.
type Kind string

const (
	// KindExpense is a spend entry whose cost is split between the pair.
	KindExpense Kind = "expense"

	// KindSettlement is a repayment from one participant to the other.
	KindSettlement Kind = "settlement"
)

// SplitType is the policy dividing an expense between the pair.
type SplitType string

const (
	// SplitFull means the payer carries the whole amount (ratio 100).
	// No debt is created.
	SplitFull SplitType = "full"

	// SplitHalf splits the amount evenly (ratio 50).
	SplitHalf SplitType = "half"

	// SplitRatio uses an explicit payer share percentage (MyRatio).
	SplitRatio SplitType = "ratio"
)

// Record is a single ledger entry, either an expense or a settlement.
// Records are immutable once created: edits replace the whole record.
type Record struct {
	// ID is the unique identifier for the record (UUID format).
	ID string `json:"id"`

	// Kind is expense or settlement.
	Kind Kind `json:"kind"`

	// Title is the free-text purpose of an expense (e.g. "カフェ").
	// Empty for settlements.
	Title string `json:"title,omitempty"`

	// Amount is the amount in yen. Always positive.
	Amount int64 `json:"amount"`

	// Category is the category name at the time of recording. The category
	// may be deleted later; the record keeps the dangling name.
	Category string `json:"category,omitempty"`

	// Date is the calendar day of the record as a Unix timestamp. The
	// time-of-day is normalized to 12:00 UTC so day comparisons are stable
	// across timezones.
	Date int64 `json:"date"`

	// Payer is the email of the participant who physically paid.
	Payer string `json:"payer"`

	// Receiver is the email of the participant receiving a settlement.
	// Empty for expenses.
	Receiver string `json:"receiver,omitempty"`

	// Method is the free-text settlement method (現金, PayPay, 振込, ...).
	// Empty for expenses.
	Method string `json:"method,omitempty"`

	// SplitType is the expense split policy. Empty for settlements.
	SplitType SplitType `json:"split_type,omitempty"`

	// MyRatio is the payer's share of an expense in percent (0..100).
	MyRatio int64 `json:"my_ratio,omitempty"`

	// Note is an optional free-text annotation.
	Note string `json:"note,omitempty"`

	// RecordedBy is the email of the participant who created the entry.
	// It may differ from Payer when one person records on the other's
	// behalf, and serves as the payer fallback during aggregation.
	RecordedBy string `json:"recorded_by"`

	// CreatedAt and UpdatedAt are Unix timestamps maintained by the store.
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// EffectivePayer resolves who paid for the record: the explicit payer if
// present, otherwise the author when the author is a pair member. The empty
// string means the record has no resolvable payer and must be excluded from
// monetary aggregation.
func (r *Record) EffectivePayer(pair Pair) string {
	if pair.Contains(r.Payer) {
		return NormalizeEmail(r.Payer)
	}
	if r.Payer == "" && pair.Contains(r.RecordedBy) {
		return NormalizeEmail(r.RecordedBy)
	}
	return ""
}
