// Package normalizer validates raw expense and settlement submissions and
// turns them into canonical records ready for storage.
//
// The normalizer sits between the UI and the store: it refuses invalid input
// with a typed error (the caller re-prompts) and derives the canonical fields
// (split ratio, noon-normalized date, default category, default payer) so the
// ledger engine never sees a half-formed record.
package normalizer

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"pairbook/internal/models"
)

var (
	// ErrInvalidAmount signals a non-numeric or non-positive amount.
	ErrInvalidAmount = errors.New("amount must be a positive number")

	// ErrEmptyTitle signals an expense with no title.
	ErrEmptyTitle = errors.New("title must not be empty")

	// ErrInvalidRatio signals a ratio split outside 0..100.
	ErrInvalidRatio = errors.New("split ratio must be between 0 and 100")

	// ErrInvalidSplit signals an unknown split type.
	ErrInvalidSplit = errors.New("unknown split type")

	// ErrInvalidDate signals an unparseable calendar date.
	ErrInvalidDate = errors.New("date must be a calendar date (YYYY-MM-DD)")

	// ErrUnknownParticipant signals a payer or receiver outside the pair.
	ErrUnknownParticipant = errors.New("participant is not part of this ledger")

	// ErrSamePartySettlement signals a settlement from a participant to
	// themselves.
	ErrSamePartySettlement = errors.New("settlement payer and receiver must differ")
)

// DefaultMethod is the settlement method assumed when none is given.
const DefaultMethod = "現金"

// ExpenseSubmission is a raw expense as collected by the UI.
// Amount arrives as text because it comes straight from an input field.
type ExpenseSubmission struct {
	Title     string
	Amount    string
	Category  string
	Date      string // "2006-01-02"; empty means today
	Payer     string // empty means the submitter paid
	SplitType models.SplitType
	MyRatio   int64 // only consulted for SplitRatio
	Note      string
}

// SettlementSubmission is a raw repayment as collected by the UI.
type SettlementSubmission struct {
	Amount   string
	Date     string
	Payer    string // empty means the submitter is repaying
	Receiver string // empty means the other participant
	Method   string
	Note     string
}

// NormalizeExpense validates sub and produces a canonical expense record.
// submitter is the authenticated participant creating the entry; categories
// is the currently configured list used for the default category.
func NormalizeExpense(sub ExpenseSubmission, submitter string, pair models.Pair, categories []models.Category) (*models.Record, error) {
	title := strings.TrimSpace(sub.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	amount, err := parseAmount(sub.Amount)
	if err != nil {
		return nil, err
	}

	ratio, err := splitRatio(sub.SplitType, sub.MyRatio)
	if err != nil {
		return nil, err
	}

	date, err := normalizeDate(sub.Date)
	if err != nil {
		return nil, err
	}

	payer, err := resolvePayer(sub.Payer, submitter, pair)
	if err != nil {
		return nil, err
	}

	category := strings.TrimSpace(sub.Category)
	if category == "" {
		category = models.FallbackCategory
		if len(categories) > 0 {
			category = categories[0].Name
		}
	}

	return &models.Record{
		Kind:       models.KindExpense,
		Title:      title,
		Amount:     amount,
		Category:   category,
		Date:       date,
		Payer:      payer,
		SplitType:  sub.SplitType,
		MyRatio:    ratio,
		Note:       strings.TrimSpace(sub.Note),
		RecordedBy: models.NormalizeEmail(submitter),
	}, nil
}

// NormalizeSettlement validates sub and produces a canonical settlement
// record. Payer defaults to the submitter, receiver to the opposite side.
func NormalizeSettlement(sub SettlementSubmission, submitter string, pair models.Pair) (*models.Record, error) {
	amount, err := parseAmount(sub.Amount)
	if err != nil {
		return nil, err
	}

	date, err := normalizeDate(sub.Date)
	if err != nil {
		return nil, err
	}

	payer, err := resolvePayer(sub.Payer, submitter, pair)
	if err != nil {
		return nil, err
	}

	receiver := models.NormalizeEmail(sub.Receiver)
	if receiver == "" {
		other, _ := pair.Other(payer)
		receiver = other.Email
	}
	if !pair.Contains(receiver) {
		return nil, ErrUnknownParticipant
	}
	if receiver == payer {
		return nil, ErrSamePartySettlement
	}

	method := strings.TrimSpace(sub.Method)
	if method == "" {
		method = DefaultMethod
	}

	return &models.Record{
		Kind:       models.KindSettlement,
		Amount:     amount,
		Date:       date,
		Payer:      payer,
		Receiver:   receiver,
		Method:     method,
		Note:       strings.TrimSpace(sub.Note),
		RecordedBy: models.NormalizeEmail(submitter),
	}, nil
}

func parseAmount(s string) (int64, error) {
	amount, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return amount, nil
}

// splitRatio maps the split policy to the payer's share percentage.
func splitRatio(split models.SplitType, myRatio int64) (int64, error) {
	switch split {
	case models.SplitFull, "":
		return 100, nil
	case models.SplitHalf:
		return 50, nil
	case models.SplitRatio:
		if myRatio < 0 || myRatio > 100 {
			return 0, ErrInvalidRatio
		}
		return myRatio, nil
	default:
		return 0, ErrInvalidSplit
	}
}

// normalizeDate parses a calendar date and pins it to 12:00 UTC, so that
// "which day" comparisons are stable regardless of the viewer's timezone.
// An empty input means today.
func normalizeDate(s string) (int64, error) {
	day := time.Now().UTC()
	if s = strings.TrimSpace(s); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			return 0, ErrInvalidDate
		}
		day = parsed
	}
	noon := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, time.UTC)
	return noon.Unix(), nil
}

func resolvePayer(payer, submitter string, pair models.Pair) (string, error) {
	if payer == "" {
		payer = submitter
	}
	if !pair.Contains(payer) {
		return "", ErrUnknownParticipant
	}
	return models.NormalizeEmail(payer), nil
}
