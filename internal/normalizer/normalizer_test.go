package normalizer

import (
	"errors"
	"testing"
	"time"

	"pairbook/internal/models"
)

const (
	alice = "alice@example.com"
	bob   = "bob@example.com"
)

func testPair(t *testing.T) models.Pair {
	t.Helper()
	pair, err := models.NewPair(alice, bob)
	if err != nil {
		t.Fatalf("NewPair failed: %v", err)
	}
	return pair
}

func TestNormalizeExpense(t *testing.T) {
	pair := testPair(t)
	categories := models.DefaultCategories()

	tests := []struct {
		name     string
		sub      ExpenseSubmission
		wantErr  error
		validate func(t *testing.T, rec *models.Record)
	}{
		{
			name: "valid half split",
			sub: ExpenseSubmission{
				Title:     "カフェ",
				Amount:    "1200",
				Category:  "デート・外食",
				Date:      "2026-08-15",
				SplitType: models.SplitHalf,
			},
			validate: func(t *testing.T, rec *models.Record) {
				if rec.Kind != models.KindExpense {
					t.Errorf("kind = %s, want expense", rec.Kind)
				}
				if rec.Amount != 1200 {
					t.Errorf("amount = %d, want 1200", rec.Amount)
				}
				if rec.MyRatio != 50 {
					t.Errorf("ratio = %d, want 50", rec.MyRatio)
				}
				if rec.Payer != alice {
					t.Errorf("payer = %s, want submitter", rec.Payer)
				}
				if rec.RecordedBy != alice {
					t.Errorf("recorded_by = %s, want %s", rec.RecordedBy, alice)
				}
			},
		},
		{
			name: "full split maps to ratio 100",
			sub:  ExpenseSubmission{Title: "x", Amount: "100", SplitType: models.SplitFull},
			validate: func(t *testing.T, rec *models.Record) {
				if rec.MyRatio != 100 {
					t.Errorf("ratio = %d, want 100", rec.MyRatio)
				}
			},
		},
		{
			name: "missing split type defaults to full",
			sub:  ExpenseSubmission{Title: "x", Amount: "100"},
			validate: func(t *testing.T, rec *models.Record) {
				if rec.MyRatio != 100 {
					t.Errorf("ratio = %d, want 100", rec.MyRatio)
				}
			},
		},
		{
			name: "explicit ratio is kept verbatim",
			sub:  ExpenseSubmission{Title: "x", Amount: "100", SplitType: models.SplitRatio, MyRatio: 73},
			validate: func(t *testing.T, rec *models.Record) {
				if rec.MyRatio != 73 {
					t.Errorf("ratio = %d, want 73", rec.MyRatio)
				}
			},
		},
		{
			name: "date pinned to noon UTC",
			sub:  ExpenseSubmission{Title: "x", Amount: "100", Date: "2026-08-15"},
			validate: func(t *testing.T, rec *models.Record) {
				got := time.Unix(rec.Date, 0).UTC()
				want := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
				if !got.Equal(want) {
					t.Errorf("date = %s, want %s", got, want)
				}
			},
		},
		{
			name: "empty category defaults to first configured",
			sub:  ExpenseSubmission{Title: "x", Amount: "100"},
			validate: func(t *testing.T, rec *models.Record) {
				if rec.Category != categories[0].Name {
					t.Errorf("category = %s, want %s", rec.Category, categories[0].Name)
				}
			},
		},
		{
			name: "explicit payer override",
			sub:  ExpenseSubmission{Title: "x", Amount: "100", Payer: bob},
			validate: func(t *testing.T, rec *models.Record) {
				if rec.Payer != bob {
					t.Errorf("payer = %s, want %s", rec.Payer, bob)
				}
				if rec.RecordedBy != alice {
					t.Errorf("recorded_by = %s, want %s", rec.RecordedBy, alice)
				}
			},
		},
		{name: "empty title rejected", sub: ExpenseSubmission{Amount: "100"}, wantErr: ErrEmptyTitle},
		{name: "blank title rejected", sub: ExpenseSubmission{Title: "   ", Amount: "100"}, wantErr: ErrEmptyTitle},
		{name: "zero amount rejected", sub: ExpenseSubmission{Title: "x", Amount: "0"}, wantErr: ErrInvalidAmount},
		{name: "negative amount rejected", sub: ExpenseSubmission{Title: "x", Amount: "-5"}, wantErr: ErrInvalidAmount},
		{name: "non-numeric amount rejected", sub: ExpenseSubmission{Title: "x", Amount: "abc"}, wantErr: ErrInvalidAmount},
		{name: "ratio above 100 rejected", sub: ExpenseSubmission{Title: "x", Amount: "100", SplitType: models.SplitRatio, MyRatio: 110}, wantErr: ErrInvalidRatio},
		{name: "negative ratio rejected", sub: ExpenseSubmission{Title: "x", Amount: "100", SplitType: models.SplitRatio, MyRatio: -10}, wantErr: ErrInvalidRatio},
		{name: "garbage split type rejected", sub: ExpenseSubmission{Title: "x", Amount: "100", SplitType: "thirds"}, wantErr: ErrInvalidSplit},
		{name: "garbage date rejected", sub: ExpenseSubmission{Title: "x", Amount: "100", Date: "15/08/2026"}, wantErr: ErrInvalidDate},
		{name: "outside payer rejected", sub: ExpenseSubmission{Title: "x", Amount: "100", Payer: "mallory@example.com"}, wantErr: ErrUnknownParticipant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := NormalizeExpense(tt.sub, alice, pair, categories)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeExpense failed: %v", err)
			}
			tt.validate(t, rec)
		})
	}
}

func TestNormalizeExpenseNoCategories(t *testing.T) {
	pair := testPair(t)

	rec, err := NormalizeExpense(ExpenseSubmission{Title: "x", Amount: "100"}, alice, pair, nil)
	if err != nil {
		t.Fatalf("NormalizeExpense failed: %v", err)
	}
	if rec.Category != models.FallbackCategory {
		t.Errorf("category = %s, want %s", rec.Category, models.FallbackCategory)
	}
}

func TestNormalizeSettlement(t *testing.T) {
	pair := testPair(t)

	t.Run("defaults", func(t *testing.T) {
		rec, err := NormalizeSettlement(SettlementSubmission{Amount: "500"}, bob, pair)
		if err != nil {
			t.Fatalf("NormalizeSettlement failed: %v", err)
		}
		if rec.Kind != models.KindSettlement {
			t.Errorf("kind = %s, want settlement", rec.Kind)
		}
		if rec.Payer != bob {
			t.Errorf("payer = %s, want submitter %s", rec.Payer, bob)
		}
		if rec.Receiver != alice {
			t.Errorf("receiver = %s, want opposite side %s", rec.Receiver, alice)
		}
		if rec.Method != DefaultMethod {
			t.Errorf("method = %s, want %s", rec.Method, DefaultMethod)
		}
	})

	t.Run("payer override flips receiver", func(t *testing.T) {
		rec, err := NormalizeSettlement(SettlementSubmission{Amount: "500", Payer: alice}, bob, pair)
		if err != nil {
			t.Fatalf("NormalizeSettlement failed: %v", err)
		}
		if rec.Payer != alice || rec.Receiver != bob {
			t.Errorf("payer/receiver = %s/%s, want %s/%s", rec.Payer, rec.Receiver, alice, bob)
		}
	})

	t.Run("same-party settlement rejected", func(t *testing.T) {
		_, err := NormalizeSettlement(SettlementSubmission{Amount: "500", Payer: bob, Receiver: bob}, bob, pair)
		if !errors.Is(err, ErrSamePartySettlement) {
			t.Errorf("error = %v, want ErrSamePartySettlement", err)
		}
	})

	t.Run("outside receiver rejected", func(t *testing.T) {
		_, err := NormalizeSettlement(SettlementSubmission{Amount: "500", Receiver: "mallory@example.com"}, bob, pair)
		if !errors.Is(err, ErrUnknownParticipant) {
			t.Errorf("error = %v, want ErrUnknownParticipant", err)
		}
	})

	t.Run("invalid amount rejected", func(t *testing.T) {
		_, err := NormalizeSettlement(SettlementSubmission{Amount: "-1"}, bob, pair)
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("error = %v, want ErrInvalidAmount", err)
		}
	})
}
