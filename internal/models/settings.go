package models

// Settings holds household-wide preferences shared by both participants.
type Settings struct {
	// MonthlyBudget is the spending target in yen for a calendar month.
	// Zero means no budget is set and the budget gauge is hidden.
	MonthlyBudget int64 `json:"monthly_budget"`
}
