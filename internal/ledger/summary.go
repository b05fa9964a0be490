package ledger

import (
	"sort"
	"time"

	"pairbook/internal/models"
)

// CategoryTotal is the spend accumulated under one category name.
// The name may be orphaned (its category deleted); it is reported as-is.
type CategoryTotal struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Total int64  `json:"total"`
}

// Summary is the derived overview of one record snapshot, typically a month:
// grand total, per-category breakdown, budget gauge, and the set of days
// that have at least one expense (for the calendar view).
type Summary struct {
	Total      int64           `json:"total"`
	ByCategory []CategoryTotal `json:"by_category"`

	// Budget is the configured monthly target; zero hides the gauge.
	Budget          int64 `json:"budget"`
	BudgetRemaining int64 `json:"budget_remaining"`
	BudgetPercent   int   `json:"budget_percent"`

	// ActiveDays lists days with expenses as "2006-01-02" strings.
	ActiveDays []string `json:"active_days"`
}

// Summarize builds a Summary over the given records. Settlements move money
// between the pair without being household spend, so they are excluded from
// all totals. Category icons are looked up in the configured list; orphaned
// names get the fallback icon.
func Summarize(records []*models.Record, categories []models.Category, budget int64) *Summary {
	icons := make(map[string]string, len(categories))
	order := make(map[string]int, len(categories))
	for i, c := range categories {
		icons[c.Name] = c.Icon
		order[c.Name] = i
	}

	totals := make(map[string]int64)
	days := make(map[string]struct{})
	var grand int64

	for _, rec := range records {
		if rec.Kind != models.KindExpense {
			continue
		}
		grand += rec.Amount
		totals[rec.Category] += rec.Amount
		days[time.Unix(rec.Date, 0).UTC().Format("2006-01-02")] = struct{}{}
	}

	sum := &Summary{
		Total:           grand,
		ByCategory:      make([]CategoryTotal, 0, len(totals)),
		Budget:          budget,
		BudgetRemaining: budget - grand,
		ActiveDays:      make([]string, 0, len(days)),
	}
	if budget > 0 {
		pct := int(grand * 100 / budget)
		if pct > 100 {
			pct = 100
		}
		sum.BudgetPercent = pct
	}

	for name, total := range totals {
		icon, ok := icons[name]
		if !ok {
			icon = models.FallbackIcon
		}
		sum.ByCategory = append(sum.ByCategory, CategoryTotal{Name: name, Icon: icon, Total: total})
	}
	// Configured order first, orphaned names after, alphabetical within.
	sort.Slice(sum.ByCategory, func(i, j int) bool {
		a, b := sum.ByCategory[i], sum.ByCategory[j]
		ai, aok := order[a.Name]
		bi, bok := order[b.Name]
		if aok != bok {
			return aok
		}
		if aok && bok && ai != bi {
			return ai < bi
		}
		return a.Name < b.Name
	})

	for day := range days {
		sum.ActiveDays = append(sum.ActiveDays, day)
	}
	sort.Strings(sum.ActiveDays)

	return sum
}
