package models

// FallbackCategory receives expenses submitted with no category when the
// configured list is empty. Matches the original household-ledger default.
const FallbackCategory = "その他"

// FallbackIcon is rendered for records whose category has been deleted.
const FallbackIcon = "🐈"

// Category is a lightweight, user-editable expense grouping.
// Deleting a category does not touch historical records; they keep the
// orphaned name and render with FallbackIcon.
type Category struct {
	// Name is the display name and the identity of the category.
	Name string `json:"name"`

	// Icon is a single emoji shown in pickers and history rows.
	Icon string `json:"icon"`

	// Position is the sort order within the configured list.
	Position int `json:"position"`
}

// DefaultCategories is the list seeded into a fresh ledger.
func DefaultCategories() []Category {
	return []Category{
		{Name: "食費", Icon: "🍚", Position: 0},
		{Name: "日用品", Icon: "🧻", Position: 1},
		{Name: "家賃・光熱費", Icon: "🏠", Position: 2},
		{Name: "デート・外食", Icon: "🍽️", Position: 3},
		{Name: "趣味・娯楽", Icon: "🎮", Position: 4},
		{Name: FallbackCategory, Icon: "✨", Position: 5},
	}
}
