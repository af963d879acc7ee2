package core

import "strings"

// CategoryOption is one entry of the category picker for a transaction type.
type CategoryOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var categoryLabels = map[TransactionType][]string{
	Income:  {"Salary", "Freelance", "Investment", "Other Income"},
	Expense: {"Housing", "Food", "Transportation", "Entertainment", "Healthcare", "Utilities", "Shopping", "Other"},
	Bill:    {"Internet", "Phone", "Electricity", "Water", "Gas", "Insurance", "Subscription"},
	Debt:    {"Student Loan", "Credit Card", "Mortgage", "Personal Loan"},
}

// CategoryOptions returns the picker entries for t; unknown types have none.
func CategoryOptions(t TransactionType) []CategoryOption {
	labels := categoryLabels[t]
	out := make([]CategoryOption, 0, len(labels))
	for _, l := range labels {
		out = append(out, CategoryOption{Value: CategoryValue(l), Label: l})
	}
	return out
}

// CategoryValue normalises a label into the stored category key.
// Only the first space becomes an underscore.
func CategoryValue(label string) string {
	return strings.Replace(strings.ToLower(label), " ", "_", 1)
}

// CategoryTitle capitalises the first letter of a stored category for display.
func CategoryTitle(category string) string {
	if category == "" {
		return ""
	}
	return strings.ToUpper(category[:1]) + category[1:]
}
