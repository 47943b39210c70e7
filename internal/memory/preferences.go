package memory

import (
	"strings"

	"github.com/wayfare/wayfare/internal/domain"
)

// Budget lexicons. The budget family is checked before the luxury family, so
// a message matching both ends up as "luxury" (last checked wins). The order
// is fixed to keep extraction deterministic.
var (
	budgetKeywords = []string{"budget", "cheap", "affordable"}
	luxuryKeywords = []string{"expensive", "luxury"}
)

// interestLexicon maps interest tags to their trigger keywords. The slice
// order fixes the order in which tags accumulate.
var interestLexicon = []struct {
	tag      string
	keywords []string
}{
	{"adventure", []string{"adventure", "hiking", "climbing", "extreme"}},
	{"culture", []string{"culture", "museum", "history", "heritage"}},
	{"food", []string{"food", "cuisine", "restaurant", "eating"}},
	{"beach", []string{"beach", "ocean", "swimming", "resort"}},
	{"city", []string{"city", "urban", "shopping", "nightlife"}},
	{"nature", []string{"nature", "wildlife", "national park", "scenic"}},
}

// Enrich folds signals from a user message into the preference set. It is a
// pure function of (current preferences, message text): no external calls,
// safe to invoke once per inbound user message, and idempotent for the
// interest set (union) as well as for budget style (overwrite).
func Enrich(prefs *domain.Preferences, text string) {
	lower := strings.ToLower(text)

	if containsAny(lower, budgetKeywords) {
		prefs.BudgetStyle = "budget-friendly"
	}
	if containsAny(lower, luxuryKeywords) {
		prefs.BudgetStyle = "luxury"
	}

	for _, entry := range interestLexicon {
		if containsAny(lower, entry.keywords) {
			prefs.AddInterest(entry.tag)
		}
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
