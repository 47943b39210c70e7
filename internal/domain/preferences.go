package domain

import (
	"strings"
)

// Preferences holds travel preferences extracted from a session's user
// messages. Interests only ever grow within a session; BudgetStyle is
// overwritten by the most recent matching message.
type Preferences struct {
	BudgetStyle string   `json:"budget_style,omitempty"`
	Interests   []string `json:"interests,omitempty"`
}

// AddInterest records an interest tag, keeping the set deduplicated in
// first-seen order.
func (p *Preferences) AddInterest(tag string) {
	for _, existing := range p.Interests {
		if existing == tag {
			return
		}
	}
	p.Interests = append(p.Interests, tag)
}

// IsZero reports whether no preferences have been extracted yet.
func (p Preferences) IsZero() bool {
	return p.BudgetStyle == "" && len(p.Interests) == 0
}

// Describe renders the preferences for context summaries, e.g.
// "Budget: luxury; Interests: food, culture".
func (p Preferences) Describe() string {
	var parts []string
	if p.BudgetStyle != "" {
		parts = append(parts, "Budget: "+p.BudgetStyle)
	}
	if len(p.Interests) > 0 {
		parts = append(parts, "Interests: "+strings.Join(p.Interests, ", "))
	}
	return strings.Join(parts, "; ")
}

// Clone returns an independent copy so callers cannot mutate a session's
// stored preference state through the returned value.
func (p Preferences) Clone() Preferences {
	out := Preferences{BudgetStyle: p.BudgetStyle}
	if len(p.Interests) > 0 {
		out.Interests = append([]string(nil), p.Interests...)
	}
	return out
}
