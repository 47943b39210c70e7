// Package structured turns free-form generated text into an ordered
// category/item structure and serializes it into the wire frame clients
// render. The parser is deliberately lenient: generated text is adversarial
// input, so any line that doesn't fit the grammar degrades to a best-effort
// item or is dropped. There is no error path.
package structured

import (
	"regexp"
	"strings"
)

// Wire frame sentinels.
const (
	FrameStart  = "STRUCTURED_DATA_START"
	FrameEnd    = "STRUCTURED_DATA_END"
	CategoryEnd = "CATEGORY_END"
	categoryTag = "CATEGORY:"
	itemTag     = "ITEM:"
)

// EmptyFallback is emitted instead of an empty frame when nothing could be
// categorized.
const EmptyFallback = "I can help you with travel planning! What would you like to know?"

var (
	// A category header is a line of uppercase letters, spaces and '&',
	// optionally ending with a colon. Short all-caps sentences also match;
	// that leniency is intentional.
	headerRe = regexp.MustCompile(`^[A-Z][A-Z\s&]+:?$`)

	// An item is an optionally bulleted "name - description" line.
	itemRe = regexp.MustCompile(`^[•\-*]?\s*(.+)\s*-\s*(.+)$`)
)

// Item is a single named entry within a category.
type Item struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Category is a named, ordered bucket of items.
type Category struct {
	Name  string
	Items []Item
}

// Response is the ordered category mapping built from one generated reply.
// It is constructed once per turn and never mutated afterwards.
type Response struct {
	Categories []Category
}

// Empty reports whether no category was recognized.
func (r *Response) Empty() bool {
	return len(r.Categories) == 0
}

// Parse splits raw generated text into categories and items. Lines seen
// before the first header are dropped; a header with no items still appears
// as an empty category.
func Parse(raw string) *Response {
	resp := &Response{}
	current := -1

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if headerRe.MatchString(line) {
			name := strings.TrimSuffix(line, ":")
			resp.Categories = append(resp.Categories, Category{Name: name})
			current = len(resp.Categories) - 1
			continue
		}

		if current < 0 {
			continue
		}

		if m := itemRe.FindStringSubmatch(line); m != nil {
			resp.Categories[current].Items = append(resp.Categories[current].Items, Item{
				Name:        strings.TrimSpace(m[1]),
				Description: strings.TrimSpace(m[2]),
			})
			continue
		}

		// Fallback: split on the first " - ", or take the whole line as a
		// nameless-description item.
		if name, desc, ok := strings.Cut(line, " - "); ok {
			resp.Categories[current].Items = append(resp.Categories[current].Items, Item{
				Name:        strings.TrimSpace(name),
				Description: strings.TrimSpace(desc),
			})
		} else {
			resp.Categories[current].Items = append(resp.Categories[current].Items, Item{Name: line})
		}
	}

	return resp
}

// Format serializes a parsed response into the wire frame. Categories with
// zero items are omitted; an empty mapping yields EmptyFallback instead of
// an empty frame. Output is byte-identical across calls for the same input.
func Format(resp *Response) string {
	var kept []Category
	for _, cat := range resp.Categories {
		if len(cat.Items) > 0 {
			kept = append(kept, cat)
		}
	}
	if len(kept) == 0 {
		return EmptyFallback
	}

	var b strings.Builder
	b.WriteString(FrameStart + "\n")
	for _, cat := range kept {
		b.WriteString(categoryTag + cat.Name + "\n")
		for _, item := range cat.Items {
			b.WriteString(itemTag + item.Name + "|" + item.Description + "\n")
		}
		b.WriteString(CategoryEnd + "\n")
	}
	b.WriteString(FrameEnd)
	return b.String()
}
