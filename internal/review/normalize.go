package review

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

const (
	defaultScore  = 70
	defaultStatus = "fresh"
	defaultLabel  = "Pending review"
	defaultAdvice = "Update the content as needed."
)

const (
	maxLabel       = 20
	maxSuggestions = 500
	maxCategory    = 50
	maxContent     = 2000
	maxTitle       = 200
)

var statuses = map[string]bool{
	"unclear":      true,
	"outdated":     true,
	"needs-update": true,
	"fresh":        true,
	"perfect":      true,
}

// Result is the advisory verdict returned to callers. The suggestion fields
// are always present in JSON, null when there is no suggestion.
type Result struct {
	CategoryScore      int     `json:"categoryScore"`
	ContentStatus      string  `json:"contentStatus"`
	ContentStatusLabel string  `json:"contentStatusLabel"`
	Suggestions        string  `json:"suggestions"`
	ShouldUpdate       bool    `json:"shouldUpdate"`
	SuggestedCategory  *string `json:"suggestedCategory"`
	SuggestedContent   *string `json:"suggestedContent"`
	SuggestedTitle     *string `json:"suggestedTitle"`
}

// Normalize coerces a loosely typed payload into a Result with every field
// clamped to its allowed range.
func Normalize(raw map[string]any) Result {
	r := Result{
		CategoryScore:      score(raw["categoryScore"]),
		ContentStatus:      defaultStatus,
		ContentStatusLabel: truncate(nonEmpty(raw["contentStatusLabel"], defaultLabel), maxLabel),
		Suggestions:        truncate(nonEmpty(raw["suggestions"], defaultAdvice), maxSuggestions),
		ShouldUpdate:       truthy(raw["shouldUpdate"]),
		SuggestedCategory:  suggestion(raw["suggestedCategory"], maxCategory),
		SuggestedContent:   suggestion(raw["suggestedContent"], maxContent),
		SuggestedTitle:     suggestion(raw["suggestedTitle"], maxTitle),
	}
	if s, ok := raw["contentStatus"].(string); ok && statuses[s] {
		r.ContentStatus = s
	}
	return r
}

// score accepts numbers and numeric prefixes of strings ("85 points").
// Anything unparseable becomes the default; an explicit 0 stays 0.
func score(v any) int {
	var (
		n  int
		ok bool
	)
	switch x := v.(type) {
	case float64:
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			n, ok = int(math.Max(math.Min(x, 1e6), -1e6)), true
		}
	case int:
		n, ok = x, true
	case string:
		n, ok = leadingInt(x)
	}
	if !ok {
		return defaultScore
	}
	return max(0, min(100, n))
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' && end-digits < 9 {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	default:
		return true
	}
}

func nonEmpty(v any, def string) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return def
}

func suggestion(v any, limit int) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = truncate(strings.TrimSpace(s), limit)
	if s == "" {
		return nil
	}
	return &s
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
