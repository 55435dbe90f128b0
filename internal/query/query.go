// Package query filters, searches and sorts an activity collection in memory.
package query

import (
	"slices"
	"strings"

	"github.com/Shivanand-hulikatti/activity-signup/internal/model"
)

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	SortNone SortKey = ""
	SortName SortKey = "name"
	SortDate SortKey = "date"
)

// ParseSortKey maps a raw query value to a SortKey. Unrecognised values
// yield SortNone, which keeps the filtered order.
func ParseSortKey(raw string) SortKey {
	switch SortKey(raw) {
	case SortName:
		return SortName
	case SortDate:
		return SortDate
	default:
		return SortNone
	}
}

// Params are the optional list criteria. Empty strings mean "not supplied".
type Params struct {
	Category string
	Search   string
	Sort     SortKey
}

// Apply runs category filter, free-text search and sort, in that order.
// The input slice is not modified.
func Apply(activities []model.Activity, p Params) []model.Activity {
	out := make([]model.Activity, 0, len(activities))
	for _, a := range activities {
		if p.Category != "" && !MatchesCategory(a, p.Category) {
			continue
		}
		if p.Search != "" && !MatchesSearch(a, p.Search) {
			continue
		}
		out = append(out, a)
	}

	switch p.Sort {
	case SortName:
		slices.SortStableFunc(out, func(a, b model.Activity) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	case SortDate:
		slices.SortStableFunc(out, func(a, b model.Activity) int {
			return strings.Compare(a.DateValue(), b.DateValue())
		})
	}
	return out
}

// MatchesCategory reports a case-insensitive category match.
// Activities without a category never match.
func MatchesCategory(a model.Activity, category string) bool {
	if a.Category == nil {
		return false
	}
	return strings.EqualFold(*a.Category, category)
}

// MatchesSearch reports whether search occurs, ignoring case, in the name or
// the description.
func MatchesSearch(a model.Activity, search string) bool {
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(a.Name), needle) ||
		strings.Contains(strings.ToLower(a.DescriptionValue()), needle)
}
