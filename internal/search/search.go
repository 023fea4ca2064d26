// Package search filters a tour collection by a free-text query across the
// fields a user sees: name, description, transport label, distance and log
// comments.
//
// Matching is case-insensitive and culture-aware. The culture comes from an
// injected Locale, so "12,5" matches a distance of 12.5 under a locale whose
// decimal separator is a comma, and does not under one that uses a dot.
package search

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/Davimalu/TourPlanner-sub000/internal/tour"
)

// Index evaluates queries against tour collections. It holds no tour state.
type Index struct {
	locale Locale
}

// New creates an Index for locale. A nil locale means en-US.
func New(locale Locale) *Index {
	if locale == nil {
		locale = NewLocale(language.AmericanEnglish)
	}
	return &Index{locale: locale}
}

// Locale returns the locale the index matches with.
func (ix *Index) Locale() Locale {
	return ix.locale
}

// Search returns the tours matching query, preserving their relative order.
//
// When query is empty or whitespace-only, or tours is empty, tours itself is
// returned: callers can rely on identity to tell that no filtering happened.
func (ix *Index) Search(query string, tours []*tour.Tour) []*tour.Tour {
	if strings.TrimSpace(query) == "" || len(tours) == 0 {
		return tours
	}

	needle := ix.locale.Fold(query)
	matched := make([]*tour.Tour, 0, len(tours))
	for _, t := range tours {
		if t != nil && ix.matches(needle, t) {
			matched = append(matched, t)
		}
	}
	return matched
}

// Matches reports whether a single tour matches query. An empty query
// matches everything.
func (ix *Index) Matches(query string, t *tour.Tour) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	return ix.matches(ix.locale.Fold(query), t)
}

func (ix *Index) matches(needle string, t *tour.Tour) bool {
	if ix.contains(t.Name, needle) ||
		ix.contains(t.Description, needle) ||
		ix.contains(ix.locale.TransportLabel(t.TransportType), needle) ||
		ix.contains(ix.locale.FormatDecimal(t.Distance), needle) {
		return true
	}
	for i := range t.Logs {
		if ix.contains(t.Logs[i].Comment, needle) {
			return true
		}
	}
	return false
}

func (ix *Index) contains(field, needle string) bool {
	if field == "" {
		return false
	}
	return strings.Contains(ix.locale.Fold(field), needle)
}
