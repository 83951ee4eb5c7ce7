package catalog

import (
	"sort"
	"strings"
)

// SortMode selects the ordering of the visible list.
type SortMode string

const (
	SortDefault       SortMode = "default"   // copies + favorites, descending
	SortNewest        SortMode = "newest"    // id, descending
	SortMostCopied    SortMode = "copies"    // copies, descending
	SortMostFavorited SortMode = "favorites" // favorites, descending
)

// SortModes lists the cycle order used by the UI.
var SortModes = []SortMode{SortDefault, SortNewest, SortMostCopied, SortMostFavorited}

// Label returns a human-readable name for the sort mode.
func (m SortMode) Label() string {
	switch m {
	case SortNewest:
		return "Сначала новые"
	case SortMostCopied:
		return "По копированиям"
	case SortMostFavorited:
		return "По избранному"
	default:
		return "По популярности"
	}
}

// Filter holds the active view restrictions. Exactly one Filter exists per
// session; it is mutated only by explicit user intent and never persisted.
type Filter struct {
	Categories    map[string]struct{}
	Query         string
	Sort          SortMode
	FavoritesOnly bool
}

// NewFilter returns the unrestricted filter ({все}, empty query, default sort).
func NewFilter() Filter {
	return Filter{
		Categories: map[string]struct{}{CategoryAll: {}},
		Sort:       SortDefault,
	}
}

// SelectCategory replaces the active category set with a single category,
// matching the one-active-tab behavior of the UI.
func (f *Filter) SelectCategory(category string) {
	f.Categories = map[string]struct{}{category: {}}
}

// onlyAll reports whether the category set is exactly {все}.
func (f Filter) onlyAll() bool {
	_, has := f.Categories[CategoryAll]
	return has && len(f.Categories) == 1
}

// Visible applies the filter pipeline to the full prompt set and returns the
// ordered visible subset: favorites-only, category membership, case-folded
// substring search over title/description/tags, then a stable sort by the
// active mode. The input slice is never mutated.
func Visible(prompts []*Prompt, favorites map[int]struct{}, f Filter) []*Prompt {
	filtered := make([]*Prompt, 0, len(prompts))
	filtered = append(filtered, prompts...)

	if f.FavoritesOnly {
		filtered = keep(filtered, func(p *Prompt) bool {
			_, ok := favorites[p.ID]
			return ok
		})
	}

	if !f.onlyAll() {
		categories := make(map[string]struct{}, len(f.Categories))
		for c := range f.Categories {
			if c != CategoryAll {
				categories[c] = struct{}{}
			}
		}
		if len(categories) > 0 {
			filtered = keep(filtered, func(p *Prompt) bool {
				_, ok := categories[p.Category]
				return ok
			})
		}
	}

	if f.Query != "" {
		query := strings.ToLower(f.Query)
		filtered = keep(filtered, func(p *Prompt) bool {
			return matchesQuery(p, query)
		})
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return sortLess(filtered[i], filtered[j], f.Sort)
	})

	return filtered
}

// Categories returns все followed by the distinct prompt categories in
// first-appearance order, for rendering the filter tabs.
func Categories(prompts []*Prompt) []string {
	out := []string{CategoryAll}
	seen := map[string]struct{}{CategoryAll: {}}
	for _, p := range prompts {
		if _, ok := seen[p.Category]; !ok {
			seen[p.Category] = struct{}{}
			out = append(out, p.Category)
		}
	}
	return out
}

func keep(prompts []*Prompt, pred func(*Prompt) bool) []*Prompt {
	out := prompts[:0]
	for _, p := range prompts {
		if pred(p) {
			out = append(out, p)
		}
	}
	return out
}

func matchesQuery(p *Prompt, query string) bool {
	if strings.Contains(strings.ToLower(p.Title), query) ||
		strings.Contains(strings.ToLower(p.Description), query) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func sortLess(a, b *Prompt, mode SortMode) bool {
	switch mode {
	case SortNewest:
		return a.ID > b.ID
	case SortMostCopied:
		return a.Copies > b.Copies
	case SortMostFavorited:
		return a.Favorites > b.Favorites
	default:
		return a.Copies+a.Favorites > b.Copies+b.Favorites
	}
}
