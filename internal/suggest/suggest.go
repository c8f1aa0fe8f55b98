// Package suggest derives autocomplete entries from a report and filters them
// against typed input.
package suggest

import (
	"strings"
	"unicode/utf8"

	"cinemetrics/internal/report"
)

type Kind string

const (
	KindMovie  Kind = "Movie"
	KindGenre  Kind = "Genre"
	KindRegion Kind = "Region"
)

type Suggestion struct {
	Label string `json:"label"`
	Kind  Kind   `json:"kind"`
}

const (
	// MinQueryLength is the shortest input that produces suggestions.
	MinQueryLength = 2
	// MaxResults caps a filtered list.
	MaxResults = 10
)

// BuildIndex lists movies, then genres, then regions from r. Labels that are
// equal ignoring case keep only their first occurrence, so a movie wins over
// a genre or region with the same name. A nil report yields an empty index.
func BuildIndex(r *report.Report) []Suggestion {
	if r == nil {
		return []Suggestion{}
	}
	out := make([]Suggestion, 0, len(r.TrendingMovies)+len(r.TopGenres)+len(r.RegionalRevenue))
	seen := make(map[string]struct{}, cap(out))
	add := func(label string, kind Kind) {
		key := strings.ToLower(label)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, Suggestion{Label: label, Kind: kind})
	}
	for _, m := range r.TrendingMovies {
		add(m.Title, KindMovie)
	}
	for _, g := range r.TopGenres {
		add(g.Name, KindGenre)
	}
	for _, reg := range r.RegionalRevenue {
		add(reg.Region, KindRegion)
	}
	return out
}

// Filter returns at most MaxResults entries of index whose label contains
// query, ignoring case, in index order. Queries shorter than MinQueryLength
// characters (untrimmed) return nothing.
func Filter(index []Suggestion, query string) []Suggestion {
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []Suggestion{}
	}
	q := strings.ToLower(query)
	out := make([]Suggestion, 0, MaxResults)
	for _, s := range index {
		if !strings.Contains(strings.ToLower(s.Label), q) {
			continue
		}
		out = append(out, s)
		if len(out) == MaxResults {
			break
		}
	}
	return out
}
