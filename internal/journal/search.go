package journal

import (
	"context"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// minSearchScore drops matches that are clearly a different title.
const minSearchScore = 0.70

// Match pairs a journal entry with its title similarity score.
type Match struct {
	Entry Entry
	Score float64
}

// SearchByTitle finds past conversions whose recorded title fuzzily
// matches query, best matches first. Jaro-Winkler favors shared prefixes,
// which suits media titles.
func (s *Store) SearchByTitle(ctx context.Context, query string, limit int) ([]Match, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, output, mode, status, title, duration_secs, finished_at
		FROM conversions
		ORDER BY finished_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}

	normQuery := normalizeTitle(query)
	var matches []Match
	for _, e := range entries {
		score := float64(edlib.JaroWinklerSimilarity(normQuery, normalizeTitle(e.Title)))
		if score >= minSearchScore {
			matches = append(matches, Match{Entry: e, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func normalizeTitle(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
