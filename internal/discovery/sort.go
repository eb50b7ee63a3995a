package discovery

import (
	"sort"
	"time"
)

// sortResults orders scored results in place according to the requested
// strategy. The sort is stable, so results that compare equal keep their
// scoring order; this matters for the distance strategy, where results
// without a distance fall back to score and must not shuffle.
func sortResults[T any](results []SearchResult[T], by SortBy, createdAt func(T) time.Time, popularity func(T) int) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]

		switch by {
		case SortDistance:
			if a.DistanceKm != nil && b.DistanceKm != nil {
				return *a.DistanceKm < *b.DistanceKm
			}
			return a.Score > b.Score
		case SortNewest:
			return createdAt(a.Item).After(createdAt(b.Item))
		case SortPopular:
			return popularity(a.Item) > popularity(b.Item)
		default:
			// Relevance and Recommended both order by score; the
			// recommendation bias is already baked into the score.
			return a.Score > b.Score
		}
	})
}
