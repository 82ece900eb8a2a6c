package ui

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"mockup-finder/internal/fabric"
)

// FilterConfig bundles tuning parameters for filtering and search operations.
type FilterConfig struct {
	MinCoverage float64 // minimal share of the query that must match
	MaxSpread   int     // maximal distance between first and last match index
	MaxResults  int     // upper limit of returned results
}

// applyFilter narrows the visible cards to the current filter query.
func (m *Model) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.filter.query))
	m.cursor.card = 0
	if q == "" {
		m.filter.filteredIdx = nil
		return
	}
	base := cardSearchText(m.sess.Records)
	idx := make([]int, len(base))
	for i := range idx {
		idx[i] = i
	}

	// substring first, it is more predictable for reference numbers
	if sub := filterBySubstring(q, base, idx, m.filterCfg); len(sub) > 0 {
		m.filter.filteredIdx = sub
		return
	}
	m.filter.filteredIdx = filterByFuzzy(q, base, idx, m.filterCfg)
}

// cardSearchText builds the lowercase text a card is matched against.
func cardSearchText(recs []fabric.Record) []string {
	base := make([]string, len(recs))
	for i, r := range recs {
		parts := []string{r.Ref, r.Style}
		for _, c := range r.Mockups.Available() {
			for _, it := range r.Mockups.Items(c) {
				parts = append(parts, it.GarmentName)
			}
		}
		base[i] = strings.ToLower(strings.Join(parts, "  "))
	}
	return base
}

// filterBySubstring performs a simple substring check against the prepared base
// list and returns matching indices limited by cfg.MaxResults.
func filterBySubstring(q string, base []string, idx []int, cfg FilterConfig) []int {
	sub := make([]int, 0, min(cfg.MaxResults, len(idx)))
	for _, i := range idx {
		if strings.Contains(base[i], q) {
			sub = append(sub, i)
			if len(sub) >= cfg.MaxResults {
				break
			}
		}
	}
	return sub
}

// filterByFuzzy applies fuzzy matching on the subset defined by idx and
// filters results based on coverage and spread thresholds from cfg.
func filterByFuzzy(q string, base []string, idx []int, cfg FilterConfig) []int {
	subset := make([]string, len(idx))
	mapBack := make([]int, len(idx))
	for j, i := range idx {
		subset[j] = base[i]
		mapBack[j] = i
	}
	matches := fuzzy.Find(q, subset)

	pruned := make([]int, 0, len(matches))
	for _, mt := range matches {
		if matchCoverage(q, mt) < cfg.MinCoverage {
			continue
		}
		if matchSpread(mt) > cfg.MaxSpread {
			continue
		}
		pruned = append(pruned, mapBack[mt.Index])
		if len(pruned) >= cfg.MaxResults {
			break
		}
	}
	if len(pruned) == 0 {
		for i := 0; i < len(matches) && i < cfg.MaxResults; i++ {
			pruned = append(pruned, mapBack[matches[i].Index])
		}
	}
	return pruned
}

// matchCoverage returns the ratio of matched characters to the query length.
func matchCoverage(q string, m fuzzy.Match) float64 {
	if len(q) == 0 {
		return 1
	}
	return float64(len(m.MatchedIndexes)) / float64(len(q))
}

// matchSpread returns the distance between the first and last matched index.
func matchSpread(m fuzzy.Match) int {
	if len(m.MatchedIndexes) == 0 {
		return 0
	}
	return m.MatchedIndexes[len(m.MatchedIndexes)-1] - m.MatchedIndexes[0]
}
