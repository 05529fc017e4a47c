package catalog

import "feria-storefront/models"

// PavilionFacet annotates one pavilion filter option.
type PavilionFacet struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TechniqueCounts computes a frequency map of technique names over the
// accumulated (pre-refinement) rows. Counts reflect only the rows fetched so
// far, not the server's global totals, and grow as more pages load.
func TechniqueCounts(rows []models.ArtworkRow) map[string]int {
	counts := make(map[string]int)
	for _, row := range rows {
		if row.TechniqueInfo == nil || row.TechniqueInfo.Name == "" {
			continue
		}
		counts[row.TechniqueInfo.Name]++
	}
	return counts
}

// PavilionCounts computes a pavilion id -> {name, count} map over the
// accumulated rows. Approximate for the same reason as TechniqueCounts.
func PavilionCounts(rows []models.ArtworkRow) map[string]PavilionFacet {
	counts := make(map[string]PavilionFacet)
	for _, row := range rows {
		if row.PavilionInfo == nil || row.PavilionInfo.ID == "" {
			continue
		}
		f := counts[row.PavilionInfo.ID]
		f.Count++
		if f.Name == "" {
			f.Name = row.PavilionInfo.Name
		}
		counts[row.PavilionInfo.ID] = f
	}
	return counts
}
