package catalog

import "feria-storefront/models"

// PlaceholderImage substitutes for artworks the catalog returns without any
// image.
const PlaceholderImage = "/images/artwork-placeholder.png"

// HasImage reports whether the row carries a non-empty primary image or a
// non-empty image array.
func HasImage(row models.ArtworkRow) bool {
	if row.Image != "" {
		return true
	}
	for _, u := range row.Images {
		if u != "" {
			return true
		}
	}
	return false
}

// NormalizeImages flattens the heterogeneous upstream image shape (single
// URL, URL array, or absent) into a non-empty ordered list, so downstream
// code never branches on shape again. The primary image comes first; rows
// without any image get the placeholder.
func NormalizeImages(row models.ArtworkRow) []string {
	out := make([]string, 0, len(row.Images)+1)
	if row.Image != "" {
		out = append(out, row.Image)
	}
	for _, u := range row.Images {
		if u == "" || u == row.Image {
			continue
		}
		out = append(out, u)
	}
	if len(out) == 0 {
		return []string{PlaceholderImage}
	}
	return out
}
