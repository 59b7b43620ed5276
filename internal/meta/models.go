// Package meta carries the curated model catalog the application works
// with. Only supported text models appear here, ordered by size.
package meta

import "strings"

// CatalogEntry describes one model from the curated library.
type CatalogEntry struct {
	Name        string
	Family      string
	Description string
	Size        string
	Date        string
}

// Catalog returns the curated model library.
func Catalog() []CatalogEntry {
	return []CatalogEntry{
		{
			Name:        "qwen3:4b",
			Family:      "qwen",
			Description: "通义千问3 (4B)",
			Size:        "2.5GB",
			Date:        "2025-01",
		},
		{
			Name:        "qwen3:8b",
			Family:      "qwen",
			Description: "通义千问3 (8B)",
			Size:        "5GB",
			Date:        "2025-01",
		},
	}
}

// Lookup finds a catalog entry by its model tag.
func Lookup(name string) (CatalogEntry, bool) {
	for _, entry := range Catalog() {
		if strings.EqualFold(entry.Name, name) {
			return entry, true
		}
	}
	return CatalogEntry{}, false
}

// Installed reports whether the entry appears in the service's tag list.
func (e CatalogEntry) Installed(tags []string) bool {
	for _, tag := range tags {
		if strings.EqualFold(tag, e.Name) {
			return true
		}
	}
	return false
}
