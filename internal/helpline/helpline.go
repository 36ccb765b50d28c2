// Package helpline exposes the static crisis-helpline directory shown in
// the help overlay. Data is loaded once from refdata and read-only at
// runtime; filtering never touches the network.
package helpline

import (
	"sort"
	"strings"

	"precioustime/internal/models"
)

// Directory is a filterable view over the helpline table
type Directory struct {
	entries []models.HelplineEntry
}

// NewDirectory wraps the static entries
func NewDirectory(entries []models.HelplineEntry) *Directory {
	return &Directory{entries: entries}
}

// Regions lists the region buckets in alphabetical order
func (d *Directory) Regions() []string {
	seen := make(map[string]bool)
	var regions []string
	for _, e := range d.entries {
		if !seen[e.Region] {
			seen[e.Region] = true
			regions = append(regions, e.Region)
		}
	}
	sort.Strings(regions)
	return regions
}

// Filter returns, per region bucket, the entries whose country name or phone
// number contains the query, case-insensitively. An empty query returns the
// whole directory.
func (d *Directory) Filter(query string) map[string][]models.HelplineEntry {
	query = strings.ToLower(strings.TrimSpace(query))

	buckets := make(map[string][]models.HelplineEntry)
	for _, e := range d.entries {
		if query != "" &&
			!strings.Contains(strings.ToLower(e.CountryName), query) &&
			!strings.Contains(strings.ToLower(e.PhoneNumber), query) {
			continue
		}
		buckets[e.Region] = append(buckets[e.Region], e)
	}
	return buckets
}
