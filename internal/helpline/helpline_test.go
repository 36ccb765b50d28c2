package helpline

import (
	"testing"

	"precioustime/internal/models"
)

func testDirectory() *Directory {
	return NewDirectory([]models.HelplineEntry{
		{CountryName: "United States of America", PhoneNumber: "988", Region: "Americas"},
		{CountryName: "Canada", PhoneNumber: "1-833-456-4566", Region: "Americas"},
		{CountryName: "United Kingdom", PhoneNumber: "116 123", Region: "Europe"},
		{CountryName: "Ireland", PhoneNumber: "116 123", Region: "Europe"},
		{CountryName: "Japan", PhoneNumber: "0570-783-556", Region: "Asia"},
	})
}

func TestFilterEmptyQueryReturnsEverything(t *testing.T) {
	buckets := testDirectory().Filter("")

	if len(buckets) != 3 {
		t.Fatalf("got %d regions, want 3", len(buckets))
	}
	if len(buckets["Americas"]) != 2 || len(buckets["Europe"]) != 2 || len(buckets["Asia"]) != 1 {
		t.Errorf("bucket sizes = %v", buckets)
	}
}

func TestFilterMatching(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantRegions map[string]int
	}{
		{name: "name case-insensitive", query: "united", wantRegions: map[string]int{"Americas": 1, "Europe": 1}},
		{name: "uppercase query", query: "CANADA", wantRegions: map[string]int{"Americas": 1}},
		{name: "number substring", query: "116 123", wantRegions: map[string]int{"Europe": 2}},
		{name: "partial number", query: "988", wantRegions: map[string]int{"Americas": 1}},
		{name: "no match", query: "zz-none", wantRegions: map[string]int{}},
		{name: "surrounding whitespace trimmed", query: "  japan  ", wantRegions: map[string]int{"Asia": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buckets := testDirectory().Filter(tt.query)

			if len(buckets) != len(tt.wantRegions) {
				t.Fatalf("got regions %v, want %v", buckets, tt.wantRegions)
			}
			for region, want := range tt.wantRegions {
				if got := len(buckets[region]); got != want {
					t.Errorf("region %s: %d entries, want %d", region, got, want)
				}
			}
		})
	}
}

func TestRegionsSorted(t *testing.T) {
	regions := testDirectory().Regions()

	want := []string{"Americas", "Asia", "Europe"}
	if len(regions) != len(want) {
		t.Fatalf("regions = %v", regions)
	}
	for i := range want {
		if regions[i] != want[i] {
			t.Errorf("regions[%d] = %s, want %s", i, regions[i], want[i])
		}
	}
}
