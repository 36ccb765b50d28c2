// Package refdata loads the static reference datasets: the fallback country
// list, the fallback life-expectancy table, the helpline directory and the
// built-in quotes. Defaults are embedded; each dataset can be overridden by a
// YAML file in a configured directory so tests and deployments can substitute
// their own fixtures.
package refdata

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"precioustime/internal/models"
)

//go:embed data/*.yaml
var defaults embed.FS

// lifeExpectancyRow is the YAML shape of one fallback table entry
type lifeExpectancyRow struct {
	Country string  `yaml:"country"`
	Male    float64 `yaml:"male"`
	Female  float64 `yaml:"female"`
}

// Datasets holds every static dataset the application uses
type Datasets struct {
	Countries []models.CountryEntry
	Helplines []models.HelplineEntry
	Quotes    []models.Quote

	// lifeExpectancy maps country code -> sex code -> years
	lifeExpectancy map[string]map[string]float64
}

// Load reads all datasets. When dir is non-empty, a file of the same name
// there replaces the embedded default for that dataset only.
func Load(dir string) (*Datasets, error) {
	d := &Datasets{}

	if err := loadFile(dir, "countries.yaml", &d.Countries); err != nil {
		return nil, err
	}
	if err := loadFile(dir, "helplines.yaml", &d.Helplines); err != nil {
		return nil, err
	}
	if err := loadFile(dir, "quotes.yaml", &d.Quotes); err != nil {
		return nil, err
	}

	var rows []lifeExpectancyRow
	if err := loadFile(dir, "life_expectancy.yaml", &rows); err != nil {
		return nil, err
	}

	d.lifeExpectancy = make(map[string]map[string]float64, len(rows))
	for _, row := range rows {
		if row.Country == "" {
			return nil, fmt.Errorf("life_expectancy.yaml: entry with empty country code")
		}
		d.lifeExpectancy[row.Country] = map[string]float64{
			models.SexMale:   row.Male,
			models.SexFemale: row.Female,
		}
	}

	if len(d.Countries) == 0 {
		return nil, fmt.Errorf("countries.yaml: no entries")
	}
	for _, c := range d.Countries {
		if c.Code == "" || c.Title == "" {
			return nil, fmt.Errorf("countries.yaml: entry missing code or title")
		}
	}

	return d, nil
}

// LifeExpectancy returns the fallback value for a country/sex pair, if the
// table has one.
func (d *Datasets) LifeExpectancy(countryCode, sexCode string) (float64, bool) {
	bySex, ok := d.lifeExpectancy[countryCode]
	if !ok {
		return 0, false
	}
	years, ok := bySex[sexCode]
	return years, ok
}

// CountryTitle returns the display title for a code from the fallback list
func (d *Datasets) CountryTitle(code string) (string, bool) {
	for _, c := range d.Countries {
		if c.Code == code {
			return c.Title, true
		}
	}
	return "", false
}

// loadFile unmarshals one dataset, preferring an override file when present
func loadFile(dir, name string, out interface{}) error {
	var (
		raw []byte
		err error
	)

	if dir != "" {
		path := filepath.Join(dir, name)
		raw, err = os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to read dataset %s: %w", path, err)
		}
	}
	if raw == nil {
		raw, err = defaults.ReadFile("data/" + name)
		if err != nil {
			return fmt.Errorf("failed to read embedded dataset %s: %w", name, err)
		}
	}

	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse dataset %s: %w", name, err)
	}
	return nil
}
