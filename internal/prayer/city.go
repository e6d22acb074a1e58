package prayer

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// City is a configured location. Its position in the configured list only
// decides display order.
type City struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

func (c City) String() string {
	return c.Name + ", " + c.Country
}

// SameName reports whether two city names match, ignoring case.
func SameName(a, b string) bool {
	// A Caser is stateful, so each comparison gets its own.
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(a)) == fold.String(strings.TrimSpace(b))
}

// FindCity looks up name in cities, ignoring case.
func FindCity(cities []City, name string) (City, bool) {
	for _, c := range cities {
		if SameName(c.Name, name) {
			return c, true
		}
	}
	return City{}, false
}

// ParseCities parses "Name:Country,Name:Country". An entry without a country
// uses defaultCountry.
func ParseCities(s, defaultCountry string) ([]City, error) {
	var out []City
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, country, found := strings.Cut(part, ":")
		name = strings.TrimSpace(name)
		country = strings.TrimSpace(country)
		if !found || country == "" {
			country = defaultCountry
		}
		if name == "" || country == "" {
			return nil, fmt.Errorf("invalid city entry %q: want Name:Country", part)
		}
		out = append(out, City{Name: name, Country: country})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no cities in %q", s)
	}
	return out, nil
}

// FormatCities is the inverse of ParseCities.
func FormatCities(cities []City) string {
	parts := make([]string, len(cities))
	for i, c := range cities {
		parts[i] = c.Name + ":" + c.Country
	}
	return strings.Join(parts, ",")
}
