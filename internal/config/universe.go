package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Universe is the immutable currency -> country -> region lookup for one run.
type Universe struct {
	currencies map[string]string // 3-letter currency -> ISO-3 country
	regions    map[string]string // ISO-3 country -> region
}

type universeFile struct {
	Regions map[string]struct {
		Countries []string `yaml:"countries"`
	} `yaml:"regions"`
	Currencies map[string]string `yaml:"currencies"`
}

// ReferenceCurrencies is the built-in currency to country table.
var ReferenceCurrencies = map[string]string{
	"IDR": "IDN",
	"MYR": "MYS",
	"THB": "THA",
	"CNY": "CHN",
	"INR": "IND",
	"MXN": "MEX",
	"BRL": "BRA",
	"COP": "COL",
	"CLP": "CHL",
	"PEN": "PER",
	"ZAR": "ZAF",
	"PLN": "POL",
	"HUF": "HUN",
	"TRY": "TUR",
	"CZK": "CZE",
	"EGP": "EGY",
	"ROU": "ROU",
}

// NewUniverse copies the given tables into an immutable Universe.
func NewUniverse(currencies map[string]string, regions map[string][]string) *Universe {
	u := &Universe{
		currencies: make(map[string]string, len(currencies)),
		regions:    make(map[string]string),
	}
	for ccy, country := range currencies {
		u.currencies[strings.ToUpper(ccy)] = strings.ToUpper(country)
	}
	for region, countries := range regions {
		for _, c := range countries {
			u.regions[strings.ToUpper(c)] = region
		}
	}
	return u
}

// DefaultUniverse returns the reference currency table without region data.
func DefaultUniverse() *Universe {
	return NewUniverse(ReferenceCurrencies, nil)
}

// LoadUniverse reads a universe YAML file. A missing file yields DefaultUniverse;
// a file without a currencies section keeps the reference currency table.
func LoadUniverse(path string) (*Universe, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultUniverse(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read universe: %w", err)
	}

	var f universeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse universe: %w", err)
	}
	currencies := f.Currencies
	if len(currencies) == 0 {
		currencies = ReferenceCurrencies
	}
	regions := make(map[string][]string, len(f.Regions))
	for name, r := range f.Regions {
		regions[name] = r.Countries
	}
	return NewUniverse(currencies, regions), nil
}

// CountryForCurrency resolves a 3-letter currency code.
func (u *Universe) CountryForCurrency(ccy string) (string, bool) {
	c, ok := u.currencies[strings.ToUpper(ccy)]
	return c, ok
}

// CountryForPair resolves a pair such as USDIDR by its quote currency first,
// then its base currency. A bare 3-letter code is looked up directly.
func (u *Universe) CountryForPair(pair string) (string, bool) {
	pair = strings.ToUpper(strings.TrimSpace(pair))
	switch len(pair) {
	case 3:
		return u.CountryForCurrency(pair)
	case 6:
		if c, ok := u.CountryForCurrency(pair[3:]); ok {
			return c, true
		}
		return u.CountryForCurrency(pair[:3])
	}
	return "", false
}

// RegionOf returns the configured region of a country.
func (u *Universe) RegionOf(country string) (string, bool) {
	r, ok := u.regions[strings.ToUpper(country)]
	return r, ok
}

// Countries lists every country that has a region, sorted.
func (u *Universe) Countries() []string {
	out := make([]string, 0, len(u.regions))
	for c := range u.regions {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
