package collector

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"RiskSentinel/internal/config"
	"RiskSentinel/internal/model"
)

// World Bank indicator codes for the macro table columns.
const (
	IndicatorGDPGrowth      = "NY.GDP.MKTP.KD.ZG"
	IndicatorInflation      = "FP.CPI.TOTL.ZG"
	IndicatorDebtToGDP      = "GC.DOD.TOTL.GD.ZS"
	IndicatorCurrentAccount = "BN.CAB.XOKA.GD.ZS"
)

// WorldBankEntry is one observation in the second element of a World Bank response.
type WorldBankEntry struct {
	Country   string `json:"countryiso3code"`
	Indicator struct {
		ID string `json:"id"`
	} `json:"indicator"`
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// ParseWorldBankFile parses one World Bank indicator JSON file.
// A response without data yields no entries.
func ParseWorldBankFile(path string) ([]WorldBankEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var top []json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(top) < 2 {
		return nil, nil
	}
	var entries []WorldBankEntry
	if err := json.Unmarshal(top[1], &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return entries, nil
}

type wbKey struct {
	country   string
	indicator string
}

type wbLatest struct {
	year  int
	value float64
}

// ProcessWorldBank turns a directory of World Bank files into the macro table,
// keeping the most recent non-null value per country and indicator.
// The region is looked up from the first row's country and applied to every row
// of the file. A file whose first country has no region in the universe is skipped.
func ProcessWorldBank(dir string, u *config.Universe, log zerolog.Logger) ([]model.MacroIndicators, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(paths)

	latest := make(map[wbKey]wbLatest)
	regions := make(map[string]string)
	for _, path := range paths {
		entries, err := ParseWorldBankFile(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("skipping world bank file")
			continue
		}
		if len(entries) == 0 {
			continue
		}
		country := strings.ToUpper(entries[0].Country)
		region, ok := u.RegionOf(country)
		if !ok {
			log.Info().Str("country", country).Str("file", filepath.Base(path)).Msg("region not found, skipping")
			continue
		}
		// every row in a file belongs to the file's region
		for _, e := range entries {
			c := strings.ToUpper(e.Country)
			if _, seen := regions[c]; !seen {
				regions[c] = region
			}
			if e.Value == nil {
				continue
			}
			year, err := strconv.Atoi(e.Date)
			if err != nil {
				continue
			}
			k := wbKey{country: strings.ToUpper(e.Country), indicator: e.Indicator.ID}
			if prev, ok := latest[k]; !ok || year > prev.year {
				latest[k] = wbLatest{year: year, value: *e.Value}
			}
		}
	}
	if len(latest) == 0 {
		return nil, fmt.Errorf("no macro data processed from %s", dir)
	}

	rows := make(map[string]*model.MacroIndicators)
	for k, v := range latest {
		region, ok := regions[k.country]
		if !ok {
			continue
		}
		row, ok := rows[k.country]
		if !ok {
			row = &model.MacroIndicators{Country: k.country, Region: region}
			rows[k.country] = row
		}
		value := model.Float(v.value)
		switch k.indicator {
		case IndicatorGDPGrowth:
			row.GDPGrowth = value
		case IndicatorInflation:
			row.Inflation = value
		case IndicatorDebtToGDP:
			row.DebtToGDP = value
		case IndicatorCurrentAccount:
			row.CurrentAccount = value
		}
	}

	out := make([]model.MacroIndicators, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Country < out[j].Country })
	log.Info().Int("files", len(paths)).Int("countries", len(out)).Msg("world bank data processed")
	return out, nil
}
