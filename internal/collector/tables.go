package collector

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"RiskSentinel/internal/model"
)

var macroHeader = []string{"country", "region", "gdp_growth", "inflation", "debt_to_gdp", "current_account"}

// ReadMacroCSV reads the macro indicators table. Empty or non-numeric cells are undefined.
func ReadMacroCSV(path string) ([]model.MacroIndicators, error) {
	header, rows, err := readTable(path)
	if err != nil {
		return nil, fmt.Errorf("read macro table: %w", err)
	}
	col := indexHeader(header)
	if _, ok := col["country"]; !ok {
		return nil, fmt.Errorf("read macro table: no country column in %s", path)
	}

	out := make([]model.MacroIndicators, 0, len(rows))
	for _, row := range rows {
		country := strings.ToUpper(field(row, col, "country"))
		if country == "" {
			continue
		}
		out = append(out, model.MacroIndicators{
			Country:        country,
			Region:         field(row, col, "region"),
			GDPGrowth:      parseOptional(field(row, col, "gdp_growth")),
			Inflation:      parseOptional(field(row, col, "inflation")),
			DebtToGDP:      parseOptional(field(row, col, "debt_to_gdp")),
			CurrentAccount: parseOptional(field(row, col, "current_account")),
		})
	}
	return out, nil
}

// WriteMacroCSV writes the macro indicators table.
func WriteMacroCSV(path string, rows []model.MacroIndicators) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, macroHeader)
	for _, r := range rows {
		records = append(records, []string{
			r.Country,
			r.Region,
			FormatOptional(r.GDPGrowth),
			FormatOptional(r.Inflation),
			FormatOptional(r.DebtToGDP),
			FormatOptional(r.CurrentAccount),
		})
	}
	return writeTable(path, records)
}

// ReadSentimentCSV reads the per-country sentiment table. An article-level table
// (country, sentiment) is aggregated per country.
func ReadSentimentCSV(path string) ([]model.Sentiment, error) {
	header, rows, err := readTable(path)
	if err != nil {
		return nil, fmt.Errorf("read sentiment table: %w", err)
	}
	col := indexHeader(header)
	if _, ok := col["country"]; !ok {
		return nil, fmt.Errorf("read sentiment table: no country column in %s", path)
	}

	if _, ok := col["avg_sentiment"]; !ok {
		if _, article := col["sentiment"]; !article {
			return nil, fmt.Errorf("read sentiment table: no avg_sentiment or sentiment column in %s", path)
		}
		articles := make([]model.ArticleSentiment, 0, len(rows))
		for _, row := range rows {
			articles = append(articles, model.ArticleSentiment{
				Country:   strings.ToUpper(field(row, col, "country")),
				Sentiment: parseOptional(field(row, col, "sentiment")),
			})
		}
		return AggregateSentiment(articles), nil
	}

	out := make([]model.Sentiment, 0, len(rows))
	for _, row := range rows {
		country := strings.ToUpper(field(row, col, "country"))
		if country == "" {
			continue
		}
		count, _ := strconv.Atoi(field(row, col, "article_count"))
		out = append(out, model.Sentiment{
			Country:      country,
			AvgSentiment: parseOptional(field(row, col, "avg_sentiment")),
			ArticleCount: count,
		})
	}
	return out, nil
}

// FormatOptional renders an undefined value as an empty cell.
func FormatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func parseOptional(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func readTable(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	var rows [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

func writeTable(path string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func indexHeader(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	return col
}

func field(row []string, col map[string]int, name string) string {
	idx, ok := col[name]
	if !ok {
		return ""
	}
	return cell(row, idx)
}
