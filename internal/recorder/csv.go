package recorder

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"RiskSentinel/internal/model"
)

// RankingHeader is the column layout of the ranked output table.
func RankingHeader() []string {
	h := []string{"rank", "country", "region", "risk_score"}
	for _, c := range scoreColumns {
		h = append(h, c.Column)
	}
	return h
}

// WriteRanking writes the ranked table as CSV. Undefined values are empty cells.
func WriteRanking(w io.Writer, rows []model.RiskScore) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RankingHeader()); err != nil {
		return err
	}
	for i := range rows {
		r := &rows[i]
		rec := []string{strconv.Itoa(r.Rank), r.Country, r.Region, formatFloat(r.RiskScore)}
		for _, c := range scoreColumns {
			rec = append(rec, formatFloat(r.Score(c.Component)))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVRecorder overwrites a CSV file with the latest ranking on every run.
type CSVRecorder struct {
	Path string
}

func NewCSVRecorder(path string) *CSVRecorder {
	return &CSVRecorder{Path: path}
}

func (c *CSVRecorder) RecordRun(snap *RunSnapshot) error {
	if snap.Status != StatusOK {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(c.Path), filepath.Base(c.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", c.Path, err)
	}
	tmp := f.Name()
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("chmod %s: %w", tmp, err)
	}
	if err := WriteRanking(f, snap.Scores); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write ranking: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, c.Path)
}

func (c *CSVRecorder) Close() error { return nil }

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
