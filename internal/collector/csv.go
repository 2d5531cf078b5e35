package collector

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"RiskSentinel/internal/model"
)

// CSVSource reads per-pair daily price files laid out as <dir>/<region>/<PAIR>_<YYYYMMDD>.csv.
// Several files may cover the same pair over overlapping dates.
type CSVSource struct {
	Dir string
	log zerolog.Logger
}

// NewCSVSource creates a source rooted at dir.
func NewCSVSource(dir string, log zerolog.Logger) *CSVSource {
	return &CSVSource{Dir: dir, log: log.With().Str("component", "csv_source").Logger()}
}

func (s *CSVSource) Name() string { return "csv:" + s.Dir }

var closeColumns = []string{"close", "4. close", "adj close", "adj_close"}

// LoadRecords reads every .csv file under Dir in lexical path order.
// Unreadable files are skipped with a warning.
func (s *CSVSource) LoadRecords(ctx context.Context) ([]model.RawPriceRecord, error) {
	var paths []string
	err := filepath.WalkDir(s.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.Dir, err)
	}
	sort.Strings(paths)

	var records []model.RawPriceRecord
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		recs, err := s.readFile(path)
		if err != nil {
			s.log.Warn().Err(err).Str("file", path).Int("kept", len(recs)).Msg("price file not fully read")
		}
		records = append(records, recs...)
	}
	s.log.Info().Int("files", len(paths)).Int("records", len(records)).Msg("price files loaded")
	return records, nil
}

func (s *CSVSource) readFile(path string) ([]model.RawPriceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pair := strings.ToUpper(strings.SplitN(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), "_", 2)[0])
	region := ""
	if rel, err := filepath.Rel(s.Dir, filepath.Dir(path)); err == nil && rel != "." {
		region = strings.ReplaceAll(filepath.Base(rel), "_", " ")
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		return nil, fmt.Errorf("read header: %w", io.EOF)
	}
	header, err := parseLine(sc.Text())
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	dateIdx, closeIdx := columnIndex(header, "date"), -1
	for _, name := range closeColumns {
		if closeIdx = columnIndex(header, name); closeIdx >= 0 {
			break
		}
	}
	if dateIdx < 0 || closeIdx < 0 {
		return nil, fmt.Errorf("missing date or close column in %v", header)
	}

	// Each line is parsed on its own so a broken quote cannot swallow later rows.
	var out []model.RawPriceRecord
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec := model.RawPriceRecord{Pair: pair, Region: region, Origin: path}
		if row, err := parseLine(line); err == nil {
			rec.Date = cell(row, dateIdx)
			rec.Close = cell(row, closeIdx)
		}
		// an unparseable row keeps empty fields and is counted as malformed downstream
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return out, fmt.Errorf("scan %s: %w", path, err)
	}
	return out, nil
}

func parseLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	return r.Read()
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), name) {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
