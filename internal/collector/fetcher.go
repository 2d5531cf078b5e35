package collector

import (
	"context"

	"RiskSentinel/internal/model"
)

// Source supplies raw per-pair price records.
type Source interface {
	LoadRecords(ctx context.Context) ([]model.RawPriceRecord, error)
	Name() string
}

// MemorySource returns a fixed set of records, for tests and embedding.
type MemorySource struct {
	Records []model.RawPriceRecord
}

func (m *MemorySource) Name() string { return "memory" }

func (m *MemorySource) LoadRecords(_ context.Context) ([]model.RawPriceRecord, error) {
	out := make([]model.RawPriceRecord, len(m.Records))
	copy(out, m.Records)
	return out, nil
}
