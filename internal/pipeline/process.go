package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"procurement/internal"
	"procurement/internal/catalog"
	"procurement/internal/config"
	"procurement/internal/storage"
	"procurement/internal/util"
)

// RunKindResolveBatch labels batch resolution runs in storage.
const RunKindResolveBatch = "resolve_batch"

// snapshotSource lists vendor names once and reuses them for every query
// in a batch. Alias validation still reads through.
type snapshotSource struct {
	VendorSource
	once  sync.Once
	names []string
	err   error
}

func (s *snapshotSource) ListVendorNames(ctx context.Context) ([]string, error) {
	s.once.Do(func() {
		s.names, s.err = s.VendorSource.ListVendorNames(ctx)
	})
	return s.names, s.err
}

type BatchService struct {
	db      *storage.DB
	cfg     config.Config
	aliases *catalog.AliasTable
	logger  *slog.Logger
}

func NewBatchService(db *storage.DB, cfg config.Config, aliases *catalog.AliasTable) *BatchService {
	return &BatchService{db: db, cfg: cfg, aliases: aliases, logger: slog.Default().With("component", "resolve_batch")}
}

type BatchResult struct {
	TraceID string
	Rows    []internal.ResolutionExportRow
	Counts  map[string]int
}

// ResolveAll resolves every query against one snapshot of vendor names. A
// data source failure aborts the batch.
func (s *BatchService) ResolveAll(ctx context.Context, queries []string) (BatchResult, error) {
	start := time.Now()
	resolver := NewResolver(s.cfg, &snapshotSource{VendorSource: s.db}, s.aliases)

	res := BatchResult{
		TraceID: uuid.NewString(),
		Rows:    make([]internal.ResolutionExportRow, 0, len(queries)),
		Counts:  map[string]int{"total": len(queries), "resolved": 0, "ambiguous": 0, "notFound": 0},
	}

	for i, query := range queries {
		resolution, err := resolver.Resolve(ctx, query)
		if err != nil {
			return BatchResult{}, fmt.Errorf("resolve line %d %q: %w", i+1, query, err)
		}
		res.Rows = append(res.Rows, exportRow(i+1, resolution))

		switch resolution.Status {
		case internal.StatusResolved:
			res.Counts["resolved"]++
		case internal.StatusAmbiguous:
			res.Counts["ambiguous"]++
		case internal.StatusNotFound:
			res.Counts["notFound"]++
		}
	}

	_ = s.db.InsertRun(res.TraceID, RunKindResolveBatch, map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())}, res.Counts)
	s.logger.Info("batch resolved", "trace_id", res.TraceID, "total", res.Counts["total"],
		"resolved", res.Counts["resolved"], "ambiguous", res.Counts["ambiguous"], "not_found", res.Counts["notFound"])
	return res, nil
}

// ResolveFile reads queries from inputPath, resolves them and writes the
// rows to outputPath as xlsx.
func (s *BatchService) ResolveFile(ctx context.Context, inputPath, outputPath string) (BatchResult, error) {
	queries, err := ReadVendorQueries(inputPath)
	if err != nil {
		return BatchResult{}, err
	}
	res, err := s.ResolveAll(ctx, queries)
	if err != nil {
		return BatchResult{}, err
	}
	if err := ExportResolutionsToXLSX(res.Rows, outputPath); err != nil {
		return BatchResult{}, err
	}
	return res, nil
}

func exportRow(lineNo int, r internal.Resolution) internal.ResolutionExportRow {
	row := internal.ResolutionExportRow{
		InputLineNo:   lineNo,
		Query:         r.Query,
		Status:        string(r.Status),
		Strategy:      string(r.Strategy),
		Confidence:    r.Confidence(),
		ResolvedNames: r.Names,
	}
	if len(r.Candidates) > 1 {
		row.Candidate2Name = util.StringPtr(r.Candidates[1].Name)
		row.Candidate2Score = util.FloatPtr(r.Candidates[1].Score)
	}
	return row
}
