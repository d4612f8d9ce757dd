package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"procurement/internal"
	"procurement/internal/storage"
)

// MetaLastImport is the metadata key describing the most recent import.
const MetaLastImport = "vendors.last_import"

type ImportService struct {
	db     *storage.DB
	logger *slog.Logger
}

func NewImportService(db *storage.DB) *ImportService {
	return &ImportService{db: db, logger: slog.Default().With("component", "import")}
}

type ImportResult struct {
	TraceID     string
	Rows        int
	WithAmount  int
	VendorNames int
}

func (s *ImportService) ImportFile(ctx context.Context, path string) (ImportResult, error) {
	rows, err := ReadProcurementFile(path)
	if err != nil {
		return ImportResult{}, err
	}
	return s.ImportRows(ctx, filepath.Base(path), rows)
}

// ImportRows stores rows and records the import as a run.
func (s *ImportService) ImportRows(ctx context.Context, label string, rows []internal.ProcurementRow) (ImportResult, error) {
	start := time.Now()
	res := ImportResult{TraceID: uuid.NewString(), Rows: len(rows)}
	for _, r := range rows {
		if r.ItemTotalCost != nil {
			res.WithAmount++
		}
	}

	if err := s.db.InsertProcurementRows(rows); err != nil {
		return ImportResult{}, fmt.Errorf("insert procurement rows: %w", err)
	}

	names, err := s.db.ListVendorNames(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	res.VendorNames = len(names)

	stamp := fmt.Sprintf("%s %s rows=%d", time.Now().UTC().Format(time.RFC3339), label, len(rows))
	if err := s.db.SetMetadata(MetaLastImport, stamp); err != nil {
		return ImportResult{}, err
	}
	_ = s.db.InsertRun(res.TraceID, "import",
		map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())},
		map[string]int{"rows": res.Rows, "withAmount": res.WithAmount, "vendorNames": res.VendorNames})

	s.logger.Info("procurement rows imported",
		"trace_id", res.TraceID, "source", label, "rows", res.Rows, "with_amount", res.WithAmount, "vendor_names", res.VendorNames)
	return res, nil
}
