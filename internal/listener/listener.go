package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"procurement/internal"
	"procurement/internal/catalog"
	"procurement/internal/config"
	"procurement/internal/pipeline"
	"procurement/internal/storage"
)

// Subdirectories of the watch directory.
const (
	ImportsDir = "imports"
	QueriesDir = "queries"
)

const seenKeyPrefix = "watch.seen."

// Service polls the watch directory. Procurement exports dropped into
// imports/ are loaded into storage; vendor lists dropped into queries/ are
// resolved and written to the output directory. Each file is handled once
// per modification.
type Service struct {
	db      *storage.DB
	cfg     config.Config
	aliases *catalog.AliasTable
	logger  *slog.Logger
}

func NewService(db *storage.DB, cfg config.Config, aliases *catalog.AliasTable) *Service {
	return &Service{db: db, cfg: cfg, aliases: aliases, logger: slog.Default().With("component", "listener")}
}

type CycleResult struct {
	Imported int
	Resolved int
	Failed   int
}

func (s *Service) Run(ctx context.Context) error {
	interval := time.Duration(s.cfg.WatchIntervalSec) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	for {
		if _, err := s.RunCycle(ctx); err != nil {
			s.logger.Error("listener cycle failed", "err", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

// RunCycle handles every new or changed file once. Failures on individual
// files are logged and counted; an unavailable vendor data source ends the
// cycle with an error.
func (s *Service) RunCycle(ctx context.Context) (CycleResult, error) {
	var res CycleResult

	imports, err := s.pending(filepath.Join(s.cfg.WatchDir, ImportsDir))
	if err != nil {
		return res, err
	}
	importer := pipeline.NewImportService(s.db)
	for _, f := range imports {
		if _, err := importer.ImportFile(ctx, f.path); err != nil {
			res.Failed++
			s.logger.Warn("import failed", "file", f.path, "err", err)
			continue
		}
		res.Imported++
		s.markSeen(f)
	}

	queries, err := s.pending(filepath.Join(s.cfg.WatchDir, QueriesDir))
	if err != nil {
		return res, err
	}
	batch := pipeline.NewBatchService(s.db, s.cfg, s.aliases)
	for _, f := range queries {
		out := filepath.Join(s.cfg.OutputDir, "listener", outputName(f.path))
		if _, err := batch.ResolveFile(ctx, f.path, out); err != nil {
			if errors.Is(err, internal.ErrDataSourceUnavailable) {
				return res, err
			}
			res.Failed++
			s.logger.Warn("batch resolution failed", "file", f.path, "err", err)
			continue
		}
		res.Resolved++
		s.markSeen(f)
	}

	s.logger.Info("listener cycle done", "imported", res.Imported, "resolved", res.Resolved, "failed", res.Failed)
	return res, nil
}

type pendingFile struct {
	path    string
	version string
}

func (s *Service) pending(dir string) ([]pendingFile, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read watch dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	out := []pendingFile{}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		f := pendingFile{
			path:    filepath.Join(dir, entry.Name()),
			version: fmt.Sprintf("%d:%d", info.ModTime().UnixNano(), info.Size()),
		}
		seen, err := s.db.GetMetadata(seenKeyPrefix + f.path)
		if err != nil {
			return nil, err
		}
		if seen != nil && *seen == f.version {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (s *Service) markSeen(f pendingFile) {
	if err := s.db.SetMetadata(seenKeyPrefix+f.path, f.version); err != nil {
		s.logger.Warn("could not record processed file", "file", f.path, "err", err)
	}
}

func outputName(inputPath string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	repl := strings.NewReplacer("<", "_", ">", "_", ":", "_", "/", "_", "\\", "_", "|", "_", "?", "_", "*", "_", " ", "_")
	out := repl.Replace(base)
	if len(out) > 120 {
		out = out[:120]
	}
	return out + ".resolved.xlsx"
}
