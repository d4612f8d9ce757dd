package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"procurement/internal"
	"procurement/internal/catalog"
	"procurement/internal/config"
	"procurement/internal/util"
)

// scoreEpsilon absorbs float rounding when a similarity sits on the threshold.
const scoreEpsilon = 1e-9

// VendorSource is the read-only vendor name store the resolver queries.
type VendorSource interface {
	ListVendorNames(ctx context.Context) ([]string, error)
	VendorExists(ctx context.Context, name string) (bool, error)
}

// Resolver maps a user-supplied vendor name to canonical names through a
// cascade of exact, alias, normalized and fuzzy matching. The first stage
// that yields a candidate decides the result.
type Resolver struct {
	cfg     config.Config
	source  VendorSource
	aliases *catalog.AliasTable
	logger  *slog.Logger
}

func NewResolver(cfg config.Config, source VendorSource, aliases *catalog.AliasTable) *Resolver {
	return &Resolver{
		cfg:     cfg,
		source:  source,
		aliases: aliases,
		logger:  slog.Default().With("component", "vendor_resolver"),
	}
}

// Resolve returns an empty resolution when nothing matches. A non-nil error
// always wraps internal.ErrDataSourceUnavailable.
func (r *Resolver) Resolve(ctx context.Context, query string) (internal.Resolution, error) {
	if strings.TrimSpace(query) == "" {
		return internal.NewResolution(query, internal.StrategyNone, nil), nil
	}

	names, err := r.source.ListVendorNames(ctx)
	if err != nil {
		return internal.Resolution{}, fmt.Errorf("%w: list vendor names: %w", internal.ErrDataSourceUnavailable, err)
	}
	idx := catalog.BuildIndex(names)

	if idx.Contains(query) {
		return r.done(query, internal.StrategyExact, []internal.MatchCandidate{
			{Name: query, Strategy: internal.StrategyExact, Score: internal.ConfidenceExact},
		}), nil
	}

	aliased, err := r.matchAlias(ctx, query)
	if err != nil {
		return internal.Resolution{}, err
	}
	if len(aliased) > 0 {
		return r.done(query, internal.StrategyAlias, aliased), nil
	}

	key := util.Normalize(query)
	if key == "" {
		return r.done(query, internal.StrategyNone, nil), nil
	}

	if normalized := matchNormalized(idx, key); len(normalized) > 0 {
		return r.done(query, internal.StrategyNormalized, normalized), nil
	}

	return r.done(query, internal.StrategyFuzzy, r.rankFuzzy(idx, key)), nil
}

// matchAlias only accepts an alias whose canonical target is present in the
// data source, so stale alias configuration falls through to later stages.
func (r *Resolver) matchAlias(ctx context.Context, query string) ([]internal.MatchCandidate, error) {
	canonical, ok := r.aliases.Lookup(query)
	if !ok {
		return nil, nil
	}
	exists, err := r.source.VendorExists(ctx, canonical)
	if err != nil {
		return nil, fmt.Errorf("%w: validate alias target %q: %w", internal.ErrDataSourceUnavailable, canonical, err)
	}
	if !exists {
		r.logger.Debug("alias target not in data source", "query", query, "canonical", canonical)
		return nil, nil
	}
	return []internal.MatchCandidate{{Name: canonical, Strategy: internal.StrategyAlias, Score: internal.ConfidenceAlias}}, nil
}

func matchNormalized(idx *catalog.Index, key string) []internal.MatchCandidate {
	matches := idx.ByNormalized[key]
	out := make([]internal.MatchCandidate, 0, len(matches))
	for _, name := range matches {
		out = append(out, internal.MatchCandidate{Name: name, Strategy: internal.StrategyNormalized, Score: internal.ConfidenceNormalized})
	}
	return out
}

func (r *Resolver) rankFuzzy(idx *catalog.Index, key string) []internal.MatchCandidate {
	out := []internal.MatchCandidate{}
	for i, name := range idx.Names {
		candidateKey := idx.NormalizedByPos[i]
		if candidateKey == "" {
			continue
		}
		score := util.Similarity(key, candidateKey)
		if score+scoreEpsilon < r.cfg.FuzzyThreshold {
			continue
		}
		out = append(out, internal.MatchCandidate{Name: name, Strategy: internal.StrategyFuzzy, Score: score})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if r.cfg.FuzzyMaxCandidates > 0 && len(out) > r.cfg.FuzzyMaxCandidates {
		out = out[:r.cfg.FuzzyMaxCandidates]
	}
	return out
}

func (r *Resolver) done(query string, strategy internal.MatchStrategy, candidates []internal.MatchCandidate) internal.Resolution {
	res := internal.NewResolution(query, strategy, candidates)
	r.logger.Debug("vendor resolved",
		"query", query, "status", res.Status, "strategy", res.Strategy, "matches", len(res.Names))
	return res
}
