package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement/internal"
	"procurement/internal/catalog"
	"procurement/internal/config"
	"procurement/internal/storage"
	"procurement/internal/util"
)

func testConfig() config.Config {
	return config.Config{FuzzyThreshold: 0.8}
}

func vendorDB(t *testing.T, names ...string) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "procurement.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows := make([]internal.ProcurementRow, 0, len(names))
	for i, name := range names {
		rows = append(rows, internal.ProcurementRow{LineNo: i + 1, Source: "fixture", VendorName: name, ItemTotalCost: util.FloatPtr(100)})
	}
	require.NoError(t, db.InsertProcurementRows(rows))
	return db
}

func standardVendors(t *testing.T) *storage.DB {
	return vendorDB(t, "DELL INC", "INTERNATIONAL BUSINESS MACHINES", "Microsoft Corporation", "ORACLE AMERICA, INC.")
}

func TestResolveCascade(t *testing.T) {
	r := NewResolver(testConfig(), standardVendors(t), catalog.NewAliasTable(catalog.DefaultAliases()))
	ctx := context.Background()

	cases := []struct {
		query    string
		strategy internal.MatchStrategy
		names    []string
	}{
		{"DELL INC", internal.StrategyExact, []string{"DELL INC"}},
		{"IBM", internal.StrategyAlias, []string{"INTERNATIONAL BUSINESS MACHINES"}},
		{"microsoft corp", internal.StrategyNormalized, []string{"Microsoft Corporation"}},
		{"Dell Technologies", internal.StrategyAlias, []string{"DELL INC"}},
		{"Microsoft Corp.", internal.StrategyNormalized, []string{"Microsoft Corporation"}},
		{"Oracel America", internal.StrategyFuzzy, []string{"ORACLE AMERICA, INC."}},
	}

	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			res, err := r.Resolve(ctx, tc.query)
			require.NoError(t, err)
			assert.Equal(t, internal.StatusResolved, res.Status)
			assert.Equal(t, tc.strategy, res.Strategy)
			assert.Equal(t, tc.names, res.Names)
			assert.Equal(t, tc.query, res.Query)
		})
	}
}

func TestResolveConfidence(t *testing.T) {
	r := NewResolver(testConfig(), standardVendors(t), catalog.NewAliasTable(catalog.DefaultAliases()))
	ctx := context.Background()

	res, err := r.Resolve(ctx, "DELL INC")
	require.NoError(t, err)
	assert.Equal(t, internal.ConfidenceExact, res.Confidence())

	res, err = r.Resolve(ctx, "IBM")
	require.NoError(t, err)
	assert.Equal(t, internal.ConfidenceAlias, res.Confidence())

	res, err = r.Resolve(ctx, "MICROSOFT CORP")
	require.NoError(t, err)
	assert.Equal(t, internal.ConfidenceNormalized, res.Confidence())

	res, err = r.Resolve(ctx, "Oracel America")
	require.NoError(t, err)
	assert.InDelta(t, 1-2.0/14.0, res.Confidence(), 1e-9)
}

func TestResolveNotFound(t *testing.T) {
	r := NewResolver(testConfig(), standardVendors(t), catalog.NewAliasTable(catalog.DefaultAliases()))

	for _, query := range []string{"NON EXISTENT VENDOR", "", "   ", "Inc.", "!!!"} {
		res, err := r.Resolve(context.Background(), query)
		require.NoError(t, err, query)
		assert.Equal(t, internal.StatusNotFound, res.Status, query)
		assert.Equal(t, internal.StrategyNone, res.Strategy, query)
		assert.Empty(t, res.Names, query)
		assert.NotNil(t, res.Candidates, query)
		assert.False(t, res.Found(), query)
	}
}

func TestResolveStaleAliasFallsThrough(t *testing.T) {
	// MSFT points at "MICROSOFT CORPORATION", which is not stored verbatim.
	r := NewResolver(testConfig(), standardVendors(t), catalog.NewAliasTable(catalog.DefaultAliases()))

	res, err := r.Resolve(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Equal(t, internal.StatusNotFound, res.Status)

	aliases := catalog.NewAliasTable([]internal.AliasEntry{{Alias: "Redmond", Canonical: "Microsoft Corp"}})
	r = NewResolver(testConfig(), vendorDB(t, "Microsoft Corp"), aliases)
	res, err = r.Resolve(context.Background(), "redmond")
	require.NoError(t, err)
	assert.Equal(t, internal.StrategyAlias, res.Strategy)
	assert.Equal(t, []string{"Microsoft Corp"}, res.Names)
}

func TestResolveAmbiguousKeepsSourceOrder(t *testing.T) {
	db := vendorDB(t, "ACME, LLC", "Globex", "Acme Inc", "ACME, LLC")
	r := NewResolver(testConfig(), db, catalog.NewAliasTable(nil))

	res, err := r.Resolve(context.Background(), "acme corporation")
	require.NoError(t, err)
	assert.Equal(t, internal.StatusAmbiguous, res.Status)
	assert.Equal(t, internal.StrategyNormalized, res.Strategy)
	assert.Equal(t, []string{"ACME, LLC", "Acme Inc"}, res.Names)
}

func TestResolveFuzzyRankingAndLimit(t *testing.T) {
	db := vendorDB(t, "Grainger Industrial", "Grainger Industrail", "Grainger Industries")
	r := NewResolver(testConfig(), db, catalog.NewAliasTable(nil))

	res, err := r.Resolve(context.Background(), "Grainger Industrial Supply")
	require.NoError(t, err)
	assert.Equal(t, internal.StatusNotFound, res.Status)

	res, err = r.Resolve(context.Background(), "Grainger Industriel")
	require.NoError(t, err)
	require.Equal(t, internal.StatusAmbiguous, res.Status)
	// Equal scores keep source order.
	assert.Equal(t, []string{"Grainger Industrial", "Grainger Industries", "Grainger Industrail"}, res.Names)
	for i := 1; i < len(res.Candidates); i++ {
		assert.GreaterOrEqual(t, res.Candidates[i-1].Score, res.Candidates[i].Score)
	}
	for _, c := range res.Candidates {
		assert.Equal(t, internal.StrategyFuzzy, c.Strategy)
		assert.GreaterOrEqual(t, c.Score, 0.8)
	}

	cfg := testConfig()
	cfg.FuzzyMaxCandidates = 1
	r = NewResolver(cfg, db, catalog.NewAliasTable(nil))
	res, err = r.Resolve(context.Background(), "Grainger Industriel")
	require.NoError(t, err)
	assert.Equal(t, internal.StatusResolved, res.Status)
	assert.Equal(t, []string{"Grainger Industrial"}, res.Names)
}

type failingSource struct {
	listErr   error
	existsErr error
	names     []string
}

func (f failingSource) ListVendorNames(context.Context) ([]string, error) {
	return f.names, f.listErr
}

func (f failingSource) VendorExists(context.Context, string) (bool, error) {
	return false, f.existsErr
}

func TestResolveSourceFailure(t *testing.T) {
	boom := errors.New("disk on fire")
	aliases := catalog.NewAliasTable(catalog.DefaultAliases())

	r := NewResolver(testConfig(), failingSource{listErr: boom}, aliases)
	_, err := r.Resolve(context.Background(), "DELL INC")
	require.Error(t, err)
	assert.ErrorIs(t, err, internal.ErrDataSourceUnavailable)
	assert.ErrorIs(t, err, boom)

	r = NewResolver(testConfig(), failingSource{existsErr: boom, names: []string{"DELL INC"}}, aliases)
	_, err = r.Resolve(context.Background(), "IBM")
	assert.ErrorIs(t, err, internal.ErrDataSourceUnavailable)

	// Blank queries never reach the source.
	res, err := NewResolver(testConfig(), failingSource{listErr: boom}, aliases).Resolve(context.Background(), " ")
	require.NoError(t, err)
	assert.Equal(t, internal.StatusNotFound, res.Status)
}

func TestResolveFromClosedDatabase(t *testing.T) {
	db := standardVendors(t)
	require.NoError(t, db.Close())

	r := NewResolver(testConfig(), db, catalog.NewAliasTable(nil))
	_, err := r.Resolve(context.Background(), "DELL INC")
	assert.ErrorIs(t, err, internal.ErrDataSourceUnavailable)
}

func TestResolveConcurrentCallers(t *testing.T) {
	r := NewResolver(testConfig(), standardVendors(t), catalog.NewAliasTable(catalog.DefaultAliases()))
	queries := map[string]string{
		"IBM":               "INTERNATIONAL BUSINESS MACHINES",
		"microsoft corp":    "Microsoft Corporation",
		"Oracel America":    "ORACLE AMERICA, INC.",
		"DELL INC":          "DELL INC",
		"Dell Technologies": "DELL INC",
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8*len(queries))
	for i := 0; i < 8; i++ {
		for query, want := range queries {
			wg.Add(1)
			go func(query, want string) {
				defer wg.Done()
				res, err := r.Resolve(context.Background(), query)
				if err != nil {
					errs <- err
					return
				}
				if len(res.Names) != 1 || res.Names[0] != want {
					errs <- errors.New(query + " resolved to unexpected names")
				}
			}(query, want)
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
