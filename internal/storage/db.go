package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"procurement/internal"
)

// DB is the procurement store. Column names of the procurement table follow the
// upstream export so existing databases can be opened as-is.
type DB struct {
	conn *sql.DB
}

type VendorTotal struct {
	VendorName string
	Total      float64
	Orders     int
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS procurement (
  VENDOR_NAME_1 TEXT,
  ITEM_TOTAL_COST REAL,
  source TEXT,
  rawLine TEXT,
  importedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_procurement_vendor ON procurement(VENDOR_NAME_1);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  kind TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// ListVendorNames returns each distinct vendor name once, in order of first
// appearance.
func (d *DB) ListVendorNames(ctx context.Context) ([]string, error) {
	rows, err := d.conn.QueryContext(ctx, `
SELECT VENDOR_NAME_1
FROM procurement
WHERE VENDOR_NAME_1 IS NOT NULL AND VENDOR_NAME_1 <> ''
GROUP BY VENDOR_NAME_1
ORDER BY MIN(rowid)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (d *DB) VendorExists(ctx context.Context, name string) (bool, error) {
	var one int
	err := d.conn.QueryRowContext(ctx, `SELECT 1 FROM procurement WHERE VENDOR_NAME_1 = ? LIMIT 1`, name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (d *DB) InsertProcurementRows(rows []internal.ProcurementRow) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT INTO procurement (VENDOR_NAME_1, ITEM_TOTAL_COST, source, rawLine) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(r.VendorName, r.ItemTotalCost, r.Source, r.RawLine); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) CountProcurementRows(ctx context.Context) (int, error) {
	var n int
	err := d.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM procurement`).Scan(&n)
	return n, err
}

// VendorAmounts returns the non-null ITEM_TOTAL_COST values for the given
// vendors, or for every vendor when names is empty.
func (d *DB) VendorAmounts(ctx context.Context, names []string) ([]float64, error) {
	query := `SELECT ITEM_TOTAL_COST FROM procurement WHERE ITEM_TOTAL_COST IS NOT NULL`
	args := make([]any, 0, len(names))
	if len(names) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(names)), ",")
		query += ` AND VENDOR_NAME_1 IN (` + placeholders + `)`
		for _, n := range names {
			args = append(args, n)
		}
	}
	query += ` ORDER BY rowid`

	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []float64{}
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (d *DB) TopVendors(ctx context.Context, limit int) ([]VendorTotal, error) {
	rows, err := d.conn.QueryContext(ctx, `
SELECT VENDOR_NAME_1, COALESCE(SUM(ITEM_TOTAL_COST), 0), COUNT(*)
FROM procurement
WHERE VENDOR_NAME_1 IS NOT NULL AND VENDOR_NAME_1 <> ''
GROUP BY VENDOR_NAME_1
ORDER BY 2 DESC, MIN(rowid) ASC
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []VendorTotal
	for rows.Next() {
		var v VendorTotal
		if err := rows.Scan(&v.VendorName, &v.Total, &v.Orders); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (d *DB) InsertRun(traceID, kind string, timings map[string]float64, counts map[string]int) error {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, kind, timingsJson, countsJson) VALUES (?, ?, ?, ?)`, traceID, kind, string(timingsJSON), string(countsJSON))
	return err
}

// LastRunCounts returns the counts recorded by the most recent run of kind.
func (d *DB) LastRunCounts(kind string) (map[string]int, error) {
	var countsJSON string
	err := d.conn.QueryRow(`SELECT countsJson FROM runs WHERE kind = ? ORDER BY id DESC LIMIT 1`, kind).Scan(&countsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	if err := json.Unmarshal([]byte(countsJSON), &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
