package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dayplanner/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteRecords keeps the planner namespace in <Dir>/planner.sqlite.
// Each call opens and closes the database; writes are short transactions.
type SQLiteRecords struct {
	Store Store
}

func NewSQLiteRecords(dir string) SQLiteRecords {
	return SQLiteRecords{Store: Store{Dir: dir}}
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL lets `dayplanner agenda` read while the TUI is writing.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateRecords(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateRecords(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS records (
			namespace TEXT NOT NULL,
			key TEXT NOT NULL,
			value BLOB NOT NULL,
			updated_at_unixms INTEGER NOT NULL,
			PRIMARY KEY(namespace, key)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate records: %w", err)
		}
	}
	return nil
}

// get returns nil for a missing key or any read failure.
func (r SQLiteRecords) get(ctx context.Context, key string) []byte {
	db, err := r.Store.openSQLite(ctx)
	if err != nil {
		return nil
	}
	defer db.Close()

	var v []byte
	err = db.QueryRowContext(ctx, `SELECT value FROM records WHERE namespace = ? AND key = ?`, Namespace, key).Scan(&v)
	if err != nil {
		return nil
	}
	return v
}

func (r SQLiteRecords) put(ctx context.Context, kv map[string][]byte) error {
	db, err := r.Store.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	nowMs := time.Now().UTC().UnixMilli()
	for _, key := range []string{KeyEvents, KeyTasks, KeyNextID} {
		v, ok := kv[key]
		if !ok {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO records(namespace, key, value, updated_at_unixms) VALUES(?, ?, ?, ?)`,
			Namespace, key, v, nowMs,
		); err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
	}
	return tx.Commit()
}

func (r SQLiteRecords) LoadEvents(ctx context.Context) []model.Event {
	return decodeEvents(r.get(ctx, KeyEvents))
}

func (r SQLiteRecords) LoadTasks(ctx context.Context) []model.Task {
	return decodeTasks(r.get(ctx, KeyTasks))
}

func (r SQLiteRecords) LoadNextID(ctx context.Context) uint32 {
	return decodeNextID(r.get(ctx, KeyNextID))
}

func (r SQLiteRecords) SaveEvents(ctx context.Context, events []model.Event) error {
	b, err := encodeEvents(events)
	if err != nil {
		return err
	}
	return r.put(ctx, map[string][]byte{KeyEvents: b})
}

func (r SQLiteRecords) SaveTasks(ctx context.Context, tasks []model.Task) error {
	b, err := encodeTasks(tasks)
	if err != nil {
		return err
	}
	return r.put(ctx, map[string][]byte{KeyTasks: b})
}

func (r SQLiteRecords) SaveNextID(ctx context.Context, next uint32) error {
	return r.put(ctx, map[string][]byte{KeyNextID: encodeNextID(next)})
}

// SaveSnapshot writes events, tasks and next_id in one transaction.
func (r SQLiteRecords) SaveSnapshot(ctx context.Context, snap model.Snapshot) error {
	events, err := encodeEvents(snap.Events)
	if err != nil {
		return err
	}
	tasks, err := encodeTasks(snap.Tasks)
	if err != nil {
		return err
	}
	return r.put(ctx, map[string][]byte{
		KeyEvents: events,
		KeyTasks:  tasks,
		KeyNextID: encodeNextID(snap.NextID),
	})
}

// PutRaw overwrites one key with an unchecked value.
func (r SQLiteRecords) PutRaw(ctx context.Context, key string, value []byte) error {
	switch key {
	case KeyEvents, KeyTasks, KeyNextID:
	default:
		return errors.New("unknown record key: " + key)
	}
	return r.put(ctx, map[string][]byte{key: value})
}

// UpdatedAt reports when key was last written, or the zero time if never.
func (r SQLiteRecords) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	db, err := r.Store.openSQLite(ctx)
	if err != nil {
		return time.Time{}, err
	}
	defer db.Close()

	var ms int64
	err = db.QueryRowContext(ctx, `SELECT updated_at_unixms FROM records WHERE namespace = ? AND key = ?`, Namespace, key).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}
