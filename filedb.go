// Package filedb is a layer on top of SQLite that stores file contents
// keyed by a name and a time stamp.
//
// Keys do not need to be unique; the (key, time stamp) pair does, and it
// forms the primary key of the underlying table. Time stamps are
// caller-supplied and truncated to whole seconds. Payloads are stored
// zlib-compressed. This is probably not a good way to store large files.
package filedb

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"runtime"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const (
	busyTimeoutMS   = 5000
	maxOpenConns    = 1
	maxIdleConns    = 1
	connMaxLifetime = 5 * time.Minute

	// retentionDays is the fixed horizon for the release-time sweep.
	retentionDays = 365
)

// Entry identifies one stored blob.
type Entry struct {
	Key       string    `json:"key" yaml:"key"`
	TimeStamp time.Time `json:"time_stamp" yaml:"time_stamp"`
}

// FileDB is a handle to a file database on the local file system.
//
// The handle owns a single logical connection and is not safe for
// unsynchronized concurrent use. Close releases the connection and runs
// a best-effort retention sweep; a runtime cleanup does the same if the
// handle is dropped without Close.
type FileDB struct {
	db        *sql.DB
	closeOnce sync.Once
	cleanup   runtime.Cleanup
}

// Connect opens (creating if absent) a file database at path and
// bootstraps its schema.
func Connect(path string) (*FileDB, error) {
	dsn, err := sqliteDSN(path)
	if err != nil {
		return nil, generalError(err.Error())
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, internalError("open database", err)
	}

	if err := configureDB(db); err != nil {
		_ = db.Close()
		return nil, internalError("configure database", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, internalError("bootstrap schema", err)
	}

	f := &FileDB{db: db}
	f.cleanup = runtime.AddCleanup(f, func(db *sql.DB) { _ = releaseDB(db) }, db)
	return f, nil
}

// AddFile stores data under (key, timeStamp).
//
// The time stamp is truncated to whole seconds. A nil data slice is
// stored as SQL NULL; any other slice, including an empty one, is stored
// zlib-compressed. A duplicate (key, second) pair is rejected: the
// engine's constraint violation comes back as a KindInternal error.
func (f *FileDB) AddFile(ctx context.Context, key string, timeStamp time.Time, data []byte) error {
	var stored any
	if data != nil {
		compressed, err := compress(data)
		if err != nil {
			return internalError("compress data", err)
		}
		stored = compressed
	}

	if _, err := f.db.ExecContext(ctx, insertFileSQL, key, timeStamp.Unix(), stored); err != nil {
		return internalError("insert file", err)
	}
	return nil
}

// RetrieveFile returns the payload stored under (key, timeStamp).
//
// The time stamp is truncated to whole seconds before lookup. If no row
// matches, the error is KindTimeStampNotAvailable. If the row holds SQL
// NULL the result is (nil, nil); an empty payload comes back as a
// non-nil empty slice.
func (f *FileDB) RetrieveFile(ctx context.Context, key string, timeStamp time.Time) ([]byte, error) {
	seconds := timeStamp.Unix()

	var stored []byte
	err := f.db.QueryRowContext(ctx, retrieveFileSQL, key, seconds).Scan(&stored)
	if err == sql.ErrNoRows {
		return nil, timeStampNotAvailableError(key, time.Unix(seconds, 0).UTC())
	}
	if err != nil {
		return nil, internalError("retrieve file", err)
	}
	if stored == nil {
		return nil, nil
	}

	data, err := decompress(stored)
	if err != nil {
		return nil, internalError("decompress data", err)
	}
	return data, nil
}

// RetrieveLatest returns the payload stored under the key's greatest
// time stamp, along with that time stamp. A key with no rows at all
// fails with KindNoMatch.
func (f *FileDB) RetrieveLatest(ctx context.Context, key string) ([]byte, time.Time, error) {
	var seconds int64
	var stored []byte
	err := f.db.QueryRowContext(ctx, retrieveLatestSQL, key).Scan(&seconds, &stored)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, noMatchError(key)
	}
	if err != nil {
		return nil, time.Time{}, internalError("retrieve latest", err)
	}

	timeStamp := time.Unix(seconds, 0).UTC()
	if stored == nil {
		return nil, timeStamp, nil
	}
	data, err := decompress(stored)
	if err != nil {
		return nil, time.Time{}, internalError("decompress data", err)
	}
	return data, timeStamp, nil
}

// Timestamps returns every time stamp stored for key in ascending order.
// A key with no rows at all fails with KindNoMatch.
func (f *FileDB) Timestamps(ctx context.Context, key string) ([]time.Time, error) {
	rows, err := f.db.QueryContext(ctx, listTimestampsSQL, key)
	if err != nil {
		return nil, internalError("list timestamps", err)
	}
	defer rows.Close()

	var timestamps []time.Time
	for rows.Next() {
		var seconds int64
		if err := rows.Scan(&seconds); err != nil {
			return nil, internalError("scan timestamp", err)
		}
		timestamps = append(timestamps, time.Unix(seconds, 0).UTC())
	}
	if err := rows.Err(); err != nil {
		return nil, internalError("list timestamps", err)
	}
	if len(timestamps) == 0 {
		return nil, noMatchError(key)
	}
	return timestamps, nil
}

// ListAll returns the (key, time stamp) pair of every stored row, in
// whatever order the engine yields. Enumeration is best-effort: rows
// that fail to scan are skipped, and the skipped count is returned so
// partial failure stays observable.
func (f *FileDB) ListAll(ctx context.Context) ([]Entry, int, error) {
	rows, err := f.db.QueryContext(ctx, listAllSQL)
	if err != nil {
		return nil, 0, internalError("list files", err)
	}
	defer rows.Close()

	entries := []Entry{}
	skipped := 0
	for rows.Next() {
		var key string
		var seconds int64
		if err := rows.Scan(&key, &seconds); err != nil {
			skipped++
			continue
		}
		entries = append(entries, Entry{Key: key, TimeStamp: time.Unix(seconds, 0).UTC()})
	}
	if err := rows.Err(); err != nil {
		return nil, skipped, internalError("list files", err)
	}
	return entries, skipped, nil
}

// Close runs the retention sweep and releases the underlying connection.
// The sweep deletes rows older than 365 days and its failure is
// swallowed; it must never make Close itself fail. Close is safe to call
// more than once; only the first call does anything.
func (f *FileDB) Close() error {
	if f == nil || f.db == nil {
		return nil
	}
	var err error
	f.closeOnce.Do(func() {
		f.cleanup.Stop()
		err = releaseDB(f.db)
	})
	return err
}

// releaseDB is the single teardown path, shared by Close and the
// runtime cleanup backstop. The sweep error is discarded here; the
// connection close error is the caller's to keep or drop.
func releaseDB(db *sql.DB) error {
	horizon := time.Now().UTC().AddDate(0, 0, -retentionDays).Unix()
	_, _ = db.Exec(deleteExpiredSQL, horizon)
	return db.Close()
}

func configureDB(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		fmt.Sprintf("PRAGMA busy_timeout = %d;", busyTimeoutMS),
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	// Tune connection pool for single-handle local usage.
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	return nil
}

func sqliteDSN(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("db path is required")
	}
	u := url.URL{Scheme: "file", Path: path}
	return u.String(), nil
}
