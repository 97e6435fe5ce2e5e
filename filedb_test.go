package filedb

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"
)

// testDB creates a temporary file database for testing.
func testDB(t *testing.T) *FileDB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Connect(path)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	payload := []byte("the quick brown fox jumps over the lazy dog")
	if err := db.AddFile(ctx, "fox.txt", now, payload); err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := db.RetrieveFile(ctx, "fox.txt", now)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("expected %q, got %q", payload, got)
	}
}

func TestRoundTripEmptyPayload(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := db.AddFile(ctx, "empty.txt", now, []byte{}); err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := db.RetrieveFile(ctx, "empty.txt", now)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if got == nil {
		t.Fatal("expected non-nil empty payload, got nil")
	}
	if len(got) != 0 {
		t.Fatalf("expected empty payload, got %d bytes", len(got))
	}
}

func TestNilPayloadStoredAsNull(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := db.AddFile(ctx, "null.txt", now, nil); err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := db.RetrieveFile(ctx, "null.txt", now)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil payload for NULL row, got %q", got)
	}
}

func TestSecondResolutionTruncation(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 30, 45, 0, time.UTC)

	if err := db.AddFile(ctx, "clock.txt", base.Add(300*time.Millisecond), []byte("tick")); err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := db.RetrieveFile(ctx, "clock.txt", base.Add(900*time.Millisecond))
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if string(got) != "tick" {
		t.Fatalf("expected 'tick', got %q", got)
	}
}

func TestDuplicatePairRejected(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := db.AddFile(ctx, "dup.txt", now, []byte("one")); err != nil {
		t.Fatalf("first add: %v", err)
	}
	err := db.AddFile(ctx, "dup.txt", now.Add(500*time.Millisecond), []byte("two"))
	if err == nil {
		t.Fatal("expected duplicate (key, second) insert to fail")
	}
	fe, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if fe.Kind != KindInternal {
		t.Fatalf("expected KindInternal, got %v", fe.Kind)
	}

	// The first row is untouched.
	got, err := db.RetrieveFile(ctx, "dup.txt", now)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if string(got) != "one" {
		t.Fatalf("expected 'one', got %q", got)
	}
}

func TestMissingLookup(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := db.AddFile(ctx, "present.txt", now, []byte("here")); err != nil {
		t.Fatalf("add: %v", err)
	}

	_, err := db.RetrieveFile(ctx, "present.txt", now.Add(time.Hour))
	if err == nil {
		t.Fatal("expected error for missing timestamp")
	}
	if !IsTimeStampNotAvailable(err) {
		t.Fatalf("expected timestamp-not-available error, got %v", err)
	}

	_, err = db.RetrieveFile(ctx, "absent.txt", now)
	if !IsTimeStampNotAvailable(err) {
		t.Fatalf("expected timestamp-not-available error for absent key, got %v", err)
	}
}

func TestConcreteScenario(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	day1 := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

	if err := db.AddFile(ctx, "report.txt", day1, []byte("hello")); err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := db.RetrieveFile(ctx, "report.txt", day1)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("expected 'hello', got %q", got)
	}

	_, err = db.RetrieveFile(ctx, "report.txt", day2)
	if !IsTimeStampNotAvailable(err) {
		t.Fatalf("expected timestamp-not-available error, got %v", err)
	}
	fe := err.(*Error)
	if fe.Key != "report.txt" {
		t.Fatalf("expected key in error, got %q", fe.Key)
	}
	if !fe.TimeStamp.Equal(day2) {
		t.Fatalf("expected timestamp %v in error, got %v", day2, fe.TimeStamp)
	}
}

func TestListAll(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	want := map[Entry]bool{
		{Key: "a.txt", TimeStamp: base}:                    true,
		{Key: "a.txt", TimeStamp: base.Add(time.Minute)}:   true,
		{Key: "b.txt", TimeStamp: base}:                    true,
		{Key: "c.txt", TimeStamp: base.Add(2 * time.Hour)}: true,
	}
	for entry := range want {
		if err := db.AddFile(ctx, entry.Key, entry.TimeStamp, []byte(entry.Key)); err != nil {
			t.Fatalf("add %v: %v", entry, err)
		}
	}

	entries, skipped, err := db.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if skipped != 0 {
		t.Fatalf("expected no skipped rows, got %d", skipped)
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for _, entry := range entries {
		if !want[entry] {
			t.Fatalf("unexpected entry %v", entry)
		}
	}
}

func TestListAllEmpty(t *testing.T) {
	db := testDB(t)

	entries, skipped, err := db.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if skipped != 0 {
		t.Fatalf("expected no skipped rows, got %d", skipped)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}

func TestTimestamps(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for _, offset := range []time.Duration{2 * time.Hour, 0, time.Minute} {
		if err := db.AddFile(ctx, "series.txt", base.Add(offset), []byte("v")); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	timestamps, err := db.Timestamps(ctx, "series.txt")
	if err != nil {
		t.Fatalf("timestamps: %v", err)
	}
	if len(timestamps) != 3 {
		t.Fatalf("expected 3 timestamps, got %d", len(timestamps))
	}
	for i := 1; i < len(timestamps); i++ {
		if !timestamps[i-1].Before(timestamps[i]) {
			t.Fatalf("expected ascending order, got %v", timestamps)
		}
	}

	_, err = db.Timestamps(ctx, "nothing.txt")
	if !IsNoMatch(err) {
		t.Fatalf("expected no-match error, got %v", err)
	}
}

func TestRetrieveLatest(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	if err := db.AddFile(ctx, "log.txt", base, []byte("old")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := db.AddFile(ctx, "log.txt", base.Add(time.Hour), []byte("new")); err != nil {
		t.Fatalf("add: %v", err)
	}

	got, timeStamp, err := db.RetrieveLatest(ctx, "log.txt")
	if err != nil {
		t.Fatalf("retrieve latest: %v", err)
	}
	if string(got) != "new" {
		t.Fatalf("expected 'new', got %q", got)
	}
	if !timeStamp.Equal(base.Add(time.Hour)) {
		t.Fatalf("expected timestamp %v, got %v", base.Add(time.Hour), timeStamp)
	}

	_, _, err = db.RetrieveLatest(ctx, "nothing.txt")
	if !IsNoMatch(err) {
		t.Fatalf("expected no-match error, got %v", err)
	}
}

func TestStoredBytesAreCompressed(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	payload := bytes.Repeat([]byte("abcd"), 4096)
	if err := db.AddFile(ctx, "big.txt", now, payload); err != nil {
		t.Fatalf("add: %v", err)
	}

	var stored []byte
	if err := db.db.QueryRow(retrieveFileSQL, "big.txt", now.Unix()).Scan(&stored); err != nil {
		t.Fatalf("raw scan: %v", err)
	}
	if bytes.Equal(stored, payload) {
		t.Fatal("stored bytes must not be the raw payload")
	}
	if len(stored) >= len(payload) {
		t.Fatalf("expected compressed bytes smaller than %d, got %d", len(payload), len(stored))
	}
}

func TestCorruptStoredDataSurfacesError(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := db.db.Exec(insertFileSQL, "corrupt.bin", now.Unix(), []byte("not a zlib stream")); err != nil {
		t.Fatalf("raw insert: %v", err)
	}

	_, err := db.RetrieveFile(ctx, "corrupt.bin", now)
	if err == nil {
		t.Fatal("expected decompression error")
	}
	fe, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if fe.Kind != KindInternal {
		t.Fatalf("expected KindInternal, got %v", fe.Kind)
	}
}

func TestCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "close.db")
	db, err := Connect(path)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	var nilDB *FileDB
	if err := nilDB.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}

func TestConnectEmptyPath(t *testing.T) {
	_, err := Connect("")
	if err == nil {
		t.Fatal("expected error for empty path")
	}
	fe, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if fe.Kind != KindGeneral {
		t.Fatalf("expected KindGeneral, got %v", fe.Kind)
	}
}
