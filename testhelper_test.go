package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// testConfig returns a two-language configuration rooted at a temp dir.
func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ContentDir = t.TempDir()
	return cfg
}

// testClock returns a fixed clock function. 2026-03-04 is a Wednesday, so
// scheduling tests are not at the mercy of the real calendar.
var testNow = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// newTestPipeline wires a pipeline over cfg.ContentDir with a fixed clock.
func newTestPipeline(t *testing.T, cfg *Config, now time.Time) (*Store, *QueueManager, *Scheduler, *Publisher) {
	t.Helper()
	store := NewStore(cfg.ContentDir)
	qm := NewQueueManager(store, cfg)
	qm.now = fixedClock(now)
	sched := NewScheduler(qm, cfg)
	sched.now = fixedClock(now)
	pub := NewPublisher(sched, cfg)
	return store, qm, sched, pub
}

// writeRecord writes an encoded record file into the store layout and
// returns its path.
func writeRecord(t *testing.T, root, lang, section, name string, meta map[string]any, body string) string {
	t.Helper()
	blob, err := EncodeRecord(meta, body)
	require.NoError(t, err)

	dir := filepath.Join(root, lang, section)
	require.NoError(t, os.MkdirAll(dir, 0755))

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(blob), 0644))
	return path
}

// writeRawFile writes arbitrary bytes into the store layout.
func writeRawFile(t *testing.T, root, lang, section, name, content string) string {
	t.Helper()
	dir := filepath.Join(root, lang, section)
	require.NoError(t, os.MkdirAll(dir, 0755))

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// queuedMeta builds minimal queued-record metadata.
func queuedMeta(title, slug, queuedAt string) map[string]any {
	meta := map[string]any{
		"title":   title,
		"slug":    slug,
		"author":  "Editorial Team",
		"excerpt": "An excerpt.",
		"tags":    []string{"consulting"},
	}
	if queuedAt != "" {
		meta["queuedAt"] = queuedAt
	}
	return meta
}
