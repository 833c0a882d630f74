package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-03-07 is a Saturday.
var testSaturday = time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)

func TestDecideSkipsWeekend(t *testing.T) {
	cfg := testConfig(t)
	_, _, sched, _ := newTestPipeline(t, cfg, testSaturday)

	writeRecord(t, cfg.ContentDir, "en", SectionQueue, "post.md", queuedMeta("Post", "post", ""), "body")

	decision, err := sched.Decide("en")
	require.NoError(t, err)
	assert.Equal(t, ActionSkip, decision.Action)
	assert.Equal(t, ReasonWeekend, decision.Reason)
}

func TestDecidePublishesOnWeekendWhenAllowed(t *testing.T) {
	cfg := testConfig(t)
	cfg.Publishing.SkipWeekends = false
	_, _, sched, _ := newTestPipeline(t, cfg, testSaturday)

	writeRecord(t, cfg.ContentDir, "en", SectionQueue, "post.md", queuedMeta("Post", "post", ""), "body")

	decision, err := sched.Decide("en")
	require.NoError(t, err)
	assert.Equal(t, ActionPublish, decision.Action)
}

func TestDecideSkipsWhenAlreadyPublishedToday(t *testing.T) {
	cfg := testConfig(t)
	_, _, sched, _ := newTestPipeline(t, cfg, testNow)

	done := queuedMeta("Done", "done", "")
	done["date"] = testNow.Format(dateLayout)
	writeRecord(t, cfg.ContentDir, "en", SectionBlog, "done.md", done, "body")
	writeRecord(t, cfg.ContentDir, "en", SectionQueue, "next.md", queuedMeta("Next", "next", ""), "body")

	decision, err := sched.Decide("en")
	require.NoError(t, err)
	assert.Equal(t, ActionSkip, decision.Action)
	assert.Equal(t, ReasonAlreadyPublished, decision.Reason)
	require.NotNil(t, decision.Record)
	assert.Equal(t, "Done", decision.Record.Title())
}

func TestDecideCapAllowsSecondPublish(t *testing.T) {
	cfg := testConfig(t)
	cfg.Publishing.MaxPerLanguagePerDay = 2
	_, _, sched, _ := newTestPipeline(t, cfg, testNow)

	done := queuedMeta("Done", "done", "")
	done["date"] = testNow.Format(dateLayout)
	writeRecord(t, cfg.ContentDir, "en", SectionBlog, "done.md", done, "body")
	writeRecord(t, cfg.ContentDir, "en", SectionQueue, "next.md", queuedMeta("Next", "next", ""), "body")

	decision, err := sched.Decide("en")
	require.NoError(t, err)
	assert.Equal(t, ActionPublish, decision.Action)
	assert.Equal(t, "Next", decision.Record.Title())
}

func TestDecidePrefersScheduledForToday(t *testing.T) {
	cfg := testConfig(t)
	_, _, sched, _ := newTestPipeline(t, cfg, testNow)

	for _, name := range []string{"q1", "q2", "q3"} {
		writeRecord(t, cfg.ContentDir, "en", SectionQueue, name+".md",
			queuedMeta(name, name, ""), "body")
	}
	today := queuedMeta("Planned", "planned", "")
	today["scheduledFor"] = testNow.Format(dateLayout)
	writeRecord(t, cfg.ContentDir, "en", SectionQueue, "planned.md", today, "body")

	decision, err := sched.Decide("en")
	require.NoError(t, err)
	assert.Equal(t, ActionPublish, decision.Action)
	assert.Equal(t, "scheduled", decision.Reason)
	assert.Equal(t, "Planned", decision.Record.Title())
}

func TestDecideIgnoresScheduledForOtherDays(t *testing.T) {
	cfg := testConfig(t)
	_, _, sched, _ := newTestPipeline(t, cfg, testNow)

	future := queuedMeta("Future", "future", "")
	future["scheduledFor"] = "2026-03-10"
	writeRecord(t, cfg.ContentDir, "en", SectionQueue, "future.md", future, "body")

	decision, err := sched.Decide("en")
	require.NoError(t, err)
	assert.Equal(t, ActionSkip, decision.Action)
	assert.Equal(t, ReasonEmptyQueue, decision.Reason)
}

func TestSelectNextQueuedPriorityThenFIFO(t *testing.T) {
	t1 := "2026-03-01T08:00:00Z"
	t2 := "2026-03-02T08:00:00Z"
	t3 := "2026-03-03T08:00:00Z"

	oldest := &Record{Meta: queuedMeta("Oldest", "oldest", t1)}
	high := &Record{Meta: queuedMeta("High", "high", t2)}
	high.Meta["priority"] = PriorityHigh
	newest := &Record{Meta: queuedMeta("Newest", "newest", t3)}

	next := selectNextQueued([]*Record{oldest, high, newest})
	require.NotNil(t, next)
	assert.Equal(t, "High", next.Title())

	// Without the high-priority entry, the oldest wins.
	next = selectNextQueued([]*Record{newest, oldest})
	assert.Equal(t, "Oldest", next.Title())

	assert.Nil(t, selectNextQueued(nil))
}

func TestPublishStampsDateAndStripsQueueMetadata(t *testing.T) {
	cfg := testConfig(t)
	store, _, sched, _ := newTestPipeline(t, cfg, testNow)

	meta := queuedMeta("Post", "post", "2026-03-01T08:00:00Z")
	meta["priority"] = PriorityHigh
	meta["scheduledFor"] = testNow.Format(dateLayout)
	meta["scheduledAt"] = "2026-03-02T08:00:00Z"
	writeRecord(t, cfg.ContentDir, "en", SectionQueue, "post.md", meta, "body")

	rec, err := store.Read("en", SectionQueue, "post.md")
	require.NoError(t, err)
	require.NoError(t, sched.Publish(rec))

	published, err := store.Read("en", SectionBlog, "post.md")
	require.NoError(t, err)
	assert.Equal(t, testNow.Format(dateLayout), published.Date())
	for _, key := range []string{"scheduledFor", "scheduledAt", "queuedAt", "priority"} {
		_, ok := published.Meta[key]
		assert.False(t, ok, "%s should be stripped on publish", key)
	}
	assert.Equal(t, StatePublished, published.State())
}

func TestPublishTodayMovesRecord(t *testing.T) {
	cfg := testConfig(t)
	store, qm, sched, _ := newTestPipeline(t, cfg, testNow)

	writeRecord(t, cfg.ContentDir, "en", SectionQueue, "post.md", queuedMeta("Post", "post", ""), "body")

	decision, err := sched.PublishToday("en")
	require.NoError(t, err)
	assert.Equal(t, ActionPublish, decision.Action)

	queued, err := qm.Queued("en")
	require.NoError(t, err)
	assert.Empty(t, queued)
	assert.True(t, store.Exists(filepath.Join(store.Dir("en", SectionBlog), "post.md")))
}
