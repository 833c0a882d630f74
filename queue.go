package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Preferred publish weekdays for auto-scheduling. Midweek slots keep a
// steady cadence; the fallback window guarantees progress when they are
// all taken.
var preferredWeekdays = map[time.Weekday]bool{
	time.Tuesday:   true,
	time.Wednesday: true,
	time.Thursday:  true,
}

const (
	preferredWindowDays = 30
	fallbackWindowDays  = 60
)

// QueueManager provides per-language views and mutations over the store.
// The distinguishing predicate between queued and scheduled records is the
// presence of a scheduledFor date.
type QueueManager struct {
	store *Store
	cfg   *Config
	now   func() time.Time
}

// NewQueueManager creates a queue manager over the given store.
func NewQueueManager(store *Store, cfg *Config) *QueueManager {
	return &QueueManager{store: store, cfg: cfg, now: time.Now}
}

// queueRecords lists valid queue-section records for one language or, when
// lang is empty, all configured languages in priority order.
func (qm *QueueManager) queueRecords(lang string) ([]*Record, error) {
	return qm.sectionRecords(lang, SectionQueue)
}

func (qm *QueueManager) sectionRecords(lang, section string) ([]*Record, error) {
	langs := []string{lang}
	if lang == "" {
		langs = langs[:0]
		for _, l := range qm.cfg.LanguagesByPriority() {
			langs = append(langs, l.Code)
		}
	}

	var records []*Record
	for _, l := range langs {
		recs, err := qm.store.List(l, section)
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			if rec.ParseErr != nil {
				continue
			}
			records = append(records, rec)
		}
	}
	return records, nil
}

// Queued returns records waiting in the queue with no scheduled date.
func (qm *QueueManager) Queued(lang string) ([]*Record, error) {
	recs, err := qm.queueRecords(lang)
	if err != nil {
		return nil, err
	}
	var queued []*Record
	for _, rec := range recs {
		if rec.ScheduledFor() == "" {
			queued = append(queued, rec)
		}
	}
	return queued, nil
}

// Scheduled returns records with a scheduledFor date, ascending by that
// date. Records with equal dates keep their listing order.
func (qm *QueueManager) Scheduled(lang string) ([]*Record, error) {
	recs, err := qm.queueRecords(lang)
	if err != nil {
		return nil, err
	}
	var scheduled []*Record
	for _, rec := range recs {
		if rec.ScheduledFor() != "" {
			scheduled = append(scheduled, rec)
		}
	}
	sort.SliceStable(scheduled, func(i, j int) bool {
		return scheduled[i].ScheduledFor() < scheduled[j].ScheduledFor()
	})
	return scheduled, nil
}

// Published returns published records, most recent date first.
func (qm *QueueManager) Published(lang string) ([]*Record, error) {
	recs, err := qm.sectionRecords(lang, SectionBlog)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Date() > recs[j].Date()
	})
	return recs, nil
}

// MoveToQueue promotes a draft into the queue: stamps priority, locale and
// queuedAt, defaults publishDate to auto and assigns an id when absent,
// writes the queued copy, then deletes the draft.
func (qm *QueueManager) MoveToQueue(filename, priority, lang string) (*Record, error) {
	rec, err := qm.store.Read(lang, SectionDrafts, filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %s (%s)", ErrDraftNotFound, filename, lang)
	}
	if rec.ParseErr != nil {
		return nil, fmt.Errorf("draft %s: %w", filename, rec.ParseErr)
	}

	switch priority {
	case PriorityHigh, PriorityNormal, PriorityLow:
	case "":
		priority = PriorityNormal
	default:
		return nil, fmt.Errorf("invalid priority %q (must be high, normal or low)", priority)
	}

	draftPath := rec.Path
	rec.SetMeta("priority", priority)
	rec.SetMeta("locale", lang)
	rec.SetMeta("queuedAt", qm.now().Format(time.RFC3339))
	if rec.metaString("publishDate") == "" {
		rec.SetMeta("publishDate", "auto")
	}
	if rec.metaString("id") == "" {
		rec.SetMeta("id", uuid.NewString())
	}

	rec.Section = SectionQueue
	if err := qm.store.Write(rec); err != nil {
		return nil, err
	}
	if err := qm.store.Delete(draftPath); err != nil {
		return nil, err
	}
	return rec, nil
}

// Schedule assigns a publish date to a queued record. The date must not
// collide with any other scheduled record in the same language.
func (qm *QueueManager) Schedule(filename, publishDate, lang string) (*Record, error) {
	if _, err := time.Parse(dateLayout, publishDate); err != nil {
		return nil, fmt.Errorf("invalid publish date %q: %w", publishDate, err)
	}

	scheduled, err := qm.Scheduled(lang)
	if err != nil {
		return nil, err
	}
	for _, other := range scheduled {
		if other.Filename() == filename {
			continue
		}
		if other.ScheduledFor() == publishDate {
			return nil, fmt.Errorf("%w: %s is taken by %s", ErrDateCollision, publishDate, other.Filename())
		}
	}

	rec, err := qm.store.Read(lang, SectionQueue, filename)
	if err != nil {
		return nil, err
	}
	if rec.ParseErr != nil {
		return nil, fmt.Errorf("record %s: %w", filename, rec.ParseErr)
	}

	rec.SetMeta("scheduledFor", publishDate)
	rec.SetMeta("scheduledAt", qm.now().Format(time.RFC3339))
	if err := qm.store.Write(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// NextAvailableDate scans forward from tomorrow for a free publish date:
// first a 30-day window restricted to the preferred midweek days, then a
// 60-day window accepting any day. Returns ok=false only when every day in
// the fallback window is excluded.
func (qm *QueueManager) NextAvailableDate(exclude map[string]bool) (string, bool) {
	start := qm.now().AddDate(0, 0, 1)

	for i := 0; i < preferredWindowDays; i++ {
		day := start.AddDate(0, 0, i)
		if !preferredWeekdays[day.Weekday()] {
			continue
		}
		if date := day.Format(dateLayout); !exclude[date] {
			return date, true
		}
	}
	for i := 0; i < fallbackWindowDays; i++ {
		day := start.AddDate(0, 0, i)
		if date := day.Format(dateLayout); !exclude[date] {
			return date, true
		}
	}
	return "", false
}

// AutoSchedule assigns the next available date to every queued record of a
// language (or of every target language when lang is empty), in listing
// order, accumulating claimed dates so no two records land on the same day.
// Returns the number of records scheduled.
func (qm *QueueManager) AutoSchedule(lang string) (int, error) {
	langs := []string{lang}
	if lang == "" {
		langs = langs[:0]
		for _, l := range qm.cfg.LanguagesByPriority() {
			langs = append(langs, l.Code)
		}
	}

	total := 0
	for _, l := range langs {
		n, err := qm.autoScheduleLanguage(l)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (qm *QueueManager) autoScheduleLanguage(lang string) (int, error) {
	scheduled, err := qm.Scheduled(lang)
	if err != nil {
		return 0, err
	}
	claimed := make(map[string]bool, len(scheduled))
	for _, rec := range scheduled {
		claimed[rec.ScheduledFor()] = true
	}

	queued, err := qm.Queued(lang)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, rec := range queued {
		date, ok := qm.NextAvailableDate(claimed)
		if !ok {
			return count, fmt.Errorf("no available publish date within %d days for %s", fallbackWindowDays, lang)
		}
		if _, err := qm.Schedule(rec.Filename(), date, lang); err != nil {
			return count, err
		}
		claimed[date] = true
		count++
	}
	return count, nil
}
