package main

import (
	"fmt"
	"sort"
)

// BufferLevel classifies a language's content runway.
type BufferLevel string

const (
	BufferHealthy  BufferLevel = "healthy"
	BufferLow      BufferLevel = "low"
	BufferCritical BufferLevel = "critical"
)

// LanguageHealth is the health report for one language's content stores.
type LanguageHealth struct {
	Language       Language
	QueuedCount    int
	ScheduledCount int
	PublishedCount int
	Buffer         int
	Level          BufferLevel
	DuplicateSlugs []string
	MalformedFiles []string
}

// Health inspects one language: buffer size (queued+scheduled) against the
// configured thresholds, duplicate slugs across the queued+scheduled+
// published union, and files whose frontmatter failed to decode. Duplicates
// are reported, never silently resolved.
func (qm *QueueManager) Health(lang Language) (*LanguageHealth, error) {
	h := &LanguageHealth{Language: lang}

	slugCount := make(map[string]int)
	for _, section := range []string{SectionQueue, SectionBlog} {
		recs, err := qm.store.List(lang.Code, section)
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			if rec.ParseErr != nil {
				h.MalformedFiles = append(h.MalformedFiles, rec.Path)
				continue
			}
			if slug := rec.Slug(); slug != "" {
				slugCount[slug]++
			}
			switch rec.State() {
			case StateQueued:
				h.QueuedCount++
			case StateScheduled:
				h.ScheduledCount++
			case StatePublished:
				h.PublishedCount++
			}
		}
	}

	for slug, n := range slugCount {
		if n > 1 {
			h.DuplicateSlugs = append(h.DuplicateSlugs, slug)
		}
	}
	sort.Strings(h.DuplicateSlugs)

	h.Buffer = h.QueuedCount + h.ScheduledCount
	switch {
	case h.Buffer <= qm.cfg.Publishing.CriticalBuffer:
		h.Level = BufferCritical
	case h.Buffer < qm.cfg.Publishing.MinBuffer:
		h.Level = BufferLow
	default:
		h.Level = BufferHealthy
	}

	return h, nil
}

// HealthAll reports health for every configured language in priority order.
func (qm *QueueManager) HealthAll() ([]*LanguageHealth, error) {
	var reports []*LanguageHealth
	for _, lang := range qm.cfg.LanguagesByPriority() {
		h, err := qm.Health(lang)
		if err != nil {
			return nil, fmt.Errorf("health check for %s: %w", lang.Code, err)
		}
		reports = append(reports, h)
	}
	return reports, nil
}
