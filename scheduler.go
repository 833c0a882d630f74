package main

import (
	"fmt"
	"sort"
	"time"
)

// DecisionAction is what the daily policy decided to do for a language.
type DecisionAction int

const (
	ActionSkip DecisionAction = iota
	ActionPublish
)

// Decision is the outcome of evaluating the daily policy for one language.
type Decision struct {
	Action DecisionAction
	Reason string
	Record *Record
}

// Scheduler evaluates the single-language daily publishing policy:
//
//  1. weekends are skipped when configured
//  2. nothing is published twice on the same day
//  3. a record scheduled for today wins over the queue
//  4. otherwise the best queued record (priority, then FIFO) is taken
//  5. an empty queue is a skip, not an error
type Scheduler struct {
	qm    *QueueManager
	store *Store
	cfg   *Config
	now   func() time.Time
}

// NewScheduler creates a scheduler over the given queue manager.
func NewScheduler(qm *QueueManager, cfg *Config) *Scheduler {
	return &Scheduler{qm: qm, store: qm.store, cfg: cfg, now: time.Now}
}

// Decide evaluates the policy for one language without mutating anything.
func (s *Scheduler) Decide(lang string) (*Decision, error) {
	today := s.now()
	todayStr := today.Format(dateLayout)

	if s.cfg.Publishing.SkipWeekends {
		if wd := today.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return &Decision{Action: ActionSkip, Reason: ReasonWeekend}, nil
		}
	}

	published, err := s.qm.Published(lang)
	if err != nil {
		return nil, err
	}
	publishedToday := 0
	var todayRec *Record
	for _, rec := range published {
		if rec.Date() == todayStr {
			publishedToday++
			todayRec = rec
		}
	}
	// The per-day cap counts everything already dated today, so a re-run
	// after a successful publish is an idempotent skip.
	if publishedToday >= s.cfg.Publishing.MaxPerLanguagePerDay {
		return &Decision{Action: ActionSkip, Reason: ReasonAlreadyPublished, Record: todayRec}, nil
	}

	scheduled, err := s.qm.Scheduled(lang)
	if err != nil {
		return nil, err
	}
	for _, rec := range scheduled {
		if rec.ScheduledFor() == todayStr {
			return &Decision{Action: ActionPublish, Reason: "scheduled", Record: rec}, nil
		}
	}

	queued, err := s.qm.Queued(lang)
	if err != nil {
		return nil, err
	}
	if next := selectNextQueued(queued); next != nil {
		return &Decision{Action: ActionPublish, Reason: "queued", Record: next}, nil
	}

	return &Decision{Action: ActionSkip, Reason: ReasonEmptyQueue}, nil
}

// selectNextQueued picks the next record to publish: high priority first,
// then oldest queue entry (FIFO). The sort is stable so equal records keep
// their listing order.
func selectNextQueued(queued []*Record) *Record {
	if len(queued) == 0 {
		return nil
	}
	sorted := make([]*Record, len(queued))
	copy(sorted, queued)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := priorityRank(sorted[i].Priority()), priorityRank(sorted[j].Priority())
		if ri != rj {
			return ri < rj
		}
		return sorted[i].QueuedAt().Before(sorted[j].QueuedAt())
	})
	return sorted[0]
}

func priorityRank(priority string) int {
	if priority == PriorityHigh {
		return 0
	}
	return 1
}

// Publish performs the publish action for a decided record: rewrite the
// date to today, strip scheduling metadata, move to the published section.
// Single attempt, no retry; callers decide what to do on failure.
func (s *Scheduler) Publish(rec *Record) error {
	rec.SetMeta("date", s.now().Format(dateLayout))
	rec.DeleteMeta("scheduledFor")
	rec.DeleteMeta("scheduledAt")
	rec.DeleteMeta("queuedAt")
	rec.DeleteMeta("priority")

	if err := s.store.Move(rec, SectionBlog); err != nil {
		return fmt.Errorf("publishing %s: %w", rec.Filename(), err)
	}
	return nil
}

// PublishToday evaluates the policy for one language and applies the
// publish action when the decision calls for one.
func (s *Scheduler) PublishToday(lang string) (*Decision, error) {
	decision, err := s.Decide(lang)
	if err != nil {
		return nil, err
	}
	if decision.Action != ActionPublish {
		return decision, nil
	}
	if err := s.Publish(decision.Record); err != nil {
		return decision, err
	}
	return decision, nil
}
